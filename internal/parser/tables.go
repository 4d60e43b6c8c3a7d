package parser

// Tablas de sinónimos y patrones. Solo lectura: se construyen una vez y
// nunca se mutan, por eso el parser es seguro para uso concurrente.

// unitSynonyms colapsa abreviaturas y declinaciones rusas a una forma canónica.
var unitSynonyms = map[string]string{
	"табл":      "таблетки",
	"таб":       "таблетки",
	"таблетка":  "таблетки",
	"таблетки":  "таблетки",
	"таблетке":  "таблетки",
	"таблетку":  "таблетки",
	"таблеток":  "таблетки",
	"кап":       "капли",
	"капля":     "капли",
	"капли":     "капли",
	"капле":     "капли",
	"каплю":     "капли",
	"капель":    "капли",
	"капсул":    "капсулы",
	"капсула":   "капсулы",
	"капсулы":   "капсулы",
	"капсулу":   "капсулы",
	"капсуле":   "капсулы",
	"впрыск":    "впрыска",
	"впрыска":   "впрыска",
	"впрысков":  "впрыска",
	"впрысках":  "впрыска",
	"пшик":      "пшик",
	"пшика":     "пшик",
	"пшиков":    "пшик",
	"доза":      "дозы",
	"дозы":      "дозы",
	"дозу":      "дозы",
	"доз":       "дозы",
}

// unitFamilies: fallback por prefijo cuando la declinación exacta no está en
// unitSynonyms. El orden importa ("капсул" antes que "кап").
var unitFamilies = []struct {
	prefix    string
	canonical string
}{
	{"капсул", "капсулы"},
	{"табл", "таблетки"},
	{"таб", "таблетки"},
	{"кап", "капли"},
	{"впрыск", "впрыска"},
	{"пшик", "пшик"},
	{"доз", "дозы"},
}

// numeralWords convierte numerales rusos escritos (con declinaciones) a enteros.
var numeralWords = map[string]int{
	"один":        1,
	"одна":        1,
	"одну":        1,
	"одно":        1,
	"одной":       1,
	"два":         2,
	"две":         2,
	"три":         3,
	"четыре":      4,
	"пять":        5,
	"шесть":       6,
	"семь":        7,
	"восемь":      8,
	"девять":      9,
	"десять":      10,
	"двенадцать":  12,
}

// partOfDayPatterns: frases de "parte del día" => tomas por día.
// Se consulta solo si no hubo señal explícita ni de intervalo.
var partOfDayPatterns = []struct {
	phrase      string
	timesPerDay int
}{
	{"утром и вечером", 2},
	{"утро и вечер", 2},
	{"утром, днем и вечером", 3},
	{"утром, днём и вечером", 3},
	{"утром днем и вечером", 3},
	{"утро, день, вечер", 3},
	{"только утром", 1},
	{"только вечером", 1},
}

// intervalHourPhrases: frases fijas de intervalo horario frecuentes en dictado.
var intervalHourPhrases = []struct {
	phrase string
	hours  int
}{
	{"каждые 3 час", 3},
	{"каждые три час", 3},
	{"каждые 4 час", 4},
	{"каждые четыре час", 4},
	{"каждые 6 час", 6},
	{"каждые шесть час", 6},
	{"каждые 8 час", 8},
	{"каждые восемь час", 8},
	{"каждые 12 час", 12},
	{"каждые двенадцать час", 12},
}

// fillerWords: muletillas de dictado que se eliminan en la normalización.
// Van rodeadas de espacios para no romper palabras.
var fillerWords = []string{
	" ну ",
	" так ",
	" эээ ",
	" эм ",
	" э ",
	" значит ",
	" в общем ",
	" типа ",
}

// duplicateTokens: palabras funcionales que el dictado suele duplicar
// ("по по 2 капли"). Se colapsan iterativamente.
var duplicateTokens = []string{"по", "каждые", "каждый", "каждую", "каждое"}

// serviceLinePrefixes: encabezados de nota clínica que no describen
// medicamentos y se descartan al segmentar.
var serviceLinePrefixes = []string{
	"жалобы:",
	"анамнез:",
	"осмотр:",
	"рекомендации:",
	"рекомендация:",
	"заключение:",
	"диагноз:",
}

// continuationLeadWords abren líneas que prolongan o modifican el
// medicamento en curso, nunca uno nuevo ("ещё 5 дней", "потом неделю").
var continuationLeadWords = map[string]bool{
	"ещё": true, "еще": true, "затем": true, "потом": true, "далее": true,
}

// nameStopTokens corta la recolección del nombre compuesto.
var nameStopTokens = map[string]bool{
	"по": true, "в": true, "во": true, "на": true, "при": true, "и": true,
	"раз": true, "раза": true,
	"день": true, "дня": true, "дней": true,
	"каждые": true, "каждый": true, "каждую": true, "каждое": true,
	"утром": true, "днем": true, "днём": true, "вечером": true, "ночью": true,
	"до": true, "после": true, "перед": true,
}

// doseFormStems: raíces de formas farmacéuticas; un token que empieza por una
// de estas no puede formar parte del nombre.
var doseFormStems = []string{
	"табл", "таблетк",
	"капл", "кап.", "капли",
	"капсул",
	"впрыск", "пшик", "доза", "дозы",
	"спрей", "сироп", "раствор", "мазь", "гель",
}

// unitAbbrevs: abreviaturas de unidades, comparadas por igualdad exacta para
// no tragarse palabras que solo empiezan igual ("г" vs "гексорал").
var unitAbbrevs = map[string]bool{
	"мг": true, "мкг": true, "г": true, "мл": true, "ед": true, "%": true,
}

// genericFormWords: formas genéricas que no sirven como nombre por sí solas.
var genericFormWords = map[string]bool{
	"спрей": true, "раствор": true, "мазь": true, "гель": true,
	"сироп": true, "капли": true, "таблетки": true,
}

// extendedStopWords: para el fallback "primer token razonable".
var extendedStopWords = map[string]bool{
	"по": true, "в": true, "во": true, "на": true,
	"раз": true, "раза": true,
	"день": true, "дня": true, "дней": true,
	"таблетки": true, "таблетка": true, "табл": true,
	"капли": true, "капля": true, "кап": true,
	"капсулы": true, "капсула": true, "капсул": true,
	"спрей": true, "раствор": true, "мазь": true, "гель": true, "сироп": true,
	"каждые": true,
	"утром": true, "днем": true, "днём": true, "вечером": true, "ночью": true,
	"до": true, "после": true, "перед": true,
	"доза": true, "дозы": true, "доз": true,
}

// rejectedNames: fragmentos sueltos que jamás son un nombre válido.
// Mejor descartar el segmento que aceptar basura (precisión sobre cobertura).
var rejectedNames = map[string]bool{
	"доз": true, "доза": true, "дозы": true,
	"кап": true, "кап.": true, "капли": true,
}

// weekTextPatterns / monthTextPatterns: duraciones con numeral escrito.
var weekTextPatterns = []struct {
	phrase string
	weeks  int
}{
	{"одну недел", 1},
	{"одна недел", 1},
	{"две недел", 2},
	{"три недел", 3},
	{"четыре недел", 4},
	{"пять недел", 5},
	{"шесть недел", 6},
}

var monthTextPatterns = []struct {
	phrase string
	months int
}{
	{"один месяц", 1},
	{"один мес", 1},
	{"два месяц", 2},
	{"два мес", 2},
	{"три месяц", 3},
	{"три мес", 3},
	{"четыре месяц", 4},
	{"четыре мес", 4},
}

// commentRules: anotaciones clínicas reconocidas, en orden de descubrimiento.
// Las notas encontradas se unen con "; ".
var commentRules = []struct {
	trigger string
	note    string
}{
	{"через день", "Приём через день"},
	{"по необходимости", "По необходимости"},
	{"при необходимости", "По необходимости"},
	{"по требованию", "По необходимости"},
	{"потом", "Схема меняется со временем"},
	{"после еды", "Принимать после еды"},
	{"до еды", "Принимать до еды"},
	{"во время еды", "Принимать во время еды"},
	{"натощак", "Принимать натощак"},
	{"перед сном", "Принимать перед сном"},
	{"на ночь", "Принимать на ночь"},
	{"в каждый носовой ход", "В каждый носовой ход"},
	{"в оба уха", "В оба уха"},
	{"в оба носовых хода", "В оба носовых хода"},
}

func normalizeUnit(raw string) string {
	key := stripDots(raw)
	if canonical, ok := unitSynonyms[key]; ok {
		return canonical
	}
	for _, f := range unitFamilies {
		if len(key) >= len(f.prefix) && key[:len(f.prefix)] == f.prefix {
			return f.canonical
		}
	}
	return raw
}

func stripDots(s string) string {
	out := make([]byte, 0, len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '.' {
			continue
		}
		out = append(out, s[i])
	}
	return string(out)
}
