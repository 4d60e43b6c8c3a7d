package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Familias de forma farmacéutica con cantidad entera. "капсул" va antes que
// "кап" para que "2 капсулы" no case como gotas.
var dosageNumericRes = []*regexp.Regexp{
	regexp.MustCompile(`(?:по\s*)?(\d+)\s*(капсул[а-яё]*)`),
	regexp.MustCompile(`(?:по\s*)?(\d+)\s*(табл[а-яё]*|таб\.?)`),
	regexp.MustCompile(`(?:по\s*)?(\d+)\s*(капл[иья]|кап\.?)`),
	regexp.MustCompile(`(?:по\s*)?(\d+)\s*(доз[аыуе])`),
	regexp.MustCompile(`(?:по\s*)?(\d+)\s*(пшик[аов]*|впрыск[аов]*)`),
	regexp.MustCompile(`(?:по\s*)?(\d+)\s*(мл)`),
}

// Forma compacta/decimal: "500 мг", "0.5 г", "0,5 г", "5 мг/кг".
var dosageCompactRe = regexp.MustCompile(`(?:по\s*)?(\d+(?:[.,]\d+)?)\s*(мкг|мг|мл|г|ед)(?:\s*/\s*(кг|мл|сут))?`)

// Numeral escrito: "по две капли". Con y sin "по".
var textualDosageRes = []*regexp.Regexp{
	regexp.MustCompile(`по\s+([а-яё]+)\s+(капсул[а-яё]*)`),
	regexp.MustCompile(`по\s+([а-яё]+)\s+(табл[а-яё]*)`),
	regexp.MustCompile(`по\s+([а-яё]+)\s+(капл[иья])`),
	regexp.MustCompile(`по\s+([а-яё]+)\s+(доз[аыуе])`),
	regexp.MustCompile(`по\s+([а-яё]+)\s+(пшик[аов]*|впрыск[аов]*)`),
	regexp.MustCompile(`([а-яё]+)\s+(капсул[а-яё]*)`),
	regexp.MustCompile(`([а-яё]+)\s+(табл[а-яё]*)`),
	regexp.MustCompile(`([а-яё]+)\s+(капл[иья])`),
	regexp.MustCompile(`([а-яё]+)\s+(доз[аыуе])`),
	regexp.MustCompile(`([а-яё]+)\s+(пшик[аов]*|впрыск[аов]*)`),
}

// extractDosage devuelve "cantidad unidad" con la unidad canonicalizada,
// o false si el segmento no dice nada de dosis.
func extractDosage(segment string) (string, bool) {
	for _, re := range dosageNumericRes {
		if m := re.FindStringSubmatch(segment); m != nil {
			return m[1] + " " + normalizeUnit(m[2]), true
		}
	}

	if m := dosageCompactRe.FindStringSubmatch(segment); m != nil {
		amount := strings.ReplaceAll(m[1], ",", ".")
		unit := m[2]
		if m[3] != "" {
			unit += "/" + m[3]
		}
		return amount + " " + unit, true
	}

	if amount, unit, ok := extractTextualDosage(segment); ok {
		return strconv.Itoa(amount) + " " + normalizeUnit(unit), true
	}

	return "", false
}

func extractTextualDosage(segment string) (int, string, bool) {
	for _, re := range textualDosageRes {
		for _, m := range re.FindAllStringSubmatch(segment, -1) {
			if amount, ok := numeralWords[m[1]]; ok {
				return amount, m[2], true
			}
		}
	}
	return 0, "", false
}
