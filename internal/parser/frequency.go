package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Frequency es el resultado del extractor de frecuencia diaria.
// Alternative queda en 0 cuando no hay conflicto de señales.
type Frequency struct {
	TimesPerDay int
	// Alternative retiene el valor derivado del intervalo cuando contradice
	// a la señal explícita ("2 раза в день, каждые 8 часов" -> 2, alt 3).
	// El parser no adivina: la UI decide cómo desambiguar.
	Alternative int
}

var (
	explicitCountRes = []*regexp.Regexp{
		regexp.MustCompile(`(\d+)\s*раз[аы]?(?:\s*в\s*день)?`),
		regexp.MustCompile(`(\d+)\s*р\s*/\s*д`),
	}
	textualCountRe = regexp.MustCompile(`([а-яё]+)\s+раз[аы]?(?:\s*в\s*день)?`)

	intervalHoursRe   = regexp.MustCompile(`(?:каждые|через)\s+(\d+)\s*час`)
	intervalTextualRe = regexp.MustCompile(`(?:каждые|через)\s+([а-яё]+)\s*час`)
	intervalClockRe   = regexp.MustCompile(`(?:каждые|через)\s+(\d+):00`)
)

// extractFrequency reconcilia dos señales independientes: el recuento
// explícito ("3 раза в день") y el intervalo ("каждые 8 часов" => 24/8).
// Si ambas existen y discrepan, la explícita manda y el intervalo se
// conserva como alternativa. La tabla de partes del día solo se consulta
// cuando ninguna de las dos dispara.
func extractFrequency(segment string) (Frequency, bool) {
	explicit, hasExplicit := extractExplicitCount(segment)
	interval, hasInterval := extractIntervalCount(segment)

	switch {
	case hasExplicit && hasInterval && explicit != interval:
		return Frequency{TimesPerDay: explicit, Alternative: interval}, true
	case hasExplicit:
		return Frequency{TimesPerDay: explicit}, true
	case hasInterval:
		return Frequency{TimesPerDay: interval}, true
	}

	for _, p := range partOfDayPatterns {
		if strings.Contains(segment, p.phrase) {
			return Frequency{TimesPerDay: p.timesPerDay}, true
		}
	}

	return Frequency{}, false
}

func extractExplicitCount(segment string) (int, bool) {
	for _, re := range explicitCountRes {
		if m := re.FindStringSubmatch(segment); m != nil {
			if n, err := strconv.Atoi(m[1]); err == nil && n > 0 {
				return n, true
			}
		}
	}

	// "два раза в день" (el primer casamiento puede no ser numeral: seguimos)
	for _, m := range textualCountRe.FindAllStringSubmatch(segment, -1) {
		if n, ok := numeralWords[m[1]]; ok {
			return n, true
		}
	}

	return 0, false
}

func extractIntervalCount(segment string) (int, bool) {
	if m := intervalHoursRe.FindStringSubmatch(segment); m != nil {
		if hours, err := strconv.Atoi(m[1]); err == nil && hours > 0 {
			return timesFromInterval(hours), true
		}
	}

	for _, m := range intervalTextualRe.FindAllStringSubmatch(segment, -1) {
		if hours, ok := numeralWords[m[1]]; ok && hours > 0 {
			return timesFromInterval(hours), true
		}
	}

	// forma de reloj: "каждые 8:00"
	if m := intervalClockRe.FindStringSubmatch(segment); m != nil {
		if hours, err := strconv.Atoi(m[1]); err == nil && hours > 0 && hours <= 24 {
			return timesFromInterval(hours), true
		}
	}

	for _, p := range intervalHourPhrases {
		if strings.Contains(segment, p.phrase) {
			return timesFromInterval(p.hours), true
		}
	}

	return 0, false
}

func timesFromInterval(hours int) int {
	if hours < 1 {
		hours = 1
	}
	times := 24 / hours
	if times < 1 {
		times = 1
	}
	return times
}
