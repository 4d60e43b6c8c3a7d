package parser

import (
	"regexp"
	"strconv"
	"strings"
)

var (
	intervalDaysRe = regexp.MustCompile(`через\s+(\d+)\s*дн`)

	// rango "5-7 дней": gana la cota superior
	courseRangeRe = regexp.MustCompile(`курс:?\s*(\d+)\s*[–—-]\s*(\d+)\s*дн`)
	plainRangeRe  = regexp.MustCompile(`(\d+)\s*[–—-]\s*(\d+)\s*дн`)

	prepositionRe = regexp.MustCompile(`на\s+(\d+)\s*(дн|недел|месяц)`)

	weeksNumericRe  = regexp.MustCompile(`(\d+)\s*недел[ьияюе]`)
	monthsNumericRe = regexp.MustCompile(`(\d+)\s*месяц[аеов]*`)
	daysNumericRe   = regexp.MustCompile(`(\d+)\s*(?:день|дня|дней|дн\.?)`)
	daysTextualRe   = regexp.MustCompile(`([а-яё]+)\s+(?:день|дня|дней)`)
)

const (
	daysPerWeek  = 7
	daysPerMonth = 30
)

// extractDuration devuelve la duración del tratamiento en días.
// Orden de estrategias: intervalo "через N дней", rango (cota superior),
// forma "на N ...", semanas, meses, días sueltos.
func extractDuration(segment string) (int, bool) {
	if m := intervalDaysRe.FindStringSubmatch(segment); m != nil {
		if n := atoiPositive(m[1]); n > 0 {
			return n, true
		}
	}

	for _, re := range []*regexp.Regexp{courseRangeRe, plainRangeRe} {
		if m := re.FindStringSubmatch(segment); m != nil {
			if upper := atoiPositive(m[2]); upper > 0 {
				return upper, true
			}
		}
	}

	if m := prepositionRe.FindStringSubmatch(segment); m != nil {
		n := atoiPositive(m[1])
		if n > 0 {
			switch m[2] {
			case "недел":
				return n * daysPerWeek, true
			case "месяц":
				return n * daysPerMonth, true
			default:
				return n, true
			}
		}
	}

	if weeks, ok := extractWeeks(segment); ok {
		return weeks * daysPerWeek, true
	}
	if months, ok := extractMonths(segment); ok {
		return months * daysPerMonth, true
	}
	if days, ok := extractDays(segment); ok {
		return days, true
	}

	return 0, false
}

func extractWeeks(segment string) (int, bool) {
	for _, p := range weekTextPatterns {
		if strings.Contains(segment, p.phrase) {
			return p.weeks, true
		}
	}
	if m := weeksNumericRe.FindStringSubmatch(segment); m != nil {
		if n := atoiPositive(m[1]); n > 0 {
			return n, true
		}
	}
	return 0, false
}

func extractMonths(segment string) (int, bool) {
	for _, p := range monthTextPatterns {
		if strings.Contains(segment, p.phrase) {
			return p.months, true
		}
	}
	if m := monthsNumericRe.FindStringSubmatch(segment); m != nil {
		if n := atoiPositive(m[1]); n > 0 {
			return n, true
		}
	}
	return 0, false
}

func extractDays(segment string) (int, bool) {
	if m := daysNumericRe.FindStringSubmatch(segment); m != nil {
		if n := atoiPositive(m[1]); n > 0 {
			return n, true
		}
	}
	for _, m := range daysTextualRe.FindAllStringSubmatch(segment, -1) {
		if n, ok := numeralWords[m[1]]; ok {
			return n, true
		}
	}
	return 0, false
}

func atoiPositive(s string) int {
	n, err := strconv.Atoi(s)
	if err != nil || n < 0 {
		return 0
	}
	return n
}
