package parser

import (
	"regexp"
	"strings"
)

var (
	digitLetterGap = regexp.MustCompile(`([0-9])([а-яёa-z])`)
	letterDigitGap = regexp.MustCompile(`([а-яёa-z])([0-9])`)
)

// Normalize limpia el texto crudo antes de cualquier extracción:
// saltos de línea y espacios raros, minúsculas, muletillas, duplicados
// ("по по"), espacio entre dígito y letra ("500мг" -> "500 мг"), espacios
// repetidos. Es determinista e idempotente; nunca falla.
func Normalize(raw string) string {
	s := strings.NewReplacer(
		"\r\n", "\n",
		"\r", "\n",
		"\t", " ",
		" ", " ",
	).Replace(raw)
	s = strings.ToLower(s)

	// padding para que las muletillas al inicio/fin también casen
	s = " " + s + " "

	for _, filler := range fillerWords {
		for strings.Contains(s, filler) {
			s = strings.ReplaceAll(s, filler, " ")
		}
	}

	for _, token := range duplicateTokens {
		dup := " " + token + " " + token + " "
		single := " " + token + " "
		for strings.Contains(s, dup) {
			s = strings.ReplaceAll(s, dup, single)
		}
	}

	s = digitLetterGap.ReplaceAllString(s, "$1 $2")
	s = letterDigitGap.ReplaceAllString(s, "$1 $2")

	for strings.Contains(s, "  ") {
		s = strings.ReplaceAll(s, "  ", " ")
	}

	// los espacios pegados a un salto de línea estorban al segmentador
	s = strings.ReplaceAll(s, " \n", "\n")
	s = strings.ReplaceAll(s, "\n ", "\n")

	return strings.TrimSpace(s)
}
