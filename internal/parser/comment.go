package parser

import (
	"strings"
	"unicode/utf8"
)

// Segmentos más cortos que esto no llevan comentario: casi siempre son ruido
// de dictado y las coincidencias serían falsas ("потом" suelto, etc.).
const minCommentRunes = 10

// extractComment acumula anotaciones clínicas reconocidas en el segmento,
// unidas con "; " en el orden de la tabla. Es anotación best-effort, no un
// campo con garantía de completitud.
func extractComment(segment string) (string, bool) {
	if utf8.RuneCountInString(segment) < minCommentRunes {
		return "", false
	}

	var notes []string
	seen := make(map[string]bool)

	for _, rule := range commentRules {
		if !strings.Contains(segment, rule.trigger) {
			continue
		}
		// varios disparadores pueden producir la misma nota
		if seen[rule.note] {
			continue
		}
		seen[rule.note] = true
		notes = append(notes, rule.note)
	}

	if len(notes) == 0 {
		return "", false
	}
	return strings.Join(notes, "; "), true
}
