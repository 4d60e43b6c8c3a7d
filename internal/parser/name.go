package parser

import (
	"regexp"
	"strings"
	"unicode"
)

var (
	guillemetNameRe = regexp.MustCompile(`«([^»]+)»`)
	quotedNameRe    = regexp.MustCompile(`"([^"]+)"`)
)

// extractName: cascada de estrategias, gana la primera que produce algo.
// El gate de validez (longitud mínima, lista negra) lo aplica el ensamblador.
func extractName(segment string) (string, bool) {
	words := strings.Fields(segment)
	if len(words) == 0 {
		return "", false
	}

	name := extractPrimaryName(words)

	// un nombre entre comillas siempre manda
	if quoted, ok := extractQuotedName(segment); ok {
		name = quoted
	}

	if name == "" {
		name = extractNameAfterDoseForm(words)
	}
	if name == "" {
		name = extractNameFallback(words)
	}
	if name == "" {
		return "", false
	}
	return name, true
}

func extractPrimaryName(words []string) string {
	// forma "каждые 2 часа пурпурин ...": el nombre viene tras el intervalo
	if len(words) >= 4 && words[0] == "каждые" && isNumeric(words[1]) &&
		(strings.HasPrefix(words[2], "час") || strings.HasPrefix(words[2], "ч")) {
		if len(words) >= 5 && trimPunct(words[3]) == "" {
			return words[4]
		}
		return words[3]
	}

	if compound := extractCompoundName(words); compound != "" {
		return compound
	}
	return extractNameFallback(words)
}

// extractCompoundName recolecta hasta 3 tokens desde el inicio, parando en
// números, palabras funcionales y formas farmacéuticas.
func extractCompoundName(words []string) string {
	var collected []string

	for _, word := range words {
		token := trimPunct(word)
		if token == "" {
			continue
		}
		if isNumeric(token) || nameStopTokens[token] || isDoseFormToken(token) {
			break
		}

		collected = append(collected, word)
		if len(collected) == 3 {
			break
		}
	}

	if len(collected) == 0 {
		return ""
	}
	// "спрей" a secas no es un nombre
	if len(collected) == 1 && genericFormWords[trimPunct(collected[0])] {
		return ""
	}
	return strings.Join(collected, " ")
}

func extractQuotedName(segment string) (string, bool) {
	for _, re := range []*regexp.Regexp{guillemetNameRe, quotedNameRe} {
		if m := re.FindStringSubmatch(segment); m != nil {
			if name := strings.TrimSpace(m[1]); name != "" {
				return name, true
			}
		}
	}
	return "", false
}

// extractNameAfterDoseForm: el token que sigue a una forma farmacéutica
// ("капли називин" -> "називин"), salvo que sea un número.
func extractNameAfterDoseForm(words []string) string {
	for i, word := range words {
		if !isDoseFormToken(trimPunct(word)) {
			continue
		}
		if i+1 >= len(words) {
			continue
		}
		next := words[i+1]
		token := trimPunct(next)
		if isNumeric(token) || extendedStopWords[token] {
			continue
		}
		if _, isNumeral := numeralWords[token]; isNumeral {
			continue
		}
		return next
	}
	return ""
}

// extractNameFallback: primer token que no es número ni palabra funcional.
func extractNameFallback(words []string) string {
	for _, word := range words {
		token := trimPunct(word)
		if token == "" || isNumeric(token) || extendedStopWords[token] {
			continue
		}
		return word
	}
	return ""
}

func isDoseFormToken(token string) bool {
	if unitAbbrevs[token] {
		return true
	}
	for _, stem := range doseFormStems {
		if strings.HasPrefix(token, stem) {
			return true
		}
	}
	return false
}

func trimPunct(s string) string {
	return strings.TrimFunc(s, unicode.IsPunct)
}
