package parser

import (
	"regexp"
	"strconv"
	"strings"
)

// Ancla: palabra seguida de paréntesis de forma farmacéutica,
// p.ej. "препарат (капли)". La palabra inmediatamente anterior al
// paréntesis basta como punto de corte; el nombre completo lo resuelve
// después el extractor sobre el segmento.
var nameAnchorRe = regexp.MustCompile(`[а-яёa-z]+\s*\(`)

// Segment divide el texto normalizado en un trozo por medicamento.
// Devuelve los segmentos en orden; cero segmentos es salida válida.
func Segment(normalized string) []string {
	if strings.TrimSpace(normalized) == "" {
		return nil
	}
	if segments := segmentByAnchors(normalized); segments != nil {
		return segments
	}
	return segmentByLines(normalized)
}

// segmentByAnchors corta por cada nombre con paréntesis. Solo aplica si hay
// al menos dos anclas; con una sola no hay nada que separar.
func segmentByAnchors(text string) []string {
	matches := nameAnchorRe.FindAllStringIndex(text, -1)
	if len(matches) < 2 {
		return nil
	}

	var out []string
	last := matches[0][0]
	for _, m := range matches[1:] {
		if chunk := strings.TrimSpace(text[last:m[0]]); chunk != "" {
			out = append(out, chunk)
		}
		last = m[0]
	}
	if tail := strings.TrimSpace(text[last:]); tail != "" {
		out = append(out, tail)
	}
	return out
}

// segmentByLines: estrategia por líneas para texto plano o dictado.
// Acumula líneas consecutivas y cierra el acumulador cuando una línea
// parece abrir un medicamento nuevo.
func segmentByLines(text string) []string {
	var out []string
	var current []string

	flush := func() {
		if len(current) == 0 {
			return
		}
		out = append(out, strings.Join(current, " "))
		current = nil
	}

	for _, raw := range strings.Split(text, "\n") {
		line := strings.TrimSpace(raw)
		if line == "" {
			continue
		}
		if isServiceLine(line) {
			continue
		}

		switch {
		case looksLikeNewMedication(line):
			flush()
			current = append(current, line)
		case isDurationContinuation(line):
			// "ещё 5 дней" prolonga el medicamento actual sin cerrarlo
			current = append(current, line)
		default:
			current = append(current, line)
		}
	}
	flush()

	return out
}

// isServiceLine: encabezados clínicos ("жалобы:", "диагноз:"...).
func isServiceLine(line string) bool {
	for _, prefix := range serviceLinePrefixes {
		if strings.HasPrefix(line, prefix) {
			return true
		}
	}
	return false
}

// looksLikeNewMedication: los dos primeros tokens son
// (palabra no numérica, número o "по"), la línea abre con un ancla de
// nombre ("називин (капли) ...") o con "каждые <número>". Las palabras
// de continuación ("ещё", "потом") nunca abren medicamento.
func looksLikeNewMedication(line string) bool {
	fields := strings.Fields(line)
	if len(fields) < 2 {
		return false
	}

	first, second := fields[0], fields[1]
	if continuationLeadWords[first] {
		return false
	}
	if loc := nameAnchorRe.FindStringIndex(line); loc != nil && loc[0] == 0 {
		return true
	}
	if first == "каждые" && isNumeric(second) {
		return true
	}
	return !isNumeric(first) && (isNumeric(second) || second == "по")
}

func isNumeric(s string) bool {
	_, err := strconv.Atoi(s)
	return err == nil
}

// isDurationContinuation reconoce líneas que solo prolongan la duración del
// medicamento actual ("ещё 5 дней"). La apertura tiene prioridad: una línea
// completa con duración incluida sigue abriendo su propio medicamento.
func isDurationContinuation(line string) bool {
	for _, marker := range []string{
		" день", " дня", " дней",
		" неделю", " недели", " недель",
		" месяц", " месяцев",
	} {
		if strings.Contains(line, marker) {
			return true
		}
	}
	return false
}
