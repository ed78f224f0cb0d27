package assistant

import (
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// excludedNameWords are tokens that can never be part of a patient name:
// articles, date/time words, and appointment-domain keywords. Comparison is
// done on lowercased, accent-stripped tokens.
var excludedNameWords = map[string]struct{}{}

func init() {
	for _, w := range []string{
		"el", "la", "las", "los", "un", "una", "unos", "unas",
		"manana", "tarde", "noche", "hoy", "ayer",
		"lunes", "martes", "miercoles", "jueves", "viernes", "sabado", "domingo",
		"enero", "febrero", "marzo", "abril", "mayo", "junio",
		"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre",
		"ene", "feb", "mar", "abr", "may", "jun", "jul", "ago", "sep", "oct", "nov", "dic",
		"cita", "hora", "turno", "agendar", "revision", "control", "consulta",
		"ala", "alas", "tipo", "sobre", "como",
	} {
		excludedNameWords[w] = struct{}{}
	}
}

const alpha = `[A-Za-záéíóúñÁÉÍÓÚÑ]`

// namePatterns anchor a candidate name on the connector words that surround
// it in a booking phrase. The first pattern whose capture survives the
// exclusion check wins. The second token of the "para X" capture is lazy so
// date words following a single name are not swallowed into it.
var namePatterns = []*regexp.Regexp{
	// "para Juan el 31", "cita para Maria Lopez mañana"
	regexp.MustCompile(`(?i)(?:para|cita\s+para)\s+(` + alpha + `{3,}(?:\s+` + alpha + `{3,})??)\s+(?:el|mañana|manana|hoy|lunes|martes|a\s*las)`),
	// "paciente: Juan", "paciente Juan"
	regexp.MustCompile(`(?i)\bpaciente:?\s+(` + alpha + `{3,}(?:\s+` + alpha + `{3,})?)\b`),
	// "cita de Juan"
	regexp.MustCompile(`(?i)\bcita\s+de\s+(` + alpha + `{3,}(?:\s+` + alpha + `{3,})?)\b`),
	// leading "Juan necesita/quiere/solicita cita"
	regexp.MustCompile(`(?i)^(` + alpha + `{3,}(?:\s+` + alpha + `{3,})?)\s+(?:necesita|quiere|solicita)\s+(?:una\s+)?cita`),
	// "Perez Juan el", "Perez Juan a las"
	regexp.MustCompile(`(?i)\b(` + alpha + `{3,}\s+` + alpha + `{3,})\s+(?:el|a\s*las|mañana|manana|hoy|para)`),
}

var nameTokenCleanRE = regexp.MustCompile(`[^\wáéíóúñÁÉÍÓÚÑ]`)

// resolveName extracts a patient name from the raw (non-normalized) text.
// Structural patterns are tried first; then a left-to-right scan for a
// capitalized token; finally the UnknownPatient sentinel.
func resolveName(text string) string {
	for _, re := range namePatterns {
		m := re.FindStringSubmatch(text)
		if m == nil {
			continue
		}
		candidate := strings.TrimSpace(m[1])
		if validName(candidate) {
			return titleCaseName(candidate)
		}
	}

	for _, token := range strings.Fields(text) {
		clean := nameTokenCleanRE.ReplaceAllString(token, "")
		if utf8.RuneCountInString(clean) < 3 {
			continue
		}
		first, _ := utf8.DecodeRuneInString(clean)
		if !unicode.IsUpper(first) {
			continue
		}
		if _, excluded := excludedNameWords[stripDiacritics(strings.ToLower(clean))]; excluded {
			continue
		}
		return titleCaseName(clean)
	}

	return UnknownPatient
}

// validName rejects captures containing excluded or too-short words.
func validName(candidate string) bool {
	stripped := stripDiacritics(strings.ToLower(candidate))
	if utf8.RuneCountInString(strings.ReplaceAll(stripped, " ", "")) < 3 {
		return false
	}
	for _, word := range strings.Fields(stripped) {
		if utf8.RuneCountInString(word) < 2 {
			return false
		}
		if _, excluded := excludedNameWords[word]; excluded {
			return false
		}
	}
	return true
}

// reasonTable maps keyword to visit category; first hit in order wins.
var reasonTable = []struct {
	keyword  string
	category string
}{
	{"revision", "Revisión médica"},
	{"control", "Control"},
	{"urgencia", "Urgencia"},
	{"urgente", "Urgencia"},
	{"seguimiento", "Seguimiento"},
	{"chequeo", "Chequeo general"},
	{"examen", "Examen médico"},
	{"analisis", "Análisis"},
	{"vacuna", "Vacunación"},
	{"inyeccion", "Inyección"},
	{"dolor", "Consulta por dolor"},
	{"fiebre", "Consulta por fiebre"},
}

// resolveReason matches visit-reason keywords against normalized text.
func resolveReason(text string) string {
	for _, entry := range reasonTable {
		if strings.Contains(text, entry.keyword) {
			return entry.category
		}
	}
	return DefaultReason
}
