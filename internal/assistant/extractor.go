package assistant

import (
	"regexp"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// Extractor converts free-text Spanish utterances into appointment drafts.
// It never fails: every input yields a fully-defaulted draft. Resolution is
// deterministic given identical input and an identical clock.
type Extractor struct {
	now func() time.Time
}

// NewExtractor creates an extractor. A nil clock means time.Now.
func NewExtractor(now func() time.Time) *Extractor {
	if now == nil {
		now = time.Now
	}
	return &Extractor{now: now}
}

// Extract parses a date, time, patient name and visit reason out of text.
func (e *Extractor) Extract(text string) Draft {
	normalized := normalizeText(text)
	now := e.now()

	return Draft{
		Date:    resolveDate(normalized, now).Format(dateLayout),
		Time:    resolveTime(normalized),
		Patient: resolveName(text),
		Reason:  resolveReason(normalized),
	}
}

// ---------------------------------------------------------------------------
// Date resolution
//
// Each rule is an independent matcher+transform pair; rules run in order and
// the first match commits. Input is normalized (lowercase, no accents,
// collapsed whitespace).
// ---------------------------------------------------------------------------

type dateRule struct {
	name    string
	resolve func(text string, now time.Time) (time.Time, bool)
}

var dateRules = []dateRule{
	{"relative", resolveRelativeDate},
	{"weekday", resolveWeekdayDate},
	{"day-month", resolveDayMonthDate},
	{"numeric", resolveNumericDate},
	{"bare-day", resolveBareDayDate},
}

func resolveDate(text string, now time.Time) time.Time {
	for _, rule := range dateRules {
		if d, ok := rule.resolve(text, now); ok {
			return d
		}
	}
	return now
}

func dateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

var (
	todayRE         = regexp.MustCompile(`\b(hoy|horita|ahorita)\b`)
	afterTomorrowRE = regexp.MustCompile(`\b(pasado ?manana|pasadomanana)\b`)
	tomorrowRE      = regexp.MustCompile(`\bmanana\b`)
	nextWeekRE      = regexp.MustCompile(`\b(siguiente semana|proxima semana|la otra semana)\b`)
)

func resolveRelativeDate(text string, now time.Time) (time.Time, bool) {
	switch {
	case todayRE.MatchString(text):
		return now, true
	case afterTomorrowRE.MatchString(text):
		return now.AddDate(0, 0, 2), true
	case tomorrowRE.MatchString(text):
		return now.AddDate(0, 0, 1), true
	case nextWeekRE.MatchString(text):
		return now.AddDate(0, 0, 7), true
	}
	return time.Time{}, false
}

// weekdayAliases maps day names, abbreviations and common misspellings onto
// weekdays. Order matters: longer forms are tried before their prefixes.
var weekdayAliases = []struct {
	alias string
	day   time.Weekday
}{
	{"lunes", time.Monday}, {"lune", time.Monday}, {"lu", time.Monday},
	{"martes", time.Tuesday}, {"marte", time.Tuesday}, {"ma", time.Tuesday},
	{"miercoles", time.Wednesday}, {"miercole", time.Wednesday}, {"mierco", time.Wednesday}, {"mx", time.Wednesday}, {"mi", time.Wednesday},
	{"jueves", time.Thursday}, {"jueve", time.Thursday}, {"jue", time.Thursday}, {"ju", time.Thursday},
	{"viernes", time.Friday}, {"vierne", time.Friday}, {"vier", time.Friday}, {"vi", time.Friday},
	{"sabado", time.Saturday}, {"sabad", time.Saturday}, {"sab", time.Saturday}, {"sa", time.Saturday},
	{"domingo", time.Sunday}, {"domin", time.Sunday}, {"dom", time.Sunday}, {"do", time.Sunday},
}

var weekdayAliasRE = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(weekdayAliases))
	for i, a := range weekdayAliases {
		res[i] = regexp.MustCompile(`\b` + a.alias + `\b`)
	}
	return res
}()

// resolveWeekdayDate finds the next occurrence of a named weekday, strictly
// after today: naming today's weekday rolls a full week forward.
func resolveWeekdayDate(text string, now time.Time) (time.Time, bool) {
	for i, a := range weekdayAliases {
		if !weekdayAliasRE[i].MatchString(text) {
			continue
		}
		diff := int(a.day) - int(now.Weekday())
		if diff <= 0 {
			diff += 7
		}
		return now.AddDate(0, 0, diff), true
	}
	return time.Time{}, false
}

// monthAliases maps month names and abbreviations onto months, tried in order.
var monthAliases = []struct {
	alias string
	month time.Month
}{
	{"enero", time.January}, {"ene", time.January},
	{"febrero", time.February}, {"feb", time.February}, {"febrer", time.February},
	{"marzo", time.March}, {"mar", time.March},
	{"abril", time.April}, {"abr", time.April},
	{"mayo", time.May}, {"may", time.May},
	{"junio", time.June}, {"jun", time.June},
	{"julio", time.July}, {"jul", time.July},
	{"agosto", time.August}, {"ago", time.August}, {"agost", time.August},
	{"septiembre", time.September}, {"sep", time.September}, {"sept", time.September}, {"setiembre", time.September},
	{"octubre", time.October}, {"oct", time.October},
	{"noviembre", time.November}, {"nov", time.November},
	{"diciembre", time.December}, {"dic", time.December},
}

var monthAliasRE = func() []*regexp.Regexp {
	res := make([]*regexp.Regexp, len(monthAliases))
	for i, a := range monthAliases {
		res[i] = regexp.MustCompile(`(\d{1,2})\s*(?:de)?\s*` + a.alias)
	}
	return res
}()

// resolveDayMonthDate handles "15 de enero", "20 marzo", "5 de feb". Dates
// already past roll forward one year.
func resolveDayMonthDate(text string, now time.Time) (time.Time, bool) {
	for i, a := range monthAliases {
		m := monthAliasRE[i].FindStringSubmatch(text)
		if m == nil {
			continue
		}
		day, _ := strconv.Atoi(m[1])
		candidate := time.Date(now.Year(), a.month, day, 0, 0, 0, 0, now.Location())
		if candidate.Before(dateOnly(now)) {
			candidate = candidate.AddDate(1, 0, 0)
		}
		return candidate, true
	}
	return time.Time{}, false
}

var numericDateRE = regexp.MustCompile(`\b(\d{1,2})[/\-.](\d{1,2})\b`)

// resolveNumericDate handles DD/MM, DD-MM and DD.MM. Out-of-range day or
// month values do not commit; past dates roll forward one year.
func resolveNumericDate(text string, now time.Time) (time.Time, bool) {
	m := numericDateRE.FindStringSubmatch(text)
	if m == nil {
		return time.Time{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	if day < 1 || day > 31 || month < 1 || month > 12 {
		return time.Time{}, false
	}
	candidate := time.Date(now.Year(), time.Month(month), day, 0, 0, 0, 0, now.Location())
	if candidate.Before(dateOnly(now)) {
		candidate = candidate.AddDate(1, 0, 0)
	}
	return candidate, true
}

var (
	bareDayRE         = regexp.MustCompile(`\b(\d{1,2})\b`)
	timeMarkerAfterRE = regexp.MustCompile(`^\s*(?:pm|am|horas?|:|de la)`)
)

// resolveBareDayDate treats a lone 1-31 number as a day of the current month,
// skipping numbers adjacent to a time marker (am/pm, "horas", a colon, or
// "de la"). A day already past rolls forward one month.
func resolveBareDayDate(text string, now time.Time) (time.Time, bool) {
	for _, loc := range bareDayRE.FindAllStringSubmatchIndex(text, -1) {
		start, end := loc[2], loc[3]
		if timeMarkerAfterRE.MatchString(text[end:]) {
			continue
		}
		if start > 0 && text[start-1] == ':' {
			continue
		}
		day, _ := strconv.Atoi(text[start:end])
		if day < 1 || day > 31 {
			continue
		}
		candidate := time.Date(now.Year(), now.Month(), day, 0, 0, 0, 0, now.Location())
		if candidate.Before(dateOnly(now)) {
			candidate = candidate.AddDate(0, 1, 0)
		}
		return candidate, true
	}
	return time.Time{}, false
}

// ---------------------------------------------------------------------------
// Time resolution
// ---------------------------------------------------------------------------

type timeRule struct {
	name    string
	resolve func(text string) (string, bool)
}

var timeRules = []timeRule{
	{"period-phrase", resolvePeriodTime},
	{"colon", resolveColonTime},
	{"ampm", resolveAMPMTime},
	{"fixed-phrase", resolveFixedPhraseTime},
	{"a-las", resolveALasTime},
	{"horas", resolveHorasTime},
}

func resolveTime(text string) string {
	for _, rule := range timeRules {
		if t, ok := rule.resolve(text); ok {
			return t
		}
	}
	return DefaultTime
}

func formatHHMM(h, m int) string {
	return pad2(h) + ":" + pad2(m)
}

func pad2(n int) string {
	if n < 10 {
		return "0" + strconv.Itoa(n)
	}
	return strconv.Itoa(n)
}

var (
	periodRE = regexp.MustCompile(`(?:a\s*las?|las?|sobre\s*las?|tipo|como)?\s*(\d{1,2})\s*(?:y\s*(?:media|cuarto|treinta|quince|45|30|15|cuarenta\s*y\s*cinco))?\s*(?:de\s*la\s*)?(tarde|manana|noche|madrugada)`)

	halfRE          = regexp.MustCompile(`media|30|treinta`)
	quarterRE       = regexp.MustCompile(`cuarto|15|quince`)
	threeQuartersRE = regexp.MustCompile(`45|cuarenta`)
)

// fractionMinutes reads a fractional-hour word out of a matched time phrase.
func fractionMinutes(phrase string) int {
	switch {
	case halfRE.MatchString(phrase):
		return 30
	case quarterRE.MatchString(phrase):
		return 15
	case threeQuartersRE.MatchString(phrase):
		return 45
	}
	return 0
}

// resolvePeriodTime handles "3 de la tarde", "10 y media de la manana",
// "8 de la noche". Highest priority of all time rules.
func resolvePeriodTime(text string) (string, bool) {
	loc := periodRE.FindStringSubmatchIndex(text)
	if loc == nil {
		return "", false
	}
	h, _ := strconv.Atoi(text[loc[2]:loc[3]])
	// Scan for fraction words after the hour digits so the digits themselves
	// ("15 de la tarde") are never misread as minutes.
	minutes := fractionMinutes(text[loc[3]:loc[1]])

	switch text[loc[4]:loc[5]] {
	case "tarde":
		if h >= 1 && h <= 11 {
			h += 12
		}
	case "noche":
		if h >= 1 && h <= 11 {
			h += 12
		} else if h == 12 {
			h = 0
		}
	case "manana", "madrugada":
		if h == 12 {
			h = 0
		}
	}
	return formatHHMM(h, minutes), true
}

var colonTimeRE = regexp.MustCompile(`\b(\d{1,2}):(\d{2})\s*(am|pm)?`)

// resolveColonTime handles "14:30", "9:00 am".
func resolveColonTime(text string) (string, bool) {
	m := colonTimeRE.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	h, _ := strconv.Atoi(m[1])
	minutes, _ := strconv.Atoi(m[2])
	h = applyMeridiem(h, m[3])
	return formatHHMM(h, minutes), true
}

var ampmTimeRE = regexp.MustCompile(`\b(\d{1,2})\s*(am|pm)`)

// resolveAMPMTime handles "3pm", "10am", "5 pm"; minutes are forced to 00.
func resolveAMPMTime(text string) (string, bool) {
	m := ampmTimeRE.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	h, _ := strconv.Atoi(m[1])
	h = applyMeridiem(h, m[2])
	return formatHHMM(h, 0), true
}

func applyMeridiem(h int, meridiem string) int {
	switch meridiem {
	case "pm":
		if h < 12 {
			h += 12
		}
	case "am":
		if h == 12 {
			h = 0
		}
	}
	return h
}

var (
	noonRE     = regexp.MustCompile(`\b(mediodia|medio ?dia|12 del dia)\b`)
	midnightRE = regexp.MustCompile(`\b(medianoche|12 de la noche)\b`)
)

func resolveFixedPhraseTime(text string) (string, bool) {
	if noonRE.MatchString(text) {
		return "12:00", true
	}
	if midnightRE.MatchString(text) {
		return "00:00", true
	}
	return "", false
}

var (
	aLasRE          = regexp.MustCompile(`\b(?:a\s*las?|las?|sobre\s*las?|como\s*a\s*las?)\s*(\d{1,2})(\s*y\s*(?:media|cuarto|treinta|quince|45|30|15))?`)
	timeQualifierRE = regexp.MustCompile(`^\s*(?:pm|am|de\s*la)`)
)

// resolveALasTime handles "a las 5", "a las 7 y media" with no am/pm or
// period qualifier. Bare hours 1-7 are assumed PM; 12 stays noon; everything
// else passes through as-is.
func resolveALasTime(text string) (string, bool) {
	for _, loc := range aLasRE.FindAllStringSubmatchIndex(text, -1) {
		match := text[loc[0]:loc[1]]
		if timeQualifierRE.MatchString(text[loc[1]:]) {
			continue
		}
		h, _ := strconv.Atoi(text[loc[2]:loc[3]])
		minutes := fractionMinutes(match[loc[3]-loc[0]:])

		if h >= 1 && h <= 7 {
			h += 12
		}
		return formatHHMM(h, minutes), true
	}
	return "", false
}

var horasTimeRE = regexp.MustCompile(`\b(\d{1,2})\s*horas?`)

// resolveHorasTime handles "15 horas", "4 horas"; small nonzero hours are
// assumed PM.
func resolveHorasTime(text string) (string, bool) {
	m := horasTimeRE.FindStringSubmatch(text)
	if m == nil {
		return "", false
	}
	h, _ := strconv.Atoi(m[1])
	if h < 8 && h != 0 {
		h += 12
	}
	return formatHHMM(h, 0), true
}
