package assistant

import (
	"testing"
	"time"
)

// Monday, January 15 2024, 10:00 local.
func fixedClock() time.Time {
	return time.Date(2024, time.January, 15, 10, 0, 0, 0, time.UTC)
}

func TestExtractDates(t *testing.T) {
	e := NewExtractor(fixedClock)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"today", "cita para Juan hoy", "2024-01-15"},
		{"tomorrow", "cita para Juan mañana", "2024-01-16"},
		{"after tomorrow before tomorrow", "cita pasado mañana", "2024-01-17"},
		{"next week", "cita la próxima semana", "2024-01-22"},
		{"weekday tuesday", "cita el martes", "2024-01-16"},
		{"weekday same day rolls a week", "cita el lunes", "2024-01-22"},
		{"day month", "cita el 20 de marzo", "2024-03-20"},
		{"day month past rolls a year", "cita el 5 de enero", "2025-01-05"},
		{"numeric slash", "cita el 20/03", "2024-03-20"},
		{"numeric past rolls a year", "cita el 10/01", "2025-01-10"},
		{"bare day", "cita para Juan el 31", "2024-01-31"},
		{"bare day past rolls a month", "cita para Juan el 5", "2024-02-05"},
		{"no date falls back to today", "cita para Juan", "2024-01-15"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.input)
			if got.Date != tt.want {
				t.Errorf("Extract(%q).Date = %q, want %q", tt.input, got.Date, tt.want)
			}
		})
	}
}

func TestExtractTimes(t *testing.T) {
	e := NewExtractor(fixedClock)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"period afternoon", "cita a las 3 de la tarde", "15:00"},
		{"period morning with half", "cita a las 10 y media de la mañana", "10:30"},
		{"period night", "cita a las 8 de la noche", "20:00"},
		{"period midnight", "cita a las 12 de la noche", "00:00"},
		{"colon", "cita mañana a las 14:30", "14:30"},
		{"colon with am", "cita a las 9:15 am", "09:15"},
		{"ampm pm", "cita a las 3pm", "15:00"},
		{"ampm am", "cita a las 10am", "10:00"},
		{"noon", "cita al mediodía", "12:00"},
		{"a las small hour assumes pm", "cita a las 3", "15:00"},
		{"a las large hour unchanged", "cita a las 9", "09:00"},
		{"a las with quarter", "cita a las 5 y cuarto", "17:15"},
		{"horas small hour assumes pm", "cita a las 4 horas", "16:00"},
		{"horas", "cita a las 15 horas", "15:00"},
		{"no time falls back", "cita para Juan mañana", DefaultTime},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.input)
			if got.Time != tt.want {
				t.Errorf("Extract(%q).Time = %q, want %q", tt.input, got.Time, tt.want)
			}
		})
	}
}

func TestExtractNames(t *testing.T) {
	e := NewExtractor(fixedClock)

	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"para connector", "Cita para Juan mañana a las 10am", "Juan"},
		{"para with two tokens", "cita para Maria Lopez el lunes", "Maria Lopez"},
		{"paciente label", "paciente: Carlos mañana", "Carlos"},
		{"cita de", "cita de Ana el 20/03", "Ana"},
		{"leading subject", "Pedro necesita una cita mañana", "Pedro"},
		{"capitalized fallback", "agendar a Roberto mañana", "Roberto"},
		{"date word never a name", "Lunes a las 3", UnknownPatient},
		{"no name", "cita mañana a las 10am", UnknownPatient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Extract(tt.input)
			if got.Patient != tt.want {
				t.Errorf("Extract(%q).Patient = %q, want %q", tt.input, got.Patient, tt.want)
			}
		})
	}
}

func TestExtractReasons(t *testing.T) {
	e := NewExtractor(fixedClock)

	tests := []struct {
		input string
		want  string
	}{
		{"cita de revisión para Juan mañana", "Revisión médica"},
		{"cita urgente mañana", "Urgencia"},
		{"cita para vacuna el lunes", "Vacunación"},
		{"Juan tiene fiebre, cita mañana", "Consulta por fiebre"},
		{"cita para Juan mañana", DefaultReason},
	}

	for _, tt := range tests {
		got := e.Extract(tt.input)
		if got.Reason != tt.want {
			t.Errorf("Extract(%q).Reason = %q, want %q", tt.input, got.Reason, tt.want)
		}
	}
}

func TestExtractAlwaysPopulated(t *testing.T) {
	e := NewExtractor(fixedClock)

	for _, input := range []string{"", "asdf", "????", "cita", "a las"} {
		got := e.Extract(input)
		if got.Date == "" || got.Time == "" || got.Patient == "" || got.Reason == "" {
			t.Errorf("Extract(%q) left a field empty: %+v", input, got)
		}
	}
}

func TestExtractDeterministic(t *testing.T) {
	e := NewExtractor(fixedClock)

	const input = "Cita para Juan mañana a las 10am"
	first := e.Extract(input)
	for i := 0; i < 5; i++ {
		if got := e.Extract(input); got != first {
			t.Fatalf("Extract not deterministic: %+v vs %+v", got, first)
		}
	}
}

func TestWeekdayNeverResolvesToToday(t *testing.T) {
	for wd := 0; wd < 7; wd++ {
		now := time.Date(2024, time.January, 14+wd, 10, 0, 0, 0, time.UTC)
		e := NewExtractor(func() time.Time { return now })
		for _, day := range []string{"lunes", "martes", "miércoles", "jueves", "viernes", "sábado", "domingo"} {
			got := e.Extract("cita el " + day)
			if got.Date == now.Format("2006-01-02") {
				t.Errorf("weekday %q on %s resolved to today", day, now.Weekday())
			}
		}
	}
}
