package assistant

import "time"

// UnknownPatient is the sentinel patient name used until the visitor tells us
// who the appointment is for.
const UnknownPatient = "Paciente"

// DefaultReason is used when no reason keyword is recognized.
const DefaultReason = "Consulta general"

// DefaultTime is used when no time expression is recognized.
const DefaultTime = "09:00"

// Draft is a best-effort structured appointment extracted from free text.
// Date and Time are always populated; absence of signal falls back to
// defaults, never to an empty value. Only Patient carries an explicit
// "unknown" sentinel.
type Draft struct {
	Date    string `json:"date"` // YYYY-MM-DD
	Time    string `json:"time"` // HH:MM, 24h
	Patient string `json:"patient"`
	Reason  string `json:"reason"`
}

// PatientKnown reports whether a patient name has been resolved.
func (d Draft) PatientKnown() bool {
	return d.Patient != "" && d.Patient != UnknownPatient
}

// Role identifies who produced a conversation turn.
type Role string

const (
	RoleUser      Role = "user"
	RoleAssistant Role = "assistant"
)

// Turn is one exchange in a dialogue transcript. Turns are append-only; the
// responder scans backward for the most recent turn carrying draft state.
type Turn struct {
	Role    Role   `json:"role"`
	Content string `json:"content"`

	// PendingAppointment is a draft still missing the patient name.
	PendingAppointment *Draft `json:"pending_appointment,omitempty"`
	// AppointmentData is a complete draft awaiting yes/no confirmation.
	AppointmentData *Draft `json:"appointment_data,omitempty"`
}

// ExistingAppointment is a read-only view of an already-booked appointment,
// supplied fresh by the caller on every responder invocation.
type ExistingAppointment struct {
	Start time.Time
	Title string
}
