package assistant

import (
	"context"
	"fmt"
	"regexp"
	"strings"
	"time"

	"github.com/citasmed/consultorio-backend/pkg/logging"
)

// Booker receives a confirmed appointment draft. The responder treats the
// call as fire-and-forget: it logs failures but never branches on them.
type Booker interface {
	CreateAppointment(ctx context.Context, draft Draft) error
}

// Intent identifies which routing rule produced a reply.
type Intent string

const (
	IntentSlotFill     Intent = "slot_fill"
	IntentConfirm      Intent = "confirm"
	IntentBooking      Intent = "booking"
	IntentAvailability Intent = "availability"
	IntentCancelHelp   Intent = "cancel_help"
	IntentUpcoming     Intent = "upcoming"
	IntentGreeting     Intent = "greeting"
	IntentThanks       Intent = "thanks"
	IntentFallback     Intent = "fallback"
)

// Responder routes one user message at a time against the dialogue
// transcript and produces exactly one assistant turn. It is stateless: all
// dialogue state lives in the transcript the caller owns.
type Responder struct {
	extractor *Extractor
	booker    Booker
	logger    *logging.Logger
	now       func() time.Time
}

// NewResponder creates a responder. A nil clock means time.Now.
func NewResponder(booker Booker, logger *logging.Logger, now func() time.Time) *Responder {
	if logger == nil {
		logger = logging.Default()
	}
	if now == nil {
		now = time.Now
	}
	return &Responder{
		extractor: NewExtractor(now),
		booker:    booker,
		logger:    logger,
		now:       now,
	}
}

var (
	bookingKeywordRE = regexp.MustCompile(`(?i)agendar|cita|hora|turno|reserva|para|paciente`)
	dateCueRE        = regexp.MustCompile(`(?i)hoy|mañana|manana|lunes|martes|miercoles|miércoles|jueves|viernes|sabado|sábado|domingo|\d+/\d+|\d+\s*de`)
	digitRE          = regexp.MustCompile(`\d`)
	nameTokenRE      = regexp.MustCompile(`(?i)(` + alpha + `{3,}(?:\s+` + alpha + `{3,})?)`)
)

var affirmativeTokens = []string{"sí", "si", "confirmar", "confirmo", "ok", "dale"}

// Reply evaluates one inbound user message. Routing rules are mutually
// exclusive and fire in fixed precedence order; the first match wins.
func (r *Responder) Reply(ctx context.Context, transcript []Turn, input string, existing []ExistingAppointment) (Turn, Intent) {
	lower := strings.ToLower(input)

	// 1. Slot-fill continuation: the previous assistant turn asked for the
	// patient name.
	if len(transcript) > 0 {
		if pending := transcript[len(transcript)-1].PendingAppointment; pending != nil {
			if m := nameTokenRE.FindStringSubmatch(input); m != nil {
				merged := *pending
				merged.Patient = titleCaseName(strings.TrimSpace(m[1]))
				return Turn{
					Role:            RoleAssistant,
					Content:         confirmPromptMessage(merged),
					AppointmentData: &merged,
				}, IntentSlotFill
			}
		}
	}

	// 2. Confirmation of the most recent confirmable draft.
	if containsAny(lower, affirmativeTokens) {
		if draft := latestConfirmable(transcript); draft != nil {
			if r.booker != nil {
				if err := r.booker.CreateAppointment(ctx, *draft); err != nil {
					r.logger.Warn("assistant: booking collaborator failed", "error", err, "patient", draft.Patient)
				}
			}
			return Turn{Role: RoleAssistant, Content: msgConfirmed}, IntentConfirm
		}
	}

	hasDigits := digitRE.MatchString(input)
	hasKeyword := bookingKeywordRE.MatchString(input)
	hasDateCue := dateCueRE.MatchString(input)

	// 3. New booking request.
	if (hasKeyword && (hasDigits || hasDateCue)) || (hasDigits && hasDateCue) {
		return r.handleBooking(input, existing)
	}

	// 4. Availability query.
	if strings.Contains(lower, "disponibilidad") || strings.Contains(lower, "disponible") ||
		(strings.Contains(lower, "horario") && !hasKeyword) {
		return r.handleAvailability(lower, existing), IntentAvailability
	}

	// 5. Cancellation help.
	if strings.Contains(lower, "cancelar") || strings.Contains(lower, "eliminar") {
		return Turn{Role: RoleAssistant, Content: msgCancelHelp}, IntentCancelHelp
	}

	// 6. Upcoming appointments.
	if strings.Contains(lower, "citas") &&
		(strings.Contains(lower, "agendadas") || strings.Contains(lower, "tengo") || strings.Contains(lower, "hay")) {
		return r.handleUpcoming(existing), IntentUpcoming
	}

	// 7. Greeting.
	if strings.Contains(lower, "hola") || strings.Contains(lower, "buenos") || strings.Contains(lower, "buenas") {
		return Turn{Role: RoleAssistant, Content: msgGreeting}, IntentGreeting
	}

	// 8. Thanks.
	if strings.Contains(lower, "gracias") {
		return Turn{Role: RoleAssistant, Content: msgThanks}, IntentThanks
	}

	// 9. Default help menu.
	return Turn{Role: RoleAssistant, Content: msgHelp}, IntentFallback
}

// handleBooking extracts a draft and either asks for the missing name,
// offers alternative slots, or requests confirmation. A panic escaping the
// extractor is recovered into the generic clarification reply.
func (r *Responder) handleBooking(input string, existing []ExistingAppointment) (turn Turn, intent Intent) {
	intent = IntentBooking
	defer func() {
		if rec := recover(); rec != nil {
			r.logger.Error("assistant: extraction panic recovered", "panic", rec)
			turn = Turn{Role: RoleAssistant, Content: msgParseError}
		}
	}()

	draft := r.extractor.Extract(input)

	if !draft.PatientKnown() {
		return Turn{
			Role:               RoleAssistant,
			Content:            askNameMessage(draft),
			PendingAppointment: &draft,
		}, intent
	}

	if !IsTimeAvailable(draft.Date, draft.Time, existing) {
		slots := AvailableSlots(draft.Date, existing)
		if len(slots) == 0 {
			return Turn{Role: RoleAssistant, Content: msgNoSlots}, intent
		}
		return Turn{Role: RoleAssistant, Content: alternativesMessage(draft, slots)}, intent
	}

	return Turn{
		Role:            RoleAssistant,
		Content:         confirmPromptMessage(draft),
		AppointmentData: &draft,
	}, intent
}

func (r *Responder) handleAvailability(lower string, existing []ExistingAppointment) Turn {
	date := r.now()
	if strings.Contains(lower, "mañana") || strings.Contains(lower, "manana") {
		date = date.AddDate(0, 0, 1)
	}

	dateStr := date.Format(dateLayout)
	slots := AvailableSlots(dateStr, existing)
	if len(slots) == 0 {
		return Turn{Role: RoleAssistant, Content: msgNoSlotsWithHours}
	}
	return Turn{Role: RoleAssistant, Content: availabilityMessage(date, slots)}
}

func (r *Responder) handleUpcoming(existing []ExistingAppointment) Turn {
	today := r.now().Format(dateLayout)

	var upcoming []ExistingAppointment
	for _, appt := range existing {
		if appt.Start.Format(dateLayout) >= today {
			upcoming = append(upcoming, appt)
			if len(upcoming) == 5 {
				break
			}
		}
	}

	if len(upcoming) == 0 {
		return Turn{Role: RoleAssistant, Content: msgNoUpcoming}
	}

	entries := make([]string, 0, len(upcoming))
	for i, appt := range upcoming {
		entries = append(entries, fmt.Sprintf("%d. %s\n   📅 %s a las %s",
			i+1, appt.Title, shortDateES(appt.Start), appt.Start.Format("15:04")))
	}
	return Turn{Role: RoleAssistant, Content: "📋 Próximas citas:\n\n" + strings.Join(entries, "\n\n")}
}

// latestConfirmable scans the transcript backward for the most recent turn
// carrying a confirmable draft. A later draft always supersedes earlier ones.
func latestConfirmable(transcript []Turn) *Draft {
	for i := len(transcript) - 1; i >= 0; i-- {
		if transcript[i].AppointmentData != nil {
			return transcript[i].AppointmentData
		}
	}
	return nil
}

func containsAny(s string, tokens []string) bool {
	for _, tok := range tokens {
		if strings.Contains(s, tok) {
			return true
		}
	}
	return false
}
