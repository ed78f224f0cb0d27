package assistant

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// WelcomeMessage opens every new chat session.
const WelcomeMessage = "¡Hola! Soy tu asistente virtual del consultorio. Puedo ayudarte a:\n" +
	"• Agendar citas\n" +
	"• Ver horarios disponibles\n" +
	"• Consultar citas agendadas\n\n" +
	"🏥 Horarios:\nLun-Sáb: 8:00 AM - 8:00 PM\nDomingo: 8:00 AM - 5:00 PM\n\n" +
	"¿En qué puedo ayudarte?"

const (
	msgConfirmed = "✅ ¡Cita confirmada y guardada!\n\n" +
		"📧 Se ha agendado la cita exitosamente.\n\n" +
		"¿Necesitas agendar otra cita?"

	msgNoSlots = "❌ Lo siento, no hay horarios disponibles para ese día.\n\n" +
		"¿Te gustaría ver disponibilidad para otro día?"

	msgNoSlotsWithHours = "❌ No hay horarios disponibles para ese día.\n\n" +
		"🏥 Horarios de atención:\n" +
		"• Lun-Sáb: 8:00 AM - 8:00 PM\n" +
		"• Domingo: 8:00 AM - 5:00 PM\n\n" +
		"¿Te gustaría consultar otro día?"

	msgCancelHelp = "❌ Para cancelar una cita:\n\n" +
		"1. Ve a la lista de citas en la pantalla principal\n" +
		"2. Haz clic en el botón de eliminar (🗑️) de la cita\n\n" +
		"¿Necesitas ayuda con algo más?"

	msgNoUpcoming = "📋 No tienes citas próximas agendadas.\n\n" +
		"¿Quieres agendar una nueva cita?"

	msgGreeting = "¡Hola! 👋 ¿En qué puedo ayudarte hoy?\n\n" +
		"Puedo:\n" +
		"• Agendar citas\n" +
		"• Mostrar horarios disponibles\n" +
		"• Consultar citas agendadas"

	msgThanks = "¡De nada! 😊 Estoy aquí para ayudarte.\n\n¿Necesitas algo más?"

	msgHelp = "💡 Puedo ayudarte con:\n\n" +
		"• \"Agendar cita para [nombre] [día] a las [hora]\"\n" +
		"• \"¿Qué disponibilidad hay mañana?\"\n" +
		"• \"¿Qué citas tengo agendadas?\"\n\n" +
		"🏥 Horarios de atención:\n" +
		"• Lunes a Sábado: 8:00 AM - 8:00 PM\n" +
		"• Domingo: 8:00 AM - 5:00 PM"

	msgParseError = "Lo siento, no pude entender los detalles de la cita. ¿Podrías especificar:\n" +
		"• Nombre del paciente\n" +
		"• Fecha (ej: \"mañana\", \"lunes\", \"31\")\n" +
		"• Hora (ej: \"3pm\", \"15:00\", \"2 de la tarde\")\n\n" +
		"Ejemplo: \"Cita para Juan mañana a las 10am\""
)

func confirmPromptMessage(d Draft) string {
	return fmt.Sprintf("✅ Perfecto! Tenemos disponibilidad:\n\n"+
		"👤 Paciente: %s\n"+
		"📅 Fecha: %s\n"+
		"🕐 Hora: %s\n"+
		"📋 Motivo: %s\n\n"+
		"¿Confirmo esta cita? (Responde \"sí\" para confirmar)",
		d.Patient, longDateESFromString(d.Date), d.Time, d.Reason)
}

func askNameMessage(d Draft) string {
	return fmt.Sprintf("👤 ¿Cuál es el nombre del paciente?\n\n"+
		"He detectado:\n"+
		"📅 Fecha: %s\n"+
		"🕐 Hora: %s\n"+
		"📋 Motivo: %s",
		longDateESFromString(d.Date), d.Time, d.Reason)
}

// alternativesMessage lists up to 8 free slots for the requested day.
func alternativesMessage(d Draft, slots []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "⚠️ El horario %s no está disponible.\n\n", d.Time)
	fmt.Fprintf(&b, "✅ Horarios disponibles para %s:\n", longDateESFromString(d.Date))
	shown := slots
	if len(shown) > 8 {
		shown = shown[:8]
	}
	for _, slot := range shown {
		b.WriteString("• " + slot + "\n")
	}
	if len(slots) > 8 {
		b.WriteString("\n...y más horarios disponibles")
	}
	return b.String()
}

// availabilityMessage lists up to 12 numbered slots in 12-hour notation.
func availabilityMessage(date time.Time, slots []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "📅 Horarios disponibles para %s:\n\n", longDateES(date))
	shown := slots
	if len(shown) > 12 {
		shown = shown[:12]
	}
	for i, slot := range shown {
		b.WriteString(fmt.Sprintf("%d. %s\n", i+1, twelveHour(slot)))
	}
	if len(slots) > 12 {
		fmt.Fprintf(&b, "\n...y %d horarios más", len(slots)-12)
	}
	b.WriteString("\n¿Cuál prefieres?")
	return b.String()
}

var weekdaysES = [...]string{"domingo", "lunes", "martes", "miércoles", "jueves", "viernes", "sábado"}

var weekdaysShortES = [...]string{"dom", "lun", "mar", "mié", "jue", "vie", "sáb"}

var monthsES = [...]string{"enero", "febrero", "marzo", "abril", "mayo", "junio",
	"julio", "agosto", "septiembre", "octubre", "noviembre", "diciembre"}

var monthsShortES = [...]string{"ene", "feb", "mar", "abr", "may", "jun",
	"jul", "ago", "sep", "oct", "nov", "dic"}

// longDateES renders "lunes, 2 de septiembre".
func longDateES(t time.Time) string {
	return fmt.Sprintf("%s, %d de %s", weekdaysES[t.Weekday()], t.Day(), monthsES[t.Month()-1])
}

// shortDateES renders "lun 2 sep".
func shortDateES(t time.Time) string {
	return fmt.Sprintf("%s %d %s", weekdaysShortES[t.Weekday()], t.Day(), monthsShortES[t.Month()-1])
}

// longDateESFromString falls back to the raw string when the date does not
// parse, so a malformed draft still yields a readable reply.
func longDateESFromString(date string) string {
	t, err := time.Parse(dateLayout, date)
	if err != nil {
		return date
	}
	return longDateES(t)
}

// twelveHour converts "HH:MM" to "H:MM AM/PM".
func twelveHour(slot string) string {
	parts := strings.SplitN(slot, ":", 2)
	if len(parts) != 2 {
		return slot
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return slot
	}
	period := "PM"
	if hour < 12 {
		period = "AM"
	}
	display := hour
	if hour > 12 {
		display = hour - 12
	}
	return fmt.Sprintf("%d:%s %s", display, parts[1], period)
}
