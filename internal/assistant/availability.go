package assistant

import (
	"strconv"
	"strings"
	"time"
)

// Business hours: Sunday 08:00-17:00, Monday-Saturday 08:00-20:00, end
// exclusive. The slot grid runs every 30 minutes from opening.
const openingHour = 8

func closingHour(day time.Weekday) int {
	if day == time.Sunday {
		return 17
	}
	return 20
}

// IsTimeAvailable reports whether an appointment can start at the given date
// (YYYY-MM-DD) and time (HH:MM). A slot is unavailable outside business
// hours, or when an existing appointment starts at exactly the same minute.
func IsTimeAvailable(date, timeStr string, existing []ExistingAppointment) bool {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return false
	}
	hour, _ := strconv.Atoi(strings.SplitN(timeStr, ":", 2)[0])
	if hour < openingHour || hour >= closingHour(day.Weekday()) {
		return false
	}

	slot := date + "T" + timeStr
	for _, appt := range existing {
		if appt.Start.Format("2006-01-02T15:04") == slot {
			return false
		}
	}
	return true
}

// AvailableSlots returns the free half-hour slots for a date in ascending
// order. Pure: identical inputs always yield identical output.
func AvailableSlots(date string, existing []ExistingAppointment) []string {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return nil
	}

	var slots []string
	for h := openingHour; h < closingHour(day.Weekday()); h++ {
		for m := 0; m < 60; m += 30 {
			slot := formatHHMM(h, m)
			if IsTimeAvailable(date, slot, existing) {
				slots = append(slots, slot)
			}
		}
	}
	return slots
}
