package citas

import "errors"

var (
	// ErrMissingFields is returned when a required appointment field is empty
	ErrMissingFields = errors.New("paciente, fecha, hora and motivo are required")

	// ErrCitaNotFound is returned when an appointment is not found
	ErrCitaNotFound = errors.New("cita not found")
)
