package citas

import (
	"strings"
	"time"
)

// Cita represents a booked appointment
type Cita struct {
	ID            string    `json:"id"`
	Paciente      string    `json:"paciente"`
	Fecha         string    `json:"fecha"` // YYYY-MM-DD
	Hora          string    `json:"hora"`  // HH:MM, 24h
	Motivo        string    `json:"motivo"`
	GoogleEventID string    `json:"googleEventId,omitempty"`
	CreatedAt     time.Time `json:"createdAt"`
}

// CreateCitaRequest represents the request body for creating an appointment
type CreateCitaRequest struct {
	Paciente      string `json:"paciente"`
	Fecha         string `json:"fecha"`
	Hora          string `json:"hora"`
	Motivo        string `json:"motivo"`
	GoogleEventID string `json:"googleEventId"`
}

// DefaultMotivo is assigned when a create request omits the visit reason.
const DefaultMotivo = "Consulta general"

// Validate validates the create request. Motivo is optional and defaults
// to DefaultMotivo.
func (r *CreateCitaRequest) Validate() error {
	if strings.TrimSpace(r.Paciente) == "" ||
		strings.TrimSpace(r.Fecha) == "" ||
		strings.TrimSpace(r.Hora) == "" {
		return ErrMissingFields
	}
	if strings.TrimSpace(r.Motivo) == "" {
		r.Motivo = DefaultMotivo
	}
	return nil
}
