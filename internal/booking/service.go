// Package booking connects confirmed assistant drafts to appointment
// storage and the practice calendar.
package booking

import (
	"context"
	"fmt"
	"time"

	"github.com/citasmed/consultorio-backend/internal/assistant"
	"github.com/citasmed/consultorio-backend/internal/citas"
	"github.com/citasmed/consultorio-backend/internal/observability/metrics"
	"github.com/citasmed/consultorio-backend/pkg/logging"
)

// EventCreator mirrors an appointment into the practice calendar.
type EventCreator interface {
	CreateEvent(ctx context.Context, paciente, fecha, hora, motivo string) (string, error)
}

// Service persists confirmed appointments. The calendar mirror runs first
// so the stored row carries the event ID, but a mirror failure never blocks
// the booking itself.
type Service struct {
	repo     citas.Repository
	calendar EventCreator
	metrics  *metrics.AssistantMetrics
	logger   *logging.Logger
}

// NewService creates a booking service. calendar and m may be nil.
func NewService(repo citas.Repository, calendar EventCreator, m *metrics.AssistantMetrics, logger *logging.Logger) *Service {
	if logger == nil {
		logger = logging.Default()
	}
	return &Service{
		repo:     repo,
		calendar: calendar,
		metrics:  m,
		logger:   logger,
	}
}

// CreateAppointment stores a confirmed draft as an appointment.
func (s *Service) CreateAppointment(ctx context.Context, draft assistant.Draft) error {
	req := &citas.CreateCitaRequest{
		Paciente: draft.Patient,
		Fecha:    draft.Date,
		Hora:     draft.Time,
		Motivo:   draft.Reason,
	}

	if s.calendar != nil {
		eventID, err := s.calendar.CreateEvent(ctx, req.Paciente, req.Fecha, req.Hora, req.Motivo)
		if err != nil {
			s.logger.Warn("booking: calendar mirror failed", "error", err, "paciente", req.Paciente)
		} else {
			req.GoogleEventID = eventID
		}
	}

	cita, err := s.repo.Create(ctx, req)
	if err != nil {
		s.metrics.ObserveBooking("failed")
		return fmt.Errorf("booking: create appointment: %w", err)
	}

	s.metrics.ObserveBooking("created")
	s.logger.Info("booking: appointment created", "id", cita.ID, "paciente", cita.Paciente, "fecha", cita.Fecha, "hora", cita.Hora)
	return nil
}

// Existing returns all stored appointments as the read-only view the
// assistant consumes. Rows with unparseable date/time are skipped.
func (s *Service) Existing(ctx context.Context) ([]assistant.ExistingAppointment, error) {
	stored, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("booking: list appointments: %w", err)
	}

	out := make([]assistant.ExistingAppointment, 0, len(stored))
	for _, c := range stored {
		start, err := time.Parse("2006-01-02 15:04", c.Fecha+" "+c.Hora)
		if err != nil {
			s.logger.Warn("booking: skipping malformed appointment", "id", c.ID, "fecha", c.Fecha, "hora", c.Hora)
			continue
		}
		out = append(out, assistant.ExistingAppointment{
			Start: start,
			Title: c.Paciente + " - " + c.Motivo,
		})
	}
	return out, nil
}
