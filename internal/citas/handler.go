package citas

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/citasmed/consultorio-backend/pkg/logging"
)

// EventRemover removes the mirrored calendar event for a deleted
// appointment. Removal is best-effort: failures are logged, never surfaced.
type EventRemover interface {
	DeleteEvent(ctx context.Context, eventID string) error
}

// Handler handles HTTP requests for appointments
type Handler struct {
	repo     Repository
	calendar EventRemover
	logger   *logging.Logger
}

// NewHandler creates a new appointments handler. calendar may be nil when no
// calendar integration is configured.
func NewHandler(repo Repository, calendar EventRemover, logger *logging.Logger) *Handler {
	return &Handler{
		repo:     repo,
		calendar: calendar,
		logger:   logger,
	}
}

// List handles GET /api/citas requests
func (h *Handler) List(w http.ResponseWriter, r *http.Request) {
	citas, err := h.repo.List(r.Context())
	if err != nil {
		h.logger.Error("failed to list citas", "error", err)
		writeError(w, http.StatusInternalServerError, "Error al obtener las citas")
		return
	}
	writeJSON(w, http.StatusOK, citas)
}

// Create handles POST /api/citas requests
func (h *Handler) Create(w http.ResponseWriter, r *http.Request) {
	var req CreateCitaRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		h.logger.Error("failed to decode request", "error", err)
		writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}

	cita, err := h.repo.Create(r.Context(), &req)
	if err != nil {
		if errors.Is(err, ErrMissingFields) {
			writeError(w, http.StatusBadRequest, "Faltan campos requeridos")
			return
		}
		h.logger.Error("failed to create cita", "error", err)
		writeError(w, http.StatusInternalServerError, "Error al crear la cita")
		return
	}

	h.logger.Info("cita created", "id", cita.ID, "paciente", cita.Paciente, "fecha", cita.Fecha, "hora", cita.Hora)
	writeJSON(w, http.StatusCreated, cita)
}

// Delete handles DELETE /api/citas/{id} requests
func (h *Handler) Delete(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")

	cita, err := h.repo.Delete(r.Context(), id)
	if err != nil {
		if errors.Is(err, ErrCitaNotFound) {
			writeError(w, http.StatusNotFound, "Cita no encontrada")
			return
		}
		h.logger.Error("failed to delete cita", "error", err, "id", id)
		writeError(w, http.StatusInternalServerError, "Error al eliminar la cita")
		return
	}

	if cita.GoogleEventID != "" && h.calendar != nil {
		if err := h.calendar.DeleteEvent(r.Context(), cita.GoogleEventID); err != nil {
			h.logger.Warn("failed to delete calendar event", "error", err, "event_id", cita.GoogleEventID)
		}
	}

	h.logger.Info("cita deleted", "id", cita.ID, "paciente", cita.Paciente)
	writeJSON(w, http.StatusOK, map[string]any{
		"message": "Cita eliminada correctamente",
		"cita":    cita,
	})
}

// ListByDate handles GET /api/citas/fecha/{fecha} requests
func (h *Handler) ListByDate(w http.ResponseWriter, r *http.Request) {
	fecha := chi.URLParam(r, "fecha")

	citas, err := h.repo.ListByDate(r.Context(), fecha)
	if err != nil {
		h.logger.Error("failed to list citas by date", "error", err, "fecha", fecha)
		writeError(w, http.StatusInternalServerError, "Error al obtener las citas")
		return
	}
	writeJSON(w, http.StatusOK, citas)
}

// AvailabilityRequest is the request body for the availability check
type AvailabilityRequest struct {
	Fecha string `json:"fecha"`
	Hora  string `json:"hora"`
}

// CheckAvailability handles POST /api/citas/disponibilidad requests
func (h *Handler) CheckAvailability(w http.ResponseWriter, r *http.Request) {
	var req AvailabilityRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "Cuerpo de la solicitud inválido")
		return
	}
	if req.Fecha == "" || req.Hora == "" {
		writeError(w, http.StatusBadRequest, "Fecha y hora son requeridas")
		return
	}

	taken, err := h.repo.ExistsAt(r.Context(), req.Fecha, req.Hora)
	if err != nil {
		h.logger.Error("failed to check availability", "error", err, "fecha", req.Fecha, "hora", req.Hora)
		writeError(w, http.StatusInternalServerError, "Error al verificar disponibilidad")
		return
	}
	writeJSON(w, http.StatusOK, map[string]bool{"disponible": !taken})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}
