package citas

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
)

// Repository defines the interface for appointment storage
type Repository interface {
	Create(ctx context.Context, req *CreateCitaRequest) (*Cita, error)
	List(ctx context.Context) ([]*Cita, error)
	ListByDate(ctx context.Context, fecha string) ([]*Cita, error)
	Delete(ctx context.Context, id string) (*Cita, error)
	ExistsAt(ctx context.Context, fecha, hora string) (bool, error)
}

// InMemoryRepository is an implementation of Repository using in-memory storage
type InMemoryRepository struct {
	mu    sync.RWMutex
	citas map[string]*Cita
}

// NewInMemoryRepository creates a new in-memory repository
func NewInMemoryRepository() *InMemoryRepository {
	return &InMemoryRepository{
		citas: make(map[string]*Cita),
	}
}

// Create stores a new appointment in memory
func (r *InMemoryRepository) Create(ctx context.Context, req *CreateCitaRequest) (*Cita, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	cita := &Cita{
		ID:            uuid.New().String(),
		Paciente:      req.Paciente,
		Fecha:         req.Fecha,
		Hora:          req.Hora,
		Motivo:        req.Motivo,
		GoogleEventID: req.GoogleEventID,
		CreatedAt:     time.Now().UTC(),
	}

	r.mu.Lock()
	r.citas[cita.ID] = cita
	r.mu.Unlock()

	return cita, nil
}

// List returns all appointments ordered by date then time.
func (r *InMemoryRepository) List(ctx context.Context) ([]*Cita, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Cita, 0, len(r.citas))
	for _, c := range r.citas {
		out = append(out, c)
	}
	sortCitas(out)
	return out, nil
}

// ListByDate returns the appointments for one date ordered by time.
func (r *InMemoryRepository) ListByDate(ctx context.Context, fecha string) ([]*Cita, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]*Cita, 0)
	for _, c := range r.citas {
		if c.Fecha == fecha {
			out = append(out, c)
		}
	}
	sortCitas(out)
	return out, nil
}

// Delete removes an appointment and returns it.
func (r *InMemoryRepository) Delete(ctx context.Context, id string) (*Cita, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	cita, ok := r.citas[id]
	if !ok {
		return nil, ErrCitaNotFound
	}
	delete(r.citas, id)
	return cita, nil
}

// ExistsAt reports whether an appointment already occupies the exact slot.
func (r *InMemoryRepository) ExistsAt(ctx context.Context, fecha, hora string) (bool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, c := range r.citas {
		if c.Fecha == fecha && c.Hora == hora {
			return true, nil
		}
	}
	return false, nil
}

// sortCitas orders by fecha, then hora. Both are zero-padded strings, so
// lexicographic order is chronological order.
func sortCitas(citas []*Cita) {
	sort.Slice(citas, func(i, j int) bool {
		if citas[i].Fecha != citas[j].Fecha {
			return citas[i].Fecha < citas[j].Fecha
		}
		return citas[i].Hora < citas[j].Hora
	})
}
