package booking

import (
	"context"
	"errors"
	"testing"

	"github.com/citasmed/consultorio-backend/internal/assistant"
	"github.com/citasmed/consultorio-backend/internal/citas"
	"github.com/citasmed/consultorio-backend/pkg/logging"
)

type fakeCalendar struct {
	created int
	err     error
}

func (f *fakeCalendar) CreateEvent(_ context.Context, paciente, fecha, hora, motivo string) (string, error) {
	f.created++
	if f.err != nil {
		return "", f.err
	}
	return "evt-1", nil
}

func draft() assistant.Draft {
	return assistant.Draft{Date: "2024-01-16", Time: "10:00", Patient: "Juan", Reason: "Consulta general"}
}

func TestCreateAppointmentMirrorsCalendar(t *testing.T) {
	repo := citas.NewInMemoryRepository()
	cal := &fakeCalendar{}
	svc := NewService(repo, cal, nil, logging.New("error"))

	if err := svc.CreateAppointment(context.Background(), draft()); err != nil {
		t.Fatalf("create: %v", err)
	}
	if cal.created != 1 {
		t.Errorf("calendar called %d times", cal.created)
	}

	stored, _ := repo.List(context.Background())
	if len(stored) != 1 {
		t.Fatalf("stored %d citas", len(stored))
	}
	if stored[0].GoogleEventID != "evt-1" {
		t.Errorf("GoogleEventID = %q, want evt-1", stored[0].GoogleEventID)
	}
}

func TestCreateAppointmentSurvivesCalendarFailure(t *testing.T) {
	repo := citas.NewInMemoryRepository()
	cal := &fakeCalendar{err: errors.New("calendar down")}
	svc := NewService(repo, cal, nil, logging.New("error"))

	if err := svc.CreateAppointment(context.Background(), draft()); err != nil {
		t.Fatalf("calendar failure must not block booking: %v", err)
	}

	stored, _ := repo.List(context.Background())
	if len(stored) != 1 || stored[0].GoogleEventID != "" {
		t.Errorf("stored = %+v", stored)
	}
}

func TestCreateAppointmentWithoutCalendar(t *testing.T) {
	repo := citas.NewInMemoryRepository()
	svc := NewService(repo, nil, nil, logging.New("error"))

	if err := svc.CreateAppointment(context.Background(), draft()); err != nil {
		t.Fatalf("create: %v", err)
	}
}

func TestCreateAppointmentStorageError(t *testing.T) {
	repo := citas.NewInMemoryRepository()
	svc := NewService(repo, nil, nil, logging.New("error"))

	bad := assistant.Draft{Patient: "Juan"}
	if err := svc.CreateAppointment(context.Background(), bad); err == nil {
		t.Fatal("expected error for invalid draft")
	}
}

func TestExisting(t *testing.T) {
	repo := citas.NewInMemoryRepository()
	svc := NewService(repo, nil, nil, logging.New("error"))
	ctx := context.Background()

	repo.Create(ctx, &citas.CreateCitaRequest{Paciente: "Juan", Fecha: "2024-01-16", Hora: "10:00", Motivo: "Control"})
	repo.Create(ctx, &citas.CreateCitaRequest{Paciente: "Ana", Fecha: "bad-date", Hora: "10:00", Motivo: "Control"})

	existing, err := svc.Existing(ctx)
	if err != nil {
		t.Fatalf("existing: %v", err)
	}
	if len(existing) != 1 {
		t.Fatalf("existing = %d entries, want 1 (malformed row skipped)", len(existing))
	}
	if existing[0].Title != "Juan - Control" {
		t.Errorf("title = %q", existing[0].Title)
	}
	if existing[0].Start.Format("2006-01-02T15:04") != "2024-01-16T10:00" {
		t.Errorf("start = %v", existing[0].Start)
	}
}
