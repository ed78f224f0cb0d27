package citas

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// DB abstracts the pgx query interface for testing.
type DB interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// PostgresRepository stores appointments in the relational database.
type PostgresRepository struct {
	db DB
}

// NewPostgresRepository initializes a repo backed by pgx.
func NewPostgresRepository(db DB) *PostgresRepository {
	if db == nil {
		panic("citas: pgx pool required")
	}
	return &PostgresRepository{db: db}
}

// Create inserts a new row.
func (r *PostgresRepository) Create(ctx context.Context, req *CreateCitaRequest) (*Cita, error) {
	if err := req.Validate(); err != nil {
		return nil, err
	}

	id := uuid.New()
	query := `
		INSERT INTO citas (id, paciente, fecha, hora, motivo, google_event_id)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING created_at
	`
	var createdAt time.Time
	if err := r.db.QueryRow(ctx, query,
		id,
		req.Paciente,
		req.Fecha,
		req.Hora,
		req.Motivo,
		req.GoogleEventID,
	).Scan(&createdAt); err != nil {
		return nil, fmt.Errorf("citas: insert failed: %w", err)
	}

	return &Cita{
		ID:            id.String(),
		Paciente:      req.Paciente,
		Fecha:         req.Fecha,
		Hora:          req.Hora,
		Motivo:        req.Motivo,
		GoogleEventID: req.GoogleEventID,
		CreatedAt:     createdAt,
	}, nil
}

// List returns all appointments ordered by date then time.
func (r *PostgresRepository) List(ctx context.Context) ([]*Cita, error) {
	query := `
		SELECT id, paciente, fecha, hora, motivo, google_event_id, created_at
		FROM citas
		ORDER BY fecha, hora
	`
	rows, err := r.db.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("citas: select failed: %w", err)
	}
	defer rows.Close()
	return scanCitas(rows)
}

// ListByDate returns the appointments for one date ordered by time.
func (r *PostgresRepository) ListByDate(ctx context.Context, fecha string) ([]*Cita, error) {
	query := `
		SELECT id, paciente, fecha, hora, motivo, google_event_id, created_at
		FROM citas
		WHERE fecha = $1
		ORDER BY hora
	`
	rows, err := r.db.Query(ctx, query, fecha)
	if err != nil {
		return nil, fmt.Errorf("citas: select by date failed: %w", err)
	}
	defer rows.Close()
	return scanCitas(rows)
}

// Delete removes an appointment and returns the deleted row.
func (r *PostgresRepository) Delete(ctx context.Context, id string) (*Cita, error) {
	query := `
		DELETE FROM citas
		WHERE id = $1
		RETURNING id, paciente, fecha, hora, motivo, google_event_id, created_at
	`
	var cita Cita
	if err := r.db.QueryRow(ctx, query, id).Scan(
		&cita.ID,
		&cita.Paciente,
		&cita.Fecha,
		&cita.Hora,
		&cita.Motivo,
		&cita.GoogleEventID,
		&cita.CreatedAt,
	); err != nil {
		if err == pgx.ErrNoRows {
			return nil, ErrCitaNotFound
		}
		return nil, fmt.Errorf("citas: delete failed: %w", err)
	}
	return &cita, nil
}

// ExistsAt reports whether an appointment already occupies the exact slot.
func (r *PostgresRepository) ExistsAt(ctx context.Context, fecha, hora string) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM citas WHERE fecha = $1 AND hora = $2)`
	var exists bool
	if err := r.db.QueryRow(ctx, query, fecha, hora).Scan(&exists); err != nil {
		return false, fmt.Errorf("citas: exists check failed: %w", err)
	}
	return exists, nil
}

func scanCitas(rows pgx.Rows) ([]*Cita, error) {
	citas := make([]*Cita, 0)
	for rows.Next() {
		var cita Cita
		if err := rows.Scan(
			&cita.ID,
			&cita.Paciente,
			&cita.Fecha,
			&cita.Hora,
			&cita.Motivo,
			&cita.GoogleEventID,
			&cita.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("citas: scan failed: %w", err)
		}
		citas = append(citas, &cita)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("citas: rows failed: %w", err)
	}
	return citas, nil
}
