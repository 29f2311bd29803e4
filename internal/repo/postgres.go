package repo

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"BERTool/internal/apperr"
	"BERTool/internal/calc/tables"

	"github.com/google/uuid"
	"github.com/lib/pq"
)

const schema = `
CREATE TABLE IF NOT EXISTS users (
	id SERIAL PRIMARY KEY,
	login TEXT NOT NULL UNIQUE,
	email TEXT NOT NULL,
	password TEXT NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE TABLE IF NOT EXISTS assessments (
	id UUID PRIMARY KEY,
	user_id INTEGER NOT NULL REFERENCES users(id) ON DELETE CASCADE,
	name TEXT NOT NULL,
	band TEXT NOT NULL,
	kwh_per_m2 DOUBLE PRECISION NOT NULL,
	input JSONB NOT NULL,
	result JSONB NOT NULL,
	created_at TIMESTAMPTZ NOT NULL DEFAULT now()
);
CREATE INDEX IF NOT EXISTS assessments_user_idx ON assessments (user_id, created_at DESC);
`

const uniqueViolation = "23505"

type PostgresRepository struct {
	db *sql.DB
}

func NewPostgres(db *sql.DB) *PostgresRepository {
	return &PostgresRepository{db: db}
}

// EnsureSchema creates the tables if they do not exist.
func (r *PostgresRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.db.ExecContext(ctx, schema); err != nil {
		return apperr.Wrap(apperr.KindInternal, "create schema", err).WithOp("repo")
	}
	return nil
}

func (r *PostgresRepository) CreateUser(ctx context.Context, login, email, password string) (int, error) {
	var id int
	query := "INSERT INTO users (login, email, password) VALUES ($1, $2, $3) RETURNING id"
	err := r.db.QueryRowContext(ctx, query, login, email, password).Scan(&id)
	if err != nil {
		var pqErr *pq.Error
		if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
			return 0, apperr.Wrap(apperr.KindConflict, "User already exists", err).WithOp("repo")
		}
		return 0, apperr.Wrap(apperr.KindInternal, "create user", err).WithOp("repo")
	}
	return id, nil
}

func (r *PostgresRepository) GetByLogin(ctx context.Context, login string) (int, string, error) {
	var id int
	var hash string
	query := "SELECT id, password FROM users WHERE login=$1"
	err := r.db.QueryRowContext(ctx, query, login).Scan(&id, &hash)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, "", apperr.NotFound("User not found").WithOp("repo")
	}
	if err != nil {
		return 0, "", apperr.Wrap(apperr.KindInternal, "get user", err).WithOp("repo")
	}
	return id, hash, nil
}

func (r *PostgresRepository) SaveAssessment(ctx context.Context, a Assessment) (Assessment, error) {
	if a.ID == "" {
		a.ID = uuid.NewString()
	}
	query := `INSERT INTO assessments (id, user_id, name, band, kwh_per_m2, input, result)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING created_at`
	err := r.db.QueryRowContext(ctx, query,
		a.ID, a.UserID, a.Name, a.Band.String(), a.KWhPerM2, []byte(a.Input), []byte(a.Result),
	).Scan(&a.CreatedAt)
	if err != nil {
		return Assessment{}, apperr.Wrap(apperr.KindInternal, "save assessment", err).WithOp("repo")
	}
	return a, nil
}

func (r *PostgresRepository) ListAssessments(ctx context.Context, userID int) ([]Assessment, error) {
	query := `SELECT id, user_id, name, band, kwh_per_m2, input, result, created_at
		FROM assessments WHERE user_id=$1 ORDER BY created_at DESC`
	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list assessments", err).WithOp("repo")
	}
	defer rows.Close()

	out := []Assessment{}
	for rows.Next() {
		a, err := scanAssessment(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, a)
	}
	if err := rows.Err(); err != nil {
		return nil, apperr.Wrap(apperr.KindInternal, "list assessments", err).WithOp("repo")
	}
	return out, nil
}

func (r *PostgresRepository) GetAssessment(ctx context.Context, userID int, id string) (Assessment, error) {
	if _, err := uuid.Parse(id); err != nil {
		return Assessment{}, apperr.NotFound("Assessment not found").WithOp("repo")
	}
	query := `SELECT id, user_id, name, band, kwh_per_m2, input, result, created_at
		FROM assessments WHERE id=$1 AND user_id=$2`
	a, err := scanAssessment(r.db.QueryRowContext(ctx, query, id, userID))
	if errors.Is(err, sql.ErrNoRows) {
		return Assessment{}, apperr.NotFound("Assessment not found").WithOp("repo")
	}
	return a, err
}

type scanner interface {
	Scan(dest ...any) error
}

func scanAssessment(s scanner) (Assessment, error) {
	var a Assessment
	var band string
	var input, result []byte
	var created time.Time
	if err := s.Scan(&a.ID, &a.UserID, &a.Name, &band, &a.KWhPerM2, &input, &result, &created); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return Assessment{}, err
		}
		return Assessment{}, apperr.Wrap(apperr.KindInternal, "read assessment", err).WithOp("repo")
	}
	b, err := tables.ParseBand(band)
	if err != nil {
		return Assessment{}, apperr.Wrap(apperr.KindInternal, "read assessment", err).WithOp("repo")
	}
	a.Band = b
	a.Input = input
	a.Result = result
	a.CreatedAt = created
	return a, nil
}
