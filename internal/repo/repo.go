// Package repo stores users and saved assessments.
package repo

import (
	"context"
	"encoding/json"
	"time"

	"BERTool/internal/calc/tables"
)

// Assessment is one saved rating. Input and Result hold the JSON documents
// exactly as returned by the calculation endpoint.
type Assessment struct {
	ID        string          `json:"id"`
	UserID    int             `json:"user_id"`
	Name      string          `json:"name"`
	Band      tables.Band     `json:"band"`
	KWhPerM2  float64         `json:"kwh_per_m2"`
	Input     json.RawMessage `json:"input"`
	Result    json.RawMessage `json:"result"`
	CreatedAt time.Time       `json:"created_at"`
}

type Repository interface {
	CreateUser(ctx context.Context, login, email, password string) (int, error)
	// GetByLogin returns the user id and password hash, or a NotFound error.
	GetByLogin(ctx context.Context, login string) (int, string, error)

	SaveAssessment(ctx context.Context, a Assessment) (Assessment, error)
	ListAssessments(ctx context.Context, userID int) ([]Assessment, error)
	GetAssessment(ctx context.Context, userID int, id string) (Assessment, error)
}
