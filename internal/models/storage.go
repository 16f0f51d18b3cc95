package models

import (
	"time"

	"github.com/google/uuid"
)

// Load statuses recorded in history.
const (
	StatusOK         = "ok"
	StatusInvalid    = "invalid"
	StatusInfeasible = "infeasible"
)

// LoadRecord is a row in the load_history table: one calculation a user
// asked for and how it came out.
type LoadRecord struct {
	ID        uuid.UUID `json:"id"`
	CreatedAt time.Time `json:"created_at"`
	User      string    `json:"user"`
	TargetKg  float64   `json:"target_kg"`
	Barbell   string    `json:"barbell"`
	BarbellKg float64   `json:"barbell_kg"`
	Collar    bool      `json:"collar"`
	Plates    []float64 `json:"plates"`
	Status    string    `json:"status"`
	Error     *string   `json:"error,omitempty"`
}
