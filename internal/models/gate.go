package models

import "time"

// GateStatus values. The gateway enforces tag uniqueness per location.
const (
	GateStatusEnabled  = "enabled"
	GateStatusDisabled = "disabled"
)

// Gate represents a turnstile attached to exactly one location.
type Gate struct {
	ID         int64     `json:"id"`
	Tag        string    `json:"tag"`
	Status     string    `json:"status"`
	LocationID int64     `json:"location_id"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

// IsEnabled returns true if the gate is accepting movements.
func (g *Gate) IsEnabled() bool {
	return g.Status == GateStatusEnabled
}
