package models

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidCapacity is returned when a location record carries a
// non-positive declared capacity.
var ErrInvalidCapacity = errors.New("capacity must be a positive integer")

// Location represents a site in the access-control network. Each location
// declares a maximum capacity and carries a server-computed occupancy
// snapshot; the occupancy package recomputes the latter from movement
// history when history is available.
type Location struct {
	ID            int64     `json:"id"`
	Name          string    `json:"name"`
	Address       string    `json:"address"`
	MaxPeople     int       `json:"max_people"`
	CurrentPeople int       `json:"current_people"`
	Description   string    `json:"description,omitempty"`
	GoogleMapsURL string    `json:"google_maps_url,omitempty"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Validate checks the capacity invariants on a fetched record.
func (l *Location) Validate() error {
	if l.MaxPeople <= 0 {
		return fmt.Errorf("location %d: %w", l.ID, ErrInvalidCapacity)
	}
	if l.CurrentPeople < 0 {
		return fmt.Errorf("location %d: current_people must not be negative", l.ID)
	}
	return nil
}
