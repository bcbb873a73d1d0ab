package models

import "time"

// Movement operations recorded by gate hardware.
const (
	OperationEntry = "entry"
	OperationExit  = "exit"
)

// MovementEvent is an immutable, append-only record of a gate registering
// an entry or exit. Events are ordered by (created_at, id) ascending; ids
// are assigned monotonically at the source.
type MovementEvent struct {
	ID        int64     `json:"id"`
	GateID    int64     `json:"gate_id"`
	Operation string    `json:"operation"`
	CreatedAt time.Time `json:"created_at"`
}
