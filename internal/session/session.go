// Package session owns the bearer credential's lifecycle: acquire, persist,
// retrieve, invalidate, and the derived authentication status. It is the
// single writer of the persisted credential; everything else observes it
// through read accessors and change notifications.
package session

// Status is the client's current belief about its authentication state.
type Status int

const (
	// StatusUnknown holds only during the bootstrap read, before the first
	// determination completes. It is never re-entered afterward.
	StatusUnknown Status = iota
	StatusAuthenticated
	StatusUnauthenticated
)

func (s Status) String() string {
	switch s {
	case StatusAuthenticated:
		return "authenticated"
	case StatusUnauthenticated:
		return "unauthenticated"
	default:
		return "unknown"
	}
}
