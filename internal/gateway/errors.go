package gateway

import "errors"

// Kind classifies every gateway outcome. Callers never inspect raw
// transport details; they branch on the kind alone.
type Kind int

const (
	// KindUnauthenticated: no credential present when one is required.
	// Resolved locally by a redirect, never shown as an error message.
	KindUnauthenticated Kind = iota
	// KindSessionExpired: the credential was rejected by the gateway. The
	// session has already been invalidated by the time callers see this.
	KindSessionExpired
	// KindValidation: malformed input caught before dispatch. Never sent
	// to the network.
	KindValidation
	// KindTransport: network unreachable or no response. Retryable; does
	// not mutate the session.
	KindTransport
	// KindRemoteRejection: a non-401 error response. The server-supplied
	// message is surfaced verbatim.
	KindRemoteRejection
	// KindDataIntegrity: a fetched record or response violates a core
	// invariant.
	KindDataIntegrity
)

func (k Kind) String() string {
	switch k {
	case KindUnauthenticated:
		return "unauthenticated"
	case KindSessionExpired:
		return "session expired"
	case KindValidation:
		return "validation error"
	case KindTransport:
		return "transport failure"
	case KindRemoteRejection:
		return "remote rejection"
	case KindDataIntegrity:
		return "data integrity error"
	default:
		return "unknown"
	}
}

// Error is a classified gateway failure.
type Error struct {
	Kind    Kind
	Message string
	cause   error
}

func (e *Error) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.cause != nil {
		return e.cause.Error()
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error {
	return e.cause
}

// IsKind reports whether err is a gateway error of the given kind.
func IsKind(err error, kind Kind) bool {
	var gerr *Error
	return errors.As(err, &gerr) && gerr.Kind == kind
}

// NewValidation builds a validation failure for input rejected before
// dispatch.
func NewValidation(message string) error {
	return &Error{Kind: KindValidation, Message: message}
}
