// Package routing maps navigation intents to rendering decisions based on
// the session status and a declarative route classification table.
package routing

import (
	"strings"

	"github.com/turnstileops/turnstilectl/internal/session"
)

// Class is a route's access classification. A route has exactly one class.
type Class int

const (
	// ClassUnrestricted routes render for any resolved status.
	ClassUnrestricted Class = iota
	// ClassPublicOnly routes (login, register) only make sense while
	// unauthenticated.
	ClassPublicOnly
	// ClassProtected routes require an authenticated session.
	ClassProtected
)

// Action is the outcome of a routing decision.
type Action int

const (
	ActionRender Action = iota
	// ActionSuspend renders nothing while the bootstrap determination is
	// still pending. Neither redirect may flash during this window.
	ActionSuspend
	ActionRedirect
)

// Well-known navigation targets.
const (
	RootPath     = "/"
	LoginPath    = "/login"
	RegisterPath = "/register"
	HomePath     = "/dashboard"
)

// Decision is what the navigator should do with a navigation intent.
type Decision struct {
	Action Action
	// Target is the redirect destination for ActionRedirect, or the
	// rendered path for ActionRender.
	Target string
	// ReplaceHistory marks redirects that must not leave a dead protected
	// page reachable via back-navigation.
	ReplaceHistory bool
}

type route struct {
	// pattern is an exact path, or a prefix when it ends in "/".
	pattern string
	class   Class
}

// The route table. Order matters only for readability; a path matches at
// most one entry besides the root.
var routes = []route{
	{LoginPath, ClassPublicOnly},
	{RegisterPath, ClassPublicOnly},
	{HomePath, ClassProtected},
	{"/locale/", ClassProtected},
	{"/gate/", ClassProtected},
	{RootPath, ClassUnrestricted},
}

// Classify returns the classification for path and whether the path is
// recognized at all.
func Classify(path string) (Class, bool) {
	for _, r := range routes {
		if r.pattern == path {
			return r.class, true
		}
		if r.pattern != RootPath && strings.HasSuffix(r.pattern, "/") && strings.HasPrefix(path, r.pattern) {
			return r.class, true
		}
	}
	return ClassUnrestricted, false
}

// Decide maps a navigation intent to a decision. Checks run in a fixed
// order: unresolved status suspends, protected routes redirect to login,
// public-only routes redirect to the authenticated home, everything else
// renders. Unrecognized paths resolve through the root, which itself
// redirects to login or home by status.
func Decide(path string, status session.Status) Decision {
	if status == session.StatusUnknown {
		return Decision{Action: ActionSuspend}
	}

	class, known := Classify(path)
	if !known {
		return Decision{Action: ActionRedirect, Target: RootPath}
	}

	switch {
	case class == ClassProtected && status == session.StatusUnauthenticated:
		return Decision{Action: ActionRedirect, Target: LoginPath, ReplaceHistory: true}
	case class == ClassPublicOnly && status == session.StatusAuthenticated:
		return Decision{Action: ActionRedirect, Target: HomePath}
	}

	if path == RootPath {
		if status == session.StatusAuthenticated {
			return Decision{Action: ActionRedirect, Target: HomePath}
		}
		return Decision{Action: ActionRedirect, Target: LoginPath}
	}

	return Decision{Action: ActionRender, Target: path}
}
