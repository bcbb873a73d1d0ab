// Package console is the navigation shell: it resolves navigation intents
// through the routing policy and scopes each rendered view to a context
// that dies as soon as the view is navigated away from or the session
// changes underneath it.
package console

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog/log"

	"github.com/turnstileops/turnstilectl/internal/routing"
	"github.com/turnstileops/turnstilectl/internal/session"
)

// ErrSuspended is returned when navigation is attempted before the
// bootstrap determination has resolved.
var ErrSuspended = errors.New("session status unresolved")

// ErrSuperseded is returned when a view's pending fetch was discarded
// because a later navigation or session change invalidated it.
var ErrSuperseded = errors.New("view superseded")

const maxRedirects = 4

// View renders a navigation target. The target is the resolved path after
// redirects; views bound to a specific path should check it.
type View func(ctx context.Context, target string) error

// Navigator owns the active view. It is the only component that reacts to
// session transitions by re-routing.
type Navigator struct {
	mu      sync.Mutex
	session *session.Store
	path    string
	cancel  context.CancelFunc
}

// NewNavigator creates a navigator subscribed to session changes.
func NewNavigator(sess *session.Store) *Navigator {
	n := &Navigator{session: sess, path: routing.RootPath}
	sess.Subscribe(n.onStatusChange)
	return n
}

// Current returns the path of the active view.
func (n *Navigator) Current() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.path
}

// Navigate resolves the routing decision for path, follows redirects to
// their terminal target, and runs view under a context cancelled by the
// next navigation. Results that arrive after the view was abandoned are
// discarded via that cancellation.
func (n *Navigator) Navigate(ctx context.Context, path string, view View) (string, error) {
	status := n.session.Status()

	resolved := path
	for hops := 0; ; hops++ {
		if hops > maxRedirects {
			return "", fmt.Errorf("routing loop resolving %q", path)
		}

		decision := routing.Decide(resolved, status)
		if decision.Action == routing.ActionSuspend {
			return "", ErrSuspended
		}
		if decision.Action == routing.ActionRedirect {
			log.Debug().Str("from", resolved).Str("to", decision.Target).Msg("redirect")
			resolved = decision.Target
			continue
		}
		break
	}

	viewCtx := n.begin(resolved, ctx)
	if view == nil {
		return resolved, nil
	}

	if err := view(viewCtx, resolved); err != nil {
		if viewCtx.Err() != nil && ctx.Err() == nil && !isClassified(err) {
			return resolved, ErrSuperseded
		}
		return resolved, err
	}

	return resolved, nil
}

// begin replaces the active view, cancelling the previous view's context.
func (n *Navigator) begin(path string, parent context.Context) context.Context {
	n.mu.Lock()
	defer n.mu.Unlock()

	if n.cancel != nil {
		n.cancel()
	}

	ctx, cancel := context.WithCancel(parent)
	n.path = path
	n.cancel = cancel
	return ctx
}

// onStatusChange re-evaluates the active view when the session changes.
// A logout while a protected view is active cancels its in-flight work
// and moves the navigator to the redirect target; routing decisions are
// therefore always made against the post-transition status.
func (n *Navigator) onStatusChange(status session.Status) {
	n.mu.Lock()
	defer n.mu.Unlock()

	decision := routing.Decide(n.path, status)
	if decision.Action != routing.ActionRedirect {
		return
	}

	log.Debug().Str("from", n.path).Str("to", decision.Target).Stringer("status", status).Msg("session change re-route")
	if n.cancel != nil {
		n.cancel()
		n.cancel = nil
	}
	n.path = decision.Target
}

// isClassified reports whether err carries its own meaning for the caller
// (a session-expiry, for instance) rather than being a bare side effect of
// the view context's cancellation.
func isClassified(err error) bool {
	return !errors.Is(err, context.Canceled) && !errors.Is(err, context.DeadlineExceeded)
}
