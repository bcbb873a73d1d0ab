package commands

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"strings"
	"time"

	"golang.org/x/term"

	"github.com/turnstileops/turnstilectl/internal/config"
	"github.com/turnstileops/turnstilectl/internal/console"
	"github.com/turnstileops/turnstilectl/internal/gateway"
	"github.com/turnstileops/turnstilectl/internal/routing"
	"github.com/turnstileops/turnstilectl/internal/session"
)

type Globals struct {
	Server  string
	Config  string
	Debug   bool
	Version string
}

// app wires the session store, gateway client and navigator for one
// command invocation.
type app struct {
	cfg     config.Config
	session *session.Store
	client  *gateway.Client
	nav     *console.Navigator
}

func newApp(globals *Globals) (*app, error) {
	cfg, err := config.Load(globals.Config)
	if err != nil {
		return nil, err
	}
	if globals.Server != "" {
		cfg.Server = globals.Server
	}
	if globals.Debug {
		cfg.Debug = true
	}

	sess := session.NewStore(cfg.StateDir)
	sess.Bootstrap()

	client := gateway.New(gateway.Config{
		BaseURL: cfg.Server,
		Timeout: cfg.Timeout.Std(),
		Debug:   cfg.Debug,
	}, sess)

	return &app{
		cfg:     cfg,
		session: sess,
		client:  client,
		nav:     console.NewNavigator(sess),
	}, nil
}

// render runs view as the navigation target at path. When the router
// redirects away, the view does not run and the redirect is translated
// into operator guidance instead of an error toast.
func (a *app) render(ctx context.Context, path string, view func(ctx context.Context) error) error {
	resolved, err := a.nav.Navigate(ctx, path, func(viewCtx context.Context, target string) error {
		if target != path {
			return nil
		}
		return view(viewCtx)
	})
	if err != nil {
		// Classified gateway failures carry operator-ready messages; the
		// session-expired path in particular already cleared the session.
		return err
	}

	if resolved != path {
		switch resolved {
		case routing.LoginPath:
			return fmt.Errorf("not signed in, run 'turnstilectl login <email>'")
		case routing.HomePath:
			return fmt.Errorf("already signed in, run 'turnstilectl logout' first")
		}
	}

	return nil
}

var stdin = bufio.NewReader(os.Stdin)

// promptPassword reads a password without echo when stdin is a terminal,
// and falls back to line input otherwise so the commands stay scriptable.
func promptPassword(label string) (string, error) {
	fmt.Print(label)

	if term.IsTerminal(int(os.Stdin.Fd())) {
		defer fmt.Println()
		data, err := term.ReadPassword(int(os.Stdin.Fd()))
		if err != nil {
			return "", fmt.Errorf("failed to read password: %w", err)
		}
		return string(data), nil
	}

	line, err := stdin.ReadString('\n')
	if err != nil && line == "" {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func formatTime(t time.Time) string {
	if t.IsZero() {
		return "-"
	}
	return t.Local().Format("2006-01-02 15:04:05")
}

func truncate(s string, max int) string {
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}
