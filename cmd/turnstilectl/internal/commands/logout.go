package commands

import (
	"context"
	"fmt"

	"github.com/turnstileops/turnstilectl/internal/session"
)

type LogoutCmd struct{}

func (l *LogoutCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	if a.session.Status() != session.StatusAuthenticated {
		fmt.Println("Not signed in")
		return nil
	}

	a.session.Logout()
	fmt.Println("Signed out")
	return nil
}
