package commands

import (
	"context"
	"fmt"

	"github.com/turnstileops/turnstilectl/internal/routing"
)

type LoginCmd struct {
	Email    string `arg:"" help:"Operator email"`
	Password string `help:"Password (prompted when omitted)" env:"TURNSTILECTL_PASSWORD"`
}

func (l *LoginCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	// Route through /login first so an already-authenticated session is
	// redirected home instead of silently replacing its credential.
	resolved, err := a.nav.Navigate(ctx, routing.LoginPath, nil)
	if err != nil {
		return err
	}
	if resolved != routing.LoginPath {
		return fmt.Errorf("already signed in, run 'turnstilectl logout' to switch operators")
	}

	password := l.Password
	if password == "" {
		password, err = promptPassword("Password: ")
		if err != nil {
			return err
		}
	}

	if err := a.client.Login(ctx, l.Email, password); err != nil {
		return err
	}

	fmt.Printf("Signed in as %s\n", l.Email)
	return nil
}
