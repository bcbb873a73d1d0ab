package commands

import (
	"context"
	"fmt"

	"github.com/turnstileops/turnstilectl/internal/routing"
)

type RegisterCmd struct {
	Name  string `arg:"" help:"Operator display name"`
	Email string `arg:"" help:"Operator email"`
}

func (r *RegisterCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	resolved, err := a.nav.Navigate(ctx, routing.RegisterPath, nil)
	if err != nil {
		return err
	}
	if resolved != routing.RegisterPath {
		return fmt.Errorf("already signed in, run 'turnstilectl logout' first")
	}

	password, err := promptPassword("Password: ")
	if err != nil {
		return err
	}
	repeat, err := promptPassword("Repeat password: ")
	if err != nil {
		return err
	}

	message, err := a.client.Register(ctx, r.Name, r.Email, password, repeat)
	if err != nil {
		return err
	}

	if message == "" {
		message = "account created"
	}
	fmt.Println(message)
	fmt.Printf("Sign in with 'turnstilectl login %s'\n", r.Email)
	return nil
}
