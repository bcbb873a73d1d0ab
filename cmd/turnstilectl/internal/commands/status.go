package commands

import (
	"context"
	"fmt"

	"github.com/turnstileops/turnstilectl/internal/gateway"
	"github.com/turnstileops/turnstilectl/internal/session"
)

type StatusCmd struct {
	Verify bool `help:"Confirm the credential with the gateway"`
}

func (s *StatusCmd) Run(ctx context.Context, globals *Globals) error {
	a, err := newApp(globals)
	if err != nil {
		return err
	}

	status := a.session.Status()
	fmt.Printf("Session: %s\n", status)

	cred, ok := a.session.Credential()
	if !ok {
		return nil
	}
	fmt.Printf("Credential: %s\n", session.Fingerprint(cred))

	if !s.Verify {
		return nil
	}

	// Opportunistic check only; bootstrap never depends on it.
	if err := a.client.Verify(ctx); err != nil {
		if gateway.IsKind(err, gateway.KindSessionExpired) {
			fmt.Println("Credential rejected by the gateway; session cleared")
			return nil
		}
		return err
	}

	fmt.Println("Credential confirmed by the gateway")
	return nil
}
