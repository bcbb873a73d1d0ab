package gateway

import (
	"context"
	"net/http"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type loginResponse struct {
	Token string `json:"token"`
}

type registerRequest struct {
	Name           string `json:"name"`
	Email          string `json:"email"`
	Password       string `json:"password"`
	RepeatPassword string `json:"repeat_password"`
}

type registerResponse struct {
	Message string `json:"message"`
}

// Login authenticates the operator and hands the issued credential to the
// session store.
func (c *Client) Login(ctx context.Context, email, password string) error {
	if email == "" || password == "" {
		return NewValidation("email and password are required")
	}

	var resp loginResponse
	err := c.do(ctx, http.MethodPost, "/auth/login", loginRequest{Email: email, Password: password}, &resp, false)
	if err != nil {
		return err
	}

	if resp.Token == "" {
		return &Error{Kind: KindDataIntegrity, Message: "login response missing token"}
	}

	c.session.Login(resp.Token)
	return nil
}

// Register creates an operator account. The password mismatch check runs
// locally; a mismatch is never dispatched.
func (c *Client) Register(ctx context.Context, name, email, password, repeat string) (string, error) {
	switch {
	case name == "" || email == "" || password == "":
		return "", NewValidation("name, email and password are required")
	case password != repeat:
		return "", NewValidation("passwords do not match")
	}

	var resp registerResponse
	err := c.do(ctx, http.MethodPost, "/auth/register", registerRequest{
		Name:           name,
		Email:          email,
		Password:       password,
		RepeatPassword: repeat,
	}, &resp, false)
	if err != nil {
		return "", err
	}

	return resp.Message, nil
}

// Verify opportunistically confirms the stored credential with the
// gateway. Bootstrap correctness does not depend on it; an expired
// credential surfaces here as KindSessionExpired with the session already
// cleared.
func (c *Client) Verify(ctx context.Context) error {
	return c.do(ctx, http.MethodGet, "/auth/verify", nil, nil, true)
}
