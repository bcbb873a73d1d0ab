// Package gateway wraps every outgoing call to the remote credential
// gateway. It attaches the current credential, classifies each outcome
// into the console's error vocabulary, and is the single place where an
// authorization-denied response is converted into a session transition.
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/cenkalti/backoff/v5"
	"github.com/google/uuid"
	"github.com/gregjones/httpcache"
	"github.com/klauspost/compress/gzhttp"
	"github.com/rs/zerolog/log"

	"github.com/turnstileops/turnstilectl/internal/logger"
	"github.com/turnstileops/turnstilectl/internal/session"
)

// Config holds gateway client configuration.
type Config struct {
	BaseURL  string
	Timeout  time.Duration
	MaxTries uint
	Debug    bool
}

// DefaultConfig returns a default gateway configuration.
func DefaultConfig() Config {
	return Config{
		BaseURL:  "http://localhost:3000",
		Timeout:  30 * time.Second,
		MaxTries: 3,
	}
}

// Client is the resource gateway adapter.
type Client struct {
	cfg     Config
	session *session.Store
	http    *http.Client
}

// New creates a gateway client bound to the given session store. The
// transport decompresses gzip responses transparently and caches GETs the
// server marks cacheable.
func New(cfg Config, sess *session.Store) *Client {
	if cfg.MaxTries == 0 {
		cfg.MaxTries = DefaultConfig().MaxTries
	}

	cached := httpcache.NewTransport(httpcache.NewMemoryCache())
	cached.Transport = logger.NewRequests(gzhttp.Transport(http.DefaultTransport), log.Logger)

	return &Client{
		cfg:     cfg,
		session: sess,
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: cached,
		},
	}
}

// errorEnvelope is the gateway's error response shape.
type errorEnvelope struct {
	Message string `json:"message"`
}

// do issues one request, retrying transport failures with exponential
// backoff. All classified failures other than transport are permanent for
// the retry loop. When authorized is set and no credential exists, it
// fails fast without a network round-trip.
func (c *Client) do(ctx context.Context, method, path string, body any, out any, authorized bool) error {
	var token string
	if authorized {
		tok, ok := c.session.Credential()
		if !ok {
			return &Error{Kind: KindUnauthenticated, Message: "no credential available"}
		}
		token = tok
	}

	var payload []byte
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return &Error{Kind: KindValidation, Message: "failed to encode request", cause: err}
		}
		payload = data
	}

	operation := func() (struct{}, error) {
		return struct{}{}, c.roundTrip(ctx, method, path, payload, out, token, authorized)
	}

	_, err := backoff.Retry(ctx, operation,
		backoff.WithBackOff(backoff.NewExponentialBackOff()),
		backoff.WithMaxTries(c.cfg.MaxTries),
	)
	return err
}

func (c *Client) roundTrip(ctx context.Context, method, path string, payload []byte, out any, token string, authorized bool) error {
	var reqBody io.Reader
	if payload != nil {
		reqBody = bytes.NewReader(payload)
	}

	url := strings.TrimSuffix(c.cfg.BaseURL, "/") + path
	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return backoff.Permanent(&Error{Kind: KindTransport, Message: "failed to build request", cause: err})
	}

	req.Header.Set("Accept", "application/json")
	req.Header.Set("X-Request-Id", uuid.New().String())
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
			return backoff.Permanent(&Error{Kind: KindTransport, Message: "request cancelled", cause: err})
		}
		return &Error{Kind: KindTransport, Message: "credential gateway unreachable", cause: err}
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{Kind: KindTransport, Message: "failed to read response", cause: err}
	}

	if resp.StatusCode == http.StatusUnauthorized {
		if authorized {
			// The one place "the session is no longer valid" is detected.
			// Logout is idempotent, so concurrent rejections are safe.
			log.Info().Msg("credential rejected by gateway, clearing session")
			c.session.Logout()
			return backoff.Permanent(&Error{Kind: KindSessionExpired, Message: "session expired, sign in again"})
		}
		return backoff.Permanent(&Error{Kind: KindRemoteRejection, Message: serverMessage(data, resp.StatusCode)})
	}

	if resp.StatusCode >= 400 {
		return backoff.Permanent(&Error{Kind: KindRemoteRejection, Message: serverMessage(data, resp.StatusCode)})
	}

	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return backoff.Permanent(&Error{Kind: KindDataIntegrity, Message: "malformed gateway response", cause: err})
		}
	}

	return nil
}

// serverMessage extracts the server-supplied message, surfaced verbatim.
func serverMessage(data []byte, status int) string {
	var env errorEnvelope
	if err := json.Unmarshal(data, &env); err == nil && env.Message != "" {
		return env.Message
	}
	return fmt.Sprintf("credential gateway returned status %d", status)
}
