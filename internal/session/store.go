package session

import (
	"crypto/sha256"
	"encoding/json"
	"os"
	"path/filepath"
	"slices"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/mr-tron/base58"
	"github.com/rs/zerolog/log"
)

const credentialFile = "credentials.json"

// credentialConfig is the on-disk layout, written atomically.
type credentialConfig struct {
	Version int       `json:"version"`
	Token   string    `json:"token,omitempty"`
	SavedAt time.Time `json:"saved_at,omitempty"`
}

// Store is the single source of truth for "is there a currently usable
// credential". It persists the credential under baseDir; when durable
// storage is unavailable it degrades to an in-memory-only session for the
// lifetime of the process.
type Store struct {
	mu          sync.Mutex
	baseDir     string
	durable     bool
	credential  string
	status      Status
	subscribers []func(Status)
}

// NewStore creates a session store rooted at baseDir.
// If baseDir is empty, uses ~/.turnstilectl/
func NewStore(baseDir string) *Store {
	if baseDir == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			log.Warn().Err(err).Msg("home directory unavailable, session will not survive restarts")
			return &Store{status: StatusUnknown}
		}
		baseDir = filepath.Join(home, ".turnstilectl")
	}

	if err := os.MkdirAll(baseDir, 0700); err != nil {
		log.Warn().Err(err).Str("baseDir", baseDir).Msg("session storage unavailable, using in-memory session")
		return &Store{status: StatusUnknown}
	}

	return &Store{baseDir: baseDir, durable: true, status: StatusUnknown}
}

// Bootstrap resolves the initial status from durable storage. It never
// makes a network call; a stored credential is kept unless it is provably
// expired, and real expiry detection is left to the gateway's rejection
// path. Calling it again after the first determination is a no-op.
func (s *Store) Bootstrap() Status {
	s.mu.Lock()
	if s.status != StatusUnknown {
		status := s.status
		s.mu.Unlock()
		return status
	}

	token, ok := s.readCredential()
	if ok && provablyExpired(token) {
		log.Info().Str("credential", Fingerprint(token)).Msg("stored credential has expired, discarding")
		s.removeCredentialFile()
		ok = false
	}

	if ok {
		s.credential = token
		s.status = StatusAuthenticated
	} else {
		s.status = StatusUnauthenticated
	}

	status := s.status
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	log.Debug().Stringer("status", status).Msg("session bootstrapped")
	for _, fn := range subs {
		fn(status)
	}

	return status
}

// Login stores the credential and marks the session authenticated.
// Idempotent: a second call simply replaces the stored credential.
func (s *Store) Login(credential string) {
	s.mu.Lock()
	s.credential = credential
	s.status = StatusAuthenticated
	s.persistCredential(credential)
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	log.Info().Str("credential", Fingerprint(credential)).Msg("session established")
	for _, fn := range subs {
		fn(StatusAuthenticated)
	}
}

// Logout clears the credential from memory and durable storage and marks
// the session unauthenticated, notifying subscribers synchronously.
// Idempotent: logging out of an already-unauthenticated session does not
// re-fire notifications.
func (s *Store) Logout() {
	s.mu.Lock()
	alreadyOut := s.status == StatusUnauthenticated && s.credential == ""
	s.credential = ""
	s.status = StatusUnauthenticated
	s.removeCredentialFile()
	subs := slices.Clone(s.subscribers)
	s.mu.Unlock()

	if alreadyOut {
		return
	}

	log.Info().Msg("session cleared")
	for _, fn := range subs {
		fn(StatusUnauthenticated)
	}
}

// Credential returns the stored credential, or false when none exists.
// It never fabricates a value and never fails.
func (s *Store) Credential() (string, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.credential, s.credential != ""
}

// Status returns the current authentication status.
func (s *Store) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// Subscribe registers fn to be called synchronously on every status
// transition. Subscribers must not call back into the store.
func (s *Store) Subscribe(fn func(Status)) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.subscribers = append(s.subscribers, fn)
}

// Fingerprint returns a short log-safe identifier for a credential so the
// raw token never reaches a log line.
func Fingerprint(credential string) string {
	sum := sha256.Sum256([]byte(credential))
	return base58.Encode(sum[:])[:8]
}

// provablyExpired reports whether the credential is a JWT whose exp claim
// is in the past. Opaque tokens and JWTs without an exp claim are assumed
// live; the gateway's rejection path is the authority either way.
func provablyExpired(token string) bool {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(token, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}

	return exp.Before(time.Now())
}

// persistCredential writes the credential file atomically. Callers hold the
// store lock. Write failures degrade to an in-memory session, not an error.
func (s *Store) persistCredential(token string) {
	if !s.durable {
		return
	}

	cfg := credentialConfig{Version: 1, Token: token, SavedAt: time.Now().UTC()}
	data, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		log.Warn().Err(err).Msg("failed to encode credential file")
		return
	}

	path := filepath.Join(s.baseDir, credentialFile)
	tempPath := path + ".tmp"

	if err := os.WriteFile(tempPath, data, 0600); err != nil {
		log.Warn().Err(err).Msg("failed to write credential file, session will not survive restarts")
		return
	}

	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		log.Warn().Err(err).Msg("failed to save credential file, session will not survive restarts")
	}
}

func (s *Store) readCredential() (string, bool) {
	if !s.durable {
		return "", false
	}

	data, err := os.ReadFile(filepath.Join(s.baseDir, credentialFile))
	if err != nil {
		if !os.IsNotExist(err) {
			log.Warn().Err(err).Msg("failed to read credential file")
		}
		return "", false
	}

	var cfg credentialConfig
	if err := json.Unmarshal(data, &cfg); err != nil {
		log.Warn().Err(err).Msg("failed to parse credential file, discarding")
		return "", false
	}

	return cfg.Token, cfg.Token != ""
}

func (s *Store) removeCredentialFile() {
	if !s.durable {
		return
	}

	if err := os.Remove(filepath.Join(s.baseDir, credentialFile)); err != nil && !os.IsNotExist(err) {
		log.Warn().Err(err).Msg("failed to remove credential file")
	}
}
