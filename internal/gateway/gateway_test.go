package gateway

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnstileops/turnstilectl/internal/models"
	"github.com/turnstileops/turnstilectl/internal/session"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *session.Store) {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	sess := session.NewStore(t.TempDir())
	sess.Bootstrap()

	client := New(Config{
		BaseURL:  server.URL,
		Timeout:  5 * time.Second,
		MaxTries: 1,
	}, sess)

	return client, sess
}

func TestLogin_StoresToken(t *testing.T) {
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, http.MethodPost, r.Method)
		require.Equal(t, "/auth/login", r.URL.Path)

		var req loginRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))
		assert.Equal(t, "op@example.com", req.Email)

		json.NewEncoder(w).Encode(map[string]string{"token": "tok-123"})
	}))

	err := client.Login(t.Context(), "op@example.com", "secret")
	require.NoError(t, err)

	assert.Equal(t, session.StatusAuthenticated, sess.Status())
	cred, ok := sess.Credential()
	require.True(t, ok)
	assert.Equal(t, "tok-123", cred)
}

func TestLogin_RejectionDoesNotTouchSession(t *testing.T) {
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "invalid credentials"})
	}))

	err := client.Login(t.Context(), "op@example.com", "wrong")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindRemoteRejection))
	assert.Equal(t, "invalid credentials", err.Error())
	assert.Equal(t, session.StatusUnauthenticated, sess.Status())
}

func TestDo_FailsFastWithoutCredential(t *testing.T) {
	var hits atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	_, err := client.ListLocations(t.Context())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnauthenticated))
	assert.Equal(t, int64(0), hits.Load(), "no network round-trip for a missing credential")
}

func TestDo_UnauthorizedTriggersLogoutOnce(t *testing.T) {
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusUnauthorized)
		json.NewEncoder(w).Encode(map[string]string{"message": "token expired"})
	}))

	sess.Login("tok-123")

	var logouts int
	sess.Subscribe(func(status session.Status) {
		if status == session.StatusUnauthenticated {
			logouts++
		}
	})

	_, err := client.GetGate(t.Context(), 7)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindSessionExpired))
	assert.Equal(t, session.StatusUnauthenticated, sess.Status())
	assert.Equal(t, 1, logouts)

	// A second rejected in-flight call ends in exactly the same state. The
	// credential is already gone, so the gateway fails fast instead.
	_, err = client.GetGate(t.Context(), 7)
	require.Error(t, err)
	assert.True(t, IsKind(err, KindUnauthenticated))
	assert.Equal(t, 1, logouts)
	_, ok := sess.Credential()
	assert.False(t, ok)
}

func TestDo_DoubleRejectionIdempotent(t *testing.T) {
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
	}))

	sess.Login("tok-123")

	var notifications int
	sess.Subscribe(func(session.Status) { notifications++ })

	// Simulate two concurrent in-flight calls both rejected: re-login
	// between them is not possible, so drive roundTrip directly with the
	// stale token.
	err := client.roundTrip(t.Context(), http.MethodGet, "/gates/7", nil, nil, "tok-123", true)
	require.Error(t, err)
	err = client.roundTrip(t.Context(), http.MethodGet, "/gates/7", nil, nil, "tok-123", true)
	require.Error(t, err)

	assert.Equal(t, session.StatusUnauthenticated, sess.Status())
	assert.Equal(t, 1, notifications, "second rejection must not re-fire logout side effects")
}

func TestDo_RemoteRejectionVerbatimMessage(t *testing.T) {
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusConflict)
		json.NewEncoder(w).Encode(map[string]string{"message": "tag already registered for this location"})
	}))

	sess.Login("tok-123")

	_, err := client.CreateGate(t.Context(), GateParams{Tag: "north-1", Status: models.GateStatusEnabled, LocationID: 4})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindRemoteRejection))
	assert.Equal(t, "tag already registered for this location", err.Error())
	assert.Equal(t, session.StatusAuthenticated, sess.Status(), "non-401 rejection must not mutate the session")
}

func TestDo_TransportFailureDoesNotMutateSession(t *testing.T) {
	sess := session.NewStore(t.TempDir())
	sess.Bootstrap()
	sess.Login("tok-123")

	// Grab a port that nothing listens on.
	server := httptest.NewServer(http.NotFoundHandler())
	url := server.URL
	server.Close()

	client := New(Config{BaseURL: url, Timeout: time.Second, MaxTries: 1}, sess)

	_, err := client.ListLocations(t.Context())
	require.Error(t, err)
	assert.True(t, IsKind(err, KindTransport))
	assert.Equal(t, session.StatusAuthenticated, sess.Status())
}

func TestListLocations_DecodesEnvelope(t *testing.T) {
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/locations", r.URL.Path)
		assert.NotEmpty(t, r.Header.Get("X-Request-Id"))

		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": 1, "name": "Main Hall", "address": "1 Main St", "max_people": 100, "current_people": 12},
			},
		})
	}))

	sess.Login("tok-123")

	locations, err := client.ListLocations(t.Context())
	require.NoError(t, err)
	require.Len(t, locations, 1)
	assert.Equal(t, "Main Hall", locations[0].Name)
	assert.Equal(t, 100, locations[0].MaxPeople)
}

func TestRegister_PasswordMismatchNeverDispatched(t *testing.T) {
	var hits atomic.Int64
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	_, err := client.Register(t.Context(), "Op", "op@example.com", "secret", "secrat")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, int64(0), hits.Load())
}

func TestCreateLocation_ValidatesCapacityLocally(t *testing.T) {
	var hits atomic.Int64
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits.Add(1)
	}))

	sess.Login("tok-123")

	_, err := client.CreateLocation(t.Context(), LocationParams{Name: "X", Address: "Y", MaxPeople: 0})
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
	assert.Equal(t, int64(0), hits.Load())
}

func TestLocationHistory_Decodes(t *testing.T) {
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/locations/9/history", r.URL.Path)
		json.NewEncoder(w).Encode(map[string]any{
			"data": []map[string]any{
				{"id": 1, "gate_id": 2, "operation": "entry", "created_at": "2026-08-01T09:00:00Z"},
				{"id": 2, "gate_id": 2, "operation": "exit", "created_at": "2026-08-01T09:05:00Z"},
			},
		})
	}))

	sess.Login("tok-123")

	events, err := client.LocationHistory(t.Context(), 9)
	require.NoError(t, err)
	require.Len(t, events, 2)
	assert.Equal(t, models.OperationEntry, events[0].Operation)
	assert.Equal(t, models.OperationExit, events[1].Operation)
}

func TestVerify_UsesBearer(t *testing.T) {
	client, sess := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/auth/verify", r.URL.Path)
		assert.Equal(t, "Bearer tok-123", r.Header.Get("Authorization"))
		w.WriteHeader(http.StatusOK)
	}))

	sess.Login("tok-123")

	require.NoError(t, client.Verify(t.Context()))
}
