package console

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/turnstileops/turnstilectl/internal/routing"
	"github.com/turnstileops/turnstilectl/internal/session"
)

func newAuthenticated(t *testing.T) (*Navigator, *session.Store) {
	t.Helper()
	sess := session.NewStore(t.TempDir())
	sess.Bootstrap()
	sess.Login("tok-123")
	return NewNavigator(sess), sess
}

func TestNavigate_SuspendsBeforeBootstrap(t *testing.T) {
	sess := session.NewStore(t.TempDir())
	nav := NewNavigator(sess)

	_, err := nav.Navigate(t.Context(), routing.HomePath, nil)
	assert.ErrorIs(t, err, ErrSuspended)
}

func TestNavigate_ProtectedRedirectsToLogin(t *testing.T) {
	sess := session.NewStore(t.TempDir())
	sess.Bootstrap()
	nav := NewNavigator(sess)

	var rendered string
	resolved, err := nav.Navigate(t.Context(), routing.HomePath, func(ctx context.Context, target string) error {
		rendered = target
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, routing.LoginPath, resolved)
	assert.Equal(t, routing.LoginPath, rendered)
}

func TestNavigate_RendersProtectedWhenAuthenticated(t *testing.T) {
	nav, _ := newAuthenticated(t)

	resolved, err := nav.Navigate(t.Context(), "/locale/4", nil)
	require.NoError(t, err)
	assert.Equal(t, "/locale/4", resolved)
	assert.Equal(t, "/locale/4", nav.Current())
}

func TestNavigate_UnrecognizedPathResolvesThroughRoot(t *testing.T) {
	nav, _ := newAuthenticated(t)

	resolved, err := nav.Navigate(t.Context(), "/bogus", nil)
	require.NoError(t, err)
	assert.Equal(t, routing.HomePath, resolved)
}

func TestNavigate_CancelsPreviousView(t *testing.T) {
	nav, _ := newAuthenticated(t)

	var firstCtx context.Context
	_, err := nav.Navigate(t.Context(), "/locale/1", func(ctx context.Context, target string) error {
		firstCtx = ctx
		return nil
	})
	require.NoError(t, err)
	require.NoError(t, firstCtx.Err())

	_, err = nav.Navigate(t.Context(), "/locale/2", nil)
	require.NoError(t, err)

	assert.Error(t, firstCtx.Err(), "navigating away must cancel the previous view's fetches")
}

func TestNavigate_PendingFetchDiscardedOnSupersede(t *testing.T) {
	nav, _ := newAuthenticated(t)

	_, err := nav.Navigate(t.Context(), "/locale/1", func(ctx context.Context, target string) error {
		// A later navigation lands while this view's fetch is in flight.
		_, navErr := nav.Navigate(t.Context(), "/locale/2", nil)
		require.NoError(t, navErr)

		<-ctx.Done()
		return ctx.Err()
	})
	assert.ErrorIs(t, err, ErrSuperseded)
}

func TestLogout_CancelsActiveProtectedView(t *testing.T) {
	nav, sess := newAuthenticated(t)

	var viewCtx context.Context
	_, err := nav.Navigate(t.Context(), routing.HomePath, func(ctx context.Context, target string) error {
		viewCtx = ctx
		return nil
	})
	require.NoError(t, err)

	sess.Logout()

	assert.Error(t, viewCtx.Err())
	assert.Equal(t, routing.LoginPath, nav.Current())
}

func TestLogout_ThenProtectedNavigationRedirects(t *testing.T) {
	nav, sess := newAuthenticated(t)
	sess.Logout()

	resolved, err := nav.Navigate(t.Context(), routing.HomePath, nil)
	require.NoError(t, err)
	assert.Equal(t, routing.LoginPath, resolved)
}

func TestLogin_MovesPublicViewToHome(t *testing.T) {
	sess := session.NewStore(t.TempDir())
	sess.Bootstrap()
	nav := NewNavigator(sess)

	_, err := nav.Navigate(t.Context(), routing.LoginPath, nil)
	require.NoError(t, err)

	sess.Login("tok-123")
	assert.Equal(t, routing.HomePath, nav.Current())
}
