// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package auth_test

import (
	"context"
	"log/slog"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/superdwayne/brandgate/internal/auth"
	"github.com/superdwayne/brandgate/internal/brand"
	"github.com/superdwayne/brandgate/internal/platform/apperr"
)

// newTestClient binds a client to the acme brand of a fresh two-backend
// fixture.
func newTestClient(t *testing.T) (*auth.Client, *fakeBackend) {
	t.Helper()

	acme := newFakeBackend(t)
	globex := newFakeBackend(t)
	registry := testRegistry(t, acme, globex)

	cfg, err := registry.Get("acme")
	require.NoError(t, err)

	client := auth.NewClient(cfg, registry, slog.New(slog.DiscardHandler))
	return client, acme
}

/*
TestClient_SignUp_UnknownDomain verifies that an unregistered email domain is
rejected before any network traffic.
*/
func TestClient_SignUp_UnknownDomain(t *testing.T) {
	client, backend := newTestClient(t)

	session, err := client.SignUp(context.Background(), "someone@gmail.com", "secret123", nil)

	require.Error(t, err)
	assert.Nil(t, session)
	assert.True(t, apperr.IsCode(err, "INVALID_EMAIL_DOMAIN"))
	assert.Equal(t, 0, backend.requestCount(), "unknown domain must not reach the backend")
}

/*
TestClient_SignUp_WeakPassword verifies the sign-up password policy blocks
the request locally.
*/
func TestClient_SignUp_WeakPassword(t *testing.T) {
	tests := []struct {
		name     string
		password string
	}{
		{"too_short", "ab1"},
		{"no_digit", "abcdefgh"},
		{"no_letter", "12345678"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client, backend := newTestClient(t)

			_, err := client.SignUp(context.Background(), "user@acme.com", tt.password, nil)

			require.Error(t, err)
			assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
			assert.Equal(t, 0, backend.requestCount())
		})
	}
}

/*
TestClient_SignUp_InjectsResolvedBrand verifies the resolved brand id
overrides any caller-supplied hint in the metadata bag.
*/
func TestClient_SignUp_InjectsResolvedBrand(t *testing.T) {
	client, backend := newTestClient(t)

	// A hostile or confused caller claims a different brand.
	metadata := map[string]any{
		"brand_id":  "globex",
		"full_name": "Jo Acme",
	}

	session, err := client.SignUp(context.Background(), "jo@acme.com", "secret123", metadata)

	require.NoError(t, err)
	require.NotNil(t, session)
	require.NotNil(t, session.User)
	assert.NotEmpty(t, session.AccessToken)

	assert.Equal(t, "acme", backend.lastSignUpData["brand_id"], "resolved brand must win over the hint")
	assert.Equal(t, "Jo Acme", backend.lastSignUpData["full_name"], "caller metadata must survive the merge")
	assert.Equal(t, "acme", session.User.BrandID())
}

/*
TestClient_SignUp_CaseInsensitiveDomain verifies domain matching ignores
case.
*/
func TestClient_SignUp_CaseInsensitiveDomain(t *testing.T) {
	client, _ := newTestClient(t)

	session, err := client.SignUp(context.Background(), "jo@ACME.COM", "secret123", nil)

	require.NoError(t, err)
	assert.Equal(t, "acme", session.User.BrandID())
}

/*
TestClient_SignIn verifies the password grant round-trip and local shape
validation.
*/
func TestClient_SignIn(t *testing.T) {
	client, backend := newTestClient(t)
	backend.register("jo@acme.com", "secret123", map[string]any{"brand_id": "acme"})

	t.Run("succeeds", func(t *testing.T) {
		session, err := client.SignIn(context.Background(), "jo@acme.com", "secret123")

		require.NoError(t, err)
		require.NotNil(t, session.User)
		assert.NotEmpty(t, session.AccessToken)
		assert.Equal(t, "jo@acme.com", session.User.Email)
	})

	t.Run("wrong_password_forwards_backend_error", func(t *testing.T) {
		_, err := client.SignIn(context.Background(), "jo@acme.com", "wrong-pass1")

		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "BACKEND_ERROR", ae.Code)
		assert.Equal(t, http.StatusBadRequest, ae.HTTPStatus)
		assert.Equal(t, "Invalid login credentials", ae.Message, "upstream message must be forwarded verbatim")
	})

	t.Run("malformed_email_rejected_locally", func(t *testing.T) {
		before := backend.requestCount()

		_, err := client.SignIn(context.Background(), "not-an-email", "secret123")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
		assert.Equal(t, before, backend.requestCount())
	})
}

/*
TestClient_SignOut verifies the remote revocation call.
*/
func TestClient_SignOut(t *testing.T) {
	client, backend := newTestClient(t)
	backend.register("jo@acme.com", "secret123", nil)

	session, err := client.SignIn(context.Background(), "jo@acme.com", "secret123")
	require.NoError(t, err)

	assert.NoError(t, client.SignOut(context.Background(), session.AccessToken))
}

/*
TestClient_ResetPassword verifies the brand-scoped redirect URL and the
non-empty email guard.
*/
func TestClient_ResetPassword(t *testing.T) {
	client, backend := newTestClient(t)

	t.Run("brand_scoped_redirect", func(t *testing.T) {
		require.NoError(t, client.ResetPassword(context.Background(), "jo@acme.com"))
		assert.Equal(t, "https://acme.brandgate.io/reset-password", backend.lastRedirectTo)
	})

	t.Run("empty_email_rejected", func(t *testing.T) {
		err := client.ResetPassword(context.Background(), "")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
	})
}

/*
TestClient_UpdatePassword verifies the policy re-check and the happy path.
*/
func TestClient_UpdatePassword(t *testing.T) {
	client, backend := newTestClient(t)
	backend.register("jo@acme.com", "secret123", map[string]any{"brand_id": "acme"})

	session, err := client.SignIn(context.Background(), "jo@acme.com", "secret123")
	require.NoError(t, err)

	t.Run("weak_password_rejected_locally", func(t *testing.T) {
		before := backend.requestCount()

		_, err := client.UpdatePassword(context.Background(), session.AccessToken, "short")

		require.Error(t, err)
		assert.True(t, apperr.IsCode(err, "VALIDATION_ERROR"))
		assert.Equal(t, before, backend.requestCount())
	})

	t.Run("succeeds_and_new_password_works", func(t *testing.T) {
		user, err := client.UpdatePassword(context.Background(), session.AccessToken, "newsecret456")

		require.NoError(t, err)
		assert.Equal(t, "jo@acme.com", user.Email)

		_, err = client.SignIn(context.Background(), "jo@acme.com", "newsecret456")
		assert.NoError(t, err)
	})
}

/*
TestClient_GetUser verifies token-based user hydration.
*/
func TestClient_GetUser(t *testing.T) {
	client, backend := newTestClient(t)
	backend.register("jo@acme.com", "secret123", map[string]any{"brand_id": "acme"})

	session, err := client.SignIn(context.Background(), "jo@acme.com", "secret123")
	require.NoError(t, err)

	t.Run("valid_token", func(t *testing.T) {
		user, err := client.GetUser(context.Background(), session.AccessToken)

		require.NoError(t, err)
		assert.Equal(t, "jo@acme.com", user.Email)
		assert.Equal(t, "acme", user.BrandID())
	})

	t.Run("revoked_token_forwards_401", func(t *testing.T) {
		_, err := client.GetUser(context.Background(), "garbage-token")

		require.Error(t, err)
		ae := apperr.As(err)
		require.NotNil(t, ae)
		assert.Equal(t, "BACKEND_ERROR", ae.Code)
		assert.Equal(t, http.StatusUnauthorized, ae.HTTPStatus)
	})
}

/*
TestClient_BackendUnreachable verifies transport failures surface as
BACKEND_UNREACHABLE rather than a forwarded status.
*/
func TestClient_BackendUnreachable(t *testing.T) {
	registry, err := brand.NewRegistry([]brand.BrandConfig{{
		ID:                  "acme",
		DisplayName:         "Acme Corp",
		Endpoint:            "http://127.0.0.1:1", // nothing listens here
		AnonKey:             "acme-anon-key",
		AllowedEmailDomains: []string{"acme.com"},
	}})
	require.NoError(t, err)

	cfg, err := registry.Get("acme")
	require.NoError(t, err)
	client := auth.NewClient(cfg, registry, slog.New(slog.DiscardHandler))

	_, err = client.SignIn(context.Background(), "jo@acme.com", "secret123")

	require.Error(t, err)
	ae := apperr.As(err)
	require.NotNil(t, ae)
	assert.Equal(t, "BACKEND_UNREACHABLE", ae.Code)
	assert.Equal(t, http.StatusBadGateway, ae.HTTPStatus)
}
