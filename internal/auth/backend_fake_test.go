// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package auth_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/superdwayne/brandgate/internal/auth"
	"github.com/superdwayne/brandgate/internal/brand"
	"github.com/superdwayne/brandgate/pkg/uuid"
)

// fakeAccount is one registered user inside the fake backend.
type fakeAccount struct {
	id           string
	email        string
	passwordHash []byte
	metadata     map[string]any
}

// fakeBackend emulates a single brand's credential API for tests: bcrypt
// password storage, HS256-signed access tokens, and upstream-shaped error
// payloads.
type fakeBackend struct {
	t      *testing.T
	server *httptest.Server

	mu       sync.Mutex
	accounts map[string]*fakeAccount
	tokens   map[string]string // access token -> email
	requests int

	lastSignUpData map[string]any
	lastRedirectTo string
}

func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	backend := &fakeBackend{
		t:        t,
		accounts: make(map[string]*fakeAccount),
		tokens:   make(map[string]string),
	}
	backend.server = httptest.NewServer(http.HandlerFunc(backend.route))
	t.Cleanup(backend.server.Close)

	return backend
}

func (b *fakeBackend) url() string { return b.server.URL }

func (b *fakeBackend) requestCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.requests
}

// register seeds an account directly, bypassing the signup endpoint.
func (b *fakeBackend) register(email, password string, metadata map[string]any) {
	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.MinCost)
	require.NoError(b.t, err)

	b.mu.Lock()
	defer b.mu.Unlock()
	b.accounts[email] = &fakeAccount{
		id:           uuid.New(),
		email:        email,
		passwordHash: hash,
		metadata:     metadata,
	}
}

// issueToken mints a signed access token for a seeded account and records it
// as valid.
func (b *fakeBackend) issueToken(email string, expiresAt time.Time) string {
	b.mu.Lock()
	account := b.accounts[email]
	b.mu.Unlock()
	require.NotNil(b.t, account, "issueToken for unregistered account %s", email)

	return b.mintToken(account, expiresAt)
}

func (b *fakeBackend) mintToken(account *fakeAccount, expiresAt time.Time) string {
	claims := jwt.MapClaims{
		"sub":           account.id,
		"email":         account.email,
		"exp":           expiresAt.Unix(),
		"user_metadata": account.metadata,
	}
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("fake-backend-secret"))
	require.NoError(b.t, err)

	b.mu.Lock()
	b.tokens[token] = account.email
	b.mu.Unlock()

	return token
}

func (b *fakeBackend) route(writer http.ResponseWriter, request *http.Request) {
	b.mu.Lock()
	b.requests++
	b.mu.Unlock()

	switch {
	case request.Method == http.MethodPost && request.URL.Path == auth.PathSignUp:
		b.handleSignUp(writer, request)
	case request.Method == http.MethodPost && request.URL.Path == auth.PathToken:
		b.handleToken(writer, request)
	case request.Method == http.MethodPost && request.URL.Path == auth.PathLogout:
		writer.WriteHeader(http.StatusNoContent)
	case request.Method == http.MethodPost && request.URL.Path == auth.PathRecover:
		b.handleRecover(writer, request)
	case request.Method == http.MethodGet && request.URL.Path == auth.PathUser:
		b.handleGetUser(writer, request)
	case request.Method == http.MethodPut && request.URL.Path == auth.PathUser:
		b.handleUpdateUser(writer, request)
	default:
		b.writeError(writer, http.StatusNotFound, "route not found")
	}
}

func (b *fakeBackend) handleSignUp(writer http.ResponseWriter, request *http.Request) {
	input := struct {
		Email    string         `json:"email"`
		Password string         `json:"password"`
		Data     map[string]any `json:"data"`
	}{}
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		b.writeError(writer, http.StatusBadRequest, "invalid request body")
		return
	}

	b.mu.Lock()
	_, exists := b.accounts[input.Email]
	b.mu.Unlock()
	if exists {
		b.writeError(writer, http.StatusUnprocessableEntity, "User already registered")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.MinCost)
	require.NoError(b.t, err)

	account := &fakeAccount{
		id:           uuid.New(),
		email:        input.Email,
		passwordHash: hash,
		metadata:     input.Data,
	}
	b.mu.Lock()
	b.accounts[input.Email] = account
	b.lastSignUpData = input.Data
	b.mu.Unlock()

	// Auto-confirm: respond with a full session.
	b.writeSession(writer, account)
}

func (b *fakeBackend) handleToken(writer http.ResponseWriter, request *http.Request) {
	if request.URL.Query().Get("grant_type") != auth.GrantPassword {
		b.writeError(writer, http.StatusBadRequest, "unsupported grant type")
		return
	}

	input := struct {
		Email    string `json:"email"`
		Password string `json:"password"`
	}{}
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		b.writeError(writer, http.StatusBadRequest, "invalid request body")
		return
	}

	b.mu.Lock()
	account := b.accounts[input.Email]
	b.mu.Unlock()

	if account == nil || bcrypt.CompareHashAndPassword(account.passwordHash, []byte(input.Password)) != nil {
		b.writeError(writer, http.StatusBadRequest, "Invalid login credentials")
		return
	}

	b.writeSession(writer, account)
}

func (b *fakeBackend) handleRecover(writer http.ResponseWriter, request *http.Request) {
	b.mu.Lock()
	b.lastRedirectTo = request.URL.Query().Get("redirect_to")
	b.mu.Unlock()

	writer.Header().Set("Content-Type", "application/json")
	_, _ = writer.Write([]byte("{}"))
}

func (b *fakeBackend) bearerAccount(request *http.Request) *fakeAccount {
	token := strings.TrimPrefix(request.Header.Get("Authorization"), "Bearer ")

	b.mu.Lock()
	defer b.mu.Unlock()
	email, ok := b.tokens[token]
	if !ok {
		return nil
	}
	return b.accounts[email]
}

func (b *fakeBackend) handleGetUser(writer http.ResponseWriter, request *http.Request) {
	account := b.bearerAccount(request)
	if account == nil {
		b.writeError(writer, http.StatusUnauthorized, "invalid JWT: unable to find user")
		return
	}
	b.writeUser(writer, account)
}

func (b *fakeBackend) handleUpdateUser(writer http.ResponseWriter, request *http.Request) {
	account := b.bearerAccount(request)
	if account == nil {
		b.writeError(writer, http.StatusUnauthorized, "invalid JWT: unable to find user")
		return
	}

	input := struct {
		Password string `json:"password"`
	}{}
	if err := json.NewDecoder(request.Body).Decode(&input); err != nil {
		b.writeError(writer, http.StatusBadRequest, "invalid request body")
		return
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.MinCost)
	require.NoError(b.t, err)

	b.mu.Lock()
	account.passwordHash = hash
	b.mu.Unlock()

	b.writeUser(writer, account)
}

func (b *fakeBackend) writeSession(writer http.ResponseWriter, account *fakeAccount) {
	expiresAt := time.Now().Add(time.Hour)
	token := b.mintToken(account, expiresAt)

	writer.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(writer).Encode(map[string]any{
		"access_token":  token,
		"token_type":    "bearer",
		"expires_in":    3600,
		"expires_at":    expiresAt.Unix(),
		"refresh_token": uuid.New(),
		"user":          b.userPayload(account),
	})
}

func (b *fakeBackend) writeUser(writer http.ResponseWriter, account *fakeAccount) {
	writer.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(writer).Encode(b.userPayload(account))
}

func (b *fakeBackend) userPayload(account *fakeAccount) map[string]any {
	return map[string]any{
		"id":            account.id,
		"email":         account.email,
		"created_at":    time.Now().UTC().Format(time.RFC3339),
		"user_metadata": account.metadata,
	}
}

func (b *fakeBackend) writeError(writer http.ResponseWriter, status int, msg string) {
	writer.Header().Set("Content-Type", "application/json")
	writer.WriteHeader(status)
	_ = json.NewEncoder(writer).Encode(map[string]string{"msg": msg})
}

// # Shared Fixtures

// testRegistry builds a two-brand registry whose endpoints point at the given
// fake backends.
func testRegistry(t *testing.T, acme, globex *fakeBackend) *brand.Registry {
	t.Helper()

	registry, err := brand.NewRegistry([]brand.BrandConfig{
		{
			ID:                  "acme",
			DisplayName:         "Acme Corp",
			Endpoint:            acme.url(),
			AnonKey:             "acme-anon-key",
			AllowedEmailDomains: []string{"acme.com", "acme.co.uk"},
		},
		{
			ID:                  "globex",
			DisplayName:         "Globex",
			Endpoint:            globex.url(),
			AnonKey:             "globex-anon-key",
			AllowedEmailDomains: []string{"globex.io"},
		},
	})
	require.NoError(t, err)

	return registry
}
