// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

/*
Package auth implements the brand-aware authentication flow.

It wraps per-brand backend projects behind a uniform credential gateway:
given an email address, the owning brand is resolved deterministically from
its domain, credentials are validated against brand rules, and the underlying
client is (re)bound to that brand's isolated backend.

Architecture:

  - Client: Per-brand credential gateway (sign-up, sign-in, sign-out, reset, update).
  - SessionController: Process-wide state machine holding user, loading flag, and active brand.
  - SessionStore: Persistence boundary for restored sessions (Redis).

The email domain is always authoritative for tenancy; a caller-supplied brand
id is accepted as a hint only and never trusted for security decisions.
*/
package auth

import (
	"time"

	"github.com/superdwayne/brandgate/internal/brand"
)

// # Domain Entities

// AuthUser represents an authenticated principal as reported by a brand
// backend.
//
// Invariant: every successfully signed-up user carries a brand_id in
// UserMetadata that is a valid registry key. Absence is a degraded/default
// state, not an error.
type AuthUser struct {
	ID               string         `json:"id"`
	Email            string         `json:"email"`
	EmailConfirmedAt *time.Time     `json:"email_confirmed_at,omitempty"`
	CreatedAt        time.Time      `json:"created_at"`
	LastSignInAt     *time.Time     `json:"last_sign_in_at,omitempty"`
	UserMetadata     map[string]any `json:"user_metadata,omitempty"`
	AppMetadata      map[string]any `json:"app_metadata,omitempty"`
}

// BrandID returns the brand identifier stored in the user's metadata, or the
// empty string when none is present.
func (u *AuthUser) BrandID() string {
	if u == nil || u.UserMetadata == nil {
		return ""
	}
	id, _ := u.UserMetadata[brand.FieldBrandID].(string)
	return id
}

// Session represents an established brand-backend session.
type Session struct {
	AccessToken  string    `json:"access_token"`
	TokenType    string    `json:"token_type"`
	ExpiresIn    int64     `json:"expires_in"`
	ExpiresAt    int64     `json:"expires_at"`
	RefreshToken string    `json:"refresh_token"`
	User         *AuthUser `json:"user"`
}

// Expiry returns the session's absolute expiry time, or zero when unknown.
func (s *Session) Expiry() time.Time {
	if s == nil || s.ExpiresAt == 0 {
		return time.Time{}
	}
	return time.Unix(s.ExpiresAt, 0)
}

// State is the session controller's observable snapshot.
//
// Consumers receive copies via subscription and must never mutate shared
// data reachable from one.
type State struct {
	// User is the authenticated principal, or nil when signed out.
	User *AuthUser `json:"user"`

	// Loading is true until the initial session-restore probe completes.
	Loading bool `json:"loading"`

	// Brand is the active brand configuration, or nil when signed out.
	Brand *brand.BrandConfig `json:"brand"`
}

// AuthEvent identifies a transition reported by a brand backend or by a local
// credential operation.
type AuthEvent string

// Auth state-change events mirrored from the backend subscription contract.
const (
	EventSignedIn       AuthEvent = "SIGNED_IN"
	EventSignedOut      AuthEvent = "SIGNED_OUT"
	EventTokenRefreshed AuthEvent = "TOKEN_REFRESHED"
	EventUserUpdated    AuthEvent = "USER_UPDATED"
)

// # Field Identifiers

// Global field names for validation and payload mapping in the auth domain.
const (
	FieldEmail       = "email"
	FieldPassword    = "password"
	FieldNewPassword = "new_password"
	FieldMetadata    = "metadata"
	FieldBrandID     = "brand_id"
	FieldMessage     = "message"
)
