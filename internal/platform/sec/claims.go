// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

// Package sec provides access-token claims decoding for brand backends.
//
// # Architecture
//
// Brandgate never mints tokens of its own: every access token is issued and
// signed by a brand's backend project. This package isolates the decoding of
// those tokens from the domain logic. Signature verification stays with the
// issuing backend (the gateway confirms a token by fetching the user from the
// backend); locally we only decode the payload and reject expired tokens.
package sec

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// SessionClaims represents the payload embedded inside a brand-backend
// access token.
//
// # Why decode locally?
//
// The brand_id lives in the user metadata claim. Decoding it locally lets the
// session controller pick the right brand client BEFORE making any network
// call, and lets middleware attach the caller's identity for logging without
// a round trip per request.
type SessionClaims struct {
	jwt.RegisteredClaims

	Email        string         `json:"email"`
	UserMetadata map[string]any `json:"user_metadata"`
	AppMetadata  map[string]any `json:"app_metadata"`
}

// BrandID returns the brand identifier carried in the user metadata, or the
// empty string when the token carries none (degraded/default state, not an
// error).
func (c *SessionClaims) BrandID() string {
	if c.UserMetadata == nil {
		return ""
	}
	id, _ := c.UserMetadata["brand_id"].(string)
	return id
}

// BearerSession bundles a raw access token with its decoded claims.
//
// Middleware stores it in the request context; handlers forward the raw token
// to the brand backend untouched.
type BearerSession struct {
	Token  string
	Claims *SessionClaims
}

// ParseSessionClaims decodes the payload of a brand-backend access token.
//
// # Trust Model
//
// The signature is NOT verified here: each brand project signs with its own
// secret, and the gateway treats the backend's /user endpoint as the final
// authority. Expired tokens are rejected locally so we never forward a token
// the backend is guaranteed to refuse.
func ParseSessionClaims(tokenString string) (*SessionClaims, error) {
	claims := &SessionClaims{}

	parser := jwt.NewParser()
	if _, _, err := parser.ParseUnverified(tokenString, claims); err != nil {
		return nil, fmt.Errorf("sec: malformed access token: %w", err)
	}

	if claims.ExpiresAt != nil && time.Now().After(claims.ExpiresAt.Time) {
		return nil, fmt.Errorf("sec: access token expired at %s", claims.ExpiresAt.Time.Format(time.RFC3339))
	}

	return claims, nil
}
