// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

// Package middleware provides the HTTP middleware chain for the Brandgate API server.
//
// # Architecture
//
// Middleware intercepts incoming HTTP requests to apply global policies
// before they reach the domain handlers. This includes cross-cutting concerns
// like Logging, bearer-token extraction, and CORS.
package middleware

import (
	"net/http"
	"strings"

	"github.com/superdwayne/brandgate/internal/platform/apperr"
	"github.com/superdwayne/brandgate/internal/platform/ctxutil"
	"github.com/superdwayne/brandgate/internal/platform/respond"
	"github.com/superdwayne/brandgate/internal/platform/sec"
)

// Authenticate extracts the bearer access token from the Authorization header
// and decodes its claims.
//
// # Flow
//  1. Check for 'Authorization: Bearer <token>' header.
//  2. If absent, request proceeds as anonymous.
//  3. If present, decode claims and reject malformed/expired tokens.
//  4. Inject [*sec.BearerSession] into the request context for downstream use.
//
// # Trust Model
//
// Tokens are signed by the issuing brand backend, not by Brandgate; the
// signature is verified upstream when the token is forwarded. Local decoding
// exists so handlers know WHICH brand client to route the call through and so
// logs carry the caller's subject.
func Authenticate() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			authHeader := request.Header.Get("Authorization")

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if authHeader == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Format Validation ──────────────────────────────────────────
			parts := strings.Split(authHeader, " ")
			if len(parts) != 2 || strings.ToLower(parts[0]) != "bearer" {
				respond.Error(writer, request, apperr.Unauthorized("Invalid authorization format"))
				return
			}

			// ── 3. Claims Decoding ────────────────────────────────────────────
			tokenStr := parts[1]
			claims, err := sec.ParseSessionClaims(tokenStr)
			if err != nil {
				respond.Error(writer, request, apperr.Unauthorized("Invalid or expired token"))
				return
			}

			// ── 4. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithBearerSession(request.Context(), &sec.BearerSession{
				Token:  tokenStr,
				Claims: claims,
			})
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireSession blocks requests that carry no bearer access token.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireSession(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetBearerSession(request.Context()) == nil {
			respond.Error(writer, request, apperr.Unauthorized("Authentication required"))
			return
		}
		next.ServeHTTP(writer, request)
	})
}
