// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

/*
Package request provides utilities for extracting data from HTTP requests.

It abstracts away the underlying router's parameter extraction and common
body decoding patterns, ensuring consistent error handling and type safety.
*/
package requestutil

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/superdwayne/brandgate/internal/platform/apperr"
	"github.com/superdwayne/brandgate/internal/platform/ctxutil"
	"github.com/superdwayne/brandgate/internal/platform/sec"
	"github.com/superdwayne/brandgate/internal/platform/validate"
)

/*
DecodeJSON reads the request body and decodes it into the target structure.

Parameters:
  - request: *http.Request
  - target: interface{} (Pointer to the destination struct)

Returns:
  - error: validate.ErrInvalidJSON if decoding fails, otherwise nil
*/
func DecodeJSON(request *http.Request, target interface{}) error {
	if err := json.NewDecoder(request.Body).Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	return nil
}

/*
Param retrieves a named URL parameter from the request.
*/
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
Session extracts the caller's bearer session from the request context.

Returns nil if the request is anonymous.
*/
func Session(request *http.Request) *sec.BearerSession {
	return ctxutil.GetBearerSession(request.Context())
}

/*
RequiredSession ensures the request carries a bearer access token and returns it.

Returns:
  - *sec.BearerSession: The raw token plus its decoded claims
  - error: apperr.Unauthorized if the request is anonymous
*/
func RequiredSession(request *http.Request) (*sec.BearerSession, error) {

	// Get the bearer session injected by middleware.Authenticate
	session := ctxutil.GetBearerSession(request.Context())

	// If the caller presented no usable token, return an error
	if session == nil {
		return nil, apperr.Unauthorized("Authentication required")
	}

	return session, nil
}
