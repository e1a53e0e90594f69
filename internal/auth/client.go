// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package auth

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/superdwayne/brandgate/internal/brand"
	"github.com/superdwayne/brandgate/internal/platform/apperr"
	"github.com/superdwayne/brandgate/internal/platform/constants"
	"github.com/superdwayne/brandgate/internal/platform/validate"
)

// # Definitions & Constructors

// Client is the per-brand session-credential gateway.
//
// A Client is bound to exactly one [brand.BrandConfig] at construction time:
// the brand's connection endpoint and publishable key are fixed for the
// client's lifetime. Swapping brands means constructing a new Client —
// instances are cheap, stateless-beyond-construction wrappers, and in-flight
// requests on a replaced client complete against their own bound brand.
type Client struct {
	brand    *brand.BrandConfig
	registry *brand.Registry
	http     *http.Client
	logger   *slog.Logger
}

// Option customizes a [Client] at construction time.
type Option func(*Client)

// WithHTTPClient overrides the underlying HTTP transport.
// Used by tests to point the client at httptest backends.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) { c.http = httpClient }
}

// NewClient constructs a [Client] bound to the given brand.
func NewClient(cfg *brand.BrandConfig, registry *brand.Registry, logger *slog.Logger, opts ...Option) *Client {
	client := &Client{
		brand:    cfg,
		registry: registry,
		http:     &http.Client{Timeout: constants.BackendRequestTimeout},
		logger:   logger,
	}
	for _, opt := range opts {
		opt(client)
	}
	return client
}

// Brand returns the brand configuration this client is bound to.
func (c *Client) Brand() *brand.BrandConfig { return c.brand }

// BackendClient returns the underlying HTTP client used to reach the brand
// backend.
func (c *Client) BackendClient() *http.Client { return c.http }

// # Credential Operations

/*
SignUp creates a new account on the brand backend owning the email's domain.

Description: The brand is resolved from the email BEFORE anything touches the
network; an unrecognized domain returns INVALID_EMAIL_DOMAIN with zero backend
calls (falling back to a default brand here would mis-tenant the account).
The resolved brand id — never a caller-supplied hint — is injected into the
new account's metadata, merged over the caller's metadata bag.

Parameters:
  - ctx: context.Context
  - email: string
  - password: string
  - metadata: map[string]any (optional caller bag, may be nil)

Returns:
  - *Session: Created user (and session when the backend auto-confirms)
  - error: INVALID_EMAIL_DOMAIN, VALIDATION_ERROR, or forwarded backend errors
*/
func (c *Client) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error) {

	// Resolve tenancy first. The email domain is authoritative.
	resolved, err := c.registry.Resolve(email)
	if err != nil {
		return nil, err
	}

	// Full payload validation against brand sign-up rules.
	validator := &validate.Validator{}
	validator.CompanyEmail(FieldEmail, email, c.registry.IsEmailDomainAllowed).
		Password(FieldPassword, password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	// The bound brand normally matches the resolved one (the controller picks
	// the client per email). A mismatch is a caller slip worth surfacing in
	// logs, but the resolved value still wins.
	if resolved.ID != c.brand.ID {
		c.logger.Warn("signup_brand_mismatch",
			slog.String("bound_brand", c.brand.ID),
			slog.String("resolved_brand", resolved.ID),
		)
	}

	// Merge caller metadata, with the resolved brand_id overriding any hint.
	data := make(map[string]any, len(metadata)+1)
	for k, v := range metadata {
		data[k] = v
	}
	data[FieldBrandID] = resolved.ID

	payload := map[string]any{
		FieldEmail:    email,
		FieldPassword: password,
		"data":        data,
	}

	// The response is a session when the backend auto-confirms, a bare user
	// object otherwise. Decode once and disambiguate on access_token.
	var raw json.RawMessage
	if err := c.do(ctx, http.MethodPost, PathSignUp, nil, payload, "", &raw); err != nil {
		return nil, err
	}

	session := &Session{}
	if err := json.Unmarshal(raw, session); err != nil {
		return nil, apperr.Internal(fmt.Errorf("auth: decode signup response: %w", err))
	}
	if session.AccessToken == "" {
		user := &AuthUser{}
		if err := json.Unmarshal(raw, user); err != nil {
			return nil, apperr.Internal(fmt.Errorf("auth: decode signup user: %w", err))
		}
		session.User = user
	}

	// Structured success entry: email and resolved brand, never the password.
	c.logger.Info("signup_succeeded",
		slog.String("email", email),
		slog.String("brand", resolved.ID),
	)

	return session, nil
}

/*
SignIn authenticates the email+password pair against the bound brand backend.

Description: Shape validation only — the backend itself is already
brand-scoped, so no brand-resolution re-check happens here. The brand_id read
from the returned user metadata is used purely for logging; the lenient
cross-brand policy of the original flow is preserved (a mismatch is logged,
not rejected).

Parameters:
  - ctx: context.Context
  - email: string
  - password: string

Returns:
  - *Session: Access and refresh tokens plus the user
  - error: VALIDATION_ERROR or forwarded backend errors (e.g. wrong credentials)
*/
func (c *Client) SignIn(ctx context.Context, email, password string) (*Session, error) {

	validator := &validate.Validator{}
	validator.Required(FieldEmail, email).
		Email(FieldEmail, email).
		Required(FieldPassword, password)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	payload := map[string]any{
		FieldEmail:    email,
		FieldPassword: password,
	}
	query := url.Values{"grant_type": []string{GrantPassword}}

	session := &Session{}
	if err := c.do(ctx, http.MethodPost, PathToken, query, payload, "", session); err != nil {
		return nil, err
	}

	// Telemetry only. Not re-validated against the bound brand.
	userBrand := session.User.BrandID()
	if userBrand != "" && userBrand != c.brand.ID {
		c.logger.Warn("signin_brand_mismatch",
			slog.String("bound_brand", c.brand.ID),
			slog.String("user_brand", userBrand),
		)
	}

	c.logger.Info("signin_succeeded",
		slog.String("email", email),
		slog.String("brand", c.brand.ID),
	)

	return session, nil
}

/*
SignOut revokes the remote session on the brand backend.

Parameters:
  - ctx: context.Context
  - accessToken: string

Returns:
  - error: Forwarded backend errors
*/
func (c *Client) SignOut(ctx context.Context, accessToken string) error {
	return c.do(ctx, http.MethodPost, PathLogout, nil, nil, accessToken, nil)
}

/*
ResetPassword triggers the backend's password-reset email flow.

Description: The redirect URL embedded in the email is parameterized by the
bound brand's id so the recovery UI lands on the right tenant. Beyond a
non-empty email, no local validation blocks the request.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - error: VALIDATION_ERROR (empty email) or forwarded backend errors
*/
func (c *Client) ResetPassword(ctx context.Context, email string) error {
	if email == "" {
		return validate.RequiredError(FieldEmail, "This field is required")
	}

	query := url.Values{
		"redirect_to": []string{fmt.Sprintf(ResetRedirectPattern, c.brand.ID)},
	}
	payload := map[string]any{FieldEmail: email}

	if err := c.do(ctx, http.MethodPost, PathRecover, query, payload, "", nil); err != nil {
		return err
	}

	c.logger.Info("password_reset_requested",
		slog.String("email", email),
		slog.String("brand", c.brand.ID),
	)

	return nil
}

/*
UpdatePassword replaces the authenticated user's password.

Description: The sign-up password policy is re-applied locally before
delegating; the original flow skipped this and relied on the backend alone,
which left sign-up and update rules inconsistent.

Parameters:
  - ctx: context.Context
  - accessToken: string
  - newPassword: string

Returns:
  - *AuthUser: Updated user
  - error: VALIDATION_ERROR or forwarded backend errors
*/
func (c *Client) UpdatePassword(ctx context.Context, accessToken, newPassword string) (*AuthUser, error) {

	validator := &validate.Validator{}
	validator.Password(FieldPassword, newPassword)
	if err := validator.Err(); err != nil {
		return nil, err
	}

	payload := map[string]any{FieldPassword: newPassword}

	user := &AuthUser{}
	if err := c.do(ctx, http.MethodPut, PathUser, nil, payload, accessToken, user); err != nil {
		return nil, err
	}

	return user, nil
}

/*
GetUser fetches the user owning the access token (session restore probe).

Parameters:
  - ctx: context.Context
  - accessToken: string

Returns:
  - *AuthUser: Hydrated principal
  - error: Forwarded backend errors (e.g. 401 for a revoked token)
*/
func (c *Client) GetUser(ctx context.Context, accessToken string) (*AuthUser, error) {
	user := &AuthUser{}
	if err := c.do(ctx, http.MethodGet, PathUser, nil, nil, accessToken, user); err != nil {
		return nil, err
	}
	return user, nil
}

// # Transport

// backendError is the lenient shape of brand-backend error payloads.
type backendError struct {
	Msg              string `json:"msg"`
	Message          string `json:"message"`
	ErrorDescription string `json:"error_description"`
	ErrorField       string `json:"error"`
}

// text returns the most specific message the payload carried.
func (e *backendError) text() string {
	switch {
	case e.Msg != "":
		return e.Msg
	case e.Message != "":
		return e.Message
	case e.ErrorDescription != "":
		return e.ErrorDescription
	default:
		return e.ErrorField
	}
}

// do performs one request against the brand backend.
//
// Backend error payloads are forwarded verbatim (status + message) and never
// reinterpreted; transport-level failures surface as BACKEND_UNREACHABLE.
func (c *Client) do(ctx context.Context, method, path string, query url.Values, payload any, bearer string, out any) error {

	endpoint := c.brand.Endpoint + path
	if len(query) > 0 {
		endpoint += "?" + query.Encode()
	}

	var body io.Reader
	if payload != nil {
		raw, err := json.Marshal(payload)
		if err != nil {
			return apperr.Internal(fmt.Errorf("auth: encode request for %s: %w", path, err))
		}
		body = bytes.NewReader(raw)
	}

	request, err := http.NewRequestWithContext(ctx, method, endpoint, body)
	if err != nil {
		return apperr.Internal(fmt.Errorf("auth: build request for %s: %w", path, err))
	}

	request.Header.Set(constants.HeaderAPIKey, c.brand.AnonKey)
	if bearer == "" {
		bearer = c.brand.AnonKey
	}
	request.Header.Set(constants.HeaderAuthorization, "Bearer "+bearer)
	if payload != nil {
		request.Header.Set("Content-Type", "application/json")
	}

	response, err := c.http.Do(request)
	if err != nil {
		return apperr.Unreachable(err)
	}
	defer func() { _ = response.Body.Close() }()

	if response.StatusCode >= 400 {
		upstream := &backendError{}
		_ = json.NewDecoder(response.Body).Decode(upstream)
		return apperr.Backend(response.StatusCode, upstream.text())
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return apperr.Internal(fmt.Errorf("auth: decode response from %s: %w", path, err))
	}

	return nil
}
