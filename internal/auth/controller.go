// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package auth

import (
	"context"
	"log/slog"
	"sync"

	"github.com/superdwayne/brandgate/internal/brand"
	"github.com/superdwayne/brandgate/internal/platform/apperr"
	"github.com/superdwayne/brandgate/internal/platform/constants"
	"github.com/superdwayne/brandgate/internal/platform/sec"
)

// # Session Controller

// SessionController is the process-wide auth state machine.
//
// It owns one active [Client] at a time, bound to the brand the current
// principal belongs to, and exposes the observable [State] snapshot to
// subscribers. All operations before a completed [SessionController.Init]
// fail with NOT_INITIALIZED.
//
// Locking: the mutex guards state, the active client, and the subscriber
// table. Subscribers are notified outside the lock so a slow callback cannot
// stall credential operations.
type SessionController struct {
	mu sync.Mutex

	registry     *brand.Registry
	defaultBrand string
	store        SessionStore
	logger       *slog.Logger
	clientOpts   []Option

	active      *Client
	state       State
	subscribers map[int]func(State)
	nextSubID   int

	// initialized marks that Init was entered (one-shot guard); ready flips
	// only once the restore probe finished and c.active is bound. Credential
	// operations key off ready, never initialized.
	initialized bool
	ready       bool
	closed      bool
}

// ControllerOption customizes a [SessionController] at construction time.
type ControllerOption func(*SessionController)

// WithClientOptions forwards options to every [Client] the controller
// constructs, including the initial one. Used by tests to direct clients at
// httptest backends.
func WithClientOptions(opts ...Option) ControllerOption {
	return func(c *SessionController) { c.clientOpts = opts }
}

/*
NewSessionController constructs the controller in its pre-init state.

Description: The default brand must exist in the registry; a typo here is a
deployment mistake better caught at construction than on the first sign-in.
Until Init runs, State reports Loading=true and every credential operation is
rejected.

Parameters:
  - registry: *brand.Registry
  - defaultBrand: string
  - store: SessionStore
  - logger: *slog.Logger
  - opts: ...ControllerOption

Returns:
  - *SessionController: Controller awaiting Init
  - error: UNKNOWN_BRAND when defaultBrand is not registered
*/
func NewSessionController(registry *brand.Registry, defaultBrand string, store SessionStore, logger *slog.Logger, opts ...ControllerOption) (*SessionController, error) {

	if !registry.Has(defaultBrand) {
		return nil, apperr.UnknownBrand(defaultBrand)
	}

	controller := &SessionController{
		registry:     registry,
		defaultBrand: defaultBrand,
		store:        store,
		logger:       logger,
		state:        State{Loading: true},
		subscribers:  make(map[int]func(State)),
	}
	for _, opt := range opts {
		opt(controller)
	}

	return controller, nil
}

/*
Init restores a persisted session and arms the controller.

Description: The stored session, if any, is probed in three steps: decode the
access token locally and discard it when already expired, confirm the token
against the owning brand backend, then bind the active client to the brand
recorded in the user's metadata. Every failure along the way degrades to the
signed-out default-brand state rather than failing startup; only after the
probe does Loading drop to false. Init is idempotent in the sense that a
second call is rejected rather than re-probed.

Parameters:
  - ctx: context.Context

Returns:
  - error: Conflict when already initialized, or store connectivity errors
*/
func (c *SessionController) Init(ctx context.Context) error {

	c.mu.Lock()
	if c.initialized {
		c.mu.Unlock()
		return apperr.Conflict("Session controller already initialized")
	}
	c.initialized = true
	c.mu.Unlock()

	probeCtx, cancel := context.WithTimeout(ctx, restoreProbeTimeout)
	defer cancel()

	restored := c.restoreSession(probeCtx)

	c.mu.Lock()
	if restored == nil {
		c.active = c.clientFor(c.defaultBrand)
		c.state = State{Loading: false}
	} else {
		c.active = restored.client
		c.state = State{User: restored.user, Loading: false, Brand: restored.client.Brand()}
	}
	c.ready = true
	snapshot := c.state
	c.mu.Unlock()

	c.notify(snapshot)

	return nil
}

// restoredSession carries the outcome of a successful restore probe.
type restoredSession struct {
	client *Client
	user   *AuthUser
}

// restoreSession attempts to revive the persisted session. Any failure
// returns nil and the caller falls back to the signed-out default state.
func (c *SessionController) restoreSession(ctx context.Context) *restoredSession {

	stored, err := c.store.Load(ctx, constants.SessionScopeDefault)
	if err != nil {
		c.logger.Warn("session_restore_load_failed", slog.String("error", err.Error()))
		return nil
	}
	if stored == nil {
		return nil
	}

	// Cheap local check before any network round-trip.
	claims, err := sec.ParseSessionClaims(stored.AccessToken)
	if err != nil {
		c.logger.Info("session_restore_token_rejected", slog.String("error", err.Error()))
		c.dropStored(ctx)
		return nil
	}

	brandID := claims.BrandID()
	if brandID == "" || !c.registry.Has(brandID) {
		brandID = c.defaultBrand
	}
	client := c.clientFor(brandID)

	// The backend is authoritative; a locally valid token may be revoked.
	user, err := client.GetUser(ctx, stored.AccessToken)
	if err != nil {
		c.logger.Info("session_restore_probe_rejected",
			slog.String("brand", brandID),
			slog.String("error", err.Error()),
		)
		c.dropStored(ctx)
		return nil
	}

	// The hydrated user's own metadata wins over the token claims.
	if userBrand := user.BrandID(); userBrand != "" && userBrand != brandID && c.registry.Has(userBrand) {
		client = c.clientFor(userBrand)
		brandID = userBrand
	}

	c.logger.Info("session_restored",
		slog.String("email", user.Email),
		slog.String("brand", brandID),
	)

	return &restoredSession{client: client, user: user}
}

// dropStored best-effort deletes a stored session that failed restoration.
func (c *SessionController) dropStored(ctx context.Context) {
	if err := c.store.Delete(ctx, constants.SessionScopeDefault); err != nil {
		c.logger.Warn("session_store_delete_failed", slog.String("error", err.Error()))
	}
}

// clientFor builds a client bound to the given brand id. The id must already
// be known to the registry.
func (c *SessionController) clientFor(brandID string) *Client {
	cfg, err := c.registry.Get(brandID)
	if err != nil {
		// Reachable only through a registry/controller programming slip.
		panic(err)
	}
	return NewClient(cfg, c.registry, c.logger, c.clientOpts...)
}

// # Credential Operations

/*
SignUp registers a new account, rebinding the active client to the brand
owning the email's domain before delegating.

Description: Resolution happens in the controller (not just the client) so
the active brand visible through State is already correct when subscribers
observe the signed-in transition. The stored session scope is updated when
the backend auto-confirms and returns tokens.

Parameters:
  - ctx: context.Context
  - email: string
  - password: string
  - metadata: map[string]any

Returns:
  - *Session: Created user, with tokens when auto-confirmed
  - error: NOT_INITIALIZED, INVALID_EMAIL_DOMAIN, VALIDATION_ERROR, backend errors
*/
func (c *SessionController) SignUp(ctx context.Context, email, password string, metadata map[string]any) (*Session, error) {

	client, err := c.bindForEmail(email)
	if err != nil {
		return nil, err
	}

	session, err := client.SignUp(ctx, email, password, metadata)
	if err != nil {
		return nil, err
	}

	if session.AccessToken != "" {
		c.establish(ctx, client, session, EventSignedIn)
	}

	return session, nil
}

/*
SignIn authenticates against the brand owning the email's domain.

Description: Unknown domains fall back to the configured default brand here,
unlike sign-up: an existing account may predate its brand's domain list, and
rejecting the attempt outright would lock such users out. The fallback is
logged.

Parameters:
  - ctx: context.Context
  - email: string
  - password: string

Returns:
  - *Session: Established session
  - error: NOT_INITIALIZED, VALIDATION_ERROR, or forwarded backend errors
*/
func (c *SessionController) SignIn(ctx context.Context, email, password string) (*Session, error) {

	if err := c.ensureReady(); err != nil {
		return nil, err
	}

	brandID, ok := c.registry.FromEmail(email)
	if !ok {
		brandID = c.defaultBrand
		c.logger.Info("signin_default_brand_fallback", slog.String("email", email))
	}
	client := c.clientFor(brandID)

	session, err := client.SignIn(ctx, email, password)
	if err != nil {
		return nil, err
	}

	c.establish(ctx, client, session, EventSignedIn)

	return session, nil
}

/*
SignOut revokes the current session remotely and locally.

Description: The remote revocation uses the access token captured under the
lock; local state is cleared even when the backend call fails so a dead
backend cannot pin a stale session in memory. The active client rebinds to
the default brand.

Parameters:
  - ctx: context.Context
  - accessToken: string

Returns:
  - error: NOT_INITIALIZED or forwarded backend errors
*/
func (c *SessionController) SignOut(ctx context.Context, accessToken string) error {

	c.mu.Lock()
	if err := c.readyLocked(); err != nil {
		c.mu.Unlock()
		return err
	}
	client := c.active
	c.mu.Unlock()

	backendErr := client.SignOut(ctx, accessToken)

	c.mu.Lock()
	c.active = c.clientFor(c.defaultBrand)
	c.state = State{Loading: false}
	snapshot := c.state
	c.mu.Unlock()

	c.dropStored(ctx)
	c.notify(snapshot)

	c.logger.Info("signout_completed", slog.String("event", string(EventSignedOut)))

	return backendErr
}

/*
ResetPassword dispatches a password-reset email via the brand owning the
address, falling back to the default brand for unknown domains.

Parameters:
  - ctx: context.Context
  - email: string

Returns:
  - error: NOT_INITIALIZED, VALIDATION_ERROR, or forwarded backend errors
*/
func (c *SessionController) ResetPassword(ctx context.Context, email string) error {

	if err := c.ensureReady(); err != nil {
		return err
	}

	brandID, ok := c.registry.FromEmail(email)
	if !ok {
		brandID = c.defaultBrand
	}

	return c.clientFor(brandID).ResetPassword(ctx, email)
}

/*
UpdatePassword replaces the current user's password on the active brand.

Parameters:
  - ctx: context.Context
  - accessToken: string
  - newPassword: string

Returns:
  - *AuthUser: Updated user
  - error: NOT_INITIALIZED, VALIDATION_ERROR, or forwarded backend errors
*/
func (c *SessionController) UpdatePassword(ctx context.Context, accessToken, newPassword string) (*AuthUser, error) {

	c.mu.Lock()
	if err := c.readyLocked(); err != nil {
		c.mu.Unlock()
		return nil, err
	}
	client := c.active
	c.mu.Unlock()

	user, err := client.UpdatePassword(ctx, accessToken, newPassword)
	if err != nil {
		return nil, err
	}

	c.HandleAuthEvent(ctx, EventUserUpdated, &Session{AccessToken: accessToken, User: user})

	return user, nil
}

// # State Machine

/*
HandleAuthEvent applies a backend-reported state transition.

Description: This is the single entry point for externally observed
transitions (token refreshes, user updates, revocations reported out of
band). Sign-in style events with a user rebind the active brand to the
user's metadata brand when it is registered; signed-out clears state back to
the default brand.

Parameters:
  - ctx: context.Context
  - event: AuthEvent
  - session: *Session (nil for signed-out)
*/
func (c *SessionController) HandleAuthEvent(ctx context.Context, event AuthEvent, session *Session) {

	c.mu.Lock()
	if c.closed || !c.ready {
		c.mu.Unlock()
		return
	}

	switch {
	case event == EventSignedOut || session == nil || session.User == nil:
		c.active = c.clientFor(c.defaultBrand)
		c.state = State{Loading: false}
	default:
		if userBrand := session.User.BrandID(); userBrand != "" && c.registry.Has(userBrand) && userBrand != c.active.Brand().ID {
			c.active = c.clientFor(userBrand)
		}
		c.state = State{User: session.User, Loading: false, Brand: c.active.Brand()}
	}
	snapshot := c.state
	c.mu.Unlock()

	if event != EventSignedOut && session != nil && session.AccessToken != "" {
		if err := c.store.Save(ctx, constants.SessionScopeDefault, session); err != nil {
			c.logger.Warn("session_store_save_failed", slog.String("error", err.Error()))
		}
	}

	c.notify(snapshot)

	c.logger.Info("auth_event_applied",
		slog.String("event", string(event)),
		slog.Bool("signed_in", snapshot.User != nil),
	)
}

// establish commits a fresh session: rebind handled by the caller-built
// client, state swap, persistence, subscriber fan-out.
func (c *SessionController) establish(ctx context.Context, client *Client, session *Session, event AuthEvent) {

	c.mu.Lock()
	c.active = client
	c.state = State{User: session.User, Loading: false, Brand: client.Brand()}
	snapshot := c.state
	c.mu.Unlock()

	if err := c.store.Save(ctx, constants.SessionScopeDefault, session); err != nil {
		c.logger.Warn("session_store_save_failed", slog.String("error", err.Error()))
	}

	c.notify(snapshot)

	c.logger.Info("auth_event_applied",
		slog.String("event", string(event)),
		slog.String("brand", client.Brand().ID),
	)
}

// bindForEmail resolves the email's brand strictly and returns a client
// bound to it. Used by sign-up, where an unknown domain must not fall back.
func (c *SessionController) bindForEmail(email string) (*Client, error) {
	if err := c.ensureReady(); err != nil {
		return nil, err
	}
	cfg, err := c.registry.Resolve(email)
	if err != nil {
		return nil, err
	}
	return c.clientFor(cfg.ID), nil
}

// ensureReady reports whether credential operations may proceed.
func (c *SessionController) ensureReady() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.readyLocked()
}

func (c *SessionController) readyLocked() error {
	if !c.ready || c.closed {
		return apperr.NotInitialized()
	}
	return nil
}

// # Observation

// Current returns a snapshot of the controller state.
func (c *SessionController) Current() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

// ActiveBrand returns the brand the controller is currently bound to, or nil
// before Init.
func (c *SessionController) ActiveBrand() *brand.BrandConfig {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.active == nil {
		return nil
	}
	return c.active.Brand()
}

/*
Subscribe registers a callback invoked on every state transition.

Description: The callback immediately receives the current snapshot, so
subscribers never start from an unknown state. Callbacks run sequentially on
the transitioning goroutine; long work belongs on the subscriber's side of
the fence.

Parameters:
  - fn: func(State)

Returns:
  - int: Subscription id for Unsubscribe
*/
func (c *SessionController) Subscribe(fn func(State)) int {

	c.mu.Lock()
	id := c.nextSubID
	c.nextSubID++
	c.subscribers[id] = fn
	snapshot := c.state
	c.mu.Unlock()

	fn(snapshot)

	return id
}

// Unsubscribe removes a subscription. Unknown ids are ignored.
func (c *SessionController) Unsubscribe(id int) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.subscribers, id)
}

// notify fans the snapshot out to all subscribers outside the lock.
func (c *SessionController) notify(snapshot State) {

	c.mu.Lock()
	callbacks := make([]func(State), 0, len(c.subscribers))
	for _, fn := range c.subscribers {
		callbacks = append(callbacks, fn)
	}
	c.mu.Unlock()

	for _, fn := range callbacks {
		fn(snapshot)
	}
}

// Close tears the controller down. Subsequent operations fail with
// NOT_INITIALIZED; subscribers are dropped without a final notification.
func (c *SessionController) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.closed = true
	c.subscribers = make(map[int]func(State))
}
