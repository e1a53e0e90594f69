// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package auth

import "context"

// SessionStore persists serialized sessions across restarts so the
// controller can restore them on Init.
//
// A scope keys one stored session; single-principal deployments use
// [constants.SessionScopeDefault].
type SessionStore interface {
	// Save persists the session under the scope, replacing any previous one.
	Save(ctx context.Context, scope string, session *Session) error

	// Load returns the stored session, or (nil, nil) when the scope is empty.
	Load(ctx context.Context, scope string) (*Session, error)

	// Delete removes the stored session. Deleting an empty scope is not an
	// error.
	Delete(ctx context.Context, scope string) error
}
