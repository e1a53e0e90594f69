// Copyright (c) 2026 Brandgate. All rights reserved.
// Author: dev@brandgate.io

package auth

import "time"

// # Backend Wire Paths
//
// Every brand backend exposes the same credential API under its own endpoint.

const (
	// PathSignUp creates a new account.
	PathSignUp = "/auth/v1/signup"

	// PathToken is the password-grant token endpoint.
	PathToken = "/auth/v1/token"

	// PathLogout revokes the remote session.
	PathLogout = "/auth/v1/logout"

	// PathRecover dispatches the password-reset email.
	PathRecover = "/auth/v1/recover"

	// PathUser fetches (GET) or updates (PUT) the current user.
	PathUser = "/auth/v1/user"
)

// # Client Constraints

const (
	// GrantPassword is the grant_type for email+password sign-in.
	GrantPassword = "password"

	// ResetRedirectPattern builds the redirect URL embedded in password-reset
	// emails. The brand id keeps the recovery UI on the right tenant.
	ResetRedirectPattern = "https://%s.brandgate.io/reset-password"
)

// # Controller Constraints

const (
	// restoreProbeTimeout bounds the initial session-restore probe so a dead
	// brand backend cannot block startup.
	restoreProbeTimeout = 10 * time.Second
)
