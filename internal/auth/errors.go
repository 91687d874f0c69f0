// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package auth

import (
	"errors"
	"fmt"
)

// ErrUnauthorized is wrapped by every credential failure.
var ErrUnauthorized = errors.New("unauthorized")

var (
	ErrNoCredentials      = fmt.Errorf("%w: no token provided", ErrUnauthorized)
	ErrInvalidToken       = fmt.Errorf("%w: invalid token", ErrUnauthorized)
	ErrUnknownPrincipal   = fmt.Errorf("%w: principal no longer exists", ErrUnauthorized)
	ErrInvalidCredentials = fmt.Errorf("%w: invalid credentials", ErrUnauthorized)
)

var (
	ErrUserNotFound = errors.New("user not found")
	ErrUserExists   = errors.New("user already exists")
	ErrInvalidRole  = errors.New("invalid role")
)
