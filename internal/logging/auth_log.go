// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package logging

import (
	"context"
	"strings"

	"github.com/rs/zerolog"
)

// AuthLogger records authentication and authorization outcomes.
// Emails are masked and tokens are reduced to a short prefix.
type AuthLogger struct {
	logger zerolog.Logger
}

// NewAuthLogger tags entries with component=auth.
func NewAuthLogger() *AuthLogger {
	return &AuthLogger{logger: WithComponent("auth")}
}

// NewAuthLoggerWithLogger is NewAuthLogger over a caller-supplied logger.
//
//nolint:gocritic // zerolog.Logger is designed to be passed by value
func NewAuthLoggerWithLogger(l zerolog.Logger) *AuthLogger {
	return &AuthLogger{logger: l.With().Str("component", "auth").Logger()}
}

func (l *AuthLogger) entry(ctx context.Context, ev *zerolog.Event) *zerolog.Event {
	if id := RequestIDFromContext(ctx); id != "" {
		ev = ev.Str("request_id", id)
	}
	return ev
}

// LoginSucceeded logs a successful credential check.
func (l *AuthLogger) LoginSucceeded(ctx context.Context, email, role, ip string) {
	l.entry(ctx, l.logger.Info()).
		Str("event", "login_success").
		Str("email", MaskEmail(email)).
		Str("role", role).
		Str("ip", ip).
		Msg("login succeeded")
}

// LoginFailed logs a rejected login. reason is a fixed token such as
// "invalid_credentials" or "rate_limited".
func (l *AuthLogger) LoginFailed(ctx context.Context, email, reason, ip string) {
	l.entry(ctx, l.logger.Warn()).
		Str("event", "login_failure").
		Str("email", MaskEmail(email)).
		Str("reason", reason).
		Str("ip", ip).
		Msg("login failed")
}

// TokenRejected logs a request whose credential could not be resolved.
func (l *AuthLogger) TokenRejected(ctx context.Context, token, reason string) {
	l.entry(ctx, l.logger.Debug()).
		Str("event", "token_rejected").
		Str("token", MaskToken(token)).
		Str("reason", reason).
		Msg("request not authenticated")
}

// AccessDenied logs an authorization refusal.
func (l *AuthLogger) AccessDenied(ctx context.Context, email, role, object, action string) {
	l.entry(ctx, l.logger.Info()).
		Str("event", "access_denied").
		Str("email", MaskEmail(email)).
		Str("role", role).
		Str("object", object).
		Str("action", action).
		Msg("access denied")
}

// RoleChanged logs an administrator reassigning a role.
func (l *AuthLogger) RoleChanged(ctx context.Context, actor, target, from, to string) {
	l.entry(ctx, l.logger.Info()).
		Str("event", "role_changed").
		Str("actor", MaskEmail(actor)).
		Str("target", MaskEmail(target)).
		Str("from", from).
		Str("to", to).
		Msg("role changed")
}

// MaskEmail keeps the first character of the local part and the domain:
// "analyst@test.com" becomes "a***@test.com".
func MaskEmail(email string) string {
	local, domain, ok := strings.Cut(email, "@")
	if !ok || local == "" {
		if email == "" {
			return ""
		}
		return "***"
	}
	return local[:1] + "***@" + domain
}

// MaskToken keeps at most the first 8 characters.
func MaskToken(token string) string {
	switch {
	case token == "":
		return ""
	case len(token) <= 8:
		return "***"
	default:
		return token[:8] + "..."
	}
}
