// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package logging

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/rs/zerolog"
)

func TestMaskEmail(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"analyst@test.com", "a***@test.com"},
		{"x@y.z", "x***@y.z"},
		{"no-at-sign", "***"},
		{"@test.com", "***"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := MaskEmail(tt.in); got != tt.want {
			t.Errorf("MaskEmail(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestMaskToken(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"short", "***"},
		{"eyJhbGciOiJIUzI1NiJ9.payload.sig", "eyJhbGci..."},
	}
	for _, tt := range tests {
		if got := MaskToken(tt.in); got != tt.want {
			t.Errorf("MaskToken(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAuthLogger_NeverWritesRawEmail(t *testing.T) {
	prevLevel := zerolog.GlobalLevel()
	zerolog.SetGlobalLevel(zerolog.DebugLevel)
	t.Cleanup(func() { zerolog.SetGlobalLevel(prevLevel) })

	var buf bytes.Buffer
	l := NewAuthLoggerWithLogger(NewTestLogger(&buf))
	ctx := ContextWithRequestID(context.Background(), "req-9")

	l.LoginSucceeded(ctx, "admin@test.com", "admin", "10.0.0.1")
	l.LoginFailed(ctx, "viewer@test.com", "invalid_credentials", "10.0.0.2")
	l.AccessDenied(ctx, "viewer@test.com", "viewer", "events", "delete")
	l.RoleChanged(ctx, "admin@test.com", "viewer@test.com", "viewer", "analyst")
	l.TokenRejected(ctx, "eyJhbGciOiJIUzI1NiJ9.payload.sig", "invalid")

	out := buf.String()
	for _, raw := range []string{"admin@test.com", "viewer@test.com", "payload.sig"} {
		if strings.Contains(out, raw) {
			t.Errorf("log output leaked %q", raw)
		}
	}

	lines := strings.Split(strings.TrimSpace(out), "\n")
	if len(lines) != 5 {
		t.Fatalf("got %d lines, want 5", len(lines))
	}
	first := decodeLine(t, lines[0])
	if first["component"] != "auth" || first["event"] != "login_success" || first["request_id"] != "req-9" {
		t.Errorf("unexpected first entry %v", first)
	}
}
