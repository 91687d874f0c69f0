// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package api

import (
	"bytes"
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"testing"
	"time"

	"github.com/goccy/go-json"
	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/insightops/internal/auth"
	"github.com/tomtom215/insightops/internal/authz"
	"github.com/tomtom215/insightops/internal/config"
	"github.com/tomtom215/insightops/internal/logging"
	"github.com/tomtom215/insightops/internal/models"
	"github.com/tomtom215/insightops/internal/query"
	"github.com/tomtom215/insightops/internal/store"
	ws "github.com/tomtom215/insightops/internal/websocket"
)

const testSecret = "api_test_secret_with_at_least_32_characters"

var testNow = time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

func init() {
	logging.Init(logging.Config{Level: "error", Format: "json"})
}

func fixtureEvents() []models.Event {
	return []models.Event{
		{
			ID: "evt-fraud", Title: "Fraud Alert in Mumbai", Description: "Card testing burst",
			Category: models.CategoryFraud, Severity: models.SeverityHigh,
			CreatedAt: testNow.Add(-1 * time.Hour),
			Location:  models.Location{Lat: 19.07, Lng: 72.87},
			Metrics:   models.Metrics{Score: 90, Confidence: 0.9, Impact: 8},
			Tags:      []string{"payments"},
		},
		{
			ID: "evt-ops", Title: "Ops Alert in Delhi", Description: "Queue backlog",
			Category: models.CategoryOps, Severity: models.SeverityLow,
			CreatedAt: testNow.Add(-48 * time.Hour),
			Location:  models.Location{Lat: 28.61, Lng: 77.20},
			Metrics:   models.Metrics{Score: 20, Confidence: 0.5, Impact: 2},
			Tags:      []string{"fraud-signal", "queue"},
		},
		{
			ID: "evt-safety", Title: "Safety Alert in Pune", Description: "Sensor offline",
			Category: models.CategorySafety, Severity: models.SeverityMedium,
			CreatedAt: testNow.Add(-24 * time.Hour),
			Location:  models.Location{Lat: 18.52, Lng: 73.85},
			Metrics:   models.Metrics{Score: 55, Confidence: 0.7, Impact: 5},
			Tags:      []string{},
		},
	}
}

// failingSnapshotter refuses every write.
type failingSnapshotter struct{}

func (failingSnapshotter) Load(context.Context) ([]models.Event, bool, error) { return nil, false, nil }
func (failingSnapshotter) Save(context.Context, []models.Event) error {
	return errors.New("disk full")
}
func (failingSnapshotter) Name() string { return "failing" }

type testEnv struct {
	t       *testing.T
	handler http.Handler
	store   *store.EventStore
	jwt     *auth.JWTManager
	users   *auth.UserDirectory
	hub     *ws.Hub
}

type envOption func(*store.Snapshotter, *ChiMiddlewareConfig, *HandlerDeps)

func withSnapshotter(s store.Snapshotter) envOption {
	return func(snap *store.Snapshotter, _ *ChiMiddlewareConfig, _ *HandlerDeps) { *snap = s }
}

func withRateLimit(reqs int) envOption {
	return func(_ *store.Snapshotter, c *ChiMiddlewareConfig, _ *HandlerDeps) {
		c.RateLimitDisabled = false
		c.RateLimitRequests = reqs
		c.RateLimitWindow = time.Minute
	}
}

func withLoginLimiter(l *auth.LoginLimiter) envOption {
	return func(_ *store.Snapshotter, _ *ChiMiddlewareConfig, d *HandlerDeps) { d.Limiter = l }
}

func newTestEnv(t *testing.T, opts ...envOption) *testEnv {
	t.Helper()

	var snap store.Snapshotter = store.NewFileSnapshotter(filepath.Join(t.TempDir(), "events.json"))
	mwCfg := DefaultChiMiddlewareConfig()
	mwCfg.RateLimitDisabled = true
	deps := HandlerDeps{Clock: query.FixedClock{T: testNow}, AllowedOrigins: []string{"*"}}
	for _, opt := range opts {
		opt(&snap, mwCfg, &deps)
	}

	st := store.New(snap, fixtureEvents())

	jwtManager, err := auth.NewJWTManager(&config.SecurityConfig{JWTSecret: testSecret})
	if err != nil {
		t.Fatalf("NewJWTManager() error = %v", err)
	}
	users, err := auth.NewSeededDirectory(bcrypt.MinCost, auth.DefaultSeedUsers())
	if err != nil {
		t.Fatalf("NewSeededDirectory() error = %v", err)
	}
	authn := auth.NewAuthenticator(jwtManager, users, writeError)

	enforcer, err := authz.NewEnforcer(config.AuthzConfig{})
	if err != nil {
		t.Fatalf("NewEnforcer() error = %v", err)
	}

	hub := ws.NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		_ = hub.Serve(ctx)
		close(done)
	}()
	t.Cleanup(func() {
		cancel()
		<-done
	})

	deps.Store = st
	deps.Authenticator = authn
	deps.Hub = hub

	router := NewRouter(NewHandler(deps), authn, enforcer, NewChiMiddleware(mwCfg))
	return &testEnv{
		t:       t,
		handler: router.SetupChi(),
		store:   st,
		jwt:     jwtManager,
		users:   users,
		hub:     hub,
	}
}

func (env *testEnv) token(email string) string {
	env.t.Helper()
	p, err := env.users.Lookup(email)
	if err != nil {
		env.t.Fatalf("Lookup(%q) error = %v", email, err)
	}
	tok, err := env.jwt.GenerateToken(p.Email, p.Role)
	if err != nil {
		env.t.Fatalf("GenerateToken() error = %v", err)
	}
	return tok
}

// do sends a request as email ("" for anonymous) with an optional JSON body.
func (env *testEnv) do(method, target, email string, body interface{}) *httptest.ResponseRecorder {
	env.t.Helper()

	var reader *bytes.Reader
	switch b := body.(type) {
	case nil:
		reader = bytes.NewReader(nil)
	case string:
		reader = bytes.NewReader([]byte(b))
	default:
		data, err := json.Marshal(b)
		if err != nil {
			env.t.Fatalf("marshal body: %v", err)
		}
		reader = bytes.NewReader(data)
	}

	req := httptest.NewRequest(method, target, reader)
	req.Header.Set("Content-Type", "application/json")
	if email != "" {
		req.Header.Set("Authorization", "Bearer "+env.token(email))
	}
	rec := httptest.NewRecorder()
	env.handler.ServeHTTP(rec, req)
	return rec
}

func decodeBody[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func assertError(t *testing.T, rec *httptest.ResponseRecorder, wantStatus int, wantMsg string) {
	t.Helper()
	if rec.Code != wantStatus {
		t.Fatalf("status = %d, want %d (body %s)", rec.Code, wantStatus, rec.Body.String())
	}
	got := decodeBody[models.ErrorResponse](t, rec)
	if got.Error != wantMsg {
		t.Errorf("error = %q, want %q", got.Error, wantMsg)
	}
}

func validEventBody() map[string]interface{} {
	return map[string]interface{}{
		"title":       "Sales Alert in Chennai",
		"description": "Conversion drop",
		"category":    "Sales",
		"severity":    "Medium",
		"location":    map[string]float64{"lat": 13.08, "lng": 80.27},
		"metrics":     map[string]float64{"score": 0, "confidence": 1, "impact": 10},
		"tags":        []string{"conversion"},
	}
}
