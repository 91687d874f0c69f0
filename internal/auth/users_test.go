// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package auth

import (
	"errors"
	"sync"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/insightops/internal/models"
)

func newTestDirectory(t *testing.T) *UserDirectory {
	t.Helper()
	d, err := NewSeededDirectory(bcrypt.MinCost, DefaultSeedUsers())
	if err != nil {
		t.Fatalf("NewSeededDirectory() error = %v", err)
	}
	return d
}

func TestNewUserDirectory_CostFallback(t *testing.T) {
	if d := NewUserDirectory(0); d.cost != DefaultBcryptCost {
		t.Errorf("cost = %d, want %d", d.cost, DefaultBcryptCost)
	}
	if d := NewUserDirectory(bcrypt.MinCost); d.cost != bcrypt.MinCost {
		t.Errorf("cost = %d, want %d", d.cost, bcrypt.MinCost)
	}
}

func TestUserDirectory_Verify(t *testing.T) {
	d := newTestDirectory(t)

	tests := []struct {
		name     string
		email    string
		password string
		wantRole models.Role
		wantErr  error
	}{
		{"admin", "admin@test.com", "password", models.RoleAdmin, nil},
		{"analyst", "analyst@test.com", "password", models.RoleAnalyst, nil},
		{"viewer", "viewer@test.com", "password", models.RoleViewer, nil},
		{"wrong password", "admin@test.com", "hunter2", "", ErrInvalidCredentials},
		{"unknown email", "ghost@test.com", "password", "", ErrInvalidCredentials},
		{"email is case sensitive", "Admin@test.com", "password", "", ErrInvalidCredentials},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := d.Verify(tt.email, tt.password)
			if !errors.Is(err, tt.wantErr) {
				t.Fatalf("Verify() error = %v, want %v", err, tt.wantErr)
			}
			if p.Role != tt.wantRole {
				t.Errorf("role = %q, want %q", p.Role, tt.wantRole)
			}
		})
	}
}

func TestUserDirectory_AddRejects(t *testing.T) {
	d := newTestDirectory(t)
	if err := d.Add("admin@test.com", "x", models.RoleViewer); !errors.Is(err, ErrUserExists) {
		t.Errorf("duplicate Add() error = %v, want ErrUserExists", err)
	}
	if err := d.Add("new@test.com", "x", models.Role("root")); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("Add() with bad role error = %v, want ErrInvalidRole", err)
	}
	if d.Len() != 3 {
		t.Errorf("Len() = %d, want 3", d.Len())
	}
}

func TestUserDirectory_ListSorted(t *testing.T) {
	d := newTestDirectory(t)
	got := d.List()
	want := []models.UserView{
		{Email: "admin@test.com", Role: models.RoleAdmin},
		{Email: "analyst@test.com", Role: models.RoleAnalyst},
		{Email: "viewer@test.com", Role: models.RoleViewer},
	}
	if len(got) != len(want) {
		t.Fatalf("List() len = %d, want %d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("List()[%d] = %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestUserDirectory_SetRole(t *testing.T) {
	d := newTestDirectory(t)

	prev, err := d.SetRole("viewer@test.com", models.RoleAnalyst)
	if err != nil {
		t.Fatalf("SetRole() error = %v", err)
	}
	if prev != models.RoleViewer {
		t.Errorf("previous role = %q, want viewer", prev)
	}
	p, _ := d.Lookup("viewer@test.com")
	if p.Role != models.RoleAnalyst {
		t.Errorf("role after SetRole = %q, want analyst", p.Role)
	}

	if _, err := d.SetRole("ghost@test.com", models.RoleAdmin); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("SetRole(unknown) error = %v, want ErrUserNotFound", err)
	}
	if _, err := d.SetRole("viewer@test.com", models.Role("superuser")); !errors.Is(err, ErrInvalidRole) {
		t.Errorf("SetRole(bad role) error = %v, want ErrInvalidRole", err)
	}
}

func TestUserDirectory_Remove(t *testing.T) {
	d := newTestDirectory(t)
	if err := d.Remove("analyst@test.com"); err != nil {
		t.Fatalf("Remove() error = %v", err)
	}
	if _, err := d.Lookup("analyst@test.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("Lookup after Remove error = %v", err)
	}
	if err := d.Remove("analyst@test.com"); !errors.Is(err, ErrUserNotFound) {
		t.Errorf("second Remove() error = %v", err)
	}
}

func TestUserDirectory_ConcurrentAccess(t *testing.T) {
	d := newTestDirectory(t)
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(2)
		go func(i int) {
			defer wg.Done()
			role := models.RoleViewer
			if i%2 == 0 {
				role = models.RoleAnalyst
			}
			_, _ = d.SetRole("viewer@test.com", role)
		}(i)
		go func() {
			defer wg.Done()
			_, _ = d.Lookup("viewer@test.com")
			_ = d.List()
		}()
	}
	wg.Wait()

	p, err := d.Lookup("viewer@test.com")
	if err != nil || !p.Role.Valid() {
		t.Errorf("Lookup() = %+v, %v", p, err)
	}
}
