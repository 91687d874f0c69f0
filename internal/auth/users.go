// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package auth

import (
	"fmt"
	"sort"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"github.com/tomtom215/insightops/internal/models"
)

// DefaultBcryptCost is used for every stored password hash.
const DefaultBcryptCost = 12

// DefaultSeedPassword is shared by the seeded principals.
const DefaultSeedPassword = "password"

// Principal is an authenticated identity and its current role.
type Principal struct {
	Email string
	Role  models.Role
}

// View returns the public projection used in API responses.
func (p Principal) View() models.UserView {
	return models.UserView{Email: p.Email, Role: p.Role}
}

// SeedUser is a principal created at startup.
type SeedUser struct {
	Email    string
	Password string
	Role     models.Role
}

// DefaultSeedUsers returns one principal per role.
func DefaultSeedUsers() []SeedUser {
	return []SeedUser{
		{Email: "admin@test.com", Password: DefaultSeedPassword, Role: models.RoleAdmin},
		{Email: "analyst@test.com", Password: DefaultSeedPassword, Role: models.RoleAnalyst},
		{Email: "viewer@test.com", Password: DefaultSeedPassword, Role: models.RoleViewer},
	}
}

type user struct {
	email        string
	role         models.Role
	passwordHash []byte
}

// UserDirectory holds principals in memory for the process lifetime.
// Emails are matched exactly.
type UserDirectory struct {
	mu    sync.RWMutex
	users map[string]*user
	cost  int

	// dummyHash is compared against for unknown emails.
	dummyHash []byte
}

// NewUserDirectory returns an empty directory hashing with cost.
// A cost outside bcrypt's range falls back to DefaultBcryptCost.
func NewUserDirectory(cost int) *UserDirectory {
	if cost < bcrypt.MinCost || cost > bcrypt.MaxCost {
		cost = DefaultBcryptCost
	}
	return &UserDirectory{
		users: make(map[string]*user),
		cost:  cost,
	}
}

// NewSeededDirectory returns a directory holding seeds.
func NewSeededDirectory(cost int, seeds []SeedUser) (*UserDirectory, error) {
	d := NewUserDirectory(cost)
	for _, s := range seeds {
		if err := d.Add(s.Email, s.Password, s.Role); err != nil {
			return nil, fmt.Errorf("seed user %s: %w", s.Email, err)
		}
	}
	return d, nil
}

// Add registers a principal.
func (d *UserDirectory) Add(email, password string, role models.Role) error {
	if !role.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	hash, err := bcrypt.GenerateFromPassword([]byte(password), d.cost)
	if err != nil {
		return fmt.Errorf("failed to hash password: %w", err)
	}

	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[email]; ok {
		return fmt.Errorf("%w: %s", ErrUserExists, email)
	}
	d.users[email] = &user{email: email, role: role, passwordHash: hash}
	return nil
}

// Verify checks a password and returns the principal. Unknown emails and
// wrong passwords both return ErrInvalidCredentials.
func (d *UserDirectory) Verify(email, password string) (Principal, error) {
	d.mu.RLock()
	u, ok := d.users[email]
	var hash []byte
	var p Principal
	if ok {
		hash = u.passwordHash
		p = Principal{Email: u.email, Role: u.role}
	}
	d.mu.RUnlock()

	if !ok {
		_ = bcrypt.CompareHashAndPassword(d.placeholderHash(), []byte(password))
		return Principal{}, ErrInvalidCredentials
	}
	if bcrypt.CompareHashAndPassword(hash, []byte(password)) != nil {
		return Principal{}, ErrInvalidCredentials
	}
	return p, nil
}

func (d *UserDirectory) placeholderHash() []byte {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.dummyHash == nil {
		d.dummyHash, _ = bcrypt.GenerateFromPassword([]byte("insightops-placeholder"), d.cost)
	}
	return d.dummyHash
}

// Lookup resolves email to its current principal.
func (d *UserDirectory) Lookup(email string) (Principal, error) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	u, ok := d.users[email]
	if !ok {
		return Principal{}, ErrUserNotFound
	}
	return Principal{Email: u.email, Role: u.role}, nil
}

// List returns every principal ordered by email.
func (d *UserDirectory) List() []models.UserView {
	d.mu.RLock()
	out := make([]models.UserView, 0, len(d.users))
	for _, u := range d.users {
		out = append(out, models.UserView{Email: u.email, Role: u.role})
	}
	d.mu.RUnlock()

	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })
	return out
}

// SetRole reassigns a role and returns the previous one.
func (d *UserDirectory) SetRole(email string, role models.Role) (models.Role, error) {
	if !role.Valid() {
		return "", fmt.Errorf("%w: %q", ErrInvalidRole, role)
	}
	d.mu.Lock()
	defer d.mu.Unlock()
	u, ok := d.users[email]
	if !ok {
		return "", ErrUserNotFound
	}
	prev := u.role
	u.role = role
	return prev, nil
}

// Remove deletes a principal. Tokens already issued to it stop resolving.
func (d *UserDirectory) Remove(email string) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.users[email]; !ok {
		return ErrUserNotFound
	}
	delete(d.users, email)
	return nil
}

// Len returns the number of principals.
func (d *UserDirectory) Len() int {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return len(d.users)
}
