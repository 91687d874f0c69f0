// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

/*
rbac.go - Role-Based Access Control Models

Roles form a closed set with no hierarchy: an operation names the roles
allowed to perform it and a principal is authorized when its role is a
member of that set.

  - admin:   full access including user administration and deletes
  - analyst: read and write events
  - viewer:  read events
*/

package models

import (
	"fmt"
	"sort"
	"strings"
)

// Role is a principal's authorization role.
type Role string

const (
	RoleAdmin   Role = "admin"
	RoleAnalyst Role = "analyst"
	RoleViewer  Role = "viewer"
)

// ValidRoles contains all valid roles.
var ValidRoles = []Role{RoleAdmin, RoleAnalyst, RoleViewer}

// ParseRole converts a string to a Role. Matching is exact.
func ParseRole(s string) (Role, error) {
	for _, r := range ValidRoles {
		if string(r) == s {
			return r, nil
		}
	}
	return "", fmt.Errorf("invalid role: %q", s)
}

// Valid reports whether r is a declared role.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

func (r Role) String() string {
	return string(r)
}

// RoleSet is an immutable set of roles.
type RoleSet struct {
	members map[Role]struct{}
}

// NewRoleSet builds a set from the given roles. Invalid roles are dropped.
func NewRoleSet(roles ...Role) RoleSet {
	members := make(map[Role]struct{}, len(roles))
	for _, r := range roles {
		if r.Valid() {
			members[r] = struct{}{}
		}
	}
	return RoleSet{members: members}
}

// Has reports whether r is a member of the set.
func (s RoleSet) Has(r Role) bool {
	_, ok := s.members[r]
	return ok
}

// Len returns the number of members.
func (s RoleSet) Len() int {
	return len(s.members)
}

// Roles returns the members in sorted order.
func (s RoleSet) Roles() []Role {
	out := make([]Role, 0, len(s.members))
	for r := range s.members {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

func (s RoleSet) String() string {
	roles := s.Roles()
	parts := make([]string, len(roles))
	for i, r := range roles {
		parts[i] = string(r)
	}
	return "{" + strings.Join(parts, ",") + "}"
}
