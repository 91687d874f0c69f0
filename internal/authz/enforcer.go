// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package authz

import (
	_ "embed"
	"errors"
	"fmt"
	"strings"

	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
	fileadapter "github.com/casbin/casbin/v2/persist/file-adapter"

	"github.com/tomtom215/insightops/internal/auth"
	"github.com/tomtom215/insightops/internal/config"
	"github.com/tomtom215/insightops/internal/models"
)

//go:embed model.conf
var embeddedModel string

//go:embed policy.csv
var embeddedPolicy string

// ErrForbidden is returned when the principal's role is not permitted.
var ErrForbidden = errors.New("forbidden: insufficient role")

// Operation is a guarded (object, action) pair.
type Operation struct {
	Object string
	Action string
}

func (o Operation) String() string {
	return o.Object + ":" + o.Action
}

var (
	EventsRead   = Operation{Object: "events", Action: "read"}
	EventsCreate = Operation{Object: "events", Action: "create"}
	EventsUpdate = Operation{Object: "events", Action: "update"}
	EventsDelete = Operation{Object: "events", Action: "delete"}
	EventsStream = Operation{Object: "events", Action: "stream"}
	UsersRead    = Operation{Object: "users", Action: "read"}
	UsersUpdate  = Operation{Object: "users", Action: "update"}
)

// Operations lists every operation the HTTP surface guards.
var Operations = []Operation{
	EventsRead, EventsCreate, EventsUpdate, EventsDelete, EventsStream,
	UsersRead, UsersUpdate,
}

// Enforcer holds the loaded policy and the role set derived for each
// operation.
type Enforcer struct {
	enforcer *casbin.SyncedEnforcer
	roleSets map[Operation]models.RoleSet
}

// NewEnforcer loads the model and policy. Empty paths select the embedded
// defaults; a configured path that cannot be read is an error.
func NewEnforcer(cfg config.AuthzConfig) (*Enforcer, error) {
	var (
		m   model.Model
		err error
	)
	if cfg.ModelPath != "" {
		m, err = model.NewModelFromFile(cfg.ModelPath)
	} else {
		m, err = model.NewModelFromString(embeddedModel)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load casbin model: %w", err)
	}

	var enforcer *casbin.SyncedEnforcer
	if cfg.PolicyPath != "" {
		enforcer, err = casbin.NewSyncedEnforcer(m, fileadapter.NewAdapter(cfg.PolicyPath))
	} else {
		enforcer, err = casbin.NewSyncedEnforcer(m)
		if err == nil {
			err = loadPolicyText(enforcer, embeddedPolicy)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("failed to create casbin enforcer: %w", err)
	}

	e := &Enforcer{enforcer: enforcer}
	if err := e.rebuild(); err != nil {
		return nil, err
	}
	if err := e.verify(); err != nil {
		return nil, err
	}
	return e, nil
}

// loadPolicyText adds the "p, role, object, action" lines of policy.
func loadPolicyText(enforcer *casbin.SyncedEnforcer, policy string) error {
	for _, line := range strings.Split(policy, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		parts := strings.Split(line, ",")
		for i := range parts {
			parts[i] = strings.TrimSpace(parts[i])
		}
		if parts[0] != "p" || len(parts) != 4 {
			return fmt.Errorf("malformed policy line %q", line)
		}
		if _, err := enforcer.AddPolicy(parts[1], parts[2], parts[3]); err != nil {
			return fmt.Errorf("failed to add policy %v: %w", parts[1:], err)
		}
	}
	return nil
}

// rebuild derives the role set of every operation from the loaded policy.
// Rules naming a role outside the enum are rejected.
func (e *Enforcer) rebuild() error {
	rules, err := e.enforcer.GetPolicy()
	if err != nil {
		return fmt.Errorf("failed to read policy: %w", err)
	}

	members := make(map[Operation][]models.Role)
	for _, rule := range rules {
		if len(rule) < 3 {
			continue
		}
		role, err := models.ParseRole(rule[0])
		if err != nil {
			return fmt.Errorf("policy rule %v: %w", rule, err)
		}
		op := Operation{Object: rule[1], Action: rule[2]}
		members[op] = append(members[op], role)
	}

	sets := make(map[Operation]models.RoleSet, len(members))
	for op, roles := range members {
		sets[op] = models.NewRoleSet(roles...)
	}
	e.roleSets = sets
	return nil
}

// verify checks that the folded role sets give the same answer as the
// casbin matcher for every operation and role. A custom model whose matcher
// is more than an exact rule lookup cannot be folded and is rejected.
func (e *Enforcer) verify() error {
	for _, op := range Operations {
		for _, role := range models.ValidRoles {
			ok, err := e.Enforce(role, op)
			if err != nil {
				return err
			}
			if ok != e.RoleSet(op).Has(role) {
				return fmt.Errorf("casbin model disagrees with policy rules for %s on %s", role, op)
			}
		}
	}
	return nil
}

// RoleSet returns the roles permitted to perform op. Unknown operations
// get the empty set.
func (e *Enforcer) RoleSet(op Operation) models.RoleSet {
	if s, ok := e.roleSets[op]; ok {
		return s
	}
	return models.NewRoleSet()
}

// Authorize returns ErrForbidden unless p's role is in op's role set.
func (e *Enforcer) Authorize(p auth.Principal, op Operation) error {
	if !e.RoleSet(op).Has(p.Role) {
		return ErrForbidden
	}
	return nil
}

// Enforce evaluates the casbin matcher directly.
func (e *Enforcer) Enforce(role models.Role, op Operation) (bool, error) {
	ok, err := e.enforcer.Enforce(string(role), op.Object, op.Action)
	if err != nil {
		return false, fmt.Errorf("enforcement failed: %w", err)
	}
	return ok, nil
}
