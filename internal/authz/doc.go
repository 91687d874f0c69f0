// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

// Package authz provides the authorization half of the access guard.
//
// The policy is a Casbin ACL over (role, object, action) with no role
// inheritance:
//
//	[matchers]
//	m = r.sub == p.sub && r.obj == p.obj && r.act == p.act
//
// At load time the policy is folded into one models.RoleSet per Operation.
// Authorizing a request is then a set-membership test on the principal's
// current role:
//
//	Request -> auth.Authenticator -> authz.Enforcer.Require(op) -> Handler
//
// The model and policy are embedded; AUTHZ_MODEL_PATH and AUTHZ_POLICY_PATH
// replace them with files.
package authz
