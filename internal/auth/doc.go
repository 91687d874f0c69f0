// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

/*
Package auth implements the authentication half of the access guard.

A request is authenticated in two steps: the bearer token is verified as an
HS256 JWT carrying {email, role}, and the email is then re-resolved against
the UserDirectory. The role stored in the directory, not the one in the token,
becomes the request's Principal, so a role change or removal takes effect on
the principal's next request.

Components:

  - JWTManager: token issue and verification (golang-jwt/jwt/v5)
  - UserDirectory: in-memory principals with bcrypt password hashes
  - Authenticator: HTTP middleware that stores the Principal in the context
  - LoginLimiter: per-client token bucket for POST /auth/login (x/time/rate)

Errors returned by this package wrap ErrUnauthorized when the caller should
answer 401; ErrUserNotFound maps to 404.
*/
package auth
