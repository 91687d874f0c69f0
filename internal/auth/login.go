// InsightOps - Role-Gated Event Tracking Dashboard
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/insightops

package auth

// Login checks the credentials and issues a token for the principal.
func (a *Authenticator) Login(email, password string) (string, Principal, error) {
	p, err := a.users.Verify(email, password)
	if err != nil {
		return "", Principal{}, err
	}
	token, err := a.jwt.GenerateToken(p.Email, p.Role)
	if err != nil {
		return "", Principal{}, err
	}
	return token, p, nil
}

// Users exposes the directory backing the authenticator.
func (a *Authenticator) Users() *UserDirectory {
	return a.users
}
