// PlatePicker - Restaurant Recommendation Service
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/platepicker

/*
Package auth implements account registration, password login and the signed
session cookie used by the web pages and the JSON API.

Passwords are stored as bcrypt hashes. Accounts seeded by older tooling may
still carry a plaintext password; the first successful login replaces it
with a hash.

Sessions are stateless HS256 JWTs carried in the HttpOnly cookie "session":

	token, err := jwtManager.GenerateToken(user)
	auth.SetSessionCookie(w, token, cfg.Security.SessionTimeout, cfg.Security.CookieSecure)

	claims, err := jwtManager.UserFromRequest(r)

Handlers behind RequireSession read the caller with ClaimsFromContext.
*/
package auth
