// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

/*
Package auth provides officer authentication: password hashing and signed
session cookies.

# Passwords

Officer passwords are stored as bcrypt hashes:

	hash, err := auth.HashPassword(password)
	ok := auth.CheckPassword(password, hash)

# Session Tokens

Sessions are stateless. The payload is JSON, base64url encoded, followed by
an HMAC-SHA256 signature keyed with APP_SECRET:

	<base64url({"u","n","o","s","exp"})>.<base64url(hmac)>

exp is the expiry in Unix milliseconds. DecodeSession rejects a token whose
signature does not verify or whose expiry has passed.

# Cookies

Sessions wraps the cookie handling:

	sessions := auth.NewSessions(secret, 6*time.Hour, secure)
	sessions.Issue(w, r, username, displayName, isSuper)
	s, ok := sessions.Current(r)
	sessions.Clear(w, r)

The cookie is HttpOnly and SameSite=Lax, and Secure when configured or when
the request arrived over TLS (directly or via X-Forwarded-Proto).
*/
package auth
