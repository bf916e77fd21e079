package domain

import "time"

// PasswordReset is a single-use password reset challenge. The plaintext
// authentication code is never stored, only its bcrypt hash. LinkId is the
// public, URL-routable identifier of the token.
type PasswordReset struct {
	Email         string
	LinkId        string
	CodeHash      string
	Authenticated bool
	Spent         bool
	Created       time.Time
	Expires       time.Time
}
