// Package validation holds the pure field-level checks used during
// registration, password changes and content submission. Every function
// returns nil on success or a 400-classified error describing the problem.
package validation

import (
	"regexp"
	"unicode/utf8"

	"github.com/dailymd-dev/dailymd/internal/errors"
)

var (
	emailAddress   = regexp.MustCompile(`^(([^<>()\[\]\\.,;:\s@"]+(\.[^<>()\[\]\\.,;:\s@"]+)*)|(".+"))@((\[[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\.[0-9]{1,3}\])|(([a-zA-Z\-0-9]+\.)+[a-zA-Z]{2,}))$`)
	capitalLetters = regexp.MustCompile(`[A-Z]`)
	numbers        = regexp.MustCompile(`[0-9]`)
	symbols        = regexp.MustCompile("[$-/:-?{-~!\"^_`\\[\\]]")
)

func invalid(message string) *errors.ErrorWithStatusCode {
	return &errors.ErrorWithStatusCode{Message: message, StatusCode: 400}
}

// FullName validates the registering user's first and last name.
func FullName(first, last string) error {
	if first == "" || last == "" {
		return invalid("Please enter both a first and last name.")
	}
	if numbers.MatchString(first) || numbers.MatchString(last) {
		return invalid("First and last names shall not contain numbers.")
	}
	if symbols.MatchString(first) || symbols.MatchString(last) {
		return invalid("First and last names shall not contain symbols.")
	}
	return nil
}

// EmailAddress checks the address against a single permissive RFC-like
// pattern.
func EmailAddress(email string) error {
	if email == "" {
		return invalid("Please enter an email address.")
	}
	if !emailAddress.MatchString(email) {
		return invalid("Please enter a valid email address.")
	}
	return nil
}

// Password validates a new password and its confirmation: 8-20 characters,
// at least one capital letter, one digit and one symbol.
func Password(password, confirm string) error {
	if password == "" {
		return invalid("Please enter a password.")
	}
	if confirm == "" {
		return invalid("Please retype your password.")
	}
	if password != confirm {
		return invalid("The passwords do not match.")
	}
	if len(password) < 8 || len(password) > 20 {
		return invalid("Your password must be between 8 and 20 characters in length.")
	}
	if !capitalLetters.MatchString(password) {
		return invalid("Your password must have at least one capital letter.")
	}
	if !numbers.MatchString(password) {
		return invalid("Your password must have at least one numeric character.")
	}
	if !symbols.MatchString(password) {
		return invalid("Your password must have at least one symbol.")
	}
	return nil
}

// BlogTitle requires a non-empty title.
func BlogTitle(title string) error {
	if title == "" {
		return invalid("Please provide a title.")
	}
	return nil
}

// BlogBody enforces the 50 to 10,000 character bound.
func BlogBody(body string) error {
	if body == "" {
		return invalid("Please provide a body.")
	}
	if n := utf8.RuneCountInString(body); n < 50 || n > 10000 {
		return invalid("The blog's body must be between 50 and 10,000 characters in length.")
	}
	return nil
}

// Keywords requires at least one keyword.
func Keywords(keywords string) error {
	if keywords == "" {
		return invalid("Please provide some keywords.")
	}
	return nil
}

// CommentBody enforces the 10 to 200 character bound.
func CommentBody(body string) error {
	if body == "" {
		return invalid("Please enter a comment.")
	}
	if n := utf8.RuneCountInString(body); n < 10 || n > 200 {
		return invalid("Comments must be between 10 and 200 characters in length.")
	}
	return nil
}

// Score enforces the 1 to 5 rating range.
func Score(score int) error {
	if score < 1 || score > 5 {
		return invalid("Your rating must range from 1 to 5.")
	}
	return nil
}
