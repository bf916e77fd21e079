package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/dailymd-dev/dailymd/internal/errors"
)

func assertInvalid(t *testing.T, err error) {
	t.Helper()
	assert.Error(t, err)
	assert.Equal(t, 400, errors.StatusCode(err))
}

func TestFullName(t *testing.T) {
	assert.NoError(t, FullName("Ada", "Lovelace"))

	assertInvalid(t, FullName("", "Lovelace"))
	assertInvalid(t, FullName("Ada", ""))
	assertInvalid(t, FullName("Ada1", "Lovelace"))
	assertInvalid(t, FullName("Ada", "Love!ace"))
}

func TestEmailAddress(t *testing.T) {
	valid := []string{
		"ada@example.com",
		"ada.lovelace@mail.example.co.uk",
		"ada+tag@example.org",
	}
	for _, email := range valid {
		assert.NoError(t, EmailAddress(email), email)
	}

	invalid := []string{
		"",
		"not-an-email",
		"@example.com",
		"ada@",
		"ada@nodot",
		"ada lovelace@example.com",
	}
	for _, email := range invalid {
		assertInvalid(t, EmailAddress(email))
	}
}

func TestPassword(t *testing.T) {
	assert.NoError(t, Password("Passw0rd!", "Passw0rd!"))

	tests := []struct {
		name              string
		password, confirm string
	}{
		{"empty", "", ""},
		{"no confirmation", "Passw0rd!", ""},
		{"mismatch", "Passw0rd!", "Passw0rd?"},
		{"too short", "Pw0rd!", "Pw0rd!"},
		{"too long", "Passw0rd!Passw0rd!Pas", "Passw0rd!Passw0rd!Pas"},
		{"no capital", "passw0rd!", "passw0rd!"},
		{"no digit", "Password!", "Password!"},
		{"no symbol", "Passw0rdd", "Passw0rdd"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assertInvalid(t, Password(tt.password, tt.confirm))
		})
	}
}

func TestBlogBody(t *testing.T) {
	assert.NoError(t, BlogBody(strings.Repeat("a", 50)))
	assert.NoError(t, BlogBody(strings.Repeat("a", 10000)))

	assertInvalid(t, BlogBody(""))
	assertInvalid(t, BlogBody(strings.Repeat("a", 49)))
	assertInvalid(t, BlogBody(strings.Repeat("a", 10001)))
}

func TestCommentBody(t *testing.T) {
	assert.NoError(t, CommentBody(strings.Repeat("a", 10)))
	assert.NoError(t, CommentBody(strings.Repeat("a", 200)))

	// Both ends of the range reject, not just one.
	assertInvalid(t, CommentBody(""))
	assertInvalid(t, CommentBody(strings.Repeat("a", 9)))
	assertInvalid(t, CommentBody(strings.Repeat("a", 201)))
}

func TestScore(t *testing.T) {
	for score := 1; score <= 5; score++ {
		assert.NoError(t, Score(score))
	}
	assertInvalid(t, Score(0))
	assertInvalid(t, Score(6))
	assertInvalid(t, Score(-1))
}

func TestBlogTitleAndKeywords(t *testing.T) {
	assert.NoError(t, BlogTitle("A title"))
	assert.NoError(t, Keywords("go, programming"))

	assertInvalid(t, BlogTitle(""))
	assertInvalid(t, Keywords(""))
}
