package service

import (
	"net/http"
	"strings"
	"time"

	"golang.org/x/crypto/bcrypt"

	"github.com/dailymd-dev/dailymd/internal/domain"
	"github.com/dailymd-dev/dailymd/internal/email"
	"github.com/dailymd-dev/dailymd/internal/errors"
	"github.com/dailymd-dev/dailymd/internal/logger"
	"github.com/dailymd-dev/dailymd/internal/step"
	"github.com/dailymd-dev/dailymd/internal/token"
	"github.com/dailymd-dev/dailymd/internal/validation"
)

// A reset token dies on its own after this horizon even if never spent.
const resetTTL = 10 * time.Minute

// to mock service in tests
type ResetService interface {
	Issue(emailAddress string) error
	Authenticate(linkId, code string) error
	ChangePassword(linkId, password, confirm string) error
}

type Reset struct {
	storage ResetStorage
	mailer  email.Mailer
}

type ResetStorage interface {
	UserByEmail(emailAddress string) (*domain.User, error)
	UpdatePassword(emailAddress, passwordHash string) error

	SaveReset(t domain.PasswordReset) error
	// LiveResetByEmail reports only tokens whose expiry horizon has not
	// elapsed; expired rows are invisible.
	LiveResetByEmail(emailAddress string) (*domain.PasswordReset, error)
	ResetByLink(linkId string) (*domain.PasswordReset, error)
	MarkResetAuthenticated(linkId string) error
	MarkResetSpent(linkId string) error
	DeleteReset(linkId string) error
}

func NewReset(storage ResetStorage, mailer email.Mailer) *Reset {
	return &Reset{storage, mailer}
}

// Issue creates a single-use reset token for a verified account and mails
// its authentication code. At most one live token may exist per address;
// asking again while one is outstanding is a 409 (an anti-spam guard, not a
// security boundary). The mail send is gated: on failure the token is
// deleted again so the user can simply re-request.
func (r *Reset) Issue(emailAddress string) error {
	emailAddress = strings.ToLower(emailAddress)

	var user *domain.User
	var issued token.Issued

	return step.Run("issue password reset", []step.Step{
		{Name: "validate email", Run: func(op *step.Op) error {
			return validation.EmailAddress(emailAddress)
		}},

		{Name: "resolve verified user", Run: func(op *step.Op) error {
			found, err := r.storage.UserByEmail(emailAddress)
			if err != nil && errors.StatusCode(err) != http.StatusNotFound {
				return err
			}
			if err != nil || !found.Verified {
				return &errors.ErrorWithStatusCode{
					Message:    "A verified user with this email address was not found.",
					StatusCode: http.StatusNotFound,
				}
			}
			user = found
			return nil
		}},

		{Name: "check for live token", Run: func(op *step.Op) error {
			_, err := r.storage.LiveResetByEmail(emailAddress)
			if err == nil {
				return &errors.ErrorWithStatusCode{
					Message:    "Another password reset token was issued for you recently. Try again later.",
					StatusCode: http.StatusConflict,
				}
			}
			if errors.StatusCode(err) == http.StatusNotFound {
				return nil
			}
			return err
		}},

		{Name: "create token", Run: func(op *step.Op) error {
			var err error
			issued, err = token.Issue()
			if err != nil {
				logger.Log.Error("failed to issue reset token", "error", err)
				return err
			}

			now := time.Now().UTC()
			err = r.storage.SaveReset(domain.PasswordReset{
				Email:    emailAddress,
				LinkId:   issued.LinkId,
				CodeHash: issued.Hash,
				Created:  now,
				Expires:  now.Add(resetTTL),
			})
			if err != nil {
				return err
			}

			op.Compensate("delete reset token", func() error {
				return r.storage.DeleteReset(issued.LinkId)
			})
			return nil
		}},

		{Name: "send authentication code", Run: func(op *step.Op) error {
			if err := r.mailer.SendResetRequest(user.Email, user.FullName(), issued.Code, issued.LinkId); err != nil {
				logger.Log.Error("failed to send reset email", "email", user.Email, "error", err)
				return &errors.ErrorWithStatusCode{
					Message:    "An error occurred while sending your authentication code. Try again later.",
					StatusCode: http.StatusInternalServerError,
				}
			}
			return nil
		}},
	})
}

// Authenticate moves a token from issued to authenticated, exactly once, by
// presenting the matching plaintext code.
func (r *Reset) Authenticate(linkId, code string) error {
	t, err := r.storage.ResetByLink(linkId)
	if err != nil {
		return err
	}

	if t.Authenticated {
		return &errors.ErrorWithStatusCode{
			Message:    "This password reset token has already been authenticated.",
			StatusCode: http.StatusConflict,
		}
	}

	if !token.Verify(code, t.CodeHash) {
		return &errors.ErrorWithStatusCode{
			Message:    "The authentication code you submitted is incorrect.",
			StatusCode: http.StatusUnauthorized,
		}
	}

	return r.storage.MarkResetAuthenticated(linkId)
}

// ChangePassword spends an authenticated token and rewrites the owner's
// password hash. The token is marked spent before the password write; if
// that write then fails, the compensation deletes the token entirely,
// forcing a fresh request rather than leaving a spent-but-ineffective token
// behind. The confirmation mail afterwards is best-effort only: the
// password change has already committed.
func (r *Reset) ChangePassword(linkId, password, confirm string) error {
	var user *domain.User
	var t *domain.PasswordReset

	return step.Run("change password", []step.Step{
		{Name: "validate password", Run: func(op *step.Op) error {
			return validation.Password(password, confirm)
		}},

		{Name: "resolve token", Run: func(op *step.Op) error {
			var err error
			t, err = r.storage.ResetByLink(linkId)
			if err != nil {
				return err
			}
			if !t.Authenticated {
				return &errors.ErrorWithStatusCode{
					Message:    "This password reset token has not been authenticated.",
					StatusCode: http.StatusUnauthorized,
				}
			}
			if t.Spent {
				return &errors.ErrorWithStatusCode{
					Message:    "This password reset token has already been spent.",
					StatusCode: http.StatusConflict,
				}
			}
			return nil
		}},

		{Name: "resolve token owner", Run: func(op *step.Op) error {
			found, err := r.storage.UserByEmail(t.Email)
			if err != nil && errors.StatusCode(err) != http.StatusNotFound {
				return err
			}
			if err != nil || !found.Verified {
				return &errors.ErrorWithStatusCode{
					Message:    "A user with the token's listed email address was not found.",
					StatusCode: http.StatusNotFound,
				}
			}
			user = found
			return nil
		}},

		{Name: "spend token", Run: func(op *step.Op) error {
			if err := r.storage.MarkResetSpent(linkId); err != nil {
				return err
			}
			op.Compensate("delete spent token", func() error {
				return r.storage.DeleteReset(linkId)
			})
			return nil
		}},

		{Name: "update password", Run: func(op *step.Op) error {
			passHash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
			if err != nil {
				logger.Log.Error("failed to hash password", "error", err)
				return err
			}
			return r.storage.UpdatePassword(user.Email, string(passHash))
		}},

		{Name: "send confirmation email", Run: func(op *step.Op) error {
			if err := r.mailer.SendPasswordChanged(user.Email, user.FullName()); err != nil {
				// The password change already committed; a missing
				// notification does not fail the operation.
				logger.Log.Warn("failed to send password changed email", "email", user.Email, "error", err)
			}
			return nil
		}},
	})
}
