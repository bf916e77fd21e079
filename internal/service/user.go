package service

import (
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"github.com/dailymd-dev/dailymd/internal/domain"
	"github.com/dailymd-dev/dailymd/internal/email"
	"github.com/dailymd-dev/dailymd/internal/errors"
	"github.com/dailymd-dev/dailymd/internal/jwt"
	"github.com/dailymd-dev/dailymd/internal/logger"
	"github.com/dailymd-dev/dailymd/internal/step"
	"github.com/dailymd-dev/dailymd/internal/validation"
)

// Accounts must be verified within this horizon or the verification id is
// treated as expired by the storage layer.
const verifyTTL = 20 * time.Minute

// to mock service in tests
type UserService interface {
	Register(details domain.Registration) error
	Verify(verifyId string) error
	Login(emailAddress, password string) (string, error)
	Profile(userId domain.UserId) (*domain.Profile, error)
	Remove(userId domain.UserId) error
}

type User struct {
	storage UserStorage
	mailer  email.Mailer
	jwt     jwt.JwtService
}

type UserStorage interface {
	SaveUser(user domain.User) (domain.UserId, error)
	UserById(id domain.UserId) (*domain.User, error)
	UserByEmail(emailAddress string) (*domain.User, error)
	VerifyUser(verifyId string) (*domain.User, error)
	DeleteUser(id domain.UserId) error
	BlogCountByAuthor(authorId domain.UserId) (int, error)

	// account removal cascade
	DeleteBlogsByAuthor(authorId domain.UserId) error
	BlogIdsCommentedBy(authorId domain.UserId) ([]domain.BlogId, error)
	RemoveCommentsByAuthor(blogId domain.BlogId, authorId domain.UserId) error
	SubscriberIdsOf(targetId domain.UserId) ([]domain.UserId, error)
	RemoveSubscription(ownerId, targetId domain.UserId) error
}

func NewUser(storage UserStorage, mailer email.Mailer, jwt jwt.JwtService) *User {
	return &User{storage, mailer, jwt}
}

// Register validates the submitted credentials, creates an unverified
// account and sends the verification mail. The mail send is gated: if it
// fails, the just-created account is deleted again so an unverifiable
// account never lingers and the same address can re-register.
func (u *User) Register(details domain.Registration) error {
	emailAddress := strings.ToLower(details.Email)

	var user domain.User

	return step.Run("register", []step.Step{
		{Name: "validate credentials", Run: func(op *step.Op) error {
			var fieldErrors []string
			for _, err := range []error{
				validation.FullName(details.FirstName, details.LastName),
				validation.EmailAddress(emailAddress),
				validation.Password(details.Password, details.Confirm),
			} {
				if err != nil {
					fieldErrors = append(fieldErrors, err.Error())
				}
			}
			if len(fieldErrors) > 0 {
				return &errors.ErrorWithStatusCode{
					Message:    "There are some issues with the credentials you submitted.",
					StatusCode: http.StatusBadRequest,
					Details:    fieldErrors,
				}
			}
			return nil
		}},

		{Name: "create account", Run: func(op *step.Op) error {
			passHash, err := bcrypt.GenerateFromPassword([]byte(details.Password), bcrypt.DefaultCost)
			if err != nil {
				logger.Log.Error("failed to hash password", "error", err)
				return err
			}

			user = domain.User{
				FirstName:     details.FirstName,
				LastName:      details.LastName,
				Email:         emailAddress,
				PasswordHash:  string(passHash),
				VerifyId:      uuid.NewString(),
				VerifyExpires: time.Now().UTC().Add(verifyTTL),
			}

			id, err := u.storage.SaveUser(user)
			if err != nil {
				return err
			}
			user.Id = id

			op.Compensate("delete unverified account", func() error {
				return u.storage.DeleteUser(id)
			})
			return nil
		}},

		{Name: "send verification email", Run: func(op *step.Op) error {
			if err := u.mailer.SendVerification(user.Email, user.FullName(), user.VerifyId); err != nil {
				logger.Log.Error("failed to send verification email", "email", user.Email, "error", err)
				return &errors.ErrorWithStatusCode{
					Message:    "An error occurred while sending the verification email. Try again later.",
					StatusCode: http.StatusInternalServerError,
				}
			}
			return nil
		}},
	})
}

// Verify consumes a verification id. The id is single-use: the lookup and
// the clearing of the id happen in one atomic storage update.
func (u *User) Verify(verifyId string) error {
	_, err := u.storage.VerifyUser(verifyId)
	return err
}

// Login checks the password of a verified account and issues a session
// token. Unknown and unverified accounts answer identically so login does
// not leak which addresses are registered.
func (u *User) Login(emailAddress, password string) (string, error) {
	emailAddress = strings.ToLower(emailAddress)

	notFound := &errors.ErrorWithStatusCode{
		Message:    "No verified user found with this email address.",
		StatusCode: http.StatusUnauthorized,
	}

	user, err := u.storage.UserByEmail(emailAddress)
	if err != nil {
		if errors.StatusCode(err) == http.StatusNotFound {
			return "", notFound
		}
		return "", err
	}
	if !user.Verified {
		return "", notFound
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return "", &errors.ErrorWithStatusCode{
			Message:    "The password submitted is incorrect.",
			StatusCode: http.StatusUnauthorized,
		}
	}

	return u.jwt.NewToken(user)
}

func (u *User) Profile(userId domain.UserId) (*domain.Profile, error) {
	user, err := u.storage.UserById(userId)
	if err != nil {
		return nil, err
	}
	if !user.Verified {
		return nil, &errors.ErrorWithStatusCode{
			Message:    "A verified user with this ID was not found.",
			StatusCode: http.StatusNotFound,
		}
	}

	blogCount, err := u.storage.BlogCountByAuthor(userId)
	if err != nil {
		return nil, err
	}

	return &domain.Profile{
		FullName:          user.FullName(),
		Email:             user.Email,
		JoinDate:          user.JoinDate,
		SubscriptionCount: len(user.Subscriptions),
		BlogCount:         blogCount,
	}, nil
}

// Remove deletes an account with a best-effort cascade. Stripping the
// account's comments and subscription entries continues past per-item
// failures (each one is logged for manual reconciliation); only the blog
// wipe and the final account row removal abort the operation, and the
// earlier steps are deliberately not rolled back when the last one fails —
// partial cleanup is safe to leave in place.
func (u *User) Remove(userId domain.UserId) error {
	return step.Run("remove account", []step.Step{
		{Name: "delete authored blogs", Run: func(op *step.Op) error {
			return u.storage.DeleteBlogsByAuthor(userId)
		}},

		{Name: "strip authored comments", Run: func(op *step.Op) error {
			blogIds, err := u.storage.BlogIdsCommentedBy(userId)
			if err != nil {
				logger.Log.Error("account removal: listing commented blogs failed", "user_id", userId, "error", err)
				return nil
			}
			for _, blogId := range blogIds {
				if err := u.storage.RemoveCommentsByAuthor(blogId, userId); err != nil {
					logger.Log.Error("account removal: stripping comments failed",
						"user_id", userId, "blog_id", blogId, "error", err)
				}
			}
			return nil
		}},

		{Name: "strip subscription entries", Run: func(op *step.Op) error {
			ownerIds, err := u.storage.SubscriberIdsOf(userId)
			if err != nil {
				logger.Log.Error("account removal: listing subscribers failed", "user_id", userId, "error", err)
				return nil
			}
			for _, ownerId := range ownerIds {
				if err := u.storage.RemoveSubscription(ownerId, userId); err != nil {
					logger.Log.Error("account removal: stripping subscription failed",
						"user_id", userId, "owner_id", ownerId, "error", err)
				}
			}
			return nil
		}},

		{Name: "delete account record", Run: func(op *step.Op) error {
			if _, err := u.storage.UserById(userId); err != nil {
				return err
			}
			return u.storage.DeleteUser(userId)
		}},
	})
}
