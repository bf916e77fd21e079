package service

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"github.com/dailymd-dev/dailymd/internal/domain"
	internal_errors "github.com/dailymd-dev/dailymd/internal/errors"
	"github.com/dailymd-dev/dailymd/internal/jwt"
)

// --- Mocks ---

type MockUserStorage struct {
	SaveUserFunc               func(user domain.User) (domain.UserId, error)
	UserByIdFunc               func(id domain.UserId) (*domain.User, error)
	UserByEmailFunc            func(emailAddress string) (*domain.User, error)
	VerifyUserFunc             func(verifyId string) (*domain.User, error)
	DeleteUserFunc             func(id domain.UserId) error
	BlogCountByAuthorFunc      func(authorId domain.UserId) (int, error)
	DeleteBlogsByAuthorFunc    func(authorId domain.UserId) error
	BlogIdsCommentedByFunc     func(authorId domain.UserId) ([]domain.BlogId, error)
	RemoveCommentsByAuthorFunc func(blogId domain.BlogId, authorId domain.UserId) error
	SubscriberIdsOfFunc        func(targetId domain.UserId) ([]domain.UserId, error)
	RemoveSubscriptionFunc     func(ownerId, targetId domain.UserId) error
}

func (m *MockUserStorage) SaveUser(user domain.User) (domain.UserId, error) {
	if m.SaveUserFunc != nil {
		return m.SaveUserFunc(user)
	}
	return 1, nil
}

func (m *MockUserStorage) UserById(id domain.UserId) (*domain.User, error) {
	if m.UserByIdFunc != nil {
		return m.UserByIdFunc(id)
	}
	return &domain.User{Id: id, FirstName: "Ada", LastName: "Lovelace", Verified: true}, nil
}

func (m *MockUserStorage) UserByEmail(emailAddress string) (*domain.User, error) {
	if m.UserByEmailFunc != nil {
		return m.UserByEmailFunc(emailAddress)
	}
	return nil, &internal_errors.ErrorWithStatusCode{Message: "not found", StatusCode: http.StatusNotFound}
}

func (m *MockUserStorage) VerifyUser(verifyId string) (*domain.User, error) {
	if m.VerifyUserFunc != nil {
		return m.VerifyUserFunc(verifyId)
	}
	return &domain.User{Id: 1, Verified: true}, nil
}

func (m *MockUserStorage) DeleteUser(id domain.UserId) error {
	if m.DeleteUserFunc != nil {
		return m.DeleteUserFunc(id)
	}
	return nil
}

func (m *MockUserStorage) BlogCountByAuthor(authorId domain.UserId) (int, error) {
	if m.BlogCountByAuthorFunc != nil {
		return m.BlogCountByAuthorFunc(authorId)
	}
	return 0, nil
}

func (m *MockUserStorage) DeleteBlogsByAuthor(authorId domain.UserId) error {
	if m.DeleteBlogsByAuthorFunc != nil {
		return m.DeleteBlogsByAuthorFunc(authorId)
	}
	return nil
}

func (m *MockUserStorage) BlogIdsCommentedBy(authorId domain.UserId) ([]domain.BlogId, error) {
	if m.BlogIdsCommentedByFunc != nil {
		return m.BlogIdsCommentedByFunc(authorId)
	}
	return nil, nil
}

func (m *MockUserStorage) RemoveCommentsByAuthor(blogId domain.BlogId, authorId domain.UserId) error {
	if m.RemoveCommentsByAuthorFunc != nil {
		return m.RemoveCommentsByAuthorFunc(blogId, authorId)
	}
	return nil
}

func (m *MockUserStorage) SubscriberIdsOf(targetId domain.UserId) ([]domain.UserId, error) {
	if m.SubscriberIdsOfFunc != nil {
		return m.SubscriberIdsOfFunc(targetId)
	}
	return nil, nil
}

func (m *MockUserStorage) RemoveSubscription(ownerId, targetId domain.UserId) error {
	if m.RemoveSubscriptionFunc != nil {
		return m.RemoveSubscriptionFunc(ownerId, targetId)
	}
	return nil
}

type MockMailer struct {
	SendVerificationFunc    func(to, fullName, verifyId string) error
	SendResetRequestFunc    func(to, fullName, code, linkId string) error
	SendPasswordChangedFunc func(to, fullName string) error
}

func (m *MockMailer) SendVerification(to, fullName, verifyId string) error {
	if m.SendVerificationFunc != nil {
		return m.SendVerificationFunc(to, fullName, verifyId)
	}
	return nil
}

func (m *MockMailer) SendResetRequest(to, fullName, code, linkId string) error {
	if m.SendResetRequestFunc != nil {
		return m.SendResetRequestFunc(to, fullName, code, linkId)
	}
	return nil
}

func (m *MockMailer) SendPasswordChanged(to, fullName string) error {
	if m.SendPasswordChangedFunc != nil {
		return m.SendPasswordChangedFunc(to, fullName)
	}
	return nil
}

type MockJwt struct {
	NewTokenFunc func(user *domain.User) (string, error)
}

func (m *MockJwt) NewToken(user *domain.User) (string, error) {
	if m.NewTokenFunc != nil {
		return m.NewTokenFunc(user)
	}
	return "token", nil
}

func (m *MockJwt) DecodeClaims(jwtStr string) (*jwt.Claims, error) {
	return nil, nil
}

// --- Tests ---

func validRegistration() domain.Registration {
	return domain.Registration{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "Ada.Lovelace@example.com",
		Password:  "Passw0rd!",
		Confirm:   "Passw0rd!",
	}
}

func TestRegister_Success(t *testing.T) {
	var saved domain.User
	storage := &MockUserStorage{
		SaveUserFunc: func(user domain.User) (domain.UserId, error) {
			saved = user
			return 7, nil
		},
	}
	mailer := &MockMailer{}
	svc := NewUser(storage, mailer, &MockJwt{})

	err := svc.Register(validRegistration())
	require.NoError(t, err)

	assert.Equal(t, "ada.lovelace@example.com", saved.Email, "email must be lowercased")
	assert.NotEmpty(t, saved.VerifyId)
	assert.False(t, saved.Verified)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(saved.PasswordHash), []byte("Passw0rd!")))
}

func TestRegister_CollectsAllValidationFailures(t *testing.T) {
	svc := NewUser(&MockUserStorage{}, &MockMailer{}, &MockJwt{})

	err := svc.Register(domain.Registration{
		FirstName: "Ada1",
		LastName:  "Lovelace",
		Email:     "not-an-email",
		Password:  "short",
		Confirm:   "short",
	})

	var classified *internal_errors.ErrorWithStatusCode
	require.ErrorAs(t, err, &classified)
	assert.Equal(t, http.StatusBadRequest, classified.StatusCode)
	// One detail per failing field, not just the first.
	assert.Len(t, classified.Details, 3)
}

func TestRegister_DuplicateEmail(t *testing.T) {
	storage := &MockUserStorage{
		SaveUserFunc: func(user domain.User) (domain.UserId, error) {
			return 0, &internal_errors.ErrorWithStatusCode{
				Message:    "There is another user registered with this email address.",
				StatusCode: http.StatusConflict,
			}
		},
	}
	svc := NewUser(storage, &MockMailer{}, &MockJwt{})

	err := svc.Register(validRegistration())
	assert.Equal(t, http.StatusConflict, internal_errors.StatusCode(err))
}

func TestRegister_MailFailureDeletesAccount(t *testing.T) {
	deleted := false
	storage := &MockUserStorage{
		SaveUserFunc: func(user domain.User) (domain.UserId, error) { return 7, nil },
		DeleteUserFunc: func(id domain.UserId) error {
			assert.Equal(t, domain.UserId(7), id)
			deleted = true
			return nil
		},
	}
	mailer := &MockMailer{
		SendVerificationFunc: func(to, fullName, verifyId string) error {
			return errors.New("smtp down")
		},
	}
	svc := NewUser(storage, mailer, &MockJwt{})

	err := svc.Register(validRegistration())
	assert.Equal(t, http.StatusInternalServerError, internal_errors.StatusCode(err))
	assert.True(t, deleted, "orphan account must be removed so the address can re-register")
}

func TestLogin_Success(t *testing.T) {
	passHash, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	storage := &MockUserStorage{
		UserByEmailFunc: func(emailAddress string) (*domain.User, error) {
			assert.Equal(t, "ada@example.com", emailAddress)
			return &domain.User{Id: 1, Email: emailAddress, PasswordHash: string(passHash), Verified: true}, nil
		},
	}
	svc := NewUser(storage, &MockMailer{}, &MockJwt{})

	token, err := svc.Login("Ada@Example.com", "Passw0rd!")
	require.NoError(t, err)
	assert.Equal(t, "token", token)
}

func TestLogin_UnknownAndUnverifiedAnswerIdentically(t *testing.T) {
	passHash, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)

	unknown := &MockUserStorage{}
	unverified := &MockUserStorage{
		UserByEmailFunc: func(emailAddress string) (*domain.User, error) {
			return &domain.User{Id: 1, PasswordHash: string(passHash), Verified: false}, nil
		},
	}

	_, errUnknown := NewUser(unknown, &MockMailer{}, &MockJwt{}).Login("ada@example.com", "Passw0rd!")
	_, errUnverified := NewUser(unverified, &MockMailer{}, &MockJwt{}).Login("ada@example.com", "Passw0rd!")

	require.Error(t, errUnknown)
	require.Error(t, errUnverified)
	assert.Equal(t, errUnknown.Error(), errUnverified.Error())
	assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(errUnknown))
	assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(errUnverified))
}

func TestLogin_WrongPassword(t *testing.T) {
	passHash, _ := bcrypt.GenerateFromPassword([]byte("Passw0rd!"), bcrypt.DefaultCost)
	storage := &MockUserStorage{
		UserByEmailFunc: func(emailAddress string) (*domain.User, error) {
			return &domain.User{Id: 1, PasswordHash: string(passHash), Verified: true}, nil
		},
	}
	svc := NewUser(storage, &MockMailer{}, &MockJwt{})

	_, err := svc.Login("ada@example.com", "wrong")
	assert.Equal(t, http.StatusUnauthorized, internal_errors.StatusCode(err))
}

func TestProfile_UnverifiedIsNotFound(t *testing.T) {
	storage := &MockUserStorage{
		UserByIdFunc: func(id domain.UserId) (*domain.User, error) {
			return &domain.User{Id: id, Verified: false}, nil
		},
	}
	svc := NewUser(storage, &MockMailer{}, &MockJwt{})

	_, err := svc.Profile(1)
	assert.Equal(t, http.StatusNotFound, internal_errors.StatusCode(err))
}

func TestProfile_Success(t *testing.T) {
	storage := &MockUserStorage{
		UserByIdFunc: func(id domain.UserId) (*domain.User, error) {
			return &domain.User{
				Id: id, FirstName: "Ada", LastName: "Lovelace", Email: "ada@example.com",
				Verified:      true,
				Subscriptions: []domain.Subscription{{TargetId: 2}, {TargetId: 3}},
			}, nil
		},
		BlogCountByAuthorFunc: func(authorId domain.UserId) (int, error) { return 5, nil },
	}
	svc := NewUser(storage, &MockMailer{}, &MockJwt{})

	profile, err := svc.Profile(1)
	require.NoError(t, err)
	assert.Equal(t, "Ada Lovelace", profile.FullName)
	assert.Equal(t, 2, profile.SubscriptionCount)
	assert.Equal(t, 5, profile.BlogCount)
}

func TestRemove_CascadeContinuesPastCommentFailures(t *testing.T) {
	var strippedBlogs []domain.BlogId
	userDeleted := false

	storage := &MockUserStorage{
		BlogIdsCommentedByFunc: func(authorId domain.UserId) ([]domain.BlogId, error) {
			return []domain.BlogId{10, 11, 12}, nil
		},
		RemoveCommentsByAuthorFunc: func(blogId domain.BlogId, authorId domain.UserId) error {
			if blogId == 11 {
				return errors.New("transient failure")
			}
			strippedBlogs = append(strippedBlogs, blogId)
			return nil
		},
		DeleteUserFunc: func(id domain.UserId) error {
			userDeleted = true
			return nil
		},
	}
	svc := NewUser(storage, &MockMailer{}, &MockJwt{})

	err := svc.Remove(1)
	require.NoError(t, err)
	assert.Equal(t, []domain.BlogId{10, 12}, strippedBlogs)
	assert.True(t, userDeleted)
}

func TestRemove_BlogWipeFailureAborts(t *testing.T) {
	userDeleted := false
	storage := &MockUserStorage{
		DeleteBlogsByAuthorFunc: func(authorId domain.UserId) error {
			return errors.New("db down")
		},
		DeleteUserFunc: func(id domain.UserId) error {
			userDeleted = true
			return nil
		},
	}
	svc := NewUser(storage, &MockMailer{}, &MockJwt{})

	err := svc.Remove(1)
	require.Error(t, err)
	assert.False(t, userDeleted, "account record must survive when the blog wipe fails")
}

func TestRemove_MissingUser(t *testing.T) {
	storage := &MockUserStorage{
		UserByIdFunc: func(id domain.UserId) (*domain.User, error) {
			return nil, &internal_errors.ErrorWithStatusCode{Message: "not found", StatusCode: http.StatusNotFound}
		},
	}
	svc := NewUser(storage, &MockMailer{}, &MockJwt{})

	err := svc.Remove(1)
	assert.Equal(t, http.StatusNotFound, internal_errors.StatusCode(err))
}
