package service

import (
	"net/http"

	"github.com/dailymd-dev/dailymd/internal/domain"
	"github.com/dailymd-dev/dailymd/internal/errors"
	"github.com/dailymd-dev/dailymd/internal/pagination"
	"github.com/dailymd-dev/dailymd/internal/step"
)

// to mock service in tests
type SubscriptionService interface {
	Subscribe(userId, targetId domain.UserId) error
	Unsubscribe(userId, targetId domain.UserId) error
	IsSubscribed(userId, targetId domain.UserId) (bool, error)
	Subscriptions(userId domain.UserId, page int) ([]domain.Subscription, bool, error)
}

type Subscription struct {
	storage SubscriptionStorage
}

type SubscriptionStorage interface {
	UserById(id domain.UserId) (*domain.User, error)
	AddSubscription(ownerId domain.UserId, sub domain.Subscription) error
	RemoveSubscription(ownerId, targetId domain.UserId) error
	Subscriptions(ownerId domain.UserId, offset, limit int) ([]domain.Subscription, error)
}

func NewSubscription(storage SubscriptionStorage) *Subscription {
	return &Subscription{storage}
}

var errVerifiedUserNotFound = &errors.ErrorWithStatusCode{
	Message:    "A verified user with this ID was not found.",
	StatusCode: http.StatusNotFound,
}

var errTargetUserNotFound = &errors.ErrorWithStatusCode{
	Message:    "No verified target user was found with this ID.",
	StatusCode: http.StatusNotFound,
}

func (s *Subscription) verifiedUser(id domain.UserId, notFound *errors.ErrorWithStatusCode) (*domain.User, error) {
	user, err := s.storage.UserById(id)
	if err != nil {
		if errors.StatusCode(err) == http.StatusNotFound {
			return nil, notFound
		}
		return nil, err
	}
	if !user.Verified {
		return nil, notFound
	}
	return user, nil
}

// Subscribe appends the target to the subscriber's list. The duplicate
// check is application-level read-then-write, like the rating guard.
func (s *Subscription) Subscribe(userId, targetId domain.UserId) error {
	var subscriber, target *domain.User

	return step.Run("subscribe", []step.Step{
		{Name: "resolve subscriber", Run: func(op *step.Op) error {
			var err error
			subscriber, err = s.verifiedUser(userId, errVerifiedUserNotFound)
			return err
		}},

		{Name: "resolve target", Run: func(op *step.Op) error {
			var err error
			target, err = s.verifiedUser(targetId, errTargetUserNotFound)
			return err
		}},

		{Name: "append subscription", Run: func(op *step.Op) error {
			if subscriber.IsSubscribedTo(targetId) {
				return &errors.ErrorWithStatusCode{
					Message:    "You are already subscribed to this user.",
					StatusCode: http.StatusConflict,
				}
			}
			return s.storage.AddSubscription(userId, domain.Subscription{
				TargetId:   target.Id,
				TargetName: target.FullName(),
			})
		}},
	})
}

func (s *Subscription) Unsubscribe(userId, targetId domain.UserId) error {
	var subscriber *domain.User

	return step.Run("unsubscribe", []step.Step{
		{Name: "resolve subscriber", Run: func(op *step.Op) error {
			var err error
			subscriber, err = s.verifiedUser(userId, errVerifiedUserNotFound)
			return err
		}},

		{Name: "resolve target", Run: func(op *step.Op) error {
			if _, err := s.verifiedUser(targetId, errTargetUserNotFound); err != nil {
				return err
			}
			if !subscriber.IsSubscribedTo(targetId) {
				return &errors.ErrorWithStatusCode{
					Message:    "You are not subscribed to this user.",
					StatusCode: http.StatusConflict,
				}
			}
			return nil
		}},

		{Name: "remove subscription", Run: func(op *step.Op) error {
			return s.storage.RemoveSubscription(userId, targetId)
		}},
	})
}

func (s *Subscription) IsSubscribed(userId, targetId domain.UserId) (bool, error) {
	subscriber, err := s.verifiedUser(userId, errVerifiedUserNotFound)
	if err != nil {
		return false, err
	}
	if _, err := s.verifiedUser(targetId, errTargetUserNotFound); err != nil {
		return false, err
	}
	return subscriber.IsSubscribedTo(targetId), nil
}

func (s *Subscription) Subscriptions(userId domain.UserId, page int) ([]domain.Subscription, bool, error) {
	user, err := s.verifiedUser(userId, errVerifiedUserNotFound)
	if err != nil {
		return nil, false, err
	}
	if len(user.Subscriptions) == 0 {
		return nil, false, &errors.ErrorWithStatusCode{
			Message:    "This user is not subscribed to anybody.",
			StatusCode: http.StatusNotFound,
		}
	}

	return fetchPage(page, pagination.SubscriptionsPerPage,
		func(offset, limit int) ([]domain.Subscription, error) {
			return s.storage.Subscriptions(userId, offset, limit)
		})
}
