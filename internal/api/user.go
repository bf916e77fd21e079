// Package api holds the request and response bodies of the HTTP surface.
package api

import "github.com/dailymd-dev/dailymd/internal/domain"

type RegisterRequest struct {
	FirstName string `validate:"required" json:"firstName"`
	LastName  string `validate:"required" json:"lastName"`
	Email     string `validate:"required" json:"emailAddress"`
	Password  string `validate:"required" json:"password"`
	Confirm   string `validate:"required" json:"confirm"`
}

type LoginRequest struct {
	Email    string `validate:"required" json:"emailAddress"`
	Password string `validate:"required" json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type MessageResponse struct {
	Message string `json:"message"`
}

type ErrorResponse struct {
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

type ProfileResponse struct {
	Profile *domain.Profile `json:"profile"`
}

type IssueResetRequest struct {
	Email string `validate:"required" json:"emailAddress"`
}

type AuthenticateResetRequest struct {
	Code string `validate:"required" json:"authenticateCode"`
}

type ChangePasswordRequest struct {
	Password string `validate:"required" json:"password"`
	Confirm  string `validate:"required" json:"confirm"`
}

type SubscriptionsResponse struct {
	Subscriptions []domain.Subscription `json:"subscriptions"`
	LastPage      bool                  `json:"lastPage"`
}

type IsSubscribedResponse struct {
	Subscribed bool `json:"subscribed"`
}
