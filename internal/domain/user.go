package domain

import "time"

type UserId = int64

type User struct {
	Id           UserId
	FirstName    string
	LastName     string
	Email        string
	PasswordHash string
	Verified     bool
	// VerifyId addresses the account verification link. Cleared on
	// verification; rows with an elapsed VerifyExpires are treated as
	// expired by the storage layer.
	VerifyId      string
	VerifyExpires time.Time
	JoinDate      time.Time
	Subscriptions []Subscription
}

func (u *User) FullName() string {
	return u.FirstName + " " + u.LastName
}

func (u *User) IsSubscribedTo(targetId UserId) bool {
	for _, s := range u.Subscriptions {
		if s.TargetId == targetId {
			return true
		}
	}
	return false
}

// Subscription is one entry in a user's subscription list.
type Subscription struct {
	TargetId   UserId `json:"userId"`
	TargetName string `json:"fullName"`
}

// Registration carries the details submitted on account creation.
type Registration struct {
	FirstName string
	LastName  string
	Email     string
	Password  string
	Confirm   string
}

// Profile is the public view of a user account.
type Profile struct {
	FullName          string    `json:"fullName"`
	Email             string    `json:"emailAddress"`
	JoinDate          time.Time `json:"joinDate"`
	SubscriptionCount int       `json:"subscriptionCount"`
	BlogCount         int       `json:"blogCount"`
}
