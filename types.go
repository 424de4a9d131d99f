package blogauth

import (
	"context"
	"time"
)

// Role is the account privilege level.
type Role string

const (
	// RoleUser is the default role assigned at registration.
	RoleUser Role = "USER"
	// RoleAdmin grants access to admin-gated routes.
	RoleAdmin Role = "ADMIN"
)

// UserRecord is the full account record exchanged with [UserStore].
//
// PasswordHash is empty for accounts that authenticate externally; such
// accounts can never pass password login. EmailVerifiedAt is the zero time
// until the account's email has been verified.
type UserRecord struct {
	ID               string
	Email            string
	Name             string
	Image            string
	PasswordHash     string
	EmailVerifiedAt  time.Time
	TwoFactorEnabled bool
	Role             Role
	CreatedAt        time.Time
}

// Sanitized returns a copy of the record with the password hash stripped.
// Every user value the engine hands back to callers passes through it.
func (u UserRecord) Sanitized() UserRecord {
	u.PasswordHash = ""
	return u
}

// Verified reports whether the account's email has been verified.
func (u UserRecord) Verified() bool {
	return !u.EmailVerifiedAt.IsZero()
}

// CreateUserInput is the input for [UserStore.CreateUser].
type CreateUserInput struct {
	Email        string
	Name         string
	PasswordHash string
	Role         Role
}

// UserStore is the interface the host application implements to give the
// engine access to its user database. Email is unique across all accounts;
// the store's unique index is the final backstop against duplicate
// registration under concurrency.
//
// Lookups for an absent account must return an error wrapping
// [ErrUserNotFound]; CreateUser on a taken email must return an error
// wrapping [ErrUserExists]. Any other error is treated as a store failure.
type UserStore interface {
	GetUserByEmail(ctx context.Context, email string) (UserRecord, error)
	GetUserByID(ctx context.Context, id string) (UserRecord, error)
	CreateUser(ctx context.Context, input CreateUserInput) (UserRecord, error)
	UpdatePasswordHash(ctx context.Context, userID, hash string) error
	// UpdateEmail sets the account's email and stamps its verification
	// time in one write. Both email verification and email change funnel
	// through it.
	UpdateEmail(ctx context.Context, userID, email string, verifiedAt time.Time) error
	ListUsers(ctx context.Context) ([]UserRecord, error)
}

// LoginResult is returned by [Engine.Login]. Exactly one of the three
// outcomes is populated: an issued session (AccessToken + User), a pending
// email verification (VerificationToken), or a pending two-factor challenge
// (TwoFactorCode).
type LoginResult struct {
	AccessToken string
	User        *UserRecord

	VerificationRequired bool
	VerificationToken    string

	TwoFactorRequired bool
	TwoFactorCode     string
}

// RegisterResult is returned by [Engine.Register]. The verification token
// is handed to the caller in place of email delivery.
type RegisterResult struct {
	VerificationToken string
	User              *UserRecord
}
