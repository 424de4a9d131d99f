package blogauth

import "errors"

var (
	// ErrEmailNotFound is returned by Login when no account owns the email,
	// or when the account carries no password hash (external-auth-only).
	ErrEmailNotFound = errors.New("email does not exist")
	// ErrPasswordMismatch is returned when a supplied password does not
	// match the stored hash.
	ErrPasswordMismatch = errors.New("password does not match")
	// ErrInvalidCode is returned when no live two-factor code exists for
	// the account, or the supplied code does not match it.
	ErrInvalidCode = errors.New("invalid two-factor code")
	// ErrCodeExpired is returned when the live two-factor code is past its
	// expiry.
	ErrCodeExpired = errors.New("two-factor code expired")
	// ErrUserExists is returned by Register when the email is already
	// registered.
	ErrUserExists = errors.New("user already exists")
	// ErrUserNotFound is returned when a user id or a token's owning email
	// no longer resolves to an account.
	ErrUserNotFound = errors.New("user not found")
	// ErrTokenNotFound is returned when a token value does not resolve to a
	// live token, including tokens already consumed or superseded.
	ErrTokenNotFound = errors.New("token does not exist")
	// ErrTokenExpired is returned when a verification token is past its
	// expiry.
	ErrTokenExpired = errors.New("token expired")
	// ErrEmptyFields is returned when a required input field is missing.
	ErrEmptyFields = errors.New("required field is empty")
	// ErrSamePassword rejects a password change where the new password
	// equals the old one.
	ErrSamePassword = errors.New("new password equals current password")
	// ErrEmailMismatch is returned by ChangeEmail when the supplied current
	// email differs from the account's recorded email.
	ErrEmailMismatch = errors.New("email does not match account")
	// ErrEmailAlreadyUsed is returned by ChangeEmail when another account
	// already owns the requested email.
	ErrEmailAlreadyUsed = errors.New("email already in use")
	// ErrInvalidEmail is returned when an email fails format validation.
	ErrInvalidEmail = errors.New("invalid email address")
	// ErrNoUsers is returned by Users when the store holds no accounts.
	ErrNoUsers = errors.New("no users found")
	// ErrTokenInvalid is returned by Authenticate when an access token
	// fails signature or expiry checks.
	ErrTokenInvalid = errors.New("invalid access token")
	// ErrForbidden is returned when a role check fails.
	ErrForbidden = errors.New("forbidden")
	// ErrStoreUnavailable wraps unexpected Redis or UserStore failures.
	// Callers should surface it as an internal error with no detail.
	ErrStoreUnavailable = errors.New("credential store unavailable")
	// ErrEngineNotReady is returned when an Engine method is called on an
	// engine missing required dependencies.
	ErrEngineNotReady = errors.New("engine not initialized")
)
