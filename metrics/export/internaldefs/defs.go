package internaldefs

import (
	blogauth "github.com/alexmrv/blogauth"
)

// CounterDef binds a core metric ID to its exported name and help text.
type CounterDef struct {
	ID   blogauth.MetricID
	Name string
	Help string
}

// CounterDefs lists every exported counter. Both exporters iterate this
// slice so metric names stay identical across backends.
var CounterDefs = []CounterDef{
	{ID: blogauth.MetricLoginSuccess, Name: "blogauth_login_success_total", Help: "Successful login attempts."},
	{ID: blogauth.MetricLoginFailure, Name: "blogauth_login_failure_total", Help: "Failed login attempts."},
	{ID: blogauth.MetricLoginUnverified, Name: "blogauth_login_unverified_total", Help: "Login attempts deferred to email verification."},
	{ID: blogauth.MetricTwoFactorChallenge, Name: "blogauth_two_factor_challenge_total", Help: "Issued two-factor challenges."},
	{ID: blogauth.MetricTwoFactorSuccess, Name: "blogauth_two_factor_success_total", Help: "Successful two-factor confirmations."},
	{ID: blogauth.MetricTwoFactorFailure, Name: "blogauth_two_factor_failure_total", Help: "Failed two-factor confirmations."},
	{ID: blogauth.MetricRegisterSuccess, Name: "blogauth_register_success_total", Help: "Successful registrations."},
	{ID: blogauth.MetricRegisterDuplicate, Name: "blogauth_register_duplicate_total", Help: "Registrations rejected as duplicate."},
	{ID: blogauth.MetricTokenIssued, Name: "blogauth_token_issued_total", Help: "Issued single-use tokens of any kind."},
	{ID: blogauth.MetricEmailVerified, Name: "blogauth_email_verified_total", Help: "Successful email verifications."},
	{ID: blogauth.MetricEmailVerificationFailure, Name: "blogauth_email_verification_failure_total", Help: "Failed email verifications."},
	{ID: blogauth.MetricPasswordResetRequest, Name: "blogauth_password_reset_request_total", Help: "Password reset requests."},
	{ID: blogauth.MetricPasswordResetConfirm, Name: "blogauth_password_reset_confirm_total", Help: "Successful password reset confirmations."},
	{ID: blogauth.MetricPasswordResetFailure, Name: "blogauth_password_reset_failure_total", Help: "Failed password reset operations."},
	{ID: blogauth.MetricPasswordChangeSuccess, Name: "blogauth_password_change_success_total", Help: "Successful password changes."},
	{ID: blogauth.MetricPasswordChangeFailure, Name: "blogauth_password_change_failure_total", Help: "Failed password changes."},
	{ID: blogauth.MetricEmailChangeSuccess, Name: "blogauth_email_change_success_total", Help: "Successful email changes."},
	{ID: blogauth.MetricEmailChangeFailure, Name: "blogauth_email_change_failure_total", Help: "Failed email changes."},
	{ID: blogauth.MetricAuthenticateSuccess, Name: "blogauth_authenticate_success_total", Help: "Successful access-token authentications."},
	{ID: blogauth.MetricAuthenticateFailure, Name: "blogauth_authenticate_failure_total", Help: "Failed access-token authentications."},
}
