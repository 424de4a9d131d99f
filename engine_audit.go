package blogauth

import (
	"context"
	"errors"
	"time"
)

const (
	auditEventLoginSuccess           = "login_success"
	auditEventLoginFailure           = "login_failure"
	auditEventLoginUnverified        = "login_unverified"
	auditEventTwoFactorChallenge     = "two_factor_challenge"
	auditEventTwoFactorSuccess       = "two_factor_success"
	auditEventTwoFactorFailure       = "two_factor_failure"
	auditEventRegisterSuccess        = "register_success"
	auditEventRegisterFailure        = "register_failure"
	auditEventEmailVerified          = "email_verified"
	auditEventEmailVerifyFailure     = "email_verification_failure"
	auditEventPasswordResetRequest   = "password_reset_request"
	auditEventPasswordResetConfirm   = "password_reset_confirm"
	auditEventPasswordChangeSuccess  = "password_change_success"
	auditEventPasswordChangeFailure  = "password_change_failure"
	auditEventEmailChangeSuccess     = "email_change_success"
	auditEventEmailChangeFailure     = "email_change_failure"
	auditEventTokenIssued            = "token_issued"
	auditEventAuthenticateFailure    = "authenticate_failure"
)

// AuditErrorCode is the stable short code recorded on failed audit events.
type AuditErrorCode string

const (
	auditErrEmailNotFound    AuditErrorCode = "email_not_found"
	auditErrPasswordMismatch AuditErrorCode = "password_mismatch"
	auditErrInvalidCode      AuditErrorCode = "invalid_code"
	auditErrCodeExpired      AuditErrorCode = "code_expired"
	auditErrDuplicate        AuditErrorCode = "duplicate"
	auditErrUserNotFound     AuditErrorCode = "user_not_found"
	auditErrTokenNotFound    AuditErrorCode = "token_not_found"
	auditErrTokenExpired     AuditErrorCode = "token_expired"
	auditErrEmptyFields      AuditErrorCode = "empty_fields"
	auditErrPasswordReuse    AuditErrorCode = "password_reuse"
	auditErrEmailMismatch    AuditErrorCode = "email_mismatch"
	auditErrEmailTaken       AuditErrorCode = "email_taken"
	auditErrInvalidEmail     AuditErrorCode = "invalid_email"
	auditErrInvalidToken     AuditErrorCode = "invalid_token"
	auditErrForbidden        AuditErrorCode = "forbidden"
	auditErrUnavailable      AuditErrorCode = "backend_unavailable"
	auditErrInternal         AuditErrorCode = "internal_error"
)

func (e *Engine) emitAudit(
	ctx context.Context,
	eventType string,
	success bool,
	userID string,
	email string,
	err error,
	metadataBuilder func() map[string]string,
) {
	if e == nil || e.audit == nil {
		return
	}

	var metadata map[string]string
	if metadataBuilder != nil {
		metadata = metadataBuilder()
	}

	event := AuditEvent{
		Timestamp: time.Now().UTC(),
		EventType: eventType,
		UserID:    userID,
		Email:     email,
		IP:        clientIPFromContext(ctx),
		Success:   success,
		Metadata:  metadata,
	}
	if code := auditErrorCode(err); code != "" {
		event.Error = string(code)
	}

	e.audit.Emit(ctx, event)
}

func auditErrorCode(err error) AuditErrorCode {
	if err == nil {
		return ""
	}

	switch {
	case errors.Is(err, ErrEmailNotFound):
		return auditErrEmailNotFound
	case errors.Is(err, ErrPasswordMismatch):
		return auditErrPasswordMismatch
	case errors.Is(err, ErrInvalidCode):
		return auditErrInvalidCode
	case errors.Is(err, ErrCodeExpired):
		return auditErrCodeExpired
	case errors.Is(err, ErrUserExists):
		return auditErrDuplicate
	case errors.Is(err, ErrUserNotFound):
		return auditErrUserNotFound
	case errors.Is(err, ErrTokenNotFound):
		return auditErrTokenNotFound
	case errors.Is(err, ErrTokenExpired):
		return auditErrTokenExpired
	case errors.Is(err, ErrEmptyFields):
		return auditErrEmptyFields
	case errors.Is(err, ErrSamePassword):
		return auditErrPasswordReuse
	case errors.Is(err, ErrEmailMismatch):
		return auditErrEmailMismatch
	case errors.Is(err, ErrEmailAlreadyUsed):
		return auditErrEmailTaken
	case errors.Is(err, ErrInvalidEmail):
		return auditErrInvalidEmail
	case errors.Is(err, ErrTokenInvalid):
		return auditErrInvalidToken
	case errors.Is(err, ErrForbidden):
		return auditErrForbidden
	case errors.Is(err, ErrStoreUnavailable):
		return auditErrUnavailable
	default:
		return auditErrInternal
	}
}
