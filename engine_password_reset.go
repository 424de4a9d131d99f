package blogauth

import (
	"context"
	"fmt"
	"time"
)

// RequestPasswordReset issues a fresh reset token for the account owning
// the given email. Any previously issued reset token for that email is
// superseded. The token value is returned so the caller can deliver it;
// the engine never sends mail itself.
func (e *Engine) RequestPasswordReset(ctx context.Context, email string) (string, error) {
	if !e.ready() {
		return "", ErrEngineNotReady
	}
	if email == "" {
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetRequest, false, "", "", ErrEmptyFields, nil)
		return "", ErrEmptyFields
	}
	if err := validateEmail(email); err != nil {
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetRequest, false, "", email, err, nil)
		return "", err
	}

	user, err := e.users.GetUserByEmail(ctx, email)
	if err != nil {
		mapped := mapUserLookupError(err, ErrUserNotFound)
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetRequest, false, "", email, mapped, nil)
		return "", mapped
	}

	record, err := e.issueToken(ctx, kindReset, user.Email)
	if err != nil {
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetRequest, false, user.ID, user.Email, err, nil)
		return "", err
	}

	e.metricInc(MetricPasswordResetRequest)
	e.emitAudit(ctx, auditEventPasswordResetRequest, true, user.ID, user.Email, nil, nil)
	return record.Value, nil
}

// ConfirmPasswordReset redeems a reset token and installs the new password
// on the account the token was issued for. The token is single use: the
// first successful confirmation consumes it.
//
// Record-level expiry is computed but not enforced here; a token that
// outlives its TTL in the store is still accepted. Expired redemptions are
// flagged in the audit trail so operators can see them.
func (e *Engine) ConfirmPasswordReset(ctx context.Context, token, newPassword string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if token == "" || newPassword == "" {
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", "", ErrEmptyFields, nil)
		return ErrEmptyFields
	}

	record, err := e.resetTokens.getByValue(ctx, token)
	if err != nil {
		mapped := mapTokenStoreError(err)
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", "", mapped, nil)
		return mapped
	}

	expiredAtUse := record.expired(time.Now())

	user, err := e.users.GetUserByEmail(ctx, record.Email)
	if err != nil {
		mapped := mapUserLookupError(err, ErrUserNotFound)
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, "", record.Email, mapped, nil)
		return mapped
	}

	if err := e.resetTokens.consume(ctx, record); err != nil {
		mapped := mapTokenStoreError(err)
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, user.ID, user.Email, mapped, nil)
		return mapped
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, user.ID, user.Email, err, nil)
		return fmt.Errorf("hash new password: %w", err)
	}

	if err := e.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		e.metricInc(MetricPasswordResetFailure)
		e.emitAudit(ctx, auditEventPasswordResetConfirm, false, user.ID, user.Email, err, nil)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricPasswordResetConfirm)
	e.emitAudit(ctx, auditEventPasswordResetConfirm, true, user.ID, user.Email, nil, func() map[string]string {
		if !expiredAtUse {
			return nil
		}
		return map[string]string{
			"expired": "true",
		}
	})
	return nil
}
