package blogauth

import (
	"context"
	"fmt"
	"time"
)

// VerifyEmail consumes a verification token and marks the owning account's
// email as verified.
//
// The verified mark always applies to the token's recorded email: the
// user's email field is re-set to it in the same write: if the account's
// email changed between issuance and verification, verification restores
// the address the token was issued for rather than blessing the new one.
func (e *Engine) VerifyEmail(ctx context.Context, token string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if token == "" {
		e.metricInc(MetricEmailVerificationFailure)
		e.emitAudit(ctx, auditEventEmailVerifyFailure, false, "", "", ErrTokenNotFound, func() map[string]string {
			return map[string]string{
				"reason": "empty_token",
			}
		})
		return ErrTokenNotFound
	}

	record, err := e.verificationTokens.getByValue(ctx, token)
	if err != nil {
		mapped := mapTokenStoreError(err)
		e.metricInc(MetricEmailVerificationFailure)
		e.emitAudit(ctx, auditEventEmailVerifyFailure, false, "", "", mapped, nil)
		return mapped
	}

	if record.expired(time.Now()) {
		// Expired tokens are left in place; the key TTL evicts them.
		e.metricInc(MetricEmailVerificationFailure)
		e.emitAudit(ctx, auditEventEmailVerifyFailure, false, "", record.Email, ErrTokenExpired, nil)
		return ErrTokenExpired
	}

	user, err := e.users.GetUserByEmail(ctx, record.Email)
	if err != nil {
		mapped := mapUserLookupError(err, ErrUserNotFound)
		e.metricInc(MetricEmailVerificationFailure)
		e.emitAudit(ctx, auditEventEmailVerifyFailure, false, "", record.Email, mapped, nil)
		return mapped
	}

	if err := e.users.UpdateEmail(ctx, user.ID, record.Email, time.Now()); err != nil {
		e.metricInc(MetricEmailVerificationFailure)
		e.emitAudit(ctx, auditEventEmailVerifyFailure, false, user.ID, record.Email, err, nil)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := e.verificationTokens.consume(ctx, record); err != nil {
		mapped := mapTokenStoreError(err)
		e.metricInc(MetricEmailVerificationFailure)
		e.emitAudit(ctx, auditEventEmailVerifyFailure, false, user.ID, record.Email, mapped, nil)
		return mapped
	}

	e.metricInc(MetricEmailVerified)
	e.emitAudit(ctx, auditEventEmailVerified, true, user.ID, record.Email, nil, nil)
	return nil
}
