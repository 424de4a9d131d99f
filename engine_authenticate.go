package blogauth

import (
	"context"
	"fmt"
)

// Authenticate validates an access token and resolves the account it was
// minted for. Signature, expiry, issuer and audience checks happen in the
// token layer; a token that passes but names a deleted account still fails.
func (e *Engine) Authenticate(ctx context.Context, token string) (*UserRecord, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if token == "" {
		e.metricInc(MetricAuthenticateFailure)
		e.emitAudit(ctx, auditEventAuthenticateFailure, false, "", "", ErrTokenInvalid, nil)
		return nil, ErrTokenInvalid
	}

	claims, err := e.jwt.ParseAccess(token)
	if err != nil {
		e.metricInc(MetricAuthenticateFailure)
		e.emitAudit(ctx, auditEventAuthenticateFailure, false, "", "", ErrTokenInvalid, nil)
		return nil, fmt.Errorf("%w: %v", ErrTokenInvalid, err)
	}

	user, err := e.users.GetUserByID(ctx, claims.UID)
	if err != nil {
		mapped := mapUserLookupError(err, ErrUserNotFound)
		e.metricInc(MetricAuthenticateFailure)
		e.emitAudit(ctx, auditEventAuthenticateFailure, false, claims.UID, "", mapped, nil)
		return nil, mapped
	}

	e.metricInc(MetricAuthenticateSuccess)
	sanitized := user.Sanitized()
	return &sanitized, nil
}
