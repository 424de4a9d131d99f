package blogauth

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexmrv/blogauth/internal"
	"github.com/google/uuid"
)

// tokenKind selects one of the three single-use token collections.
type tokenKind uint8

const (
	kindVerification tokenKind = iota + 1
	kindTwoFactor
	kindReset
)

func (k tokenKind) keyString() string {
	switch k {
	case kindVerification:
		return "verify"
	case kindTwoFactor:
		return "2fa"
	case kindReset:
		return "reset"
	default:
		return "unknown"
	}
}

func (c TokenConfig) ttlFor(kind tokenKind) time.Duration {
	switch kind {
	case kindVerification:
		return c.VerificationTTL
	case kindTwoFactor:
		return c.TwoFactorTTL
	case kindReset:
		return c.ResetTTL
	default:
		return 0
	}
}

func (e *Engine) storeFor(kind tokenKind) *tokenStore {
	switch kind {
	case kindVerification:
		return e.verificationTokens
	case kindTwoFactor:
		return e.twoFactorTokens
	case kindReset:
		return e.resetTokens
	default:
		return nil
	}
}

// issueToken mints a fresh token of the given kind for the email and
// stores it, superseding any live token of that kind for that email.
// Verification and reset tokens are UUIDs; two-factor tokens are 6-digit
// codes. The raw value is returned to the caller — delivery is the host's
// concern.
func (e *Engine) issueToken(ctx context.Context, kind tokenKind, email string) (*tokenRecord, error) {
	store := e.storeFor(kind)
	if store == nil {
		return nil, ErrEngineNotReady
	}

	var value string
	switch kind {
	case kindTwoFactor:
		code, err := internal.SixDigitCode()
		if err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
		}
		value = code
	default:
		value = uuid.NewString()
	}

	ttl := e.config.Tokens.ttlFor(kind)
	now := time.Now()
	record := &tokenRecord{
		Kind:      kind,
		Value:     value,
		Email:     email,
		IssuedAt:  now.Unix(),
		ExpiresAt: now.Add(ttl).Unix(),
	}

	if err := store.issue(ctx, record, ttl); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricTokenIssued)
	e.emitAudit(ctx, auditEventTokenIssued, true, "", email, nil, func() map[string]string {
		return map[string]string{
			"kind": kind.keyString(),
		}
	})

	return record, nil
}

// mapTokenStoreError converts store-level sentinels to the public ones.
func mapTokenStoreError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, errTokenRecordNotFound):
		return ErrTokenNotFound
	default:
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
}
