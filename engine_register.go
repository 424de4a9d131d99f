package blogauth

import (
	"context"
	"errors"
	"fmt"
)

// Register creates an unverified account and issues its first email
// verification token. The raw token is returned to the caller in place of
// email delivery.
func (e *Engine) Register(ctx context.Context, email, pass, name string) (*RegisterResult, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if email == "" || pass == "" || name == "" {
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", email, ErrEmptyFields, nil)
		return nil, ErrEmptyFields
	}
	if err := validateEmail(email); err != nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", email, err, nil)
		return nil, err
	}

	if _, err := e.users.GetUserByEmail(ctx, email); err == nil {
		e.metricInc(MetricRegisterDuplicate)
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", email, ErrUserExists, nil)
		return nil, ErrUserExists
	} else if !errors.Is(err, ErrUserNotFound) {
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", email, err, nil)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	hash, err := e.hasher.Hash(pass)
	if err != nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", email, fmt.Errorf("%w: %v", ErrStoreUnavailable, err), nil)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	user, err := e.users.CreateUser(ctx, CreateUserInput{
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		Role:         RoleUser,
	})
	if err != nil {
		// The store's unique index on email is the backstop against a
		// concurrent registration slipping past the lookup above.
		if errors.Is(err, ErrUserExists) {
			e.metricInc(MetricRegisterDuplicate)
			e.emitAudit(ctx, auditEventRegisterFailure, false, "", email, ErrUserExists, nil)
			return nil, ErrUserExists
		}
		e.emitAudit(ctx, auditEventRegisterFailure, false, "", email, err, nil)
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	record, err := e.issueToken(ctx, kindVerification, email)
	if err != nil {
		e.emitAudit(ctx, auditEventRegisterFailure, false, user.ID, email, err, nil)
		return nil, err
	}

	sanitized := user.Sanitized()
	e.metricInc(MetricRegisterSuccess)
	e.emitAudit(ctx, auditEventRegisterSuccess, true, user.ID, email, nil, nil)

	return &RegisterResult{
		VerificationToken: record.Value,
		User:              &sanitized,
	}, nil
}
