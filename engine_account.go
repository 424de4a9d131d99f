package blogauth

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// ChangePassword rotates the password of an authenticated account after
// re-proving the current one. The new password must differ from the old
// plaintext; that check runs before the hash comparison so a reused
// password is reported as reuse even when the old password is wrong too.
func (e *Engine) ChangePassword(ctx context.Context, userID, oldPassword, newPassword string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if userID == "" || oldPassword == "" || newPassword == "" {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, userID, "", ErrEmptyFields, nil)
		return ErrEmptyFields
	}

	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		mapped := mapUserLookupError(err, ErrUserNotFound)
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, userID, "", mapped, nil)
		return mapped
	}

	if oldPassword == newPassword {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, user.ID, user.Email, ErrSamePassword, nil)
		return ErrSamePassword
	}

	if user.PasswordHash == "" {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, user.ID, user.Email, ErrPasswordMismatch, nil)
		return ErrPasswordMismatch
	}
	ok, err := e.hasher.Verify(user.PasswordHash, oldPassword)
	if err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, user.ID, user.Email, err, nil)
		return fmt.Errorf("verify current password: %w", err)
	}
	if !ok {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, user.ID, user.Email, ErrPasswordMismatch, nil)
		return ErrPasswordMismatch
	}

	hash, err := e.hasher.Hash(newPassword)
	if err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, user.ID, user.Email, err, nil)
		return fmt.Errorf("hash new password: %w", err)
	}
	if err := e.users.UpdatePasswordHash(ctx, user.ID, hash); err != nil {
		e.metricInc(MetricPasswordChangeFailure)
		e.emitAudit(ctx, auditEventPasswordChangeFailure, false, user.ID, user.Email, err, nil)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricPasswordChangeSuccess)
	e.emitAudit(ctx, auditEventPasswordChangeSuccess, true, user.ID, user.Email, nil, nil)
	return nil
}

// ChangeEmail rewrites an authenticated account's email address. The caller
// must restate the current address; a mismatch rejects the request. The new
// address is stamped verified immediately since the account holder proved
// control of the session that requested the change.
func (e *Engine) ChangeEmail(ctx context.Context, userID, currentEmail, newEmail string) error {
	if !e.ready() {
		return ErrEngineNotReady
	}
	if userID == "" || currentEmail == "" || newEmail == "" {
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChangeFailure, false, userID, "", ErrEmptyFields, nil)
		return ErrEmptyFields
	}
	if err := validateEmail(newEmail); err != nil {
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChangeFailure, false, userID, newEmail, err, nil)
		return err
	}

	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		mapped := mapUserLookupError(err, ErrUserNotFound)
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChangeFailure, false, userID, "", mapped, nil)
		return mapped
	}

	if user.Email != currentEmail {
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChangeFailure, false, user.ID, user.Email, ErrEmailMismatch, nil)
		return ErrEmailMismatch
	}

	_, err = e.users.GetUserByEmail(ctx, newEmail)
	switch {
	case err == nil:
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChangeFailure, false, user.ID, user.Email, ErrEmailAlreadyUsed, nil)
		return ErrEmailAlreadyUsed
	case !errors.Is(err, ErrUserNotFound):
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChangeFailure, false, user.ID, user.Email, err, nil)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	if err := e.users.UpdateEmail(ctx, user.ID, newEmail, time.Now()); err != nil {
		e.metricInc(MetricEmailChangeFailure)
		e.emitAudit(ctx, auditEventEmailChangeFailure, false, user.ID, user.Email, err, nil)
		return fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}

	e.metricInc(MetricEmailChangeSuccess)
	e.emitAudit(ctx, auditEventEmailChangeSuccess, true, user.ID, newEmail, nil, func() map[string]string {
		return map[string]string{
			"previous_email": user.Email,
		}
	})
	return nil
}

// Profile returns the sanitized record for a single account.
func (e *Engine) Profile(ctx context.Context, userID string) (*UserRecord, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}
	if userID == "" {
		return nil, ErrEmptyFields
	}

	user, err := e.users.GetUserByID(ctx, userID)
	if err != nil {
		return nil, mapUserLookupError(err, ErrUserNotFound)
	}

	sanitized := user.Sanitized()
	return &sanitized, nil
}

// Users returns every account, sanitized. An empty store is an error so
// callers can distinguish "no accounts yet" from a populated listing.
func (e *Engine) Users(ctx context.Context) ([]UserRecord, error) {
	if !e.ready() {
		return nil, ErrEngineNotReady
	}

	users, err := e.users.ListUsers(ctx)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStoreUnavailable, err)
	}
	if len(users) == 0 {
		return nil, ErrNoUsers
	}

	sanitized := make([]UserRecord, len(users))
	for i, u := range users {
		sanitized[i] = u.Sanitized()
	}
	return sanitized, nil
}
