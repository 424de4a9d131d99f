package blogauth

import (
	"github.com/alexmrv/blogauth/jwt"
	"github.com/alexmrv/blogauth/password"
)

// Engine orchestrates the authentication flows. Build one through
// [Builder.Build] at process start and share it; all methods are safe for
// concurrent use.
type Engine struct {
	config Config

	users  UserStore
	hasher *password.Hasher
	jwt    *jwt.Manager

	verificationTokens *tokenStore
	twoFactorTokens    *tokenStore
	resetTokens        *tokenStore
	confirmations      *confirmationStore

	audit   *auditDispatcher
	metrics *Metrics
}

// Close flushes and stops the audit dispatcher. The engine must not be
// used after Close.
func (e *Engine) Close() {
	if e == nil {
		return
	}
	if e.audit != nil {
		e.audit.Close()
	}
}

// AuditDropped reports how many audit events were dropped under
// backpressure since the engine was built.
func (e *Engine) AuditDropped() uint64 {
	if e == nil || e.audit == nil {
		return 0
	}
	return e.audit.Dropped()
}

// MetricsSnapshot returns a point-in-time copy of the engine counters.
func (e *Engine) MetricsSnapshot() MetricsSnapshot {
	if e == nil || e.metrics == nil {
		return MetricsSnapshot{
			Counters: map[MetricID]uint64{},
		}
	}
	return e.metrics.Snapshot()
}

func (e *Engine) metricInc(id MetricID) {
	if e == nil || e.metrics == nil {
		return
	}
	e.metrics.Inc(id)
}

func (e *Engine) ready() bool {
	return e != nil &&
		e.users != nil &&
		e.hasher != nil &&
		e.jwt != nil &&
		e.verificationTokens != nil &&
		e.twoFactorTokens != nil &&
		e.resetTokens != nil &&
		e.confirmations != nil
}
