package blogauth

import (
	"bytes"
	"errors"

	"github.com/redis/go-redis/v9"

	"github.com/alexmrv/blogauth/jwt"
	"github.com/alexmrv/blogauth/password"
)

// Builder assembles an [Engine]. Configure it during initialization and
// call Build exactly once; a Builder is not safe for concurrent use.
type Builder struct {
	config Config
	redis  *redis.Client

	users     UserStore
	auditSink AuditSink

	built bool
}

// New returns a Builder preloaded with [DefaultConfig].
func New() *Builder {
	return &Builder{
		config: DefaultConfig(),
	}
}

// WithConfig replaces the builder's configuration wholesale. Zero-valued
// fields are filled with defaults during Build.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis sets the redis client backing the token stores.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithUserStore sets the account backend. Required.
func (b *Builder) WithUserStore(store UserStore) *Builder {
	b.users = store
	return b
}

// WithAuditSink sets the destination for audit events. Leaving it unset
// with auditing enabled falls back to [NoOpSink].
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithMetricsEnabled toggles the engine counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// Build validates the configuration and assembles the engine.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	defaults := DefaultConfig()

	if b.redis == nil {
		return nil, errors.New("redis client required")
	}
	if b.users == nil {
		return nil, errors.New("user store required")
	}
	if len(cfg.JWT.Secret) == 0 {
		return nil, errors.New("JWT secret required")
	}

	if cfg.JWT.AccessTTL <= 0 {
		cfg.JWT.AccessTTL = defaults.JWT.AccessTTL
	}
	if cfg.Tokens.RedisPrefix == "" {
		cfg.Tokens.RedisPrefix = defaults.Tokens.RedisPrefix
	}
	if cfg.Tokens.VerificationTTL <= 0 {
		cfg.Tokens.VerificationTTL = defaults.Tokens.VerificationTTL
	}
	if cfg.Tokens.TwoFactorTTL <= 0 {
		cfg.Tokens.TwoFactorTTL = defaults.Tokens.TwoFactorTTL
	}
	if cfg.Tokens.ResetTTL <= 0 {
		cfg.Tokens.ResetTTL = defaults.Tokens.ResetTTL
	}
	if cfg.Audit.BufferSize <= 0 {
		cfg.Audit.BufferSize = defaults.Audit.BufferSize
	}

	jm, err := jwt.NewManager(jwt.Config{
		Secret:    cloneBytes(cfg.JWT.Secret),
		AccessTTL: cfg.JWT.AccessTTL,
		Issuer:    cfg.JWT.Issuer,
		Audience:  cfg.JWT.Audience,
		Leeway:    cfg.JWT.Leeway,
	})
	if err != nil {
		return nil, err
	}

	ph, err := password.New(password.Config{
		Cost: cfg.Password.Cost,
	})
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config: cfg,
		users:  b.users,
		hasher: ph,
		jwt:    jm,

		// Verification and reset tokens are redeemed by value, so those
		// stores carry a value index. Two-factor codes are redeemed
		// against a known email and need none.
		verificationTokens: newTokenStore(b.redis, cfg.Tokens.RedisPrefix, kindVerification, true),
		twoFactorTokens:    newTokenStore(b.redis, cfg.Tokens.RedisPrefix, kindTwoFactor, false),
		resetTokens:        newTokenStore(b.redis, cfg.Tokens.RedisPrefix, kindReset, true),
		confirmations:      newConfirmationStore(b.redis, cfg.Tokens.RedisPrefix),

		audit:   newAuditDispatcher(cfg.Audit, b.auditSink),
		metrics: NewMetrics(cfg.Metrics),
	}

	b.built = true

	return engine, nil
}

func cloneConfig(cfg Config) Config {
	out := cfg
	out.JWT.Secret = cloneBytes(cfg.JWT.Secret)
	return out
}

func cloneBytes(in []byte) []byte {
	if in == nil {
		return nil
	}
	return bytes.Clone(in)
}
