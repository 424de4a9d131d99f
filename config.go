package blogauth

import "time"

// Config carries all engine tunables. Zero values are filled from
// [DefaultConfig] equivalents during [Builder.Build] where a safe default
// exists; the JWT secret has no default and must be supplied.
type Config struct {
	JWT      JWTConfig
	Tokens   TokenConfig
	Password PasswordConfig
	Audit    AuditConfig
	Metrics  MetricsConfig
}

/*
====================================
JWT CONFIG
====================================
*/

// JWTConfig configures the HS256 access-token manager.
type JWTConfig struct {
	// Secret is the server-held HMAC key. Required.
	Secret    []byte
	AccessTTL time.Duration
	Issuer    string
	Audience  string
	Leeway    time.Duration
}

/*
====================================
TOKEN CONFIG
====================================
*/

// TokenConfig configures the single-use token collections.
type TokenConfig struct {
	// RedisPrefix namespaces every engine-owned key.
	RedisPrefix     string
	VerificationTTL time.Duration
	TwoFactorTTL    time.Duration
	ResetTTL        time.Duration
}

// PasswordConfig configures the bcrypt hasher.
type PasswordConfig struct {
	Cost int
}

// AuditConfig configures the async audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	// DropIfFull drops events instead of blocking when the buffer is
	// full. Dropped counts are visible via [Engine.AuditDropped].
	DropIfFull bool
}

// MetricsConfig enables the engine's atomic counters.
type MetricsConfig struct {
	Enabled bool
}

/*
====================================
DEFAULT CONFIG
====================================
*/

// DefaultConfig returns the engine defaults: 24h access tokens, 1h
// verification and two-factor tokens, 15m reset tokens, bcrypt cost 10.
func DefaultConfig() Config {
	return Config{
		JWT: JWTConfig{
			AccessTTL: 24 * time.Hour,
		},
		Tokens: TokenConfig{
			RedisPrefix:     "ba",
			VerificationTTL: time.Hour,
			TwoFactorTTL:    time.Hour,
			ResetTTL:        15 * time.Minute,
		},
		Password: PasswordConfig{
			Cost: 10,
		},
		Audit: AuditConfig{
			Enabled:    true,
			BufferSize: 256,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled: true,
		},
	}
}
