package config

import "time"

// LoginRateConfig controls the token bucket in front of the PIN login
// endpoint. With only 10,000 possible PINs an unthrottled login route
// is brute-forceable, so limiting is on by default.
type LoginRateConfig struct {
	Enabled        bool
	Capacity       int           // attempts available from a full bucket
	RefillTokens   int           // attempts restored per interval
	RefillInterval time.Duration // how often the bucket refills
	TTL            time.Duration // how long idle buckets are remembered
	Prefix         string        // Redis key prefix
}

// LoadLoginRateConfig reads the limiter knobs from the environment.
func LoadLoginRateConfig() LoginRateConfig {
	cfg := LoginRateConfig{
		Enabled:        envBool("LOGIN_RATE_ENABLED", true),
		Capacity:       envInt("LOGIN_RATE_CAPACITY", 5),
		RefillTokens:   envInt("LOGIN_RATE_REFILL_TOKENS", 1),
		RefillInterval: envDur("LOGIN_RATE_REFILL_INTERVAL", 30*time.Second),
		TTL:            envDur("LOGIN_RATE_TTL", 10*time.Minute),
		Prefix:         envStr("LOGIN_RATE_PREFIX", "pinrl"),
	}
	if cfg.Capacity < 1 {
		cfg.Capacity = 1
	}
	if cfg.RefillTokens < 1 {
		cfg.RefillTokens = 1
	}
	if cfg.RefillInterval <= 0 {
		cfg.RefillInterval = time.Second
	}
	if minTTL := 5 * cfg.RefillInterval; cfg.TTL < minTTL {
		cfg.TTL = minTTL
	}
	return cfg
}
