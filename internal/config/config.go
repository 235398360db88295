// Package config loads application configuration from environment
// variables. Every knob has a working default so the server starts
// with nothing but a writable data directory; .env loading happens in
// main before Load runs.
package config

import (
	"os"
	"strconv"
	"strings"
	"time"
)

// Config holds all runtime configuration values. The types reflect
// how the values are used: strings for paths and secrets, ints for
// counts and costs, durations for TTLs.
type Config struct {
	Env            string        // application environment (dev/prod)
	Port           string        // HTTP port to listen on
	StorePath      string        // path of the JSON document store
	SetupSecret    string        // out-of-band secret gating PIN setup; empty disables setup
	MaxCredentials int           // maximum number of PIN credential slots
	BcryptCost     int           // bcrypt cost for PIN hashing
	SessionTTL     time.Duration // sliding session time-to-live
	SessionBackend string        // "store" (persisted) or "memory"
	MergePolicy    string        // "merge" or "replace" upsert semantics
	SecureCookies  bool          // Secure + SameSite=None cookies (behind TLS/proxy)
	ConsumerOn     bool          // run the procurement event consumer in-process
}

// Load reads configuration values from environment variables.
func Load() Config {
	return Config{
		Env:            envStr("APP_ENV", "dev"),
		Port:           envStr("APP_PORT", "8080"),
		StorePath:      envStr("STORE_PATH", "data/commandes.json"),
		SetupSecret:    os.Getenv("PIN_SETUP_SECRET"),
		MaxCredentials: envInt("PIN_MAX_CREDENTIALS", 2),
		BcryptCost:     envInt("BCRYPT_COST", 10),
		SessionTTL:     time.Duration(envInt("SESSION_TTL_MIN", 60)) * time.Minute,
		SessionBackend: strings.ToLower(envStr("SESSION_BACKEND", "store")),
		MergePolicy:    strings.ToLower(envStr("ORDER_MERGE_POLICY", "merge")),
		SecureCookies:  envBool("SECURE_COOKIES", false),
		ConsumerOn:     envBool("PROCUREMENT_CONSUMER_ENABLED", false),
	}
}

func envStr(k, d string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return d
}

func envBool(k string, d bool) bool {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	switch v {
	case "1", "true", "TRUE", "True", "yes", "YES", "on", "ON":
		return true
	case "0", "false", "FALSE", "False", "no", "NO", "off", "OFF":
		return false
	}
	return d
}

func envInt(k string, d int) int {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if n, err := strconv.Atoi(v); err == nil {
		return n
	}
	return d
}

func envDur(k string, d time.Duration) time.Duration {
	v := os.Getenv(k)
	if v == "" {
		return d
	}
	if dur, err := time.ParseDuration(v); err == nil {
		return dur
	}
	return d
}
