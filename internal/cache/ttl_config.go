package cache

import "time"

// TTLConfig defines cache TTL durations for cleaned metric responses.
// Historical days are immutable on the provider side, so they keep longer
// TTLs than the still-accumulating current day.
type TTLConfig struct {
	MetricsToday      time.Duration
	MetricsHistorical time.Duration
	Default           time.Duration
}

// DefaultTTLConfig returns default TTL configuration
func DefaultTTLConfig() TTLConfig {
	return TTLConfig{
		MetricsToday:      2 * time.Minute,
		MetricsHistorical: 1 * time.Hour,
		Default:           5 * time.Minute,
	}
}

// KeyPrefix defines prefixes for cache keys to organize cached data
type KeyPrefix string

const (
	KeyPrefixSteps     KeyPrefix = "fitbit:steps"
	KeyPrefixSleep     KeyPrefix = "fitbit:sleep"
	KeyPrefixHeartRate KeyPrefix = "fitbit:heartrate"
)

// BuildKey constructs a cache key from prefix and identifiers
func BuildKey(prefix KeyPrefix, parts ...string) string {
	key := string(prefix)
	for _, part := range parts {
		key += ":" + part
	}
	return key
}
