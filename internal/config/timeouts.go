package config

import (
	"os"
	"strconv"
	"time"
)

// Timeouts holds the polling intervals and attempt caps for the pipeline's
// asynchronous waits. The intervals match the historical fixed waits; the
// caps bound loops that previously could spin forever.
type Timeouts struct {
	ConversionPollInterval time.Duration // between conversion-task polls
	ConversionMaxAttempts  int           // cap on conversion-task polls
	ResourcePollInterval   time.Duration // between volume/snapshot lookups
	ResourceMaxAttempts    int           // cap on volume/snapshot lookups
	SSHPollInterval        time.Duration // between SSH reachability probes
	SSHMaxAttempts         int           // cap on SSH reachability probes
	PublicPollInterval     time.Duration // between make-public attempts on copies
	PublicMaxAttempts      int           // cap on make-public attempts
}

// LoadTimeouts loads timeout configuration from environment variables.
// If an environment variable is not set or invalid, a default value is used.
//
// Environment Variables:
//   - FEDIMG_POLL_CONVERSION_INTERVAL (default: 5s)
//   - FEDIMG_POLL_CONVERSION_MAX_ATTEMPTS (default: 720)
//   - FEDIMG_POLL_RESOURCE_INTERVAL (default: 10s)
//   - FEDIMG_POLL_RESOURCE_MAX_ATTEMPTS (default: 360)
//   - FEDIMG_POLL_SSH_INTERVAL (default: 10s)
//   - FEDIMG_POLL_SSH_MAX_ATTEMPTS (default: 60)
//   - FEDIMG_POLL_PUBLIC_INTERVAL (default: 20s)
//   - FEDIMG_POLL_PUBLIC_MAX_ATTEMPTS (default: 90)
func LoadTimeouts() *Timeouts {
	return &Timeouts{
		ConversionPollInterval: parseDuration("FEDIMG_POLL_CONVERSION_INTERVAL", 5*time.Second),
		ConversionMaxAttempts:  parseInt("FEDIMG_POLL_CONVERSION_MAX_ATTEMPTS", 720),
		ResourcePollInterval:   parseDuration("FEDIMG_POLL_RESOURCE_INTERVAL", 10*time.Second),
		ResourceMaxAttempts:    parseInt("FEDIMG_POLL_RESOURCE_MAX_ATTEMPTS", 360),
		SSHPollInterval:        parseDuration("FEDIMG_POLL_SSH_INTERVAL", 10*time.Second),
		SSHMaxAttempts:         parseInt("FEDIMG_POLL_SSH_MAX_ATTEMPTS", 60),
		PublicPollInterval:     parseDuration("FEDIMG_POLL_PUBLIC_INTERVAL", 20*time.Second),
		PublicMaxAttempts:      parseInt("FEDIMG_POLL_PUBLIC_MAX_ATTEMPTS", 90),
	}
}

// parseDuration parses a duration from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseDuration(envVar string, defaultVal time.Duration) time.Duration {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	d, err := time.ParseDuration(val)
	if err != nil {
		return defaultVal
	}

	return d
}

// parseInt parses an integer from an environment variable.
// If the variable is not set or parsing fails, the default value is returned.
func parseInt(envVar string, defaultVal int) int {
	val := os.Getenv(envVar)
	if val == "" {
		return defaultVal
	}

	n, err := strconv.Atoi(val)
	if err != nil {
		return defaultVal
	}

	return n
}
