// Package config resolves dashboard settings from the environment and the
// active profile.
package config

import (
	"fmt"
	"os"
	"time"

	"github.com/alfredjeanlab/swarmdash/internal/idgen"
)

// Defaults used when neither the environment nor a profile sets a value.
const (
	DefaultAPIURL         = "http://localhost:8080"
	DefaultCoordinatorURL = "http://localhost:8000"
	DefaultPollInterval   = 5 * time.Second
)

type Config struct {
	APIURL         string        // SWARM_API_URL (default "http://localhost:8080")
	CoordinatorURL string        // SWARM_COORDINATOR_URL (default "http://localhost:8000"), named in diagnostics only
	UserID         string        // SWARM_USER_ID (default generated "user-<id>")
	PollInterval   time.Duration // SWARM_POLL_INTERVAL (default 5s; must be > 0)
	NATSURL        string        // SWARM_NATS_URL (optional, empty = no events)
}

// Load reads the environment. Values from profile fill in anything the
// environment leaves unset; profile may be nil.
func Load(profile *Profile) (*Config, error) {
	var p Profile
	if profile != nil {
		p = *profile
	}

	c := &Config{
		APIURL:         envOrDefault("SWARM_API_URL", orDefault(p.APIURL, DefaultAPIURL)),
		CoordinatorURL: envOrDefault("SWARM_COORDINATOR_URL", orDefault(p.CoordinatorURL, DefaultCoordinatorURL)),
		UserID:         envOrDefault("SWARM_USER_ID", p.UserID),
		NATSURL:        envOrDefault("SWARM_NATS_URL", p.NATSURL),
		PollInterval:   DefaultPollInterval,
	}
	if c.UserID == "" {
		c.UserID = idgen.UserID()
	}

	if s := os.Getenv("SWARM_POLL_INTERVAL"); s != "" {
		d, err := time.ParseDuration(s)
		if err != nil {
			return nil, fmt.Errorf("SWARM_POLL_INTERVAL: %w", err)
		}
		if d <= 0 {
			return nil, fmt.Errorf("SWARM_POLL_INTERVAL must be positive, got %s", d)
		}
		c.PollInterval = d
	}

	return c, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func orDefault(v, fallback string) string {
	if v != "" {
		return v
	}
	return fallback
}
