package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/BurntSushi/toml"
)

// Profiles holds all named profiles and tracks which one is active.
type Profiles struct {
	Active   string             `toml:"active"`
	Profiles map[string]Profile `toml:"profiles"`
}

// Profile is a named backend setup.
type Profile struct {
	APIURL         string `toml:"api_url"`
	CoordinatorURL string `toml:"coordinator_url,omitempty"`
	NATSURL        string `toml:"nats_url,omitempty"`
	UserID         string `toml:"user_id,omitempty"`
}

// DefaultProfilesPath is ~/.local/state/swarmdash/profiles.toml.
func DefaultProfilesPath() (string, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(home, ".local", "state", "swarmdash", "profiles.toml"), nil
}

// LoadProfiles reads path. A missing file yields an empty set.
func LoadProfiles(path string) (Profiles, error) {
	var ps Profiles
	if _, err := toml.DecodeFile(path, &ps); err != nil {
		if os.IsNotExist(err) {
			return Profiles{Profiles: map[string]Profile{}}, nil
		}
		return Profiles{}, fmt.Errorf("reading %s: %w", path, err)
	}
	if ps.Profiles == nil {
		ps.Profiles = map[string]Profile{}
	}
	return ps, nil
}

// SaveProfiles writes ps to path, creating the directory with 0700 and the
// file with 0600.
func SaveProfiles(path string, ps Profiles) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return err
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o600)
	if err != nil {
		return err
	}
	defer f.Close()
	return toml.NewEncoder(f).Encode(ps)
}

// ActiveProfile returns the active profile, or nil when none is set or the
// active name no longer exists.
func (ps Profiles) ActiveProfile() *Profile {
	if ps.Active == "" {
		return nil
	}
	p, ok := ps.Profiles[ps.Active]
	if !ok {
		return nil
	}
	return &p
}
