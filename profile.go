package backoff

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Sentinel errors for profile loading. Check with errors.Is.
var (
	// ErrConfigNotFound is returned when the profile file does not exist.
	ErrConfigNotFound = errors.New("profile config not found")

	// ErrProfileNotFound is returned when the file has no profile of the
	// requested name.
	ErrProfileNotFound = errors.New("profile not found")
)

// Profile is a named retry configuration loaded from YAML. Zero fields keep
// the policy defaults. Durations are strings in Go syntax ("200ms", "1.5s").
type Profile struct {
	MaxRetries   *int     `yaml:"max_retries,omitempty"`
	BaseDelay    string   `yaml:"base_delay,omitempty"`
	JitterFactor *float64 `yaml:"jitter_factor,omitempty"`
	RetryCodes   []string `yaml:"retry_codes,omitempty"`
	IgnoreCodes  []string `yaml:"ignore_codes,omitempty"`
}

type profileFile struct {
	Profiles map[string]Profile `yaml:"profiles"`
}

// LoadProfiles reads every profile from a YAML file of the form:
//
//	profiles:
//	  default:
//	    max_retries: 5
//	    base_delay: 200ms
//	  bulk:
//	    max_retries: 8
//	    jitter_factor: 0.3
//	    ignore_codes: [ResourceNotFoundException]
func LoadProfiles(path string) (map[string]Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	var file profileFile
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}

	for name, prof := range file.Profiles {
		if err := prof.Validate(); err != nil {
			return nil, fmt.Errorf("profile %q: %w", name, err)
		}
	}
	return file.Profiles, nil
}

// LoadProfile reads a single named profile from a YAML file.
func LoadProfile(path, name string) (Profile, error) {
	profiles, err := LoadProfiles(path)
	if err != nil {
		return Profile{}, err
	}
	prof, ok := profiles[name]
	if !ok {
		return Profile{}, fmt.Errorf("%w: %q in %s", ErrProfileNotFound, name, path)
	}
	return prof, nil
}

// Validate checks the profile's fields against the policy invariants.
func (p Profile) Validate() error {
	if p.MaxRetries != nil && *p.MaxRetries < 0 {
		return fmt.Errorf("max_retries must be non-negative, got %d", *p.MaxRetries)
	}
	if p.JitterFactor != nil && (*p.JitterFactor < 0 || *p.JitterFactor > 1) {
		return fmt.Errorf("jitter_factor must be in [0, 1], got %g", *p.JitterFactor)
	}
	if p.BaseDelay != "" {
		d, err := time.ParseDuration(p.BaseDelay)
		if err != nil {
			return fmt.Errorf("base_delay: %w", err)
		}
		if d <= 0 {
			return fmt.Errorf("base_delay must be positive, got %s", d)
		}
	}
	return nil
}

// Options converts the profile into policy options.
func (p Profile) Options() ([]Option, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	var opts []Option
	if p.MaxRetries != nil {
		opts = append(opts, WithMaxRetries(*p.MaxRetries))
	}
	if p.BaseDelay != "" {
		d, _ := time.ParseDuration(p.BaseDelay)
		opts = append(opts, WithBaseDelay(d))
	}
	if p.JitterFactor != nil {
		opts = append(opts, WithJitterFactor(*p.JitterFactor))
	}
	if len(p.RetryCodes) > 0 {
		opts = append(opts, WithRetryCodes(p.RetryCodes...))
	}
	if len(p.IgnoreCodes) > 0 {
		opts = append(opts, WithIgnoreCodes(p.IgnoreCodes...))
	}
	return opts, nil
}
