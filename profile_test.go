package backoff_test

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cloudfence/backoff"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "retry.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestLoadProfiles(t *testing.T) {
	t.Run("loads named profiles", func(t *testing.T) {
		path := writeConfig(t, `
profiles:
  default:
    max_retries: 3
    base_delay: 50ms
  bulk:
    max_retries: 8
    jitter_factor: 0.3
    retry_codes: [SlowDown]
    ignore_codes: [ResourceNotFoundException]
`)

		profiles, err := backoff.LoadProfiles(path)
		require.NoError(t, err)
		require.Len(t, profiles, 2)

		bulk := profiles["bulk"]
		require.NotNil(t, bulk.MaxRetries)
		assert.Equal(t, 8, *bulk.MaxRetries)
		assert.Equal(t, []string{"SlowDown"}, bulk.RetryCodes)
		assert.Equal(t, []string{"ResourceNotFoundException"}, bulk.IgnoreCodes)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := backoff.LoadProfiles(filepath.Join(t.TempDir(), "nope.yaml"))
		assert.ErrorIs(t, err, backoff.ErrConfigNotFound)
	})

	t.Run("malformed yaml", func(t *testing.T) {
		path := writeConfig(t, "profiles: [not a map")
		_, err := backoff.LoadProfiles(path)
		assert.Error(t, err)
	})

	t.Run("invalid profile is rejected", func(t *testing.T) {
		path := writeConfig(t, `
profiles:
  bad:
    max_retries: -1
`)
		_, err := backoff.LoadProfiles(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max_retries")
	})
}

func TestLoadProfile(t *testing.T) {
	path := writeConfig(t, `
profiles:
  default:
    max_retries: 2
`)

	t.Run("found", func(t *testing.T) {
		prof, err := backoff.LoadProfile(path, "default")
		require.NoError(t, err)
		require.NotNil(t, prof.MaxRetries)
		assert.Equal(t, 2, *prof.MaxRetries)
	})

	t.Run("unknown name", func(t *testing.T) {
		_, err := backoff.LoadProfile(path, "missing")
		assert.ErrorIs(t, err, backoff.ErrProfileNotFound)
	})
}

func TestProfileValidate(t *testing.T) {
	intp := func(v int) *int { return &v }
	floatp := func(v float64) *float64 { return &v }

	cases := []struct {
		name    string
		profile backoff.Profile
		wantErr string
	}{
		{"empty is valid", backoff.Profile{}, ""},
		{"negative retries", backoff.Profile{MaxRetries: intp(-2)}, "max_retries"},
		{"jitter above one", backoff.Profile{JitterFactor: floatp(1.5)}, "jitter_factor"},
		{"jitter below zero", backoff.Profile{JitterFactor: floatp(-0.1)}, "jitter_factor"},
		{"unparseable delay", backoff.Profile{BaseDelay: "fast"}, "base_delay"},
		{"non-positive delay", backoff.Profile{BaseDelay: "0s"}, "base_delay"},
		{"valid", backoff.Profile{MaxRetries: intp(3), BaseDelay: "1.5s", JitterFactor: floatp(0.5)}, ""},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := tc.profile.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestProfileOptions(t *testing.T) {
	intp := func(v int) *int { return &v }

	prof := backoff.Profile{
		MaxRetries:  intp(1),
		BaseDelay:   "10ms",
		IgnoreCodes: []string{"ResourceNotFoundException"},
	}

	opts, err := prof.Options()
	require.NoError(t, err)

	p := backoff.New(append(opts, backoff.WithClock(&fakeClock{}))...)
	assert.Equal(t, 1, p.MaxRetries())

	out, err := p.Execute(context.Background(), func(ctx context.Context) (any, error) {
		return nil, backoff.WithCode("ResourceNotFoundException", errBoom)
	})
	require.NoError(t, err)
	assert.Nil(t, out)
}
