package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func validConfig() *Config {
	cfg := DefaultConfig()
	cfg.Supabase.URL = "https://project.supabase.co"
	cfg.Supabase.AnonKey = "anon-key"
	cfg.Tenants = []Tenant{
		{
			Name:              "fc",
			Table:             "confessions_fc",
			AccessToken:       "token",
			BusinessAccountID: "17840000000000000",
		},
	}
	return cfg
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	assert.Equal(t, 3, cfg.Scheduler.MaxPostsPerRun)
	assert.Equal(t, 3*time.Second, cfg.Scheduler.PostDelay)
	assert.Equal(t, 5, cfg.Scheduler.CommitAttempts)
	assert.Equal(t, 5*time.Second, cfg.Scheduler.CommitRetryDelay)
	assert.Equal(t, 8, cfg.Scheduler.WindowOpenHour)
	assert.Equal(t, 1, cfg.Scheduler.WindowCloseHour)
	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, 1000, cfg.Logging.RingSize)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SUPABASE_URL", "https://env.supabase.co")
	t.Setenv("SUPABASE_ANON_KEY", "env-key")
	t.Setenv("EMAIL_USER", "alerts@example.com")
	t.Setenv("EMAIL_PASS", "app-password")
	t.Setenv("PORT", "8080")
	t.Setenv("CONFPOSTER_LOG_LEVEL", "debug")
	t.Setenv("CONFPOSTER_MAX_POSTS_PER_RUN", "5")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "https://env.supabase.co", cfg.Supabase.URL)
	assert.Equal(t, "env-key", cfg.Supabase.AnonKey)
	assert.Equal(t, "alerts@example.com", cfg.Email.Username)
	assert.Equal(t, "alerts@example.com", cfg.Email.From, "from defaults to the SMTP user")
	assert.Equal(t, "app-password", cfg.Email.Password)
	assert.Equal(t, 8080, cfg.Server.Port)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, 5, cfg.Scheduler.MaxPostsPerRun)
}

func TestLoadFromEnvPerTenantSecrets(t *testing.T) {
	t.Setenv("INSTAGRAM_ACCESS_TOKEN_FC", "fc-token")
	t.Setenv("INSTAGRAM_BUSINESS_ACCOUNT_ID_FC", "111")
	t.Setenv("TABLE_NAME_FC", "confessions_fc_v2")

	cfg := DefaultConfig()
	cfg.Tenants = []Tenant{
		{Name: "fc", Table: "confessions_fc"},
		{Name: "other", Table: "confessions_other", AccessToken: "keep"},
	}
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, "fc-token", cfg.Tenants[0].AccessToken)
	assert.Equal(t, "111", cfg.Tenants[0].BusinessAccountID)
	assert.Equal(t, "confessions_fc_v2", cfg.Tenants[0].Table)
	assert.Equal(t, "keep", cfg.Tenants[1].AccessToken, "other tenants are untouched")
}

func TestLoadFromEnvIgnoresInvalidNumbers(t *testing.T) {
	t.Setenv("PORT", "not-a-port")
	t.Setenv("CONFPOSTER_MAX_POSTS_PER_RUN", "-2")

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromEnv())

	assert.Equal(t, 3000, cfg.Server.Port)
	assert.Equal(t, 3, cfg.Scheduler.MaxPostsPerRun)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "confposter.yaml")
	content := `
supabase:
  url: https://file.supabase.co
  anon_key: file-key
tenants:
  - name: fc
    table: confessions_fc
    caption: "#confession"
    alert_recipient: ops@example.com
scheduler:
  max_posts_per_run: 2
  post_delay: 10s
server:
  port: 4000
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg := DefaultConfig()
	require.NoError(t, cfg.LoadFromFile(path))

	assert.Equal(t, "https://file.supabase.co", cfg.Supabase.URL)
	require.Len(t, cfg.Tenants, 1)
	assert.Equal(t, "#confession", cfg.Tenants[0].Caption)
	assert.Equal(t, "ops@example.com", cfg.Tenants[0].AlertRecipient)
	assert.Equal(t, 2, cfg.Scheduler.MaxPostsPerRun)
	assert.Equal(t, 10*time.Second, cfg.Scheduler.PostDelay)
	assert.Equal(t, 4000, cfg.Server.Port)
	// Untouched sections keep their defaults.
	assert.Equal(t, 5, cfg.Scheduler.CommitAttempts)
}

func TestLoadFromFileMissingPathIsError(t *testing.T) {
	cfg := DefaultConfig()
	assert.Error(t, cfg.LoadFromFile(filepath.Join(t.TempDir(), "nope.yaml")))
}

func TestTenantLookup(t *testing.T) {
	cfg := validConfig()

	tenant, ok := cfg.Tenant("FC")
	require.True(t, ok, "lookup is case insensitive")
	assert.Equal(t, "confessions_fc", tenant.Table)

	_, ok = cfg.Tenant("missing")
	assert.False(t, ok)
}

func TestValidate(t *testing.T) {
	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, validConfig().Validate())
	})

	t.Run("missing supabase settings", func(t *testing.T) {
		cfg := validConfig()
		cfg.Supabase.URL = ""
		cfg.Supabase.AnonKey = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "supabase URL is required")
		assert.Contains(t, err.Error(), "supabase anon key is required")
	})

	t.Run("no tenants", func(t *testing.T) {
		cfg := validConfig()
		cfg.Tenants = nil
		assert.ErrorContains(t, cfg.Validate(), "at least one tenant is required")
	})

	t.Run("duplicate tenant names", func(t *testing.T) {
		cfg := validConfig()
		cfg.Tenants = append(cfg.Tenants, Tenant{
			Name: "FC", Table: "t", AccessToken: "x", BusinessAccountID: "1",
		})
		assert.ErrorContains(t, cfg.Validate(), "duplicate tenant name")
	})

	t.Run("incomplete tenant", func(t *testing.T) {
		cfg := validConfig()
		cfg.Tenants[0].AccessToken = ""
		cfg.Tenants[0].BusinessAccountID = ""
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "access token is required")
		assert.Contains(t, err.Error(), "business account id is required")
	})

	t.Run("bad scheduler settings", func(t *testing.T) {
		cfg := validConfig()
		cfg.Scheduler.MaxPostsPerRun = 0
		cfg.Scheduler.WindowOpenHour = 24
		err := cfg.Validate()
		require.Error(t, err)
		assert.Contains(t, err.Error(), "max posts per run must be positive")
		assert.Contains(t, err.Error(), "window open hour must be 0-23")
	})

	t.Run("bad log level", func(t *testing.T) {
		cfg := validConfig()
		cfg.Logging.Level = "verbose"
		assert.ErrorContains(t, cfg.Validate(), "invalid log level")
	})
}
