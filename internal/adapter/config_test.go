package adapter

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mmcdole/onesky-sync/internal/domain"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o644))
	return path
}

func TestLoadConfig_Defaults(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg, err := LoadConfig(viper.New(), "")
	require.NoError(t, err)

	assert.Equal(t, "%appDir%/lang", cfg.Sync.Dir)
	assert.Equal(t, domain.LocaleAll, cfg.Sync.Locale)
	assert.False(t, cfg.Sync.Strict)
	assert.Equal(t, "https://platform.api.onesky.io/1", cfg.OneSky.BaseURL)
	assert.Equal(t, 30*time.Second, cfg.OneSky.Timeout)
	assert.Equal(t, ProgressAuto, cfg.UI.Progress)
	assert.False(t, cfg.IsConfigured())

	wd, err := os.Getwd()
	require.NoError(t, err)
	appDir, ok := lookupParam(cfg.Params, "appDir")
	require.True(t, ok)
	assert.Equal(t, wd, appDir)
}

func TestLoadConfig_File(t *testing.T) {
	path := writeConfig(t, `
onesky:
  api_key: key
  api_secret: secret
  project_id: "42"
  timeout: 5s
sync:
  dir: "%root%/locale"
  locale: cs,en-US
  strict: true
params:
  root: /srv/app
logging:
  level: debug
`)

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.True(t, cfg.IsConfigured())
	assert.Equal(t, "42", cfg.OneSky.ProjectID)
	assert.Equal(t, 5*time.Second, cfg.OneSky.Timeout)
	assert.Equal(t, "cs,en-US", cfg.Sync.Locale)
	assert.True(t, cfg.Sync.Strict)
	assert.Equal(t, "/srv/app", cfg.Params["root"])
	assert.Equal(t, "debug", cfg.Logging.Level)
}

func TestLoadConfig_ExplicitMissingFile(t *testing.T) {
	_, err := LoadConfig(viper.New(), filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_EnvOverrides(t *testing.T) {
	path := writeConfig(t, `
onesky:
  api_key: from-file
`)
	t.Setenv("ONESKY_API_KEY", "from-env")
	t.Setenv("ONESKY_API_SECRET", "s3cret")
	t.Setenv("ONESKY_PROJECT_ID", "7")
	t.Setenv("ONESKY_SYNC_LOCALE", "de")

	cfg, err := LoadConfig(viper.New(), path)
	require.NoError(t, err)

	assert.Equal(t, "from-env", cfg.OneSky.APIKey)
	assert.Equal(t, "s3cret", cfg.OneSky.APISecret)
	assert.Equal(t, "7", cfg.OneSky.ProjectID)
	assert.Equal(t, "de", cfg.Sync.Locale)
}

func TestConfig_SyncConfig(t *testing.T) {
	cfg := DefaultConfig()
	cfg.OneSky.APIKey = "k"
	cfg.OneSky.APISecret = "s"
	cfg.OneSky.ProjectID = "1"
	cfg.Sync.Locale = "cs,en"
	cfg.Sync.Strict = true

	sc := cfg.SyncConfig(SyncOptions{Operations: domain.OpDownload, DryRun: true, Only: "msg"})

	assert.Equal(t, "k", sc.APIKey)
	assert.Equal(t, "s", sc.APISecret)
	assert.Equal(t, "1", sc.ProjectID)
	assert.Equal(t, "%appDir%/lang", sc.DirPattern)
	assert.Equal(t, domain.LocaleSelector("cs,en"), sc.Locales)
	assert.Equal(t, domain.OpDownload, sc.Operations)
	assert.True(t, sc.Strict)
	assert.True(t, sc.DryRun)
	assert.Equal(t, "msg", sc.Only)
	assert.Empty(t, sc.TargetDir)
}
