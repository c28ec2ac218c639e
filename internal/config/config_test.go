package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEnvDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/var/lib/openclaw", cfg.DataDir)
	assert.Equal(t, "s3", cfg.StoreProvider)
	assert.Equal(t, "/var/lib/openclaw/models.json", cfg.ModelDocumentPath())
}

func TestLoadRejectsUnknownProvider(t *testing.T) {
	t.Setenv("OPENCLAW_STORE_PROVIDER", "dropbox")
	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENCLAW_STORE_PROVIDER")
}

func TestRequireStoreNamesMissingVariable(t *testing.T) {
	t.Setenv("OPENCLAW_STORE_BUCKET", "claw-backups")
	t.Setenv("OPENCLAW_STORE_ACCESS_KEY_ID", "AKIA")
	cfg, err := Load()
	require.NoError(t, err)

	err = cfg.RequireStore()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "OPENCLAW_STORE_SECRET_ACCESS_KEY")
}

func TestModelDocumentPathOverride(t *testing.T) {
	t.Setenv("OPENCLAW_MODEL_CONFIG", "/etc/openclaw/models.json")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, "/etc/openclaw/models.json", cfg.ModelDocumentPath())
}
