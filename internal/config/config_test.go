package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const baseYAML = `
app:
  name: workshop-platform
  http_addr: ":9090"
db:
  dsn: postgres://localhost:5432/workshops
razorpay:
  key_id: rzp_test_key
  key_secret: rzp_test_secret
security:
  jwt_secret: base-secret
  issuer: workshop-platform
billing:
  admin_email: ops@example.com
`

func writeConfigs(t *testing.T, files map[string]string) string {
	t.Helper()
	dir := t.TempDir()
	for name, content := range files {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
	return dir
}

func TestLoad(t *testing.T) {
	dir := writeConfigs(t, map[string]string{"base.yaml": baseYAML})

	cfg, err := Load(dir, "local")
	require.NoError(t, err)

	assert.Equal(t, "workshop-platform", cfg.App.Name)
	assert.Equal(t, ":9090", cfg.App.HTTPAddr)
	assert.Equal(t, "postgres://localhost:5432/workshops", cfg.DB.DSN)
	assert.Equal(t, "rzp_test_key", cfg.Razorpay.KeyID)

	// Defaults fill the gaps.
	assert.Equal(t, 15*time.Second, cfg.HTTP.ReadTimeout)
	assert.Equal(t, 18, cfg.Billing.GSTPercent)
	assert.Equal(t, 24*time.Hour, cfg.Outbox.PendingTTL)
	assert.Equal(t, 12*time.Hour, cfg.Security.TokenTTL)
}

func TestLoad_EnvironmentOverlay(t *testing.T) {
	dir := writeConfigs(t, map[string]string{
		"base.yaml": baseYAML,
		"prod.yaml": "app:\n  http_addr: \":80\"\n",
	})

	cfg, err := Load(dir, "prod")
	require.NoError(t, err)
	assert.Equal(t, ":80", cfg.App.HTTPAddr)
	assert.Equal(t, "workshop-platform", cfg.App.Name, "base values survive the overlay")
}

func TestLoad_EnvVarsWin(t *testing.T) {
	dir := writeConfigs(t, map[string]string{"base.yaml": baseYAML})
	t.Setenv("WSP_RAZORPAY__KEY_SECRET", "from-env")
	t.Setenv("WSP_APP__HTTP_ADDR", ":7070")

	cfg, err := Load(dir, "local")
	require.NoError(t, err)
	assert.Equal(t, "from-env", cfg.Razorpay.KeySecret)
	assert.Equal(t, ":7070", cfg.App.HTTPAddr)
}

func TestLoad_MissingOverlayIsFine(t *testing.T) {
	dir := writeConfigs(t, map[string]string{"base.yaml": baseYAML})
	_, err := Load(dir, "no-such-env")
	assert.NoError(t, err)
}

func TestLoad_Validation(t *testing.T) {
	t.Run("missing dsn", func(t *testing.T) {
		dir := writeConfigs(t, map[string]string{"base.yaml": `
razorpay:
  key_id: k
  key_secret: s
security:
  jwt_secret: j
billing:
  admin_email: a@b.co
`})
		_, err := Load(dir, "local")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "db.dsn")
	})

	t.Run("missing vendor keys", func(t *testing.T) {
		dir := writeConfigs(t, map[string]string{"base.yaml": `
db:
  dsn: postgres://x
security:
  jwt_secret: j
billing:
  admin_email: a@b.co
`})
		_, err := Load(dir, "local")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "razorpay")
	})
}
