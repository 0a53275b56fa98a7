package appconfig

import (
	"os"
	"path/filepath"
	"testing"
	"text/template"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testConfig = `
host: crm.example.com
basePath: /api
database:
  source: {{ .DATABASE_URL }}
pulsar:
  url: pulsar://localhost:6650
redis:
  addr: localhost:6379
  ttl: 2m
auth:
  jwtSecret: "{{ .JWT_SECRET }}"
reminders:
  pollInterval: 1m
`

func TestRenderSubstitutesEnvironment(t *testing.T) {
	tmpl := template.Must(template.New("config").Parse(testConfig))

	cfg, err := render(tmpl, map[string]string{
		"DATABASE_URL": "postgres://crm@localhost/crm",
		"JWT_SECRET":   "s3cret",
	})
	require.NoError(t, err)

	assert.Equal(t, "crm.example.com", cfg.Host)
	assert.Equal(t, "postgres://crm@localhost/crm", cfg.Database.Source)
	assert.Equal(t, "s3cret", cfg.Auth.JWTSecret)
	assert.Equal(t, 2*time.Minute, cfg.Redis.TTL)
	assert.Equal(t, time.Minute, cfg.Reminders.PollInterval)
}

func TestRenderAppliesDefaults(t *testing.T) {
	tmpl := template.Must(template.New("config").Parse("host: localhost\n"))

	cfg, err := render(tmpl, map[string]string{})
	require.NoError(t, err)

	assert.Equal(t, "/api", cfg.BasePath)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, 5*time.Minute, cfg.Reminders.PollInterval)
	assert.Equal(t, time.Hour, cfg.Reminders.Lookahead)
	assert.Equal(t, 9*time.Hour, cfg.Attendance.DayStart)
	assert.Equal(t, time.UTC, cfg.Attendance.Location())
}

func TestLoadConfig(t *testing.T) {
	_, err := LoadConfig("")
	assert.Error(t, err)

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(testConfig), 0o600))
	t.Setenv("DATABASE_URL", "postgres://from-env")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "postgres://from-env", cfg.Database.Source)
}
