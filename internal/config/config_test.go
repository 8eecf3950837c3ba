package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var envNames = []string{
	"CONFIG", "SERVER_ADDRESS", "DATABASE_DSN", "TLS_CERT", "TLS_KEY", "LOG_LEVEL", "SITE_URL",
	"ADMIN_EMAIL", "ADMIN_PASSWORD", "SECURE_COOKIES", "SEED", "SESSION_TTL", "REQUEST_TIMEOUT",
}

// isolate runs the test in an empty directory with a clean environment.
func isolate(t *testing.T) string {
	t.Helper()
	for _, name := range envNames {
		t.Setenv(name, "")
		os.Unsetenv(name)
	}
	dir := t.TempDir()
	t.Chdir(dir)
	return dir
}

func TestDefaults(t *testing.T) {
	o := Defaults()

	assert.Equal(t, "localhost:8080", o.Port)
	assert.Equal(t, "config.json", o.Config)
	assert.Equal(t, 7*24*time.Hour, o.SessionTTL)
	assert.Equal(t, 10*time.Second, o.RequestTimeout)
	assert.Equal(t, "info", o.LogLevel)
	assert.False(t, o.SecureCookies)
	assert.False(t, o.Seed)
}

func TestParse_Flags(t *testing.T) {
	isolate(t)

	o, err := Parse([]string{"-a", ":9090", "-d", "postgres://x", "-session-ttl", "2h", "-l", "debug"})
	require.NoError(t, err)

	assert.Equal(t, ":9090", o.Port)
	assert.Equal(t, "postgres://x", o.DatabaseDSN)
	assert.Equal(t, 2*time.Hour, o.SessionTTL)
	assert.Equal(t, "debug", o.LogLevel)
}

func TestParse_Precedence(t *testing.T) {
	dir := isolate(t)

	cfg := `{"address": ":7000", "database_dsn": "postgres://file", "session_ttl": "24h", "log_level": "warn", "site_url": "https://g-labs.my.id"}`
	path := filepath.Join(dir, "site.json")
	require.NoError(t, os.WriteFile(path, []byte(cfg), 0o600))

	t.Setenv("DATABASE_DSN", "postgres://env")

	o, err := Parse([]string{"-c", path, "-a", ":7001"})
	require.NoError(t, err)

	assert.Equal(t, ":7001", o.Port, "flag beats file")
	assert.Equal(t, "postgres://env", o.DatabaseDSN, "env beats file")
	assert.Equal(t, 24*time.Hour, o.SessionTTL, "file beats default")
	assert.Equal(t, "warn", o.LogLevel)
	assert.Equal(t, "https://g-labs.my.id", o.SiteURL)
	assert.Equal(t, path, o.Config)
}

func TestParse_ConfigFromEnv(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "other.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"database_dsn": "postgres://other"}`), 0o600))
	t.Setenv("CONFIG", path)

	o, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres://other", o.DatabaseDSN)
}

func TestParse_MissingConfigFileIsIgnored(t *testing.T) {
	isolate(t)

	o, err := Parse([]string{"-d", "postgres://x", "-c", "does-not-exist.json"})
	require.NoError(t, err)
	assert.Equal(t, "postgres://x", o.DatabaseDSN)
}

func TestParse_InvalidConfigFile(t *testing.T) {
	dir := isolate(t)

	path := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{`), 0o600))

	_, err := Parse([]string{"-c", path})
	assert.ErrorContains(t, err, "error while parsing config file")
}

func TestParse_DotEnv(t *testing.T) {
	dir := isolate(t)
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("DATABASE_DSN=postgres://dotenv\nSEED=true\nADMIN_EMAIL=admin@example.com\nADMIN_PASSWORD=pw\n"), 0o600))

	o, err := Parse(nil)
	require.NoError(t, err)
	assert.Equal(t, "postgres://dotenv", o.DatabaseDSN)
	assert.True(t, o.Seed)
	assert.Equal(t, "admin@example.com", o.AdminEmail)
}

func TestParse_EnvTypes(t *testing.T) {
	isolate(t)
	t.Setenv("DATABASE_DSN", "postgres://x")
	t.Setenv("SECURE_COOKIES", "true")
	t.Setenv("REQUEST_TIMEOUT", "5s")

	o, err := Parse(nil)
	require.NoError(t, err)
	assert.True(t, o.SecureCookies)
	assert.Equal(t, 5*time.Second, o.RequestTimeout)

	t.Setenv("SECURE_COOKIES", "maybe")
	_, err = Parse(nil)
	assert.ErrorContains(t, err, "SECURE_COOKIES")

	t.Setenv("SECURE_COOKIES", "")
	t.Setenv("SESSION_TTL", "forever")
	_, err = Parse(nil)
	assert.ErrorContains(t, err, "SESSION_TTL")
}

func TestParse_TLSForcesSecureCookies(t *testing.T) {
	isolate(t)

	o, err := Parse([]string{"-d", "postgres://x", "-tls-cert", "server.crt", "-tls-key", "server.key"})
	require.NoError(t, err)
	assert.True(t, o.SecureCookies)
}

func TestParse_UnknownFlag(t *testing.T) {
	isolate(t)

	_, err := Parse([]string{"-nope"})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	valid := func() *Options {
		o := Defaults()
		o.DatabaseDSN = "postgres://x"
		return o
	}

	tests := []struct {
		name   string
		mutate func(*Options)
		ok     bool
	}{
		{"valid", func(*Options) {}, true},
		{"no dsn", func(o *Options) { o.DatabaseDSN = "" }, false},
		{"cert without key", func(o *Options) { o.TLSCert = "c" }, false},
		{"zero ttl", func(o *Options) { o.SessionTTL = 0 }, false},
		{"negative timeout", func(o *Options) { o.RequestTimeout = -time.Second }, false},
		{"seed without admin", func(o *Options) { o.Seed = true }, false},
		{"seed with admin", func(o *Options) { o.Seed, o.AdminEmail, o.AdminPassword = true, "a@b.c", "pw" }, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			o := valid()
			tc.mutate(o)
			err := o.Validate()
			if tc.ok {
				assert.NoError(t, err)
			} else {
				assert.Error(t, err)
			}
		})
	}
}
