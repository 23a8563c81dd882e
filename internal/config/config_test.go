package config

import (
	"flag"
	"io"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func env(vars map[string]string) func(string) string {
	return func(k string) string { return vars[k] }
}

func newFlagSet() *flag.FlagSet {
	return flag.NewFlagSet("test", flag.ContinueOnError)
}

func TestParse_Defaults(t *testing.T) {
	opts, err := parse(newFlagSet(), []string{"-c", filepath.Join(t.TempDir(), "absent.yaml")},
		env(map[string]string{"ADMIN_PASSWORD": "1234"}))
	require.NoError(t, err)

	assert.Equal(t, "localhost:8080", opts.Addr)
	assert.Equal(t, "cursos.csv", opts.CatalogFile)
	assert.Equal(t, "www", opts.AttachmentsDir)
	assert.Equal(t, "admin", opts.AdminUser)
	assert.Equal(t, "1234", opts.AdminPassword)
	assert.Equal(t, "info", opts.LogLevel)
	assert.Equal(t, 8*time.Hour, opts.SessionTTL)
}

func TestParse_Precedence(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
address: ":9000"
catalog_file: /data/file.csv
attachments_dir: /data/www
admin_user: editor
admin_password: from-file
session_ttl: 30m
`), 0o600))

	opts, err := parse(newFlagSet(), []string{"-config", path, "-catalog", "/flag/cursos.csv"},
		env(map[string]string{
			"CATALOG_FILE":   "/env/cursos.csv",
			"ADMIN_PASSWORD": "from-env",
		}))
	require.NoError(t, err)

	assert.Equal(t, ":9000", opts.Addr, "file overrides default")
	assert.Equal(t, "/data/www", opts.AttachmentsDir)
	assert.Equal(t, "editor", opts.AdminUser)
	assert.Equal(t, "from-env", opts.AdminPassword, "env overrides file")
	assert.Equal(t, "/flag/cursos.csv", opts.CatalogFile, "explicit flag wins")
	assert.Equal(t, 30*time.Minute, opts.SessionTTL)
	assert.Equal(t, path, opts.Config)
}

func TestParse_JSONConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"address": "0.0.0.0:8443", "admin_password_hash": "$2a$10$abc"}`), 0o600))

	opts, err := parse(newFlagSet(), nil, env(map[string]string{"CONFIG": path}))
	require.NoError(t, err)
	assert.Equal(t, "0.0.0.0:8443", opts.Addr)
	assert.Equal(t, "$2a$10$abc", opts.AdminPasswordHash)
}

func TestParse_SessionTTLSources(t *testing.T) {
	absent := filepath.Join(t.TempDir(), "absent.yaml")

	opts, err := parse(newFlagSet(), []string{"-c", absent},
		env(map[string]string{"ADMIN_PASSWORD": "x", "SESSION_TTL": "15m"}))
	require.NoError(t, err)
	assert.Equal(t, 15*time.Minute, opts.SessionTTL)

	opts, err = parse(newFlagSet(), []string{"-c", absent, "-session-ttl", "0"},
		env(map[string]string{"ADMIN_PASSWORD": "x", "SESSION_TTL": "15m"}))
	require.NoError(t, err)
	assert.Equal(t, time.Duration(0), opts.SessionTTL)

	_, err = parse(newFlagSet(), []string{"-c", absent},
		env(map[string]string{"ADMIN_PASSWORD": "x", "SESSION_TTL": "soon"}))
	assert.Error(t, err)
}

func TestParse_Invalid(t *testing.T) {
	absent := filepath.Join(t.TempDir(), "absent.yaml")
	broken := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(broken, []byte("address: [unclosed"), 0o600))

	tests := []struct {
		name string
		args []string
		env  map[string]string
	}{
		{"no password", []string{"-c", absent}, nil},
		{"blank password", []string{"-c", absent}, map[string]string{"ADMIN_PASSWORD": "   "}},
		{"blank hash", []string{"-c", absent, "-password-hash", " "}, nil},
		{"blank user", []string{"-c", absent}, map[string]string{"ADMIN_USER": " ", "ADMIN_PASSWORD": "x"}},
		{"empty user", []string{"-c", absent, "-user", ""}, map[string]string{"ADMIN_PASSWORD": "x"}},
		{"cert without key", []string{"-c", absent, "-tls-cert", "server.crt"}, map[string]string{"ADMIN_PASSWORD": "x"}},
		{"broken file", []string{"-c", broken}, map[string]string{"ADMIN_PASSWORD": "x"}},
		{"unknown flag", []string{"-nope"}, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			fs := newFlagSet()
			fs.SetOutput(io.Discard)
			_, err := parse(fs, tt.args, env(tt.env))
			assert.Error(t, err)
		})
	}
}
