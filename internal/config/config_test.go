package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "pdflatex", cfg.Compiler.Binary)
	assert.Equal(t, 1, cfg.Compiler.Passes)
	assert.Equal(t, 5*time.Second, cfg.Compiler.ProbeTimeout)
	assert.Equal(t, "get", cfg.Remote.Method)
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	yml := `
server:
  port: "8081"
compiler:
  binary: /opt/texlive/bin/pdflatex
  passes: 2
  timeout: 45s
remote:
  method: post
  attempts: 3
  backoff: 250ms
sanitizer:
  bullet_keys: [bullets, highlights]
log:
  level: debug
  development: true
`
	require.NoError(t, os.WriteFile(path, []byte(yml), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "8081", cfg.Server.Port)
	assert.Equal(t, "/opt/texlive/bin/pdflatex", cfg.Compiler.Binary)
	assert.Equal(t, 2, cfg.Compiler.Passes)
	assert.Equal(t, 45*time.Second, cfg.Compiler.Timeout)
	assert.Equal(t, 5*time.Second, cfg.Compiler.ProbeTimeout)
	assert.Equal(t, "post", cfg.Remote.Method)
	assert.Equal(t, 250*time.Millisecond, cfg.Remote.Backoff)
	assert.Equal(t, []string{"bullets", "highlights"}, cfg.Sanitizer.BulletKeys)

	logger, err := cfg.Log.NewLogger()
	require.NoError(t, err)
	assert.NotNil(t, logger)
}

func TestLoad_Errors(t *testing.T) {
	t.Run("missing file", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
		require.Error(t, err)
	})

	t.Run("bad method", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "config.yaml")
		require.NoError(t, os.WriteFile(path, []byte("remote:\n  method: put\n"), 0o644))
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "remote.method")
	})
}

func TestApplyEnv(t *testing.T) {
	env := map[string]string{
		"PORT":              "9000",
		"JOBS_DATABASE_URL": "postgres://jobs",
		"PDFLATEX_PATH":     "/usr/local/bin/pdflatex",
	}
	cfg := Default()
	cfg.applyEnv(func(k string) string { return env[k] })

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, "postgres://jobs", cfg.Database.URL)
	assert.Equal(t, "/usr/local/bin/pdflatex", cfg.Compiler.Binary)
	assert.Equal(t, "https://latexonline.cc/compile", cfg.Remote.URL)
}
