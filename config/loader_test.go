package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeYAML(t *testing.T, path, content string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
}

func TestLoaderLayers(t *testing.T) {
	home := t.TempDir()
	project := t.TempDir()
	work := filepath.Join(project, "docs", "nested")
	require.NoError(t, os.MkdirAll(work, 0755))

	writeYAML(t, filepath.Join(home, UserConfigDir, UserConfigFile), `
output:
  locale: de
  concurrency: 2
`)
	writeYAML(t, filepath.Join(project, ProjectConfigFile), `
output:
  concurrency: 6
  format: text
`)
	explicit := filepath.Join(t.TempDir(), "explicit.yaml")
	writeYAML(t, explicit, `
output:
  format: markdown
`)

	l := &Loader{logger: NewLoader(nil).logger, homeDir: home, workDir: work}

	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, "de", cfg.Output.Locale)
	assert.Equal(t, 6, cfg.Output.Concurrency)
	assert.Equal(t, "text", cfg.Output.Format)

	cfg, err = l.Load(explicit)
	require.NoError(t, err)
	assert.Equal(t, "markdown", cfg.Output.Format)
	assert.Equal(t, 6, cfg.Output.Concurrency)
}

func TestLoaderDefaultsWithoutFiles(t *testing.T) {
	l := &Loader{logger: NewLoader(nil).logger, homeDir: t.TempDir(), workDir: t.TempDir()}

	cfg, err := l.Load("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoaderErrors(t *testing.T) {
	l := &Loader{logger: NewLoader(nil).logger, homeDir: t.TempDir(), workDir: t.TempDir()}

	_, err := l.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.ErrorIs(t, err, os.ErrNotExist)

	invalid := filepath.Join(t.TempDir(), "invalid.yaml")
	writeYAML(t, invalid, "output:\n  format: pdf\n")
	_, err = l.Load(invalid)
	assert.ErrorContains(t, err, "output.format")
}

func TestEnsureUserConfig(t *testing.T) {
	home := t.TempDir()
	l := &Loader{logger: NewLoader(nil).logger, homeDir: home}

	path, err := l.EnsureUserConfig()
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, UserConfigDir, UserConfigFile), path)

	cfg, err := LoadFromFile(path)
	require.NoError(t, err)
	require.NoError(t, cfg.Validate())

	again, err := l.EnsureUserConfig()
	require.NoError(t, err)
	assert.Equal(t, path, again)
}
