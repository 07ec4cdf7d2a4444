package extract

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultConfig(t *testing.T) {
	t.Parallel()

	cfg := DefaultConfig()

	assert.Equal(t, "src/lib.rs", cfg.RootFile)
	assert.Equal(t, "src/token.rs", cfg.TokenFile)
	assert.True(t, cfg.ignoredModule("fold"))
	assert.True(t, cfg.ignoredModule("visit"))
	assert.True(t, cfg.ignoredModule("visit_mut"))
	assert.False(t, cfg.ignoredModule("expr"))
	assert.True(t, cfg.extraType("Lifetime"))
	assert.False(t, cfg.extraType("Expr"))
	assert.Equal(t, "derive", cfg.ModuleFeatureOverrides["derive"])
}

func TestLoadConfigEmptyPathReturnsDefaults(t *testing.T) {
	t.Parallel()

	cfg, err := LoadConfig("")
	require.NoError(t, err)
	assert.Equal(t, DefaultConfig(), cfg)
}

func TestLoadConfigOverridesDefaults(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "syndef.yaml")
	content := `
root_file: lib/main.rs
ignored_modules:
  - generated
extra_types:
  - Lifetime
  - Span
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "lib/main.rs", cfg.RootFile)
	assert.Equal(t, "src/token.rs", cfg.TokenFile)
	assert.True(t, cfg.ignoredModule("generated"))
	assert.False(t, cfg.ignoredModule("fold"))
	assert.True(t, cfg.extraType("Span"))
}

func TestLoadConfigMissingFileFails(t *testing.T) {
	t.Parallel()

	_, err := LoadConfig(filepath.Join(t.TempDir(), "absent.yaml"))
	require.Error(t, err)
}

func TestLoadConfigRejectsEmptyRootFile(t *testing.T) {
	t.Parallel()

	path := filepath.Join(t.TempDir(), "syndef.yaml")
	require.NoError(t, os.WriteFile(path, []byte("root_file: \"\"\n"), 0o644))

	_, err := LoadConfig(path)
	require.ErrorIs(t, err, ErrMissingRootFile)
}
