package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nkusla/dkaminpar-go/pkg/config"
)

func TestDefaultConfigIsValid(t *testing.T) {
	cfg := config.Default()
	assert.NoError(t, cfg.Validate())
}

func TestValidateRejectsTooFewBlocks(t *testing.T) {
	cfg := config.Default()
	cfg.Blocks = 1
	assert.Error(t, cfg.Validate())
}

func TestValidateRejectsUnknownSplitMode(t *testing.T) {
	cfg := config.Default()
	cfg.Input.SplitMode = "random"
	assert.Error(t, cfg.Validate())
}

func TestLoadOverridesDefaults(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	contents := []byte("processes: 4\nblocks: 8\ninput:\n  path: graph.txt\n  split_mode: edge\n")
	require.NoError(t, os.WriteFile(path, contents, 0644))

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, 4, cfg.Processes)
	assert.Equal(t, 8, cfg.Blocks)
	assert.Equal(t, "edge", cfg.Input.SplitMode)
	assert.Equal(t, "graph.txt", cfg.Input.Path)
}

func TestLoadRejectsInvalidOverride(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("blocks: 1\n"), 0644))

	_, err := config.Load(path)
	assert.Error(t, err)
}
