package config

import (
	"io"
	"log"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitialize(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfg, err := Initialize(fs, "/home/u", log.New(io.Discard, "", 0))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	for _, name := range []string{
		"/home/u/.pjsh/config.yaml",
		"/home/u/.pjsh/init-always.pjsh",
		"/home/u/.pjsh/init-interactive.pjsh",
	} {
		exists, err := afero.Exists(fs, name)
		require.NoError(t, err)
		assert.True(t, exists, name)
	}
}

func TestInitializeKeepsExistingFiles(t *testing.T) {
	fs := afero.NewMemMapFs()
	custom := []byte(`prompt: "% "
continuation_prompt: "> "
history_file: ".pjsh/history"
init_dir: ".pjsh"
`)
	require.NoError(t, afero.WriteFile(fs, "/home/u/.pjsh/config.yaml", custom, 0o644))

	cfg, err := Initialize(fs, "/home/u", log.New(io.Discard, "", 0))
	require.NoError(t, err)
	assert.Equal(t, "% ", cfg.Prompt)
}

func TestInitializeNoHome(t *testing.T) {
	_, err := Initialize(afero.NewMemMapFs(), "", log.New(io.Discard, "", 0))
	assert.Error(t, err)
}
