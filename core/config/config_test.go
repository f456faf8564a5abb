package config

import (
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefault(t *testing.T) {
	cfg := Default()

	assert.Equal(t, "pjsh$ ", cfg.Prompt)
	assert.Equal(t, "> ", cfg.ContinuationPrompt)
	assert.Equal(t, ".pjsh/history", cfg.HistoryFile)
	assert.Equal(t, ".pjsh", cfg.InitDir)

	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	cases := map[string]struct {
		mutate  func(*Configuration)
		wantErr string
	}{
		"valid": {
			mutate:  func(c *Configuration) {},
			wantErr: "",
		},
		"missing prompt": {
			mutate:  func(c *Configuration) { c.Prompt = "" },
			wantErr: "prompt",
		},
		"missing history": {
			mutate:  func(c *Configuration) { c.HistoryFile = "" },
			wantErr: "history_file",
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			cfg := Default()
			tc.mutate(cfg)
			err := cfg.Validate()
			if tc.wantErr == "" {
				assert.NoError(t, err)
			} else {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tc.wantErr)
			}
		})
	}
}

func TestLoadMissingFallsBack(t *testing.T) {
	fs := afero.NewMemMapFs()

	cfg, err := Load(fs, "/home/user")
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadReadsFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	contents := []byte(`prompt: "$ "
continuation_prompt: "… "
history_file: ".pjsh/history"
init_dir: ".pjsh"
`)
	require.NoError(t, afero.WriteFile(fs, "/home/user/.pjsh/config.yaml", contents, 0o644))

	cfg, err := Load(fs, "/home/user")
	require.NoError(t, err)
	assert.Equal(t, "$ ", cfg.Prompt)
	assert.Equal(t, "… ", cfg.ContinuationPrompt)
}

func TestLoadRejectsUnknownKeys(t *testing.T) {
	fs := afero.NewMemMapFs()
	contents := []byte(`prompt: "$ "
colour: always
`)
	require.NoError(t, afero.WriteFile(fs, "/home/user/.pjsh/config.yaml", contents, 0o644))

	_, err := Load(fs, "/home/user")
	assert.Error(t, err)
}

func TestLoadRejectsInvalid(t *testing.T) {
	fs := afero.NewMemMapFs()
	contents := []byte(`prompt: "$ "
continuation_prompt: "> "
history_file: ""
init_dir: ".pjsh"
`)
	require.NoError(t, afero.WriteFile(fs, "/home/user/.pjsh/config.yaml", contents, 0o644))

	_, err := Load(fs, "/home/user")
	assert.Error(t, err)
}

func TestPaths(t *testing.T) {
	cfg := Default()
	assert.Equal(t, "/home/u/.pjsh/init-always.pjsh", cfg.InitScripts("/home/u")[0])
	assert.Equal(t, "/home/u/.pjsh/init-interactive.pjsh", cfg.InitScripts("/home/u")[1])
	assert.Equal(t, "/home/u/.pjsh/history", cfg.HistoryPath("/home/u"))
	assert.Equal(t, "/home/u/.pjsh/config.yaml", Path("/home/u"))
}
