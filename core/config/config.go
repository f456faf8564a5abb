// Package config holds the user-editable shell configuration loaded from
// the init directory.
package config

import (
	_ "embed"
	"fmt"
	"os"
	"path"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/afero"
	"sigs.k8s.io/yaml"
)

const (
	// ConfigurationName is the file name of the shell configuration inside
	// the init directory.
	ConfigurationName = "config.yaml"

	// InitAlwaysName is the script sourced by every shell on startup.
	InitAlwaysName = "init-always.pjsh"

	// InitInteractiveName is the script sourced by interactive shells after
	// InitAlwaysName.
	InitInteractiveName = "init-interactive.pjsh"
)

//go:embed default/config.yaml
var defaultConfigBytes []byte

// Configuration holds the shell settings.
type Configuration struct {
	// Prompt is the PS1 template, interpolated before display.
	Prompt string `json:"prompt" validate:"required"`

	// ContinuationPrompt is the PS2 template shown while a statement is
	// still incomplete.
	ContinuationPrompt string `json:"continuation_prompt" validate:"required"`

	// HistoryFile is the command history location relative to the user's
	// home directory.
	HistoryFile string `json:"history_file" validate:"required"`

	// InitDir is the directory holding the configuration and init scripts,
	// relative to the user's home directory.
	InitDir string `json:"init_dir" validate:"required"`
}

// Validate checks the configuration for errors.
func (c *Configuration) Validate() error {
	validate := validator.New()
	validate.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	return validate.Struct(c)
}

// Default returns the built-in configuration.
func Default() *Configuration {
	var out Configuration
	if err := yaml.UnmarshalStrict(defaultConfigBytes, &out); err != nil {
		panic(err)
	}
	return &out
}

// Path returns the location of the configuration file under home.
func Path(home string) string {
	return path.Join(home, Default().InitDir, ConfigurationName)
}

// Load reads the configuration file from fs, falling back to the default
// configuration if none exists.
func Load(fs afero.Fs, home string) (*Configuration, error) {
	contents, err := afero.ReadFile(fs, Path(home))
	switch {
	case os.IsNotExist(err):
		return Default(), nil
	case err != nil:
		return nil, fmt.Errorf("couldn't read configuration: %w", err)
	}

	var out Configuration
	if err := yaml.UnmarshalStrict(contents, &out); err != nil {
		return nil, fmt.Errorf("couldn't parse configuration: %w", err)
	}
	if err := out.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &out, nil
}

// InitScripts returns the startup scripts in sourcing order. The second
// entry only applies to interactive shells.
func (c *Configuration) InitScripts(home string) []string {
	dir := path.Join(home, c.InitDir)
	return []string{
		path.Join(dir, InitAlwaysName),
		path.Join(dir, InitInteractiveName),
	}
}

// HistoryPath returns the absolute location of the history file.
func (c *Configuration) HistoryPath(home string) string {
	return path.Join(home, c.HistoryFile)
}
