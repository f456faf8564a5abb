package config

import (
	"fmt"
	"log"
	"os"
	"path"

	"github.com/spf13/afero"
)

var initScriptTemplates = map[string]string{
	InitAlwaysName:      "# Sourced by every pjsh on startup.\n",
	InitInteractiveName: "# Sourced by interactive pjsh sessions after " + InitAlwaysName + ".\n",
}

// Initialize creates the init directory under home with a default
// configuration and empty init scripts. Existing files are left alone.
func Initialize(fs afero.Fs, home string, logger *log.Logger) (*Configuration, error) {
	if home == "" {
		return nil, fmt.Errorf("couldn't determine the home directory")
	}

	dir := path.Join(home, Default().InitDir)
	if err := fs.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}

	files := map[string][]byte{
		ConfigurationName: defaultConfigBytes,
	}
	for name, contents := range initScriptTemplates {
		files[name] = []byte(contents)
	}

	for name, contents := range files {
		target := path.Join(dir, name)
		if _, err := fs.Stat(target); err == nil {
			logger.Printf("found %s", target)
			continue
		} else if !os.IsNotExist(err) {
			return nil, err
		}
		if err := afero.WriteFile(fs, target, contents, 0o644); err != nil {
			return nil, err
		}
		logger.Printf("created %s", target)
	}

	return Load(fs, home)
}
