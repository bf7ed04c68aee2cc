package config

import (
	"os"

	"gopkg.in/yaml.v3"

	"git.home.luguber.info/inful/nbrelink/internal/foundation/errors"
)

const initHeader = `# nbrelink configuration
#
# Rewrites revision-pinned links like
#   https://github.com/<owner>/<name>/blob/<revision>/<path>
# into tree-relative paths. Leave repository owner/name empty to derive them
# from the origin remote of the surrounding git clone.
# Values support ${ENV_VAR} expansion; a .env file next to the config is loaded first.
`

// Init writes an example configuration file.
func Init(configPath string, force bool) error {
	if _, err := os.Stat(configPath); err == nil && !force {
		return errors.ConfigError("configuration file already exists (use --force to overwrite)").
			WithContext("path", configPath).
			Build()
	}

	example := Config{
		Root:      ".",
		Extension: ".ipynb",
		Repository: Repository{
			Host:  "github.com",
			Owner: "google-gemini",
			Name:  "cookbook",
		},
		Branches:      []string{"main", "master", "old"},
		ArchiveMarker: DefaultArchiveMarker,
		Summary:       "links_to_update.txt",
	}

	data, err := yaml.Marshal(&example)
	if err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to marshal example config").Build()
	}

	content := append([]byte(initHeader), data...)
	if err := os.WriteFile(configPath, content, 0o644); err != nil {
		return errors.WrapError(err, errors.CategoryConfig, "failed to write config file").
			WithContext("path", configPath).
			Build()
	}
	return nil
}
