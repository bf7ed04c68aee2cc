package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"git.home.luguber.info/inful/nbrelink/internal/foundation/errors"
	"git.home.luguber.info/inful/nbrelink/internal/linkrewrite"
)

func TestLoad_AppliesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repository:\n  owner: example\n  name: guides\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, ".", cfg.Root)
	require.Equal(t, ".ipynb", cfg.Extension)
	require.Equal(t, "github.com", cfg.Repository.Host)
	require.Equal(t, DefaultArchiveMarker, cfg.ArchiveMarker)
	require.Equal(t, "links_to_update.txt", cfg.Summary)
	require.NoError(t, cfg.Validate())
}

func TestApplyDefaults_ArchiveMarkerShieldsLines(t *testing.T) {
	cfg := &Config{Repository: Repository{Owner: "google-gemini", Name: "cookbook"}}
	cfg.ApplyDefaults()
	require.Equal(t, DefaultArchiveMarker, cfg.ArchiveMarker)

	// The defaulted marker must flow into the rules: a marked line with an
	// otherwise-qualifying pinned link stays untouched.
	rules, err := linkrewrite.New(linkrewrite.Repo{
		Host:  cfg.Repository.Host,
		Owner: cfg.Repository.Owner,
		Name:  cfg.Repository.Name,
	}, cfg.ArchiveMarker, cfg.Branches)
	require.NoError(t, err)

	line := "see the gemini-1.5-archive copy at https://github.com/google-gemini/cookbook/blob/main/quickstart.md"
	got, _, changed := rules.RewriteLine(line, "quickstart.md")
	require.False(t, changed)
	require.Equal(t, line, got)
}

func TestLoad_ExpandsEnvironment(t *testing.T) {
	t.Setenv("NBRELINK_OWNER", "example")

	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repository:\n  owner: ${NBRELINK_OWNER}\n  name: guides\n"), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "example", cfg.Repository.Owner)
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("repository: [unclosed"), 0o644))

	_, err := Load(path)
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestValidate_RequiresRepository(t *testing.T) {
	cfg := &Config{}
	cfg.ApplyDefaults()
	err := cfg.Validate()
	require.Error(t, err)
	require.True(t, errors.HasCategory(err, errors.CategoryConfig))
}

func TestInit_WritesLoadableConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, Init(path, false))

	// Second init without force must refuse.
	require.Error(t, Init(path, false))
	require.NoError(t, Init(path, true))

	cfg, err := Load(path)
	require.NoError(t, err)
	require.Equal(t, "google-gemini", cfg.Repository.Owner)
	require.Equal(t, []string{"main", "master", "old"}, cfg.Branches)
	require.Equal(t, "gemini-1.5-archive", cfg.ArchiveMarker)
	require.NoError(t, cfg.Validate())
}
