// Package config resolves and loads the repository configuration:
// where the `.git` directory and its objects live, and the settings
// stored in the `config` ini file inside it.
package config

import (
	"os"
	"path/filepath"

	"golang.org/x/xerrors"
	"gopkg.in/ini.v1"
)

// Env vars honored while resolving a repository's configuration.
// GIT_CONFIG_NOSYSTEM isn't among them: this package never reads a
// system-level config file in the first place (see LoadConfig), so
// there's nothing for that variable to disable.
const (
	EnvGitDir       = "GIT_DIR"
	EnvGitObjectDir = "GIT_OBJECT_DIRECTORY"
)

const defaultDotGitDirName = ".git"

// Config holds the resolved paths and settings for a repository.
type Config struct {
	// GitDirPath is the absolute path of the `.git` directory.
	GitDirPath string
	// ObjectDirPath is the absolute path of the objects directory,
	// normally GitDirPath/objects.
	ObjectDirPath string
	// LocalConfigPath is the absolute path of the `config` file inside
	// GitDirPath.
	LocalConfigPath string

	ini *ini.File
}

// LoadConfig resolves a repository's configuration starting from
// workdir, honoring GIT_DIR and GIT_OBJECT_DIRECTORY overrides, and
// loads the ini file found at LocalConfigPath if it exists. It does
// not error out if the config file is missing, since that's a valid
// state before `init` has run.
func LoadConfig(workdir string) (*Config, error) {
	gitDir := os.Getenv(EnvGitDir)
	if gitDir == "" {
		gitDir = filepath.Join(workdir, defaultDotGitDirName)
	}
	if !filepath.IsAbs(gitDir) {
		abs, err := filepath.Abs(gitDir)
		if err != nil {
			return nil, xerrors.Errorf("resolving %s: %w", EnvGitDir, err)
		}
		gitDir = abs
	}

	objDir := os.Getenv(EnvGitObjectDir)
	if objDir == "" {
		objDir = filepath.Join(gitDir, "objects")
	}

	cfg := &Config{
		GitDirPath:      gitDir,
		ObjectDirPath:   objDir,
		LocalConfigPath: filepath.Join(gitDir, "config"),
	}

	f, err := ini.LoadSources(ini.LoadOptions{Loose: true}, cfg.LocalConfigPath)
	if err != nil {
		return nil, xerrors.Errorf("loading %s: %w", cfg.LocalConfigPath, err)
	}
	cfg.ini = f

	return cfg, nil
}

// Section returns an ini section of the loaded config, creating it if
// it doesn't exist yet.
func (c *Config) Section(name string) *ini.Section {
	return c.ini.Section(name)
}

// DefaultFile returns the ini representation of a brand-new repository
// config, as written by `init`.
func DefaultFile() *ini.File {
	f := ini.Empty()
	core, _ := f.NewSection("core")
	_, _ = core.NewKey("repositoryformatversion", "0")
	_, _ = core.NewKey("filemode", "true")
	_, _ = core.NewKey("bare", "false")
	_, _ = core.NewKey("logallrefupdates", "true")
	return f
}
