package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/colinmarc/gitgo/ginternals/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaultPaths(t *testing.T) {
	workdir := t.TempDir()

	cfg, err := config.LoadConfig(workdir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(workdir, ".git"), cfg.GitDirPath)
	assert.Equal(t, filepath.Join(workdir, ".git", "objects"), cfg.ObjectDirPath)
	assert.Equal(t, filepath.Join(workdir, ".git", "config"), cfg.LocalConfigPath)
}

func TestLoadConfigHonorsGitDirEnv(t *testing.T) {
	workdir := t.TempDir()
	customDir := filepath.Join(workdir, "custom-git-dir")

	t.Setenv(config.EnvGitDir, customDir)

	cfg, err := config.LoadConfig(workdir)
	require.NoError(t, err)
	assert.Equal(t, customDir, cfg.GitDirPath)
	assert.Equal(t, filepath.Join(customDir, "objects"), cfg.ObjectDirPath)
}

func TestLoadConfigHonorsObjectDirEnv(t *testing.T) {
	workdir := t.TempDir()
	customObjDir := filepath.Join(workdir, "alt-objects")

	t.Setenv(config.EnvGitObjectDir, customObjDir)

	cfg, err := config.LoadConfig(workdir)
	require.NoError(t, err)
	assert.Equal(t, customObjDir, cfg.ObjectDirPath)
}

func TestLoadConfigToleratesMissingFile(t *testing.T) {
	workdir := t.TempDir()

	_, err := config.LoadConfig(workdir)
	require.NoError(t, err)
}

func TestLoadConfigReadsExistingFile(t *testing.T) {
	workdir := t.TempDir()
	gitDir := filepath.Join(workdir, ".git")
	require.NoError(t, os.MkdirAll(gitDir, 0o750))
	content := "[core]\n\trepositoryformatversion = 0\n\tbare = true\n"
	require.NoError(t, os.WriteFile(filepath.Join(gitDir, "config"), []byte(content), 0o644))

	cfg, err := config.LoadConfig(workdir)
	require.NoError(t, err)
	assert.Equal(t, "true", cfg.Section("core").Key("bare").String())
}

func TestDefaultFile(t *testing.T) {
	t.Parallel()

	f := config.DefaultFile()
	core := f.Section("core")
	assert.Equal(t, "0", core.Key("repositoryformatversion").String())
	assert.Equal(t, "true", core.Key("filemode").String())
	assert.Equal(t, "false", core.Key("bare").String())
	assert.Equal(t, "true", core.Key("logallrefupdates").String())
}
