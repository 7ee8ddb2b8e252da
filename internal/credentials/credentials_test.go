package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestProviderIsValid(t *testing.T) {
	assert.True(t, ProviderGitHub.IsValid())
	assert.True(t, ProviderDockerHub.IsValid())
	assert.True(t, ProviderTravis.IsValid())
	assert.False(t, Provider("aws").IsValid())
}

func TestSetGetRoundtrip(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".svcgen.ini")
	manager, err := NewManager(configPath)
	require.NoError(t, err)

	creds := &Credentials{User: "alice", Secret: "s3cret", Namespace: "acme"}
	require.NoError(t, manager.Set(ProviderDockerHub, creds))

	assert.True(t, manager.Has(ProviderDockerHub))
	got, err := manager.Get(ProviderDockerHub)
	require.NoError(t, err)
	assert.Equal(t, "alice", got.User)
	assert.Equal(t, "s3cret", got.Secret)
	assert.Equal(t, "acme", got.Namespace)

	// 重新加载后凭据仍然可用
	reloaded, err := NewManager(configPath)
	require.NoError(t, err)
	got, err = reloaded.Get(ProviderDockerHub)
	require.NoError(t, err)
	assert.Equal(t, "s3cret", got.Secret)
}

func TestGetMissing(t *testing.T) {
	manager, err := NewManager("")
	require.NoError(t, err)

	_, err = manager.Get(ProviderTravis)
	assert.Error(t, err)
	assert.False(t, manager.Has(ProviderTravis))
}

func TestRemove(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".svcgen.ini")
	manager, err := NewManager(configPath)
	require.NoError(t, err)

	require.NoError(t, manager.Set(ProviderGitHub, &Credentials{Secret: "tok"}))
	require.NoError(t, manager.Remove(ProviderGitHub))
	assert.False(t, manager.Has(ProviderGitHub))

	// 重复删除报错
	assert.Error(t, manager.Remove(ProviderGitHub))
}

func TestList(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".svcgen.ini")
	manager, err := NewManager(configPath)
	require.NoError(t, err)

	require.NoError(t, manager.Set(ProviderTravis, &Credentials{Secret: "t"}))
	require.NoError(t, manager.Set(ProviderGitHub, &Credentials{Secret: "g"}))

	assert.Equal(t, []Provider{ProviderGitHub, ProviderTravis}, manager.List())
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")
	t.Setenv("DOCKERHUB_USER", "envuser")
	t.Setenv("DOCKERHUB_PASSWORD", "envpass")

	manager, err := NewManager("")
	require.NoError(t, err)

	got, err := manager.Get(ProviderGitHub)
	require.NoError(t, err)
	assert.Equal(t, "env-token", got.Secret)

	got, err = manager.Get(ProviderDockerHub)
	require.NoError(t, err)
	assert.Equal(t, "envuser", got.User)
	assert.Equal(t, "envpass", got.Secret)
}

func TestFileOverridesEnv(t *testing.T) {
	t.Setenv("GITHUB_TOKEN", "env-token")

	configPath := filepath.Join(t.TempDir(), ".svcgen.ini")
	content := "[credential.github]\nsecret = file-token\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	manager, err := NewManager(configPath)
	require.NoError(t, err)

	got, err := manager.Get(ProviderGitHub)
	require.NoError(t, err)
	assert.Equal(t, "file-token", got.Secret)
}

func TestSavePreservesOtherSections(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), ".svcgen.ini")
	content := "[default]\nauthor = alice\n"
	require.NoError(t, os.WriteFile(configPath, []byte(content), 0644))

	manager, err := NewManager(configPath)
	require.NoError(t, err)
	require.NoError(t, manager.Set(ProviderGitHub, &Credentials{Secret: "tok"}))

	data, err := os.ReadFile(configPath)
	require.NoError(t, err)
	assert.Contains(t, string(data), "author")
	assert.Contains(t, string(data), "credential.github")
}
