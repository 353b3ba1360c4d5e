package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testEnvVar = "DOCCHAT_TEST_ENV_VALUE"

func TestLoadEnv_FromDataDir(t *testing.T) {
	t.Chdir(t.TempDir())
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, EnvFileName), []byte(testEnvVar+"=from-data-dir\n"), 0o600))
	t.Setenv(testEnvVar, "")
	require.NoError(t, os.Unsetenv(testEnvVar))

	loaded, err := LoadEnv(dataDir)

	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dataDir, EnvFileName)}, loaded)
	assert.Equal(t, "from-data-dir", os.Getenv(testEnvVar))
}

func TestLoadEnv_DoesNotOverride(t *testing.T) {
	t.Chdir(t.TempDir())
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, EnvFileName), []byte(testEnvVar+"=from-file\n"), 0o600))
	t.Setenv(testEnvVar, "already-set")

	_, err := LoadEnv(dataDir)

	require.NoError(t, err)
	assert.Equal(t, "already-set", os.Getenv(testEnvVar))
}

func TestLoadEnv_WorkingDirWins(t *testing.T) {
	work := t.TempDir()
	t.Chdir(work)
	require.NoError(t, os.WriteFile(EnvFileName, []byte(testEnvVar+"=from-work\n"), 0o600))
	dataDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dataDir, EnvFileName), []byte(testEnvVar+"=from-data\n"), 0o600))
	t.Setenv(testEnvVar, "")
	require.NoError(t, os.Unsetenv(testEnvVar))

	loaded, err := LoadEnv(dataDir)

	require.NoError(t, err)
	assert.Len(t, loaded, 2)
	assert.Equal(t, "from-work", os.Getenv(testEnvVar))
}

func TestLoadEnv_NoFiles(t *testing.T) {
	t.Chdir(t.TempDir())

	loaded, err := LoadEnv(t.TempDir())

	require.NoError(t, err)
	assert.Empty(t, loaded)
}
