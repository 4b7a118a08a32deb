package credential_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/sfbridge/login-bridge/credential"
	"github.com/sfbridge/login-bridge/internal/errors"
	"github.com/stretchr/testify/require"
)

const testInstance = "eu-login-1"

func writeInstanceFile(t *testing.T, folder, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(folder, testInstance+".authurl"), []byte(content), 0o600))
}

func TestResolvePrefersEnvironmentCredential(t *testing.T) {
	folder := t.TempDir()
	writeInstanceFile(t, folder, "force://file-credential")

	m := credential.NewMaterializer("force://env-credential", folder)

	cred, err := m.Resolve(testInstance)
	require.NoError(t, err)
	require.Equal(t, "force://env-credential", cred)
}

func TestResolveFallsBackToInstanceFile(t *testing.T) {
	folder := t.TempDir()
	writeInstanceFile(t, folder, "force://file-credential\n")

	m := credential.NewMaterializer("", folder)

	cred, err := m.Resolve(testInstance)
	require.NoError(t, err)
	require.Equal(t, "force://file-credential", cred)
}

func TestResolveNeitherSource(t *testing.T) {
	m := credential.NewMaterializer("", t.TempDir())

	_, err := m.Resolve(testInstance)
	require.ErrorIs(t, err, errors.ErrCredentialNotFound)
}

func TestResolveEmptyInstanceFile(t *testing.T) {
	folder := t.TempDir()
	writeInstanceFile(t, folder, "  \n")

	m := credential.NewMaterializer("", folder)

	_, err := m.Resolve(testInstance)
	require.ErrorIs(t, err, errors.ErrCredentialNotFound)
}

func TestMaterializeWritesAndCleansUp(t *testing.T) {
	folder := t.TempDir()
	m := credential.NewMaterializer("force://env-credential", folder)

	path, cleanup, err := m.Materialize(testInstance)
	require.NoError(t, err)
	require.NotNil(t, cleanup)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	require.Equal(t, "force://env-credential", string(data))

	info, err := os.Stat(path)
	require.NoError(t, err)
	require.Equal(t, os.FileMode(0o600), info.Mode().Perm())

	cleanup()
	_, err = os.Stat(path)
	require.True(t, os.IsNotExist(err))

	// cleanup is idempotent
	cleanup()
}

func TestMaterializePathsAreUniquePerRequest(t *testing.T) {
	folder := t.TempDir()
	m := credential.NewMaterializer("force://env-credential", folder)

	first, cleanupFirst, err := m.Materialize(testInstance)
	require.NoError(t, err)
	defer cleanupFirst()

	second, cleanupSecond, err := m.Materialize(testInstance)
	require.NoError(t, err)
	defer cleanupSecond()

	require.NotEqual(t, first, second)
}
