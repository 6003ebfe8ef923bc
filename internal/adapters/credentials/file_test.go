package credentials

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func newTestFile(t *testing.T) *File {
	t.Helper()
	return NewFile(filepath.Join(t.TempDir(), "passwords.txt")).WithCost(bcrypt.MinCost)
}

func TestFile_SetPasswordAndVerify(t *testing.T) {
	f := newTestFile(t)

	require.NoError(t, f.SetPassword("grace", "hopper"))
	require.NoError(t, f.SetPassword("ada", "engine"))

	assert.NoError(t, f.Verify("grace", "hopper"))
	assert.ErrorIs(t, f.Verify("grace", "wrong"), ErrInvalidCredentials)
	assert.ErrorIs(t, f.Verify("nobody", "hopper"), ErrInvalidCredentials)

	users, err := f.Users()
	require.NoError(t, err)
	assert.Equal(t, []string{"ada", "grace"}, users)
}

func TestFile_StoresHashesOnly(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, f.SetPassword("grace", "hopper"))

	content, err := os.ReadFile(f.path)
	require.NoError(t, err)
	assert.False(t, strings.Contains(string(content), "hopper"))
	assert.True(t, strings.HasPrefix(string(content), "grace:$2a$"))
}

func TestFile_ChangePassword(t *testing.T) {
	f := newTestFile(t)
	require.NoError(t, f.SetPassword("grace", "hopper"))
	require.NoError(t, f.SetPassword("grace", "cobol"))

	assert.NoError(t, f.Verify("grace", "cobol"))
	assert.True(t, errors.Is(f.Verify("grace", "hopper"), ErrInvalidCredentials))
}

func TestFile_MissingFileHasNoUsers(t *testing.T) {
	f := newTestFile(t)

	users, err := f.Users()
	require.NoError(t, err)
	assert.Empty(t, users)
	assert.ErrorIs(t, f.Verify("grace", "hopper"), ErrInvalidCredentials)
}
