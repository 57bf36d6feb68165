package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetters(t *testing.T) {
	t.Setenv("LPC_TEST_STR", " value ")
	t.Setenv("LPC_TEST_INT", "42")
	t.Setenv("LPC_TEST_BADINT", "forty")
	t.Setenv("LPC_TEST_BOOL", "yes")
	t.Setenv("LPC_TEST_DUR", "1500ms")
	t.Setenv("LPC_TEST_SECS", "12")
	t.Setenv("LPC_TEST_LIST", "Manhattan, Brooklyn;;Queens")

	assert.Equal(t, "value", Get("LPC_TEST_STR", "def"))
	assert.Equal(t, "def", Get("LPC_TEST_UNSET", "def"))
	assert.Equal(t, 42, GetInt("LPC_TEST_INT", 1))
	assert.Equal(t, 1, GetInt("LPC_TEST_BADINT", 1))
	assert.True(t, GetBool("LPC_TEST_BOOL", false))
	assert.True(t, GetBool("LPC_TEST_UNSET", true))
	assert.Equal(t, 1500*time.Millisecond, GetDuration("LPC_TEST_DUR", time.Second))
	assert.Equal(t, 12*time.Second, GetDuration("LPC_TEST_SECS", time.Second))
	assert.Equal(t, time.Second, GetDuration("LPC_TEST_UNSET", time.Second))
	assert.Equal(t, []string{"Manhattan", "Brooklyn", "Queens"}, GetList("LPC_TEST_LIST"))
	assert.Nil(t, GetList("LPC_TEST_UNSET"))
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "test.env")
	require.NoError(t, os.WriteFile(path, []byte("LPC_TEST_FROM_FILE=loaded\n"), 0o600))
	t.Setenv("LPC_TEST_FROM_FILE", "")
	require.NoError(t, os.Unsetenv("LPC_TEST_FROM_FILE"))

	require.NoError(t, Load(path))
	assert.Equal(t, "loaded", os.Getenv("LPC_TEST_FROM_FILE"))

	assert.NoError(t, Load(filepath.Join(dir, "missing.env")))
}
