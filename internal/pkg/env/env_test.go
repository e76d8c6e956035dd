package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnvPrecedence(t *testing.T) {
	t.Setenv("REVIEWDESK_TEST_KEY", "from-os")
	Env = map[string]string{}
	assert.Equal(t, "from-os", GetEnv("REVIEWDESK_TEST_KEY", "def"))

	Env = map[string]string{"REVIEWDESK_TEST_KEY": "from-file"}
	assert.Equal(t, "from-file", GetEnv("REVIEWDESK_TEST_KEY", "def"))

	assert.Equal(t, "def", GetEnv("REVIEWDESK_TEST_MISSING", "def"))
	Env = nil
}

func TestGetEnvIntAndDuration(t *testing.T) {
	Env = map[string]string{
		"POOL":    "25",
		"BROKEN":  "many",
		"TTL":     "90m",
		"BAD_TTL": "soon",
	}
	defer func() { Env = nil }()

	assert.Equal(t, 25, GetEnvInt("POOL", 10))
	assert.Equal(t, 10, GetEnvInt("BROKEN", 10))
	assert.Equal(t, 7, GetEnvInt("UNSET_POOL", 7))

	assert.Equal(t, 90*time.Minute, GetEnvDuration("TTL", time.Hour))
	assert.Equal(t, time.Hour, GetEnvDuration("BAD_TTL", time.Hour))
}

func TestSetupEnvFile(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("APP_ENV=dev\nDB_DRIVER=sqlite\n"), 0o600))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(dir))
	defer func() {
		_ = os.Chdir(wd)
		Env = nil
	}()

	SetupEnvFile()
	assert.Equal(t, "sqlite", GetEnv("DB_DRIVER", "mysql"))
	assert.True(t, IsDev())
}
