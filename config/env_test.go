package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestReadDotEnv(t *testing.T) {
	path := writeFile(t, ".env", `
# database
db_driver = postgres
JWT_SECRET="top secret"
REDIS_ADDR='redis:6379'
not-a-pair
=no-key
`)
	vals, err := readDotEnv(path)
	require.NoError(t, err)

	assert.Equal(t, "postgres", vals["DB_DRIVER"])
	assert.Equal(t, "top secret", vals["JWT_SECRET"])
	assert.Equal(t, "redis:6379", vals["REDIS_ADDR"])
	assert.NotContains(t, vals, "NOT-A-PAIR")
}

func TestReadDotEnvMissingFileIsEmpty(t *testing.T) {
	vals, err := readDotEnv(filepath.Join(t.TempDir(), "nope.env"))
	require.NoError(t, err)
	assert.Empty(t, vals)
}

func TestReadJSONConfig(t *testing.T) {
	path := writeFile(t, "app.json", `{"app_port": "9999", "workers": 4}`)
	vals, err := readJSONConfig(path)
	require.NoError(t, err)

	assert.Equal(t, "9999", vals["APP_PORT"])
	// Non-string values are ignored rather than stringified.
	assert.NotContains(t, vals, "WORKERS")
}

func TestReadJSONConfigRejectsGarbage(t *testing.T) {
	path := writeFile(t, "app.json", `{broken`)
	_, err := readJSONConfig(path)
	assert.Error(t, err)
}

func TestEnvironmentVariableWins(t *testing.T) {
	t.Setenv("APP_PORT", "7777")
	assert.Equal(t, "7777", Get("APP_PORT", "8080"))
}

func TestGetFallsBack(t *testing.T) {
	assert.Equal(t, "zzz", Get("VASTRA_TEST_UNSET_KEY", "zzz"))
}
