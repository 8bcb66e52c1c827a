package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadFromFileAndEnv(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	dir := t.TempDir()
	path := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
auth:
  secret: file-secret
store:
  driver: memory
http:
  request_timeout: 3s
`), 0o600))

	t.Setenv("ELECTION_HTTP_ADDR", ":9999")

	require.NoError(t, Load(path))
	assert.Equal(t, "file-secret", viper.GetString(constants.ViperSecretKey))
	assert.Equal(t, ":9999", viper.GetString(constants.ViperHTTPAddrKey))
	assert.Equal(t, constants.StoreDriverMemory, viper.GetString(constants.ViperStoreDriverKey))
	assert.Equal(t, 3*time.Second, viper.GetDuration(constants.ViperRequestTimeoutKey))
}

func TestLoadRequiresSecret(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("ELECTION_STORE_DRIVER", constants.StoreDriverMemory)
	assert.Error(t, Load(""))
}

func TestLoadRequiresDSNForPostgres(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	t.Setenv("ELECTION_AUTH_SECRET", "s")
	assert.Error(t, Load(""))

	t.Setenv("ELECTION_POSTGRES_DSN", "postgres://localhost/elections")
	assert.NoError(t, Load(""))
}

func TestAllowOrigins(t *testing.T) {
	viper.Reset()
	t.Cleanup(viper.Reset)

	viper.Set(constants.ViperCORSAllowOriginsKey, []string{"http://a.test, http://b.test", " ", "http://c.test"})
	assert.Equal(t, []string{"http://a.test", "http://b.test", "http://c.test"}, AllowOrigins())
}
