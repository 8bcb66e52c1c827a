package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/ougirez/elections/internal/pkg/constants"
	"github.com/spf13/viper"
)

const envPrefix = "ELECTION"

// Load reads the optional config file, a local .env and ELECTION_* environment
// variables into the global viper instance. Values are read back with viper.Get*
// and the key names from the constants package.
func Load(path string) error {
	// .env is optional, a missing file is not an error.
	_ = godotenv.Load()

	setDefaults()

	viper.SetEnvPrefix(envPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if path == "" {
		return validate()
	}

	viper.SetConfigFile(path)
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("viper.ReadInConfig: %w", err)
		}
	}

	return validate()
}

func setDefaults() {
	viper.SetDefault(constants.ViperHTTPAddrKey, ":8080")
	viper.SetDefault(constants.ViperRequestTimeoutKey, constants.DefaultRequestTimeout)
	viper.SetDefault(constants.ViperCORSAllowOriginsKey, []string{"http://localhost:3000"})
	viper.SetDefault(constants.ViperTokenTTLKey, constants.DefaultTokenTTL)
	viper.SetDefault(constants.ViperStoreDriverKey, constants.StoreDriverPostgres)
	viper.SetDefault(constants.ViperPostgresMaxConnKey, 10)
	viper.SetDefault(constants.ViperPostgresConnectKey, 30*time.Second)
	viper.SetDefault(constants.ViperLogLevelKey, "info")
	viper.SetDefault(constants.ViperLogDevelopmentKey, false)
}

func validate() error {
	if viper.GetString(constants.ViperSecretKey) == "" {
		return fmt.Errorf("%s is required", constants.ViperSecretKey)
	}

	switch driver := viper.GetString(constants.ViperStoreDriverKey); driver {
	case constants.StoreDriverPostgres:
		if viper.GetString(constants.ViperPostgresDSNKey) == "" {
			return fmt.Errorf("%s is required for the %s store", constants.ViperPostgresDSNKey, driver)
		}
	case constants.StoreDriverMemory:
	default:
		return fmt.Errorf("unknown store driver %q", driver)
	}

	return nil
}

// AllowOrigins tolerates both a YAML list and a comma separated env value.
func AllowOrigins() []string {
	raw := viper.GetStringSlice(constants.ViperCORSAllowOriginsKey)
	origins := make([]string, 0, len(raw))
	for _, item := range raw {
		for _, origin := range strings.Split(item, ",") {
			if origin = strings.TrimSpace(origin); origin != "" {
				origins = append(origins, origin)
			}
		}
	}
	return origins
}
