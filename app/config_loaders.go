package guestbook

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/mitchellh/mapstructure"
	"github.com/spf13/viper"
)

type ConfigLoader interface {
	Load() (*Config, error)
}

// EnvConfigLoader loads the configuration from an optional config.yaml and
// environment variables. Variables found in a .env file are loaded into the
// environment first without overriding variables that are already set.
// Nested keys map to variables by replacing dots with underscores,
// e.g. store.driver is read from STORE_DRIVER.
type EnvConfigLoader struct {
	Mode Mode
	// ConfigPaths are searched for config.yaml.
	ConfigPaths []string
	// EnvFiles are the dotenv files to load. The default is .env.
	EnvFiles []string
}

func (l *EnvConfigLoader) Load() (*Config, error) {
	if err := godotenv.Load(l.EnvFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load env file: %w", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range l.ConfigPaths {
		v.AddConfigPath(p)
	}
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	setDefaults(v, l.Mode)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("read config: %w", err)
		}
	}

	config := &Config{}
	if err := v.Unmarshal(config,
		viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
			mapstructure.TextUnmarshallerHookFunc(),
			mapstructure.StringToTimeDurationHookFunc()),
		),
	); err != nil {
		return nil, fmt.Errorf("decode config: %w", err)
	}
	config.Mode = l.Mode
	return config, nil
}

// setDefaults registers every key so that AutomaticEnv can find it on Unmarshal.
func setDefaults(v *viper.Viper, mode Mode) {
	v.SetDefault("port", 8080)
	v.SetDefault("host", "0.0.0.0")
	v.SetDefault("shutdown_timeout", "20s")
	v.SetDefault("tls.crt", "")
	v.SetDefault("tls.key", "")
	v.SetDefault("table_name", DefaultTableName)
	v.SetDefault("store.page_size", 100)
	v.SetDefault("sqlite.file", "./guestbook.db")
	v.SetDefault("badger.dir", "./guestbook.badger")
	v.SetDefault("badger.in_memory", false)
	v.SetDefault("dynamodb.region", "")
	v.SetDefault("dynamodb.endpoint", "")
	v.SetDefault("log.level", "info")

	switch mode {
	case LambdaMode:
		v.SetDefault("store.driver", string(DynamoDBDriver))
		v.SetDefault("log.format", "json")
	default:
		v.SetDefault("store.driver", string(SQLiteDriver))
		v.SetDefault("log.format", "text")
	}
}
