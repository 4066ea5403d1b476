package config

import (
	"errors"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds the application configuration
type Config struct {
	API         APIConfig
	Chat        ChatConfig
	Credentials CredentialsConfig
	Log         LogConfig
}

// APIConfig holds the assistant backend configuration
type APIConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// ChatConfig holds chat defaults
type ChatConfig struct {
	TopK int `mapstructure:"top_k"`
}

// CredentialsConfig locates the persistent token storage
type CredentialsConfig struct {
	Path string `mapstructure:"path"`
}

// LogConfig holds the logging configuration
type LogConfig struct {
	Level string `mapstructure:"level"`
}

const envPrefix = "MEMORIA"

func setDefaults(v *viper.Viper) {
	v.SetDefault("api.base_url", "http://127.0.0.1:5005")
	v.SetDefault("api.timeout", 30*time.Second)
	v.SetDefault("chat.top_k", 4)
	v.SetDefault("credentials.path", "memoria.db")
	v.SetDefault("log.level", "info")
}

// Load loads the configuration from config.yaml (or the file named by
// CONFIG_PATH), then applies MEMORIA_* environment overrides. A missing config
// file is not an error; defaults apply.
func Load() (*Config, error) {
	// .env is optional
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)

	if path := os.Getenv("CONFIG_PATH"); path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	return &config, nil
}
