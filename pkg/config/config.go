package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server    ServerConfig    `mapstructure:"server"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
	Cache     CacheConfig     `mapstructure:"cache"`
	Providers ProvidersConfig `mapstructure:"providers"`
}

type ServerConfig struct {
	Host        string `mapstructure:"host"`
	Port        int    `mapstructure:"port"`
	MetricsPort int    `mapstructure:"metrics_port"`
}

type MetricsConfig struct {
	Enabled bool `mapstructure:"enabled"`
}

type CacheConfig struct {
	ValidityHours int `mapstructure:"validity_hours"`
}

type ProvidersConfig struct {
	TimeoutSeconds int              `mapstructure:"timeout_seconds"`
	Order          []ProviderConfig `mapstructure:"order"`
}

// ProviderConfig carries one provider's registration. Position in the order
// list is the aggregation priority. Settings are decoded by each provider
// package with mapstructure.
type ProviderConfig struct {
	Name     string                 `mapstructure:"name"`
	Settings map[string]interface{} `mapstructure:"settings"`
}

func (c CacheConfig) Validity() time.Duration {
	if c.ValidityHours <= 0 {
		return 24 * time.Hour
	}
	return time.Duration(c.ValidityHours) * time.Hour
}

func (c ProvidersConfig) Timeout() time.Duration {
	if c.TimeoutSeconds <= 0 {
		return 5 * time.Second
	}
	return time.Duration(c.TimeoutSeconds) * time.Second
}

var globalConfig Config

func Load(configPath string) error {
	if err := loadConfigFile(configPath, "config", &globalConfig); err != nil {
		return fmt.Errorf("could not load main config file: %w", err)
	}

	setDefaultValues()

	return nil
}

func loadConfigFile(configPath, fileName string, out interface{}) error {
	viper.SetConfigName(fileName)
	viper.SetConfigType("yaml")
	viper.AddConfigPath(configPath)
	viper.AddConfigPath("./config")
	viper.AddConfigPath(".")

	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return fmt.Errorf("config file %s.yaml not found, using only environment variables", fileName)
		}
		return fmt.Errorf("error reading config file %s.yaml: %w", fileName, err)
	}

	if err := viper.Unmarshal(out); err != nil {
		return fmt.Errorf("failed to unmarshal %s config: %w", fileName, err)
	}

	return nil
}

func setDefaultValues() {
	if globalConfig.Server.Port == 0 {
		globalConfig.Server.Port = 8080
	}
	if globalConfig.Server.MetricsPort == 0 {
		globalConfig.Server.MetricsPort = 9090
	}
	if globalConfig.Cache.ValidityHours == 0 {
		globalConfig.Cache.ValidityHours = 24
	}
	if globalConfig.Providers.TimeoutSeconds == 0 {
		globalConfig.Providers.TimeoutSeconds = 5
	}
	if len(globalConfig.Providers.Order) == 0 {
		globalConfig.Providers.Order = defaultProviderOrder()
	}
}

// defaultProviderOrder registers the three upstream feeds in priority order.
// The AbuseIPDB key is taken from the environment; without it the adapter
// stays registered but disabled.
func defaultProviderOrder() []ProviderConfig {
	return []ProviderConfig{
		{
			Name: "abuseipdb",
			Settings: map[string]interface{}{
				"api_key": os.Getenv("ABUSEIPDB_API_KEY"),
			},
		},
		{Name: "stopforumspam"},
		{Name: "blocklist_de"},
	}
}

func GetConfig() *Config {
	return &globalConfig
}
