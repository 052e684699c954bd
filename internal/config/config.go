package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/memberpulse/memberpulse/internal/types"
	"github.com/spf13/viper"
)

type Configuration struct {
	Deployment DeploymentConfig `validate:"required"`
	Server     ServerConfig     `validate:"required"`
	Logging    LoggingConfig    `validate:"required"`
	Cache      CacheConfig
	Billing    BillingConfig `validate:"required"`
	AdSpend    AdSpendConfig
	Cron       CronConfig
}

type DeploymentConfig struct {
	Mode types.RunMode `validate:"required"`
}

type ServerConfig struct {
	Address string `validate:"required"`
}

type LoggingConfig struct {
	Level types.LogLevel `validate:"required"`
}

type CacheConfig struct {
	Enabled bool
}

// BillingConfig configures the upstream billing-provider client and the
// flat per-seat pricing used for revenue figures.
type BillingConfig struct {
	APIKey  string `mapstructure:"api_key"`
	BaseURL string `mapstructure:"base_url" validate:"required"`

	// PageSize is the fixed page size for provider list calls
	PageSize int `mapstructure:"page_size" validate:"required,gt=0"`

	// MaxPages is the hard ceiling on pages fetched per listing.
	// Hitting it yields a partial dataset plus a warning, never an error.
	MaxPages int `mapstructure:"max_pages" validate:"required,gt=0"`

	// MonthlyPrice is the flat per-seat monthly price in major currency units
	MonthlyPrice float64 `mapstructure:"monthly_price" validate:"required,gt=0"`
	Currency     string  `validate:"required"`
}

// AdSpendConfig configures the marketing-spend collaborator. The engine
// substitutes MonthlyFallback whenever the collaborator is unreachable.
type AdSpendConfig struct {
	AccessToken     string  `mapstructure:"access_token"`
	AccountID       string  `mapstructure:"account_id"`
	MonthlyFallback float64 `mapstructure:"monthly_fallback"`
}

type CronConfig struct {
	Secret string
}

func NewConfig() (*Configuration, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./internal/config")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/memberpulse")

	v.SetEnvPrefix("MEMBERPULSE")
	v.SetEnvKeyReplacer(strings.NewReplacer(
		".", "_",
		"-", "_",
	))
	v.AutomaticEnv()

	setDefaults(v)

	if err := v.ReadInConfig(); err != nil {
		if !errors.As(err, &viper.ConfigFileNotFoundError{}) {
			return nil, err
		}
	} else {
		fmt.Printf("Using config file: %s\n", v.ConfigFileUsed())
	}

	var config Configuration
	if err := v.Unmarshal(&config); err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &config, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("deployment.mode", types.ModeLocal)
	v.SetDefault("server.address", ":8080")
	v.SetDefault("logging.level", types.LogLevelInfo)
	v.SetDefault("cache.enabled", true)
	v.SetDefault("billing.base_url", "https://api.stripe.com/v1")
	v.SetDefault("billing.page_size", 100)
	v.SetDefault("billing.max_pages", 100)
	v.SetDefault("billing.monthly_price", 149)
	v.SetDefault("billing.currency", "dkk")
	v.SetDefault("adspend.monthly_fallback", 15000)
}

func (c Configuration) Validate() error {
	validate := validator.New()
	return validate.Struct(c)
}

// GetDefaultConfig returns a default configuration for local development
// and tests. It mirrors setDefaults without touching the filesystem.
func GetDefaultConfig() *Configuration {
	return &Configuration{
		Deployment: DeploymentConfig{Mode: types.ModeLocal},
		Server:     ServerConfig{Address: ":8080"},
		Logging:    LoggingConfig{Level: types.LogLevelInfo},
		Cache:      CacheConfig{Enabled: true},
		Billing: BillingConfig{
			BaseURL:      "https://api.stripe.com/v1",
			PageSize:     100,
			MaxPages:     100,
			MonthlyPrice: 149,
			Currency:     "dkk",
		},
		AdSpend: AdSpendConfig{MonthlyFallback: 15000},
	}
}
