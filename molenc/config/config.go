package config

import (
	"fmt"
	"path/filepath"
	"strings"

	internal "github.com/ZanzyTHEbar/molencoder/molenc"
	"github.com/ZanzyTHEbar/molencoder/molenc/onehot"

	"github.com/spf13/viper"
)

// Config stores all configuration of the application.
// The values are read by viper from a config file or environment variables.
type Config struct {
	Encoder   EncoderConfig   `mapstructure:"encoder"`
	Featurize FeaturizeConfig `mapstructure:"featurize"`
	Store     StoreConfig     `mapstructure:"store"`
}

// EncoderConfig stores one-hot encoder settings.
type EncoderConfig struct {
	PadLength int `mapstructure:"padLength"`
	// Charset is an explicit vocabulary, padding first (e.g. " #()=CNO").
	// Empty means resolve from the store or derive from the corpus.
	Charset  string `mapstructure:"charset"`
	Overflow string `mapstructure:"overflow"`
	Workers  int    `mapstructure:"workers"`
}

// FeaturizeConfig stores batch featurization settings.
type FeaturizeConfig struct {
	LogEvery int `mapstructure:"logEvery"`
}

// StoreConfig stores charset database connection details.
type StoreConfig struct {
	DSN         string `mapstructure:"dsn"`
	Type        string `mapstructure:"type"`
	CharsetName string `mapstructure:"charsetName"`
}

var AppConfig Config

// LoadConfig reads configuration from file or environment variables.
func LoadConfig(configPath string) (*Config, error) {
	v := viper.New()
	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		v.AddConfigPath("..")
		v.AddConfigPath(filepath.Join("etc", internal.DefaultAppName))
		v.AddConfigPath(internal.DefaultConfigPath)
		v.SetConfigName("config")
		v.SetConfigType("yaml")
	}

	v.SetDefault("encoder.padLength", internal.DefaultPadLength)
	v.SetDefault("encoder.charset", "")
	v.SetDefault("encoder.overflow", internal.DefaultOverflow)
	v.SetDefault("encoder.workers", 0)
	v.SetDefault("featurize.logEvery", internal.DefaultLogEvery)
	v.SetDefault("store.dsn", internal.DefaultStoreDSN)
	v.SetDefault("store.type", internal.DefaultStoreType)
	v.SetDefault("store.charsetName", internal.DefaultCharsetName)

	// e.g. encoder.padLength becomes MOLENC_ENCODER_PADLENGTH
	v.SetEnvPrefix(internal.DefaultAppName)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
		// Config file not found; defaults and environment apply.
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("unable to decode into struct: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	AppConfig = cfg
	return &cfg, nil
}

// Validate checks values viper cannot type-check on its own.
func (c *Config) Validate() error {
	if c.Encoder.PadLength <= 0 {
		return fmt.Errorf("encoder.padLength must be positive, got %d", c.Encoder.PadLength)
	}
	if _, err := onehot.ParseOverflow(c.Encoder.Overflow); err != nil {
		return fmt.Errorf("encoder.overflow: %w", err)
	}
	if c.Encoder.Workers < 0 {
		return fmt.Errorf("encoder.workers cannot be negative, got %d", c.Encoder.Workers)
	}
	if t := strings.ToLower(c.Store.Type); t != "libsql" && t != "memory" {
		return fmt.Errorf("store.type must be libsql or memory, got %q", c.Store.Type)
	}
	return nil
}

// EncoderOptions maps the encoder section onto onehot options. The charset
// is not included; it is resolved separately.
func (c *Config) EncoderOptions() ([]onehot.Option, error) {
	overflow, err := onehot.ParseOverflow(c.Encoder.Overflow)
	if err != nil {
		return nil, fmt.Errorf("encoder.overflow: %w", err)
	}
	return []onehot.Option{
		onehot.WithPadLength(c.Encoder.PadLength),
		onehot.WithOverflow(overflow),
	}, nil
}
