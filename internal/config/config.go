// internal/config/config.go
package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config represents the application configuration
type Config struct {
	Board   BoardConfig   `mapstructure:"board"`
	Probe   ProbeConfig   `mapstructure:"probe"`
	Logging LoggingConfig `mapstructure:"logging"`
}

// BoardConfig identifies the USB-to-serial hub chips of the supported
// board revisions. Defaults match the FTDI quad-UART chip the rigs use.
type BoardConfig struct {
	VendorID  int `mapstructure:"vendor_id" validate:"required"`
	ProductID int `mapstructure:"product_id" validate:"required"`
}

// ProbeConfig controls the per-channel verification exchange.
type ProbeConfig struct {
	BaudRate       int           `mapstructure:"baud_rate"`
	ReadTimeout    time.Duration `mapstructure:"read_timeout"`
	ReadBuffer     int           `mapstructure:"read_buffer"`
	OverallTimeout time.Duration `mapstructure:"overall_timeout"` // 0 disables the run deadline
}

// LoggingConfig represents logging configuration
type LoggingConfig struct {
	Level      string `mapstructure:"level" validate:"required"`
	Format     string `mapstructure:"format"`
	Output     string `mapstructure:"output"`
	MaxSize    int    `mapstructure:"max_size"`
	MaxBackups int    `mapstructure:"max_backups"`
	MaxAge     int    `mapstructure:"max_age"`
	Compress   bool   `mapstructure:"compress"`
}

// Load loads configuration from an optional YAML file and environment
// variables. An empty path means defaults plus environment only; a
// missing explicit file is an error.
func Load(path string) (*Config, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	// Environment variable support
	v.SetEnvPrefix("PORTMAP")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Board defaults: FTDI FT4232H quad UART (0x0403:0x6011)
	v.SetDefault("board.vendor_id", 1027)
	v.SetDefault("board.product_id", 24593)

	// Probe defaults
	v.SetDefault("probe.baud_rate", 115200)
	v.SetDefault("probe.read_timeout", "1s")
	v.SetDefault("probe.read_buffer", 1024)
	v.SetDefault("probe.overall_timeout", "0s")

	// Logging defaults: stderr so stdout stays parseable JSON
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")
	v.SetDefault("logging.output", "stderr")
	v.SetDefault("logging.max_size", 100)
	v.SetDefault("logging.max_backups", 3)
	v.SetDefault("logging.max_age", 28)
	v.SetDefault("logging.compress", true)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Board.VendorID <= 0 || config.Board.VendorID > 0xFFFF {
		return fmt.Errorf("board.vendor_id must be a 16-bit USB identifier")
	}
	if config.Board.ProductID <= 0 || config.Board.ProductID > 0xFFFF {
		return fmt.Errorf("board.product_id must be a 16-bit USB identifier")
	}
	if config.Probe.BaudRate <= 0 {
		return fmt.Errorf("probe.baud_rate must be positive")
	}
	if config.Probe.ReadTimeout <= 0 {
		return fmt.Errorf("probe.read_timeout must be positive")
	}
	if config.Probe.ReadBuffer <= 0 {
		return fmt.Errorf("probe.read_buffer must be positive")
	}
	if config.Probe.OverallTimeout < 0 {
		return fmt.Errorf("probe.overall_timeout must not be negative")
	}

	validLevels := []string{"debug", "info", "warn", "error", "fatal"}
	isValidLevel := false
	for _, level := range validLevels {
		if config.Logging.Level == level {
			isValidLevel = true
			break
		}
	}
	if !isValidLevel {
		return fmt.Errorf("logging.level must be one of: %v", validLevels)
	}

	return nil
}
