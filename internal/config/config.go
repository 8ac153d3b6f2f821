package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/viper"

	"github.com/axonops/authadm/pkg/errors"
)

// Config represents the complete configuration structure
type Config struct {
	Database  DatabaseConfig  `mapstructure:"database"`
	Password  PasswordConfig  `mapstructure:"password"`
	UserModel UserModelConfig `mapstructure:"user_model"`
	Models    []ModelConfig   `mapstructure:"models"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

// DatabaseConfig contains the auth store connection settings
type DatabaseConfig struct {
	Driver      string `mapstructure:"driver"`
	DSN         string `mapstructure:"dsn"`
	TimeoutSecs int    `mapstructure:"timeout"`
}

func (d DatabaseConfig) Timeout() time.Duration {
	return time.Duration(d.TimeoutSecs) * time.Second
}

// PasswordConfig contains password hashing and policy settings
type PasswordConfig struct {
	BcryptCost int `mapstructure:"bcrypt_cost"`
	MinLength  int `mapstructure:"min_length"`
}

// FieldConfig describes one field of the active user model
type FieldConfig struct {
	Name   string `mapstructure:"name"`
	Unique bool   `mapstructure:"unique"`
}

// UserModelConfig describes the swappable user model. RequiredFields is
// deliberately untyped: the model checks must be able to report a scalar
// where a list was expected instead of failing to decode.
type UserModelConfig struct {
	Name           string        `mapstructure:"name"`
	VerboseName    string        `mapstructure:"verbose_name"`
	UsernameField  string        `mapstructure:"username_field"`
	RequiredFields interface{}   `mapstructure:"required_fields"`
	Fields         []FieldConfig `mapstructure:"fields"`
}

// RequiredFieldsList returns the configured required fields when they are
// a proper list. ok is false when the setting has any other shape.
func (u UserModelConfig) RequiredFieldsList() ([]string, bool) {
	switch v := u.RequiredFields.(type) {
	case nil:
		return nil, true
	case []string:
		return v, true
	case []interface{}:
		fields := make([]string, 0, len(v))
		for _, item := range v {
			s, ok := item.(string)
			if !ok {
				return nil, false
			}
			fields = append(fields, s)
		}
		return fields, true
	default:
		return nil, false
	}
}

// HasField reports whether the user model declares the named field
func (u UserModelConfig) HasField(name string) bool {
	for _, f := range u.Fields {
		if f.Name == name {
			return true
		}
	}
	return false
}

// FieldIsUnique reports whether the named field is declared unique
func (u UserModelConfig) FieldIsUnique(name string) bool {
	for _, f := range u.Fields {
		if f.Name == name {
			return f.Unique
		}
	}
	return false
}

// PermissionConfig is one custom permission declared on a model
type PermissionConfig struct {
	Codename string `mapstructure:"codename"`
	Name     string `mapstructure:"name"`
}

// ModelConfig declares an additional permission-bearing model. A nil
// DefaultPermissions means the standard add/change/delete set; an empty
// list disables default permissions for the model.
type ModelConfig struct {
	App                string             `mapstructure:"app"`
	Name               string             `mapstructure:"name"`
	VerboseName        string             `mapstructure:"verbose_name"`
	DefaultPermissions *[]string          `mapstructure:"default_permissions"`
	Permissions        []PermissionConfig `mapstructure:"permissions"`
}

// LoggingConfig contains logging configuration
type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// DefaultConfig returns a configuration with default values
func DefaultConfig() *Config {
	return &Config{
		Database: DatabaseConfig{
			Driver:      "sqlite",
			DSN:         "authadm.db",
			TimeoutSecs: 30,
		},
		Password: PasswordConfig{
			BcryptCost: 12,
			MinLength:  0,
		},
		UserModel: UserModelConfig{
			Name:           "auth.user",
			VerboseName:    "user",
			UsernameField:  "username",
			RequiredFields: []string{"email"},
			Fields: []FieldConfig{
				{Name: "username", Unique: true},
				{Name: "email"},
				{Name: "password"},
			},
		},
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stdout",
		},
	}
}

// Load reads configuration from file and environment variables
func Load(configPath string) (*Config, error) {
	config := DefaultConfig()

	v := viper.New()
	v.SetConfigType("toml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.SetConfigName("config")
		v.AddConfigPath("/etc/authadm")
		v.AddConfigPath("./configs")
		v.AddConfigPath(".")
	}

	v.SetEnvPrefix("AUTHADM")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	bindEnvironmentVariables(v)
	setDefaults(v, config)

	if err := v.ReadInConfig(); err != nil {
		// If config file is explicitly specified, fail on read error
		if configPath != "" {
			return nil, errors.NewConfigError("", fmt.Sprintf("failed to read config file %s: %v", configPath, err), nil)
		}
		// Otherwise, continue with defaults and environment variables
	}

	if err := v.Unmarshal(config); err != nil {
		return nil, errors.NewConfigError("", "failed to unmarshal config", err)
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// bindEnvironmentVariables binds specific environment variables for compatibility
func bindEnvironmentVariables(v *viper.Viper) {
	// Database environment variables (compatible with common deployment tooling)
	v.BindEnv("database.dsn", "DATABASE_URL", "AUTHADM_DATABASE_DSN")
	v.BindEnv("database.driver", "AUTHADM_DATABASE_DRIVER")
	v.BindEnv("database.timeout", "AUTHADM_DATABASE_TIMEOUT")

	// Password policy environment variables
	v.BindEnv("password.bcrypt_cost", "AUTHADM_PASSWORD_BCRYPT_COST")
	v.BindEnv("password.min_length", "AUTHADM_PASSWORD_MIN_LENGTH")

	// Logging environment variables
	v.BindEnv("logging.level", "AUTHADM_LOG_LEVEL")
	v.BindEnv("logging.format", "AUTHADM_LOG_FORMAT")
	v.BindEnv("logging.output", "AUTHADM_LOG_OUTPUT")
}

// setDefaults sets default values in viper
func setDefaults(v *viper.Viper, config *Config) {
	v.SetDefault("database.driver", config.Database.Driver)
	v.SetDefault("database.dsn", config.Database.DSN)
	v.SetDefault("database.timeout", config.Database.TimeoutSecs)
	v.SetDefault("password.bcrypt_cost", config.Password.BcryptCost)
	v.SetDefault("password.min_length", config.Password.MinLength)
	v.SetDefault("user_model.name", config.UserModel.Name)
	v.SetDefault("user_model.verbose_name", config.UserModel.VerboseName)
	v.SetDefault("user_model.username_field", config.UserModel.UsernameField)
	v.SetDefault("user_model.required_fields", config.UserModel.RequiredFields)
	v.SetDefault("logging.level", config.Logging.Level)
	v.SetDefault("logging.format", config.Logging.Format)
	v.SetDefault("logging.output", config.Logging.Output)
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	switch c.Database.Driver {
	case "sqlite", "postgres":
	default:
		return errors.NewConfigError("database.driver", fmt.Sprintf("unsupported driver: %s", c.Database.Driver), nil)
	}

	if c.Database.DSN == "" {
		return errors.NewConfigError("database.dsn", "DSN cannot be empty", nil)
	}

	if c.Database.TimeoutSecs <= 0 {
		return errors.NewConfigError("database.timeout", "timeout must be positive", nil)
	}

	// bcrypt rejects costs outside [4, 31]
	if c.Password.BcryptCost < 4 || c.Password.BcryptCost > 31 {
		return errors.NewConfigError("password.bcrypt_cost", fmt.Sprintf("bcrypt cost must be between 4 and 31, got %d", c.Password.BcryptCost), nil)
	}

	if c.Password.MinLength < 0 {
		return errors.NewConfigError("password.min_length", "min_length cannot be negative", nil)
	}

	if c.UserModel.UsernameField == "" {
		return errors.NewConfigError("user_model.username_field", "username_field cannot be empty", nil)
	}

	for _, model := range c.Models {
		if model.App == "" || model.Name == "" {
			return errors.NewConfigError("models", "each model requires both app and name", nil)
		}
	}

	// Validate logging configuration
	validLevels := map[string]bool{
		"debug": true, "info": true, "warn": true, "error": true, "fatal": true, "panic": true,
	}
	if !validLevels[strings.ToLower(c.Logging.Level)] {
		return errors.NewConfigError("logging.level", fmt.Sprintf("invalid log level: %s", c.Logging.Level), nil)
	}

	validFormats := map[string]bool{"text": true, "json": true}
	if !validFormats[strings.ToLower(c.Logging.Format)] {
		return errors.NewConfigError("logging.format", fmt.Sprintf("invalid log format: %s", c.Logging.Format), nil)
	}

	// Validate output path if it's a file
	if c.Logging.Output != "stdout" && c.Logging.Output != "stderr" {
		dir := filepath.Dir(c.Logging.Output)
		if _, err := os.Stat(dir); os.IsNotExist(err) {
			return errors.NewConfigError("logging.output", fmt.Sprintf("log output directory does not exist: %s", dir), err)
		}
	}

	return nil
}
