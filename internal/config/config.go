// Package config reads the server configuration from flags, environment
// variables (prefixed CHARQL_) and an optional config file.
package config

import (
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/pkg/errors"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"go.appointy.com/charql/internal/catalog"
)

// EnvPrefix is prepended to every key when read from the environment.
const EnvPrefix = "CHARQL"

// Keys, shared by flags, environment variables and config files.
const (
	KeyAddr            = "addr"
	KeyBaseURL         = "base_url"
	KeyEnv             = "env"
	KeyLogLevel        = "log_level"
	KeyUpstreamTimeout = "upstream_timeout"
	KeyReadTimeout     = "read_timeout"
	KeyWriteTimeout    = "write_timeout"
	KeyShutdownTimeout = "shutdown_timeout"
)

// Config is the validated configuration of charql serve.
type Config struct {
	Addr     string `validate:"required,hostname_port"`
	BaseURL  string `validate:"required,url"`
	Env      string `validate:"oneof=dev staging prod"`
	LogLevel string `validate:"omitempty,oneof=debug info warn error"`

	// UpstreamTimeout bounds a single upstream call. Zero disables it.
	UpstreamTimeout time.Duration `validate:"gte=0"`
	ReadTimeout     time.Duration `validate:"gte=0"`
	WriteTimeout    time.Duration `validate:"gte=0"`
	ShutdownTimeout time.Duration `validate:"gt=0"`
}

// RegisterFlags declares every key with its default on flags.
func RegisterFlags(flags *pflag.FlagSet) {
	flags.String(KeyAddr, ":4000", "Address to listen on.")
	flags.String(KeyBaseURL, catalog.DefaultBaseURL, "Root of the upstream character API.")
	flags.String(KeyEnv, "dev", "Environment, one of [dev, staging, prod]. Selects the log format.")
	flags.String(KeyLogLevel, "", "Log level override, one of [debug, info, warn, error].")
	flags.Duration(KeyUpstreamTimeout, 0, "Timeout of a single upstream call. 0 disables it.")
	flags.Duration(KeyReadTimeout, 10*time.Second, "HTTP server read timeout.")
	flags.Duration(KeyWriteTimeout, 30*time.Second, "HTTP server write timeout.")
	flags.Duration(KeyShutdownTimeout, 5*time.Second, "Time allowed for in-flight requests on shutdown.")
}

// Load reads and validates the configuration held by conf.
func Load(conf *viper.Viper) (*Config, error) {
	cfg := &Config{
		Addr:            conf.GetString(KeyAddr),
		BaseURL:         conf.GetString(KeyBaseURL),
		Env:             conf.GetString(KeyEnv),
		LogLevel:        conf.GetString(KeyLogLevel),
		UpstreamTimeout: conf.GetDuration(KeyUpstreamTimeout),
		ReadTimeout:     conf.GetDuration(KeyReadTimeout),
		WriteTimeout:    conf.GetDuration(KeyWriteTimeout),
		ShutdownTimeout: conf.GetDuration(KeyShutdownTimeout),
	}

	if err := validator.New().Struct(cfg); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}
	return cfg, nil
}
