package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/require"

	"go.appointy.com/charql/internal/catalog"
)

func newConf(t *testing.T, args ...string) *viper.Viper {
	flags := pflag.NewFlagSet("test", pflag.ContinueOnError)
	RegisterFlags(flags)
	require.NoError(t, flags.Parse(args))

	conf := viper.New()
	require.NoError(t, conf.BindPFlags(flags))
	conf.SetEnvPrefix(EnvPrefix)
	conf.AutomaticEnv()
	return conf
}

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(newConf(t))
	require.NoError(t, err)

	require.Equal(t, &Config{
		Addr:            ":4000",
		BaseURL:         catalog.DefaultBaseURL,
		Env:             "dev",
		UpstreamTimeout: 0,
		ReadTimeout:     10 * time.Second,
		WriteTimeout:    30 * time.Second,
		ShutdownTimeout: 5 * time.Second,
	}, cfg)
}

func TestLoadPrecedence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "charql.yaml")
	require.NoError(t, os.WriteFile(path, []byte("addr: \":5000\"\nenv: staging\nupstream_timeout: 3s\n"), 0o600))

	t.Setenv("CHARQL_ENV", "prod")

	conf := newConf(t, "--log_level=warn", "--upstream_timeout=7s")
	conf.SetConfigFile(path)
	require.NoError(t, conf.ReadInConfig())

	cfg, err := Load(conf)
	require.NoError(t, err)
	require.Equal(t, ":5000", cfg.Addr)
	require.Equal(t, "prod", cfg.Env)
	require.Equal(t, "warn", cfg.LogLevel)
	require.Equal(t, 7*time.Second, cfg.UpstreamTimeout)
}

func TestLoadInvalid(t *testing.T) {
	tests := map[string][]string{
		"env":              {"--env=qa"},
		"base url":         {"--base_url=not a url"},
		"addr":             {"--addr="},
		"log level":        {"--log_level=loud"},
		"shutdown timeout": {"--shutdown_timeout=0s"},
		"negative timeout": {"--upstream_timeout=-1s"},
	}

	for name, args := range tests {
		t.Run(name, func(t *testing.T) {
			_, err := Load(newConf(t, args...))
			require.Error(t, err)
			require.Contains(t, err.Error(), "invalid configuration")
		})
	}
}
