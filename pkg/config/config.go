// Package config holds the tool settings, read from tidepool.yaml, the
// TIDEPOOL_* environment and command-line flags, in increasing order of
// precedence. The environment descriptor is not part of it.
package config

import (
	"errors"
	"runtime"
	"strings"

	log "github.com/sirupsen/logrus"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/salsadigitalauorg/tidepool/pkg/secrets"
)

var v = viper.New()

var C *Config

type Config struct {
	LogLevel     string `mapstructure:"log-level"`
	StrictVars   bool   `mapstructure:"strict-vars"`
	PresetsFile  string `mapstructure:"presets-file"`
	TemplatesDir string `mapstructure:"templates-dir"`
	SkipResolver bool   `mapstructure:"skip-resolver"`
	OS           string `mapstructure:"os"`
	SecretLength int    `mapstructure:"secret-length"`
}

func init() {
	v.SetDefault("log-level", "info")
	v.SetDefault("strict-vars", false)
	v.SetDefault("presets-file", "")
	v.SetDefault("templates-dir", "")
	v.SetDefault("skip-resolver", false)
	v.SetDefault("os", runtime.GOOS)
	v.SetDefault("secret-length", secrets.DefaultLength)
}

// BindFlag makes a command-line flag override the setting key.
func BindFlag(key string, flag *pflag.Flag) {
	if err := v.BindPFlag(key, flag); err != nil {
		log.WithField("key", key).WithError(err).Panic("unable to bind flag")
	}
}

// Initialise reads the config file, if any, and populates C.
func Initialise() error {
	v.SetConfigName("tidepool")
	v.AddConfigPath("$HOME/.tidepool")
	v.AddConfigPath(".")
	v.SetConfigType("yaml")
	v.SetEnvPrefix("TIDEPOOL")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return err
		}
		log.Debug("no config file found")
	}
	log.WithField("config file", v.ConfigFileUsed()).Debug("read config")

	C = &Config{}
	if err := v.Unmarshal(C); err != nil {
		return err
	}
	if C.SecretLength <= 0 {
		C.SecretLength = secrets.DefaultLength
	}
	log.WithField("config", C).Debug("initialised config")
	return nil
}
