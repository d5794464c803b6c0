package cli

import (
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/cockroachdb/errors"
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/spf13/viper"

	bsale "github.com/stockflow/go-bsale"
)

// EnvPrefix prefixes every environment override, e.g. BSALE_ACCESS_TOKEN.
const EnvPrefix = "BSALE"

// Config is the CLI configuration, read from bsale.yaml and BSALE_*
// environment variables.
type Config struct {
	AccessToken  string        `mapstructure:"access_token"`
	RefreshToken string        `mapstructure:"refresh_token"`
	ExpiresAt    string        `mapstructure:"expires_at"`
	BaseURL      string        `mapstructure:"base_url"`
	Timeout      time.Duration `mapstructure:"timeout"`
	RateLimit    int           `mapstructure:"rate_limit"`
	Log          LogConfig     `mapstructure:"log"`
}

// LogConfig selects the CLI log output.
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"` // console, json or auto
}

// LoadConfig reads configuration. An explicit path must exist; otherwise
// bsale.yaml is looked up in the working directory and ~/.config/bsale, and
// a missing file is not an error.
func LoadConfig(path string) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
	} else {
		v.SetConfigName("bsale")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "bsale"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if path != "" || !errors.As(err, &notFound) {
			return nil, errors.Wrap(err, "read config")
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, errors.Wrap(err, "decode config")
	}

	if err := cfg.Validate(); err != nil {
		return nil, errors.Wrap(err, "invalid configuration")
	}

	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("access_token", "")
	v.SetDefault("refresh_token", "")
	v.SetDefault("expires_at", "")
	v.SetDefault("base_url", bsale.DefaultBaseURL)
	v.SetDefault("timeout", bsale.DefaultTimeout)
	v.SetDefault("rate_limit", 0)
	v.SetDefault("log.level", "warn")
	v.SetDefault("log.format", "auto")
}

// Validate implements validation.Validatable. Credentials are checked when
// a command needs them, so `bsale credentials` can report on a bad token.
func (c *Config) Validate() error {
	//nolint:wrapcheck // validation.Errors is returned as-is so callers can inspect fields
	return validation.ValidateStruct(c,
		validation.Field(&c.ExpiresAt, validation.By(rfc3339)),
		validation.Field(&c.Timeout, validation.Min(time.Duration(0))),
		validation.Field(&c.RateLimit, validation.Min(0)),
		validation.Field(&c.Log),
	)
}

// Validate implements validation.Validatable.
func (l LogConfig) Validate() error {
	//nolint:wrapcheck // validation.Errors is returned as-is so callers can inspect fields
	return validation.ValidateStruct(&l,
		validation.Field(&l.Level, validation.In("debug", "info", "warn", "error")),
		validation.Field(&l.Format, validation.In("auto", "console", "json")),
	)
}

func rfc3339(value any) error {
	s, _ := value.(string)
	if s == "" {
		return nil
	}
	if _, err := time.Parse(time.RFC3339, s); err != nil {
		return errors.New("must be an RFC 3339 timestamp")
	}
	return nil
}

// Credentials returns the configured credentials. A missing expiry is left
// zero, which the client treats as expired.
func (c *Config) Credentials() bsale.Credentials {
	creds := bsale.Credentials{
		AccessToken:  c.AccessToken,
		RefreshToken: c.RefreshToken,
	}
	if t, err := time.Parse(time.RFC3339, c.ExpiresAt); err == nil {
		creds.ExpiresAt = t
	}
	return creds
}
