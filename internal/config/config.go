package config

import (
	"strings"
	"time"

	"kuantokusta/internal/domain"
	"kuantokusta/internal/format"
	"kuantokusta/internal/transport"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Keys are shared by flags, environment variables (KK_ prefix, dashes as
// underscores) and the optional .env file.
const (
	KeyBaseURL     = "base-url"
	KeySiteURL     = "site-url"
	KeyFormat      = "format"
	KeyTimeout     = "timeout"
	KeyImpersonate = "impersonate"
	KeyLogEnv      = "log-env"
	KeyVerbose     = "verbose"
	KeyXLSX        = "xlsx"
)

const (
	DefaultBaseURL = "https://api.kuantokusta.pt"
	DefaultSiteURL = "https://www.kuantokusta.pt"
)

type Config struct {
	API    APIConfig
	Output OutputConfig
	Log    LogConfig
}

type APIConfig struct {
	BaseURL     string
	SiteURL     string
	Timeout     time.Duration
	Impersonate string
}

type OutputConfig struct {
	Format string
	XLSX   string
}

type LogConfig struct {
	Env     string
	Verbose bool
}

// Load resolves the configuration from flags, the environment and .env, in
// that order of precedence. fs may be nil.
func Load(fs *pflag.FlagSet) (*Config, error) {
	// A missing .env is fine
	_ = godotenv.Load()

	v := viper.New()
	v.SetEnvPrefix("KK")
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	// Set defaults
	v.SetDefault(KeyBaseURL, DefaultBaseURL)
	v.SetDefault(KeySiteURL, DefaultSiteURL)
	v.SetDefault(KeyFormat, "table")
	v.SetDefault(KeyTimeout, 30*time.Second)
	v.SetDefault(KeyImpersonate, "chrome")
	v.SetDefault(KeyLogEnv, "development")
	v.SetDefault(KeyVerbose, false)
	v.SetDefault(KeyXLSX, "")

	if fs != nil {
		if err := v.BindPFlags(fs); err != nil {
			return nil, err
		}
	}

	cfg := &Config{
		API: APIConfig{
			BaseURL:     strings.TrimRight(v.GetString(KeyBaseURL), "/"),
			SiteURL:     strings.TrimRight(v.GetString(KeySiteURL), "/"),
			Timeout:     v.GetDuration(KeyTimeout),
			Impersonate: strings.ToLower(v.GetString(KeyImpersonate)),
		},
		Output: OutputConfig{
			Format: strings.ToLower(v.GetString(KeyFormat)),
			XLSX:   v.GetString(KeyXLSX),
		},
		Log: LogConfig{
			Env:     v.GetString(KeyLogEnv),
			Verbose: v.GetBool(KeyVerbose),
		},
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate rejects values the rest of the program cannot act on
func (c *Config) Validate() error {
	if c.API.BaseURL == "" {
		return domain.InvalidArgument("%s must not be empty", KeyBaseURL)
	}
	if c.API.SiteURL == "" {
		return domain.InvalidArgument("%s must not be empty", KeySiteURL)
	}
	if _, err := transport.ParseProfile(c.API.Impersonate); err != nil {
		return err
	}
	if _, err := format.ParseMode(c.Output.Format); err != nil {
		return err
	}
	if c.API.Timeout <= 0 {
		return domain.InvalidArgument("%s must be positive, got %s", KeyTimeout, c.API.Timeout)
	}
	return nil
}
