// config.go
// ---------
// Config carries the gateway's transport settings: base URL, static API key,
// app identity headers, per-attempt timeout and the auth endpoint paths the
// retry logic treats specially.
//
// Values come from KICHWA_* environment variables. LoadConfig also reads
// .env files first, which is how the mobile build injected them.
package kichwabridge

import (
	"io/fs"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
	"github.com/pkg/errors"
)

const (
	DefaultTimeout     = 15 * time.Second
	DefaultAPIKey      = "unauthenticated"
	DefaultRefreshPath = "/auth/refresh"
	DefaultLoginPath   = "/auth/login"
	DefaultLogoutPath  = "/auth/logout"
)

type Config struct {
	BaseURL    string        `env:"KICHWA_API_URL"`
	APIKey     string        `env:"KICHWA_API_KEY" envDefault:"unauthenticated"`
	AppName    string        `env:"KICHWA_APP_NAME" envDefault:"com.kichwa.app"`
	AppVersion string        `env:"KICHWA_APP_VERSION" envDefault:"1.0.0"`
	Timeout    time.Duration `env:"KICHWA_TIMEOUT" envDefault:"15s"`

	RefreshPath string `env:"KICHWA_REFRESH_PATH" envDefault:"/auth/refresh"`
	LoginPath   string `env:"KICHWA_LOGIN_PATH" envDefault:"/auth/login"`
	LogoutPath  string `env:"KICHWA_LOGOUT_PATH" envDefault:"/auth/logout"`

	// SharedRefresh makes concurrent 401s wait on a single refresh call
	// instead of each issuing their own.
	SharedRefresh bool `env:"KICHWA_SHARED_REFRESH" envDefault:"true"`
	// ProactiveRefresh refreshes before sending when the stored access
	// token is a JWT that has already expired.
	ProactiveRefresh bool `env:"KICHWA_PROACTIVE_REFRESH" envDefault:"true"`

	RateLimit      int           `env:"KICHWA_RATE_LIMIT"` // requests per RateWindow, 0 disables pacing
	RateWindow     time.Duration `env:"KICHWA_RATE_WINDOW" envDefault:"1s"`
	CacheResponses bool          `env:"KICHWA_CACHE_RESPONSES"`

	Debug bool `env:"KICHWA_DEBUG"`
}

// DefaultConfig returns the configuration the mobile client shipped with,
// minus the base URL.
func DefaultConfig() *Config {
	return &Config{
		APIKey:           DefaultAPIKey,
		AppName:          "com.kichwa.app",
		AppVersion:       "1.0.0",
		Timeout:          DefaultTimeout,
		RefreshPath:      DefaultRefreshPath,
		LoginPath:        DefaultLoginPath,
		LogoutPath:       DefaultLogoutPath,
		SharedRefresh:    true,
		ProactiveRefresh: true,
		RateWindow:       time.Second,
	}
}

// LoadConfig loads the given .env files (or ./.env when none are named) into
// the process environment, then parses KICHWA_* variables. Missing .env files
// are not an error.
func LoadConfig(envFiles ...string) (*Config, error) {
	if err := godotenv.Load(envFiles...); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, errors.Wrap(err, "load env files")
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, errors.Wrap(err, "parse env")
	}
	return cfg.withDefaults(), nil
}

// withDefaults fills zero values so a hand-built Config behaves like a
// parsed one.
func (c *Config) withDefaults() *Config {
	out := *c
	if out.APIKey == "" {
		out.APIKey = DefaultAPIKey
	}
	if out.Timeout <= 0 {
		out.Timeout = DefaultTimeout
	}
	if out.RefreshPath == "" {
		out.RefreshPath = DefaultRefreshPath
	}
	if out.LoginPath == "" {
		out.LoginPath = DefaultLoginPath
	}
	if out.LogoutPath == "" {
		out.LogoutPath = DefaultLogoutPath
	}
	if out.RateWindow <= 0 {
		out.RateWindow = time.Second
	}
	return &out
}
