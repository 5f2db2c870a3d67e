// Package config loads client configuration from a YAML file or CLI flags.
package config

import (
	"flag"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL         = "http://localhost:5000"
	defaultRefreshInterval = 5 * time.Minute
	defaultHTTPTimeout     = 15 * time.Second
	defaultFrequency       = "daily"
	defaultListen          = ":8087"
	defaultTransitionDelay = 300 * time.Millisecond
)

// Config holds everything the client needs to run.
type Config struct {
	// BaseURL is the root of the portfolio tracker service.
	BaseURL string
	// RefreshInterval is the period of the background refresh loop.
	RefreshInterval time.Duration
	// HTTPTimeout bounds every single tracker request.
	HTTPTimeout time.Duration
	// Frequency is the portfolio history granularity (daily, weekly, monthly).
	Frequency string
	// Listen is the web dashboard listen address.
	Listen string
	// TransitionDelay is the stat card visual-transition duration.
	TransitionDelay time.Duration
	// AddTransaction launches the interactive add-transaction wizard and exits.
	AddTransaction bool
}

type configTmp struct {
	BaseURL         string        `yaml:"base_url"`
	RefreshInterval time.Duration `yaml:"refresh_interval"`
	HTTPTimeout     time.Duration `yaml:"http_timeout"`
	Frequency       string        `yaml:"frequency"`
	Listen          string        `yaml:"listen"`
	TransitionDelay time.Duration `yaml:"transition_delay"`
}

// Get reads configuration from --config yaml when given, otherwise from CLI
// flags. The TRACKER_BASE_URL environment variable overrides the base URL
// from either source.
func Get() (Config, error) {
	configPath := flag.String("config", "", "path to yaml config")
	baseURL := flag.String("base-url", defaultBaseURL, "tracker service base URL")
	refreshInterval := flag.Duration("refresh-interval", defaultRefreshInterval, "background refresh period")
	httpTimeout := flag.Duration("http-timeout", defaultHTTPTimeout, "per-request HTTP timeout")
	frequency := flag.String("frequency", defaultFrequency, "portfolio history granularity: daily, weekly or monthly")
	listen := flag.String("listen", defaultListen, "web dashboard listen address")
	add := flag.Bool("add", false, "launch the add-transaction wizard and exit")
	flag.Parse()

	cfg := Config{
		BaseURL:         *baseURL,
		RefreshInterval: *refreshInterval,
		HTTPTimeout:     *httpTimeout,
		Frequency:       *frequency,
		Listen:          *listen,
		TransitionDelay: defaultTransitionDelay,
		AddTransaction:  *add,
	}

	if *configPath != "" {
		fromYaml, err := getYaml(*configPath)
		if err != nil {
			return Config{}, err
		}
		fromYaml.AddTransaction = cfg.AddTransaction
		cfg = fromYaml
	}

	if env := os.Getenv("TRACKER_BASE_URL"); env != "" {
		cfg.BaseURL = env
	}

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func getYaml(path string) (Config, error) {
	f, err := os.ReadFile(path)
	if err != nil {
		return Config{}, err
	}

	tmp := configTmp{
		BaseURL:         defaultBaseURL,
		RefreshInterval: defaultRefreshInterval,
		HTTPTimeout:     defaultHTTPTimeout,
		Frequency:       defaultFrequency,
		Listen:          defaultListen,
		TransitionDelay: defaultTransitionDelay,
	}
	if err := yaml.Unmarshal(f, &tmp); err != nil {
		return Config{}, fmt.Errorf("incorrect yaml config %s: %w", path, err)
	}

	return Config{
		BaseURL:         tmp.BaseURL,
		RefreshInterval: tmp.RefreshInterval,
		HTTPTimeout:     tmp.HTTPTimeout,
		Frequency:       tmp.Frequency,
		Listen:          tmp.Listen,
		TransitionDelay: tmp.TransitionDelay,
	}, nil
}

func (c Config) validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("base URL must not be empty")
	}
	if c.RefreshInterval <= 0 {
		return fmt.Errorf("refresh interval must be positive, got %s", c.RefreshInterval)
	}
	switch c.Frequency {
	case "daily", "weekly", "monthly":
	default:
		return fmt.Errorf("invalid frequency %q, must be daily, weekly or monthly", c.Frequency)
	}
	return nil
}
