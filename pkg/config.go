package pkg

import (
	"fmt"
	"net"
	"net/url"
	"strconv"
	"time"

	"github.com/spf13/viper"
)

type ClientConfig struct {
	BaseURL        string        `mapstructure:"base_url"`
	Timeout        time.Duration `mapstructure:"timeout"`
	MaxConcurrency uint          `mapstructure:"max_concurrency"`
	DedupWindow    time.Duration `mapstructure:"dedup_window"`
}

// DefaultClientConfig returns the fixed production configuration.
func DefaultClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:        BackendURL,
		Timeout:        ClientTimeout,
		MaxConcurrency: 4,
		DedupWindow:    DedupWindow,
	}
}

func (c ClientConfig) Validate() error {
	u, err := url.Parse(c.BaseURL)
	if err != nil {
		return fmt.Errorf("invalid base-url: %w", err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return fmt.Errorf("invalid base-url scheme %q, expected http or https", u.Scheme)
	}
	if u.Host == "" {
		return fmt.Errorf("invalid base-url, host cannot be empty")
	}
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be greater than 0")
	}
	if c.MaxConcurrency == 0 {
		return fmt.Errorf("max-concurrency must be greater than 0")
	}
	if c.DedupWindow < 0 {
		return fmt.Errorf("dedup-window cannot be negative")
	}
	return nil
}

func LoadClientConfig() ClientConfig {
	return ClientConfig{
		BaseURL:        viper.GetString("base-url"),
		Timeout:        viper.GetDuration("timeout"),
		MaxConcurrency: viper.GetUint("max-concurrency"),
		DedupWindow:    viper.GetDuration("dedup-window"),
	}
}

type ServeConfig struct {
	ListenAddress string `mapstructure:"listen_address"`
}

func (c ServeConfig) Validate() error {
	host, port, err := net.SplitHostPort(c.ListenAddress)
	if err != nil {
		return fmt.Errorf("invalid listen-address format, expected host:port: %w", err)
	}
	if _, err := strconv.Atoi(port); err != nil {
		return fmt.Errorf("invalid port in listen-address: %w", err)
	}

	if host != "" && host != "0.0.0.0" && host != "localhost" && net.ParseIP(host) == nil {
		return fmt.Errorf("invalid host in listen-address: %s", host)
	}

	return nil
}

func LoadServeConfig() ServeConfig {
	return ServeConfig{
		ListenAddress: viper.GetString("listen-address"),
	}
}
