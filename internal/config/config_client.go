package config

import (
	"flag"
	"fmt"
	"os"
)

// ClientConfig is the configuration of the command-line API client.
type ClientConfig struct {
	// Adapter contains the server address and request timeout.
	Adapter Adapter `envPrefix:"ADAPTER_"`

	// Token is a session token reused across invocations.
	// Env: INVOICER_TOKEN
	Token string `env:"INVOICER_TOKEN"`

	// Args are the positional arguments left after flag parsing: the command
	// and its operands.
	Args []string
}

// GetClientConfig builds and validates the client configuration from the
// environment and the process arguments. Flags override the environment.
func GetClientConfig() (*ClientConfig, error) {
	return getClientConfig(os.Args[1:])
}

func getClientConfig(args []string) (*ClientConfig, error) {
	cfg := &ClientConfig{}
	if err := parseEnv(cfg); err != nil {
		return nil, err
	}

	fs := flag.NewFlagSet("invoicer", flag.ContinueOnError)
	fs.StringVar(&cfg.Adapter.HTTPAddress, "a", cfg.Adapter.HTTPAddress, "Server address")
	fs.Func("timeout", "Request timeout (e.g., 10s)", parseDurationFlag(&cfg.Adapter.RequestTimeout))
	fs.StringVar(&cfg.Token, "token", cfg.Token, "Session token")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("error parsing flags: %w", err)
	}
	cfg.Args = fs.Args()

	defaults := defaultConfig().Adapter
	if cfg.Adapter.HTTPAddress == "" {
		cfg.Adapter.HTTPAddress = defaults.HTTPAddress
	}
	if cfg.Adapter.RequestTimeout == 0 {
		cfg.Adapter.RequestTimeout = defaults.RequestTimeout
	}

	return cfg, cfg.validate()
}
