package config

import (
	"errors"
	"flag"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"
)

// NetAddress holds structured network address data for host and port.
// It implements the flag.Value interface.
type NetAddress struct {
	Host string
	Port int
}

// parseFlags parses server configuration flags from args and returns the
// resulting config together with the remaining positional arguments.
//
// Flags:
//
//	-a server address in format [host]:[port]
//	-grpc-address grpc server address in format [host]:[port]
//	-driver storage driver (memory, postgres, sqlite)
//	-d database DSN
//	-redis redis address for sessions
//	-c/-config json file path with configs
//	-app-version reported application version
//	-hash-cost bcrypt cost factor
//	-session-duration session lifetime (e.g., "168h")
//	-share-key share link signing key
//	-share-issuer share link issuer name
//	-share-duration share link lifetime (e.g., "72h")
//	-public-url externally visible base URL
//	-request-timeout request timeout (e.g., "30s", "1m")
//	-secure-cookies mark session cookies Secure
//	-sweep-interval expired session sweep interval (e.g., "1h")
//	-no-sweep disable the expired session sweeper
func parseFlags(args []string) (*StructuredConfig, []string, error) {
	var serverAddress, grpcServerAddress NetAddress
	var cfg StructuredConfig

	fs := flag.NewFlagSet("invoicer-server", flag.ContinueOnError)
	fs.Var(&serverAddress, "a", "Net address host:port")
	fs.Var(&grpcServerAddress, "grpc-address", "Net grpc server address host:port")
	fs.StringVar(&cfg.Storage.DB.Driver, "driver", "", "Storage driver: memory, postgres or sqlite")
	fs.StringVar(&cfg.Storage.DB.DSN, "d", "", "Database DSN")
	fs.StringVar(&cfg.Storage.Redis.Address, "redis", "", "Redis address for sessions")
	fs.StringVar(&cfg.JSONFilePath, "c", "", "JSON config file path")
	fs.StringVar(&cfg.JSONFilePath, "config", "", "JSON config file path (alias)")
	fs.StringVar(&cfg.App.Version, "app-version", "", "Reported application version")
	fs.IntVar(&cfg.App.PasswordHashCost, "hash-cost", 0, "bcrypt cost factor")
	fs.DurationVar(&cfg.App.SessionDuration, "session-duration", 0, "Session lifetime (e.g., 168h)")
	fs.StringVar(&cfg.App.ShareSignKey, "share-key", "", "Share link signing key")
	fs.StringVar(&cfg.App.ShareIssuer, "share-issuer", "", "Share link issuer")
	fs.DurationVar(&cfg.App.ShareDuration, "share-duration", 0, "Share link lifetime (e.g., 72h)")
	fs.StringVar(&cfg.App.PublicURL, "public-url", "", "Externally visible base URL")
	fs.DurationVar(&cfg.Server.RequestTimeout, "request-timeout", 0, "Request timeout (e.g., 30s, 1m)")
	fs.BoolVar(&cfg.Server.SecureCookies, "secure-cookies", false, "Mark session cookies Secure")
	fs.DurationVar(&cfg.Workers.SessionSweepInterval, "sweep-interval", 0, "Expired session sweep interval")
	fs.BoolVar(&cfg.Workers.SessionSweepDisabled, "no-sweep", false, "Disable the expired session sweeper")

	if err := fs.Parse(args); err != nil {
		return nil, nil, fmt.Errorf("error parsing flags: %w", err)
	}

	cfg.Server.HTTPAddress = serverAddress.String()
	cfg.Server.GRPCAddress = grpcServerAddress.String()

	return &cfg, fs.Args(), nil
}

// String returns a canonical host:port string for a NetAddress.
// If neither Host nor Port are set, it returns an empty string.
func (a *NetAddress) String() string {
	if a.Host == "" && a.Port == 0 {
		return ""
	}

	return a.Host + ":" + strconv.Itoa(a.Port)
}

// Set parses the input string of form host:port and populates the NetAddress.
// It validates the port range, checks IP correctness unless host is
// "localhost" or empty, and returns an error if the format or values are
// invalid.
func (a *NetAddress) Set(s string) error {
	host, portStr, found := strings.Cut(s, ":")
	if !found || strings.Contains(portStr, ":") {
		return errors.New("need address in a form `host:port`")
	}

	port, err := strconv.Atoi(portStr)
	if err != nil {
		return err
	}

	if port < 1 || port > 65535 {
		return errors.New("port number must be in range 1-65535")
	}

	if host != "localhost" && host != "" {
		if ip := net.ParseIP(host); ip == nil {
			return errors.New("incorrect IP-address provided")
		}
	}

	a.Host = host
	a.Port = port
	return nil
}

// parseDurationFlag is a flag.Func helper accepting Go durations.
func parseDurationFlag(dst *time.Duration) func(string) error {
	return func(s string) error {
		d, err := time.ParseDuration(s)
		if err != nil {
			return err
		}
		*dst = d
		return nil
	}
}
