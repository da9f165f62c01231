package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"
)

// Config aggregates everything the facade reads from the environment.
// It is built once at process start and handed to constructors explicitly.
type Config struct {
	Server   ServerConfig
	Upstream UpstreamConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	upstream, err := loadUpstreamConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, Upstream: upstream}, nil
}

// ServerConfig describes the facade's own HTTP listener.
type ServerConfig struct {
	Addr string
	Port int
}

// loadServerConfig resolves the listen address from HTTP_PORT.
func loadServerConfig() (ServerConfig, error) {
	raw := strings.TrimSpace(os.Getenv("HTTP_PORT"))
	if raw == "" {
		raw = "8000"
	}

	if strings.Contains(raw, ":") {
		// Accept ":8000" or "127.0.0.1:8000" directly.
		port, err := portFromAddr(raw)
		if err != nil {
			return ServerConfig{}, err
		}
		return ServerConfig{Addr: raw, Port: port}, nil
	}

	port, err := strconv.Atoi(raw)
	if err != nil {
		return ServerConfig{}, fmt.Errorf("invalid HTTP_PORT value %q: %w", raw, err)
	}

	return ServerConfig{Addr: ":" + raw, Port: port}, nil
}

// UpstreamConfig describes the Gradio application the facade probes.
type UpstreamConfig struct {
	Host         string
	Port         int
	ProbeTimeout time.Duration
}

// BaseURL returns the upstream root, e.g. "http://localhost:7861".
func (c UpstreamConfig) BaseURL() string {
	return fmt.Sprintf("http://%s:%d", c.Host, c.Port)
}

func loadUpstreamConfig() (UpstreamConfig, error) {
	port := 7861
	if override, err := parseOptionalIntEnv("WEB_PORT"); err != nil {
		return UpstreamConfig{}, err
	} else if override != nil {
		port = *override
	}

	timeoutSeconds := 5
	if override, err := parseOptionalIntEnv("PROBE_TIMEOUT"); err != nil {
		return UpstreamConfig{}, err
	} else if override != nil {
		if *override < 1 {
			timeoutSeconds = 1
		} else {
			timeoutSeconds = *override
		}
	}

	return UpstreamConfig{
		Host:         getEnvOrDefault("GRADIO_HOST", "localhost"),
		Port:         port,
		ProbeTimeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

func portFromAddr(addr string) (int, error) {
	idx := strings.LastIndex(addr, ":")
	raw := addr[idx+1:]
	port, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid listen address %q: %w", addr, err)
	}
	return port, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
