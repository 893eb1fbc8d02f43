package proxylive

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Environment variables read by FromEnv
const (
	EnvPath     = "PROXYLIVE_PATH"
	EnvEndpoint = "PROXYLIVE_ENDPOINT"
	EnvTimeout  = "PROXYLIVE_TIMEOUT"
	EnvVerify   = "PROXYLIVE_VERIFY"
	EnvListen   = "PROXYLIVE_LISTEN"
)

// LoadEnv loads dotenv files into the environment. Missing files are
// ignored, variables already set win.
func LoadEnv(files ...string) error {
	for _, f := range files {
		if err := godotenv.Load(f); err != nil && !errors.Is(err, os.ErrNotExist) {
			return fmt.Errorf("load %s: %w", f, err)
		}
	}
	return nil
}

// LoadFile overlays the YAML settings file at path onto c
func LoadFile(path string, c *Config) error {
	raw, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read settings: %w", err)
	}
	if err := yaml.Unmarshal(raw, c); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrConfig, path, err)
	}
	return nil
}

// FromEnv overlays the PROXYLIVE_* variables found by lookup onto c
func FromEnv(c *Config, lookup func(string) (string, bool)) error {
	if v, ok := lookup(EnvPath); ok && v != "" {
		c.Path = v
	}
	if v, ok := lookup(EnvEndpoint); ok && v != "" {
		c.Endpoint = v
	}
	if v, ok := lookup(EnvTimeout); ok && v != "" {
		n, err := strconv.Atoi(strings.TrimSpace(v))
		if err != nil {
			return fmt.Errorf("%w: %s=%q", ErrConfig, EnvTimeout, v)
		}
		c.Timeout = n
	}
	if v, ok := lookup(EnvVerify); ok && v != "" {
		c.Verify = strings.ToLower(v)
	}
	if v, ok := lookup(EnvListen); ok {
		c.Listen = v
	}
	return nil
}
