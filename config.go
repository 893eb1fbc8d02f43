package proxylive

import (
	"fmt"
	"time"
)

// Verification modes for comparing the echoed IP with the proxy host
const (
	VerifyOff    = "off"
	VerifyWarn   = "warn"
	VerifyStrict = "strict"
)

// Config represents the settings of a single run
type Config struct {
	// Path is the document holding the PROXY_LIST block
	Path string `yaml:"path" default:"config.js" validate:"required"`
	// Endpoint is the IP-echo URL requested through every proxy
	Endpoint string `yaml:"endpoint" default:"https://ipinfo.io/ip" validate:"required"`
	// Timeout specifies the probe timeout in seconds
	Timeout int `yaml:"timeout" default:"8"`
	// BackupSuffix is appended to Path for the backup copy
	BackupSuffix string `yaml:"backup_suffix" default:".backup" validate:"required"`
	// Verify selects how the echoed IP is compared with the proxy host
	Verify string `yaml:"verify" default:"off" validate:"oneof=off warn strict"`
	// UserAgents are rotated per probe, a random browser agent is used when empty
	UserAgents []string `yaml:"user_agents"`
	// DryRun checks proxies without touching the document
	DryRun bool `yaml:"dry_run"`
	// Listen is the address of the live feed server, disabled when empty
	Listen string `yaml:"listen"`
	// Progress replaces per-entry lines with a progress bar
	Progress bool `yaml:"progress"`
}

// Prepare fills zero fields with their defaults and validates the result
func (c *Config) Prepare() error {
	setDefaultValues(c)
	if err := validate(c); err != nil {
		return err
	}
	if c.Timeout < 1 {
		return fmt.Errorf("%w: Timeout must be positive, got %d", ErrConfig, c.Timeout)
	}
	return nil
}

// BackupPath returns the location of the backup copy
func (c *Config) BackupPath() string {
	return c.Path + c.BackupSuffix
}

func (c *Config) timeout() time.Duration {
	return time.Duration(c.Timeout) * time.Second
}
