package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Service     ServiceConfig     `yaml:"service"`
	Health      HealthConfig      `yaml:"health"`
	SSL         SSLConfig         `yaml:"ssl"`
	LetsEncrypt LetsEncryptConfig `yaml:"letsencrypt"`
	Cron        CronConfig        `yaml:"cron"`
	Remote      RemoteConfig      `yaml:"remote"`
	Audit       AuditConfig       `yaml:"audit"`
}

// HealthConfig controls the post-deploy health probe.
type HealthConfig struct {
	URL      string `yaml:"url"`
	Attempts int    `yaml:"attempts"`
	Interval string `yaml:"interval"`
}

// IntervalDuration parses the probe interval.
func (h HealthConfig) IntervalDuration() (time.Duration, error) {
	return time.ParseDuration(h.Interval)
}

// LetsEncryptConfig holds certbot settings for public certificates.
type LetsEncryptConfig struct {
	Domain  string `yaml:"domain,omitempty"`
	Email   string `yaml:"email,omitempty"`
	Staging bool   `yaml:"staging,omitempty"`
	Webroot string `yaml:"webroot,omitempty"`
}

// CronConfig holds the renewal cron settings.
type CronConfig struct {
	Schedule string `yaml:"schedule"`
}

// RemoteConfig holds SSH settings for remote deploys.
type RemoteConfig struct {
	Host       string `yaml:"host,omitempty"`
	User       string `yaml:"user,omitempty"`
	Port       int    `yaml:"port,omitempty"`
	KeyFile    string `yaml:"key_file,omitempty"`
	KnownHosts string `yaml:"known_hosts,omitempty"`
	UseSudo    bool   `yaml:"use_sudo"`
}

// AuditConfig controls the operation audit log.
type AuditConfig struct {
	Enabled bool   `yaml:"enabled"`
	Path    string `yaml:"path,omitempty"`
}

// DefaultFile is the config file looked up in the working directory.
const DefaultFile = "snippy.yaml"

// New creates a new Config with default values
func New() *Config {
	return &Config{
		Service: ServiceConfig{
			Name:           "snippy-backend",
			Supervisor:     SupervisorSystemd,
			ExecStart:      "/usr/local/bin/snippy-backend",
			WorkingDir:     "/opt/snippy-backend",
			User:           "snippy",
			ComposeFile:    "docker-compose.yml",
			ComposeService: "api",
		},
		Health: HealthConfig{
			URL:      "http://localhost:8080/health",
			Attempts: 30,
			Interval: "2s",
		},
		SSL: SSLConfig{
			CertDir: "certs",
			RSABits: 2048,
			Days:    365,
			API: BundleConfig{
				CommonName:  "localhost",
				DNSNames:    []string{"localhost", "snippy-api"},
				IPAddresses: []string{"127.0.0.1"},
			},
			Postgres: BundleConfig{
				CommonName: "postgres",
				DNSNames:   []string{"postgres", "localhost"},
				OwnerUID:   999,
				OwnerGID:   999,
			},
		},
		Cron: CronConfig{
			Schedule: "0 3 * * *",
		},
		Remote: RemoteConfig{
			Port:       22,
			KeyFile:    "~/.ssh/id_ed25519",
			KnownHosts: "~/.ssh/known_hosts",
			UseSudo:    true,
		},
		Audit: AuditConfig{
			Enabled: true,
		},
	}
}

// Load reads the config from the given path, falling back to ./snippy.yaml.
// A missing default file yields the built-in defaults.
func Load(path string) (*Config, error) {
	if path != "" {
		return LoadFile(path)
	}

	if _, err := os.Stat(DefaultFile); os.IsNotExist(err) {
		return New(), nil
	}

	return LoadFile(DefaultFile)
}

// LoadFile reads and validates the config at path.
func LoadFile(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config: %w", err)
	}

	cfg := New()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config %s: %w", path, err)
	}

	return cfg, nil
}

// Save writes the config to disk
func (c *Config) Save(path string) error {
	if path == "" {
		path = DefaultFile
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create config directory: %w", err)
		}
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config: %w", err)
	}

	return nil
}

// Validate checks the config for values no command can work with.
func (c *Config) Validate() error {
	if c.Service.Name == "" {
		return fmt.Errorf("service name cannot be empty")
	}
	if !IsValidSupervisor(c.Service.Supervisor) {
		return fmt.Errorf("invalid supervisor %q (valid: %s)", c.Service.Supervisor, strings.Join(ValidSupervisors(), ", "))
	}
	if c.Service.Supervisor == SupervisorCompose && c.Service.ComposeFile == "" {
		return fmt.Errorf("compose_file cannot be empty for the compose supervisor")
	}
	if c.SSL.RSABits < 2048 {
		return fmt.Errorf("rsa_bits must be at least 2048, got %d", c.SSL.RSABits)
	}
	if c.SSL.Days <= 0 {
		return fmt.Errorf("days must be positive, got %d", c.SSL.Days)
	}
	if c.Health.Attempts <= 0 {
		return fmt.Errorf("health attempts must be positive, got %d", c.Health.Attempts)
	}
	if _, err := c.Health.IntervalDuration(); err != nil {
		return fmt.Errorf("invalid health interval %q: %w", c.Health.Interval, err)
	}
	return nil
}

// ExpandPath expands a leading ~/ to the user's home directory.
func ExpandPath(path string) (string, error) {
	if path == "~" || strings.HasPrefix(path, "~/") {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", fmt.Errorf("failed to get home directory: %w", err)
		}
		return filepath.Join(home, strings.TrimPrefix(path, "~")), nil
	}
	return path, nil
}
