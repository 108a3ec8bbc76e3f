package config

import (
	"fmt"
	"path/filepath"
)

// SSLConfig holds self-signed certificate settings
type SSLConfig struct {
	CertDir  string       `yaml:"cert_dir"`
	RSABits  int          `yaml:"rsa_bits"`
	Days     int          `yaml:"days"`
	API      BundleConfig `yaml:"api"`
	Postgres BundleConfig `yaml:"postgres"`
}

// BundleConfig describes one certificate bundle. Owner fields are
// applied to the written files; zero means no chown.
type BundleConfig struct {
	CommonName  string   `yaml:"common_name"`
	DNSNames    []string `yaml:"dns_names,omitempty"`
	IPAddresses []string `yaml:"ip_addresses,omitempty"`
	OwnerUID    int      `yaml:"owner_uid,omitempty"`
	OwnerGID    int      `yaml:"owner_gid,omitempty"`
}

// Bundle name constants
const (
	BundleAPI      = "api"
	BundlePostgres = "postgres"
)

// ValidBundles returns all valid bundle names
func ValidBundles() []string {
	return []string{BundleAPI, BundlePostgres}
}

// IsValidBundle checks if the given bundle name is valid
func IsValidBundle(name string) bool {
	for _, valid := range ValidBundles() {
		if name == valid {
			return true
		}
	}
	return false
}

// Bundle returns the bundle config for the given name.
func (s SSLConfig) Bundle(name string) (BundleConfig, error) {
	switch name {
	case BundleAPI:
		return s.API, nil
	case BundlePostgres:
		return s.Postgres, nil
	default:
		return BundleConfig{}, fmt.Errorf("unknown certificate bundle %q", name)
	}
}

// BundleDir returns the directory holding the named bundle.
func (s SSLConfig) BundleDir(name string) string {
	return filepath.Join(s.CertDir, name)
}

// CertPath returns the certificate path for the named bundle.
func (s SSLConfig) CertPath(name string) string {
	return filepath.Join(s.BundleDir(name), "server.crt")
}

// KeyPath returns the private key path for the named bundle.
func (s SSLConfig) KeyPath(name string) string {
	return filepath.Join(s.BundleDir(name), "server.key")
}
