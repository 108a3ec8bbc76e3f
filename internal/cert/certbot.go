package cert

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	"github.com/jheysaaz/snippy-backend-sub001/internal/executor"
)

// LiveCert points at certbot's live material for a domain.
type LiveCert struct {
	Domain   string
	CertPath string
	KeyPath  string
}

// letsencryptDir is the base directory for Let's Encrypt certificates
const letsencryptDir = "/etc/letsencrypt/live"

// cmdExecutor is the command executor (can be replaced for testing)
var cmdExecutor executor.CommandExecutor = executor.NewSystemExecutor()

// SetExecutor allows tests to inject a mock executor
func SetExecutor(exec executor.CommandExecutor) {
	cmdExecutor = exec
}

// ResetExecutor resets the executor to the default system executor
func ResetExecutor() {
	cmdExecutor = executor.NewSystemExecutor()
}

// CertbotInstalled checks if certbot is installed
func CertbotInstalled() bool {
	_, err := cmdExecutor.LookPath("certbot")
	return err == nil
}

// runCertbot executes certbot with the given arguments
func runCertbot(args []string) error {
	if !CertbotInstalled() {
		return fmt.Errorf("certbot is not installed. Install it with: apt install certbot")
	}

	output, err := cmdExecutor.Execute("certbot", args...)
	if err != nil {
		return fmt.Errorf("certbot failed: %s", string(output))
	}
	return nil
}

// LivePaths returns the live certificate paths for a domain
func LivePaths(domain string) *LiveCert {
	return &LiveCert{
		Domain:   domain,
		CertPath: filepath.Join(letsencryptDir, domain, "fullchain.pem"),
		KeyPath:  filepath.Join(letsencryptDir, domain, "privkey.pem"),
	}
}

// ObtainOptions control certificate issuance through certbot.
type ObtainOptions struct {
	// Webroot switches authentication to webroot mode rooted at the
	// given directory. Standalone mode is used when empty.
	Webroot string
	// Staging directs certbot at the Let's Encrypt staging environment.
	Staging bool
}

// Obtain requests a certificate from Let's Encrypt via certbot certonly.
func Obtain(domain, email string, opts ObtainOptions) (*LiveCert, error) {
	args := []string{"certonly"}
	if opts.Webroot != "" {
		args = append(args, "--webroot", "-w", opts.Webroot)
	} else {
		args = append(args, "--standalone")
	}
	args = append(args,
		"-d", domain,
		"--email", email,
		"--agree-tos",
		"--non-interactive",
	)
	if opts.Staging {
		args = append(args, "--staging")
	}

	if err := runCertbot(args); err != nil {
		return nil, err
	}

	return LivePaths(domain), nil
}

// RenewAll renews all certificates managed by certbot.
func RenewAll(quiet bool) error {
	args := []string{"renew", "--non-interactive"}
	if quiet {
		args = append(args, "--quiet")
	}
	return runCertbot(args)
}

// MirrorLive copies live certificate material into the named bundle
// location so service mounts stay uniform across issuance modes.
func MirrorLive(ssl config.SSLConfig, name string, live *LiveCert) (*Bundle, error) {
	if _, err := ssl.Bundle(name); err != nil {
		return nil, err
	}

	certData, err := os.ReadFile(live.CertPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read live certificate: %w", err)
	}
	keyData, err := os.ReadFile(live.KeyPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read live private key: %w", err)
	}

	if err := os.MkdirAll(ssl.BundleDir(name), 0755); err != nil {
		return nil, fmt.Errorf("failed to create certificate directory: %w", err)
	}

	certPath := ssl.CertPath(name)
	keyPath := ssl.KeyPath(name)
	if err := os.WriteFile(certPath, certData, 0644); err != nil {
		return nil, fmt.Errorf("failed to write certificate: %w", err)
	}
	if err := os.WriteFile(keyPath, keyData, 0600); err != nil {
		return nil, fmt.Errorf("failed to write private key: %w", err)
	}

	return &Bundle{Name: name, CertPath: certPath, KeyPath: keyPath}, nil
}
