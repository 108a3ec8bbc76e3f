package cli

import (
	"fmt"

	"github.com/jheysaaz/snippy-backend-sub001/internal/cert"
	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	"github.com/jheysaaz/snippy-backend-sub001/internal/output"
	"github.com/spf13/cobra"
)

var sslCmd = &cobra.Command{
	Use:   "ssl",
	Short: "Manage TLS certificates",
	Long: `Manage the TLS material for the API and Postgres: self-signed
bundles for development, Let's Encrypt issuance and renewal for
production, inventory, backup and restore.`,
}

var sslStaging bool

var sslInitCmd = &cobra.Command{
	Use:   "init [domain] [email]",
	Short: "Provision certificates, via Let's Encrypt when configured",
	Long: `Provision TLS certificates for the project.

With a domain and a contact email (positional arguments, or the
letsencrypt section of the config) the certificate is obtained from
Let's Encrypt through certbot and mirrored into the project cert
directory. Without them the command falls back to self-signed
certificates for both the API and Postgres.

Examples:
  snippyctl ssl init
  snippyctl ssl init api.example.com ops@example.com
  snippyctl ssl init api.example.com ops@example.com --staging`,
	Args: cobra.MaximumNArgs(2),
	RunE: runSSLInit,
}

func init() {
	sslInitCmd.Flags().BoolVar(&sslStaging, "staging", false, "Use the Let's Encrypt staging environment")
	sslCmd.AddCommand(sslInitCmd)
	rootCmd.AddCommand(sslCmd)
}

// SSLInitResult is the JSON result of ssl init
type SSLInitResult struct {
	Success  bool   `json:"success"`
	Mode     string `json:"mode"`
	Domain   string `json:"domain,omitempty"`
	CertPath string `json:"cert_path"`
	KeyPath  string `json:"key_path"`
	Staging  bool   `json:"staging,omitempty"`
}

func runSSLInit(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	domain := cfg.LetsEncrypt.Domain
	email := cfg.LetsEncrypt.Email
	if len(args) > 0 {
		domain = args[0]
	}
	if len(args) > 1 {
		email = args[1]
	}
	staging := sslStaging || cfg.LetsEncrypt.Staging

	if domain == "" {
		output.Info("No domain configured, using self-signed certificates")
		return sslInitFallback(cfg)
	}
	if err := validateDomain(domain); err != nil {
		return err
	}
	if email == "" {
		output.Warn("Domain %s has no contact email, falling back to self-signed certificates", domain)
		return sslInitFallback(cfg)
	}
	if err := validateEmail(email); err != nil {
		return err
	}

	if dryRun {
		return outputDryRun(DryRunResult{
			Service: cfg.Service.Name,
			Operations: []DryRunOperation{
				{Action: "certbot", Target: domain, Details: obtainDetails(cfg, staging)},
				{Action: "mirror", Target: cfg.SSL.BundleDir(config.BundleAPI), Details: "fullchain.pem and privkey.pem"},
			},
		})
	}

	if !deps.CertbotManager.Installed() {
		return fmt.Errorf("certbot is not installed. Install it with: apt install certbot")
	}

	output.Step(1, 2, "Requesting certificate for %s", domain)
	live, err := deps.CertbotManager.Obtain(domain, email, cert.ObtainOptions{
		Webroot: cfg.LetsEncrypt.Webroot,
		Staging: staging,
	})
	if err != nil {
		return err
	}
	output.Info("Certificate: %s", live.CertPath)
	output.Info("Key: %s", live.KeyPath)

	output.Step(2, 2, "Mirroring into %s", cfg.SSL.BundleDir(config.BundleAPI))
	bundle, err := cert.MirrorLive(cfg.SSL, config.BundleAPI, live)
	if err != nil {
		return err
	}

	recordAudit(cfg, "ssl-init", map[string]string{
		"mode":   "letsencrypt",
		"domain": domain,
		"result": "ok",
	})

	if !jsonOutput {
		output.Info("Schedule renewal with: snippyctl cron install")
	}
	return outputResult(SSLInitResult{
		Success:  true,
		Mode:     "letsencrypt",
		Domain:   domain,
		CertPath: bundle.CertPath,
		KeyPath:  bundle.KeyPath,
		Staging:  staging,
	}, "Obtained Let's Encrypt certificate for %s", domain)
}

// sslInitFallback takes the self-signed path, keeping any bundles that
// already exist in place.
func sslInitFallback(cfg *config.Config) error {
	if dryRun {
		return outputDryRun(DryRunResult{
			Service:    cfg.Service.Name,
			Operations: setupPlan(cfg, "skipped when already present"),
		})
	}

	res, err := setupSelfSigned(cfg, false, true)
	if err != nil {
		return err
	}

	recordAudit(cfg, "ssl-init", map[string]string{
		"mode":   "self-signed",
		"result": "ok",
	})

	return outputResult(SSLInitResult{
		Success:  true,
		Mode:     "self-signed",
		CertPath: cfg.SSL.CertPath(config.BundleAPI),
		KeyPath:  cfg.SSL.KeyPath(config.BundleAPI),
	}, "Self-signed certificates ready under %s", res.CertDir)
}

// obtainDetails describes the certbot invocation for dry-run plans
func obtainDetails(cfg *config.Config, staging bool) string {
	auth := "standalone authenticator"
	if cfg.LetsEncrypt.Webroot != "" {
		auth = "webroot " + cfg.LetsEncrypt.Webroot
	}
	if staging {
		return auth + ", staging environment"
	}
	return auth
}
