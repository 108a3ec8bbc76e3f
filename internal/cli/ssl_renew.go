package cli

import (
	"github.com/jheysaaz/snippy-backend-sub001/internal/cert"
	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	"github.com/jheysaaz/snippy-backend-sub001/internal/output"
	"github.com/spf13/cobra"
)

var renewQuiet bool

var sslRenewCmd = &cobra.Command{
	Use:   "renew",
	Short: "Renew Let's Encrypt certificates and reload the service",
	Long: `Run certbot renewal for all managed certificates, re-mirror the
live certificate into the project cert directory and reload the
service so it picks up the new material.

This is the command the cron entry runs. With --quiet nothing is
printed unless something fails, keeping cron mail silent.`,
	Args: cobra.NoArgs,
	RunE: runSSLRenew,
}

func init() {
	sslRenewCmd.Flags().BoolVarP(&renewQuiet, "quiet", "q", false, "Print nothing unless renewal fails")
	sslCmd.AddCommand(sslRenewCmd)
}

// SSLRenewResult is the JSON result of ssl renew
type SSLRenewResult struct {
	Success  bool   `json:"success"`
	Domain   string `json:"domain"`
	CertPath string `json:"cert_path"`
	Reloaded bool   `json:"reloaded"`
}

func runSSLRenew(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	domain := cfg.LetsEncrypt.Domain
	if domain == "" {
		if !renewQuiet {
			output.Info("No Let's Encrypt domain configured, nothing to renew")
		}
		return nil
	}

	if dryRun {
		return outputDryRun(DryRunResult{
			Service: cfg.Service.Name,
			Operations: []DryRunOperation{
				{Action: "certbot-renew", Target: "all managed certificates"},
				{Action: "mirror", Target: cfg.SSL.BundleDir(config.BundleAPI), Details: "live certificate for " + domain},
				{Action: "reload-service", Target: cfg.Service.Name},
			},
		})
	}

	drv, err := deps.SupervisorFactory.Create(cfg)
	if err != nil {
		return err
	}

	if err := deps.CertbotManager.RenewAll(renewQuiet); err != nil {
		return err
	}

	live := deps.CertbotManager.Live(domain)
	bundle, err := cert.MirrorLive(cfg.SSL, config.BundleAPI, live)
	if err != nil {
		return err
	}

	if err := drv.ReloadService(); err != nil {
		return err
	}

	recordAudit(cfg, "ssl-renew", map[string]string{
		"domain": domain,
		"result": "ok",
	})

	if renewQuiet && !jsonOutput {
		return nil
	}
	return outputResult(SSLRenewResult{
		Success:  true,
		Domain:   domain,
		CertPath: bundle.CertPath,
		Reloaded: true,
	}, "Renewed certificates for %s and reloaded %s", domain, cfg.Service.Name)
}
