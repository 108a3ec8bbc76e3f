package cli

import (
	"fmt"
	"time"

	"github.com/jheysaaz/snippy-backend-sub001/internal/cert"
	"github.com/jheysaaz/snippy-backend-sub001/internal/output"
	"github.com/spf13/cobra"
)

var (
	backupOutput string
	restoreYes   bool
)

var sslBackupCmd = &cobra.Command{
	Use:   "backup",
	Short: "Archive the certificate directory",
	Long: `Write a zstd-compressed tar archive of the project certificate
directory, for use before destructive regeneration or for moving
material between hosts. The default name embeds a timestamp, e.g.
snippy-certs-20260302-103045.tar.zst.`,
	Args: cobra.NoArgs,
	RunE: runSSLBackup,
}

var sslRestoreCmd = &cobra.Command{
	Use:   "restore <archive>",
	Short: "Restore the certificate directory from an archive",
	Long: `Extract a backup archive into the project certificate directory,
overwriting files of the same name. Prompts for confirmation unless
--yes is given.`,
	Args: cobra.ExactArgs(1),
	RunE: runSSLRestore,
}

func init() {
	sslBackupCmd.Flags().StringVarP(&backupOutput, "output", "o", "", "Archive path (default snippy-certs-<timestamp>.tar.zst)")
	sslRestoreCmd.Flags().BoolVarP(&restoreYes, "yes", "y", false, "Skip the confirmation prompt")
	sslCmd.AddCommand(sslBackupCmd)
	sslCmd.AddCommand(sslRestoreCmd)
}

// defaultBackupName returns the timestamped archive name
func defaultBackupName(now time.Time) string {
	return fmt.Sprintf("snippy-certs-%s.tar.zst", now.Format("20060102-150405"))
}

// SSLArchiveResult is the JSON result of ssl backup / ssl restore
type SSLArchiveResult struct {
	Success bool   `json:"success"`
	Archive string `json:"archive"`
	CertDir string `json:"cert_dir"`
}

func runSSLBackup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	path := backupOutput
	if path == "" {
		path = defaultBackupName(time.Now())
	}

	if dryRun {
		return outputDryRun(DryRunResult{
			Service: cfg.Service.Name,
			Operations: []DryRunOperation{
				{Action: "archive", Target: path, Details: "zstd tar of " + cfg.SSL.CertDir},
			},
		})
	}

	if err := cert.Backup(cfg.SSL.CertDir, path); err != nil {
		return err
	}

	return outputResult(SSLArchiveResult{
		Success: true,
		Archive: path,
		CertDir: cfg.SSL.CertDir,
	}, "Backed up %s to %s", cfg.SSL.CertDir, path)
}

func runSSLRestore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	archive := args[0]

	if dryRun {
		return outputDryRun(DryRunResult{
			Service: cfg.Service.Name,
			Operations: []DryRunOperation{
				{Action: "extract", Target: cfg.SSL.CertDir, Details: "from " + archive},
			},
		})
	}

	if !restoreYes {
		if !confirm(fmt.Sprintf("Overwrite certificates under %s from %s?", cfg.SSL.CertDir, archive)) {
			output.Info("Restore cancelled")
			return nil
		}
	}

	if err := cert.Restore(archive, cfg.SSL.CertDir); err != nil {
		return err
	}

	recordAudit(cfg, "ssl-restore", map[string]string{
		"archive": archive,
		"result":  "ok",
	})

	return outputResult(SSLArchiveResult{
		Success: true,
		Archive: archive,
		CertDir: cfg.SSL.CertDir,
	}, "Restored %s from %s", cfg.SSL.CertDir, archive)
}
