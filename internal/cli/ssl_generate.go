package cli

import (
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/jheysaaz/snippy-backend-sub001/internal/cert"
	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	opserrors "github.com/jheysaaz/snippy-backend-sub001/internal/errors"
	"github.com/jheysaaz/snippy-backend-sub001/internal/gitignore"
	"github.com/jheysaaz/snippy-backend-sub001/internal/output"
	"github.com/spf13/cobra"
)

// gitignoreFile is the ignore file maintained in the project root
const gitignoreFile = ".gitignore"

var (
	apiForce      bool
	postgresForce bool
	setupForce    bool
)

var sslAPICmd = &cobra.Command{
	Use:   "api",
	Short: "Generate the self-signed API certificate",
	Long: `Generate an RSA key and self-signed certificate for the API and
write them to <cert_dir>/api/server.crt and server.key. Subject and
SANs come from the ssl.api section of the config.`,
	Args: cobra.NoArgs,
	RunE: runSSLAPI,
}

var sslPostgresCmd = &cobra.Command{
	Use:   "postgres",
	Short: "Generate the self-signed Postgres certificate",
	Long: `Generate an RSA key and self-signed certificate for Postgres and
write them to <cert_dir>/postgres/server.crt and server.key. The key
is written mode 0600 and chowned to the configured owner (the postgres
container user by default) when running as root.`,
	Args: cobra.NoArgs,
	RunE: runSSLPostgres,
}

var sslSetupCmd = &cobra.Command{
	Use:   "setup",
	Short: "Generate both certificates and maintain .gitignore",
	Long: `Generate the API and Postgres self-signed certificates and append
ignore rules for the generated material to the project .gitignore.
With --force existing material is backed up to a zstd archive first,
then overwritten.

Examples:
  snippyctl ssl setup
  snippyctl ssl setup --force`,
	Args: cobra.NoArgs,
	RunE: runSSLSetup,
}

func init() {
	sslAPICmd.Flags().BoolVarP(&apiForce, "force", "f", false, "Overwrite existing certificate material")
	sslPostgresCmd.Flags().BoolVarP(&postgresForce, "force", "f", false, "Overwrite existing certificate material")
	sslSetupCmd.Flags().BoolVarP(&setupForce, "force", "f", false, "Back up and overwrite existing certificate material")
	sslCmd.AddCommand(sslAPICmd)
	sslCmd.AddCommand(sslPostgresCmd)
	sslCmd.AddCommand(sslSetupCmd)
}

// SSLBundleResult is the JSON result of ssl api / ssl postgres
type SSLBundleResult struct {
	Success  bool   `json:"success"`
	Bundle   string `json:"bundle"`
	CertPath string `json:"cert_path"`
	KeyPath  string `json:"key_path"`
	OwnerSet bool   `json:"owner_set,omitempty"`
}

// SSLSetupResult is the JSON result of ssl setup
type SSLSetupResult struct {
	Success        bool     `json:"success"`
	CertDir        string   `json:"cert_dir"`
	Bundles        []string `json:"bundles"`
	Kept           []string `json:"kept,omitempty"`
	GitignoreAdded []string `json:"gitignore_added,omitempty"`
	BackupPath     string   `json:"backup_path,omitempty"`
}

func runSSLAPI(cmd *cobra.Command, args []string) error {
	return runGenerateBundle(config.BundleAPI, apiForce)
}

func runSSLPostgres(cmd *cobra.Command, args []string) error {
	return runGenerateBundle(config.BundlePostgres, postgresForce)
}

func runGenerateBundle(name string, force bool) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if dryRun {
		details := "refused when already present"
		if force {
			details = "overwrites existing material"
		}
		return outputDryRun(DryRunResult{
			Service: cfg.Service.Name,
			Operations: []DryRunOperation{
				{Action: "self-signed", Target: cfg.SSL.BundleDir(name), Details: details},
			},
		})
	}

	bundle, err := cert.Generate(cfg.SSL, name, cert.GenerateOptions{Force: force})
	if err != nil {
		if opserrors.Is(err, opserrors.ErrCertExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return err
	}
	warnOwner(cfg, name, bundle)

	recordAudit(cfg, "ssl-generate", map[string]string{
		"bundle": name,
		"forced": strconv.FormatBool(force),
		"result": "ok",
	})

	return outputResult(SSLBundleResult{
		Success:  true,
		Bundle:   name,
		CertPath: bundle.CertPath,
		KeyPath:  bundle.KeyPath,
		OwnerSet: bundle.OwnerSet,
	}, "Generated self-signed certificate for %s", name)
}

func runSSLSetup(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if dryRun {
		details := "refused when already present"
		if setupForce {
			details = "backed up, then overwritten"
		}
		return outputDryRun(DryRunResult{
			Service:    cfg.Service.Name,
			Operations: setupPlan(cfg, details),
		})
	}

	backupPath := ""
	if setupForce && anyBundleExists(cfg) {
		backupPath = defaultBackupName(time.Now())
		if err := cert.Backup(cfg.SSL.CertDir, backupPath); err != nil {
			return err
		}
		output.Info("Backed up existing certificates to %s", backupPath)
	}

	res, err := setupSelfSigned(cfg, setupForce, false)
	if err != nil {
		if opserrors.Is(err, opserrors.ErrCertExists) {
			return fmt.Errorf("%w (use --force to overwrite)", err)
		}
		return err
	}
	res.BackupPath = backupPath

	recordAudit(cfg, "ssl-setup", map[string]string{
		"forced": strconv.FormatBool(setupForce),
		"result": "ok",
	})

	return outputResult(*res, "SSL setup complete, certificates under %s", res.CertDir)
}

// setupSelfSigned generates both bundles and maintains the .gitignore
// rules. With tolerateExisting, bundles already on disk are kept in
// place instead of failing the run.
func setupSelfSigned(cfg *config.Config, force, tolerateExisting bool) (*SSLSetupResult, error) {
	res := &SSLSetupResult{
		Success: true,
		CertDir: cfg.SSL.CertDir,
		Bundles: []string{},
	}

	for _, name := range config.ValidBundles() {
		bundle, err := cert.Generate(cfg.SSL, name, cert.GenerateOptions{Force: force})
		if err != nil {
			if tolerateExisting && opserrors.Is(err, opserrors.ErrCertExists) {
				output.Info("Certificate for %s already present, leaving in place", name)
				res.Kept = append(res.Kept, name)
				continue
			}
			return nil, err
		}
		output.Info("Generated self-signed certificate for %s", name)
		warnOwner(cfg, name, bundle)
		res.Bundles = append(res.Bundles, name)
	}

	added, err := gitignore.EnsureRules(gitignoreFile, gitignore.DefaultRules(cfg.SSL.CertDir))
	if err != nil {
		return nil, err
	}
	res.GitignoreAdded = added
	if len(added) > 0 {
		output.Info("Added %d rule(s) to %s", len(added), gitignoreFile)
	}

	return res, nil
}

// setupPlan lists the setup operations for dry-run output
func setupPlan(cfg *config.Config, details string) []DryRunOperation {
	ops := make([]DryRunOperation, 0, len(config.ValidBundles())+1)
	for _, name := range config.ValidBundles() {
		ops = append(ops, DryRunOperation{Action: "self-signed", Target: cfg.SSL.BundleDir(name), Details: details})
	}
	ops = append(ops, DryRunOperation{Action: "gitignore", Target: gitignoreFile, Details: "missing rules appended"})
	return ops
}

// warnOwner notes when a configured certificate owner could not be applied
func warnOwner(cfg *config.Config, name string, bundle *cert.Bundle) {
	if bundle.OwnerSet {
		return
	}
	bc, err := cfg.SSL.Bundle(name)
	if err != nil {
		return
	}
	if bc.OwnerUID != 0 || bc.OwnerGID != 0 {
		output.Warn("Not running as root, skipping ownership change to %d:%d for %s", bc.OwnerUID, bc.OwnerGID, name)
	}
}

// anyBundleExists reports whether any bundle certificate is on disk
func anyBundleExists(cfg *config.Config) bool {
	for _, name := range config.ValidBundles() {
		if _, err := os.Stat(cfg.SSL.CertPath(name)); err == nil {
			return true
		}
	}
	return false
}
