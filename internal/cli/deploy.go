package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	"github.com/jheysaaz/snippy-backend-sub001/internal/output"
	"github.com/jheysaaz/snippy-backend-sub001/internal/remote"
	"github.com/jheysaaz/snippy-backend-sub001/internal/template"
	"github.com/spf13/cobra"
)

// remoteUnitDir is where uploaded units land on the target host
const remoteUnitDir = "/etc/systemd/system"

var deployTarget string

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy the backend service",
	Long: `Install the service definition if absent, reload the supervisor,
restart the service and wait until the health endpoint answers.

With --target the same sequence runs on a remote host over SSH: the
unit file is uploaded via SFTP, daemon-reload and restart run through
the remote shell, and the health endpoint is polled from this machine.

Examples:
  snippyctl deploy
  snippyctl deploy --dry-run
  snippyctl deploy --target deploy@api.example.com
  snippyctl deploy --target deploy@api.example.com:2222`,
	RunE: runDeploy,
}

func init() {
	deployCmd.Flags().StringVarP(&deployTarget, "target", "t", "", "Deploy to user@host[:port] over SSH")
	rootCmd.AddCommand(deployCmd)
}

// DeployResult is the JSON result of a deploy
type DeployResult struct {
	Success    bool   `json:"success"`
	Service    string `json:"service"`
	Supervisor string `json:"supervisor"`
	Host       string `json:"host,omitempty"`
	// UnitInstalled reports whether this run wrote the service definition
	UnitInstalled  bool   `json:"unit_installed"`
	HealthAttempts int    `json:"health_attempts"`
	HealthURL      string `json:"health_url"`
}

func runDeploy(cmd *cobra.Command, args []string) error {
	if deployTarget != "" {
		return runRemoteDeploy(deployTarget)
	}
	return runLocalDeploy()
}

// unitContent returns the systemd unit to install: the pre-authored
// unit file verbatim when configured, the rendered template otherwise.
// Compose services have no unit to install.
func unitContent(cfg *config.Config) (string, error) {
	if cfg.Service.Supervisor != config.SupervisorSystemd {
		return "", nil
	}

	if cfg.Service.UnitFile != "" {
		path, err := config.ExpandPath(cfg.Service.UnitFile)
		if err != nil {
			return "", err
		}
		data, err := os.ReadFile(path)
		if err != nil {
			return "", fmt.Errorf("failed to read unit file: %w", err)
		}
		return string(data), nil
	}

	return template.RenderUnit(cfg.Service)
}

// healthPlanDetails describes the health poll budget for dry-run plans
func healthPlanDetails(cfg *config.Config) string {
	return fmt.Sprintf("up to %d attempts every %s", cfg.Health.Attempts, cfg.Health.Interval)
}

func runLocalDeploy() error {
	cfg, drv, err := loadConfigAndDriver()
	if err != nil {
		return err
	}

	content, err := unitContent(cfg)
	if err != nil {
		return err
	}

	if dryRun {
		result := DryRunResult{
			Service:     cfg.Service.Name,
			UnitPreview: content,
		}
		if cfg.Service.Supervisor == config.SupervisorSystemd {
			result.Operations = append(result.Operations,
				DryRunOperation{Action: "install-unit", Target: drv.UnitPath(), Details: "skipped when already present"},
				DryRunOperation{Action: "daemon-reload", Target: "systemd"},
				DryRunOperation{Action: "restart", Target: cfg.Service.UnitName()},
			)
		} else {
			result.Operations = append(result.Operations,
				DryRunOperation{Action: "restart", Target: cfg.Service.ComposeService, Details: "docker compose restart"},
			)
		}
		result.Operations = append(result.Operations,
			DryRunOperation{Action: "health-check", Target: cfg.Health.URL, Details: healthPlanDetails(cfg)},
		)
		return outputDryRun(result)
	}

	if cfg.Service.Supervisor == config.SupervisorSystemd {
		if err := requireRoot(); err != nil {
			return err
		}
	}

	output.Step(1, 4, "Checking service definition")
	installed, err := drv.UnitInstalled()
	if err != nil {
		return err
	}

	wroteUnit := false
	if !installed {
		if cfg.Service.Supervisor != config.SupervisorSystemd {
			return fmt.Errorf("compose file %s not found", drv.UnitPath())
		}
		output.Info("Installing unit at %s", drv.UnitPath())
		if err := drv.InstallUnit(content); err != nil {
			return err
		}
		wroteUnit = true
	} else {
		output.Info("Service definition present at %s", drv.UnitPath())
	}

	output.Step(2, 4, "Reloading %s", drv.Name())
	if err := drv.Reload(); err != nil {
		return err
	}

	output.Step(3, 4, "Restarting %s", cfg.Service.Name)
	if err := drv.Restart(); err != nil {
		return err
	}

	output.Step(4, 4, "Waiting for %s", cfg.Health.URL)
	ctx, cancel := signalContext()
	defer cancel()
	attempts, err := deps.HealthChecker.Wait(ctx, cfg.Health)
	if err != nil {
		return err
	}
	output.Info("Service healthy after %d attempt(s)", attempts)

	recordAudit(cfg, "deploy", map[string]string{
		"service":    cfg.Service.Name,
		"supervisor": drv.Name(),
		"attempts":   strconv.Itoa(attempts),
		"result":     "ok",
	})

	return outputResult(DeployResult{
		Success:        true,
		Service:        cfg.Service.Name,
		Supervisor:     drv.Name(),
		UnitInstalled:  wroteUnit,
		HealthAttempts: attempts,
		HealthURL:      cfg.Health.URL,
	}, "Deployed %s", cfg.Service.Name)
}

func runRemoteDeploy(target string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	if cfg.Service.Supervisor != config.SupervisorSystemd {
		return fmt.Errorf("remote deploy supports the systemd supervisor only (configured: %s)", cfg.Service.Supervisor)
	}

	rcfg, err := remote.ParseTarget(target, cfg.Remote)
	if err != nil {
		return err
	}
	addr := remote.Address(rcfg)

	content, err := unitContent(cfg)
	if err != nil {
		return err
	}
	unitPath := remoteUnitDir + "/" + cfg.Service.UnitName()

	if dryRun {
		connect := DryRunOperation{Action: "connect", Target: addr}
		if rcfg.User != "" {
			connect.Details = "as " + rcfg.User
		}
		return outputDryRun(DryRunResult{
			Service: cfg.Service.Name,
			Operations: []DryRunOperation{
				connect,
				{Action: "upload-unit", Target: unitPath, Details: "sftp, temp file and rename"},
				{Action: "daemon-reload", Target: addr},
				{Action: "restart", Target: cfg.Service.UnitName()},
				{Action: "health-check", Target: cfg.Health.URL, Details: healthPlanDetails(cfg)},
			},
			UnitPreview: content,
		})
	}

	client, err := remote.Dial(rcfg)
	if err != nil {
		return err
	}
	defer client.Close()

	output.Step(1, 4, "Uploading unit to %s:%s", addr, unitPath)
	if err := client.UploadFile([]byte(content), unitPath, 0644); err != nil {
		return err
	}

	output.Step(2, 4, "Reloading systemd on %s", addr)
	if _, err := client.RunPrivileged("systemctl daemon-reload"); err != nil {
		return err
	}

	output.Step(3, 4, "Restarting %s on %s", cfg.Service.Name, addr)
	if _, err := client.RunPrivileged("systemctl restart " + cfg.Service.UnitName()); err != nil {
		return err
	}

	output.Step(4, 4, "Waiting for %s", cfg.Health.URL)
	ctx, cancel := signalContext()
	defer cancel()
	attempts, err := deps.HealthChecker.Wait(ctx, cfg.Health)
	if err != nil {
		return err
	}
	output.Info("Service healthy after %d attempt(s)", attempts)

	recordAudit(cfg, "deploy", map[string]string{
		"service":    cfg.Service.Name,
		"supervisor": config.SupervisorSystemd,
		"host":       addr,
		"attempts":   strconv.Itoa(attempts),
		"result":     "ok",
	})

	return outputResult(DeployResult{
		Success:        true,
		Service:        cfg.Service.Name,
		Supervisor:     config.SupervisorSystemd,
		Host:           addr,
		UnitInstalled:  true,
		HealthAttempts: attempts,
		HealthURL:      cfg.Health.URL,
	}, "Deployed %s to %s", cfg.Service.Name, addr)
}
