package cli

import (
	"github.com/jheysaaz/snippy-backend-sub001/internal/output"
	"github.com/spf13/cobra"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show service and health status",
	Long: `Show whether the service definition is installed, whether the
service is running, and whether the health endpoint responds.

Examples:
  snippyctl status
  snippyctl status --json`,
	Args: cobra.NoArgs,
	RunE: runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

// StatusResult represents the service status as JSON output
type StatusResult struct {
	Service       string `json:"service"`
	Supervisor    string `json:"supervisor"`
	UnitInstalled bool   `json:"unit_installed"`
	Active        bool   `json:"active"`
	Healthy       bool   `json:"healthy"`
	HealthURL     string `json:"health_url"`
	HealthError   string `json:"health_error,omitempty"`
}

func runStatus(cmd *cobra.Command, args []string) error {
	cfg, drv, err := loadConfigAndDriver()
	if err != nil {
		return err
	}

	result := &StatusResult{
		Service:    cfg.Service.Name,
		Supervisor: cfg.Service.Supervisor,
		HealthURL:  cfg.Health.URL,
	}

	installed, err := drv.UnitInstalled()
	if err != nil {
		return err
	}
	result.UnitInstalled = installed

	active, err := drv.IsActive()
	if err != nil {
		return err
	}
	result.Active = active

	// Single probe, not the retry loop deploy uses
	ctx, cancel := signalContext()
	defer cancel()
	if err := deps.HealthChecker.Check(ctx, cfg.Health); err != nil {
		result.HealthError = err.Error()
	} else {
		result.Healthy = true
	}

	if jsonOutput {
		return output.JSON(result)
	}

	output.Print("Status of %s (%s)", result.Service, result.Supervisor)
	output.Print("")

	if result.UnitInstalled {
		output.Success("Definition present (%s)", drv.UnitPath())
	} else {
		output.Warn("Definition not installed (run snippyctl deploy)")
	}

	if result.Active {
		output.Success("Service running")
	} else {
		output.Warn("Service not running")
	}

	if result.Healthy {
		output.Success("Health endpoint responding (%s)", result.HealthURL)
	} else {
		output.Warn("Health endpoint not responding (%s): %s", result.HealthURL, result.HealthError)
	}

	return nil
}
