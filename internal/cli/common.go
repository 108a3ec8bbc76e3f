package cli

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	"github.com/jheysaaz/snippy-backend-sub001/internal/output"
	"github.com/jheysaaz/snippy-backend-sub001/internal/supervisor"
)

// loadConfig loads the project configuration honoring the --config flag
func loadConfig() (*config.Config, error) {
	cfg, err := deps.ConfigLoader.Load(cfgFile)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return cfg, nil
}

// loadConfigAndDriver loads config and creates the supervisor driver
func loadConfigAndDriver() (*config.Config, supervisor.Driver, error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}

	drv, err := deps.SupervisorFactory.Create(cfg)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create %s driver: %w", cfg.Service.Supervisor, err)
	}

	return cfg, drv, nil
}

// configSavePath returns the path config writes go to, honoring --config
func configSavePath() string {
	if cfgFile != "" {
		return cfgFile
	}
	return config.DefaultFile
}

// requireRoot checks for root privileges through the injected checker
func requireRoot() error {
	return deps.RootChecker.RequireRoot()
}

// confirm prompts for a yes/no answer, defaulting to no.
// Read errors (EOF on a closed stdin) count as no.
func confirm(prompt string) bool {
	output.Print("%s [y/N]: ", prompt)
	answer, err := deps.StdinReader.ReadString('\n')
	if err != nil {
		return false
	}
	answer = strings.ToLower(strings.TrimSpace(answer))
	return answer == "y" || answer == "yes"
}

// signalContext returns a context cancelled on SIGINT or SIGTERM
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

// recordAudit appends an audit trail entry for a mutating command
func recordAudit(cfg *config.Config, action string, fields map[string]string) {
	deps.Auditor.Record(cfg.Audit, action, fields)
}

// outputResult handles JSON or human-readable output
func outputResult(data interface{}, successMsg string, args ...interface{}) error {
	if jsonOutput {
		return output.JSON(data)
	}
	output.Success(successMsg, args...)
	return nil
}

// validateDomain checks if a domain is plausible
func validateDomain(domain string) error {
	if domain == "" {
		return fmt.Errorf("domain cannot be empty")
	}
	if strings.Contains(domain, " ") {
		return fmt.Errorf("domain cannot contain spaces")
	}
	if strings.HasPrefix(domain, "-") || strings.HasSuffix(domain, "-") {
		return fmt.Errorf("domain cannot start or end with hyphen")
	}
	return nil
}

// validateEmail checks if an email is plausible
func validateEmail(email string) error {
	if email == "" {
		return fmt.Errorf("email cannot be empty")
	}
	at := strings.Index(email, "@")
	if at <= 0 || at == len(email)-1 {
		return fmt.Errorf("invalid email address: %s", email)
	}
	return nil
}

// CommandResult represents a common result structure for CLI commands
type CommandResult struct {
	Success bool   `json:"success"`
	Service string `json:"service"`
	Action  string `json:"action,omitempty"`
	Message string `json:"message,omitempty"`
}

// DryRunOperation describes one operation a command would perform
type DryRunOperation struct {
	Action  string `json:"action"`
	Target  string `json:"target"`
	Details string `json:"details,omitempty"`
}

// DryRunResult is the operation plan printed under --dry-run
type DryRunResult struct {
	Service     string            `json:"service"`
	Operations  []DryRunOperation `json:"operations"`
	UnitPreview string            `json:"unit_preview,omitempty"`
}

// outputDryRun prints the plan without applying anything
func outputDryRun(result DryRunResult) error {
	if jsonOutput {
		return output.JSON(result)
	}

	output.Info("Dry run for %s (no changes applied)", result.Service)
	for _, op := range result.Operations {
		output.Print("  %-12s %s", op.Action, op.Target)
		if op.Details != "" {
			output.Print("  %-12s %s", "", op.Details)
		}
	}
	if result.UnitPreview != "" {
		output.Print("")
		output.Print("Unit file preview:")
		output.Print("%s", result.UnitPreview)
	}
	return nil
}
