package cli

import (
	"errors"
	"fmt"
	"os"
	"regexp"
	"strings"

	"github.com/jheysaaz/snippy-backend-sub001/internal/cert"
	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	"github.com/jheysaaz/snippy-backend-sub001/internal/executor"
	"github.com/jheysaaz/snippy-backend-sub001/internal/output"
	"github.com/jheysaaz/snippy-backend-sub001/internal/supervisor"
	"github.com/spf13/cobra"
)

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system status and diagnose issues",
	Long: `Run diagnostic checks on the deployment environment.

Checks:
  - Required external binaries for the configured supervisor
  - Certbot (required only when Let's Encrypt is configured)
  - Crontab availability
  - Configuration file validity
  - Service definition and running state
  - Certificate presence and expiry

Examples:
  snippyctl doctor
  snippyctl doctor --json`,
	Args: cobra.NoArgs,
	RunE: runDoctor,
}

func init() {
	rootCmd.AddCommand(doctorCmd)
}

// CheckResult represents a single diagnostic check result
type CheckResult struct {
	Status  string `json:"status"` // "success", "warning", "error"
	Message string `json:"message"`
}

// DoctorReport contains all diagnostic results
type DoctorReport struct {
	SystemRequirements []CheckResult `json:"system_requirements"`
	Configuration      []CheckResult `json:"configuration"`
	Service            []CheckResult `json:"service"`
	Certificates       []CheckResult `json:"certificates"`
}

func runDoctor(cmd *cobra.Command, args []string) error {
	exec := executor.NewSystemExecutor()

	cfg, drv, err := loadConfigAndDriver()
	if err != nil {
		return err
	}

	report := &DoctorReport{
		SystemRequirements: checkSystemRequirements(exec, cfg),
		Configuration:      checkConfiguration(cfg),
		Service:            checkService(drv),
		Certificates:       checkCertificates(cfg),
	}

	if jsonOutput {
		return output.JSON(report)
	}

	displayDoctorResults(report)
	return nil
}

// Version extraction patterns for the external tools
var versionPatterns = map[string]*regexp.Regexp{
	"systemctl": regexp.MustCompile(`systemd (\d+)`),
	"docker":    regexp.MustCompile(`Docker version (\d+\.\d+\.\d+)`),
	"certbot":   regexp.MustCompile(`certbot (\d+\.\d+\.\d+)`),
}

func checkSystemRequirements(exec executor.CommandExecutor, cfg *config.Config) []CheckResult {
	results := []CheckResult{}

	tools := []struct {
		name        string
		binary      string
		versionArgs []string
		optional    bool
	}{
		{"Systemctl", "systemctl", []string{"--version"}, cfg.Service.Supervisor != config.SupervisorSystemd},
		{"Docker", "docker", []string{"--version"}, cfg.Service.Supervisor != config.SupervisorCompose},
	}

	for _, tool := range tools {
		if _, err := exec.LookPath(tool.binary); err == nil {
			version := "unknown"
			if versionOutput, err := exec.Execute(tool.binary, tool.versionArgs...); err == nil {
				if pattern, ok := versionPatterns[tool.binary]; ok {
					if matches := pattern.FindStringSubmatch(string(versionOutput)); len(matches) >= 2 {
						version = matches[1]
					}
				}
			}
			results = append(results, CheckResult{
				Status:  "success",
				Message: fmt.Sprintf("%s installed (%s)", tool.name, version),
			})
		} else {
			status := "error"
			suffix := ""
			if tool.optional {
				status = "warning"
				suffix = " (optional)"
			}
			results = append(results, CheckResult{
				Status:  status,
				Message: fmt.Sprintf("%s not installed%s", tool.name, suffix),
			})
		}
	}

	// The compose supervisor additionally needs a compose command
	if cfg.Service.Supervisor == config.SupervisorCompose {
		results = append(results, checkComposeCommand(exec))
	}

	// Certbot is only a hard requirement when Let's Encrypt is configured
	if _, err := exec.LookPath("certbot"); err == nil {
		version := "unknown"
		if versionOutput, err := exec.Execute("certbot", "--version"); err == nil {
			if matches := versionPatterns["certbot"].FindStringSubmatch(string(versionOutput)); len(matches) >= 2 {
				version = matches[1]
			}
		}
		results = append(results, CheckResult{
			Status:  "success",
			Message: fmt.Sprintf("Certbot installed (%s)", version),
		})
	} else {
		status := "warning"
		suffix := " (only needed for Let's Encrypt)"
		if cfg.LetsEncrypt.Domain != "" {
			status = "error"
			suffix = " (required: letsencrypt domain is configured)"
		}
		results = append(results, CheckResult{
			Status:  status,
			Message: "Certbot not installed" + suffix,
		})
	}

	if _, err := exec.LookPath("crontab"); err == nil {
		results = append(results, CheckResult{
			Status:  "success",
			Message: "Crontab installed",
		})
	} else {
		results = append(results, CheckResult{
			Status:  "warning",
			Message: "Crontab not installed (cron install unavailable)",
		})
	}

	return results
}

// checkComposeCommand reports which compose invocation is available
func checkComposeCommand(exec executor.CommandExecutor) CheckResult {
	if _, err := exec.Execute("docker", "compose", "version"); err == nil {
		return CheckResult{Status: "success", Message: "Docker compose plugin available"}
	}
	if _, err := exec.LookPath("docker-compose"); err == nil {
		return CheckResult{Status: "success", Message: "Legacy docker-compose available"}
	}
	return CheckResult{Status: "error", Message: "No compose command found"}
}

func checkConfiguration(cfg *config.Config) []CheckResult {
	results := []CheckResult{}

	path := configSavePath()
	if _, err := os.Stat(path); err == nil {
		results = append(results, CheckResult{
			Status:  "success",
			Message: fmt.Sprintf("Config file exists (%s)", path),
		})
	} else {
		results = append(results, CheckResult{
			Status:  "warning",
			Message: fmt.Sprintf("No config file at %s (built-in defaults in use)", path),
		})
	}

	if err := cfg.Validate(); err == nil {
		results = append(results, CheckResult{
			Status:  "success",
			Message: "Configuration valid",
		})
	} else {
		results = append(results, CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("Configuration invalid: %v", err),
		})
	}

	return results
}

func checkService(drv supervisor.Driver) []CheckResult {
	results := []CheckResult{}

	if installed, err := drv.UnitInstalled(); err != nil {
		results = append(results, CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("Could not check service definition: %v", err),
		})
	} else if installed {
		results = append(results, CheckResult{
			Status:  "success",
			Message: fmt.Sprintf("%s definition present (%s)", capitalize(drv.Name()), drv.UnitPath()),
		})
	} else {
		results = append(results, CheckResult{
			Status:  "warning",
			Message: "Service definition not installed (run snippyctl deploy)",
		})
	}

	if active, err := drv.IsActive(); err != nil {
		results = append(results, CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("Could not check service state: %v", err),
		})
	} else if active {
		results = append(results, CheckResult{
			Status:  "success",
			Message: "Service running",
		})
	} else {
		results = append(results, CheckResult{
			Status:  "warning",
			Message: "Service not running",
		})
	}

	return results
}

func checkCertificates(cfg *config.Config) []CheckResult {
	results := []CheckResult{}

	for _, name := range config.ValidBundles() {
		results = append(results, checkCertificate(name, cfg.SSL.CertPath(name)))
	}
	if cfg.LetsEncrypt.Domain != "" {
		live := cert.LivePaths(cfg.LetsEncrypt.Domain)
		results = append(results, checkCertificate("letsencrypt", live.CertPath))
	}

	return results
}

// checkCertificate grades one certificate by presence and remaining validity
func checkCertificate(name, path string) CheckResult {
	info, err := cert.Inspect(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return CheckResult{
				Status:  "warning",
				Message: fmt.Sprintf("%s certificate not generated (run snippyctl ssl setup)", capitalize(name)),
			}
		}
		return CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("%s certificate unreadable: %v", capitalize(name), err),
		}
	}

	switch {
	case info.Expired():
		return CheckResult{
			Status:  "error",
			Message: fmt.Sprintf("%s certificate expired %d day(s) ago", capitalize(name), -info.DaysLeft),
		}
	case info.DaysLeft < expiryWarnDays:
		return CheckResult{
			Status:  "warning",
			Message: fmt.Sprintf("%s certificate expires in %d day(s)", capitalize(name), info.DaysLeft),
		}
	default:
		return CheckResult{
			Status:  "success",
			Message: fmt.Sprintf("%s certificate valid for %d day(s)", capitalize(name), info.DaysLeft),
		}
	}
}

func displayDoctorResults(report *DoctorReport) {
	output.Print("Checking system requirements...")
	for _, check := range report.SystemRequirements {
		displayCheck(check)
	}
	output.Print("")

	output.Print("Checking configuration...")
	for _, check := range report.Configuration {
		displayCheck(check)
	}
	output.Print("")

	output.Print("Checking service...")
	for _, check := range report.Service {
		displayCheck(check)
	}
	output.Print("")

	output.Print("Checking certificates...")
	for _, check := range report.Certificates {
		displayCheck(check)
	}
}

func displayCheck(check CheckResult) {
	switch check.Status {
	case "success":
		output.Success("%s", check.Message)
	case "warning":
		output.Warn("%s", check.Message)
	case "error":
		output.Error("%s", check.Message)
	}
}

func capitalize(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
