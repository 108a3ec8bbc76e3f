package supervisor

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/jheysaaz/snippy-backend-sub001/internal/executor"
)

// SystemdDriver implements the Driver interface for systemd
type SystemdDriver struct {
	unitName string
	unitPath string
	exec     executor.CommandExecutor
}

// NewSystemd creates a new systemd driver
func NewSystemd(unitName, unitPath string) *SystemdDriver {
	return &SystemdDriver{
		unitName: unitName,
		unitPath: unitPath,
		exec:     executor.NewSystemExecutor(),
	}
}

// NewSystemdWithExecutor creates a new systemd driver with a custom executor (for testing)
func NewSystemdWithExecutor(unitName, unitPath string, exec executor.CommandExecutor) *SystemdDriver {
	return &SystemdDriver{
		unitName: unitName,
		unitPath: unitPath,
		exec:     exec,
	}
}

// Name returns the driver name
func (s *SystemdDriver) Name() string {
	return "systemd"
}

// UnitPath returns the unit install path
func (s *SystemdDriver) UnitPath() string {
	return s.unitPath
}

// UnitInstalled checks if the unit file is present
func (s *SystemdDriver) UnitInstalled() (bool, error) {
	_, err := os.Stat(s.unitPath)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check unit file: %w", err)
	}
	return true, nil
}

// InstallUnit writes the unit file
func (s *SystemdDriver) InstallUnit(content string) error {
	if err := os.MkdirAll(filepath.Dir(s.unitPath), 0755); err != nil {
		return fmt.Errorf("failed to create unit directory: %w", err)
	}

	if err := os.WriteFile(s.unitPath, []byte(content), 0644); err != nil {
		return fmt.Errorf("failed to write unit file: %w", err)
	}

	return nil
}

// Reload makes systemd re-read unit definitions
func (s *SystemdDriver) Reload() error {
	output, err := s.exec.Execute("systemctl", "daemon-reload")
	if err != nil {
		return fmt.Errorf("daemon-reload failed: %s", strings.TrimSpace(string(output)))
	}
	return nil
}

// Restart restarts the service
func (s *SystemdDriver) Restart() error {
	output, err := s.exec.Execute("systemctl", "restart", s.unitName)
	if err != nil {
		return fmt.Errorf("failed to restart %s: %s", s.unitName, strings.TrimSpace(string(output)))
	}
	return nil
}

// ReloadService reloads the service, restarting when it has no reload handler
func (s *SystemdDriver) ReloadService() error {
	output, err := s.exec.Execute("systemctl", "reload-or-restart", s.unitName)
	if err != nil {
		return fmt.Errorf("failed to reload %s: %s", s.unitName, strings.TrimSpace(string(output)))
	}
	return nil
}

// IsActive checks if the service is running
func (s *SystemdDriver) IsActive() (bool, error) {
	output, err := s.exec.Execute("systemctl", "is-active", s.unitName)
	state := strings.TrimSpace(string(output))

	if state == "active" {
		return true, nil
	}
	// is-active exits non-zero for inactive units but still prints the state
	if state != "" {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %w", s.unitName, err)
	}
	return false, nil
}

// LogsCommand returns the journalctl invocation for the unit
func (s *SystemdDriver) LogsCommand(follow bool, lines int) (string, []string, error) {
	args := []string{"-u", s.unitName, "-n", strconv.Itoa(lines)}
	if follow {
		args = append(args, "-f")
	}
	return "journalctl", args, nil
}
