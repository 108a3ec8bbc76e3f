package supervisor

import (
	"fmt"
	"strings"

	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	"github.com/jheysaaz/snippy-backend-sub001/internal/executor"
)

// Driver is the interface that all service supervisors must implement
type Driver interface {
	// Name returns the supervisor name (systemd, compose)
	Name() string

	// UnitPath returns the path of the service definition file
	UnitPath() string

	// UnitInstalled checks if the service definition is present
	UnitInstalled() (bool, error)

	// InstallUnit writes the service definition
	InstallUnit(content string) error

	// Reload makes the supervisor re-read service definitions
	Reload() error

	// Restart restarts the service
	Restart() error

	// ReloadService reloads the running service, restarting when the
	// supervisor cannot reload in place
	ReloadService() error

	// IsActive checks if the service is running
	IsActive() (bool, error)

	// LogsCommand returns the invocation for streaming service logs
	LogsCommand(follow bool, lines int) (string, []string, error)
}

// New creates the driver for the configured supervisor. unitPath is the
// systemd unit install target and is unused by compose.
func New(cfg *config.Config, unitPath string) (Driver, error) {
	return NewWithExecutor(cfg, unitPath, executor.NewSystemExecutor())
}

// NewWithExecutor creates the driver with a custom executor (for testing)
func NewWithExecutor(cfg *config.Config, unitPath string, exec executor.CommandExecutor) (Driver, error) {
	switch cfg.Service.Supervisor {
	case config.SupervisorSystemd:
		return NewSystemdWithExecutor(cfg.Service.UnitName(), unitPath, exec), nil
	case config.SupervisorCompose:
		return NewComposeWithExecutor(cfg.Service.ComposeFile, cfg.Service.ComposeService, exec), nil
	default:
		return nil, fmt.Errorf("unknown supervisor: %s (available: %s)", cfg.Service.Supervisor, strings.Join(config.ValidSupervisors(), ", "))
	}
}
