// Package supervisor provides abstractions for managing the backend service
// across different process supervisors (systemd, docker compose).
//
// The supervisor package implements a unified interface for service
// operations, allowing snippyctl to deploy and inspect the backend without
// caring which supervisor runs it.
//
// # Supported Supervisors
//
//   - systemd: the service runs as a unit under /etc/systemd/system
//   - compose: the service runs as a docker compose service
//
// # Basic Usage
//
// Create a driver from the project config:
//
//	import "github.com/jheysaaz/snippy-backend-sub001/internal/supervisor"
//
//	drv, err := supervisor.New(cfg, "/etc/systemd/system/snippy-backend.service")
//	if err != nil {
//	    return err
//	}
//
//	// Deploy sequence
//	installed, err := drv.UnitInstalled()
//	if !installed {
//	    err = drv.InstallUnit(unitContent)
//	}
//	err = drv.Reload()
//	err = drv.Restart()
//
// The compose driver detects its invocation variant at construction: the
// docker compose plugin when available, the legacy docker-compose binary
// otherwise. Drivers built while neither is installed return an error from
// every command-running method.
//
// # Testing
//
// Each driver provides a WithExecutor constructor that accepts a mock
// executor.CommandExecutor for testing without actual system calls:
//
//	mockExec := &executor.MockExecutor{}
//	drv := supervisor.NewSystemdWithExecutor("snippy-backend.service", unitPath, mockExec)
//
// MockDriver is the package's own test double for command-layer tests.
//
// # Error Handling
//
// Command failures embed the command's combined output in the returned
// error so the operator sees what systemctl or compose printed.
package supervisor
