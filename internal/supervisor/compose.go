package supervisor

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/jheysaaz/snippy-backend-sub001/internal/executor"
)

// ComposeDriver implements the Driver interface for docker compose
type ComposeDriver struct {
	composeFile string
	service     string
	base        []string
	exec        executor.CommandExecutor
}

// NewCompose creates a new compose driver, detecting the compose variant
func NewCompose(composeFile, service string) *ComposeDriver {
	return NewComposeWithExecutor(composeFile, service, executor.NewSystemExecutor())
}

// NewComposeWithExecutor creates a new compose driver with a custom executor (for testing)
func NewComposeWithExecutor(composeFile, service string, exec executor.CommandExecutor) *ComposeDriver {
	return &ComposeDriver{
		composeFile: composeFile,
		service:     service,
		base:        detectComposeCommand(exec),
		exec:        exec,
	}
}

// detectComposeCommand finds the compose invocation: the docker compose
// plugin when present, the legacy docker-compose binary otherwise.
func detectComposeCommand(exec executor.CommandExecutor) []string {
	if _, err := exec.LookPath("docker"); err == nil {
		if _, err := exec.Execute("docker", "compose", "version"); err == nil {
			return []string{"docker", "compose"}
		}
	}
	if _, err := exec.LookPath("docker-compose"); err == nil {
		return []string{"docker-compose"}
	}
	return nil
}

// command builds a compose invocation for the configured file
func (c *ComposeDriver) command(args ...string) (string, []string, error) {
	if len(c.base) == 0 {
		return "", nil, fmt.Errorf("docker compose not found (checked the docker compose plugin and docker-compose)")
	}
	full := append(append([]string{}, c.base[1:]...), "-f", c.composeFile)
	full = append(full, args...)
	return c.base[0], full, nil
}

// Name returns the driver name
func (c *ComposeDriver) Name() string {
	return "compose"
}

// UnitPath returns the compose file path
func (c *ComposeDriver) UnitPath() string {
	return c.composeFile
}

// UnitInstalled checks if the compose file is present
func (c *ComposeDriver) UnitInstalled() (bool, error) {
	_, err := os.Stat(c.composeFile)
	if os.IsNotExist(err) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("failed to check compose file: %w", err)
	}
	return true, nil
}

// InstallUnit refuses: compose files are authored, not generated
func (c *ComposeDriver) InstallUnit(content string) error {
	return fmt.Errorf("compose file %s must be authored manually", c.composeFile)
}

// Reload is a no-op: compose re-reads the file on every invocation
func (c *ComposeDriver) Reload() error {
	return nil
}

// Restart restarts the service container
func (c *ComposeDriver) Restart() error {
	name, args, err := c.command("restart", c.service)
	if err != nil {
		return err
	}

	output, err := c.exec.Execute(name, args...)
	if err != nil {
		return fmt.Errorf("failed to restart %s: %s", c.service, strings.TrimSpace(string(output)))
	}
	return nil
}

// ReloadService restarts the container; compose has no in-place reload
func (c *ComposeDriver) ReloadService() error {
	return c.Restart()
}

// IsActive checks if the service container is running
func (c *ComposeDriver) IsActive() (bool, error) {
	name, args, err := c.command("ps", "--services", "--filter", "status=running")
	if err != nil {
		return false, err
	}

	output, err := c.exec.Execute(name, args...)
	if err != nil {
		return false, fmt.Errorf("failed to check %s: %s", c.service, strings.TrimSpace(string(output)))
	}

	for _, line := range strings.Split(string(output), "\n") {
		if strings.TrimSpace(line) == c.service {
			return true, nil
		}
	}
	return false, nil
}

// LogsCommand returns the compose logs invocation
func (c *ComposeDriver) LogsCommand(follow bool, lines int) (string, []string, error) {
	args := []string{"logs", "--tail", strconv.Itoa(lines)}
	if follow {
		args = append(args, "--follow")
	}
	args = append(args, c.service)
	return c.command(args...)
}
