// Package platform provides platform-specific detection of service supervisors.
package platform

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

// SystemdPaths contains the detected systemd installation state.
type SystemdPaths struct {
	UnitDir string // unit install directory, empty when systemd is absent
	Running bool   // true when systemd is the active init
}

// DockerPaths contains the detected docker installation state.
type DockerPaths struct {
	Socket  string
	Running bool // true when the daemon socket is present
}

// PlatformPaths contains the detected state for all supported supervisors.
type PlatformPaths struct {
	Systemd SystemdPaths
	Docker  DockerPaths
}

// DetectPaths returns platform-specific supervisor state.
// It checks for common installation locations based on the OS.
func DetectPaths() (*PlatformPaths, error) {
	switch runtime.GOOS {
	case "darwin":
		return detectDarwinPaths()
	case "linux":
		return detectLinuxPaths()
	default:
		return nil, fmt.Errorf("unsupported platform: %s", runtime.GOOS)
	}
}

// detectDarwinPaths detects supervisor state for macOS (Docker Desktop).
func detectDarwinPaths() (*PlatformPaths, error) {
	p := &PlatformPaths{
		Docker: DockerPaths{Socket: "/var/run/docker.sock"},
	}
	p.Docker.Running = pathExists(p.Docker.Socket)

	if !p.Docker.Running {
		return nil, fmt.Errorf("no service supervisor found (docker socket %s missing, systemd unavailable on darwin)", p.Docker.Socket)
	}

	return p, nil
}

// detectLinuxPaths detects supervisor state for Linux distributions.
func detectLinuxPaths() (*PlatformPaths, error) {
	p := &PlatformPaths{
		Docker: DockerPaths{Socket: "/var/run/docker.sock"},
	}
	p.Docker.Running = pathExists(p.Docker.Socket)
	p.Systemd.Running = pathExists("/run/systemd/system")

	// Prefer the admin unit directory, then the vendor directories
	for _, dir := range []string{"/etc/systemd/system", "/usr/lib/systemd/system", "/lib/systemd/system"} {
		if pathExists(dir) {
			p.Systemd.UnitDir = dir
			break
		}
	}

	if p.Systemd.UnitDir == "" && !p.Docker.Running {
		return nil, fmt.Errorf("no service supervisor found (checked /etc/systemd/system, /usr/lib/systemd/system and %s)", p.Docker.Socket)
	}

	return p, nil
}

// UnitPath returns the install path for the named systemd unit.
func (p *PlatformPaths) UnitPath(unitName string) (string, error) {
	if p.Systemd.UnitDir == "" {
		return "", fmt.Errorf("systemd not available on this platform")
	}
	return filepath.Join(p.Systemd.UnitDir, unitName), nil
}

// DefaultSupervisor returns the supervisor kind detection favors,
// or an empty string when neither is usable.
func (p *PlatformPaths) DefaultSupervisor() string {
	if p.Systemd.Running && p.Systemd.UnitDir != "" {
		return "systemd"
	}
	if p.Docker.Running {
		return "compose"
	}
	return ""
}

// pathExists checks if a path exists on the filesystem.
func pathExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// Platform returns a string describing the current platform.
func Platform() string {
	return fmt.Sprintf("%s/%s", runtime.GOOS, runtime.GOARCH)
}
