package cli

import (
	"context"
	"os"
	"os/exec"

	"github.com/jheysaaz/snippy-backend-sub001/internal/audit"
	"github.com/jheysaaz/snippy-backend-sub001/internal/cert"
	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	"github.com/jheysaaz/snippy-backend-sub001/internal/cron"
	opserrors "github.com/jheysaaz/snippy-backend-sub001/internal/errors"
	"github.com/jheysaaz/snippy-backend-sub001/internal/health"
	"github.com/jheysaaz/snippy-backend-sub001/internal/input"
	"github.com/jheysaaz/snippy-backend-sub001/internal/logger"
	"github.com/jheysaaz/snippy-backend-sub001/internal/platform"
	"github.com/jheysaaz/snippy-backend-sub001/internal/supervisor"
)

// Dependencies aggregates all CLI external dependencies for testability
type Dependencies struct {
	ConfigLoader      ConfigLoader
	SupervisorFactory SupervisorFactory
	CertbotManager    CertbotManager
	CronManager       CronManager
	Auditor           Auditor
	RootChecker       RootChecker
	StdinReader       StdinReader
	CommandRunner     CommandRunner
	HealthChecker     HealthChecker
}

// ConfigLoader handles configuration loading and saving
type ConfigLoader interface {
	Load(path string) (*config.Config, error)
	Save(cfg *config.Config, path string) error
}

// SupervisorFactory creates supervisor driver instances
type SupervisorFactory interface {
	Create(cfg *config.Config) (supervisor.Driver, error)
}

// CertbotManager drives the certbot CLI
type CertbotManager interface {
	Installed() bool
	Obtain(domain, email string, opts cert.ObtainOptions) (*cert.LiveCert, error)
	RenewAll(quiet bool) error
	Live(domain string) *cert.LiveCert
}

// CronManager owns the marker-tagged renewal crontab entry
type CronManager interface {
	Installed() bool
	Install(schedule, command string) (bool, error)
	Show() (string, error)
	Remove() (bool, error)
}

// Auditor appends audit trail entries for mutating commands
type Auditor interface {
	Record(cfg config.AuditConfig, action string, fields map[string]string)
}

// RootChecker checks root privileges
type RootChecker interface {
	RequireRoot() error
}

// StdinReader reads from stdin
type StdinReader interface {
	ReadString(delim byte) (string, error)
}

// CommandRunner runs external commands for the logs and config edit commands
type CommandRunner interface {
	Run(name string, args ...string) error
	RunInteractive(name string, args ...string) error
	LookPath(file string) (string, error)
}

// HealthChecker polls the service health endpoint
type HealthChecker interface {
	Wait(ctx context.Context, cfg config.HealthConfig) (int, error)
	Check(ctx context.Context, cfg config.HealthConfig) error
}

// Package-level dependencies (can be overridden for testing)
var deps = &Dependencies{
	ConfigLoader:      &realConfigLoader{},
	SupervisorFactory: &realSupervisorFactory{},
	CertbotManager:    &realCertbotManager{},
	CronManager:       &realCronManager{},
	Auditor:           &realAuditor{},
	RootChecker:       &realRootChecker{},
	StdinReader:       &realStdinReader{},
	CommandRunner:     &realCommandRunner{},
	HealthChecker:     &realHealthChecker{},
}

// SetDeps replaces the package dependencies (for testing)
func SetDeps(d *Dependencies) {
	deps = d
}

// GetDeps returns the current dependencies (for testing)
func GetDeps() *Dependencies {
	return deps
}

// Real implementations that delegate to the internal packages

type realConfigLoader struct{}

func (r *realConfigLoader) Load(path string) (*config.Config, error) {
	return config.Load(path)
}

func (r *realConfigLoader) Save(cfg *config.Config, path string) error {
	return cfg.Save(path)
}

type realSupervisorFactory struct{}

func (r *realSupervisorFactory) Create(cfg *config.Config) (supervisor.Driver, error) {
	unitPath := ""
	if cfg.Service.Supervisor == config.SupervisorSystemd {
		paths, err := platform.DetectPaths()
		if err != nil {
			return nil, err
		}
		unitPath, err = paths.UnitPath(cfg.Service.UnitName())
		if err != nil {
			return nil, err
		}
	}
	return supervisor.New(cfg, unitPath)
}

type realCertbotManager struct{}

func (r *realCertbotManager) Installed() bool {
	return cert.CertbotInstalled()
}

func (r *realCertbotManager) Obtain(domain, email string, opts cert.ObtainOptions) (*cert.LiveCert, error) {
	return cert.Obtain(domain, email, opts)
}

func (r *realCertbotManager) RenewAll(quiet bool) error {
	return cert.RenewAll(quiet)
}

func (r *realCertbotManager) Live(domain string) *cert.LiveCert {
	return cert.LivePaths(domain)
}

type realCronManager struct{}

func (r *realCronManager) Installed() bool {
	return cron.CrontabInstalled()
}

func (r *realCronManager) Install(schedule, command string) (bool, error) {
	return cron.Install(schedule, command)
}

func (r *realCronManager) Show() (string, error) {
	return cron.Show()
}

func (r *realCronManager) Remove() (bool, error) {
	return cron.Remove()
}

type realAuditor struct{}

func (r *realAuditor) Record(cfg config.AuditConfig, action string, fields map[string]string) {
	log := audit.New(cfg)
	defer log.Close()
	log.Record(action, fields)
}

type realRootChecker struct{}

func (r *realRootChecker) RequireRoot() error {
	if os.Geteuid() != 0 {
		return errRootRequired
	}
	return nil
}

type realStdinReader struct {
	reader input.Reader
}

func (r *realStdinReader) ReadString(delim byte) (string, error) {
	if r.reader == nil {
		r.reader = input.NewStdinReader()
	}
	return r.reader.ReadString(delim)
}

type realCommandRunner struct{}

func (r *realCommandRunner) Run(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (r *realCommandRunner) RunInteractive(name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = os.Stdin
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	return cmd.Run()
}

func (r *realCommandRunner) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

type realHealthChecker struct{}

func (r *realHealthChecker) Wait(ctx context.Context, cfg config.HealthConfig) (int, error) {
	checker, err := health.NewChecker(cfg)
	if err != nil {
		return 0, err
	}
	checker.OnAttempt = func(attempt int, err error) {
		if err != nil {
			logger.Debug("health attempt %d failed: %v", attempt, err)
		}
	}
	return checker.Wait(ctx)
}

func (r *realHealthChecker) Check(ctx context.Context, cfg config.HealthConfig) error {
	checker, err := health.NewChecker(cfg)
	if err != nil {
		return err
	}
	return checker.Check(ctx)
}

// errRootRequired is the sentinel error for root privilege checks
var errRootRequired = opserrors.Wrap(opserrors.ErrCodePermission, "this operation requires root privileges. Please run with sudo", nil)
