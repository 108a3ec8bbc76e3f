package cli

import (
	"context"
	"errors"
	"strings"

	"github.com/jheysaaz/snippy-backend-sub001/internal/cert"
	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	"github.com/jheysaaz/snippy-backend-sub001/internal/supervisor"
)

// MockConfigLoader is a test double for ConfigLoader
type MockConfigLoader struct {
	Cfg       *config.Config
	LoadErr   error
	SaveErr   error
	LoadCalls int
	SaveCalls int
	SavedPath string
}

func (m *MockConfigLoader) Load(path string) (*config.Config, error) {
	m.LoadCalls++
	if m.LoadErr != nil {
		return nil, m.LoadErr
	}
	if m.Cfg == nil {
		m.Cfg = config.New()
	}
	return m.Cfg, nil
}

func (m *MockConfigLoader) Save(cfg *config.Config, path string) error {
	m.SaveCalls++
	m.SavedPath = path
	if m.SaveErr != nil {
		return m.SaveErr
	}
	m.Cfg = cfg
	return nil
}

// MockSupervisorFactory is a test double for SupervisorFactory
type MockSupervisorFactory struct {
	Driver supervisor.Driver
	Err    error
}

func (m *MockSupervisorFactory) Create(cfg *config.Config) (supervisor.Driver, error) {
	if m.Err != nil {
		return nil, m.Err
	}
	if m.Driver != nil {
		return m.Driver, nil
	}
	// Return a default mock driver if none provided
	return supervisor.NewMockDriver("systemd", "/etc/systemd/system/snippy-backend.service"), nil
}

// CertbotObtainCall records one Obtain invocation
type CertbotObtainCall struct {
	Domain string
	Email  string
	Opts   cert.ObtainOptions
}

// MockCertbotManager is a test double for CertbotManager
type MockCertbotManager struct {
	NotInstalled bool
	LiveCert     *cert.LiveCert
	ObtainErr    error
	RenewErr     error
	ObtainCalls  []CertbotObtainCall
	RenewCalls   []bool
}

func (m *MockCertbotManager) Installed() bool {
	return !m.NotInstalled
}

func (m *MockCertbotManager) Obtain(domain, email string, opts cert.ObtainOptions) (*cert.LiveCert, error) {
	m.ObtainCalls = append(m.ObtainCalls, CertbotObtainCall{Domain: domain, Email: email, Opts: opts})
	if m.ObtainErr != nil {
		return nil, m.ObtainErr
	}
	if m.LiveCert != nil {
		return m.LiveCert, nil
	}
	return cert.LivePaths(domain), nil
}

func (m *MockCertbotManager) RenewAll(quiet bool) error {
	m.RenewCalls = append(m.RenewCalls, quiet)
	return m.RenewErr
}

func (m *MockCertbotManager) Live(domain string) *cert.LiveCert {
	if m.LiveCert != nil {
		return m.LiveCert
	}
	return cert.LivePaths(domain)
}

// CronInstallCall records one Install invocation
type CronInstallCall struct {
	Schedule string
	Command  string
}

// MockCronManager is a test double for CronManager
type MockCronManager struct {
	NotInstalled bool
	Entry        string
	InstallErr   error
	ShowErr      error
	RemoveErr    error
	NoChange     bool
	NoEntry      bool
	InstallCalls []CronInstallCall
	ShowCalls    int
	RemoveCalls  int
}

func (m *MockCronManager) Installed() bool {
	return !m.NotInstalled
}

func (m *MockCronManager) Install(schedule, command string) (bool, error) {
	m.InstallCalls = append(m.InstallCalls, CronInstallCall{Schedule: schedule, Command: command})
	if m.InstallErr != nil {
		return false, m.InstallErr
	}
	return !m.NoChange, nil
}

func (m *MockCronManager) Show() (string, error) {
	m.ShowCalls++
	if m.ShowErr != nil {
		return "", m.ShowErr
	}
	return m.Entry, nil
}

func (m *MockCronManager) Remove() (bool, error) {
	m.RemoveCalls++
	if m.RemoveErr != nil {
		return false, m.RemoveErr
	}
	return !m.NoEntry, nil
}

// AuditEntry records one audit Record invocation
type AuditEntry struct {
	Action string
	Fields map[string]string
}

// MockAuditor is a test double for Auditor
type MockAuditor struct {
	Records []AuditEntry
}

func (m *MockAuditor) Record(cfg config.AuditConfig, action string, fields map[string]string) {
	m.Records = append(m.Records, AuditEntry{Action: action, Fields: fields})
}

// MockRootChecker is a test double for RootChecker
type MockRootChecker struct {
	IsRoot bool
	Calls  int
}

func (m *MockRootChecker) RequireRoot() error {
	m.Calls++
	if !m.IsRoot {
		return errRootRequired
	}
	return nil
}

// MockStdinReader is a test double for StdinReader
type MockStdinReader struct {
	Input string
	pos   int
}

func (m *MockStdinReader) ReadString(delim byte) (string, error) {
	if m.pos >= len(m.Input) {
		return "", errors.New("EOF")
	}
	idx := strings.IndexByte(m.Input[m.pos:], delim)
	if idx == -1 {
		result := m.Input[m.pos:]
		m.pos = len(m.Input)
		return result, nil
	}
	result := m.Input[m.pos : m.pos+idx+1]
	m.pos += idx + 1
	return result, nil
}

// MockCommandRunner is a test double for CommandRunner
type MockCommandRunner struct {
	Calls        [][]string
	LookPathFunc func(file string) (string, error)
	RunFunc      func(name string, args ...string) error
	Err          error
}

func (m *MockCommandRunner) Run(name string, args ...string) error {
	m.Calls = append(m.Calls, append([]string{name}, args...))
	if m.RunFunc != nil {
		return m.RunFunc(name, args...)
	}
	return m.Err
}

func (m *MockCommandRunner) RunInteractive(name string, args ...string) error {
	return m.Run(name, args...)
}

func (m *MockCommandRunner) LookPath(file string) (string, error) {
	if m.LookPathFunc != nil {
		return m.LookPathFunc(file)
	}
	if m.Err != nil {
		return "", m.Err
	}
	return "/usr/bin/" + file, nil
}

// MockHealthChecker is a test double for HealthChecker
type MockHealthChecker struct {
	Attempts   int
	WaitErr    error
	CheckErr   error
	WaitCalls  int
	CheckCalls int
}

func (m *MockHealthChecker) Wait(ctx context.Context, cfg config.HealthConfig) (int, error) {
	m.WaitCalls++
	if m.WaitErr != nil {
		return m.Attempts, m.WaitErr
	}
	if m.Attempts == 0 {
		return 1, nil
	}
	return m.Attempts, nil
}

func (m *MockHealthChecker) Check(ctx context.Context, cfg config.HealthConfig) error {
	m.CheckCalls++
	return m.CheckErr
}

// MockDependenciesBuilder helps create mock dependencies for tests
type MockDependenciesBuilder struct {
	deps *Dependencies
}

// NewMockDeps creates a new MockDependenciesBuilder with sensible defaults
func NewMockDeps() *MockDependenciesBuilder {
	return &MockDependenciesBuilder{
		deps: &Dependencies{
			ConfigLoader:      &MockConfigLoader{Cfg: config.New()},
			SupervisorFactory: &MockSupervisorFactory{},
			CertbotManager:    &MockCertbotManager{},
			CronManager:       &MockCronManager{},
			Auditor:           &MockAuditor{},
			RootChecker:       &MockRootChecker{IsRoot: true},
			StdinReader:       &MockStdinReader{Input: "y\n"},
			CommandRunner:     &MockCommandRunner{},
			HealthChecker:     &MockHealthChecker{},
		},
	}
}

// WithConfig sets the config for the mock
func (b *MockDependenciesBuilder) WithConfig(cfg *config.Config) *MockDependenciesBuilder {
	b.deps.ConfigLoader = &MockConfigLoader{Cfg: cfg}
	return b
}

// WithConfigLoader sets a custom config loader
func (b *MockDependenciesBuilder) WithConfigLoader(loader ConfigLoader) *MockDependenciesBuilder {
	b.deps.ConfigLoader = loader
	return b
}

// WithDriver sets the supervisor driver for the mock
func (b *MockDependenciesBuilder) WithDriver(drv supervisor.Driver) *MockDependenciesBuilder {
	b.deps.SupervisorFactory = &MockSupervisorFactory{Driver: drv}
	return b
}

// WithSupervisorFactory sets a custom supervisor factory
func (b *MockDependenciesBuilder) WithSupervisorFactory(factory SupervisorFactory) *MockDependenciesBuilder {
	b.deps.SupervisorFactory = factory
	return b
}

// WithCertbot sets the certbot manager for the mock
func (b *MockDependenciesBuilder) WithCertbot(m CertbotManager) *MockDependenciesBuilder {
	b.deps.CertbotManager = m
	return b
}

// WithCronManager sets the cron manager for the mock
func (b *MockDependenciesBuilder) WithCronManager(m CronManager) *MockDependenciesBuilder {
	b.deps.CronManager = m
	return b
}

// WithAuditor sets the auditor for the mock
func (b *MockDependenciesBuilder) WithAuditor(a Auditor) *MockDependenciesBuilder {
	b.deps.Auditor = a
	return b
}

// WithRootAccess sets whether root access is available
func (b *MockDependenciesBuilder) WithRootAccess(isRoot bool) *MockDependenciesBuilder {
	b.deps.RootChecker = &MockRootChecker{IsRoot: isRoot}
	return b
}

// WithStdinInput sets the stdin input for the mock
func (b *MockDependenciesBuilder) WithStdinInput(input string) *MockDependenciesBuilder {
	b.deps.StdinReader = &MockStdinReader{Input: input}
	return b
}

// WithCommandRunner sets the command runner for the mock
func (b *MockDependenciesBuilder) WithCommandRunner(r CommandRunner) *MockDependenciesBuilder {
	b.deps.CommandRunner = r
	return b
}

// WithHealth sets the health checker for the mock
func (b *MockDependenciesBuilder) WithHealth(h HealthChecker) *MockDependenciesBuilder {
	b.deps.HealthChecker = h
	return b
}

// Build returns the configured Dependencies
func (b *MockDependenciesBuilder) Build() *Dependencies {
	return b.deps
}

// TestHelper provides utilities for CLI tests
type TestHelper struct {
	T interface {
		Helper()
		Cleanup(func())
	}
	OldDeps     *Dependencies
	MockDriver  *supervisor.MockDriver
	MockConfig  *MockConfigLoader
	MockCertbot *MockCertbotManager
	MockCron    *MockCronManager
	MockAuditor *MockAuditor
	MockRunner  *MockCommandRunner
	MockHealth  *MockHealthChecker
}

// NewTestHelper creates a new test helper with mock dependencies installed
// and registers a cleanup that restores the originals
func NewTestHelper(t interface {
	Helper()
	Cleanup(func())
}) *TestHelper {
	t.Helper()

	helper := &TestHelper{
		T:           t,
		OldDeps:     deps,
		MockDriver:  supervisor.NewMockDriver("systemd", "/etc/systemd/system/snippy-backend.service"),
		MockConfig:  &MockConfigLoader{Cfg: config.New()},
		MockCertbot: &MockCertbotManager{},
		MockCron:    &MockCronManager{},
		MockAuditor: &MockAuditor{},
		MockRunner:  &MockCommandRunner{},
		MockHealth:  &MockHealthChecker{},
	}

	deps = NewMockDeps().
		WithDriver(helper.MockDriver).
		WithConfigLoader(helper.MockConfig).
		WithCertbot(helper.MockCertbot).
		WithCronManager(helper.MockCron).
		WithAuditor(helper.MockAuditor).
		WithCommandRunner(helper.MockRunner).
		WithHealth(helper.MockHealth).
		Build()

	t.Cleanup(func() {
		deps = helper.OldDeps
	})

	return helper
}

// SetRootAccess sets whether root access is available
func (h *TestHelper) SetRootAccess(isRoot bool) {
	deps.RootChecker = &MockRootChecker{IsRoot: isRoot}
}

// SetStdinInput sets the stdin input
func (h *TestHelper) SetStdinInput(input string) {
	deps.StdinReader = &MockStdinReader{Input: input}
}

// GetConfig returns the current mock config
func (h *TestHelper) GetConfig() *config.Config {
	return h.MockConfig.Cfg
}
