package supervisor

// MockDriver is a test double for Driver interface
type MockDriver struct {
	name     string
	unitPath string

	// Function mocks - set these to customize behavior
	UnitInstalledFunc func() (bool, error)
	InstallUnitFunc   func(content string) error
	ReloadFunc        func() error
	RestartFunc       func() error
	ReloadServiceFunc func() error
	IsActiveFunc      func() (bool, error)
	LogsCommandFunc   func(follow bool, lines int) (string, []string, error)

	// Call tracking - check these to verify interactions
	UnitInstalledCalls int
	InstallUnitCalls   []string
	ReloadCalls        int
	RestartCalls       int
	ReloadServiceCalls int
	IsActiveCalls      int
	LogsCommandCalls   int
}

// NewMockDriver creates a new MockDriver with default implementations:
// the unit is installed and the service is active.
func NewMockDriver(name, unitPath string) *MockDriver {
	return &MockDriver{
		name:             name,
		unitPath:         unitPath,
		InstallUnitCalls: make([]string, 0),
	}
}

// Name returns the driver name
func (m *MockDriver) Name() string {
	return m.name
}

// UnitPath returns the configured unit path
func (m *MockDriver) UnitPath() string {
	return m.unitPath
}

// UnitInstalled records the call and invokes the mock function if set
func (m *MockDriver) UnitInstalled() (bool, error) {
	m.UnitInstalledCalls++
	if m.UnitInstalledFunc != nil {
		return m.UnitInstalledFunc()
	}
	return true, nil
}

// InstallUnit records the call and invokes the mock function if set
func (m *MockDriver) InstallUnit(content string) error {
	m.InstallUnitCalls = append(m.InstallUnitCalls, content)
	if m.InstallUnitFunc != nil {
		return m.InstallUnitFunc(content)
	}
	return nil
}

// Reload records the call and invokes the mock function if set
func (m *MockDriver) Reload() error {
	m.ReloadCalls++
	if m.ReloadFunc != nil {
		return m.ReloadFunc()
	}
	return nil
}

// Restart records the call and invokes the mock function if set
func (m *MockDriver) Restart() error {
	m.RestartCalls++
	if m.RestartFunc != nil {
		return m.RestartFunc()
	}
	return nil
}

// ReloadService records the call and invokes the mock function if set
func (m *MockDriver) ReloadService() error {
	m.ReloadServiceCalls++
	if m.ReloadServiceFunc != nil {
		return m.ReloadServiceFunc()
	}
	return nil
}

// IsActive records the call and invokes the mock function if set
func (m *MockDriver) IsActive() (bool, error) {
	m.IsActiveCalls++
	if m.IsActiveFunc != nil {
		return m.IsActiveFunc()
	}
	return true, nil
}

// LogsCommand records the call and invokes the mock function if set
func (m *MockDriver) LogsCommand(follow bool, lines int) (string, []string, error) {
	m.LogsCommandCalls++
	if m.LogsCommandFunc != nil {
		return m.LogsCommandFunc(follow, lines)
	}
	return "journalctl", []string{"-u", m.name}, nil
}

// Reset clears all call tracking
func (m *MockDriver) Reset() {
	m.UnitInstalledCalls = 0
	m.InstallUnitCalls = make([]string, 0)
	m.ReloadCalls = 0
	m.RestartCalls = 0
	m.ReloadServiceCalls = 0
	m.IsActiveCalls = 0
	m.LogsCommandCalls = 0
}
