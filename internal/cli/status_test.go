package cli

import (
	"errors"
	"strings"
	"testing"

	"github.com/jheysaaz/snippy-backend-sub001/internal/supervisor"
)

func TestRunStatus(t *testing.T) {
	tests := []struct {
		name        string
		setup       func(*supervisor.MockDriver, *MockHealthChecker)
		wantErr     bool
		errContains string
		validate    func(*testing.T, *supervisor.MockDriver, *MockHealthChecker)
	}{
		{
			name: "installed active and healthy",
			validate: func(t *testing.T, drv *supervisor.MockDriver, health *MockHealthChecker) {
				if drv.UnitInstalledCalls != 1 {
					t.Errorf("expected 1 UnitInstalled call, got %d", drv.UnitInstalledCalls)
				}
				if drv.IsActiveCalls != 1 {
					t.Errorf("expected 1 IsActive call, got %d", drv.IsActiveCalls)
				}
				if health.CheckCalls != 1 {
					t.Errorf("expected 1 health Check call, got %d", health.CheckCalls)
				}
			},
		},
		{
			name: "missing definition is reported not failed",
			setup: func(drv *supervisor.MockDriver, health *MockHealthChecker) {
				drv.UnitInstalledFunc = func() (bool, error) { return false, nil }
			},
		},
		{
			name: "stopped service is reported not failed",
			setup: func(drv *supervisor.MockDriver, health *MockHealthChecker) {
				drv.IsActiveFunc = func() (bool, error) { return false, nil }
			},
		},
		{
			name: "unhealthy endpoint is reported not failed",
			setup: func(drv *supervisor.MockDriver, health *MockHealthChecker) {
				health.CheckErr = errors.New("connection refused")
			},
			validate: func(t *testing.T, drv *supervisor.MockDriver, health *MockHealthChecker) {
				if health.CheckCalls != 1 {
					t.Errorf("expected 1 health Check call, got %d", health.CheckCalls)
				}
			},
		},
		{
			name: "unit probe error surfaces",
			setup: func(drv *supervisor.MockDriver, health *MockHealthChecker) {
				drv.UnitInstalledFunc = func() (bool, error) { return false, errors.New("unit directory unreadable") }
			},
			wantErr:     true,
			errContains: "unit directory unreadable",
		},
		{
			name: "active probe error surfaces",
			setup: func(drv *supervisor.MockDriver, health *MockHealthChecker) {
				drv.IsActiveFunc = func() (bool, error) { return false, errors.New("systemctl unreachable") }
			},
			wantErr:     true,
			errContains: "systemctl unreachable",
			validate: func(t *testing.T, drv *supervisor.MockDriver, health *MockHealthChecker) {
				if health.CheckCalls != 0 {
					t.Errorf("expected no health probe after driver failure, got %d", health.CheckCalls)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDrv := supervisor.NewMockDriver("systemd", "/etc/systemd/system/snippy-backend.service")
			mockHealth := &MockHealthChecker{}
			if tt.setup != nil {
				tt.setup(mockDrv, mockHealth)
			}

			jsonOutput = false
			dryRun = false

			oldDeps := deps
			deps = NewMockDeps().
				WithDriver(mockDrv).
				WithHealth(mockHealth).
				Build()
			defer func() { deps = oldDeps }()

			err := runStatus(nil, nil)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
			} else if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			if tt.validate != nil {
				tt.validate(t, mockDrv, mockHealth)
			}
		})
	}
}

func TestRunStatusConfigError(t *testing.T) {
	jsonOutput = false
	dryRun = false

	oldDeps := deps
	deps = NewMockDeps().
		WithConfigLoader(&MockConfigLoader{LoadErr: errors.New("bad yaml")}).
		Build()
	defer func() { deps = oldDeps }()

	err := runStatus(nil, nil)
	if err == nil || !strings.Contains(err.Error(), "bad yaml") {
		t.Fatalf("expected config load error, got %v", err)
	}
}

func TestRunStatusJSON(t *testing.T) {
	jsonOutput = true
	defer func() { jsonOutput = false }()
	dryRun = false

	mockHealth := &MockHealthChecker{CheckErr: errors.New("connection refused")}

	oldDeps := deps
	deps = NewMockDeps().WithHealth(mockHealth).Build()
	defer func() { deps = oldDeps }()

	if err := runStatus(nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if mockHealth.CheckCalls != 1 {
		t.Errorf("expected 1 health Check call, got %d", mockHealth.CheckCalls)
	}
}
