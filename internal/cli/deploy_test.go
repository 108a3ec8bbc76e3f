package cli

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	"github.com/jheysaaz/snippy-backend-sub001/internal/supervisor"
)

func TestRunDeploy(t *testing.T) {
	tests := []struct {
		name        string
		setupDeps   func(*testing.T, *supervisor.MockDriver, *MockHealthChecker) (*Dependencies, *config.Config)
		wantErr     bool
		errContains string
		validate    func(*testing.T, *config.Config, *supervisor.MockDriver, *MockHealthChecker)
	}{
		{
			name: "deploy with unit already installed",
			setupDeps: func(t *testing.T, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) (*Dependencies, *config.Config) {
				cfg := config.New()
				return NewMockDeps().
					WithConfig(cfg).
					WithDriver(mockDrv).
					WithHealth(mockHealth).
					WithRootAccess(true).
					Build(), cfg
			},
			wantErr: false,
			validate: func(t *testing.T, cfg *config.Config, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) {
				if len(mockDrv.InstallUnitCalls) != 0 {
					t.Errorf("expected 0 InstallUnit calls, got %d", len(mockDrv.InstallUnitCalls))
				}
				if mockDrv.ReloadCalls != 1 {
					t.Errorf("expected 1 Reload call, got %d", mockDrv.ReloadCalls)
				}
				if mockDrv.RestartCalls != 1 {
					t.Errorf("expected 1 Restart call, got %d", mockDrv.RestartCalls)
				}
				if mockHealth.WaitCalls != 1 {
					t.Errorf("expected 1 health Wait call, got %d", mockHealth.WaitCalls)
				}
			},
		},
		{
			name: "deploy installs missing unit",
			setupDeps: func(t *testing.T, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) (*Dependencies, *config.Config) {
				mockDrv.UnitInstalledFunc = func() (bool, error) {
					return false, nil
				}
				cfg := config.New()
				return NewMockDeps().
					WithConfig(cfg).
					WithDriver(mockDrv).
					WithHealth(mockHealth).
					WithRootAccess(true).
					Build(), cfg
			},
			wantErr: false,
			validate: func(t *testing.T, cfg *config.Config, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) {
				if len(mockDrv.InstallUnitCalls) != 1 {
					t.Fatalf("expected 1 InstallUnit call, got %d", len(mockDrv.InstallUnitCalls))
				}
				content := mockDrv.InstallUnitCalls[0]
				if !strings.Contains(content, "[Service]") {
					t.Errorf("installed unit missing [Service] section: %q", content)
				}
				if !strings.Contains(content, "ExecStart=/usr/local/bin/snippy-backend") {
					t.Errorf("installed unit missing ExecStart: %q", content)
				}
				if mockDrv.RestartCalls != 1 {
					t.Errorf("expected 1 Restart call, got %d", mockDrv.RestartCalls)
				}
			},
		},
		{
			name: "deploy reports health attempts",
			setupDeps: func(t *testing.T, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) (*Dependencies, *config.Config) {
				mockHealth.Attempts = 5
				cfg := config.New()
				return NewMockDeps().
					WithConfig(cfg).
					WithDriver(mockDrv).
					WithHealth(mockHealth).
					WithRootAccess(true).
					Build(), cfg
			},
			wantErr: false,
			validate: func(t *testing.T, cfg *config.Config, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) {
				if mockHealth.WaitCalls != 1 {
					t.Errorf("expected 1 health Wait call, got %d", mockHealth.WaitCalls)
				}
			},
		},
		{
			name: "deploy without root privilege fails",
			setupDeps: func(t *testing.T, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) (*Dependencies, *config.Config) {
				cfg := config.New()
				return NewMockDeps().
					WithConfig(cfg).
					WithDriver(mockDrv).
					WithHealth(mockHealth).
					WithRootAccess(false).
					Build(), cfg
			},
			wantErr:     true,
			errContains: "root privileges",
			validate: func(t *testing.T, cfg *config.Config, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) {
				if mockDrv.RestartCalls != 0 {
					t.Errorf("Restart should not be called without root, got %d calls", mockDrv.RestartCalls)
				}
			},
		},
		{
			name: "deploy restart failure",
			setupDeps: func(t *testing.T, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) (*Dependencies, *config.Config) {
				mockDrv.RestartFunc = func() error {
					return errors.New("restart failed")
				}
				cfg := config.New()
				return NewMockDeps().
					WithConfig(cfg).
					WithDriver(mockDrv).
					WithHealth(mockHealth).
					WithRootAccess(true).
					Build(), cfg
			},
			wantErr:     true,
			errContains: "restart failed",
			validate: func(t *testing.T, cfg *config.Config, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) {
				if mockHealth.WaitCalls != 0 {
					t.Errorf("health Wait should not run after a failed restart, got %d calls", mockHealth.WaitCalls)
				}
			},
		},
		{
			name: "deploy health check failure",
			setupDeps: func(t *testing.T, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) (*Dependencies, *config.Config) {
				mockHealth.WaitErr = errors.New("service did not become healthy")
				cfg := config.New()
				return NewMockDeps().
					WithConfig(cfg).
					WithDriver(mockDrv).
					WithHealth(mockHealth).
					WithRootAccess(true).
					Build(), cfg
			},
			wantErr:     true,
			errContains: "did not become healthy",
		},
		{
			name: "deploy config load failure",
			setupDeps: func(t *testing.T, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) (*Dependencies, *config.Config) {
				loader := &MockConfigLoader{LoadErr: errors.New("parse failure")}
				return NewMockDeps().
					WithConfigLoader(loader).
					WithDriver(mockDrv).
					WithHealth(mockHealth).
					Build(), nil
			},
			wantErr:     true,
			errContains: "parse failure",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDrv := supervisor.NewMockDriver("systemd", "/etc/systemd/system/snippy-backend.service")
			mockHealth := &MockHealthChecker{}

			deployTarget = ""
			dryRun = false
			jsonOutput = false

			oldDeps := deps
			mockDepsObj, cfg := tt.setupDeps(t, mockDrv, mockHealth)
			deps = mockDepsObj
			defer func() { deps = oldDeps }()

			err := runDeploy(nil, nil)

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
			} else {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
			}

			if tt.validate != nil {
				tt.validate(t, cfg, mockDrv, mockHealth)
			}
		})
	}
}

func TestRunDeployCompose(t *testing.T) {
	tests := []struct {
		name        string
		setupDeps   func(*testing.T, *supervisor.MockDriver, *MockHealthChecker) (*Dependencies, *config.Config)
		wantErr     bool
		errContains string
		validate    func(*testing.T, *supervisor.MockDriver, *MockHealthChecker)
	}{
		{
			name: "compose deploy needs no root",
			setupDeps: func(t *testing.T, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) (*Dependencies, *config.Config) {
				cfg := config.New()
				cfg.Service.Supervisor = config.SupervisorCompose
				return NewMockDeps().
					WithConfig(cfg).
					WithDriver(mockDrv).
					WithHealth(mockHealth).
					WithRootAccess(false).
					Build(), cfg
			},
			wantErr: false,
			validate: func(t *testing.T, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) {
				if len(mockDrv.InstallUnitCalls) != 0 {
					t.Errorf("expected 0 InstallUnit calls, got %d", len(mockDrv.InstallUnitCalls))
				}
				if mockDrv.RestartCalls != 1 {
					t.Errorf("expected 1 Restart call, got %d", mockDrv.RestartCalls)
				}
				if mockHealth.WaitCalls != 1 {
					t.Errorf("expected 1 health Wait call, got %d", mockHealth.WaitCalls)
				}
			},
		},
		{
			name: "compose deploy fails when compose file missing",
			setupDeps: func(t *testing.T, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) (*Dependencies, *config.Config) {
				mockDrv.UnitInstalledFunc = func() (bool, error) {
					return false, nil
				}
				cfg := config.New()
				cfg.Service.Supervisor = config.SupervisorCompose
				return NewMockDeps().
					WithConfig(cfg).
					WithDriver(mockDrv).
					WithHealth(mockHealth).
					WithRootAccess(false).
					Build(), cfg
			},
			wantErr:     true,
			errContains: "not found",
			validate: func(t *testing.T, mockDrv *supervisor.MockDriver, mockHealth *MockHealthChecker) {
				if mockDrv.RestartCalls != 0 {
					t.Errorf("Restart should not run without a compose file, got %d calls", mockDrv.RestartCalls)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDrv := supervisor.NewMockDriver("compose", "docker-compose.yml")
			mockHealth := &MockHealthChecker{}

			deployTarget = ""
			dryRun = false
			jsonOutput = false

			oldDeps := deps
			mockDepsObj, _ := tt.setupDeps(t, mockDrv, mockHealth)
			deps = mockDepsObj
			defer func() { deps = oldDeps }()

			err := runDeploy(nil, nil)

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

func TestRunDeployDryRun(t *testing.T) {
	mockDrv := supervisor.NewMockDriver("systemd", "/etc/systemd/system/snippy-backend.service")
	mockHealth := &MockHealthChecker{}

	deployTarget = ""
	dryRun = true
	defer func() { dryRun = false }()
	jsonOutput = false

	oldDeps := deps
	deps = NewMockDeps().
		WithDriver(mockDrv).
		WithHealth(mockHealth).
		WithRootAccess(false).
		Build()
	defer func() { deps = oldDeps }()

	if err := runDeploy(nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(mockDrv.InstallUnitCalls) != 0 {
		t.Errorf("expected 0 InstallUnit calls in dry-run, got %d", len(mockDrv.InstallUnitCalls))
	}
	if mockDrv.ReloadCalls != 0 {
		t.Errorf("expected 0 Reload calls in dry-run, got %d", mockDrv.ReloadCalls)
	}
	if mockDrv.RestartCalls != 0 {
		t.Errorf("expected 0 Restart calls in dry-run, got %d", mockDrv.RestartCalls)
	}
	if mockHealth.WaitCalls != 0 {
		t.Errorf("expected 0 health Wait calls in dry-run, got %d", mockHealth.WaitCalls)
	}
}

func TestRunDeployRemote(t *testing.T) {
	tests := []struct {
		name        string
		target      string
		setup       func(*config.Config)
		wantErr     bool
		errContains string
	}{
		{
			// Dry-run stops before dialing, so the plan is testable offline
			name:   "remote dry-run builds plan without connecting",
			target: "deploy@api.example.com",
		},
		{
			name:   "remote dry-run with explicit port",
			target: "deploy@api.example.com:2222",
		},
		{
			name:        "remote deploy rejects compose supervisor",
			target:      "deploy@api.example.com",
			setup:       func(cfg *config.Config) { cfg.Service.Supervisor = config.SupervisorCompose },
			wantErr:     true,
			errContains: "systemd supervisor only",
		},
		{
			name:        "remote deploy rejects empty user",
			target:      "@api.example.com",
			wantErr:     true,
			errContains: "empty user",
		},
		{
			name:        "remote deploy rejects invalid port",
			target:      "deploy@api.example.com:notaport",
			wantErr:     true,
			errContains: "invalid port",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockDrv := supervisor.NewMockDriver("systemd", "/etc/systemd/system/snippy-backend.service")

			cfg := config.New()
			if tt.setup != nil {
				tt.setup(cfg)
			}

			deployTarget = tt.target
			defer func() { deployTarget = "" }()
			dryRun = true
			defer func() { dryRun = false }()
			jsonOutput = false

			oldDeps := deps
			deps = NewMockDeps().
				WithConfig(cfg).
				WithDriver(mockDrv).
				Build()
			defer func() { deps = oldDeps }()

			err := runDeploy(nil, nil)

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
		})
	}
}

func TestUnitContent(t *testing.T) {
	t.Run("renders template for systemd", func(t *testing.T) {
		cfg := config.New()
		content, err := unitContent(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if !strings.Contains(content, "Description=snippy-backend service") {
			t.Errorf("rendered unit missing description: %q", content)
		}
		if !strings.Contains(content, "User=snippy") {
			t.Errorf("rendered unit missing user: %q", content)
		}
	})

	t.Run("uses pre-authored unit file verbatim", func(t *testing.T) {
		unitFile := filepath.Join(t.TempDir(), "custom.service")
		custom := "[Unit]\nDescription=hand written\n"
		if err := os.WriteFile(unitFile, []byte(custom), 0644); err != nil {
			t.Fatal(err)
		}

		cfg := config.New()
		cfg.Service.UnitFile = unitFile

		content, err := unitContent(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if content != custom {
			t.Errorf("expected verbatim unit file, got %q", content)
		}
	})

	t.Run("missing unit file fails", func(t *testing.T) {
		cfg := config.New()
		cfg.Service.UnitFile = filepath.Join(t.TempDir(), "absent.service")

		if _, err := unitContent(cfg); err == nil {
			t.Fatal("expected error for missing unit file")
		}
	})

	t.Run("compose has no unit", func(t *testing.T) {
		cfg := config.New()
		cfg.Service.Supervisor = config.SupervisorCompose

		content, err := unitContent(cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if content != "" {
			t.Errorf("expected empty unit content for compose, got %q", content)
		}
	})
}

func TestDeployRecordsAudit(t *testing.T) {
	h := NewTestHelper(t)

	deployTarget = ""
	dryRun = false
	jsonOutput = false

	if err := runDeploy(nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if len(h.MockAuditor.Records) != 1 {
		t.Fatalf("expected 1 audit record, got %d", len(h.MockAuditor.Records))
	}
	rec := h.MockAuditor.Records[0]
	if rec.Action != "deploy" {
		t.Errorf("expected action deploy, got %q", rec.Action)
	}
	if rec.Fields["result"] != "ok" {
		t.Errorf("expected result ok, got %q", rec.Fields["result"])
	}
	if rec.Fields["service"] != "snippy-backend" {
		t.Errorf("expected service snippy-backend, got %q", rec.Fields["service"])
	}
}
