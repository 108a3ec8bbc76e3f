package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/jheysaaz/snippy-backend-sub001/internal/cert"
	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
)

func TestRunGenerateBundle(t *testing.T) {
	tests := []struct {
		name        string
		run         func() error
		commonName  string
		bundle      string
		before      func(*testing.T, *config.Config)
		wantErr     bool
		errContains string
	}{
		{
			name:       "generate api bundle",
			run:        func() error { return runSSLAPI(nil, nil) },
			bundle:     config.BundleAPI,
			commonName: "localhost",
		},
		{
			name:       "generate postgres bundle",
			run:        func() error { return runSSLPostgres(nil, nil) },
			bundle:     config.BundlePostgres,
			commonName: "postgres",
		},
		{
			name:   "existing bundle refused without force",
			run:    func() error { return runSSLAPI(nil, nil) },
			bundle: config.BundleAPI,
			before: func(t *testing.T, cfg *config.Config) {
				if _, err := cert.Generate(cfg.SSL, config.BundleAPI, cert.GenerateOptions{}); err != nil {
					t.Fatal(err)
				}
			},
			wantErr:     true,
			errContains: "use --force",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Chdir(t.TempDir())

			cfg := config.New()
			if tt.before != nil {
				tt.before(t, cfg)
			}

			apiForce = false
			postgresForce = false
			dryRun = false
			jsonOutput = false

			oldDeps := deps
			deps = NewMockDeps().WithConfig(cfg).Build()
			defer func() { deps = oldDeps }()

			err := tt.run()

			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error, got nil")
				}
				if tt.errContains != "" && !strings.Contains(err.Error(), tt.errContains) {
					t.Errorf("error %q does not contain %q", err.Error(), tt.errContains)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}

			info, err := cert.Inspect(cfg.SSL.CertPath(tt.bundle))
			if err != nil {
				t.Fatalf("generated certificate unreadable: %v", err)
			}
			if !strings.Contains(info.Subject, tt.commonName) {
				t.Errorf("subject %q missing common name %q", info.Subject, tt.commonName)
			}
			if !info.SelfSigned {
				t.Error("generated certificate should be self-signed")
			}

			keyInfo, err := os.Stat(cfg.SSL.KeyPath(tt.bundle))
			if err != nil {
				t.Fatalf("generated key missing: %v", err)
			}
			if keyInfo.Mode().Perm() != 0600 {
				t.Errorf("expected key mode 0600, got %v", keyInfo.Mode().Perm())
			}
		})
	}
}

func TestRunGenerateBundleForce(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := config.New()

	apiForce = false
	dryRun = false
	jsonOutput = false

	oldDeps := deps
	deps = NewMockDeps().WithConfig(cfg).Build()
	defer func() { deps = oldDeps }()

	if err := runSSLAPI(nil, nil); err != nil {
		t.Fatalf("first generate failed: %v", err)
	}
	before, err := os.ReadFile(cfg.SSL.CertPath(config.BundleAPI))
	if err != nil {
		t.Fatal(err)
	}

	apiForce = true
	defer func() { apiForce = false }()
	if err := runSSLAPI(nil, nil); err != nil {
		t.Fatalf("forced generate failed: %v", err)
	}
	after, err := os.ReadFile(cfg.SSL.CertPath(config.BundleAPI))
	if err != nil {
		t.Fatal(err)
	}

	if string(before) == string(after) {
		t.Error("forced generate should replace the certificate")
	}
}

func TestRunSSLSetup(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := config.New()
	mockAuditor := &MockAuditor{}

	setupForce = false
	dryRun = false
	jsonOutput = false

	oldDeps := deps
	deps = NewMockDeps().WithConfig(cfg).WithAuditor(mockAuditor).Build()
	defer func() { deps = oldDeps }()

	if err := runSSLSetup(nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	for _, name := range config.ValidBundles() {
		if _, err := os.Stat(cfg.SSL.CertPath(name)); err != nil {
			t.Errorf("expected %s certificate on disk: %v", name, err)
		}
	}

	data, err := os.ReadFile(".gitignore")
	if err != nil {
		t.Fatalf("expected .gitignore to be written: %v", err)
	}
	for _, rule := range []string{"certs/", "snippy-certs-*.tar.zst"} {
		if !strings.Contains(string(data), rule) {
			t.Errorf(".gitignore missing rule %q: %q", rule, string(data))
		}
	}

	if len(mockAuditor.Records) != 1 || mockAuditor.Records[0].Action != "ssl-setup" {
		t.Errorf("expected one ssl-setup audit record, got %+v", mockAuditor.Records)
	}

	// A second run without force must refuse to touch existing material
	if err := runSSLSetup(nil, nil); err == nil {
		t.Fatal("expected error on second setup without force")
	} else if !strings.Contains(err.Error(), "use --force") {
		t.Errorf("error %q does not mention --force", err.Error())
	}
}

func TestRunSSLSetupForceBacksUp(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := config.New()

	setupForce = false
	dryRun = false
	jsonOutput = false

	oldDeps := deps
	deps = NewMockDeps().WithConfig(cfg).Build()
	defer func() { deps = oldDeps }()

	if err := runSSLSetup(nil, nil); err != nil {
		t.Fatalf("initial setup failed: %v", err)
	}
	before, err := os.ReadFile(cfg.SSL.CertPath(config.BundleAPI))
	if err != nil {
		t.Fatal(err)
	}

	setupForce = true
	defer func() { setupForce = false }()
	if err := runSSLSetup(nil, nil); err != nil {
		t.Fatalf("forced setup failed: %v", err)
	}

	archives, err := filepath.Glob("snippy-certs-*.tar.zst")
	if err != nil {
		t.Fatal(err)
	}
	if len(archives) != 1 {
		t.Fatalf("expected 1 backup archive, got %v", archives)
	}

	after, err := os.ReadFile(cfg.SSL.CertPath(config.BundleAPI))
	if err != nil {
		t.Fatal(err)
	}
	if string(before) == string(after) {
		t.Error("forced setup should regenerate certificates")
	}
}

func TestRunSSLSetupDryRun(t *testing.T) {
	t.Chdir(t.TempDir())

	cfg := config.New()

	setupForce = false
	dryRun = true
	defer func() { dryRun = false }()
	jsonOutput = false

	oldDeps := deps
	deps = NewMockDeps().WithConfig(cfg).Build()
	defer func() { deps = oldDeps }()

	if err := runSSLSetup(nil, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if _, err := os.Stat(cfg.SSL.CertDir); !os.IsNotExist(err) {
		t.Error("dry-run should not create the cert directory")
	}
	if _, err := os.Stat(".gitignore"); !os.IsNotExist(err) {
		t.Error("dry-run should not write .gitignore")
	}
}
