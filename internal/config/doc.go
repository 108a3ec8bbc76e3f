// Package config manages the snippyctl configuration stored in YAML format.
//
// The config package provides the settings every command operates on:
// the managed service, health probe, certificate bundles, Let's Encrypt
// account details, the renewal cron schedule, and remote deploy targets.
// Configuration lives next to the project as ./snippy.yaml; an explicit
// path passed with --config takes precedence, and a missing default file
// yields the built-in defaults.
//
// # Configuration Structure
//
// The main Config struct contains:
//   - Service definition (name, supervisor, unit/compose details)
//   - Health probe settings for post-deploy verification
//   - SSL settings and the api/postgres certificate bundles
//   - Let's Encrypt account and webroot settings
//   - Cron schedule for certificate renewal
//   - Remote host settings for SSH deploys
//   - Audit log settings
//
// Example snippy.yaml:
//
//	service:
//	  name: snippy-backend
//	  supervisor: systemd
//	  exec_start: /usr/local/bin/snippy-backend
//	  working_dir: /opt/snippy-backend
//	  user: snippy
//	health:
//	  url: http://localhost:8080/health
//	  attempts: 30
//	  interval: 2s
//	ssl:
//	  cert_dir: certs
//	  rsa_bits: 2048
//	  days: 365
//	  api:
//	    common_name: localhost
//	    dns_names: [localhost, snippy-api]
//	    ip_addresses: [127.0.0.1]
//	  postgres:
//	    common_name: postgres
//	    dns_names: [postgres, localhost]
//	    owner_uid: 999
//	    owner_gid: 999
//	letsencrypt:
//	  domain: api.example.com
//	  email: ops@example.com
//	cron:
//	  schedule: "0 3 * * *"
//
// # Supervisors
//
// The package defines two supervisor kinds:
//   - systemd: the service runs as a systemd unit
//   - compose: the service runs as a docker compose service
//
// Use the supervisor constants (SupervisorSystemd, SupervisorCompose)
// instead of string literals.
//
// # Certificate Bundles
//
// Two bundles are managed, named by the BundleAPI and BundlePostgres
// constants. Each bundle lives under cert_dir/<name>/ as server.crt and
// server.key; the path helpers on SSLConfig build those locations.
//
// # Usage
//
// Loading and saving configuration:
//
//	// Load configuration (defaults if ./snippy.yaml is missing)
//	cfg, err := config.Load("")
//	if err != nil {
//	    log.Fatal(err)
//	}
//
//	// Write the defaults out for editing
//	err = config.New().Save("snippy.yaml")
//
// # Thread Safety
//
// Config operations are NOT thread-safe. Callers must implement their own
// synchronization if accessing Config from multiple goroutines.
package config
