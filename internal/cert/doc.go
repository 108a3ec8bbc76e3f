// Package cert manages TLS certificate material for the snippy backend:
// self-signed bundles for the API and Postgres, Let's Encrypt issuance
// through Certbot, certificate inventory, and cert directory archives.
//
// # Certificate Bundles
//
// A bundle is one service's TLS material, written under the configured
// certificate directory:
//
//	certs/api/server.crt       (0644)
//	certs/api/server.key       (0600)
//	certs/postgres/server.crt
//	certs/postgres/server.key
//
// Generate creates a bundle from an RSA key and a self-signed
// certificate with the configured subject and SANs:
//
//	bundle, err := cert.Generate(cfg.SSL, config.BundleAPI, cert.GenerateOptions{})
//	if errors.Is(err, errors.ErrCertExists) {
//	    // pass Force to overwrite
//	}
//
// The Postgres bundle is chowned to the configured owner (the container
// postgres user) when running as root; Bundle.OwnerSet reports whether
// that happened.
//
// # Let's Encrypt
//
// Certbot must be installed for issuance and renewal:
//
//	# Ubuntu/Debian
//	sudo apt install certbot
//
// Obtain requests a certificate in standalone mode, or webroot mode when
// a webroot is configured:
//
//	live, err := cert.Obtain("example.com", "admin@example.com", cert.ObtainOptions{})
//
// Live material stays under certbot's directory:
//
//	/etc/letsencrypt/live/{domain}/fullchain.pem
//	/etc/letsencrypt/live/{domain}/privkey.pem
//
// MirrorLive copies it into a bundle so compose and systemd mounts look
// the same regardless of how the certificate was issued.
//
// # Inventory
//
// Inspect parses a PEM certificate and reports subject, SANs, issuer,
// and days until expiry. Chain files are read at the leaf.
//
// # Archives
//
// Backup and Restore move the whole certificate directory through a
// zstd-compressed tar archive, used before destructive regeneration.
//
// # Testing
//
// Certbot calls go through a package executor that tests replace:
//
//	cert.SetExecutor(mockExec)
//	defer cert.ResetExecutor()
package cert
