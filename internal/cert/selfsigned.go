package cert

import (
	cryptorand "crypto/rand"
	"crypto/rsa"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"fmt"
	"math/big"
	"net"
	"os"
	"time"

	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	opserrors "github.com/jheysaaz/snippy-backend-sub001/internal/errors"
)

// Bundle describes generated TLS material for one service.
type Bundle struct {
	Name     string
	CertPath string
	KeyPath  string
	// OwnerSet reports whether ownership was changed to the configured
	// uid/gid. Stays false when no owner is configured or the process
	// lacks the privilege to chown.
	OwnerSet bool
}

// serialNumberLimit caps generated certificate serial numbers at 128 bits
var serialNumberLimit = new(big.Int).Lsh(big.NewInt(1), 128)

// GenerateOptions control self-signed bundle generation.
type GenerateOptions struct {
	// Force overwrites existing certificate material.
	Force bool
}

// Generate creates an RSA private key and a self-signed certificate for
// the named bundle and writes them under the configured certificate
// directory as server.crt (0644) and server.key (0600).
//
// Existing material is refused unless opts.Force is set; callers can
// detect that case with errors.Is(err, errors.ErrCertExists).
func Generate(ssl config.SSLConfig, name string, opts GenerateOptions) (*Bundle, error) {
	bundle, err := ssl.Bundle(name)
	if err != nil {
		return nil, err
	}

	certPath := ssl.CertPath(name)
	keyPath := ssl.KeyPath(name)

	if !opts.Force {
		if fileExists(certPath) || fileExists(keyPath) {
			return nil, opserrors.AlreadyExists(name)
		}
	}

	ips, err := parseIPs(bundle.IPAddresses)
	if err != nil {
		return nil, err
	}

	key, err := rsa.GenerateKey(cryptorand.Reader, ssl.RSABits)
	if err != nil {
		return nil, fmt.Errorf("failed to generate RSA key: %w", err)
	}

	serial, err := cryptorand.Int(cryptorand.Reader, serialNumberLimit)
	if err != nil {
		return nil, fmt.Errorf("failed to generate serial number: %w", err)
	}

	template := x509.Certificate{
		SerialNumber:          serial,
		Subject:               pkix.Name{CommonName: bundle.CommonName},
		NotBefore:             time.Now().Add(-10 * time.Minute),
		NotAfter:              time.Now().AddDate(0, 0, ssl.Days),
		SignatureAlgorithm:    x509.SHA256WithRSA,
		KeyUsage:              x509.KeyUsageDigitalSignature | x509.KeyUsageKeyEncipherment,
		ExtKeyUsage:           []x509.ExtKeyUsage{x509.ExtKeyUsageServerAuth},
		BasicConstraintsValid: true,
		DNSNames:              bundle.DNSNames,
		IPAddresses:           ips,
	}

	der, err := x509.CreateCertificate(cryptorand.Reader, &template, &template, &key.PublicKey, key)
	if err != nil {
		return nil, fmt.Errorf("failed to create certificate: %w", err)
	}

	if err := os.MkdirAll(ssl.BundleDir(name), 0755); err != nil {
		return nil, fmt.Errorf("failed to create certificate directory: %w", err)
	}

	certPEM := pem.EncodeToMemory(&pem.Block{Type: "CERTIFICATE", Bytes: der})
	if err := os.WriteFile(certPath, certPEM, 0644); err != nil {
		return nil, fmt.Errorf("failed to write certificate: %w", err)
	}

	keyPEM := pem.EncodeToMemory(&pem.Block{
		Type:  "RSA PRIVATE KEY",
		Bytes: x509.MarshalPKCS1PrivateKey(key),
	})
	if err := os.WriteFile(keyPath, keyPEM, 0600); err != nil {
		return nil, fmt.Errorf("failed to write private key: %w", err)
	}

	result := &Bundle{Name: name, CertPath: certPath, KeyPath: keyPath}

	if bundle.OwnerUID != 0 || bundle.OwnerGID != 0 {
		if os.Geteuid() == 0 {
			if err := os.Chown(certPath, bundle.OwnerUID, bundle.OwnerGID); err != nil {
				return nil, fmt.Errorf("failed to chown certificate: %w", err)
			}
			if err := os.Chown(keyPath, bundle.OwnerUID, bundle.OwnerGID); err != nil {
				return nil, fmt.Errorf("failed to chown private key: %w", err)
			}
			result.OwnerSet = true
		}
	}

	return result, nil
}

// parseIPs converts configured IP address strings into net.IP values
func parseIPs(addrs []string) ([]net.IP, error) {
	if len(addrs) == 0 {
		return nil, nil
	}
	ips := make([]net.IP, 0, len(addrs))
	for _, addr := range addrs {
		ip := net.ParseIP(addr)
		if ip == nil {
			return nil, opserrors.Validation(fmt.Sprintf("invalid IP address %q in bundle config", addr))
		}
		ips = append(ips, ip)
	}
	return ips, nil
}

// fileExists checks if a file exists at the given path
func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
