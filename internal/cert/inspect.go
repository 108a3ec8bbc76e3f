package cert

import (
	"bytes"
	"crypto/x509"
	"encoding/pem"
	"fmt"
	"os"
	"time"
)

// Info summarizes a parsed certificate for inventory output.
type Info struct {
	Path       string    `json:"path"`
	Subject    string    `json:"subject"`
	Issuer     string    `json:"issuer"`
	DNSNames   []string  `json:"dns_names,omitempty"`
	NotAfter   time.Time `json:"not_after"`
	DaysLeft   int       `json:"days_left"`
	SelfSigned bool      `json:"self_signed"`
}

// Expired reports whether the certificate is past its validity window.
func (i *Info) Expired() bool {
	return i.DaysLeft < 0
}

// Inspect parses the PEM certificate at path. Only the first PEM block
// is read, which for chain files is the leaf certificate.
func Inspect(path string) (*Info, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate: %w", err)
	}

	block, _ := pem.Decode(data)
	if block == nil || block.Type != "CERTIFICATE" {
		return nil, fmt.Errorf("no certificate found in %s", path)
	}

	parsed, err := x509.ParseCertificate(block.Bytes)
	if err != nil {
		return nil, fmt.Errorf("failed to parse certificate: %w", err)
	}

	return &Info{
		Path:       path,
		Subject:    parsed.Subject.String(),
		Issuer:     parsed.Issuer.String(),
		DNSNames:   parsed.DNSNames,
		NotAfter:   parsed.NotAfter,
		DaysLeft:   int(time.Until(parsed.NotAfter).Hours() / 24),
		SelfSigned: bytes.Equal(parsed.RawSubject, parsed.RawIssuer),
	}, nil
}
