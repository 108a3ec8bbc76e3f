// Package gitignore keeps generated TLS material out of version
// control by appending ignore rules to the project .gitignore. Rules
// already present are never duplicated.
package gitignore

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// DefaultRules returns the ignore rules for generated certificate
// material under certDir and for certificate backup archives.
func DefaultRules(certDir string) []string {
	dir := strings.TrimSuffix(filepath.ToSlash(certDir), "/")
	return []string{
		dir + "/",
		"snippy-certs-*.tar.zst",
	}
}

// EnsureRules appends the given rules to the ignore file at path,
// creating it when absent. Rules that already appear as a line are
// skipped. It returns the rules that were actually added.
func EnsureRules(path string, rules []string) ([]string, error) {
	content, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}

	present := make(map[string]bool)
	for _, line := range strings.Split(string(content), "\n") {
		present[strings.TrimSpace(line)] = true
	}

	var added []string
	for _, rule := range rules {
		if !present[strings.TrimSpace(rule)] {
			added = append(added, rule)
		}
	}
	if len(added) == 0 {
		return nil, nil
	}

	var sb strings.Builder
	sb.Write(content)
	if len(content) > 0 && !strings.HasSuffix(string(content), "\n") {
		sb.WriteString("\n")
	}
	for _, rule := range added {
		sb.WriteString(rule)
		sb.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(sb.String()), 0644); err != nil {
		return nil, fmt.Errorf("failed to write %s: %w", path, err)
	}
	return added, nil
}
