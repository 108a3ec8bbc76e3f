package remote

import (
	"fmt"
	"net"
	"strconv"
	"strings"

	"github.com/jheysaaz/snippy-backend-sub001/internal/config"
	opserrors "github.com/jheysaaz/snippy-backend-sub001/internal/errors"
)

// ParseTarget applies a user@host[:port] target on top of the configured
// remote settings. Parts missing from the target keep their configured
// values.
func ParseTarget(target string, base config.RemoteConfig) (config.RemoteConfig, error) {
	out := base
	s := strings.TrimSpace(target)
	if s == "" {
		return out, opserrors.Validation("remote target cannot be empty")
	}

	if i := strings.LastIndex(s, "@"); i >= 0 {
		user := s[:i]
		if user == "" {
			return out, opserrors.Validation(fmt.Sprintf("remote target %q has an empty user", target))
		}
		out.User = user
		s = s[i+1:]
	}

	if host, port, err := net.SplitHostPort(s); err == nil {
		p, convErr := strconv.Atoi(port)
		if convErr != nil || p < 1 || p > 65535 {
			return out, opserrors.Validation(fmt.Sprintf("remote target %q has an invalid port", target))
		}
		out.Host = host
		out.Port = p
	} else {
		// bare IPv6 hosts arrive bracketed when no port is given
		out.Host = strings.TrimSuffix(strings.TrimPrefix(s, "["), "]")
	}

	if out.Host == "" {
		return out, opserrors.Validation(fmt.Sprintf("remote target %q has an empty host", target))
	}
	if out.Port == 0 {
		out.Port = 22
	}
	return out, nil
}

// Address returns the dialable host:port for the remote settings.
func Address(cfg config.RemoteConfig) string {
	port := cfg.Port
	if port == 0 {
		port = 22
	}
	return net.JoinHostPort(cfg.Host, strconv.Itoa(port))
}
