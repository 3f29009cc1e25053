package options

import (
	"fmt"
	"net"
	"net/url"
	"strconv"

	"github.com/spf13/pflag"
)

// IOptions is implemented by every option group in this package.
type IOptions interface {
	// Validate returns every problem found rather than stopping at the first one.
	Validate() []error

	// AddFlags registers the group's flags on fs.
	AddFlags(fs *pflag.FlagSet, prefixes ...string)
}

// ValidateAddress checks that addr is a host:port pair with a valid port.
// An empty host means all interfaces.
func ValidateAddress(addr string) error {
	host, port, err := net.SplitHostPort(addr)
	if err != nil {
		return fmt.Errorf("invalid address %q: %w", addr, err)
	}
	p, err := strconv.Atoi(port)
	if err != nil || p < 0 || p > 65535 {
		return fmt.Errorf("invalid port %q in address %q", port, addr)
	}
	if host != "" && net.ParseIP(host) == nil {
		if _, err := url.Parse("//" + host); err != nil {
			return fmt.Errorf("invalid host %q in address %q", host, addr)
		}
	}
	return nil
}

// ValidateURL checks that raw is an absolute URL with one of the given schemes.
func ValidateURL(raw string, schemes ...string) error {
	u, err := url.Parse(raw)
	if err != nil {
		return fmt.Errorf("invalid url %q: %w", raw, err)
	}
	if !u.IsAbs() || u.Host == "" {
		return fmt.Errorf("url %q must be absolute", raw)
	}
	if len(schemes) == 0 {
		return nil
	}
	for _, s := range schemes {
		if u.Scheme == s {
			return nil
		}
	}
	return fmt.Errorf("url %q must use one of the schemes %v", raw, schemes)
}

// ValidateNamespace checks that ns is an absolute URI, as XML namespace names must be.
func ValidateNamespace(ns string) error {
	if ns == "" {
		return fmt.Errorf("namespace is empty")
	}
	u, err := url.Parse(ns)
	if err != nil {
		return fmt.Errorf("invalid namespace %q: %w", ns, err)
	}
	if !u.IsAbs() {
		return fmt.Errorf("namespace %q is not an absolute URI", ns)
	}
	return nil
}
