package weburl

import (
	"fmt"
	"net"
	"net/netip"
	"net/url"
	"strings"
)

// reserved lists ranges that net.IP has no predicate for.
var reserved = []netip.Prefix{
	netip.MustParsePrefix("100.64.0.0/10"), // carrier-grade NAT
	netip.MustParsePrefix("fc00::/7"),      // IPv6 unique local
	netip.MustParsePrefix("fe80::/10"),     // IPv6 link-local
}

// ValidateURL checks that rawURL is an absolute http or https URL with a host.
func ValidateURL(rawURL string) error {
	if strings.TrimSpace(rawURL) == "" {
		return fmt.Errorf("url is required")
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return fmt.Errorf("invalid URL: %w", err)
	}

	if parsed.Scheme != "http" && parsed.Scheme != "https" {
		return fmt.Errorf("url %q must use the http or https scheme", rawURL)
	}

	if parsed.Hostname() == "" {
		return fmt.Errorf("url %q has no host", rawURL)
	}

	return nil
}

// CheckHost rejects localhost, local domains and private IP literals.
func CheckHost(host string) error {
	switch h := strings.ToLower(host); {
	case h == "localhost":
		return fmt.Errorf("host %q: localhost is not allowed", host)
	case strings.HasSuffix(h, ".local"), strings.HasSuffix(h, ".internal"):
		return fmt.Errorf("host %q: local domains are not allowed", host)
	}

	if ip := net.ParseIP(host); ip != nil && IsPrivateIP(ip) {
		return fmt.Errorf("host %q: private addresses are not allowed", host)
	}
	return nil
}

// IsPrivateIP reports whether ip is loopback, private, link-local or in one
// of the reserved ranges. IPv6-mapped IPv4 addresses are unmapped first.
func IsPrivateIP(ip net.IP) bool {
	addr, ok := netip.AddrFromSlice(ip)
	if !ok {
		return false
	}
	addr = addr.Unmap()

	if addr.IsLoopback() || addr.IsPrivate() || addr.IsLinkLocalUnicast() || addr.IsLinkLocalMulticast() {
		return true
	}
	for _, p := range reserved {
		if p.Contains(addr) {
			return true
		}
	}
	return false
}
