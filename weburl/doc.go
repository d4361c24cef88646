// Package weburl validates the URLs ontodoc fetches ontologies and prefix
// registries from.
//
// # URL Validation
//
// ValidateURL accepts absolute http and https URLs with a host. Vocabulary
// servers in the wild still publish over plain http, so both schemes are
// allowed:
//
//	if err := weburl.ValidateURL("http://www.w3.org/ns/prov"); err != nil {
//	    return err
//	}
//
// # Private Networks
//
// CheckHost and IsPrivateIP implement the optional private-network guard
// used by the fetch package when fetch.block_private_networks is enabled.
// IsPrivateIP detects:
//
//   - IPv4 private ranges (10.0.0.0/8, 172.16.0.0/12, 192.168.0.0/16)
//   - IPv4 loopback (127.0.0.0/8) and link-local (169.254.0.0/16)
//   - CGNAT range (100.64.0.0/10)
//   - IPv6 loopback, unique local (fc00::/7) and link-local (fe80::/10)
//   - IPv6-mapped IPv4 addresses (::ffff:x.x.x.x)
package weburl
