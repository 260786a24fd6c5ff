// Package validators holds request-level checks that need more than
// binding tags, such as DNS lookups.
package validators

import (
	"net"
	"strings"
)

// IsEmailDomainValid reports whether the address's domain actually
// resolves, MX records first and a plain host lookup as fallback. It
// runs at counselor registration to catch typo'd domains before an
// account row is written. DNS failures count as invalid, so a
// registration during an outage is rejected rather than accepted with
// an unreachable address.
func IsEmailDomainValid(email string) bool {
	at := strings.LastIndex(email, "@")
	if at <= 0 || at == len(email)-1 {
		return false
	}
	domain := strings.ToLower(email[at+1:])

	if mx, err := net.LookupMX(domain); err == nil && len(mx) > 0 {
		return true
	}

	ips, err := net.LookupIP(domain)
	return err == nil && len(ips) > 0
}
