package validate

import (
	"regexp"
	"strconv"
	"strings"

	"inet.af/netaddr"
)

var variableNameRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_]*$`)

// IsDigits reports whether s is a non-empty run of ASCII digits.
func IsDigits(s string) bool {
	if s == "" {
		return false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}
	return true
}

// IsIPv4Address reports whether s is a bare IPv4 address.
func IsIPv4Address(s string) bool {
	ip, err := netaddr.ParseIP(s)
	return err == nil && ip.Is4()
}

// IsIPv6Address reports whether s is a bare IPv6 address.
func IsIPv6Address(s string) bool {
	ip, err := netaddr.ParseIP(s)
	return err == nil && ip.Is6() && !ip.Is4in6()
}

// IsIPv4Prefix reports whether s is an IPv4 address with prefix length.
// Host bits may be set (10.1.1.1/24 is an interface address).
func IsIPv4Prefix(s string) bool {
	if !strings.Contains(s, "/") {
		return false
	}
	p, err := netaddr.ParseIPPrefix(s)
	return err == nil && p.IP().Is4()
}

// IsIPv6Prefix reports whether s is an IPv6 address with prefix length.
func IsIPv6Prefix(s string) bool {
	if !strings.Contains(s, "/") {
		return false
	}
	p, err := netaddr.ParseIPPrefix(s)
	return err == nil && p.IP().Is6() && !p.IP().Is4in6()
}

// IsASN reports whether s is a 4-byte AS number in plain or asdot notation.
func IsASN(s string) bool {
	if high, low, ok := strings.Cut(s, "."); ok {
		return isUintInRange(high, 0, 65535) && isUintInRange(low, 0, 65535) && s != "0.0"
	}
	return isUintInRange(s, 1, 4294967295)
}

// IsRouteDistinguisher reports whether s is "auto", ASN:NN or IPv4:NN.
func IsRouteDistinguisher(s string) bool {
	if s == "auto" {
		return true
	}
	admin, assigned, ok := strings.Cut(s, ":")
	if !ok {
		return false
	}
	if IsIPv4Address(admin) {
		return isUintInRange(assigned, 0, 65535)
	}
	if !IsASN(admin) {
		return false
	}
	if isUintInRange(admin, 1, 65535) {
		return isUintInRange(assigned, 0, 4294967295)
	}
	return isUintInRange(assigned, 0, 65535)
}

// IsVariableName reports whether s can be used as an Ansible variable name.
func IsVariableName(s string) bool {
	return variableNameRe.MatchString(s)
}

func isUintInRange(s string, min, max uint64) bool {
	if !IsDigits(s) {
		return false
	}
	n, err := strconv.ParseUint(s, 10, 64)
	return err == nil && n >= min && n <= max
}
