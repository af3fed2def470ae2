package validate

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/newtron-network/newtask/pkg/util"
)

// Validator accepts or rejects a single property value.
type Validator struct {
	// Expect describes the accepted domain, e.g. "integer in range 1-4094".
	Expect string
	check  func(v interface{}) bool
}

// New creates a Validator from a predicate and its expectation string.
func New(expect string, check func(v interface{}) bool) Validator {
	return Validator{Expect: expect, check: check}
}

// Valid reports whether v is in the validator's domain. A zero Validator
// rejects everything.
func (v Validator) Valid(x interface{}) bool {
	if v.check == nil || x == nil {
		return false
	}
	return v.check(x)
}

// IsZero reports whether the validator was never constructed.
func (v Validator) IsZero() bool {
	return v.check == nil
}

// Any accepts every non-nil value.
func Any() Validator {
	return New("any value", func(interface{}) bool { return true })
}

// NonEmpty accepts a non-empty string.
func NonEmpty() Validator {
	return New("non-empty string", func(v interface{}) bool {
		s, ok := v.(string)
		return ok && s != ""
	})
}

// MaxLength accepts a non-empty string of at most n characters.
func MaxLength(n int) Validator {
	return New(fmt.Sprintf("string of 1-%d characters", n), func(v interface{}) bool {
		s, ok := v.(string)
		return ok && s != "" && len(s) <= n
	})
}

// Pattern accepts strings matching re.
func Pattern(re *regexp.Regexp, expect string) Validator {
	return New(expect, func(v interface{}) bool {
		s, ok := v.(string)
		return ok && re.MatchString(s)
	})
}

// OneOf accepts a string that is a member of values.
func OneOf(values ...string) Validator {
	set := lo.SliceToMap(values, func(s string) (string, struct{}) { return s, struct{}{} })
	return New("one of: "+strings.Join(values, ", "), func(v interface{}) bool {
		s, ok := v.(string)
		if !ok {
			return false
		}
		_, ok = set[s]
		return ok
	})
}

// Toggle accepts exactly one of two words, e.g. Toggle("enable", "disable").
func Toggle(on, off string) Validator {
	return New(on+" or "+off, func(v interface{}) bool {
		s, ok := v.(string)
		return ok && (s == on || s == off)
	})
}

// Bool accepts a boolean.
func Bool() Validator {
	return New("boolean (true or false)", func(v interface{}) bool {
		_, ok := v.(bool)
		return ok
	})
}

// IntRange accepts an integer (or a string of digits) within [min, max].
func IntRange(min, max int64) Validator {
	return New(fmt.Sprintf("integer in range %d-%d", min, max), func(v interface{}) bool {
		n, ok := AsInt(v)
		return ok && n >= min && n <= max
	})
}

// DigitsOrKeyword accepts an integer within [min, max] or the literal keyword.
func DigitsOrKeyword(keyword string, min, max int64) Validator {
	return New(fmt.Sprintf("integer in range %d-%d, or the keyword %s", min, max, keyword), func(v interface{}) bool {
		if s, ok := v.(string); ok && s == keyword {
			return true
		}
		n, ok := AsInt(v)
		return ok && n >= min && n <= max
	})
}

// IPv4Address accepts an IPv4 address without prefix length.
func IPv4Address() Validator {
	return stringPredicate("IPv4 address, e.g. 10.1.1.1", IsIPv4Address)
}

// IPv4Prefix accepts an IPv4 address with prefix length.
func IPv4Prefix() Validator {
	return stringPredicate("IPv4 address with prefix length, e.g. 10.1.1.1/24", IsIPv4Prefix)
}

// IPv6Address accepts an IPv6 address without prefix length.
func IPv6Address() Validator {
	return stringPredicate("IPv6 address, e.g. 2001:db8::1", IsIPv6Address)
}

// IPv6Prefix accepts an IPv6 address with prefix length.
func IPv6Prefix() Validator {
	return stringPredicate("IPv6 address with prefix length, e.g. 2001:db8::1/64", IsIPv6Prefix)
}

// IPAddress accepts an IPv4 or IPv6 address without prefix length.
func IPAddress() Validator {
	return stringPredicate("IPv4 or IPv6 address", func(s string) bool {
		return IsIPv4Address(s) || IsIPv6Address(s)
	})
}

// IPPrefix accepts an IPv4 or IPv6 address with prefix length.
func IPPrefix() Validator {
	return stringPredicate("IPv4 or IPv6 address with prefix length", func(s string) bool {
		return IsIPv4Prefix(s) || IsIPv6Prefix(s)
	})
}

// InterfaceName accepts NX-OS interface names of the given kinds, or of any
// known kind when none are given.
func InterfaceName(kinds ...InterfaceKind) Validator {
	if len(kinds) == 0 {
		kinds = AllInterfaceKinds
	}
	names := lo.Map(kinds, func(k InterfaceKind, _ int) string { return k.Example() })
	return New("interface name, e.g. "+strings.Join(names, ", "), func(v interface{}) bool {
		s, ok := v.(string)
		return ok && lo.Contains(kinds, ClassifyInterface(s))
	})
}

// RouteDistinguisher accepts "auto", ASN:NN or IPv4:NN.
func RouteDistinguisher() Validator {
	return stringPredicate("route distinguisher (auto, ASN:NN or IPv4:NN)", IsRouteDistinguisher)
}

// ASN accepts a BGP AS number in plain (1-4294967295) or asdot notation.
func ASN() Validator {
	return New("AS number 1-4294967295 or asdot X.Y", func(v interface{}) bool {
		if s, ok := v.(string); ok {
			return IsASN(s)
		}
		n, ok := AsInt(v)
		return ok && n >= 1 && n <= math.MaxUint32
	})
}

// VLANRange accepts VLAN range notation ("10,20-30") or a single VLAN ID.
func VLANRange() Validator {
	return New("VLAN range, e.g. 10,20-30", func(v interface{}) bool {
		if s, ok := v.(string); ok {
			_, err := util.ExpandVLANRange(s)
			return err == nil
		}
		n, ok := AsInt(v)
		return ok && util.ValidateVLANID(int(n)) == nil
	})
}

// VariableName accepts an Ansible variable name.
func VariableName() Validator {
	return stringPredicate("variable name (letters, digits, underscore; not starting with a digit)", IsVariableName)
}

// Mapping accepts a non-empty string-keyed mapping.
func Mapping() Validator {
	return New("non-empty mapping", func(v interface{}) bool {
		switch m := v.(type) {
		case map[string]interface{}:
			return len(m) > 0
		case map[string]string:
			return len(m) > 0
		}
		return false
	})
}

// ListOf accepts a non-empty list whose every element satisfies elem.
func ListOf(elem Validator) Validator {
	return New("list of "+elem.Expect, func(v interface{}) bool {
		switch l := v.(type) {
		case []interface{}:
			return len(l) > 0 && lo.EveryBy(l, elem.Valid)
		case []string:
			return len(l) > 0 && lo.EveryBy(l, func(s string) bool { return elem.Valid(s) })
		}
		return false
	})
}

// AsInt converts integer-like property values. Strings must be plain decimal
// digits with an optional leading minus sign.
func AsInt(v interface{}) (int64, bool) {
	switch n := v.(type) {
	case int:
		return int64(n), true
	case int32:
		return int64(n), true
	case int64:
		return n, true
	case uint:
		if uint64(n) > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case uint32:
		return int64(n), true
	case uint64:
		if n > math.MaxInt64 {
			return 0, false
		}
		return int64(n), true
	case float64:
		// float64(math.MaxInt64) rounds up to 2^63, so compare against the
		// exact powers of two.
		if n != math.Trunc(n) || n >= 1<<63 || n < -(1<<63) {
			return 0, false
		}
		return int64(n), true
	case string:
		if !IsDigits(strings.TrimPrefix(n, "-")) {
			return 0, false
		}
		i, err := strconv.ParseInt(n, 10, 64)
		if err != nil {
			return 0, false
		}
		return i, true
	}
	return 0, false
}

func stringPredicate(expect string, pred func(string) bool) Validator {
	return New(expect, func(v interface{}) bool {
		s, ok := v.(string)
		return ok && pred(s)
	})
}
