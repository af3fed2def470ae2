package task

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Rule is a final-verification check run at commit. It returns one message
// per violated condition.
type Rule func(s *Store) []string

// Requires: if field is set, every dep must be set too.
func Requires(field string, deps ...string) Rule {
	return func(s *Store) []string {
		if !s.IsSet(field) {
			return nil
		}
		missing := lo.Reject(deps, func(d string, _ int) bool { return s.IsSet(d) })
		if len(missing) == 0 {
			return nil
		}
		return []string{fmt.Sprintf("%s requires %s", field, strings.Join(missing, ", "))}
	}
}

// RequiresValue: if field equals value, every dep must be set.
func RequiresValue(field string, value interface{}, deps ...string) Rule {
	return func(s *Store) []string {
		v, ok := s.Get(field).Get()
		if !ok || v != value {
			return nil
		}
		missing := lo.Reject(deps, func(d string, _ int) bool { return s.IsSet(d) })
		if len(missing) == 0 {
			return nil
		}
		return []string{fmt.Sprintf("%s=%v requires %s", field, value, strings.Join(missing, ", "))}
	}
}

// Exclusive: at most one of fields may be set.
func Exclusive(fields ...string) Rule {
	return func(s *Store) []string {
		set := lo.Filter(fields, func(f string, _ int) bool { return s.IsSet(f) })
		if len(set) <= 1 {
			return nil
		}
		return []string{fmt.Sprintf("%s are mutually exclusive", strings.Join(set, ", "))}
	}
}

// AnyOf: at least one of fields must be set.
func AnyOf(fields ...string) Rule {
	return func(s *Store) []string {
		if lo.SomeBy(fields, s.IsSet) {
			return nil
		}
		return []string{fmt.Sprintf("one of %s is mandatory", strings.Join(fields, ", "))}
	}
}

// ExactlyOne combines AnyOf and Exclusive.
func ExactlyOne(fields ...string) Rule {
	anyOf, excl := AnyOf(fields...), Exclusive(fields...)
	return func(s *Store) []string {
		return append(anyOf(s), excl(s)...)
	}
}
