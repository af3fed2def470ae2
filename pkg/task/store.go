package task

import (
	"github.com/samber/lo"

	"github.com/newtron-network/newtask/pkg/util"
)

// Store holds the current value of every field declared by a Schema.
// All fields start unset.
type Store struct {
	schema *Schema
	values map[string]Value
}

// NewStore creates an empty store for schema.
func NewStore(schema *Schema) *Store {
	return &Store{
		schema: schema,
		values: make(map[string]Value),
	}
}

// Get returns the current value of a field, or the unset Value.
func (s *Store) Get(name string) Value {
	return s.values[name]
}

// IsSet reports whether a field holds a value.
func (s *Store) IsSet(name string) bool {
	return s.values[name].IsSet()
}

// Set assigns v to a field. Assigning the unset Value clears the field and
// never fails for a declared field. Any other value must satisfy the field's
// validator; on failure the previous value is kept.
func (s *Store) Set(name string, v Value) error {
	f, ok := s.schema.Lookup(name)
	if !ok {
		return util.NewUnknownFieldError(s.schema.module, name)
	}
	if !v.IsSet() {
		delete(s.values, name)
		return nil
	}
	if !f.Check.Valid(v.v) {
		return util.NewValidationError(s.schema.module, name, v.v, f.Check.Expect)
	}
	s.values[name] = Value{v: deepCopy(v.v), set: true}
	return nil
}

// Clear unsets the named fields.
func (s *Store) Clear(names ...string) {
	for _, n := range names {
		delete(s.values, n)
	}
}

// ClearLevel unsets every field declared at level.
func (s *Store) ClearLevel(level Level) {
	s.Clear(s.schema.Names(level)...)
}

// Reset unsets every field.
func (s *Store) Reset() {
	s.values = make(map[string]Value)
}

// Empty reports whether no field is set.
func (s *Store) Empty() bool {
	return len(s.values) == 0
}

// SetNames returns the names of set fields at level, in schema order.
func (s *Store) SetNames(level Level) []string {
	var out []string
	for _, n := range s.schema.Names(level) {
		if s.IsSet(n) {
			out = append(out, n)
		}
	}
	return out
}

// Snapshot returns a deep copy of the set fields declared at level in their
// output form, keyed by output key. Dotted keys build nested mappings. Unset
// fields never appear as keys.
func (s *Store) Snapshot(level Level, exclude ...string) map[string]interface{} {
	out := make(map[string]interface{})
	for _, n := range s.SetNames(level) {
		if lo.Contains(exclude, n) {
			continue
		}
		f, _ := s.schema.Lookup(n)
		putPath(out, f.path(), f.output(deepCopy(s.values[n].v)))
	}
	return out
}

// putPath stores v under the nested keys of path, creating the intermediate
// mappings. MustSchema rejects overlapping paths, so an intermediate slot is
// always absent or a mapping built here.
func putPath(m map[string]interface{}, path []string, v interface{}) {
	for _, k := range path[:len(path)-1] {
		next, ok := m[k].(map[string]interface{})
		if !ok {
			next = make(map[string]interface{})
			m[k] = next
		}
		m = next
	}
	m[path[len(path)-1]] = v
}

// MissingRequired returns the required fields of level that are unset.
func (s *Store) MissingRequired(level Level) []string {
	var out []string
	for _, f := range s.schema.fields {
		if f.Level == level && f.Required && !s.IsSet(f.Name) {
			out = append(out, f.Name)
		}
	}
	return out
}
