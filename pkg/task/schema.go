package task

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/newtron-network/newtask/pkg/validate"
)

// Level places a field in a module's output hierarchy.
type Level int

const (
	LevelTop Level = iota
	LevelLeaf
	LevelGroup
	LevelScope
)

func (l Level) String() string {
	switch l {
	case LevelTop:
		return "top"
	case LevelLeaf:
		return "leaf"
	case LevelGroup:
		return "group"
	case LevelScope:
		return "scope"
	}
	return fmt.Sprintf("level(%d)", int(l))
}

// Field declares one module property.
type Field struct {
	Name  string
	Check validate.Validator
	// Required top-level fields are checked at commit; required fields of
	// other levels are checked when their level is added.
	Required bool
	Level    Level
	// Key is the output key when it differs from Name, for modules that
	// reuse a key at two levels (a top-level and a per-entry "state").
	// A dotted key ("route_map.inbound") nests the value in sub-mappings.
	Key string
	// Emit converts a stored value to its output form. Nil emits the value
	// as stored.
	Emit func(v interface{}) interface{}
}

// Mandatory returns a copy of f marked required.
func (f Field) Mandatory() Field {
	f.Required = true
	return f
}

// As returns a copy of f emitted under key. Dots in key separate nested
// mapping keys.
func (f Field) As(key string) Field {
	f.Key = key
	return f
}

// EmitAs returns a copy of f whose value is passed through fn on output.
func (f Field) EmitAs(fn func(v interface{}) interface{}) Field {
	f.Emit = fn
	return f
}

// OutputKey returns the key the field is emitted under.
func (f Field) OutputKey() string {
	if f.Key != "" {
		return f.Key
	}
	return f.Name
}

func (f Field) path() []string {
	return strings.Split(f.OutputKey(), ".")
}

func (f Field) output(v interface{}) interface{} {
	if f.Emit == nil {
		return v
	}
	return f.Emit(v)
}

// keysOverlap reports whether two output keys would write the same mapping
// slot: equal keys, or one nested under the other.
func keysOverlap(a, b string) bool {
	return a == b || strings.HasPrefix(a, b+".") || strings.HasPrefix(b, a+".")
}

// Optional declares an optional top-level field.
func Optional(name string, check validate.Validator) Field {
	return Field{Name: name, Check: check, Level: LevelTop}
}

// Required declares a mandatory top-level field.
func Required(name string, check validate.Validator) Field {
	return Field{Name: name, Check: check, Level: LevelTop, Required: true}
}

// Leaf declares a field snapshotted by AddLeaf.
func Leaf(name string, check validate.Validator) Field {
	return Field{Name: name, Check: check, Level: LevelLeaf}
}

// Group declares a field snapshotted by AddGroup.
func Group(name string, check validate.Validator) Field {
	return Field{Name: name, Check: check, Level: LevelGroup}
}

// Scope declares a field snapshotted by AddScope.
func Scope(name string, check validate.Validator) Field {
	return Field{Name: name, Check: check, Level: LevelScope}
}

// Schema is the static field table of one module.
type Schema struct {
	module string
	fields []Field
	index  map[string]int
}

// MustSchema builds a Schema and panics on malformed declarations: empty or
// duplicate names, colliding or overlapping output keys within a level and
// fields without a validator. Schemas are package-level variables, so a bad table fails at
// program start.
func MustSchema(module string, fields ...Field) *Schema {
	if module == "" {
		panic("task: schema without module name")
	}
	s := &Schema{
		module: module,
		fields: fields,
		index:  make(map[string]int, len(fields)),
	}
	keys := make(map[Level][]string)
	for i, f := range fields {
		if f.Name == "" {
			panic(fmt.Sprintf("task: %s: field %d has no name", module, i))
		}
		if _, dup := s.index[f.Name]; dup {
			panic(fmt.Sprintf("task: %s: duplicate field %q", module, f.Name))
		}
		if f.Check.IsZero() {
			panic(fmt.Sprintf("task: %s: field %q has no validator", module, f.Name))
		}
		key := f.OutputKey()
		if lo.Contains(f.path(), "") {
			panic(fmt.Sprintf("task: %s: field %q has malformed output key %q", module, f.Name, key))
		}
		if other, clash := lo.Find(keys[f.Level], func(k string) bool { return keysOverlap(k, key) }); clash {
			panic(fmt.Sprintf("task: %s: output key %q collides with %q at %s level", module, key, other, f.Level))
		}
		keys[f.Level] = append(keys[f.Level], key)
		s.index[f.Name] = i
	}
	return s
}

// Module returns the Ansible module name the schema describes.
func (s *Schema) Module() string {
	return s.module
}

// Fields returns the declared fields in declaration order.
func (s *Schema) Fields() []Field {
	out := make([]Field, len(s.fields))
	copy(out, s.fields)
	return out
}

// Lookup returns the field declared under name.
func (s *Schema) Lookup(name string) (Field, bool) {
	i, ok := s.index[name]
	if !ok {
		return Field{}, false
	}
	return s.fields[i], true
}

// Names returns the names of the fields declared at level.
func (s *Schema) Names(level Level) []string {
	return lo.FilterMap(s.fields, func(f Field, _ int) (string, bool) {
		return f.Name, f.Level == level
	})
}

// HasLevel reports whether any field is declared at level.
func (s *Schema) HasLevel(level Level) bool {
	return lo.ContainsBy(s.fields, func(f Field) bool { return f.Level == level })
}
