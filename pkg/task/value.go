package task

import "fmt"

// Value is an optional property value. The zero Value is unset.
type Value struct {
	v   interface{}
	set bool
}

// Unset returns the unset Value. Assigning it to a field clears the field.
func Unset() Value {
	return Value{}
}

// Of wraps v as a set Value. Of(nil) is unset.
func Of(v interface{}) Value {
	if v == nil {
		return Value{}
	}
	if val, ok := v.(Value); ok {
		return val
	}
	return Value{v: v, set: true}
}

// IsSet reports whether the value holds something.
func (v Value) IsSet() bool {
	return v.set
}

// Get returns a deep copy of the held value and whether it is set.
func (v Value) Get() (interface{}, bool) {
	if !v.set {
		return nil, false
	}
	return deepCopy(v.v), true
}

// OrElse returns the held value, or def when unset.
func (v Value) OrElse(def interface{}) interface{} {
	if !v.set {
		return def
	}
	return deepCopy(v.v)
}

func (v Value) String() string {
	if !v.set {
		return "<unset>"
	}
	return fmt.Sprint(v.v)
}

// As returns the held value as T.
func As[T any](v Value) (T, bool) {
	var zero T
	raw, ok := v.Get()
	if !ok {
		return zero, false
	}
	t, ok := raw.(T)
	return t, ok
}

// deepCopy copies the list and mapping shapes produced by YAML decoding and
// by builders. Scalars are returned as is.
func deepCopy(v interface{}) interface{} {
	switch x := v.(type) {
	case map[string]interface{}:
		out := make(map[string]interface{}, len(x))
		for k, e := range x {
			out[k] = deepCopy(e)
		}
		return out
	case map[string]string:
		out := make(map[string]string, len(x))
		for k, e := range x {
			out[k] = e
		}
		return out
	case []interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = deepCopy(e)
		}
		return out
	case []map[string]interface{}:
		out := make([]interface{}, len(x))
		for i, e := range x {
			out[i] = deepCopy(e)
		}
		return out
	case []string:
		out := make([]string, len(x))
		copy(out, x)
		return out
	}
	return v
}

func copyEntries(entries []map[string]interface{}) []interface{} {
	out := make([]interface{}, len(entries))
	for i, e := range entries {
		out[i] = deepCopy(e)
	}
	return out
}
