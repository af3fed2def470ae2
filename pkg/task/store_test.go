package task

import (
	"errors"
	"reflect"
	"testing"

	"github.com/newtron-network/newtask/pkg/util"
	"github.com/newtron-network/newtask/pkg/validate"
)

var testSchema = MustSchema("test.interface",
	Required("name", validate.InterfaceName()),
	Optional("state", validate.OneOf("present", "absent", "default")),
	Optional("mtu", validate.IntRange(576, 9216)),
	Optional("description", validate.MaxLength(254)),
	Optional("commands", validate.ListOf(validate.NonEmpty())),
)

func TestValue(t *testing.T) {
	t.Run("zero is unset", func(t *testing.T) {
		var v Value
		if v.IsSet() {
			t.Error("zero Value should be unset")
		}
		if _, ok := v.Get(); ok {
			t.Error("Get() on unset should report false")
		}
		if v.String() != "<unset>" {
			t.Errorf("String() = %q", v.String())
		}
		if got := v.OrElse("dflt"); got != "dflt" {
			t.Errorf("OrElse() = %v", got)
		}
	})

	t.Run("Of nil is unset", func(t *testing.T) {
		if Of(nil).IsSet() {
			t.Error("Of(nil) should be unset")
		}
		if Of(Unset()).IsSet() {
			t.Error("Of(Unset()) should be unset")
		}
	})

	t.Run("Of value", func(t *testing.T) {
		v := Of("Ethernet1/1")
		if !v.IsSet() {
			t.Fatal("Of(x) should be set")
		}
		s, ok := As[string](v)
		if !ok || s != "Ethernet1/1" {
			t.Errorf("As[string] = %q, %v", s, ok)
		}
		if _, ok := As[int](v); ok {
			t.Error("As[int] on a string should fail")
		}
	})

	t.Run("Get returns a copy", func(t *testing.T) {
		v := Of([]interface{}{"a", "b"})
		got, _ := v.Get()
		got.([]interface{})[0] = "mutated"
		again, _ := v.Get()
		if again.([]interface{})[0] != "a" {
			t.Error("mutating a Get() result should not alter the Value")
		}
	})
}

func TestMustSchema_Panics(t *testing.T) {
	tests := []struct {
		name   string
		module string
		fields []Field
	}{
		{"no module", "", []Field{Optional("a", validate.Any())}},
		{"empty field name", "m", []Field{Optional("", validate.Any())}},
		{"duplicate", "m", []Field{Optional("a", validate.Any()), Leaf("a", validate.Any())}},
		{"no validator", "m", []Field{{Name: "a"}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			defer func() {
				if recover() == nil {
					t.Error("MustSchema should panic")
				}
			}()
			MustSchema(tt.module, tt.fields...)
		})
	}
}

func TestSchema_Lookup(t *testing.T) {
	f, ok := testSchema.Lookup("name")
	if !ok || !f.Required || f.Level != LevelTop {
		t.Errorf("Lookup(name) = %+v, %v", f, ok)
	}
	if _, ok := testSchema.Lookup("speed"); ok {
		t.Error("Lookup of undeclared field should fail")
	}
	want := []string{"name", "state", "mtu", "description", "commands"}
	if got := testSchema.Names(LevelTop); !reflect.DeepEqual(got, want) {
		t.Errorf("Names(top) = %v, want %v", got, want)
	}
	if testSchema.HasLevel(LevelLeaf) {
		t.Error("flat schema should have no leaf level")
	}
}

func TestStore_EnumeratedField(t *testing.T) {
	for _, member := range []string{"present", "absent", "default"} {
		s := NewStore(testSchema)
		if err := s.Set("state", Of(member)); err != nil {
			t.Fatalf("Set(state, %q) error: %v", member, err)
		}
		got, _ := As[string](s.Get("state"))
		if got != member {
			t.Errorf("Get(state) = %q, want %q", got, member)
		}
	}

	s := NewStore(testSchema)
	if err := s.Set("state", Of("present")); err != nil {
		t.Fatal(err)
	}
	for _, bad := range []interface{}{"enabled", "", "PRESENT", 1} {
		err := s.Set("state", Of(bad))
		var ve *util.ValidationError
		if !errors.As(err, &ve) {
			t.Fatalf("Set(state, %#v) should fail with ValidationError, got %v", bad, err)
		}
		if ve.Module != "test.interface" || ve.Field != "state" || ve.Expect == "" {
			t.Errorf("ValidationError context = %+v", ve)
		}
		if got, _ := As[string](s.Get("state")); got != "present" {
			t.Errorf("rejected assignment changed state to %q", got)
		}
	}
}

func TestStore_IntRangeBoundaries(t *testing.T) {
	s := NewStore(testSchema)
	for _, ok := range []int{576, 9216} {
		if err := s.Set("mtu", Of(ok)); err != nil {
			t.Errorf("Set(mtu, %d) error: %v", ok, err)
		}
	}
	for _, bad := range []int{575, 9217} {
		if err := s.Set("mtu", Of(bad)); !errors.Is(err, util.ErrValidationFailed) {
			t.Errorf("Set(mtu, %d) = %v, want ErrValidationFailed", bad, err)
		}
	}
	if got, _ := As[int](s.Get("mtu")); got != 9216 {
		t.Errorf("mtu = %d, want last valid value 9216", got)
	}
}

func TestStore_UnsetIsIdempotent(t *testing.T) {
	s := NewStore(testSchema)
	for i := 0; i < 2; i++ {
		if err := s.Set("description", Unset()); err != nil {
			t.Fatalf("Set(description, Unset()) error: %v", err)
		}
		if s.IsSet("description") {
			t.Fatal("description should remain unset")
		}
	}

	if err := s.Set("description", Of("uplink")); err != nil {
		t.Fatal(err)
	}
	if err := s.Set("description", Unset()); err != nil {
		t.Fatal(err)
	}
	if s.IsSet("description") || !s.Empty() {
		t.Error("Unset() should clear a set field")
	}
}

func TestStore_UnknownField(t *testing.T) {
	s := NewStore(testSchema)
	err := s.Set("speed", Of("100"))
	if !errors.Is(err, util.ErrUnknownField) {
		t.Errorf("Set(speed) = %v, want ErrUnknownField", err)
	}
	if err := s.Set("speed", Unset()); !errors.Is(err, util.ErrUnknownField) {
		t.Errorf("unsetting an undeclared field should also fail, got %v", err)
	}
}

func TestStore_DeepCopiesOnSet(t *testing.T) {
	s := NewStore(testSchema)
	cmds := []interface{}{"show version", "show clock"}
	if err := s.Set("commands", Of(cmds)); err != nil {
		t.Fatal(err)
	}
	cmds[0] = "reload"

	snap := s.Snapshot(LevelTop)
	if snap["commands"].([]interface{})[0] != "show version" {
		t.Error("store should not alias the caller's slice")
	}
	snap["commands"].([]interface{})[1] = "mutated"
	again := s.Snapshot(LevelTop)
	if again["commands"].([]interface{})[1] != "show clock" {
		t.Error("snapshot should not alias the store")
	}
}

func TestStore_SnapshotOnlySetFields(t *testing.T) {
	s := NewStore(testSchema)
	_ = s.Set("name", Of("Ethernet1/1"))
	_ = s.Set("state", Of("present"))

	want := map[string]interface{}{"name": "Ethernet1/1", "state": "present"}
	if got := s.Snapshot(LevelTop); !reflect.DeepEqual(got, want) {
		t.Errorf("Snapshot() = %v, want %v", got, want)
	}
	if got := s.Snapshot(LevelTop, "state"); !reflect.DeepEqual(got, map[string]interface{}{"name": "Ethernet1/1"}) {
		t.Errorf("Snapshot(exclude state) = %v", got)
	}
	if got := s.MissingRequired(LevelTop); len(got) != 0 {
		t.Errorf("MissingRequired() = %v", got)
	}
}
