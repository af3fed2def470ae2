package task

import (
	"errors"
	"reflect"
	"testing"

	"github.com/newtron-network/newtask/pkg/util"
)

var threeLevel = Layout{
	Leaf:  LevelSpec{Op: "address_family", Key: "address_family"},
	Group: LevelSpec{Op: "neighbor", Key: "neighbors"},
	Scope: LevelSpec{Op: "vrf", Key: "vrfs"},
}

func entry(kv ...string) map[string]interface{} {
	m := make(map[string]interface{}, len(kv)/2)
	for i := 0; i+1 < len(kv); i += 2 {
		m[kv[i]] = kv[i+1]
	}
	return m
}

func TestAccumulator_GroupOrdering(t *testing.T) {
	a := NewAccumulator("test", threeLevel)
	for _, afi := range []string{"A", "B", "C"} {
		if err := a.AddLeaf(entry("afi", afi)); err != nil {
			t.Fatal(err)
		}
	}
	if err := a.AddGroup(entry("neighbor_address", "10.0.0.1")); err != nil {
		t.Fatal(err)
	}
	if err := a.AddLeaf(entry("afi", "D")); err != nil {
		t.Fatal(err)
	}
	if err := a.AddGroup(entry("neighbor_address", "10.0.0.2")); err != nil {
		t.Fatal(err)
	}

	body := map[string]interface{}{}
	if err := a.Fold(body); err != nil {
		t.Fatalf("Fold() error: %v", err)
	}
	want := map[string]interface{}{
		"neighbors": []interface{}{
			map[string]interface{}{
				"neighbor_address": "10.0.0.1",
				"address_family": []interface{}{
					map[string]interface{}{"afi": "A"},
					map[string]interface{}{"afi": "B"},
					map[string]interface{}{"afi": "C"},
				},
			},
			map[string]interface{}{
				"neighbor_address": "10.0.0.2",
				"address_family": []interface{}{
					map[string]interface{}{"afi": "D"},
				},
			},
		},
	}
	if !reflect.DeepEqual(body, want) {
		t.Errorf("Fold() =\n%v\nwant\n%v", body, want)
	}
}

func TestAccumulator_Stage(t *testing.T) {
	a := NewAccumulator("test", threeLevel)
	steps := []struct {
		name string
		do   func() error
		want Stage
	}{
		{"leaf", func() error { return a.AddLeaf(entry("afi", "ipv4")) }, StageLeaf},
		{"group", func() error { return a.AddGroup(entry("neighbor_address", "10.0.0.1")) }, StageGroup},
		{"scope", func() error { return a.AddScope(entry("vrf", "RED")) }, StageScoped},
		{"leaf again", func() error { return a.AddLeaf(entry("afi", "ipv6")) }, StageLeaf},
	}

	if a.Stage() != StageEmpty {
		t.Fatalf("initial Stage() = %s", a.Stage())
	}
	for _, s := range steps {
		if err := s.do(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
		if got := a.Stage(); got != s.want {
			t.Errorf("after %s: Stage() = %s, want %s", s.name, got, s.want)
		}
	}

	a.Reset()
	if l, g, s := a.Pending(); l+g+s != 0 {
		t.Errorf("Pending() after Reset = %d/%d/%d", l, g, s)
	}
}

func TestAccumulator_EmptyEntries(t *testing.T) {
	a := NewAccumulator("test", threeLevel)
	if err := a.AddLeaf(nil); !errors.Is(err, util.ErrMandatoryField) {
		t.Errorf("AddLeaf(empty) = %v, want ErrMandatoryField", err)
	}
	if err := a.AddGroup(nil); !errors.Is(err, util.ErrMandatoryField) {
		t.Errorf("AddGroup(empty) with nothing pending = %v, want ErrMandatoryField", err)
	}
	if err := a.AddScope(map[string]interface{}{}); !errors.Is(err, util.ErrMandatoryField) {
		t.Errorf("AddScope(empty) = %v, want ErrMandatoryField", err)
	}
}

func TestAccumulator_ScopeWithPendingLeaves(t *testing.T) {
	a := NewAccumulator("test", threeLevel)
	_ = a.AddLeaf(entry("afi", "ipv4"))

	err := a.AddScope(entry("vrf", "RED"))
	var ue *util.UnflushedError
	if !errors.As(err, &ue) {
		t.Fatalf("AddScope() = %v, want UnflushedError", err)
	}
	if ue.Level != "address_family" || ue.Pending != 1 || ue.Closer != "add neighbor" {
		t.Errorf("UnflushedError = %+v", ue)
	}
	if l, _, s := a.Pending(); l != 1 || s != 0 {
		t.Errorf("failed AddScope changed the accumulator: leaves=%d scopes=%d", l, s)
	}
}

func TestAccumulator_DefaultScope(t *testing.T) {
	a := NewAccumulator("test", threeLevel)
	_ = a.AddLeaf(entry("afi", "ipv4"))
	_ = a.AddGroup(entry("neighbor_address", "192.0.2.1"))
	_ = a.AddLeaf(entry("afi", "ipv6"))
	_ = a.AddGroup(entry("neighbor_address", "192.0.2.2"))
	_ = a.AddScope(entry("vrf", "RED"))
	_ = a.AddLeaf(entry("afi", "ipv4"))
	_ = a.AddGroup(entry("neighbor_address", "192.0.2.3"))

	body := map[string]interface{}{}
	if err := a.Fold(body); err != nil {
		t.Fatal(err)
	}
	dflt := body["neighbors"].([]interface{})
	if len(dflt) != 1 || dflt[0].(map[string]interface{})["neighbor_address"] != "192.0.2.3" {
		t.Errorf("default scope neighbors = %v", dflt)
	}
	vrfs := body["vrfs"].([]interface{})
	if len(vrfs) != 1 {
		t.Fatalf("vrfs = %v", vrfs)
	}
	red := vrfs[0].(map[string]interface{})
	if n := len(red["neighbors"].([]interface{})); n != 2 {
		t.Errorf("RED has %d neighbors, want 2", n)
	}
}

func TestAccumulator_ScopeRequired(t *testing.T) {
	l := threeLevel
	l.ScopeRequired = true
	a := NewAccumulator("test", l)
	_ = a.AddLeaf(entry("afi", "ipv4"))
	_ = a.AddGroup(entry("neighbor_address", "192.0.2.1"))

	err := a.Verify()
	var ue *util.UnflushedError
	if !errors.As(err, &ue) || ue.Level != "neighbor" || ue.Closer != "add vrf" {
		t.Fatalf("Verify() = %v, want UnflushedError for neighbor", err)
	}

	_ = a.AddScope(entry("vrf", "default"))
	out, err := a.Outermost()
	if err != nil {
		t.Fatal(err)
	}
	if len(out) != 1 {
		t.Errorf("Outermost() = %v", out)
	}
}

func TestAccumulator_TwoLevel(t *testing.T) {
	a := NewAccumulator("test", Layout{
		Leaf:  LevelSpec{Op: "ace", Key: "aces"},
		Scope: LevelSpec{Op: "acl", Key: "acls"},
	})
	_ = a.AddLeaf(entry("sequence", "10"))
	_ = a.AddLeaf(entry("sequence", "20"))
	if err := a.AddScope(entry("name", "EDGE")); err != nil {
		t.Fatalf("AddScope() without group level: %v", err)
	}
	if err := a.AddGroup(entry("x", "y")); !errors.Is(err, util.ErrUnsupported) {
		t.Errorf("AddGroup() on two-level layout = %v, want ErrUnsupported", err)
	}

	out, _ := a.Outermost()
	acl := out[0].(map[string]interface{})
	if n := len(acl["aces"].([]interface{})); n != 2 {
		t.Errorf("acl has %d aces, want 2", n)
	}
}

func TestAccumulator_FoldOmitsEmptyLists(t *testing.T) {
	a := NewAccumulator("test", threeLevel)
	body := map[string]interface{}{"as_number": "65000"}
	if err := a.Fold(body); err != nil {
		t.Fatal(err)
	}
	if len(body) != 1 {
		t.Errorf("Fold() of empty accumulator added keys: %v", body)
	}
}
