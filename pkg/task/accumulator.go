package task

import (
	"fmt"

	"github.com/newtron-network/newtask/pkg/util"
)

// LevelSpec names one accumulator level. Op is the add operation exposed to
// callers ("neighbor", "ace", "vrf"); Key is the output key the level's
// entries are listed under. A zero Op means the layout has no such level.
type LevelSpec struct {
	Op  string
	Key string
}

func (l LevelSpec) defined() bool {
	return l.Op != ""
}

// Layout describes the nesting of a hierarchical module body.
type Layout struct {
	Leaf  LevelSpec
	Group LevelSpec
	Scope LevelSpec
	// ScopeRequired rejects unscoped entries at commit instead of folding
	// them into the default scope.
	ScopeRequired bool
}

// Stage is the deepest level of an accumulator that still holds entries.
type Stage int

const (
	// StageEmpty: nothing accumulated.
	StageEmpty Stage = iota
	// StageLeaf: leaves pending, not yet closed into a group or scope.
	StageLeaf
	// StageGroup: groups pending, not yet closed into a scope.
	StageGroup
	// StageScoped: only closed scopes.
	StageScoped
)

func (s Stage) String() string {
	switch s {
	case StageEmpty:
		return "empty"
	case StageLeaf:
		return "leaf"
	case StageGroup:
		return "group"
	case StageScoped:
		return "scoped"
	}
	return fmt.Sprintf("stage(%d)", int(s))
}

// Accumulator collects entry snapshots into ordered nested lists.
// Entries handed to it must already be private copies.
type Accumulator struct {
	module string
	layout Layout
	leaves []map[string]interface{}
	groups []map[string]interface{}
	scopes []map[string]interface{}
}

// NewAccumulator creates an empty accumulator for module.
func NewAccumulator(module string, layout Layout) *Accumulator {
	return &Accumulator{module: module, layout: layout}
}

// Layout returns the accumulator's layout.
func (a *Accumulator) Layout() Layout {
	return a.layout
}

// Stage reports the deepest level holding pending entries.
func (a *Accumulator) Stage() Stage {
	switch {
	case len(a.leaves) > 0:
		return StageLeaf
	case len(a.groups) > 0:
		return StageGroup
	case len(a.scopes) > 0:
		return StageScoped
	}
	return StageEmpty
}

// Pending returns how many leaves, groups and scopes are held.
func (a *Accumulator) Pending() (leaves, groups, scopes int) {
	return len(a.leaves), len(a.groups), len(a.scopes)
}

// AddLeaf appends a leaf entry to the current group.
func (a *Accumulator) AddLeaf(entry map[string]interface{}) error {
	if !a.layout.Leaf.defined() {
		return a.unsupported("leaf")
	}
	if len(entry) == 0 {
		return util.NewMandatoryFieldError(a.module, fmt.Sprintf("add %s: no %s fields set", a.layout.Leaf.Op, a.layout.Leaf.Op))
	}
	a.leaves = append(a.leaves, entry)
	return nil
}

// AddGroup closes the pending leaves into a new group entry built from the
// given group fields.
func (a *Accumulator) AddGroup(entry map[string]interface{}) error {
	if !a.layout.Group.defined() {
		return a.unsupported("group")
	}
	if len(entry) == 0 && len(a.leaves) == 0 {
		return util.NewMandatoryFieldError(a.module, fmt.Sprintf("add %s: no %s fields set and no %s entries pending",
			a.layout.Group.Op, a.layout.Group.Op, a.layout.Leaf.Op))
	}
	if entry == nil {
		entry = make(map[string]interface{})
	}
	if len(a.leaves) > 0 {
		entry[a.layout.Leaf.Key] = copyEntries(a.leaves)
	}
	a.groups = append(a.groups, entry)
	a.leaves = nil
	return nil
}

// AddScope closes the pending groups (or leaves, in layouts without a group
// level) into a new scope entry built from the given scope fields.
func (a *Accumulator) AddScope(entry map[string]interface{}) error {
	if !a.layout.Scope.defined() {
		return a.unsupported("scope")
	}
	if len(entry) == 0 {
		return util.NewMandatoryFieldError(a.module, fmt.Sprintf("add %s: no %s fields set", a.layout.Scope.Op, a.layout.Scope.Op))
	}
	if a.layout.Group.defined() {
		if len(a.leaves) > 0 {
			return &util.UnflushedError{Module: a.module, Level: a.layout.Leaf.Op, Pending: len(a.leaves), Closer: "add " + a.layout.Group.Op}
		}
		if len(a.groups) > 0 {
			entry[a.layout.Group.Key] = copyEntries(a.groups)
		}
		a.groups = nil
	} else {
		if len(a.leaves) > 0 {
			entry[a.layout.Leaf.Key] = copyEntries(a.leaves)
		}
		a.leaves = nil
	}
	a.scopes = append(a.scopes, entry)
	return nil
}

// Verify checks that the pending entries may be folded at commit.
func (a *Accumulator) Verify() error {
	if a.layout.Group.defined() && len(a.leaves) > 0 {
		return &util.UnflushedError{Module: a.module, Level: a.layout.Leaf.Op, Pending: len(a.leaves), Closer: "add " + a.layout.Group.Op}
	}
	if a.layout.ScopeRequired && a.layout.Scope.defined() {
		if n := len(a.groups) + len(a.leaves); n > 0 {
			level := a.layout.Leaf.Op
			if len(a.groups) > 0 {
				level = a.layout.Group.Op
			}
			return &util.UnflushedError{Module: a.module, Level: level, Pending: n, Closer: "add " + a.layout.Scope.Op}
		}
	}
	return nil
}

// Fold writes the accumulated entries into body: the default scope's groups
// (or leaves) under their level key, closed scopes under the scope key.
// Empty lists are omitted.
func (a *Accumulator) Fold(body map[string]interface{}) error {
	if err := a.Verify(); err != nil {
		return err
	}
	if a.layout.Group.defined() {
		if len(a.groups) > 0 {
			body[a.layout.Group.Key] = copyEntries(a.groups)
		}
	} else if len(a.leaves) > 0 {
		body[a.layout.Leaf.Key] = copyEntries(a.leaves)
	}
	if len(a.scopes) > 0 {
		body[a.layout.Scope.Key] = copyEntries(a.scopes)
	}
	return nil
}

// Outermost returns the entries of the outermost defined level: scopes when
// the layout has a scope level, else groups, else leaves.
func (a *Accumulator) Outermost() ([]interface{}, error) {
	if err := a.Verify(); err != nil {
		return nil, err
	}
	switch {
	case a.layout.Scope.defined():
		return copyEntries(a.scopes), nil
	case a.layout.Group.defined():
		return copyEntries(a.groups), nil
	}
	return copyEntries(a.leaves), nil
}

// Reset drops every accumulated entry.
func (a *Accumulator) Reset() {
	a.leaves = nil
	a.groups = nil
	a.scopes = nil
}

func (a *Accumulator) unsupported(level string) error {
	return fmt.Errorf("%s: %w: no %s level", a.module, util.ErrUnsupported, level)
}
