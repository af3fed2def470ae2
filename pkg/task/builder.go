package task

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/newtron-network/newtask/pkg/util"
	"github.com/newtron-network/newtask/pkg/validate"
)

// StateField is the top-level field that stays beside "config" in
// config-shaped bodies.
const StateField = "state"

// State is the lifecycle state of a Builder.
type State int

const (
	StateEmpty State = iota
	StateConfiguring
	StateFinalized
)

func (s State) String() string {
	switch s {
	case StateEmpty:
		return "empty"
	case StateConfiguring:
		return "configuring"
	case StateFinalized:
		return "finalized"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

// ResetPolicy decides what a Builder does after a successful Commit.
type ResetPolicy int

const (
	// FreezeAfterCommit keeps the builder Finalized; further mutation fails
	// with util.ErrFinalized.
	FreezeAfterCommit ResetPolicy = iota
	// ResetAfterCommit clears every field and accumulated entry and returns
	// the builder to Empty so it can build the next task.
	ResetAfterCommit
)

func (p ResetPolicy) String() string {
	if p == ResetAfterCommit {
		return "reset"
	}
	return "freeze"
}

// Shape selects how set fields are laid out in the task body.
type Shape int

const (
	// ShapeFlat: body is the set top-level fields plus folded entries.
	ShapeFlat Shape = iota
	// ShapeConfig: body is {config: {top fields, folded entries}, state}.
	ShapeConfig
	// ShapeConfigList: body is {config: [outermost entries], state}.
	ShapeConfigList
)

// Config declares a module's builder.
type Config struct {
	Schema *Schema
	Shape  Shape
	Reset  ResetPolicy
	// Layout is required when the schema declares non-top fields.
	Layout *Layout
	Rules  []Rule
	// Fixed entries are written into every body and cannot be set.
	Fixed map[string]interface{}
}

// Builder assembles one task for one module.
type Builder struct {
	schema   *Schema
	store    *Store
	acc      *Accumulator
	shape    Shape
	reset    ResetPolicy
	rules    []Rule
	fixed    map[string]interface{}
	state    State
	taskName string
	register string
	result   *Task
}

// NewBuilder creates a builder from a module declaration. It panics on a
// declaration whose schema and layout disagree.
func NewBuilder(cfg Config) *Builder {
	if cfg.Schema == nil {
		panic("task: builder without schema")
	}
	b := &Builder{
		schema: cfg.Schema,
		store:  NewStore(cfg.Schema),
		shape:  cfg.Shape,
		reset:  cfg.Reset,
		rules:  cfg.Rules,
		fixed:  cfg.Fixed,
	}
	for k := range cfg.Fixed {
		if _, ok := cfg.Schema.Lookup(k); ok {
			panic(fmt.Sprintf("task: %s: fixed entry %q shadows a field", cfg.Schema.module, k))
		}
	}
	nested := cfg.Schema.HasLevel(LevelLeaf) || cfg.Schema.HasLevel(LevelGroup) || cfg.Schema.HasLevel(LevelScope)
	if cfg.Layout == nil {
		if nested || cfg.Shape == ShapeConfigList {
			panic(fmt.Sprintf("task: %s: nested fields require a layout", cfg.Schema.module))
		}
		return b
	}
	l := *cfg.Layout
	if !l.Leaf.defined() && (l.Group.defined() || l.Scope.defined()) {
		panic(fmt.Sprintf("task: %s: layout without a leaf level", cfg.Schema.module))
	}
	if cfg.Shape == ShapeConfigList && l.Scope.defined() && !l.ScopeRequired {
		panic(fmt.Sprintf("task: %s: list-shaped layout with optional scope", cfg.Schema.module))
	}
	b.acc = NewAccumulator(cfg.Schema.module, l)
	return b
}

// Module returns the Ansible module the builder targets.
func (b *Builder) Module() string {
	return b.schema.module
}

// Schema returns the module's field table.
func (b *Builder) Schema() *Schema {
	return b.schema
}

// State returns the lifecycle state.
func (b *Builder) State() State {
	return b.state
}

// Policy returns the reset policy.
func (b *Builder) Policy() ResetPolicy {
	return b.reset
}

// Stage returns the accumulator stage, StageEmpty for flat modules.
func (b *Builder) Stage() Stage {
	if b.acc == nil {
		return StageEmpty
	}
	return b.acc.Stage()
}

// Get returns the current value of a field.
func (b *Builder) Get(name string) Value {
	return b.store.Get(name)
}

// Set assigns a property. v may be a raw value, a Value, or nil; nil and
// Unset() clear the field.
func (b *Builder) Set(name string, v interface{}) error {
	if b.state == StateFinalized {
		return fmt.Errorf("%s: set %s: %w", b.schema.module, name, util.ErrFinalized)
	}
	val := Of(v)
	if err := b.store.Set(name, val); err != nil {
		return err
	}
	if val.IsSet() {
		b.touch()
	}
	return nil
}

// Unset clears a property.
func (b *Builder) Unset(name string) error {
	return b.Set(name, Unset())
}

// SetTaskName sets the display name of the task.
func (b *Builder) SetTaskName(name string) error {
	if b.state == StateFinalized {
		return fmt.Errorf("%s: set task name: %w", b.schema.module, util.ErrFinalized)
	}
	b.taskName = name
	if name != "" {
		b.touch()
	}
	return nil
}

var registerCheck = validate.VariableName()

// SetRegister names the variable that captures the task's result.
func (b *Builder) SetRegister(name string) error {
	if b.state == StateFinalized {
		return fmt.Errorf("%s: set register: %w", b.schema.module, util.ErrFinalized)
	}
	if name != "" && !registerCheck.Valid(name) {
		return util.NewValidationError(b.schema.module, "register", name, registerCheck.Expect)
	}
	b.register = name
	if name != "" {
		b.touch()
	}
	return nil
}

// Ops returns the add operations the module supports, innermost first.
func (b *Builder) Ops() []string {
	if b.acc == nil {
		return nil
	}
	l := b.acc.layout
	return lo.FilterMap([]LevelSpec{l.Leaf, l.Group, l.Scope}, func(s LevelSpec, _ int) (string, bool) {
		return s.Op, s.defined()
	})
}

// Add runs the add operation named op.
func (b *Builder) Add(op string) error {
	if b.acc != nil {
		switch op {
		case b.acc.layout.Leaf.Op:
			return b.AddLeaf()
		case b.acc.layout.Group.Op:
			if b.acc.layout.Group.defined() {
				return b.AddGroup()
			}
		case b.acc.layout.Scope.Op:
			if b.acc.layout.Scope.defined() {
				return b.AddScope()
			}
		}
	}
	return fmt.Errorf("%s: add %s: %w (available: %s)", b.schema.module, op, util.ErrUnsupported, strings.Join(b.Ops(), ", "))
}

// AddLeaf snapshots the set leaf fields into the current group and clears
// them.
func (b *Builder) AddLeaf() error {
	return b.add(LevelLeaf, func(a *Accumulator) LevelSpec { return a.layout.Leaf }, (*Accumulator).AddLeaf)
}

// AddGroup closes the pending leaves into a group tagged with the set group
// fields, then clears those fields.
func (b *Builder) AddGroup() error {
	return b.add(LevelGroup, func(a *Accumulator) LevelSpec { return a.layout.Group }, (*Accumulator).AddGroup)
}

// AddScope closes the pending groups into a scope tagged with the set scope
// fields, then clears those fields.
func (b *Builder) AddScope() error {
	return b.add(LevelScope, func(a *Accumulator) LevelSpec { return a.layout.Scope }, (*Accumulator).AddScope)
}

func (b *Builder) add(level Level, spec func(*Accumulator) LevelSpec, push func(*Accumulator, map[string]interface{}) error) error {
	if b.state == StateFinalized {
		return fmt.Errorf("%s: add: %w", b.schema.module, util.ErrFinalized)
	}
	if b.acc == nil || !spec(b.acc).defined() {
		return fmt.Errorf("%s: %w: no %s level", b.schema.module, util.ErrUnsupported, level)
	}
	op := spec(b.acc).Op
	if missing := b.store.MissingRequired(level); len(missing) > 0 {
		return util.NewMandatoryFieldError(b.schema.module,
			fmt.Sprintf("add %s: %s mandatory", op, strings.Join(missing, ", ")))
	}
	if err := push(b.acc, b.store.Snapshot(level)); err != nil {
		return err
	}
	b.store.ClearLevel(level)
	b.touch()
	util.WithModule(b.schema.module).Debugf("added %s", op)
	return nil
}

// Commit runs final verification and folds the builder into a Task. On
// failure nothing changes and no Task is produced.
func (b *Builder) Commit() (Task, error) {
	if b.state == StateFinalized {
		return Task{}, fmt.Errorf("%s: commit: %w", b.schema.module, util.ErrFinalized)
	}
	if err := b.verify(); err != nil {
		return Task{}, err
	}

	body, err := b.body()
	if err != nil {
		return Task{}, err
	}
	for k, v := range b.fixed {
		body[k] = deepCopy(v)
	}

	t := Task{
		Name:      b.taskName,
		Module:    b.schema.module,
		Body:      body,
		Register:  b.register,
		finalized: true,
	}
	frozen := t.Clone()
	b.result = &frozen
	util.WithModule(b.schema.module).Debugf("committed task %q (%s)", t.Name, b.reset)

	switch b.reset {
	case ResetAfterCommit:
		b.clear()
	default:
		b.state = StateFinalized
	}
	return t, nil
}

// Result returns a copy of the task produced by the last successful Commit.
func (b *Builder) Result() (Task, error) {
	if b.result == nil {
		return Task{}, fmt.Errorf("%s: %w", b.schema.module, util.ErrNotFinalized)
	}
	return b.result.Clone(), nil
}

// Reset discards all state, including a frozen result, and returns the
// builder to Empty.
func (b *Builder) Reset() {
	b.clear()
	b.result = nil
}

func (b *Builder) clear() {
	b.store.Reset()
	if b.acc != nil {
		b.acc.Reset()
	}
	b.taskName = ""
	b.register = ""
	b.state = StateEmpty
}

func (b *Builder) touch() {
	if b.state == StateEmpty {
		b.state = StateConfiguring
	}
}

func (b *Builder) verify() error {
	var problems []string
	for _, name := range b.store.MissingRequired(LevelTop) {
		problems = append(problems, name+" is mandatory")
	}
	for _, rule := range b.rules {
		problems = append(problems, rule(b.store)...)
	}
	if b.acc != nil {
		for _, spec := range []struct {
			level Level
			ls    LevelSpec
		}{
			{LevelLeaf, b.acc.layout.Leaf},
			{LevelGroup, b.acc.layout.Group},
			{LevelScope, b.acc.layout.Scope},
		} {
			if set := b.store.SetNames(spec.level); len(set) > 0 {
				problems = append(problems, fmt.Sprintf("%s set but never added: call add %s",
					strings.Join(set, ", "), spec.ls.Op))
			}
		}
	}
	if len(problems) > 0 {
		return util.NewMandatoryFieldError(b.schema.module, problems...)
	}
	if b.acc != nil {
		return b.acc.Verify()
	}
	return nil
}

func (b *Builder) body() (map[string]interface{}, error) {
	switch b.shape {
	case ShapeConfig:
		config := b.store.Snapshot(LevelTop, StateField)
		if b.acc != nil {
			if err := b.acc.Fold(config); err != nil {
				return nil, err
			}
		}
		body := b.store.Snapshot(LevelTop)
		for k := range config {
			delete(body, k)
		}
		if len(config) > 0 {
			body["config"] = config
		}
		return body, nil

	case ShapeConfigList:
		entries, err := b.acc.Outermost()
		if err != nil {
			return nil, err
		}
		body := b.store.Snapshot(LevelTop)
		if len(entries) > 0 {
			body["config"] = entries
		}
		return body, nil
	}

	body := b.store.Snapshot(LevelTop)
	if b.acc != nil {
		if err := b.acc.Fold(body); err != nil {
			return nil, err
		}
	}
	return body, nil
}
