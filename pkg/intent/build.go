package intent

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"
	"github.com/samber/lo"

	"github.com/newtron-network/newtask/pkg/catalog"
	"github.com/newtron-network/newtask/pkg/modules/ansible"
	"github.com/newtron-network/newtask/pkg/playbook"
	"github.com/newtron-network/newtask/pkg/task"
	"github.com/newtron-network/newtask/pkg/util"
)

// Build runs every task of f through its builder and assembles the playbook.
// The first failing task aborts the build; no partial playbook is returned.
func Build(f *File) (*playbook.Playbook, error) {
	p := playbook.New(f.Name)
	p.SetGatherFacts(f.GatherFacts)
	for _, h := range f.Hosts {
		if err := p.AddHost(h); err != nil {
			return nil, err
		}
	}
	for _, k := range sortedKeys(f.Vars) {
		if err := p.AddVar(k, f.Vars[k]); err != nil {
			return nil, err
		}
	}
	for _, k := range sortedKeys(f.Environment) {
		if err := p.AddEnvironment(k, f.Environment[k]); err != nil {
			return nil, err
		}
	}

	for i := range f.Tasks {
		t := &f.Tasks[i]
		tasks, err := BuildTask(t)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", t.label(i), err)
		}
		for _, tk := range tasks {
			if err := p.AddTask(tk); err != nil {
				return nil, fmt.Errorf("%s: %w", t.label(i), err)
			}
		}
	}
	return p, nil
}

// BuildTask commits one intent task. It returns the task followed by its
// register-save companion when Save is set.
func BuildTask(t *Task) ([]task.Task, error) {
	b, err := catalog.New(t.Module)
	if err != nil {
		return nil, err
	}
	log := util.WithModule(b.Module())

	if err := b.SetTaskName(t.Name); err != nil {
		return nil, err
	}
	if err := b.SetRegister(t.Register); err != nil {
		return nil, err
	}
	if err := apply(b, t.Set); err != nil {
		return nil, err
	}
	for j, s := range t.Steps {
		if err := step(b, s); err != nil {
			return nil, fmt.Errorf("step %d: %w", j+1, err)
		}
	}

	tk, err := b.Commit()
	if err != nil {
		return nil, err
	}
	log.Debugf("built task %q", tk.Name)

	out := []task.Task{tk}
	if t.Save != "" {
		save, err := ansible.RegisterSave(t.Register, t.Save)
		if err != nil {
			return nil, err
		}
		out = append(out, save)
	}
	return out, nil
}

func step(b *task.Builder, s Step) error {
	switch {
	case len(s.Set) > 0:
		return apply(b, s.Set)
	case len(s.Unset) > 0:
		for _, name := range s.Unset {
			if err := b.Unset(name); err != nil {
				return err
			}
		}
		return nil
	case s.Add != "":
		return b.Add(s.Add)
	}
	return fmt.Errorf("%w: empty step", util.ErrInvalidConfig)
}

// apply sets properties in natural key order so errors are reported
// deterministically.
func apply(b *task.Builder, props map[string]interface{}) error {
	for _, k := range sortedKeys(props) {
		if err := b.Set(k, props[k]); err != nil {
			return err
		}
	}
	return nil
}

func sortedKeys[V any](m map[string]V) []string {
	keys := lo.Keys(m)
	sort.Sort(natural.StringSlice(keys))
	return keys
}
