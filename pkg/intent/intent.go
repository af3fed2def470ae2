// Package intent loads YAML intent files and turns them into playbooks.
//
// An intent file names the play, its hosts and variables, and lists tasks.
// Each task names a catalog module, optional top-level properties under set,
// and ordered steps that set, unset or add accumulator entries:
//
//	tasks:
//	  - module: nxos_bgp_neighbor_address_family
//	    set: {as_number: "65000"}
//	    steps:
//	      - set: {afi: ipv4, safi: unicast}
//	      - add: address_family
//	      - set: {neighbor_address: 10.0.0.1}
//	      - add: neighbor
package intent

import (
	"bytes"
	"fmt"
	"os"

	"github.com/samber/lo"
	"gopkg.in/yaml.v3"

	"github.com/newtron-network/newtask/pkg/catalog"
	"github.com/newtron-network/newtask/pkg/util"
	"github.com/newtron-network/newtask/pkg/validate"
)

// File is a parsed intent file.
type File struct {
	Name        string                 `yaml:"name"`
	Hosts       []string               `yaml:"hosts"`
	GatherFacts bool                   `yaml:"gather_facts"`
	Vars        map[string]interface{} `yaml:"vars,omitempty"`
	Environment map[string]string      `yaml:"environment,omitempty"`
	Tasks       []Task                 `yaml:"tasks"`
}

// Task is one task entry of an intent file.
type Task struct {
	Module   string                 `yaml:"module"`
	Name     string                 `yaml:"name,omitempty"`
	Register string                 `yaml:"register,omitempty"`
	Save     string                 `yaml:"save,omitempty"` // register-save destination
	Set      map[string]interface{} `yaml:"set,omitempty"`
	Steps    []Step                 `yaml:"steps,omitempty"`
}

// Step is one ordered builder operation. Exactly one of Set, Unset and Add
// is used.
type Step struct {
	Set   map[string]interface{} `yaml:"set,omitempty"`
	Unset []string               `yaml:"unset,omitempty"`
	Add   string                 `yaml:"add,omitempty"`
}

// label identifies a task in error messages.
func (t *Task) label(index int) string {
	if t.Name != "" {
		return fmt.Sprintf("task %d (%s)", index+1, t.Name)
	}
	return fmt.Sprintf("task %d (%s)", index+1, t.Module)
}

// Load reads and validates an intent file.
func Load(path string) (*File, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading intent %s: %w", path, err)
	}
	f, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("intent %s: %w", path, err)
	}
	return f, nil
}

// Parse decodes and validates intent YAML. Unknown keys are rejected.
func Parse(data []byte) (*File, error) {
	var f File
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil {
		return nil, fmt.Errorf("parsing: %w", err)
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// Validate checks the file's structure. Property values are checked later by
// the builders.
func (f *File) Validate() error {
	v := &util.ValidationBuilder{}
	v.Add(len(f.Tasks) > 0, "no tasks")
	for i, h := range f.Hosts {
		v.Add(h != "", fmt.Sprintf("host %d is empty", i+1))
	}
	for i := range f.Tasks {
		t := &f.Tasks[i]
		prefix := t.label(i)
		if t.Module == "" {
			v.AddErrorf("%s: module is required", prefix)
			continue
		}
		entry, err := catalog.Lookup(t.Module)
		if err != nil {
			v.AddErrorf("%s: unknown module %q", prefix, t.Module)
			continue
		}
		if t.Register != "" && !validate.IsVariableName(t.Register) {
			v.AddErrorf("%s: register %q is not a valid variable name", prefix, t.Register)
		}
		if t.Save != "" && t.Register == "" {
			v.AddErrorf("%s: save requires register", prefix)
		}
		for j, s := range t.Steps {
			n := 0
			if len(s.Set) > 0 {
				n++
			}
			if len(s.Unset) > 0 {
				n++
			}
			if s.Add != "" {
				n++
			}
			if n != 1 {
				v.AddErrorf("%s step %d: exactly one of set, unset, add is required", prefix, j+1)
				continue
			}
			if s.Add != "" && !lo.Contains(entry.Ops, s.Add) {
				v.AddErrorf("%s step %d: %s has no add %q", prefix, j+1, t.Module, s.Add)
			}
		}
	}
	return v.Build()
}
