// Package playbook assembles committed tasks and connection context into an
// Ansible playbook document.
package playbook

import (
	"bytes"
	"context"
	"fmt"

	"gopkg.in/yaml.v3"

	"github.com/newtron-network/newtask/pkg/task"
	"github.com/newtron-network/newtask/pkg/util"
)

// DefaultName is the play name used when none is given.
const DefaultName = "newtask playbook"

// Well-known connection variables.
const (
	VarConnection = "ansible_connection"
	VarNetworkOS  = "ansible_network_os"
	VarUser       = "ansible_user"
	VarPassword   = "ansible_password"
	VarPrivateKey = "ansible_ssh_private_key_file"
)

// Playbook is a single-play playbook under construction.
type Playbook struct {
	name        string
	hosts       []string
	vars        orderedMap
	environment orderedMap
	gatherFacts bool
	tasks       []task.Task
}

// New creates an empty playbook. An empty name falls back to DefaultName.
func New(name string) *Playbook {
	if name == "" {
		name = DefaultName
	}
	return &Playbook{name: name}
}

// Name returns the play name.
func (p *Playbook) Name() string {
	return p.name
}

// Hosts returns the target hosts in insertion order.
func (p *Playbook) Hosts() []string {
	return append([]string(nil), p.hosts...)
}

// Tasks returns the tasks in insertion order.
func (p *Playbook) Tasks() []task.Task {
	out := make([]task.Task, len(p.tasks))
	for i, t := range p.tasks {
		out[i] = t.Clone()
	}
	return out
}

// SetGatherFacts controls the play's gather_facts flag. Network plays leave
// it off.
func (p *Playbook) SetGatherFacts(on bool) {
	p.gatherFacts = on
}

// AddTask appends a committed task.
func (p *Playbook) AddTask(t task.Task) error {
	if !t.Finalized() {
		return fmt.Errorf("add task %s: %w", t.Module, util.ErrNotFinalized)
	}
	p.tasks = append(p.tasks, t.Clone())
	return nil
}

// AddHost appends a target host or group pattern.
func (p *Playbook) AddHost(name string) error {
	if name == "" {
		return fmt.Errorf("%w: empty host name", util.ErrInvalidConfig)
	}
	p.hosts = append(p.hosts, name)
	return nil
}

// AddVar sets a play variable. Setting a key again replaces its value in
// place.
func (p *Playbook) AddVar(key string, value interface{}) error {
	if key == "" {
		return fmt.Errorf("%w: empty variable name", util.ErrInvalidConfig)
	}
	p.vars = p.vars.set(key, value)
	return nil
}

// HasVar reports whether key is already set.
func (p *Playbook) HasVar(key string) bool {
	for _, e := range p.vars {
		if e.key == key {
			return true
		}
	}
	return false
}

// AddEnvironment sets a play environment variable.
func (p *Playbook) AddEnvironment(key, value string) error {
	if key == "" {
		return fmt.Errorf("%w: empty environment variable name", util.ErrInvalidConfig)
	}
	p.environment = p.environment.set(key, value)
	return nil
}

// play fixes the key order of the emitted play.
type play struct {
	Name        string      `yaml:"name"`
	Hosts       []string    `yaml:"hosts"`
	GatherFacts bool        `yaml:"gather_facts"`
	Vars        orderedMap  `yaml:"vars,omitempty"`
	Environment orderedMap  `yaml:"environment,omitempty"`
	Tasks       []task.Task `yaml:"tasks"`
}

// Validate checks that the playbook can be rendered.
func (p *Playbook) Validate() error {
	if len(p.hosts) == 0 {
		return util.NewAssemblyError("no hosts", nil)
	}
	if len(p.tasks) == 0 {
		return util.NewAssemblyError("no tasks", nil)
	}
	return nil
}

// Render returns the playbook document.
func (p *Playbook) Render() ([]byte, error) {
	if err := p.Validate(); err != nil {
		return nil, err
	}
	doc := []play{{
		Name:        p.name,
		Hosts:       p.hosts,
		GatherFacts: p.gatherFacts,
		Vars:        p.vars,
		Environment: p.environment,
		Tasks:       p.tasks,
	}}

	var buf bytes.Buffer
	enc := yaml.NewEncoder(&buf)
	enc.SetIndent(2)
	if err := enc.Encode(doc); err != nil {
		return nil, util.NewAssemblyError("encode", err)
	}
	if err := enc.Close(); err != nil {
		return nil, util.NewAssemblyError("encode", err)
	}
	return append([]byte("---\n"), buf.Bytes()...), nil
}

// Write renders the playbook and hands it to sink. The sink is opened only
// after rendering succeeds and is always closed.
func (p *Playbook) Write(ctx context.Context, sink Sink) (err error) {
	data, err := p.Render()
	if err != nil {
		return err
	}

	w, err := sink.Open(ctx)
	if err != nil {
		return util.NewAssemblyError("open "+sink.String(), err)
	}
	defer func() {
		if cerr := w.Close(); cerr != nil && err == nil {
			err = util.NewAssemblyError("close "+sink.String(), cerr)
		}
	}()

	if _, err := w.Write(data); err != nil {
		return util.NewAssemblyError("write "+sink.String(), err)
	}
	util.WithPlaybook(p.name).Infof("Wrote %d tasks for %d hosts to %s", len(p.tasks), len(p.hosts), sink)
	return nil
}

type kv struct {
	key   string
	value interface{}
}

// orderedMap is a mapping that keeps insertion order in YAML output.
type orderedMap []kv

func (m orderedMap) set(key string, value interface{}) orderedMap {
	for i := range m {
		if m[i].key == key {
			m[i].value = value
			return m
		}
	}
	return append(m, kv{key, value})
}

// IsZero lets omitempty drop empty mappings.
func (m orderedMap) IsZero() bool {
	return len(m) == 0
}

func (m orderedMap) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	for _, e := range m {
		v := &yaml.Node{}
		if err := v.Encode(e.value); err != nil {
			return nil, fmt.Errorf("%s: %w", e.key, err)
		}
		node.Content = append(node.Content, &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: e.key}, v)
	}
	return node, nil
}
