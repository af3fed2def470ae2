package task

import (
	"gopkg.in/yaml.v3"
)

// Task is one finalized playbook task: a module key mapped to its body,
// with an optional display name and result variable.
type Task struct {
	Name     string
	Module   string
	Body     map[string]interface{}
	Register string

	finalized bool
}

// Finalized reports whether the task was produced by Builder.Commit.
func (t Task) Finalized() bool {
	return t.finalized
}

// Clone returns a copy of t that shares no mutable state with it.
func (t Task) Clone() Task {
	if t.Body != nil {
		t.Body = deepCopy(t.Body).(map[string]interface{})
	}
	return t
}

// MarshalYAML emits the task as an ordered mapping: name, module, register.
func (t Task) MarshalYAML() (interface{}, error) {
	node := &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map"}
	if t.Name != "" {
		node.Content = append(node.Content, scalar("name"), scalar(t.Name))
	}

	body := &yaml.Node{}
	if len(t.Body) == 0 {
		body = &yaml.Node{Kind: yaml.MappingNode, Tag: "!!map", Style: yaml.FlowStyle}
	} else if err := body.Encode(t.Body); err != nil {
		return nil, err
	}
	node.Content = append(node.Content, scalar(t.Module), body)

	if t.Register != "" {
		node.Content = append(node.Content, scalar("register"), scalar(t.Register))
	}
	return node, nil
}

func scalar(s string) *yaml.Node {
	return &yaml.Node{Kind: yaml.ScalarNode, Tag: "!!str", Value: s}
}
