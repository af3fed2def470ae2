// Package spirent declares task builders for the Spirent TestCenter "stc"
// Ansible module. Every builder emits the same module key; the action entry
// selects the operation.
package spirent

import (
	"github.com/newtron-network/newtask/pkg/task"
	"github.com/newtron-network/newtask/pkg/validate"
)

// Module is the Ansible module key of every stc task.
const Module = "stc"

// Actions
const (
	ActionSession = "session"
	ActionCreate  = "create"
	ActionPerform = "perform"
	ActionConfig  = "config"
)

// objectRef accepts an STC object reference such as "ref:/project" or a
// plain handle name.
var objectRef = validate.NonEmpty()

var sessionSchema = task.MustSchema(Module,
	task.Optional("user", validate.NonEmpty()),
	task.Required("name", validate.MaxLength(64)),
	task.Optional("chassis", validate.ListOf(validate.IPv4Address())),
	task.Optional("reset_existing", validate.Bool()),
	task.Optional("kill_existing", validate.Bool()),
)

var createSchema = task.MustSchema(Module,
	task.Required("under", objectRef),
	task.Required("objects", validate.Mapping()),
	task.Optional("count", validate.IntRange(1, 65535)),
)

var performSchema = task.MustSchema(Module,
	task.Required("command", validate.NonEmpty()),
	task.Optional("properties", validate.Mapping()),
)

var configSchema = task.MustSchema(Module,
	task.Required("object", objectRef),
	task.Required("properties", validate.Mapping()),
)

func newAction(schema *task.Schema, action string) *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: schema,
		Reset:  task.ResetAfterCommit,
		Fixed:  map[string]interface{}{"action": action},
	})
}

// NewSession returns a builder that opens a lab server session.
func NewSession() *task.Builder {
	return newAction(sessionSchema, ActionSession)
}

// NewCreate returns a builder that creates objects under a parent.
func NewCreate() *task.Builder {
	return newAction(createSchema, ActionCreate)
}

// NewPerform returns a builder that runs an STC command.
func NewPerform() *task.Builder {
	return newAction(performSchema, ActionPerform)
}

// NewConfig returns a builder that sets properties on an existing object.
func NewConfig() *task.Builder {
	return newAction(configSchema, ActionConfig)
}
