package nxos

import (
	"github.com/newtron-network/newtask/pkg/task"
	"github.com/newtron-network/newtask/pkg/validate"
)

var lines = validate.ListOf(validate.NonEmpty())

var commandSchema = task.MustSchema(Collection+"nxos_command",
	task.Required("commands", lines),
	task.Optional("wait_for", lines),
	task.Optional("match", validate.Toggle("all", "any")),
	task.Optional("retries", validate.IntRange(1, 100)),
	task.Optional("interval", validate.IntRange(1, 3600)),
)

// NewCommand returns a builder for nxos_command. Pair it with SetRegister to
// capture the output.
func NewCommand() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: commandSchema,
		Reset:  task.ResetAfterCommit,
		Rules: []task.Rule{
			task.Requires("match", "wait_for"),
			task.Requires("retries", "wait_for"),
		},
	})
}

var configSchema = task.MustSchema(Collection+"nxos_config",
	task.Optional("lines", lines),
	task.Optional("src", validate.NonEmpty()),
	task.Optional("parents", lines),
	task.Optional("before", lines),
	task.Optional("after", lines),
	task.Optional("match", validate.OneOf("line", "strict", "exact", "none")),
	task.Optional("replace", validate.OneOf("line", "block", "config")),
	task.Optional("save_when", validate.OneOf("always", "never", "modified", "changed")),
	task.Optional("backup", validate.Bool()),
)

// NewConfig returns a builder for nxos_config. Exactly one of lines and src
// is required.
func NewConfig() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: configSchema,
		Reset:  task.ResetAfterCommit,
		Rules: []task.Rule{
			task.ExactlyOne("lines", "src"),
			task.Requires("parents", "lines"),
			task.Requires("before", "lines"),
			task.Requires("after", "lines"),
			task.RequiresValue("replace", "config", "src"),
		},
	})
}
