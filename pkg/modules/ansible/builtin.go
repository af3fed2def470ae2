// Package ansible declares task builders for ansible.builtin modules.
package ansible

import (
	"fmt"
	"regexp"

	"github.com/newtron-network/newtask/pkg/task"
	"github.com/newtron-network/newtask/pkg/util"
	"github.com/newtron-network/newtask/pkg/validate"
)

// Collection is the FQCN prefix of the builtin modules.
const Collection = "ansible.builtin."

var path = validate.NonEmpty()

var commandSchema = task.MustSchema(Collection+"command",
	task.Required("cmd", validate.NonEmpty()),
	task.Optional("chdir", path),
	task.Optional("creates", path),
	task.Optional("removes", path),
)

// NewCommand returns a builder for ansible.builtin.command.
func NewCommand() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: commandSchema,
		Reset:  task.ResetAfterCommit,
		Rules:  []task.Rule{task.Exclusive("creates", "removes")},
	})
}

var fileMode = regexp.MustCompile(`^0?[0-7]{3,4}$`)

var copySchema = task.MustSchema(Collection+"copy",
	task.Required("dest", path),
	task.Optional("content", validate.NonEmpty()),
	task.Optional("src", path),
	task.Optional("mode", validate.Pattern(fileMode, "octal file mode, e.g. 0644")),
	task.Optional("backup", validate.Bool()),
	task.Optional("force", validate.Bool()),
)

// NewCopy returns a builder for ansible.builtin.copy. Exactly one of content
// and src is required.
func NewCopy() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: copySchema,
		Reset:  task.ResetAfterCommit,
		Rules:  []task.Rule{task.ExactlyOne("content", "src")},
	})
}

// RegisterSave builds the companion task that writes the first stdout
// element of a registered variable to dest on the control node.
func RegisterSave(variable, dest string) (task.Task, error) {
	if check := validate.VariableName(); !check.Valid(variable) {
		return task.Task{}, util.NewValidationError(copySchema.Module(), "register", variable, check.Expect)
	}
	b := NewCopy()
	if err := b.SetTaskName("save " + variable); err != nil {
		return task.Task{}, err
	}
	if err := b.Set("content", fmt.Sprintf("{{ %s.stdout[0] }}", variable)); err != nil {
		return task.Task{}, err
	}
	if err := b.Set("dest", dest); err != nil {
		return task.Task{}, err
	}
	return b.Commit()
}

var debugSchema = task.MustSchema(Collection+"debug",
	task.Optional("msg", validate.NonEmpty()),
	task.Optional("var", validate.NonEmpty()),
	task.Optional("verbosity", validate.IntRange(0, 5)),
)

// NewDebug returns a builder for ansible.builtin.debug.
func NewDebug() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: debugSchema,
		Reset:  task.ResetAfterCommit,
		Rules:  []task.Rule{task.ExactlyOne("msg", "var")},
	})
}

var pauseSchema = task.MustSchema(Collection+"pause",
	task.Optional("seconds", validate.IntRange(1, 86400)),
	task.Optional("minutes", validate.IntRange(1, 1440)),
	task.Optional("prompt", validate.NonEmpty()),
)

// NewPause returns a builder for ansible.builtin.pause. With neither seconds
// nor minutes it waits for the prompt to be acknowledged.
func NewPause() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: pauseSchema,
		Reset:  task.ResetAfterCommit,
		Rules:  []task.Rule{task.Exclusive("seconds", "minutes")},
	})
}
