package nxos

import (
	"github.com/newtron-network/newtask/pkg/task"
	"github.com/newtron-network/newtask/pkg/validate"
)

var vrfSchema = task.MustSchema(Collection+"nxos_vrf",
	task.Required("vrf", validate.MaxLength(32)),
	task.Optional("description", validate.MaxLength(254)),
	task.Optional("rd", validate.RouteDistinguisher()),
	task.Optional("vni", validate.IntRange(1, 16777214)),
	task.Optional("admin_state", validate.Toggle("up", "down")),
	task.Optional("state", validate.Toggle("present", "absent")),
)

// NewVRF returns a builder for nxos_vrf. The builder is single-use.
func NewVRF() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: vrfSchema,
		Reset:  task.FreezeAfterCommit,
	})
}
