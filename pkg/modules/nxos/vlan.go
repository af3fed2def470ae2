package nxos

import (
	"github.com/newtron-network/newtask/pkg/task"
	"github.com/newtron-network/newtask/pkg/validate"
)

var vlansSchema = task.MustSchema(Collection+"nxos_vlans",
	task.Optional("state", validate.OneOf("merged", "replaced", "overridden", "deleted", "gathered", "rendered")),
	task.Leaf("vlan_id", validate.IntRange(1, 4094)).Mandatory(),
	task.Leaf("name", validate.MaxLength(32)),
	task.Leaf("vlan_state", validate.Toggle("active", "suspend")).As("state"),
	task.Leaf("enabled", validate.Bool()),
	task.Leaf("mode", validate.Toggle("ce", "fabricpath")),
	task.Leaf("mapped_vni", validate.IntRange(1, 16777214)),
)

// NewVLANs returns a builder for nxos_vlans. Each "vlan" add appends one
// entry to the config list; the per-VLAN state is set as vlan_state.
func NewVLANs() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: vlansSchema,
		Shape:  task.ShapeConfigList,
		Layout: &task.Layout{
			Leaf: task.LevelSpec{Op: "vlan", Key: "vlans"},
		},
	})
}
