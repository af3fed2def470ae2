package nxos

import (
	"github.com/newtron-network/newtask/pkg/task"
	"github.com/newtron-network/newtask/pkg/validate"
)

// Features lists the NX-OS feature names accepted by nxos_feature.
var Features = []string{
	"bfd", "bgp", "dhcp", "fabric forwarding", "hsrp", "interface-vlan",
	"lacp", "lldp", "netconf", "nv overlay", "nxapi", "ospf", "ospfv3",
	"pim", "scp-server", "sflow", "ssh", "telnet", "vn-segment-vlan-based",
	"vpc", "vrrp",
}

var featureSchema = task.MustSchema(Collection+"nxos_feature",
	task.Required("feature", validate.OneOf(Features...)),
	task.Optional("state", validate.Toggle("enabled", "disabled")),
)

// NewFeature returns a builder for nxos_feature.
func NewFeature() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: featureSchema,
		Reset:  task.ResetAfterCommit,
	})
}
