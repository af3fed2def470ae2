package nxos

import (
	"fmt"
	"strings"

	"github.com/samber/lo"

	"github.com/newtron-network/newtask/pkg/task"
	"github.com/newtron-network/newtask/pkg/validate"
)

// Interface modes
const (
	ModeLayer2 = "layer2"
	ModeLayer3 = "layer3"
)

var interfaceSchema = task.MustSchema(Collection+"nxos_interface",
	task.Required("name", validate.InterfaceName()),
	task.Optional("state", validate.OneOf("present", "absent", "default")),
	task.Optional("admin_state", validate.Toggle("up", "down")),
	task.Optional("description", validate.MaxLength(254)),
	task.Optional("mode", validate.OneOf(ModeLayer2, ModeLayer3)),
	task.Optional("mtu", validate.IntRange(576, 9216)),
	task.Optional("speed", validate.DigitsOrKeyword("auto", 10, 400000)),
	task.Optional("duplex", validate.OneOf("full", "half", "auto")),
	task.Optional("fabric_forwarding_anycast_gateway", validate.Bool()),
	task.Optional("ip_forward", validate.Toggle("enable", "disable")),
)

// NewInterface returns a builder for nxos_interface. It resets after each
// commit so one builder can describe many interfaces.
func NewInterface() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: interfaceSchema,
		Reset:  task.ResetAfterCommit,
		Rules: []task.Rule{
			layer3Only("ip_forward", "fabric_forwarding_anycast_gateway"),
		},
	})
}

// layer3Only rejects routed-interface fields on a switchport.
func layer3Only(fields ...string) task.Rule {
	return func(s *task.Store) []string {
		if mode, _ := task.As[string](s.Get("mode")); mode != ModeLayer2 {
			return nil
		}
		set := lo.Filter(fields, func(f string, _ int) bool { return s.IsSet(f) })
		if len(set) == 0 {
			return nil
		}
		return []string{fmt.Sprintf("%s not allowed with mode=%s", strings.Join(set, ", "), ModeLayer2)}
	}
}

var l3InterfacesSchema = task.MustSchema(Collection+"nxos_l3_interfaces",
	task.Optional("state", validate.OneOf("merged", "replaced", "overridden", "deleted", "gathered", "rendered")),
	task.Leaf("address", validate.IPv4Prefix()).Mandatory(),
	task.Leaf("secondary", validate.Bool()),
	task.Leaf("tag", validate.IntRange(0, 4294967295)),
	task.Group("interface", validate.InterfaceName(
		validate.KindPhysical, validate.KindSubInterface, validate.KindPortChannel,
		validate.KindVLAN, validate.KindLoopback, validate.KindManagement,
	)).Mandatory().As("name"),
	task.Group("redirects", validate.Bool()),
	task.Group("unreachables", validate.Bool()),
)

// NewL3Interfaces returns a builder for nxos_l3_interfaces. Addresses are
// added with "ipv4" and closed into an interface entry with "interface".
func NewL3Interfaces() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: l3InterfacesSchema,
		Shape:  task.ShapeConfigList,
		Layout: &task.Layout{
			Leaf:  task.LevelSpec{Op: "ipv4", Key: "ipv4"},
			Group: task.LevelSpec{Op: "interface", Key: "interfaces"},
		},
	})
}
