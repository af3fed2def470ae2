package nxos

import (
	"github.com/newtron-network/newtask/pkg/task"
	"github.com/newtron-network/newtask/pkg/validate"
)

var (
	bgpState = validate.OneOf("merged", "replaced", "deleted", "purged", "gathered", "rendered")
	afi      = validate.OneOf("ipv4", "ipv6", "l2vpn")
	safi     = validate.OneOf("unicast", "multicast", "evpn")
	vrfName  = validate.MaxLength(32)
	routeMap = validate.MaxLength(63)
)

// flag emits a choice as a one-key mapping: "both" becomes {both: true}.
func flag(v interface{}) interface{} {
	return map[string]interface{}{v.(string): true}
}

var bgpGlobalSchema = task.MustSchema(Collection+"nxos_bgp_global",
	task.Required("as_number", validate.ASN()),
	task.Optional("router_id", validate.IPv4Address()),
	task.Optional("log_neighbor_changes", validate.Bool()),
	task.Optional("state", bgpState),
	task.Leaf("neighbor_address", validate.IPAddress()).Mandatory(),
	task.Leaf("remote_as", validate.ASN()),
	task.Leaf("description", validate.MaxLength(80)),
	task.Leaf("update_source", validate.InterfaceName()),
	task.Leaf("peer_type", validate.OneOf("fabric-border-leaf", "fabric-external")),
	task.Scope("vrf", vrfName).Mandatory(),
	task.Scope("vrf_router_id", validate.IPv4Address()).As("router_id"),
)

// NewBGPGlobal returns a builder for nxos_bgp_global. Neighbors added before
// any "vrf" add belong to the default VRF.
func NewBGPGlobal() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: bgpGlobalSchema,
		Shape:  task.ShapeConfig,
		Layout: &task.Layout{
			Leaf:  task.LevelSpec{Op: "neighbor", Key: "neighbors"},
			Scope: task.LevelSpec{Op: "vrf", Key: "vrfs"},
		},
	})
}

var bgpAddressFamilySchema = task.MustSchema(Collection+"nxos_bgp_address_family",
	task.Required("as_number", validate.ASN()),
	task.Optional("state", bgpState),
	task.Leaf("prefix", validate.IPPrefix()).Mandatory(),
	task.Leaf("route_map", routeMap),
	task.Group("afi", afi).Mandatory(),
	task.Group("safi", safi),
	task.Group("vrf", vrfName),
	task.Group("maximum_paths", validate.IntRange(1, 64)).As("maximum_paths.parallel_paths"),
)

// NewBGPAddressFamily returns a builder for nxos_bgp_address_family.
// Networks are added with "network" and closed into an address family with
// "address_family".
func NewBGPAddressFamily() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: bgpAddressFamilySchema,
		Shape:  task.ShapeConfig,
		Layout: &task.Layout{
			Leaf:  task.LevelSpec{Op: "network", Key: "networks"},
			Group: task.LevelSpec{Op: "address_family", Key: "address_family"},
		},
	})
}

var bgpNeighborAddressFamilySchema = task.MustSchema(Collection+"nxos_bgp_neighbor_address_family",
	task.Required("as_number", validate.ASN()),
	task.Optional("state", bgpState),
	task.Leaf("afi", afi).Mandatory(),
	task.Leaf("safi", safi),
	task.Leaf("route_map_in", routeMap).As("route_map.inbound"),
	task.Leaf("route_map_out", routeMap).As("route_map.outbound"),
	task.Leaf("send_community", validate.OneOf("standard", "extended", "both")).EmitAs(flag),
	task.Leaf("soft_reconfiguration_inbound", validate.Bool()).As("soft_reconfiguration_inbound.set"),
	task.Group("neighbor_address", validate.IPAddress()).Mandatory(),
	task.Scope("vrf", vrfName).Mandatory(),
)

// NewBGPNeighborAddressFamily returns a builder for
// nxos_bgp_neighbor_address_family. Add order is address_family, then
// neighbor, then optionally vrf.
func NewBGPNeighborAddressFamily() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: bgpNeighborAddressFamilySchema,
		Shape:  task.ShapeConfig,
		Layout: &task.Layout{
			Leaf:  task.LevelSpec{Op: "address_family", Key: "address_family"},
			Group: task.LevelSpec{Op: "neighbor", Key: "neighbors"},
			Scope: task.LevelSpec{Op: "vrf", Key: "vrfs"},
		},
	})
}
