// Package nxos declares task builders for the cisco.nxos Ansible collection.
//
// Flat modules (nxos_interface, nxos_feature, nxos_vrf, nxos_command,
// nxos_config) emit their set fields directly. Resource modules
// (nxos_vlans, nxos_l3_interfaces, nxos_bgp_*, nxos_acls) collect entries
// through add operations and emit a config-shaped body:
//
//	b := nxos.NewBGPNeighborAddressFamily()
//	b.Set("as_number", "65000")
//	b.Set("afi", "ipv4")
//	b.Add("address_family")
//	b.Set("neighbor_address", "10.0.0.1")
//	b.Add("neighbor")
//	t, err := b.Commit()
package nxos

// Collection is the FQCN prefix shared by every module in this package.
const Collection = "cisco.nxos."
