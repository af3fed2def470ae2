// Package catalog maps the module keys used in intent files to task builder
// constructors.
package catalog

import (
	"fmt"
	"sort"

	"github.com/maruel/natural"
	"github.com/samber/lo"

	"github.com/newtron-network/newtask/pkg/modules/ansible"
	"github.com/newtron-network/newtask/pkg/modules/nxos"
	"github.com/newtron-network/newtask/pkg/modules/spirent"
	"github.com/newtron-network/newtask/pkg/task"
	"github.com/newtron-network/newtask/pkg/util"
)

// Constructor creates a fresh builder.
type Constructor func() *task.Builder

// Entry describes one registered module.
type Entry struct {
	Key    string
	Module string
	Policy task.ResetPolicy
	Ops    []string
	New    Constructor
}

// constructors maps each intent key to its builder constructor.
var constructors = map[string]Constructor{
	"nxos_interface":                   nxos.NewInterface,
	"nxos_feature":                     nxos.NewFeature,
	"nxos_vrf":                         nxos.NewVRF,
	"nxos_vlans":                       nxos.NewVLANs,
	"nxos_l3_interfaces":               nxos.NewL3Interfaces,
	"nxos_bgp_global":                  nxos.NewBGPGlobal,
	"nxos_bgp_address_family":          nxos.NewBGPAddressFamily,
	"nxos_bgp_neighbor_address_family": nxos.NewBGPNeighborAddressFamily,
	"nxos_acls":                        nxos.NewACLs,
	"nxos_command":                     nxos.NewCommand,
	"nxos_config":                      nxos.NewConfig,
	"command":                          ansible.NewCommand,
	"copy":                             ansible.NewCopy,
	"debug":                            ansible.NewDebug,
	"pause":                            ansible.NewPause,
	"stc_session":                      spirent.NewSession,
	"stc_create":                       spirent.NewCreate,
	"stc_perform":                      spirent.NewPerform,
	"stc_config":                       spirent.NewConfig,
}

// New returns a fresh builder for key.
func New(key string) (*task.Builder, error) {
	c, ok := constructors[key]
	if !ok {
		return nil, fmt.Errorf("module '%s': %w", key, util.ErrUnsupported)
	}
	return c(), nil
}

// Lookup describes the module registered under key.
func Lookup(key string) (Entry, error) {
	c, ok := constructors[key]
	if !ok {
		return Entry{}, fmt.Errorf("module '%s': %w", key, util.ErrUnsupported)
	}
	b := c()
	return Entry{Key: key, Module: b.Module(), Policy: b.Policy(), Ops: b.Ops(), New: c}, nil
}

// Keys returns every registered key in natural order.
func Keys() []string {
	keys := lo.Keys(constructors)
	sort.Sort(natural.StringSlice(keys))
	return keys
}

// Entries returns every registered module in natural key order.
func Entries() []Entry {
	return lo.Map(Keys(), func(k string, _ int) Entry {
		e, _ := Lookup(k)
		return e
	})
}
