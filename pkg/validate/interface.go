package validate

import "regexp"

// InterfaceKind is the topology shape of an NX-OS interface name.
type InterfaceKind string

const (
	KindUnknown      InterfaceKind = ""
	KindPhysical     InterfaceKind = "physical"
	KindSubInterface InterfaceKind = "subinterface"
	KindPortChannel  InterfaceKind = "port-channel"
	KindVLAN         InterfaceKind = "vlan"
	KindLoopback     InterfaceKind = "loopback"
	KindManagement   InterfaceKind = "management"
	KindNVE          InterfaceKind = "nve"
)

// AllInterfaceKinds lists every recognised interface kind.
var AllInterfaceKinds = []InterfaceKind{
	KindPhysical, KindSubInterface, KindPortChannel, KindVLAN, KindLoopback, KindManagement, KindNVE,
}

var interfacePatterns = []struct {
	kind InterfaceKind
	re   *regexp.Regexp
}{
	{KindPhysical, regexp.MustCompile(`^(?i)ethernet\d+/\d+(/\d+)?$`)},
	{KindSubInterface, regexp.MustCompile(`^(?i)(ethernet\d+/\d+(/\d+)?|port-channel\d+)\.\d+$`)},
	{KindPortChannel, regexp.MustCompile(`^(?i)port-channel\d+$`)},
	{KindVLAN, regexp.MustCompile(`^(?i)vlan\d+$`)},
	{KindLoopback, regexp.MustCompile(`^(?i)loopback\d+$`)},
	{KindManagement, regexp.MustCompile(`^(?i)mgmt\d+$`)},
	{KindNVE, regexp.MustCompile(`^(?i)nve\d+$`)},
}

// ClassifyInterface returns the kind of an interface name, or KindUnknown.
func ClassifyInterface(name string) InterfaceKind {
	for _, p := range interfacePatterns {
		if p.re.MatchString(name) {
			return p.kind
		}
	}
	return KindUnknown
}

// Example returns a representative name for the kind.
func (k InterfaceKind) Example() string {
	switch k {
	case KindPhysical:
		return "Ethernet1/1"
	case KindSubInterface:
		return "Ethernet1/1.10"
	case KindPortChannel:
		return "port-channel10"
	case KindVLAN:
		return "Vlan10"
	case KindLoopback:
		return "loopback0"
	case KindManagement:
		return "mgmt0"
	case KindNVE:
		return "nve1"
	}
	return ""
}
