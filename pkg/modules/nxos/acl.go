package nxos

import (
	"github.com/newtron-network/newtask/pkg/task"
	"github.com/newtron-network/newtask/pkg/validate"
)

// aclEndpoint accepts "any", a host address or a prefix.
var aclEndpoint = validate.New("any, host address or prefix", func(v interface{}) bool {
	s, ok := v.(string)
	if !ok {
		return false
	}
	return s == "any" ||
		validate.IsIPv4Address(s) || validate.IsIPv6Address(s) ||
		validate.IsIPv4Prefix(s) || validate.IsIPv6Prefix(s)
})

// aclAddress emits an endpoint in the ACE address form: {any: true},
// {host: addr} or {prefix: net}.
func aclAddress(v interface{}) interface{} {
	s := v.(string)
	switch {
	case s == "any":
		return map[string]interface{}{"any": true}
	case validate.IsIPv4Address(s) || validate.IsIPv6Address(s):
		return map[string]interface{}{"host": s}
	}
	return map[string]interface{}{"prefix": s}
}

var aclsSchema = task.MustSchema(Collection+"nxos_acls",
	task.Optional("state", validate.OneOf("merged", "replaced", "overridden", "deleted", "gathered", "rendered")),
	task.Leaf("sequence", validate.IntRange(1, 4294967295)).Mandatory(),
	task.Leaf("grant", validate.Toggle("permit", "deny")),
	task.Leaf("protocol", validate.OneOf("ip", "ipv6", "tcp", "udp", "icmp", "icmpv6", "ospf", "pim", "gre", "esp", "ahp")),
	task.Leaf("source", aclEndpoint).EmitAs(aclAddress),
	task.Leaf("destination", aclEndpoint).EmitAs(aclAddress),
	task.Leaf("remark", validate.MaxLength(100)),
	task.Leaf("log", validate.Bool()),
	task.Group("name", validate.MaxLength(64)).Mandatory(),
	task.Scope("afi", validate.Toggle("ipv4", "ipv6")).Mandatory(),
)

// NewACLs returns a builder for nxos_acls. Every ACL must be closed into an
// address family with "afi"; unscoped ACLs fail at commit.
func NewACLs() *task.Builder {
	return task.NewBuilder(task.Config{
		Schema: aclsSchema,
		Shape:  task.ShapeConfigList,
		Layout: &task.Layout{
			Leaf:          task.LevelSpec{Op: "ace", Key: "aces"},
			Group:         task.LevelSpec{Op: "acl", Key: "acls"},
			Scope:         task.LevelSpec{Op: "afi", Key: "afis"},
			ScopeRequired: true,
		},
	})
}
