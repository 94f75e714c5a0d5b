// Package access holds the role policy table that gates every state-changing operation.
package access

type Role string

const (
	RoleBuyer   Role = "buyer"
	RoleManager Role = "manager"
	RoleAdmin   Role = "admin"
)

func (r Role) Valid() bool {
	switch r {
	case RoleBuyer, RoleManager, RoleAdmin:
		return true
	}
	return false
}

type Status string

const (
	StatusActive    Status = "active"
	StatusSuspended Status = "suspended"
)

func (s Status) Valid() bool {
	return s == StatusActive || s == StatusSuspended
}

type Operation string

const (
	OpProductCreate Operation = "product.create"
	OpProductUpdate Operation = "product.update"
	OpProductDelete Operation = "product.delete"

	OpOrderPlace        Operation = "order.place"
	OpOrderListOwn      Operation = "order.list_own"
	OpOrderRead         Operation = "order.read"
	OpOrderTrackingRead Operation = "order.tracking.read"
	OpOrderListPending  Operation = "order.list_pending"
	OpOrderApprove      Operation = "order.approve"
	OpOrderReject       Operation = "order.reject"
	OpOrderTrack        Operation = "order.track"
	OpOrderListAll      Operation = "order.list_all"

	OpUserList    Operation = "user.list"
	OpUserManage  Operation = "user.manage"
	OpUserSuspend Operation = "user.suspend"
)

// Policy describes who may run an operation. An empty Roles list admits any
// authenticated caller.
type Policy struct {
	Roles         []Role
	RequireActive bool
}

func (p Policy) Allows(role Role) bool {
	if len(p.Roles) == 0 {
		return true
	}
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

var (
	managerOnly = []Role{RoleManager}
	adminOnly   = []Role{RoleAdmin}
)

// Policies is the single table consulted by the guard.
var Policies = map[Operation]Policy{
	OpProductCreate: {Roles: managerOnly, RequireActive: true},
	OpProductUpdate: {Roles: managerOnly},
	OpProductDelete: {Roles: managerOnly},

	OpOrderPlace:        {Roles: []Role{RoleBuyer}, RequireActive: true},
	OpOrderListOwn:      {},
	OpOrderRead:         {},
	OpOrderTrackingRead: {},
	OpOrderListPending:  {Roles: managerOnly},
	OpOrderApprove:      {Roles: managerOnly},
	OpOrderReject:       {Roles: managerOnly},
	OpOrderTrack:        {Roles: managerOnly},
	OpOrderListAll:      {Roles: adminOnly},

	OpUserList:    {Roles: adminOnly},
	OpUserManage:  {Roles: adminOnly},
	OpUserSuspend: {Roles: adminOnly},
}

// Lookup returns the policy for op. Unknown operations are denied to everyone.
func Lookup(op Operation) (Policy, bool) {
	p, ok := Policies[op]
	return p, ok
}
