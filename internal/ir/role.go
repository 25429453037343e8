package ir

import (
	"fmt"
	"regexp"
	"strconv"
)

// Role names. A role may additionally carry an index, written name(n).
const (
	RoleControl        = "control"
	RoleTrue           = "true"
	RoleFalse          = "false"
	RoleValue          = "value"
	RoleReceiver       = "receiver"
	RoleArg            = "arg"
	RoleCondition      = "condition"
	RoleGlobalSchedule = "global_schedule"
	RoleLocalSchedule  = "local_schedule"
)

// NoIndex marks a role without a number.
const NoIndex = -1

// Role is the part an edge plays for the node it points to.
type Role struct {
	Name  string
	Index int
}

// Control is the plain control-flow role.
func Control() Role { return Role{Name: RoleControl, Index: NoIndex} }

// ControlN is the numbered control role used on the inputs of a merge.
func ControlN(n int) Role { return Role{Name: RoleControl, Index: n} }

// True is the edge from a branch to the block taken when its condition holds.
func True() Role { return Role{Name: RoleTrue, Index: NoIndex} }

// False is the edge from a branch to the block taken otherwise.
func False() Role { return Role{Name: RoleFalse, Index: NoIndex} }

// Value is the plain value role.
func Value() Role { return Role{Name: RoleValue, Index: NoIndex} }

// ValueN is a numbered value role, used for phi operands and binary ops.
func ValueN(n int) Role { return Role{Name: RoleValue, Index: n} }

// Receiver is the receiver operand of a send.
func Receiver() Role { return Role{Name: RoleReceiver, Index: NoIndex} }

// Arg is the n-th argument of a send.
func Arg(n int) Role { return Role{Name: RoleArg, Index: n} }

// Condition is the condition operand of a branch.
func Condition() Role { return Role{Name: RoleCondition, Index: NoIndex} }

// GlobalSchedule links a floating node to the node it is anchored to.
func GlobalSchedule() Role { return Role{Name: RoleGlobalSchedule, Index: NoIndex} }

// LocalSchedule links a node to the node that follows it in its block.
func LocalSchedule() Role { return Role{Name: RoleLocalSchedule, Index: NoIndex} }

// IsControl reports whether the role carries control flow.
func (r Role) IsControl() bool {
	switch r.Name {
	case RoleControl, RoleTrue, RoleFalse:
		return true
	}
	return false
}

// IsValue reports whether the role carries a value.
func (r Role) IsValue() bool {
	switch r.Name {
	case RoleValue, RoleReceiver, RoleArg, RoleCondition:
		return true
	}
	return false
}

// IsSchedule reports whether the role was added by the scheduler.
func (r Role) IsSchedule() bool {
	return r.Name == RoleGlobalSchedule || r.Name == RoleLocalSchedule
}

// Numbered reports whether the role carries an index.
func (r Role) Numbered() bool {
	return r.Index != NoIndex
}

func (r Role) String() string {
	if r.Index == NoIndex {
		return r.Name
	}
	return r.Name + "(" + strconv.Itoa(r.Index) + ")"
}

var roleRegex = regexp.MustCompile(`^([a-z_]+)(?:\((\d+)\))?$`)

// ParseRole parses the textual form of a role, e.g. `control`, `arg(2)`.
// Schedule roles are rejected: they are only ever created by the scheduler.
func ParseRole(raw string) (Role, error) {
	matches := roleRegex.FindStringSubmatch(raw)
	if matches == nil {
		return Role{}, fmt.Errorf("invalid role format: %q", raw)
	}

	role := Role{Name: matches[1], Index: NoIndex}
	if !role.IsControl() && !role.IsValue() {
		return Role{}, fmt.Errorf("unknown role name: %q", role.Name)
	}
	if matches[2] != "" {
		n, err := strconv.Atoi(matches[2])
		if err != nil {
			return Role{}, fmt.Errorf("invalid role index in %q: %w", raw, err)
		}
		role.Index = n
	}
	return role, nil
}
