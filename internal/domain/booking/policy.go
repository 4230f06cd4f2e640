package booking

import "fleetbook/internal/domain/user"

// Operation names a lifecycle action subject to authorization.
type Operation string

const (
	OpView          Operation = "view"
	OpCreate        Operation = "create"
	OpUpdateDetails Operation = "update_details"
	OpCancel        Operation = "cancel"
	OpConfirm       Operation = "confirm"
	OpComplete      Operation = "complete"
)

type accessRule int

const (
	deny accessRule = iota
	ownerOnly
	anyBooking
)

// policy is the single source of truth for who may do what. Keeping it in
// one table keeps permission checks out of the state-machine code and makes
// the matrix testable on its own.
var policy = map[Operation]map[user.Role]accessRule{
	OpView: {
		user.RoleCustomer: ownerOnly,
		user.RoleStaff:    anyBooking,
		user.RoleAdmin:    anyBooking,
	},
	OpCreate: {
		user.RoleCustomer: anyBooking,
		user.RoleStaff:    anyBooking,
		user.RoleAdmin:    anyBooking,
	},
	OpUpdateDetails: {
		user.RoleCustomer: deny,
		user.RoleStaff:    anyBooking,
		user.RoleAdmin:    anyBooking,
	},
	OpCancel: {
		user.RoleCustomer: ownerOnly,
		user.RoleStaff:    anyBooking,
		user.RoleAdmin:    anyBooking,
	},
	OpConfirm: {
		user.RoleCustomer: deny,
		user.RoleStaff:    anyBooking,
		user.RoleAdmin:    anyBooking,
	},
	OpComplete: {
		user.RoleCustomer: deny,
		user.RoleStaff:    anyBooking,
		user.RoleAdmin:    anyBooking,
	},
}

// Allows evaluates the policy table for one actor/operation pair. owner
// reports whether the actor is the booking's renter.
func Allows(role user.Role, op Operation, owner bool) bool {
	rules, ok := policy[op]
	if !ok {
		return false
	}
	switch rules[role] {
	case anyBooking:
		return true
	case ownerOnly:
		return owner
	default:
		return false
	}
}
