// Package access computes what offices and users an authenticated actor
// may touch. Every service resolves a scope here before reading or
// mutating data; feature-specific rules are layered on top of the base
// scope as extra predicates, never baked into it.
package access

import (
	"errors"
	"fmt"

	"officetrack-backend/internal/domain"
)

var (
	// ErrMissingOffice means the actor's role requires an office
	// assignment that is absent. This is a configuration problem on the
	// actor record, not an authorization denial.
	ErrMissingOffice = errors.New("actor has no office assigned for its role")

	// ErrUnknownRole means the actor carries a role outside the fixed
	// hierarchy.
	ErrUnknownRole = errors.New("unknown role")
)

// Scope is the set of offices an actor may act on. AllOffices true means
// no office filter applies.
type Scope struct {
	AllOffices bool
	OfficeIDs  []int32
}

// ResolveScope computes the office scope for an actor.
//
//	SUPER_ADMIN         -> all offices
//	ADMIN               -> exactly the assigned office
//	INTERNAL, EXTERNAL  -> exactly the primary office
func ResolveScope(actor *domain.User) (Scope, error) {
	switch actor.Role {
	case domain.RoleSuperAdmin:
		return Scope{AllOffices: true}, nil
	case domain.RoleAdmin:
		if actor.AssignedOfficeID == nil {
			return Scope{}, fmt.Errorf("admin %d: %w", actor.ID, ErrMissingOffice)
		}
		return Scope{OfficeIDs: []int32{*actor.AssignedOfficeID}}, nil
	case domain.RoleInternal, domain.RoleExternal:
		if actor.PrimaryOfficeID == nil {
			return Scope{}, fmt.Errorf("employee %d: %w", actor.ID, ErrMissingOffice)
		}
		return Scope{OfficeIDs: []int32{*actor.PrimaryOfficeID}}, nil
	}
	return Scope{}, fmt.Errorf("%w: %q", ErrUnknownRole, actor.Role)
}

// Contains reports whether the scope covers the given office.
func (s Scope) Contains(officeID int32) bool {
	if s.AllOffices {
		return true
	}
	for _, id := range s.OfficeIDs {
		if id == officeID {
			return true
		}
	}
	return false
}

// HasOfficeAccess reports whether the actor may act on officeID.
func HasOfficeAccess(actor *domain.User, officeID int32) (bool, error) {
	scope, err := ResolveScope(actor)
	if err != nil {
		return false, err
	}
	return scope.Contains(officeID), nil
}

// CanManageUser reports whether actor may suspend, verify or delete
// target: the actor must outrank the target and the target must fall
// inside the actor's office scope.
func CanManageUser(actor, target *domain.User) (bool, error) {
	if !actor.Role.Outranks(target.Role) {
		return false, nil
	}
	scope, err := ResolveScope(actor)
	if err != nil {
		return false, err
	}
	if scope.AllOffices {
		return true, nil
	}
	office := target.OfficeID()
	if office == nil {
		return false, nil
	}
	return scope.Contains(*office), nil
}

// CanRequestLocation reports whether actor may ask target to share their
// location. External employees never request; internal targets are
// admin-requestable only; self-requests are rejected.
func CanRequestLocation(actor, target *domain.User) bool {
	if actor.ID == target.ID {
		return false
	}
	if actor.Role == domain.RoleExternal {
		return false
	}
	switch target.Role {
	case domain.RoleInternal:
		return actor.Role == domain.RoleAdmin || actor.Role == domain.RoleSuperAdmin
	case domain.RoleExternal:
		return actor.Role == domain.RoleInternal || actor.Role == domain.RoleAdmin || actor.Role == domain.RoleSuperAdmin
	}
	return false
}
