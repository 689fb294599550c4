package domain

type Role string

const (
	RoleSuperAdmin Role = "SUPER_ADMIN"
	RoleAdmin      Role = "ADMIN"
	RoleInternal   Role = "INTERNAL"
	RoleExternal   Role = "EXTERNAL"
)

// roleRanks is the single authority ordering for the role hierarchy.
// Higher rank means more authority.
var roleRanks = map[Role]int{
	RoleSuperAdmin: 4,
	RoleAdmin:      3,
	RoleInternal:   2,
	RoleExternal:   1,
}

// Valid reports whether r is one of the four known roles.
func (r Role) Valid() bool {
	_, ok := roleRanks[r]
	return ok
}

// Rank returns the authority rank of the role, 0 for unknown roles.
func (r Role) Rank() int {
	return roleRanks[r]
}

// Outranks reports whether r has strictly more authority than other.
// Suspension and deletion of a user require the acting role to outrank
// the target's role.
func (r Role) Outranks(other Role) bool {
	return r.Rank() > other.Rank()
}

// IsEmployee reports whether the role is a plain employee role
// (the only roles that mark attendance).
func (r Role) IsEmployee() bool {
	return r == RoleInternal || r == RoleExternal
}

type UserStatus string

const (
	UserStatusPending  UserStatus = "PENDING"
	UserStatusActive   UserStatus = "ACTIVE"
	UserStatusInactive UserStatus = "INACTIVE"
)

type User struct {
	ID               int32      `json:"id"`
	Email            string     `json:"email"`
	PasswordHash     string     `json:"-"`
	Name             string     `json:"name"`
	EmployeeCode     string     `json:"employee_code"`
	Role             Role       `json:"role"`
	Status           UserStatus `json:"status"`
	PrimaryOfficeID  *int32     `json:"primary_office_id"`  // required for INTERNAL/EXTERNAL
	AssignedOfficeID *int32     `json:"assigned_office_id"` // required for ADMIN
	CreatedOn        string     `json:"created_on"`
	UpdatedOn        string     `json:"updated_on"`
}

// OfficeID returns the office that scopes this user: the assigned office
// for admins, the primary office for employees. Nil for super admins and
// for misconfigured users.
func (u *User) OfficeID() *int32 {
	switch u.Role {
	case RoleAdmin:
		return u.AssignedOfficeID
	case RoleInternal, RoleExternal:
		return u.PrimaryOfficeID
	}
	return nil
}
