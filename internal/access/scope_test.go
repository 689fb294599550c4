package access

import (
	"testing"

	"officetrack-backend/internal/domain"

	"github.com/stretchr/testify/assert"
)

func ptr(v int32) *int32 { return &v }

func TestResolveScope(t *testing.T) {
	t.Run("SuperAdmin", func(t *testing.T) {
		s, err := ResolveScope(&domain.User{ID: 1, Role: domain.RoleSuperAdmin})
		assert.NoError(t, err)
		assert.True(t, s.AllOffices)
		assert.True(t, s.Contains(42))
	})

	t.Run("Admin", func(t *testing.T) {
		s, err := ResolveScope(&domain.User{ID: 2, Role: domain.RoleAdmin, AssignedOfficeID: ptr(7)})
		assert.NoError(t, err)
		assert.False(t, s.AllOffices)
		assert.True(t, s.Contains(7))
		assert.False(t, s.Contains(8))
	})

	t.Run("AdminWithoutOffice", func(t *testing.T) {
		_, err := ResolveScope(&domain.User{ID: 3, Role: domain.RoleAdmin})
		assert.ErrorIs(t, err, ErrMissingOffice)
	})

	t.Run("Employee", func(t *testing.T) {
		for _, role := range []domain.Role{domain.RoleInternal, domain.RoleExternal} {
			s, err := ResolveScope(&domain.User{ID: 4, Role: role, PrimaryOfficeID: ptr(9)})
			assert.NoError(t, err)
			assert.Equal(t, []int32{9}, s.OfficeIDs)
		}
	})

	t.Run("EmployeeWithoutOffice", func(t *testing.T) {
		_, err := ResolveScope(&domain.User{ID: 5, Role: domain.RoleInternal})
		assert.ErrorIs(t, err, ErrMissingOffice)
	})

	t.Run("UnknownRole", func(t *testing.T) {
		_, err := ResolveScope(&domain.User{ID: 6, Role: "INTERN"})
		assert.ErrorIs(t, err, ErrUnknownRole)
	})
}

func TestCanManageUser(t *testing.T) {
	superAdmin := &domain.User{ID: 1, Role: domain.RoleSuperAdmin}
	admin := &domain.User{ID: 2, Role: domain.RoleAdmin, AssignedOfficeID: ptr(1)}
	otherAdmin := &domain.User{ID: 3, Role: domain.RoleAdmin, AssignedOfficeID: ptr(2)}
	employee := &domain.User{ID: 4, Role: domain.RoleInternal, PrimaryOfficeID: ptr(1)}
	farEmployee := &domain.User{ID: 5, Role: domain.RoleExternal, PrimaryOfficeID: ptr(2)}

	cases := []struct {
		name   string
		actor  *domain.User
		target *domain.User
		want   bool
	}{
		{"SuperAdminManagesAnyone", superAdmin, farEmployee, true},
		{"SuperAdminManagesAdmin", superAdmin, admin, true},
		{"AdminManagesOwnOfficeEmployee", admin, employee, true},
		{"AdminCannotManageOtherOffice", admin, farEmployee, false},
		{"AdminCannotManagePeer", admin, otherAdmin, false},
		{"EmployeeCannotManage", employee, farEmployee, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CanManageUser(tc.actor, tc.target)
			assert.NoError(t, err)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestCanRequestLocation(t *testing.T) {
	superAdmin := &domain.User{ID: 1, Role: domain.RoleSuperAdmin}
	admin := &domain.User{ID: 2, Role: domain.RoleAdmin, AssignedOfficeID: ptr(1)}
	internal := &domain.User{ID: 3, Role: domain.RoleInternal, PrimaryOfficeID: ptr(1)}
	internal2 := &domain.User{ID: 6, Role: domain.RoleInternal, PrimaryOfficeID: ptr(1)}
	external := &domain.User{ID: 4, Role: domain.RoleExternal, PrimaryOfficeID: ptr(1)}

	assert.True(t, CanRequestLocation(internal, external))
	assert.True(t, CanRequestLocation(admin, external))
	assert.True(t, CanRequestLocation(admin, internal))
	assert.True(t, CanRequestLocation(superAdmin, internal))
	// internal employees cannot target each other
	assert.False(t, CanRequestLocation(internal, internal2))
	// external actors never request
	assert.False(t, CanRequestLocation(external, internal))
	// no self-requests
	assert.False(t, CanRequestLocation(internal, internal))
	// admins are not valid targets
	assert.False(t, CanRequestLocation(superAdmin, admin))
}
