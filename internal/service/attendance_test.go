package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/repository"
)

// office at (40.0, -74.0); 0.001 deg latitude is about 111m
const (
	officeLat = 40.0
	officeLon = -74.0
)

func testOffice(id int32) *domain.Office {
	return &domain.Office{ID: id, Name: "HQ", Latitude: officeLat, Longitude: officeLon, HasLocation: true}
}

func TestMarkAttendance_WithinGeofence(t *testing.T) {
	attendanceRepo := new(MockAttendanceRepo)
	officeRepo := new(MockOfficeRepo)
	svc := NewAttendanceService(attendanceRepo, officeRepo, 200)
	ctx := context.Background()

	actor := internalEmployee(10, 5)
	officeRepo.On("GetByID", ctx, int32(5)).Return(testOffice(5), nil).Once()
	attendanceRepo.On("Create", ctx, mock.MatchedBy(func(rec *domain.AttendanceRecord) bool {
		return rec.UserID == 10 && rec.OfficeID == 5 && rec.Date.Equal(domain.AttendanceDay(rec.MarkedAt))
	})).Return(nil).Once()

	rec, err := svc.MarkAttendance(ctx, actor, officeLat+0.001, officeLon)
	assert.NoError(t, err)
	assert.Equal(t, int32(10), rec.UserID)
	attendanceRepo.AssertExpectations(t)
}

func TestMarkAttendance_OutsideGeofence(t *testing.T) {
	attendanceRepo := new(MockAttendanceRepo)
	officeRepo := new(MockOfficeRepo)
	svc := NewAttendanceService(attendanceRepo, officeRepo, 200)
	ctx := context.Background()

	actor := internalEmployee(10, 5)
	officeRepo.On("GetByID", ctx, int32(5)).Return(testOffice(5), nil).Once()

	// ~555m north of the office
	_, err := svc.MarkAttendance(ctx, actor, officeLat+0.005, officeLon)

	var oor *OutOfRangeError
	assert.ErrorAs(t, err, &oor)
	assert.Greater(t, oor.DistanceMeters, 200.0)
	assert.Equal(t, 200.0, oor.AllowedMeters)
	attendanceRepo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestMarkAttendance_AlreadyMarkedToday(t *testing.T) {
	attendanceRepo := new(MockAttendanceRepo)
	officeRepo := new(MockOfficeRepo)
	svc := NewAttendanceService(attendanceRepo, officeRepo, 200)
	ctx := context.Background()

	actor := externalEmployee(11, 5)
	officeRepo.On("GetByID", ctx, int32(5)).Return(testOffice(5), nil).Once()
	attendanceRepo.On("Create", ctx, mock.Anything).Return(repository.ErrDuplicateKey).Once()

	_, err := svc.MarkAttendance(ctx, actor, officeLat, officeLon)
	assert.ErrorIs(t, err, ErrAlreadyMarked)
}

func TestMarkAttendance_RoleGate(t *testing.T) {
	svc := NewAttendanceService(new(MockAttendanceRepo), new(MockOfficeRepo), 200)
	ctx := context.Background()

	for _, actor := range []*domain.User{superAdmin(), officeAdmin(5)} {
		_, err := svc.MarkAttendance(ctx, actor, officeLat, officeLon)
		assert.ErrorIs(t, err, ErrForbidden, "role %s", actor.Role)
	}
}

func TestMarkAttendance_InvalidCoordinates(t *testing.T) {
	svc := NewAttendanceService(new(MockAttendanceRepo), new(MockOfficeRepo), 200)

	_, err := svc.MarkAttendance(context.Background(), internalEmployee(10, 5), 91.0, 0.0)
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestMarkAttendance_MissingOfficeConfig(t *testing.T) {
	attendanceRepo := new(MockAttendanceRepo)
	officeRepo := new(MockOfficeRepo)
	svc := NewAttendanceService(attendanceRepo, officeRepo, 200)
	ctx := context.Background()

	t.Run("NoPrimaryOffice", func(t *testing.T) {
		actor := &domain.User{ID: 10, Role: domain.RoleInternal, Status: domain.UserStatusActive}
		_, err := svc.MarkAttendance(ctx, actor, officeLat, officeLon)
		assert.ErrorIs(t, err, ErrInvalidState)
	})

	t.Run("OfficeWithoutLocation", func(t *testing.T) {
		officeRepo.On("GetByID", ctx, int32(7)).Return(&domain.Office{ID: 7, Name: "New site"}, nil).Once()
		_, err := svc.MarkAttendance(ctx, internalEmployee(10, 7), officeLat, officeLon)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestListAttendance_ScopeForcing(t *testing.T) {
	ctx := context.Background()

	t.Run("InternalForcedToOwnOffice", func(t *testing.T) {
		attendanceRepo := new(MockAttendanceRepo)
		svc := NewAttendanceService(attendanceRepo, new(MockOfficeRepo), 200)

		attendanceRepo.On("List", ctx, mock.MatchedBy(func(f domain.AttendanceFilter) bool {
			return f.OfficeID != nil && *f.OfficeID == 5 && f.UserID == nil
		})).Return([]domain.AttendanceRecord{}, int32(0), nil).Once()

		// client tries to peer into office 9 per-user; both are overruled
		_, _, err := svc.ListAttendance(ctx, internalEmployee(10, 5), domain.AttendanceFilter{
			OfficeID: int32Ptr(9),
			UserID:   int32Ptr(77),
		})
		assert.NoError(t, err)
		attendanceRepo.AssertExpectations(t)
	})

	t.Run("ExternalSeesOnlyOwnRecords", func(t *testing.T) {
		attendanceRepo := new(MockAttendanceRepo)
		svc := NewAttendanceService(attendanceRepo, new(MockOfficeRepo), 200)

		attendanceRepo.On("List", ctx, mock.MatchedBy(func(f domain.AttendanceFilter) bool {
			return f.OfficeID == nil && f.UserID != nil && *f.UserID == 11
		})).Return([]domain.AttendanceRecord{}, int32(0), nil).Once()

		_, _, err := svc.ListAttendance(ctx, externalEmployee(11, 5), domain.AttendanceFilter{OfficeID: int32Ptr(5)})
		assert.NoError(t, err)
		attendanceRepo.AssertExpectations(t)
	})

	t.Run("AdminForcedToAssignedOffice", func(t *testing.T) {
		attendanceRepo := new(MockAttendanceRepo)
		svc := NewAttendanceService(attendanceRepo, new(MockOfficeRepo), 200)

		attendanceRepo.On("List", ctx, mock.MatchedBy(func(f domain.AttendanceFilter) bool {
			return f.OfficeID != nil && *f.OfficeID == 5
		})).Return([]domain.AttendanceRecord{}, int32(0), nil).Once()

		_, _, err := svc.ListAttendance(ctx, officeAdmin(5), domain.AttendanceFilter{OfficeID: int32Ptr(9)})
		assert.NoError(t, err)
	})

	t.Run("SuperAdminFiltersFreely", func(t *testing.T) {
		attendanceRepo := new(MockAttendanceRepo)
		svc := NewAttendanceService(attendanceRepo, new(MockOfficeRepo), 200)

		attendanceRepo.On("List", ctx, mock.MatchedBy(func(f domain.AttendanceFilter) bool {
			return f.OfficeID != nil && *f.OfficeID == 9
		})).Return([]domain.AttendanceRecord{}, int32(0), nil).Once()

		_, _, err := svc.ListAttendance(ctx, superAdmin(), domain.AttendanceFilter{OfficeID: int32Ptr(9)})
		assert.NoError(t, err)
	})
}

func TestDeleteAttendance(t *testing.T) {
	ctx := context.Background()
	rec := &domain.AttendanceRecord{ID: 3, UserID: 10, OfficeID: 5}

	t.Run("AdminInScope", func(t *testing.T) {
		attendanceRepo := new(MockAttendanceRepo)
		svc := NewAttendanceService(attendanceRepo, new(MockOfficeRepo), 200)
		attendanceRepo.On("GetByID", ctx, int32(3)).Return(rec, nil).Once()
		attendanceRepo.On("Delete", ctx, int32(3)).Return(nil).Once()

		assert.NoError(t, svc.DeleteAttendance(ctx, officeAdmin(5), 3))
		attendanceRepo.AssertExpectations(t)
	})

	t.Run("AdminOutOfScope", func(t *testing.T) {
		attendanceRepo := new(MockAttendanceRepo)
		svc := NewAttendanceService(attendanceRepo, new(MockOfficeRepo), 200)
		attendanceRepo.On("GetByID", ctx, int32(3)).Return(rec, nil).Once()

		err := svc.DeleteAttendance(ctx, officeAdmin(6), 3)
		assert.ErrorIs(t, err, ErrForbidden)
		attendanceRepo.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
	})

	t.Run("EmployeeForbidden", func(t *testing.T) {
		svc := NewAttendanceService(new(MockAttendanceRepo), new(MockOfficeRepo), 200)
		err := svc.DeleteAttendance(ctx, internalEmployee(10, 5), 3)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("NotFound", func(t *testing.T) {
		attendanceRepo := new(MockAttendanceRepo)
		svc := NewAttendanceService(attendanceRepo, new(MockOfficeRepo), 200)
		attendanceRepo.On("GetByID", ctx, int32(99)).Return(nil, repository.ErrNotFound).Once()

		err := svc.DeleteAttendance(ctx, superAdmin(), 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestMarkAttendance_RepoFailurePropagates(t *testing.T) {
	attendanceRepo := new(MockAttendanceRepo)
	officeRepo := new(MockOfficeRepo)
	svc := NewAttendanceService(attendanceRepo, officeRepo, 200)
	ctx := context.Background()

	boom := errors.New("connection reset")
	officeRepo.On("GetByID", ctx, int32(5)).Return(testOffice(5), nil).Once()
	attendanceRepo.On("Create", ctx, mock.Anything).Return(boom).Once()

	_, err := svc.MarkAttendance(ctx, internalEmployee(10, 5), officeLat, officeLon)
	assert.ErrorIs(t, err, boom)
}
