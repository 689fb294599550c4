package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"officetrack-backend/internal/access"
	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/geo"
	"officetrack-backend/internal/logger"
	"officetrack-backend/internal/repository"
)

type attendanceService struct {
	attendanceRepo repository.AttendanceRepository
	officeRepo     repository.OfficeRepository
	radiusMeters   float64
}

func NewAttendanceService(
	attendanceRepo repository.AttendanceRepository,
	officeRepo repository.OfficeRepository,
	radiusMeters float64,
) AttendanceService {
	return &attendanceService{
		attendanceRepo: attendanceRepo,
		officeRepo:     officeRepo,
		radiusMeters:   radiusMeters,
	}
}

func (s *attendanceService) MarkAttendance(ctx context.Context, actor *domain.User, latitude, longitude float64) (*domain.AttendanceRecord, error) {
	if !actor.Role.IsEmployee() {
		return nil, fmt.Errorf("role %s cannot mark attendance: %w", actor.Role, ErrForbidden)
	}
	if !geo.ValidCoordinates(latitude, longitude) {
		return nil, fmt.Errorf("coordinates out of bounds: %w", ErrInvalidInput)
	}
	if actor.PrimaryOfficeID == nil {
		return nil, fmt.Errorf("employee %d has no primary office: %w", actor.ID, ErrInvalidState)
	}

	office, err := s.officeRepo.GetByID(ctx, *actor.PrimaryOfficeID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("primary office %d: %w", *actor.PrimaryOfficeID, ErrInvalidState)
		}
		return nil, fmt.Errorf("failed to load office: %w", err)
	}
	if !office.HasLocation {
		return nil, fmt.Errorf("office %d has no configured location: %w", office.ID, ErrInvalidState)
	}

	distance := geo.DistanceMeters(latitude, longitude, office.Latitude, office.Longitude)
	if distance > s.radiusMeters {
		return nil, &OutOfRangeError{DistanceMeters: distance, AllowedMeters: s.radiusMeters}
	}

	now := time.Now().UTC()
	rec := &domain.AttendanceRecord{
		UserID:    actor.ID,
		OfficeID:  office.ID,
		Date:      domain.AttendanceDay(now),
		MarkedAt:  now,
		Latitude:  latitude,
		Longitude: longitude,
	}
	// No existence pre-check: the unique (user_id, date) key decides, and
	// a rejection is the intended once-per-day outcome, not a fault.
	if err := s.attendanceRepo.Create(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrAlreadyMarked
		}
		return nil, fmt.Errorf("failed to create attendance record: %w", err)
	}

	logger.Info("Attendance marked", "user_id", actor.ID, "office_id", office.ID, "distance_m", distance)
	return rec, nil
}

// ListAttendance narrows the caller-supplied filter to the actor's
// resolved scope. For non-privileged roles the resolved filter always
// wins over whatever the client sent.
func (s *attendanceService) ListAttendance(ctx context.Context, actor *domain.User, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, int32, error) {
	scope, err := access.ResolveScope(actor)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve scope: %w", ErrInvalidState)
	}

	switch actor.Role {
	case domain.RoleSuperAdmin:
		// free filtering
	case domain.RoleAdmin:
		if filter.OfficeID != nil && !scope.Contains(*filter.OfficeID) {
			filter.OfficeID = &scope.OfficeIDs[0]
		}
		if filter.OfficeID == nil {
			filter.OfficeID = &scope.OfficeIDs[0]
		}
	case domain.RoleInternal:
		// forced to own office, no per-user filtering
		filter.OfficeID = &scope.OfficeIDs[0]
		filter.UserID = nil
	case domain.RoleExternal:
		// forced to own records only
		filter.OfficeID = nil
		filter.UserID = &actor.ID
	default:
		return nil, 0, ErrForbidden
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}
	return s.attendanceRepo.List(ctx, filter)
}

func (s *attendanceService) DeleteAttendance(ctx context.Context, actor *domain.User, recordID int32) error {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleSuperAdmin {
		return ErrForbidden
	}
	rec, err := s.attendanceRepo.GetByID(ctx, recordID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	ok, err := access.HasOfficeAccess(actor, rec.OfficeID)
	if err != nil {
		return fmt.Errorf("resolve scope: %w", ErrInvalidState)
	}
	if !ok {
		return ErrForbidden
	}
	return s.attendanceRepo.Delete(ctx, recordID)
}
