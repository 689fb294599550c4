package service

import (
	"context"
	"errors"
	"fmt"

	"officetrack-backend/internal/access"
	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/geo"
	"officetrack-backend/internal/logger"
	"officetrack-backend/internal/repository"
)

type officeService struct {
	officeRepo repository.OfficeRepository
}

func NewOfficeService(officeRepo repository.OfficeRepository) OfficeService {
	return &officeService{officeRepo: officeRepo}
}

func (s *officeService) CreateOffice(ctx context.Context, actor *domain.User, office *domain.Office) error {
	if actor.Role != domain.RoleSuperAdmin {
		return ErrForbidden
	}
	if office.Name == "" {
		return fmt.Errorf("office name is required: %w", ErrInvalidInput)
	}
	if office.HasLocation && !geo.ValidCoordinates(office.Latitude, office.Longitude) {
		return fmt.Errorf("coordinates out of bounds: %w", ErrInvalidInput)
	}
	if err := s.officeRepo.Create(ctx, office); err != nil {
		return fmt.Errorf("failed to create office: %w", err)
	}
	logger.Info("Office created", "office_id", office.ID, "by", actor.ID)
	return nil
}

func (s *officeService) GetOffice(ctx context.Context, actor *domain.User, id int32) (*domain.Office, error) {
	ok, err := access.HasOfficeAccess(actor, id)
	if err != nil {
		return nil, fmt.Errorf("resolve scope: %w", ErrInvalidState)
	}
	if !ok {
		return nil, ErrForbidden
	}
	office, err := s.officeRepo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return office, nil
}

func (s *officeService) ListOffices(ctx context.Context, actor *domain.User) ([]domain.Office, error) {
	// external employees have no office-browsing surface
	if actor.Role == domain.RoleExternal {
		return nil, ErrForbidden
	}
	offices, err := s.officeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	scope, err := access.ResolveScope(actor)
	if err != nil {
		return nil, fmt.Errorf("resolve scope: %w", ErrInvalidState)
	}
	if scope.AllOffices {
		return offices, nil
	}
	var visible []domain.Office
	for _, o := range offices {
		if scope.Contains(o.ID) {
			visible = append(visible, o)
		}
	}
	return visible, nil
}

func (s *officeService) UpdateOffice(ctx context.Context, actor *domain.User, office *domain.Office) error {
	switch actor.Role {
	case domain.RoleSuperAdmin:
	case domain.RoleAdmin:
		// admins may update their own office only
		ok, err := access.HasOfficeAccess(actor, office.ID)
		if err != nil {
			return fmt.Errorf("resolve scope: %w", ErrInvalidState)
		}
		if !ok {
			return ErrForbidden
		}
	default:
		return ErrForbidden
	}
	if office.HasLocation && !geo.ValidCoordinates(office.Latitude, office.Longitude) {
		return fmt.Errorf("coordinates out of bounds: %w", ErrInvalidInput)
	}
	if _, err := s.officeRepo.GetByID(ctx, office.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	return s.officeRepo.Update(ctx, office)
}

// DeleteOffice refuses while any member, attendance record or
// distribution still references the office, so deletion never orphans
// dependent rows.
func (s *officeService) DeleteOffice(ctx context.Context, actor *domain.User, id int32) error {
	if actor.Role != domain.RoleSuperAdmin {
		return ErrForbidden
	}
	deps, err := s.officeRepo.CountDependents(ctx, id)
	if err != nil {
		return fmt.Errorf("failed to count office dependents: %w", err)
	}
	if deps.Any() {
		return fmt.Errorf("office %d has %d members, %d attendance records, %d distributions: %w",
			id, deps.Members, deps.Attendance, deps.Distributions, ErrHasDependents)
	}
	if err := s.officeRepo.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	logger.Info("Office deleted", "office_id", id, "by", actor.ID)
	return nil
}

// NearbyOffices is a read-only radius query over the same point data the
// geofence uses; it carries no invariants.
func (s *officeService) NearbyOffices(ctx context.Context, actor *domain.User, latitude, longitude, radiusMeters float64) ([]domain.Office, error) {
	if actor.Role == domain.RoleExternal {
		return nil, ErrForbidden
	}
	if !geo.ValidCoordinates(latitude, longitude) {
		return nil, fmt.Errorf("coordinates out of bounds: %w", ErrInvalidInput)
	}
	offices, err := s.officeRepo.List(ctx)
	if err != nil {
		return nil, err
	}
	var nearby []domain.Office
	for _, o := range offices {
		if !o.HasLocation {
			continue
		}
		if geo.DistanceMeters(latitude, longitude, o.Latitude, o.Longitude) <= radiusMeters {
			nearby = append(nearby, o)
		}
	}
	return nearby, nil
}
