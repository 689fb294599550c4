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

type locationService struct {
	locationRepo repository.LocationRepository
	userRepo     repository.UserRepository
	notifier     NotificationService
}

func NewLocationService(
	locationRepo repository.LocationRepository,
	userRepo repository.UserRepository,
	notifier NotificationService,
) LocationService {
	return &locationService{
		locationRepo: locationRepo,
		userRepo:     userRepo,
		notifier:     notifier,
	}
}

func (s *locationService) RequestLocation(ctx context.Context, actor *domain.User, targetUserID int32) (*domain.LocationRequest, error) {
	target, err := s.userRepo.GetByID(ctx, targetUserID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !access.CanRequestLocation(actor, target) {
		return nil, fmt.Errorf("role %s may not request location from %s: %w", actor.Role, target.Role, ErrForbidden)
	}

	req := &domain.LocationRequest{
		RequesterID:  actor.ID,
		TargetUserID: target.ID,
		Status:       domain.LocationRequestPending,
		RequestedAt:  time.Now().UTC(),
	}
	if err := s.locationRepo.CreateRequest(ctx, req); err != nil {
		return nil, fmt.Errorf("failed to create location request: %w", err)
	}

	s.notifier.Notify(ctx, target.ID, "Location requested",
		fmt.Sprintf("%s asked you to share your location", actor.Name),
		domain.NotificationLocationRequest, &req.ID)

	return req, nil
}

// ShareLocation always records the share. When a requestID accompanies
// it, the matching pending request (if it really targets the sharer)
// moves to SHARED; a stale or foreign requestID is ignored without
// failing the share itself.
func (s *locationService) ShareLocation(ctx context.Context, actor *domain.User, latitude, longitude float64, reason string, requestID *int32) (*domain.LocationShare, error) {
	if !geo.ValidCoordinates(latitude, longitude) {
		return nil, fmt.Errorf("coordinates out of bounds: %w", ErrInvalidInput)
	}

	share := &domain.LocationShare{
		UserID:    actor.ID,
		Latitude:  latitude,
		Longitude: longitude,
		SharedAt:  time.Now().UTC(),
		Reason:    reason,
		OfficeID:  actor.OfficeID(),
	}
	if err := s.locationRepo.CreateShare(ctx, share); err != nil {
		return nil, fmt.Errorf("failed to record location share: %w", err)
	}

	if requestID != nil {
		s.fulfillRequest(ctx, actor, *requestID, share)
	}
	return share, nil
}

func (s *locationService) fulfillRequest(ctx context.Context, actor *domain.User, requestID int32, share *domain.LocationShare) {
	req, err := s.locationRepo.GetRequest(ctx, requestID)
	if err != nil {
		logger.Warn("Share referenced unknown location request", "request_id", requestID, "user_id", actor.ID)
		return
	}
	if req.TargetUserID != actor.ID || req.Status != domain.LocationRequestPending {
		return
	}
	err = s.locationRepo.TransitionRequest(ctx, req.ID,
		domain.LocationRequestPending, domain.LocationRequestShared,
		share.SharedAt, &share.ID)
	if err != nil {
		// lost a race or already resolved; the share itself stands
		logger.Warn("Location request transition skipped", "request_id", req.ID, "error", err)
		return
	}

	s.notifier.Notify(ctx, req.RequesterID, "Location shared",
		fmt.Sprintf("%s shared their location", actor.Name),
		domain.NotificationLocationShared, &req.ID)
}

func (s *locationService) DenyLocationRequest(ctx context.Context, actor *domain.User, requestID int32) error {
	req, err := s.locationRepo.GetRequest(ctx, requestID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if req.TargetUserID != actor.ID {
		return ErrForbidden
	}
	if req.Status != domain.LocationRequestPending {
		return fmt.Errorf("request is %s, only pending requests can be denied: %w", req.Status, ErrInvalidState)
	}

	err = s.locationRepo.TransitionRequest(ctx, req.ID,
		domain.LocationRequestPending, domain.LocationRequestDenied,
		time.Now().UTC(), nil)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("request already resolved: %w", ErrInvalidState)
		}
		return err
	}

	// best-effort; the deny transition stands regardless
	s.notifier.Notify(ctx, req.RequesterID, "Location request denied",
		fmt.Sprintf("%s declined to share their location", actor.Name),
		domain.NotificationLocationDenied, &req.ID)
	return nil
}

func (s *locationService) ListShares(ctx context.Context, actor *domain.User, userID *int32, page, pageSize int32) ([]domain.LocationShare, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	scope, err := access.ResolveScope(actor)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve scope: %w", ErrInvalidState)
	}

	switch actor.Role {
	case domain.RoleSuperAdmin:
		return s.locationRepo.ListShares(ctx, userID, nil, page, pageSize)
	case domain.RoleAdmin:
		return s.locationRepo.ListShares(ctx, userID, &scope.OfficeIDs[0], page, pageSize)
	default:
		// employees see only their own shares
		return s.locationRepo.ListShares(ctx, &actor.ID, nil, page, pageSize)
	}
}

func (s *locationService) ListRequests(ctx context.Context, actor *domain.User, made bool, page, pageSize int32) ([]domain.LocationRequest, int32, error) {
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}
	if made {
		return s.locationRepo.ListRequests(ctx, &actor.ID, nil, page, pageSize)
	}
	return s.locationRepo.ListRequests(ctx, nil, &actor.ID, page, pageSize)
}

// ExpireStaleRequests sweeps PENDING requests older than the TTL into
// the terminal EXPIRED state. Driven by the cron scheduler.
func (s *locationService) ExpireStaleRequests(ctx context.Context, olderThan time.Duration) (int64, error) {
	cutoff := time.Now().UTC().Add(-olderThan)
	n, err := s.locationRepo.ExpirePending(ctx, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to expire location requests: %w", err)
	}
	if n > 0 {
		logger.Info("Expired stale location requests", "count", n, "cutoff", cutoff)
	}
	return n, nil
}
