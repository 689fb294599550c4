package service

import (
	"context"
	"errors"
	"fmt"

	"officetrack-backend/internal/access"
	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/logger"
	"officetrack-backend/internal/repository"
)

type userService struct {
	userRepo repository.UserRepository
	authSvc  AuthService
	emailSvc EmailService
}

func NewUserService(userRepo repository.UserRepository, authSvc AuthService, emailSvc EmailService) UserService {
	return &userService{userRepo: userRepo, authSvc: authSvc, emailSvc: emailSvc}
}

func (s *userService) GetProfile(ctx context.Context, userID int32) (*domain.User, error) {
	user, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return user, nil
}

func (s *userService) ListUsers(ctx context.Context, actor *domain.User, officeID *int32, page, pageSize int32) ([]domain.User, int32, error) {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleSuperAdmin {
		return nil, 0, ErrForbidden
	}
	scope, err := access.ResolveScope(actor)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve scope: %w", ErrInvalidState)
	}
	if page < 1 {
		page = 1
	}
	if pageSize < 1 || pageSize > 100 {
		pageSize = 20
	}

	if scope.AllOffices {
		if officeID != nil {
			return s.userRepo.ListByOffice(ctx, *officeID, page, pageSize)
		}
		return s.userRepo.List(ctx, page, pageSize)
	}
	// admins always see exactly their office, whatever the client sent
	return s.userRepo.ListByOffice(ctx, scope.OfficeIDs[0], page, pageSize)
}

// BulkCreate feeds a pre-validated import batch through the normal
// registration path, then auto-verifies: bulk-imported employees were
// vetted by the importing admin.
func (s *userService) BulkCreate(ctx context.Context, actor *domain.User, users []BulkUserInput) ([]domain.User, error) {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleSuperAdmin {
		return nil, ErrForbidden
	}
	scope, err := access.ResolveScope(actor)
	if err != nil {
		return nil, fmt.Errorf("resolve scope: %w", ErrInvalidState)
	}

	created := make([]domain.User, 0, len(users))
	for i, input := range users {
		if input.Role == domain.RoleSuperAdmin || input.Role == domain.RoleAdmin {
			return created, fmt.Errorf("row %d: bulk import creates employees only: %w", i, ErrForbidden)
		}
		if input.OfficeID == nil || !scope.Contains(*input.OfficeID) {
			return created, fmt.Errorf("row %d: office outside actor scope: %w", i, ErrForbidden)
		}
		user, err := s.authSvc.Register(ctx, input.Email, input.Password, input.Name, input.EmployeeCode, input.Role, input.OfficeID)
		if err != nil {
			return created, fmt.Errorf("row %d: %w", i, err)
		}
		user.Status = domain.UserStatusActive
		if err := s.userRepo.Update(ctx, user); err != nil {
			return created, fmt.Errorf("row %d: activate: %w", i, err)
		}
		created = append(created, *user)
	}
	logger.Info("Bulk user import", "by", actor.ID, "count", len(created))
	return created, nil
}

func (s *userService) manageTarget(ctx context.Context, actor *domain.User, userID int32) (*domain.User, error) {
	target, err := s.userRepo.GetByID(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	ok, err := access.CanManageUser(actor, target)
	if err != nil {
		return nil, fmt.Errorf("resolve scope: %w", ErrInvalidState)
	}
	if !ok {
		return nil, ErrForbidden
	}
	return target, nil
}

func (s *userService) VerifyUser(ctx context.Context, actor *domain.User, userID int32) error {
	target, err := s.manageTarget(ctx, actor, userID)
	if err != nil {
		return err
	}
	if target.Status != domain.UserStatusPending {
		return fmt.Errorf("user %d is %s, only pending users are verified: %w", userID, target.Status, ErrInvalidState)
	}
	target.Status = domain.UserStatusActive
	if err := s.userRepo.Update(ctx, target); err != nil {
		return fmt.Errorf("failed to activate user: %w", err)
	}
	_ = s.emailSvc.SendAccountStatusNotification(ctx, target.Email, target.Name, string(target.Status), "")
	logger.Info("User verified", "user_id", target.ID, "by", actor.ID)
	return nil
}

func (s *userService) SuspendUser(ctx context.Context, actor *domain.User, userID int32, suspend bool) error {
	target, err := s.manageTarget(ctx, actor, userID)
	if err != nil {
		return err
	}
	if suspend {
		target.Status = domain.UserStatusInactive
	} else {
		target.Status = domain.UserStatusActive
	}
	if err := s.userRepo.Update(ctx, target); err != nil {
		return fmt.Errorf("failed to update user status: %w", err)
	}
	_ = s.emailSvc.SendAccountStatusNotification(ctx, target.Email, target.Name, string(target.Status), "")
	logger.Info("User status changed", "user_id", target.ID, "status", target.Status, "by", actor.ID)
	return nil
}

func (s *userService) DeleteUser(ctx context.Context, actor *domain.User, userID int32) error {
	target, err := s.manageTarget(ctx, actor, userID)
	if err != nil {
		return err
	}
	if err := s.userRepo.Delete(ctx, target.ID); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	logger.Info("User deleted", "user_id", target.ID, "by", actor.ID)
	return nil
}
