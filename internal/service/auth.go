package service

import (
	"context"
	"errors"
	"fmt"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/logger"
	"officetrack-backend/internal/repository"
	"officetrack-backend/internal/security"

	"golang.org/x/crypto/bcrypt"
)

type authService struct {
	userRepo     repository.UserRepository
	officeRepo   repository.OfficeRepository
	tokenManager security.TokenManager
}

func NewAuthService(
	userRepo repository.UserRepository,
	officeRepo repository.OfficeRepository,
	tokenManager security.TokenManager,
) AuthService {
	return &authService{
		userRepo:     userRepo,
		officeRepo:   officeRepo,
		tokenManager: tokenManager,
	}
}

// Register creates a PENDING account. An admin within scope has to
// verify it before the user can log in.
func (s *authService) Register(ctx context.Context, email, password, name, employeeCode string, role domain.Role, officeID *int32) (*domain.User, error) {
	if !role.Valid() {
		return nil, fmt.Errorf("unknown role %q: %w", role, ErrInvalidInput)
	}
	if email == "" || password == "" || name == "" {
		return nil, fmt.Errorf("email, password and name are required: %w", ErrInvalidInput)
	}
	if (role.IsEmployee() || role == domain.RoleAdmin) && officeID == nil {
		return nil, fmt.Errorf("role %s requires an office: %w", role, ErrInvalidInput)
	}
	if officeID != nil {
		if _, err := s.officeRepo.GetByID(ctx, *officeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("office %d: %w", *officeID, ErrNotFound)
			}
			return nil, err
		}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("failed to hash password: %w", err)
	}

	user := &domain.User{
		Email:        email,
		PasswordHash: string(hash),
		Name:         name,
		EmployeeCode: employeeCode,
		Role:         role,
		Status:       domain.UserStatusPending,
	}
	switch role {
	case domain.RoleAdmin:
		user.AssignedOfficeID = officeID
	case domain.RoleInternal, domain.RoleExternal:
		user.PrimaryOfficeID = officeID
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrEmailTaken
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	logger.Info("User registered", "user_id", user.ID, "role", user.Role)
	return user, nil
}

func (s *authService) Login(ctx context.Context, email, password string) (string, string, *domain.User, error) {
	user, err := s.userRepo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return "", "", nil, ErrInvalidCredentials
		}
		return "", "", nil, err
	}
	if err := bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)); err != nil {
		return "", "", nil, ErrInvalidCredentials
	}
	// only active actors may authenticate
	if user.Status != domain.UserStatusActive {
		return "", "", nil, ErrAccountNotActive
	}

	access, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to generate access token: %w", err)
	}
	refresh, err := s.tokenManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", nil, fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return access, refresh, user, nil
}

func (s *authService) RefreshToken(ctx context.Context, refresh string) (string, string, error) {
	claims, err := s.tokenManager.ValidateToken(refresh)
	if err != nil || claims.Type != security.TokenTypeRefresh {
		return "", "", security.ErrInvalidToken
	}

	user, err := s.userRepo.GetByID(ctx, claims.UserID)
	if err != nil {
		return "", "", security.ErrInvalidToken
	}
	if user.Status != domain.UserStatusActive {
		return "", "", ErrAccountNotActive
	}

	access, err := s.tokenManager.GenerateAccessToken(user.ID, user.Email, string(user.Role))
	if err != nil {
		return "", "", fmt.Errorf("failed to generate access token: %w", err)
	}
	newRefresh, err := s.tokenManager.GenerateRefreshToken(user.ID, user.Email)
	if err != nil {
		return "", "", fmt.Errorf("failed to generate refresh token: %w", err)
	}
	return access, newRefresh, nil
}
