package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"officetrack-backend/internal/access"
	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/logger"
	"officetrack-backend/internal/repository"
)

type distributionService struct {
	distRepo   repository.DistributionRepository
	userRepo   repository.UserRepository
	officeRepo repository.OfficeRepository
	notifier   NotificationService
}

func NewDistributionService(
	distRepo repository.DistributionRepository,
	userRepo repository.UserRepository,
	officeRepo repository.OfficeRepository,
	notifier NotificationService,
) DistributionService {
	return &distributionService{
		distRepo:   distRepo,
		userRepo:   userRepo,
		officeRepo: officeRepo,
		notifier:   notifier,
	}
}

func (s *distributionService) CreateDistribution(ctx context.Context, actor *domain.User, d *domain.Distribution) error {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleSuperAdmin {
		return ErrForbidden
	}
	if d.TotalQuantity < 1 {
		return fmt.Errorf("total quantity must be at least 1: %w", ErrInvalidInput)
	}
	if d.IsForAllEmployees && len(d.TargetEmployeeIDs) > 0 {
		return fmt.Errorf("broadcast distribution cannot list target employees: %w", ErrInvalidInput)
	}
	if !d.IsForAllEmployees && len(d.TargetEmployeeIDs) == 0 && len(d.UnregisteredRecipients) == 0 {
		return fmt.Errorf("targeted distribution needs at least one recipient: %w", ErrInvalidInput)
	}

	if d.OfficeID != nil {
		ok, err := access.HasOfficeAccess(actor, *d.OfficeID)
		if err != nil {
			return fmt.Errorf("resolve scope: %w", ErrInvalidState)
		}
		if !ok {
			return ErrForbidden
		}
		if _, err := s.officeRepo.GetByID(ctx, *d.OfficeID); err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return fmt.Errorf("office %d: %w", *d.OfficeID, ErrNotFound)
			}
			return err
		}
	} else if actor.Role != domain.RoleSuperAdmin {
		// org-wide distributions are a super-admin call
		return ErrForbidden
	}

	// every listed registered target must be an active member of the
	// distribution's office
	if len(d.TargetEmployeeIDs) > 0 {
		if d.OfficeID == nil {
			return fmt.Errorf("targeted distribution requires an office: %w", ErrInvalidInput)
		}
		count, err := s.userRepo.CountActiveTargets(ctx, *d.OfficeID, d.TargetEmployeeIDs)
		if err != nil {
			return fmt.Errorf("failed to validate targets: %w", err)
		}
		if count != int32(len(d.TargetEmployeeIDs)) {
			return fmt.Errorf("target list includes users that are not active members of office %d: %w", *d.OfficeID, ErrNotEligible)
		}
	}

	d.DistributedBy = actor.ID
	if err := s.distRepo.Create(ctx, d); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return ErrDuplicateDistribution
		}
		return fmt.Errorf("failed to create distribution: %w", err)
	}

	for _, userID := range d.TargetEmployeeIDs {
		s.notifier.Notify(ctx, userID, "Goodies for you",
			fmt.Sprintf("%s will be distributed on %s", d.GoodiesType, d.DistributionDate.Format("2006-01-02")),
			domain.NotificationGoodiesAvailable, &d.ID)
	}

	logger.Info("Distribution created", "distribution_id", d.ID, "by", actor.ID, "quantity", d.TotalQuantity)
	return nil
}

// BulkCreateDistributions runs the pre-validated batch through the same
// single-record path; there is no special bulk invariant.
func (s *distributionService) BulkCreateDistributions(ctx context.Context, actor *domain.User, ds []*domain.Distribution) error {
	for i, d := range ds {
		if err := s.CreateDistribution(ctx, actor, d); err != nil {
			return fmt.Errorf("row %d: %w", i, err)
		}
	}
	return nil
}

func (s *distributionService) ListDistributions(ctx context.Context, actor *domain.User, filter domain.DistributionFilter) ([]domain.DistributionSummary, int32, error) {
	scope, err := access.ResolveScope(actor)
	if err != nil {
		return nil, 0, fmt.Errorf("resolve scope: %w", ErrInvalidState)
	}

	switch actor.Role {
	case domain.RoleSuperAdmin:
		// free filtering
	case domain.RoleAdmin:
		filter.OfficeID = &scope.OfficeIDs[0]
		filter.VisibleTo = nil
	case domain.RoleInternal, domain.RoleExternal:
		// own office, and never distributions that exclude the caller
		filter.OfficeID = &scope.OfficeIDs[0]
		filter.VisibleTo = &actor.ID
	default:
		return nil, 0, ErrForbidden
	}

	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.PageSize < 1 || filter.PageSize > 100 {
		filter.PageSize = 20
	}

	list, total, err := s.distRepo.List(ctx, filter)
	if err != nil {
		return nil, 0, err
	}

	summaries := make([]domain.DistributionSummary, 0, len(list))
	for _, d := range list {
		claimed, err := s.distRepo.ClaimedCount(ctx, d.ID)
		if err != nil {
			return nil, 0, err
		}
		hasClaimed := true
		if _, err := s.distRepo.GetReceived(ctx, d.ID, actor.ID); err != nil {
			if !errors.Is(err, repository.ErrNotFound) {
				return nil, 0, err
			}
			hasClaimed = false
		}
		remaining := d.TotalQuantity - claimed
		if remaining < 0 {
			remaining = 0
		}
		summaries = append(summaries, domain.DistributionSummary{
			Distribution:   d,
			ClaimedCount:   claimed,
			RemainingCount: remaining,
			HasClaimed:     hasClaimed,
		})
	}
	return summaries, total, nil
}

// checkEligibility applies the shared claim predicates: the recipient
// must be targeted (unless broadcast) and office-matched, and the
// advisory capacity count must leave room.
func (s *distributionService) checkEligibility(ctx context.Context, d *domain.Distribution, recipient *domain.User) error {
	if !d.IsForAllEmployees {
		isTarget, err := s.distRepo.IsTarget(ctx, d.ID, recipient.ID)
		if err != nil {
			return err
		}
		if !isTarget {
			return fmt.Errorf("user %d is not a target of distribution %d: %w", recipient.ID, d.ID, ErrNotEligible)
		}
	}
	if d.OfficeID != nil {
		if recipient.PrimaryOfficeID == nil || *recipient.PrimaryOfficeID != *d.OfficeID {
			return ErrWrongOffice
		}
	}

	// Advisory: fails fast with a friendly error. The authoritative
	// guarantee stays with the unique (distribution_id, user_id) key at
	// insert time; two different users racing the last slot can still
	// both pass this count, a documented and accepted window.
	claimed, err := s.distRepo.ClaimedCount(ctx, d.ID)
	if err != nil {
		return err
	}
	if claimed >= d.TotalQuantity {
		return ErrCapacityExhausted
	}
	return nil
}

func (s *distributionService) ReceiveGoodies(ctx context.Context, actor *domain.User, distributionID int32) (*domain.ReceivedRecord, error) {
	d, err := s.distRepo.GetByID(ctx, distributionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}

	if err := s.checkEligibility(ctx, d, actor); err != nil {
		return nil, err
	}

	rec := &domain.ReceivedRecord{
		DistributionID:     d.ID,
		UserID:             actor.ID,
		ReceivedAt:         time.Now().UTC(),
		ReceivedAtOfficeID: officeOrZero(d.OfficeID, actor.PrimaryOfficeID),
	}
	if err := s.distRepo.CreateReceived(ctx, rec); err != nil {
		if errors.Is(err, repository.ErrDuplicateKey) {
			return nil, ErrAlreadyClaimed
		}
		return nil, fmt.Errorf("failed to record claim: %w", err)
	}

	logger.Info("Goodies claimed", "distribution_id", d.ID, "user_id", actor.ID)
	return rec, nil
}

// claimTargetKind is the resolved variant of a ClaimTarget.
type claimTargetKind int

const (
	claimRegistered claimTargetKind = iota
	claimUnregistered
)

type resolvedClaimTarget struct {
	kind      claimTargetKind
	user      *domain.User
	recipient *domain.UnregisteredRecipient
}

// resolveClaimTarget turns the request's tagged target into a closed
// variant once, so the claim logic below never branches on lookup nils.
func (s *distributionService) resolveClaimTarget(ctx context.Context, target ClaimTarget) (*resolvedClaimTarget, error) {
	switch {
	case target.UserID != nil && target.RecipientID == nil:
		user, err := s.userRepo.GetByID(ctx, *target.UserID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("user %d: %w", *target.UserID, ErrNotFound)
			}
			return nil, err
		}
		return &resolvedClaimTarget{kind: claimRegistered, user: user}, nil
	case target.RecipientID != nil && target.UserID == nil:
		rec, err := s.distRepo.GetUnregistered(ctx, *target.RecipientID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return nil, fmt.Errorf("recipient %s: %w", *target.RecipientID, ErrNotFound)
			}
			return nil, err
		}
		return &resolvedClaimTarget{kind: claimUnregistered, recipient: rec}, nil
	}
	return nil, fmt.Errorf("claim target must name exactly one of user_id or recipient_id: %w", ErrInvalidInput)
}

func (s *distributionService) MarkClaimForEmployee(ctx context.Context, actor *domain.User, distributionID int32, target ClaimTarget) error {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleSuperAdmin {
		return ErrForbidden
	}

	d, err := s.distRepo.GetByID(ctx, distributionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if d.OfficeID != nil {
		ok, err := access.HasOfficeAccess(actor, *d.OfficeID)
		if err != nil {
			return fmt.Errorf("resolve scope: %w", ErrInvalidState)
		}
		if !ok {
			return ErrForbidden
		}
	}

	resolved, err := s.resolveClaimTarget(ctx, target)
	if err != nil {
		return err
	}

	switch resolved.kind {
	case claimRegistered:
		if err := s.checkEligibility(ctx, d, resolved.user); err != nil {
			return err
		}
		rec := &domain.ReceivedRecord{
			DistributionID:     d.ID,
			UserID:             resolved.user.ID,
			ReceivedAt:         time.Now().UTC(),
			ReceivedAtOfficeID: officeOrZero(d.OfficeID, resolved.user.PrimaryOfficeID),
			HandedOverBy:       &actor.ID,
		}
		if err := s.distRepo.CreateReceived(ctx, rec); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return ErrAlreadyClaimed
			}
			return fmt.Errorf("failed to record claim: %w", err)
		}
		s.notifier.Notify(ctx, resolved.user.ID, "Goodies received",
			fmt.Sprintf("Your %s was handed over", d.GoodiesType),
			domain.NotificationGoodiesReceived, &d.ID)

	case claimUnregistered:
		// the recipient is pinned to its own distribution; a recipient id
		// from another distribution must not consume this one's capacity
		if resolved.recipient.DistributionID != d.ID {
			return fmt.Errorf("recipient %s is not listed on distribution %d: %w", resolved.recipient.ID, d.ID, ErrNotFound)
		}
		claimed, err := s.distRepo.ClaimedCount(ctx, d.ID)
		if err != nil {
			return err
		}
		if claimed >= d.TotalQuantity {
			return ErrCapacityExhausted
		}
		// one conditional update; racing claims on the same recipient
		// lose with a duplicate-key signal, claims on other recipients
		// touch other rows
		if err := s.distRepo.ClaimUnregistered(ctx, resolved.recipient.ID, time.Now().UTC(), actor.ID); err != nil {
			if errors.Is(err, repository.ErrDuplicateKey) {
				return ErrAlreadyClaimed
			}
			if errors.Is(err, repository.ErrNotFound) {
				return ErrNotFound
			}
			return fmt.Errorf("failed to claim for recipient: %w", err)
		}
	}

	logger.Info("Assisted claim recorded", "distribution_id", d.ID, "by", actor.ID)
	return nil
}

func (s *distributionService) DeleteDistribution(ctx context.Context, actor *domain.User, distributionID int32) error {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleSuperAdmin {
		return ErrForbidden
	}
	d, err := s.distRepo.GetByID(ctx, distributionID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	if d.OfficeID != nil {
		ok, err := access.HasOfficeAccess(actor, *d.OfficeID)
		if err != nil {
			return fmt.Errorf("resolve scope: %w", ErrInvalidState)
		}
		if !ok {
			return ErrForbidden
		}
	} else if actor.Role != domain.RoleSuperAdmin {
		return ErrForbidden
	}

	claimed, err := s.distRepo.ClaimedCount(ctx, distributionID)
	if err != nil {
		return err
	}
	if claimed > 0 {
		return ErrHasDependents
	}
	return s.distRepo.Delete(ctx, distributionID)
}

func (s *distributionService) DeleteReceivedRecord(ctx context.Context, actor *domain.User, receivedID int32) error {
	if actor.Role != domain.RoleAdmin && actor.Role != domain.RoleSuperAdmin {
		return ErrForbidden
	}
	rec, err := s.distRepo.GetReceivedByID(ctx, receivedID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrNotFound
		}
		return err
	}
	ok, err := access.HasOfficeAccess(actor, rec.ReceivedAtOfficeID)
	if err != nil {
		return fmt.Errorf("resolve scope: %w", ErrInvalidState)
	}
	if !ok {
		return ErrForbidden
	}
	return s.distRepo.DeleteReceived(ctx, receivedID)
}

// officeOrZero prefers the distribution's office, falling back to the
// recipient's primary office for org-wide distributions.
func officeOrZero(distOffice, userOffice *int32) int32 {
	if distOffice != nil {
		return *distOffice
	}
	if userOffice != nil {
		return *userOffice
	}
	return 0
}
