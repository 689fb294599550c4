package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"officetrack-backend/internal/domain"
	"officetrack-backend/internal/repository"
)

func TestRequestLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("AdminRequestsFromEmployee", func(t *testing.T) {
		locRepo := new(MockLocationRepo)
		userRepo := new(MockUserRepo)
		notifier := &stubNotifier{}
		svc := NewLocationService(locRepo, userRepo, notifier)

		target := internalEmployee(10, 5)
		userRepo.On("GetByID", ctx, int32(10)).Return(target, nil).Once()
		locRepo.On("CreateRequest", ctx, mock.MatchedBy(func(req *domain.LocationRequest) bool {
			return req.RequesterID == 2 && req.TargetUserID == 10 && req.Status == domain.LocationRequestPending
		})).Return(nil).Once()

		req, err := svc.RequestLocation(ctx, officeAdmin(5), 10)
		assert.NoError(t, err)
		assert.Equal(t, domain.LocationRequestPending, req.Status)
		assert.Len(t, notifier.sent, 1)
		assert.Equal(t, domain.NotificationLocationRequest, notifier.sent[0].Type)
	})

	t.Run("ExternalNeverRequests", func(t *testing.T) {
		locRepo := new(MockLocationRepo)
		userRepo := new(MockUserRepo)
		svc := NewLocationService(locRepo, userRepo, &stubNotifier{})

		userRepo.On("GetByID", ctx, int32(2)).Return(officeAdmin(5), nil).Once()

		_, err := svc.RequestLocation(ctx, externalEmployee(11, 5), 2)
		assert.ErrorIs(t, err, ErrForbidden)
		locRepo.AssertNotCalled(t, "CreateRequest", mock.Anything, mock.Anything)
	})

	t.Run("InternalMayOnlyAskExternals", func(t *testing.T) {
		locRepo := new(MockLocationRepo)
		userRepo := new(MockUserRepo)
		svc := NewLocationService(locRepo, userRepo, &stubNotifier{})

		// internal cannot ask another internal
		peer := internalEmployee(12, 5)
		userRepo.On("GetByID", ctx, int32(12)).Return(peer, nil).Once()
		_, err := svc.RequestLocation(ctx, internalEmployee(10, 5), 12)
		assert.ErrorIs(t, err, ErrForbidden)

		// but an external target is fine
		contractor := externalEmployee(13, 5)
		userRepo.On("GetByID", ctx, int32(13)).Return(contractor, nil).Once()
		locRepo.On("CreateRequest", ctx, mock.Anything).Return(nil).Once()
		_, err = svc.RequestLocation(ctx, internalEmployee(10, 5), 13)
		assert.NoError(t, err)
	})

	t.Run("AdminIsNeverATarget", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewLocationService(new(MockLocationRepo), userRepo, &stubNotifier{})

		userRepo.On("GetByID", ctx, int32(2)).Return(officeAdmin(5), nil).Once()
		_, err := svc.RequestLocation(ctx, superAdmin(), 2)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("TargetMissing", func(t *testing.T) {
		userRepo := new(MockUserRepo)
		svc := NewLocationService(new(MockLocationRepo), userRepo, &stubNotifier{})

		userRepo.On("GetByID", ctx, int32(99)).Return(nil, repository.ErrNotFound).Once()
		_, err := svc.RequestLocation(ctx, officeAdmin(5), 99)
		assert.ErrorIs(t, err, ErrNotFound)
	})
}

func TestShareLocation(t *testing.T) {
	ctx := context.Background()

	t.Run("VoluntaryShare", func(t *testing.T) {
		locRepo := new(MockLocationRepo)
		svc := NewLocationService(locRepo, new(MockUserRepo), &stubNotifier{})

		locRepo.On("CreateShare", ctx, mock.MatchedBy(func(share *domain.LocationShare) bool {
			return share.UserID == 10 && share.OfficeID != nil && *share.OfficeID == 5
		})).Return(nil).Once()

		share, err := svc.ShareLocation(ctx, internalEmployee(10, 5), 40.0, -74.0, "client visit", nil)
		assert.NoError(t, err)
		assert.Equal(t, "client visit", share.Reason)
		locRepo.AssertNotCalled(t, "GetRequest", mock.Anything, mock.Anything)
	})

	t.Run("ShareFulfillsPendingRequest", func(t *testing.T) {
		locRepo := new(MockLocationRepo)
		notifier := &stubNotifier{}
		svc := NewLocationService(locRepo, new(MockUserRepo), notifier)

		req := &domain.LocationRequest{ID: 7, RequesterID: 2, TargetUserID: 10, Status: domain.LocationRequestPending}
		locRepo.On("CreateShare", ctx, mock.Anything).Run(func(args mock.Arguments) {
			args.Get(1).(*domain.LocationShare).ID = 55
		}).Return(nil).Once()
		locRepo.On("GetRequest", ctx, int32(7)).Return(req, nil).Once()
		locRepo.On("TransitionRequest", ctx, int32(7),
			domain.LocationRequestPending, domain.LocationRequestShared,
			mock.Anything, mock.MatchedBy(func(shareID *int32) bool {
				return shareID != nil && *shareID == 55
			})).Return(nil).Once()

		reqID := int32(7)
		_, err := svc.ShareLocation(ctx, internalEmployee(10, 5), 40.0, -74.0, "", &reqID)
		assert.NoError(t, err)
		assert.Len(t, notifier.sent, 1)
		assert.Equal(t, int32(2), notifier.sent[0].UserID)
		locRepo.AssertExpectations(t)
	})

	t.Run("StaleRequestIgnoredShareStands", func(t *testing.T) {
		locRepo := new(MockLocationRepo)
		notifier := &stubNotifier{}
		svc := NewLocationService(locRepo, new(MockUserRepo), notifier)

		denied := &domain.LocationRequest{ID: 7, RequesterID: 2, TargetUserID: 10, Status: domain.LocationRequestDenied}
		locRepo.On("CreateShare", ctx, mock.Anything).Return(nil).Once()
		locRepo.On("GetRequest", ctx, int32(7)).Return(denied, nil).Once()

		reqID := int32(7)
		share, err := svc.ShareLocation(ctx, internalEmployee(10, 5), 40.0, -74.0, "", &reqID)
		assert.NoError(t, err)
		assert.NotNil(t, share)
		assert.Empty(t, notifier.sent)
		locRepo.AssertNotCalled(t, "TransitionRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("ForeignRequestIgnored", func(t *testing.T) {
		locRepo := new(MockLocationRepo)
		svc := NewLocationService(locRepo, new(MockUserRepo), &stubNotifier{})

		// request targets user 11, sharer is user 10
		foreign := &domain.LocationRequest{ID: 7, RequesterID: 2, TargetUserID: 11, Status: domain.LocationRequestPending}
		locRepo.On("CreateShare", ctx, mock.Anything).Return(nil).Once()
		locRepo.On("GetRequest", ctx, int32(7)).Return(foreign, nil).Once()

		reqID := int32(7)
		_, err := svc.ShareLocation(ctx, internalEmployee(10, 5), 40.0, -74.0, "", &reqID)
		assert.NoError(t, err)
		locRepo.AssertNotCalled(t, "TransitionRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("InvalidCoordinates", func(t *testing.T) {
		svc := NewLocationService(new(MockLocationRepo), new(MockUserRepo), &stubNotifier{})
		_, err := svc.ShareLocation(ctx, internalEmployee(10, 5), 120.0, -74.0, "", nil)
		assert.ErrorIs(t, err, ErrInvalidInput)
	})
}

func TestDenyLocationRequest(t *testing.T) {
	ctx := context.Background()

	t.Run("TargetDeniesPending", func(t *testing.T) {
		locRepo := new(MockLocationRepo)
		notifier := &stubNotifier{}
		svc := NewLocationService(locRepo, new(MockUserRepo), notifier)

		req := &domain.LocationRequest{ID: 7, RequesterID: 2, TargetUserID: 10, Status: domain.LocationRequestPending}
		locRepo.On("GetRequest", ctx, int32(7)).Return(req, nil).Once()
		locRepo.On("TransitionRequest", ctx, int32(7),
			domain.LocationRequestPending, domain.LocationRequestDenied,
			mock.Anything, (*int32)(nil)).Return(nil).Once()

		assert.NoError(t, svc.DenyLocationRequest(ctx, internalEmployee(10, 5), 7))
		assert.Len(t, notifier.sent, 1)
		assert.Equal(t, domain.NotificationLocationDenied, notifier.sent[0].Type)
	})

	t.Run("OnlyTargetMayDeny", func(t *testing.T) {
		locRepo := new(MockLocationRepo)
		svc := NewLocationService(locRepo, new(MockUserRepo), &stubNotifier{})

		req := &domain.LocationRequest{ID: 7, RequesterID: 2, TargetUserID: 10, Status: domain.LocationRequestPending}
		locRepo.On("GetRequest", ctx, int32(7)).Return(req, nil).Once()

		err := svc.DenyLocationRequest(ctx, internalEmployee(11, 5), 7)
		assert.ErrorIs(t, err, ErrForbidden)
	})

	t.Run("TerminalStatesStay", func(t *testing.T) {
		locRepo := new(MockLocationRepo)
		svc := NewLocationService(locRepo, new(MockUserRepo), &stubNotifier{})

		for _, status := range []domain.LocationRequestStatus{
			domain.LocationRequestShared,
			domain.LocationRequestDenied,
			domain.LocationRequestExpired,
		} {
			req := &domain.LocationRequest{ID: 7, RequesterID: 2, TargetUserID: 10, Status: status}
			locRepo.On("GetRequest", ctx, int32(7)).Return(req, nil).Once()

			err := svc.DenyLocationRequest(ctx, internalEmployee(10, 5), 7)
			assert.ErrorIs(t, err, ErrInvalidState, "status %s", status)
		}
		locRepo.AssertNotCalled(t, "TransitionRequest", mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("LostRaceReportsInvalidState", func(t *testing.T) {
		locRepo := new(MockLocationRepo)
		svc := NewLocationService(locRepo, new(MockUserRepo), &stubNotifier{})

		req := &domain.LocationRequest{ID: 7, RequesterID: 2, TargetUserID: 10, Status: domain.LocationRequestPending}
		locRepo.On("GetRequest", ctx, int32(7)).Return(req, nil).Once()
		// another transition won between the read and the update
		locRepo.On("TransitionRequest", ctx, int32(7),
			domain.LocationRequestPending, domain.LocationRequestDenied,
			mock.Anything, (*int32)(nil)).Return(repository.ErrNotFound).Once()

		err := svc.DenyLocationRequest(ctx, internalEmployee(10, 5), 7)
		assert.ErrorIs(t, err, ErrInvalidState)
	})
}

func TestListShares_Scoping(t *testing.T) {
	ctx := context.Background()

	t.Run("EmployeePinnedToSelf", func(t *testing.T) {
		locRepo := new(MockLocationRepo)
		svc := NewLocationService(locRepo, new(MockUserRepo), &stubNotifier{})

		locRepo.On("ListShares", ctx, mock.MatchedBy(func(userID *int32) bool {
			return userID != nil && *userID == 10
		}), (*int32)(nil), int32(1), int32(20)).Return([]domain.LocationShare{}, int32(0), nil).Once()

		_, _, err := svc.ListShares(ctx, internalEmployee(10, 5), int32Ptr(99), 1, 20)
		assert.NoError(t, err)
		locRepo.AssertExpectations(t)
	})

	t.Run("AdminScopedToOffice", func(t *testing.T) {
		locRepo := new(MockLocationRepo)
		svc := NewLocationService(locRepo, new(MockUserRepo), &stubNotifier{})

		locRepo.On("ListShares", ctx, (*int32)(nil), mock.MatchedBy(func(officeID *int32) bool {
			return officeID != nil && *officeID == 5
		}), int32(1), int32(20)).Return([]domain.LocationShare{}, int32(0), nil).Once()

		_, _, err := svc.ListShares(ctx, officeAdmin(5), nil, 1, 20)
		assert.NoError(t, err)
	})
}

func TestExpireStaleRequests(t *testing.T) {
	ctx := context.Background()
	locRepo := new(MockLocationRepo)
	svc := NewLocationService(locRepo, new(MockUserRepo), &stubNotifier{})

	locRepo.On("ExpirePending", ctx, mock.MatchedBy(func(cutoff time.Time) bool {
		// cutoff is roughly 72h in the past
		return time.Since(cutoff) > 71*time.Hour && time.Since(cutoff) < 73*time.Hour
	})).Return(int64(4), nil).Once()

	n, err := svc.ExpireStaleRequests(ctx, 72*time.Hour)
	assert.NoError(t, err)
	assert.Equal(t, int64(4), n)
}
