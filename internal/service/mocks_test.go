package service

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"officetrack-backend/internal/domain"
)

// MockUserRepo
type MockUserRepo struct {
	mock.Mock
}

func (m *MockUserRepo) Create(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) GetByID(ctx context.Context, id int32) (*domain.User, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) GetByEmail(ctx context.Context, email string) (*domain.User, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.User), args.Error(1)
}
func (m *MockUserRepo) Update(ctx context.Context, user *domain.User) error {
	args := m.Called(ctx, user)
	return args.Error(0)
}
func (m *MockUserRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockUserRepo) ListByOffice(ctx context.Context, officeID int32, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, officeID, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}
func (m *MockUserRepo) List(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error) {
	args := m.Called(ctx, page, pageSize)
	return args.Get(0).([]domain.User), args.Get(1).(int32), args.Error(2)
}
func (m *MockUserRepo) CountActiveTargets(ctx context.Context, officeID int32, userIDs []int32) (int32, error) {
	args := m.Called(ctx, officeID, userIDs)
	return args.Get(0).(int32), args.Error(1)
}

// MockOfficeRepo
type MockOfficeRepo struct {
	mock.Mock
}

func (m *MockOfficeRepo) Create(ctx context.Context, office *domain.Office) error {
	args := m.Called(ctx, office)
	return args.Error(0)
}
func (m *MockOfficeRepo) GetByID(ctx context.Context, id int32) (*domain.Office, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Office), args.Error(1)
}
func (m *MockOfficeRepo) List(ctx context.Context) ([]domain.Office, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Office), args.Error(1)
}
func (m *MockOfficeRepo) Update(ctx context.Context, office *domain.Office) error {
	args := m.Called(ctx, office)
	return args.Error(0)
}
func (m *MockOfficeRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockOfficeRepo) CountDependents(ctx context.Context, id int32) (domain.OfficeDependents, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(domain.OfficeDependents), args.Error(1)
}

// MockAttendanceRepo
type MockAttendanceRepo struct {
	mock.Mock
}

func (m *MockAttendanceRepo) Create(ctx context.Context, rec *domain.AttendanceRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
func (m *MockAttendanceRepo) GetByID(ctx context.Context, id int32) (*domain.AttendanceRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.AttendanceRecord), args.Error(1)
}
func (m *MockAttendanceRepo) List(ctx context.Context, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.AttendanceRecord), args.Get(1).(int32), args.Error(2)
}
func (m *MockAttendanceRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockAttendanceRepo) CountByOfficeAndDate(ctx context.Context, officeID int32, date time.Time) (int32, error) {
	args := m.Called(ctx, officeID, date)
	return args.Get(0).(int32), args.Error(1)
}

// MockDistributionRepo
type MockDistributionRepo struct {
	mock.Mock
}

func (m *MockDistributionRepo) Create(ctx context.Context, d *domain.Distribution) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}
func (m *MockDistributionRepo) GetByID(ctx context.Context, id int32) (*domain.Distribution, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Distribution), args.Error(1)
}
func (m *MockDistributionRepo) List(ctx context.Context, filter domain.DistributionFilter) ([]domain.Distribution, int32, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]domain.Distribution), args.Get(1).(int32), args.Error(2)
}
func (m *MockDistributionRepo) Delete(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockDistributionRepo) IsTarget(ctx context.Context, distributionID, userID int32) (bool, error) {
	args := m.Called(ctx, distributionID, userID)
	return args.Bool(0), args.Error(1)
}
func (m *MockDistributionRepo) ClaimedCount(ctx context.Context, distributionID int32) (int32, error) {
	args := m.Called(ctx, distributionID)
	return args.Get(0).(int32), args.Error(1)
}
func (m *MockDistributionRepo) CreateReceived(ctx context.Context, rec *domain.ReceivedRecord) error {
	args := m.Called(ctx, rec)
	return args.Error(0)
}
func (m *MockDistributionRepo) GetReceived(ctx context.Context, distributionID, userID int32) (*domain.ReceivedRecord, error) {
	args := m.Called(ctx, distributionID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceivedRecord), args.Error(1)
}
func (m *MockDistributionRepo) GetReceivedByID(ctx context.Context, id int32) (*domain.ReceivedRecord, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ReceivedRecord), args.Error(1)
}
func (m *MockDistributionRepo) DeleteReceived(ctx context.Context, id int32) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}
func (m *MockDistributionRepo) GetUnregistered(ctx context.Context, recipientID string) (*domain.UnregisteredRecipient, error) {
	args := m.Called(ctx, recipientID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.UnregisteredRecipient), args.Error(1)
}
func (m *MockDistributionRepo) ClaimUnregistered(ctx context.Context, recipientID string, claimedAt time.Time, handedOverBy int32) error {
	args := m.Called(ctx, recipientID, claimedAt, handedOverBy)
	return args.Error(0)
}

// MockLocationRepo
type MockLocationRepo struct {
	mock.Mock
}

func (m *MockLocationRepo) CreateShare(ctx context.Context, share *domain.LocationShare) error {
	args := m.Called(ctx, share)
	return args.Error(0)
}
func (m *MockLocationRepo) ListShares(ctx context.Context, userID *int32, officeID *int32, page, pageSize int32) ([]domain.LocationShare, int32, error) {
	args := m.Called(ctx, userID, officeID, page, pageSize)
	return args.Get(0).([]domain.LocationShare), args.Get(1).(int32), args.Error(2)
}
func (m *MockLocationRepo) CreateRequest(ctx context.Context, req *domain.LocationRequest) error {
	args := m.Called(ctx, req)
	return args.Error(0)
}
func (m *MockLocationRepo) GetRequest(ctx context.Context, id int32) (*domain.LocationRequest, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.LocationRequest), args.Error(1)
}
func (m *MockLocationRepo) TransitionRequest(ctx context.Context, id int32, from, to domain.LocationRequestStatus, respondedAt time.Time, shareID *int32) error {
	args := m.Called(ctx, id, from, to, respondedAt, shareID)
	return args.Error(0)
}
func (m *MockLocationRepo) ListRequests(ctx context.Context, requesterID, targetUserID *int32, page, pageSize int32) ([]domain.LocationRequest, int32, error) {
	args := m.Called(ctx, requesterID, targetUserID, page, pageSize)
	return args.Get(0).([]domain.LocationRequest), args.Get(1).(int32), args.Error(2)
}
func (m *MockLocationRepo) ExpirePending(ctx context.Context, cutoff time.Time) (int64, error) {
	args := m.Called(ctx, cutoff)
	return args.Get(0).(int64), args.Error(1)
}

// MockEmailService
type MockEmailService struct {
	mock.Mock
}

func (m *MockEmailService) SendAccountStatusNotification(ctx context.Context, email, name, status, reason string) error {
	args := m.Called(ctx, email, name, status, reason)
	return args.Error(0)
}
func (m *MockEmailService) SendAttendanceSummary(ctx context.Context, email, officeName string, date time.Time, present int32, target *int32) error {
	args := m.Called(ctx, email, officeName, date, present, target)
	return args.Error(0)
}

// stubNotifier records notifications without asserting on them; Notify
// is fire-and-forget, so tests only ever inspect what was sent.
type stubNotifier struct {
	sent []domain.Notification
}

func (s *stubNotifier) Notify(ctx context.Context, recipientID int32, title, message string, ntype domain.NotificationType, relatedID *int32) {
	s.sent = append(s.sent, domain.Notification{
		UserID:    recipientID,
		Title:     title,
		Message:   message,
		Type:      ntype,
		RelatedID: relatedID,
	})
}
func (s *stubNotifier) GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error) {
	return nil, 0, nil
}
func (s *stubNotifier) MarkAsRead(ctx context.Context, userID, notificationID int32) error {
	return nil
}
func (s *stubNotifier) RegisterDeviceToken(ctx context.Context, userID int32, token, platform string) error {
	return nil
}

// test fixtures

func int32Ptr(v int32) *int32 { return &v }

func superAdmin() *domain.User {
	return &domain.User{ID: 1, Name: "Root", Role: domain.RoleSuperAdmin, Status: domain.UserStatusActive}
}

func officeAdmin(officeID int32) *domain.User {
	return &domain.User{ID: 2, Name: "Admin", Role: domain.RoleAdmin, Status: domain.UserStatusActive, AssignedOfficeID: &officeID}
}

func internalEmployee(id, officeID int32) *domain.User {
	oid := officeID
	return &domain.User{ID: id, Name: "Employee", Role: domain.RoleInternal, Status: domain.UserStatusActive, PrimaryOfficeID: &oid}
}

func externalEmployee(id, officeID int32) *domain.User {
	oid := officeID
	return &domain.User{ID: id, Name: "Contractor", Role: domain.RoleExternal, Status: domain.UserStatusActive, PrimaryOfficeID: &oid}
}
