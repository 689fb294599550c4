package service

import (
	"context"
	"time"

	"officetrack-backend/internal/domain"
)

type AuthService interface {
	Register(ctx context.Context, email, password, name, employeeCode string, role domain.Role, officeID *int32) (*domain.User, error)
	Login(ctx context.Context, email, password string) (string, string, *domain.User, error) // access, refresh
	RefreshToken(ctx context.Context, refresh string) (string, string, error)
}

type UserService interface {
	GetProfile(ctx context.Context, userID int32) (*domain.User, error)
	ListUsers(ctx context.Context, actor *domain.User, officeID *int32, page, pageSize int32) ([]domain.User, int32, error)
	BulkCreate(ctx context.Context, actor *domain.User, users []BulkUserInput) ([]domain.User, error)
	VerifyUser(ctx context.Context, actor *domain.User, userID int32) error
	SuspendUser(ctx context.Context, actor *domain.User, userID int32, suspend bool) error
	DeleteUser(ctx context.Context, actor *domain.User, userID int32) error
}

// BulkUserInput is one row of a pre-validated employee import batch. The
// spreadsheet adapter produces these; the service treats them exactly
// like single registrations.
type BulkUserInput struct {
	Email        string      `json:"email"`
	Password     string      `json:"password"`
	Name         string      `json:"name"`
	EmployeeCode string      `json:"employee_code"`
	Role         domain.Role `json:"role"`
	OfficeID     *int32      `json:"office_id"`
}

type OfficeService interface {
	CreateOffice(ctx context.Context, actor *domain.User, office *domain.Office) error
	GetOffice(ctx context.Context, actor *domain.User, id int32) (*domain.Office, error)
	ListOffices(ctx context.Context, actor *domain.User) ([]domain.Office, error)
	UpdateOffice(ctx context.Context, actor *domain.User, office *domain.Office) error
	DeleteOffice(ctx context.Context, actor *domain.User, id int32) error
	NearbyOffices(ctx context.Context, actor *domain.User, latitude, longitude, radiusMeters float64) ([]domain.Office, error)
}

type AttendanceService interface {
	MarkAttendance(ctx context.Context, actor *domain.User, latitude, longitude float64) (*domain.AttendanceRecord, error)
	ListAttendance(ctx context.Context, actor *domain.User, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, int32, error)
	DeleteAttendance(ctx context.Context, actor *domain.User, recordID int32) error
}

type DistributionService interface {
	CreateDistribution(ctx context.Context, actor *domain.User, d *domain.Distribution) error
	BulkCreateDistributions(ctx context.Context, actor *domain.User, ds []*domain.Distribution) error
	ListDistributions(ctx context.Context, actor *domain.User, filter domain.DistributionFilter) ([]domain.DistributionSummary, int32, error)
	ReceiveGoodies(ctx context.Context, actor *domain.User, distributionID int32) (*domain.ReceivedRecord, error)
	MarkClaimForEmployee(ctx context.Context, actor *domain.User, distributionID int32, target ClaimTarget) error
	DeleteDistribution(ctx context.Context, actor *domain.User, distributionID int32) error
	DeleteReceivedRecord(ctx context.Context, actor *domain.User, receivedID int32) error
}

// ClaimTarget is the tagged claim recipient for admin-assisted handover:
// exactly one of the fields is set. It is resolved once at the start of
// MarkClaimForEmployee so downstream logic branches on a closed type.
type ClaimTarget struct {
	UserID      *int32  `json:"user_id,omitempty"`
	RecipientID *string `json:"recipient_id,omitempty"`
}

type LocationService interface {
	RequestLocation(ctx context.Context, actor *domain.User, targetUserID int32) (*domain.LocationRequest, error)
	ShareLocation(ctx context.Context, actor *domain.User, latitude, longitude float64, reason string, requestID *int32) (*domain.LocationShare, error)
	DenyLocationRequest(ctx context.Context, actor *domain.User, requestID int32) error
	ListShares(ctx context.Context, actor *domain.User, userID *int32, page, pageSize int32) ([]domain.LocationShare, int32, error)
	ListRequests(ctx context.Context, actor *domain.User, made bool, page, pageSize int32) ([]domain.LocationRequest, int32, error)
	ExpireStaleRequests(ctx context.Context, olderThan time.Duration) (int64, error)
}

type NotificationService interface {
	// Notify records an in-app notification and pushes it to the user's
	// devices. Best-effort: failures are logged, never returned.
	Notify(ctx context.Context, recipientID int32, title, message string, ntype domain.NotificationType, relatedID *int32)
	GetNotifications(ctx context.Context, userID int32, page, pageSize int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, userID, notificationID int32) error
	RegisterDeviceToken(ctx context.Context, userID int32, token, platform string) error
}

type EmailService interface {
	SendAccountStatusNotification(ctx context.Context, email, name, status, reason string) error
	SendAttendanceSummary(ctx context.Context, email, officeName string, date time.Time, present int32, target *int32) error
}

// PushSender delivers one push message to one device token.
type PushSender interface {
	Send(ctx context.Context, token, title, body string, data map[string]string) error
}
