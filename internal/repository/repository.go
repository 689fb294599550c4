package repository

import (
	"context"
	"errors"
	"time"

	"officetrack-backend/internal/domain"
)

var (
	// ErrNotFound is returned when a requested row does not exist.
	ErrNotFound = errors.New("not found")

	// ErrDuplicateKey is returned when an insert violates a unique
	// constraint. For attendance marks and goodies claims this is the
	// expected signal that the action already happened; callers translate
	// it into a domain error and never retry.
	ErrDuplicateKey = errors.New("duplicate key")
)

type UserRepository interface {
	Create(ctx context.Context, user *domain.User) error
	GetByID(ctx context.Context, id int32) (*domain.User, error)
	GetByEmail(ctx context.Context, email string) (*domain.User, error)
	Update(ctx context.Context, user *domain.User) error
	Delete(ctx context.Context, id int32) error
	ListByOffice(ctx context.Context, officeID int32, page, pageSize int32) ([]domain.User, int32, error)
	List(ctx context.Context, page, pageSize int32) ([]domain.User, int32, error)
	// CountActiveTargets counts the listed users that are active members
	// of the given office. Distribution targeting validates with this.
	CountActiveTargets(ctx context.Context, officeID int32, userIDs []int32) (int32, error)
}

type OfficeRepository interface {
	Create(ctx context.Context, office *domain.Office) error
	GetByID(ctx context.Context, id int32) (*domain.Office, error)
	List(ctx context.Context) ([]domain.Office, error)
	Update(ctx context.Context, office *domain.Office) error
	Delete(ctx context.Context, id int32) error
	CountDependents(ctx context.Context, id int32) (domain.OfficeDependents, error)
}

type AttendanceRepository interface {
	// Create inserts the record; a (user_id, date) collision surfaces as
	// ErrDuplicateKey.
	Create(ctx context.Context, rec *domain.AttendanceRecord) error
	GetByID(ctx context.Context, id int32) (*domain.AttendanceRecord, error)
	List(ctx context.Context, filter domain.AttendanceFilter) ([]domain.AttendanceRecord, int32, error)
	Delete(ctx context.Context, id int32) error
	CountByOfficeAndDate(ctx context.Context, officeID int32, date time.Time) (int32, error)
}

type DistributionRepository interface {
	// Create persists the distribution with its targets and unregistered
	// recipients; a duplicate (office_id, date, goodies_type) surfaces as
	// ErrDuplicateKey.
	Create(ctx context.Context, d *domain.Distribution) error
	GetByID(ctx context.Context, id int32) (*domain.Distribution, error)
	List(ctx context.Context, filter domain.DistributionFilter) ([]domain.Distribution, int32, error)
	Delete(ctx context.Context, id int32) error

	IsTarget(ctx context.Context, distributionID, userID int32) (bool, error)

	// ClaimedCount is registered claims plus claimed unregistered
	// recipients, counted live.
	ClaimedCount(ctx context.Context, distributionID int32) (int32, error)

	// CreateReceived inserts a registered claim; a (distribution_id,
	// user_id) collision surfaces as ErrDuplicateKey.
	CreateReceived(ctx context.Context, rec *domain.ReceivedRecord) error
	GetReceived(ctx context.Context, distributionID, userID int32) (*domain.ReceivedRecord, error)
	GetReceivedByID(ctx context.Context, id int32) (*domain.ReceivedRecord, error)
	DeleteReceived(ctx context.Context, id int32) error

	GetUnregistered(ctx context.Context, recipientID string) (*domain.UnregisteredRecipient, error)
	// ClaimUnregistered flips is_claimed on the recipient with a single
	// conditional update; ErrDuplicateKey signals it was already claimed.
	ClaimUnregistered(ctx context.Context, recipientID string, claimedAt time.Time, handedOverBy int32) error
}

type LocationRepository interface {
	CreateShare(ctx context.Context, share *domain.LocationShare) error
	ListShares(ctx context.Context, userID *int32, officeID *int32, page, pageSize int32) ([]domain.LocationShare, int32, error)

	CreateRequest(ctx context.Context, req *domain.LocationRequest) error
	GetRequest(ctx context.Context, id int32) (*domain.LocationRequest, error)
	// TransitionRequest moves a request out of PENDING with a conditional
	// update; ErrNotFound means the request was missing or not pending.
	TransitionRequest(ctx context.Context, id int32, from, to domain.LocationRequestStatus, respondedAt time.Time, shareID *int32) error
	ListRequests(ctx context.Context, requesterID, targetUserID *int32, page, pageSize int32) ([]domain.LocationRequest, int32, error)
	// ExpirePending marks PENDING requests older than cutoff EXPIRED and
	// returns how many changed.
	ExpirePending(ctx context.Context, cutoff time.Time) (int64, error)
}

type NotificationRepository interface {
	Create(ctx context.Context, note *domain.Notification) error
	List(ctx context.Context, userID int32, limit, offset int32) ([]domain.Notification, int32, error)
	MarkAsRead(ctx context.Context, id, userID int32) error

	SaveDeviceToken(ctx context.Context, token *domain.DeviceToken) error
	ListDeviceTokens(ctx context.Context, userID int32) ([]domain.DeviceToken, error)
}
