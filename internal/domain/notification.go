package domain

type NotificationType string

const (
	NotificationLocationRequest  NotificationType = "LOCATION_REQUEST"
	NotificationLocationShared   NotificationType = "LOCATION_SHARED"
	NotificationLocationDenied   NotificationType = "LOCATION_DENIED"
	NotificationGoodiesAvailable NotificationType = "GOODIES_AVAILABLE"
	NotificationGoodiesReceived  NotificationType = "GOODIES_RECEIVED"
	NotificationAccountStatus    NotificationType = "ACCOUNT_STATUS"
)

type Notification struct {
	ID        int32            `json:"id"`
	UserID    int32            `json:"user_id"`
	Title     string           `json:"title"`
	Message   string           `json:"message"`
	Type      NotificationType `json:"type"`
	RelatedID *int32           `json:"related_id,omitempty"`
	IsRead    bool             `json:"is_read"`
	CreatedOn string           `json:"created_on"`
}

// DeviceToken is a push registration for one of a user's devices.
type DeviceToken struct {
	ID        string `json:"id"`
	UserID    int32  `json:"user_id"`
	Token     string `json:"token"`
	Platform  string `json:"platform"`
	CreatedOn string `json:"created_on"`
}
