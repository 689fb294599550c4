package domain

import "time"

// LocationShare is an append-only record of a voluntarily shared position.
type LocationShare struct {
	ID        int32     `json:"id"`
	UserID    int32     `json:"user_id"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
	SharedAt  time.Time `json:"shared_at"`
	Reason    string    `json:"reason,omitempty"`
	OfficeID  *int32    `json:"office_id,omitempty"`
}

type LocationRequestStatus string

const (
	LocationRequestPending LocationRequestStatus = "PENDING"
	LocationRequestShared  LocationRequestStatus = "SHARED"
	LocationRequestDenied  LocationRequestStatus = "DENIED"
	LocationRequestExpired LocationRequestStatus = "EXPIRED"
)

// LocationRequest asks a target user to share their location. Only
// PENDING requests transition; SHARED, DENIED and EXPIRED are terminal.
type LocationRequest struct {
	ID              int32                 `json:"id"`
	RequesterID     int32                 `json:"requester_id"`
	TargetUserID    int32                 `json:"target_user_id"`
	Status          LocationRequestStatus `json:"status"`
	RequestedAt     time.Time             `json:"requested_at"`
	RespondedAt     *time.Time            `json:"responded_at,omitempty"`
	LocationShareID *int32                `json:"location_share_id,omitempty"`
}
