package domain

import "time"

// AttendanceRecord is one employee's presence for one calendar day.
// Date is always truncated to UTC midnight; the (UserID, Date) pair is
// unique at the storage layer.
type AttendanceRecord struct {
	ID        int32     `json:"id"`
	UserID    int32     `json:"user_id"`
	OfficeID  int32     `json:"office_id"`
	Date      time.Time `json:"date"`
	MarkedAt  time.Time `json:"marked_at"`
	Latitude  float64   `json:"latitude"`
	Longitude float64   `json:"longitude"`
}

// AttendanceDay truncates t to its UTC calendar day.
func AttendanceDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// AttendanceFilter narrows attendance listings. Services overwrite the
// office/user fields with the caller's resolved scope before the filter
// reaches the repository.
type AttendanceFilter struct {
	OfficeID *int32
	UserID   *int32
	From     *time.Time
	To       *time.Time
	Page     int32
	PageSize int32
}
