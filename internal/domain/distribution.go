package domain

import "time"

// Distribution is a planned handout of goodies. OfficeID is nil for
// org-wide distributions. Exactly one of the targeting modes applies:
// broadcast (IsForAllEmployees) or an explicit recipient list made of
// registered employees and/or unregistered recipients.
type Distribution struct {
	ID                     int32                   `json:"id"`
	OfficeID               *int32                  `json:"office_id"`
	GoodiesType            string                  `json:"goodies_type"`
	DistributionDate       time.Time               `json:"distribution_date"`
	TotalQuantity          int32                   `json:"total_quantity"`
	DistributedBy          int32                   `json:"distributed_by"`
	IsForAllEmployees      bool                    `json:"is_for_all_employees"`
	TargetEmployeeIDs      []int32                 `json:"target_employee_ids,omitempty"`
	UnregisteredRecipients []UnregisteredRecipient `json:"unregistered_recipients,omitempty"`
	CreatedOn              string                  `json:"created_on"`
}

// UnregisteredRecipient is a named claim target with no user account,
// tracked inline on the distribution. ID is assigned at creation;
// DistributionID pins the recipient to the distribution it was listed
// on, claims against any other distribution are rejected.
type UnregisteredRecipient struct {
	ID             string     `json:"id"`
	DistributionID int32      `json:"distribution_id"`
	Name           string     `json:"name"`
	OfficeID       *int32     `json:"office_id,omitempty"`
	EmployeeCode   string     `json:"employee_code,omitempty"`
	IsClaimed      bool       `json:"is_claimed"`
	ClaimedAt      *time.Time `json:"claimed_at,omitempty"`
	HandedOverBy   *int32     `json:"handed_over_by,omitempty"`
}

// ReceivedRecord is a registered employee's claim against a distribution.
// The (DistributionID, UserID) pair is unique at the storage layer.
type ReceivedRecord struct {
	ID                 int32     `json:"id"`
	DistributionID     int32     `json:"distribution_id"`
	UserID             int32     `json:"user_id"`
	ReceivedAt         time.Time `json:"received_at"`
	ReceivedAtOfficeID int32     `json:"received_at_office_id"`
	HandedOverBy       *int32    `json:"handed_over_by,omitempty"`
}

// DistributionSummary is a distribution annotated for one caller: live
// claim counts and whether that caller already claimed.
type DistributionSummary struct {
	Distribution   Distribution `json:"distribution"`
	ClaimedCount   int32        `json:"claimed_count"`
	RemainingCount int32        `json:"remaining_count"`
	HasClaimed     bool         `json:"has_claimed"`
}

type DistributionFilter struct {
	OfficeID *int32
	Date     *time.Time
	// VisibleTo restricts results to broadcast distributions plus those
	// that target the given user. Set for employee callers.
	VisibleTo *int32
	Page      int32
	PageSize  int32
}
