package domain

type Office struct {
	ID              int32   `json:"id"`
	Name            string  `json:"name"`
	Address         string  `json:"address"`
	Latitude        float64 `json:"latitude"`
	Longitude       float64 `json:"longitude"`
	HasLocation     bool    `json:"has_location"`
	HeadcountTarget *int32  `json:"headcount_target,omitempty"`
	CreatedOn       string  `json:"created_on"`
}

// OfficeDependents counts the records that reference an office. An office
// may only be deleted when every count is zero.
type OfficeDependents struct {
	Members       int32 `json:"members"`
	Attendance    int32 `json:"attendance"`
	Distributions int32 `json:"distributions"`
}

func (d OfficeDependents) Any() bool {
	return d.Members > 0 || d.Attendance > 0 || d.Distributions > 0
}
