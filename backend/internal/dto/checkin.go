package dto

import "time"

// CheckInRequest checks a student in to a unit. Either StudentID refers to
// an existing student or Nickname registers a new one.
type CheckInRequest struct {
	UnitID    int    `json:"unit_id"    binding:"required,gt=0"`
	StudentID *int   `json:"student_id" binding:"omitempty,gt=0"`
	Nickname  string `json:"nickname"   binding:"omitempty,max=20"`
	SID       string `json:"sid"        binding:"omitempty,max=20"`
}

// CheckInResponse identifies the created check-in.
type CheckInResponse struct {
	StudentID int `json:"student_id"`
	CheckInID int `json:"check_in_id"`
}

// CheckOutRequest closes a check-in.
type CheckOutRequest struct {
	CheckInID      int   `json:"check_in_id"     binding:"required,gt=0"`
	ForcedCheckout *bool `json:"forced_checkout"`
}

// CheckOutResponse reports the closed check-in.
type CheckOutResponse struct {
	CheckInID    int       `json:"check_in_id"`
	CheckoutTime time.Time `json:"checkout_time"`
	ItemsRemoved int64     `json:"items_removed"`
}

// OpenCheckInResponse is one open check-in on a helpdesk.
type OpenCheckInResponse struct {
	CheckInID   int       `json:"check_in_id"`
	Nickname    string    `json:"nickname"`
	UnitID      int       `json:"unit_id"`
	StudentID   int       `json:"student_id"`
	CheckInTime time.Time `json:"check_in_time"`
}
