package dto

import "time"

// ── helpdesk ──

// CreateHelpdeskRequest creates a helpdesk.
type CreateHelpdeskRequest struct {
	Name       string `json:"name"         binding:"required,max=100"`
	HasCheckIn bool   `json:"has_check_in"`
	HasQueue   bool   `json:"has_queue"`
}

// UpdateHelpdeskRequest updates a helpdesk. Nil fields are left alone.
type UpdateHelpdeskRequest struct {
	HelpdeskID int     `json:"helpdesk_id"  binding:"required,gt=0"`
	Name       *string `json:"name"         binding:"omitempty,min=1,max=100"`
	HasCheckIn *bool   `json:"has_check_in"`
	HasQueue   *bool   `json:"has_queue"`
	IsDeleted  *bool   `json:"is_deleted"`
}

// HelpdeskResponse is a helpdesk.
type HelpdeskResponse struct {
	HelpdeskID int    `json:"helpdesk_id"`
	Name       string `json:"name"`
	HasCheckIn bool   `json:"has_check_in"`
	HasQueue   bool   `json:"has_queue"`
	IsDeleted  bool   `json:"is_deleted"`
}

// ForceCheckoutResponse reports what a helpdesk clear closed.
type ForceCheckoutResponse struct {
	HelpdeskID     int   `json:"helpdesk_id"`
	CheckInsClosed int64 `json:"check_ins_closed"`
	ItemsRemoved   int64 `json:"items_removed"`
}

// ── timespan ──

// CreateTimespanRequest creates a timespan. Names are unique across all helpdesks.
type CreateTimespanRequest struct {
	HelpdeskID int       `json:"helpdesk_id" binding:"required,gt=0"`
	Name       string    `json:"name"        binding:"required,max=100"`
	StartDate  time.Time `json:"start_date"  binding:"required"`
	EndDate    time.Time `json:"end_date"    binding:"required"`
}

// UpdateTimespanRequest replaces a timespan's name and range.
type UpdateTimespanRequest struct {
	SpanID    int       `json:"span_id"    binding:"required,gt=0"`
	Name      string    `json:"name"       binding:"required,max=100"`
	StartDate time.Time `json:"start_date" binding:"required"`
	EndDate   time.Time `json:"end_date"   binding:"required"`
}

// TimespanResponse is a timespan.
type TimespanResponse struct {
	SpanID     int       `json:"span_id"`
	HelpdeskID int       `json:"helpdesk_id"`
	Name       string    `json:"name"`
	StartDate  time.Time `json:"start_date"`
	EndDate    time.Time `json:"end_date"`
}
