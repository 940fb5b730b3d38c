package model

import "time"

// Timespan is a named date range, usually a teaching period.
type Timespan struct {
	SpanID     int       `gorm:"primaryKey;autoIncrement"   json:"span_id"`
	HelpdeskID int       `gorm:"not null"                   json:"helpdesk_id"`
	Name       string    `gorm:"type:varchar(100);not null" json:"name"`
	StartDate  time.Time `gorm:"not null"                   json:"start_date"`
	EndDate    time.Time `gorm:"not null"                   json:"end_date"`
}

func (Timespan) TableName() string { return "timespans" }
