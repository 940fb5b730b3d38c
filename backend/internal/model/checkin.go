package model

import "time"

// CheckIn is one student's presence at a unit. Open while CheckoutTime is nil.
type CheckIn struct {
	CheckInID      int        `gorm:"primaryKey;autoIncrement" json:"check_in_id"`
	StudentID      int        `gorm:"not null"                 json:"student_id"`
	UnitID         int        `gorm:"not null"                 json:"unit_id"`
	CheckInTime    time.Time  `gorm:"not null"                 json:"check_in_time"`
	CheckoutTime   *time.Time `json:"checkout_time,omitempty"`
	ForcedCheckout *bool      `json:"forced_checkout,omitempty"`

	Student *Nickname `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
}

func (CheckIn) TableName() string { return "checkinhistory" }

// IsOpen reports whether the student is still checked in.
func (c *CheckIn) IsOpen() bool { return c.CheckoutTime == nil }

// CheckInQueueItem links a queue item to the check-in it was raised under.
type CheckInQueueItem struct {
	CheckInQueueItemID int `gorm:"primaryKey;autoIncrement" json:"check_in_queue_item_id"`
	CheckInID          int `gorm:"not null"                 json:"check_in_id"`
	QueueItemID        int `gorm:"not null"                 json:"queue_item_id"`
}

func (CheckInQueueItem) TableName() string { return "checkinqueueitem" }
