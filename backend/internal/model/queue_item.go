package model

import "time"

// QueueItem is one request for help. Its status is derived from which
// timestamps are set: pending, helped, removed.
type QueueItem struct {
	ItemID      int        `gorm:"primaryKey;autoIncrement"   json:"item_id"`
	StudentID   int        `gorm:"not null"                   json:"student_id"`
	TopicID     int        `gorm:"not null"                   json:"topic_id"`
	Description string     `gorm:"type:varchar(500);not null" json:"description"`
	TimeAdded   time.Time  `gorm:"not null"                   json:"time_added"`
	TimeHelped  *time.Time `json:"time_helped,omitempty"`
	TimeRemoved *time.Time `json:"time_removed,omitempty"`

	Student *Nickname `gorm:"foreignKey:StudentID;references:StudentID" json:"student,omitempty"`
	Topic   *Topic    `gorm:"foreignKey:TopicID;references:TopicID"     json:"topic,omitempty"`
}

func (QueueItem) TableName() string { return "queueitem" }

// QueueStatus is the derived lifecycle state of a queue item.
type QueueStatus string

const (
	QueueStatusPending QueueStatus = "pending"
	QueueStatusHelped  QueueStatus = "helped"
	QueueStatusRemoved QueueStatus = "removed"
)

func (q *QueueItem) Status() QueueStatus {
	switch {
	case q.TimeRemoved != nil:
		return QueueStatusRemoved
	case q.TimeHelped != nil:
		return QueueStatusHelped
	default:
		return QueueStatusPending
	}
}
