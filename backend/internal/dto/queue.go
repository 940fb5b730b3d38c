package dto

import "time"

// AddQueueItemRequest adds a student to the queue of a topic. The student
// is identified like in CheckInRequest. CheckInID optionally links the item
// to the check-in it was raised under.
type AddQueueItemRequest struct {
	TopicID     int    `json:"topic_id"    binding:"required,gt=0"`
	Description string `json:"description" binding:"max=500"`
	StudentID   *int   `json:"student_id"  binding:"omitempty,gt=0"`
	Nickname    string `json:"nickname"    binding:"omitempty,max=20"`
	SID         string `json:"sid"         binding:"omitempty,max=20"`
	CheckInID   *int   `json:"check_in_id" binding:"omitempty,gt=0"`
}

// AddQueueItemResponse identifies the created item.
type AddQueueItemResponse struct {
	ItemID    int `json:"item_id"`
	StudentID int `json:"student_id"`
}

// UpdateQueueItemRequest edits the topic and description of an item.
type UpdateQueueItemRequest struct {
	ItemID      int    `json:"item_id"     binding:"required,gt=0"`
	TopicID     int    `json:"topic_id"    binding:"required,gt=0"`
	Description string `json:"description" binding:"max=500"`
}

// UpdateQueueItemStatusRequest moves an item to helped or removed.
// Exactly one of the two times must be given.
type UpdateQueueItemStatusRequest struct {
	ItemID      int        `json:"item_id"      binding:"required,gt=0"`
	TimeHelped  *time.Time `json:"time_helped"`
	TimeRemoved *time.Time `json:"time_removed"`
}

// QueueItemResponse is a queue item with its display fields resolved.
type QueueItemResponse struct {
	ItemID      int        `json:"item_id"`
	StudentID   int        `json:"student_id"`
	Nickname    string     `json:"nickname"`
	TopicID     int        `json:"topic_id"`
	Topic       string     `json:"topic"`
	Unit        string     `json:"unit"`
	Description string     `json:"description"`
	Status      string     `json:"status"`
	TimeAdded   time.Time  `json:"time_added"`
	TimeHelped  *time.Time `json:"time_helped,omitempty"`
	TimeRemoved *time.Time `json:"time_removed,omitempty"`
}
