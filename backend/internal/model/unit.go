package model

// OtherTopicName is the catch-all topic every unit has.
const OtherTopicName = "Other"

// Unit is a course unit students ask about.
type Unit struct {
	UnitID int    `gorm:"primaryKey;autoIncrement"   json:"unit_id"`
	Code   string `gorm:"type:varchar(20);not null"  json:"code"`
	Name   string `gorm:"type:varchar(100);not null" json:"name"`
	Deletable

	Topics []Topic `gorm:"foreignKey:UnitID;references:UnitID" json:"topics,omitempty"`
}

func (Unit) TableName() string { return "unit" }

// Topic is a subject within a unit that queue items are filed under.
type Topic struct {
	TopicID int    `gorm:"primaryKey;autoIncrement"   json:"topic_id"`
	UnitID  int    `gorm:"not null"                   json:"unit_id"`
	Name    string `gorm:"type:varchar(100);not null" json:"name"`
	Deletable

	Unit *Unit `gorm:"foreignKey:UnitID;references:UnitID" json:"-"`
}

func (Topic) TableName() string { return "topic" }
