package model

// Nickname is an anonymous student identity. StudentID is the surrogate
// key every check-in and queue item refers to; SID is the optional
// university student number.
type Nickname struct {
	StudentID int    `gorm:"primaryKey;autoIncrement"                        json:"student_id"`
	NickName  string `gorm:"column:nick_name;type:varchar(20);not null"      json:"nickname"`
	SID       string `gorm:"column:sid;type:varchar(20);not null;default:''" json:"sid"`
}

func (Nickname) TableName() string { return "nicknames" }
