package model

// User is a staff account. FirstTime stays true until the user has set
// their own password.
type User struct {
	UserID    int    `gorm:"primaryKey;autoIncrement"                    json:"user_id"`
	Username  string `gorm:"type:varchar(20);not null"                   json:"username"`
	Password  string `gorm:"column:password;type:varchar(100);not null" json:"-"`
	FirstTime bool   `gorm:"not null;default:true"                       json:"first_time"`
}

func (User) TableName() string { return "users" }
