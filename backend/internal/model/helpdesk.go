package model

// Helpdesk is one helpdesk and its feature switches. Table helpdesksettings.
type Helpdesk struct {
	HelpdeskID int    `gorm:"primaryKey;autoIncrement"   json:"helpdesk_id"`
	Name       string `gorm:"type:varchar(100);not null" json:"name"`
	HasCheckIn bool   `gorm:"not null;default:false"     json:"has_check_in"`
	HasQueue   bool   `gorm:"not null;default:false"     json:"has_queue"`
	Deletable
}

func (Helpdesk) TableName() string { return "helpdesksettings" }

// HelpdeskUnit links a unit to the helpdesk that serves it.
type HelpdeskUnit struct {
	HelpdeskUnitID int `gorm:"primaryKey;autoIncrement" json:"helpdesk_unit_id"`
	HelpdeskID     int `gorm:"not null"                 json:"helpdesk_id"`
	UnitID         int `gorm:"not null"                 json:"unit_id"`
}

func (HelpdeskUnit) TableName() string { return "helpdeskunit" }
