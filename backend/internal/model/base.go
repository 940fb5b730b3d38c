package model

// Deletable is embedded by tables that are soft deleted through an
// is_deleted flag instead of row removal.
type Deletable struct {
	IsDeleted bool `gorm:"not null;default:false" json:"is_deleted"`
}
