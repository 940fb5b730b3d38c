package dto

// ── unit / topic ──

// SaveUnitRequest adds a unit to a helpdesk (UnitID 0) or updates one.
// Topics is the full desired list of topic names.
type SaveUnitRequest struct {
	UnitID     int      `json:"unit_id"     binding:"gte=0"`
	HelpdeskID int      `json:"helpdesk_id" binding:"required,gt=0"`
	Code       string   `json:"code"        binding:"required,max=20"`
	Name       string   `json:"name"        binding:"required,max=100"`
	IsDeleted  bool     `json:"is_deleted"`
	Topics     []string `json:"topics"      binding:"dive,required,max=100"`
}

// UnitListRequest filters units of a helpdesk.
type UnitListRequest struct {
	ActiveOnly bool `form:"active"`
}

// UnitResponse is a unit and its live topics.
type UnitResponse struct {
	UnitID    int             `json:"unit_id"`
	Code      string          `json:"code"`
	Name      string          `json:"name"`
	IsDeleted bool            `json:"is_deleted"`
	Topics    []TopicResponse `json:"topics"`
}

// TopicResponse is a topic.
type TopicResponse struct {
	TopicID   int    `json:"topic_id"`
	UnitID    int    `json:"unit_id"`
	Name      string `json:"name"`
	IsDeleted bool   `json:"is_deleted"`
}

// ImportUnitsResponse summarises a unit spreadsheet import.
type ImportUnitsResponse struct {
	Total   int               `json:"total"`
	Success int               `json:"success"`
	Failed  int               `json:"failed"`
	Errors  []ImportUnitError `json:"errors,omitempty"`
}

// ImportUnitError explains why one spreadsheet row was skipped.
type ImportUnitError struct {
	Row    int    `json:"row"`
	Reason string `json:"reason"`
}
