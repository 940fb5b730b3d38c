package dto

// ── student nicknames ──

// AddStudentRequest registers a nickname.
type AddStudentRequest struct {
	Nickname string `json:"nickname" binding:"required,max=20"`
	SID      string `json:"sid"      binding:"omitempty,max=20"`
}

// EditStudentRequest renames a student.
type EditStudentRequest struct {
	StudentID int    `json:"student_id" binding:"required,gt=0"`
	Nickname  string `json:"nickname"   binding:"required,max=20"`
}

// ValidateNicknameRequest asks whether a nickname can be used by sid.
type ValidateNicknameRequest struct {
	Nickname string `json:"nickname" binding:"required,max=20"`
	SID      string `json:"sid"      binding:"omitempty,max=20"`
}

// StudentResponse is a registered student.
type StudentResponse struct {
	StudentID int    `json:"student_id"`
	Nickname  string `json:"nickname"`
	SID       string `json:"sid,omitempty"`
}

// GeneratedNicknameResponse is a fresh unused nickname.
type GeneratedNicknameResponse struct {
	Nickname string `json:"nickname"`
}
