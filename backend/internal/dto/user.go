package dto

// ── staff users ──

// LoginRequest logs a staff user in.
type LoginRequest struct {
	Username string `json:"username" binding:"required,max=20"`
	Password string `json:"password" binding:"required"`
}

// LoginResponse carries the bearer token. FirstTime users must change
// their password before the token is accepted on protected routes.
type LoginResponse struct {
	UserID      int    `json:"user_id"`
	Username    string `json:"username"`
	AccessToken string `json:"access_token"`
	ExpiresIn   int    `json:"expires_in"` // seconds
	FirstTime   bool   `json:"first_time"`
}

// CreateUserRequest creates a staff user. Password defaults to the username.
type CreateUserRequest struct {
	Username string `json:"username" binding:"required,min=1,max=20"`
	Password string `json:"password" binding:"omitempty,max=72"`
}

// UpdateUserRequest changes a user's username and password.
type UpdateUserRequest struct {
	UserID   int    `json:"user_id"  binding:"required,gt=0"`
	Username string `json:"username" binding:"required,min=1,max=20"`
	Password string `json:"password" binding:"required,min=1,max=72"`
}

// UserResponse is a staff user without credentials.
type UserResponse struct {
	UserID    int    `json:"user_id"`
	Username  string `json:"username"`
	FirstTime bool   `json:"first_time"`
}
