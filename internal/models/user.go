package models

// TokenPair is the finance API's login response: an access token plus the
// bearer scheme label to prepend when building Authorization headers.
type TokenPair struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// UserProfile is the authenticated user's profile as served by GET /auth/me.
type UserProfile struct {
	ID          int    `json:"id"`
	Email       string `json:"email"`
	Username    string `json:"username"`
	FullName    string `json:"full_name"`
	IsVerified  bool   `json:"is_verified"`
	Education   string `json:"education,omitempty"`
	Nationality string `json:"nationality,omitempty"`
	VisaStatus  string `json:"visa_status,omitempty"`
	CreatedAt   string `json:"created_at"`
}

// RegisterRequest is the registration payload forwarded to POST /auth/register.
// The confirm field never leaves the gateway; the password mismatch check
// happens before any network call.
type RegisterRequest struct {
	Email           string `json:"email" binding:"required,email"`
	Username        string `json:"username" binding:"required,min=3,max=50"`
	FullName        string `json:"full_name" binding:"required"`
	Password        string `json:"password" binding:"required,min=8"`
	ConfirmPassword string `json:"confirm_password,omitempty" binding:"omitempty"`
	Education       string `json:"education,omitempty"`
	Nationality     string `json:"nationality,omitempty"`
	VisaStatus      string `json:"visa_status,omitempty"`
}

// LoginRequest is the login form the gateway accepts. The finance API
// expects OAuth2 password-grant shape, so Email is sent as `username`.
type LoginRequest struct {
	Email    string `form:"email" json:"email" binding:"required,email"`
	Password string `form:"password" json:"password" binding:"required"`
}

// UpdateProfileRequest is a partial profile patch for PATCH /users/me.
// Nil fields are omitted from the upstream body.
type UpdateProfileRequest struct {
	FullName    *string `json:"full_name,omitempty"`
	Education   *string `json:"education,omitempty"`
	Nationality *string `json:"nationality,omitempty"`
	VisaStatus  *string `json:"visa_status,omitempty"`
}

// AdminProfile is the back-office identity served by GET /admin/me.
type AdminProfile struct {
	ID       int    `json:"id"`
	Email    string `json:"email"`
	Username string `json:"username"`
	FullName string `json:"full_name"`
}
