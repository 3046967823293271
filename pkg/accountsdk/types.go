package accountsdk

// ErrorResponse represents a standard error response body. This is used
// internally for parsing HTTP error responses; client code should use the
// APIError type from errors.go instead.
type ErrorResponse struct {
	// Error is the machine-readable error code (e.g., "invalid_credentials")
	Error string `json:"error"`

	// ErrorDescription is a human-readable description of the error
	ErrorDescription string `json:"error_description"`
}

// SignUpRequest is the payload for POST /v1/users/signup.
type SignUpRequest struct {
	// Username is the unique public handle for the account
	Username string `json:"username" validate:"required,min=3,max=32,alphanum"`

	// Email is the address reset tokens are delivered to
	Email string `json:"email" validate:"required,email"`

	// Password is the plaintext password; only its hash is stored
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// SignUpResponse is returned from a successful signup. The new account is
// signed in immediately, so the response carries both the user and a
// session token.
type SignUpResponse struct {
	User  UserResponse `json:"user"`
	Token string       `json:"token"`
}

// SignInRequest is the payload for POST /v1/users/signin.
type SignInRequest struct {
	Username string `json:"username" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// SignInResponse carries the session token issued for valid credentials.
type SignInResponse struct {
	Token string `json:"token"`
}

// ForgotPasswordRequest is the payload for POST /v1/users/forgot-password.
type ForgotPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

// ResetPasswordRequest is the payload for POST /v1/users/reset-password.
type ResetPasswordRequest struct {
	// Token is the single-use reset token delivered to the account's email
	Token string `json:"token" validate:"required"`

	// Password is the replacement password
	Password string `json:"password" validate:"required,min=8,max=128"`
}

// MessageResponse is a generic acknowledgement body.
type MessageResponse struct {
	Message string `json:"message"`
}

// UserResponse is the public representation of an account. The password
// hash never leaves the service.
type UserResponse struct {
	ID             string `json:"id"`
	Username       string `json:"username"`
	Email          string `json:"email"`
	ProfilePicture string `json:"profile_picture"`
	CreatedAt      string `json:"created_at"`
	UpdatedAt      string `json:"updated_at"`
}

// UsersResponse is the body of GET /v1/users.
type UsersResponse struct {
	Users []UserResponse `json:"users"`
}

// HealthResponse represents the response structure for health check endpoints.
// Used by both /livez and /readyz endpoints (readyz includes additional Checks field).
type HealthResponse struct {
	// Status indicates the overall health status (e.g., "ok")
	Status string `json:"status"`

	// Uptime is the service uptime duration as a string (e.g., "1h23m45s")
	Uptime string `json:"uptime,omitempty"`

	// Version is the service version string
	Version string `json:"version,omitempty"`

	// Checks contains readiness check results for critical dependencies (only for /readyz)
	Checks *HealthChecks `json:"checks,omitempty"`
}

// HealthChecks represents the status of critical service dependencies.
type HealthChecks struct {
	// Database indicates the database connection status
	Database string `json:"database"`

	// Signer indicates the session token signing capability status
	Signer string `json:"signer"`
}
