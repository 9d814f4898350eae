package models

// Role is the canonical account role. The platform distinguishes
// students, who browse and register, from admins, who run check-in and
// reporting.
type Role string

const (
	RoleStudent Role = "student"
	RoleAdmin   Role = "admin"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleStudent || r == RoleAdmin
}

// Session is the locally mirrored identity. The authoritative session
// lives server-side; this is only what survives a restart.
type Session struct {
	Token     string `json:"token,omitempty"`
	StudentID string `json:"studentId,omitempty"`
	Role      Role   `json:"role,omitempty"`
}

// WhoAmI is the response of the session-validity probe.
type WhoAmI struct {
	Authenticated bool   `json:"authenticated"`
	Role          Role   `json:"role,omitempty"`
	Email         string `json:"email,omitempty"`
	Name          string `json:"name,omitempty"`
}

// AuthResponse is returned by login and signup. Token is present for
// bearer-mode deployments; cookie-mode backends set a session cookie
// instead.
type AuthResponse struct {
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	Role    Role   `json:"role,omitempty"`
	Email   string `json:"email,omitempty"`
}
