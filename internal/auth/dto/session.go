package dto

// AdminInfo is the resolved caller identity handed to downstream handlers. It
// carries no credential material.
type AdminInfo struct {
	ID                string `json:"id"`
	Email             string `json:"email"`
	Name              string `json:"name,omitempty"`
	MustResetPassword bool   `json:"must_reset_password"`
}
