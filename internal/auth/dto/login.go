package dto

type LoginInput struct {
	Email     string `json:"email" validate:"required,email"`
	Password  string `json:"password" validate:"required"`
	IPAddress string `json:"-"`
	UserAgent string `json:"-"`
}

type LoginResult struct {
	AccessToken       string
	RefreshToken      string
	MustResetPassword bool
}

type LoginResponse struct {
	Success           bool `json:"success"`
	MustResetPassword bool `json:"must_reset_password"`
}
