package http

type SignupRequest struct {
	Role      string `json:"role"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type ForgotPasswordRequest struct {
	Email string `json:"email"`
}

type ResetPasswordRequest struct {
	Password string `json:"password"`
}

type GoogleAuthRequest struct {
	Token GoogleAuthToken `json:"token"`
}

type GoogleAuthToken struct {
	Credential string `json:"credential"`
}
