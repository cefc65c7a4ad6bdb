package dto

// RequestCodeRequest entrada de POST /auth/forgot-password.
type RequestCodeRequest struct {
	Phone string `json:"phone" example:"0912345678"`
}

// RequestCodeResponse confirmación de envío. Code solo viaja en desarrollo.
type RequestCodeResponse struct {
	Message string `json:"message"`
	Code    string `json:"otp,omitempty"`
}

// VerifyCodeRequest entrada de POST /auth/verify-otp.
type VerifyCodeRequest struct {
	Phone string `json:"phone"`
	Code  string `json:"code"`
}

// VerifyCodeResponse resultado de la verificación.
type VerifyCodeResponse struct {
	Valid   bool   `json:"valid"`
	Message string `json:"message"`
}

// ResetPasswordRequest entrada de POST /auth/reset-password (flujo por teléfono).
type ResetPasswordRequest struct {
	Phone       string `json:"phone"`
	NewPassword string `json:"newPassword"`
}

// RequestResetRequest entrada de POST /auth/forgot-password/email.
type RequestResetRequest struct {
	Email string `json:"email"`
}

// CheckTokenRequest entrada de POST /auth/reset-token/check.
type CheckTokenRequest struct {
	Token string `json:"token"`
}

// CheckTokenResponse validez del token y, si es válido, el email asociado.
type CheckTokenResponse struct {
	Valid bool   `json:"valid"`
	Email string `json:"email,omitempty"`
}

// CompleteResetRequest entrada de POST /auth/reset-password/email.
type CompleteResetRequest struct {
	Token       string `json:"token"`
	NewPassword string `json:"newPassword"`
}

// MessageResponse respuesta con solo un mensaje.
type MessageResponse struct {
	Message string `json:"message"`
}
