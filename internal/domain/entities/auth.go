package entities

import "time"

const (
	OTPValidity       = 10 * time.Minute
	SessionValidity   = 30 * 24 * time.Hour
	OTPCodeLength     = 6
	SessionCookieName = "sessionToken"
)

// SendOtpInput represents input for requesting a login code
type SendOtpInput struct {
	Email string `json:"email" binding:"required"`
}

// VerifyOtpInput represents input for redeeming a login code
type VerifyOtpInput struct {
	Email string `json:"email" binding:"required"`
	Code  string `json:"code" binding:"required"`
}

// VerifyOtpResult is returned after a user completes OTP login.
type VerifyOtpResult struct {
	Token     string `json:"token"`
	User      *User  `json:"user"`
	IsNewUser bool   `json:"isNewUser"`
}

// ModeratorLoginResult is returned after a moderator completes OTP login.
type ModeratorLoginResult struct {
	Token     string     `json:"token"`
	Moderator *Moderator `json:"moderator"`
}
