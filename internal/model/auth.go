package model

import "github.com/golang-jwt/jwt/v5"

// StaffClaims are JWT claims for staff (optician) authentication
type StaffClaims struct {
	StaffID string `json:"staffId"`
	jwt.RegisteredClaims
}

// SessionClaims are JWT claims for session-scoped patient tokens
type SessionClaims struct {
	SessionID string `json:"sessionId"`
	FormID    string `json:"formId"`
	jwt.RegisteredClaims
}

// LoginRequest is the request body for staff login
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// LoginResponse is returned after successful login
type LoginResponse struct {
	Token   string `json:"token"`
	StaffID string `json:"staffId"`
}
