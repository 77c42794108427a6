package handler

import "flowmint/internal/wallet/models"

// RegisteredMessage confirms a registration.
const RegisteredMessage = "User registered successfully!"

// RegisterResponse is the HTTP response for POST /register.
type RegisterResponse struct {
	Message string `json:"message"`
}

// UserResponse is the HTTP response for a found wallet on GET /user/{wallet_address}.
type UserResponse struct {
	WalletAddress string `json:"walletAddress"`
	Role          string `json:"role"`
}

// NotFoundResponse is the HTTP response for an unknown wallet.
type NotFoundResponse struct {
	Error string `json:"error"`
}

// FromRegistration converts a registration to its HTTP representation.
func FromRegistration(reg *models.Registration) *UserResponse {
	return &UserResponse{
		WalletAddress: reg.WalletAddress,
		Role:          reg.Role,
	}
}
