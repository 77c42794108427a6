package models

import "time"

// Registration maps a wallet address to its role. A wallet holds at most one
// role; registering again replaces it.
type Registration struct {
	WalletAddress string    `json:"wallet_address"`
	Role          string    `json:"role"`
	RegisteredAt  time.Time `json:"registered_at"`
}
