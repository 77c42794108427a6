package handler

import (
	"encoding/json"

	dErrors "flowmint/pkg/domain-errors"
)

// RegisterRequest is the HTTP request body for POST /register.
// Pointer fields distinguish a missing field from an empty string.
type RegisterRequest struct {
	WalletAddress *string `json:"walletAddress"`
	Role          *string `json:"role"`
}

// UnmarshalJSON matches keys exactly. encoding/json would otherwise accept
// "walletaddress" or "ROLE" for the declared fields. Unknown keys are ignored.
func (r *RegisterRequest) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return dErrors.New(dErrors.CodeValidation, "request body must be a JSON object")
	}

	var err error
	if r.WalletAddress, err = stringField(fields, "walletAddress"); err != nil {
		return err
	}
	if r.Role, err = stringField(fields, "role"); err != nil {
		return err
	}
	return nil
}

// stringField returns nil when key is absent or null.
func stringField(fields map[string]json.RawMessage, key string) (*string, error) {
	raw, ok := fields[key]
	if !ok {
		return nil, nil
	}
	var value *string
	if err := json.Unmarshal(raw, &value); err != nil {
		return nil, dErrors.New(dErrors.CodeValidation, key+" must be a string")
	}
	return value, nil
}

// Validate checks field presence. Type mismatches are rejected while decoding.
// Implements the Validatable interface for httputil.DecodeAndPrepare.
func (r *RegisterRequest) Validate() error {
	if r == nil {
		return dErrors.New(dErrors.CodeValidation, "request body is required")
	}
	if r.WalletAddress == nil {
		return dErrors.New(dErrors.CodeValidation, "walletAddress is required")
	}
	if r.Role == nil {
		return dErrors.New(dErrors.CodeValidation, "role is required")
	}
	return nil
}
