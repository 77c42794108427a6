package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Registry stores return these
// (optionally wrapped) and the wallet service translates them into domain errors.
//
// - ErrNotFound: no registration exists for the wallet address
// - ErrUnavailable: the backing store could not be reached
var (
	ErrNotFound    = errors.New("not found")
	ErrUnavailable = errors.New("unavailable")
)
