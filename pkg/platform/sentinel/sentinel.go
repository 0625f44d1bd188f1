package sentinel

import "errors"

// Sentinel errors for infrastructure facts. Stores, fetchers and collaborators
// return these (optionally wrapped) so services can decide whether to degrade
// or to reject.
//
//   - ErrNotFound: key does not exist in the corpus store
//   - ErrUnavailable: backend or remote endpoint cannot be reached right now
//   - ErrInvalidState: component used after Close or before setup
//   - ErrInvalidInput: caller passed input the operation cannot work with
var (
	ErrNotFound     = errors.New("not found")
	ErrUnavailable  = errors.New("unavailable")
	ErrInvalidState = errors.New("invalid state")
	ErrInvalidInput = errors.New("invalid input")
)
