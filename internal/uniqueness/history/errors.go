package history

import (
	"errors"
	"fmt"
)

// Stage names the step of the cold path that failed.
type Stage string

const (
	StageDownload Stage = "download"
	StageDecrypt  Stage = "decrypt"
	StageExtract  Stage = "extract"
	StageParse    Stage = "parse"
)

// FetchError wraps a failure to resolve one historical pointer.
type FetchError struct {
	PointerID  string
	Stage      Stage
	Underlying error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	return fmt.Sprintf("pointer %s [%s]: %v", e.PointerID, e.Stage, e.Underlying)
}

// Unwrap supports error unwrapping
func (e *FetchError) Unwrap() error {
	return e.Underlying
}

func newFetchError(pointerID string, stage Stage, err error) *FetchError {
	return &FetchError{PointerID: pointerID, Stage: stage, Underlying: err}
}

// StageOf extracts the failing stage from an error, or "" when err is not a
// FetchError.
func StageOf(err error) Stage {
	var fe *FetchError
	if errors.As(err, &fe) {
		return fe.Stage
	}
	return ""
}

var (
	ErrNoLocator        = errors.New("pointer has no artifact url")
	ErrArtifactTooLarge = errors.New("artifact exceeds size limit")
	ErrNoDocument       = errors.New("no json document in artifact")
	ErrBadPassphrase    = errors.New("artifact passphrase rejected")
)
