package checkpoint

import (
	"errors"
	"fmt"
)

var (
	// ErrNotFound means there is no prior snapshot to resume from.
	ErrNotFound = errors.New("checkpoint: no snapshot found")

	// ErrCorrupt means the log exists but its last record cannot be decoded.
	ErrCorrupt = errors.New("checkpoint: corrupt snapshot")
)

// CorruptError describes an undecodable record.
type CorruptError struct {
	Path string
	Line int
	Err  error
}

func (e *CorruptError) Error() string {
	return fmt.Sprintf("checkpoint: %s line %d: %v", e.Path, e.Line, e.Err)
}

func (e *CorruptError) Unwrap() []error {
	return []error{ErrCorrupt, e.Err}
}
