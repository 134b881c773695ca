// Package checkpoint persists particle state to an append-only text log
// and restores the latest snapshot from it.
package checkpoint

import (
	"bufio"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/san-kum/molsim/internal/state"
	"github.com/san-kum/molsim/internal/vec"
)

const maxRecordSize = 256 << 20

// Track is a state that appends a snapshot to its log on every Sync.
type Track[V vec.Vector] struct {
	*state.State[V]

	path   string
	output *os.File
	logger *slog.Logger
}

// NewTrack opens path for appending, creating it if needed.
func NewTrack[V vec.Vector](path string, st *state.State[V], logger *slog.Logger) (*Track[V], error) {
	if logger == nil {
		logger = slog.Default()
	}
	f, err := os.OpenFile(path, os.O_WRONLY|os.O_APPEND|os.O_CREATE, 0o644)
	if err != nil {
		return nil, fmt.Errorf("open track: %w", err)
	}
	return &Track[V]{State: st, path: path, output: f, logger: logger}, nil
}

func (t *Track[V]) Path() string { return t.path }

// Sync appends one record and flushes it to stable storage.
func (t *Track[V]) Sync(timeNow float64) error {
	rec, err := Encode[V](timeNow, t)
	if err != nil {
		return err
	}
	rec = append(rec, '\n')
	if _, err := t.output.Write(rec); err != nil {
		return fmt.Errorf("append %s: %w", t.path, err)
	}
	if err := t.output.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", t.path, err)
	}
	return nil
}

func (t *Track[V]) Close() error {
	return t.output.Close()
}

// Restore reads the last record of the log at path. A missing or empty log
// yields ErrNotFound; an undecodable last record yields a *CorruptError.
func Restore[V vec.Vector](path string) (float64, *state.State[V], error) {
	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return 0, nil, fmt.Errorf("%w: %s", ErrNotFound, path)
		}
		return 0, nil, fmt.Errorf("open track: %w", err)
	}
	defer f.Close()

	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), maxRecordSize)

	var last []byte
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		last = append(last[:0], scanner.Bytes()...)
	}
	if err := scanner.Err(); err != nil {
		return 0, nil, &CorruptError{Path: path, Line: lineNo + 1, Err: err}
	}
	if lineNo == 0 {
		return 0, nil, fmt.Errorf("%w: %s is empty", ErrNotFound, path)
	}

	timeNow, st, err := Decode[V](last)
	if err != nil {
		return 0, nil, &CorruptError{Path: path, Line: lineNo, Err: err}
	}
	return timeNow, st, nil
}

// Resume restores the latest snapshot from path and keeps appending to the
// same log. When there is no snapshot, fresh is called for the initial state
// and the returned time is zero.
func Resume[V vec.Vector](path string, fresh func() *state.State[V], logger *slog.Logger) (*Track[V], float64, error) {
	if logger == nil {
		logger = slog.Default()
	}

	timeNow, st, err := Restore[V](path)
	switch {
	case err == nil:
		logger.Info("restored track", "path", path, "time", timeNow, "n_mol", st.Pos().Len())
	case errors.Is(err, ErrNotFound):
		logger.Info("no track to restore, starting fresh", "path", path)
		st = fresh()
		timeNow = 0
	default:
		return nil, 0, err
	}

	tr, err := NewTrack(path, st, logger)
	if err != nil {
		return nil, 0, err
	}
	return tr, timeNow, nil
}
