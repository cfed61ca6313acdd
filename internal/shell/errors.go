package shell

import (
	"errors"
	"fmt"

	"github.com/dmitrijs2005/kp2vcard/internal/common"
)

var (
	ErrUsage = errors.New("usage error")

	// ErrUnsaved is returned by Run when the session ends with changes the
	// store never accepted.
	ErrUnsaved = errors.New("changes were not saved")
)

// UsageError reports a command line that does not fit the command's schema:
// bad arity, an unknown flag or an invalid flag value.
type UsageError struct {
	Usage string
	Err   error
}

func (e *UsageError) Error() string {
	return e.Err.Error()
}

func (e *UsageError) Unwrap() error {
	return e.Err
}

func (e *UsageError) Is(target error) bool {
	return target == ErrUsage
}

// EntryNotFoundError reports an id that matches no entry in the tree.
type EntryNotFoundError struct {
	ID string
}

func (e *EntryNotFoundError) Error() string {
	return fmt.Sprintf("entry %s not found", e.ID)
}

func (e *EntryNotFoundError) Is(target error) bool {
	return target == common.ErrNotFound
}
