package keyfob

import (
	"errors"
	"fmt"

	"github.com/avwilde/keyfob/internal/secitem"
)

// ErrNotFound is returned when no stored entry matches an item's identity.
var ErrNotFound = errors.New("item not found")

// ErrDuplicateItem is returned when Add targets an identity that already
// has an entry. The Keychain reports the same status when a required
// attribute (service) is missing or empty, and the two causes cannot be
// told apart from the status alone.
var ErrDuplicateItem = errors.New("item already exists")

// ErrUnexpectedPayload is returned when a find succeeds but the returned
// payload cannot be interpreted as secret bytes.
var ErrUnexpectedPayload = errors.New("unexpected payload")

// StatusError wraps a Keychain status code outside the recognized
// vocabulary. The original code is preserved for diagnostics.
type StatusError struct {
	Status secitem.Status
}

func (e *StatusError) Error() string {
	return fmt.Sprintf("keychain status %d", e.Status)
}

// statusError translates a store status into the error taxonomy.
// Success translates to nil.
func statusError(st secitem.Status) error {
	switch st {
	case secitem.StatusSuccess:
		return nil
	case secitem.StatusItemNotFound:
		return ErrNotFound
	case secitem.StatusDuplicateItem:
		return ErrDuplicateItem
	default:
		return &StatusError{Status: st}
	}
}
