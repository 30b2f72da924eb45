package filecache

import (
	"errors"

	"github.com/unkn0wn-root/filecache/internal/fsession"
	"github.com/unkn0wn-root/filecache/internal/snapshot"
)

// Error kinds, inspectable with errors.Is. Only ErrLockContended is
// transient: the retry policy re-runs contended operations and surfaces the
// error once attempts are exhausted. Everything else fails the call
// immediately and is never retried.
var (
	// ErrLockContended: exclusive access to the shared file could not be
	// obtained because another holder has it.
	ErrLockContended = fsession.ErrContended

	// ErrCapacityExceeded: file content reaches or exceeds MaxFileBytes.
	ErrCapacityExceeded = fsession.ErrTooLarge

	// ErrCorruptStore: file content fails to decode.
	ErrCorruptStore = snapshot.ErrCorrupt

	// ErrInvalidArgument: empty key on a call that requires one.
	ErrInvalidArgument = errors.New("filecache: key must not be empty")

	// ErrSlidingExpiry: sliding expiration requested. Only absolute
	// expirations are supported; a sliding window would force a write
	// transaction on every read.
	ErrSlidingExpiry = errors.New("filecache: sliding expiration is not supported; use ExpireIn or ExpireAt")
)
