package pool

import "errors"

var (
	// ErrNoSpace indicates that no free span is large enough for the request.
	ErrNoSpace = errors.New("pool: no free span large enough")

	// ErrBadPointer indicates a pointer that is not a live allocation of this pool.
	ErrBadPointer = errors.New("pool: pointer is not a live allocation")

	// ErrTooSmall indicates a region that cannot hold even one minimal block.
	ErrTooSmall = errors.New("pool: region too small")
)
