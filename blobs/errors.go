package blobs

import (
	"github.com/pkg/errors"
)

var (
	// ErrPoolExhausted is returned by Allocate when every slot is in use.
	// It is an expected condition: the caller ignores the new contact until a slot frees.
	ErrPoolExhausted = errors.New("node pool exhausted")
	// ErrNotFound is returned by Remove when the reference is not linked into the list.
	// The list is left unchanged.
	ErrNotFound = errors.New("node not found in list")
	// ErrInvalidRef is returned for references outside the pool.
	ErrInvalidRef = errors.New("invalid node reference")
	// ErrForeignList is returned when slots would move between lists of different pools.
	ErrForeignList = errors.New("list belongs to another pool")
)
