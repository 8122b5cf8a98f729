package sharedir

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrDoesNotExist distinguishes a missing path from every other
	// provider failure.
	ErrDoesNotExist = errors.New("path does not exist")
	ErrNotShared    = errors.New("no directory shared")
	ErrIllegalPath  = errors.New("illegal path")
)

// Entry is the provider's native shape of one filesystem entry. The
// session normalizes it onto the wire.
type Entry struct {
	Path    string
	IsDir   bool
	Size    int64
	ModTime time.Time
}

// Provider exposes one locally shared directory tree. Paths are
// slash-separated and relative to the share root. Implementations must
// be safe for concurrent calls, requests may be pipelined.
type Provider interface {
	Name() string
	Info(ctx context.Context, path string) (*Entry, error)
	Read(ctx context.Context, path string, offset uint64, length uint32) ([]byte, error)
	List(ctx context.Context, path string) ([]*Entry, error)
	Write(ctx context.Context, path string, offset uint64, data []byte) (uint32, error)
}
