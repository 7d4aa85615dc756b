// Package storage holds the avatar blob store. Blobs live in a single
// S3 bucket under the avatars/ prefix and are addressed by a generated
// filename kept on the owning user
package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
)

// ErrNotFound is returned when no blob exists under the given filename
var ErrNotFound = errors.New("blob not found")

// Blob describes a stored object opened for reading
type Blob struct {
	Body        io.ReadCloser
	ContentType string
	Length      int64
}

// BlobStore is the capability the handlers program against. The S3
// implementation below is the only production one, tests swap in an
// in-memory fake
type BlobStore interface {
	// Upload stores the content of r under a freshly generated filename
	// and returns that filename
	Upload(ctx context.Context, r io.Reader, size int64, contentType string) (string, error)

	// Open returns a read stream over the blob stored under filename
	Open(ctx context.Context, filename string) (*Blob, error)

	// Delete removes the blob stored under filename. Returns ErrNotFound
	// when there was nothing to remove so callers can decide whether
	// that matters to them
	Delete(ctx context.Context, filename string) error
}

// MakeFilename keeps the historical file_<unix ms> shape but appends a
// uuid fragment so concurrent uploads within the same millisecond can't
// collide
func MakeFilename() string {
	return fmt.Sprintf("file_%d_%s", time.Now().UnixMilli(), uuid.NewString()[:8])
}
