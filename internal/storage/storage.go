package storage

import (
	"context"
	"io"
)

// Uploader defines the interface for storing package photos and other
// binary evidence, returning a publicly addressable URL.
type Uploader interface {
	// Upload stores the payload under the given key and returns its public URL.
	Upload(ctx context.Context, key, contentType string, body io.Reader) (string, error)
}
