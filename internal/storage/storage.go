// Package storage abstracts the external object store the API streams
// uploaded documents to.
package storage

import "context"

// Storage persists opaque objects under slash-separated paths and serves
// them back over a public URL.
type Storage interface {
	// Save stores data under path and returns the public URL of the object.
	Save(ctx context.Context, path string, contentType string, data []byte) (string, error)
	// Remove deletes the object at path. Used to sweep objects stored
	// before an enclosing transaction rolled back.
	Remove(ctx context.Context, path string) error
}
