package storage

import (
	"context"
	"io"
)

type PutInput struct {
	// Key is the object path. Writing an existing key overwrites it, which
	// is what the "replace print file" admin action relies on.
	Key         string
	ContentType string
}

type PutResult struct {
	Key string
	URL string
}

type Storage interface {
	Put(ctx context.Context, r io.Reader, in PutInput) (PutResult, error)
	Delete(ctx context.Context, key string) error
}
