package core

import (
	"context"
	"io"
)

type IImageStore interface {
	// Save stores the image under name and returns the public URL.
	Save(ctx context.Context, name, contentType string, size int64, body io.Reader) (string, error)
}
