package policies

import (
	"context"
	"io"
)

// ImageStore uploads listing images and returns their public URL.
type ImageStore interface {
	Upload(ctx context.Context, key string, body io.Reader, size int64, contentType string) (string, error)
}
