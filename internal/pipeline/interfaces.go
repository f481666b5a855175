package pipeline

import (
	"context"
)

// Archiver stores a copy of an uploaded document and returns where it went.
// Implemented by gcsuploader.Archiver.
type Archiver interface {
	Archive(ctx context.Context, filename, mimeType string, content []byte) (string, error)
}
