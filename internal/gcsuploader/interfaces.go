package gcsuploader

import "context"

// StorageService is the document archive used by ingestion and the CLI.
type StorageService interface {
	Archive(ctx context.Context, filename, mimeType string, content []byte) (string, error)
	Fetch(ctx context.Context, gcsURI string) ([]byte, error)
}

var _ StorageService = (*Archiver)(nil)
