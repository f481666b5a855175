package gcsuploader

import (
	"context"
	"fmt"
	"path"
	"strings"
	"time"

	"cloud.google.com/go/storage"
	"github.com/google/uuid"
	"google.golang.org/api/option"
)

// DefaultPrefix is the object prefix for archived uploads.
const DefaultPrefix = "uploads"

// Archiver copies uploaded documents into a GCS bucket and reads them back.
type Archiver struct {
	client *storage.Client
	bucket string
	prefix string
}

// NewArchiver creates a storage client for bucket. When credentialsFile is
// empty Application Default Credentials are used.
func NewArchiver(ctx context.Context, bucket, credentialsFile string) (*Archiver, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}
	client, err := storage.NewClient(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewArchiver: create storage client: %w", err)
	}
	return &Archiver{client: client, bucket: bucket, prefix: DefaultPrefix}, nil
}

// Close releases the storage client.
func (a *Archiver) Close() error {
	return a.client.Close()
}

// ObjectName builds "<prefix>/<yyyy>/<mm>/<uuid>-<base name>".
func ObjectName(prefix, filename string, now time.Time) string {
	base := path.Base(strings.ReplaceAll(filename, "\\", "/"))
	if base == "." || base == "/" {
		base = "document"
	}
	return fmt.Sprintf("%s/%04d/%02d/%s-%s", prefix, now.Year(), int(now.Month()), uuid.NewString(), base)
}

// Archive uploads content and returns its gs:// URI.
func (a *Archiver) Archive(ctx context.Context, filename, mimeType string, content []byte) (string, error) {
	objectName := ObjectName(a.prefix, filename, time.Now().UTC())

	ctx, cancel := context.WithTimeout(ctx, 2*time.Minute)
	defer cancel()

	w := a.client.Bucket(a.bucket).Object(objectName).NewWriter(ctx)
	w.ContentType = mimeType
	w.Metadata = map[string]string{"original_filename": filename}

	if _, err := w.Write(content); err != nil {
		_ = w.Close()
		return "", fmt.Errorf("Archive: write object %s: %w", objectName, err)
	}

	// Close finalizes the upload.
	if err := w.Close(); err != nil {
		return "", fmt.Errorf("Archive: finalize upload %s: %w", objectName, err)
	}

	return "gs://" + a.bucket + "/" + objectName, nil
}
