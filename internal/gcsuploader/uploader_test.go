package gcsuploader

import (
	"strings"
	"testing"
	"time"
)

func TestParseGCSURI(t *testing.T) {
	tests := []struct {
		uri        string
		wantBucket string
		wantObject string
		wantErr    bool
	}{
		{uri: "gs://docs/uploads/2024/01/a.pdf", wantBucket: "docs", wantObject: "uploads/2024/01/a.pdf"},
		{uri: "gs://docs/a.pdf", wantBucket: "docs", wantObject: "a.pdf"},
		{uri: "gs://docs", wantErr: true},
		{uri: "gs://docs/", wantErr: true},
		{uri: "s3://docs/a.pdf", wantErr: true},
		{uri: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.uri, func(t *testing.T) {
			bucket, object, err := ParseGCSURI(tt.uri)
			if tt.wantErr {
				if err == nil {
					t.Errorf("ParseGCSURI(%q) expected error", tt.uri)
				}
				return
			}
			if err != nil {
				t.Fatalf("ParseGCSURI(%q) unexpected error: %v", tt.uri, err)
			}
			if bucket != tt.wantBucket || object != tt.wantObject {
				t.Errorf("ParseGCSURI(%q) = (%q, %q), want (%q, %q)", tt.uri, bucket, object, tt.wantBucket, tt.wantObject)
			}
		})
	}
}

func TestExtractFilenameFromGCSURI(t *testing.T) {
	if got := ExtractFilenameFromGCSURI("gs://bucket/folder/file.pdf"); got != "file.pdf" {
		t.Errorf("got %q, want file.pdf", got)
	}
	if got := ExtractFilenameFromGCSURI("gs://bucket"); got != "bucket" {
		t.Errorf("got %q, want bucket", got)
	}
}

func TestObjectName(t *testing.T) {
	now := time.Date(2024, time.March, 9, 12, 0, 0, 0, time.UTC)
	got := ObjectName(DefaultPrefix, `C:\scans\invoice 7.pdf`, now)

	if !strings.HasPrefix(got, "uploads/2024/03/") {
		t.Errorf("ObjectName = %q, want uploads/2024/03/ prefix", got)
	}
	if !strings.HasSuffix(got, "-invoice 7.pdf") {
		t.Errorf("ObjectName = %q, want base file name suffix", got)
	}
	if other := ObjectName(DefaultPrefix, "invoice 7.pdf", now); other == got {
		t.Error("object names should be unique per upload")
	}
}
