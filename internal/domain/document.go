package domain

import (
	"encoding/json"
	"time"
)

// DocumentStatus tracks the analysis lifecycle of an uploaded document.
type DocumentStatus string

const (
	DocumentProcessing DocumentStatus = "processing"
	DocumentCompleted  DocumentStatus = "completed"
	DocumentFailed     DocumentStatus = "failed"
)

// Document is an uploaded source file and the result of analysing it.
type Document struct {
	ID                string          `json:"id"`
	Name              string          `json:"name"`
	Type              string          `json:"type"`
	UploadDate        time.Time       `json:"uploadDate"`
	Status            DocumentStatus  `json:"status"`
	Category          Category        `json:"category,omitempty"`
	Analysis          json.RawMessage `json:"analysis,omitempty"`
	DashboardCategory string          `json:"dashboardCategory,omitempty"`
	StorageURI        string          `json:"storageUri,omitempty"`
	Error             string          `json:"error,omitempty"`
}

// Clone copies the document including its analysis payload.
func (d Document) Clone() Document {
	c := d
	if d.Analysis != nil {
		c.Analysis = append(json.RawMessage(nil), d.Analysis...)
	}
	return c
}

// TransactionIDFor returns the id of the transaction derived from a document.
func TransactionIDFor(documentID string) string {
	return documentID + "_transaction"
}
