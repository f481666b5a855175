package handlers

import (
	"io"
	"net/http"
	"path/filepath"

	"github.com/go-chi/chi/v5"

	"github.com/dvloznov/finance-dashboard/internal/api/middleware"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/jobs"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

// maxUploadMemory is the multipart memory limit; larger parts spill to disk.
const maxUploadMemory = 32 << 20

// DocumentsHandler handles document-related endpoints.
type DocumentsHandler struct {
	store     store.DocumentStore
	ingestor  *pipeline.Ingestor
	publisher jobs.Publisher
}

// NewDocumentsHandler creates a new documents handler.
func NewDocumentsHandler(s store.DocumentStore, ingestor *pipeline.Ingestor, publisher jobs.Publisher) *DocumentsHandler {
	return &DocumentsHandler{
		store:     s,
		ingestor:  ingestor,
		publisher: publisher,
	}
}

// ListDocuments handles GET /api/documents
func (h *DocumentsHandler) ListDocuments(w http.ResponseWriter, r *http.Request) {
	documents := h.store.Documents()

	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"documents": documents,
		"count":     len(documents),
	})
}

// GetDocument handles GET /api/documents/{id}
func (h *DocumentsHandler) GetDocument(w http.ResponseWriter, r *http.Request) {
	doc, ok := h.store.Document(chi.URLParam(r, "id"))
	if !ok {
		middleware.WriteError(w, http.StatusNotFound, "Document not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, doc)
}

// DeleteDocument handles DELETE /api/documents/{id}
func (h *DocumentsHandler) DeleteDocument(w http.ResponseWriter, r *http.Request) {
	id := chi.URLParam(r, "id")
	if !h.ingestor.DeleteDocument(r.Context(), id) {
		middleware.WriteError(w, http.StatusNotFound, "Document not found")
		return
	}
	middleware.WriteJSON(w, http.StatusOK, map[string]interface{}{
		"document_id": id,
		"applied":     true,
	})
}

// UploadDocuments handles POST /api/documents. Every "file" part becomes a
// processing document with its own analysis job.
func (h *DocumentsHandler) UploadDocuments(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	log := logger.FromContext(ctx)

	if err := r.ParseMultipartForm(maxUploadMemory); err != nil {
		middleware.WriteError(w, http.StatusBadRequest, "Invalid multipart body")
		return
	}
	defer r.MultipartForm.RemoveAll()

	files := r.MultipartForm.File["file"]
	if len(files) == 0 {
		middleware.WriteError(w, http.StatusBadRequest, "At least one file is required")
		return
	}

	uploads := make([]pipeline.Upload, 0, len(files))
	for _, fh := range files {
		f, err := fh.Open()
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Failed to read upload")
			return
		}
		content, err := io.ReadAll(f)
		f.Close()
		if err != nil {
			middleware.WriteError(w, http.StatusBadRequest, "Failed to read upload")
			return
		}

		mimeType := fh.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = "application/octet-stream"
		}
		uploads = append(uploads, pipeline.Upload{
			Filename: filepath.Base(fh.Filename),
			MimeType: mimeType,
			Content:  content,
		})
	}

	type accepted struct {
		Document domain.Document `json:"document"`
		JobID    string          `json:"job_id,omitempty"`
	}
	results := make([]accepted, 0, len(uploads))

	for _, upload := range uploads {
		doc := h.ingestor.Register(ctx, upload)
		job := &jobs.AnalyzeDocumentJob{
			DocumentID: doc.ID,
			Filename:   upload.Filename,
			MimeType:   upload.MimeType,
			Content:    upload.Content,
		}
		if err := h.publisher.PublishAnalyzeDocument(ctx, job); err != nil {
			log.Error().Err(err).Str("document_id", doc.ID).Msg("Failed to enqueue analysis job")
			results = append(results, accepted{Document: h.ingestor.Fail(ctx, doc, err)})
			continue
		}

		log.Info().Str("job_id", job.JobID).Str("document_id", doc.ID).Msg("Analysis job enqueued")
		results = append(results, accepted{Document: doc, JobID: job.JobID})
	}

	middleware.WriteJSON(w, http.StatusAccepted, map[string]interface{}{
		"documents": results,
		"count":     len(results),
	})
}
