package pipeline

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/jobs"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

// maxConcurrentAnalyses bounds IngestAll.
const maxConcurrentAnalyses = 4

// Upload is one file handed to the ingestor.
type Upload struct {
	Filename string
	MimeType string
	Content  []byte
}

// Ingestor drives the document lifecycle: processing, then completed or
// failed.
type Ingestor struct {
	store    store.Store
	pipeline *Pipeline
	now      func() time.Time
}

// NewIngestor creates an ingestor that runs p against s.
func NewIngestor(s store.Store, p *Pipeline) *Ingestor {
	return &Ingestor{store: s, pipeline: p, now: time.Now}
}

// Register records a new document in the processing state.
func (in *Ingestor) Register(ctx context.Context, u Upload) domain.Document {
	doc := domain.Document{
		ID:         uuid.NewString(),
		Name:       u.Filename,
		Type:       u.MimeType,
		UploadDate: in.now().UTC(),
		Status:     domain.DocumentProcessing,
	}
	in.store.AddDocument(doc)

	log := logger.FromContext(ctx)
	log.Info().Str("document_id", doc.ID).Str("filename", doc.Name).Msg("Registered document")
	return doc
}

// Process runs the pipeline for a registered document. On failure the
// document is marked failed and contributes no transaction.
func (in *Ingestor) Process(ctx context.Context, doc domain.Document, content []byte) (domain.Document, error) {
	log := logger.FromContext(ctx).With().Str("document_id", doc.ID).Logger()
	ctx = logger.WithContext(ctx, log)

	state := &PipelineState{Document: doc, Content: content}
	if err := in.pipeline.Execute(ctx, state); err != nil {
		return in.Fail(ctx, state.Document, err), fmt.Errorf("Process: %w", err)
	}

	log.Info().
		Str("category", string(state.Document.Category)).
		Bool("transaction", state.Transaction != nil).
		Msg("Document processed")
	return state.Document, nil
}

// Fail marks doc failed with cause and stores it. A failed document
// contributes no transaction.
func (in *Ingestor) Fail(ctx context.Context, doc domain.Document, cause error) domain.Document {
	log := logger.FromContext(ctx)
	log.Error().Err(cause).Str("document_id", doc.ID).Msg("Document processing failed")

	doc.Status = domain.DocumentFailed
	doc.Error = cause.Error()
	in.store.UpdateDocument(doc)
	return doc
}

// HandleJob processes a queued analysis job. It is the jobs.JobHandler of
// the API server.
func (in *Ingestor) HandleJob(ctx context.Context, job jobs.Job) error {
	analyzeJob, ok := job.(*jobs.AnalyzeDocumentJob)
	if !ok {
		return fmt.Errorf("HandleJob: unexpected job type: %T", job)
	}

	doc, ok := in.store.Document(analyzeJob.DocumentID)
	if !ok {
		return fmt.Errorf("HandleJob: document %s no longer exists", analyzeJob.DocumentID)
	}

	log := logger.FromContext(ctx).With().Str("job_id", analyzeJob.JobID).Logger()
	_, err := in.Process(logger.WithContext(ctx, log), doc, analyzeJob.Content)
	return err
}

// Ingest registers and processes one upload synchronously.
func (in *Ingestor) Ingest(ctx context.Context, u Upload) (domain.Document, error) {
	doc := in.Register(ctx, u)
	return in.Process(ctx, doc, u.Content)
}

// IngestAll analyses several uploads concurrently. Each upload succeeds or
// fails on its own; the first error is returned after all have finished.
func (in *Ingestor) IngestAll(ctx context.Context, uploads []Upload) ([]domain.Document, error) {
	docs := make([]domain.Document, len(uploads))
	for i, u := range uploads {
		docs[i] = in.Register(ctx, u)
	}

	var g errgroup.Group
	g.SetLimit(maxConcurrentAnalyses)
	for i := range uploads {
		i := i
		g.Go(func() error {
			doc, err := in.Process(ctx, docs[i], uploads[i].Content)
			docs[i] = doc
			return err
		})
	}
	err := g.Wait()
	return docs, err
}

// DeleteDocument removes a document together with its derived transaction.
func (in *Ingestor) DeleteDocument(ctx context.Context, id string) bool {
	removed := in.store.RemoveDocument(id)
	if removed {
		log := logger.FromContext(ctx)
		log.Info().Str("document_id", id).Msg("Deleted document")
	}
	return removed
}
