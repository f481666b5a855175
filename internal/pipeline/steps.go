package pipeline

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/services"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

// PipelineStep represents a single step in the document pipeline.
type PipelineStep interface {
	Execute(ctx context.Context, state *PipelineState) error
}

// PipelineState holds the shared state across all pipeline steps.
type PipelineState struct {
	Document    domain.Document
	Content     []byte
	Result      *services.AnalysisResult
	Transaction *domain.Transaction
}

// ArchiveDocumentStep copies the upload to long-term storage. A failed
// archive is logged and does not fail the document.
type ArchiveDocumentStep struct {
	Archiver Archiver
}

func (s *ArchiveDocumentStep) Execute(ctx context.Context, state *PipelineState) error {
	if s.Archiver == nil {
		return nil
	}
	uri, err := s.Archiver.Archive(ctx, state.Document.Name, state.Document.Type, state.Content)
	if err != nil {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("document_id", state.Document.ID).Msg("Failed to archive document")
		return nil
	}
	state.Document.StorageURI = uri
	return nil
}

// AnalyzeDocumentStep sends the file to the analyzer.
type AnalyzeDocumentStep struct {
	Analyzer services.DocumentAnalyzer
}

func (s *AnalyzeDocumentStep) Execute(ctx context.Context, state *PipelineState) error {
	result, err := s.Analyzer.AnalyzeDocument(ctx, state.Document.Name, state.Document.Type, state.Content)
	if err != nil {
		return fmt.Errorf("analyze document %s: %w", state.Document.ID, err)
	}
	state.Result = result
	return nil
}

// DeriveTransactionStep turns the analysis into a transaction. Results that
// do not describe a transaction leave state.Transaction nil.
type DeriveTransactionStep struct {
	Today func() domain.Date
}

func (s *DeriveTransactionStep) Execute(ctx context.Context, state *PipelineState) error {
	today := domain.Today
	if s.Today != nil {
		today = s.Today
	}

	tx, err := DeriveTransaction(state.Document, state.Result, today())
	if errors.Is(err, ErrNoTransaction) {
		log := logger.FromContext(ctx)
		log.Warn().Err(err).Str("document_id", state.Document.ID).Msg("No transaction derived from document")
		return nil
	}
	if err != nil {
		return err
	}
	state.Transaction = &tx
	return nil
}

// CompleteDocumentStep records the analysis on the document and any derived
// transaction in the store. Re-analysing a document replaces its
// transaction.
type CompleteDocumentStep struct {
	Store store.Store
}

func (s *CompleteDocumentStep) Execute(ctx context.Context, state *PipelineState) error {
	doc := state.Document
	doc.Status = domain.DocumentCompleted
	doc.Error = ""
	if r := state.Result; r != nil {
		if c, err := domain.ParseCategory(r.Category); err == nil {
			doc.Category = c
		}
		doc.DashboardCategory = r.DashboardCategory
		raw, err := json.Marshal(r)
		if err != nil {
			return fmt.Errorf("marshal analysis for %s: %w", doc.ID, err)
		}
		doc.Analysis = raw
	}

	if tx := state.Transaction; tx != nil {
		if !s.Store.AddTransaction(*tx) {
			s.Store.UpdateTransaction(*tx)
		}
	}
	if !s.Store.UpdateDocument(doc) {
		// Deleted while processing.
		if state.Transaction != nil {
			s.Store.RemoveTransaction(state.Transaction.ID)
		}
		return fmt.Errorf("document %s no longer exists", doc.ID)
	}
	state.Document = doc
	return nil
}

// Pipeline executes a sequence of steps in order.
type Pipeline struct {
	steps []PipelineStep
}

// NewPipeline creates a new pipeline with the given steps.
func NewPipeline(steps ...PipelineStep) *Pipeline {
	return &Pipeline{steps: steps}
}

// Execute runs all steps in the pipeline sequentially.
func (p *Pipeline) Execute(ctx context.Context, state *PipelineState) error {
	for i, step := range p.steps {
		if err := step.Execute(ctx, state); err != nil {
			return fmt.Errorf("pipeline step %d failed: %w", i+1, err)
		}
	}
	return nil
}

// NewDocumentPipeline creates the standard archive, analyze, derive and
// complete sequence. archiver may be nil.
func NewDocumentPipeline(s store.Store, analyzer services.DocumentAnalyzer, archiver Archiver) *Pipeline {
	return NewPipeline(
		&ArchiveDocumentStep{Archiver: archiver},
		&AnalyzeDocumentStep{Analyzer: analyzer},
		&DeriveTransactionStep{},
		&CompleteDocumentStep{Store: s},
	)
}
