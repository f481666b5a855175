package cmd

import (
	"context"
	"fmt"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/gcsuploader"
	"github.com/dvloznov/finance-dashboard/internal/pipeline"
	"github.com/dvloznov/finance-dashboard/internal/services"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

type ingestResult struct {
	Document    domain.Document     `json:"document" yaml:"document"`
	Transaction *domain.Transaction `json:"transaction,omitempty" yaml:"transaction,omitempty"`
}

func newIngestCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "ingest <file|gs://bucket/object>...",
		Short: "Analyze documents and print the derived transactions",
		Long: `Send each document to the configured analyzer (ANALYZER=service|gemini)
and print the resulting document record with its derived transaction.
Documents are analysed concurrently; each succeeds or fails on its own.

Example:
  dashboard ingest invoice.pdf
  dashboard ingest gs://my-bucket/uploads/2024/01/bill.pdf`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel, log := opts.commandContext(cmd)
			defer cancel()

			cfg, err := opts.loadConfig()
			if err != nil {
				return err
			}

			client := services.NewHTTPClient(cfg.Services.URL, cfg.Services.Timeout)
			analyzer, err := services.NewAnalyzer(ctx, cfg.Services.Analyzer, client, cfg.Gemini.APIKey, cfg.Gemini.Model)
			if err != nil {
				return err
			}

			uploads, err := loadUploads(ctx, args, cfg.GCP.CredentialsFile)
			if err != nil {
				return err
			}

			s := store.NewMemory()
			ingestor := pipeline.NewIngestor(s, pipeline.NewDocumentPipeline(s, analyzer, nil))

			var (
				docs      []domain.Document
				ingestErr error
			)
			if len(uploads) == 1 {
				var doc domain.Document
				doc, ingestErr = ingestor.Ingest(ctx, uploads[0])
				docs = []domain.Document{doc}
			} else {
				docs, ingestErr = ingestor.IngestAll(ctx, uploads)
			}
			if ingestErr != nil {
				log.Warn().Err(ingestErr).Msg("Some documents failed")
			}

			results := make([]ingestResult, len(docs))
			for i, doc := range docs {
				results[i].Document = doc
				if tx, ok := s.Transaction(domain.TransactionIDFor(doc.ID)); ok {
					results[i].Transaction = &tx
				}
			}

			if err := opts.render(cmd.OutOrStdout(), results); err != nil {
				return err
			}
			return ingestErr
		},
	}
}

// loadUploads reads local paths from disk and gs:// URIs from Cloud Storage.
func loadUploads(ctx context.Context, args []string, credentialsFile string) ([]pipeline.Upload, error) {
	var fetcher *gcsuploader.Archiver
	defer func() {
		if fetcher != nil {
			fetcher.Close()
		}
	}()

	uploads := make([]pipeline.Upload, 0, len(args))
	for _, arg := range args {
		var (
			content  []byte
			filename string
			err      error
		)

		if strings.HasPrefix(arg, "gs://") {
			if fetcher == nil {
				bucket, _, perr := gcsuploader.ParseGCSURI(arg)
				if perr != nil {
					return nil, perr
				}
				fetcher, err = gcsuploader.NewArchiver(ctx, bucket, credentialsFile)
				if err != nil {
					return nil, err
				}
			}
			content, err = fetcher.Fetch(ctx, arg)
			filename = gcsuploader.ExtractFilenameFromGCSURI(arg)
		} else {
			content, err = os.ReadFile(arg)
			filename = filepath.Base(arg)
		}
		if err != nil {
			return nil, fmt.Errorf("loadUploads: %s: %w", arg, err)
		}

		uploads = append(uploads, pipeline.Upload{
			Filename: filename,
			MimeType: mimeTypeFor(filename),
			Content:  content,
		})
	}
	return uploads, nil
}

func mimeTypeFor(filename string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(filename))); t != "" {
		return t
	}
	return "application/octet-stream"
}
