// Package notionsync mirrors the transaction list into a Notion database.
// The mirror is write-only: Notion pages are never read back into the store.
package notionsync

import (
	"context"
	"fmt"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
)

const (
	// BatchSize defines the number of transactions to process in a single batch
	BatchSize = 100

	// queryPageSize is the Notion maximum page size for database queries.
	queryPageSize = 100
)

// SyncResult counts the page operations of one sync.
type SyncResult struct {
	Created  int `json:"created"`
	Updated  int `json:"updated"`
	Archived int `json:"archived"`
	Failed   int `json:"failed"`
}

// SyncTransactions makes the Notion database mirror txs:
// 1. Adds missing property columns, then queries all existing pages
// 2. Archives pages whose transaction is gone (or that carry no id)
// 3. Updates pages of known transactions and creates the rest
//
// Individual page failures are logged and counted; only a failed database
// query aborts the sync.
func SyncTransactions(ctx context.Context, notionClient NotionService, notionDBID string, txs []domain.Transaction, dryRun bool) (SyncResult, error) {
	log := logger.FromContext(ctx)
	var result SyncResult

	log.Info().
		Int("transaction_count", len(txs)).
		Bool("dry_run", dryRun).
		Msg("Starting transaction sync to Notion")

	if !dryRun {
		if _, err := EnsureSchema(ctx, notionClient, notionDBID); err != nil {
			return result, fmt.Errorf("SyncTransactions: %w", err)
		}
	}

	notionPages, err := queryAllNotionPages(ctx, notionClient, notionDBID)
	if err != nil {
		return result, fmt.Errorf("SyncTransactions: %w", err)
	}

	log.Info().Int("notion_page_count", len(notionPages)).Msg("Retrieved existing Notion pages")

	current := make(map[string]bool, len(txs))
	for _, tx := range txs {
		current[tx.ID] = true
	}

	pageIDs := make(map[string]string)
	for _, page := range notionPages {
		txID := extractTransactionID(page)

		if txID != "" && current[txID] {
			if _, dup := pageIDs[txID]; !dup {
				pageIDs[txID] = string(page.ID)
				continue
			}
		}

		if dryRun {
			log.Info().
				Str("transaction_id", txID).
				Str("page_id", string(page.ID)).
				Msg("[DRY RUN] Would archive stale Notion page")
			result.Archived++
			continue
		}

		if err := notionClient.ArchivePage(ctx, string(page.ID)); err != nil {
			log.Warn().
				Err(err).
				Str("transaction_id", txID).
				Str("page_id", string(page.ID)).
				Msg("Failed to archive stale Notion page")
			result.Failed++
			continue
		}
		result.Archived++
	}

	for i := 0; i < len(txs); i += BatchSize {
		end := i + BatchSize
		if end > len(txs) {
			end = len(txs)
		}

		batch := txs[i:end]
		log.Debug().
			Int("batch_start", i).
			Int("batch_end", end).
			Msg("Processing batch")

		for _, tx := range batch {
			pageID, exists := pageIDs[tx.ID]

			if dryRun {
				if exists {
					result.Updated++
				} else {
					result.Created++
				}
				continue
			}

			props := TransactionToNotionProperties(tx)

			if exists {
				if _, err := notionClient.UpdatePage(ctx, pageID, props); err != nil {
					log.Warn().
						Err(err).
						Str("transaction_id", tx.ID).
						Str("page_id", pageID).
						Msg("Failed to update Notion page")
					result.Failed++
					continue
				}
				result.Updated++
				continue
			}

			page, err := notionClient.CreatePage(ctx, notionDBID, props)
			if err != nil {
				log.Warn().
					Err(err).
					Str("transaction_id", tx.ID).
					Msg("Failed to create Notion page")
				result.Failed++
				continue
			}
			// A later duplicate id in txs updates this page instead.
			pageIDs[tx.ID] = string(page.ID)
			result.Created++
		}
	}

	log.Info().
		Int("created", result.Created).
		Int("updated", result.Updated).
		Int("archived", result.Archived).
		Int("failed", result.Failed).
		Int("total", len(txs)).
		Msg("Transaction sync completed")

	return result, nil
}

// queryAllNotionPages queries all pages from a Notion database and returns them.
// Handles pagination automatically.
func queryAllNotionPages(ctx context.Context, notionClient NotionService, databaseID string) ([]notionapi.Page, error) {
	var allPages []notionapi.Page
	var cursor notionapi.Cursor

	for {
		req := &notionapi.DatabaseQueryRequest{
			PageSize: queryPageSize,
		}

		if cursor != "" {
			req.StartCursor = cursor
		}

		resp, err := notionClient.QueryDatabase(ctx, databaseID, req)
		if err != nil {
			return nil, fmt.Errorf("queryAllNotionPages: %w", err)
		}

		allPages = append(allPages, resp.Results...)

		if !resp.HasMore {
			break
		}
		cursor = resp.NextCursor
	}

	return allPages, nil
}
