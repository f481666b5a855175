package bigquery

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/bigquery"
	"github.com/google/uuid"
	"google.golang.org/api/iterator"
	"google.golang.org/api/option"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/metrics"
)

// rowPutter is the subset of *bigquery.Inserter used by the exporter.
type rowPutter interface {
	Put(ctx context.Context, src interface{}) error
}

// Exporter writes snapshots into one dataset.
type Exporter struct {
	client    *bigquery.Client
	projectID string
	datasetID string

	// inserter returns the row writer for a table; replaced in tests.
	inserter func(table string) rowPutter
	now      func() time.Time
}

// NewExporter creates an exporter for projectID.datasetID. credentialsFile
// is optional; application default credentials are used when empty.
func NewExporter(ctx context.Context, projectID, datasetID, credentialsFile string) (*Exporter, error) {
	var opts []option.ClientOption
	if credentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(credentialsFile))
	}

	client, err := bigquery.NewClient(ctx, projectID, opts...)
	if err != nil {
		return nil, fmt.Errorf("NewExporter: bigquery client: %w", err)
	}

	e := &Exporter{
		client:    client,
		projectID: projectID,
		datasetID: datasetID,
		now:       time.Now,
	}
	e.inserter = func(table string) rowPutter {
		return client.DatasetInProject(projectID, datasetID).Table(table).Inserter()
	}
	return e, nil
}

// Close closes the BigQuery client connection.
func (e *Exporter) Close() error {
	if e.client != nil {
		return e.client.Close()
	}
	return nil
}

// ExportSnapshot writes txs and their metrics under a fresh snapshot id and
// returns that id.
func (e *Exporter) ExportSnapshot(ctx context.Context, txs []domain.Transaction) (string, error) {
	log := logger.FromContext(ctx)

	snapshotID := uuid.New().String()
	exportedAt := e.now().UTC()

	if rows := ToTransactionRows(snapshotID, txs, exportedAt); len(rows) > 0 {
		if err := e.inserter(transactionsTable).Put(ctx, rows); err != nil {
			return "", fmt.Errorf("ExportSnapshot: inserting transactions: %w", err)
		}
	}

	row := ToMetricsRow(snapshotID, len(txs), metrics.Aggregate(txs), exportedAt)
	if err := e.inserter(metricsTable).Put(ctx, row); err != nil {
		return "", fmt.Errorf("ExportSnapshot: inserting metrics: %w", err)
	}

	log.Info().
		Str("snapshot_id", snapshotID).
		Int("transactions", len(txs)).
		Str("dataset", e.datasetID).
		Msg("Exported snapshot to BigQuery")

	return snapshotID, nil
}

// ListSnapshots returns the most recent snapshots, newest first.
func (e *Exporter) ListSnapshots(ctx context.Context, limit int) ([]*Snapshot, error) {
	if limit <= 0 {
		limit = 20
	}

	q := e.client.Query(fmt.Sprintf(`
		SELECT snapshot_id, transaction_count, exported_at
		FROM `+"`%s.%s.%s`"+`
		ORDER BY exported_at DESC
		LIMIT @limit
	`, e.projectID, e.datasetID, metricsTable))
	q.Parameters = []bigquery.QueryParameter{
		{Name: "limit", Value: limit},
	}

	it, err := q.Read(ctx)
	if err != nil {
		return nil, fmt.Errorf("ListSnapshots: query read: %w", err)
	}

	var snapshots []*Snapshot
	for {
		var s Snapshot
		err := it.Next(&s)
		if err == iterator.Done {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("ListSnapshots: iter next: %w", err)
		}
		snapshots = append(snapshots, &s)
	}

	return snapshots, nil
}
