package notionsync

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jomei/notionapi"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/accrual"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
)

// MockNotionService records page operations and serves a fixed page list.
type MockNotionService struct {
	Pages      []notionapi.Page
	PageSize   int
	CreateErr  error
	Created    []notionapi.Properties
	Updated    map[string]notionapi.Properties
	Archived   []string
	Schema     notionapi.PropertyConfigs
	AddedProps notionapi.PropertyConfigs
	queryCalls int
}

func (m *MockNotionService) CreatePage(ctx context.Context, databaseID string, properties notionapi.Properties) (*notionapi.Page, error) {
	if m.CreateErr != nil {
		return nil, m.CreateErr
	}
	m.Created = append(m.Created, properties)
	return &notionapi.Page{ID: notionapi.ObjectID(fmt.Sprintf("new-%d", len(m.Created)))}, nil
}

func (m *MockNotionService) UpdatePage(ctx context.Context, pageID string, properties notionapi.Properties) (*notionapi.Page, error) {
	if m.Updated == nil {
		m.Updated = map[string]notionapi.Properties{}
	}
	m.Updated[pageID] = properties
	return &notionapi.Page{ID: notionapi.ObjectID(pageID)}, nil
}

func (m *MockNotionService) QueryDatabase(ctx context.Context, databaseID string, filter *notionapi.DatabaseQueryRequest) (*notionapi.DatabaseQueryResponse, error) {
	m.queryCalls++
	size := m.PageSize
	if size == 0 {
		size = len(m.Pages) + 1
	}

	start := 0
	if filter.StartCursor != "" {
		fmt.Sscanf(string(filter.StartCursor), "%d", &start)
	}
	end := start + size
	if end > len(m.Pages) {
		end = len(m.Pages)
	}

	resp := &notionapi.DatabaseQueryResponse{Results: m.Pages[start:end]}
	if end < len(m.Pages) {
		resp.HasMore = true
		resp.NextCursor = notionapi.Cursor(fmt.Sprintf("%d", end))
	}
	return resp, nil
}

func (m *MockNotionService) ArchivePage(ctx context.Context, pageID string) error {
	m.Archived = append(m.Archived, pageID)
	return nil
}

func (m *MockNotionService) GetDatabase(ctx context.Context, databaseID string) (*notionapi.Database, error) {
	return &notionapi.Database{Properties: m.Schema}, nil
}

func (m *MockNotionService) AddDatabaseProperties(ctx context.Context, databaseID string, properties notionapi.PropertyConfigs) error {
	if m.AddedProps == nil {
		m.AddedProps = notionapi.PropertyConfigs{}
	}
	for name, cfg := range properties {
		m.AddedProps[name] = cfg
	}
	return nil
}

func pageFor(pageID, txID string) notionapi.Page {
	props := notionapi.Properties{}
	if txID != "" {
		props[propTransactionID] = &notionapi.RichTextProperty{
			RichText: []notionapi.RichText{{PlainText: txID}},
		}
	}
	return notionapi.Page{ID: notionapi.ObjectID(pageID), Properties: props}
}

func quietContext() context.Context {
	return logger.WithContext(context.Background(), logger.NewWithWriter(&bytes.Buffer{}))
}

func transactions(ids ...string) []domain.Transaction {
	var txs []domain.Transaction
	for _, id := range ids {
		txs = append(txs, domain.Transaction{
			ID:       id,
			Date:     domain.NewDate(2024, time.January, 15),
			Amount:   decimal.NewFromInt(100),
			Category: domain.CategoryBankTransactions,
			Type:     domain.Credit,
		})
	}
	return txs
}

func TestSyncTransactions(t *testing.T) {
	mock := &MockNotionService{
		Pages: []notionapi.Page{
			pageFor("p1", "t1"),
			pageFor("p2", "gone"),
			pageFor("p3", ""),
		},
		PageSize: 2,
	}

	res, err := SyncTransactions(quietContext(), mock, "db", transactions("t1", "t2"), false)
	if err != nil {
		t.Fatalf("SyncTransactions failed: %v", err)
	}

	want := SyncResult{Created: 1, Updated: 1, Archived: 2}
	if res != want {
		t.Errorf("result = %+v, want %+v", res, want)
	}
	if mock.queryCalls != 2 {
		t.Errorf("queryCalls = %d, want 2 (paginated)", mock.queryCalls)
	}
	if _, ok := mock.Updated["p1"]; !ok {
		t.Error("page p1 should be updated")
	}
	if len(mock.Archived) != 2 || mock.Archived[0] != "p2" || mock.Archived[1] != "p3" {
		t.Errorf("archived = %v", mock.Archived)
	}
}

func TestSyncTransactions_DryRun(t *testing.T) {
	mock := &MockNotionService{Pages: []notionapi.Page{pageFor("p1", "t1"), pageFor("p2", "old")}}

	res, err := SyncTransactions(quietContext(), mock, "db", transactions("t1", "t2"), true)
	if err != nil {
		t.Fatalf("SyncTransactions failed: %v", err)
	}
	if res != (SyncResult{Created: 1, Updated: 1, Archived: 1}) {
		t.Errorf("result = %+v", res)
	}
	if len(mock.Created)+len(mock.Updated)+len(mock.Archived)+len(mock.AddedProps) != 0 {
		t.Error("dry run must not modify Notion")
	}
}

func TestSyncTransactions_CreateFailuresCounted(t *testing.T) {
	mock := &MockNotionService{CreateErr: errors.New("rate limited")}

	res, err := SyncTransactions(quietContext(), mock, "db", transactions("t1", "t2"), false)
	if err != nil {
		t.Fatalf("page failures should not abort the sync: %v", err)
	}
	if res.Failed != 2 || res.Created != 0 {
		t.Errorf("result = %+v", res)
	}
}

func TestTransactionToNotionProperties(t *testing.T) {
	due := domain.NewDate(2024, time.February, 1)
	tx := domain.Transaction{
		ID:       "t1",
		Date:     domain.NewDate(2024, time.January, 15),
		Amount:   decimal.NewFromInt(1000),
		Category: domain.CategoryInvoices,
		Type:     domain.Credit,
		Vendor:   "Acme",
		DueDate:  &due,
	}

	props := TransactionToNotionProperties(tx)

	title := props[propDescription].(notionapi.TitleProperty)
	if title.Title[0].Text.Content != "t1" {
		t.Errorf("empty description should fall back to the id, got %q", title.Title[0].Text.Content)
	}
	if n := props[propAmount].(notionapi.NumberProperty).Number; n != 1000 {
		t.Errorf("Amount = %v", n)
	}
	if n := props[propCashEffect].(notionapi.NumberProperty).Number; n != 700 {
		t.Errorf("Cash Effect = %v, want 700", n)
	}
	if _, ok := props[propDueDate]; !ok {
		t.Error("due date should be mapped")
	}
	if _, ok := props[propDashboardCategory]; ok {
		t.Error("empty dashboard category should be omitted")
	}
	if got := extractTransactionID(notionapi.Page{Properties: props}); got != "t1" {
		t.Errorf("extractTransactionID = %q", got)
	}
}

func TestEnsureSchema(t *testing.T) {
	mock := &MockNotionService{
		Schema: notionapi.PropertyConfigs{
			propDescription:   notionapi.TitlePropertyConfig{Type: notionapi.PropertyConfigTypeTitle},
			propTransactionID: notionapi.RichTextPropertyConfig{Type: notionapi.PropertyConfigTypeRichText},
			propAmount:        notionapi.NumberPropertyConfig{Type: notionapi.PropertyConfigTypeNumber},
		},
	}

	added, err := EnsureSchema(quietContext(), mock, "db")
	if err != nil {
		t.Fatalf("EnsureSchema failed: %v", err)
	}

	want := len(propertyConfigs()) - 2
	if len(added) != want || len(mock.AddedProps) != want {
		t.Errorf("added %v (%d columns), want %d", added, len(mock.AddedProps), want)
	}
	if _, ok := mock.AddedProps[propAmount]; ok {
		t.Error("existing column should not be re-added")
	}
	category, ok := mock.AddedProps[propCategory].(notionapi.SelectPropertyConfig)
	if !ok || len(category.Select.Options) != len(accrual.Categories()) {
		t.Errorf("category options = %+v", mock.AddedProps[propCategory])
	}

	mock.Schema = propertyConfigs()
	mock.AddedProps = nil
	added, err = EnsureSchema(quietContext(), mock, "db")
	if err != nil || added != nil || mock.AddedProps != nil {
		t.Errorf("complete schema should be left alone: added=%v err=%v", added, err)
	}
}
