package corrections

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/shopspring/decimal"

	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
	"github.com/dvloznov/finance-dashboard/internal/store"
)

var decimalComparer = cmp.Comparer(func(a, b decimal.Decimal) bool { return a.Equal(b) })

func testContext(buf *bytes.Buffer) context.Context {
	return logger.WithContext(context.Background(), logger.NewWithWriter(buf))
}

func tx(id string, amount int64) domain.Transaction {
	return domain.Transaction{
		ID:       id,
		Date:     domain.NewDate(2024, time.June, 12),
		Amount:   decimal.NewFromInt(amount),
		Category: domain.CategoryBills,
		Type:     domain.Debit,
	}
}

func TestApply_InsertAndReplace(t *testing.T) {
	s := store.NewMemoryWith([]domain.Transaction{tx("a", 100), tx("b", 50)})
	buf := &bytes.Buffer{}

	res := Apply(testContext(buf), s, []domain.Transaction{tx("a", 90), tx("b", 50), tx("c", 10)})

	want := Result{Inserted: 1, Replaced: 1, Unchanged: 1}
	if res != want {
		t.Errorf("Apply result = %+v, want %+v", res, want)
	}
	got, _ := s.Transaction("a")
	if !got.Amount.Equal(decimal.NewFromInt(90)) {
		t.Errorf("a.Amount = %s, want 90", got.Amount)
	}
	if len(s.Transactions()) != 3 {
		t.Errorf("store size = %d, want 3", len(s.Transactions()))
	}
}

func TestApply_Idempotent(t *testing.T) {
	s := store.NewMemoryWith([]domain.Transaction{tx("a", 100)})
	corrected := []domain.Transaction{tx("a", 80), tx("new", 20)}
	ctx := testContext(&bytes.Buffer{})

	first := Apply(ctx, s, corrected)
	if !first.Changed() {
		t.Fatal("first application should change the store")
	}
	afterFirst := s.Transactions()

	second := Apply(ctx, s, corrected)
	if second.Changed() {
		t.Errorf("second application should not change the store: %+v", second)
	}
	if second.Unchanged != len(corrected) {
		t.Errorf("Unchanged = %d, want %d", second.Unchanged, len(corrected))
	}
	if diff := cmp.Diff(afterFirst, s.Transactions(), decimalComparer); diff != "" {
		t.Errorf("store changed on second application (-first +second):\n%s", diff)
	}
}

func TestApply_SkipsInvalid(t *testing.T) {
	s := store.NewMemory()
	buf := &bytes.Buffer{}

	bad := tx("bad", 10)
	bad.Amount = decimal.NewFromInt(-10)

	res := Apply(testContext(buf), s, []domain.Transaction{bad, tx("ok", 5)})

	if res.Skipped != 1 || res.Inserted != 1 {
		t.Errorf("Apply result = %+v, want 1 skipped and 1 inserted", res)
	}
	if _, ok := s.Transaction("bad"); ok {
		t.Error("invalid record should not be stored")
	}
	if !strings.Contains(buf.String(), "Skipping invalid corrected transaction") {
		t.Errorf("expected skip to be logged, got: %s", buf.String())
	}
}

func TestApply_Empty(t *testing.T) {
	s := store.NewMemoryWith([]domain.Transaction{tx("a", 1)})
	if res := Apply(testContext(&bytes.Buffer{}), s, nil); res != (Result{}) {
		t.Errorf("empty list should be a no-op, got %+v", res)
	}
}
