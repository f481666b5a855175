package notionsync

import (
	"time"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/finance-dashboard/internal/accrual"
	"github.com/dvloznov/finance-dashboard/internal/domain"
)

// Property names of the transactions database.
const (
	propDescription       = "Description"
	propTransactionID     = "Transaction ID"
	propDate              = "Date"
	propAmount            = "Amount"
	propCategory          = "Category"
	propType              = "Type"
	propDashboardCategory = "Dashboard Category"
	propVendor            = "Vendor"
	propDueDate           = "Due Date"
	propCashEffect        = "Cash Effect"
)

func richText(content string) []notionapi.RichText {
	return []notionapi.RichText{
		{
			Type: notionapi.ObjectTypeText,
			Text: &notionapi.Text{
				Content: content,
			},
		},
	}
}

func dateProperty(d domain.Date) notionapi.DateProperty {
	start := notionapi.Date(time.Date(d.Year, d.Month, d.Day, 0, 0, 0, 0, time.UTC))
	return notionapi.DateProperty{
		Date: &notionapi.DateObject{Start: &start},
	}
}

// TransactionToNotionProperties converts a transaction to the properties of
// its mirror page.
func TransactionToNotionProperties(tx domain.Transaction) notionapi.Properties {
	description := tx.Description
	if description == "" {
		description = tx.ID
	}

	amount, _ := tx.Amount.Float64()
	cash, _ := accrual.Lookup(tx.Category).Effect(tx.Type).Cash.Mul(tx.Amount).Float64()

	props := notionapi.Properties{
		propDescription: notionapi.TitleProperty{
			Title: richText(description),
		},
		propTransactionID: notionapi.RichTextProperty{
			RichText: richText(tx.ID),
		},
		propAmount: notionapi.NumberProperty{
			Number: amount,
		},
		propCashEffect: notionapi.NumberProperty{
			Number: cash,
		},
		propCategory: notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(tx.Category)},
		},
		propType: notionapi.SelectProperty{
			Select: notionapi.Option{Name: string(tx.Type)},
		},
	}

	if !tx.Date.IsZero() {
		props[propDate] = dateProperty(tx.Date)
	}

	if tx.DueDate != nil && !tx.DueDate.IsZero() {
		props[propDueDate] = dateProperty(*tx.DueDate)
	}

	if tx.DashboardCategory != "" {
		props[propDashboardCategory] = notionapi.SelectProperty{
			Select: notionapi.Option{Name: tx.DashboardCategory},
		}
	}

	if tx.Vendor != "" {
		props[propVendor] = notionapi.RichTextProperty{
			RichText: richText(tx.Vendor),
		}
	}

	return props
}

// extractTransactionID extracts the transaction ID from a Notion page's properties.
// Returns empty string if not found.
func extractTransactionID(page notionapi.Page) string {
	prop, ok := page.Properties[propTransactionID]
	if !ok {
		return ""
	}

	var texts []notionapi.RichText
	switch p := prop.(type) {
	case *notionapi.RichTextProperty:
		texts = p.RichText
	case notionapi.RichTextProperty:
		texts = p.RichText
	}
	if len(texts) == 0 {
		return ""
	}
	if texts[0].PlainText != "" {
		return texts[0].PlainText
	}
	if texts[0].Text != nil {
		return texts[0].Text.Content
	}
	return ""
}
