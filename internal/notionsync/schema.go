package notionsync

import (
	"context"
	"fmt"
	"sort"

	"github.com/jomei/notionapi"

	"github.com/dvloznov/finance-dashboard/internal/accrual"
	"github.com/dvloznov/finance-dashboard/internal/domain"
	"github.com/dvloznov/finance-dashboard/internal/logger"
)

// propertyConfigs is the column set written by TransactionToNotionProperties,
// minus the title column every database already has.
func propertyConfigs() notionapi.PropertyConfigs {
	categories := make([]notionapi.Option, 0, len(accrual.Categories()))
	for _, c := range accrual.Categories() {
		categories = append(categories, notionapi.Option{Name: string(c)})
	}

	return notionapi.PropertyConfigs{
		propTransactionID: notionapi.RichTextPropertyConfig{
			Type: notionapi.PropertyConfigTypeRichText,
		},
		propDate: notionapi.DatePropertyConfig{
			Type: notionapi.PropertyConfigTypeDate,
		},
		propDueDate: notionapi.DatePropertyConfig{
			Type: notionapi.PropertyConfigTypeDate,
		},
		propAmount: notionapi.NumberPropertyConfig{
			Type:   notionapi.PropertyConfigTypeNumber,
			Number: notionapi.NumberFormat{Format: notionapi.FormatNumber},
		},
		propCashEffect: notionapi.NumberPropertyConfig{
			Type:   notionapi.PropertyConfigTypeNumber,
			Number: notionapi.NumberFormat{Format: notionapi.FormatNumber},
		},
		propCategory: notionapi.SelectPropertyConfig{
			Type:   notionapi.PropertyConfigTypeSelect,
			Select: notionapi.Select{Options: categories},
		},
		propType: notionapi.SelectPropertyConfig{
			Type: notionapi.PropertyConfigTypeSelect,
			Select: notionapi.Select{Options: []notionapi.Option{
				{Name: string(domain.Credit)},
				{Name: string(domain.Debit)},
			}},
		},
		propDashboardCategory: notionapi.SelectPropertyConfig{
			Type: notionapi.PropertyConfigTypeSelect,
		},
		propVendor: notionapi.RichTextPropertyConfig{
			Type: notionapi.PropertyConfigTypeRichText,
		},
	}
}

// EnsureSchema adds the transaction columns missing from the database and
// returns their names, sorted. The title column must already be named
// "Description".
func EnsureSchema(ctx context.Context, notionClient NotionService, databaseID string) ([]string, error) {
	log := logger.FromContext(ctx)

	db, err := notionClient.GetDatabase(ctx, databaseID)
	if err != nil {
		return nil, fmt.Errorf("EnsureSchema: %w", err)
	}

	if _, ok := db.Properties[propDescription]; !ok {
		log.Warn().
			Str("database_id", databaseID).
			Msg("Notion database has no Description title column; page writes may fail")
	}

	missing := notionapi.PropertyConfigs{}
	var names []string
	for name, cfg := range propertyConfigs() {
		if _, ok := db.Properties[name]; ok {
			continue
		}
		missing[name] = cfg
		names = append(names, name)
	}
	sort.Strings(names)

	if len(missing) == 0 {
		return nil, nil
	}

	if err := notionClient.AddDatabaseProperties(ctx, databaseID, missing); err != nil {
		return nil, fmt.Errorf("EnsureSchema: %w", err)
	}

	log.Info().Strs("properties", names).Msg("Added missing Notion database properties")
	return names, nil
}
