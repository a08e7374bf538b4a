package stats

import (
	"fmt"
	"io"
	"sort"

	"github.com/gocarina/gocsv"

	"github.com/hamyonapp/hamyon/internal/model"
	"github.com/hamyonapp/hamyon/internal/nlp"
	"github.com/hamyonapp/hamyon/internal/service"
)

// ExportRow is one CSV line of a transaction export.
type ExportRow struct {
	Date        string `csv:"Date"`
	Description string `csv:"Description"`
	Amount      int64  `csv:"Amount"`
	Category    string `csv:"Category"`
	Source      string `csv:"Source"`
}

// ExportRows converts ledger rows into CSV rows. Categories are rendered
// with their Uzbek display name; passthrough keys stay as-is.
func ExportRows(txs []model.Transaction, vocab *nlp.Vocabulary) []ExportRow {
	rows := make([]ExportRow, 0, len(txs))
	for _, tx := range txs {
		rows = append(rows, ExportRow{
			Date:        tx.Date.Format("2006-01-02"),
			Description: tx.Description,
			Amount:      tx.Amount,
			Category:    vocab.Label(tx.Category, model.LangUz),
			Source:      string(tx.Source),
		})
	}
	return rows
}

// WriteCSV writes the rows as CSV, header included.
func WriteCSV(w io.Writer, rows []ExportRow) error {
	if err := gocsv.Marshal(rows, w); err != nil {
		return fmt.Errorf("writing csv: %w", err)
	}
	return nil
}

// CategoryShare is one category's total within a period report.
type CategoryShare struct {
	Category string
	Amount   int64
}

// TopCategories returns the period's expense categories, largest first,
// capped at n. Ties break on the category key so output is stable.
func TopCategories(stats *service.PeriodStats, n int) []CategoryShare {
	shares := make([]CategoryShare, 0, len(stats.ByCategory))
	for category, amount := range stats.ByCategory {
		shares = append(shares, CategoryShare{Category: category, Amount: amount})
	}
	sort.Slice(shares, func(i, j int) bool {
		if shares[i].Amount == shares[j].Amount {
			return shares[i].Category < shares[j].Category
		}
		return shares[i].Amount > shares[j].Amount
	})
	if n > 0 && len(shares) > n {
		shares = shares[:n]
	}
	return shares
}
