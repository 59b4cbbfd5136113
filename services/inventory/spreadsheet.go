package inventory

import (
	"context"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"github.com/junaidrashid-git/storefront-api/apperr"
	"github.com/tealeg/xlsx"
	"gorm.io/gorm"
)

// TopUp is one row of a bulk stock import.
type TopUp struct {
	Row      int
	StockID  uint
	Quantity int
}

var exportHeaders = []string{"StockID", "ProductID", "ProductName", "Quantity", "TimesPurchased"}

// WriteXLSX renders stock rows as a single-sheet workbook.
func WriteXLSX(w io.Writer, views []StockView) error {
	file := xlsx.NewFile()
	sheet, err := file.AddSheet("Stock")
	if err != nil {
		return err
	}

	header := sheet.AddRow()
	for _, h := range exportHeaders {
		header.AddCell().SetValue(h)
	}

	for _, v := range views {
		row := sheet.AddRow()
		row.AddCell().SetValue(v.ID)
		row.AddCell().SetValue(v.ProductID)
		row.AddCell().SetValue(v.ProductName)
		row.AddCell().SetValue(v.Quantity)
		row.AddCell().SetValue(v.TimesPurchased)
	}

	return file.Write(w)
}

// ParseTopUps reads (stock id, quantity) pairs from the first sheet,
// skipping the header row. Blank rows are ignored; any malformed row
// rejects the whole file.
func ParseTopUps(r io.ReaderAt, size int64) ([]TopUp, error) {
	file, err := xlsx.OpenReaderAt(r, size)
	if err != nil {
		return nil, fmt.Errorf("failed to parse Excel file: %v: %w", err, apperr.ErrInvalidInput)
	}
	if len(file.Sheets) == 0 || file.Sheets[0].MaxRow < 2 {
		return nil, fmt.Errorf("excel file is empty or missing header row: %w", apperr.ErrInvalidInput)
	}

	sheet := file.Sheets[0]
	var topUps []TopUp
	for i := 1; i < sheet.MaxRow; i++ {
		row := sheet.Rows[i]
		get := func(idx int) string {
			if row != nil && idx < len(row.Cells) {
				return strings.TrimSpace(row.Cells[idx].String())
			}
			return ""
		}

		idStr, qtyStr := get(0), get(1)
		if idStr == "" && qtyStr == "" {
			continue
		}

		id, err := strconv.ParseUint(idStr, 10, 64)
		if err != nil || id == 0 {
			return nil, fmt.Errorf("row %d: invalid stock id %q: %w", i+1, idStr, apperr.ErrInvalidInput)
		}
		qty, err := strconv.Atoi(qtyStr)
		if err != nil || qty <= 0 {
			return nil, fmt.Errorf("row %d: quantity %q: %w", i+1, qtyStr, apperr.ErrInvalidQuantity)
		}
		topUps = append(topUps, TopUp{Row: i + 1, StockID: uint(id), Quantity: qty})
	}
	return topUps, nil
}

// ApplyTopUps increases every listed stock row in one transaction, in
// ascending stock id order. One failing row rolls back all of them.
func (l *Ledger) ApplyTopUps(ctx context.Context, topUps []TopUp) (int, error) {
	ordered := make([]TopUp, len(topUps))
	copy(ordered, topUps)
	sort.SliceStable(ordered, func(i, j int) bool { return ordered[i].StockID < ordered[j].StockID })

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		txLedger := l.WithTx(tx)
		for _, t := range ordered {
			if _, err := txLedger.Increase(ctx, t.StockID, t.Quantity); err != nil {
				return fmt.Errorf("row %d: %w", t.Row, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	l.log.Info("stock top-up imported", "rows", len(ordered))
	return len(ordered), nil
}
