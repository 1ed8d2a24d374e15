package importer

import (
	"bytes"
	"fmt"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	catalog "github.com/ridloal/factory-inventory/internal/catalog/domain"
	"github.com/ridloal/factory-inventory/internal/platform/apperror"
	"github.com/ridloal/factory-inventory/internal/quotation/domain"
)

func buildWorkbook(t *testing.T, rows [][]interface{}) *bytes.Buffer {
	t.Helper()
	f := excelize.NewFile()
	defer f.Close()
	for i, row := range rows {
		if len(row) == 0 {
			continue
		}
		r := row
		require.NoError(t, f.SetSheetRow("Sheet1", fmt.Sprintf("A%d", i+1), &r))
	}
	buf, err := f.WriteToBuffer()
	require.NoError(t, err)
	return buf
}

var catalogFixture = []catalog.Product{
	{ID: "p1", Code: "ST001", Name: "Steel Rod 10mm", UnitPrice: decimal.RequireFromString("25.50")},
	{ID: "p2", Code: "AL002", Name: "Aluminum Sheet 2mm", UnitPrice: decimal.RequireFromString("45.00")},
}

func TestCheckFileName(t *testing.T) {
	assert.NoError(t, CheckFileName("quote.xlsx"))
	assert.NoError(t, CheckFileName("QUOTE.XLS"))
	assert.True(t, apperror.Is(CheckFileName("quote.csv"), apperror.KindValidation))
	assert.True(t, apperror.Is(CheckFileName("quote"), apperror.KindValidation))
}

func TestParse(t *testing.T) {
	t.Run("Reads rows below the header", func(t *testing.T) {
		buf := buildWorkbook(t, [][]interface{}{
			{"Customer quotation request"},
			{"Product Code", "Product Name", "Specs", "Qty"},
			{"CSC001", "Custom Steel Component", "Grade A", 10},
			{"ST001", "Steel Rod 10mm", "", 20},
			{},
			{"SAP001", "Special Aluminum Part", "", "5"},
		})

		rows, err := Parse(buf, "quote.xlsx")

		require.NoError(t, err)
		require.Len(t, rows, 3)
		assert.Equal(t, Row{Index: 1, Code: "CSC001", Name: "Custom Steel Component", Specifications: "Grade A", Quantity: 10}, rows[0])
		assert.Equal(t, 2, rows[1].Index)
		assert.Equal(t, 4, rows[2].Index)
		assert.Equal(t, 5, rows[2].Quantity)
	})

	t.Run("Malformed rows are kept with issues", func(t *testing.T) {
		buf := buildWorkbook(t, [][]interface{}{
			{"code", "name", "quantity"},
			{"ST001", "", "ten"},
			{"", "", 3},
			{"AL002", "", 2.5},
			{"AL002", "", -1},
			{"AL002", "", "1,200"},
		})

		rows, err := Parse(buf, "quote.xlsx")

		require.NoError(t, err)
		require.Len(t, rows, 5)
		assert.Contains(t, rows[0].Issues[0], "not a number")
		assert.Equal(t, []string{"missing product code and name"}, rows[1].Issues)
		assert.Contains(t, rows[2].Issues[0], "whole number")
		assert.Contains(t, rows[3].Issues[0], "at least 1")
		assert.Empty(t, rows[4].Issues)
		assert.Equal(t, 1200, rows[4].Quantity)
	})

	t.Run("Quantities beyond the column range are flagged", func(t *testing.T) {
		buf := buildWorkbook(t, [][]interface{}{
			{"code", "quantity"},
			{"ST001", "18446744073709551616"},
			{"ST001", "99999999999999999999"},
			{"ST001", "1e30"},
			{"ST001", "2147483647"},
		})

		rows, err := Parse(buf, "quote.xlsx")

		require.NoError(t, err)
		require.Len(t, rows, 4)
		for _, r := range rows[:3] {
			assert.Equal(t, 0, r.Quantity, "row %d", r.Index)
			if assert.Len(t, r.Issues, 1, "row %d", r.Index) {
				assert.Contains(t, r.Issues[0], "exceeds the maximum")
			}
		}
		assert.Empty(t, rows[3].Issues)
		assert.Equal(t, 2147483647, rows[3].Quantity)
	})

	t.Run("Missing header", func(t *testing.T) {
		buf := buildWorkbook(t, [][]interface{}{{"foo", "bar"}, {"1", "2"}})

		_, err := Parse(buf, "quote.xlsx")

		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("Not a workbook", func(t *testing.T) {
		_, err := Parse(strings.NewReader("plain text"), "quote.xlsx")

		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})

	t.Run("Wrong extension is rejected before reading", func(t *testing.T) {
		_, err := Parse(strings.NewReader(""), "quote.pdf")

		assert.True(t, apperror.Is(err, apperror.KindValidation))
	})
}

func TestPartition(t *testing.T) {
	rows := []Row{
		{Index: 1, Code: "CSC001", Name: "Custom Steel Component", Quantity: 10},
		{Index: 2, Code: "st001", Quantity: 20},
		{Index: 3, Code: "SAP001", Name: "Special Aluminum Part", Quantity: 5},
		{Index: 4, Code: "", Name: "aluminum sheet 2MM", Quantity: 1},
		{Index: 5, Code: "ST001", Quantity: 0, Issues: []string{"missing quantity"}},
	}

	res := Partition("batch-1", rows, catalogFixture)

	t.Run("Every row lands in exactly one bucket", func(t *testing.T) {
		assert.Equal(t, len(rows), len(res.Matched)+len(res.Unmatched))
		seen := map[int]int{}
		for _, m := range res.Matched {
			seen[m.RowIndex]++
		}
		for _, u := range res.Unmatched {
			seen[u.RowIndex]++
		}
		for _, r := range rows {
			assert.Equal(t, 1, seen[r.Index], "row %d", r.Index)
		}
	})

	t.Run("Oversized quantity row is kept for reconciliation", func(t *testing.T) {
		buf := buildWorkbook(t, [][]interface{}{{"code", "quantity"}, {"ST001", "18446744073709551616"}})
		parsed, err := Parse(buf, "quote.xlsx")
		require.NoError(t, err)

		out := Partition("batch-2", parsed, catalogFixture)
		wb := domain.NewWorkbench("q-1", nil)
		wb.ApplyImport(out, time.Now())

		assert.Empty(t, out.Matched)
		require.Len(t, out.Unmatched, 1)
		assert.Equal(t, 0, wb.Ledger.Len())
		assert.Equal(t, 1, wb.Queue.Len())
	})

	t.Run("Row without a usable quantity never matches", func(t *testing.T) {
		out := Partition("batch-3", []Row{{Index: 1, Code: "ST001"}}, catalogFixture)

		assert.Empty(t, out.Matched)
		require.Len(t, out.Unmatched, 1)
		assert.Equal(t, []string{"quantity must be at least 1"}, out.Unmatched[0].Issues)
	})

	t.Run("Code first, then name", func(t *testing.T) {
		require.Len(t, res.Matched, 2)
		assert.Equal(t, "p1", res.Matched[0].Product.ID)
		assert.Equal(t, 20, res.Matched[0].Quantity)
		assert.Equal(t, "p2", res.Matched[1].Product.ID)
	})

	t.Run("Unmatched rows keep their data", func(t *testing.T) {
		require.Len(t, res.Unmatched, 3)
		assert.Equal(t, 1, res.Unmatched[0].RowIndex)
		assert.Equal(t, "Custom Steel Component", res.Unmatched[0].ProductName)
		assert.Equal(t, 3, res.Unmatched[1].RowIndex)
		assert.Equal(t, []string{"missing quantity"}, res.Unmatched[2].Issues)
	})

	t.Run("Deterministic", func(t *testing.T) {
		assert.Equal(t, res, Partition("batch-1", rows, catalogFixture))
	})
}
