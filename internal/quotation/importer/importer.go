// Package importer turns an uploaded quotation spreadsheet into matched line
// items and unmatched rows.
package importer

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"

	catalog "github.com/ridloal/factory-inventory/internal/catalog/domain"
	"github.com/ridloal/factory-inventory/internal/platform/apperror"
	"github.com/ridloal/factory-inventory/internal/quotation/domain"
)

const headerSearchDepth = 10

var maxQuantity = decimal.NewFromInt(domain.MaxQuantity)

var allowedExtensions = map[string]bool{".xlsx": true, ".xls": true}

type column int

const (
	colCode column = iota
	colName
	colSpecs
	colQuantity
)

var headerAliases = map[string]column{
	"code":           colCode,
	"product code":   colCode,
	"item code":      colCode,
	"sku":            colCode,
	"part number":    colCode,
	"part no":        colCode,
	"name":           colName,
	"product name":   colName,
	"product":        colName,
	"item":           colName,
	"item name":      colName,
	"specifications": colSpecs,
	"specification":  colSpecs,
	"spec":           colSpecs,
	"specs":          colSpecs,
	"description":    colSpecs,
	"quantity":       colQuantity,
	"qty":            colQuantity,
}

// Row is one non-blank data row. Index is the 1-based position below the
// header row, so blank rows still consume an index.
type Row struct {
	Index          int
	Code           string
	Name           string
	Specifications string
	Quantity       int
	Issues         []string
}

// CheckFileName applies the upload extension filter.
func CheckFileName(name string) error {
	ext := strings.ToLower(filepath.Ext(name))
	if !allowedExtensions[ext] {
		return apperror.Validation("only .xlsx and .xls files are accepted", map[string]string{"file": "extension"})
	}
	return nil
}

func normalizeHeader(s string) string {
	s = strings.ToLower(strings.TrimSpace(s))
	s = strings.NewReplacer("_", " ", "-", " ", ".", " ").Replace(s)
	return strings.Join(strings.Fields(s), " ")
}

// Parse reads the first sheet of the workbook. A workbook that cannot be
// opened, or that has no recognisable header, fails as a whole; problems in
// individual rows are recorded on the row.
func Parse(r io.Reader, fileName string) ([]Row, error) {
	if err := CheckFileName(fileName); err != nil {
		return nil, err
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, &apperror.Error{Kind: apperror.KindValidation, Message: "unreadable workbook", Err: err}
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, &apperror.Error{Kind: apperror.KindValidation, Message: "unreadable worksheet", Err: err}
	}

	headerAt, cols := findHeader(rows)
	if headerAt < 0 {
		return nil, apperror.Validation("sheet needs a quantity column and a code or name column", map[string]string{"file": "header"})
	}

	var out []Row
	for i := headerAt + 1; i < len(rows); i++ {
		cells := rows[i]
		get := func(c column) string {
			idx, ok := cols[c]
			if !ok || idx >= len(cells) {
				return ""
			}
			return strings.TrimSpace(cells[idx])
		}

		row := Row{
			Index:          i - headerAt,
			Code:           get(colCode),
			Name:           get(colName),
			Specifications: get(colSpecs),
		}
		rawQty := get(colQuantity)
		if row.Code == "" && row.Name == "" && row.Specifications == "" && rawQty == "" {
			continue
		}

		if row.Code == "" && row.Name == "" {
			row.Issues = append(row.Issues, "missing product code and name")
		}
		qty, issue := parseQuantity(rawQty)
		row.Quantity = qty
		if issue != "" {
			row.Issues = append(row.Issues, issue)
		}
		out = append(out, row)
	}
	return out, nil
}

func findHeader(rows [][]string) (int, map[column]int) {
	for i := 0; i < len(rows) && i < headerSearchDepth; i++ {
		cols := make(map[column]int)
		for j, cell := range rows[i] {
			c, ok := headerAliases[normalizeHeader(cell)]
			if !ok {
				continue
			}
			if _, dup := cols[c]; !dup {
				cols[c] = j
			}
		}
		_, hasQty := cols[colQuantity]
		_, hasCode := cols[colCode]
		_, hasName := cols[colName]
		if hasQty && (hasCode || hasName) {
			return i, cols
		}
	}
	return -1, nil
}

// parseQuantity accepts whole numbers, including spreadsheet renderings such
// as "10.0" or "1,200".
func parseQuantity(raw string) (int, string) {
	if raw == "" {
		return 0, "missing quantity"
	}
	d, err := decimal.NewFromString(strings.ReplaceAll(raw, ",", ""))
	if err != nil {
		return 0, fmt.Sprintf("quantity %q is not a number", raw)
	}
	if !d.Equal(d.Truncate(0)) {
		return 0, fmt.Sprintf("quantity %q is not a whole number", raw)
	}
	if !d.IsPositive() {
		return 0, fmt.Sprintf("quantity %q must be at least 1", raw)
	}
	if d.GreaterThan(maxQuantity) {
		return 0, fmt.Sprintf("quantity %q exceeds the maximum of %d", raw, domain.MaxQuantity)
	}
	return int(d.IntPart()), ""
}

// Partition ties every row to exactly one outcome. Rows carrying issues or no
// positive quantity are always unmatched; the rest match by code first, then
// by exact name, both case-insensitive. The result depends only on rows and
// products.
func Partition(batchID string, rows []Row, products []catalog.Product) domain.ImportResult {
	byCode := make(map[string]catalog.Product, len(products))
	byName := make(map[string]catalog.Product, len(products))
	for _, p := range products {
		code := strings.ToLower(strings.TrimSpace(p.Code))
		if _, ok := byCode[code]; !ok && code != "" {
			byCode[code] = p
		}
		name := strings.ToLower(strings.TrimSpace(p.Name))
		if _, ok := byName[name]; !ok && name != "" {
			byName[name] = p
		}
	}

	res := domain.ImportResult{
		BatchID:   batchID,
		Rows:      len(rows),
		Matched:   []domain.MatchedRow{},
		Unmatched: []domain.UnmatchedEntry{},
	}
	for _, row := range rows {
		if len(row.Issues) == 0 && row.Quantity <= 0 {
			row.Issues = []string{"quantity must be at least 1"}
		}
		if len(row.Issues) == 0 {
			p, ok := byCode[strings.ToLower(row.Code)]
			if !ok && row.Name != "" {
				p, ok = byName[strings.ToLower(row.Name)]
			}
			if ok {
				res.Matched = append(res.Matched, domain.MatchedRow{RowIndex: row.Index, Product: p, Quantity: row.Quantity})
				continue
			}
		}

		issues := row.Issues
		if len(issues) == 0 {
			issues = []string{"no catalog product with this code or name"}
		}
		res.Unmatched = append(res.Unmatched, domain.UnmatchedEntry{
			RowIndex:       row.Index,
			ProductName:    row.Name,
			Code:           row.Code,
			Specifications: row.Specifications,
			Quantity:       row.Quantity,
			Issues:         issues,
		})
	}
	return res
}
