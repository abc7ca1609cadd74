package catalog

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"

	enc "github.com/michaelschaepers/coolsulting-testing-area/internal/encoding"
	"github.com/michaelschaepers/coolsulting-testing-area/internal/quote"
)

const (
	colArticle     = "Artikelnummer"
	colDescription = "Bezeichnung"
	colPrice       = "Listenpreis"
	colGroup       = "Artikelgruppe"
)

// Accessory lists carry no usable header; article, description and price
// sit in fixed columns.
const (
	accArticle     = 0
	accDescription = 1
	accPrice       = 4
)

// Load reads both price lists. An empty path skips that list.
func Load(equipmentPath, accessoryPath string) (*Catalog, error) {
	var c Catalog

	if equipmentPath != "" {
		rows, err := readFile(equipmentPath)
		if err != nil {
			return nil, fmt.Errorf("loading equipment: %w", err)
		}

		if c.Equipment, err = ParseEquipment(rows); err != nil {
			return nil, fmt.Errorf("loading equipment: %w", err)
		}
	}

	if accessoryPath != "" {
		rows, err := readFile(accessoryPath)
		if err != nil {
			return nil, fmt.Errorf("loading accessories: %w", err)
		}

		c.Accessories = ParseAccessories(rows)
	}

	return &c, nil
}

func readFile(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	return ReadRows(path, f)
}

// ReadRows picks the reader by the extension of name: workbooks for .xlsx,
// CSV otherwise.
func ReadRows(name string, r io.Reader) ([][]string, error) {
	if strings.EqualFold(filepath.Ext(name), ".xlsx") {
		return ReadXLSX(r)
	}

	return ReadCSV(r)
}

// ReadXLSX returns the rows of the first worksheet.
func ReadXLSX(r io.Reader) ([][]string, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}

	rows, err := f.GetRows(sheets[0], excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %s: %w", sheets[0], err)
	}

	return rows, nil
}

// ReadCSV decodes r to UTF-8 and splits it on the separator used in its
// first line (';' or ',').
func ReadCSV(r io.Reader) ([][]string, error) {
	utf8r, err := enc.NewUTF8Reader(r)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	data, err := io.ReadAll(utf8r)
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = enc.DetectSeparator(data)
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	rows, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}

	return rows, nil
}

// colIndex maps column names to their index in the row.
type colIndex map[string]int

// findHeader returns the first row containing every required column.
func findHeader(rows [][]string, required ...string) (colIndex, int, bool) {
	for rowIdx, row := range rows {
		cols := make(colIndex)

		for i, cell := range row {
			if name := strings.TrimSpace(cell); name != "" {
				cols[name] = i
			}
		}

		if hasAll(cols, required) {
			return cols, rowIdx, true
		}
	}

	return nil, 0, false
}

func hasAll(cols colIndex, names []string) bool {
	for _, n := range names {
		if _, ok := cols[n]; !ok {
			return false
		}
	}

	return true
}

// ParseEquipment maps rows with an Artikelnummer/Bezeichnung/Listenpreis
// header onto products. Rows without an article number are skipped.
func ParseEquipment(rows [][]string) ([]Product, error) {
	cols, headerIdx, ok := findHeader(rows, colArticle, colDescription, colPrice)
	if !ok {
		return nil, fmt.Errorf("no header with columns %s, %s, %s", colArticle, colDescription, colPrice)
	}

	groupIdx := -1
	if i, ok := cols[colGroup]; ok {
		groupIdx = i
	}

	var products []Product

	for _, row := range rows[headerIdx+1:] {
		article := quote.NormalizeSKU(cellValue(row, cols[colArticle]))
		if article == "" {
			continue
		}

		desc := cellValue(row, cols[colDescription])
		group := cellValue(row, groupIdx)
		price := quote.ParseNumber(cellValue(row, cols[colPrice]))
		system, kind := classify(group, desc)

		products = append(products, Product{
			Article:        article,
			Description:    desc,
			Price:          price.Value,
			Group:          group,
			System:         system,
			Kind:           kind,
			PriceRecovered: price.Recovered,
		})
	}

	return products, nil
}

// ParseAccessories reads article, description and price from fixed columns,
// treating the first row as a header. Lists with fewer than five columns
// yield nothing.
func ParseAccessories(rows [][]string) []Product {
	if len(rows) < 2 || len(rows[0]) <= accPrice {
		return nil
	}

	var products []Product

	for _, row := range rows[1:] {
		article := quote.NormalizeSKU(cellValue(row, accArticle))
		desc := cellValue(row, accDescription)

		if article == "" && desc == "" {
			continue
		}

		if article == "" {
			article = "-"
		}

		price := quote.ParseNumber(cellValue(row, accPrice))

		products = append(products, Product{
			Article:        article,
			Description:    desc,
			Price:          price.Value,
			Kind:           quote.KindAccessory,
			PriceRecovered: price.Recovered,
		})
	}

	return products
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}
