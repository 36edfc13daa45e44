// backend/src/parsers/csv.go
package parsers

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"

	"github.com/username/cryptofolio/backend/src/models"
)

type CSVParser struct{}

func NewCSVParser() *CSVParser {
	return &CSVParser{}
}

// Parse reads a ledger CSV with a header row. Columns are matched by name,
// case-insensitively, so exports with reordered columns still load. Expected
// columns: Asset, Date, Type, Amount, Price, Fees and the optional buy_id.
func (p *CSVParser) Parse(file io.Reader) ([]models.Transaction, error) {
	reader := csv.NewReader(file)
	reader.FieldsPerRecord = -1
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("failed to read CSV header: %w", err)
	}

	cols := make(map[string]int, len(header))
	for i, name := range header {
		cols[strings.ToLower(strings.TrimSpace(name))] = i
	}
	for _, required := range []string{"asset", "date", "type"} {
		if _, ok := cols[required]; !ok {
			return nil, fmt.Errorf("CSV header missing required column %q", required)
		}
	}

	field := func(record []string, name string) string {
		idx, ok := cols[name]
		if !ok || idx >= len(record) {
			return ""
		}
		return record[idx]
	}

	var txs []models.Transaction
	row := 0
	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("failed to read CSV record: %w", err)
		}
		row++

		date, err := parseDate(field(record, "date"))
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}

		txs = append(txs, models.Transaction{
			Asset:       strings.TrimSpace(field(record, "asset")),
			Date:        date,
			Type:        strings.TrimSpace(field(record, "type")),
			Amount:      coerceFloat(field(record, "amount")),
			Price:       coerceFloat(field(record, "price")),
			Fees:        coerceFloat(field(record, "fees")),
			LinkedBuyID: coerceOptionalInt(field(record, "buy_id")),
		})
	}

	return txs, nil
}
