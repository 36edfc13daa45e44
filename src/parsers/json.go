// backend/src/parsers/json.go
package parsers

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/username/cryptofolio/backend/src/models"
)

type JSONParser struct{}

func NewJSONParser() *JSONParser {
	return &JSONParser{}
}

// jsonRow mirrors one ledger object. Values arrive as arbitrary JSON types
// (numbers, quoted numbers, nulls) so everything funnels through the same
// coercion as the CSV path.
type jsonRow struct {
	Asset  string          `json:"Asset"`
	Date   string          `json:"Date"`
	Type   string          `json:"Type"`
	Amount json.RawMessage `json:"Amount"`
	Price  json.RawMessage `json:"Price"`
	Fees   json.RawMessage `json:"Fees"`
	BuyID  json.RawMessage `json:"buy_id"`
}

// Parse reads a ledger as a JSON array of row objects.
func (p *JSONParser) Parse(file io.Reader) ([]models.Transaction, error) {
	var rows []jsonRow
	if err := json.NewDecoder(file).Decode(&rows); err != nil {
		return nil, fmt.Errorf("failed to decode JSON ledger: %w", err)
	}

	var txs []models.Transaction
	for i, row := range rows {
		date, err := parseDate(row.Date)
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i+1, err)
		}

		txs = append(txs, models.Transaction{
			Asset:       strings.TrimSpace(row.Asset),
			Date:        date,
			Type:        strings.TrimSpace(row.Type),
			Amount:      coerceFloat(rawScalar(row.Amount)),
			Price:       coerceFloat(rawScalar(row.Price)),
			Fees:        coerceFloat(rawScalar(row.Fees)),
			LinkedBuyID: coerceOptionalInt(rawScalar(row.BuyID)),
		})
	}

	return txs, nil
}

// rawScalar renders a raw JSON value as the string the coercion helpers
// expect, stripping quotes and mapping null to empty.
func rawScalar(raw json.RawMessage) string {
	s := strings.TrimSpace(string(raw))
	if s == "" || s == "null" {
		return ""
	}
	return strings.Trim(s, `"`)
}
