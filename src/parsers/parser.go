// backend/src/parsers/parser.go
package parsers

import (
	"fmt"
	"io"
	"strings"

	"github.com/username/cryptofolio/backend/src/models"
)

// Parser turns an uploaded ledger file into transactions, in file order.
// IDs are not assigned here; the gains service numbers rows sequentially so
// buy_id references stay stable.
type Parser interface {
	Parse(file io.Reader) ([]models.Transaction, error)
}

// GetParser selects a parser from the uploaded filename's extension.
func GetParser(filename string) (Parser, error) {
	switch {
	case strings.HasSuffix(strings.ToLower(filename), ".csv"):
		return NewCSVParser(), nil
	case strings.HasSuffix(strings.ToLower(filename), ".json"):
		return NewJSONParser(), nil
	default:
		return nil, fmt.Errorf("unsupported file type: %s", filename)
	}
}
