package services

import (
	"errors"
	"io"

	"github.com/username/cryptofolio/backend/src/models"
)

var (
	ErrParsingFailed    = errors.New("ledger parsing failed")
	ErrProcessingFailed = errors.New("gains processing failed")
)

// PriceFetcher is the external price-lookup capability. ids are provider
// canonical ids (e.g. "bitcoin"), not ledger symbols. A fetch may fail; the
// valuation layer absorbs the failure.
type PriceFetcher interface {
	Fetch(ids []string, vsCurrency string) (map[string]float64, error)
}

// PriceService resolves current market prices for a set of asset symbols in
// a quote currency. It always returns a complete mapping: a price that can
// be neither fetched nor found in cache comes back as 0.
type PriceService interface {
	GetCurrentPrices(symbols []string, vsCurrency string) map[string]float64
}

// GainsService is the core calculation surface consumed by the handlers.
type GainsService interface {
	// ProcessUpload parses an uploaded ledger file, replaces the persisted
	// ledger with it and returns the computed gains for the country.
	ProcessUpload(fileReader io.Reader, filename string, country string) (*models.GainsResult, error)
	// CalculateGains runs the full computation over an in-memory ledger.
	CalculateGains(transactions []models.Transaction, country string) *models.GainsResult
	// GetLatestResult recomputes gains from the persisted ledger.
	GetLatestResult(country string) (*models.GainsResult, error)
	// DeleteAllTransactions clears the persisted ledger.
	DeleteAllTransactions() error
}
