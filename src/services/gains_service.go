// backend/src/services/gains_service.go
package services

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/username/cryptofolio/backend/src/database"
	"github.com/username/cryptofolio/backend/src/logger"
	"github.com/username/cryptofolio/backend/src/models"
	"github.com/username/cryptofolio/backend/src/parsers"
	"github.com/username/cryptofolio/backend/src/processors"
	"github.com/username/cryptofolio/backend/src/taxrules"
)

type gainsServiceImpl struct {
	priceService PriceService
	lotMatcher   *processors.LotMatcher
}

func NewGainsService(priceService PriceService, lotMatcher *processors.LotMatcher) GainsService {
	return &gainsServiceImpl{
		priceService: priceService,
		lotMatcher:   lotMatcher,
	}
}

// ProcessUpload parses the uploaded ledger, replaces the persisted ledger
// with it and computes gains for the requested country. Replacing rather
// than appending keeps buy_id row references coherent.
func (s *gainsServiceImpl) ProcessUpload(fileReader io.Reader, filename string, country string) (*models.GainsResult, error) {
	startTime := time.Now()
	logger.L.Info("ProcessUpload START", "filename", filename, "country", country)

	parser, err := parsers.GetParser(filename)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	transactions, err := parser.Parse(fileReader)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrParsingFailed, err)
	}

	result := s.CalculateGains(transactions, country)

	if err := s.replaceLedger(transactions); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrProcessingFailed, err)
	}

	logger.L.Info("ProcessUpload END", "filename", filename,
		"transactions", len(transactions), "duration", time.Since(startTime))
	return result, nil
}

// CalculateGains is the orchestrator: it numbers the rows, groups them by
// asset, matches sells against lots per asset, values the surviving lots at
// current market prices and aggregates the country's taxable figure and
// tips. Given the same ledger and a warm price cache the output is
// deterministic.
func (s *gainsServiceImpl) CalculateGains(transactions []models.Transaction, country string) *models.GainsResult {
	currencyCode, currencySymbol := taxrules.CurrencyForCountry(country)
	rate := taxrules.RateForCurrency(currencyCode)

	// Stable sequential ids in row order; buy_id references point at these.
	for i := range transactions {
		transactions[i].ID = i
	}

	// Group by asset, keeping first-seen order so output ordering is stable.
	byAsset := make(map[string][]models.Transaction)
	var assetOrder []string
	for _, tx := range transactions {
		if _, seen := byAsset[tx.Asset]; !seen {
			assetOrder = append(assetOrder, tx.Asset)
		}
		byAsset[tx.Asset] = append(byAsset[tx.Asset], tx)
	}

	currentPrices := s.priceService.GetCurrentPrices(assetOrder, strings.ToLower(currencyCode))

	realized := []models.RealizedGain{}
	unrealized := []models.UnrealizedGain{}

	for _, asset := range assetOrder {
		assetRealized, openLots := s.lotMatcher.Match(byAsset[asset], rate, country)
		realized = append(realized, assetRealized...)

		currentPrice := currentPrices[asset]
		for _, lot := range openLots {
			costBasis := lot.Amount*lot.Price*rate + lot.Fees*rate
			marketValue := lot.Amount * currentPrice
			unrealized = append(unrealized, models.UnrealizedGain{
				Asset:           asset,
				Amount:          lot.Amount,
				CostBasis:       costBasis,
				MarketValue:     marketValue,
				Gain:            marketValue - costBasis,
				CurrentPrice:    currentPrice,
				Date:            lot.Date.Format("2006-01-02"),
				TransactionType: models.TypeBuy,
			})
		}
	}

	return &models.GainsResult{
		RealizedGains:   realized,
		UnrealizedGains: unrealized,
		TaxableGain:     taxrules.TaxableGain(realized, country),
		CurrencySymbol:  currencySymbol,
		TaxSavingTips:   taxrules.TaxSavingTips(unrealized, country),
		Country:         country,
	}
}

// GetLatestResult recomputes gains from the persisted ledger. Prices come
// from the shared cache, so an unchanged ledger within the cache TTL yields
// an identical result.
func (s *gainsServiceImpl) GetLatestResult(country string) (*models.GainsResult, error) {
	rows, err := database.DB.Query(`SELECT asset, date, type, amount, price, fees, linked_buy_id FROM transactions ORDER BY id`)
	if err != nil {
		return nil, fmt.Errorf("error querying transactions: %w", err)
	}
	defer rows.Close()

	var transactions []models.Transaction
	for rows.Next() {
		var tx models.Transaction
		var dateStr string
		var linkedBuyID *int
		if err := rows.Scan(&tx.Asset, &dateStr, &tx.Type, &tx.Amount, &tx.Price, &tx.Fees, &linkedBuyID); err != nil {
			return nil, fmt.Errorf("error scanning transaction row: %w", err)
		}
		date, err := time.Parse(time.RFC3339, dateStr)
		if err != nil {
			return nil, fmt.Errorf("error parsing stored date %q: %w", dateStr, err)
		}
		tx.Date = date
		tx.LinkedBuyID = linkedBuyID
		transactions = append(transactions, tx)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating transaction rows: %w", err)
	}

	return s.CalculateGains(transactions, country), nil
}

// DeleteAllTransactions clears the persisted ledger.
func (s *gainsServiceImpl) DeleteAllTransactions() error {
	if _, err := database.DB.Exec(`DELETE FROM transactions`); err != nil {
		return fmt.Errorf("error deleting transactions: %w", err)
	}
	logger.L.Info("Deleted all persisted transactions")
	return nil
}

func (s *gainsServiceImpl) replaceLedger(transactions []models.Transaction) error {
	dbTx, err := database.DB.Begin()
	if err != nil {
		return fmt.Errorf("error beginning database transaction: %w", err)
	}
	defer dbTx.Rollback()

	if _, err := dbTx.Exec(`DELETE FROM transactions`); err != nil {
		return fmt.Errorf("error clearing previous ledger: %w", err)
	}

	stmt, err := dbTx.Prepare(`INSERT INTO transactions (id, asset, date, type, amount, price, fees, linked_buy_id) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("error preparing insert statement: %w", err)
	}
	defer stmt.Close()

	for _, tx := range transactions {
		var linkedBuyID interface{}
		if tx.LinkedBuyID != nil {
			linkedBuyID = *tx.LinkedBuyID
		}
		if _, err := stmt.Exec(tx.ID, tx.Asset, tx.Date.Format(time.RFC3339), tx.Type, tx.Amount, tx.Price, tx.Fees, linkedBuyID); err != nil {
			return fmt.Errorf("error inserting transaction (id %d): %w", tx.ID, err)
		}
	}

	return dbTx.Commit()
}
