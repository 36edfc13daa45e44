package services

import (
	"encoding/json"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/cryptofolio/backend/src/database"
	"github.com/username/cryptofolio/backend/src/models"
	"github.com/username/cryptofolio/backend/src/processors"
)

// stubPriceService returns fixed prices regardless of quote currency.
type stubPriceService struct {
	prices map[string]float64
}

func (s *stubPriceService) GetCurrentPrices(symbols []string, vsCurrency string) map[string]float64 {
	result := make(map[string]float64, len(symbols))
	for _, symbol := range symbols {
		result[symbol] = s.prices[symbol]
	}
	return result
}

func newTestGainsService(prices map[string]float64) GainsService {
	return NewGainsService(&stubPriceService{prices: prices}, processors.NewLotMatcher())
}

func tx(asset, typ string, date time.Time, amount, price, fees float64) models.Transaction {
	return models.Transaction{Asset: asset, Type: typ, Date: date, Amount: amount, Price: price, Fees: fees}
}

func TestCalculateGains_BuysOnlyAllUnrealized(t *testing.T) {
	svc := newTestGainsService(map[string]float64{"BTC": 100})
	txs := []models.Transaction{
		tx("BTC", "buy", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 2, 40, 3),
	}

	result := svc.CalculateGains(txs, "USA")

	assert.Empty(t, result.RealizedGains)
	require.Len(t, result.UnrealizedGains, 1)
	u := result.UnrealizedGains[0]
	assert.InDelta(t, 83.0, u.CostBasis, 1e-9) // 2x40x1 + 3x1
	assert.InDelta(t, 200.0, u.MarketValue, 1e-9)
	assert.InDelta(t, 117.0, u.Gain, 1e-9)
	assert.Equal(t, "2023-01-01", u.Date)
	assert.Equal(t, "$", result.CurrencySymbol)
	assert.Zero(t, result.TaxableGain)
	assert.Len(t, result.TaxSavingTips, 2) // profitable, so the generic pair
}

func TestCalculateGains_RealizedAndTaxableForIndia(t *testing.T) {
	svc := newTestGainsService(map[string]float64{"ETH": 0})
	txs := []models.Transaction{
		tx("ETH", "buy", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 1, 10, 0),
		tx("ETH", "sell", time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC), 1, 20, 0),
	}

	result := svc.CalculateGains(txs, "India")

	require.Len(t, result.RealizedGains, 1)
	r := result.RealizedGains[0]
	// INR rate 83 applies to both legs: proceeds 1x20x83, basis 1x10x83.
	assert.InDelta(t, 1660.0, r.Proceeds, 1e-6)
	assert.InDelta(t, 830.0, r.CostBasis, 1e-6)
	assert.InDelta(t, 830.0, r.Gain, 1e-6)
	assert.InDelta(t, 249.0, r.TaxOwed, 1e-6) // 30% flat
	assert.Equal(t, "₹", result.CurrencySymbol)
	assert.InDelta(t, 249.0, result.TaxableGain, 1e-6)
	assert.Equal(t, "India", result.Country)
}

func TestCalculateGains_GroupsPerAsset(t *testing.T) {
	svc := newTestGainsService(map[string]float64{"BTC": 100, "ETH": 50})
	txs := []models.Transaction{
		tx("BTC", "buy", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 1, 10, 0),
		tx("ETH", "buy", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), 1, 10, 0),
		// Sells only BTC; the ETH lot must be untouched by FIFO.
		tx("BTC", "sell", time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), 1, 30, 0),
	}

	result := svc.CalculateGains(txs, "USA")

	require.Len(t, result.RealizedGains, 1)
	assert.Equal(t, "BTC", result.RealizedGains[0].Asset)
	require.Len(t, result.UnrealizedGains, 1)
	assert.Equal(t, "ETH", result.UnrealizedGains[0].Asset)
}

func TestCalculateGains_ExplicitBuyIDCrossesRowOrder(t *testing.T) {
	svc := newTestGainsService(map[string]float64{"BTC": 100})
	linked := 1
	txs := []models.Transaction{
		tx("BTC", "buy", time.Date(2022, 1, 1, 0, 0, 0, 0, time.UTC), 1, 10, 0),
		tx("BTC", "buy", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 1, 50, 0),
		{Asset: "BTC", Type: "sell", Date: time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), Amount: 1, Price: 60, LinkedBuyID: &linked},
	}

	result := svc.CalculateGains(txs, "USA")

	require.Len(t, result.RealizedGains, 1)
	assert.InDelta(t, 50.0, result.RealizedGains[0].CostBasis, 1e-9)
	require.Len(t, result.UnrealizedGains, 1)
	assert.Equal(t, "2022-01-01", result.UnrealizedGains[0].Date)
}

func TestCalculateGains_UnknownCountryDefaults(t *testing.T) {
	svc := newTestGainsService(map[string]float64{"BTC": 0})
	txs := []models.Transaction{
		tx("BTC", "buy", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 1, 10, 0),
		tx("BTC", "sell", time.Date(2023, 2, 1, 0, 0, 0, 0, time.UTC), 1, 30, 0),
	}

	result := svc.CalculateGains(txs, "Atlantis")

	assert.Equal(t, "$", result.CurrencySymbol)
	require.Len(t, result.RealizedGains, 1)
	assert.Zero(t, result.RealizedGains[0].TaxOwed)
	assert.InDelta(t, 20.0, result.TaxableGain, 1e-9) // raw sum
	assert.Empty(t, result.TaxSavingTips)
}

func TestCalculateGains_Idempotent(t *testing.T) {
	svc := newTestGainsService(map[string]float64{"BTC": 100, "ETH": 5})
	build := func() []models.Transaction {
		return []models.Transaction{
			tx("BTC", "buy", time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC), 5, 10, 1),
			tx("ETH", "buy", time.Date(2023, 1, 2, 0, 0, 0, 0, time.UTC), 2, 20, 0),
			tx("BTC", "sell", time.Date(2023, 3, 1, 0, 0, 0, 0, time.UTC), 3, 30, 2),
		}
	}

	first, err := json.Marshal(svc.CalculateGains(build(), "UK"))
	require.NoError(t, err)
	second, err := json.Marshal(svc.CalculateGains(build(), "UK"))
	require.NoError(t, err)

	assert.Equal(t, string(first), string(second))
}

func TestProcessUpload_PersistsAndRecomputes(t *testing.T) {
	database.InitDB(filepath.Join(t.TempDir(), "test.db"))
	svc := newTestGainsService(map[string]float64{"BTC": 100})

	ledger := strings.Join([]string{
		"Asset,Date,Type,Amount,Price,Fees,buy_id",
		"BTC,2023-01-01,buy,5,10,1,",
		"BTC,2023-03-01,sell,2,30,0,0",
	}, "\n")

	uploaded, err := svc.ProcessUpload(strings.NewReader(ledger), "ledger.csv", "USA")
	require.NoError(t, err)
	require.Len(t, uploaded.RealizedGains, 1)

	latest, err := svc.GetLatestResult("USA")
	require.NoError(t, err)

	uploadedJSON, err := json.Marshal(uploaded)
	require.NoError(t, err)
	latestJSON, err := json.Marshal(latest)
	require.NoError(t, err)
	assert.Equal(t, string(uploadedJSON), string(latestJSON))

	require.NoError(t, svc.DeleteAllTransactions())
	empty, err := svc.GetLatestResult("USA")
	require.NoError(t, err)
	assert.Empty(t, empty.RealizedGains)
	assert.Empty(t, empty.UnrealizedGains)
}

func TestProcessUpload_UnsupportedExtensionRejected(t *testing.T) {
	svc := newTestGainsService(nil)

	_, err := svc.ProcessUpload(strings.NewReader("whatever"), "ledger.xlsx", "USA")

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrParsingFailed)
}
