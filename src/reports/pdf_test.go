package reports

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/username/cryptofolio/backend/src/models"
)

func sampleResult() *models.GainsResult {
	return &models.GainsResult{
		RealizedGains: []models.RealizedGain{
			{Asset: "BTC", Date: "2023-03-01", Gain: 110, Proceeds: 180, CostBasis: 70,
				HoldingType: models.HoldingShortTerm, TransactionType: "sell", TaxOwed: 40.7},
		},
		UnrealizedGains: []models.UnrealizedGain{
			{Asset: "ETH", Amount: 2, CostBasis: 40, MarketValue: 100, Gain: 60,
				CurrentPrice: 50, Date: "2023-01-02", TransactionType: "buy"},
		},
		TaxableGain:    110,
		CurrencySymbol: "₹",
		TaxSavingTips:  []string{"General Tip: hold longer."},
		Country:        "India",
	}
}

func TestGeneratePDF_ProducesDocument(t *testing.T) {
	pdfBytes, err := GeneratePDF(sampleResult())

	require.NoError(t, err)
	require.NotEmpty(t, pdfBytes)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestGeneratePDF_EmptyResultStillRenders(t *testing.T) {
	pdfBytes, err := GeneratePDF(&models.GainsResult{CurrencySymbol: "$", Country: "USA"})

	require.NoError(t, err)
	assert.Equal(t, "%PDF", string(pdfBytes[:4]))
}

func TestGeneratePDF_DoesNotMutateResult(t *testing.T) {
	result := sampleResult()
	_, err := GeneratePDF(result)

	require.NoError(t, err)
	assert.Equal(t, "₹", result.CurrencySymbol)
	assert.Equal(t, 110.0, result.TaxableGain)
}
