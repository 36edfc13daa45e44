// backend/src/taxrules/taxrules.go
package taxrules

import (
	"github.com/username/cryptofolio/backend/src/models"
)

// Supported countries. Anything else falls through to the default policy
// (no tax, no tips) rather than being rejected.
const (
	CountryUSA   = "USA"
	CountryUK    = "UK"
	CountryIndia = "India"
)

// Simplified flat rates. Real brackets are out of scope.
const (
	usaShortTermRate = 0.37
	usaLongTermRate  = 0.20
	ukCGTRate        = 0.20
	indiaFlatRate    = 0.30

	// Annual UK Capital Gains Tax allowance.
	ukAnnualAllowance = 12300.0
)

// CurrencyForCountry resolves the reporting currency code and display symbol
// for a country. Unrecognized countries report in USD.
func CurrencyForCountry(country string) (code, symbol string) {
	switch country {
	case CountryUSA:
		return "USD", "$"
	case CountryUK:
		return "GBP", "£"
	case CountryIndia:
		return "INR", "₹"
	default:
		return "USD", "$"
	}
}

// CurrencyRates returns the static USD-based conversion multipliers applied
// to ledger amounts before any gain arithmetic. There is no live FX fetch;
// refreshing these means redeploying.
func CurrencyRates() map[string]float64 {
	return map[string]float64{
		"USD": 1.0,
		"INR": 83.0,
		"GBP": 0.8,
	}
}

// RateForCurrency looks up the conversion multiplier for a currency code,
// defaulting to 1 for unknown codes.
func RateForCurrency(code string) float64 {
	if rate, ok := CurrencyRates()[code]; ok {
		return rate
	}
	return 1
}

// TaxOwed computes the per-transaction tax for a single realized gain.
// India and the UK floor losses at zero; the USA lets negative gains flow
// through the flat rates as negative tax.
func TaxOwed(gain float64, holdingType, country string) float64 {
	switch country {
	case CountryIndia:
		return max(0, gain) * indiaFlatRate
	case CountryUSA:
		if holdingType == models.HoldingShortTerm {
			return gain * usaShortTermRate
		}
		return gain * usaLongTermRate
	case CountryUK:
		return max(0, gain) * ukCGTRate
	default:
		return 0
	}
}

// TaxableGain aggregates the realized gains into the country's taxable
// figure. Note the USA figure is a tax base (raw net short+long gain) while
// India's is a tax amount; both reproduce the published policy shapes.
func TaxableGain(realized []models.RealizedGain, country string) float64 {
	var totalGain float64
	for _, g := range realized {
		totalGain += g.Gain
	}

	switch country {
	case CountryIndia:
		return max(0, totalGain) * indiaFlatRate
	case CountryUSA:
		var shortTerm, longTerm float64
		for _, g := range realized {
			if g.HoldingType == models.HoldingShortTerm {
				shortTerm += g.Gain
			} else {
				longTerm += g.Gain
			}
		}
		return shortTerm + longTerm
	case CountryUK:
		return max(0, totalGain-ukAnnualAllowance)
	default:
		return totalGain
	}
}
