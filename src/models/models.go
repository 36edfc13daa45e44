package models

import (
	"strings"
	"time"
)

// Transaction types as they appear in uploaded ledgers (matched case-insensitively).
const (
	TypeBuy  = "buy"
	TypeSell = "sell"
)

// Holding period classifications for realized gains.
const (
	HoldingShortTerm = "short-term"
	HoldingLongTerm  = "long-term"
)

// CloseEpsilon is the residual amount below which a buy lot is considered
// fully consumed. Amounts are float64, so exact zero cannot be relied on.
const CloseEpsilon = 1e-6

// Transaction is a single ledger entry. A buy transaction doubles as a
// purchase lot: Amount is decremented in place as sells consume it.
type Transaction struct {
	ID          int       `json:"id"`
	Asset       string    `json:"asset"`
	Date        time.Time `json:"date"`
	Type        string    `json:"type"`
	Amount      float64   `json:"amount"`
	Price       float64   `json:"price"`
	Fees        float64   `json:"fees"`
	LinkedBuyID *int      `json:"buy_id,omitempty"`
}

// IsBuy reports whether the transaction is a purchase. Ledger files are not
// consistent about casing, so "Buy" and "BUY" count too.
func (t *Transaction) IsBuy() bool { return strings.EqualFold(t.Type, TypeBuy) }

// IsSell reports whether the transaction is a sale.
func (t *Transaction) IsSell() bool { return strings.EqualFold(t.Type, TypeSell) }

// RealizedGain is the outcome of matching one sell against open lots.
// Monetary fields are already converted to the reporting currency.
type RealizedGain struct {
	Asset           string  `json:"asset"`
	Date            string  `json:"date"`
	Gain            float64 `json:"gain"`
	Proceeds        float64 `json:"proceeds"`
	CostBasis       float64 `json:"cost_basis"`
	HoldingType     string  `json:"holding_type"`
	TransactionType string  `json:"transaction_type"`
	TaxOwed         float64 `json:"tax_owed"`
	Amount          float64 `json:"amount"`
	Price           float64 `json:"price"`
	Fees            float64 `json:"fees"`
}

// UnrealizedGain values a still-open purchase lot at the current market price.
type UnrealizedGain struct {
	Asset           string  `json:"asset"`
	Amount          float64 `json:"amount"`
	CostBasis       float64 `json:"cost_basis"`
	MarketValue     float64 `json:"market_value"`
	Gain            float64 `json:"gain"`
	CurrentPrice    float64 `json:"current_price"`
	Date            string  `json:"date"`
	TransactionType string  `json:"transaction_type"`
}

// GainsResult is the full output of a gains calculation. It is returned by
// the upload endpoint and consumed as-is by the PDF report endpoint.
type GainsResult struct {
	RealizedGains   []RealizedGain   `json:"realized_gains"`
	UnrealizedGains []UnrealizedGain `json:"unrealized_gains"`
	TaxableGain     float64          `json:"taxable_gain"`
	CurrencySymbol  string           `json:"currency_symbol"`
	TaxSavingTips   []string         `json:"tax_saving_tips"`
	Country         string           `json:"country"`
}
