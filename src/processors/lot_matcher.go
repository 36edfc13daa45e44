package processors

import (
	"sort"
	"time"

	"github.com/username/cryptofolio/backend/src/models"
	"github.com/username/cryptofolio/backend/src/taxrules"
)

// LotMatcher pairs the sell transactions of a single asset against its buy
// lots and prices the resulting gains. Lots are consumed through an open-lots
// index keyed by transaction ID; a sell either names its lot explicitly
// (buy_id) or falls back to FIFO over whatever is still open.
type LotMatcher struct{}

func NewLotMatcher() *LotMatcher {
	return &LotMatcher{}
}

// longTermThresholdDays separates short-term from long-term holdings.
const longTermThresholdDays = 365

// Match processes one asset's transactions. rate is the conversion
// multiplier into the reporting currency, applied to prices and fees before
// any gain arithmetic. It returns the realized gain records in sell-date
// order and the buy lots (with reduced amounts) that remain open.
//
// Matching never fails: an oversell is priced with zero cost basis for the
// unmatched remainder, and zero amounts or prices just produce zero-valued
// records.
func (m *LotMatcher) Match(transactions []models.Transaction, rate float64, country string) ([]models.RealizedGain, []models.Transaction) {
	sorted := make([]models.Transaction, len(transactions))
	copy(sorted, transactions)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Date.Before(sorted[j].Date)
	})

	// Open-lots index. Values point into sorted so FIFO consumption and the
	// explicit-link path mutate the same lot.
	openLots := make(map[int]*models.Transaction)
	for i := range sorted {
		if sorted[i].IsBuy() {
			openLots[sorted[i].ID] = &sorted[i]
		}
	}

	var realized []models.RealizedGain

	for i := range sorted {
		tx := &sorted[i]
		if !tx.IsSell() {
			continue
		}

		sellAmount := tx.Amount
		sellPrice := tx.Price * rate
		proceeds := sellAmount * sellPrice
		fees := tx.Fees * rate

		costBasis := 0.0
		holdingType := models.HoldingShortTerm

		if lot := m.linkedLot(tx, openLots); lot != nil {
			// Explicit link: consume exactly the named lot, full fees.
			costBasis = sellAmount*(lot.Price*rate) + fees
			lot.Amount -= sellAmount
			holdingType = classifyHolding(tx.Date, lot.Date)
			if lot.Amount <= models.CloseEpsilon {
				delete(openLots, lot.ID)
			}
		} else {
			// FIFO fallback over the currently-open lots, oldest first.
			remaining := sellAmount
			for _, lot := range lotsByDate(openLots) {
				if remaining <= 0 {
					break
				}
				consumed := min(remaining, lot.Amount)
				// Fees are apportioned by the fraction of the sell this lot
				// satisfies, not by the fraction of the lot consumed.
				feeShare := 0.0
				if sellAmount > 0 {
					feeShare = fees * (consumed / sellAmount)
				}
				costBasis += consumed*(lot.Price*rate) + feeShare
				lot.Amount -= consumed
				remaining -= consumed
				// A multi-lot sell is labeled with the last fragment's
				// holding type.
				holdingType = classifyHolding(tx.Date, lot.Date)
				if lot.Amount <= models.CloseEpsilon {
					delete(openLots, lot.ID)
				}
			}
			// Any remaining unmatched amount keeps its full proceeds with a
			// zero cost basis. Accepted simplification, not an error.
		}

		gain := proceeds - costBasis
		realized = append(realized, models.RealizedGain{
			Asset:           tx.Asset,
			Date:            tx.Date.Format("2006-01-02"),
			Gain:            gain,
			Proceeds:        proceeds,
			CostBasis:       costBasis,
			HoldingType:     holdingType,
			TransactionType: tx.Type,
			TaxOwed:         taxrules.TaxOwed(gain, holdingType, country),
			Amount:          sellAmount,
			Price:           sellPrice,
			Fees:            fees,
		})
	}

	return realized, snapshotLots(openLots)
}

// linkedLot resolves a sell's explicit buy reference, if it names a lot that
// is still open. A stale or absent reference sends the sell down the FIFO
// path instead.
func (m *LotMatcher) linkedLot(sell *models.Transaction, openLots map[int]*models.Transaction) *models.Transaction {
	if sell.LinkedBuyID == nil {
		return nil
	}
	return openLots[*sell.LinkedBuyID]
}

func classifyHolding(sellDate, buyDate time.Time) string {
	if sellDate.Sub(buyDate).Hours()/24 > longTermThresholdDays {
		return models.HoldingLongTerm
	}
	return models.HoldingShortTerm
}

func lotsByDate(openLots map[int]*models.Transaction) []*models.Transaction {
	lots := make([]*models.Transaction, 0, len(openLots))
	for _, lot := range openLots {
		lots = append(lots, lot)
	}
	sort.SliceStable(lots, func(i, j int) bool {
		if lots[i].Date.Equal(lots[j].Date) {
			return lots[i].ID < lots[j].ID
		}
		return lots[i].Date.Before(lots[j].Date)
	})
	return lots
}

func snapshotLots(openLots map[int]*models.Transaction) []models.Transaction {
	remaining := make([]models.Transaction, 0, len(openLots))
	for _, lot := range lotsByDate(openLots) {
		remaining = append(remaining, *lot)
	}
	return remaining
}
