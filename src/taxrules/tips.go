// backend/src/taxrules/tips.go
package taxrules

import (
	"fmt"

	"github.com/username/cryptofolio/backend/src/models"
)

// TaxSavingTips generates advisory tips from the unrealized positions.
// Holdings sitting at a loss produce a single loss-harvesting tip naming the
// total loss; otherwise a pair of generic country tips is returned.
// Unrecognized countries get no tips at all.
func TaxSavingTips(unrealized []models.UnrealizedGain, country string) []string {
	tips := []string{}

	var totalLoss float64
	hasLosses := false
	for _, g := range unrealized {
		if g.Gain < 0 {
			hasLosses = true
			totalLoss += g.Gain
		}
	}

	if hasLosses {
		switch country {
		case CountryUSA:
			tips = append(tips, fmt.Sprintf("Tax-Loss Harvesting Opportunity: You have unrealized losses of %.2f. You can sell these assets to realize the loss and offset other capital gains, potentially lowering your tax bill. Remember the wash sale rule if you plan to repurchase the same asset within 30 days.", totalLoss))
		case CountryUK:
			tips = append(tips, fmt.Sprintf("Tax-Loss Harvesting Opportunity: You have unrealized losses of %.2f. You can sell these assets to realize the loss and offset other capital gains. Be mindful of the 'bed and breakfasting' rule if you buy back the same asset within 30 days.", totalLoss))
		case CountryIndia:
			tips = append(tips, fmt.Sprintf("Loss Offset Opportunity: You have unrealized losses of %.2f. In India, you can offset losses from one crypto asset against gains from another within the same financial year. Selling these assets could help reduce your total taxable crypto income.", totalLoss))
		}
	}

	if len(tips) == 0 {
		switch country {
		case CountryUSA:
			tips = append(tips,
				"General Tip: Consider holding assets for over a year to potentially qualify for lower long-term capital gains tax rates.",
				"General Tip: You can donate cryptocurrency to a qualified charity to potentially receive a tax deduction against your income.")
		case CountryUK:
			tips = append(tips,
				"General Tip: The UK provides a Capital Gains Tax allowance each year. Gains under this amount are not taxed, so consider realizing gains up to this allowance annually.",
				"General Tip: Keep meticulous records of all your transactions, as they are essential for accurate tax reporting.")
		case CountryIndia:
			tips = append(tips,
				"General Tip: Crypto gains in India are taxed at a flat 30% under Section 115BBH, with no distinction between long-term and short-term gains.",
				"General Tip: Be aware that losses from crypto assets cannot be offset against any other income.")
		}
	}

	return tips
}
