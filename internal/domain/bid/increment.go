package bid

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrTierShape       = errors.New("steps must number one more than thresholds")
	ErrTierOrder       = errors.New("thresholds must be strictly ascending")
	ErrTierNonPositive = errors.New("steps must be positive")
)

// IncrementPolicy is the tiered step function behind the minimum-bid
// rule: a price in tier i must be raised by at least steps[i]. The tier
// of a price is the first threshold it falls strictly below; at or above
// the last threshold the final step applies.
//
// The reference policy is $0-500 -> +$25, $500-2000 -> +$100,
// $2000+ -> +$250, but both thresholds and steps are configuration.
type IncrementPolicy struct {
	thresholds []decimal.Decimal
	steps      []decimal.Decimal
}

func NewIncrementPolicy(thresholds, steps []decimal.Decimal) (IncrementPolicy, error) {
	if len(steps) != len(thresholds)+1 {
		return IncrementPolicy{}, ErrTierShape
	}
	for i := 1; i < len(thresholds); i++ {
		if !thresholds[i].GreaterThan(thresholds[i-1]) {
			return IncrementPolicy{}, ErrTierOrder
		}
	}
	for _, s := range steps {
		if !s.IsPositive() {
			return IncrementPolicy{}, ErrTierNonPositive
		}
	}
	return IncrementPolicy{thresholds: thresholds, steps: steps}, nil
}

// Increment returns the required step for the given current price.
func (p IncrementPolicy) Increment(currentPrice decimal.Decimal) decimal.Decimal {
	for i, threshold := range p.thresholds {
		if currentPrice.LessThan(threshold) {
			return p.steps[i]
		}
	}
	return p.steps[len(p.steps)-1]
}

// MinimumNext returns the lowest acceptable bid against the given price.
func (p IncrementPolicy) MinimumNext(currentPrice decimal.Decimal) decimal.Decimal {
	return currentPrice.Add(p.Increment(currentPrice))
}

// Validates reports whether amount satisfies the increment rule against
// currentPrice.
func (p IncrementPolicy) Validates(amount, currentPrice decimal.Decimal) bool {
	return amount.GreaterThanOrEqual(p.MinimumNext(currentPrice))
}
