package commands

import (
	"github.com/shopspring/decimal"

	"auction-engine/internal/domain/bid"
)

// Settings is the product policy injected into the command layer: the
// increment tier table, the buyer's premium rate applied at close, and
// the bound on conflict retries for a single bid submission.
type Settings struct {
	Increments    bid.IncrementPolicy
	PremiumRate   decimal.Decimal
	MaxBidRetries int
}
