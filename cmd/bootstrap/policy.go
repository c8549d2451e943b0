package bootstrap

import (
	"github.com/shopspring/decimal"
	"go.uber.org/fx"

	"auction-engine/internal/domain/bid"
	"auction-engine/internal/pkg/config"
	"auction-engine/internal/pkg/errs"
	"auction-engine/internal/usecase/commands"
)

var PolicyModule = fx.Module("policy",
	fx.Provide(
		NewSettings,
	),
)

// NewSettings parses the auction policy out of the environment once at
// startup; a malformed tier table fails the boot instead of a bid.
func NewSettings(cfg config.Config) (commands.Settings, error) {
	thresholds, err := parseAmounts(cfg.Auction.IncrementThresholds)
	if err != nil {
		return commands.Settings{}, errs.Wrap(err, "invalid increment thresholds")
	}
	steps, err := parseAmounts(cfg.Auction.IncrementSteps)
	if err != nil {
		return commands.Settings{}, errs.Wrap(err, "invalid increment steps")
	}

	policy, err := bid.NewIncrementPolicy(thresholds, steps)
	if err != nil {
		return commands.Settings{}, err
	}

	premium, err := decimal.NewFromString(cfg.Auction.PremiumRate)
	if err != nil {
		return commands.Settings{}, errs.Wrap(err, "invalid premium rate")
	}

	return commands.Settings{
		Increments:    policy,
		PremiumRate:   premium,
		MaxBidRetries: cfg.Auction.MaxBidRetries,
	}, nil
}

func parseAmounts(raw []string) ([]decimal.Decimal, error) {
	out := make([]decimal.Decimal, len(raw))
	for i, s := range raw {
		d, err := decimal.NewFromString(s)
		if err != nil {
			return nil, err
		}
		out[i] = d
	}
	return out, nil
}
