package order

import (
	"errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

var (
	ErrNonPositiveHammer = errors.New("hammer amount must be positive")
	ErrNegativeRate      = errors.New("premium rate cannot be negative")
	ErrInvalidTransition = errors.New("invalid fulfillment transition")
)

type FulfillmentStatus string

const (
	StatusPendingPayment   FulfillmentStatus = "pending_payment"
	StatusPaymentSubmitted FulfillmentStatus = "payment_submitted"
	StatusPaid             FulfillmentStatus = "paid"
	StatusShipped          FulfillmentStatus = "shipped"
	StatusDelivered        FulfillmentStatus = "delivered"
)

func (s FulfillmentStatus) String() string {
	return string(s)
}

var fulfillmentNext = map[FulfillmentStatus]FulfillmentStatus{
	StatusPendingPayment:   StatusPaymentSubmitted,
	StatusPaymentSubmitted: StatusPaid,
	StatusPaid:             StatusShipped,
	StatusShipped:          StatusDelivered,
}

func CanTransition(from, to FulfillmentStatus) bool {
	return fulfillmentNext[from] == to && to != ""
}

// Order is the settlement record created exactly once per sold lot.
// Hammer, premium and total are computed at creation and never
// recomputed; only the fulfillment status changes afterwards, driven by
// the external payment/shipping workflow.
type Order struct {
	id            uuid.UUID
	lotID         uuid.UUID
	winnerID      uuid.UUID
	hammerAmount  decimal.Decimal
	premiumAmount decimal.Decimal
	totalDue      decimal.Decimal
	fulfillment   FulfillmentStatus
}

// NewOrder settles a sold lot: premium = hammer x rate, total = hammer + premium.
func NewOrder(lotID, winnerID uuid.UUID, hammerAmount, premiumRate decimal.Decimal) (*Order, error) {
	if !hammerAmount.IsPositive() {
		return nil, ErrNonPositiveHammer
	}
	if premiumRate.IsNegative() {
		return nil, ErrNegativeRate
	}

	premium := hammerAmount.Mul(premiumRate).Round(2)
	return &Order{
		id:            uuid.New(),
		lotID:         lotID,
		winnerID:      winnerID,
		hammerAmount:  hammerAmount,
		premiumAmount: premium,
		totalDue:      hammerAmount.Add(premium),
		fulfillment:   StatusPendingPayment,
	}, nil
}

func ReconstructOrder(
	id, lotID, winnerID uuid.UUID,
	hammerAmount, premiumAmount, totalDue decimal.Decimal,
	fulfillment FulfillmentStatus,
) *Order {
	return &Order{
		id:            id,
		lotID:         lotID,
		winnerID:      winnerID,
		hammerAmount:  hammerAmount,
		premiumAmount: premiumAmount,
		totalDue:      totalDue,
		fulfillment:   fulfillment,
	}
}

// AdvanceFulfillment moves the externally-driven workflow one step
// forward. The settlement amounts are untouched.
func (o *Order) AdvanceFulfillment(to FulfillmentStatus) error {
	if !CanTransition(o.fulfillment, to) {
		return ErrInvalidTransition
	}
	o.fulfillment = to
	return nil
}

func (o *Order) ID() uuid.UUID                  { return o.id }
func (o *Order) LotID() uuid.UUID               { return o.lotID }
func (o *Order) WinnerID() uuid.UUID            { return o.winnerID }
func (o *Order) HammerAmount() decimal.Decimal  { return o.hammerAmount }
func (o *Order) PremiumAmount() decimal.Decimal { return o.premiumAmount }
func (o *Order) TotalDue() decimal.Decimal      { return o.totalDue }
func (o *Order) Fulfillment() FulfillmentStatus { return o.fulfillment }
