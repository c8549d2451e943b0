package errs

import "errors"

// Domain-specific sentinel errors for the settlement usecase layers
var (
	// Lot errors
	ErrLotNotFound    = errors.New("lot not found")
	ErrLotNotLive     = errors.New("lot is not live")
	ErrLotNotEligible = errors.New("lot is not eligible for proxy bids")

	// Bid errors
	ErrBidTooLow         = errors.New("bid below minimum")
	ErrProxyBelowMinimum = errors.New("proxy maximum below minimum bid")
	ErrUnauthorized      = errors.New("bidder not authorized")

	// Concurrency errors
	ErrTransientConflict = errors.New("transient conflict, retry")

	// Order errors
	ErrOrderExists                  = errors.New("order already exists for lot")
	ErrInvalidFulfillmentTransition = errors.New("invalid fulfillment transition")

	// Operation errors
	ErrDatabaseOperationFailed = errors.New("database operation failed")
)
