package quote

import "errors"

// Expected failures are sentinel values, not panics: callers surface
// them as user-facing messages and abort the action.
var (
	ErrLastProduct        = errors.New("cannot remove the last product row")
	ErrLastInstallment    = errors.New("cannot remove the last installment")
	ErrLastClassification = errors.New("cannot remove the last classification line")
	ErrUnknownProduct     = errors.New("unknown product row")
	ErrUnknownSupplier    = errors.New("unknown supplier")
	ErrUnknownInstallment = errors.New("unknown installment")
)
