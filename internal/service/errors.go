package service

import "errors"

// Business-rule refusals. Handlers map these to HTTP statuses; anything
// else is an internal error and the caller sees a generic message.
var (
	ErrNotEligible             = errors.New("user already has an active installment")
	ErrProductNotFound         = errors.New("product not found")
	ErrNotFound                = errors.New("record not found")
	ErrAlreadyProcessed        = errors.New("installment not found or already processed")
	ErrUpfrontNotMet           = errors.New("upfront payment requirement not met")
	ErrHighRiskEmployee        = errors.New("high-risk employee, cannot approve")
	ErrHighRiskCompany         = errors.New("high-risk company, cannot approve")
	ErrRejectionReasonRequired = errors.New("rejection reason is required")
	ErrInvalidDecision         = errors.New("decision must be approved or rejected")
	ErrForbidden               = errors.New("forbidden")
)

// Identity is the bearer-token-derived caller identity, threaded
// explicitly into every core operation.
type Identity struct {
	UserID uint
	Email  string
	Role   string
}
