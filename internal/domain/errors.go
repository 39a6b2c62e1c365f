package domain

import "errors"

var (
	// ErrSubscriptionFailed is returned when subscription to events fails
	ErrSubscriptionFailed = errors.New("subscription failed")

	// ErrInvalidParent is returned when a parent id does not exist on the artifact
	ErrInvalidParent = errors.New("invalid parent")

	// ErrUpdateRequiresParent is returned when an update does not name a parent
	ErrUpdateRequiresParent = errors.New("update requires parent")

	// ErrInvalidRecipient is returned when a payment names the zero tip recipient
	ErrInvalidRecipient = errors.New("invalid recipient")

	// ErrNotAuthorized is returned when the caller may not claim a tip balance
	ErrNotAuthorized = errors.New("not authorized")

	// ErrNoTipsToClaim is returned when the tip balance is zero
	ErrNoTipsToClaim = errors.New("no tips to claim")

	// ErrTipsNotYetClaimable is returned to the sweep recipient before the sweep delay elapsed
	ErrTipsNotYetClaimable = errors.New("tips not yet claimable")

	// ErrTransferFailed is returned when paying out a claim fails
	ErrTransferFailed = errors.New("transfer failed")

	// ErrInsufficientFunds is returned when a caller cannot cover the attached value
	ErrInsufficientFunds = errors.New("insufficient funds")

	// ErrInvalidInput is returned for malformed call input (negative amounts or token ids)
	ErrInvalidInput = errors.New("invalid input")
)
