package domain

import (
	"errors"
	"fmt"
)

var (
	// ErrInternalServerError will throw if any the Internal Server Error happen
	ErrInternalServerError = errors.New("Internal Server Error")
	// ErrNotFound will throw if the requested item is not exists
	ErrNotFound = errors.New("Your requested Item is not found")
	// ErrConflict will throw if the current action already exists
	ErrConflict = errors.New("Your Item already exist")
	// ErrBadParamInput will throw if the given request-body or params is not valid
	ErrBadParamInput = errors.New("Given Param is not valid")
	// ErrForbidden will throw if the caller is not the authorized actor for the record
	ErrForbidden = errors.New("You are not allowed to perform this action")
	// ErrInvalidState will throw if the record is not in the status the operation requires
	ErrInvalidState = errors.New("Record is not in a valid state for this action")

	// auction window errors, kept distinct so callers can tell which side was violated
	ErrAuctionNotStarted = errors.New("auction has not started yet")
	ErrAuctionEnded      = errors.New("auction has expired")

	ErrInvalidChainId       = errors.New("invalid chain id")
	ErrInvalidCurrency      = errors.New("invalid currency")
	ErrInvalidNumberFormat  = errors.New("invalid number format")
	ErrCurrencyMismatch     = errors.New("currency mismatch")
	ErrOfferBelowReserve    = errors.New("offer must be at least the reserve price")
	ErrDuplicateActiveOffer = errors.New("an active offer already exists for this listing, cancel it first to place a new one")
	ErrDuplicateListing     = errors.New("an active listing already exists for this token")
	ErrOfferNotOnListing    = errors.New("offer does not belong to this listing")

	// request error
	ErrInvalidAddress   = errors.New("Invalid address")
	ErrInvalidSignature = errors.New("Invalid signature")
	ErrInvalidNonce     = errors.New("Invalid nonce")
)

// ValidationError carries a field-level reason for a rejected payload.
type ValidationError struct {
	Field  string `json:"field"`
	Reason string `json:"reason"`
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s", e.Field, e.Reason)
}

func NewValidationError(field, reason string) error {
	return &ValidationError{Field: field, Reason: reason}
}

func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}
