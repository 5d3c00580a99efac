package service

import (
	"errors"
	"fmt"
)

// CodedError is a transition failure with a stable number external tooling can match on.
type CodedError struct {
	Number  int
	Name    string
	Message string
}

func (e *CodedError) Error() string {
	return e.Message
}

// Is matches by number so wrapped copies still compare equal to the sentinel.
func (e *CodedError) Is(target error) bool {
	t, ok := target.(*CodedError)
	return ok && t.Number == e.Number
}

var (
	ErrMissingOverbidField          = &CodedError{6000, "MissingOverbidField", "overbid field is missing in asset metadata"}
	ErrInvalidOverbidValue          = &CodedError{6001, "InvalidOverbidValue", "invalid overbid value in asset metadata"}
	ErrBidTooLow                    = &CodedError{6002, "BidTooLow", "new bid must be higher than the current value to overbid"}
	ErrWrongOwner                   = &CodedError{6003, "WrongOwner", "wrong owner"}
	ErrCustodyMismatch              = &CodedError{6004, "CustodyMismatch", "claimed holder does not hold the asset"}
	ErrAccountFrozen                = &CodedError{6005, "AccountFrozen", "custody account is frozen"}
	ErrInsufficientFunds            = &CodedError{6006, "InsufficientFunds", "insufficient funds"}
	ErrCollectionNotInitialized     = &CodedError{6007, "CollectionNotInitialized", "collection is not initialized"}
	ErrCollectionAlreadyInitialized = &CodedError{6008, "CollectionAlreadyInitialized", "collection is already initialized"}
	ErrAssetNotFound                = &CodedError{6009, "AssetNotFound", "asset not found"}
	ErrAssetAlreadyExists           = &CodedError{6010, "AssetAlreadyExists", "asset already exists"}
	ErrEmptyCollection              = &CodedError{6011, "EmptyCollection", "collection has no items"}
	ErrArithmeticOverflow           = &CodedError{6012, "ArithmeticOverflow", "arithmetic overflow"}
	ErrInvalidAddress               = &CodedError{6013, "InvalidAddress", "invalid address"}
)

var ErrInvalidURI = errors.New("invalid uri")
var ErrInvalidAmount = errors.New("amount must be positive")

// detail keeps the sentinel matchable while adding context for logs and callers.
func detail(base *CodedError, format string, args ...interface{}) error {
	return fmt.Errorf("%w: %s", base, fmt.Sprintf(format, args...))
}

// AsCoded extracts the CodedError carried by err, if any.
func AsCoded(err error) (*CodedError, bool) {
	var ce *CodedError
	if errors.As(err, &ce) {
		return ce, true
	}
	return nil, false
}
