package main

import (
	"errors"
	"fmt"
	"math"
	"math/big"

	"github.com/shopspring/decimal"
)

// unitsPerSOL is the number of ledger units in one displayed SOL.
const unitsPerSOL = 1_000_000_000

var errBadAmount = errors.New("amount must be a positive number of SOL with at most 9 decimals")

// parseSOL converts a decimal SOL string such as "0.01" into ledger units.
func parseSOL(s string) (uint64, error) {
	d, err := decimal.NewFromString(s)
	if err != nil {
		return 0, fmt.Errorf("%w: %v", errBadAmount, err)
	}
	units := d.Mul(decimal.NewFromInt(unitsPerSOL))
	if !units.IsInteger() || !units.IsPositive() {
		return 0, errBadAmount
	}
	if units.GreaterThan(decimal.NewFromInt(math.MaxInt64)) {
		return 0, fmt.Errorf("%w: too large", errBadAmount)
	}
	return uint64(units.IntPart()), nil
}

func formatSOL(units uint64) string {
	return decimal.NewFromBigInt(new(big.Int).SetUint64(units), -9).String()
}
