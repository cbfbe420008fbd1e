package utils

import (
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/go-playground/validator/v10"
	"github.com/holiman/uint256"
	"github.com/shopspring/decimal"

	"github.com/vitwit/walletlink/types"
)

var validate = validator.New()

// ValidateStruct runs the struct-tag validation rules on v.
func ValidateStruct(v interface{}) error {
	if err := validate.Struct(v); err != nil {
		return &types.WalletLinkError{
			Code:    types.ErrValidationFailed,
			Message: fmt.Sprintf("validation failed: %v", err),
			Err:     err,
		}
	}
	return nil
}

// ParseNumber parses a payment URI number. Scientific notation such as
// "2.014e18" is accepted.
func ParseNumber(value string) (decimal.Decimal, error) {
	if value == "" {
		return decimal.Zero, fmt.Errorf("value cannot be empty")
	}
	dec, err := decimal.NewFromString(value)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q: %w", value, err)
	}
	return dec, nil
}

// ValidateUint256 checks that value is a non-negative integer that fits in
// 256 bits and returns it as a big.Int.
func ValidateUint256(value string) (*big.Int, error) {
	dec, err := ParseNumber(value)
	if err != nil {
		return nil, &types.WalletLinkError{
			Code:    types.ErrValidationFailed,
			Message: "amount is not a number",
			Data:    value,
			Err:     err,
		}
	}

	if !dec.IsInteger() {
		return nil, &types.WalletLinkError{
			Code:    types.ErrValidationFailed,
			Message: "amount must be an integer",
			Data:    value,
		}
	}

	if dec.IsNegative() {
		return nil, &types.WalletLinkError{
			Code:    types.ErrValidationFailed,
			Message: "amount cannot be negative",
			Data:    value,
		}
	}

	amount := dec.BigInt()
	if _, overflow := uint256.FromBig(amount); overflow {
		return nil, &types.WalletLinkError{
			Code:    types.ErrValidationFailed,
			Message: "amount does not fit in uint256",
			Data:    value,
		}
	}
	return amount, nil
}

// ValidateAddress checks a hex address and returns it in checksummed form.
func ValidateAddress(address string) (common.Address, error) {
	if address == "" {
		return common.Address{}, fmt.Errorf("address cannot be empty")
	}
	if !common.IsHexAddress(address) {
		return common.Address{}, fmt.Errorf("invalid hex address %q", address)
	}
	return common.HexToAddress(address), nil
}
