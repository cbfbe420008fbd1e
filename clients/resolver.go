package clients

import (
	"context"

	"github.com/ethereum/go-ethereum/common"

	"github.com/vitwit/walletlink/types"
	"github.com/vitwit/walletlink/utils"
)

// HexResolver accepts plain hex addresses only. Name resolution (ENS and
// friends) is left to host-provided resolvers.
type HexResolver struct{}

func (HexResolver) Resolve(_ context.Context, recipient string) (common.Address, error) {
	addr, err := utils.ValidateAddress(recipient)
	if err != nil {
		return common.Address{}, &types.WalletLinkError{
			Code:    types.ErrRecipientResolution,
			Message: "unable to resolve recipient",
			Data:    recipient,
			Err:     err,
		}
	}
	return addr, nil
}

// StaticAccount is an AccountSource with a fixed address.
type StaticAccount common.Address

func (a StaticAccount) SelectedAddress() common.Address {
	return common.Address(a)
}
