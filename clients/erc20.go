package clients

import (
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
)

const erc20ApproveABI = `
[
  {
    "name": "approve",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      { "name": "spender", "type": "address" },
      { "name": "amount",  "type": "uint256" }
    ],
    "outputs": [
      { "name": "", "type": "bool" }
    ]
  }
]`

var erc20ABI = mustParseABI(erc20ApproveABI)

func mustParseABI(def string) abi.ABI {
	parsed, err := abi.JSON(strings.NewReader(def))
	if err != nil {
		panic(fmt.Sprintf("invalid built-in ABI: %v", err))
	}
	return parsed
}

// EncodeApprove returns the call data for ERC-20 approve(spender, amount).
func EncodeApprove(spender common.Address, amount *big.Int) ([]byte, error) {
	if amount == nil {
		return nil, fmt.Errorf("approve amount is nil")
	}
	data, err := erc20ABI.Pack("approve", spender, amount)
	if err != nil {
		return nil, fmt.Errorf("failed to encode approve: %w", err)
	}
	return data, nil
}

// ApproveSelector is the 4-byte method id of approve(address,uint256).
func ApproveSelector() []byte {
	return erc20ABI.Methods["approve"].ID
}
