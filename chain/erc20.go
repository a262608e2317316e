package chain

import (
	"context"
	"fmt"
	"math/big"
	"strings"

	"github.com/ethereum/go-ethereum/accounts/abi"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
)

const erc20ABIJSON = `[
	{"constant":true,"inputs":[],"name":"decimals","outputs":[{"name":"","type":"uint8"}],"stateMutability":"view","type":"function"},
	{"constant":true,"inputs":[{"name":"owner","type":"address"}],"name":"balanceOf","outputs":[{"name":"","type":"uint256"}],"stateMutability":"view","type":"function"},
	{"anonymous":false,"inputs":[{"indexed":true,"name":"from","type":"address"},{"indexed":true,"name":"to","type":"address"},{"indexed":false,"name":"value","type":"uint256"}],"name":"Transfer","type":"event"}
]`

var erc20ABI abi.ABI

func init() {
	parsed, err := abi.JSON(strings.NewReader(erc20ABIJSON))
	if err != nil {
		panic(err)
	}
	erc20ABI = parsed
}

// TransferEventID is topic 0 of Transfer(address,address,uint256).
func TransferEventID() common.Hash {
	return erc20ABI.Events["Transfer"].ID
}

type TransferEvent struct {
	From  common.Address
	To    common.Address
	Value *big.Int
}

// DecodeTransfer decodes an ERC20 Transfer log. ok is false for any log that
// does not have the Transfer shape.
func DecodeTransfer(log *types.Log) (event TransferEvent, ok bool) {
	if log == nil || len(log.Topics) != 3 || log.Topics[0] != TransferEventID() {
		return event, false
	}
	values, err := erc20ABI.Unpack("Transfer", log.Data)
	if err != nil || len(values) != 1 {
		return event, false
	}
	value, isBig := values[0].(*big.Int)
	if !isBig {
		return event, false
	}
	return TransferEvent{
		From:  common.BytesToAddress(log.Topics[1].Bytes()),
		To:    common.BytesToAddress(log.Topics[2].Bytes()),
		Value: value,
	}, true
}

// EncodeTransferLog builds the log a token contract emits for a transfer.
func EncodeTransferLog(contract, from, to common.Address, value *big.Int) *types.Log {
	return &types.Log{
		Address: contract,
		Topics: []common.Hash{
			TransferEventID(),
			common.BytesToHash(from.Bytes()),
			common.BytesToHash(to.Bytes()),
		},
		Data: common.LeftPadBytes(value.Bytes(), 32),
	}
}

func (r *Reader) TokenDecimals(ctx context.Context, contract common.Address) (int32, error) {
	data, err := erc20ABI.Pack("decimals")
	if err != nil {
		return 0, err
	}
	out, err := r.Call(ctx, contract, data)
	if err != nil {
		return 0, err
	}
	values, err := erc20ABI.Unpack("decimals", out)
	if err != nil {
		return 0, fmt.Errorf("decode decimals of %s: %w", contract.Hex(), err)
	}
	decimals, ok := values[0].(uint8)
	if !ok {
		return 0, fmt.Errorf("decode decimals of %s: unexpected type %T", contract.Hex(), values[0])
	}
	return int32(decimals), nil
}

func (r *Reader) TokenBalance(ctx context.Context, contract, owner common.Address) (*big.Int, error) {
	data, err := erc20ABI.Pack("balanceOf", owner)
	if err != nil {
		return nil, err
	}
	out, err := r.Call(ctx, contract, data)
	if err != nil {
		return nil, err
	}
	values, err := erc20ABI.Unpack("balanceOf", out)
	if err != nil {
		return nil, fmt.Errorf("decode balance of %s: %w", contract.Hex(), err)
	}
	balance, ok := values[0].(*big.Int)
	if !ok {
		return nil, fmt.Errorf("decode balance of %s: unexpected type %T", contract.Hex(), values[0])
	}
	return balance, nil
}
