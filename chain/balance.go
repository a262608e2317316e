package chain

import (
	"context"
	"fmt"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// Balance returns the holdings of address in token units: the native balance
// for native assets, balanceOf scaled by decimals() for tokens.
func (p *Pool) Balance(ctx context.Context, network, token, address string) (decimal.Decimal, error) {
	if !common.IsHexAddress(address) {
		return decimal.Zero, fmt.Errorf("invalid address %q", address)
	}
	owner := common.HexToAddress(address)
	reader, err := p.Reader(network)
	if err != nil {
		return decimal.Zero, err
	}
	if p.registry.Classify(token, network) == TransferNative {
		wei, err := reader.Balance(ctx, owner)
		if err != nil {
			return decimal.Zero, err
		}
		return decimal.NewFromBigInt(wei, -NativeDecimals), nil
	}
	contract, ok := p.registry.Token(network, token)
	if !ok {
		return decimal.Zero, ErrUnsupportedToken
	}
	decimals, err := reader.TokenDecimals(ctx, contract)
	if err != nil {
		return decimal.Zero, err
	}
	units, err := reader.TokenBalance(ctx, contract, owner)
	if err != nil {
		return decimal.Zero, err
	}
	return decimal.NewFromBigInt(units, -decimals), nil
}
