package chain

import (
	"context"
	"fmt"
	"net/url"

	"github.com/ethereum/go-ethereum/common"
	"github.com/shopspring/decimal"
)

// PaymentURI builds an EIP-681 link that wallets can open to pay amount of
// token to receiver. Token payments need one RPC call for decimals().
func (p *Pool) PaymentURI(ctx context.Context, network, token, receiver string, amount decimal.Decimal) (string, error) {
	if !common.IsHexAddress(receiver) {
		return "", fmt.Errorf("invalid receiver %q", receiver)
	}
	to := common.HexToAddress(receiver)
	n := p.registry.Network(network)
	if Classify(token, n) == TransferNative {
		wei := amount.Shift(NativeDecimals).RoundCeil(0)
		return fmt.Sprintf("ethereum:%s@%d?value=%s", to.Hex(), n.ChainID, wei.String()), nil
	}
	contract, ok := p.registry.Token(network, token)
	if !ok {
		return "", ErrUnsupportedToken
	}
	reader, err := p.Reader(network)
	if err != nil {
		return "", err
	}
	decimals, err := reader.TokenDecimals(ctx, contract)
	if err != nil {
		return "", err
	}
	query := url.Values{}
	query.Set("address", to.Hex())
	query.Set("uint256", amount.Shift(decimals).RoundCeil(0).String())
	return fmt.Sprintf("ethereum:%s@%d/transfer?%s", contract.Hex(), n.ChainID, query.Encode()), nil
}
