package service

import (
	"context"
	"errors"

	"github.com/ethereum/go-ethereum/common"
	"github.com/getAlby/x402hub.go/chain"
	"github.com/getAlby/x402hub.go/lib/verification"
)

type NetworkInfo struct {
	chain.Network
	Tokens []string `json:"tokens"`
}

// Networks lists the supported networks with their configured tokens. The
// native asset is always included.
func (svc *X402Service) Networks() []NetworkInfo {
	registry := svc.Chain.Registry()
	networks := registry.Networks()
	result := make([]NetworkInfo, 0, len(networks))
	for _, n := range networks {
		tokens := append([]string{n.NativeSymbol}, registry.Tokens(n.Key)...)
		result = append(result, NetworkInfo{Network: n, Tokens: tokens})
	}
	return result
}

type Balance struct {
	Network string `json:"network"`
	Token   string `json:"token"`
	Address string `json:"address"`
	Balance string `json:"balance"`
}

// Balance reads the current holdings of address. Chain read failures are
// returned as *verification.InfraError.
func (svc *X402Service) Balance(ctx context.Context, network, token, address string) (*Balance, error) {
	if !common.IsHexAddress(address) {
		return nil, invalidField("address", "must be a hex address")
	}
	key := svc.Chain.Registry().Network(network).Key
	amount, err := svc.Chain.Balance(ctx, network, token, address)
	switch {
	case errors.Is(err, chain.ErrUnsupportedToken):
		return nil, invalidField("token", "is not supported on "+key)
	case err != nil:
		return nil, &verification.InfraError{Network: key, Err: err}
	}
	return &Balance{
		Network: key,
		Token:   token,
		Address: address,
		Balance: amount.String(),
	}, nil
}
