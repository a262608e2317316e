package service

import (
	"context"
	"errors"
	"math/big"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/getAlby/x402hub.go/lib/verification"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNetworks(t *testing.T) {
	svc, _ := newTestService(t)

	networks := svc.Networks()
	require.Len(t, networks, 2)
	assert.Equal(t, "bnb-testnet", networks[0].Key)
	assert.Equal(t, []string{"BNB"}, networks[0].Tokens)
	assert.Equal(t, "sepolia", networks[1].Key)
	assert.Equal(t, []string{"ETH", "USDC"}, networks[1].Tokens)
}

func TestBalance(t *testing.T) {
	svc, client := newTestService(t)
	client.Balances[testReceiver] = ether("1.25")
	client.TokenBalances[testUSDC] = map[common.Address]*big.Int{}
	client.TokenBalances[testUSDC][testReceiver] = big.NewInt(2_500_000)

	balance, err := svc.Balance(context.Background(), "ethereum", "ETH", testReceiver.Hex())
	require.NoError(t, err)
	assert.Equal(t, "sepolia", balance.Network)
	assert.Equal(t, "1.25", balance.Balance)

	balance, err = svc.Balance(context.Background(), "sepolia", "usdc", testReceiver.Hex())
	require.NoError(t, err)
	assert.Equal(t, "2.5", balance.Balance)

	var validationErr *ValidationError
	_, err = svc.Balance(context.Background(), "sepolia", "ETH", "not-an-address")
	assert.ErrorAs(t, err, &validationErr)
	_, err = svc.Balance(context.Background(), "sepolia", "DOGE", testReceiver.Hex())
	assert.ErrorAs(t, err, &validationErr)

	client.SetErr(errors.New("connection refused"))
	_, err = svc.Balance(context.Background(), "sepolia", "ETH", testReceiver.Hex())
	var infraErr *verification.InfraError
	assert.ErrorAs(t, err, &infraErr)
}
