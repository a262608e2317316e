package verification

import (
	"context"
	"errors"
	"math/big"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/getAlby/x402hub.go/chain"
	"github.com/getAlby/x402hub.go/chain/chaintest"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	usdc     = common.HexToAddress("0x1c7D4B196Cb0C7B01d743Fbc6116a902379C7238")
	receiver = common.HexToAddress("0x00000000000000000000000000000000000000AB")
	payer    = common.HexToAddress("0x00000000000000000000000000000000000000CD")
)

func newTestEngine(t *testing.T, options ...Option) (*Engine, *chaintest.MockEthClient) {
	client := chaintest.NewMockEthClient()
	client.TokenDecimals[usdc] = 6
	chaintest.Install(t, client)
	pool := chain.NewPool(chain.NewRegistry(&chain.Config{
		EthRPCURL:        "http://sepolia.local",
		BNBTestnetRPCURL: "http://bnb-testnet.local",
		USDCAddress:      usdc.Hex(),
	}))
	t.Cleanup(pool.Close)
	return NewEngine(pool, options...), client
}

func ether(s string) *big.Int {
	return decimal.RequireFromString(s).Shift(18).BigInt()
}

func expectedETH(amount string) Expected {
	return Expected{
		Amount:   decimal.RequireFromString(amount),
		Token:    "ETH",
		Receiver: receiver.Hex(),
		Network:  "sepolia",
	}
}

func TestVerifyNativeExactAmount(t *testing.T) {
	engine, client := newTestEngine(t)
	hash := client.AddNativeTransfer(1, receiver, ether("0.5"), types.ReceiptStatusSuccessful)
	expected := expectedETH("0.5")

	verdict, err := engine.Verify(context.Background(), hash.Hex(), expected)
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
	assert.Equal(t, "0.5", verdict.Amount)
	assert.Equal(t, strings.ToLower(receiver.Hex()), verdict.Receiver)
	assert.EqualValues(t, 101, verdict.BlockNumber)
	assert.Equal(t, "ETH", verdict.TokenType)
}

func TestVerifyReceiverIsCaseInsensitive(t *testing.T) {
	engine, client := newTestEngine(t)
	hash := client.AddNativeTransfer(1, receiver, ether("1"), types.ReceiptStatusSuccessful)

	for _, r := range []string{strings.ToLower(receiver.Hex()), "0X" + strings.ToUpper(receiver.Hex()[2:])} {
		expected := expectedETH("1")
		expected.Receiver = r
		verdict, err := engine.Verify(context.Background(), hash.Hex(), expected)
		require.NoError(t, err)
		assert.True(t, verdict.Valid, r)
	}
}

func TestVerifyOverpaymentAccepted(t *testing.T) {
	engine, client := newTestEngine(t)
	hash := client.AddNativeTransfer(1, receiver, ether("2"), types.ReceiptStatusSuccessful)
	expected := expectedETH("1")

	verdict, err := engine.Verify(context.Background(), hash.Hex(), expected)
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
}

func TestVerifyOverpaymentBounded(t *testing.T) {
	engine, client := newTestEngine(t, WithMaxOverpayRatio(0.1))
	hash := client.AddNativeTransfer(1, receiver, ether("2"), types.ReceiptStatusSuccessful)
	expected := expectedETH("1")

	verdict, err := engine.Verify(context.Background(), hash.Hex(), expected)
	require.NoError(t, err)
	assert.False(t, verdict.Valid)
	assert.Equal(t, ReasonAmountOrReceiverMismatch, verdict.Reason)

	hash = client.AddNativeTransfer(2, receiver, ether("1.1"), types.ReceiptStatusSuccessful)
	verdict, err = engine.Verify(context.Background(), hash.Hex(), expected)
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
}

func TestVerifyUnderpaymentBySmallestUnit(t *testing.T) {
	engine, client := newTestEngine(t)
	hash := client.AddTokenTransfer(1, usdc, types.ReceiptStatusSuccessful,
		chain.EncodeTransferLog(usdc, payer, receiver, big.NewInt(9_999_999)))

	verdict, err := engine.Verify(context.Background(), hash.Hex(), Expected{
		Amount:   decimal.RequireFromString("10"),
		Token:    "USDC",
		Receiver: receiver.Hex(),
		Network:  "sepolia",
	})
	require.NoError(t, err)
	assert.False(t, verdict.Valid)
	assert.Equal(t, ReasonAmountOrReceiverMismatch, verdict.Reason)
	require.NotNil(t, verdict.Details)
	assert.Equal(t, "10", verdict.Details.Expected.Amount)
	assert.Equal(t, "9.999999", verdict.Details.Actual.Amount)
	assert.Equal(t, strings.ToLower(receiver.Hex()), verdict.Details.Actual.Receiver)
}

func TestVerifyTokenTransfer(t *testing.T) {
	engine, client := newTestEngine(t)
	hash := client.AddTokenTransfer(1, usdc, types.ReceiptStatusSuccessful,
		chain.EncodeTransferLog(usdc, payer, receiver, big.NewInt(10_000_000)))

	verdict, err := engine.Verify(context.Background(), hash.Hex(), Expected{
		Amount:   decimal.RequireFromString("10"),
		Token:    "usdc",
		Receiver: receiver.Hex(),
		Network:  "sepolia",
	})
	require.NoError(t, err)
	assert.True(t, verdict.Valid)
	assert.Equal(t, "ERC20", verdict.TokenType)
	assert.Equal(t, "10", verdict.Amount)
}

func TestVerifyWrongReceiver(t *testing.T) {
	engine, client := newTestEngine(t)
	hash := client.AddNativeTransfer(1, payer, ether("1"), types.ReceiptStatusSuccessful)
	expected := expectedETH("1")

	verdict, err := engine.Verify(context.Background(), hash.Hex(), expected)
	require.NoError(t, err)
	assert.Equal(t, ReasonAmountOrReceiverMismatch, verdict.Reason)
}

func TestVerifyInvalidReasons(t *testing.T) {
	engine, client := newTestEngine(t)
	reverted := client.AddNativeTransfer(1, receiver, ether("1"), types.ReceiptStatusFailed)
	noEvent := client.AddTokenTransfer(2, usdc, types.ReceiptStatusSuccessful)

	cases := []struct {
		name   string
		txHash string
		token  string
		reason Reason
	}{
		{"unknown hash", common.HexToHash("0xdead").Hex(), "ETH", ReasonTransactionNotFound},
		{"malformed hash", "0x1234", "ETH", ReasonTransactionNotFound},
		{"reverted", reverted.Hex(), "ETH", ReasonTransactionReverted},
		{"unsupported token", noEvent.Hex(), "DOGE", ReasonUnsupportedToken},
		{"no transfer log", noEvent.Hex(), "USDC", ReasonNoTransferEvent},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			verdict, err := engine.Verify(context.Background(), tc.txHash, Expected{
				Amount:   decimal.NewFromInt(1),
				Token:    tc.token,
				Receiver: receiver.Hex(),
				Network:  "sepolia",
			})
			require.NoError(t, err)
			assert.False(t, verdict.Valid)
			assert.Equal(t, tc.reason, verdict.Reason)
			assert.Equal(t, tc.reason.Message(), verdict.Error)
		})
	}
}

func TestVerifyRPCFailureIsInconclusive(t *testing.T) {
	engine, client := newTestEngine(t)
	hash := client.AddNativeTransfer(1, receiver, ether("1"), types.ReceiptStatusSuccessful)
	client.SetErr(errors.New("502 bad gateway"))

	verdict, err := engine.Verify(context.Background(), hash.Hex(), expectedETH("1"))
	assert.Nil(t, verdict)
	var infraErr *InfraError
	require.ErrorAs(t, err, &infraErr)
	assert.Equal(t, chain.NetworkSepolia, infraErr.Network)
}

func TestVerifyIsRepeatable(t *testing.T) {
	engine, client := newTestEngine(t)
	hash := client.AddNativeTransfer(1, receiver, ether("1"), types.ReceiptStatusSuccessful)
	expected := expectedETH("1")

	first, err := engine.Verify(context.Background(), hash.Hex(), expected)
	require.NoError(t, err)
	second, err := engine.Verify(context.Background(), hash.Hex(), expected)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}
