// Package chaintest provides an in-memory chain.EthClient for tests.
package chaintest

import (
	"context"
	"math/big"
	"sync"
	"testing"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/getAlby/x402hub.go/chain"
)

// MockEthClient serves transactions, receipts and token metadata from maps.
// Err, when set, is returned by every call to simulate an unreachable node.
type MockEthClient struct {
	mu sync.Mutex

	Transactions  map[common.Hash]*types.Transaction
	Receipts      map[common.Hash]*types.Receipt
	TokenDecimals map[common.Address]uint8
	Balances      map[common.Address]*big.Int
	TokenBalances map[common.Address]map[common.Address]*big.Int
	Err           error

	ReceiptCalls int
}

func NewMockEthClient() *MockEthClient {
	return &MockEthClient{
		Transactions:  map[common.Hash]*types.Transaction{},
		Receipts:      map[common.Hash]*types.Receipt{},
		TokenDecimals: map[common.Address]uint8{},
		Balances:      map[common.Address]*big.Int{},
		TokenBalances: map[common.Address]map[common.Address]*big.Int{},
	}
}

// Install makes chain.NewEthClient return client for every endpoint until the
// test finishes.
func Install(t *testing.T, client chain.EthClient) {
	t.Helper()
	original := chain.NewEthClient
	chain.NewEthClient = func(string) (chain.EthClient, error) {
		return client, nil
	}
	t.Cleanup(func() {
		chain.NewEthClient = original
	})
}

func (m *MockEthClient) SetErr(err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Err = err
}

func (m *MockEthClient) TransactionByHash(ctx context.Context, hash common.Hash) (*types.Transaction, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, false, m.Err
	}
	tx, ok := m.Transactions[hash]
	if !ok {
		return nil, false, ethereum.NotFound
	}
	return tx, false, nil
}

func (m *MockEthClient) TransactionReceipt(ctx context.Context, hash common.Hash) (*types.Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.ReceiptCalls++
	if m.Err != nil {
		return nil, m.Err
	}
	receipt, ok := m.Receipts[hash]
	if !ok {
		return nil, ethereum.NotFound
	}
	return receipt, nil
}

func (m *MockEthClient) CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	if msg.To == nil || len(msg.Data) < 4 {
		return nil, nil
	}
	switch common.Bytes2Hex(msg.Data[:4]) {
	// decimals()
	case "313ce567":
		decimals, ok := m.TokenDecimals[*msg.To]
		if !ok {
			return nil, nil
		}
		return common.LeftPadBytes([]byte{decimals}, 32), nil
	// balanceOf(address)
	case "70a08231":
		owner := common.BytesToAddress(msg.Data[4:])
		balance, ok := m.TokenBalances[*msg.To][owner]
		if !ok {
			balance = big.NewInt(0)
		}
		return common.LeftPadBytes(balance.Bytes(), 32), nil
	}
	return nil, nil
}

func (m *MockEthClient) BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.Err != nil {
		return nil, m.Err
	}
	balance, ok := m.Balances[account]
	if !ok {
		return big.NewInt(0), nil
	}
	return balance, nil
}

func (m *MockEthClient) Close() {}

// AddNativeTransfer records a successful value transfer and returns its hash.
func (m *MockEthClient) AddNativeTransfer(nonce uint64, to common.Address, wei *big.Int, status uint64) common.Hash {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &to,
		Value:    wei,
		Gas:      21000,
		GasPrice: big.NewInt(1),
	})
	m.Transactions[tx.Hash()] = tx
	m.Receipts[tx.Hash()] = &types.Receipt{
		Status:      status,
		TxHash:      tx.Hash(),
		BlockNumber: big.NewInt(int64(100 + nonce)),
	}
	return tx.Hash()
}

// AddTokenTransfer records a token transaction emitting logs and returns its hash.
func (m *MockEthClient) AddTokenTransfer(nonce uint64, contract common.Address, status uint64, logs ...*types.Log) common.Hash {
	m.mu.Lock()
	defer m.mu.Unlock()
	tx := types.NewTx(&types.LegacyTx{
		Nonce:    nonce,
		To:       &contract,
		Value:    big.NewInt(0),
		Gas:      60000,
		GasPrice: big.NewInt(1),
	})
	m.Transactions[tx.Hash()] = tx
	m.Receipts[tx.Hash()] = &types.Receipt{
		Status:      status,
		TxHash:      tx.Hash(),
		BlockNumber: big.NewInt(int64(100 + nonce)),
		Logs:        logs,
	}
	return tx.Hash()
}
