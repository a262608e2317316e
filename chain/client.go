package chain

import (
	"context"
	"errors"
	"fmt"
	"math/big"
	"sync"

	"github.com/ethereum/go-ethereum"
	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/ethereum/go-ethereum/ethclient"
)

// EthClient is the subset of ethclient.Client used for verification.
type EthClient interface {
	TransactionByHash(ctx context.Context, hash common.Hash) (tx *types.Transaction, isPending bool, err error)
	TransactionReceipt(ctx context.Context, txHash common.Hash) (*types.Receipt, error)
	CallContract(ctx context.Context, msg ethereum.CallMsg, blockNumber *big.Int) ([]byte, error)
	BalanceAt(ctx context.Context, account common.Address, blockNumber *big.Int) (*big.Int, error)
	Close()
}

// NewEthClient dials an RPC endpoint. Tests replace it to avoid network access.
var NewEthClient = func(rpcURL string) (EthClient, error) {
	return ethclient.Dial(rpcURL)
}

// Reader is a read-only handle on one network. It performs no retries.
type Reader struct {
	Network Network
	client  EthClient
}

func NewReader(network Network, client EthClient) *Reader {
	return &Reader{Network: network, client: client}
}

// Transaction fetches a transaction. A missing transaction is reported through
// found=false, not as an error.
func (r *Reader) Transaction(ctx context.Context, hash common.Hash) (tx *types.Transaction, found bool, err error) {
	tx, _, err = r.client.TransactionByHash(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("fetch transaction %s on %s: %w", hash.Hex(), r.Network.Key, err)
	}
	return tx, tx != nil, nil
}

// Receipt fetches the receipt of a mined transaction. Pending or unknown
// transactions are reported through found=false.
func (r *Reader) Receipt(ctx context.Context, hash common.Hash) (receipt *types.Receipt, found bool, err error) {
	receipt, err = r.client.TransactionReceipt(ctx, hash)
	if errors.Is(err, ethereum.NotFound) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("fetch receipt %s on %s: %w", hash.Hex(), r.Network.Key, err)
	}
	return receipt, receipt != nil, nil
}

func (r *Reader) Call(ctx context.Context, to common.Address, data []byte) ([]byte, error) {
	out, err := r.client.CallContract(ctx, ethereum.CallMsg{To: &to, Data: data}, nil)
	if err != nil {
		return nil, fmt.Errorf("call %s on %s: %w", to.Hex(), r.Network.Key, err)
	}
	return out, nil
}

func (r *Reader) Balance(ctx context.Context, account common.Address) (*big.Int, error) {
	balance, err := r.client.BalanceAt(ctx, account, nil)
	if err != nil {
		return nil, fmt.Errorf("balance of %s on %s: %w", account.Hex(), r.Network.Key, err)
	}
	return balance, nil
}

// Pool hands out one lazily dialed Reader per concrete network.
type Pool struct {
	registry *Registry

	mu      sync.Mutex
	readers map[string]*Reader
}

func NewPool(registry *Registry) *Pool {
	return &Pool{
		registry: registry,
		readers:  map[string]*Reader{},
	}
}

func (p *Pool) Registry() *Registry {
	return p.registry
}

// Reader resolves the network identifier, unknown ones falling back to the
// default network, and returns its connection.
func (p *Pool) Reader(network string) (*Reader, error) {
	n := p.registry.Network(network)

	p.mu.Lock()
	defer p.mu.Unlock()
	if r, ok := p.readers[n.Key]; ok {
		return r, nil
	}
	if n.RPCURL == "" {
		return nil, fmt.Errorf("no rpc endpoint configured for network %s", n.Key)
	}
	client, err := NewEthClient(n.RPCURL)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", n.Key, err)
	}
	r := NewReader(n, client)
	p.readers[n.Key] = r
	return r, nil
}

func (p *Pool) Close() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for key, r := range p.readers {
		r.client.Close()
		delete(p.readers, key)
	}
}
