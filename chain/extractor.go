package chain

import (
	"context"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/shopspring/decimal"
)

// Definitive extraction failures. Any other error returned by Extract comes
// from the RPC transport and may succeed on retry.
var (
	ErrTransactionNotFound = errors.New("transaction not found")
	ErrUnsupportedToken    = errors.New("unsupported token")
	ErrNoTransferEvent     = errors.New("no transfer event found")
)

// Transfer is what a transaction actually moved.
type Transfer struct {
	Kind      TransferKind
	Token     string
	Amount    decimal.Decimal
	Recipient common.Address
	Contract  *common.Address
	Decimals  int32
}

type Extractor struct {
	registry *Registry
}

func NewExtractor(registry *Registry) *Extractor {
	return &Extractor{registry: registry}
}

// Extract reads the realized transfer of token from a mined transaction.
func (x *Extractor) Extract(ctx context.Context, reader *Reader, hash common.Hash, receipt *types.Receipt, token, network string) (*Transfer, error) {
	if x.registry.Classify(token, network) == TransferNative {
		return x.extractNative(ctx, reader, hash, token)
	}
	return x.extractToken(ctx, reader, receipt, token, network)
}

func (x *Extractor) extractNative(ctx context.Context, reader *Reader, hash common.Hash, token string) (*Transfer, error) {
	tx, found, err := reader.Transaction(ctx, hash)
	if err != nil {
		return nil, err
	}
	// contract creations have no recipient
	if !found || tx.To() == nil {
		return nil, ErrTransactionNotFound
	}
	return &Transfer{
		Kind:      TransferNative,
		Token:     strings.ToUpper(token),
		Amount:    decimal.NewFromBigInt(tx.Value(), -NativeDecimals),
		Recipient: *tx.To(),
		Decimals:  NativeDecimals,
	}, nil
}

func (x *Extractor) extractToken(ctx context.Context, reader *Reader, receipt *types.Receipt, token, network string) (*Transfer, error) {
	contract, ok := x.registry.Token(network, token)
	if !ok {
		return nil, ErrUnsupportedToken
	}
	decimals, err := reader.TokenDecimals(ctx, contract)
	if err != nil {
		return nil, err
	}
	for _, log := range receipt.Logs {
		if log.Address != contract {
			continue
		}
		event, ok := DecodeTransfer(log)
		if !ok {
			continue
		}
		return &Transfer{
			Kind:      TransferToken,
			Token:     strings.ToUpper(token),
			Amount:    decimal.NewFromBigInt(event.Value, -decimals),
			Recipient: event.To,
			Contract:  &contract,
			Decimals:  decimals,
		}, nil
	}
	return nil, ErrNoTransferEvent
}
