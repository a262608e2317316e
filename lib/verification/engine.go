package verification

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/core/types"
	"github.com/getAlby/x402hub.go/chain"
	"github.com/shopspring/decimal"
)

// Engine checks on-chain transactions against expected payments. It only
// reads chain state, so repeating a verification is always safe.
type Engine struct {
	pool            *chain.Pool
	extractor       *chain.Extractor
	timeout         time.Duration
	maxOverpayRatio decimal.Decimal
}

type Option func(*Engine)

// WithTimeout bounds the chain reads of a single verification.
func WithTimeout(timeout time.Duration) Option {
	return func(e *Engine) {
		e.timeout = timeout
	}
}

// WithMaxOverpayRatio rejects realized amounts above expected*(1+ratio).
// Zero keeps overpayment unbounded.
func WithMaxOverpayRatio(ratio float64) Option {
	return func(e *Engine) {
		e.maxOverpayRatio = decimal.NewFromFloat(ratio)
	}
}

func NewEngine(pool *chain.Pool, options ...Option) *Engine {
	e := &Engine{
		pool:      pool,
		extractor: chain.NewExtractor(pool.Registry()),
		timeout:   30 * time.Second,
	}
	for _, opt := range options {
		opt(e)
	}
	return e
}

type Expected struct {
	Amount   decimal.Decimal
	Token    string
	Receiver string
	Network  string
}

// Verify returns a verdict for txHash. A non-nil error is always an
// *InfraError: the chain could not be read and nothing was decided.
func (e *Engine) Verify(ctx context.Context, txHash string, expected Expected) (verdict *Verdict, err error) {
	network := e.pool.Registry().Network(expected.Network)
	start := time.Now()
	defer func() {
		verifyDuration.WithLabelValues(network.Key).Observe(time.Since(start).Seconds())
		observe(network.Key, verdict, err)
	}()

	if e.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, e.timeout)
		defer cancel()
	}

	if !isTxHash(txHash) {
		return invalid(txHash, ReasonTransactionNotFound), nil
	}
	hash := common.HexToHash(txHash)

	reader, err := e.pool.Reader(expected.Network)
	if err != nil {
		return nil, &InfraError{Network: network.Key, Err: err}
	}

	receipt, found, err := reader.Receipt(ctx, hash)
	if err != nil {
		return nil, &InfraError{Network: network.Key, Err: err}
	}
	if !found {
		return invalid(txHash, ReasonTransactionNotFound), nil
	}
	if receipt.Status != types.ReceiptStatusSuccessful {
		return invalid(txHash, ReasonTransactionReverted), nil
	}

	transfer, err := e.extractor.Extract(ctx, reader, hash, receipt, expected.Token, expected.Network)
	switch {
	case errors.Is(err, chain.ErrTransactionNotFound):
		return invalid(txHash, ReasonTransactionNotFound), nil
	case errors.Is(err, chain.ErrUnsupportedToken):
		return invalid(txHash, ReasonUnsupportedToken), nil
	case errors.Is(err, chain.ErrNoTransferEvent):
		return invalid(txHash, ReasonNoTransferEvent), nil
	case err != nil:
		return nil, &InfraError{Network: network.Key, Err: err}
	}

	recipient := strings.ToLower(transfer.Recipient.Hex())
	if !e.amountMatches(transfer.Amount, expected.Amount) || !strings.EqualFold(recipient, expected.Receiver) {
		v := invalid(txHash, ReasonAmountOrReceiverMismatch)
		v.Details = &MismatchDetails{
			Expected: Party{Amount: expected.Amount.String(), Receiver: expected.Receiver},
			Actual:   Party{Amount: transfer.Amount.String(), Receiver: recipient},
		}
		return v, nil
	}

	tokenType := transfer.Token
	if transfer.Kind == chain.TransferToken {
		tokenType = "ERC20"
	}
	var blockNumber uint64
	if receipt.BlockNumber != nil {
		blockNumber = receipt.BlockNumber.Uint64()
	}
	return &Verdict{
		Valid:       true,
		TxHash:      txHash,
		Amount:      transfer.Amount.String(),
		Receiver:    recipient,
		BlockNumber: blockNumber,
		TokenType:   tokenType,
	}, nil
}

// amountMatches accepts any realized amount at or above the expected one,
// optionally bounded by the overpay ratio.
func (e *Engine) amountMatches(realized, expected decimal.Decimal) bool {
	if realized.LessThan(expected) {
		return false
	}
	if e.maxOverpayRatio.IsPositive() {
		limit := expected.Mul(decimal.NewFromInt(1).Add(e.maxOverpayRatio))
		return !realized.GreaterThan(limit)
	}
	return true
}

func isTxHash(s string) bool {
	if !strings.HasPrefix(s, "0x") && !strings.HasPrefix(s, "0X") {
		return false
	}
	if len(s) != 66 {
		return false
	}
	for _, c := range s[2:] {
		if !strings.ContainsRune("0123456789abcdefABCDEF", c) {
			return false
		}
	}
	return true
}
