package verification

import (
	"fmt"
)

type Reason string

const (
	ReasonTransactionNotFound      Reason = "TransactionNotFound"
	ReasonTransactionReverted      Reason = "TransactionReverted"
	ReasonUnsupportedToken         Reason = "UnsupportedToken"
	ReasonNoTransferEvent          Reason = "NoTransferEvent"
	ReasonAmountOrReceiverMismatch Reason = "AmountOrReceiverMismatch"
)

var reasonMessages = map[Reason]string{
	ReasonTransactionNotFound:      "Transaction not found",
	ReasonTransactionReverted:      "Transaction failed",
	ReasonUnsupportedToken:         "Unsupported token for this network",
	ReasonNoTransferEvent:          "No transfer event found",
	ReasonAmountOrReceiverMismatch: "Amount or receiver mismatch",
}

func (r Reason) Message() string {
	return reasonMessages[r]
}

type Party struct {
	Amount   string `json:"amount"`
	Receiver string `json:"receiver"`
}

type MismatchDetails struct {
	Expected Party `json:"expected"`
	Actual   Party `json:"actual"`
}

// Verdict is the outcome of checking one transaction against an expected
// payment. Invalid verdicts are regular values, never errors.
type Verdict struct {
	Valid       bool             `json:"valid"`
	Reason      Reason           `json:"reason,omitempty"`
	Error       string           `json:"error,omitempty"`
	Details     *MismatchDetails `json:"details,omitempty"`
	TxHash      string           `json:"txHash"`
	Amount      string           `json:"amount,omitempty"`
	Receiver    string           `json:"receiver,omitempty"`
	BlockNumber uint64           `json:"blockNumber,omitempty"`
	TokenType   string           `json:"tokenType,omitempty"`
}

func invalid(txHash string, reason Reason) *Verdict {
	return &Verdict{
		Valid:  false,
		Reason: reason,
		Error:  reason.Message(),
		TxHash: txHash,
	}
}

// InfraError means the chain could not be read. The payment may well be
// valid, callers should retry later.
type InfraError struct {
	Network string
	Err     error
}

func (e *InfraError) Error() string {
	return fmt.Sprintf("verification inconclusive on %s: %v", e.Network, e.Err)
}

func (e *InfraError) Unwrap() error {
	return e.Err
}
