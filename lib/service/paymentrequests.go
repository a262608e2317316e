package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/getAlby/x402hub.go/common"
	"github.com/getAlby/x402hub.go/db/models"
	"github.com/getAlby/x402hub.go/lib/store"
	"github.com/getAlby/x402hub.go/lib/verification"
	"github.com/shopspring/decimal"
)

type CreateRequestParams struct {
	Token         string
	Amount        string
	Receiver      string
	Payer         string
	Description   string
	Network       string
	ExpiresInDays int
	CreatorWallet string
}

func (svc *X402Service) CreateRequest(ctx context.Context, params CreateRequestParams) (*models.PaymentRequest, error) {
	token := strings.TrimSpace(params.Token)
	if token == "" {
		return nil, invalidField("token", "is required")
	}
	if strings.TrimSpace(params.Amount) == "" {
		return nil, invalidField("amount", "is required")
	}
	receiver := strings.TrimSpace(params.Receiver)
	if receiver == "" {
		return nil, invalidField("receiver", "is required")
	}
	amount, err := decimal.NewFromString(strings.TrimSpace(params.Amount))
	if err != nil {
		return nil, invalidField("amount", "must be a decimal number")
	}
	if !amount.IsPositive() {
		return nil, invalidField("amount", "must be positive")
	}
	if params.ExpiresInDays < 0 {
		return nil, invalidField("expiresInDays", "must not be negative")
	}
	network := strings.TrimSpace(params.Network)
	if network == "" {
		network = svc.defaultNetwork()
	}

	req, err := svc.Store.Create(ctx, store.NewRequest{
		Token:         token,
		Amount:        amount,
		Receiver:      receiver,
		Payer:         strings.TrimSpace(params.Payer),
		Description:   params.Description,
		Network:       network,
		ExpiresInDays: params.ExpiresInDays,
		CreatorWallet: strings.TrimSpace(params.CreatorWallet),
	})
	if err != nil {
		return nil, err
	}
	svc.Logger.Infof("Created payment request %s: %s %s on %s to %s", req.ID, req.Amount, req.Token, req.Network, req.Receiver)
	return req, nil
}

func (svc *X402Service) defaultNetwork() string {
	if svc.Config != nil && svc.Config.DefaultNetwork != "" {
		return svc.Config.DefaultNetwork
	}
	return common.DefaultNetwork
}

// RequestLink is the shareable path of a request, absolute when a base url
// is configured.
func (svc *X402Service) RequestLink(id string) string {
	base := ""
	if svc.Config != nil {
		base = strings.TrimRight(svc.Config.LinkBaseUrl, "/")
	}
	return base + common.RequestLinkPath + id
}

type RequestState int

const (
	StatePaymentRequired RequestState = iota
	StateExpired
	StatePaid
)

// RequestView is what a reader of a request is allowed to see right now.
type RequestView struct {
	State   RequestState
	Request *models.PaymentRequest
}

// PaymentAdvertisement describes how to satisfy a pending request.
type PaymentAdvertisement struct {
	ID           string `json:"id"`
	Amount       string `json:"amount"`
	Token        string `json:"token"`
	Network      string `json:"network"`
	Receiver     string `json:"receiver"`
	Description  string `json:"description"`
	Instructions string `json:"instructions"`
}

func (v *RequestView) Advertisement() PaymentAdvertisement {
	req := v.Request
	return PaymentAdvertisement{
		ID:           req.ID,
		Amount:       req.Amount.String(),
		Token:        req.Token,
		Network:      req.Network,
		Receiver:     req.Receiver,
		Description:  req.Description,
		Instructions: fmt.Sprintf("Send %s %s on %s to %s", req.Amount.String(), req.Token, req.Network, req.Receiver),
	}
}

// PaymentHeaders are the protocol headers sent along with a 402 response.
func (v *RequestView) PaymentHeaders() map[string]string {
	req := v.Request
	return map[string]string{
		common.HeaderPaymentScheme:   common.PaymentScheme,
		common.HeaderPaymentAmount:   req.Amount.String(),
		common.HeaderPaymentToken:    req.Token,
		common.HeaderPaymentNetwork:  req.Network,
		common.HeaderPaymentReceiver: req.Receiver,
	}
}

func (svc *X402Service) ViewRequest(ctx context.Context, id string) (*RequestView, error) {
	req, err := svc.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	view := &RequestView{State: StatePaymentRequired, Request: req}
	switch {
	case req.IsPaid():
		view.State = StatePaid
	case req.IsExpired(svc.now()):
		view.State = StateExpired
	}
	return view, nil
}

type RequestSummary struct {
	models.PaymentRequest
	IsExpired bool
	IsPaid    bool
}

func (svc *X402Service) ListRequests(ctx context.Context, creatorWallet string) ([]RequestSummary, error) {
	requests, err := svc.Store.List(ctx, strings.TrimSpace(creatorWallet))
	if err != nil {
		return nil, err
	}
	now := svc.now()
	result := make([]RequestSummary, len(requests))
	for i, req := range requests {
		result[i] = RequestSummary{
			PaymentRequest: req,
			IsExpired:      req.IsExpired(now),
			IsPaid:         req.IsPaid(),
		}
	}
	return result, nil
}

func (svc *X402Service) DeleteRequest(ctx context.Context, id string) error {
	err := svc.Store.Delete(ctx, id)
	if err != nil {
		return err
	}
	svc.forgetPendingCheck(id)
	svc.Logger.Infof("Deleted payment request %s", id)
	return nil
}

// PaymentResult is the outcome of a payment submission. When Verdict is
// invalid, Request is the unchanged stored request.
type PaymentResult struct {
	Request *models.PaymentRequest
	Verdict *verification.Verdict
}

func (r *PaymentResult) Settled() bool {
	return r.Request != nil && r.Request.IsPaid()
}

// SubmitPayment verifies txHash against the request and settles it on a valid
// verdict. Chain read failures are returned as *verification.InfraError and
// queued for the pending check routine; nothing is written in that case.
func (svc *X402Service) SubmitPayment(ctx context.Context, id, txHash string) (*PaymentResult, error) {
	txHash = strings.TrimSpace(txHash)
	if id == "" {
		return nil, invalidField("requestId", "is required")
	}
	if txHash == "" {
		return nil, invalidField("txHash", "is required")
	}
	req, err := svc.Store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.IsPaid() {
		if strings.EqualFold(req.TxHash, txHash) {
			return &PaymentResult{Request: req, Verdict: &verification.Verdict{Valid: true, TxHash: req.TxHash}}, nil
		}
		return nil, ErrAlreadyPaid
	}

	verdict, err := svc.Verifier.Verify(ctx, txHash, verification.Expected{
		Amount:   req.Amount,
		Token:    req.Token,
		Receiver: req.Receiver,
		Network:  req.Network,
	})
	if err != nil {
		svc.schedulePendingCheck(req.ID, txHash)
		return nil, err
	}
	if !verdict.Valid {
		svc.Logger.Infof("Payment for %s rejected: %s (tx %s)", req.ID, verdict.Reason, txHash)
		return &PaymentResult{Request: req, Verdict: verdict}, nil
	}

	settled, err := svc.Store.SettleIfPending(ctx, req.ID, txHash, svc.now())
	switch {
	case errors.Is(err, store.ErrAlreadySettled):
		// a concurrent submission won, which is still a successful payment
		if !strings.EqualFold(settled.TxHash, txHash) {
			svc.Logger.Warnf("Payment request %s was settled by %s while verifying %s", req.ID, settled.TxHash, txHash)
		}
		svc.forgetPendingCheck(req.ID)
		return &PaymentResult{Request: settled, Verdict: verdict}, nil
	case err != nil:
		return nil, err
	}

	svc.forgetPendingCheck(req.ID)
	svc.Logger.Infof("Payment request %s settled by tx %s in block %d", settled.ID, txHash, verdict.BlockNumber)
	if svc.RequestPubSub != nil {
		svc.RequestPubSub.Publish(common.EventTypeRequestSettled, *settled)
	}
	return &PaymentResult{Request: settled, Verdict: verdict}, nil
}
