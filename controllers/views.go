package controllers

import (
	"github.com/getAlby/x402hub.go/db/models"
	"github.com/getAlby/x402hub.go/lib/service"
	"github.com/uptrace/bun"
)

// Timestamps leave the api as unix epoch milliseconds.

func millis(t bun.NullTime) *int64 {
	if t.IsZero() {
		return nil
	}
	ms := t.Time.UnixMilli()
	return &ms
}

// PaymentRequest is the full stored request as listed to its creator.
type PaymentRequest struct {
	ID            string `json:"id"`
	Token         string `json:"token"`
	Amount        string `json:"amount"`
	Receiver      string `json:"receiver"`
	Payer         string `json:"payer,omitempty"`
	Description   string `json:"description"`
	Network       string `json:"network"`
	Status        string `json:"status"`
	CreatedAt     int64  `json:"createdAt"`
	ExpiresAt     *int64 `json:"expiresAt"`
	TxHash        string `json:"txHash,omitempty"`
	PaidAt        *int64 `json:"paidAt"`
	CreatorWallet string `json:"creatorWallet,omitempty"`
	IsExpired     bool   `json:"isExpired"`
	IsPaid        bool   `json:"isPaid"`
}

func toPaymentRequest(summary service.RequestSummary) PaymentRequest {
	req := summary.PaymentRequest
	return PaymentRequest{
		ID:            req.ID,
		Token:         req.Token,
		Amount:        req.Amount.String(),
		Receiver:      req.Receiver,
		Payer:         req.Payer,
		Description:   req.Description,
		Network:       req.Network,
		Status:        req.Status,
		CreatedAt:     req.CreatedAt.UnixMilli(),
		ExpiresAt:     millis(req.ExpiresAt),
		TxHash:        req.TxHash,
		PaidAt:        millis(req.PaidAt),
		CreatorWallet: req.CreatorWallet,
		IsExpired:     summary.IsExpired,
		IsPaid:        summary.IsPaid,
	}
}

// SettledRequest is the public view of a paid request.
type SettledRequest struct {
	ID          string `json:"id"`
	Amount      string `json:"amount"`
	Token       string `json:"token"`
	Receiver    string `json:"receiver"`
	Network     string `json:"network"`
	Description string `json:"description"`
	TxHash      string `json:"txHash"`
	PaidAt      *int64 `json:"paidAt"`
}

func toSettledRequest(req *models.PaymentRequest) SettledRequest {
	return SettledRequest{
		ID:          req.ID,
		Amount:      req.Amount.String(),
		Token:       req.Token,
		Receiver:    req.Receiver,
		Network:     req.Network,
		Description: req.Description,
		TxHash:      req.TxHash,
		PaidAt:      millis(req.PaidAt),
	}
}

type SettledResponseBody struct {
	Success bool           `json:"success"`
	Status  string         `json:"status"`
	Request SettledRequest `json:"request"`
}
