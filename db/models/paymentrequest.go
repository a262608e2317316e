package models

import (
	"context"
	"time"

	"github.com/getAlby/x402hub.go/common"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

// PaymentRequest : Payment request Model
type PaymentRequest struct {
	bun.BaseModel `bun:"table:payment_requests" json:"-"`

	ID            string          `json:"id" bun:",pk"`
	Token         string          `json:"token" bun:",notnull"`
	Amount        decimal.Decimal `json:"amount" bun:"type:numeric,notnull"`
	Receiver      string          `json:"receiver" bun:",notnull"`
	Payer         string          `json:"payer,omitempty" bun:",nullzero"`
	Description   string          `json:"description" bun:",notnull,default:''"`
	Network       string          `json:"network" bun:",notnull"`
	Status        string          `json:"status" bun:",notnull,default:'PENDING'"`
	CreatedAt     time.Time       `json:"createdAt" bun:",nullzero,notnull,default:current_timestamp"`
	ExpiresAt     bun.NullTime    `json:"expiresAt"`
	TxHash        string          `json:"txHash,omitempty" bun:",nullzero"`
	PaidAt        bun.NullTime    `json:"paidAt"`
	CreatorWallet string          `json:"creatorWallet,omitempty" bun:",nullzero"`
}

func (p *PaymentRequest) BeforeAppendModel(ctx context.Context, query bun.Query) error {
	switch query.(type) {
	case *bun.InsertQuery:
		if p.CreatedAt.IsZero() {
			p.CreatedAt = time.Now()
		}
		if p.Status == "" {
			p.Status = common.RequestStatusPending
		}
	}
	return nil
}

func (p *PaymentRequest) IsPaid() bool {
	return p.Status == common.RequestStatusPaid
}

// IsExpired reports whether the deadline has passed at now. Settled requests
// never expire.
func (p *PaymentRequest) IsExpired(now time.Time) bool {
	if p.IsPaid() || p.ExpiresAt.IsZero() {
		return false
	}
	return now.After(p.ExpiresAt.Time)
}

var _ bun.BeforeAppendModelHook = (*PaymentRequest)(nil)
