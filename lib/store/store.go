package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/getAlby/x402hub.go/common"
	"github.com/getAlby/x402hub.go/db/models"
	"github.com/labstack/gommon/random"
	"github.com/shopspring/decimal"
	"github.com/uptrace/bun"
)

var (
	ErrNotFound       = errors.New("payment request not found")
	ErrAlreadySettled = errors.New("payment request already settled")
)

// NewRequest is the creation input, already validated and defaulted.
type NewRequest struct {
	Token         string
	Amount        decimal.Decimal
	Receiver      string
	Payer         string
	Description   string
	Network       string
	ExpiresInDays int
	CreatorWallet string
}

// Store persists payment requests. SettleIfPending is the only operation
// that changes a request's status and is atomic across concurrent callers.
type Store interface {
	Create(ctx context.Context, spec NewRequest) (*models.PaymentRequest, error)
	Get(ctx context.Context, id string) (*models.PaymentRequest, error)
	// SettleIfPending marks a pending request paid. If the request was already
	// paid, the stored record is returned together with ErrAlreadySettled.
	SettleIfPending(ctx context.Context, id, txHash string, paidAt time.Time) (*models.PaymentRequest, error)
	// List returns requests newest first, filtered by creator wallet when set.
	List(ctx context.Context, creatorWallet string) ([]models.PaymentRequest, error)
	Delete(ctx context.Context, id string) error
}

type Clock func() time.Time

func generateId() string {
	return common.RequestIdPrefix + random.String(common.RequestIdLength, random.Uppercase+random.Numeric)
}

func newRecord(spec NewRequest, now time.Time) *models.PaymentRequest {
	req := &models.PaymentRequest{
		ID:            generateId(),
		Token:         strings.ToUpper(spec.Token),
		Amount:        spec.Amount,
		Receiver:      spec.Receiver,
		Payer:         spec.Payer,
		Description:   spec.Description,
		Network:       spec.Network,
		Status:        common.RequestStatusPending,
		CreatedAt:     now,
		CreatorWallet: spec.CreatorWallet,
	}
	if spec.ExpiresInDays > 0 {
		req.ExpiresAt = bun.NullTime{Time: now.Add(time.Duration(spec.ExpiresInDays) * 24 * time.Hour)}
	}
	return req
}
