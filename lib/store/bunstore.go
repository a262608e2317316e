package store

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/getAlby/x402hub.go/common"
	"github.com/getAlby/x402hub.go/db/models"
	"github.com/uptrace/bun"
)

// BunStore keeps requests in the payment_requests table.
type BunStore struct {
	db  *bun.DB
	now Clock
}

func NewBunStore(db *bun.DB) *BunStore {
	return &BunStore{db: db, now: time.Now}
}

func (s *BunStore) Create(ctx context.Context, spec NewRequest) (*models.PaymentRequest, error) {
	req := newRecord(spec, s.now())
	_, err := s.db.NewInsert().Model(req).Returning("NULL").Exec(ctx)
	if err != nil {
		return nil, err
	}
	return req, nil
}

func (s *BunStore) Get(ctx context.Context, id string) (*models.PaymentRequest, error) {
	req := &models.PaymentRequest{}
	err := s.db.NewSelect().Model(req).Where("id = ?", id).Limit(1).Scan(ctx)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return req, nil
}

// SettleIfPending relies on a single conditional UPDATE so that concurrent
// settlements of the same id have exactly one winner.
func (s *BunStore) SettleIfPending(ctx context.Context, id, txHash string, paidAt time.Time) (*models.PaymentRequest, error) {
	req := &models.PaymentRequest{}
	err := s.db.NewUpdate().
		Model(req).
		Set("status = ?", common.RequestStatusPaid).
		Set("tx_hash = ?", txHash).
		Set("paid_at = ?", paidAt).
		Where("id = ?", id).
		Where("status = ?", common.RequestStatusPending).
		Returning("*").
		Scan(ctx)
	if err == nil {
		return req, nil
	}
	if !errors.Is(err, sql.ErrNoRows) {
		return nil, err
	}
	current, err := s.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return current, ErrAlreadySettled
}

func (s *BunStore) List(ctx context.Context, creatorWallet string) ([]models.PaymentRequest, error) {
	requests := []models.PaymentRequest{}
	query := s.db.NewSelect().Model(&requests)
	if creatorWallet != "" {
		query = query.Where("creator_wallet = ?", creatorWallet)
	}
	err := query.OrderExpr("created_at DESC").Scan(ctx)
	if err != nil {
		return nil, err
	}
	return requests, nil
}

func (s *BunStore) Delete(ctx context.Context, id string) error {
	result, err := s.db.NewDelete().
		Model((*models.PaymentRequest)(nil)).
		Where("id = ?", id).
		Exec(ctx)
	if err != nil {
		return err
	}
	affected, err := result.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}
