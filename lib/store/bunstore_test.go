package store

import (
	"context"
	"database/sql/driver"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/getAlby/x402hub.go/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
)

var requestColumns = []string{
	"id", "token", "amount", "receiver", "payer", "description", "network",
	"status", "created_at", "expires_at", "tx_hash", "paid_at", "creator_wallet",
}

func newMockBunStore(t *testing.T) (*BunStore, sqlmock.Sqlmock) {
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	db := bun.NewDB(sqlDB, pgdialect.New())
	t.Cleanup(func() {
		assert.NoError(t, mock.ExpectationsWereMet())
		db.Close()
	})
	return NewBunStore(db), mock
}

func pendingRow(id string, createdAt time.Time) []driver.Value {
	return []driver.Value{id, "USDC", "10", "0xReceiver", nil, "", "sepolia",
		common.RequestStatusPending, createdAt, nil, nil, nil, "0xOwner"}
}

func paidRow(id, txHash string, createdAt, paidAt time.Time) []driver.Value {
	return []driver.Value{id, "USDC", "10", "0xReceiver", nil, "", "sepolia",
		common.RequestStatusPaid, createdAt, nil, txHash, paidAt, "0xOwner"}
}

func TestBunStoreCreate(t *testing.T) {
	s, mock := newMockBunStore(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	mock.ExpectExec(`INSERT INTO "payment_requests"`).WillReturnResult(sqlmock.NewResult(0, 1))

	created, err := s.Create(context.Background(), usdcRequest())
	require.NoError(t, err)
	assert.Equal(t, common.RequestStatusPending, created.Status)
	assert.Equal(t, now.Add(24*time.Hour), created.ExpiresAt.Time)
}

func TestBunStoreGet(t *testing.T) {
	s, mock := newMockBunStore(t)
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM "payment_requests" .*WHERE \(id = 'REQ-AAAAAAAAA'\)`).
		WillReturnRows(sqlmock.NewRows(requestColumns).AddRow(pendingRow("REQ-AAAAAAAAA", createdAt)...))
	mock.ExpectQuery(`SELECT .* FROM "payment_requests"`).
		WillReturnRows(sqlmock.NewRows(requestColumns))

	got, err := s.Get(context.Background(), "REQ-AAAAAAAAA")
	require.NoError(t, err)
	assert.Equal(t, "REQ-AAAAAAAAA", got.ID)
	assert.Equal(t, "10", got.Amount.String())
	assert.Equal(t, createdAt, got.CreatedAt)

	_, err = s.Get(context.Background(), "REQ-MISSING")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBunStoreSettleIfPending(t *testing.T) {
	s, mock := newMockBunStore(t)
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	paidAt := createdAt.Add(time.Hour)

	mock.ExpectQuery(`UPDATE "payment_requests" .*SET status = 'PAID'.*WHERE \(id = 'REQ-AAAAAAAAA'\) AND \(status = 'PENDING'\) RETURNING \*`).
		WillReturnRows(sqlmock.NewRows(requestColumns).AddRow(paidRow("REQ-AAAAAAAAA", "0xfirst", createdAt, paidAt)...))

	settled, err := s.SettleIfPending(context.Background(), "REQ-AAAAAAAAA", "0xfirst", paidAt)
	require.NoError(t, err)
	assert.Equal(t, common.RequestStatusPaid, settled.Status)
	assert.Equal(t, "0xfirst", settled.TxHash)
}

func TestBunStoreSettleLoserSeesAlreadySettled(t *testing.T) {
	s, mock := newMockBunStore(t)
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	paidAt := createdAt.Add(time.Hour)

	mock.ExpectQuery(`UPDATE "payment_requests"`).
		WillReturnRows(sqlmock.NewRows(requestColumns))
	mock.ExpectQuery(`SELECT .* FROM "payment_requests"`).
		WillReturnRows(sqlmock.NewRows(requestColumns).AddRow(paidRow("REQ-AAAAAAAAA", "0xfirst", createdAt, paidAt)...))

	current, err := s.SettleIfPending(context.Background(), "REQ-AAAAAAAAA", "0xsecond", time.Now())
	assert.ErrorIs(t, err, ErrAlreadySettled)
	require.NotNil(t, current)
	assert.Equal(t, "0xfirst", current.TxHash)
}

func TestBunStoreSettleUnknown(t *testing.T) {
	s, mock := newMockBunStore(t)

	mock.ExpectQuery(`UPDATE "payment_requests"`).
		WillReturnRows(sqlmock.NewRows(requestColumns))
	mock.ExpectQuery(`SELECT .* FROM "payment_requests"`).
		WillReturnRows(sqlmock.NewRows(requestColumns))

	_, err := s.SettleIfPending(context.Background(), "REQ-MISSING", "0xsecond", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBunStoreList(t *testing.T) {
	s, mock := newMockBunStore(t)
	createdAt := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT .* FROM "payment_requests" .*WHERE \(creator_wallet = '0xOwner'\) ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(requestColumns).
			AddRow(pendingRow("REQ-BBBBBBBBB", createdAt.Add(time.Minute))...).
			AddRow(pendingRow("REQ-AAAAAAAAA", createdAt)...))
	mock.ExpectQuery(`SELECT .* FROM "payment_requests" .*ORDER BY created_at DESC`).
		WillReturnRows(sqlmock.NewRows(requestColumns))

	requests, err := s.List(context.Background(), "0xOwner")
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "REQ-BBBBBBBBB", requests[0].ID)

	requests, err = s.List(context.Background(), "")
	require.NoError(t, err)
	assert.Empty(t, requests)
}

func TestBunStoreDelete(t *testing.T) {
	s, mock := newMockBunStore(t)

	mock.ExpectExec(`DELETE FROM "payment_requests" .*WHERE \(id = 'REQ-AAAAAAAAA'\)`).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec(`DELETE FROM "payment_requests"`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	assert.NoError(t, s.Delete(context.Background(), "REQ-AAAAAAAAA"))
	assert.ErrorIs(t, s.Delete(context.Background(), "REQ-MISSING"), ErrNotFound)
}
