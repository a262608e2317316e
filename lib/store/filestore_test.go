package store

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/getAlby/x402hub.go/common"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestFileStore(t *testing.T) (*FileStore, string) {
	path := filepath.Join(t.TempDir(), "data.json")
	s, err := NewFileStore(path)
	require.NoError(t, err)
	return s, path
}

func usdcRequest() NewRequest {
	return NewRequest{
		Token:         "usdc",
		Amount:        decimal.RequireFromString("10"),
		Receiver:      "0xReceiver",
		Network:       "sepolia",
		ExpiresInDays: 1,
		CreatorWallet: "0xOwner",
	}
}

func TestFileStoreCreateAndGet(t *testing.T) {
	s, _ := newTestFileStore(t)
	now := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return now }

	created, err := s.Create(context.Background(), usdcRequest())
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(created.ID, common.RequestIdPrefix))
	assert.Len(t, created.ID, len(common.RequestIdPrefix)+common.RequestIdLength)
	assert.Equal(t, strings.ToUpper(created.ID), created.ID)

	got, err := s.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, common.RequestStatusPending, got.Status)
	assert.Equal(t, "USDC", got.Token)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Amount))
	assert.Equal(t, "0xReceiver", got.Receiver)
	assert.Equal(t, now, got.CreatedAt)
	assert.Equal(t, now.Add(24*time.Hour), got.ExpiresAt.Time)
	assert.Empty(t, got.TxHash)
	assert.True(t, got.PaidAt.IsZero())

	_, err = s.Get(context.Background(), "REQ-MISSING")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreNoExpiry(t *testing.T) {
	s, _ := newTestFileStore(t)
	spec := usdcRequest()
	spec.ExpiresInDays = 0
	created, err := s.Create(context.Background(), spec)
	require.NoError(t, err)
	assert.True(t, created.ExpiresAt.IsZero())
}

func TestFileStoreSettleExactlyOnce(t *testing.T) {
	s, _ := newTestFileStore(t)
	created, err := s.Create(context.Background(), usdcRequest())
	require.NoError(t, err)

	const attempts = 16
	var wg sync.WaitGroup
	results := make(chan error, attempts)
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			_, err := s.SettleIfPending(context.Background(), created.ID, fmt.Sprintf("0x%064x", i), time.Now())
			results <- err
		}(i)
	}
	wg.Wait()
	close(results)

	winners, losers := 0, 0
	for err := range results {
		if err == nil {
			winners++
			continue
		}
		assert.ErrorIs(t, err, ErrAlreadySettled)
		losers++
	}
	assert.Equal(t, 1, winners)
	assert.Equal(t, attempts-1, losers)

	settled, err := s.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, common.RequestStatusPaid, settled.Status)
	assert.NotEmpty(t, settled.TxHash)
	assert.False(t, settled.PaidAt.IsZero())
}

func TestFileStoreSettleKeepsFirstTxHash(t *testing.T) {
	s, _ := newTestFileStore(t)
	created, err := s.Create(context.Background(), usdcRequest())
	require.NoError(t, err)

	first, err := s.SettleIfPending(context.Background(), created.ID, "0xfirst", time.Now())
	require.NoError(t, err)
	second, err := s.SettleIfPending(context.Background(), created.ID, "0xsecond", time.Now().Add(time.Minute))
	assert.ErrorIs(t, err, ErrAlreadySettled)
	assert.Equal(t, "0xfirst", second.TxHash)
	assert.Equal(t, first.PaidAt, second.PaidAt)

	_, err = s.SettleIfPending(context.Background(), "REQ-MISSING", "0x", time.Now())
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreListNewestFirstWithFilter(t *testing.T) {
	s, _ := newTestFileStore(t)
	base := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	for i, owner := range []string{"0xOwner", "0xOther", "0xOwner"} {
		at := base.Add(time.Duration(i) * time.Minute)
		s.now = func() time.Time { return at }
		spec := usdcRequest()
		spec.CreatorWallet = owner
		_, err := s.Create(context.Background(), spec)
		require.NoError(t, err)
	}

	all, err := s.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.True(t, all[0].CreatedAt.After(all[1].CreatedAt))
	assert.True(t, all[1].CreatedAt.After(all[2].CreatedAt))

	owned, err := s.List(context.Background(), "0xOwner")
	require.NoError(t, err)
	require.Len(t, owned, 2)
	assert.Equal(t, base.Add(2*time.Minute), owned[0].CreatedAt)

	none, err := s.List(context.Background(), "0xowner")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestFileStoreDeleteIgnoresStatus(t *testing.T) {
	s, _ := newTestFileStore(t)
	created, err := s.Create(context.Background(), usdcRequest())
	require.NoError(t, err)
	_, err = s.SettleIfPending(context.Background(), created.ID, "0xabc", time.Now())
	require.NoError(t, err)

	require.NoError(t, s.Delete(context.Background(), created.ID))
	_, err = s.Get(context.Background(), created.ID)
	assert.ErrorIs(t, err, ErrNotFound)
	assert.ErrorIs(t, s.Delete(context.Background(), created.ID), ErrNotFound)
}

func TestFileStoreSurvivesReload(t *testing.T) {
	s, path := newTestFileStore(t)
	created, err := s.Create(context.Background(), usdcRequest())
	require.NoError(t, err)
	_, err = s.SettleIfPending(context.Background(), created.ID, "0xabc", time.Now())
	require.NoError(t, err)

	raw, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(raw), `"requests"`)
	assert.Contains(t, string(raw), created.ID)

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	got, err := reloaded.Get(context.Background(), created.ID)
	require.NoError(t, err)
	assert.Equal(t, common.RequestStatusPaid, got.Status)
	assert.Equal(t, "0xabc", got.TxHash)
	assert.True(t, decimal.NewFromInt(10).Equal(got.Amount))
}

func TestFileStoreRejectsCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))
	_, err := NewFileStore(path)
	assert.Error(t, err)
}

// data.json as written by the earlier node backend
const legacyDocument = `{
  "requests": {
    "REQ-LEGACY01": {
      "id": "REQ-LEGACY01",
      "token": "USDC",
      "amount": "12.5",
      "receiver": "0xReceiver",
      "payer": null,
      "description": "",
      "network": "sepolia",
      "status": "PENDING",
      "createdAt": 1760000000000,
      "expiresAt": 1760086400000,
      "txHash": null,
      "paidAt": null,
      "creatorWallet": "0xOwner"
    },
    "REQ-LEGACY02": {
      "id": "REQ-LEGACY02",
      "token": "ETH",
      "amount": 0.01,
      "receiver": "0xReceiver",
      "payer": null,
      "description": "coffee",
      "network": "sepolia",
      "status": "PAID",
      "createdAt": 1760000100000,
      "expiresAt": null,
      "txHash": "0xdef",
      "paidAt": 1760000200000,
      "creatorWallet": null
    }
  }
}`

func TestFileStoreReadsLegacyDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	require.NoError(t, os.WriteFile(path, []byte(legacyDocument), 0o644))

	s, err := NewFileStore(path)
	require.NoError(t, err)

	pending, err := s.Get(context.Background(), "REQ-LEGACY01")
	require.NoError(t, err)
	assert.Equal(t, common.RequestStatusPending, pending.Status)
	assert.True(t, decimal.RequireFromString("12.5").Equal(pending.Amount))
	assert.Empty(t, pending.Payer)
	assert.Empty(t, pending.TxHash)
	assert.True(t, time.UnixMilli(1760000000000).Equal(pending.CreatedAt))
	assert.True(t, time.UnixMilli(1760086400000).Equal(pending.ExpiresAt.Time))
	assert.True(t, pending.PaidAt.IsZero())
	assert.Equal(t, "0xOwner", pending.CreatorWallet)

	paid, err := s.Get(context.Background(), "REQ-LEGACY02")
	require.NoError(t, err)
	assert.Equal(t, common.RequestStatusPaid, paid.Status)
	assert.True(t, decimal.RequireFromString("0.01").Equal(paid.Amount))
	assert.True(t, paid.ExpiresAt.IsZero())
	assert.True(t, time.UnixMilli(1760000200000).Equal(paid.PaidAt.Time))
	assert.Equal(t, "0xdef", paid.TxHash)

	list, err := s.List(context.Background(), "")
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, "REQ-LEGACY02", list[0].ID)

	// the next write converts the document, and it still reloads
	settled, err := s.SettleIfPending(context.Background(), "REQ-LEGACY01", "0xabc", time.UnixMilli(1760000300000))
	require.NoError(t, err)
	assert.Equal(t, common.RequestStatusPaid, settled.Status)

	reloaded, err := NewFileStore(path)
	require.NoError(t, err)
	got, err := reloaded.Get(context.Background(), "REQ-LEGACY01")
	require.NoError(t, err)
	assert.Equal(t, "0xabc", got.TxHash)
	assert.True(t, time.UnixMilli(1760000000000).Equal(got.CreatedAt))
	assert.True(t, time.UnixMilli(1760000300000).Equal(got.PaidAt.Time))
}

func TestFileStoreRejectsMalformedTimestamp(t *testing.T) {
	path := filepath.Join(t.TempDir(), "data.json")
	doc := `{"requests":{"REQ-X":{"id":"REQ-X","createdAt":true}}}`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))
	_, err := NewFileStore(path)
	assert.Error(t, err)
}
