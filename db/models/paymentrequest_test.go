package models

import (
	"testing"
	"time"

	"github.com/getAlby/x402hub.go/common"
	"github.com/stretchr/testify/assert"
	"github.com/uptrace/bun"
)

func TestIsExpired(t *testing.T) {
	now := time.Date(2026, 1, 2, 12, 0, 0, 0, time.UTC)
	req := &PaymentRequest{Status: common.RequestStatusPending}
	assert.False(t, req.IsExpired(now))

	req.ExpiresAt = bun.NullTime{Time: now.Add(-time.Second)}
	assert.True(t, req.IsExpired(now))

	req.ExpiresAt = bun.NullTime{Time: now.Add(time.Hour)}
	assert.False(t, req.IsExpired(now))
}

func TestPaidRequestNeverExpires(t *testing.T) {
	now := time.Now()
	req := &PaymentRequest{
		Status:    common.RequestStatusPaid,
		ExpiresAt: bun.NullTime{Time: now.Add(-24 * time.Hour)},
	}
	assert.True(t, req.IsPaid())
	assert.False(t, req.IsExpired(now))
}
