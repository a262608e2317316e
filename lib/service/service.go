package service

import (
	"context"
	"sync"
	"time"

	"github.com/getAlby/x402hub.go/chain"
	"github.com/getAlby/x402hub.go/lib/store"
	"github.com/getAlby/x402hub.go/lib/verification"
	"github.com/getAlby/x402hub.go/rabbitmq"
	"github.com/ziflex/lecho/v3"
)

// Verifier checks a transaction against an expected payment.
type Verifier interface {
	Verify(ctx context.Context, txHash string, expected verification.Expected) (*verification.Verdict, error)
}

type X402Service struct {
	Config         *Config
	Store          store.Store
	Chain          *chain.Pool
	Verifier       Verifier
	Logger         *lecho.Logger
	RequestPubSub  *Pubsub
	RabbitMQClient rabbitmq.Client
	// Now is the clock used for expiry and settlement times.
	Now            func() time.Time

	pendingOnce sync.Once
	pending     *pendingChecks
}

func (svc *X402Service) now() time.Time {
	if svc.Now != nil {
		return svc.Now()
	}
	return time.Now()
}
