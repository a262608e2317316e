package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/getAlby/x402hub.go/lib/store"
	"github.com/getAlby/x402hub.go/lib/verification"
	"github.com/getsentry/sentry-go"
)

type pendingCheck struct {
	requestId string
	txHash    string
	backoff   *backoff.ExponentialBackOff
	due       time.Time
}

// pendingChecks holds submissions whose verification could not read the
// chain. They are retried until a definitive verdict is reached.
type pendingChecks struct {
	mu     sync.Mutex
	checks map[string]*pendingCheck
}

func (svc *X402Service) pendingQueue() *pendingChecks {
	svc.pendingOnce.Do(func() {
		svc.pending = &pendingChecks{checks: map[string]*pendingCheck{}}
	})
	return svc.pending
}

func newCheckBackoff() *backoff.ExponentialBackOff {
	b := backoff.NewExponentialBackOff()
	b.InitialInterval = 15 * time.Second
	b.MaxInterval = 10 * time.Minute
	b.MaxElapsedTime = 24 * time.Hour
	b.Reset()
	return b
}

func (svc *X402Service) watcherEnabled() bool {
	return svc.Config != nil && svc.Config.WatcherInterval > 0
}

func (svc *X402Service) schedulePendingCheck(requestId, txHash string) {
	if !svc.watcherEnabled() {
		return
	}
	q := svc.pendingQueue()
	q.mu.Lock()
	defer q.mu.Unlock()
	check, ok := q.checks[requestId]
	if !ok || check.txHash != txHash {
		check = &pendingCheck{requestId: requestId, txHash: txHash, backoff: newCheckBackoff()}
		q.checks[requestId] = check
	}
	next := check.backoff.NextBackOff()
	if next == backoff.Stop {
		delete(q.checks, requestId)
		return
	}
	check.due = svc.now().Add(next)
}

func (svc *X402Service) forgetPendingCheck(requestId string) {
	q := svc.pendingQueue()
	q.mu.Lock()
	defer q.mu.Unlock()
	delete(q.checks, requestId)
}

// PendingChecks returns the number of queued submissions.
func (svc *X402Service) PendingChecks() int {
	q := svc.pendingQueue()
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.checks)
}

func (svc *X402Service) dueChecks() []pendingCheck {
	q := svc.pendingQueue()
	q.mu.Lock()
	defer q.mu.Unlock()
	now := svc.now()
	due := []pendingCheck{}
	for _, check := range q.checks {
		if !check.due.After(now) {
			due = append(due, *check)
		}
	}
	return due
}

// CheckPendingPayments re-verifies every due submission once.
func (svc *X402Service) CheckPendingPayments(ctx context.Context) {
	for _, check := range svc.dueChecks() {
		if ctx.Err() != nil {
			return
		}
		view, err := svc.ViewRequest(ctx, check.requestId)
		if errors.Is(err, store.ErrNotFound) || (err == nil && view.State != StatePaymentRequired) {
			svc.forgetPendingCheck(check.requestId)
			continue
		}
		if err != nil {
			svc.Logger.Error(err)
			continue
		}
		result, err := svc.SubmitPayment(ctx, check.requestId, check.txHash)
		var infraErr *verification.InfraError
		switch {
		case errors.As(err, &infraErr):
			svc.Logger.Warnf("Pending check for %s still inconclusive: %v", check.requestId, err)
		case err != nil:
			svc.Logger.Error(err)
			sentry.CaptureException(err)
			svc.forgetPendingCheck(check.requestId)
		default:
			if !result.Settled() {
				svc.Logger.Infof("Pending check for %s finished without settlement: %s", check.requestId, result.Verdict.Reason)
			}
			svc.forgetPendingCheck(check.requestId)
		}
	}
}

// StartPendingCheckRoutine runs CheckPendingPayments on every tick until ctx
// is done.
func (svc *X402Service) StartPendingCheckRoutine(ctx context.Context) error {
	if svc.Config.WatcherInterval <= 0 {
		return nil
	}
	svc.Logger.Infof("Starting pending payment checks every %s", svc.Config.WatcherInterval)
	ticker := time.NewTicker(svc.Config.WatcherInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case <-ticker.C:
			svc.CheckPendingPayments(ctx)
		}
	}
}
