package service

import (
	"context"
	"errors"

	"github.com/getAlby/x402hub.go/lib/store"
	"github.com/getAlby/x402hub.go/lib/verification"
)

// StartRabbitMqPublisher publishes every settled request to the request exchange.
func (svc *X402Service) StartRabbitMqPublisher(ctx context.Context) error {
	if svc.RabbitMQClient == nil {
		return nil
	}
	err := svc.RabbitMQClient.StartPublishSettledRequests(ctx, svc.SubscribeSettledRequests, svc.EncodeSettledEvent)
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// StartPaymentSubmissionRoutine settles requests from transaction hashes
// handed in through rabbitmq.
func (svc *X402Service) StartPaymentSubmissionRoutine(ctx context.Context) error {
	if svc.RabbitMQClient == nil {
		return nil
	}
	err := svc.RabbitMQClient.ConsumePaymentSubmissions(ctx, svc)
	if err != nil && err != context.Canceled {
		return err
	}
	return nil
}

// HandlePaymentSubmission processes a submission received from the broker.
// Only errors a redelivery could fix are returned. Chain failures are left to
// the pending check routine when it runs, and handed back to the broker when
// it does not.
func (svc *X402Service) HandlePaymentSubmission(ctx context.Context, requestId, txHash string) error {
	result, err := svc.SubmitPayment(ctx, requestId, txHash)
	var validationErr *ValidationError
	var infraErr *verification.InfraError
	switch {
	case errors.Is(err, store.ErrNotFound), errors.Is(err, ErrAlreadyPaid), errors.As(err, &validationErr):
		svc.Logger.Warnf("Dropping payment submission for %s: %v", requestId, err)
		return nil
	case errors.As(err, &infraErr) && svc.watcherEnabled():
		svc.Logger.Infof("Payment submission for %s queued for a pending check: %v", requestId, err)
		return nil
	case err != nil:
		return err
	}
	if !result.Settled() {
		svc.Logger.Infof("Payment submission for %s rejected: %s", requestId, result.Verdict.Reason)
	}
	return nil
}
