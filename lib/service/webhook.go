package service

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/cenkalti/backoff/v4"
	"github.com/getAlby/x402hub.go/common"
	"github.com/getAlby/x402hub.go/db/models"
	"github.com/google/uuid"
)

// SettledEvent is the payload delivered to webhooks and the message broker.
type SettledEvent struct {
	EventId     string `json:"eventId"`
	Type        string `json:"type"`
	RequestId   string `json:"requestId"`
	Token       string `json:"token"`
	Amount      string `json:"amount"`
	Receiver    string `json:"receiver"`
	Network     string `json:"network"`
	TxHash      string `json:"txHash"`
	PaidAt      int64  `json:"paidAt"`
	Description string `json:"description"`
}

func NewSettledEvent(req models.PaymentRequest) SettledEvent {
	return SettledEvent{
		EventId:     uuid.NewString(),
		Type:        common.EventTypeRequestSettled,
		RequestId:   req.ID,
		Token:       req.Token,
		Amount:      req.Amount.String(),
		Receiver:    req.Receiver,
		Network:     req.Network,
		TxHash:      req.TxHash,
		PaidAt:      req.PaidAt.Time.UnixMilli(),
		Description: req.Description,
	}
}

// EncodeSettledEvent writes the JSON event for a settled request.
func (svc *X402Service) EncodeSettledEvent(ctx context.Context, w io.Writer, req models.PaymentRequest) error {
	return json.NewEncoder(w).Encode(NewSettledEvent(req))
}

// SubscribeSettledRequests returns a channel receiving every settled request
// and a function to stop the subscription.
func (svc *X402Service) SubscribeSettledRequests() (settled chan models.PaymentRequest, unsubscribe func()) {
	settled = make(chan models.PaymentRequest, 100)
	subId := svc.RequestPubSub.Subscribe(common.EventTypeRequestSettled, settled)
	return settled, func() {
		svc.RequestPubSub.Unsubscribe(subId, common.EventTypeRequestSettled)
	}
}

func (svc *X402Service) StartWebhookSubscription(ctx context.Context, url string) {
	svc.Logger.Infof("Starting webhook subscription with webhook url %s", url)
	settled, unsubscribe := svc.SubscribeSettledRequests()
	defer unsubscribe()
	for {
		select {
		case <-ctx.Done():
			return
		case req := <-settled:
			svc.postToWebhook(ctx, url, NewSettledEvent(req))
		}
	}
}

const defaultWebhookTimeout = 10 * time.Second

func (svc *X402Service) webhookClient() *http.Client {
	timeout := defaultWebhookTimeout
	if svc.Config != nil && svc.Config.WebhookTimeout > 0 {
		timeout = svc.Config.WebhookTimeout
	}
	return &http.Client{Timeout: timeout}
}

func (svc *X402Service) postToWebhook(ctx context.Context, url string, event SettledEvent) {
	payload, err := json.Marshal(event)
	if err != nil {
		svc.Logger.Error(err)
		return
	}
	client := svc.webhookClient()

	retry := backoff.NewExponentialBackOff()
	retry.InitialInterval = time.Second
	retry.MaxElapsedTime = 2 * time.Minute

	deliver := func() error {
		req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(payload))
		if err != nil {
			return backoff.Permanent(err)
		}
		req.Header.Set("Content-Type", "application/json")
		req.Header.Set("X-Event-Id", event.EventId)
		resp, err := client.Do(req)
		if err != nil {
			return err
		}
		defer resp.Body.Close()
		if resp.StatusCode >= 300 {
			msg, _ := io.ReadAll(io.LimitReader(resp.Body, 1024))
			err = fmt.Errorf("webhook status code was %d, body: %s", resp.StatusCode, msg)
			if resp.StatusCode < 500 {
				return backoff.Permanent(err)
			}
			return err
		}
		return nil
	}

	err = backoff.Retry(deliver, backoff.WithContext(retry, ctx))
	if err != nil {
		svc.Logger.Errorf("Webhook delivery of %s for %s failed: %v", event.EventId, event.RequestId, err)
	}
}
