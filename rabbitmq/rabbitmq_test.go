package rabbitmq_test

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"testing"
	"time"

	"github.com/getAlby/x402hub.go/db/models"
	"github.com/getAlby/x402hub.go/lib/verification"
	"github.com/getAlby/x402hub.go/rabbitmq"
	"github.com/getAlby/x402hub.go/rabbitmq/mock_rabbitmq"
	"github.com/golang/mock/gomock"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ziflex/lecho/v3"
)

//go:generate mockgen -destination=./mock_rabbitmq/rabbitmq.go github.com/getAlby/x402hub.go/rabbitmq PaymentSubmitter,AMQPClient
//go:generate mockgen -destination=./mock_rabbitmq/acknowledger.go -package=mock_rabbitmq github.com/rabbitmq/amqp091-go Acknowledger

func quietLogger() rabbitmq.ClientOption {
	return rabbitmq.WithLogger(lecho.New(io.Discard))
}

func TestConsumePaymentSubmissions(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	submitter := mock_rabbitmq.NewMockPaymentSubmitter(ctrl)
	amqpClient := mock_rabbitmq.NewMockAMQPClient(ctrl)

	client, err := rabbitmq.NewClient(amqpClient, quietLogger())
	require.NoError(t, err)

	ch := make(chan amqp.Delivery, 3)
	amqpClient.EXPECT().
		Listen(gomock.Any(), "x402_request", "payment.submitted", "x402_payment_submissions").
		Times(1).
		Return((<-chan amqp.Delivery)(ch), nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	handled := make(chan struct{})
	submitter.EXPECT().
		HandlePaymentSubmission(gomock.Any(), "REQ-ABC123", "0xabc").
		Times(1).
		Do(func(context.Context, string, string) { close(handled) }).
		Return(nil)

	valid, err := json.Marshal(rabbitmq.PaymentSubmission{RequestId: "REQ-ABC123", TxHash: "0xabc"})
	require.NoError(t, err)

	ch <- amqp.Delivery{Body: []byte("not json")}
	ch <- amqp.Delivery{Body: []byte(`{"requestId":"REQ-ABC123"}`)}
	ch <- amqp.Delivery{Body: valid}

	done := make(chan error, 1)
	go func() {
		done <- client.ConsumePaymentSubmissions(ctx, submitter)
	}()

	select {
	case <-handled:
	case <-time.After(5 * time.Second):
		t.Fatal("submission was not handled")
	}
	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestConsumePaymentSubmissionsAcknowledgement(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	submitter := mock_rabbitmq.NewMockPaymentSubmitter(ctrl)
	amqpClient := mock_rabbitmq.NewMockAMQPClient(ctrl)
	ack := mock_rabbitmq.NewMockAcknowledger(ctrl)

	client, err := rabbitmq.NewClient(amqpClient, quietLogger(), rabbitmq.WithRequeueDelay(time.Millisecond))
	require.NoError(t, err)

	ch := make(chan amqp.Delivery, 3)
	amqpClient.EXPECT().
		Listen(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return((<-chan amqp.Delivery)(ch), nil)

	unreachable := &verification.InfraError{Network: "sepolia", Err: errors.New("connection refused")}
	submitter.EXPECT().
		HandlePaymentSubmission(gomock.Any(), "REQ-RPCDOWN1", "0xabc").
		Return(unreachable)
	submitter.EXPECT().
		HandlePaymentSubmission(gomock.Any(), "REQ-SETTLED1", "0xdef").
		Return(nil)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	gomock.InOrder(
		// malformed messages are dropped
		ack.EXPECT().Nack(uint64(1), false, false).Return(nil),
		// failed submissions go back on the queue
		ack.EXPECT().Nack(uint64(2), false, true).Return(nil),
		ack.EXPECT().Ack(uint64(3), false).Do(func(uint64, bool) { close(done) }).Return(nil),
	)

	ch <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 1, Body: []byte("not json")}
	ch <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 2, Body: []byte(`{"requestId":"REQ-RPCDOWN1","txHash":"0xabc"}`)}
	ch <- amqp.Delivery{Acknowledger: ack, DeliveryTag: 3, Body: []byte(`{"requestId":"REQ-SETTLED1","txHash":"0xdef"}`)}

	result := make(chan error, 1)
	go func() {
		result <- client.ConsumePaymentSubmissions(ctx, submitter)
	}()

	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("submissions were not acknowledged")
	}
	cancel()
	assert.ErrorIs(t, <-result, context.Canceled)
}

func TestConsumePaymentSubmissionsDisconnect(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	amqpClient := mock_rabbitmq.NewMockAMQPClient(ctrl)
	client, err := rabbitmq.NewClient(amqpClient, quietLogger())
	require.NoError(t, err)

	ch := make(chan amqp.Delivery)
	close(ch)
	amqpClient.EXPECT().
		Listen(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
		Return((<-chan amqp.Delivery)(ch), nil)

	err = client.ConsumePaymentSubmissions(context.Background(), mock_rabbitmq.NewMockPaymentSubmitter(ctrl))
	assert.ErrorIs(t, err, rabbitmq.ErrDisconnected)
}

func TestStartPublishSettledRequests(t *testing.T) {
	t.Parallel()
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	amqpClient := mock_rabbitmq.NewMockAMQPClient(ctrl)
	client, err := rabbitmq.NewClient(amqpClient, quietLogger(), rabbitmq.WithRequestExchange("settlements"))
	require.NoError(t, err)

	amqpClient.EXPECT().
		ExchangeDeclare("settlements", "topic", true, false, false, false, nil).
		Return(nil)

	published := make(chan amqp.Publishing, 1)
	amqpClient.EXPECT().
		PublishWithContext(gomock.Any(), "settlements", "request.settled", false, false, gomock.Any()).
		Times(1).
		DoAndReturn(func(_ context.Context, _, _ string, _, _ bool, msg amqp.Publishing) error {
			published <- amqp.Publishing{ContentType: msg.ContentType, Body: append([]byte(nil), msg.Body...)}
			return nil
		})

	settled := make(chan models.PaymentRequest, 1)
	unsubscribed := make(chan struct{})
	subscribe := func() (chan models.PaymentRequest, func()) {
		return settled, func() { close(unsubscribed) }
	}
	encode := func(ctx context.Context, w io.Writer, req models.PaymentRequest) error {
		return json.NewEncoder(w).Encode(map[string]string{"id": req.ID, "amount": req.Amount.String()})
	}

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- client.StartPublishSettledRequests(ctx, subscribe, encode)
	}()

	settled <- models.PaymentRequest{ID: "REQ-PAID0001", Amount: decimal.RequireFromString("1.5")}

	select {
	case msg := <-published:
		assert.Equal(t, "application/json", msg.ContentType)
		body := map[string]string{}
		require.NoError(t, json.Unmarshal(msg.Body, &body))
		assert.Equal(t, "REQ-PAID0001", body["id"])
		assert.Equal(t, "1.5", body["amount"])
	case <-time.After(5 * time.Second):
		t.Fatal("settled request was not published")
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
	<-unsubscribed
}

func TestNewClientRequiresAMQPClient(t *testing.T) {
	_, err := rabbitmq.NewClient(nil)
	assert.Error(t, err)
}
