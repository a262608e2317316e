package rabbitmq

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/getAlby/x402hub.go/common"
	"github.com/getAlby/x402hub.go/db/models"
	"github.com/getsentry/sentry-go"
	"github.com/labstack/gommon/log"
	amqp "github.com/rabbitmq/amqp091-go"
	"github.com/ziflex/lecho/v3"
)

// bufPool reuses the buffers settled events are encoded into.
var bufPool = sync.Pool{
	New: func() interface{} { return new(bytes.Buffer) },
}

const (
	contentTypeJSON = "application/json"

	paymentSubmissionRoutingKey = "payment.submitted"

	defaultRequeueDelay = 5 * time.Second
)

var ErrDisconnected = errors.New("disconnected from RabbitMQ")

type (
	SubscribeSettledRequestsFunc = func() (settled chan models.PaymentRequest, unsubscribe func())
	EncodeSettledRequestFunc     = func(ctx context.Context, w io.Writer, req models.PaymentRequest) error
)

// PaymentSubmission is a transaction hash handed in through the broker
// instead of the HTTP api.
type PaymentSubmission struct {
	RequestId string `json:"requestId"`
	TxHash    string `json:"txHash"`
}

// PaymentSubmitter handles submissions from the queue. A returned error means
// the submission could succeed later, and the message is requeued.
type PaymentSubmitter interface {
	HandlePaymentSubmission(ctx context.Context, requestId, txHash string) error
}

type Client interface {
	StartPublishSettledRequests(context.Context, SubscribeSettledRequestsFunc, EncodeSettledRequestFunc) error
	ConsumePaymentSubmissions(context.Context, PaymentSubmitter) error
	// Close will close all connections to rabbitmq
	Close() error
}

type DefaultClient struct {
	amqpClient AMQPClient

	logger *lecho.Logger

	requestExchange           string
	paymentSubmissionQueue    string
	paymentSubmissionExchange string
	requeueDelay              time.Duration
}

type ClientOption = func(client *DefaultClient)

func WithRequestExchange(exchange string) ClientOption {
	return func(client *DefaultClient) {
		client.requestExchange = exchange
	}
}

func WithPaymentSubmissionQueueName(name string) ClientOption {
	return func(client *DefaultClient) {
		client.paymentSubmissionQueue = name
	}
}

// WithRequeueDelay sets how long the consumer waits before handing a failed
// submission back to the broker.
func WithRequeueDelay(delay time.Duration) ClientOption {
	return func(client *DefaultClient) {
		client.requeueDelay = delay
	}
}

func WithLogger(logger *lecho.Logger) ClientOption {
	return func(client *DefaultClient) {
		client.logger = logger
	}
}

func NewClient(amqpClient AMQPClient, options ...ClientOption) (Client, error) {
	if amqpClient == nil {
		return nil, errors.New("amqp client is required")
	}
	return newDefaultClient(amqpClient, options...), nil
}

func newDefaultClient(amqpClient AMQPClient, options ...ClientOption) *DefaultClient {
	client := &DefaultClient{
		amqpClient: amqpClient,
		logger: lecho.New(
			os.Stdout,
			lecho.WithLevel(log.DEBUG),
			lecho.WithTimestamp(),
		),
		requestExchange:        "x402_request",
		paymentSubmissionQueue: "x402_payment_submissions",
		requeueDelay:           defaultRequeueDelay,
	}
	for _, opt := range options {
		opt(client)
	}
	// submissions arrive on the same topic exchange the events leave on
	client.paymentSubmissionExchange = client.requestExchange
	return client
}

func (client *DefaultClient) Close() error { return client.amqpClient.Close() }

func (client *DefaultClient) StartPublishSettledRequests(ctx context.Context, subscribe SubscribeSettledRequestsFunc, encode EncodeSettledRequestFunc) error {
	err := client.amqpClient.ExchangeDeclare(
		client.requestExchange,
		"topic",
		// durable, not auto deleted
		true,
		false,
		false,
		false,
		nil,
	)
	if err != nil {
		return err
	}

	settled, unsubscribe := subscribe()
	defer unsubscribe()

	client.logger.Info("Starting rabbitmq publisher")
	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case req := <-settled:
			if err := client.publishSettledRequest(ctx, req, encode); err != nil {
				captureErr(client.logger, err)
			}
		}
	}
}

func (client *DefaultClient) publishSettledRequest(ctx context.Context, req models.PaymentRequest, encode EncodeSettledRequestFunc) error {
	payload := bufPool.Get().(*bytes.Buffer)
	payload.Reset()
	defer bufPool.Put(payload)

	if err := encode(ctx, payload, req); err != nil {
		return err
	}

	err := client.amqpClient.PublishWithContext(ctx,
		client.requestExchange,
		common.EventTypeRequestSettled,
		false,
		false,
		amqp.Publishing{
			ContentType: contentTypeJSON,
			Body:        payload.Bytes(),
		},
	)
	if err != nil {
		return fmt.Errorf("publishing settled request %s: %w", req.ID, err)
	}

	client.logger.Debugf("Successfully published settled request %s to rabbitmq", req.ID)
	return nil
}

func (client *DefaultClient) ConsumePaymentSubmissions(ctx context.Context, submitter PaymentSubmitter) error {
	deliveries, err := client.amqpClient.Listen(ctx,
		client.paymentSubmissionExchange,
		paymentSubmissionRoutingKey,
		client.paymentSubmissionQueue,
	)
	if err != nil {
		return err
	}

	client.logger.Info("Starting payment submission consumer")
	for {
		select {
		case <-ctx.Done():
			return context.Canceled
		case delivery, ok := <-deliveries:
			if !ok {
				return ErrDisconnected
			}
			client.handleSubmission(ctx, delivery, submitter)
		}
	}
}

func (client *DefaultClient) handleSubmission(ctx context.Context, delivery amqp.Delivery, submitter PaymentSubmitter) {
	submission := PaymentSubmission{}
	err := json.Unmarshal(delivery.Body, &submission)
	if err == nil && (strings.TrimSpace(submission.RequestId) == "" || strings.TrimSpace(submission.TxHash) == "") {
		err = fmt.Errorf("payment submission without requestId or txHash: %s", delivery.Body)
	}
	if err != nil {
		// malformed messages are dropped instead of requeued
		captureErr(client.logger, err)
		nack(client.logger, delivery, false)
		return
	}

	err = submitter.HandlePaymentSubmission(ctx, submission.RequestId, submission.TxHash)
	if err != nil {
		client.logger.Warnf("Requeueing payment submission for %s: %v", submission.RequestId, err)
		// delayed requeue
		select {
		case <-ctx.Done():
		case <-time.After(client.requeueDelay):
		}
		nack(client.logger, delivery, true)
		return
	}

	if err := delivery.Ack(false); err != nil {
		captureErr(client.logger, err)
	}
}

func nack(logger *lecho.Logger, delivery amqp.Delivery, requeue bool) {
	if err := delivery.Nack(false, requeue); err != nil {
		captureErr(logger, err)
	}
}

func captureErr(logger *lecho.Logger, err error) {
	logger.Error(err)
	sentry.CaptureException(err)
}
