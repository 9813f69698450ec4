// Package iot connects the backend to gate devices: entry/exit events arrive
// on an SQS queue and barrier commands leave through AWS IoT.
package iot

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/apperror"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

var errMalformedEvent = errors.New("malformed gate event")

// QueueClient is the part of *sqs.Client the consumer uses.
type QueueClient interface {
	ReceiveMessage(ctx context.Context, params *sqs.ReceiveMessageInput, optFns ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error)
	DeleteMessage(ctx context.Context, params *sqs.DeleteMessageInput, optFns ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error)
}

type SQSConsumer struct {
	sqsClient  QueueClient
	queueURL   string
	dispatcher *dispatch.Dispatcher
	log        *zap.Logger
	retryDelay time.Duration
}

func NewSQSConsumer(client QueueClient, queueURL string, d *dispatch.Dispatcher, log *zap.Logger) *SQSConsumer {
	return &SQSConsumer{
		sqsClient:  client,
		queueURL:   queueURL,
		dispatcher: d,
		log:        log.Named("sqs_consumer"),
		retryDelay: 5 * time.Second,
	}
}

// Start polls the queue until ctx is cancelled.
func (c *SQSConsumer) Start(ctx context.Context) {
	c.log.Info("listening for gate events", zap.String("queue_url", c.queueURL))
	for {
		select {
		case <-ctx.Done():
			c.log.Info("context cancelled, stopping")
			return
		default:
		}

		result, err := c.sqsClient.ReceiveMessage(ctx, &sqs.ReceiveMessageInput{
			QueueUrl:            &c.queueURL,
			MaxNumberOfMessages: 10,
			WaitTimeSeconds:     20,
			VisibilityTimeout:   60,
		})
		if err != nil {
			if ctx.Err() != nil {
				return
			}
			c.log.Warn("receive failed", zap.Error(err))
			select {
			case <-time.After(c.retryDelay):
			case <-ctx.Done():
				return
			}
			continue
		}

		for _, message := range result.Messages {
			c.process(ctx, message)
		}
	}
}

// process handles one message. It is deleted once handled or when retrying
// cannot help; otherwise it comes back after the visibility timeout.
func (c *SQSConsumer) process(ctx context.Context, message types.Message) {
	if message.Body == nil {
		c.log.Warn("empty message body, deleting")
		c.deleteMessage(ctx, message.ReceiptHandle)
		return
	}

	err := c.HandleGateEvent(ctx, *message.Body)
	switch {
	case err == nil:
		c.deleteMessage(ctx, message.ReceiptHandle)
	case errors.Is(err, errMalformedEvent) || apperror.IsClient(err):
		c.log.Warn("gate event rejected, deleting", zap.Stringp("message_id", message.MessageId), zap.Error(err))
		c.deleteMessage(ctx, message.ReceiptHandle)
	default:
		c.log.Error("gate event failed, will retry", zap.Stringp("message_id", message.MessageId), zap.Error(err))
	}
}

// HandleGateEvent decodes a gate event and opens or closes the matching session.
func (c *SQSConsumer) HandleGateEvent(ctx context.Context, body string) error {
	var ev domain.GateEvent
	if err := json.Unmarshal([]byte(body), &ev); err != nil {
		return fmt.Errorf("%w: %v", errMalformedEvent, err)
	}
	if ev.EventID == "" {
		ev.EventID = uuid.NewString()
	}
	ctx = dispatch.WithRequestID(ctx, ev.EventID)

	switch ev.Direction {
	case domain.GateDirectionEntry:
		resp, err := dispatch.Send[*domain.StartSessionResponse](ctx, c.dispatcher, service.StartSession{StartSessionDTO: domain.StartSessionDTO{
			LicensePlate: ev.LicensePlate,
			OperatorID:   ev.OperatorID,
		}})
		if err != nil {
			return err
		}
		c.log.Info("entry processed",
			zap.String("event_id", ev.EventID),
			zap.String("ticket_code", resp.TicketCode),
			zap.String("assigned_space", resp.AssignedSpace))
	case domain.GateDirectionExit:
		resp, err := dispatch.Send[*domain.EndSessionResponse](ctx, c.dispatcher, service.EndSession{EndSessionDTO: domain.EndSessionDTO{
			LicensePlate: ev.LicensePlate,
			TicketCode:   ev.TicketCode,
			OperatorID:   ev.OperatorID,
		}})
		if err != nil {
			return err
		}
		c.log.Info("exit processed",
			zap.String("event_id", ev.EventID),
			zap.Int("payment_id", resp.PaymentID),
			zap.String("amount", resp.TotalAmount.StringFixed(2)))
	default:
		return fmt.Errorf("%w: unknown direction %q", errMalformedEvent, ev.Direction)
	}
	return nil
}

func (c *SQSConsumer) deleteMessage(ctx context.Context, receiptHandle *string) {
	if receiptHandle == nil {
		c.log.Warn("missing receipt handle, cannot delete message")
		return
	}
	_, err := c.sqsClient.DeleteMessage(ctx, &sqs.DeleteMessageInput{
		QueueUrl:      &c.queueURL,
		ReceiptHandle: receiptHandle,
	})
	if err != nil {
		c.log.Warn("delete failed", zap.Error(err))
	}
}
