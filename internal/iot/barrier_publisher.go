package iot

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

// DataPlaneClient is the part of *iotdataplane.Client the publisher uses.
type DataPlaneClient interface {
	Publish(ctx context.Context, params *iotdataplane.PublishInput, optFns ...func(*iotdataplane.Options)) (*iotdataplane.PublishOutput, error)
}

// BarrierPublisher opens the entry or exit barrier when a session starts or ends.
type BarrierPublisher struct {
	client DataPlaneClient
	topic  string
	log    *zap.Logger
}

var _ service.EventPublisher = (*BarrierPublisher)(nil)

func NewBarrierPublisher(client DataPlaneClient, topic string, log *zap.Logger) *BarrierPublisher {
	return &BarrierPublisher{client: client, topic: topic, log: log.Named("barrier")}
}

func (p *BarrierPublisher) Publish(ctx context.Context, ev domain.Event) error {
	var dir domain.GateDirection
	switch ev.Type {
	case domain.EventSessionStarted:
		dir = domain.GateDirectionEntry
	case domain.EventSessionEnded:
		dir = domain.GateDirectionExit
	default:
		return nil
	}

	requestID := dispatch.RequestID(ctx)
	if requestID == "" {
		requestID = uuid.NewString()
	}
	payload, err := json.Marshal(domain.BarrierCommand{
		Action:       "open",
		Direction:    dir,
		LicensePlate: ev.LicensePlate,
		TicketCode:   ev.TicketCode,
		RequestID:    requestID,
	})
	if err != nil {
		return fmt.Errorf("marshal barrier command: %w", err)
	}

	topic := fmt.Sprintf("%s/%s", p.topic, dir)
	_, err = p.client.Publish(ctx, &iotdataplane.PublishInput{
		Topic:   aws.String(topic),
		Qos:     1,
		Payload: payload,
	})
	if err != nil {
		return fmt.Errorf("publish barrier command to %s: %w", topic, err)
	}
	p.log.Info("barrier command sent",
		zap.String("topic", topic),
		zap.String("request_id", requestID),
		zap.String("ticket_code", ev.TicketCode))
	return nil
}
