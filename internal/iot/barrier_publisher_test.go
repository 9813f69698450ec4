package iot

import (
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/iotdataplane"
	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
)

type fakeDataPlane struct {
	inputs []*iotdataplane.PublishInput
	err    error
}

func (f *fakeDataPlane) Publish(_ context.Context, in *iotdataplane.PublishInput, _ ...func(*iotdataplane.Options)) (*iotdataplane.PublishOutput, error) {
	f.inputs = append(f.inputs, in)
	return &iotdataplane.PublishOutput{}, f.err
}

func TestBarrierPublisher(t *testing.T) {
	client := &fakeDataPlane{}
	p := NewBarrierPublisher(client, "parking/barrier", zap.NewNop())
	ctx := dispatch.WithRequestID(context.Background(), "req-1")
	at := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)

	tests := []struct {
		ev    domain.Event
		topic string
		dir   domain.GateDirection
	}{
		{domain.Event{Type: domain.EventSessionStarted, LicensePlate: "ABC-123", TicketCode: "TK-1", At: at}, "parking/barrier/entry", domain.GateDirectionEntry},
		{domain.Event{Type: domain.EventSessionEnded, LicensePlate: "ABC-123", TicketCode: "TK-1", At: at}, "parking/barrier/exit", domain.GateDirectionExit},
	}
	for _, tt := range tests {
		if err := p.Publish(ctx, tt.ev); err != nil {
			t.Fatal(err)
		}
		in := client.inputs[len(client.inputs)-1]
		if aws.ToString(in.Topic) != tt.topic || in.Qos != 1 {
			t.Errorf("topic = %s qos = %d", aws.ToString(in.Topic), in.Qos)
		}
		var cmd domain.BarrierCommand
		if err := json.Unmarshal(in.Payload, &cmd); err != nil {
			t.Fatal(err)
		}
		if cmd.Action != "open" || cmd.Direction != tt.dir || cmd.RequestID != "req-1" || cmd.TicketCode != "TK-1" {
			t.Errorf("unexpected command %+v", cmd)
		}
	}

	if err := p.Publish(ctx, domain.Event{Type: domain.EventPaymentPaid}); err != nil {
		t.Fatal(err)
	}
	if len(client.inputs) != 2 {
		t.Errorf("payment events must not move the barrier, got %d publishes", len(client.inputs))
	}

	client.err = errors.New("throttled")
	if err := p.Publish(ctx, tests[0].ev); err == nil {
		t.Error("expected publish error")
	}
}
