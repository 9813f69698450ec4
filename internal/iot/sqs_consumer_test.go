package iot

import (
	"context"
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/service/sqs"
	"github.com/aws/aws-sdk-go-v2/service/sqs/types"
	"github.com/shopspring/decimal"
	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/dispatch"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/repository/memory"
	"github.com/ironslayer/parkingManagementBackend-sub001/internal/service"
)

type fakeQueue struct {
	mu       sync.Mutex
	batches  [][]types.Message
	deleted  []string
	cancel   context.CancelFunc
	receives int
}

func (q *fakeQueue) ReceiveMessage(ctx context.Context, _ *sqs.ReceiveMessageInput, _ ...func(*sqs.Options)) (*sqs.ReceiveMessageOutput, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.receives++
	if len(q.batches) == 0 {
		q.cancel()
		return nil, ctx.Err()
	}
	batch := q.batches[0]
	q.batches = q.batches[1:]
	return &sqs.ReceiveMessageOutput{Messages: batch}, nil
}

func (q *fakeQueue) DeleteMessage(_ context.Context, in *sqs.DeleteMessageInput, _ ...func(*sqs.Options)) (*sqs.DeleteMessageOutput, error) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.deleted = append(q.deleted, aws.ToString(in.ReceiptHandle))
	return &sqs.DeleteMessageOutput{}, nil
}

// newDispatcher wires the services over a memory store holding one operator
// (id 1), one car space and a car rate of 1000 per hour.
func newDispatcher(t *testing.T, clock func() time.Time) *dispatch.Dispatcher {
	t.Helper()
	ctx := context.Background()
	store := memory.NewStore(memory.WithClock(clock))
	svc := service.New(service.Deps{
		Tx:           store,
		Users:        store.Users(),
		VehicleTypes: store.VehicleTypes(),
		RateConfigs:  store.RateConfigs(),
		Vehicles:     store.Vehicles(),
		Spaces:       store.ParkingSpaces(),
		Sessions:     store.ParkingSessions(),
		Payments:     store.Payments(),
		Dashboard:    store.Dashboard(),
		Clock:        clock,
	})
	if _, err := store.Users().Create(ctx, &domain.User{Username: "gate", Password: "x", Role: domain.RoleOperator, IsActive: true}); err != nil {
		t.Fatal(err)
	}
	car, err := svc.VehicleTypes.Create(ctx, service.CreateVehicleType{CreateVehicleTypeDTO: domain.CreateVehicleTypeDTO{Name: "Car"}})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := svc.RateConfigs.Create(ctx, service.CreateRateConfig{CreateRateConfigDTO: domain.CreateRateConfigDTO{
		VehicleTypeID: car.ID, RatePerHour: decimal.NewFromInt(1000), MinimumChargeHours: 1,
	}}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Spaces.Create(ctx, service.CreateParkingSpace{CreateParkingSpaceDTO: domain.CreateParkingSpaceDTO{SpaceNumber: "A-01", VehicleTypeID: car.ID}}); err != nil {
		t.Fatal(err)
	}
	if _, err := svc.Vehicles.Register(ctx, service.RegisterVehicle{RegisterVehicleDTO: domain.RegisterVehicleDTO{LicensePlate: "ABC-123", VehicleTypeID: car.ID}}); err != nil {
		t.Fatal(err)
	}

	d := dispatch.New(zap.NewNop())
	if err := service.Register(d, svc); err != nil {
		t.Fatal(err)
	}
	return d
}

func message(t *testing.T, receipt string, ev any) types.Message {
	t.Helper()
	var body string
	switch v := ev.(type) {
	case string:
		body = v
	default:
		b, err := json.Marshal(v)
		if err != nil {
			t.Fatal(err)
		}
		body = string(b)
	}
	return types.Message{Body: aws.String(body), ReceiptHandle: aws.String(receipt), MessageId: aws.String(receipt)}
}

func TestConsumerProcessesBatch(t *testing.T) {
	now := time.Date(2024, 5, 1, 8, 0, 0, 0, time.UTC)
	d := newDispatcher(t, func() time.Time { return now })

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	q := &fakeQueue{cancel: cancel}
	q.batches = [][]types.Message{{
		message(t, "entry", domain.GateEvent{EventID: "e1", Direction: domain.GateDirectionEntry, LicensePlate: "abc-123", OperatorID: 1}),
		message(t, "again", domain.GateEvent{EventID: "e2", Direction: domain.GateDirectionEntry, LicensePlate: "ABC-123", OperatorID: 1}),
		message(t, "garbage", "{not json"),
		message(t, "sideways", domain.GateEvent{Direction: "sideways", LicensePlate: "ABC-123", OperatorID: 1}),
		{ReceiptHandle: aws.String("empty")},
	}, {
		message(t, "exit", domain.GateEvent{EventID: "e3", Direction: domain.GateDirectionExit, LicensePlate: "ABC-123", OperatorID: 1}),
	}}

	c := NewSQSConsumer(q, "https://sqs.local/gate", d, zap.NewNop())
	done := make(chan struct{})
	go func() {
		c.Start(ctx)
		close(done)
	}()
	select {
	case <-done:
	case <-time.After(5 * time.Second):
		t.Fatal("consumer did not stop")
	}

	want := []string{"entry", "again", "garbage", "sideways", "empty", "exit"}
	if len(q.deleted) != len(want) {
		t.Fatalf("deleted = %v, want %v", q.deleted, want)
	}
	for i := range want {
		if q.deleted[i] != want[i] {
			t.Errorf("deleted[%d] = %s, want %s", i, q.deleted[i], want[i])
		}
	}
}

func TestConsumerKeepsRetryableFailures(t *testing.T) {
	q := &fakeQueue{cancel: func() {}}
	c := NewSQSConsumer(q, "https://sqs.local/gate", dispatch.New(zap.NewNop()), zap.NewNop())

	c.process(context.Background(), message(t, "m1", domain.GateEvent{Direction: domain.GateDirectionEntry, LicensePlate: "ABC-123", OperatorID: 1}))
	if len(q.deleted) != 0 {
		t.Errorf("message deleted although no handler ran: %v", q.deleted)
	}
}
