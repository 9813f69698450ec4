package service

import (
	"context"
	"errors"

	"go.uber.org/zap"

	"github.com/ironslayer/parkingManagementBackend-sub001/internal/domain"
)

// EventPublisher delivers domain events after the owning transaction commits.
// Publishing is best effort; a failure never undoes the committed change.
type EventPublisher interface {
	Publish(ctx context.Context, ev domain.Event) error
}

type NopPublisher struct{}

func (NopPublisher) Publish(context.Context, domain.Event) error { return nil }

// MultiPublisher fans an event out to every publisher.
type MultiPublisher []EventPublisher

func (m MultiPublisher) Publish(ctx context.Context, ev domain.Event) error {
	var errs []error
	for _, p := range m {
		if err := p.Publish(ctx, ev); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}

// publish sends ev and only logs failures; the change it reports is already committed.
func publish(ctx context.Context, d Deps, ev domain.Event) {
	if err := d.Events.Publish(ctx, ev); err != nil {
		d.Log.Warn("event publish failed", zap.String("event", string(ev.Type)), zap.Error(err))
	}
}
