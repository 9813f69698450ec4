// Package dispatch routes typed requests to the handler registered for their kind.
package dispatch

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"go.uber.org/zap"
)

// Kind names a request type, e.g. "session.start".
type Kind string

// Request is implemented by every command and query struct.
type Request interface {
	Kind() Kind
}

type Handler interface {
	Handle(ctx context.Context, req Request) (any, error)
}

var (
	ErrUnknownKind       = errors.New("dispatch: no handler registered for request kind")
	ErrDuplicateHandler  = errors.New("dispatch: handler already registered for request kind")
	ErrUnexpectedRequest = errors.New("dispatch: request does not match handler")
	ErrUnexpectedResult  = errors.New("dispatch: handler returned unexpected result type")
)

// HandlerFunc adapts a typed function to Handler.
type HandlerFunc[Req Request, Res any] func(ctx context.Context, req Req) (Res, error)

func (f HandlerFunc[Req, Res]) Handle(ctx context.Context, req Request) (any, error) {
	typed, ok := req.(Req)
	if !ok {
		return nil, fmt.Errorf("%w: got %T for kind %s", ErrUnexpectedRequest, req, req.Kind())
	}
	return f(ctx, typed)
}

type Dispatcher struct {
	mu       sync.RWMutex
	handlers map[Kind]Handler
	log      *zap.Logger
}

func New(log *zap.Logger) *Dispatcher {
	if log == nil {
		log = zap.NewNop()
	}
	return &Dispatcher{handlers: make(map[Kind]Handler), log: log}
}

// Register binds h to kind. Each kind can be registered once.
func (d *Dispatcher) Register(kind Kind, h Handler) error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, exists := d.handlers[kind]; exists {
		return fmt.Errorf("%w: %s", ErrDuplicateHandler, kind)
	}
	d.handlers[kind] = h
	return nil
}

// Handle registers fn under the kind reported by Req's zero value.
func Handle[Req Request, Res any](d *Dispatcher, fn func(context.Context, Req) (Res, error)) error {
	var zero Req
	return d.Register(zero.Kind(), HandlerFunc[Req, Res](fn))
}

// Kinds lists the registered kinds.
func (d *Dispatcher) Kinds() []Kind {
	d.mu.RLock()
	defer d.mu.RUnlock()
	kinds := make([]Kind, 0, len(d.handlers))
	for k := range d.handlers {
		kinds = append(kinds, k)
	}
	return kinds
}

func (d *Dispatcher) Dispatch(ctx context.Context, req Request) (res any, err error) {
	kind := req.Kind()
	d.mu.RLock()
	h, ok := d.handlers[kind]
	d.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownKind, kind)
	}

	defer d.timed(ctx, kind)(&err)
	return h.Handle(ctx, req)
}

func (d *Dispatcher) timed(ctx context.Context, kind Kind) func(errp *error) {
	start := time.Now()
	return func(errp *error) {
		fields := []zap.Field{
			zap.String("kind", string(kind)),
			zap.Duration("duration", time.Since(start)),
		}
		if id := RequestID(ctx); id != "" {
			fields = append(fields, zap.String("request_id", id))
		}
		if errp != nil && *errp != nil {
			d.log.Warn("request failed", append(fields, zap.Error(*errp))...)
			return
		}
		d.log.Debug("request handled", fields...)
	}
}

// Send dispatches req and asserts the result type.
func Send[Res any](ctx context.Context, d *Dispatcher, req Request) (Res, error) {
	var zero Res
	out, err := d.Dispatch(ctx, req)
	if err != nil {
		return zero, err
	}
	res, ok := out.(Res)
	if !ok {
		return zero, fmt.Errorf("%w: %s returned %T", ErrUnexpectedResult, req.Kind(), out)
	}
	return res, nil
}
