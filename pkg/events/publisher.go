package events

import "context"

// EventPublisher is the interface for publishing dispatch events.
type EventPublisher interface {
	PublishDispatched(ctx context.Context, event *DispatchedEvent) error
}

// NoOpPublisher is an EventPublisher that does nothing (for in-process usage without events).
type NoOpPublisher struct{}

// PublishDispatched is a no-op.
func (p *NoOpPublisher) PublishDispatched(_ context.Context, _ *DispatchedEvent) error {
	return nil
}

// CallbackPublisher is an EventPublisher that calls a callback function (for testing).
type CallbackPublisher struct {
	callback func(ctx context.Context, event *DispatchedEvent) error
}

// NewCallbackPublisher creates a new CallbackPublisher.
func NewCallbackPublisher(cb func(ctx context.Context, event *DispatchedEvent) error) *CallbackPublisher {
	return &CallbackPublisher{callback: cb}
}

// PublishDispatched calls the callback.
func (p *CallbackPublisher) PublishDispatched(ctx context.Context, event *DispatchedEvent) error {
	return p.callback(ctx, event)
}
