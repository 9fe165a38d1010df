// Package framework runs the long-lived pieces of a process: request
// workers, transports and device listeners.
package framework

import "context"

// Named is an abstraction for things with a name.
type Named interface {
	Name() string
}

// Runnable defines a generic interface for background runners.
// Run returns when ctx is done or the runner fails.
type Runnable interface {
	Run(context.Context) error
}

// RunFunc is the func form of Runnable.
type RunFunc func(context.Context) error

// Run implements Runnable.
func (f RunFunc) Run(ctx context.Context) error {
	return f(ctx)
}

// Message defines the abstract message to be
// exchanged between components.
type Message interface {
	// NewMessage creates an empty message.
	NewMessage() Message
}
