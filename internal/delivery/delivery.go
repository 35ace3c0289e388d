// Package delivery defines the contract every transport entry point implements.
package delivery

import "context"

// Delivery is a long-running transport (HTTP API, pubsub worker) started by main.
type Delivery interface {
	// Serve blocks until the delivery stops or fails.
	Serve(ctx context.Context) error
}
