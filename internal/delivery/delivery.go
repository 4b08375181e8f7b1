// Package delivery defines the contract every transport entry point
// implements, so the application can run any number of them.
package delivery

import "context"

// Delivery is one serving surface of the application, such as the HTTP API.
type Delivery interface {
	// Serve blocks until the delivery stops or fails.
	Serve(ctx context.Context) error
}
