// Package delivery defines the contract implemented by every serving surface.
package delivery

import "context"

// Delivery is one serving surface started by the application container.
type Delivery interface {
	Serve(ctx context.Context) error
}
