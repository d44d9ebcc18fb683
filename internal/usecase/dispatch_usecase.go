package usecase

import "context"

// DispatchStats summarizes one queue drain for one channel.
type DispatchStats struct {
	Sent   int
	Failed int
}

// DispatchUsecase drains pending notification records per channel and calls
// the delivery providers. One record's failure never blocks the rest of the
// queue.
type DispatchUsecase interface {
	DispatchSMS(ctx context.Context) (DispatchStats, error)
	DispatchEmail(ctx context.Context) (DispatchStats, error)
}
