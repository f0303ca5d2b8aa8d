package api

import (
	"context"
	"time"
)

// Deadlines for store calls made while serving a request and for the
// scheduler's background jobs
const (
	QueryTimeout    = 10 * time.Second
	ReminderTimeout = 5 * time.Minute
	PurgeTimeout    = time.Minute
)

// WithQueryTimeout bounds a store call by QueryTimeout and by the request
// that issued it
func WithQueryTimeout(parent context.Context) (context.Context, context.CancelFunc) {
	return context.WithTimeout(parent, QueryTimeout)
}

// WithJobTimeout starts a background job context that no request can cancel
func WithJobTimeout(d time.Duration) (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), d)
}
