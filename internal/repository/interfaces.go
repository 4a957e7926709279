package repository

import "context"

// Pinger is implemented by backends whose reachability can be probed.
type Pinger interface {
	Ping(ctx context.Context) error
}
