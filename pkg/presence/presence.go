package presence

import (
	"context"
	"time"
)

// DefaultTTL is the expiry window of the per-user session counters. A
// process that dies without running its disconnect path leaves a stale
// counter behind for at most this long.
const DefaultTTL = 10 * time.Minute

// Store tracks how many live connections a user has across all router
// processes. A user is online iff its counter is present, unexpired and
// greater than zero.
type Store interface {
	// Connected increments the user's session counter and renews its
	// expiry. It returns the new count.
	Connected(ctx context.Context, email string) (int64, error)

	// Disconnected decrements the user's session counter. A counter that
	// reaches zero or less is deleted outright, never left at zero. It
	// returns the remaining count.
	Disconnected(ctx context.Context, email string) (int64, error)

	// IsOnline reports whether the user has at least one live connection
	// anywhere. A missing or zero-valued counter means offline.
	IsOnline(ctx context.Context, email string) (bool, error)
}
