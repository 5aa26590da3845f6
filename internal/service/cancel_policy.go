package service

import "time"

// DefaultCancelWindow is how long a buyer may self-cancel after placing an
// order. Past the window, cancellation requires an admin.
const DefaultCancelWindow = time.Hour

// CancelAllowed reports whether an owner-initiated cancellation at `now` is
// still inside the window. The boundary itself is allowed.
func CancelAllowed(createdAt, now time.Time, window time.Duration) bool {
	return !now.After(createdAt.Add(window))
}
