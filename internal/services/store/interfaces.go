package store

import "context"

// Store is the persistent key-value store backing the board.
// Values are opaque strings, writes are synchronous and replace the whole value.
type Store interface {
	// Get returns the value for key and whether it exists
	Get(ctx context.Context, key string) (string, bool, error)

	// Set stores value under key, failing with ErrQuotaExceeded when the
	// total footprint would exceed the configured quota
	Set(ctx context.Context, key, value string) error

	// Delete removes key; deleting a missing key is not an error
	Delete(ctx context.Context, key string) error

	// Usage returns the current footprint in bytes across all keys
	Usage(ctx context.Context) (int64, error)
}

// Stats provides statistics about store usage
type Stats struct {
	Hits     int64
	Misses   int64
	Sets     int64
	Deletes  int64
	Rejected int64
	Size     int64
	Quota    int64
}

// StatsProvider interface for stores that provide statistics
type StatsProvider interface {
	Stats() Stats
}

// Well-known keys
const (
	KeyUsers       = "jamboard_users"
	KeySessionUser = "jamboard_session_user"
	KeyClips       = "jamboard_clips"
)
