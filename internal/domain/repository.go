package domain

import (
	"context"
	"time"
)

// NoticeRepository defines the persistence contract for bid notices and
// sync-state bookkeeping. The repository exclusively owns both tables.
type NoticeRepository interface {
	// SaveBatch persists every bid not already present, inside one
	// transaction, and returns the subset that was newly inserted.
	SaveBatch(ctx context.Context, bids []ScoredBid) ([]ScoredBid, error)
	UpsertSyncLog(ctx context.Context, log SyncLog) error
	RecentNotices(ctx context.Context, limit int) ([]BidNotice, error)
	SyncStatus(ctx context.Context) ([]SyncLog, error)
}

// BidFetcher retrieves raw bid records for one endpoint and date window,
// handling pagination transparently.
type BidFetcher interface {
	FetchEndpoint(ctx context.Context, ep Endpoint, start, end time.Time) ([]RawRecord, error)
}

// Notifier delivers bid alerts to the configured chat
type Notifier interface {
	NotifyBid(ctx context.Context, bid ScoredBid) error
	NotifySummary(ctx context.Context, newCount, sentCount int) error
}

// KeyCache guards against duplicate composite keys within one batch run.
// The storage-engine unique constraint remains the source of truth.
type KeyCache interface {
	Seen(key string) bool
	Mark(key string)
}
