package postgres

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/bidwatch/backend/internal/domain"
)

// schema creates the two tables the pipeline owns. The unique index on the
// composite natural key is the dedup source of truth; the application-side
// seen-key cache is only an optimization.
const schema = `
CREATE TABLE IF NOT EXISTS bid_notices (
	id               BIGSERIAL PRIMARY KEY,
	endpoint         VARCHAR(50)  NOT NULL,
	bid_ntce_no      VARCHAR(50)  NOT NULL,
	bid_ntce_ord     VARCHAR(10)  NOT NULL,
	title            VARCHAR(500) NOT NULL DEFAULT '',
	org              VARCHAR(200) NOT NULL DEFAULT '',
	demand_org       VARCHAR(200) NOT NULL DEFAULT '',
	budget           DOUBLE PRECISION,
	bid_begin_dt     VARCHAR(30)  NOT NULL DEFAULT '',
	bid_close_dt     VARCHAR(30)  NOT NULL DEFAULT '',
	contact_name     VARCHAR(100) NOT NULL DEFAULT '',
	contact_phone    VARCHAR(50)  NOT NULL DEFAULT '',
	contact_email    VARCHAR(200) NOT NULL DEFAULT '',
	score            INTEGER      NOT NULL DEFAULT 0,
	matched_keywords TEXT         NOT NULL DEFAULT '[]',
	url              VARCHAR(500) NOT NULL DEFAULT '',
	raw_data         TEXT         NOT NULL DEFAULT '{}',
	created_at       TIMESTAMPTZ  NOT NULL DEFAULT now(),
	CONSTRAINT uq_bid UNIQUE (endpoint, bid_ntce_no, bid_ntce_ord)
);

CREATE INDEX IF NOT EXISTS idx_bid_notices_no ON bid_notices (bid_ntce_no);

CREATE TABLE IF NOT EXISTS sync_logs (
	id            BIGSERIAL PRIMARY KEY,
	source        VARCHAR(50) NOT NULL UNIQUE,
	last_sync     TIMESTAMPTZ NOT NULL,
	records_count INTEGER     NOT NULL DEFAULT 0,
	status        VARCHAR(20) NOT NULL DEFAULT '',
	message       TEXT        NOT NULL DEFAULT ''
);
`

// NoticeRepository persists bid notices and sync logs in postgres
type NoticeRepository struct {
	pool *pgxpool.Pool
}

// NewNoticeRepository creates a repository backed by the given pool
func NewNoticeRepository(pool *pgxpool.Pool) *NoticeRepository {
	return &NoticeRepository{pool: pool}
}

// Connect opens a pgx pool for the given database URL
func Connect(ctx context.Context, url string) (*pgxpool.Pool, error) {
	cfg, err := pgxpool.ParseConfig(url)
	if err != nil {
		return nil, fmt.Errorf("invalid database URL: %w", err)
	}
	cfg.MaxConns = 4

	pool, err := pgxpool.NewWithConfig(ctx, cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to postgres: %w", err)
	}
	return pool, nil
}

// EnsureSchema creates the tables and indexes if they do not exist yet
func (r *NoticeRepository) EnsureSchema(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, schema); err != nil {
		return fmt.Errorf("failed to ensure schema: %w", err)
	}
	return nil
}

// SaveBatch inserts every bid not already present and returns the newly
// inserted subset. The whole batch runs in one transaction; a conflicting
// key (from an overlapping window or a concurrent run) is a normal
// "already seen" outcome, never an error.
func (r *NoticeRepository) SaveBatch(ctx context.Context, bids []domain.ScoredBid) ([]domain.ScoredBid, error) {
	if len(bids) == 0 {
		return nil, nil
	}

	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	var inserted []domain.ScoredBid
	for _, bid := range bids {
		matched, err := json.Marshal(bid.MatchedKeywords)
		if err != nil {
			matched = []byte("[]")
		}
		raw, err := json.Marshal(bid.Raw)
		if err != nil {
			raw = []byte("{}")
		}

		tag, err := tx.Exec(ctx, `
			INSERT INTO bid_notices
			(endpoint, bid_ntce_no, bid_ntce_ord, title, org, demand_org,
			 budget, bid_begin_dt, bid_close_dt,
			 contact_name, contact_phone, contact_email,
			 score, matched_keywords, url, raw_data)
			VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16)
			ON CONFLICT ON CONSTRAINT uq_bid DO NOTHING`,
			bid.Endpoint, bid.NoticeNo, bid.NoticeOrd, bid.Title, bid.Org, bid.DemandOrg,
			bid.Budget, bid.BidBeginDt, bid.BidCloseDt,
			bid.ContactName, bid.ContactPhone, bid.ContactEmail,
			bid.Score, string(matched), bid.URL, string(raw),
		)
		if err != nil {
			return inserted, fmt.Errorf("failed to insert notice %s: %w", bid.Key(), err)
		}
		if tag.RowsAffected() > 0 {
			inserted = append(inserted, bid)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("failed to commit batch: %w", err)
	}
	return inserted, nil
}

// UpsertSyncLog creates or overwrites the bookkeeping row for one source
func (r *NoticeRepository) UpsertSyncLog(ctx context.Context, log domain.SyncLog) error {
	_, err := r.pool.Exec(ctx, `
		INSERT INTO sync_logs (source, last_sync, records_count, status, message)
		VALUES ($1,$2,$3,$4,$5)
		ON CONFLICT (source) DO UPDATE SET
			last_sync     = EXCLUDED.last_sync,
			records_count = EXCLUDED.records_count,
			status        = EXCLUDED.status,
			message       = EXCLUDED.message`,
		log.Source, log.LastSync, log.RecordsCount, log.Status, log.Message,
	)
	if err != nil {
		return fmt.Errorf("failed to upsert sync log for %s: %w", log.Source, err)
	}
	return nil
}

// RecentNotices returns the most recently stored notices, newest first
func (r *NoticeRepository) RecentNotices(ctx context.Context, limit int) ([]domain.BidNotice, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	rows, err := r.pool.Query(ctx, `
		SELECT id, endpoint, bid_ntce_no, bid_ntce_ord, title, org, demand_org,
		       budget, bid_begin_dt, bid_close_dt,
		       contact_name, contact_phone, contact_email,
		       score, matched_keywords, url, created_at
		FROM bid_notices
		ORDER BY created_at DESC, id DESC
		LIMIT $1`, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query notices: %w", err)
	}
	defer rows.Close()

	var notices []domain.BidNotice
	for rows.Next() {
		var n domain.BidNotice
		if err := rows.Scan(
			&n.ID, &n.Endpoint, &n.BidNtceNo, &n.BidNtceOrd, &n.Title, &n.Org, &n.DemandOrg,
			&n.Budget, &n.BidBeginDt, &n.BidCloseDt,
			&n.ContactName, &n.ContactPhone, &n.ContactEmail,
			&n.Score, &n.MatchedKeywords, &n.URL, &n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notice: %w", err)
		}
		notices = append(notices, n)
	}
	return notices, rows.Err()
}

// SyncStatus returns the bookkeeping rows for every known source
func (r *NoticeRepository) SyncStatus(ctx context.Context) ([]domain.SyncLog, error) {
	rows, err := r.pool.Query(ctx, `
		SELECT source, last_sync, records_count, status, message
		FROM sync_logs
		ORDER BY source`)
	if err != nil {
		return nil, fmt.Errorf("failed to query sync logs: %w", err)
	}
	defer rows.Close()

	var logs []domain.SyncLog
	for rows.Next() {
		var l domain.SyncLog
		if err := rows.Scan(&l.Source, &l.LastSync, &l.RecordsCount, &l.Status, &l.Message); err != nil {
			return nil, fmt.Errorf("failed to scan sync log: %w", err)
		}
		logs = append(logs, l)
	}
	return logs, rows.Err()
}
