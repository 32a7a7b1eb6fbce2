package usecase

import (
	"context"
	"fmt"
	"log"
	"time"

	"github.com/bidwatch/backend/internal/domain"
	"github.com/bidwatch/backend/internal/infrastructure/g2b"
)

// sourceName is the sync-log source this collector reports under
const sourceName = "nara_bids"

// CollectService drives one batch run: fetch every configured endpoint,
// normalize and score the records, persist the accepted ones, and record the
// outcome in the sync log. It is the only component with cross-endpoint
// state.
type CollectService struct {
	fetcher   domain.BidFetcher
	repo      domain.NoticeRepository
	scoring   *ScoringService
	seenKeys  domain.KeyCache
	endpoints []domain.Endpoint
}

// NewCollectService creates a collect service with dependencies
func NewCollectService(
	fetcher domain.BidFetcher,
	repo domain.NoticeRepository,
	seenKeys domain.KeyCache,
	scoring *ScoringService,
	endpoints []domain.Endpoint,
) *CollectService {
	return &CollectService{
		fetcher:   fetcher,
		repo:      repo,
		scoring:   scoring,
		seenKeys:  seenKeys,
		endpoints: endpoints,
	}
}

// Collect runs the pipeline for the last daysBack days and returns aggregate
// counts plus the bids newly inserted by this run. A failing endpoint is
// tallied, not fatal: the run always completes and persists whatever the
// healthy endpoints produced.
func (s *CollectService) Collect(ctx context.Context, daysBack int) (domain.RunResult, []domain.ScoredBid, error) {
	end := time.Now()
	start := end.AddDate(0, 0, -daysBack)

	var result domain.RunResult
	var accepted []domain.ScoredBid

	for _, ep := range s.endpoints {
		records, err := s.fetcher.FetchEndpoint(ctx, ep, start, end)
		if err != nil {
			log.Printf("[COLLECT] endpoint %s failed after %d records: %v", ep.Name, len(records), err)
			result.Errors++
		}
		result.TotalSeen += len(records)

		for _, rec := range records {
			bid := g2b.MapRecord(rec)

			scored, ok := s.scoring.ScoreBid(bid)
			if !ok {
				continue
			}

			// Overlapping pages can repeat a key within one run; the
			// storage constraint would catch it, this just saves the
			// round trip
			if s.seenKeys != nil {
				if s.seenKeys.Seen(bid.Key()) {
					continue
				}
				s.seenKeys.Mark(bid.Key())
			}

			accepted = append(accepted, *scored)
		}

		log.Printf("[COLLECT] endpoint %s: %d records", ep.Name, len(records))
	}

	inserted, err := s.repo.SaveBatch(ctx, accepted)
	if err != nil {
		log.Printf("[COLLECT] persist failed: %v", err)
		result.Errors++
	}
	result.Inserted = len(inserted)

	s.updateSyncLog(ctx, result)

	return result, inserted, nil
}

// updateSyncLog upserts the per-source bookkeeping row, exactly once per run
func (s *CollectService) updateSyncLog(ctx context.Context, result domain.RunResult) {
	status := "success"
	if result.Errors > 0 {
		status = "error"
	}

	err := s.repo.UpsertSyncLog(ctx, domain.SyncLog{
		Source:       sourceName,
		LastSync:     time.Now().UTC(),
		RecordsCount: result.TotalSeen,
		Status:       status,
		Message:      fmt.Sprintf("%d seen, %d inserted, %d errors", result.TotalSeen, result.Inserted, result.Errors),
	})
	if err != nil {
		log.Printf("[COLLECT] sync log update failed: %v", err)
	}
}
