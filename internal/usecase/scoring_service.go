package usecase

import (
	"strings"

	"github.com/bidwatch/backend/internal/domain"
)

// Default per-match weights, applied when the policy leaves one unset
const (
	defaultHighIntentWeight = 15
	defaultFacilityWeight   = 8
	defaultRegionWeight     = 10
)

// ScoringPolicy holds the keyword/region policy the scoring engine applies.
// Keyword order is preserved: matched keywords are recorded in policy order.
type ScoringPolicy struct {
	ExcludeKeywords    []string
	HighIntentKeywords []string
	FacilityKeywords   []string
	Regions            []string
	HighIntentWeight   int
	FacilityWeight     int
	RegionWeight       int
}

// ScoringService decides which bids are worth keeping. Scoring is a pure
// function of the bid and the policy: identical input always produces the
// identical decision and score.
type ScoringService struct {
	exclude    []string
	highIntent []string
	facility   []string
	regions    []string

	highIntentWeight int
	facilityWeight   int
	regionWeight     int
}

// NewScoringService creates a scoring service with the given policy
func NewScoringService(policy ScoringPolicy) *ScoringService {
	highWeight := policy.HighIntentWeight
	if highWeight <= 0 {
		highWeight = defaultHighIntentWeight
	}

	facWeight := policy.FacilityWeight
	if facWeight <= 0 {
		facWeight = defaultFacilityWeight
	}

	regionWeight := policy.RegionWeight
	if regionWeight <= 0 {
		regionWeight = defaultRegionWeight
	}

	return &ScoringService{
		exclude:          lowerAll(policy.ExcludeKeywords),
		highIntent:       lowerAll(policy.HighIntentKeywords),
		facility:         lowerAll(policy.FacilityKeywords),
		regions:          policy.Regions,
		highIntentWeight: highWeight,
		facilityWeight:   facWeight,
		regionWeight:     regionWeight,
	}
}

// ScoreBid applies the policy to one normalized bid. It returns the scored
// bid and true on acceptance, or nil and false on rejection.
//
// The ordering is load-bearing: the exclude veto runs before any scoring so
// exclude always wins, and the high-intent presence check runs after keyword
// accumulation because it depends on the matched set.
func (s *ScoringService) ScoreBid(bid domain.NormalizedBid) (*domain.ScoredBid, bool) {
	text := searchText(bid)

	// Exclude is an absolute veto, independent of score
	for _, kw := range s.exclude {
		if strings.Contains(text, kw) {
			return nil, false
		}
	}

	score := 0
	var matched []string
	hasHighIntent := false

	for _, kw := range s.highIntent {
		if strings.Contains(text, kw) {
			score += s.highIntentWeight
			matched = append(matched, kw)
			hasHighIntent = true
		}
	}

	for _, kw := range s.facility {
		if strings.Contains(text, kw) {
			score += s.facilityWeight
			matched = append(matched, kw)
		}
	}

	// Region presence is a hard filter, not only a scoring bonus
	inRegion := false
	for _, r := range s.regions {
		if strings.Contains(text, strings.ToLower(r)) {
			inRegion = true
			break
		}
	}
	if !inRegion {
		return nil, false
	}
	score += s.regionWeight

	// Facility-only matches never qualify on their own
	if !hasHighIntent {
		return nil, false
	}

	// A bid without a notice number cannot be deduplicated
	if bid.NoticeNo == "" {
		return nil, false
	}

	return &domain.ScoredBid{
		NormalizedBid:   bid,
		Score:           clampScore(score),
		MatchedKeywords: matched,
	}, true
}

// searchText concatenates the fields keyword matching runs against
func searchText(bid domain.NormalizedBid) string {
	return strings.ToLower(bid.Title + " " + bid.Org + " " + bid.DemandOrg)
}

// clampScore bounds a score to the inclusive range [0, 100]
func clampScore(score int) int {
	if score < 0 {
		return 0
	}
	if score > 100 {
		return 100
	}
	return score
}

// lowerAll lowercases a keyword list, preserving order
func lowerAll(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.TrimSpace(strings.ToLower(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	return out
}
