package domain

import "time"

// RawRecord is a single item from the G2B list API, kept untyped because the
// upstream field set varies between category endpoints.
type RawRecord map[string]any

// Endpoint identifies one category listing of the bid notice API
type Endpoint struct {
	Name string `json:"name"` // logical name, e.g. "construction"
	Path string `json:"path"` // API path, e.g. "/getBidPblancListInfoCnstwk"
}

// NormalizedBid holds the subset of raw fields the pipeline cares about.
// Bid timestamps stay verbatim strings; the upstream date format is not
// reliably parseable.
type NormalizedBid struct {
	Endpoint     string    `json:"endpoint"`
	NoticeNo     string    `json:"bidNtceNo"`
	NoticeOrd    string    `json:"bidNtceOrd"`
	Title        string    `json:"title"`
	Org          string    `json:"org"`
	DemandOrg    string    `json:"demandOrg"`
	Budget       *float64  `json:"budget,omitempty"`
	BidBeginDt   string    `json:"bidBeginDt"`
	BidCloseDt   string    `json:"bidCloseDt"`
	URL          string    `json:"url"`
	ContactName  string    `json:"contactName,omitempty"`
	ContactPhone string    `json:"contactPhone,omitempty"`
	ContactEmail string    `json:"contactEmail,omitempty"`
	Raw          RawRecord `json:"-"`
}

// Key returns the composite natural key that scopes deduplication.
func (b NormalizedBid) Key() string {
	return b.Endpoint + "|" + b.NoticeNo + "|" + b.NoticeOrd
}

// ScoredBid is a NormalizedBid the scoring engine accepted
type ScoredBid struct {
	NormalizedBid
	Score           int      `json:"score"` // 0-100, clamped
	MatchedKeywords []string `json:"matchedKeywords"`
}

// BidNotice is the durable record of an accepted bid. Created once when a
// bid is first seen; never updated or deleted by the pipeline.
type BidNotice struct {
	ID              int64     `json:"id"`
	Endpoint        string    `json:"endpoint"`
	BidNtceNo       string    `json:"bidNtceNo"`
	BidNtceOrd      string    `json:"bidNtceOrd"`
	Title           string    `json:"title"`
	Org             string    `json:"org"`
	DemandOrg       string    `json:"demandOrg"`
	Budget          *float64  `json:"budget,omitempty"`
	BidBeginDt      string    `json:"bidBeginDt"`
	BidCloseDt      string    `json:"bidCloseDt"`
	ContactName     string    `json:"contactName,omitempty"`
	ContactPhone    string    `json:"contactPhone,omitempty"`
	ContactEmail    string    `json:"contactEmail,omitempty"`
	Score           int       `json:"score"`
	MatchedKeywords string    `json:"matchedKeywords"` // JSON-serialized list
	URL             string    `json:"url"`
	RawData         string    `json:"-"` // verbatim copy of the source record
	CreatedAt       time.Time `json:"createdAt"`
}

// SyncLog is the per-source bookkeeping row for the most recent run
type SyncLog struct {
	Source       string    `json:"source"`
	LastSync     time.Time `json:"lastSync"`
	RecordsCount int       `json:"recordsCount"`
	Status       string    `json:"status"` // "success" or "error"
	Message      string    `json:"message"`
}

// RunResult aggregates one collector run across all endpoints
type RunResult struct {
	TotalSeen int `json:"totalSeen"`
	Inserted  int `json:"inserted"`
	Errors    int `json:"errors"`
}
