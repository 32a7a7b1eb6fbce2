package g2b

import (
	"strconv"
	"strings"

	"github.com/bidwatch/backend/internal/domain"
)

// MapRecord converts a raw API item into the normalized bid shape the
// pipeline works with. Missing fields map to zero values; bid timestamps are
// carried verbatim.
func MapRecord(rec domain.RawRecord) domain.NormalizedBid {
	ord := asString(rec["bidNtceOrd"])
	if ord == "" {
		ord = "00"
	}

	return domain.NormalizedBid{
		Endpoint:     asString(rec["endpoint"]),
		NoticeNo:     asString(rec["bidNtceNo"]),
		NoticeOrd:    ord,
		Title:        asString(rec["bidNtceNm"]),
		Org:          asString(rec["ntceInsttNm"]),
		DemandOrg:    asString(rec["dminsttNm"]),
		Budget:       parseAmount(rec["presmptPrce"]),
		BidBeginDt:   asString(rec["bidBeginDt"]),
		BidCloseDt:   asString(rec["bidClseDt"]),
		URL:          asString(rec["bidNtceDtlUrl"]),
		ContactName:  asString(rec["ntceInsttOfclNm"]),
		ContactPhone: asString(rec["ntceInsttOfclTelNo"]),
		ContactEmail: asString(rec["ntceInsttOfclEmailAdrs"]),
		Raw:          rec,
	}
}

// asString renders a JSON value as a string. Numbers keep their shortest
// representation; anything else becomes "".
func asString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64)
	case int:
		return strconv.Itoa(s)
	default:
		return ""
	}
}

// parseAmount coerces the API's comma-formatted amount strings to a float,
// returning nil on anything malformed. It never fails hard: a bad budget is
// not a reason to drop a bid.
func parseAmount(v any) *float64 {
	if v == nil {
		return nil
	}

	if f, ok := v.(float64); ok {
		return &f
	}

	s := strings.TrimSpace(strings.ReplaceAll(asString(v), ",", ""))
	if s == "" {
		return nil
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return nil
	}
	return &f
}
