package g2b

import "github.com/bidwatch/backend/internal/domain"

// extractItems flattens the API's response→body→items→item envelope into an
// ordered item list. The upstream encodes a single result as a bare object
// instead of a one-element list, and omits items entirely on empty windows;
// every shape deviation normalizes to an empty slice rather than an error.
func extractItems(body map[string]any) []domain.RawRecord {
	resp, ok := body["response"].(map[string]any)
	if !ok {
		return nil
	}

	respBody, ok := resp["body"].(map[string]any)
	if !ok {
		return nil
	}

	items := respBody["items"]

	// items may wrap the real payload under an "item" key
	if wrapper, ok := items.(map[string]any); ok {
		items = wrapper["item"]
	}

	switch v := items.(type) {
	case map[string]any:
		// single object -> singleton list
		return []domain.RawRecord{v}
	case []any:
		out := make([]domain.RawRecord, 0, len(v))
		for _, it := range v {
			if rec, ok := it.(map[string]any); ok {
				out = append(out, rec)
			}
		}
		return out
	default:
		return nil
	}
}
