package g2b

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// decode parses a literal envelope the way the client does
func decode(t *testing.T, raw string) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal([]byte(raw), &body))
	return body
}

func TestExtractItems_List(t *testing.T) {
	body := decode(t, `{
		"response": {
			"body": {
				"items": {
					"item": [
						{"bidNtceNo": "2024-001", "bidNtceNm": "첫번째 공고"},
						{"bidNtceNo": "2024-002", "bidNtceNm": "두번째 공고"}
					]
				}
			}
		}
	}`)

	items := extractItems(body)

	require.Len(t, items, 2)
	assert.Equal(t, "2024-001", items[0]["bidNtceNo"])
	assert.Equal(t, "2024-002", items[1]["bidNtceNo"])
}

func TestExtractItems_SingleObject(t *testing.T) {
	// The API returns a bare object instead of a one-element list
	body := decode(t, `{
		"response": {
			"body": {
				"items": {
					"item": {"bidNtceNo": "2024-003", "bidNtceNm": "단건 공고"}
				}
			}
		}
	}`)

	items := extractItems(body)

	require.Len(t, items, 1)
	assert.Equal(t, "2024-003", items[0]["bidNtceNo"])
}

func TestExtractItems_BareList(t *testing.T) {
	// Some endpoints skip the "item" wrapper entirely
	body := decode(t, `{
		"response": {
			"body": {
				"items": [{"bidNtceNo": "2024-004"}]
			}
		}
	}`)

	items := extractItems(body)

	require.Len(t, items, 1)
	assert.Equal(t, "2024-004", items[0]["bidNtceNo"])
}

func TestExtractItems_ItemsAbsent(t *testing.T) {
	body := decode(t, `{"response": {"body": {"totalCount": 0}}}`)

	assert.Empty(t, extractItems(body))
}

func TestExtractItems_MissingResponse(t *testing.T) {
	body := decode(t, `{"resultCode": "99", "resultMsg": "SERVICE ERROR"}`)

	assert.Empty(t, extractItems(body))
}

func TestExtractItems_MalformedShapes(t *testing.T) {
	tests := []struct {
		name string
		raw  string
	}{
		{"response is a string", `{"response": "oops"}`},
		{"body is a list", `{"response": {"body": []}}`},
		{"items is a number", `{"response": {"body": {"items": 42}}}`},
		{"items wrapper without item key", `{"response": {"body": {"items": {"totalCount": 3}}}}`},
		{"list of non-objects", `{"response": {"body": {"items": {"item": ["a", "b"]}}}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, extractItems(decode(t, tt.raw)))
		})
	}
}
