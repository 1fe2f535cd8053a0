package tracker

import (
	"bytes"
	"encoding/json"
)

// Collection extracts a list from raw. A bare array is truncated to limit
// (limit <= 0 keeps everything). An object yields its field array untruncated,
// or nil when the field is missing. Anything else yields nil.
func Collection(raw json.RawMessage, field string, limit int) []json.RawMessage {
	switch kind(raw) {
	case '[':
		var items []json.RawMessage
		if err := json.Unmarshal(raw, &items); err != nil {
			return nil
		}
		if limit > 0 && len(items) > limit {
			items = items[:limit]
		}
		return items
	case '{':
		var obj map[string]json.RawMessage
		if err := json.Unmarshal(raw, &obj); err != nil {
			return nil
		}
		var items []json.RawMessage
		if err := json.Unmarshal(obj[field], &items); err != nil {
			return nil
		}
		return items
	default:
		return nil
	}
}

// First extracts a single item from raw. A bare array yields its first
// element. An object yields the first element of the first non-empty array
// among fields. ok is false when nothing was found.
func First(raw json.RawMessage, fields ...string) (item json.RawMessage, ok bool) {
	switch kind(raw) {
	case '[':
		items := Collection(raw, "", 1)
		if len(items) == 0 {
			return nil, false
		}
		return items[0], true
	case '{':
		for _, field := range fields {
			if items := Collection(raw, field, 0); len(items) > 0 {
				return items[0], true
			}
		}
		return nil, false
	default:
		return nil, false
	}
}

// kind returns the first significant byte of raw, '[' or '{' for composites.
func kind(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}
	return raw[0]
}
