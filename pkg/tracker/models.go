package tracker

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
)

// UserID is a tracker.gg title user id. The API sends it as a string or a
// number; it is always kept as a string.
type UserID string

// UnmarshalJSON accepts a JSON string or number.
func (id *UserID) UnmarshalJSON(data []byte) error {
	data = bytes.TrimSpace(data)
	if len(data) == 0 || bytes.Equal(data, []byte("null")) {
		*id = ""
		return nil
	}
	if data[0] == '"' {
		var s string
		if err := json.Unmarshal(data, &s); err != nil {
			return fmt.Errorf("decode user id: %w", err)
		}
		*id = UserID(s)
		return nil
	}

	var n json.Number
	if err := json.Unmarshal(data, &n); err != nil {
		return fmt.Errorf("decode user id %s: %w", data, err)
	}
	*id = UserID(n.String())
	return nil
}

// String returns the id.
func (id UserID) String() string {
	return string(id)
}

// Stat is one statistic of a segment.
type Stat struct {
	DisplayName  string   `json:"displayName"`
	DisplayValue string   `json:"displayValue"`
	Value        *float64 `json:"value"`
}

// UnmarshalJSON tolerates numeric strings and nulls in the value field.
func (s *Stat) UnmarshalJSON(data []byte) error {
	var raw struct {
		DisplayName  string          `json:"displayName"`
		DisplayValue string          `json:"displayValue"`
		Value        json.RawMessage `json:"value"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	s.DisplayName = raw.DisplayName
	s.DisplayValue = raw.DisplayValue
	s.Value = parseNumber(raw.Value)
	return nil
}

func parseNumber(raw json.RawMessage) *float64 {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}

	text := string(raw)
	if raw[0] == '"' {
		if err := json.Unmarshal(raw, &text); err != nil {
			return nil
		}
	}
	v, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil
	}
	return &v
}

// Segment groups stats; the first segment of a profile is the overview.
type Segment struct {
	Type     string          `json:"type"`
	Metadata map[string]any  `json:"metadata"`
	Stats    map[string]Stat `json:"stats"`
}

// Stat returns the named stat if present.
func (s Segment) Stat(field string) (Stat, bool) {
	st, ok := s.Stats[field]
	return st, ok
}

// Profile is a player's stats profile.
type Profile struct {
	Segments []Segment `json:"segments"`
}

// Overview returns the first segment.
func (p *Profile) Overview() (Segment, bool) {
	if p == nil || len(p.Segments) == 0 {
		return Segment{}, false
	}
	return p.Segments[0], true
}

// StatValue returns the overview's numeric value for field.
func (p *Profile) StatValue(field string) (float64, bool) {
	overview, ok := p.Overview()
	if !ok {
		return 0, false
	}
	st, ok := overview.Stat(field)
	if !ok || st.Value == nil {
		return 0, false
	}
	return *st.Value, true
}

// Match is one played match.
type Match struct {
	Metadata map[string]any `json:"metadata"`
	Segments []Segment      `json:"segments"`
}

// Date returns the match day as YYYY-MM-DD, or "" when unknown.
// The match metadata is used when present, otherwise the first segment's.
func (m Match) Date() string {
	meta := m.Metadata
	if len(meta) == 0 && len(m.Segments) > 0 {
		meta = m.Segments[0].Metadata
	}

	ts, _ := meta["timestamp"].(string)
	if len(ts) > 10 {
		ts = ts[:10]
	}
	return ts
}

// SearchResult is one hit of a player search.
type SearchResult struct {
	TitleUserID        UserID `json:"titleUserId"`
	PlatformUserHandle string `json:"platformUserHandle"`
	PlatformSlug       string `json:"platformSlug"`
}
