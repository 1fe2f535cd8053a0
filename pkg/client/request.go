package client

import (
	"encoding/json"
	"fmt"
	"net/url"
)

// Params are scalar query parameters. Values are rendered with fmt.Sprint.
type Params map[string]any

// Values converts p to url.Values.
func (p Params) Values() url.Values {
	if len(p) == 0 {
		return nil
	}
	values := make(url.Values, len(p))
	for name, value := range p {
		values.Set(name, fmt.Sprint(value))
	}
	return values
}

// Request is one logical tracker request.
type Request struct {
	// Path is appended to the base URL (e.g., "/profile/steam/42").
	Path string

	// Params are optional query parameters.
	Params Params

	// Fresh skips the cache read; the result is still written back.
	Fresh bool
}

// Result is either a payload or absent. Absent means "no data available",
// whatever the cause; the cause is only in the logs.
type Result struct {
	// Data is the "data" field of the response envelope, nil when absent.
	Data json.RawMessage

	// FromCache is true when Data was served without a network call.
	FromCache bool
}

// Absent reports whether the fetch produced no data.
func (r Result) Absent() bool {
	return len(r.Data) == 0
}

// Decode unmarshals the payload into v. It returns ErrAbsent for an absent result.
func (r Result) Decode(v any) error {
	if r.Absent() {
		return ErrAbsent
	}
	return json.Unmarshal(r.Data, v)
}
