// Package testutil provides testing utilities for the tracker client.
package testutil

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// ChallengeCookieValue is the cf_clearance value issued by the mock challenge page.
const ChallengeCookieValue = "mock-clearance"

// MockTRNResponse defines the behavior for a mock tracker endpoint response.
type MockTRNResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockTRN is a configurable mock tracker.gg server for testing.
//
// Requests that ask for HTML (a challenge solver loading the page) are served
// by the challenge handler and counted separately from API requests.
type MockTRN struct {
	server    *httptest.Server
	mu        sync.RWMutex
	handlers  map[string]func(w http.ResponseWriter, r *http.Request)
	sequences map[string][]MockTRNResponse

	// Tracking
	RequestCount      int
	ChallengeCount    int
	LastRequestHeader http.Header
	inFlight          int
	peakInFlight      int
}

// NewMockTRN creates a new mock tracker server.
func NewMockTRN() *MockTRN {
	mock := &MockTRN{
		handlers:  make(map[string]func(w http.ResponseWriter, r *http.Request)),
		sequences: make(map[string][]MockTRNResponse),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.Header.Get("Accept"), "text/html") {
			mock.challengeHandler(w, r)
			return
		}

		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		mock.inFlight++
		if mock.inFlight > mock.peakInFlight {
			mock.peakInFlight = mock.inFlight
		}
		handler, exists := mock.handlers[r.URL.Path]
		mock.mu.Unlock()

		defer func() {
			mock.mu.Lock()
			mock.inFlight--
			mock.mu.Unlock()
		}()

		if exists {
			handler(w, r)
			return
		}

		mock.defaultHandler(w, r)
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockTRN) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockTRN) Close() {
	m.server.Close()
}

// Reset clears all tracking counters.
func (m *MockTRN) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.ChallengeCount = 0
	m.LastRequestHeader = nil
	m.peakInFlight = 0
}

// SetHandler sets a custom handler for a specific path.
func (m *MockTRN) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockTRN) SetResponse(path string, resp MockTRNResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		writeResponse(w, resp)
	})
}

// SetSequence configures successive responses for a path. Once the sequence
// is exhausted its last response repeats.
func (m *MockTRN) SetSequence(path string, resps ...MockTRNResponse) {
	if len(resps) == 0 {
		return
	}

	m.mu.Lock()
	m.sequences[path] = resps
	m.mu.Unlock()

	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		seq := m.sequences[path]
		resp := seq[0]
		if len(seq) > 1 {
			m.sequences[path] = seq[1:]
		}
		m.mu.Unlock()

		writeResponse(w, resp)
	})
}

// GetRequestCount returns the number of API requests made to the server.
func (m *MockTRN) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetChallengeCount returns the number of challenge page loads.
func (m *MockTRN) GetChallengeCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.ChallengeCount
}

// GetPeakInFlight returns the highest number of concurrent API requests seen.
func (m *MockTRN) GetPeakInFlight() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.peakInFlight
}

// GetLastRequestHeader returns the headers of the most recent API request.
func (m *MockTRN) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

// challengeHandler issues a clearance cookie, like a solved challenge page.
func (m *MockTRN) challengeHandler(w http.ResponseWriter, r *http.Request) {
	m.mu.Lock()
	m.ChallengeCount++
	m.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "cf_clearance", Value: ChallengeCookieValue, Path: "/"})
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	w.Write([]byte("<html><body>ok</body></html>"))
}

// defaultHandler answers unknown paths the way tracker.gg does.
func (m *MockTRN) defaultHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(http.StatusNotFound)
	w.Write([]byte(`{"errors":[{"code":"CollectorResultStatus::NotFound","message":"not found"}]}`))
}

func writeResponse(w http.ResponseWriter, resp MockTRNResponse) {
	if resp.Delay > 0 {
		time.Sleep(resp.Delay)
	}

	for key, value := range resp.Headers {
		w.Header().Set(key, value)
	}

	w.WriteHeader(resp.StatusCode)
	if resp.Body != "" {
		w.Write([]byte(resp.Body))
	}
}

// NewDataResponse creates a 200 OK response wrapping data in the tracker envelope.
func NewDataResponse(data string) MockTRNResponse {
	return MockTRNResponse{
		StatusCode: http.StatusOK,
		Body:       fmt.Sprintf(`{"data":%s}`, data),
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewAccessDeniedResponse creates a 403 Forbidden response like a Cloudflare block.
func NewAccessDeniedResponse() MockTRNResponse {
	return MockTRNResponse{
		StatusCode: http.StatusForbidden,
		Body:       "<html><title>Just a moment...</title></html>",
		Headers: map[string]string{
			"Content-Type": "text/html; charset=utf-8",
		},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockTRNResponse {
	return MockTRNResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"errors":[{"message":"Internal server error"}]}`,
		Headers: map[string]string{
			"Content-Type": "application/json; charset=utf-8",
		},
	}
}

// NewClearanceHandler answers 403 until the request carries the cookie issued
// by the challenge page, then serves data.
func NewClearanceHandler(data string) func(w http.ResponseWriter, r *http.Request) {
	return func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie("cf_clearance")
		if err != nil || cookie.Value != ChallengeCookieValue {
			writeResponse(w, NewAccessDeniedResponse())
			return
		}
		writeResponse(w, NewDataResponse(data))
	}
}
