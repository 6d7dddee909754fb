// Package testutil provides a fake users API for tests.
package testutil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"sync"
	"time"

	"github.com/Sternrassler/social-lookup/pkg/users"
)

// Paths served by MockAPI.
const (
	LookupPath    = "/1.1/users/lookup.json"
	FollowersPath = "/1.1/followers/ids.json"
	FriendsPath   = "/1.1/friends/ids.json"
)

// MockResponse defines a canned response for a path.
type MockResponse struct {
	StatusCode int
	Body       string
	Headers    map[string]string
	Delay      time.Duration
}

// MockAPI is a configurable fake of the remote users API. Every id is known
// unless marked unknown; lookups containing a failing id answer with the
// configured status.
type MockAPI struct {
	server   *httptest.Server
	mu       sync.RWMutex
	handlers map[string]func(w http.ResponseWriter, r *http.Request)

	unknown map[users.ID]bool
	failing map[users.ID]int
	graph   map[string]map[users.Relation][]users.ID
	delay   time.Duration

	// Tracking
	RequestCount      int
	LookupCount       int
	LastRequestHeader http.Header
	lookupBatches     [][]users.ID
}

// NewMockAPI starts a fake users API server.
func NewMockAPI() *MockAPI {
	mock := &MockAPI{
		handlers: make(map[string]func(w http.ResponseWriter, r *http.Request)),
		unknown:  make(map[users.ID]bool),
		failing:  make(map[users.ID]int),
		graph:    make(map[string]map[users.Relation][]users.ID),
	}

	mock.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		mock.mu.Lock()
		mock.RequestCount++
		mock.LastRequestHeader = r.Header.Clone()
		handler, exists := mock.handlers[r.URL.Path]
		delay := mock.delay
		mock.mu.Unlock()

		if delay > 0 {
			select {
			case <-time.After(delay):
			case <-r.Context().Done():
				return
			}
		}

		if exists {
			handler(w, r)
			return
		}

		switch r.URL.Path {
		case LookupPath:
			mock.handleLookup(w, r)
		case FollowersPath:
			mock.handleIDs(w, r, users.Followers)
		case FriendsPath:
			mock.handleIDs(w, r, users.Friends)
		default:
			writeError(w, http.StatusNotFound, 34, "Sorry, that page does not exist.")
		}
	}))

	return mock
}

// URL returns the mock server URL.
func (m *MockAPI) URL() string {
	return m.server.URL
}

// Close shuts down the mock server.
func (m *MockAPI) Close() {
	m.server.Close()
}

// Reset clears all tracking counters. Configured behavior is kept.
func (m *MockAPI) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.RequestCount = 0
	m.LookupCount = 0
	m.LastRequestHeader = nil
	m.lookupBatches = nil
}

// SetHandler sets a custom handler for a specific path.
func (m *MockAPI) SetHandler(path string, handler func(w http.ResponseWriter, r *http.Request)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.handlers[path] = handler
}

// SetResponse configures a fixed response for a path.
func (m *MockAPI) SetResponse(path string, resp MockResponse) {
	m.SetHandler(path, func(w http.ResponseWriter, r *http.Request) {
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
	})
}

// SetUnknown marks ids the API silently omits from lookups.
func (m *MockAPI) SetUnknown(ids ...users.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.unknown[id] = true
	}
}

// FailIDs makes every lookup that contains one of ids answer with status.
func (m *MockAPI) FailIDs(status int, ids ...users.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, id := range ids {
		m.failing[id] = status
	}
}

// SetIDs configures the id list returned for screenName and relation.
func (m *MockAPI) SetIDs(screenName string, relation users.Relation, ids []users.ID) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.graph[screenName] == nil {
		m.graph[screenName] = make(map[users.Relation][]users.ID)
	}
	m.graph[screenName][relation] = slices.Clone(ids)
}

// SetDelay delays every response.
func (m *MockAPI) SetDelay(d time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.delay = d
}

// GetRequestCount returns the number of requests made to the server.
func (m *MockAPI) GetRequestCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.RequestCount
}

// GetLastRequestHeader returns the headers of the most recent request.
func (m *MockAPI) GetLastRequestHeader() http.Header {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LastRequestHeader
}

// GetLookupCount returns the number of users/lookup calls.
func (m *MockAPI) GetLookupCount() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.LookupCount
}

// LookupBatches returns the id batches received by users/lookup in arrival order.
func (m *MockAPI) LookupBatches() [][]users.ID {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([][]users.ID, len(m.lookupBatches))
	for i, batch := range m.lookupBatches {
		out[i] = slices.Clone(batch)
	}
	return out
}

// UserFor returns the record MockAPI serves for id.
func UserFor(id users.ID) users.User {
	return users.User{
		ID:              id,
		Name:            fmt.Sprintf("User %d", id),
		ScreenName:      fmt.Sprintf("user%d", id),
		FollowersCount:  int(id % 1000),
		FriendsCount:    int(id % 500),
		StatusesCount:   int(id % 10000),
		FavouritesCount: int(id % 250),
		ListedCount:     int(id % 50),
	}
}

func (m *MockAPI) handleLookup(w http.ResponseWriter, r *http.Request) {
	ids, err := users.ParseIDList(r.URL.Query().Get("user_id"))
	if err != nil || len(ids) == 0 {
		writeError(w, http.StatusBadRequest, 44, "user_id parameter is invalid.")
		return
	}
	if len(ids) > users.MaxBatchSize {
		writeError(w, http.StatusForbidden, 18, "Too many terms specified in query.")
		return
	}

	m.mu.Lock()
	m.LookupCount++
	m.lookupBatches = append(m.lookupBatches, ids)
	status := 0
	found := make([]users.User, 0, len(ids))
	for _, id := range ids {
		if s, ok := m.failing[id]; ok && status == 0 {
			status = s
		}
		if !m.unknown[id] {
			found = append(found, UserFor(id))
		}
	}
	m.mu.Unlock()

	if status != 0 {
		writeError(w, status, 131, "Internal error.")
		return
	}
	if len(found) == 0 {
		writeError(w, http.StatusNotFound, 17, "No user matches for specified terms.")
		return
	}
	writeJSON(w, http.StatusOK, found)
}

func (m *MockAPI) handleIDs(w http.ResponseWriter, r *http.Request, relation users.Relation) {
	screenName := r.URL.Query().Get("screen_name")

	m.mu.RLock()
	ids, ok := m.graph[screenName][relation]
	m.mu.RUnlock()

	if !ok {
		writeError(w, http.StatusNotFound, 50, "User not found.")
		return
	}
	if ids == nil {
		ids = []users.ID{}
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"ids":         ids,
		"next_cursor": 0,
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status, code int, message string) {
	writeJSON(w, status, map[string]any{
		"errors": []map[string]any{{"code": code, "message": message}},
	})
}

// NewHealthyResponse creates a standard 200 OK JSON response.
func NewHealthyResponse(data string) MockResponse {
	return MockResponse{
		StatusCode: http.StatusOK,
		Body:       data,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewRateLimitResponse creates a 429 Too Many Requests response.
func NewRateLimitResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusTooManyRequests,
		Body:       `{"errors":[{"code":88,"message":"Rate limit exceeded"}]}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}

// NewServerErrorResponse creates a 500 Internal Server Error response.
func NewServerErrorResponse() MockResponse {
	return MockResponse{
		StatusCode: http.StatusInternalServerError,
		Body:       `{"errors":[{"code":131,"message":"Internal error"}]}`,
		Headers:    map[string]string{"Content-Type": "application/json; charset=utf-8"},
	}
}
