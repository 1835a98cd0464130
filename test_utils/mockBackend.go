package test_utils

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/manifest-network/six-cities-client/pkg"
)

const BasePath = "/six-cities"

// SlowDelay is how long the /slow endpoint takes to answer.
const SlowDelay = 500 * time.Millisecond

type Hotel struct {
	ID    int    `json:"id"`
	Title string `json:"title"`
}

// MockBackend is an in-process six-cities backend.
type MockBackend struct {
	Server *httptest.Server

	mu      sync.Mutex
	headers []http.Header
}

// SetupMockBackend starts a mock backend that is closed when the test ends.
//
//	GET  /six-cities/hotels      200 [{"id":1,"title":"Amsterdam loft"}]
//	GET  /six-cities/login       200 {"token":"<x-token header>"}
//	POST /six-cities/comments/1  201 echoes the request body
//	GET  /six-cities/bad         400 {"error":"Bad request body"}
//	GET  /six-cities/bad-plain   400 plain text body
//	GET  /six-cities/missing     404 {"error":"Hotel id 42 does not exist"}
//	GET  /six-cities/unauth      401 {"error":"You are not logged in"}
//	GET  /six-cities/boom        500 {"error":"Internal error"}
//	GET  /six-cities/slow        200 after SlowDelay
func SetupMockBackend(t *testing.T) *MockBackend {
	t.Helper()
	m := &MockBackend{}

	mux := http.NewServeMux()
	mux.HandleFunc("GET "+BasePath+"/hotels", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, []Hotel{{ID: 1, Title: "Amsterdam loft"}})
	})
	mux.HandleFunc("GET "+BasePath+"/login", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]string{"token": r.Header.Get(pkg.TokenHeader)})
	})
	mux.HandleFunc("POST "+BasePath+"/comments/1", func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid JSON"})
			return
		}
		writeJSON(w, http.StatusCreated, body)
	})
	mux.HandleFunc("GET "+BasePath+"/bad", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "Bad request body"})
	})
	mux.HandleFunc("GET "+BasePath+"/bad-plain", func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "bad", http.StatusBadRequest)
	})
	mux.HandleFunc("GET "+BasePath+"/missing", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "Hotel id 42 does not exist"})
	})
	mux.HandleFunc("GET "+BasePath+"/unauth", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "You are not logged in"})
	})
	mux.HandleFunc("GET "+BasePath+"/boom", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "Internal error"})
	})
	mux.HandleFunc("GET "+BasePath+"/slow", func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(SlowDelay):
			writeJSON(w, http.StatusOK, []Hotel{})
		case <-r.Context().Done():
		}
	})

	m.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		m.mu.Lock()
		m.headers = append(m.headers, r.Header.Clone())
		m.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(m.Server.Close)
	return m
}

// BaseURL is the API root served by the backend.
func (m *MockBackend) BaseURL() string {
	return m.Server.URL + BasePath
}

// Headers returns the headers of every request received, in order.
func (m *MockBackend) Headers() []http.Header {
	m.mu.Lock()
	defer m.mu.Unlock()
	return append([]http.Header(nil), m.headers...)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
