package services

import (
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mrlokans/fintrack/internal/apiclient"
)

// recordingBackend is an httptest backend that records every request path.
type recordingBackend struct {
	mu       sync.Mutex
	requests []string
	server   *httptest.Server
}

func newRecordingBackend(t *testing.T, mux *http.ServeMux) *recordingBackend {
	t.Helper()
	b := &recordingBackend{}
	b.server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		b.mu.Lock()
		b.requests = append(b.requests, r.Method+" "+r.URL.RequestURI())
		b.mu.Unlock()
		mux.ServeHTTP(w, r)
	}))
	t.Cleanup(b.server.Close)
	return b
}

func (b *recordingBackend) client() *apiclient.Client {
	return apiclient.New(b.server.URL)
}

func (b *recordingBackend) Requests() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.requests...)
}

func writeJSON(w http.ResponseWriter, status int, body string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write([]byte(body))
}
