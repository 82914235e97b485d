package cli

import (
	"bytes"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/charmbracelet/log"

	"github.com/mindgrid/mindgrid/pkg/cache"
	"github.com/mindgrid/mindgrid/pkg/format"
	"github.com/mindgrid/mindgrid/pkg/pipeline"
	"github.com/mindgrid/mindgrid/pkg/storage"
)

func newTestServer(t *testing.T) *httptest.Server {
	t.Helper()

	runner := pipeline.NewRunner(cache.NewNullCache(), nil, newLogger(io.Discard, log.ErrorLevel))
	t.Cleanup(func() { runner.Close() })

	store, err := storage.NewFileStore(t.TempDir(), storage.FileStoreOptions{})
	if err != nil {
		t.Fatalf("NewFileStore() error: %v", err)
	}

	srv := httptest.NewServer(newRouter(runner, store, newLogger(io.Discard, log.ErrorLevel)))
	t.Cleanup(srv.Close)
	return srv
}

func sampleDocument() format.Document {
	now := time.Date(2026, 1, 15, 9, 0, 0, 0, time.UTC)
	return format.Document{
		Version:   format.DocumentVersion,
		Title:     "Test Map",
		CreatedAt: now,
		UpdatedAt: now,
		Nodes: []format.Node{
			{ID: "root", Text: "Root", CreatedAt: now, UpdatedAt: now},
			{ID: "a", Text: "Alpha", ParentID: "root", CreatedAt: now, UpdatedAt: now},
			{ID: "b", Text: "Beta", ParentID: "root", CreatedAt: now, UpdatedAt: now},
		},
	}
}

func TestServeHealthz(t *testing.T) {
	srv := newTestServer(t)

	resp, err := http.Get(srv.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Errorf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("status field = %q, want %q", body["status"], "ok")
	}
}

func TestServeComputeLayout(t *testing.T) {
	srv := newTestServer(t)

	payload, err := json.Marshal(layoutRequest{
		Document:  sampleDocument(),
		Algorithm: "radial",
	})
	if err != nil {
		t.Fatal(err)
	}

	resp, err := http.Post(srv.URL+"/v1/layout", "application/json", bytes.NewReader(payload))
	if err != nil {
		t.Fatalf("POST /v1/layout error: %v", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	var body layoutResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode response: %v", err)
	}

	if len(body.Positions) != 3 {
		t.Errorf("got %d positions, want 3", len(body.Positions))
	}
	if body.CacheHit {
		t.Error("first computation should not be a cache hit")
	}
}

func TestServeComputeLayoutRejectsBadRequests(t *testing.T) {
	srv := newTestServer(t)

	tests := []struct {
		name       string
		body       string
		wantStatus int
	}{
		{
			name:       "malformed json",
			body:       "{not json",
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "unknown algorithm",
			body:       `{"document":{"version":1,"nodes":[{"id":"n","text":"N"}]},"algorithm":"spiral"}`,
			wantStatus: http.StatusBadRequest,
		},
		{
			name:       "dangling parent",
			body:       `{"document":{"version":1,"nodes":[{"id":"n","text":"N","parent_id":"ghost"}]}}`,
			wantStatus: http.StatusBadRequest,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp, err := http.Post(srv.URL+"/v1/layout", "application/json", bytes.NewReader([]byte(tt.body)))
			if err != nil {
				t.Fatalf("POST error: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != tt.wantStatus {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.wantStatus)
			}

			var body map[string]string
			if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
				t.Fatalf("decode error body: %v", err)
			}
			if body["code"] == "" {
				t.Error("error response should carry a code")
			}
		})
	}
}

func TestServeDocumentLifecycle(t *testing.T) {
	srv := newTestServer(t)
	client := srv.Client()

	doc, err := json.Marshal(sampleDocument())
	if err != nil {
		t.Fatal(err)
	}

	// Save
	req, _ := http.NewRequest(http.MethodPut, srv.URL+"/v1/documents/test-map", bytes.NewReader(doc))
	resp, err := client.Do(req)
	if err != nil {
		t.Fatalf("PUT error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("PUT status = %d, want %d", resp.StatusCode, http.StatusOK)
	}

	// List
	resp, err = client.Get(srv.URL + "/v1/documents")
	if err != nil {
		t.Fatalf("GET list error: %v", err)
	}
	var infos []storage.Info
	if err := json.NewDecoder(resp.Body).Decode(&infos); err != nil {
		t.Fatalf("decode list: %v", err)
	}
	resp.Body.Close()
	if len(infos) != 1 || infos[0].Name != "test-map" {
		t.Fatalf("list = %+v, want one entry named test-map", infos)
	}

	// Load
	resp, err = client.Get(srv.URL + "/v1/documents/test-map")
	if err != nil {
		t.Fatalf("GET error: %v", err)
	}
	var loaded format.Document
	if err := json.NewDecoder(resp.Body).Decode(&loaded); err != nil {
		t.Fatalf("decode document: %v", err)
	}
	resp.Body.Close()
	if loaded.Title != "Test Map" || len(loaded.Nodes) != 3 {
		t.Errorf("loaded document = %q with %d nodes, want Test Map with 3", loaded.Title, len(loaded.Nodes))
	}

	// Delete
	req, _ = http.NewRequest(http.MethodDelete, srv.URL+"/v1/documents/test-map", nil)
	resp, err = client.Do(req)
	if err != nil {
		t.Fatalf("DELETE error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Errorf("DELETE status = %d, want %d", resp.StatusCode, http.StatusNoContent)
	}

	// Load after delete
	resp, err = client.Get(srv.URL + "/v1/documents/test-map")
	if err != nil {
		t.Fatalf("GET after delete error: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Errorf("GET after delete status = %d, want %d", resp.StatusCode, http.StatusNotFound)
	}
}
