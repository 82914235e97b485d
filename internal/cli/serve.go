package cli

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/spf13/cobra"

	"github.com/mindgrid/mindgrid/pkg/cache"
	mgerrors "github.com/mindgrid/mindgrid/pkg/errors"
	"github.com/mindgrid/mindgrid/pkg/format"
	"github.com/mindgrid/mindgrid/pkg/layout"
	"github.com/mindgrid/mindgrid/pkg/pipeline"
	"github.com/mindgrid/mindgrid/pkg/storage"
)

// serveCommand creates the serve command exposing the layout pipeline as an
// HTTP API.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr     string
		noCache  bool
		redisURL string
		mongoURI string
		storeDir string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the layout API over HTTP",
		Long: `Serve the mind map layout pipeline as an HTTP API.

Endpoints:
  GET  /healthz                liveness probe
  POST /v1/layout              compute a layout for a posted document
  GET  /v1/documents           list stored documents
  PUT  /v1/documents/{name}    store a document
  GET  /v1/documents/{name}    fetch a stored document
  DELETE /v1/documents/{name}  delete a stored document

Documents are stored on disk by default; pass --mongo to use MongoDB.
Layout results are cached in the local file cache, or in redis with --redis.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return c.runServe(cmd.Context(), addr, noCache, redisURL, mongoURI, storeDir)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", c.Config.Serve.Addr, "listen address")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable layout caching")
	cmd.Flags().StringVar(&redisURL, "redis", c.Config.Cache.Redis, "redis cache URL (redis://host:port/db)")
	cmd.Flags().StringVar(&mongoURI, "mongo", "", "MongoDB URI for document storage")
	cmd.Flags().StringVar(&storeDir, "store-dir", "", "directory for file-based document storage")

	return cmd
}

// runServe builds the server dependencies and blocks until ctx is cancelled.
func (c *CLI) runServe(ctx context.Context, addr string, noCache bool, redisURL, mongoURI, storeDir string) error {
	layoutCache, err := c.newServeCache(ctx, noCache, redisURL)
	if err != nil {
		return fmt.Errorf("initialize cache: %w", err)
	}
	runner := pipeline.NewRunner(layoutCache, nil, c.Logger)
	defer runner.Close()

	store, err := newDocumentStore(ctx, mongoURI, storeDir)
	if err != nil {
		return fmt.Errorf("initialize storage: %w", err)
	}
	defer store.Close(context.Background())

	srv := &http.Server{
		Addr:              addr,
		Handler:           newRouter(runner, store, c.Logger),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		c.Logger.Info("listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutdown: %w", err)
		}
		return nil
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	}
}

// newServeCache prefers redis when a URL is configured and falls back to the
// local file cache.
func (c *CLI) newServeCache(ctx context.Context, noCache bool, redisURL string) (cache.Cache, error) {
	if noCache || c.Config.Cache.Disable {
		return cache.NewNullCache(), nil
	}
	if redisURL != "" {
		return cache.NewRedisCache(ctx, redisURL)
	}
	return c.newCache(false)
}

// newDocumentStore selects MongoDB or file-backed document storage.
func newDocumentStore(ctx context.Context, mongoURI, storeDir string) (storage.Store, error) {
	if mongoURI != "" {
		return storage.NewMongoStore(ctx, mongoURI, appName)
	}
	return storage.NewFileStore(storeDir, storage.FileStoreOptions{Backups: true})
}

// =============================================================================
// Router
// =============================================================================

// server bundles the handler dependencies.
type server struct {
	runner *pipeline.Runner
	store  storage.Store
	logger *log.Logger
}

// newRouter wires the chi router for the layout API.
func newRouter(runner *pipeline.Runner, store storage.Store, logger *log.Logger) http.Handler {
	s := &server{runner: runner, store: store, logger: logger}

	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)

	r.Get("/healthz", s.health)
	r.Post("/v1/layout", s.computeLayout)
	r.Route("/v1/documents", func(r chi.Router) {
		r.Get("/", s.listDocuments)
		r.Put("/{name}", s.saveDocument)
		r.Get("/{name}", s.loadDocument)
		r.Delete("/{name}", s.deleteDocument)
	})

	return r
}

func (s *server) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// layoutRequest is the POST /v1/layout body.
type layoutRequest struct {
	Document  format.Document `json:"document"`
	Algorithm string          `json:"algorithm,omitempty"`
	Config    *layout.Config  `json:"config,omitempty"`
	Refresh   bool            `json:"refresh,omitempty"`
}

// layoutResponse is the POST /v1/layout reply.
type layoutResponse struct {
	Positions  map[string][2]float64 `json:"positions"`
	Bounds     [4]float64            `json:"bounds"` // min x, min y, max x, max y
	Iterations int                   `json:"iterations,omitempty"`
	Converged  bool                  `json:"converged,omitempty"`
	DurationMS int64                 `json:"duration_ms"`
	CacheHit   bool                  `json:"cache_hit"`
}

func (s *server) computeLayout(w http.ResponseWriter, r *http.Request) {
	var req layoutRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, mgerrors.Wrap(mgerrors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}

	g, err := format.ToGraph(req.Document, format.RoundTripOptions())
	if err != nil {
		writeError(w, err)
		return
	}

	opts := pipeline.Options{
		Algorithm: layout.Algorithm(req.Algorithm),
		Refresh:   req.Refresh,
		Logger:    s.logger,
	}
	if req.Config != nil {
		opts.Layout = *req.Config
	}
	if err := opts.ValidateForLayout(); err != nil {
		writeError(w, err)
		return
	}

	result, hit, err := s.runner.ComputeLayoutWithCacheInfo(r.Context(), g, opts)
	if err != nil {
		writeError(w, err)
		return
	}

	resp := layoutResponse{
		Positions:  make(map[string][2]float64, len(result.Positions)),
		Bounds:     [4]float64{result.Bounds.MinX, result.Bounds.MinY, result.Bounds.MaxX, result.Bounds.MaxY},
		Iterations: result.Iterations,
		Converged:  result.Converged,
		DurationMS: result.Duration.Milliseconds(),
		CacheHit:   hit,
	}
	for id, pos := range result.Positions {
		resp.Positions[string(id)] = [2]float64{pos.X, pos.Y}
	}
	writeJSON(w, http.StatusOK, resp)
}

func (s *server) listDocuments(w http.ResponseWriter, r *http.Request) {
	infos, err := s.store.List(r.Context())
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *server) saveDocument(w http.ResponseWriter, r *http.Request) {
	var doc format.Document
	if err := json.NewDecoder(r.Body).Decode(&doc); err != nil {
		writeError(w, mgerrors.Wrap(mgerrors.ErrCodeInvalidFormat, err, "decode request body"))
		return
	}

	// Reject documents that do not decode into a valid graph.
	if _, err := format.ToGraph(doc, format.RoundTripOptions()); err != nil {
		writeError(w, err)
		return
	}

	name := chi.URLParam(r, "name")
	if err := s.store.Save(r.Context(), name, doc); err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"name": name})
}

func (s *server) loadDocument(w http.ResponseWriter, r *http.Request) {
	doc, err := s.store.Load(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

func (s *server) deleteDocument(w http.ResponseWriter, r *http.Request) {
	if err := s.store.Delete(r.Context(), chi.URLParam(r, "name")); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// =============================================================================
// Response Helpers
// =============================================================================

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError maps structured error codes to HTTP statuses.
func writeError(w http.ResponseWriter, err error) {
	code := mgerrors.GetCode(err)

	status := http.StatusInternalServerError
	switch code {
	case mgerrors.ErrCodeNodeNotFound, mgerrors.ErrCodeEdgeNotFound,
		mgerrors.ErrCodeFileNotFound, mgerrors.ErrCodeDocumentNotFound:
		status = http.StatusNotFound
	case mgerrors.ErrCodeInvalidOperation, mgerrors.ErrCodeInvalidFormat,
		mgerrors.ErrCodeInvalidPath, mgerrors.ErrCodeDuplicateID:
		status = http.StatusBadRequest
	case mgerrors.ErrCodeUnsupported:
		status = http.StatusUnsupportedMediaType
	}

	writeJSON(w, status, map[string]string{
		"code":  string(code),
		"error": mgerrors.UserMessage(err),
	})
}
