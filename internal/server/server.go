// Package server implements the Resident Server: a state machine holding
// the loaded ProjectIndex and DocCache warm in memory, serving search,
// semsearch, reload, and health over HTTP without re-reading disk on
// every request.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"projectindex/internal/config"
	"projectindex/internal/discover"
	"projectindex/internal/embed"
	"projectindex/internal/errs"
	"projectindex/internal/indexbuild"
	"projectindex/internal/lang"
	"projectindex/internal/model"
	"projectindex/internal/overview"
	"projectindex/internal/persist"
	"projectindex/internal/query"
	"projectindex/internal/semcache"
)

// State is the server's lifecycle state.
type State string

const (
	StateUninitialized State = "uninitialized"
	StateReady         State = "ready"
	StateReloading     State = "reloading"
)

// state is the mutex-guarded in-memory snapshot: the loaded index, the
// loaded semantic cache, and the lifecycle phase. Every mutation holds
// the write lock, so reload and incremental update calls never race on
// the snapshot a concurrent request is reading.
type state struct {
	mu     sync.RWMutex
	phase  State
	idx    *model.ProjectIndex
	cache  *model.DocCache
	router *lang.Router
	// semEngine holds the cache's vectors loaded into an in-memory
	// sqlite-vec database, rebuilt once per Init/Reload and reused across
	// every /semsearch request against the default embedding model — the
	// "repeated queries against the same loaded cache" scenario the pure-Go
	// cosine scan in semcache.Search isn't meant to optimize for.
	semEngine *semcache.Engine
}

// Srv is the resident server: HTTP handlers plus the mediated index state.
type Srv struct {
	cfg      *config.Config
	logger   *slog.Logger
	mux      *http.ServeMux
	httpSrv  *http.Server
	embedder *embed.Provider
	chat     *overview.Chat
	st       state
}

// New constructs a Srv bound to cfg.ProjectRoot, not yet initialized.
func New(cfg *config.Config, logger *slog.Logger) *Srv {
	s := &Srv{
		cfg:      cfg,
		logger:   logger,
		mux:      http.NewServeMux(),
		embedder: embed.Singleton(cfg.Embed.BaseURL, cfg.Embed.Model),
		chat:     overview.NewChat(cfg.Chat.BaseURL, cfg.Chat.Model),
	}
	s.st.phase = StateUninitialized
	s.st.router = lang.DefaultRouter()
	s.registerRoutes()
	s.httpSrv = &http.Server{
		Addr:         cfg.Addr(),
		Handler:      s.withMiddleware(s.mux),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Init loads the persisted index and cache, building them from scratch
// if either is absent, then transitions to ready.
func (s *Srv) Init(ctx context.Context) error {
	idx, ok, err := persist.LoadIndex(s.cfg.ProjectRoot)
	if err != nil {
		return err
	}
	if !ok {
		idx, err = s.fullBuild(ctx)
		if err != nil {
			return err
		}
	}

	cache, err := semcache.Sync(ctx, s.cfg.ProjectRoot, idx, s.embedder)
	if err != nil {
		s.logger.Warn("semantic cache sync failed, continuing without it", "error", err)
		cache = &model.DocCache{}
	}
	engine := s.openSemEngine(cache)

	s.st.mu.Lock()
	s.st.idx = idx
	s.st.cache = cache
	s.closeSemEngineLocked()
	s.st.semEngine = engine
	s.st.phase = StateReady
	s.st.mu.Unlock()
	return nil
}

// openSemEngine loads cache into a fresh in-memory sqlite-vec database, or
// returns nil if the cache is empty — callers fall back to the per-query
// pure-Go cosine scan in that case.
func (s *Srv) openSemEngine(cache *model.DocCache) *semcache.Engine {
	if cache == nil || len(cache.Entries) == 0 {
		return nil
	}
	engine, err := semcache.Open(cache)
	if err != nil {
		s.logger.Warn("semantic search engine build failed, falling back to per-query scan", "error", err)
		return nil
	}
	return engine
}

// closeSemEngineLocked closes the current semantic engine, if any. Callers
// must hold s.st.mu for writing.
func (s *Srv) closeSemEngineLocked() {
	if s.st.semEngine != nil {
		s.st.semEngine.Close()
		s.st.semEngine = nil
	}
}

func (s *Srv) fullBuild(ctx context.Context) (*model.ProjectIndex, error) {
	entries, err := discover.Discover(s.cfg.ProjectRoot, discover.Options{
		Include:     s.cfg.IncludePatterns,
		Exclude:     s.cfg.ExcludePatterns,
		MaxFileSize: s.cfg.MaxFileSize,
	})
	if err != nil {
		return nil, err
	}
	idx := model.NewProjectIndex(s.cfg.ProjectRoot, time.Time{})
	builder := indexbuild.New(s.st.router)
	if _, err := builder.Build(ctx, s.cfg.ProjectRoot, entries, idx); err != nil {
		return nil, err
	}
	if err := persist.SaveIndex(s.cfg.ProjectRoot, idx); err != nil {
		return nil, err
	}
	return idx, nil
}

// Reload re-runs a full index build and cache sync, blocking reads from
// observing a half-updated snapshot by swapping the state only once the
// new build succeeds. On failure the previous snapshot remains live.
func (s *Srv) Reload(ctx context.Context) error {
	s.st.mu.Lock()
	s.st.phase = StateReloading
	s.st.mu.Unlock()

	idx, err := s.fullBuild(ctx)
	if err != nil {
		s.st.mu.Lock()
		s.st.phase = StateReady
		s.st.mu.Unlock()
		return err
	}
	cache, err := semcache.Sync(ctx, s.cfg.ProjectRoot, idx, s.embedder)
	if err != nil {
		s.logger.Warn("semantic cache sync failed during reload, continuing without it", "error", err)
		cache = &model.DocCache{}
	}
	engine := s.openSemEngine(cache)

	s.st.mu.Lock()
	s.st.idx = idx
	s.st.cache = cache
	s.closeSemEngineLocked()
	s.st.semEngine = engine
	s.st.phase = StateReady
	s.st.mu.Unlock()
	return nil
}

func (s *Srv) snapshot() (*model.ProjectIndex, *model.DocCache, State) {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	return s.st.idx, s.st.cache, s.st.phase
}

func (s *Srv) semEngineSnapshot() *semcache.Engine {
	s.st.mu.RLock()
	defer s.st.mu.RUnlock()
	return s.st.semEngine
}

// ListenAndServe starts the HTTP listener; it blocks until the server is
// shut down or encounters a fatal error.
func (s *Srv) ListenAndServe() error {
	s.logger.Info("resident server listening", "addr", s.cfg.Addr())
	if err := s.httpSrv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("resident server: %w", err)
	}
	return nil
}

// Shutdown gracefully stops the HTTP listener and releases the semantic
// search engine's in-memory database.
func (s *Srv) Shutdown(ctx context.Context) error {
	err := s.httpSrv.Shutdown(ctx)
	s.st.mu.Lock()
	s.closeSemEngineLocked()
	s.st.mu.Unlock()
	return err
}

func (s *Srv) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/search", s.handleSearch)
	s.mux.HandleFunc("/semsearch", s.handleSemSearch)
	s.mux.HandleFunc("/reload", s.handleReload)
	s.mux.HandleFunc("/overview", s.handleOverview)
	s.mux.HandleFunc("/", s.handleNotFound)
}

func (s *Srv) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

func (s *Srv) handleNotFound(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
}

type searchRequest struct {
	Query string `json:"query"`
	Exact bool   `json:"exact"`
}

func (s *Srv) handleSearch(w http.ResponseWriter, r *http.Request) {
	var req searchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query required"})
		return
	}
	if req.Query == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "query required"})
		return
	}
	idx, _, _ := s.snapshot()
	if idx == nil {
		writeErr(w, errs.New(errs.IndexMissing, "No index found"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   req.Query,
		"results": query.Search(idx, req.Query, req.Exact),
	})
}

type semSearchRequest struct {
	Query string `json:"query"`
	K     int    `json:"k"`
	Model string `json:"model"`
}

func (s *Srv) handleSemSearch(w http.ResponseWriter, r *http.Request) {
	var req semSearchRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	_, cache, _ := s.snapshot()
	embedder := s.embedder
	usingDefaultModel := req.Model == "" || req.Model == embedder.Model()
	if !usingDefaultModel {
		embedder = embed.Singleton(s.cfg.Embed.BaseURL, req.Model)
	}

	// The loaded semantic engine's vectors were embedded with the default
	// model; a request naming a different one can't be scored against it,
	// so it falls back to the pure-Go cosine scan in semcache.Search.
	if engine := s.semEngineSnapshot(); usingDefaultModel && engine != nil {
		results, err := s.searchWithEngine(r.Context(), engine, req.Query, req.K, embedder)
		if err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"query":   req.Query,
			"results": results,
		})
		return
	}

	results, err := semcache.Search(r.Context(), cache, req.Query, req.K, embedder)
	if err != nil {
		writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"query":   req.Query,
		"results": results,
	})
}

// searchWithEngine embeds query once and scores it against the server's
// warm in-memory sqlite-vec engine, avoiding a full cache reload per
// request — the repeated-query path sqlite-vec is wired in for.
func (s *Srv) searchWithEngine(ctx context.Context, engine *semcache.Engine, queryText string, k int, embedder semcache.Embedder) ([]semcache.Result, error) {
	if k <= 0 {
		k = semcache.DefaultTopK
	}
	vecs, err := embedder.Embed(ctx, []string{queryText})
	if err != nil {
		return nil, err
	}
	if len(vecs) == 0 {
		return nil, fmt.Errorf("embedder returned no vector for query")
	}
	matches, err := engine.Search(vecs[0], k)
	if err != nil {
		return nil, err
	}
	results := make([]semcache.Result, len(matches))
	for i, m := range matches {
		results[i] = semcache.Result{
			ID:    m.Entry.ID,
			File:  m.Entry.File,
			Line:  m.Entry.Line,
			Score: 1 - m.Distance,
		}
	}
	return results, nil
}

func (s *Srv) handleReload(w http.ResponseWriter, r *http.Request) {
	if err := s.Reload(r.Context()); err != nil {
		writeErr(w, err)
		return
	}
	idx, cache, _ := s.snapshot()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"status": "reloaded",
		"files":  len(idx.Files),
		"vectors": len(cache.Vectors),
	})
}

// handleOverview serves the persisted architecture overview on GET, or
// regenerates it from the current in-memory index on POST. With no
// in-memory index POST answers 404; a synthesis failure (chat backend
// unreachable) answers 500. Neither touches the persisted copy, per the
// policy that semantic enrichment failures never affect structural state.
func (s *Srv) handleOverview(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodPost:
		idx, _, _ := s.snapshot()
		if idx == nil {
			writeErr(w, errs.New(errs.IndexMissing, "No index found"))
			return
		}
		md, err := overview.Synthesize(r.Context(), idx, s.chat)
		if err != nil {
			writeErr(w, err)
			return
		}
		if err := persist.SaveOverview(s.cfg.ProjectRoot, md); err != nil {
			writeErr(w, err)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"overview": md})
	default:
		md, ok, err := persist.LoadOverview(s.cfg.ProjectRoot)
		if err != nil {
			writeErr(w, err)
			return
		}
		if !ok {
			writeErr(w, errs.New(errs.IndexMissing, "No overview found"))
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"overview": md})
	}
}

// writeErr responds with err's message at the status errs.HTTPStatus maps
// its Kind to, or 500 if err isn't one of the typed errors.
func writeErr(w http.ResponseWriter, err error) {
	var typed *errs.Error
	status := http.StatusInternalServerError
	if errors.As(err, &typed) {
		status = errs.HTTPStatus(typed.Kind)
	}
	writeJSON(w, status, map[string]string{"error": err.Error()})
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body)
}
