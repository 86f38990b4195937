package chi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/topsearch/topsearch/internal/domain"
	articleuc "github.com/topsearch/topsearch/internal/usecase/article"
	healthuc "github.com/topsearch/topsearch/internal/usecase/health"
	searchuc "github.com/topsearch/topsearch/internal/usecase/search"
)

// ErrorCode is the machine-readable error discriminator in error bodies.
type ErrorCode string

// Error codes.
const (
	CodeBadRequest       ErrorCode = "bad_request"
	CodeInvalidYear      ErrorCode = "invalid_year"
	CodeInvalidQuery     ErrorCode = "invalid_query"
	CodeInvalidArticle   ErrorCode = "invalid_article"
	CodeNotFound         ErrorCode = "article_not_found"
	CodeIndexUnavailable ErrorCode = "index_unavailable"
	CodeDataSource       ErrorCode = "data_source_error"
	CodeInternal         ErrorCode = "internal_error"
)

// ErrorResponse is the JSON error body.
type ErrorResponse struct {
	Code    ErrorCode `json:"code"`
	Message string    `json:"message"`
}

// errorHandler tries to handle a domain error. Returns true if handled.
type errorHandler func(w http.ResponseWriter, err error, msg string) bool

// Server exposes the article and search use cases over HTTP.
type Server struct {
	articles      *articleuc.Service
	search        *searchuc.Service
	health        *healthuc.Service
	logger        *zap.Logger
	errorHandlers []errorHandler
}

// NewServer creates an HTTP API server.
func NewServer(
	articles *articleuc.Service,
	search *searchuc.Service,
	health *healthuc.Service,
	logger *zap.Logger,
) *Server {
	s := &Server{
		articles: articles,
		search:   search,
		health:   health,
		logger:   logger,
	}
	s.errorHandlers = []errorHandler{
		sentinelHandler(domain.ErrInvalidYear, http.StatusBadRequest, CodeInvalidYear),
		sentinelHandler(domain.ErrInvalidQuery, http.StatusBadRequest, CodeInvalidQuery),
		sentinelHandler(domain.ErrInvalidArticle, http.StatusBadRequest, CodeInvalidArticle),
		sentinelHandler(domain.ErrNotFound, http.StatusNotFound, CodeNotFound),
		sentinelHandler(domain.ErrIndexUnavailable, http.StatusServiceUnavailable, CodeIndexUnavailable),
		sentinelHandler(domain.ErrModelFitting, http.StatusInternalServerError, CodeInternal),
		sentinelHandler(domain.ErrDataSource, http.StatusBadGateway, CodeDataSource),
	}
	return s
}

// Register mounts all routes on the router.
func (s *Server) Register(r chi.Router) {
	r.Get("/collections", s.ListCollections)
	r.Get("/collections/{name}", s.GetCollection)
	r.Delete("/collections/{name}", s.DeleteCollection)
	r.Get("/collections/{name}/articles", s.ListArticles)
	r.Get("/collections/{name}/articles/{id}", s.GetArticle)
	r.Put("/collections/{name}/articles/{id}", s.PutArticle)
	r.Delete("/collections/{name}/articles/{id}", s.DeleteArticle)
	r.Get("/collections/{name}/search", s.SearchArticles)
	r.Get("/healthz", s.Health)
}

// ListArticles handles GET /collections/{name}/articles with year filters.
func (s *Server) ListArticles(w http.ResponseWriter, r *http.Request) {
	year, err := intQueryParam(r, "year")
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	startYear, err := intQueryParam(r, "start_year")
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	endYear, err := intQueryParam(r, "end_year")
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	articles, err := s.articles.List(r.Context(), chi.URLParam(r, "name"), year, startYear, endYear)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, articles)
}

// GetCollection handles GET /collections/{name}: the full listing.
func (s *Server) GetCollection(w http.ResponseWriter, r *http.Request) {
	articles, err := s.articles.ListAll(r.Context(), chi.URLParam(r, "name"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if articles == nil {
		articles = []domain.Article{}
	}
	writeJSON(w, http.StatusOK, articles)
}

// DeleteCollection handles DELETE /collections/{name}: wholesale removal.
// The similarity index cache is process-lifetime and keeps serving a deleted
// collection until restart, like any other stale index.
func (s *Server) DeleteCollection(w http.ResponseWriter, r *http.Request) {
	if err := s.articles.DeleteCollection(r.Context(), chi.URLParam(r, "name")); err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// ListCollections handles GET /collections.
func (s *Server) ListCollections(w http.ResponseWriter, r *http.Request) {
	names, err := s.articles.Collections(r.Context())
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	if names == nil {
		names = []string{}
	}
	writeJSON(w, http.StatusOK, names)
}

// GetArticle handles GET /collections/{name}/articles/{id}.
func (s *Server) GetArticle(w http.ResponseWriter, r *http.Request) {
	a, err := s.articles.Get(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, a)
}

// PutArticle handles PUT /collections/{name}/articles/{id}: article ingest.
func (s *Server) PutArticle(w http.ResponseWriter, r *http.Request) {
	var a domain.Article
	if err := json.NewDecoder(r.Body).Decode(&a); err != nil {
		writeError(w, http.StatusBadRequest, CodeBadRequest, "invalid request body: "+err.Error())
		return
	}
	a.ID = chi.URLParam(r, "id")

	created, err := s.articles.Put(r.Context(), chi.URLParam(r, "name"), a)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}

	status := http.StatusOK
	if created {
		status = http.StatusCreated
	}
	writeJSON(w, status, a)
}

// DeleteArticle handles DELETE /collections/{name}/articles/{id}.
func (s *Server) DeleteArticle(w http.ResponseWriter, r *http.Request) {
	err := s.articles.Delete(r.Context(), chi.URLParam(r, "name"), chi.URLParam(r, "id"))
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// SearchArticles handles GET /collections/{name}/search?query_string=.
func (s *Server) SearchArticles(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("query_string")

	results, err := s.search.Search(r.Context(), chi.URLParam(r, "name"), query)
	if err != nil {
		s.handleDomainError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, results)
}

// Health handles GET /healthz.
func (s *Server) Health(w http.ResponseWriter, r *http.Request) {
	report := s.health.Check(r.Context())

	status := http.StatusOK
	if report.Status != healthuc.Healthy {
		status = http.StatusServiceUnavailable
	}
	writeJSON(w, status, map[string]any{
		"status":         report.Status,
		"cached_indexes": report.CachedIndexes,
	})
}

// intQueryParam parses an optional integer query parameter; a present but
// malformed value is domain.ErrInvalidYear.
func intQueryParam(r *http.Request, name string) (*int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return nil, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return nil, domain.ErrInvalidYear
	}
	return &v, nil
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code ErrorCode, message string) {
	writeJSON(w, status, ErrorResponse{
		Code:    code,
		Message: message,
	})
}

func sentinelHandler(sentinel error, status int, code ErrorCode) errorHandler {
	return func(w http.ResponseWriter, err error, msg string) bool {
		if !errors.Is(err, sentinel) {
			return false
		}
		writeError(w, status, code, msg)
		return true
	}
}

func (s *Server) handleDomainError(w http.ResponseWriter, err error) {
	s.logger.Warn("domain error", zap.Error(err))
	msg := err.Error()
	for _, h := range s.errorHandlers {
		if h(w, err, msg) {
			return
		}
	}
	s.logger.Error("internal error", zap.Error(err))
	writeError(w, http.StatusInternalServerError, CodeInternal, "internal error")
}
