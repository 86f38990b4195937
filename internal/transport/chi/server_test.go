package chi

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/topsearch/topsearch/internal/domain"
	"github.com/topsearch/topsearch/internal/index"
	articleuc "github.com/topsearch/topsearch/internal/usecase/article"
	healthuc "github.com/topsearch/topsearch/internal/usecase/health"
	searchuc "github.com/topsearch/topsearch/internal/usecase/search"
)

// mockRepo backs both the article service and the search article source.
type mockRepo struct {
	putFn             func(ctx context.Context, collectionName string, a domain.Article) (bool, error)
	getFn             func(ctx context.Context, collectionName, id string) (domain.Article, error)
	deleteFn          func(ctx context.Context, collectionName, id string) error
	deleteCollFn      func(ctx context.Context, collectionName string) error
	listFn            func(ctx context.Context, collectionName string, pr domain.PublishedRange) ([]domain.Article, error)
	listCollectionsFn func(ctx context.Context) ([]string, error)
}

func (m *mockRepo) Put(ctx context.Context, collectionName string, a domain.Article) (bool, error) {
	if m.putFn != nil {
		return m.putFn(ctx, collectionName, a)
	}
	return true, nil
}

func (m *mockRepo) Get(ctx context.Context, collectionName, id string) (domain.Article, error) {
	if m.getFn != nil {
		return m.getFn(ctx, collectionName, id)
	}
	return domain.Article{}, domain.ErrNotFound
}

func (m *mockRepo) Delete(ctx context.Context, collectionName, id string) error {
	if m.deleteFn != nil {
		return m.deleteFn(ctx, collectionName, id)
	}
	return domain.ErrNotFound
}

func (m *mockRepo) DeleteCollection(ctx context.Context, collectionName string) error {
	if m.deleteCollFn != nil {
		return m.deleteCollFn(ctx, collectionName)
	}
	return domain.ErrNotFound
}

func (m *mockRepo) List(ctx context.Context, collectionName string, pr domain.PublishedRange) (
	[]domain.Article, error,
) {
	if m.listFn != nil {
		return m.listFn(ctx, collectionName, pr)
	}
	return nil, nil
}

func (m *mockRepo) ListCollections(ctx context.Context) ([]string, error) {
	if m.listCollectionsFn != nil {
		return m.listCollectionsFn(ctx)
	}
	return nil, nil
}

type mockPinger struct{ err error }

func (m *mockPinger) Ping(context.Context) error { return m.err }

func newTestRouter(t *testing.T, repo *mockRepo) (chi.Router, *index.Cache) {
	t.Helper()
	cache := index.NewCache(nil)
	srv := NewServer(
		articleuc.New(repo),
		searchuc.New(repo, cache),
		healthuc.New(&mockPinger{}, cache),
		zap.NewNop(),
	)
	r := chi.NewRouter()
	srv.Register(r)
	return r, cache
}

func doRequest(t *testing.T, r chi.Router, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, target, strings.NewReader(body))
	rec := httptest.NewRecorder()
	r.ServeHTTP(rec, req)
	return rec
}

func errorCode(t *testing.T, rec *httptest.ResponseRecorder) ErrorCode {
	t.Helper()
	var resp ErrorResponse
	if err := json.NewDecoder(rec.Body).Decode(&resp); err != nil {
		t.Fatalf("decode error body: %v", err)
	}
	return resp.Code
}

func searchCorpus() []domain.Article {
	return []domain.Article{
		{ID: "t1", Title: "the quick fox", Published: "2020-01-01"},
		{ID: "t2", Title: "the lazy fox", Published: "2020-01-02"},
		{ID: "t3", Title: "quick dog", Published: "2020-01-03"},
	}
}

func TestListArticles_MalformedYear(t *testing.T) {
	r, _ := newTestRouter(t, &mockRepo{})

	rec := doRequest(t, r, http.MethodGet, "/collections/physics/articles?year=abc", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := errorCode(t, rec); code != CodeInvalidYear {
		t.Errorf("code = %q, want %q", code, CodeInvalidYear)
	}
}

func TestListArticles_YearOutOfRange(t *testing.T) {
	r, _ := newTestRouter(t, &mockRepo{})

	rec := doRequest(t, r, http.MethodGet, "/collections/physics/articles?year=0", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
}

func TestListArticles_EmptyIsNotFound(t *testing.T) {
	r, _ := newTestRouter(t, &mockRepo{})

	rec := doRequest(t, r, http.MethodGet, "/collections/physics/articles?year=2020", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestListArticles_OK(t *testing.T) {
	repo := &mockRepo{
		listFn: func(_ context.Context, _ string, pr domain.PublishedRange) ([]domain.Article, error) {
			if !pr.HasFrom || !pr.HasTo {
				t.Error("expected a bounded range for year=2020")
			}
			return searchCorpus(), nil
		},
	}
	r, _ := newTestRouter(t, repo)

	rec := doRequest(t, r, http.MethodGet, "/collections/physics/articles?year=2020", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got []domain.Article
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got) != 3 {
		t.Errorf("len = %d, want 3", len(got))
	}
}

func TestGetCollection_EmptyIsOK(t *testing.T) {
	r, _ := newTestRouter(t, &mockRepo{})

	rec := doRequest(t, r, http.MethodGet, "/collections/physics", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if body := strings.TrimSpace(rec.Body.String()); body != "[]" {
		t.Errorf("body = %q, want []", body)
	}
}

func TestGetArticle_Missing(t *testing.T) {
	r, _ := newTestRouter(t, &mockRepo{})

	rec := doRequest(t, r, http.MethodGet, "/collections/physics/articles/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
	if code := errorCode(t, rec); code != CodeNotFound {
		t.Errorf("code = %q, want %q", code, CodeNotFound)
	}
}

func TestGetArticle_OK(t *testing.T) {
	repo := &mockRepo{
		getFn: func(_ context.Context, _, id string) (domain.Article, error) {
			return domain.Article{ID: id, Title: "On light", Published: "2021-03-04"}, nil
		},
	}
	r, _ := newTestRouter(t, repo)

	rec := doRequest(t, r, http.MethodGet, "/collections/physics/articles/a1", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	var got domain.Article
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if got.ID != "a1" || got.Title != "On light" {
		t.Errorf("article = %+v", got)
	}
}

func TestPutArticle_Created(t *testing.T) {
	repo := &mockRepo{
		putFn: func(_ context.Context, _ string, a domain.Article) (bool, error) {
			if a.ID != "a1" {
				t.Errorf("id = %q, want a1 from the URL", a.ID)
			}
			return true, nil
		},
	}
	r, _ := newTestRouter(t, repo)

	body := `{"title":"On light","published":"2021-03-04"}`
	rec := doRequest(t, r, http.MethodPut, "/collections/physics/articles/a1", body)
	if rec.Code != http.StatusCreated {
		t.Fatalf("status = %d, want 201", rec.Code)
	}
}

func TestPutArticle_Update(t *testing.T) {
	repo := &mockRepo{
		putFn: func(_ context.Context, _ string, _ domain.Article) (bool, error) {
			return false, nil
		},
	}
	r, _ := newTestRouter(t, repo)

	body := `{"title":"On light","published":"2021-03-04"}`
	rec := doRequest(t, r, http.MethodPut, "/collections/physics/articles/a1", body)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
}

func TestPutArticle_InvalidBody(t *testing.T) {
	r, _ := newTestRouter(t, &mockRepo{})

	rec := doRequest(t, r, http.MethodPut, "/collections/physics/articles/a1", "{not json")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := errorCode(t, rec); code != CodeBadRequest {
		t.Errorf("code = %q, want %q", code, CodeBadRequest)
	}
}

func TestPutArticle_ValidationFailure(t *testing.T) {
	r, _ := newTestRouter(t, &mockRepo{})

	rec := doRequest(t, r, http.MethodPut, "/collections/physics/articles/a1",
		`{"published":"2021-03-04"}`)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := errorCode(t, rec); code != CodeInvalidArticle {
		t.Errorf("code = %q, want %q", code, CodeInvalidArticle)
	}
}

func TestDeleteArticle(t *testing.T) {
	repo := &mockRepo{
		deleteFn: func(_ context.Context, _, id string) error {
			if id != "a1" {
				t.Errorf("id = %q, want a1", id)
			}
			return nil
		},
	}
	r, _ := newTestRouter(t, repo)

	rec := doRequest(t, r, http.MethodDelete, "/collections/physics/articles/a1", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestDeleteArticle_Missing(t *testing.T) {
	r, _ := newTestRouter(t, &mockRepo{})

	rec := doRequest(t, r, http.MethodDelete, "/collections/physics/articles/nope", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestDeleteCollection(t *testing.T) {
	repo := &mockRepo{
		deleteCollFn: func(_ context.Context, name string) error {
			if name != "physics" {
				t.Errorf("name = %q, want physics", name)
			}
			return nil
		},
	}
	r, _ := newTestRouter(t, repo)

	rec := doRequest(t, r, http.MethodDelete, "/collections/physics", "")
	if rec.Code != http.StatusNoContent {
		t.Fatalf("status = %d, want 204", rec.Code)
	}
}

func TestDeleteCollection_Missing(t *testing.T) {
	r, _ := newTestRouter(t, &mockRepo{})

	rec := doRequest(t, r, http.MethodDelete, "/collections/unseen", "")
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d, want 404", rec.Code)
	}
}

func TestSearch_BlankQuery(t *testing.T) {
	r, _ := newTestRouter(t, &mockRepo{})

	rec := doRequest(t, r, http.MethodGet, "/collections/physics/search?query_string=++", "")
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", rec.Code)
	}
	if code := errorCode(t, rec); code != CodeInvalidQuery {
		t.Errorf("code = %q, want %q", code, CodeInvalidQuery)
	}
}

func TestSearch_EmptyCollectionUnavailable(t *testing.T) {
	r, _ := newTestRouter(t, &mockRepo{})

	rec := doRequest(t, r, http.MethodGet, "/collections/physics/search?query_string=fox", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", rec.Code)
	}
	if code := errorCode(t, rec); code != CodeIndexUnavailable {
		t.Errorf("code = %q, want %q", code, CodeIndexUnavailable)
	}
}

func TestSearch_NearestFirst(t *testing.T) {
	repo := &mockRepo{
		listFn: func(_ context.Context, _ string, _ domain.PublishedRange) ([]domain.Article, error) {
			return searchCorpus(), nil
		},
	}
	r, _ := newTestRouter(t, repo)

	rec := doRequest(t, r, http.MethodGet, "/collections/physics/search?query_string=quick+fox", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200 (body %s)", rec.Code, rec.Body.String())
	}
	var got []domain.Article
	if err := json.NewDecoder(rec.Body).Decode(&got); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got[0].ID != "t1" {
		t.Errorf("first result = %s, want t1", got[0].ID)
	}
}

func TestSearch_DataSourceError(t *testing.T) {
	repo := &mockRepo{
		listFn: func(_ context.Context, _ string, _ domain.PublishedRange) ([]domain.Article, error) {
			return nil, domain.ErrDataSource
		},
	}
	r, _ := newTestRouter(t, repo)

	rec := doRequest(t, r, http.MethodGet, "/collections/physics/search?query_string=fox", "")
	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", rec.Code)
	}
	if code := errorCode(t, rec); code != CodeDataSource {
		t.Errorf("code = %q, want %q", code, CodeDataSource)
	}
}

func TestHealth(t *testing.T) {
	r, _ := newTestRouter(t, &mockRepo{})

	rec := doRequest(t, r, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}

	cache := index.NewCache(nil)
	srv := NewServer(
		articleuc.New(&mockRepo{}),
		searchuc.New(&mockRepo{}, cache),
		healthuc.New(&mockPinger{err: errors.New("down")}, cache),
		zap.NewNop(),
	)
	router := chi.NewRouter()
	srv.Register(router)

	rec = doRequest(t, router, http.MethodGet, "/healthz", "")
	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("degraded status = %d, want 503", rec.Code)
	}
}

func TestDegenerateCorpusIsInternal(t *testing.T) {
	repo := &mockRepo{
		listFn: func(_ context.Context, _ string, _ domain.PublishedRange) ([]domain.Article, error) {
			return []domain.Article{{ID: "only", Title: "singleton", Published: "2020-01-01"}}, nil
		},
	}
	r, _ := newTestRouter(t, repo)

	rec := doRequest(t, r, http.MethodGet, "/collections/physics/search?query_string=singleton", "")
	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("status = %d, want 500", rec.Code)
	}
	if code := errorCode(t, rec); code != CodeInternal {
		t.Errorf("code = %q, want %q", code, CodeInternal)
	}
}
