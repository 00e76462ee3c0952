package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"marketlens/backend-go/internal/models"
)

func TestNewsMissingQuery(t *testing.T) {
	api := newTestAPI(testConfig("http://unused"))
	rec := httptest.NewRecorder()
	api.News(rec, httptest.NewRequest(http.MethodGet, "/api/news", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
	var body map[string]string
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if body["error"] != "Query parameter is required" {
		t.Fatalf("unexpected error message: %q", body["error"])
	}
}

func TestNewsSearch(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/everything" {
			t.Errorf("unexpected path %s", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "tesla" || q.Get("sortBy") != "publishedAt" || q.Get("apiKey") != "test-key" {
			t.Errorf("unexpected query: %v", q)
		}
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":2,"articles":[
			{"source":{"name":"Reuters"},"title":"Tesla expands","description":"d1","url":"https://example.com/1","publishedAt":"2026-08-30T10:00:00Z"},
			{"source":{"name":"Bloomberg"},"title":"Tesla earnings","description":"d2","url":"https://example.com/2","publishedAt":"2026-08-29T10:00:00Z"}
		]}`))
	}))
	defer srv.Close()

	api := newTestAPI(testConfig(srv.URL))
	rec := httptest.NewRecorder()
	api.News(rec, httptest.NewRequest(http.MethodGet, "/api/news?q=tesla&pageSize=10", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}
	var page models.NewsPageResponse
	if err := json.NewDecoder(rec.Body).Decode(&page); err != nil {
		t.Fatalf("decode failed: %v", err)
	}
	if page.Total != 2 || len(page.Articles) != 2 {
		t.Fatalf("unexpected page: %+v", page)
	}
	if page.Articles[0].Source != "Reuters" || page.Articles[0].Title != "Tesla expands" {
		t.Fatalf("unexpected first article: %+v", page.Articles[0])
	}
	if page.Query != "tesla" || page.PageSize != 10 {
		t.Fatalf("unexpected echo fields: %+v", page)
	}
}
