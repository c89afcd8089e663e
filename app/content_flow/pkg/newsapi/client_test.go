package newsapi

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/search"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v2/everything" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if r.Header.Get("X-Api-Key") != "news-key" {
			t.Errorf("X-Api-Key = %q", r.Header.Get("X-Api-Key"))
		}
		q := r.URL.Query()
		want := map[string]string{
			"q":        "cloud security",
			"language": "en",
			"from":     "2026-02-22",
			"to":       "2026-03-01",
			"sortBy":   "relevancy",
			"pageSize": "5",
		}
		for k, v := range want {
			if q.Get(k) != v {
				t.Errorf("query %s = %q, want %q", k, q.Get(k), v)
			}
		}
		_, _ = w.Write([]byte(`{"status":"ok","totalResults":1,"articles":[
			{"source":{"name":"Wired"},"title":"Zero trust goes mainstream","description":"desc","url":"https://w.example/z","publishedAt":"2026-02-28T10:00:00Z"}]}`))
	}))
	defer srv.Close()

	c := NewClient("news-key", srv.URL)
	c.now = func() time.Time { return time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC) }

	resp, err := c.Search(context.Background(), &search.Request{Query: "cloud security"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(resp.Results))
	}
	r := resp.Results[0]
	if r.Source != "Wired" || r.Content != "desc" || r.Title != "Zero trust goes mainstream" {
		t.Errorf("result = %+v", r)
	}
}

func TestClient_SearchAPIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_, _ = w.Write([]byte(`{"status":"error","code":"apiKeyInvalid","message":"Your API key is invalid."}`))
	}))
	defer srv.Close()

	_, err := NewClient("bad", srv.URL).Search(context.Background(), &search.Request{Query: "x"})
	if err == nil || !strings.Contains(err.Error(), "apiKeyInvalid") {
		t.Errorf("Search() error = %v, want apiKeyInvalid", err)
	}
}
