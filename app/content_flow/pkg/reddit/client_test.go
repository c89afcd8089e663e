package reddit

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/search"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search.json" {
			t.Errorf("path = %q", r.URL.Path)
		}
		if ua := r.Header.Get("User-Agent"); ua != "content_flow/test" {
			t.Errorf("User-Agent = %q", ua)
		}
		q := r.URL.Query()
		if q.Get("q") != "devops burnout" || q.Get("t") != "week" || q.Get("sort") != "relevance" || q.Get("limit") != "3" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(`{"kind":"Listing","data":{"children":[
			{"kind":"t3","data":{"title":"On-call is killing us","selftext":"long story","permalink":"/r/devops/comments/abc/","score":120,"num_comments":45,"subreddit":"devops","created_utc":1772323200}}]}}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, "content_flow/test").Search(context.Background(), &search.Request{Query: "devops burnout", MaxResults: 3})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 1 {
		t.Fatalf("len(results) = %d, want 1", len(resp.Results))
	}
	r := resp.Results[0]
	if r.Source != "r/devops" || r.Engagement != 165 || r.URL != srv.URL+"/r/devops/comments/abc/" {
		t.Errorf("result = %+v", r)
	}
	if r.PublishedDate != "2026-03-01" {
		t.Errorf("PublishedDate = %q, want 2026-03-01", r.PublishedDate)
	}
}

func TestClient_SearchBlocked(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusForbidden)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "ua").Search(context.Background(), &search.Request{Query: "x"}); err == nil {
		t.Fatal("Search() expected error for 403")
	}
}
