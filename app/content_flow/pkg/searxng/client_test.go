package searxng

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/search"
)

func TestClient_Search(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/search" {
			t.Errorf("path = %q, want /search", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("q") != "fintech" || q.Get("format") != "json" || q.Get("categories") != "news" {
			t.Errorf("query = %v", q)
		}
		_, _ = w.Write([]byte(`{"query":"fintech","results":[
			{"title":"one","url":"https://1.example","content":"c1","engine":"bing"},
			{"title":"two","url":"https://2.example","content":"c2","engine":"ddg"},
			{"title":"three","url":"https://3.example","content":"c3","engine":"ddg"}]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, 5).Search(context.Background(), &search.Request{Query: "fintech", Topic: "news", MaxResults: 2})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("len(results) = %d, want 2", len(resp.Results))
	}
	if resp.Results[0].Source != "bing" || resp.Results[1].Title != "two" {
		t.Errorf("results = %+v", resp.Results)
	}
}

func TestClient_SearchErrorStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, 0).Search(context.Background(), &search.Request{Query: "x"}); err == nil {
		t.Fatal("Search() expected error")
	}
}

func TestClient_SearchMergesDuplicates(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("time_range"); got != "" {
			t.Errorf("time_range = %q, want empty for general search", got)
		}
		_, _ = w.Write([]byte(`{"query":"bi","results":[
			{"title":"Semantic layers","url":"https://www.blog.example/post/","content":"c1","engine":"bing"},
			{"title":"Semantic layers","url":"https://blog.example/post","content":"c1","engine":"ddg"},
			{"title":"","url":"https://empty.example","content":""},
			{"title":"Metrics stores","url":"https://news.example/a","content":"c2","engines":[]}]}`))
	}))
	defer srv.Close()

	resp, err := NewClient(srv.URL, 5).Search(context.Background(), &search.Request{Query: "bi"})
	if err != nil {
		t.Fatalf("Search() error = %v", err)
	}
	if len(resp.Results) != 2 {
		t.Fatalf("len(results) = %d, want 2: %+v", len(resp.Results), resp.Results)
	}
	if resp.Results[0].Source != "bing" {
		t.Errorf("Source = %q, want bing", resp.Results[0].Source)
	}
	if resp.Results[1].Source != "news.example" {
		t.Errorf("Source = %q, want host fallback", resp.Results[1].Source)
	}
}
