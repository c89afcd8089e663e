package search

import "testing"

func TestDedupe(t *testing.T) {
	in := []Result{
		{Title: "a", URL: "https://www.example.com/post/"},
		{Title: "b", URL: "http://example.com/post#comments"},
		{Title: "c", URL: "https://example.com/post?id=2"},
		{Title: "d"},
		{Title: "e"},
		{Title: "f", URL: "https://other.example/x"},
	}

	got := Dedupe(in, 0)
	var titles []string
	for _, r := range got {
		titles = append(titles, r.Title)
	}
	want := []string{"a", "c", "d", "e", "f"}
	if len(titles) != len(want) {
		t.Fatalf("Dedupe() = %v, want %v", titles, want)
	}
	for i := range want {
		if titles[i] != want[i] {
			t.Errorf("Dedupe()[%d] = %q, want %q", i, titles[i], want[i])
		}
	}

	if n := len(Dedupe(in, 2)); n != 2 {
		t.Errorf("Dedupe(max=2) len = %d", n)
	}
}

func TestResult_Host(t *testing.T) {
	if got := (Result{URL: "https://www.Reddit.com/r/dataengineering"}).Host(); got != "reddit.com" {
		t.Errorf("Host() = %q", got)
	}
	if got := (Result{URL: "::bad"}).Host(); got != "" {
		t.Errorf("Host() = %q, want empty", got)
	}
}
