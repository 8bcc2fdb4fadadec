package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"NewsDesk/internal/domain"
)

func TestAnnouncePublishedPostsMessage(t *testing.T) {
	t.Parallel()

	var gotPath, gotChat, gotText, gotMode string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if err := r.ParseForm(); err != nil {
			t.Errorf("parse form: %v", err)
		}
		gotPath = r.URL.Path
		gotChat = r.PostForm.Get("chat_id")
		gotText = r.PostForm.Get("text")
		gotMode = r.PostForm.Get("parse_mode")
		w.WriteHeader(http.StatusOK)
	}))
	defer srv.Close()

	n := NewNotifier("token123", "-100").WithAPIBase(srv.URL)
	err := n.AnnouncePublished(context.Background(), domain.Article{
		ID:       "a1",
		Title:    "Rates <held>",
		Headline: "Central bank pauses",
		Body:     "<p>The bank kept rates unchanged.</p>",
		Source:   "Wire",
	})
	if err != nil {
		t.Fatalf("announce: %v", err)
	}

	if gotPath != "/bottoken123/sendMessage" {
		t.Fatalf("unexpected path %q", gotPath)
	}
	if gotChat != "-100" || gotMode != "HTML" {
		t.Fatalf("unexpected form chat=%q mode=%q", gotChat, gotMode)
	}
	for _, want := range []string{"<b>Rates &lt;held&gt;</b>", "Central bank pauses", "The bank kept rates unchanged.", "Source: Wire"} {
		if !strings.Contains(gotText, want) {
			t.Fatalf("text %q missing %q", gotText, want)
		}
	}
}

func TestAnnouncePublishedReportsHTTPError(t *testing.T) {
	t.Parallel()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
	}))
	defer srv.Close()

	err := NewNotifier("t", "c").WithAPIBase(srv.URL).AnnouncePublished(context.Background(), domain.Article{Title: "x"})
	if err == nil || !strings.Contains(err.Error(), "400") {
		t.Fatalf("expected status error, got %v", err)
	}
}

func TestAnnouncePublishedMisconfigured(t *testing.T) {
	t.Parallel()

	if err := NewNotifier("", "").AnnouncePublished(context.Background(), domain.Article{}); err == nil {
		t.Fatal("expected misconfiguration error")
	}
}
