package blobstore

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestClient_Fetch(t *testing.T) {
	var gotPath, gotAuth, gotAlt string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.EscapedPath()
		gotAuth = r.Header.Get("Authorization")
		gotAlt = r.URL.Query().Get("alt")
		w.Write([]byte("ISA*00~"))
	}))
	defer srv.Close()

	c := NewClient(srv.URL+"/", "tok", 0)
	defer c.Close()

	data, err := c.Fetch(context.Background(), "inbound", "2023/po.edi")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "ISA*00~" {
		t.Errorf("unexpected body %q", data)
	}
	if gotPath != "/storage/v1/b/inbound/o/2023%2Fpo.edi" {
		t.Errorf("unexpected path %q", gotPath)
	}
	if gotAuth != "Bearer tok" {
		t.Errorf("unexpected auth %q", gotAuth)
	}
	if gotAlt != "media" {
		t.Errorf("expected alt=media, got %q", gotAlt)
	}
}

func TestClient_FetchStatuses(t *testing.T) {
	tests := []struct {
		name      string
		status    int
		notFound  bool
		retryable bool
	}{
		{"not found", http.StatusNotFound, true, false},
		{"rate limited", http.StatusTooManyRequests, false, true},
		{"server error", http.StatusBadGateway, false, true},
		{"forbidden", http.StatusForbidden, false, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				http.Error(w, "nope", tt.status)
			}))
			defer srv.Close()

			_, err := NewClient(srv.URL, "", 0).Fetch(context.Background(), "b", "f.edi")
			if err == nil {
				t.Fatal("expected error")
			}
			if got := errors.Is(err, ErrNotFound); got != tt.notFound {
				t.Errorf("ErrNotFound = %v, want %v (%v)", got, tt.notFound, err)
			}
			var re *RetryableError
			if got := errors.As(err, &re); got != tt.retryable {
				t.Errorf("retryable = %v, want %v (%v)", got, tt.retryable, err)
			}
		})
	}
}

func TestClient_FetchTooLarge(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("0123456789"))
	}))
	defer srv.Close()

	if _, err := NewClient(srv.URL, "", 5).Fetch(context.Background(), "b", "f.edi"); err == nil {
		t.Error("expected size limit error")
	}
}

func TestClient_FetchRequiresName(t *testing.T) {
	if _, err := NewClient("http://unused", "", 0).Fetch(context.Background(), "b", ""); err == nil {
		t.Error("expected error for empty name")
	}
}

func TestDirProvider(t *testing.T) {
	root := t.TempDir()
	if err := os.MkdirAll(filepath.Join(root, "inbound", "2023"), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(root, "inbound", "2023", "po.edi"), []byte("ST*850~"), 0o644); err != nil {
		t.Fatal(err)
	}
	p := NewDirProvider(root)
	ctx := context.Background()

	data, err := p.Fetch(ctx, "inbound", "2023/po.edi")
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if string(data) != "ST*850~" {
		t.Errorf("unexpected content %q", data)
	}

	if _, err := p.Fetch(ctx, "inbound", "missing.edi"); !errors.Is(err, ErrNotFound) {
		t.Errorf("expected ErrNotFound, got %v", err)
	}
	if _, err := p.Fetch(ctx, "inbound", "../../etc/passwd"); err == nil || errors.Is(err, ErrNotFound) {
		t.Errorf("expected traversal rejection, got %v", err)
	}
}

func TestRetryableError(t *testing.T) {
	err := &RetryableError{StatusCode: 503, Message: "down"}
	if !err.Retryable() {
		t.Error("expected Retryable")
	}
	if err.Error() != "retryable error (status 503): down" {
		t.Errorf("unexpected message %q", err.Error())
	}
}
