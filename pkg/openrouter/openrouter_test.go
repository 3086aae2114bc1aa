package openrouter

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestAttributionHeaders(t *testing.T) {
	t.Parallel()

	headers := Config{SiteURL: " https://support.example.com ", SiteName: "Support"}.attributionHeaders()
	if headers["HTTP-Referer"] != "https://support.example.com" || headers["X-Title"] != "Support" {
		t.Fatalf("unexpected headers: %v", headers)
	}
	if got := (Config{}).attributionHeaders(); len(got) != 0 {
		t.Fatalf("expected no headers, got %v", got)
	}
}

func TestBaseURLDefault(t *testing.T) {
	t.Parallel()

	if got := (Config{}).baseURL(); got != DefaultBaseURL {
		t.Fatalf("baseURL() = %q", got)
	}
	if got := (Config{BaseURL: "http://localhost:8080/v1/"}).baseURL(); got != "http://localhost:8080/v1" {
		t.Fatalf("baseURL() = %q", got)
	}
}

func TestNewClientRequiresAPIKey(t *testing.T) {
	t.Parallel()

	if NewClient(Config{}) != nil {
		t.Fatal("expected nil client without an api key")
	}
}

func TestNewRequiresModel(t *testing.T) {
	t.Parallel()

	cfg := Config{APIKey: "k"}
	if _, err := cfg.New(context.Background()); err == nil {
		t.Fatal("expected an error without a model")
	}
}

func TestHeaderTransport(t *testing.T) {
	t.Parallel()

	var got http.Header
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		got = r.Header.Clone()
	}))
	t.Cleanup(server.Close)

	client := &http.Client{Transport: &headerTransport{
		headers: map[string]string{"X-Title": "Support"},
		next:    http.DefaultTransport,
	}}
	resp, err := client.Get(server.URL)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	resp.Body.Close()

	if got.Get("X-Title") != "Support" {
		t.Fatalf("X-Title = %q", got.Get("X-Title"))
	}
}
