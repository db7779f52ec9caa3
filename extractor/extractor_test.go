package extractor

import (
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func TestExtractFlatResponse(t *testing.T) {
	var gotAuth string
	var gotBody extractRequest

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		body, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(body, &gotBody); err != nil {
			t.Errorf("Request body was not valid JSON: %v", err)
		}
		w.Write([]byte(`[{"entity_group":"MISC","word":"ibuprofen","score":0.98,"start":5,"end":14}]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "secret-token", 5*time.Second)

	spans, err := client.Extract(context.Background(), "take ibuprofen daily")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if len(spans) != 1 {
		t.Fatalf("Expected 1 span, got %d", len(spans))
	}
	if spans[0].Word != "ibuprofen" || spans[0].EntityGroup != "MISC" {
		t.Errorf("Unexpected span: %+v", spans[0])
	}

	if gotAuth != "Bearer secret-token" {
		t.Errorf("Authorization header = %q", gotAuth)
	}
	if gotBody.Inputs != "take ibuprofen daily" {
		t.Errorf("Request inputs = %q", gotBody.Inputs)
	}
	if gotBody.Parameters.AggregationStrategy != "simple" {
		t.Errorf("Aggregation strategy = %q", gotBody.Parameters.AggregationStrategy)
	}
}

func TestExtractNestedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`[[{"entity_group":"MISC","word":"aspirin"},{"entity_group":"LOC","word":"Paris"}]]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)

	spans, err := client.Extract(context.Background(), "aspirin in Paris")
	if err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if len(spans) != 2 {
		t.Fatalf("Expected 2 spans, got %d", len(spans))
	}
	if spans[0].Word != "aspirin" {
		t.Errorf("Unexpected first span: %+v", spans[0])
	}
}

func TestExtractNoAuthorizationWithoutToken(t *testing.T) {
	var gotAuth string

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		w.Write([]byte(`[]`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)
	if _, err := client.Extract(context.Background(), "text"); err != nil {
		t.Fatalf("Extract returned error: %v", err)
	}

	if gotAuth != "" {
		t.Errorf("Expected no Authorization header, got %q", gotAuth)
	}
}

func TestExtractNon200(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusServiceUnavailable)
		w.Write([]byte(`{"error":"model is loading"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)

	_, err := client.Extract(context.Background(), "text")
	if err == nil {
		t.Fatal("Expected an error for a 503 response")
	}
	if !strings.Contains(err.Error(), "503") {
		t.Errorf("Error should carry the status code, got %v", err)
	}
}

func TestExtractMalformedResponse(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":"unexpected"}`))
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)

	if _, err := client.Extract(context.Background(), "text"); err == nil {
		t.Fatal("Expected an error for an unrecognized response shape")
	}
}

func TestExtractContextCancellation(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		io.Copy(io.Discard, r.Body)
		<-r.Context().Done()
	}))
	defer server.Close()

	client := NewClient(server.URL, "", 5*time.Second)

	ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
	defer cancel()

	if _, err := client.Extract(ctx, "text"); err == nil {
		t.Fatal("Expected an error when the context expires")
	}
}

func TestNewClientDefaults(t *testing.T) {
	client := NewClient("", "", 0)

	if client.url != DefaultModelURL {
		t.Errorf("Empty URL should select the default model, got %q", client.url)
	}
	if client.httpClient.Timeout != 30*time.Second {
		t.Errorf("Zero timeout should fall back to 30s, got %v", client.httpClient.Timeout)
	}
}

func TestDecodeSpansEmptyBatch(t *testing.T) {
	spans, err := decodeSpans([]byte(`[[]]`))
	if err != nil {
		t.Fatalf("decodeSpans returned error: %v", err)
	}
	if len(spans) != 0 {
		t.Errorf("Expected no spans, got %v", spans)
	}
}
