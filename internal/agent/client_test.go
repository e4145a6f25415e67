package agent

import (
	"context"
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/yungbote/linguabridge-backend/internal/platform/logger"
)

const testSecret = "0123456789abcdef0123456789abcdef" // 32 bytes

func testLogger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("test")
	if err != nil {
		t.Fatalf("logger: %v", err)
	}
	return log
}

func newTestClient(t *testing.T, baseURL string) Client {
	t.Helper()
	c, err := New(testLogger(t), Config{BaseURL: baseURL, Secret: testSecret})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	return c
}

func TestNewRejectsShortSecret(t *testing.T) {
	_, err := New(testLogger(t), Config{BaseURL: "http://x", Secret: "too-short"})
	if err == nil {
		t.Fatal("expected error for short secret")
	}
}

func TestExecuteSignsBody(t *testing.T) {
	var gotSig string
	var gotBody []byte
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSig = r.Header.Get("X-Signature")
		gotBody, _ = io.ReadAll(r.Body)
		_ = json.NewEncoder(w).Encode(ExecuteResult{
			Output: json.RawMessage(`{"answer":"ok"}`),
			Usage:  TokenUsage{PromptTokens: 10, CompletionTokens: 5, TotalTokens: 15},
		})
	}))
	defer srv.Close()

	res, err := newTestClient(t, srv.URL).Execute(context.Background(), ExecuteRequest{
		Prompt: PromptMessage{Kind: "question", Text: "what does this idiom mean"},
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if res.Usage.TotalTokens != 15 {
		t.Fatalf("usage not decoded: %+v", res.Usage)
	}

	if !strings.HasPrefix(gotSig, "sha256=") {
		t.Fatalf("signature header %q missing scheme prefix", gotSig)
	}
	mac := hmac.New(sha256.New, []byte(testSecret))
	mac.Write(gotBody)
	want := "sha256=" + hex.EncodeToString(mac.Sum(nil))
	if gotSig != want {
		t.Fatalf("signature mismatch:\n got %s\nwant %s", gotSig, want)
	}
	if !Verify(testSecret, gotSig, gotBody) {
		t.Fatal("Verify rejected a valid signature")
	}
	if Verify(testSecret, gotSig, append(gotBody, 'x')) {
		t.Fatal("Verify accepted a tampered body")
	}

	var wire struct {
		PromptMessage PromptMessage `json:"promptMessage"`
	}
	if err := json.Unmarshal(gotBody, &wire); err != nil {
		t.Fatalf("body shape: %v", err)
	}
	if wire.PromptMessage.Kind != "question" {
		t.Fatalf("prompt not wrapped in promptMessage envelope: %s", gotBody)
	}
}

func TestExecuteTracingHeaders(t *testing.T) {
	var gotCid, gotRid string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotCid = r.Header.Get("X-Correlation-Id")
		gotRid = r.Header.Get("X-Request-Id")
		_ = json.NewEncoder(w).Encode(ExecuteResult{})
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Execute(context.Background(), ExecuteRequest{
		Prompt:        PromptMessage{Kind: "question"},
		CorrelationID: "session-7",
		RequestID:     "turn-42",
	})
	if err != nil {
		t.Fatalf("execute: %v", err)
	}
	if gotCid != "session-7" {
		t.Fatalf("correlation id %q", gotCid)
	}
	if gotRid != "turn-42" {
		t.Fatalf("request id %q", gotRid)
	}
}

func TestExecuteRateLimited(t *testing.T) {
	for _, code := range []int{http.StatusTooManyRequests, http.StatusServiceUnavailable} {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(code)
		}))

		_, err := newTestClient(t, srv.URL).Execute(context.Background(), ExecuteRequest{
			Prompt: PromptMessage{Kind: "question"},
		})
		srv.Close()
		if err == nil {
			t.Fatalf("status %d: expected error", code)
		}
		if !IsRateLimited(err) {
			t.Fatalf("status %d: expected rate-limited error, got %v", code, err)
		}
	}
}

func TestExecuteRetriesServerError(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		if hits == 1 {
			http.Error(w, "transient", http.StatusBadGateway)
			return
		}
		_ = json.NewEncoder(w).Encode(ExecuteResult{Output: json.RawMessage(`{}`)})
	}))
	defer srv.Close()

	c, err := New(testLogger(t), Config{BaseURL: srv.URL, Secret: testSecret, MaxRetries: 1})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	if _, err := c.Execute(context.Background(), ExecuteRequest{Prompt: PromptMessage{Kind: "question"}}); err != nil {
		t.Fatalf("execute after retry: %v", err)
	}
	if hits != 2 {
		t.Fatalf("expected 2 attempts, got %d", hits)
	}
}

func TestExecuteDoesNotRetryRateLimit(t *testing.T) {
	var hits int
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		hits++
		w.WriteHeader(http.StatusTooManyRequests)
	}))
	defer srv.Close()

	c, err := New(testLogger(t), Config{BaseURL: srv.URL, Secret: testSecret, MaxRetries: 3})
	if err != nil {
		t.Fatalf("new client: %v", err)
	}
	_, err = c.Execute(context.Background(), ExecuteRequest{Prompt: PromptMessage{Kind: "question"}})
	if !IsRateLimited(err) {
		t.Fatalf("expected rate-limited error, got %v", err)
	}
	if hits != 1 {
		t.Fatalf("rate limit was retried: %d attempts", hits)
	}
}

func TestExecuteServerError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "boom", http.StatusInternalServerError)
	}))
	defer srv.Close()

	_, err := newTestClient(t, srv.URL).Execute(context.Background(), ExecuteRequest{
		Prompt: PromptMessage{Kind: "question"},
	})
	if err == nil {
		t.Fatal("expected error")
	}
	if IsRateLimited(err) {
		t.Fatal("500 misclassified as rate limit")
	}
	var he *HTTPError
	if !errors.As(err, &he) || he.StatusCode != http.StatusInternalServerError {
		t.Fatalf("unexpected error: %v", err)
	}
}
