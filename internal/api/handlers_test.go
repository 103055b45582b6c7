package api

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/ppiankov/crosscheck/internal/model"
	"github.com/ppiankov/crosscheck/internal/orchestrate"
)

// fakeBackend serves the local-model generate API with a scripted reply
func fakeBackend(t *testing.T, reply string, status int) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/generate" {
			http.NotFound(w, r)
			return
		}
		if status != http.StatusOK {
			w.WriteHeader(status)
			return
		}
		_ = json.NewEncoder(w).Encode(map[string]interface{}{
			"model":    "test-model",
			"response": reply,
			"done":     true,
		})
	}))
}

func testServer(t *testing.T, backendURL string) *Server {
	t.Helper()

	cfg := model.DefaultConfig()
	cfg.Gateway.MinQuorum = 2
	cfg.Gateway.OverallTimeout = 5 * time.Second
	for _, id := range []string{"local-a", "local-b"} {
		cfg.Providers = append(cfg.Providers, model.ProviderConfig{
			ID:      id,
			Type:    "ollama",
			Model:   "test-model",
			BaseURL: backendURL,
			Timeout: 2 * time.Second,
		})
	}

	o, err := orchestrate.New(cfg)
	if err != nil {
		t.Fatalf("orchestrator: %v", err)
	}
	s, err := NewServer(o)
	if err != nil {
		t.Fatalf("server: %v", err)
	}
	return s
}

const goodReply = "VERDICT: supports\nCONFIDENCE: 0.9\nRATIONALE: Documented in public registries.\nCITATIONS:\n- https://registry.test/entry\n"

func TestHandleVerify_OK(t *testing.T) {
	backend := fakeBackend(t, goodReply, http.StatusOK)
	defer backend.Close()

	s := testServer(t, backend.URL)

	body := `{"claim_id": "claim-1", "claim_text": "The registry lists the entry"}`
	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/verify", strings.NewReader(body)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}

	var result model.VerificationResult
	if err := json.Unmarshal(rec.Body.Bytes(), &result); err != nil {
		t.Fatalf("decode result: %v", err)
	}
	if result.ClaimID != "claim-1" {
		t.Errorf("claim id: got %s", result.ClaimID)
	}
	if result.FinalVerdict != model.VerdictSupports {
		t.Errorf("verdict: got %s", result.FinalVerdict)
	}
	if len(result.EvidencePoints) != 2 {
		t.Errorf("expected 2 evidence points, got %d", len(result.EvidencePoints))
	}
}

func TestHandleVerify_GeneratesClaimID(t *testing.T) {
	backend := fakeBackend(t, goodReply, http.StatusOK)
	defer backend.Close()

	s := testServer(t, backend.URL)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/verify",
		strings.NewReader(`{"claim_text": "x"}`)))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var result model.VerificationResult
	_ = json.Unmarshal(rec.Body.Bytes(), &result)
	if result.ClaimID == "" {
		t.Error("omitted claim_id should be generated")
	}
}

func TestHandleVerify_BadRequests(t *testing.T) {
	backend := fakeBackend(t, goodReply, http.StatusOK)
	defer backend.Close()

	s := testServer(t, backend.URL)

	tests := []struct {
		name string
		body string
	}{
		{"invalid json", `{claim`},
		{"missing claim_text", `{"claim_id": "x"}`},
		{"blank claim_text", `{"claim_text": "   "}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/verify", strings.NewReader(tt.body)))

			if rec.Code != http.StatusBadRequest {
				t.Fatalf("status: got %d", rec.Code)
			}
			var resp map[string]string
			_ = json.Unmarshal(rec.Body.Bytes(), &resp)
			if resp["code"] != "INVALID_REQUEST" {
				t.Errorf("code: got %s", resp["code"])
			}
		})
	}
}

func TestHandleVerify_InsufficientEvidence(t *testing.T) {
	backend := fakeBackend(t, "", http.StatusInternalServerError)
	defer backend.Close()

	s := testServer(t, backend.URL)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/verify",
		strings.NewReader(`{"claim_text": "unverifiable"}`)))

	if rec.Code != http.StatusUnprocessableEntity {
		t.Fatalf("status: got %d, body %s", rec.Code, rec.Body.String())
	}
	var resp map[string]string
	_ = json.Unmarshal(rec.Body.Bytes(), &resp)
	if resp["code"] != "INSUFFICIENT_EVIDENCE" {
		t.Errorf("code: got %s", resp["code"])
	}
}

func TestHandleHealth(t *testing.T) {
	backend := fakeBackend(t, goodReply, http.StatusOK)
	defer backend.Close()

	s := testServer(t, backend.URL)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/health", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("status: got %d", rec.Code)
	}
	var resp struct {
		Status    string   `json:"status"`
		Providers []string `json:"providers"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatal(err)
	}
	if resp.Status != "ok" || len(resp.Providers) != 2 {
		t.Errorf("health: got %+v", resp)
	}
}

func TestMetricsEndpoint(t *testing.T) {
	backend := fakeBackend(t, goodReply, http.StatusOK)
	defer backend.Close()

	s := testServer(t, backend.URL)

	rec := httptest.NewRecorder()
	s.Router().ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/metrics", nil))
	if rec.Code != http.StatusOK {
		t.Errorf("metrics endpoint: got %d", rec.Code)
	}
}
