package server

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"site-audit/internal/audit"
)

type fakeRunner struct{}

func (f fakeRunner) CreateAudit(request AuditRequest, principal Principal, source string) (AuditMeta, error) {
	return AuditMeta{
		AuditID:     "aud_fake_admin",
		Status:      "queued",
		CreatorType: "admin",
		CreatorSub:  principal.Subject,
		Request:     request,
		CreatedAt:   nowRFC3339(),
	}, nil
}

func (f fakeRunner) CreatePublicAudit(request AuditRequest, ipHash, uaHash string) (AuditMeta, error) {
	return AuditMeta{
		AuditID:     "aud_fake_public",
		Status:      "queued",
		CreatorType: "public",
		Request:     request,
		CreatedAt:   nowRFC3339(),
	}, nil
}

func newTestAPI(t *testing.T) (*API, *MemoryFileStore) {
	t.Helper()
	store, err := NewMemoryFileStore("")
	if err != nil {
		t.Fatalf("NewMemoryFileStore: %v", err)
	}
	auth := NewAuth(nil, store, ServerConfig{
		Security: SecurityConfig{AdminToken: "secret-token"},
	})
	return NewAPI(auth, store, fakeRunner{}, nil), store
}

func TestRouterHealthz(t *testing.T) {
	api, _ := newTestAPI(t)
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	response, err := http.Get(server.URL + "/healthz")
	if err != nil {
		t.Fatalf("GET /healthz failed: %v", err)
	}
	defer response.Body.Close()
	if response.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", response.StatusCode)
	}
}

func TestRouterPublicAuditAccepted(t *testing.T) {
	api, _ := newTestAPI(t)
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	body, _ := json.Marshal(map[string]any{
		"website_url":  "https://example.com",
		"website_type": "e-commerce",
	})
	resp, err := http.Post(server.URL+"/api/v1/audits", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("public audit request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusAccepted {
		t.Fatalf("expected 202, got %d", resp.StatusCode)
	}
	var payload map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if payload["audit_id"] != "aud_fake_public" {
		t.Fatalf("unexpected audit_id: %v", payload["audit_id"])
	}
	if payload["status"] != "queued" {
		t.Fatalf("unexpected status: %v", payload["status"])
	}
}

func TestRouterAdminRequiresAuth(t *testing.T) {
	api, _ := newTestAPI(t)
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/admin/audits")
	if err != nil {
		t.Fatalf("admin list without auth failed: %v", err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", resp.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/v1/admin/audits", nil)
	req.Header.Set("X-Admin-Token", "secret-token")
	resp2, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("admin list with token failed: %v", err)
	}
	defer resp2.Body.Close()
	if resp2.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp2.StatusCode)
	}
}

func TestRouterGetAuditModes(t *testing.T) {
	api, store := newTestAPI(t)
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	report := audit.EvaluateAudit(audit.RawSignals{}, "website", audit.BusinessContext{
		WebsiteURL: "https://example.com",
	})
	meta := AuditMeta{
		AuditID:     "aud_view_1",
		Status:      "completed",
		CreatorType: "public",
		Request:     AuditRequest{WebsiteURL: "https://example.com", WebsiteType: "website"},
		CreatedAt:   nowRFC3339(),
		Report:      &report,
		Score:       report.Score,
		Grade:       string(report.Grade),
	}
	if err := store.CreateAudit(meta); err != nil {
		t.Fatalf("CreateAudit: %v", err)
	}

	resp, err := http.Get(server.URL + "/api/v1/audits/aud_view_1")
	if err != nil {
		t.Fatalf("client view request failed: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp.StatusCode)
	}
	var clientView map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&clientView); err != nil {
		t.Fatalf("decode client view: %v", err)
	}
	if _, exists := clientView["summary"]; !exists {
		t.Fatalf("client view missing summary")
	}
	raw, _ := json.Marshal(clientView)
	if bytes.Contains(raw, []byte("admin_summary")) {
		t.Fatalf("client view leaked the admin summary")
	}

	// admin mode without credentials is rejected
	resp2, err := http.Get(server.URL + "/api/v1/audits/aud_view_1?mode=admin")
	if err != nil {
		t.Fatalf("admin mode request failed: %v", err)
	}
	resp2.Body.Close()
	if resp2.StatusCode != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", resp2.StatusCode)
	}

	req, _ := http.NewRequest(http.MethodGet, server.URL+"/api/v1/audits/aud_view_1?mode=admin", nil)
	req.Header.Set("X-Admin-Token", "secret-token")
	resp3, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("admin mode with token failed: %v", err)
	}
	defer resp3.Body.Close()
	if resp3.StatusCode != http.StatusOK {
		t.Fatalf("expected 200, got %d", resp3.StatusCode)
	}
	var adminView AuditMeta
	if err := json.NewDecoder(resp3.Body).Decode(&adminView); err != nil {
		t.Fatalf("decode admin view: %v", err)
	}
	if adminView.Report == nil || adminView.Report.AdminSummary.ExecutiveSummary == "" {
		t.Fatalf("admin view missing admin summary")
	}
}

func TestRouterWebsiteTypes(t *testing.T) {
	api, _ := newTestAPI(t)
	server := httptest.NewServer(api.Handler())
	defer server.Close()

	resp, err := http.Get(server.URL + "/api/v1/website-types")
	if err != nil {
		t.Fatalf("website types request failed: %v", err)
	}
	defer resp.Body.Close()
	var payload struct {
		WebsiteTypes []websiteTypeInfo `json:"website_types"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(payload.WebsiteTypes) != len(audit.WebsiteTypes()) {
		t.Fatalf("expected %d types, got %d", len(audit.WebsiteTypes()), len(payload.WebsiteTypes))
	}
}
