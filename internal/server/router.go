package server

import (
	"net"
	"net/http"
	"strings"

	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
)

type API struct {
	auth   *Auth
	store  Store
	runner AuditService
	obs    *Observability
}

func NewAPI(auth *Auth, store Store, runner AuditService, obs *Observability) *API {
	return &API{
		auth:   auth,
		store:  store,
		runner: runner,
		obs:    obs,
	}
}

func (a *API) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /healthz", a.handleHealthz)

	mux.HandleFunc("POST /api/v1/auth/login", a.auth.HandleLogin)
	mux.HandleFunc("POST /api/v1/auth/logout", a.auth.HandleLogout)
	mux.HandleFunc("GET /api/v1/auth/me", a.auth.HandleMe)

	mux.HandleFunc("POST /api/v1/audits", a.handleCreateAudit)
	mux.HandleFunc("GET /api/v1/audits/{id}", a.handleGetAudit)
	mux.HandleFunc("GET /api/v1/website-types", a.handleWebsiteTypes)

	mux.Handle("GET /api/v1/admin/audits", a.auth.RequireAdmin(http.HandlerFunc(a.handleAdminListAudits)))
	mux.Handle("DELETE /api/v1/admin/audits/{id}", a.auth.RequireAdmin(http.HandlerFunc(a.handleAdminDeleteAudit)))
	mux.Handle("GET /api/v1/admin/metrics/overview", a.auth.RequireAdmin(http.HandlerFunc(a.handleAdminOverview)))
	mux.Handle("GET /api/v1/admin/activity", a.auth.RequireAdmin(http.HandlerFunc(a.handleAdminActivity)))

	wrapped := otelhttp.NewHandler(mux, "audit-api-http")
	return withCORS(wrapped)
}

func (a *API) handleHealthz(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"ok":   true,
		"time": nowRFC3339(),
	})
}

func (a *API) handleCreateAudit(w http.ResponseWriter, r *http.Request) {
	_, span := otel.Tracer("audit-api").Start(r.Context(), "audit.create")
	defer span.End()
	var req AuditRequest
	if err := decodeJSONBody(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid JSON body")
		return
	}
	span.SetAttributes(
		attribute.String("audit.website_type", req.WebsiteType),
	)

	// Authenticated admins skip the anonymous rate limit.
	if principal, err := a.auth.AuthenticateRequest(r); err == nil && principal.Role == "admin" {
		meta, err := a.runner.CreateAudit(req, principal, "admin.manual")
		if err != nil {
			span.RecordError(err)
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		writeJSON(w, http.StatusAccepted, map[string]any{
			"audit_id": meta.AuditID,
			"status":   meta.Status,
		})
		return
	}

	ipHash, uaHash := actorHashes(r)
	meta, err := a.runner.CreatePublicAudit(req, ipHash, uaHash)
	if err != nil {
		span.RecordError(err)
		status := http.StatusBadRequest
		if strings.Contains(err.Error(), "rate limit") {
			status = http.StatusTooManyRequests
		}
		writeError(w, status, err.Error())
		return
	}
	writeJSON(w, http.StatusAccepted, map[string]any{
		"audit_id": meta.AuditID,
		"status":   meta.Status,
	})
}

func (a *API) handleGetAudit(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing audit id")
		return
	}
	meta, ok := a.store.GetAudit(id)
	if !ok {
		writeError(w, http.StatusNotFound, "audit not found")
		return
	}

	mode := strings.ToLower(strings.TrimSpace(r.URL.Query().Get("mode")))
	if mode == "admin" {
		principal, err := a.auth.AuthenticateRequest(r)
		if err != nil || principal.Role != "admin" {
			writeError(w, http.StatusForbidden, "admin required for admin report mode")
			return
		}
		writeJSON(w, http.StatusOK, meta)
		return
	}
	writeJSON(w, http.StatusOK, clientAuditView(meta))
}

// clientAuditView strips consultant-only material: the admin summary
// and lifecycle internals stay server side.
func clientAuditView(meta AuditMeta) map[string]any {
	view := map[string]any{
		"audit_id":     meta.AuditID,
		"status":       meta.Status,
		"website_url":  meta.Request.WebsiteURL,
		"website_type": meta.Request.WebsiteType,
		"created_at":   meta.CreatedAt,
		"finished_at":  meta.FinishedAt,
	}
	if meta.Report != nil {
		report := meta.Report
		view["score"] = report.Score
		view["grade"] = report.Grade
		view["score_breakdown"] = report.Breakdown
		view["strengths"] = report.Strengths
		view["improvements"] = report.Improvements
		view["summary"] = report.ClientSummary
	}
	if meta.Status == "failed" {
		view["error"] = "audit could not be completed"
	}
	return view
}

func (a *API) handleWebsiteTypes(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"website_types": websiteTypeList(),
	})
}

func (a *API) handleAdminListAudits(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"audits": a.store.ListAudits(parseLimit(r, 100)),
	})
}

func (a *API) handleAdminDeleteAudit(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimSpace(r.PathValue("id"))
	if id == "" {
		writeError(w, http.StatusBadRequest, "missing audit id")
		return
	}
	if err := a.store.DeleteAudit(id); err != nil {
		writeError(w, http.StatusNotFound, "audit not found")
		return
	}
	principal, _ := PrincipalFromContext(r.Context())
	_ = a.store.AppendActivity(ActivityEvent{
		Timestamp: nowRFC3339(),
		AuditID:   id,
		ActorType: "admin",
		ActorSub:  principal.Subject,
		Action:    "audit.delete",
		Result:    "ok",
	})
	writeJSON(w, http.StatusOK, map[string]any{"ok": true})
}

func (a *API) handleAdminOverview(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.store.GetMetricsOverview())
}

func (a *API) handleAdminActivity(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"activity": a.store.ListActivity(parseLimit(r, 200)),
	})
}

func withCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, X-Admin-Token")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, DELETE, OPTIONS")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		next.ServeHTTP(w, r)
	})
}

func actorHashes(r *http.Request) (string, string) {
	ip, _, _ := net.SplitHostPort(strings.TrimSpace(r.RemoteAddr))
	if ip == "" {
		ip = strings.TrimSpace(r.RemoteAddr)
	}
	return hashString(ip), hashString(r.UserAgent())
}
