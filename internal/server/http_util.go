package server

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"

	"site-audit/internal/audit"
)

func writeJSON(w http.ResponseWriter, status int, value any) {
	data, err := json.Marshal(value)
	if err != nil {
		writeError(w, http.StatusInternalServerError, "json encode failed")
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(data)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]any{
		"error": strings.TrimSpace(message),
	})
}

func decodeJSONBody(r *http.Request, out any) error {
	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()
	return decoder.Decode(out)
}

func parseLimit(r *http.Request, fallback int) int {
	raw := strings.TrimSpace(r.URL.Query().Get("limit"))
	if raw == "" {
		return fallback
	}
	value, err := strconv.Atoi(raw)
	if err != nil || value <= 0 {
		return fallback
	}
	if value > 1000 {
		return 1000
	}
	return value
}

type websiteTypeInfo struct {
	Value   string              `json:"value"`
	Weights audit.WeightProfile `json:"weights"`
}

func websiteTypeList() []websiteTypeInfo {
	types := audit.WebsiteTypes()
	out := make([]websiteTypeInfo, 0, len(types))
	for _, t := range types {
		out = append(out, websiteTypeInfo{
			Value:   t,
			Weights: audit.ResolveWeights(t),
		})
	}
	return out
}
