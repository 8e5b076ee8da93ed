package server

import (
	"time"

	"site-audit/internal/audit"
)

type Principal struct {
	Subject  string `json:"subject"`
	Username string `json:"username"`
	Role     string `json:"role"`
}

// AuditRequest is the create-audit payload.
type AuditRequest struct {
	WebsiteURL   string `json:"website_url"`
	WebsiteType  string `json:"website_type,omitempty"`
	BusinessName string `json:"business_name,omitempty"`
	TimeoutSec   int    `json:"timeout_sec,omitempty"`
}

// AuditMeta is one audit's full lifecycle record. The summary columns
// (Score, Grade, CriticalCount) are denormalized from the report so
// list views never unmarshal the full payload.
type AuditMeta struct {
	AuditID       string             `json:"audit_id"`
	Status        string             `json:"status"`
	CreatorType   string             `json:"creator_type"`
	CreatorSub    string             `json:"creator_sub,omitempty"`
	Source        string             `json:"source"`
	Request       AuditRequest       `json:"request"`
	StartedAt     string             `json:"started_at,omitempty"`
	FinishedAt    string             `json:"finished_at,omitempty"`
	CreatedAt     string             `json:"created_at"`
	Error         string             `json:"error,omitempty"`
	Report        *audit.AuditReport `json:"report,omitempty"`
	Score         int                `json:"score"`
	Grade         string             `json:"grade,omitempty"`
	CriticalCount int                `json:"critical_count"`
	DurationMS    int64              `json:"duration_ms"`
	Platform      string             `json:"platform,omitempty"`
}

// ActivityEvent is one access-log entry: who did what, with hashed
// actor fingerprints for anonymous requests.
type ActivityEvent struct {
	Timestamp string `json:"timestamp"`
	AuditID   string `json:"audit_id,omitempty"`
	ActorType string `json:"actor_type"`
	ActorSub  string `json:"actor_sub,omitempty"`
	Action    string `json:"action"`
	Result    string `json:"result"`
	IPHash    string `json:"ip_hash,omitempty"`
	UAHash    string `json:"ua_hash,omitempty"`
	Detail    string `json:"detail,omitempty"`
}

type MetricsOverview struct {
	GeneratedAt     string         `json:"generated_at"`
	TotalAudits     int            `json:"total_audits"`
	RunningAudits   int            `json:"running_audits"`
	CompletedAudits int            `json:"completed_audits"`
	FailedAudits    int            `json:"failed_audits"`
	AverageScore    float64        `json:"average_score"`
	AverageDuration int64          `json:"average_duration_ms"`
	CriticalTotal   int            `json:"critical_findings_total"`
	GradeCounts     map[string]int `json:"grade_counts"`
}

type StoreSnapshot struct {
	Audits   []AuditMeta     `json:"audits"`
	Activity []ActivityEvent `json:"activity"`
}

func nowRFC3339() string {
	return time.Now().UTC().Format(time.RFC3339)
}
