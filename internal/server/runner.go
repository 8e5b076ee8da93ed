package server

import (
	"context"
	"crypto/rand"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"net/url"
	"strings"
	"sync"
	"time"

	"site-audit/internal/audit"
)

// SignalCollector abstracts the probe layer so the manager can be
// tested without the network.
type SignalCollector interface {
	Collect(ctx context.Context, rawURL string) (audit.RawSignals, error)
}

// AuditService is the router's view of the manager.
type AuditService interface {
	CreateAudit(request AuditRequest, principal Principal, source string) (AuditMeta, error)
	CreatePublicAudit(request AuditRequest, ipHash, uaHash string) (AuditMeta, error)
}

// AuditManager queues audits and runs them on a bounded worker pool:
// collect signals, evaluate, store the report.
type AuditManager struct {
	cfg         ServerConfig
	store       Store
	collector   SignalCollector
	obs         *Observability
	queue       chan queuedAudit
	wg          sync.WaitGroup
	publicLimit *ipRateLimiter
}

type queuedAudit struct {
	AuditID     string
	Request     AuditRequest
	Creator     Principal
	CreatorType string
	Source      string
}

func NewAuditManager(cfg ServerConfig, store Store, collector SignalCollector, obs *Observability) *AuditManager {
	maxParallel := cfg.Runner.MaxParallelAudits
	if maxParallel <= 0 {
		maxParallel = 2
	}
	manager := &AuditManager{
		cfg:         cfg,
		store:       store,
		collector:   collector,
		obs:         obs,
		queue:       make(chan queuedAudit, maxParallel*8),
		publicLimit: newIPRateLimiter(cfg.Limits.AuditRPM),
	}
	for i := 0; i < maxParallel; i++ {
		manager.wg.Add(1)
		go func() {
			defer manager.wg.Done()
			manager.worker()
		}()
	}
	return manager
}

func (m *AuditManager) Shutdown() {
	close(m.queue)
	m.wg.Wait()
}

func (m *AuditManager) CreateAudit(request AuditRequest, principal Principal, source string) (AuditMeta, error) {
	if err := normalizeAuditRequest(&request, m.cfg); err != nil {
		return AuditMeta{}, err
	}
	auditID, err := randomID("aud")
	if err != nil {
		return AuditMeta{}, err
	}
	meta := AuditMeta{
		AuditID:     auditID,
		Status:      "queued",
		Source:      source,
		CreatorType: "admin",
		CreatorSub:  principal.Subject,
		Request:     request,
		CreatedAt:   nowRFC3339(),
	}
	if err := m.store.CreateAudit(meta); err != nil {
		return AuditMeta{}, err
	}
	_ = m.store.AppendActivity(ActivityEvent{
		Timestamp: nowRFC3339(),
		AuditID:   auditID,
		ActorType: "admin",
		ActorSub:  principal.Subject,
		Action:    "audit.create",
		Result:    "queued",
		Detail:    request.WebsiteURL,
	})
	m.queue <- queuedAudit{
		AuditID:     auditID,
		Request:     request,
		Creator:     principal,
		CreatorType: "admin",
		Source:      source,
	}
	return meta, nil
}

func (m *AuditManager) CreatePublicAudit(request AuditRequest, ipHash, uaHash string) (AuditMeta, error) {
	if !m.publicLimit.Allow(ipHash) {
		if m.obs != nil {
			m.obs.MarkRateLimited(context.Background(), "public_audit")
		}
		_ = m.store.AppendActivity(ActivityEvent{
			Timestamp: nowRFC3339(),
			ActorType: "public",
			Action:    "audit.reject",
			Result:    "rate_limited",
			IPHash:    ipHash,
			UAHash:    uaHash,
		})
		return AuditMeta{}, errors.New("audit rate limit reached")
	}
	if err := normalizeAuditRequest(&request, m.cfg); err != nil {
		return AuditMeta{}, err
	}
	auditID, err := randomID("aud")
	if err != nil {
		return AuditMeta{}, err
	}
	meta := AuditMeta{
		AuditID:     auditID,
		Status:      "queued",
		Source:      "public.form",
		CreatorType: "public",
		Request:     request,
		CreatedAt:   nowRFC3339(),
	}
	if err := m.store.CreateAudit(meta); err != nil {
		return AuditMeta{}, err
	}
	_ = m.store.AppendActivity(ActivityEvent{
		Timestamp: nowRFC3339(),
		AuditID:   auditID,
		ActorType: "public",
		Action:    "audit.create",
		Result:    "queued",
		IPHash:    ipHash,
		UAHash:    uaHash,
		Detail:    request.WebsiteURL,
	})
	m.queue <- queuedAudit{
		AuditID:     auditID,
		Request:     request,
		CreatorType: "public",
		Source:      "public.form",
	}
	return meta, nil
}

func (m *AuditManager) worker() {
	for queued := range m.queue {
		m.executeAudit(queued)
	}
}

func (m *AuditManager) executeAudit(queued queuedAudit) {
	startedAt := nowRFC3339()
	_, _ = m.store.UpdateAudit(queued.AuditID, func(meta *AuditMeta) {
		meta.Status = "running"
		meta.StartedAt = startedAt
	})

	timeout := time.Duration(queued.Request.TimeoutSec) * time.Second
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	start := time.Now()
	signals, err := m.collector.Collect(ctx, queued.Request.WebsiteURL)
	collectMS := time.Since(start).Milliseconds()
	if m.obs != nil {
		m.obs.MarkCollector(ctx, collectMS)
	}
	if err != nil {
		_, _ = m.store.UpdateAudit(queued.AuditID, func(meta *AuditMeta) {
			meta.Status = "failed"
			meta.Error = "signal collection aborted: " + err.Error()
			meta.FinishedAt = nowRFC3339()
			meta.DurationMS = collectMS
		})
		_ = m.store.AppendActivity(ActivityEvent{
			Timestamp: nowRFC3339(),
			AuditID:   queued.AuditID,
			ActorType: queued.CreatorType,
			ActorSub:  queued.Creator.Subject,
			Action:    "audit.completed",
			Result:    "failed",
			Detail:    err.Error(),
		})
		if m.obs != nil {
			m.obs.MarkAudit(ctx, "failed")
		}
		return
	}

	report := audit.EvaluateAudit(signals, queued.Request.WebsiteType, audit.BusinessContext{
		BusinessName: queued.Request.BusinessName,
		Platform:     signals.Platform,
		WebsiteURL:   queued.Request.WebsiteURL,
	})

	_, _ = m.store.UpdateAudit(queued.AuditID, func(meta *AuditMeta) {
		meta.Status = "completed"
		meta.FinishedAt = nowRFC3339()
		meta.Report = &report
		meta.Score = report.Score
		meta.Grade = string(report.Grade)
		meta.CriticalCount = report.CriticalCount
		meta.DurationMS = collectMS
		meta.Platform = signals.Platform
	})
	_ = m.store.AppendActivity(ActivityEvent{
		Timestamp: nowRFC3339(),
		AuditID:   queued.AuditID,
		ActorType: queued.CreatorType,
		ActorSub:  queued.Creator.Subject,
		Action:    "audit.completed",
		Result:    "completed",
		Detail:    fmt.Sprintf("score=%d grade=%s critical=%d", report.Score, report.Grade, report.CriticalCount),
	})
	if m.obs != nil {
		m.obs.MarkAudit(ctx, "completed")
		m.obs.MarkCriticalFindings(ctx, report.CriticalCount)
	}
}

func normalizeAuditRequest(request *AuditRequest, cfg ServerConfig) error {
	request.WebsiteURL = strings.TrimSpace(request.WebsiteURL)
	if request.WebsiteURL == "" {
		return errors.New("website_url is required")
	}
	if !strings.Contains(request.WebsiteURL, "://") {
		request.WebsiteURL = "https://" + request.WebsiteURL
	}
	parsed, err := url.Parse(request.WebsiteURL)
	if err != nil || parsed.Hostname() == "" {
		return errors.New("website_url is not a valid URL")
	}
	switch strings.ToLower(parsed.Scheme) {
	case "http", "https":
	default:
		return errors.New("website_url must use http or https")
	}
	request.WebsiteType = audit.NormalizeWebsiteType(request.WebsiteType)
	request.BusinessName = strings.TrimSpace(request.BusinessName)
	if request.TimeoutSec <= 0 {
		request.TimeoutSec = cfg.Runner.DefaultTimeoutSec
	}
	return nil
}

func randomID(prefix string) (string, error) {
	b := make([]byte, 8)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return prefix + "_" + hex.EncodeToString(b), nil
}

type ipRateLimiter struct {
	mu      sync.Mutex
	rpm     int
	records map[string][]time.Time
}

func newIPRateLimiter(rpm int) *ipRateLimiter {
	if rpm <= 0 {
		rpm = 4
	}
	return &ipRateLimiter{
		rpm:     rpm,
		records: map[string][]time.Time{},
	}
}

func (l *ipRateLimiter) Allow(key string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	if strings.TrimSpace(key) == "" {
		key = "unknown"
	}
	now := time.Now()
	cutoff := now.Add(-1 * time.Minute)
	items := l.records[key]
	items = filterRecentTime(items, cutoff)
	if len(items) >= l.rpm {
		l.records[key] = items
		return false
	}
	items = append(items, now)
	l.records[key] = items
	return true
}

func filterRecentTime(items []time.Time, cutoff time.Time) []time.Time {
	if len(items) == 0 {
		return items
	}
	out := items[:0]
	for _, item := range items {
		if item.After(cutoff) {
			out = append(out, item)
		}
	}
	return out
}

func hashString(input string) string {
	sum := sha256Sum(input)
	return sum[:16]
}

func sha256Sum(input string) string {
	hash := sha256.New()
	_, _ = hash.Write([]byte(input))
	return hex.EncodeToString(hash.Sum(nil))
}
