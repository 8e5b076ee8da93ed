package server

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
)

type Store interface {
	CreateAudit(meta AuditMeta) error
	UpdateAudit(auditID string, mutate func(*AuditMeta)) (AuditMeta, error)
	GetAudit(auditID string) (AuditMeta, bool)
	ListAudits(limit int) []AuditMeta
	ListAuditsByCreator(creatorSub string, limit int) []AuditMeta
	DeleteAudit(auditID string) error
	AppendActivity(event ActivityEvent) error
	ListActivity(limit int) []ActivityEvent
	GetMetricsOverview() MetricsOverview
}

// MemoryFileStore keeps everything in memory and, when a path is
// configured, mirrors it to a JSON snapshot via atomic rename.
type MemoryFileStore struct {
	mu       sync.RWMutex
	path     string
	audits   map[string]AuditMeta
	activity []ActivityEvent
}

func NewMemoryFileStore(path string) (*MemoryFileStore, error) {
	store := &MemoryFileStore{
		path:     path,
		audits:   map[string]AuditMeta{},
		activity: []ActivityEvent{},
	}
	if strings.TrimSpace(path) == "" {
		return store, nil
	}
	if err := store.load(); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *MemoryFileStore) CreateAudit(meta AuditMeta) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, exists := s.audits[meta.AuditID]; exists {
		return fmt.Errorf("audit %s already exists", meta.AuditID)
	}
	s.audits[meta.AuditID] = meta
	return s.persistLocked()
}

func (s *MemoryFileStore) UpdateAudit(auditID string, mutate func(*AuditMeta)) (AuditMeta, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	meta, ok := s.audits[auditID]
	if !ok {
		return AuditMeta{}, fmt.Errorf("audit not found: %s", auditID)
	}
	if mutate != nil {
		mutate(&meta)
	}
	s.audits[auditID] = meta
	if err := s.persistLocked(); err != nil {
		return AuditMeta{}, err
	}
	return meta, nil
}

func (s *MemoryFileStore) GetAudit(auditID string) (AuditMeta, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	meta, ok := s.audits[auditID]
	return meta, ok
}

func (s *MemoryFileStore) ListAudits(limit int) []AuditMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AuditMeta, 0, len(s.audits))
	for _, meta := range s.audits {
		out = append(out, meta)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *MemoryFileStore) ListAuditsByCreator(creatorSub string, limit int) []AuditMeta {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]AuditMeta, 0)
	for _, meta := range s.audits {
		if meta.CreatorSub == creatorSub {
			out = append(out, meta)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].CreatedAt > out[j].CreatedAt
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *MemoryFileStore) DeleteAudit(auditID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.audits[auditID]; !ok {
		return fmt.Errorf("audit not found: %s", auditID)
	}
	delete(s.audits, auditID)
	return s.persistLocked()
}

func (s *MemoryFileStore) AppendActivity(event ActivityEvent) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if strings.TrimSpace(event.Timestamp) == "" {
		event.Timestamp = nowRFC3339()
	}
	s.activity = append(s.activity, event)
	if len(s.activity) > 5000 {
		s.activity = s.activity[len(s.activity)-5000:]
	}
	return s.persistLocked()
}

func (s *MemoryFileStore) ListActivity(limit int) []ActivityEvent {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if len(s.activity) == 0 {
		return []ActivityEvent{}
	}
	out := make([]ActivityEvent, len(s.activity))
	copy(out, s.activity)
	sort.Slice(out, func(i, j int) bool {
		return out[i].Timestamp > out[j].Timestamp
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

func (s *MemoryFileStore) GetMetricsOverview() MetricsOverview {
	s.mu.RLock()
	defer s.mu.RUnlock()
	overview := MetricsOverview{
		GeneratedAt: nowRFC3339(),
		GradeCounts: map[string]int{},
	}
	var scoreTotal float64
	var durationTotal int64
	completed := 0
	for _, meta := range s.audits {
		overview.TotalAudits++
		switch strings.ToLower(strings.TrimSpace(meta.Status)) {
		case "running", "queued":
			overview.RunningAudits++
		case "completed":
			overview.CompletedAudits++
		case "failed":
			overview.FailedAudits++
		}
		overview.CriticalTotal += meta.CriticalCount
		if meta.Report != nil {
			scoreTotal += float64(meta.Score)
			durationTotal += meta.DurationMS
			completed++
			overview.GradeCounts[string(meta.Report.Grade)]++
		}
	}
	if completed > 0 {
		overview.AverageScore = scoreTotal / float64(completed)
		overview.AverageDuration = durationTotal / int64(completed)
	}
	return overview
}

func (s *MemoryFileStore) load() error {
	data, err := os.ReadFile(filepath.Clean(s.path))
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("read store snapshot: %w", err)
	}
	var snapshot StoreSnapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return fmt.Errorf("decode store snapshot: %w", err)
	}
	for _, meta := range snapshot.Audits {
		s.audits[meta.AuditID] = meta
	}
	s.activity = snapshot.Activity
	if s.activity == nil {
		s.activity = []ActivityEvent{}
	}
	return nil
}

func (s *MemoryFileStore) persistLocked() error {
	if strings.TrimSpace(s.path) == "" {
		return nil
	}
	audits := make([]AuditMeta, 0, len(s.audits))
	for _, meta := range s.audits {
		audits = append(audits, meta)
	}
	sort.Slice(audits, func(i, j int) bool {
		return audits[i].CreatedAt < audits[j].CreatedAt
	})
	snapshot := StoreSnapshot{
		Audits:   audits,
		Activity: s.activity,
	}
	data, err := json.MarshalIndent(snapshot, "", "  ")
	if err != nil {
		return fmt.Errorf("encode store snapshot: %w", err)
	}
	dir := filepath.Dir(s.path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create store directory: %w", err)
	}
	tmpPath := s.path + ".tmp"
	if err := os.WriteFile(tmpPath, data, 0o644); err != nil {
		return fmt.Errorf("write store temp snapshot: %w", err)
	}
	if err := os.Rename(tmpPath, s.path); err != nil {
		return fmt.Errorf("replace store snapshot: %w", err)
	}
	return nil
}
