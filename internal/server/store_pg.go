package server

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"site-audit/internal/audit"
)

type PgStore struct {
	pool *pgxpool.Pool
}

func NewPgStore(pool *pgxpool.Pool) *PgStore {
	return &PgStore{pool: pool}
}

const auditColumns = `audit_id,status,creator_type,creator_sub,source,request,
	started_at,finished_at,created_at,error,report,score,grade,critical_count,duration_ms,platform`

func (s *PgStore) CreateAudit(meta AuditMeta) error {
	req, _ := json.Marshal(meta.Request)
	_, err := s.pool.Exec(context.Background(),
		`INSERT INTO audits (audit_id,status,creator_type,creator_sub,source,request,created_at,score,grade,critical_count,duration_ms,platform)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
		meta.AuditID, meta.Status, meta.CreatorType, nullStr(meta.CreatorSub),
		meta.Source, req, meta.CreatedAt, meta.Score, nullStr(meta.Grade),
		meta.CriticalCount, meta.DurationMS, nullStr(meta.Platform))
	return err
}

func (s *PgStore) UpdateAudit(auditID string, mutate func(*AuditMeta)) (AuditMeta, error) {
	tx, err := s.pool.Begin(context.Background())
	if err != nil {
		return AuditMeta{}, err
	}
	defer tx.Rollback(context.Background())

	row := tx.QueryRow(context.Background(),
		`SELECT `+auditColumns+` FROM audits WHERE audit_id=$1 FOR UPDATE`, auditID)
	meta, err := scanAuditMeta(row)
	if err != nil {
		return AuditMeta{}, fmt.Errorf("audit not found: %s", auditID)
	}
	if mutate != nil {
		mutate(&meta)
	}
	req, _ := json.Marshal(meta.Request)
	var reportJSON []byte
	if meta.Report != nil {
		reportJSON, _ = json.Marshal(meta.Report)
	}
	_, err = tx.Exec(context.Background(),
		`UPDATE audits SET status=$1,started_at=$2,finished_at=$3,error=$4,report=$5,
		 score=$6,grade=$7,critical_count=$8,duration_ms=$9,platform=$10,request=$11
		 WHERE audit_id=$12`,
		meta.Status, nullStr(meta.StartedAt), nullStr(meta.FinishedAt), meta.Error,
		reportJSON, meta.Score, nullStr(meta.Grade), meta.CriticalCount,
		meta.DurationMS, nullStr(meta.Platform), req, auditID)
	if err != nil {
		return AuditMeta{}, err
	}
	return meta, tx.Commit(context.Background())
}

func (s *PgStore) GetAudit(auditID string) (AuditMeta, bool) {
	row := s.pool.QueryRow(context.Background(),
		`SELECT `+auditColumns+` FROM audits WHERE audit_id=$1`, auditID)
	meta, err := scanAuditMeta(row)
	if err != nil {
		return AuditMeta{}, false
	}
	return meta, true
}

func (s *PgStore) ListAudits(limit int) []AuditMeta {
	if limit <= 0 {
		limit = 100
	}
	rows, err := s.pool.Query(context.Background(),
		`SELECT `+auditColumns+` FROM audits ORDER BY created_at DESC LIMIT $1`, limit)
	if err != nil {
		return []AuditMeta{}
	}
	defer rows.Close()
	var out []AuditMeta
	for rows.Next() {
		meta, err := scanAuditMeta(rows)
		if err != nil {
			continue
		}
		out = append(out, meta)
	}
	if out == nil {
		return []AuditMeta{}
	}
	return out
}

func (s *PgStore) ListAuditsByCreator(creatorSub string, limit int) []AuditMeta {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.pool.Query(context.Background(),
		`SELECT `+auditColumns+` FROM audits WHERE creator_sub=$1 ORDER BY created_at DESC LIMIT $2`,
		creatorSub, limit)
	if err != nil {
		return []AuditMeta{}
	}
	defer rows.Close()
	var out []AuditMeta
	for rows.Next() {
		meta, err := scanAuditMeta(rows)
		if err != nil {
			continue
		}
		out = append(out, meta)
	}
	if out == nil {
		return []AuditMeta{}
	}
	return out
}

func (s *PgStore) DeleteAudit(auditID string) error {
	tag, err := s.pool.Exec(context.Background(),
		`DELETE FROM audits WHERE audit_id=$1`, auditID)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("audit not found: %s", auditID)
	}
	return nil
}

func (s *PgStore) AppendActivity(event ActivityEvent) error {
	if strings.TrimSpace(event.Timestamp) == "" {
		event.Timestamp = nowRFC3339()
	}
	_, err := s.pool.Exec(context.Background(),
		`INSERT INTO activity_log (timestamp,audit_id,actor_type,actor_sub,action,result,ip_hash,ua_hash,detail)
		 VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9)`,
		event.Timestamp, nullStr(event.AuditID), event.ActorType, nullStr(event.ActorSub),
		event.Action, event.Result, nullStr(event.IPHash), nullStr(event.UAHash), nullStr(event.Detail))
	return err
}

func (s *PgStore) ListActivity(limit int) []ActivityEvent {
	if limit <= 0 {
		limit = 200
	}
	rows, err := s.pool.Query(context.Background(),
		`SELECT timestamp,audit_id,actor_type,actor_sub,action,result,ip_hash,ua_hash,detail
		 FROM activity_log ORDER BY timestamp DESC LIMIT $1`, limit)
	if err != nil {
		return []ActivityEvent{}
	}
	defer rows.Close()
	var out []ActivityEvent
	for rows.Next() {
		var e ActivityEvent
		var ts time.Time
		var auditID, actorSub, ipHash, uaHash, detail *string
		if err := rows.Scan(&ts, &auditID, &e.ActorType, &actorSub, &e.Action, &e.Result, &ipHash, &uaHash, &detail); err != nil {
			continue
		}
		e.Timestamp = ts.UTC().Format(time.RFC3339)
		e.AuditID = deref(auditID)
		e.ActorSub = deref(actorSub)
		e.IPHash = deref(ipHash)
		e.UAHash = deref(uaHash)
		e.Detail = deref(detail)
		out = append(out, e)
	}
	if out == nil {
		return []ActivityEvent{}
	}
	return out
}

func (s *PgStore) GetMetricsOverview() MetricsOverview {
	overview := MetricsOverview{
		GeneratedAt: nowRFC3339(),
		GradeCounts: map[string]int{},
	}
	_ = s.pool.QueryRow(context.Background(),
		`SELECT
			COUNT(*),
			COUNT(*) FILTER (WHERE status IN ('running','queued')),
			COUNT(*) FILTER (WHERE status='completed'),
			COUNT(*) FILTER (WHERE status='failed'),
			COALESCE(AVG(score) FILTER (WHERE report IS NOT NULL),0),
			COALESCE(AVG(duration_ms) FILTER (WHERE report IS NOT NULL),0),
			COALESCE(SUM(critical_count),0)
		 FROM audits`).Scan(
		&overview.TotalAudits, &overview.RunningAudits, &overview.CompletedAudits,
		&overview.FailedAudits, &overview.AverageScore, &overview.AverageDuration,
		&overview.CriticalTotal)

	rows, _ := s.pool.Query(context.Background(),
		`SELECT grade, COUNT(*) FROM audits WHERE grade IS NOT NULL GROUP BY grade`)
	if rows != nil {
		defer rows.Close()
		for rows.Next() {
			var grade string
			var count int
			if rows.Scan(&grade, &count) == nil {
				overview.GradeCounts[grade] = count
			}
		}
	}
	return overview
}

// --- helpers ---

type scannable interface {
	Scan(dest ...any) error
}

func scanAuditMeta(row scannable) (AuditMeta, error) {
	var m AuditMeta
	var reqJSON, reportJSON []byte
	var creatorSub, source, startedAt, finishedAt, errStr, grade, platform *string
	err := row.Scan(&m.AuditID, &m.Status, &m.CreatorType, &creatorSub, &source,
		&reqJSON, &startedAt, &finishedAt, &m.CreatedAt, &errStr, &reportJSON,
		&m.Score, &grade, &m.CriticalCount, &m.DurationMS, &platform)
	if err != nil {
		return AuditMeta{}, err
	}
	m.CreatorSub = deref(creatorSub)
	m.Source = deref(source)
	m.StartedAt = deref(startedAt)
	m.FinishedAt = deref(finishedAt)
	m.Error = deref(errStr)
	m.Grade = deref(grade)
	m.Platform = deref(platform)
	_ = json.Unmarshal(reqJSON, &m.Request)
	if len(reportJSON) > 0 {
		var r audit.AuditReport
		if json.Unmarshal(reportJSON, &r) == nil {
			m.Report = &r
		}
	}
	return m, nil
}

func nullStr(s string) *string {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	return &s
}

func deref(p *string) string {
	if p == nil {
		return ""
	}
	return *p
}

// Ensure PgStore implements Store at compile time.
var _ Store = (*PgStore)(nil)
