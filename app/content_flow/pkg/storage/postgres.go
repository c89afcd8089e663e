package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/lib/pq"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/config"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/workflow"
)

// ErrNotFound 运行记录不存在
var ErrNotFound = errors.New("workflow run not found")

// DefaultListLimit 历史查询默认条数
const DefaultListLimit = 10

// RunRecord workflow_runs 表的一行
type RunRecord struct {
	ID              string     `json:"id"`
	WorkflowID      string     `json:"workflow_id"`
	CompanyID       string     `json:"company_id"`
	Status          string     `json:"status"`
	CurrentStep     string     `json:"current_step"`
	TrendsFound     int        `json:"trends_found"`
	StrategyCreated bool       `json:"strategy_created"`
	BriefsGenerated int        `json:"briefs_generated"`
	ErrorMessage    *string    `json:"error_message"`
	StartedAt       time.Time  `json:"started_at"`
	CompletedAt     *time.Time `json:"completed_at"`
}

// RunDetail 运行记录及其产出
type RunDetail struct {
	RunRecord
	Trends   []model.TrendingTopic        `json:"trends"`
	Strategy *model.ContentStrategyOutput `json:"strategy"`
	Briefs   []model.ContentBrief         `json:"briefs"`
}

// Storage Postgres 持久化
type Storage struct {
	db *sql.DB
}

// NewStorage 连接数据库并建表
func NewStorage(cfg config.DBConfig) (*Storage, error) {
	db, err := sql.Open("postgres", cfg.ConnString())
	if err != nil {
		return nil, fmt.Errorf("failed to open database connection: %w", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	s := &Storage{db: db}
	if err := s.initSchema(context.Background()); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return s, nil
}

// NewWithDB 使用已有连接，不建表
func NewWithDB(db *sql.DB) *Storage {
	return &Storage{db: db}
}

func (s *Storage) Close() error {
	return s.db.Close()
}

// WorkflowID 生成可读的工作流编号：workflow_<YYYYmmdd_HHMMSS>_<公司 ID 前 8 位>
func WorkflowID(companyID string, at time.Time) string {
	prefix := companyID
	if len(prefix) > 8 {
		prefix = prefix[:8]
	}
	return fmt.Sprintf("workflow_%s_%s", at.Format("20060102_150405"), prefix)
}

var schema = []string{
	`CREATE TABLE IF NOT EXISTS workflow_runs (
		id UUID PRIMARY KEY,
		workflow_id TEXT NOT NULL UNIQUE,
		company_id TEXT NOT NULL,
		status TEXT NOT NULL,
		current_step TEXT NOT NULL,
		trends_found INTEGER NOT NULL DEFAULT 0,
		strategy_created BOOLEAN NOT NULL DEFAULT FALSE,
		briefs_generated INTEGER NOT NULL DEFAULT 0,
		error_message TEXT,
		started_at TIMESTAMPTZ NOT NULL,
		completed_at TIMESTAMPTZ
	)`,
	`CREATE INDEX IF NOT EXISTS idx_workflow_runs_company ON workflow_runs (company_id, started_at DESC)`,
	`CREATE TABLE IF NOT EXISTS trending_topics (
		id SERIAL PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES workflow_runs(id) ON DELETE CASCADE,
		company_id TEXT NOT NULL,
		topic TEXT NOT NULL,
		trend_score DOUBLE PRECISION NOT NULL,
		urgency_level TEXT,
		keywords TEXT[],
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS content_strategies (
		id SERIAL PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES workflow_runs(id) ON DELETE CASCADE,
		company_id TEXT NOT NULL,
		theme_name TEXT,
		weekly_focus TEXT,
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
	`CREATE TABLE IF NOT EXISTS content_briefs (
		id SERIAL PRIMARY KEY,
		run_id UUID NOT NULL REFERENCES workflow_runs(id) ON DELETE CASCADE,
		company_id TEXT NOT NULL,
		brief_id TEXT NOT NULL,
		title TEXT NOT NULL,
		platform TEXT,
		priority_level TEXT,
		keywords TEXT[],
		payload JSONB NOT NULL,
		created_at TIMESTAMPTZ DEFAULT CURRENT_TIMESTAMP
	)`,
}

func (s *Storage) initSchema(ctx context.Context) error {
	for _, query := range schema {
		if _, err := s.db.ExecContext(ctx, query); err != nil {
			return fmt.Errorf("failed to execute query %s: %w", query, err)
		}
	}
	return nil
}

// CreateRun 写入一条 running 状态的运行记录
func (s *Storage) CreateRun(ctx context.Context, runID, workflowID, companyID string, startedAt time.Time) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO workflow_runs (id, workflow_id, company_id, status, current_step, started_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		runID, workflowID, companyID, workflow.StatusRunning, string(workflow.StepStart), startedAt)
	if err != nil {
		return fmt.Errorf("failed to insert workflow run: %w", err)
	}
	return nil
}

// CompleteRun 在一个事务里更新运行记录并保存全部产出
func (s *Storage) CompleteRun(ctx context.Context, st workflow.State) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback()

	trendsFound, briefsGenerated := 0, 0
	if st.Trends != nil {
		trendsFound = len(st.Trends.TrendingTopics)
	}
	if st.Briefs != nil {
		briefsGenerated = len(st.Briefs.ContentBriefs)
	}

	res, err := tx.ExecContext(ctx, `
		UPDATE workflow_runs
		SET status = $2, current_step = $3, trends_found = $4, strategy_created = $5,
			briefs_generated = $6, error_message = $7, completed_at = $8
		WHERE id = $1`,
		st.RunID, st.Status(), string(st.CurrentStep), trendsFound, st.Strategy != nil,
		briefsGenerated, nullString(st.Error), st.FinishedAt)
	if err != nil {
		return fmt.Errorf("failed to update workflow run: %w", err)
	}
	if n, err := res.RowsAffected(); err == nil && n == 0 {
		return ErrNotFound
	}

	if st.Trends != nil {
		for _, t := range st.Trends.TrendingTopics {
			payload, err := json.Marshal(t)
			if err != nil {
				return err
			}
			_, err = tx.ExecContext(ctx, `
				INSERT INTO trending_topics (run_id, company_id, topic, trend_score, urgency_level, keywords, payload)
				VALUES ($1, $2, $3, $4, $5, $6, $7)`,
				st.RunID, st.CompanyID, clean(t.Topic), t.TrendScore, t.UrgencyLevel, pq.Array(t.TargetKeywords), payload)
			if err != nil {
				return fmt.Errorf("failed to insert trending topic: %w", err)
			}
		}
	}

	if st.Strategy != nil {
		payload, err := json.Marshal(st.Strategy)
		if err != nil {
			return err
		}
		_, err = tx.ExecContext(ctx, `
			INSERT INTO content_strategies (run_id, company_id, theme_name, weekly_focus, payload)
			VALUES ($1, $2, $3, $4, $5)`,
			st.RunID, st.CompanyID, clean(st.Strategy.ContentStrategy.WeeklyTheme.ThemeName), clean(st.Strategy.WeeklyFocus), payload)
		if err != nil {
			return fmt.Errorf("failed to insert content strategy: %w", err)
		}
	}

	if st.Briefs != nil {
		for _, b := range st.Briefs.ContentBriefs {
			payload, err := json.Marshal(b)
			if err != nil {
				return err
			}
			keywords := append([]string{b.SEOOptimization.PrimaryKeyword}, b.SEOOptimization.SecondaryKeywords...)
			_, err = tx.ExecContext(ctx, `
				INSERT INTO content_briefs (run_id, company_id, brief_id, title, platform, priority_level, keywords, payload)
				VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
				st.RunID, st.CompanyID, b.BriefID, clean(b.Title), b.Platform, b.PriorityLevel, pq.Array(keywords), payload)
			if err != nil {
				return fmt.Errorf("failed to insert content brief: %w", err)
			}
		}
	}

	return tx.Commit()
}

const runColumns = `id, workflow_id, company_id, status, current_step, trends_found, strategy_created,
	briefs_generated, error_message, started_at, completed_at`

// ListRuns 按开始时间倒序返回公司的运行历史
func (s *Storage) ListRuns(ctx context.Context, companyID string, limit int) ([]RunRecord, error) {
	if limit <= 0 {
		limit = DefaultListLimit
	}
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+runColumns+`
		FROM workflow_runs
		WHERE company_id = $1
		ORDER BY started_at DESC
		LIMIT $2`, companyID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to query workflow runs: %w", err)
	}
	defer rows.Close()

	var runs []RunRecord
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, err
		}
		runs = append(runs, *r)
	}
	return runs, rows.Err()
}

// GetRun 按 workflow_id 查询运行记录及产出
func (s *Storage) GetRun(ctx context.Context, workflowID string) (*RunDetail, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+runColumns+`
		FROM workflow_runs
		WHERE workflow_id = $1`, workflowID)
	run, err := scanRun(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}

	detail := &RunDetail{RunRecord: *run}

	if err := queryPayloads(ctx, s.db, `
		SELECT payload FROM trending_topics WHERE run_id = $1 ORDER BY trend_score DESC, id`,
		run.ID, &detail.Trends); err != nil {
		return nil, fmt.Errorf("failed to query trending topics: %w", err)
	}

	var strategies []model.ContentStrategyOutput
	if err := queryPayloads(ctx, s.db, `
		SELECT payload FROM content_strategies WHERE run_id = $1 ORDER BY id DESC LIMIT 1`,
		run.ID, &strategies); err != nil {
		return nil, fmt.Errorf("failed to query content strategy: %w", err)
	}
	if len(strategies) > 0 {
		detail.Strategy = &strategies[0]
	}

	if err := queryPayloads(ctx, s.db, `
		SELECT payload FROM content_briefs WHERE run_id = $1 ORDER BY id`,
		run.ID, &detail.Briefs); err != nil {
		return nil, fmt.Errorf("failed to query content briefs: %w", err)
	}

	return detail, nil
}

type scanner interface {
	Scan(dest ...any) error
}

func scanRun(row scanner) (*RunRecord, error) {
	var (
		r         RunRecord
		errMsg    sql.NullString
		completed sql.NullTime
	)
	err := row.Scan(&r.ID, &r.WorkflowID, &r.CompanyID, &r.Status, &r.CurrentStep, &r.TrendsFound,
		&r.StrategyCreated, &r.BriefsGenerated, &errMsg, &r.StartedAt, &completed)
	if err != nil {
		return nil, err
	}
	if errMsg.Valid {
		r.ErrorMessage = &errMsg.String
	}
	if completed.Valid {
		r.CompletedAt = &completed.Time
	}
	return &r, nil
}

// queryPayloads 把每行的 JSONB payload 解码后追加到 out
func queryPayloads[T any](ctx context.Context, db *sql.DB, query, runID string, out *[]T) error {
	rows, err := db.QueryContext(ctx, query, runID)
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		var raw []byte
		if err := rows.Scan(&raw); err != nil {
			return err
		}
		var v T
		if err := json.Unmarshal(raw, &v); err != nil {
			return err
		}
		*out = append(*out, v)
	}
	return rows.Err()
}

func nullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// clean 去掉非法 UTF-8 与 NULL 字节，PostgreSQL 文本字段不接受 NULL 字节
func clean(s string) string {
	if !utf8.ValidString(s) {
		s = strings.ToValidUTF8(s, "")
	}
	return strings.ReplaceAll(s, "\x00", "")
}
