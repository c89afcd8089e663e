package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"

	"github.com/iWorld-y/content_flow/app/content_flow/pkg/model"
	"github.com/iWorld-y/content_flow/app/content_flow/pkg/workflow"
)

var started = time.Date(2026, 3, 2, 8, 30, 15, 0, time.UTC)

func newMock(t *testing.T) (*Storage, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("failed to create sqlmock: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return NewWithDB(db), mock
}

func runColumnNames() []string {
	return []string{"id", "workflow_id", "company_id", "status", "current_step", "trends_found",
		"strategy_created", "briefs_generated", "error_message", "started_at", "completed_at"}
}

func TestWorkflowID(t *testing.T) {
	tests := []struct {
		company string
		want    string
	}{
		{"acme-1234-5678", "workflow_20260302_083015_acme-123"},
		{"short", "workflow_20260302_083015_short"},
	}
	for _, tt := range tests {
		if got := WorkflowID(tt.company, started); got != tt.want {
			t.Errorf("WorkflowID(%q) = %q, want %q", tt.company, got, tt.want)
		}
	}
}

func TestCreateRun(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectExec("INSERT INTO workflow_runs").
		WithArgs("run-1", "workflow_x", "acme", "running", "start", started).
		WillReturnResult(sqlmock.NewResult(0, 1))

	if err := s.CreateRun(context.Background(), "run-1", "workflow_x", "acme", started); err != nil {
		t.Fatalf("CreateRun() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func completedState() workflow.State {
	st := workflow.NewState("run-1", model.CompanyProfile{CompanyID: "acme", CompanyName: "Acme", Industry: "SaaS"})
	st.Trends = &model.TrendResearchOutput{TrendingTopics: []model.TrendingTopic{
		{Topic: "ai copilots", TrendScore: 88, UrgencyLevel: "high", TargetKeywords: []string{"copilot"}},
		{Topic: "semantic\x00 layers", TrendScore: 71, UrgencyLevel: "low"},
	}}
	st.Briefs = &model.BriefGenerationOutput{ContentBriefs: []model.ContentBrief{
		{BriefID: "b1", Title: "Copilots", Platform: "linkedin", PriorityLevel: "high",
			SEOOptimization: model.SEOOptimization{PrimaryKeyword: "copilot"}},
	}}
	st.CurrentStep = workflow.StepBriefGenerationDone
	st.FinishedAt = started.Add(time.Minute)
	return st
}

func TestCompleteRun(t *testing.T) {
	s, mock := newMock(t)
	st := completedState()
	msg := "Content Strategy Failed: boom"
	st.Error = &msg

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE workflow_runs").
		WithArgs("run-1", "failed", "brief_generation_done", 2, false, 1, msg, st.FinishedAt).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO trending_topics").
		WithArgs("run-1", "acme", "ai copilots", 88.0, "high", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectExec("INSERT INTO trending_topics").
		WithArgs("run-1", "acme", "semantic layers", 71.0, "low", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(2, 1))
	mock.ExpectExec("INSERT INTO content_briefs").
		WithArgs("run-1", "acme", "b1", "Copilots", "linkedin", "high", sqlmock.AnyArg(), sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	if err := s.CompleteRun(context.Background(), st); err != nil {
		t.Fatalf("CompleteRun() error = %v", err)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompleteRun_RollsBackOnInsertError(t *testing.T) {
	s, mock := newMock(t)
	st := completedState()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE workflow_runs").WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO trending_topics").WillReturnError(errors.New("disk full"))
	mock.ExpectRollback()

	err := s.CompleteRun(context.Background(), st)
	if err == nil {
		t.Fatal("CompleteRun() error = nil")
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCompleteRun_UnknownRun(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE workflow_runs").WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	if err := s.CompleteRun(context.Background(), completedState()); !errors.Is(err, ErrNotFound) {
		t.Fatalf("CompleteRun() error = %v, want ErrNotFound", err)
	}
}

func TestListRuns(t *testing.T) {
	s, mock := newMock(t)
	finished := started.Add(time.Minute)

	mock.ExpectQuery("FROM workflow_runs").
		WithArgs("acme", DefaultListLimit).
		WillReturnRows(sqlmock.NewRows(runColumnNames()).
			AddRow("run-2", "workflow_b", "acme", "failed", "start", 0, false, 0, "Trend Research Failed: x", started, finished).
			AddRow("run-1", "workflow_a", "acme", "completed", "brief_generation_done", 3, true, 3, nil, started, nil))

	runs, err := s.ListRuns(context.Background(), "acme", 0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 2 {
		t.Fatalf("len = %d, want 2", len(runs))
	}
	if runs[0].ErrorMessage == nil || *runs[0].ErrorMessage != "Trend Research Failed: x" || runs[0].CompletedAt == nil {
		t.Errorf("runs[0] = %+v", runs[0])
	}
	if runs[1].ErrorMessage != nil || runs[1].CompletedAt != nil || !runs[1].StrategyCreated {
		t.Errorf("runs[1] = %+v", runs[1])
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetRun(t *testing.T) {
	s, mock := newMock(t)

	topic, _ := json.Marshal(model.TrendingTopic{Topic: "ai copilots", TrendScore: 88})
	strategy, _ := json.Marshal(model.ContentStrategyOutput{WeeklyFocus: "speed"})
	brief, _ := json.Marshal(model.ContentBrief{BriefID: "b1", Title: "Copilots"})

	mock.ExpectQuery("FROM workflow_runs").
		WithArgs("workflow_a").
		WillReturnRows(sqlmock.NewRows(runColumnNames()).
			AddRow("run-1", "workflow_a", "acme", "completed", "brief_generation_done", 1, true, 1, nil, started, started))
	mock.ExpectQuery("SELECT payload FROM trending_topics").WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(topic))
	mock.ExpectQuery("SELECT payload FROM content_strategies").WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(strategy))
	mock.ExpectQuery("SELECT payload FROM content_briefs").WithArgs("run-1").
		WillReturnRows(sqlmock.NewRows([]string{"payload"}).AddRow(brief))

	got, err := s.GetRun(context.Background(), "workflow_a")
	if err != nil {
		t.Fatalf("GetRun() error = %v", err)
	}
	if len(got.Trends) != 1 || got.Trends[0].Topic != "ai copilots" {
		t.Errorf("trends = %+v", got.Trends)
	}
	if got.Strategy == nil || got.Strategy.WeeklyFocus != "speed" {
		t.Errorf("strategy = %+v", got.Strategy)
	}
	if len(got.Briefs) != 1 || got.Briefs[0].BriefID != "b1" {
		t.Errorf("briefs = %+v", got.Briefs)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestGetRun_NotFound(t *testing.T) {
	s, mock := newMock(t)

	mock.ExpectQuery("FROM workflow_runs").WithArgs("missing").WillReturnError(sql.ErrNoRows)

	if _, err := s.GetRun(context.Background(), "missing"); !errors.Is(err, ErrNotFound) {
		t.Fatalf("GetRun() error = %v, want ErrNotFound", err)
	}
}

func TestClean(t *testing.T) {
	if got := clean("a\x00b\xffc"); got != "abc" {
		t.Errorf("clean() = %q", got)
	}
}
