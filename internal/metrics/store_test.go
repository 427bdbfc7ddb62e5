package metrics

import (
	"context"
	"os"
	"path/filepath"
	"testing"
	"time"

	"ai-content-planner/internal/database"
	"ai-content-planner/internal/shared"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, now time.Time) *Store {
	t.Helper()
	db, err := database.NewDB(context.Background(), filepath.Join(t.TempDir(), "metrics.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	s := NewStore(db.SQL)
	s.now = func() time.Time { return now }
	return s
}

func TestDailyUsage(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	require.NoError(t, s.Record(ExecutionMetric{AgentName: "ContentPlanner", PromptTokens: 100, CompletionTokens: 50, LatencyMS: 1000, Timestamp: now.Add(-time.Hour)}))
	require.NoError(t, s.Record(ExecutionMetric{AgentName: "ContentPlanner", PromptTokens: 200, CompletionTokens: 70, LatencyMS: 3000, Timestamp: now.Add(-2 * time.Hour)}))
	require.NoError(t, s.Record(ExecutionMetric{AgentName: "ContentPlanner", PromptTokens: 10, CompletionTokens: 5, Timestamp: now.AddDate(0, 0, -2)}))
	require.NoError(t, s.Record(ExecutionMetric{AgentName: "ContentPlanner", PromptTokens: 999, Timestamp: now.AddDate(0, 0, -30)}))

	usage, err := s.GetDailyUsage(7)
	require.NoError(t, err)
	require.Len(t, usage, 2)

	assert.Equal(t, DailyUsage{Date: "2025-03-10", TotalPrompt: 300, TotalCompletion: 120, TotalExecution: 2, AvgLatencyMS: 2000}, usage[0])
	assert.Equal(t, "2025-03-08", usage[1].Date)
	assert.Equal(t, 1, usage[1].TotalExecution)
}

func TestRecordMetaSkipsEmptyUsage(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	require.NoError(t, s.RecordMeta(shared.AgentMeta{AgentName: "ContentPlanner", Provider: "gemini"}))
	require.NoError(t, s.RecordMeta(shared.AgentMeta{
		AgentName: "ContentPlanner",
		Provider:  "gemini",
		Usage:     shared.TokenUsage{PromptTokens: 12, CompletionTokens: 34, Model: "gemini-2.5-flash"},
		Latency:   1500 * time.Millisecond,
	}))

	var count int
	var provider, model string
	var latency int64
	require.NoError(t, s.db.QueryRow(`SELECT COUNT(*) FROM execution_metrics`).Scan(&count))
	require.NoError(t, s.db.QueryRow(`SELECT provider, model, latency_ms FROM execution_metrics`).Scan(&provider, &model, &latency))
	assert.Equal(t, 1, count)
	assert.Equal(t, "gemini", provider)
	assert.Equal(t, "gemini-2.5-flash", model)
	assert.Equal(t, int64(1500), latency)
}

func TestCleanup(t *testing.T) {
	now := time.Date(2025, 3, 10, 12, 0, 0, 0, time.UTC)
	s := newTestStore(t, now)

	require.NoError(t, s.Record(ExecutionMetric{AgentName: "a", Timestamp: now.AddDate(0, 0, -40)}))
	require.NoError(t, s.Record(ExecutionMetric{AgentName: "b", Timestamp: now.AddDate(0, 0, -31)}))
	require.NoError(t, s.Record(ExecutionMetric{AgentName: "c", Timestamp: now.AddDate(0, 0, -1)}))

	deleted, err := s.Cleanup(30)
	require.NoError(t, err)
	assert.Equal(t, int64(2), deleted)

	deleted, err = s.Cleanup(30)
	require.NoError(t, err)
	assert.Zero(t, deleted)
}

func TestCollectHealth(t *testing.T) {
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "planner.db")

	h := CollectHealth(dbPath, 3)
	assert.Positive(t, h.Goroutines)
	assert.Zero(t, h.DatabaseBytes)
	assert.Equal(t, 3, h.ActiveSessions)

	require.NoError(t, os.WriteFile(dbPath, make([]byte, 2048), 0o644))
	require.NoError(t, os.WriteFile(dbPath+"-wal", make([]byte, 512), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(dir, "unrelated.txt"), make([]byte, 4096), 0o644))

	h = CollectHealth(dbPath, -1)
	assert.Equal(t, int64(2560), h.DatabaseBytes)
	assert.Positive(t, h.Uptime)

	assert.Zero(t, CollectHealth(":memory:", 0).DatabaseBytes)
}

func TestFormatBytes(t *testing.T) {
	assert.Equal(t, "0 B", formatBytes(0))
	assert.Equal(t, "1023 B", formatBytes(1023))
	assert.Equal(t, "2.5 KB", formatBytes(2560))
	assert.Equal(t, "3.0 MB", formatBytes(3<<20))
}

func TestFormatReport(t *testing.T) {
	health := Health{Goroutines: 4, DatabaseBytes: 1024, ActiveSessions: 2, Uptime: 90*time.Minute + 500*time.Millisecond}
	out := FormatReport([]DailyUsage{{Date: "2025-03-10", TotalPrompt: 300, TotalCompletion: 120, TotalExecution: 2, AvgLatencyMS: 2000}}, health)
	assert.Contains(t, out, "2025-03-10: 2 plans, 300 prompt / 120 completion tokens, avg 2000ms")
	assert.Contains(t, out, "Uptime: 1h30m0s")
	assert.Contains(t, out, "Goroutines: 4")
	assert.Contains(t, out, "Database: 1.0 KB")
	assert.Contains(t, out, "Active chats: 2")

	out = FormatReport(nil, Health{ActiveSessions: -1})
	assert.Contains(t, out, "No generations recorded.")
	assert.NotContains(t, out, "Active chats")
}
