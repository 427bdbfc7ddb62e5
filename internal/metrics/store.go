package metrics

import (
	"context"
	"database/sql"
	"time"

	"ai-content-planner/internal/database"
	"ai-content-planner/internal/shared"
)

// ExecutionMetric records metadata for a single generation call.
type ExecutionMetric struct {
	AgentName        string
	Provider         string
	Model            string
	PromptTokens     int
	CompletionTokens int
	LatencyMS        int64
	Timestamp        time.Time
}

// Store handles persistence of metrics to SQLite.
type Store struct {
	db  *sql.DB
	now func() time.Time
}

// NewStore initializes the Store with an existing database connection.
func NewStore(db *sql.DB) *Store {
	return &Store{
		db:  db,
		now: func() time.Time { return time.Now().UTC() },
	}
}

const insertExecutionMetric = `
INSERT INTO execution_metrics (agent_name, provider, model, prompt_tokens, completion_tokens, latency_ms, timestamp)
VALUES (?, ?, ?, ?, ?, ?, ?)`

// Record saves a metric to the database.
func (s *Store) Record(m ExecutionMetric) error {
	ts := m.Timestamp
	if ts.IsZero() {
		ts = s.now()
	}

	_, err := s.db.ExecContext(context.Background(), insertExecutionMetric,
		m.AgentName,
		m.Provider,
		m.Model,
		m.PromptTokens,
		m.CompletionTokens,
		m.LatencyMS,
		ts.UTC().Format(database.TimeFormat),
	)
	return err
}

// RecordMeta records metrics directly from shared.AgentMeta. Calls that
// never reached the provider carry no usage and are skipped.
func (s *Store) RecordMeta(meta shared.AgentMeta) error {
	if meta.Usage.PromptTokens == 0 && meta.Usage.CompletionTokens == 0 {
		return nil
	}
	m := MapUsage(meta.AgentName, meta.Usage, meta.Latency)
	m.Provider = meta.Provider
	m.Timestamp = s.now()
	return s.Record(m)
}

// DailyUsage represents token totals for a single day.
type DailyUsage struct {
	Date            string
	TotalPrompt     int
	TotalCompletion int
	TotalExecution  int
	AvgLatencyMS    int64
}

const dailyUsageQuery = `
SELECT date(timestamp) AS day,
       SUM(prompt_tokens),
       SUM(completion_tokens),
       COUNT(*),
       CAST(AVG(latency_ms) AS INTEGER)
FROM execution_metrics
WHERE timestamp >= ?
GROUP BY day
ORDER BY day DESC`

// GetDailyUsage retrieves usage for the last N days, newest first.
func (s *Store) GetDailyUsage(days int) ([]DailyUsage, error) {
	since := s.now().AddDate(0, 0, -days).Format(database.TimeFormat)
	rows, err := s.db.QueryContext(context.Background(), dailyUsageQuery, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var results []DailyUsage
	for rows.Next() {
		var (
			u    DailyUsage
			day  sql.NullString
			prom sql.NullInt64
			comp sql.NullInt64
		)
		if err := rows.Scan(&day, &prom, &comp, &u.TotalExecution, &u.AvgLatencyMS); err != nil {
			return nil, err
		}
		u.Date = "Unknown"
		if day.Valid {
			u.Date = day.String
		}
		u.TotalPrompt = int(prom.Int64)
		u.TotalCompletion = int(comp.Int64)
		results = append(results, u)
	}
	return results, rows.Err()
}

// Cleanup removes records older than the specified number of days and
// reports how many were deleted.
func (s *Store) Cleanup(olderThanDays int) (int64, error) {
	threshold := s.now().AddDate(0, 0, -olderThanDays).Format(database.TimeFormat)
	res, err := s.db.ExecContext(context.Background(),
		`DELETE FROM execution_metrics WHERE timestamp < ?`, threshold)
	if err != nil {
		return 0, err
	}
	return res.RowsAffected()
}

// MapUsage helper to convert shared.TokenUsage to ExecutionMetric.
func MapUsage(agentName string, usage shared.TokenUsage, latency time.Duration) ExecutionMetric {
	return ExecutionMetric{
		AgentName:        agentName,
		Model:            usage.Model,
		PromptTokens:     usage.PromptTokens,
		CompletionTokens: usage.CompletionTokens,
		LatencyMS:        latency.Milliseconds(),
		Timestamp:        time.Now().UTC(),
	}
}
