package repository

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"StockScout/internal/domain/models"
	pkgch "StockScout/pkg/clickhouse"
	applogger "StockScout/pkg/logger"
)

// CHRunArchive persists terminal screening runs in ClickHouse.
type CHRunArchive struct {
	db *sql.DB
	ch *pkgch.Client
	l  *applogger.Logger
}

func NewCHRunArchive(ch *pkgch.Client) *CHRunArchive {
	return &CHRunArchive{db: ch.DB(), ch: ch}
}

// SetLogger injects a structured logger.
func (a *CHRunArchive) SetLogger(l *applogger.Logger) { a.l = l }

// Init ensures the runs table exists (idempotent).
func (a *CHRunArchive) Init(ctx context.Context) error {
	stmts := []string{`
        CREATE TABLE IF NOT EXISTS screening_runs (
            task_id         Int64,
            filter_criteria String,
            status          LowCardinality(String),
            total_count     UInt32,
            processed_count UInt32,
            matched_count   UInt32,
            matched         String,
            summary         String,
            error           String,
            created_at      DateTime64(3),
            finished_at     DateTime64(3)
        )
        ENGINE = MergeTree
        ORDER BY (created_at, task_id)
        TTL toDateTime(created_at) + INTERVAL 90 DAY
    `}
	return a.ch.InitSchema(ctx, stmts)
}

// StoreRun inserts one terminal task. Matched stocks are stored as a JSON
// blob; the run rows exist for inspection, not analytics joins.
func (a *CHRunArchive) StoreRun(ctx context.Context, t *models.ScreeningTask) error {
	start := time.Now()
	matched, err := json.Marshal(t.Matched)
	if err != nil {
		return fmt.Errorf("marshal matched: %w", err)
	}

	const q = `
        INSERT INTO screening_runs
            (task_id, filter_criteria, status, total_count, processed_count,
             matched_count, matched, summary, error, created_at, finished_at)
        VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
    `
	_, err = a.db.ExecContext(ctx, q,
		t.ID, t.FilterCriteria, string(t.Status),
		uint32(t.TotalCount), uint32(t.ProcessedCount), uint32(len(t.Matched)),
		string(matched), t.Summary, t.Error, t.CreatedAt, t.FinishedAt)
	if err != nil {
		if a.l != nil {
			a.l.Error("clickhouse store_run insert error",
				applogger.Int64("task_id", t.ID),
				applogger.Error(err),
			)
		}
		return fmt.Errorf("store run: %w", err)
	}
	if a.l != nil {
		a.l.Info("clickhouse store_run ok",
			applogger.Int64("task_id", t.ID),
			applogger.Int("matched", len(t.Matched)),
			applogger.Duration("duration_ms", time.Since(start)),
		)
	}
	return nil
}

// Close releases the connection pool.
func (a *CHRunArchive) Close() error {
	return a.ch.Close()
}
