package models

import "time"

// TaskStatus is the lifecycle state of a screening task. Completed,
// Superseded and Errored are terminal.
type TaskStatus string

const (
	TaskRunning    TaskStatus = "running"
	TaskCompleted  TaskStatus = "completed"
	TaskSuperseded TaskStatus = "superseded"
	TaskErrored    TaskStatus = "errored"
)

// ScreeningTask tracks one screening run. ProcessedCount is monotonically
// non-decreasing and never exceeds TotalCount.
type ScreeningTask struct {
	ID             int64          `json:"id"`
	FilterCriteria string         `json:"filter_criteria"`
	Status         TaskStatus     `json:"status"`
	TotalCount     int            `json:"total_count"`
	ProcessedCount int            `json:"processed_count"`
	Matched        []MatchedStock `json:"matched"`
	Summary        string         `json:"summary,omitempty"`
	Error          string         `json:"error,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	FinishedAt     time.Time      `json:"finished_at,omitempty"`
}

// ProgressSnapshot is an immutable progress event published after each batch
// and on terminal transitions. Matched is a copy, safe to retain.
type ProgressSnapshot struct {
	TaskID         int64          `json:"task_id"`
	FilterCriteria string         `json:"filter_criteria"`
	Status         TaskStatus     `json:"status"`
	ProcessedCount int            `json:"processed_count"`
	TotalCount     int            `json:"total_count"`
	Matched        []MatchedStock `json:"matched"`
	Summary        string         `json:"summary,omitempty"`
	Error          string         `json:"error,omitempty"`
	Timestamp      time.Time      `json:"timestamp"`
}
