package model

import "time"

// QueryState is the terminal or in-flight state of a single query inside a
// run. A query always ends in exactly one of DONE, NO_ANSWER, or FAILED.
type QueryState string

const (
	QueryStatePending      QueryState = "PENDING"
	QueryStateSegmenting   QueryState = "SEGMENTING"
	QueryStateScoring      QueryState = "SCORING"
	QueryStateSelecting    QueryState = "SELECTING"
	QueryStateSynthesizing QueryState = "SYNTHESIZING"
	QueryStateDone         QueryState = "DONE"
	QueryStateNoAnswer     QueryState = "NO_ANSWER"
	QueryStateFailed       QueryState = "FAILED"
)

// Terminal reports whether the state is one of the three terminal outcomes.
func (s QueryState) Terminal() bool {
	switch s {
	case QueryStateDone, QueryStateNoAnswer, QueryStateFailed:
		return true
	}
	return false
}

// QueryResult is the terminal outcome of one query within a run.
type QueryResult struct {
	QueryID    string             `json:"query_id"`
	State      QueryState         `json:"state"`
	Answer     *SynthesizedAnswer `json:"answer,omitempty"`
	Error      string             `json:"error,omitempty"`
	TokenUsage TokenUsage         `json:"token_usage"`
	Duration   int64              `json:"duration_ms"`
}

// RunStatus tracks the lifecycle of a stored run.
type RunStatus string

const (
	RunStatusQueued   RunStatus = "queued"
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// Run is a persisted record of one batch execution against a corpus.
type Run struct {
	ID        string     `json:"id"`
	CorpusID  string     `json:"corpus_id"`
	Source    string     `json:"source"`
	Status    RunStatus  `json:"status"`
	Result    *RunResult `json:"result,omitempty"`
	Error     string     `json:"error,omitempty"`
	CreatedAt time.Time  `json:"created_at"`
	UpdatedAt time.Time  `json:"updated_at"`
}

// RunResult is the persisted payload of a finished run: one QueryResult per
// query, in the same order as the input query list.
type RunResult struct {
	SegmentCount int           `json:"segment_count"`
	Results      []QueryResult `json:"results"`
	TokenUsage   TokenUsage    `json:"token_usage"`
}

// TokenUsage tracks oracle token consumption.
type TokenUsage struct {
	InputTokens  int `json:"input_tokens"`
	OutputTokens int `json:"output_tokens"`
}

// Add merges token usage from another instance.
func (t *TokenUsage) Add(other TokenUsage) {
	t.InputTokens += other.InputTokens
	t.OutputTokens += other.OutputTokens
}
