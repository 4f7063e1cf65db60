package model

// Modality identifies the kind of evidence a candidate was derived from.
type Modality string

const (
	ModalityText  Modality = "text"
	ModalityImage Modality = "image"
)

// EvidenceCandidate is a scored, segment-attributed claim about relevance to
// a query. Candidates are produced by a single oracle invocation and are
// immutable; the selector combines them after all scoring completes.
type EvidenceCandidate struct {
	SegmentID    string   `json:"segment_id"`
	SegmentIndex int      `json:"segment_index"`
	SegmentTitle string   `json:"segment_title"`
	Modality     Modality `json:"modality"`
	Score        int      `json:"score"`
	Rationale    string   `json:"rationale,omitempty"`
	Statement    string   `json:"statement"`
}

// SynthesizedAnswer is the single final answer for a query, produced exactly
// once by the synthesizer and persisted by the caller.
type SynthesizedAnswer struct {
	QueryID            string   `json:"query_id"`
	AnswerText         string   `json:"answer_text"`
	SupportingEvidence []string `json:"supporting_evidence"`
	SourceSegmentIDs   []int    `json:"source_segment_ids"`

	// Degraded is set when synthesis failed and the answer falls back to the
	// raw accepted evidence without a synthesized sentence.
	Degraded bool `json:"degraded,omitempty"`
}
