// Package pipeline orchestrates the evidence retrieval stages: candidate
// scoring with bounded fan-out, deterministic selection, and answer
// synthesis, with per-query failure isolation.
package pipeline

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/calder-analytics/evidence-cli/internal/media"
	"github.com/calder-analytics/evidence-cli/internal/model"
	"github.com/calder-analytics/evidence-cli/internal/oracle"
	"github.com/calder-analytics/evidence-cli/internal/segment"
)

// Options configures the orchestrator. All knobs are passed in explicitly;
// the pipeline reads no ambient configuration.
type Options struct {
	Threshold            int
	MaxConcurrentScores  int
	MaxConcurrentQueries int
	QueryTimeout         time.Duration
}

func (o Options) withDefaults() Options {
	if o.MaxConcurrentScores <= 0 {
		o.MaxConcurrentScores = 4
	}
	if o.MaxConcurrentQueries <= 0 {
		o.MaxConcurrentQueries = 2
	}
	if o.QueryTimeout <= 0 {
		o.QueryTimeout = 2 * time.Minute
	}
	return o
}

// Pipeline drives segmentation, scoring, selection, and synthesis for one or
// many queries against a corpus.
type Pipeline struct {
	opts      Options
	segmenter *segment.Segmenter
	relevance oracle.Relevance
	extractor *media.Extractor // nil disables media evidence
	synth     *Synthesizer
}

// New creates a pipeline. extractor may be nil, in which case segments yield
// text evidence only.
func New(opts Options, seg *segment.Segmenter, relevance oracle.Relevance, extractor *media.Extractor, synth *Synthesizer) *Pipeline {
	return &Pipeline{
		opts:      opts.withDefaults(),
		segmenter: seg,
		relevance: relevance,
		extractor: extractor,
		synth:     synth,
	}
}

// RunBatch answers every query against the corpus. Segmentation runs once
// and is shared read-only by all queries. Queries run concurrently under a
// bounded group; a query's failure never crosses into its siblings, and only
// a malformed corpus aborts the batch. Every query contributes exactly one
// terminal QueryResult, in input order.
func (p *Pipeline) RunBatch(ctx context.Context, corpus model.Corpus, queries []model.Query) (*model.RunResult, error) {
	segments, err := p.segmenter.Split(corpus.Text)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: segment corpus")
	}

	zap.L().Info("pipeline: corpus segmented",
		zap.String("corpus", corpus.ID),
		zap.Int("segments", len(segments)),
		zap.Int("queries", len(queries)),
	)

	result := &model.RunResult{
		SegmentCount: len(segments),
		Results:      make([]model.QueryResult, len(queries)),
	}

	var g errgroup.Group
	g.SetLimit(p.opts.MaxConcurrentQueries)

	for i, q := range queries {
		g.Go(func() error {
			result.Results[i] = p.runQuery(ctx, q, segments)
			return nil
		})
	}
	_ = g.Wait()

	for _, qr := range result.Results {
		result.TokenUsage.Add(qr.TokenUsage)
	}

	return result, nil
}

// runQuery executes the per-query state machine:
// PENDING → SCORING → SELECTING → SYNTHESIZING → {DONE | NO_ANSWER | FAILED}.
// (SEGMENTING runs once per corpus in RunBatch.) It always returns a
// terminal result and never panics or propagates recoverable errors.
func (p *Pipeline) runQuery(ctx context.Context, query model.Query, segments []model.Segment) model.QueryResult {
	start := time.Now()
	log := zap.L().With(zap.String("query", query.ID))

	result := model.QueryResult{
		QueryID: query.ID,
		State:   model.QueryStatePending,
	}
	finish := func(state model.QueryState) model.QueryResult {
		result.State = state
		result.Duration = time.Since(start).Milliseconds()
		log.Info("pipeline: query finished",
			zap.String("state", string(state)),
			zap.Int64("duration_ms", result.Duration),
		)
		return result
	}

	if err := ctx.Err(); err != nil {
		result.Error = err.Error()
		return finish(model.QueryStateFailed)
	}

	// Lexical pre-filter narrows the candidate set before any oracle call.
	candidates := segment.Filter(segments, segment.KeywordPredicate(query.Keyword, query.CaseSensitive))
	if query.Keyword != "" {
		log.Debug("pipeline: lexical pre-filter applied",
			zap.String("keyword", query.Keyword),
			zap.Int("before", len(segments)),
			zap.Int("after", len(candidates)),
		)
	}

	result.State = model.QueryStateScoring
	scored := p.scoreCandidates(ctx, query, candidates, &result.TokenUsage)

	// Caller cancellation is a query failure; a mere scoring timeout is not,
	// since timed-out candidates were already treated as non-matching.
	if err := ctx.Err(); err != nil {
		result.Error = err.Error()
		return finish(model.QueryStateFailed)
	}

	result.State = model.QueryStateSelecting
	accepted := Select(scored, p.opts.Threshold)

	result.State = model.QueryStateSynthesizing
	answer, usage, err := p.synth.Synthesize(ctx, query, accepted)
	result.TokenUsage.Add(usage)
	if err != nil {
		if eris.Is(err, ErrNoEvidence) {
			return finish(model.QueryStateNoAnswer)
		}
		result.Error = err.Error()
		return finish(model.QueryStateFailed)
	}

	result.Answer = &answer
	return finish(model.QueryStateDone)
}

// scoreCandidates fans out one task per candidate segment under a bounded
// group. Each task scores the segment text and, when media references are
// present, extracts image evidence in the same task. Tasks share no mutable
// state beyond the append under mu; a single task's oracle failure drops
// only that candidate.
func (p *Pipeline) scoreCandidates(ctx context.Context, query model.Query, candidates []model.Segment, usage *model.TokenUsage) []model.EvidenceCandidate {
	scoreCtx, cancel := context.WithTimeout(ctx, p.opts.QueryTimeout)
	defer cancel()

	log := zap.L().With(zap.String("query", query.ID))

	var mu sync.Mutex
	var scored []model.EvidenceCandidate

	var g errgroup.Group
	g.SetLimit(p.opts.MaxConcurrentScores)

	for _, seg := range candidates {
		g.Go(func() error {
			cand, scoreUsage, err := p.relevance.Score(scoreCtx, query, seg)

			mu.Lock()
			usage.Add(scoreUsage)
			mu.Unlock()

			if err != nil {
				// Oracle failures (including timeouts) make this candidate
				// non-matching; the query goes on without it.
				log.Warn("pipeline: scoring failed, treating candidate as non-matching",
					zap.String("segment", seg.ID),
					zap.Error(err),
				)
			} else {
				mu.Lock()
				scored = append(scored, cand)
				mu.Unlock()
			}

			if p.extractor == nil || len(seg.MediaRefs) == 0 {
				return nil
			}

			imgCands, imgUsage, err := p.extractor.Extract(scoreCtx, query, seg)
			mu.Lock()
			usage.Add(imgUsage)
			scored = append(scored, imgCands...)
			mu.Unlock()
			if err != nil {
				log.Warn("pipeline: media extraction aborted",
					zap.String("segment", seg.ID),
					zap.Error(err),
				)
			}
			return nil
		})
	}
	_ = g.Wait()

	return scored
}
