package main

import (
	"context"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/rotisserie/eris"

	"github.com/calder-analytics/evidence-cli/internal/fetcher"
	"github.com/calder-analytics/evidence-cli/internal/media"
	"github.com/calder-analytics/evidence-cli/internal/model"
	"github.com/calder-analytics/evidence-cli/internal/oracle"
	"github.com/calder-analytics/evidence-cli/internal/pipeline"
	"github.com/calder-analytics/evidence-cli/internal/segment"
	"github.com/calder-analytics/evidence-cli/internal/store"
	"github.com/calder-analytics/evidence-cli/pkg/claude"
)

func initStore(ctx context.Context) (store.Store, error) {
	switch cfg.Store.Driver {
	case "sqlite":
		dsn := cfg.Store.DatabaseURL
		if dsn == "" {
			dsn = "evidence.db"
		}
		return store.NewSQLite(dsn)
	case "postgres":
		return store.NewPostgres(ctx, cfg.Store.DatabaseURL, nil)
	default:
		return nil, eris.Errorf("unsupported store driver: %s", cfg.Store.Driver)
	}
}

func newFetcher() *fetcher.HTTPFetcher {
	return fetcher.NewHTTPFetcher(fetcher.HTTPOptions{
		UserAgent:    cfg.Fetch.UserAgent,
		Timeout:      time.Duration(cfg.Fetch.TimeoutSecs) * time.Second,
		MaxRetries:   cfg.Fetch.MaxRetries,
		MaxBodyBytes: cfg.Fetch.MaxBodyBytes,
	})
}

// loadCorpus reads the corpus from a local path or, when the source parses
// as an http(s) URL, fetches it over the network.
func loadCorpus(ctx context.Context, source string, f fetcher.Fetcher) (model.Corpus, error) {
	if u, err := url.Parse(source); err == nil && (u.Scheme == "http" || u.Scheme == "https") {
		data, err := f.Fetch(ctx, source)
		if err != nil {
			return model.Corpus{}, eris.Wrapf(err, "fetch corpus %s", source)
		}
		return model.NewCorpus(source, string(data)), nil
	}

	data, err := os.ReadFile(source)
	if err != nil {
		return model.Corpus{}, eris.Wrapf(err, "read corpus %s", source)
	}
	return model.NewCorpus(source, string(data)), nil
}

func newSegmenter() (*segment.Segmenter, error) {
	pattern, err := mediaConfig().Pattern()
	if err != nil {
		return nil, eris.Wrap(err, "compile media pattern")
	}
	return segment.NewSegmenter(pattern), nil
}

func mediaConfig() media.Config {
	return media.Config{
		AllowedHosts:      cfg.Media.AllowedHosts,
		AllowedExtensions: cfg.Media.AllowedExtensions,
		MaxPerSegment:     cfg.Media.MaxPerSegment,
	}
}

// buildPipeline wires the oracles, segmenter, and media extractor from config.
func buildPipeline(f fetcher.Fetcher) (*pipeline.Pipeline, error) {
	if cfg.Anthropic.Key == "" {
		return nil, eris.New("anthropic API key is required (EVIDENCE_ANTHROPIC_KEY)")
	}
	client := claude.NewClient(cfg.Anthropic.Key)

	var relevance oracle.Relevance
	switch strings.ToLower(cfg.Pipeline.Strategy) {
	case "graded", "":
		relevance = oracle.NewGraded(client, cfg.Anthropic.ScoringModel)
	case "binary":
		relevance = oracle.NewBinary(client, cfg.Anthropic.ScoringModel)
	default:
		return nil, eris.Errorf("unsupported scoring strategy: %s", cfg.Pipeline.Strategy)
	}

	seg, err := newSegmenter()
	if err != nil {
		return nil, err
	}

	var extractor *media.Extractor
	if cfg.Media.Enabled {
		vision := oracle.NewVision(client, cfg.Anthropic.VisionModel)
		extractor = media.NewExtractor(f, vision, mediaConfig())
	}

	synth := pipeline.NewSynthesizer(oracle.NewSynthesis(client, cfg.Anthropic.SynthesisModel))

	opts := pipeline.Options{
		Threshold:            cfg.Pipeline.Threshold,
		MaxConcurrentScores:  cfg.Pipeline.MaxConcurrentScores,
		MaxConcurrentQueries: cfg.Pipeline.MaxConcurrentQueries,
		QueryTimeout:         time.Duration(cfg.Pipeline.QueryTimeoutSecs) * time.Second,
	}
	return pipeline.New(opts, seg, relevance, extractor, synth), nil
}
