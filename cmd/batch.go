package main

import (
	"encoding/json"
	"os"
	"os/signal"
	"syscall"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calder-analytics/evidence-cli/internal/model"
	"github.com/calder-analytics/evidence-cli/internal/registry"
)

var (
	batchCorpus  string
	batchQueries string
	batchNoStore bool
)

var batchCmd = &cobra.Command{
	Use:   "batch",
	Short: "Answer a query set against a corpus and persist the run",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		queries, err := registry.LoadQueriesFromFile(batchQueries)
		if err != nil {
			return err
		}

		f := newFetcher()
		p, err := buildPipeline(f)
		if err != nil {
			return err
		}

		corpus, err := loadCorpus(ctx, batchCorpus, f)
		if err != nil {
			return err
		}

		var runID string
		if !batchNoStore {
			st, err := initStore(ctx)
			if err != nil {
				return err
			}
			defer st.Close() //nolint:errcheck
			if err := st.Migrate(ctx); err != nil {
				return eris.Wrap(err, "migrate store")
			}

			run, err := st.CreateRun(ctx, corpus)
			if err != nil {
				return err
			}
			runID = run.ID
			if err := st.UpdateRunStatus(ctx, runID, model.RunStatusRunning); err != nil {
				return err
			}

			result, err := p.RunBatch(ctx, corpus, queries)
			if err != nil {
				if ferr := st.FailRun(ctx, runID, err.Error()); ferr != nil {
					zap.L().Error("batch: record failure", zap.Error(ferr))
				}
				return eris.Wrap(err, "pipeline batch")
			}
			if err := st.UpdateRunResult(ctx, runID, result); err != nil {
				return err
			}

			zap.L().Info("batch complete",
				zap.String("run_id", runID),
				zap.Int("queries", len(queries)),
				zap.Int("segments", result.SegmentCount),
			)

			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(result)
		}

		result, err := p.RunBatch(ctx, corpus, queries)
		if err != nil {
			return eris.Wrap(err, "pipeline batch")
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(result)
	},
}

func init() {
	batchCmd.Flags().StringVar(&batchCorpus, "corpus", "", "corpus file path or URL (required)")
	batchCmd.Flags().StringVar(&batchQueries, "queries", "", "YAML query set path (required)")
	batchCmd.Flags().BoolVar(&batchNoStore, "no-store", false, "skip persisting the run")
	_ = batchCmd.MarkFlagRequired("corpus")
	_ = batchCmd.MarkFlagRequired("queries")
	rootCmd.AddCommand(batchCmd)
}
