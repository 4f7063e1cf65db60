package main

import (
	"encoding/json"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/calder-analytics/evidence-cli/internal/model"
)

var (
	runCorpus  string
	runQuery   string
	runKeyword string
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Answer a single query against a corpus",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		f := newFetcher()
		p, err := buildPipeline(f)
		if err != nil {
			return err
		}

		corpus, err := loadCorpus(ctx, runCorpus, f)
		if err != nil {
			return err
		}

		query := model.Query{
			ID:      "q1",
			Text:    runQuery,
			Keyword: runKeyword,
		}

		result, err := p.RunBatch(ctx, corpus, []model.Query{query})
		if err != nil {
			return eris.Wrap(err, "pipeline run")
		}

		qr := result.Results[0]
		zap.L().Info("query finished",
			zap.String("state", string(qr.State)),
			zap.Int("segments", result.SegmentCount),
			zap.Int("input_tokens", result.TokenUsage.InputTokens),
			zap.Int("output_tokens", result.TokenUsage.OutputTokens),
		)

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(qr)
	},
}

func init() {
	runCmd.Flags().StringVar(&runCorpus, "corpus", "", "corpus file path or URL (required)")
	runCmd.Flags().StringVar(&runQuery, "query", "", "query text (required)")
	runCmd.Flags().StringVar(&runKeyword, "keyword", "", "lexical pre-filter keyword")
	_ = runCmd.MarkFlagRequired("corpus")
	_ = runCmd.MarkFlagRequired("query")
	rootCmd.AddCommand(runCmd)
}
