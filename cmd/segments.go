package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/calder-analytics/evidence-cli/internal/segment"
)

var (
	segmentsCorpus    string
	segmentsJSON      bool
	segmentsMediaOnly bool
)

var segmentsCmd = &cobra.Command{
	Use:   "segments",
	Short: "List the segments of a corpus without scoring them",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		f := newFetcher()
		corpus, err := loadCorpus(ctx, segmentsCorpus, f)
		if err != nil {
			return err
		}

		seg, err := newSegmenter()
		if err != nil {
			return err
		}
		segments, err := seg.Split(corpus.Text)
		if err != nil {
			return err
		}
		if segmentsMediaOnly {
			segments = segment.Filter(segments, segment.WithMediaRefs())
		}

		if segmentsJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(segments)
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "IDX\tID\tTITLE\tBODY BYTES\tMEDIA")
		for _, s := range segments {
			fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%d\n", s.OrderIndex, s.ID, s.Title, len(s.Body), len(s.MediaRefs))
		}
		return w.Flush()
	},
}

func init() {
	segmentsCmd.Flags().StringVar(&segmentsCorpus, "corpus", "", "corpus file path or URL (required)")
	segmentsCmd.Flags().BoolVar(&segmentsJSON, "json", false, "emit segments as JSON")
	segmentsCmd.Flags().BoolVar(&segmentsMediaOnly, "media-only", false, "list only segments with media references")
	_ = segmentsCmd.MarkFlagRequired("corpus")
	rootCmd.AddCommand(segmentsCmd)
}
