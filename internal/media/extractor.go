// Package media detects media references embedded in segments, retrieves
// them, and turns vision-oracle statements about them into image-modality
// evidence candidates.
package media

import (
	"context"
	"encoding/base64"
	"fmt"
	"path"
	"regexp"
	"strings"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/calder-analytics/evidence-cli/internal/fetcher"
	"github.com/calder-analytics/evidence-cli/internal/model"
	"github.com/calder-analytics/evidence-cli/internal/oracle"
)

// FetchError marks a failed media retrieval. It is non-fatal to the
// pipeline: the affected segment degrades to text-only evidence.
type FetchError struct {
	URI string
	Err error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("media: fetch %s: %v", e.URI, e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Config sets the media reference policy. Hosts and extensions are
// configuration, not hard-coded policy.
type Config struct {
	AllowedHosts      []string
	AllowedExtensions []string
	MaxPerSegment     int
}

// Pattern compiles the reference-detection regexp for the configured hosts
// and extensions. Returns nil when either list is empty, meaning no media
// detection at all.
func (c Config) Pattern() (*regexp.Regexp, error) {
	if len(c.AllowedHosts) == 0 || len(c.AllowedExtensions) == 0 {
		return nil, nil
	}
	hosts := make([]string, len(c.AllowedHosts))
	for i, h := range c.AllowedHosts {
		hosts[i] = regexp.QuoteMeta(h)
	}
	exts := make([]string, len(c.AllowedExtensions))
	for i, e := range c.AllowedExtensions {
		exts[i] = regexp.QuoteMeta(strings.TrimPrefix(e, "."))
	}
	expr := fmt.Sprintf(`https://(?:%s)[^\s"')]*\.(?:%s)`,
		strings.Join(hosts, "|"),
		strings.Join(exts, "|"),
	)
	re, err := regexp.Compile(expr)
	if err != nil {
		return nil, eris.Wrap(err, "media: compile reference pattern")
	}
	return re, nil
}

// mediaTypes maps file extensions to MIME types for the vision payload.
var mediaTypes = map[string]string{
	".png":  "image/png",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".gif":  "image/gif",
	".webp": "image/webp",
}

// Extractor produces image-modality evidence candidates for a segment's
// media references.
type Extractor struct {
	fetch  fetcher.Fetcher
	vision oracle.Vision
	cfg    Config
}

// NewExtractor creates an extractor over the injected fetcher and vision
// oracle.
func NewExtractor(fetch fetcher.Fetcher, vision oracle.Vision, cfg Config) *Extractor {
	return &Extractor{fetch: fetch, vision: vision, cfg: cfg}
}

// Extract fetches each media reference in the segment, asks the vision
// oracle for a grounded statement, and returns one candidate per reference
// that produced a non-sentinel statement. Fetch and vision failures are
// logged and skipped, degrading the segment to whatever evidence remains, so
// Extract only errors when the context is canceled.
func (e *Extractor) Extract(ctx context.Context, query model.Query, seg model.Segment) ([]model.EvidenceCandidate, model.TokenUsage, error) {
	var usage model.TokenUsage
	var out []model.EvidenceCandidate

	refs := seg.MediaRefs
	if e.cfg.MaxPerSegment > 0 && len(refs) > e.cfg.MaxPerSegment {
		refs = refs[:e.cfg.MaxPerSegment]
	}

	for _, uri := range refs {
		if err := ctx.Err(); err != nil {
			return out, usage, eris.Wrap(err, "media: extract canceled")
		}

		data, err := e.fetch.Fetch(ctx, uri)
		if err != nil {
			fetchErr := &FetchError{URI: uri, Err: err}
			zap.L().Warn("media: reference fetch failed, degrading to text-only",
				zap.String("query", query.ID),
				zap.String("segment", seg.ID),
				zap.Error(fetchErr),
			)
			continue
		}

		statement, visionUsage, err := e.vision.Analyze(ctx, query, seg, mediaTypeFor(uri), base64.StdEncoding.EncodeToString(data))
		usage.Add(visionUsage)
		if err != nil {
			zap.L().Warn("media: vision analysis failed, skipping reference",
				zap.String("query", query.ID),
				zap.String("segment", seg.ID),
				zap.String("uri", uri),
				zap.Error(err),
			)
			continue
		}

		// Sentinel replies must never masquerade as positive evidence.
		if oracle.IsSentinel(statement) {
			zap.L().Debug("media: no information in reference",
				zap.String("segment", seg.ID),
				zap.String("uri", uri),
			)
			continue
		}

		out = append(out, model.EvidenceCandidate{
			SegmentID:    seg.ID,
			SegmentIndex: seg.OrderIndex,
			SegmentTitle: seg.Title,
			Modality:     model.ModalityImage,
			Score:        10,
			Rationale:    "vision statement for " + uri,
			Statement:    strings.TrimSpace(statement),
		})
	}

	return out, usage, nil
}

func mediaTypeFor(uri string) string {
	if mt, ok := mediaTypes[strings.ToLower(path.Ext(uri))]; ok {
		return mt
	}
	return "image/png"
}
