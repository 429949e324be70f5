// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package connector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/pdiddy/opac-connector/internal/citation"
	"github.com/pdiddy/opac-connector/internal/feed"
	"github.com/pdiddy/opac-connector/internal/fetch"
	"github.com/pdiddy/opac-connector/internal/lending"
	"github.com/pdiddy/opac-connector/internal/marc"
	"github.com/pdiddy/opac-connector/internal/metrics"
	"github.com/pdiddy/opac-connector/internal/opac"
	"github.com/pdiddy/opac-connector/pkg/types"
)

// Assembler turns catalog feeds and MARCXML exports into
// BibliographicRecords. It holds no mutable state and is safe for
// concurrent use.
type Assembler struct {
	baseURL     string
	pageLimit   int
	fetcher     *fetch.Fetcher
	citations   *citation.Formatter
	assets      AssetResolver
	policy      types.FailurePolicy
	concurrency int
	logger      *slog.Logger
	metrics     *metrics.Collector
}

// AssembleListing searches the catalog for terms at page and assembles up
// to the page limit of records, in feed order.
//
// Feed items without a biblionumber are always skipped and counted in
// Omitted. A record that cannot be fetched or parsed fails the whole
// listing under FailListing, or is skipped and counted under SkipRecord.
func (a *Assembler) AssembleListing(ctx context.Context, terms string, page int) (types.ListingResult, error) {
	searchURL := opac.SearchURL(a.baseURL, terms, page)

	start := time.Now()
	data, err := a.fetcher.Fetch(ctx, searchURL)
	var parsed feed.Result
	if err == nil {
		parsed, err = feed.Parse(data)
	}
	a.metrics.ObserveFetch(metrics.KindFeed, start, err)
	if err != nil {
		return types.ListingResult{}, fmt.Errorf("searching catalog: %w", err)
	}

	res := types.ListingResult{
		AllowAnonymous:   true,
		SupportsLazyLoad: true,
		Items:            []types.BibliographicRecord{},
		TotalResults:     parsed.Meta.TotalResults,
		ItemsPerPage:     parsed.Meta.ItemsPerPage,
		Page:             page,
	}
	for _, skipped := range parsed.Skipped {
		a.logger.WarnContext(ctx, "feed item without biblionumber",
			"index", skipped.Index,
			"link", skipped.Link)
		res.Omitted++
		res.Warnings = append(res.Warnings, skipped.Error())
	}

	refs := parsed.Refs
	if len(refs) > a.pageLimit {
		refs = refs[:a.pageLimit]
	}

	records := make([]types.BibliographicRecord, len(refs))
	errs := make([]error, len(refs))

	var g errgroup.Group
	g.SetLimit(a.concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			rec, err := a.AssembleRecord(ctx, ref.RecordID)
			if err != nil {
				errs[i] = &RecordError{RecordID: ref.RecordID, Err: err}
				return nil
			}
			records[i] = rec
			return nil
		})
	}
	g.Wait()

	if err := ctx.Err(); err != nil {
		return types.ListingResult{}, err
	}

	var failed []error
	for i := range refs {
		if errs[i] != nil {
			failed = append(failed, errs[i])
			continue
		}
		res.Items = append(res.Items, records[i])
	}

	if len(failed) > 0 {
		if a.policy != types.SkipRecord {
			return types.ListingResult{}, fmt.Errorf("%d of %d records failed: %w",
				len(failed), len(refs), errors.Join(failed...))
		}
		for _, err := range failed {
			a.logger.WarnContext(ctx, "skipping record", "error", err)
			res.Omitted++
			res.Warnings = append(res.Warnings, err.Error())
		}
	}

	a.metrics.AddOmitted(res.Omitted)
	a.logger.DebugContext(ctx, "listing assembled",
		"terms", terms,
		"page", page,
		"items", len(res.Items),
		"omitted", res.Omitted,
		"total", res.TotalResults)
	return res, nil
}

// AssembleRecord fetches, parses, and assembles the record with the given
// biblionumber.
func (a *Assembler) AssembleRecord(ctx context.Context, recordID string) (types.BibliographicRecord, error) {
	start := time.Now()
	data, err := a.fetcher.Fetch(ctx, opac.RecordURL(a.baseURL, recordID))
	var fields marc.Fields
	if err == nil {
		fields, err = marc.Parse(data)
	}
	a.metrics.ObserveFetch(metrics.KindRecord, start, err)
	if err != nil {
		return types.BibliographicRecord{}, err
	}
	return a.build(recordID, fields)
}

// build assembles a record from parsed MARC fields.
func (a *Assembler) build(recordID string, f marc.Fields) (types.BibliographicRecord, error) {
	status := lending.Resolve(f.HoldingsFlags())
	detail := opac.DetailURL(a.baseURL, recordID)

	cite, err := a.citations.Format(citation.Input{
		Author:      f.Author,
		Title:       f.Title,
		DateCreated: f.DateCreated,
		DetailURL:   detail,
		Status:      status,
	})
	if err != nil {
		return types.BibliographicRecord{}, err
	}

	icon := a.assets.ResolveAsset(PluginID, iconAsset)
	return types.BibliographicRecord{
		RecordID:        recordID,
		Author:          f.Author,
		Title:           f.Title,
		SourceURL:       detail,
		DetailURL:       detail,
		ShortTitle:      f.Title,
		Description:     cite,
		CitationHTML:    cite,
		DateCreated:     f.DateCreated,
		DateModified:    f.DateCreated,
		Size:            "",
		LendingStatus:   status,
		ThumbnailWidth:  types.ThumbnailWidth,
		ThumbnailHeight: types.ThumbnailHeight,
		IconRef:         icon,
		ThumbnailRef:    icon,
	}, nil
}
