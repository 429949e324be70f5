// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package connector presents a Koha OPAC to a content-management host as a
// repository of external-link records. The host holds a CatalogConnector;
// Koha is the implementation for the Koha OPAC dialect.
//
// See DESIGN.md § Record Assembler.
package connector

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"

	"github.com/pdiddy/opac-connector/internal/citation"
	"github.com/pdiddy/opac-connector/internal/fetch"
	"github.com/pdiddy/opac-connector/internal/metrics"
	"github.com/pdiddy/opac-connector/internal/opac"
	"github.com/pdiddy/opac-connector/pkg/types"
)

// DefaultPageLimit is the page limit used when the configuration leaves it
// unset.
const DefaultPageLimit = 10

// Records are links into the OPAC, never copied files.
const (
	ReturnTypeExternal = "external"
	AnyFileType        = "*"
)

var recordIDRe = regexp.MustCompile(`^\d+$`)

// CatalogConnector is the contract between the host's listing UI and a
// catalog.
type CatalogConnector interface {
	// GetListing browses the catalog. path names a category; category
	// browsing is not supported yet and any path lists the whole catalog.
	GetListing(ctx context.Context, path string, page int) (types.ListingResult, error)

	// Search lists the records matching terms.
	Search(ctx context.Context, terms string, page int) (types.ListingResult, error)

	// DescribeConfigOptions names the settings the host must persist.
	DescribeConfigOptions() []string

	// RenderConfigForm describes the settings form, prefilled from values.
	RenderConfigForm(values map[string]string) ConfigForm

	// SupportedReturnTypes names how the host may use a picked record.
	SupportedReturnTypes() []string

	// SupportedFileTypes names the file types the picker may offer.
	SupportedFileTypes() []string
}

var _ CatalogConnector = (*Koha)(nil)

// Koha is the CatalogConnector for Koha OPACs.
type Koha struct {
	cfg       types.CatalogConfig
	assembler *Assembler
	logger    *slog.Logger
	metrics   *metrics.Collector
}

// Option configures a Koha connector.
type Option func(*options)

type options struct {
	logger      *slog.Logger
	metrics     *metrics.Collector
	assets      AssetResolver
	policy      types.FailurePolicy
	concurrency int
	stripLinks  bool
}

// WithLogger sets the structured logger (default slog.Default()).
func WithLogger(l *slog.Logger) Option { return func(o *options) { o.logger = l } }

// WithMetrics records fetch and listing metrics on m.
func WithMetrics(m *metrics.Collector) Option { return func(o *options) { o.metrics = m } }

// WithAssets sets the resolver for the record icon and thumbnail.
func WithAssets(r AssetResolver) Option { return func(o *options) { o.assets = r } }

// WithFailurePolicy selects how a listing handles a failed record
// (default types.FailListing).
func WithFailurePolicy(p types.FailurePolicy) Option { return func(o *options) { o.policy = p } }

// WithConcurrency sets the number of records fetched in parallel
// (default 1).
func WithConcurrency(n int) Option { return func(o *options) { o.concurrency = n } }

// WithStripLinks controls whether citation snippets keep their anchors
// (default true, anchors removed).
func WithStripLinks(strip bool) Option { return func(o *options) { o.stripLinks = strip } }

// WithConnectorConfig applies every setting of cfg.
func WithConnectorConfig(cfg types.ConnectorConfig) Option {
	return func(o *options) {
		if cfg.FailurePolicy != "" {
			o.policy = cfg.FailurePolicy
		}
		if cfg.Concurrency > 0 {
			o.concurrency = cfg.Concurrency
		}
		o.stripLinks = cfg.StripLinks
		if cfg.AssetBaseURL != "" {
			o.assets = StaticAssets{BaseURL: cfg.AssetBaseURL}
		}
	}
}

// New returns a connector for the catalog at cfg.BaseURL, fetching through
// t. It fails with a *ConfigurationError when the base URL is empty or
// invalid or the page limit is negative.
func New(cfg types.CatalogConfig, t fetch.Transport, opts ...Option) (*Koha, error) {
	base, err := opac.NormalizeBaseURL(cfg.BaseURL)
	if err != nil {
		return nil, &ConfigurationError{Field: "url", Err: err}
	}
	cfg.BaseURL = base

	if cfg.PageLimit < 0 {
		return nil, &ConfigurationError{Field: "page_limit", Err: fmt.Errorf("must be positive, got %d", cfg.PageLimit)}
	}
	if cfg.PageLimit == 0 {
		cfg.PageLimit = DefaultPageLimit
	}
	if t == nil {
		return nil, &ConfigurationError{Field: "transport", Err: errors.New("no transport")}
	}

	o := options{
		logger:      slog.Default(),
		assets:      StaticAssets{},
		policy:      types.FailListing,
		concurrency: 1,
		stripLinks:  true,
	}
	for _, opt := range opts {
		opt(&o)
	}
	if o.policy != types.FailListing && o.policy != types.SkipRecord {
		return nil, &ConfigurationError{Field: "failure_policy", Err: fmt.Errorf("unknown policy %q", o.policy)}
	}
	if o.concurrency < 1 {
		o.concurrency = 1
	}

	return &Koha{
		cfg: cfg,
		assembler: &Assembler{
			baseURL:     cfg.BaseURL,
			pageLimit:   cfg.PageLimit,
			fetcher:     fetch.NewFetcher(t),
			citations:   citation.NewFormatter(o.stripLinks),
			assets:      o.assets,
			policy:      o.policy,
			concurrency: o.concurrency,
			logger:      o.logger,
			metrics:     o.metrics,
		},
		logger:  o.logger,
		metrics: o.metrics,
	}, nil
}

// Config returns the normalized catalog configuration.
func (k *Koha) Config() types.CatalogConfig { return k.cfg }

// GetListing implements CatalogConnector. The listing is the catalog-wide
// search with empty terms; a non-empty path is logged and ignored.
func (k *Koha) GetListing(ctx context.Context, path string, page int) (types.ListingResult, error) {
	if path != "" {
		k.logger.InfoContext(ctx, "category browsing not supported, listing whole catalog", "path", path)
	}
	res, err := k.assembler.AssembleListing(ctx, "", clampPage(page))
	k.metrics.ObserveListing("listing", err)
	return res, err
}

// Search implements CatalogConnector.
func (k *Koha) Search(ctx context.Context, terms string, page int) (types.ListingResult, error) {
	res, err := k.assembler.AssembleListing(ctx, terms, clampPage(page))
	k.metrics.ObserveListing("search", err)
	return res, err
}

// Record assembles a single record by biblionumber.
func (k *Koha) Record(ctx context.Context, recordID string) (types.BibliographicRecord, error) {
	if !recordIDRe.MatchString(recordID) {
		return types.BibliographicRecord{}, fmt.Errorf("%w: %q", ErrInvalidRecordID, recordID)
	}
	return k.assembler.AssembleRecord(ctx, recordID)
}

// DescribeConfigOptions implements CatalogConnector.
func (k *Koha) DescribeConfigOptions() []string { return ConfigOptionNames() }

// RenderConfigForm implements CatalogConnector.
func (k *Koha) RenderConfigForm(values map[string]string) ConfigForm { return RenderConfigForm(values) }

// SupportedReturnTypes implements CatalogConnector.
func (k *Koha) SupportedReturnTypes() []string { return []string{ReturnTypeExternal} }

// SupportedFileTypes implements CatalogConnector.
func (k *Koha) SupportedFileTypes() []string { return []string{AnyFileType} }

func clampPage(page int) int {
	if page < 0 {
		return 0
	}
	return page
}
