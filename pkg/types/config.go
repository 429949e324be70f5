package types

import "time"

// HTTPConfig holds the settings of the transport used to reach the catalog.
type HTTPConfig struct {
	// Timeout is the per-request timeout (default 30s).
	Timeout time.Duration `json:"timeout" yaml:"timeout" mapstructure:"timeout"`

	// UserAgent is the User-Agent header sent to the catalog
	// (e.g. "opac-connector/0.1").
	UserAgent string `json:"user_agent" yaml:"user_agent" mapstructure:"user_agent"`

	// MaxRetries bounds back-off retries on HTTP 429 and 503. Zero uses the
	// default (3); a negative value disables retries.
	MaxRetries int `json:"max_retries" yaml:"max_retries" mapstructure:"max_retries"`

	// RequestsPerSecond limits requests to a single catalog host. Zero
	// disables the limiter.
	RequestsPerSecond float64 `json:"requests_per_second" yaml:"requests_per_second" mapstructure:"requests_per_second"`

	// MaxBodyBytes caps the size of a fetched document (default 8 MiB).
	MaxBodyBytes int64 `json:"max_body_bytes" yaml:"max_body_bytes" mapstructure:"max_body_bytes"`

	// Username and Password enable HTTP basic auth for catalogs behind a
	// login. Usually loaded from .secrets/.
	Username string `json:"username,omitempty" yaml:"username,omitempty" mapstructure:"username"`
	Password string `json:"-" yaml:"-" mapstructure:"password"`
}

// CatalogConfig identifies the OPAC a connector instance talks to.
type CatalogConfig struct {
	// BaseURL is the OPAC cgi-bin root, e.g. "http://lib.org/cgi-bin/koha/".
	// Normalized to end with "/".
	BaseURL string `json:"url" yaml:"url" mapstructure:"url"`

	// PageLimit bounds the number of records assembled per listing
	// (default 10).
	PageLimit int `json:"page_limit" yaml:"page_limit" mapstructure:"page_limit"`
}

// FailurePolicy selects how a listing reacts to a record that cannot be
// fetched or parsed.
type FailurePolicy string

const (
	// FailListing aborts the listing with the aggregated record errors.
	FailListing FailurePolicy = "fail"

	// SkipRecord leaves the record out and reports it in the result.
	SkipRecord FailurePolicy = "skip"
)

// ConnectorConfig holds the record assembly settings.
type ConnectorConfig struct {
	// FailurePolicy is "fail" (default) or "skip".
	FailurePolicy FailurePolicy `json:"failure_policy" yaml:"failure_policy" mapstructure:"failure_policy"`

	// Concurrency is the number of records fetched in parallel (default 1).
	Concurrency int `json:"concurrency" yaml:"concurrency" mapstructure:"concurrency"`

	// StripLinks removes anchors from citation snippets (default true).
	StripLinks bool `json:"strip_links" yaml:"strip_links" mapstructure:"strip_links"`

	// AssetBaseURL is the prefix the default asset resolver uses for the
	// plugin icon.
	AssetBaseURL string `json:"asset_base_url" yaml:"asset_base_url" mapstructure:"asset_base_url"`
}

// ServeConfig holds settings for the HTTP surface.
type ServeConfig struct {
	// Addr is the listen address (default ":8080").
	Addr string `json:"addr" yaml:"addr" mapstructure:"addr"`

	// ShutdownTimeout bounds graceful shutdown (default 10s).
	ShutdownTimeout time.Duration `json:"shutdown_timeout" yaml:"shutdown_timeout" mapstructure:"shutdown_timeout"`
}

// ExportConfig holds settings for listing exports.
type ExportConfig struct {
	// DB is the SQLite snapshot file written by "export --snapshot".
	DB string `json:"db" yaml:"db" mapstructure:"db"`
}

// Config groups every section of opac-connector.yaml.
type Config struct {
	Catalog   CatalogConfig   `json:"catalog" yaml:"catalog" mapstructure:"catalog"`
	HTTP      HTTPConfig      `json:"http" yaml:"http" mapstructure:"http"`
	Connector ConnectorConfig `json:"connector" yaml:"connector" mapstructure:"connector"`
	Serve     ServeConfig     `json:"serve" yaml:"serve" mapstructure:"serve"`
	Export    ExportConfig    `json:"export" yaml:"export" mapstructure:"export"`
}
