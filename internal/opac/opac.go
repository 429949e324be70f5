// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package opac builds the URLs of a Koha OPAC: the RSS search feed, the
// MARCXML export of a single record, and the human-facing detail page.
package opac

import (
	"errors"
	"fmt"
	"net/url"
	"strings"
)

// ErrEmptyBaseURL is returned by NormalizeBaseURL for a blank base URL.
var ErrEmptyBaseURL = errors.New("catalog base URL is empty")

// NormalizeBaseURL trims raw and guarantees a trailing slash so the
// script names can be appended directly.
func NormalizeBaseURL(raw string) (string, error) {
	base := strings.TrimSpace(raw)
	if base == "" {
		return "", ErrEmptyBaseURL
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", fmt.Errorf("parsing catalog base URL %q: %w", base, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("catalog base URL %q: scheme must be http or https", base)
	}
	if u.Host == "" {
		return "", fmt.Errorf("catalog base URL %q: missing host", base)
	}
	if !strings.HasSuffix(base, "/") {
		base += "/"
	}
	return base, nil
}

// SearchURL returns the RSS2 search feed URL for terms at page. Empty terms
// list the whole catalog. Spaces encode as "+", other reserved characters
// are percent-encoded.
func SearchURL(base, terms string, page int) string {
	return fmt.Sprintf("%sopac-search.pl?q=%s&format=rss2&pw=%d", base, url.QueryEscape(terms), page)
}

// RecordURL returns the MARCXML export URL for a biblionumber.
func RecordURL(base, recordID string) string {
	return fmt.Sprintf("%sopac-export.pl?bib=%s&op=export&format=marcxml", base, url.QueryEscape(recordID))
}

// DetailURL returns the OPAC detail page for a biblionumber. It is a link
// for people and is never fetched.
func DetailURL(base, recordID string) string {
	return fmt.Sprintf("%sopac-detail.pl?biblionumber=%s", base, url.QueryEscape(recordID))
}

// AuthorSearchURL returns the relative author search link used inside
// citation snippets. The "au:" index prefix is escaped with the name so the
// link cannot be mistaken for a URL scheme.
func AuthorSearchURL(author string) string {
	return "opac-search.pl?q=" + url.QueryEscape("au:"+author)
}
