// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines the data structures shared between the catalog
// connector, its HTTP surface, and the CLI.
//
// See DESIGN.md § Layout.
package types

import "fmt"

// Thumbnail dimensions reported for every record. The host picker renders
// catalog records with the plugin icon at this size.
const (
	ThumbnailWidth  = 90
	ThumbnailHeight = 90
)

// StatusKind classifies a record's lending availability.
type StatusKind string

const (
	StatusAvailable   StatusKind = "available"
	StatusDueOn       StatusKind = "due"
	StatusUnavailable StatusKind = "unavailable"
)

// UnavailableReason names the holdings condition that took an item out of
// circulation.
type UnavailableReason string

const (
	ReasonNone      UnavailableReason = ""
	ReasonWithdrawn UnavailableReason = "withdrawn"
	ReasonLost      UnavailableReason = "lost"
	ReasonDamaged   UnavailableReason = "damaged"
)

// LendingStatus is the availability derived from a record's holdings flags.
// Exactly one of the three kinds applies; DueDate is set only for
// StatusDueOn and Reason only for StatusUnavailable.
type LendingStatus struct {
	Kind    StatusKind        `json:"kind" yaml:"kind"`
	DueDate string            `json:"due_date,omitempty" yaml:"due_date,omitempty"`
	Reason  UnavailableReason `json:"reason,omitempty" yaml:"reason,omitempty"`
}

// Available returns the status of an item on the shelf.
func Available() LendingStatus { return LendingStatus{Kind: StatusAvailable} }

// DueOn returns the status of an item on loan until date.
func DueOn(date string) LendingStatus { return LendingStatus{Kind: StatusDueOn, DueDate: date} }

// Unavailable returns the status of an item out of circulation.
func Unavailable(reason UnavailableReason) LendingStatus {
	return LendingStatus{Kind: StatusUnavailable, Reason: reason}
}

// String renders the status the way it is shown to patrons.
func (s LendingStatus) String() string {
	switch s.Kind {
	case StatusDueOn:
		return fmt.Sprintf("Lending status: Due %s.", s.DueDate)
	case StatusUnavailable:
		return fmt.Sprintf("Lending status: Unavailable - %s.", s.Reason)
	default:
		return "Lending status: Currently available."
	}
}

// FeedResultRef is one entry of a search-results feed.
type FeedResultRef struct {
	// RecordID is the biblionumber extracted from the item link.
	RecordID string `json:"record_id" yaml:"record_id"`

	// RawLink is the item's <link> text as published by the catalog.
	RawLink string `json:"raw_link" yaml:"raw_link"`
}

// FeedMetadata holds the OpenSearch pagination values of a results feed.
type FeedMetadata struct {
	TotalResults int `json:"total_results" yaml:"total_results"`
	ItemsPerPage int `json:"items_per_page" yaml:"items_per_page"`
}

// BibliographicRecord is a catalog record presented to the host as a
// pickable external link. String fields are always present and default to
// the empty string.
type BibliographicRecord struct {
	// RecordID is the catalog biblionumber.
	RecordID string `json:"record_id" yaml:"record_id"`

	// Author is the main entry personal name (MARC 100$a).
	Author string `json:"author" yaml:"author"`

	// Title is the title statement (MARC 245$a).
	Title string `json:"title" yaml:"title"`

	// SourceURL is the OPAC detail page; always equal to DetailURL.
	SourceURL string `json:"source" yaml:"source"`

	// DetailURL is the OPAC detail page for RecordID.
	DetailURL string `json:"url" yaml:"url"`

	// ShortTitle is the title shown in compact listings.
	ShortTitle string `json:"shorttitle" yaml:"shorttitle"`

	// Description is the citation snippet, duplicated for hosts that only
	// render descriptions.
	Description string `json:"description" yaml:"description"`

	// CitationHTML is the sanitized citation snippet.
	CitationHTML string `json:"citation" yaml:"citation"`

	// DateCreated is the publication date (MARC 260$c) or empty.
	DateCreated string `json:"datecreated" yaml:"datecreated"`

	// DateModified mirrors DateCreated; the catalog exposes no change date.
	DateModified string `json:"datemodified" yaml:"datemodified"`

	// Size is always empty: records are links, not files.
	Size string `json:"size" yaml:"size"`

	LendingStatus LendingStatus `json:"lending_status" yaml:"lending_status"`

	ThumbnailWidth  int    `json:"thumbnail_width" yaml:"thumbnail_width"`
	ThumbnailHeight int    `json:"thumbnail_height" yaml:"thumbnail_height"`
	IconRef         string `json:"icon" yaml:"icon"`
	ThumbnailRef    string `json:"thumbnail" yaml:"thumbnail"`
}

// ListingResult is the response handed to the host's listing UI for both
// browse and search calls.
type ListingResult struct {
	// AllowAnonymous tells the host no catalog login is required.
	AllowAnonymous bool `json:"nologin" yaml:"nologin"`

	// SupportsLazyLoad tells the host further pages can be requested.
	SupportsLazyLoad bool `json:"dynload" yaml:"dynload"`

	Items []BibliographicRecord `json:"list" yaml:"list"`

	TotalResults int `json:"total" yaml:"total"`
	ItemsPerPage int `json:"perpage" yaml:"perpage"`
	Page         int `json:"page" yaml:"page"`

	// Omitted counts feed items left out of Items. A non-zero value marks
	// the result as partial.
	Omitted int `json:"omitted" yaml:"omitted"`

	// Warnings describes each omitted item.
	Warnings []string `json:"warnings,omitempty" yaml:"warnings,omitempty"`
}

// Partial reports whether some feed items were left out of the listing.
func (r ListingResult) Partial() bool { return r.Omitted > 0 }
