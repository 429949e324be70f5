// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package feed parses the OPAC's RSS2 search-results feed into record
// references and OpenSearch pagination metadata.
package feed

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"io"
	"regexp"
	"strconv"
	"strings"

	ext "github.com/mmcdole/gofeed/extensions"
	"github.com/mmcdole/gofeed/rss"

	"github.com/pdiddy/opac-connector/pkg/types"
)

// OpenSearch namespaces. Koha publishes 1.1; the 1.0 RSS namespace is still
// seen on older installations.
const (
	openSearchNS   = "http://a9.com/-/spec/opensearch/1.1/"
	openSearchRSS1 = "http://a9.com/-/spec/opensearchrss/1.0/"
)

var biblionumberRe = regexp.MustCompile(`biblionumber=(\d+)`)

// MalformedFeedError reports bytes that are not an RSS document.
type MalformedFeedError struct {
	Err error
}

func (e *MalformedFeedError) Error() string { return fmt.Sprintf("malformed search feed: %v", e.Err) }

func (e *MalformedFeedError) Unwrap() error { return e.Err }

// MissingIdentifierError reports a feed item whose link carries no
// biblionumber.
type MissingIdentifierError struct {
	Index int
	Link  string
}

func (e *MissingIdentifierError) Error() string {
	return fmt.Sprintf("feed item %d: no biblionumber in link %q", e.Index, e.Link)
}

// Result is a parsed search-results feed.
type Result struct {
	// Refs lists the items carrying a biblionumber, in document order.
	Refs []types.FeedResultRef

	Meta types.FeedMetadata

	// Skipped lists the items left out because their link had no
	// biblionumber.
	Skipped []*MissingIdentifierError
}

// Parse reads an RSS2 document with the OpenSearch extension. Items without
// a biblionumber are skipped and reported in Result.Skipped.
func Parse(data []byte) (Result, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Result{}, &MalformedFeedError{Err: fmt.Errorf("empty document")}
	}

	keys, err := openSearchKeys(data)
	if err != nil {
		return Result{}, &MalformedFeedError{Err: err}
	}

	fp := &rss.Parser{}
	f, err := fp.Parse(bytes.NewReader(data))
	if err != nil {
		return Result{}, &MalformedFeedError{Err: err}
	}

	res := Result{
		Meta: types.FeedMetadata{
			TotalResults: openSearchInt(f.Extensions, keys, "totalResults"),
			ItemsPerPage: openSearchInt(f.Extensions, keys, "itemsPerPage"),
		},
	}

	for i, item := range f.Items {
		link := strings.TrimSpace(item.Link)
		id, ok := ExtractRecordID(link)
		if !ok {
			res.Skipped = append(res.Skipped, &MissingIdentifierError{Index: i, Link: link})
			continue
		}
		res.Refs = append(res.Refs, types.FeedResultRef{RecordID: id, RawLink: link})
	}
	return res, nil
}

// ExtractRecordID returns the first biblionumber in link. The boolean is
// false when the link carries none.
func ExtractRecordID(link string) (string, bool) {
	m := biblionumberRe.FindStringSubmatch(link)
	if m == nil {
		return "", false
	}
	return m[1], true
}

// openSearchKeys checks that the root element is <rss> and returns the
// extension keys under which the parser files OpenSearch elements: every
// prefix bound to an OpenSearch namespace, then the namespace URIs, which
// the parser uses when an element sits in a default namespace.
func openSearchKeys(data []byte) ([]string, error) {
	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.CharsetReader = func(_ string, r io.Reader) (io.Reader, error) { return r, nil }
	dec.Entity = xml.HTMLEntity

	var keys []string
	root := true
	for {
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, err
		}
		se, ok := tok.(xml.StartElement)
		if !ok {
			continue
		}
		if root {
			if se.Name.Local != "rss" {
				return nil, fmt.Errorf("root element <%s> is not <rss>", se.Name.Local)
			}
			root = false
		}
		for _, a := range se.Attr {
			if a.Name.Space == "xmlns" && isOpenSearchNS(a.Value) {
				keys = append(keys, a.Name.Local)
			}
		}
	}
	if root {
		return nil, fmt.Errorf("no root element")
	}
	return append(keys, openSearchNS, openSearchRSS1), nil
}

func isOpenSearchNS(uri string) bool {
	uri = strings.TrimSpace(uri)
	return uri == openSearchNS || uri == openSearchRSS1
}

// openSearchInt returns the integer value of a channel-level OpenSearch
// element, or 0 when it is absent or not a non-negative integer.
func openSearchInt(exts ext.Extensions, keys []string, name string) int {
	for _, key := range keys {
		elems := exts[key][name]
		if len(elems) == 0 {
			continue
		}
		n, err := strconv.Atoi(strings.TrimSpace(elems[0].Value))
		if err != nil || n < 0 {
			return 0
		}
		return n
	}
	return 0
}
