// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package connectortest provides a fake Koha OPAC for tests. It serves the
// RSS2 search feed and MARCXML exports the connector consumes.
package connectortest

import (
	"fmt"
	"html"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"time"
)

// Record is a catalog record served by the fake OPAC. Empty fields are left
// out of the MARCXML export.
type Record struct {
	ID        string
	Author    string
	Title     string
	Date      string
	Withdrawn string
	Lost      string
	Damaged   string
	DueDate   string
}

// Catalog is a fake OPAC. Configure it before starting the server; the
// request log is safe to read concurrently.
type Catalog struct {
	// Records are served by opac-export.pl, keyed by biblionumber.
	Records map[string]Record

	// Feed lists the links of the search feed items, in order. Use Link to
	// build detail links.
	Feed []string

	// TotalResults and ItemsPerPage are published as OpenSearch elements
	// when non-zero.
	TotalResults int
	ItemsPerPage int

	// FeedStatus, when non-zero, is returned by opac-search.pl instead of
	// the feed. FeedBody replaces the generated feed when non-empty.
	FeedStatus int
	FeedBody   string

	// RecordStatus maps a biblionumber to an error status for its export.
	RecordStatus map[string]int

	// RecordBody maps a biblionumber to a raw export body.
	RecordBody map[string]string

	// RecordDelay delays every export response.
	RecordDelay map[string]time.Duration

	mu       sync.Mutex
	requests []string
}

// Link returns the OPAC detail link the feed publishes for id.
func Link(id string) string {
	return "http://opac.example/cgi-bin/koha/opac-detail.pl?biblionumber=" + id
}

// NewServer starts an httptest server for c. The catalog base URL is
// server.URL + "/".
func NewServer(c *Catalog) *httptest.Server {
	return httptest.NewServer(c)
}

// Requests returns the request URIs served so far.
func (c *Catalog) Requests() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]string(nil), c.requests...)
}

// ServeHTTP implements http.Handler.
func (c *Catalog) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	c.mu.Lock()
	c.requests = append(c.requests, r.URL.RequestURI())
	c.mu.Unlock()

	switch r.URL.Path {
	case "/opac-search.pl":
		c.serveFeed(w)
	case "/opac-export.pl":
		c.serveRecord(w, r.URL.Query().Get("bib"))
	default:
		http.NotFound(w, r)
	}
}

func (c *Catalog) serveFeed(w http.ResponseWriter) {
	if c.FeedStatus != 0 {
		http.Error(w, "search failed", c.FeedStatus)
		return
	}
	w.Header().Set("Content-Type", "application/rss+xml; charset=utf-8")
	if c.FeedBody != "" {
		fmt.Fprint(w, c.FeedBody)
		return
	}
	fmt.Fprint(w, FeedXML(c.Feed, c.TotalResults, c.ItemsPerPage))
}

func (c *Catalog) serveRecord(w http.ResponseWriter, id string) {
	if d := c.RecordDelay[id]; d > 0 {
		time.Sleep(d)
	}
	if status := c.RecordStatus[id]; status != 0 {
		http.Error(w, "export failed", status)
		return
	}
	w.Header().Set("Content-Type", "application/xml; charset=utf-8")
	if body, ok := c.RecordBody[id]; ok {
		fmt.Fprint(w, body)
		return
	}
	rec, ok := c.Records[id]
	if !ok {
		http.NotFound(w, nil)
		return
	}
	fmt.Fprint(w, RecordXML(rec))
}

// FeedXML renders an RSS2 search feed with one item per link.
func FeedXML(links []string, total, perPage int) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<rss version="2.0" xmlns:opensearch="http://a9.com/-/spec/opensearch/1.1/" xmlns:atom="http://www.w3.org/2005/Atom">
<channel>
<title>Search results</title>
`)
	if total != 0 {
		fmt.Fprintf(&b, "<opensearch:totalResults>%d</opensearch:totalResults>\n", total)
	}
	if perPage != 0 {
		fmt.Fprintf(&b, "<opensearch:itemsPerPage>%d</opensearch:itemsPerPage>\n", perPage)
	}
	for i, link := range links {
		fmt.Fprintf(&b, "<item><title>Item %d</title><link>%s</link></item>\n", i, html.EscapeString(link))
	}
	b.WriteString("</channel>\n</rss>\n")
	return b.String()
}

// RecordXML renders r as a MARCXML record.
func RecordXML(r Record) string {
	var b strings.Builder
	b.WriteString(`<?xml version="1.0" encoding="UTF-8"?>
<record xmlns="http://www.loc.gov/MARC21/slim">
<leader>00000nam a2200000 a 4500</leader>
`)
	fmt.Fprintf(&b, "<controlfield tag=\"001\">%s</controlfield>\n", html.EscapeString(r.ID))
	datafield(&b, "100", [][2]string{{"a", r.Author}})
	datafield(&b, "245", [][2]string{{"a", r.Title}})
	datafield(&b, "260", [][2]string{{"c", r.Date}})
	datafield(&b, "952", [][2]string{{"0", r.Withdrawn}, {"1", r.Lost}, {"4", r.Damaged}, {"q", r.DueDate}})
	b.WriteString("</record>\n")
	return b.String()
}

func datafield(b *strings.Builder, tag string, subfields [][2]string) {
	var inner strings.Builder
	for _, sf := range subfields {
		if sf[1] == "" {
			continue
		}
		fmt.Fprintf(&inner, "<subfield code=\"%s\">%s</subfield>", sf[0], html.EscapeString(sf[1]))
	}
	if inner.Len() == 0 {
		return
	}
	fmt.Fprintf(b, "<datafield tag=\"%s\" ind1=\" \" ind2=\" \">%s</datafield>\n", tag, inner.String())
}
