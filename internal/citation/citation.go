// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package citation renders the HTML snippet shown as a record's
// description in the host's file picker.
package citation

import (
	"bytes"
	"fmt"
	"html/template"
	"regexp"
	"strings"

	"github.com/microcosm-cc/bluemonday"

	"github.com/pdiddy/opac-connector/internal/opac"
	"github.com/pdiddy/opac-connector/pkg/types"
)

var snippet = template.Must(template.New("citation").Parse(`<div class="koharecord">
<a href="{{.AuthorURL}}">{{.Author}}</a>.
<a href="{{.DetailURL}}">"{{.Title}}"</a>. {{.DateCreated}}
<br />
<em class="koharecord_lendingstatus">{{.Status}}</em>
</div>`))

var classRe = regexp.MustCompile(`^koharecord(_lendingstatus)?$`)

// Input is the record data embedded in a snippet.
type Input struct {
	Author      string
	Title       string
	DateCreated string
	DetailURL   string
	Status      types.LendingStatus
}

// Formatter renders citation snippets. It is safe for concurrent use.
type Formatter struct {
	policy *bluemonday.Policy
}

// NewFormatter returns a Formatter. With stripLinks the anchors are
// removed from the snippet and their text kept.
func NewFormatter(stripLinks bool) *Formatter {
	p := bluemonday.NewPolicy()
	p.AllowElements("div", "em", "br")
	p.AllowAttrs("class").Matching(classRe).OnElements("div", "em")
	if !stripLinks {
		p.AllowRelativeURLs(true)
		p.AllowURLSchemes("http", "https")
		p.AllowAttrs("href").OnElements("a")
	}
	return &Formatter{policy: p}
}

// Format renders and sanitizes the snippet for in.
func (f *Formatter) Format(in Input) (string, error) {
	data := struct {
		Input
		AuthorURL string
		Status    string
	}{
		Input:     in,
		AuthorURL: opac.AuthorSearchURL(in.Author),
		Status:    in.Status.String(),
	}

	var buf bytes.Buffer
	if err := snippet.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("rendering citation: %w", err)
	}
	return strings.TrimSpace(f.policy.Sanitize(buf.String())), nil
}
