// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package export

import (
	"io"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/opac-connector/pkg/types"
)

// CSLItem is a bibliographic entry in CSL (Citation Style Language) form,
// consumable by Pandoc and reference managers.
type CSLItem struct {
	ID     string    `yaml:"id"`
	Type   string    `yaml:"type"`
	Title  string    `yaml:"title"`
	Author []CSLName `yaml:"author,omitempty"`
	Issued *CSLDate  `yaml:"issued,omitempty"`
	URL    string    `yaml:"URL,omitempty"`
	Note   string    `yaml:"note,omitempty"`
}

// CSLName is a person's name in CSL form.
type CSLName struct {
	Family  string `yaml:"family,omitempty"`
	Given   string `yaml:"given,omitempty"`
	Literal string `yaml:"literal,omitempty"`
}

// CSLDate is a date in CSL form using date-parts.
type CSLDate struct {
	DateParts [][]int `yaml:"date-parts"`
}

// MARC 260$c carries free text such as "c1999." or "[2004?]".
var yearRe = regexp.MustCompile(`\b(\d{4})\b`)

// WriteCSL writes records as a CSL-YAML list to w.
func WriteCSL(records []types.BibliographicRecord, w io.Writer) error {
	items := make([]CSLItem, len(records))
	for i, r := range records {
		items[i] = toCSLItem(r)
	}
	enc := yaml.NewEncoder(w)
	defer enc.Close()
	return enc.Encode(items)
}

func toCSLItem(r types.BibliographicRecord) CSLItem {
	item := CSLItem{
		ID:    "koha-" + r.RecordID,
		Type:  "book",
		Title: r.Title,
		URL:   r.DetailURL,
		Note:  r.LendingStatus.String(),
	}
	if r.Author != "" {
		item.Author = []CSLName{parseAuthorName(r.Author)}
	}
	if m := yearRe.FindStringSubmatch(r.DateCreated); m != nil {
		year, _ := strconv.Atoi(m[1])
		item.Issued = &CSLDate{DateParts: [][]int{{year}}}
	}
	return item
}

// parseAuthorName splits a catalog heading into CSL family/given parts.
// Headings are usually inverted ("Austen, Jane,"); names without a comma
// split on the last space.
// Single-token names use the literal field.
func parseAuthorName(name string) CSLName {
	name = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(name), ","))
	if name == "" {
		return CSLName{}
	}
	if family, given, ok := strings.Cut(name, ","); ok {
		return CSLName{
			Family: strings.TrimSpace(family),
			Given:  strings.TrimSpace(given),
		}
	}
	idx := strings.LastIndex(name, " ")
	if idx < 0 {
		return CSLName{Literal: name}
	}
	return CSLName{
		Given:  name[:idx],
		Family: name[idx+1:],
	}
}
