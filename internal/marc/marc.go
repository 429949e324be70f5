// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package marc extracts the fields the connector needs from a MARCXML
// record exported by the OPAC.
package marc

import (
	"bytes"
	"encoding/xml"
	"fmt"
	"strings"

	"github.com/pdiddy/opac-connector/internal/lending"
)

// Namespace is the MARC21 slim schema namespace used by opac-export.pl.
const Namespace = "http://www.loc.gov/MARC21/slim"

// MalformedRecordError reports bytes that are not a MARCXML record.
type MalformedRecordError struct {
	Err error
}

func (e *MalformedRecordError) Error() string { return fmt.Sprintf("malformed MARCXML record: %v", e.Err) }

func (e *MalformedRecordError) Unwrap() error { return e.Err }

// Fields holds the extracted subfield values. Every field is the trimmed
// text of the first matching subfield, or "" when the record has none.
type Fields struct {
	Author      string
	Title       string
	DateCreated string

	// Holdings (952) subfields, left raw for the lending resolver. Each is
	// looked up independently across every 952 field.
	Withdrawn string
	Lost      string
	Damaged   string
	DueDate   string
}

// HoldingsFlags returns the lending flags built from the holdings
// subfields. Each subfield is its first occurrence across all 952 fields,
// so flags from different items of the same record can combine.
func (f Fields) HoldingsFlags() lending.Flags {
	return lending.ParseFlags(f.Withdrawn, f.Lost, f.Damaged, f.DueDate)
}

// fieldSpec maps one datafield/subfield pair onto a Fields member.
type fieldSpec struct {
	tag   string
	code  string
	field func(*Fields) *string
}

// fieldTable drives extraction; order is irrelevant.
var fieldTable = []fieldSpec{
	{"100", "a", func(f *Fields) *string { return &f.Author }},
	{"245", "a", func(f *Fields) *string { return &f.Title }},
	{"260", "c", func(f *Fields) *string { return &f.DateCreated }},
	{"952", "0", func(f *Fields) *string { return &f.Withdrawn }},
	{"952", "1", func(f *Fields) *string { return &f.Lost }},
	{"952", "4", func(f *Fields) *string { return &f.Damaged }},
	{"952", "q", func(f *Fields) *string { return &f.DueDate }},
}

type subField struct {
	Code  string `xml:"code,attr"`
	Value string `xml:",chardata"`
}

type dataField struct {
	Tag       string     `xml:"tag,attr"`
	SubFields []subField `xml:"subfield"`
}

type record struct {
	DataFields []dataField `xml:"datafield"`
}

// document accepts either a bare <record> or a <collection> of records.
// Only the first record of a collection is read.
type document struct {
	XMLName    xml.Name
	DataFields []dataField `xml:"datafield"`
	Records    []record    `xml:"record"`
}

// Parse decodes a MARCXML document and extracts Fields. Missing datafields
// and subfields are not errors.
func Parse(data []byte) (Fields, error) {
	if len(bytes.TrimSpace(data)) == 0 {
		return Fields{}, &MalformedRecordError{Err: fmt.Errorf("empty document")}
	}

	var doc document
	if err := xml.Unmarshal(data, &doc); err != nil {
		return Fields{}, &MalformedRecordError{Err: err}
	}

	var all []dataField
	switch doc.XMLName.Local {
	case "record":
		all = doc.DataFields
	case "collection":
		if len(doc.Records) > 0 {
			all = doc.Records[0].DataFields
		}
	default:
		return Fields{}, &MalformedRecordError{Err: fmt.Errorf("unexpected root element <%s>", doc.XMLName.Local)}
	}

	var f Fields
	for _, spec := range fieldTable {
		*spec.field(&f) = firstSubfield(all, spec.tag, spec.code)
	}
	return f, nil
}

// firstSubfield returns the text of the first subfield code under any
// datafield tag, in document order.
func firstSubfield(fields []dataField, tag, code string) string {
	for _, df := range fields {
		if df.Tag != tag {
			continue
		}
		for _, sf := range df.SubFields {
			if sf.Code == code {
				return strings.TrimSpace(sf.Value)
			}
		}
	}
	return ""
}
