// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package connector

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/pdiddy/opac-connector/internal/opac"
	"github.com/pdiddy/opac-connector/pkg/types"
)

// Setting names persisted by the host.
const (
	OptionURL        = "url"
	OptionPageLimit  = "page_limit"
	OptionPluginName = "pluginname"
)

// Strings shown by the host for this connector.
var Strings = map[string]string{
	"pluginname":      "Koha ILS",
	"pluginname_help": "For accessing records in a Koha library system",
	"breadcrumb":      "Koha",
	"configplugin":    "Koha ILS configuration",
	"page_limit":      "Records per page",
	"page_limit_help": "The number of records to display in search results.",
	"search":          "Search Koha",
	"url":             "Koha URL",
	"url_help":        "The URL of your Koha library system.",
}

// FieldType is the input type of a form field.
type FieldType string

const (
	FieldText FieldType = "text"
	FieldURL  FieldType = "url"
	FieldInt  FieldType = "int"
)

// FormField describes one input of the settings form.
type FormField struct {
	Name     string    `json:"name" yaml:"name"`
	Label    string    `json:"label" yaml:"label"`
	Help     string    `json:"help,omitempty" yaml:"help,omitempty"`
	Type     FieldType `json:"type" yaml:"type"`
	Required bool      `json:"required" yaml:"required"`
	Size     int       `json:"size" yaml:"size"`
	Value    string    `json:"value" yaml:"value"`
}

// ConfigForm is a host-independent description of the settings form.
type ConfigForm struct {
	Title  string      `json:"title" yaml:"title"`
	Fields []FormField `json:"fields" yaml:"fields"`
}

// ConfigOptionNames returns the settings the host persists for the
// connector.
func ConfigOptionNames() []string {
	return []string{OptionURL, OptionPageLimit, OptionPluginName}
}

// RenderConfigForm describes the settings form, prefilled from values.
// An empty page limit is prefilled with the default.
func RenderConfigForm(values map[string]string) ConfigForm {
	pageLimit := strings.TrimSpace(values[OptionPageLimit])
	if pageLimit == "" {
		pageLimit = strconv.Itoa(DefaultPageLimit)
	}
	pluginName := values[OptionPluginName]
	if pluginName == "" {
		pluginName = Strings["pluginname"]
	}
	return ConfigForm{
		Title: Strings["configplugin"],
		Fields: []FormField{
			{Name: OptionPluginName, Label: "Name", Type: FieldText, Size: 40, Value: pluginName},
			{
				Name: OptionURL, Label: Strings["url"], Help: Strings["url_help"],
				Type: FieldURL, Required: true, Size: 100, Value: strings.TrimSpace(values[OptionURL]),
			},
			{
				Name: OptionPageLimit, Label: Strings["page_limit"], Help: Strings["page_limit_help"],
				Type: FieldInt, Required: true, Size: 10, Value: pageLimit,
			},
		},
	}
}

// ValidateConfigForm checks submitted settings and returns an error message
// per invalid field. An empty map means the values are acceptable.
func ValidateConfigForm(values map[string]string) map[string]string {
	problems := make(map[string]string)
	if _, err := opac.NormalizeBaseURL(values[OptionURL]); err != nil {
		problems[OptionURL] = err.Error()
	}
	if raw := strings.TrimSpace(values[OptionPageLimit]); raw == "" {
		problems[OptionPageLimit] = "required"
	} else if n, err := strconv.Atoi(raw); err != nil || n < 1 {
		problems[OptionPageLimit] = fmt.Sprintf("must be a positive integer, got %q", raw)
	}
	return problems
}

// CatalogConfigFromForm converts validated settings into a CatalogConfig.
func CatalogConfigFromForm(values map[string]string) (types.CatalogConfig, error) {
	if problems := ValidateConfigForm(values); len(problems) > 0 {
		for _, name := range []string{OptionURL, OptionPageLimit} {
			if msg, ok := problems[name]; ok {
				return types.CatalogConfig{}, &ConfigurationError{Field: name, Err: errors.New(msg)}
			}
		}
	}
	n, _ := strconv.Atoi(strings.TrimSpace(values[OptionPageLimit]))
	base, _ := opac.NormalizeBaseURL(values[OptionURL])
	return types.CatalogConfig{BaseURL: base, PageLimit: n}, nil
}
