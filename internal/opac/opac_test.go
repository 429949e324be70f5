// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package opac

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name    string
		raw     string
		want    string
		wantErr bool
	}{
		{"adds trailing slash", "http://lib.org/cgi-bin/koha", "http://lib.org/cgi-bin/koha/", false},
		{"keeps trailing slash", "http://lib.org/", "http://lib.org/", false},
		{"trims whitespace", "  https://lib.org/koha/ \n", "https://lib.org/koha/", false},
		{"empty", "", "", true},
		{"blank", "   ", "", true},
		{"no scheme", "lib.org/koha", "", true},
		{"ftp scheme", "ftp://lib.org/", "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeBaseURL(tt.raw)
			if tt.wantErr {
				require.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNormalizeBaseURL_EmptyIsSentinel(t *testing.T) {
	_, err := NormalizeBaseURL("")
	assert.ErrorIs(t, err, ErrEmptyBaseURL)
}

func TestSearchURL(t *testing.T) {
	tests := []struct {
		name  string
		terms string
		page  int
		want  string
	}{
		{"spaces become plus", "cat dog", 2, "http://lib.org/opac-search.pl?q=cat+dog&format=rss2&pw=2"},
		{"empty terms browse all", "", 0, "http://lib.org/opac-search.pl?q=&format=rss2&pw=0"},
		{"reserved characters encoded", "au:Smith & Co", 1, "http://lib.org/opac-search.pl?q=au%3ASmith+%26+Co&format=rss2&pw=1"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, SearchURL("http://lib.org/", tt.terms, tt.page))
		})
	}
}

func TestRecordURL(t *testing.T) {
	got := RecordURL("http://lib.org/", "42")
	assert.True(t, strings.HasSuffix(got, "opac-export.pl?bib=42&op=export&format=marcxml"), got)
	assert.Equal(t, "http://lib.org/opac-export.pl?bib=42&op=export&format=marcxml", got)
}

func TestDetailURL(t *testing.T) {
	assert.Equal(t, "http://lib.org/opac-detail.pl?biblionumber=99", DetailURL("http://lib.org/", "99"))
}

func TestAuthorSearchURL(t *testing.T) {
	assert.Equal(t, "opac-search.pl?q=au%3ASmith%2C+J.", AuthorSearchURL("Smith, J."))
}
