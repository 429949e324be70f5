// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package citation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/opac-connector/pkg/types"
)

func testInput() Input {
	return Input{
		Author:      "Smith, J.",
		Title:       "Test Title",
		DateCreated: "1999.",
		DetailURL:   "http://lib.org/opac-detail.pl?biblionumber=99",
		Status:      types.Available(),
	}
}

func TestFormat_StripsLinks(t *testing.T) {
	out, err := NewFormatter(true).Format(testInput())
	require.NoError(t, err)

	assert.True(t, strings.HasPrefix(out, `<div class="koharecord">`), out)
	assert.Contains(t, out, "Smith, J.")
	assert.Contains(t, out, "Test Title")
	assert.Contains(t, out, "1999.")
	assert.Contains(t, out, `<em class="koharecord_lendingstatus">Lending status: Currently available.</em>`)
	assert.NotContains(t, out, "<a ")
	assert.NotContains(t, out, "href=")
	assert.NotContains(t, out, "</a>")
}

func TestFormat_KeepsLinks(t *testing.T) {
	out, err := NewFormatter(false).Format(testInput())
	require.NoError(t, err)

	assert.Contains(t, out, `<a href="http://lib.org/opac-detail.pl?biblionumber=99">`)
	assert.Contains(t, out, `<a href="opac-search.pl?q=au%3ASmith%2C+J.">Smith, J.</a>`)
}

func TestFormat_EscapesRecordText(t *testing.T) {
	in := testInput()
	in.Title = `<script>alert("x")</script>Title`
	in.Author = `<a href="javascript:evil()">Mallory</a>`

	for _, strip := range []bool{true, false} {
		out, err := NewFormatter(strip).Format(in)
		require.NoError(t, err)

		assert.NotContains(t, out, "<script>")
		assert.NotContains(t, out, `<a href="javascript`)
		assert.Contains(t, out, "&lt;script&gt;")
		assert.Contains(t, out, "Title")
		assert.Contains(t, out, "Mallory")
	}
}

func TestFormat_LendingStatus(t *testing.T) {
	tests := []struct {
		status types.LendingStatus
		want   string
	}{
		{types.DueOn("2024-01-01"), "Lending status: Due 2024-01-01."},
		{types.Unavailable(types.ReasonDamaged), "Lending status: Unavailable - damaged."},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			in := testInput()
			in.Status = tt.status
			out, err := NewFormatter(true).Format(in)
			require.NoError(t, err)
			assert.Contains(t, out, tt.want)
		})
	}
}

func TestFormat_EmptyFields(t *testing.T) {
	out, err := NewFormatter(true).Format(Input{Status: types.Available()})
	require.NoError(t, err)
	assert.NotEmpty(t, out)
	assert.Contains(t, out, "koharecord_lendingstatus")
}
