// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package lending

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/pdiddy/opac-connector/pkg/types"
)

func TestResolve(t *testing.T) {
	tests := []struct {
		name  string
		flags Flags
		want  types.LendingStatus
	}{
		{"no flags", Flags{}, types.Available()},
		{"due date", Flags{DueDate: "2024-01-01"}, types.DueOn("2024-01-01")},
		{"withdrawn", Flags{Withdrawn: 1}, types.Unavailable(types.ReasonWithdrawn)},
		{"withdrawn other value ignored", Flags{Withdrawn: 2}, types.Available()},
		{"lost", Flags{Lost: 1}, types.Unavailable(types.ReasonLost)},
		{"lost any positive code", Flags{Lost: 3}, types.Unavailable(types.ReasonLost)},
		{"lost negative ignored", Flags{Lost: -1}, types.Available()},
		{"damaged", Flags{Damaged: 1}, types.Unavailable(types.ReasonDamaged)},
		{"damaged beats due date", Flags{Damaged: 1, DueDate: "2024-01-01"}, types.Unavailable(types.ReasonDamaged)},
		{"withdrawn beats due date", Flags{Withdrawn: 1, DueDate: "2024-01-01"}, types.Unavailable(types.ReasonWithdrawn)},
		{"lost beats withdrawn", Flags{Withdrawn: 1, Lost: 1}, types.Unavailable(types.ReasonLost)},
		{"damaged beats lost", Flags{Lost: 2, Damaged: 1}, types.Unavailable(types.ReasonDamaged)},
		{"all flags", Flags{Withdrawn: 1, Lost: 1, Damaged: 1, DueDate: "2024-01-01"}, types.Unavailable(types.ReasonDamaged)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Resolve(tt.flags))
		})
	}
}

func TestParseFlags(t *testing.T) {
	tests := []struct {
		name                              string
		withdrawn, lost, damaged, dueDate string
		want                              Flags
	}{
		{"all empty", "", "", "", "", Flags{}},
		{"numeric", "1", "2", "1", "2024-01-01", Flags{Withdrawn: 1, Lost: 2, Damaged: 1, DueDate: "2024-01-01"}},
		{"padded", " 1 ", "0", " 0", " 2025-06-30 ", Flags{Withdrawn: 1, DueDate: "2025-06-30"}},
		{"garbage", "yes", "x", "1.0", "", Flags{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ParseFlags(tt.withdrawn, tt.lost, tt.damaged, tt.dueDate))
		})
	}
}

func TestResolve_EmptyHoldingsIsAvailable(t *testing.T) {
	status := Resolve(ParseFlags("", "", "", ""))
	assert.Equal(t, types.StatusAvailable, status.Kind)
	assert.Equal(t, "Lending status: Currently available.", status.String())
}

func TestStatusStrings(t *testing.T) {
	assert.Equal(t, "Lending status: Due 2024-01-01.", types.DueOn("2024-01-01").String())
	assert.Equal(t, "Lending status: Unavailable - withdrawn.", types.Unavailable(types.ReasonWithdrawn).String())
	assert.Equal(t, "Lending status: Unavailable - lost.", types.Unavailable(types.ReasonLost).String())
	assert.Equal(t, "Lending status: Unavailable - damaged.", types.Unavailable(types.ReasonDamaged).String())
}
