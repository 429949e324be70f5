// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package lending derives a record's availability from its Koha holdings
// (952) flags.
package lending

import (
	"strconv"
	"strings"

	"github.com/pdiddy/opac-connector/pkg/types"
)

// Flags are the raw holdings values of a record.
type Flags struct {
	Withdrawn int
	Lost      int
	Damaged   int
	DueDate   string
}

// ParseFlags converts raw subfield text into Flags. Numeric subfields that
// are empty or not integers count as 0.
func ParseFlags(withdrawn, lost, damaged, dueDate string) Flags {
	return Flags{
		Withdrawn: atoi(withdrawn),
		Lost:      atoi(lost),
		Damaged:   atoi(damaged),
		DueDate:   strings.TrimSpace(dueDate),
	}
}

func atoi(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Resolve returns the lending status for f. Checks run in a fixed order and
// each later match overrides the earlier result, so damaged beats lost,
// lost beats withdrawn, and any of them beats a due date.
func Resolve(f Flags) types.LendingStatus {
	status := types.Available()
	if f.DueDate != "" {
		status = types.DueOn(f.DueDate)
	}
	if f.Withdrawn == 1 {
		status = types.Unavailable(types.ReasonWithdrawn)
	}
	if f.Lost > 0 {
		status = types.Unavailable(types.ReasonLost)
	}
	if f.Damaged == 1 {
		status = types.Unavailable(types.ReasonDamaged)
	}
	return status
}
