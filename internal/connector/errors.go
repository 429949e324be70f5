// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package connector

import (
	"errors"
	"fmt"
)

// ErrInvalidRecordID is returned for a biblionumber that is not a positive
// decimal number.
var ErrInvalidRecordID = errors.New("invalid record id")

// ConfigurationError reports connector settings that make it unusable.
type ConfigurationError struct {
	Field string
	Err   error
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("invalid catalog configuration: %s: %v", e.Field, e.Err)
}

func (e *ConfigurationError) Unwrap() error { return e.Err }

// RecordError ties a per-record failure to its biblionumber.
type RecordError struct {
	RecordID string
	Err      error
}

func (e *RecordError) Error() string { return fmt.Sprintf("record %s: %v", e.RecordID, e.Err) }

func (e *RecordError) Unwrap() error { return e.Err }
