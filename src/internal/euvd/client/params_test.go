// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package client

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func floatPtr(f float64) *float64 { return &f }
func intPtr(i int) *int           { return &i }
func boolPtr(b bool) *bool        { return &b }

func TestSearchFiltersValidate(t *testing.T) {
	tests := []struct {
		name      string
		filters   SearchFilters
		wantField string
	}{
		{
			name:    "empty filter set is valid",
			filters: SearchFilters{},
		},
		{
			name: "full valid filter set",
			filters: SearchFilters{
				FromScore: floatPtr(7),
				ToScore:   floatPtr(9.9),
				FromEpss:  floatPtr(0.1),
				ToEpss:    floatPtr(0.95),
				FromDate:  "2024-01-01",
				ToDate:    "2024-12-31",
				Product:   "Exchange Server",
				Vendor:    "Microsoft",
				Exploited: boolPtr(true),
				Page:      intPtr(0),
				Size:      intPtr(50),
			},
		},
		{
			name:      "from_score above 10",
			filters:   SearchFilters{FromScore: floatPtr(10.1)},
			wantField: "from_score",
		},
		{
			name:      "to_score below 0",
			filters:   SearchFilters{ToScore: floatPtr(-0.5)},
			wantField: "to_score",
		},
		{
			name:      "from_score exceeds to_score",
			filters:   SearchFilters{FromScore: floatPtr(8), ToScore: floatPtr(7)},
			wantField: "from_score",
		},
		{
			name:      "from_epss above 1",
			filters:   SearchFilters{FromEpss: floatPtr(1.5)},
			wantField: "from_epss",
		},
		{
			name:      "from_epss exceeds to_epss",
			filters:   SearchFilters{FromEpss: floatPtr(0.9), ToEpss: floatPtr(0.1)},
			wantField: "from_epss",
		},
		{
			name:      "malformed from_date",
			filters:   SearchFilters{FromDate: "01/02/2024"},
			wantField: "from_date",
		},
		{
			name:      "from_date after to_date",
			filters:   SearchFilters{FromDate: "2024-06-01", ToDate: "2024-01-01"},
			wantField: "from_date",
		},
		{
			name:      "from_updated_date after to_updated_date",
			filters:   SearchFilters{FromUpdatedDate: "2025-02-01", ToUpdatedDate: "2025-01-01"},
			wantField: "from_updated_date",
		},
		{
			name:      "negative page",
			filters:   SearchFilters{Page: intPtr(-1)},
			wantField: "page",
		},
		{
			name:      "zero size",
			filters:   SearchFilters{Size: intPtr(0)},
			wantField: "size",
		},
		{
			name:      "size above upstream cap",
			filters:   SearchFilters{Size: intPtr(101)},
			wantField: "size",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.filters.Validate()
			if tt.wantField == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.True(t, IsKind(err, KindValidation), "expected a validation error, got %v", err)

			var ce *Error
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.wantField, ce.Field, "error should name the offending field")
		})
	}
}

func TestSearchFiltersValidateIsDeterministic(t *testing.T) {
	filters := SearchFilters{FromScore: floatPtr(9), ToScore: floatPtr(2)}

	first := filters.Validate()
	second := filters.Validate()

	require.Error(t, first)
	require.Error(t, second)
	assert.Equal(t, first.Error(), second.Error(), "validation must be deterministic for a fixed filter set")
}

func TestSearchFiltersValues(t *testing.T) {
	filters := SearchFilters{
		FromScore: floatPtr(7.5),
		Exploited: boolPtr(true),
		Vendor:    "Cisco",
		Page:      intPtr(2),
		Size:      intPtr(25),
	}
	require.NoError(t, filters.Validate())

	v := filters.Values()

	assert.Equal(t, "7.5", v.Get("fromScore"))
	assert.Equal(t, "true", v.Get("exploited"))
	assert.Equal(t, "Cisco", v.Get("vendor"))
	assert.Equal(t, "2", v.Get("page"))
	assert.Equal(t, "25", v.Get("size"))

	// Unset fields must be omitted entirely, not sent as empty strings.
	for _, absent := range []string{"toScore", "fromEpss", "toEpss", "fromDate", "toDate", "product", "assigner", "text"} {
		_, present := v[absent]
		assert.False(t, present, "unset field %q must not appear in the query", absent)
	}
}

func TestSearchFiltersValuesEmpty(t *testing.T) {
	filters := SearchFilters{}
	v := filters.Values()
	assert.Empty(t, v, "empty filter set must yield no query parameters")
}

func TestValidateEUVDID(t *testing.T) {
	tests := []struct {
		id      string
		wantErr bool
	}{
		{"EUVD-2024-45012", false},
		{"EUVD-2025-4893", false},
		{"", true},
		{"CVE-2024-1234", true},
		{"EUVD-24-45012", true},
		{"euvd-2024-45012", true},
		{"EUVD-2024-", true},
	}

	for _, tt := range tests {
		t.Run(tt.id, func(t *testing.T) {
			err := validateEUVDID(tt.id)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, IsKind(err, KindValidation))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestValidateAdvisoryID(t *testing.T) {
	assert.NoError(t, validateAdvisoryID("cisco-sa-20240101-example"))

	err := validateAdvisoryID("")
	require.Error(t, err)
	assert.True(t, IsKind(err, KindValidation))
}
