// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package models_test

import (
	"encoding/json"
	"testing"

	"github.com/H0llyW00dzZ/euvd-mcp/src/internal/euvd/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIDPattern(t *testing.T) {
	tests := []struct {
		id   string
		want bool
	}{
		{"EUVD-2024-45012", true},
		{"EUVD-2025-4893", true},
		{"EUVD-1999-1", true},
		{"", false},
		{"CVE-2024-45012", false},
		{"EUVD-202-45012", false},
		{"EUVD-2024-45012-extra", false},
		{"euvd-2024-45012", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.want, models.IDPattern.MatchString(tt.id), "IDPattern.MatchString(%q)", tt.id)
	}
}

func TestVulnerabilityAliasAndReferenceLists(t *testing.T) {
	v := models.Vulnerability{
		ID:         "EUVD-2024-45012",
		Aliases:    "CVE-2024-45012\n  GHSA-xxxx-yyyy-zzzz  \n\n",
		References: "https://example.com/a\nhttps://example.com/b",
	}

	assert.Equal(t, []string{"CVE-2024-45012", "GHSA-xxxx-yyyy-zzzz"}, v.AliasList(),
		"aliases must be split on newlines with whitespace and empties dropped")
	assert.Equal(t, []string{"https://example.com/a", "https://example.com/b"}, v.ReferenceList())

	empty := models.Vulnerability{ID: "EUVD-2024-1"}
	assert.Nil(t, empty.AliasList())
	assert.Nil(t, empty.ReferenceList())
}

func TestVulnerabilityHasValidID(t *testing.T) {
	assert.True(t, (&models.Vulnerability{ID: "EUVD-2024-45012"}).HasValidID())
	assert.False(t, (&models.Vulnerability{ID: "CVE-2024-45012"}).HasValidID())
	assert.False(t, (&models.Vulnerability{}).HasValidID())
}

func TestVulnerabilityOptionalScoresUnmarshal(t *testing.T) {
	var withScores models.Vulnerability
	require.NoError(t, json.Unmarshal([]byte(`{"id": "EUVD-2024-1", "baseScore": 0, "epss": 0}`), &withScores))
	require.NotNil(t, withScores.BaseScore, "an explicit zero score is a score, not absence")
	require.NotNil(t, withScores.Epss)
	assert.Zero(t, *withScores.BaseScore)

	var withoutScores models.Vulnerability
	require.NoError(t, json.Unmarshal([]byte(`{"id": "EUVD-2024-1"}`), &withoutScores))
	assert.Nil(t, withoutScores.BaseScore, "a missing score must stay nil")
	assert.Nil(t, withoutScores.Epss)
}

func TestVulnerabilityNestedReferencesUnmarshal(t *testing.T) {
	raw := `{
		"id": "EUVD-2024-1",
		"enisaIdProduct": [{"product": {"name": "Exchange Server"}, "product_version": "2019"}],
		"enisaIdVendor": [{"vendor": {"name": "Microsoft"}}],
		"enisaIdAdvisory": [{"advisory": {"id": "msrc-2024-001", "name": "MSRC"}}]
	}`

	var v models.Vulnerability
	require.NoError(t, json.Unmarshal([]byte(raw), &v))

	require.Len(t, v.Products, 1)
	assert.Equal(t, "Exchange Server", v.Products[0].Product.Name)
	assert.Equal(t, "2019", v.Products[0].ProductVersion)
	require.Len(t, v.Vendors, 1)
	assert.Equal(t, "Microsoft", v.Vendors[0].Vendor.Name)
	require.Len(t, v.Advisories, 1)
	assert.Equal(t, "MSRC", v.Advisories[0].Advisory.Name)
}

func TestVulnerabilityListHelpers(t *testing.T) {
	list := models.VulnerabilityList{Items: []models.Vulnerability{
		{ID: "EUVD-2024-1"},
		{ID: "EUVD-2024-2"},
	}}

	assert.Equal(t, 2, list.Len())
	assert.Equal(t, []string{"EUVD-2024-1", "EUVD-2024-2"}, list.IDs())

	empty := models.VulnerabilityList{}
	assert.Zero(t, empty.Len())
	assert.Empty(t, empty.IDs())
}

func TestSearchResultLen(t *testing.T) {
	result := models.SearchResult{
		Items: []models.Vulnerability{{ID: "EUVD-2024-1"}},
		Total: 37,
	}
	assert.Equal(t, 1, result.Len())
	assert.GreaterOrEqual(t, result.Total, int64(result.Len()))
}

func TestAdvisoryAliasAndReferenceLists(t *testing.T) {
	a := models.Advisory{
		ID:         "cisco-sa-example",
		Aliases:    "CVE-2024-45012",
		References: "https://example.com/advisory\n",
	}

	assert.Equal(t, []string{"CVE-2024-45012"}, a.AliasList())
	assert.Equal(t, []string{"https://example.com/advisory"}, a.ReferenceList())
}
