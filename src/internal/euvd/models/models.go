// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package models

import (
	"regexp"
	"strings"
)

// IDPattern matches well-formed EUVD identifiers such as "EUVD-2024-45012".
// The sequence number is variable length upstream (e.g. "EUVD-2025-4893").
var IDPattern = regexp.MustCompile(`^EUVD-\d{4}-\d+$`)

// Vulnerability represents a single EUVD vulnerability record.
//
// Optional numeric scores are pointers: a nil BaseScore or Epss means the
// upstream record carries no score, which is distinct from a score of zero.
// Aliases and References are newline-joined strings upstream; use the
// AliasList and ReferenceList helpers to obtain them as ordered slices.
type Vulnerability struct {
	ID               string        `json:"id"`
	EnisaUUID        string        `json:"enisaUuid,omitempty"`
	Description      string        `json:"description,omitempty"`
	DatePublished    string        `json:"datePublished,omitempty"`
	DateUpdated      string        `json:"dateUpdated,omitempty"`
	BaseScore        *float64      `json:"baseScore,omitempty"`
	BaseScoreVersion string        `json:"baseScoreVersion,omitempty"`
	BaseScoreVector  string        `json:"baseScoreVector,omitempty"`
	Epss             *float64      `json:"epss,omitempty"`
	Exploited        bool          `json:"exploited,omitempty"`
	Assigner         string        `json:"assigner,omitempty"`
	Aliases          string        `json:"aliases,omitempty"`
	References       string        `json:"references,omitempty"`
	Products         []ProductRef  `json:"enisaIdProduct,omitempty"`
	Vendors          []VendorRef   `json:"enisaIdVendor,omitempty"`
	Advisories       []AdvisoryRef `json:"enisaIdAdvisory,omitempty"`
}

// ProductRef is a product reference attached to a vulnerability record.
type ProductRef struct {
	Product        Named  `json:"product"`
	ProductVersion string `json:"product_version,omitempty"`
}

// VendorRef is a vendor reference attached to a vulnerability record.
type VendorRef struct {
	Vendor Named `json:"vendor"`
}

// AdvisoryRef is a lightweight advisory reference attached to a vulnerability record.
type AdvisoryRef struct {
	Advisory Named `json:"advisory"`
}

// Named is the upstream {"id": ..., "name": ...} shape used for
// products, vendors, and sources.
type Named struct {
	ID   any    `json:"id,omitempty"`
	Name string `json:"name"`
}

// AliasList returns the aliases (e.g. CVE ids) as an ordered slice.
func (v *Vulnerability) AliasList() []string { return splitLines(v.Aliases) }

// ReferenceList returns the reference URLs as an ordered slice.
func (v *Vulnerability) ReferenceList() []string { return splitLines(v.References) }

// HasValidID reports whether the record carries a well-formed EUVD identifier.
func (v *Vulnerability) HasValidID() bool { return IDPattern.MatchString(v.ID) }

// Advisory represents a single EUVD advisory record.
//
// Advisories reference vulnerabilities by id; the referenced records are not
// necessarily retrievable through this client.
type Advisory struct {
	ID            string   `json:"id"`
	Summary       string   `json:"summary,omitempty"`
	Description   string   `json:"description,omitempty"`
	DatePublished string   `json:"datePublished,omitempty"`
	DateUpdated   string   `json:"dateUpdated,omitempty"`
	BaseScore     *float64 `json:"baseScore,omitempty"`
	Aliases       string   `json:"aliases,omitempty"`
	References    string   `json:"references,omitempty"`
	Source        *Named   `json:"source,omitempty"`

	// Vulnerabilities holds the EUVD ids of the records this advisory covers,
	// flattened from the upstream vulnerabilityAdvisory join objects.
	Vulnerabilities []string `json:"vulnerabilities,omitempty"`
}

// AliasList returns the advisory aliases as an ordered slice.
func (a *Advisory) AliasList() []string { return splitLines(a.Aliases) }

// ReferenceList returns the advisory reference URLs as an ordered slice.
func (a *Advisory) ReferenceList() []string { return splitLines(a.References) }

// VulnerabilityList is an ordered collection of vulnerabilities as returned by
// the latest/exploited/critical endpoints (upstream caps these at 8 records).
//
// Excluded reports records that came back in the upstream payload but were
// dropped because they failed mapping; each entry describes one dropped
// record. An empty Excluded means everything upstream sent is in Items.
type VulnerabilityList struct {
	Items    []Vulnerability `json:"items"`
	Excluded []string        `json:"excluded,omitempty"`
}

// Len returns the number of records in the list.
func (l *VulnerabilityList) Len() int { return len(l.Items) }

// IDs returns the identifiers of all records in order.
func (l *VulnerabilityList) IDs() []string {
	ids := make([]string, 0, len(l.Items))
	for i := range l.Items {
		ids = append(ids, l.Items[i].ID)
	}
	return ids
}

// SearchResult is the paginated wrapper returned by the search endpoint.
//
// Invariants: len(Items) never exceeds Size when Size is set, and Total is
// always at least len(Items).
//
// Excluded carries one entry per record the upstream page contained that
// failed mapping and was dropped; see VulnerabilityList.Excluded.
type SearchResult struct {
	Items      []Vulnerability `json:"items"`
	Total      int64           `json:"total"`
	Page       int             `json:"page"`
	Size       int             `json:"size"`
	TotalPages int             `json:"totalPages,omitempty"`
	Excluded   []string        `json:"excluded,omitempty"`
}

// Len returns the number of records in the current page.
func (r *SearchResult) Len() int { return len(r.Items) }

// splitLines splits a newline-joined upstream string field into an ordered
// slice, dropping empty segments. Upstream uses both "\n" and ", " joins
// depending on the field's age; only newlines are treated as separators here.
func splitLines(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, "\n")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if p = strings.TrimSpace(p); p != "" {
			out = append(out, p)
		}
	}
	return out
}
