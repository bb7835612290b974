// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package client

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync"

	"github.com/xeipuuv/gojsonschema"

	"github.com/H0llyW00dzZ/euvd-mcp/src/internal/euvd/models"
)

// vulnerabilitySchema states the shape a single upstream vulnerability record
// must satisfy before it is decoded. Unknown fields are permitted for forward
// compatibility; only the listed fields are type-checked.
const vulnerabilitySchema = `{
	"type": "object",
	"required": ["id"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"enisaUuid": {"type": "string"},
		"description": {"type": "string"},
		"datePublished": {"type": "string"},
		"dateUpdated": {"type": "string"},
		"baseScore": {"type": ["number", "null"]},
		"baseScoreVersion": {"type": ["string", "null"]},
		"baseScoreVector": {"type": ["string", "null"]},
		"epss": {"type": ["number", "null"]},
		"exploited": {"type": ["boolean", "null"]},
		"assigner": {"type": ["string", "null"]},
		"aliases": {"type": ["string", "null"]},
		"references": {"type": ["string", "null"]}
	}
}`

// advisorySchema states the shape of a single upstream advisory record.
const advisorySchema = `{
	"type": "object",
	"required": ["id"],
	"properties": {
		"id": {"type": "string", "minLength": 1},
		"summary": {"type": ["string", "null"]},
		"description": {"type": ["string", "null"]},
		"datePublished": {"type": ["string", "null"]},
		"dateUpdated": {"type": ["string", "null"]},
		"baseScore": {"type": ["number", "null"]},
		"aliases": {"type": ["string", "null"]},
		"references": {"type": ["string", "null"]},
		"source": {"type": ["object", "null"]}
	}
}`

var (
	schemaOnce      sync.Once
	vulnSchema      *gojsonschema.Schema
	advSchema       *gojsonschema.Schema
	schemaCompError error
)

// compiledSchemas compiles the record schemas exactly once.
func compiledSchemas() (*gojsonschema.Schema, *gojsonschema.Schema, error) {
	schemaOnce.Do(func() {
		vulnSchema, schemaCompError = gojsonschema.NewSchema(gojsonschema.NewStringLoader(vulnerabilitySchema))
		if schemaCompError != nil {
			return
		}
		advSchema, schemaCompError = gojsonschema.NewSchema(gojsonschema.NewStringLoader(advisorySchema))
	})
	return vulnSchema, advSchema, schemaCompError
}

// validateRecord runs one raw record through a compiled schema and converts
// violations into a KindMapping error naming the record and first bad field.
func validateRecord(schema *gojsonschema.Schema, raw json.RawMessage, recordID string) error {
	result, err := schema.Validate(gojsonschema.NewBytesLoader(raw))
	if err != nil {
		return mappingErr(recordID, "", fmt.Sprintf("schema validation: %v", err))
	}
	if result.Valid() {
		return nil
	}
	first := result.Errors()[0]
	return mappingErr(recordID, first.Field(), first.Description())
}

// mapVulnerability converts one raw JSON record into a typed Vulnerability.
// It is fail-closed: any schema violation, malformed identifier, or
// out-of-range score fails the whole record with a KindMapping error.
//
// Given identical input it always produces identical output.
func mapVulnerability(raw json.RawMessage) (models.Vulnerability, error) {
	var zero models.Vulnerability

	vs, _, err := compiledSchemas()
	if err != nil {
		return zero, mappingErr("", "", fmt.Sprintf("compiling schema: %v", err))
	}
	if err := validateRecord(vs, raw, peekID(raw)); err != nil {
		return zero, err
	}

	var v models.Vulnerability
	if err := json.Unmarshal(raw, &v); err != nil {
		return zero, mappingErr(peekID(raw), "", fmt.Sprintf("decoding record: %v", err))
	}

	if !v.HasValidID() {
		return zero, mappingErr(v.ID, "id", "not a well-formed EUVD identifier")
	}
	if v.BaseScore != nil && (*v.BaseScore < 0 || *v.BaseScore > 10) {
		return zero, mappingErr(v.ID, "baseScore", fmt.Sprintf("%g outside [0, 10]", *v.BaseScore))
	}
	if v.Epss != nil {
		// Upstream reports EPSS as a percentage on some records; normalize to
		// the probability domain so the 0-1 invariant holds everywhere.
		if *v.Epss > 1 && *v.Epss <= 100 {
			normalized := *v.Epss / 100
			v.Epss = &normalized
		}
		if *v.Epss < 0 || *v.Epss > 1 {
			return zero, mappingErr(v.ID, "epss", fmt.Sprintf("%g outside [0, 1]", *v.Epss))
		}
	}

	return v, nil
}

// mapVulnerabilityList converts a raw JSON array into a VulnerabilityList.
//
// Policy (documented, applied consistently for all list endpoints):
// accumulate-and-exclude. A malformed record is skipped and its failure
// collected; it never aborts the rest of the list. The collected failures are
// returned alongside the list so callers can report them.
func mapVulnerabilityList(raw json.RawMessage) (models.VulnerabilityList, []error) {
	var rawItems []json.RawMessage
	if err := json.Unmarshal(raw, &rawItems); err != nil {
		return models.VulnerabilityList{}, []error{
			mappingErr("", "", fmt.Sprintf("expected a JSON array of records: %v", err)),
		}
	}

	list := models.VulnerabilityList{Items: make([]models.Vulnerability, 0, len(rawItems))}
	var failures []error
	for _, item := range rawItems {
		v, err := mapVulnerability(item)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		list.Items = append(list.Items, v)
	}
	return list, failures
}

// searchEnvelope mirrors the paginated wrapper the search endpoint returns.
// The list key varies across upstream deployments (items, content, data), as
// does the total key (totalElements, total); all are accepted.
type searchEnvelope struct {
	Items         []json.RawMessage `json:"items"`
	Content       []json.RawMessage `json:"content"`
	Data          []json.RawMessage `json:"data"`
	Total         *int64            `json:"total"`
	TotalElements *int64            `json:"totalElements"`
	TotalPages    int               `json:"totalPages"`
	Page          int               `json:"page"`
	Size          int               `json:"size"`
}

// mapSearchResult converts a raw search response into a SearchResult,
// applying the same accumulate-and-exclude record policy as the list
// endpoints.
func mapSearchResult(raw json.RawMessage) (models.SearchResult, []error, error) {
	var env searchEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return models.SearchResult{}, nil, mappingErr("", "", fmt.Sprintf("decoding search response: %v", err))
	}

	rawItems := env.Items
	if rawItems == nil {
		rawItems = env.Content
	}
	if rawItems == nil {
		rawItems = env.Data
	}

	result := models.SearchResult{
		Items:      make([]models.Vulnerability, 0, len(rawItems)),
		Page:       env.Page,
		Size:       env.Size,
		TotalPages: env.TotalPages,
	}
	switch {
	case env.TotalElements != nil:
		result.Total = *env.TotalElements
	case env.Total != nil:
		result.Total = *env.Total
	}

	var failures []error
	for _, item := range rawItems {
		v, err := mapVulnerability(item)
		if err != nil {
			failures = append(failures, err)
			continue
		}
		result.Items = append(result.Items, v)
	}

	if result.Size > 0 && len(result.Items) > result.Size {
		// The envelope declared a smaller page than it carried; trust the
		// records over the declared size.
		result.Size = len(result.Items)
	}
	if result.Total < int64(len(result.Items)) {
		// Some deployments omit the total on single-page results.
		result.Total = int64(len(result.Items))
	}
	return result, failures, nil
}

// advisoryEnvelope captures the join objects the advisory endpoint nests the
// related vulnerability ids inside.
type advisoryEnvelope struct {
	VulnerabilityAdvisory []struct {
		Vulnerability struct {
			ID string `json:"id"`
		} `json:"vulnerability"`
	} `json:"vulnerabilityAdvisory"`
}

// mapAdvisory converts one raw JSON record into a typed Advisory, flattening
// the nested vulnerability references into plain ids. Fail-closed, like
// mapVulnerability.
func mapAdvisory(raw json.RawMessage) (models.Advisory, error) {
	var zero models.Advisory

	_, as, err := compiledSchemas()
	if err != nil {
		return zero, mappingErr("", "", fmt.Sprintf("compiling schema: %v", err))
	}
	if err := validateRecord(as, raw, peekID(raw)); err != nil {
		return zero, err
	}

	var a models.Advisory
	if err := json.Unmarshal(raw, &a); err != nil {
		return zero, mappingErr(peekID(raw), "", fmt.Sprintf("decoding record: %v", err))
	}
	if a.ID == "" {
		return zero, mappingErr("", "id", "missing required identifier")
	}
	if a.BaseScore != nil && (*a.BaseScore < 0 || *a.BaseScore > 10) {
		return zero, mappingErr(a.ID, "baseScore", fmt.Sprintf("%g outside [0, 10]", *a.BaseScore))
	}

	var env advisoryEnvelope
	if err := json.Unmarshal(raw, &env); err == nil {
		for _, ref := range env.VulnerabilityAdvisory {
			if ref.Vulnerability.ID != "" {
				a.Vulnerabilities = append(a.Vulnerabilities, ref.Vulnerability.ID)
			}
		}
	}

	return a, nil
}

// peekID extracts the id field from a raw record for error messages without
// committing to the full schema.
func peekID(raw json.RawMessage) string {
	var probe struct {
		ID string `json:"id"`
	}
	_ = json.Unmarshal(raw, &probe)
	return probe.ID
}

// emptyRecord reports whether a 2xx body denotes "no matching record":
// an empty body, JSON null, an empty object, or an empty array.
func emptyRecord(raw json.RawMessage) bool {
	trimmed := strings.TrimSpace(string(raw))
	switch trimmed {
	case "", "null", "{}", "[]":
		return true
	}
	return false
}
