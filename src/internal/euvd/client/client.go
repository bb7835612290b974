// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package client

import (
	"context"
	"errors"

	"github.com/H0llyW00dzZ/euvd-mcp/src/internal/euvd/models"
)

// Upstream endpoint paths.
const (
	endpointLast      = "/api/lastvulnerabilities"
	endpointExploited = "/api/exploitedvulnerabilities"
	endpointCritical  = "/api/criticalvulnerabilities"
	endpointSearch    = "/api/search"
	endpointEnisaID   = "/api/enisaid"
	endpointAdvisory  = "/api/advisory"
)

// Manager is the facade over the EUVD API: it composes the session manager,
// the parameter builder, and the response mapper into the six public
// operations.
//
// A Manager owns its session. Acquire one with New and release it with
// Close; callers never manage connection teardown themselves. Manager holds
// no mutable shared state, so concurrent calls are independent.
type Manager struct {
	session *Session
}

// New creates a Manager with its own session built from cfg.
func New(cfg Config) *Manager {
	return &Manager{session: NewSession(cfg)}
}

// Close releases the Manager's underlying session.
func (m *Manager) Close() { m.session.Close() }

// LastVulnerabilities returns the latest vulnerabilities (upstream caps the
// result at 8 records; there is no further pagination).
func (m *Manager) LastVulnerabilities(ctx context.Context) (models.VulnerabilityList, error) {
	return m.fetchList(ctx, endpointLast)
}

// ExploitedVulnerabilities returns the latest vulnerabilities upstream knows
// to be actively exploited.
func (m *Manager) ExploitedVulnerabilities(ctx context.Context) (models.VulnerabilityList, error) {
	return m.fetchList(ctx, endpointExploited)
}

// CriticalVulnerabilities returns the latest vulnerabilities above the
// upstream-defined critical severity threshold. The threshold is opaque to
// this client; it is applied server-side.
func (m *Manager) CriticalVulnerabilities(ctx context.Context) (models.VulnerabilityList, error) {
	return m.fetchList(ctx, endpointCritical)
}

// Search runs a filtered search. All filter fields are optional; an empty
// filter set is an unfiltered listing. Validation failures surface before any
// network call.
//
// Malformed records inside the result page are excluded rather than failing
// the whole page; each exclusion is reported in the result's Excluded field
// (the Mapping-kind error is returned only when the whole envelope is
// undecodable).
func (m *Manager) Search(ctx context.Context, filters SearchFilters) (models.SearchResult, error) {
	if err := filters.Validate(); err != nil {
		return models.SearchResult{}, err
	}

	raw, err := m.session.Get(ctx, endpointSearch, filters.Values())
	if err != nil {
		return models.SearchResult{}, err
	}

	result, failures, err := mapSearchResult(raw)
	if err != nil {
		return models.SearchResult{}, err
	}
	result.Excluded = exclusionMessages(failures)
	return result, nil
}

// VulnerabilityByID looks up a single vulnerability by EUVD identifier.
// A well-formed lookup that matches nothing fails with KindNotFound.
func (m *Manager) VulnerabilityByID(ctx context.Context, id string) (models.Vulnerability, error) {
	if err := validateEUVDID(id); err != nil {
		return models.Vulnerability{}, err
	}

	raw, err := m.session.Get(ctx, endpointEnisaID, singleParam("id", id))
	if err != nil {
		// Some deployments answer unmatched ids with 404 instead of an empty body.
		if notFoundStatus(err) {
			return models.Vulnerability{}, notFoundErr(id)
		}
		return models.Vulnerability{}, err
	}
	if emptyRecord(raw) {
		return models.Vulnerability{}, notFoundErr(id)
	}

	return mapVulnerability(raw)
}

// AdvisoryByID looks up a single advisory by its identifier.
// A well-formed lookup that matches nothing fails with KindNotFound.
func (m *Manager) AdvisoryByID(ctx context.Context, id string) (models.Advisory, error) {
	if err := validateAdvisoryID(id); err != nil {
		return models.Advisory{}, err
	}

	raw, err := m.session.Get(ctx, endpointAdvisory, singleParam("id", id))
	if err != nil {
		if notFoundStatus(err) {
			return models.Advisory{}, notFoundErr(id)
		}
		return models.Advisory{}, err
	}
	if emptyRecord(raw) {
		return models.Advisory{}, notFoundErr(id)
	}

	return mapAdvisory(raw)
}

// fetchList GETs one of the parameterless list endpoints and maps the result,
// excluding malformed records per the documented list policy. Exclusions are
// reported in the list's Excluded field.
func (m *Manager) fetchList(ctx context.Context, endpoint string) (models.VulnerabilityList, error) {
	raw, err := m.session.Get(ctx, endpoint, nil)
	if err != nil {
		return models.VulnerabilityList{}, err
	}
	if emptyRecord(raw) {
		return models.VulnerabilityList{}, nil
	}

	list, failures := mapVulnerabilityList(raw)
	if len(list.Items) == 0 && len(failures) > 0 {
		// Nothing usable came back; surface the first failure.
		return models.VulnerabilityList{}, failures[0]
	}
	list.Excluded = exclusionMessages(failures)
	return list, nil
}

// exclusionMessages flattens per-record mapping failures into the report
// strings carried on list results. A nil slice in means a nil slice out, so
// clean results keep their omitempty behavior.
func exclusionMessages(failures []error) []string {
	if len(failures) == 0 {
		return nil
	}
	msgs := make([]string, 0, len(failures))
	for _, f := range failures {
		msgs = append(msgs, f.Error())
	}
	return msgs
}

// notFoundStatus reports whether err is an upstream 404.
func notFoundStatus(err error) bool {
	var e *Error
	return errors.As(err, &e) && e.Kind == KindUpstreamRequest && e.Status == 404
}

// notFoundErr builds the KindNotFound error for an unmatched lookup.
func notFoundErr(id string) *Error {
	return &Error{Kind: KindNotFound, Msg: "no record matches " + id}
}
