// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package client

import (
	"fmt"
	"net/url"
	"strconv"
	"time"

	"github.com/H0llyW00dzZ/euvd-mcp/src/internal/euvd/models"
)

// isoDate is the date layout the search endpoint accepts.
const isoDate = "2006-01-02"

// maxPageSize is the upstream cap on search page size.
const maxPageSize = 100

// SearchFilters captures the optional query parameters accepted by the
// search endpoint. The zero value means "no constraint"; pointer fields
// distinguish unset from zero.
//
// Construct it, call Validate, then pass it to [Manager.Search]. Validation
// failures are KindValidation errors naming the offending field; no request
// is sent for an invalid filter set.
type SearchFilters struct {
	FromScore       *float64 // minimum CVSS base score, 0-10
	ToScore         *float64 // maximum CVSS base score, 0-10
	FromEpss        *float64 // minimum EPSS score, 0-1
	ToEpss          *float64 // maximum EPSS score, 0-1
	FromDate        string   // published on or after, YYYY-MM-DD
	ToDate          string   // published on or before, YYYY-MM-DD
	FromUpdatedDate string   // updated on or after, YYYY-MM-DD
	ToUpdatedDate   string   // updated on or before, YYYY-MM-DD
	Product         string
	Vendor          string
	Assigner        string
	Exploited       *bool
	Text            string
	Page            *int // zero-based page number
	Size            *int // page size, 1-100
}

// Validate checks every set field against its domain and the pairwise
// from/to ordering rules. It is a pure function: no I/O, deterministic for a
// given filter set.
func (f *SearchFilters) Validate() error {
	if err := checkScoreRange("from_score", f.FromScore, "to_score", f.ToScore, 0, 10); err != nil {
		return err
	}
	if err := checkScoreRange("from_epss", f.FromEpss, "to_epss", f.ToEpss, 0, 1); err != nil {
		return err
	}
	if err := checkDateRange("from_date", f.FromDate, "to_date", f.ToDate); err != nil {
		return err
	}
	if err := checkDateRange("from_updated_date", f.FromUpdatedDate, "to_updated_date", f.ToUpdatedDate); err != nil {
		return err
	}
	if f.Page != nil && *f.Page < 0 {
		return validationErr("page", "must be >= 0")
	}
	if f.Size != nil && (*f.Size < 1 || *f.Size > maxPageSize) {
		return validationErr("size", fmt.Sprintf("must be between 1 and %d", maxPageSize))
	}
	return nil
}

// Values translates the filter set into the exact query parameters the
// search endpoint expects. Unset fields are omitted entirely; upstream
// treats absence as "no constraint". Callers must Validate first.
func (f *SearchFilters) Values() url.Values {
	v := url.Values{}
	setFloat(v, "fromScore", f.FromScore)
	setFloat(v, "toScore", f.ToScore)
	setFloat(v, "fromEpss", f.FromEpss)
	setFloat(v, "toEpss", f.ToEpss)
	setString(v, "fromDate", f.FromDate)
	setString(v, "toDate", f.ToDate)
	setString(v, "fromUpdatedDate", f.FromUpdatedDate)
	setString(v, "toUpdatedDate", f.ToUpdatedDate)
	setString(v, "product", f.Product)
	setString(v, "vendor", f.Vendor)
	setString(v, "assigner", f.Assigner)
	if f.Exploited != nil {
		v.Set("exploited", strconv.FormatBool(*f.Exploited))
	}
	setString(v, "text", f.Text)
	if f.Page != nil {
		v.Set("page", strconv.Itoa(*f.Page))
	}
	if f.Size != nil {
		v.Set("size", strconv.Itoa(*f.Size))
	}
	return v
}

// validateEUVDID rejects lookup ids that are empty or not in EUVD format
// before any request is built.
func validateEUVDID(id string) error {
	if id == "" {
		return validationErr("enisa_id", "must not be empty")
	}
	if !models.IDPattern.MatchString(id) {
		return validationErr("enisa_id", `must match "EUVD-YYYY-N..." (e.g. EUVD-2024-45012)`)
	}
	return nil
}

// validateAdvisoryID rejects empty advisory ids. Advisory identifiers are
// vendor-assigned free-form strings, so no format check beyond presence.
func validateAdvisoryID(id string) error {
	if id == "" {
		return validationErr("advisory_id", "must not be empty")
	}
	return nil
}

func checkScoreRange(loName string, lo *float64, hiName string, hi *float64, min, max float64) error {
	rangeMsg := fmt.Sprintf("must be between %g and %g", min, max)
	if lo != nil && (*lo < min || *lo > max) {
		return validationErr(loName, rangeMsg)
	}
	if hi != nil && (*hi < min || *hi > max) {
		return validationErr(hiName, rangeMsg)
	}
	if lo != nil && hi != nil && *lo > *hi {
		return validationErr(loName, fmt.Sprintf("must not exceed %s", hiName))
	}
	return nil
}

func checkDateRange(loName, lo, hiName, hi string) error {
	var loT, hiT time.Time
	var err error
	if lo != "" {
		if loT, err = time.Parse(isoDate, lo); err != nil {
			return validationErr(loName, "must be an ISO date (YYYY-MM-DD)")
		}
	}
	if hi != "" {
		if hiT, err = time.Parse(isoDate, hi); err != nil {
			return validationErr(hiName, "must be an ISO date (YYYY-MM-DD)")
		}
	}
	if lo != "" && hi != "" && loT.After(hiT) {
		return validationErr(loName, fmt.Sprintf("must not be after %s", hiName))
	}
	return nil
}

func setFloat(v url.Values, key string, f *float64) {
	if f != nil {
		v.Set(key, strconv.FormatFloat(*f, 'f', -1, 64))
	}
}

func setString(v url.Values, key, s string) {
	if s != "" {
		v.Set(key, s)
	}
}

// singleParam builds the one-key query set used by the lookup endpoints.
func singleParam(key, value string) url.Values {
	v := url.Values{}
	v.Set(key, value)
	return v
}
