// Copyright (c) 2025 H0llyW00dzZ All rights reserved.
//
// By accessing or using this software, you agree to be bound by the terms
// of the License Agreement, which you can find at LICENSE files.

package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/H0llyW00dzZ/euvd-mcp/src/internal/euvd/models"
	"github.com/olekukonko/tablewriter"
)

// renderResult prints a listing or a search page to w, as an ASCII table by
// default or as indented JSON when asJSON is set.
func renderResult(w io.Writer, result any, asJSON bool) error {
	if asJSON {
		return writeJSON(w, result)
	}

	switch r := result.(type) {
	case *models.VulnerabilityList:
		if r.Len() == 0 {
			fmt.Fprintln(w, "No vulnerabilities found.")
			return nil
		}
		writeVulnerabilityTable(w, r.Items)
		fmt.Fprintf(w, "%d record(s)\n", r.Len())
	case *models.SearchResult:
		if r.Len() == 0 {
			fmt.Fprintln(w, "No vulnerabilities match the given filters.")
			return nil
		}
		writeVulnerabilityTable(w, r.Items)
		fmt.Fprintf(w, "%d record(s) on page %d of %d (total: %d)\n",
			r.Len(), r.Page, r.TotalPages, r.Total)
	default:
		return fmt.Errorf("unsupported result type %T", result)
	}
	return nil
}

// renderVulnerabilityDetail prints a single vulnerability record as a
// field/value table or as indented JSON.
func renderVulnerabilityDetail(w io.Writer, v *models.Vulnerability, asJSON bool) error {
	if asJSON {
		return writeJSON(w, v)
	}

	table := newDetailTable(w)
	table.Append([]string{"ID", v.ID})
	table.Append([]string{"Published", v.DatePublished})
	table.Append([]string{"Updated", v.DateUpdated})
	table.Append([]string{"Base score", scoreCell(v.BaseScore)})
	if v.BaseScoreVector != "" {
		table.Append([]string{"CVSS vector", v.BaseScoreVector})
	}
	table.Append([]string{"EPSS", scoreCell(v.Epss)})
	table.Append([]string{"Exploited", fmt.Sprintf("%t", v.Exploited)})
	if v.Assigner != "" {
		table.Append([]string{"Assigner", v.Assigner})
	}
	if aliases := v.AliasList(); len(aliases) > 0 {
		table.Append([]string{"Aliases", strings.Join(aliases, ", ")})
	}
	table.Append([]string{"Description", wrapCell(v.Description)})
	if refs := v.ReferenceList(); len(refs) > 0 {
		table.Append([]string{"References", strings.Join(refs, "\n")})
	}
	table.Render()
	return nil
}

// renderAdvisoryDetail prints a single advisory record as a field/value
// table or as indented JSON.
func renderAdvisoryDetail(w io.Writer, a *models.Advisory, asJSON bool) error {
	if asJSON {
		return writeJSON(w, a)
	}

	table := newDetailTable(w)
	table.Append([]string{"ID", a.ID})
	if a.Source != nil && a.Source.Name != "" {
		table.Append([]string{"Source", a.Source.Name})
	}
	table.Append([]string{"Published", a.DatePublished})
	table.Append([]string{"Updated", a.DateUpdated})
	table.Append([]string{"Base score", scoreCell(a.BaseScore)})
	if a.Summary != "" {
		table.Append([]string{"Summary", wrapCell(a.Summary)})
	}
	if aliases := a.AliasList(); len(aliases) > 0 {
		table.Append([]string{"Aliases", strings.Join(aliases, ", ")})
	}
	if len(a.Vulnerabilities) > 0 {
		table.Append([]string{"Covers", strings.Join(a.Vulnerabilities, "\n")})
	}
	table.Render()
	return nil
}

// writeVulnerabilityTable prints the shared listing table layout.
func writeVulnerabilityTable(w io.Writer, items []models.Vulnerability) {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"ID", "Score", "EPSS", "Exploited", "Published", "Description"})
	table.SetAutoWrapText(false)
	for _, v := range items {
		table.Append([]string{
			v.ID,
			scoreCell(v.BaseScore),
			scoreCell(v.Epss),
			fmt.Sprintf("%t", v.Exploited),
			v.DatePublished,
			shortCell(v.Description, 60),
		})
	}
	table.Render()
}

// newDetailTable builds the two-column field/value table used by the lookup
// commands.
func newDetailTable(w io.Writer) *tablewriter.Table {
	table := tablewriter.NewWriter(w)
	table.SetHeader([]string{"Field", "Value"})
	table.SetAutoWrapText(false)
	table.SetColumnAlignment([]int{tablewriter.ALIGN_LEFT, tablewriter.ALIGN_LEFT})
	return table
}

func writeJSON(w io.Writer, v any) error {
	out, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal output: %w", err)
	}
	fmt.Fprintln(w, string(out))
	return nil
}

// scoreCell keeps absent scores visible instead of collapsing them to zero.
func scoreCell(score *float64) string {
	if score == nil {
		return "n/a"
	}
	return fmt.Sprintf("%.2f", *score)
}

// shortCell flattens newlines and truncates long text so listing rows stay
// on one terminal line.
func shortCell(text string, max int) string {
	text = strings.ReplaceAll(text, "\n", " ")
	if len(text) <= max {
		return text
	}
	return text[:max] + "..."
}

// wrapCell soft-wraps long free text for the detail tables.
func wrapCell(text string) string {
	const width = 72
	words := strings.Fields(text)
	if len(words) == 0 {
		return text
	}

	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		if i > 0 {
			if lineLen+1+len(word) > width {
				b.WriteByte('\n')
				lineLen = 0
			} else {
				b.WriteByte(' ')
				lineLen++
			}
		}
		b.WriteString(word)
		lineLen += len(word)
	}
	return b.String()
}
