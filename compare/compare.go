// Package compare locates differences between a reference table and a
// candidate table produced by the engine.
package compare

import (
	"sort"

	"github.com/bigladder/erinreg/table"
)

// Kind identifies the type of a discrepancy.
type Kind uint8

const (
	// KindHeaderLength: the headers have a different number of entries.
	KindHeaderLength Kind = iota
	// KindMissingColumns: columns present only in the reference.
	KindMissingColumns
	// KindExtraColumns: columns present only in the candidate.
	KindExtraColumns
	// KindRowCount: a column has a different number of values.
	KindRowCount
	// KindCell: a single value differs.
	KindCell
)

func (k Kind) String() string {
	switch k {
	case KindHeaderLength:
		return "header-length"
	case KindMissingColumns:
		return "missing-columns"
	case KindExtraColumns:
		return "extra-columns"
	case KindRowCount:
		return "row-count"
	case KindCell:
		return "cell"
	}
	return "unknown"
}

// Discrepancy is a single located difference. Which fields are meaningful
// depends on Kind.
type Discrepancy struct {
	Kind Kind
	// Column names (missing/extra columns)
	Columns []string
	// Column the discrepancy was found in (row count, cell)
	Column string
	// Row index among data rows (cell)
	Row int
	// Composite row key, empty when it could not be derived (cell)
	Key string
	// Expected and actual values (cell)
	Expected string
	Actual   string
	// Expected and actual counts (header length, row count)
	ExpectedCount int
	ActualCount   int
}

// Report is the ordered list of discrepancies found by Compare.
type Report struct {
	Discrepancies []Discrepancy
}

// Empty reports whether no discrepancy was found.
func (r *Report) Empty() bool {
	return len(r.Discrepancies) == 0
}

// Count returns the number of discrepancies of the given kind.
func (r *Report) Count(kind Kind) int {
	n := 0
	for _, d := range r.Discrepancies {
		if d.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Report) add(d Discrepancy) {
	r.Discrepancies = append(r.Discrepancies, d)
}

// Compare reports every difference between the reference and the candidate
// table. It never stops at the first difference.
func Compare(reference, candidate *table.Table) *Report {
	report := &Report{}

	if len(reference.Header) != len(candidate.Header) {
		report.add(Discrepancy{
			Kind:          KindHeaderLength,
			ExpectedCount: len(reference.Header),
			ActualCount:   len(candidate.Header),
		})
	}

	refSet := nameSet(reference.Header)
	candSet := nameSet(candidate.Header)
	if missing := difference(refSet, candSet); len(missing) > 0 {
		report.add(Discrepancy{Kind: KindMissingColumns, Columns: missing})
	}
	if extra := difference(candSet, refSet); len(extra) > 0 {
		report.add(Discrepancy{Kind: KindExtraColumns, Columns: extra})
	}

	keys := newRowKeys(reference, candidate)

	seen := make(map[string]bool, len(reference.Header))
	for _, col := range reference.Header {
		if seen[col] {
			continue
		}
		seen[col] = true

		refValues := reference.Columns[col]
		candValues, ok := candidate.Column(col)
		if !ok {
			continue
		}

		if len(refValues) != len(candValues) {
			report.add(Discrepancy{
				Kind:          KindRowCount,
				Column:        col,
				ExpectedCount: len(refValues),
				ActualCount:   len(candValues),
			})
		}

		n := min(len(refValues), len(candValues))
		for idx := 0; idx < n; idx++ {
			if refValues[idx] == candValues[idx] {
				continue
			}
			report.add(Discrepancy{
				Kind:     KindCell,
				Column:   col,
				Row:      idx,
				Key:      keys.at(idx),
				Expected: refValues[idx],
				Actual:   candValues[idx],
			})
		}
	}

	return report
}

// rowKeys derives the composite row key from the reference's first two
// header columns.
type rowKeys struct {
	reference *table.Table
	candidate *table.Table
	columns   [2]string
}

func newRowKeys(reference, candidate *table.Table) rowKeys {
	k := rowKeys{reference: reference, candidate: candidate}
	for i := range k.columns {
		if i < len(reference.Header) {
			k.columns[i] = reference.Header[i]
		}
	}
	return k
}

// at returns "v0:v1" when both key columns exist in both tables, hold a value
// at idx, and agree between the tables. Otherwise the key is undefined and ""
// is returned.
func (k rowKeys) at(idx int) string {
	var items [2]string
	for i, col := range k.columns {
		refValues, ok := k.reference.Column(col)
		if !ok {
			return ""
		}
		candValues, ok := k.candidate.Column(col)
		if !ok {
			return ""
		}
		if idx >= len(refValues) || idx >= len(candValues) {
			return ""
		}
		if refValues[idx] != candValues[idx] {
			return ""
		}
		items[i] = refValues[idx]
	}
	return items[0] + ":" + items[1]
}

func nameSet(names []string) map[string]struct{} {
	set := make(map[string]struct{}, len(names))
	for _, n := range names {
		set[n] = struct{}{}
	}
	return set
}

// difference returns the sorted names in a but not in b.
func difference(a, b map[string]struct{}) []string {
	var out []string
	for n := range a {
		if _, ok := b[n]; !ok {
			out = append(out, n)
		}
	}
	sort.Strings(out)
	return out
}
