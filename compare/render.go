package compare

// This file contains the human-readable rendering of a Report.

import (
	"fmt"
	"strings"
)

// String renders the report.
func (r *Report) String() string {
	var b strings.Builder
	for _, d := range r.Discrepancies {
		writeDiscrepancy(&b, d)
	}
	if r.Empty() {
		b.WriteString("no discrepancies\n")
	} else {
		fmt.Fprintf(&b, "%d discrepancies\n", len(r.Discrepancies))
	}
	return b.String()
}

func writeDiscrepancy(b *strings.Builder, d Discrepancy) {
	switch d.Kind {
	case KindHeaderLength:
		b.WriteString("header lengths differ\n")
		fmt.Fprintf(b, "-- reference: %d\n", d.ExpectedCount)
		fmt.Fprintf(b, "-- candidate: %d\n", d.ActualCount)
	case KindMissingColumns:
		b.WriteString("in reference but not candidate:\n")
		fmt.Fprintf(b, "- %s\n", strings.Join(d.Columns, ","))
	case KindExtraColumns:
		b.WriteString("in candidate but not reference:\n")
		fmt.Fprintf(b, "- %s\n", strings.Join(d.Columns, ","))
	case KindRowCount:
		fmt.Fprintf(b, "length of entries differs for %s\n", d.Column)
		fmt.Fprintf(b, "-- reference: %d\n", d.ExpectedCount)
		fmt.Fprintf(b, "-- candidate: %d\n", d.ActualCount)
	case KindCell:
		loc := d.Column
		if d.Key != "" {
			loc = d.Key + "@" + d.Column
		}
		fmt.Fprintf(b, "values differ @ row=%d; %s\n", d.Row, loc)
		fmt.Fprintf(b, "-- reference: %s\n", d.Expected)
		fmt.Fprintf(b, "-- candidate: %s\n", d.Actual)
	}
}
