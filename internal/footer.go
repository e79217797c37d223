package aqitop

import "time"

const FOOTER_LAYOUT = "Jan 02, 2006 15:04"

// LastUpdated picks the measure_time shown in the footer: the newest 24h
// sample, else the newest 7d sample. ok is false when both are empty and
// the footer must be omitted.
func LastUpdated(hours, days []Sample) (measureTime string, ok bool) {
	if len(hours) > 0 {
		return hours[len(hours)-1].MeasureTime, true
	}
	if len(days) > 0 {
		return days[len(days)-1].MeasureTime, true
	}
	return "", false
}

// Footer renders the "Last updated" line, or "" when there is no data
func Footer(hours, days []Sample, loc *time.Location) string {
	measureTime, ok := LastUpdated(hours, days)
	if !ok {
		return ""
	}
	return "Last updated: " + formatMeasureTime(measureTime, FOOTER_LAYOUT, loc)
}

// formatMeasureTime falls back to the raw string when it cannot be parsed
func formatMeasureTime(s, layout string, loc *time.Location) string {
	if loc == nil {
		loc = time.Local
	}
	t, err := ParseMeasureTime(s, loc)
	if err != nil {
		return s
	}
	return t.In(loc).Format(layout)
}
