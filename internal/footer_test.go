package aqitop

import (
	"testing"
	"time"
)

func TestLastUpdatedPrefersHours(t *testing.T) {
	hours := []Sample{
		sample("2024-01-01T09:55:00Z", nil),
		sample("2024-01-01T10:00:00Z", nil),
	}
	days := []Sample{sample("2024-01-01T09:00:00Z", nil)}

	got, ok := LastUpdated(hours, days)
	if !ok || got != "2024-01-01T10:00:00Z" {
		t.Fatalf("expected the last 24h sample, got %q ok=%v", got, ok)
	}
	if footer := Footer(hours, days, time.UTC); footer != "Last updated: Jan 01, 2024 10:00" {
		t.Fatalf("unexpected footer %q", footer)
	}
}

func TestLastUpdatedFallsBackToDays(t *testing.T) {
	days := []Sample{sample("2024-01-01T09:00:00Z", nil)}

	got, ok := LastUpdated([]Sample{}, days)
	if !ok || got != "2024-01-01T09:00:00Z" {
		t.Fatalf("expected the last 7d sample, got %q ok=%v", got, ok)
	}
}

func TestFooterOmittedWithoutData(t *testing.T) {
	if _, ok := LastUpdated(nil, []Sample{}); ok {
		t.Fatalf("expected no timestamp when both series are empty")
	}
	if footer := Footer(nil, nil, time.UTC); footer != "" {
		t.Fatalf("expected no footer, got %q", footer)
	}
}
