package aqitop

import (
	"fmt"
	"time"
)

const (
	// STATION_ID is the sensor station whose history is displayed
	STATION_ID = "80146"

	// POLL_INTERVAL is the time between history fetches in seconds
	POLL_INTERVAL = 300

	// HOURS_WINDOW is the length of the short history window in hours
	HOURS_WINDOW = 24

	// DAYS_WINDOW is the length of the long history window in days
	DAYS_WINDOW = 7

	// CO2_FLOOR is the outdoor CO2 baseline in ppm; the CO2 chart never goes below it
	CO2_FLOOR = 375.0

	// CHART_HEIGHT is the number of plot rows in each history chart
	CHART_HEIGHT = 12
)

// PollDuration returns the poll interval as a time.Duration
func PollDuration() time.Duration {
	return time.Duration(POLL_INTERVAL) * time.Second
}

// HistoryPath returns the API path for a station history window,
// e.g. "/api/v1/history/80146/hours"
func HistoryPath(unit string) string {
	return fmt.Sprintf("/api/v1/history/%s/%s", STATION_ID, unit)
}
