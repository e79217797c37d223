package aqitop

import (
	"fmt"
	"math"
	"time"

	"github.com/prometheus/common/model"
)

// Sample is a single station reading as returned by the history API
type Sample struct {
	MeasureTime string             `json:"measure_time"`
	MeasureData map[string]float64 `json:"measure_data"`
}

// Point is a render-ready reading for one series
type Point struct {
	Time     model.Time // milliseconds since epoch
	FullTime string     // measure_time as received
	Value    float64    // selected metric, NaN when the sample lacks it
	Fields   map[string]float64
}

// Layouts accepted for measure_time, tried in order. Layouts without a zone
// are read in the caller's location.
var measureTimeLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02T15:04",
	"2006-01-02",
}

// ParseMeasureTime parses an ISO-8601 timestamp
func ParseMeasureTime(s string, loc *time.Location) (time.Time, error) {
	if loc == nil {
		loc = time.Local
	}
	for _, layout := range measureTimeLayouts {
		if t, err := time.ParseInLocation(layout, s, loc); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("invalid measure_time %q", s)
}

// MetricValue applies the display conversion for metric; only ambient
// temperature is converted (Celsius to Fahrenheit)
func MetricValue(metric string, v float64) float64 {
	if metric == Temperature {
		return v*9/5 + 32
	}
	return v
}

// ToPoint derives the chart point for metric from s
func ToPoint(s Sample, metric string, loc *time.Location) (Point, error) {
	t, err := ParseMeasureTime(s.MeasureTime, loc)
	if err != nil {
		return Point{}, err
	}

	value := math.NaN()
	if v, ok := s.MeasureData[metric]; ok {
		value = MetricValue(metric, v)
	}

	fields := make(map[string]float64, len(s.MeasureData))
	for k, v := range s.MeasureData {
		fields[k] = v
	}

	return Point{
		Time:     model.TimeFromUnixNano(t.UnixNano()),
		FullTime: s.MeasureTime,
		Value:    value,
		Fields:   fields,
	}, nil
}

// Transform maps samples to points one to one, keeping the API order
func Transform(samples []Sample, metric string, loc *time.Location) ([]Point, error) {
	points := make([]Point, 0, len(samples))
	for i, s := range samples {
		p, err := ToPoint(s, metric, loc)
		if err != nil {
			return nil, fmt.Errorf("sample %d: %w", i, err)
		}
		points = append(points, p)
	}
	return points, nil
}
