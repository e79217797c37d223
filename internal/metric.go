package aqitop

// Metric describes one measured quantity reported by the station
type Metric struct {
	Key         string
	Display     string
	Description string
}

const (
	CO2         = "rco2_corrected"
	Temperature = "atmp"
	TVOC        = "tvoc"
	TVOCIndex   = "tvocIndex"
	Humidity    = "rhum_corrected"
	PM25        = "pm02_corrected"
)

// DefaultMetric is selected when the dashboard starts
const DefaultMetric = CO2

var catalog = []Metric{
	{Key: CO2, Display: "CO2 reading", Description: "CO2 in parts per million"},
	{Key: Temperature, Display: "Ambient Temp. F", Description: "The ambient temperature in Fahrenheit"},
	{Key: TVOC, Display: "TVOC (raw)", Description: "Total Volatile Organic Compounds in ppm (raw reading)"},
	{Key: TVOCIndex, Display: "TVOC Index", Description: "Total Volatile Organic Compounds Index"},
	{Key: Humidity, Display: "Relative Humidity", Description: "Relative Humidity"},
	{Key: PM25, Display: "PM2.5", Description: "Particulate Matter 2.5 ug / m3"},
}

// Metrics returns the catalog in display order
func Metrics() []Metric {
	out := make([]Metric, len(catalog))
	copy(out, catalog)
	return out
}

// LookupMetric returns the catalog entry for key
func LookupMetric(key string) (Metric, bool) {
	for _, m := range catalog {
		if m.Key == key {
			return m, true
		}
	}
	return Metric{}, false
}

func metricIndex(key string) int {
	for i, m := range catalog {
		if m.Key == key {
			return i
		}
	}
	return -1
}
