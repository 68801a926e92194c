package story

import (
	"errors"
	"fmt"
	"math"
)

var (
	// ErrUnknownCategory is returned for a pollution source outside the fixed set.
	ErrUnknownCategory = errors.New("story: unknown pollution source")
	// ErrUnknownDataset is returned when a dataset name is not defined.
	ErrUnknownDataset = errors.New("story: unknown dataset")
)

// Category names one pollution source. The zero value means "none".
type Category string

const (
	CategoryNone       Category = ""
	VehicleEmissions   Category = "Vehicle Emissions"
	IndustrialActivity Category = "Industrial Activities"
	Residential        Category = "Residential"
	OtherSources       Category = "Other"
)

// Categories lists the fixed pollution sources in display order.
var Categories = []Category{VehicleEmissions, IndustrialActivity, Residential, OtherSources}

// ParseCategory accepts exactly one of the fixed source names.
func ParseCategory(name string) (Category, error) {
	for _, c := range Categories {
		if string(c) == name {
			return c, nil
		}
	}
	return CategoryNone, fmt.Errorf("%w: %q", ErrUnknownCategory, name)
}

// LabelKey is the key path of the category's display name.
func (c Category) LabelKey() string { return "pollutionSources.categories." + string(c) }

// DetailKey is the key path of the category's detail text.
func (c Category) DetailKey() string { return "pollutionSources.details." + string(c) }

// LocationReading is one neighbourhood's PM2.5 and AQI.
type LocationReading struct {
	Location string `json:"location"`
	PM25     int    `json:"pm25"`
	AQI      int    `json:"aqi"`
}

// MonthlyReading is one month of the trend series.
type MonthlyReading struct {
	Month string `json:"month"`
	PM25  int    `json:"pm25"`
	AQI   int    `json:"aqi"`
}

// MonthKey is the key path of the localized month label.
func (m MonthlyReading) MonthKey() string { return "months." + m.Month }

// SourceShare is one pollution source's share of PM2.5 emissions.
type SourceShare struct {
	Category Category `json:"name"`
	Value    int      `json:"value"`
}

// Milestone is one entry on the initiatives timeline.
type Milestone struct {
	Year string `json:"year"`
}

func (m Milestone) TitleKey() string       { return "timeline." + m.Year + ".title" }
func (m Milestone) DescriptionKey() string { return "timeline." + m.Year + ".description" }

// Datasets groups the compiled-in datasets backing each chart.
type Datasets struct {
	Locations []LocationReading `json:"locations"`
	Trends    []MonthlyReading  `json:"trends"`
	Sources   []SourceShare     `json:"sources"`
	Timeline  []Milestone       `json:"timeline"`
}

// Named returns one dataset by its API name.
func (d Datasets) Named(name string) (any, error) {
	switch name {
	case "locations":
		return d.Locations, nil
	case "trends":
		return d.Trends, nil
	case "sources":
		return d.Sources, nil
	case "timeline":
		return d.Timeline, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownDataset, name)
}

// Keys lists key paths the dataset labels depend on.
func (d Datasets) Keys() []string {
	keys := []string{
		"currentLevels.yAxisLabel", "currentLevels.barName",
		"airQualityTrends.yAxisLabelLeft", "airQualityTrends.yAxisLabelRight",
		"airQualityTrends.lineName1", "airQualityTrends.lineName2",
		"pollutionSources.noDetails",
	}
	for _, m := range d.Trends {
		keys = append(keys, m.MonthKey())
	}
	for _, s := range d.Sources {
		keys = append(keys, s.Category.LabelKey(), s.Category.DetailKey())
	}
	for _, m := range d.Timeline {
		keys = append(keys, m.TitleKey(), m.DescriptionKey())
	}
	return keys
}

// Percentages returns round(value/sum*100) for each share, in order.
func Percentages(shares []SourceShare) []int {
	sum := 0
	for _, s := range shares {
		sum += s.Value
	}
	out := make([]int, len(shares))
	if sum == 0 {
		return out
	}
	for i, s := range shares {
		out[i] = int(math.Round(float64(s.Value) / float64(sum) * 100))
	}
	return out
}

// MedellinDatasets returns the fixed readings shown in the story.
func MedellinDatasets() Datasets {
	return Datasets{
		Locations: []LocationReading{
			{Location: "El Poblado", PM25: 12, AQI: 51},
			{Location: "Laureles", PM25: 15, AQI: 58},
			{Location: "La Candelaria", PM25: 22, AQI: 72},
			{Location: "Belén", PM25: 18, AQI: 64},
			{Location: "Robledo", PM25: 20, AQI: 68},
		},
		Trends: []MonthlyReading{
			{Month: "Jan", PM25: 15, AQI: 56},
			{Month: "Feb", PM25: 17, AQI: 60},
			{Month: "Mar", PM25: 20, AQI: 68},
			{Month: "Apr", PM25: 18, AQI: 64},
			{Month: "May", PM25: 16, AQI: 59},
			{Month: "Jun", PM25: 14, AQI: 54},
		},
		Sources: []SourceShare{
			{Category: VehicleEmissions, Value: 45},
			{Category: IndustrialActivity, Value: 30},
			{Category: Residential, Value: 15},
			{Category: OtherSources, Value: 10},
		},
		Timeline: []Milestone{{Year: "2007"}, {Year: "2011"}, {Year: "2016"}, {Year: "2019"}},
	}
}
