// Package dataset loads the hand-authored trip data embedded in the binary.
package dataset

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

//go:embed trip.yml
var embeddedTrip []byte

// Trip is the immutable input the service starts from.
type Trip struct {
	Info     types.TripInfo
	Schedule types.Schedule
	// Weather is the curated per-date table; it always wins over predictions.
	Weather map[string]types.WeatherPrediction
}

type tripFile struct {
	types.TripInfo   `yaml:",inline"`
	ImageURLTemplate string                             `yaml:"imageURLTemplate"`
	Weather          map[string]types.WeatherPrediction `yaml:"weather"`
	Days             []dayRecord                        `yaml:"days"`
}

type dayRecord struct {
	Date       string           `yaml:"date"`
	DayLabel   string           `yaml:"dayLabel"`
	FullDate   string           `yaml:"fullDate"`
	DressCode  string           `yaml:"dressCode"`
	Activities []activityRecord `yaml:"activities"`
}

type activityRecord struct {
	ID                  string `yaml:"id"`
	Time                string `yaml:"time"`
	Title               string `yaml:"title"`
	Type                string `yaml:"type"`
	Location            string `yaml:"location"`
	OriginalDescription string `yaml:"originalDescription"`
	Image               string `yaml:"image"`
	Travel              string `yaml:"travel"`
}

// Load parses the embedded trip.
func Load() (*Trip, error) {
	return Parse(embeddedTrip)
}

// Parse decodes a trip document. Every day starts with placeholder weather;
// ids must be unique across the whole schedule.
func Parse(data []byte) (*Trip, error) {
	var f tripFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to decode trip data: %w", err)
	}
	if len(f.Days) == 0 {
		return nil, fmt.Errorf("trip data has no days")
	}

	seen := make(map[string]struct{})
	schedule := make(types.Schedule, 0, len(f.Days))
	for _, d := range f.Days {
		if d.Date == "" {
			return nil, fmt.Errorf("day %q has no date", d.DayLabel)
		}
		day := types.DaySchedule{
			Date:         d.Date,
			DayLabel:     d.DayLabel,
			FullDate:     d.FullDate,
			WeatherRange: types.WeatherRangePlaceholder,
			WeatherIcon:  types.WeatherIconPlaceholder,
			DressCode:    d.DressCode,
			Activities:   make([]types.Activity, 0, len(d.Activities)),
		}
		for _, a := range d.Activities {
			if a.ID == "" {
				return nil, fmt.Errorf("activity %q on %s has no id", a.Title, d.Date)
			}
			if _, dup := seen[a.ID]; dup {
				return nil, fmt.Errorf("duplicate activity id %q", a.ID)
			}
			seen[a.ID] = struct{}{}

			kind := types.ActivityType(strings.ToUpper(a.Type))
			if !kind.Valid() {
				return nil, fmt.Errorf("activity %q has unknown type %q", a.ID, a.Type)
			}
			activity := types.Activity{
				ID:                  a.ID,
				Time:                a.Time,
				Title:               a.Title,
				Type:                kind,
				Location:            a.Location,
				OriginalDescription: a.OriginalDescription,
				EstimatedTravelTime: a.Travel,
			}
			if a.Image != "" && f.ImageURLTemplate != "" {
				activity.ImageURL = fmt.Sprintf(f.ImageURLTemplate, a.Image)
			}
			day.Activities = append(day.Activities, activity)
		}
		schedule = append(schedule, day)
	}

	weather := make(map[string]types.WeatherPrediction, len(f.Weather))
	for date, w := range f.Weather {
		icon, ok := types.NormalizeWeatherIcon(w.Icon)
		if !ok {
			return nil, fmt.Errorf("weather for %s has unknown icon %q", date, w.Icon)
		}
		weather[date] = types.WeatherPrediction{Range: w.Range, Icon: icon}
	}

	return &Trip{
		Info:     f.TripInfo,
		Schedule: schedule,
		Weather:  weather,
	}, nil
}
