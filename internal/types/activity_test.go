package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestActivity_IsEnriched(t *testing.T) {
	assert.False(t, Activity{ID: "1", Title: "x"}.IsEnriched())
	assert.False(t, Activity{EstimatedTravelTime: "10 min"}.IsEnriched(), "static travel hint is not an enrichment marker")
	assert.True(t, Activity{AIDescription: "story"}.IsEnriched())
	assert.True(t, Activity{Tips: []string{"cash"}}.IsEnriched())
	assert.True(t, Activity{Coordinates: &Coordinates{Lat: 18.8, Lng: 98.9}}.IsEnriched())
}

func TestActivity_MergeIsShallowAndNonDestructive(t *testing.T) {
	base := Activity{
		ID:                  "1-3",
		Title:               "Dinner",
		Location:            "Nimman",
		OpeningHours:        "17:00-23:00",
		Notes:               []string{"static note"},
		EstimatedTravelTime: "15 min",
	}

	merged := base.Merge(EnrichmentResult{
		AIDescription: "night market",
		MustEat:       []string{"sai ua"},
		Coordinates:   &Coordinates{Lat: 18.79, Lng: 98.97},
	})

	assert.Equal(t, "night market", merged.AIDescription)
	assert.Equal(t, []string{"sai ua"}, merged.MustEat)
	assert.Equal(t, "17:00-23:00", merged.OpeningHours)
	assert.Equal(t, []string{"static note"}, merged.Notes)
	assert.Equal(t, "15 min", merged.EstimatedTravelTime)
	assert.Equal(t, "Nimman", merged.Location)
	assert.Equal(t, "Dinner", merged.Title)

	// the receiver is untouched
	assert.Empty(t, base.AIDescription)
	assert.Nil(t, base.Coordinates)

	overridden := base.Merge(EnrichmentResult{EstimatedTravelTime: "about 20 min", Notes: []string{"new"}})
	assert.Equal(t, "about 20 min", overridden.EstimatedTravelTime)
	assert.Equal(t, []string{"new"}, overridden.Notes)
}

func TestActivity_CloneIsDeep(t *testing.T) {
	a := Activity{Tips: []string{"a"}, Coordinates: &Coordinates{Lat: 1, Lng: 2}}
	c := a.Clone()
	c.Tips[0] = "b"
	c.Coordinates.Lat = 9

	assert.Equal(t, "a", a.Tips[0])
	assert.Equal(t, 1.0, a.Coordinates.Lat)
}

func TestEnrichmentResult_IsEmpty(t *testing.T) {
	assert.True(t, EnrichmentResult{}.IsEmpty())
	assert.True(t, EnrichmentResult{Notes: []string{}}.IsEmpty())
	assert.False(t, EnrichmentResult{EstimatedTravelTime: "5 min"}.IsEmpty())
	assert.False(t, EnrichmentResult{Coordinates: &Coordinates{}}.IsEmpty())
}

func TestDaySchedule_Weather(t *testing.T) {
	d := DaySchedule{Date: "2025-11-28", WeatherRange: WeatherRangePlaceholder, WeatherIcon: WeatherIconPlaceholder}
	assert.True(t, d.HasPlaceholderWeather())

	w := d.ApplyWeather(WeatherPrediction{Range: "17-21°C", Icon: WeatherIconClear})
	assert.False(t, w.HasPlaceholderWeather())
	assert.True(t, d.HasPlaceholderWeather())
}

func TestNormalizeWeatherIcon(t *testing.T) {
	tests := map[string]string{
		"☀️":            WeatherIconClear,
		"Sunny":         WeatherIconClear,
		"partly-cloudy": WeatherIconPartlyCloudy,
		"⛅":             WeatherIconPartlyCloudy,
		" rainy ":       WeatherIconRainy,
	}
	for in, want := range tests {
		got, ok := NormalizeWeatherIcon(in)
		assert.True(t, ok, in)
		assert.Equal(t, want, got, in)
	}
	_, ok := NormalizeWeatherIcon("snow")
	assert.False(t, ok)
}

func TestSchedule_FindActivity(t *testing.T) {
	s := Schedule{
		{Activities: []Activity{{ID: "1-1"}}},
		{Activities: []Activity{{ID: "2-1"}, {ID: "2-2"}}},
	}
	a, d, i, ok := s.FindActivity("2-2")
	assert.True(t, ok)
	assert.Equal(t, "2-2", a.ID)
	assert.Equal(t, 1, d)
	assert.Equal(t, 1, i)
	assert.Equal(t, 3, s.ActivityCount())

	_, _, _, ok = s.FindActivity("nope")
	assert.False(t, ok)
}
