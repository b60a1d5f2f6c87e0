package types

import "strings"

const (
	WeatherIconClear        = "☀️"
	WeatherIconPartlyCloudy = "⛅"
	WeatherIconRainy        = "🌧️"
)

// WeatherPrediction is the per-day summary shown next to the schedule.
type WeatherPrediction struct {
	Range string `json:"range" yaml:"range"`
	Icon  string `json:"icon" yaml:"icon"`
}

// NormalizeWeatherIcon maps an icon or a category word onto one of the three
// supported icons. The second return value is false for anything else.
func NormalizeWeatherIcon(s string) (string, bool) {
	v := strings.ToLower(strings.TrimSpace(s))
	switch v {
	case WeatherIconClear, "☀", "clear", "sunny":
		return WeatherIconClear, true
	case WeatherIconPartlyCloudy, "partly-cloudy", "partly cloudy", "partly_cloudy", "cloudy":
		return WeatherIconPartlyCloudy, true
	case WeatherIconRainy, "🌧", "rainy", "rain", "showers":
		return WeatherIconRainy, true
	}
	return "", false
}
