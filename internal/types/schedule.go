package types

const (
	WeatherRangePlaceholder = "Loading..."
	WeatherIconPlaceholder  = "⏳"
)

// DaySchedule holds the activities of one calendar day in declaration order.
type DaySchedule struct {
	Date         string     `json:"date"`
	DayLabel     string     `json:"dayLabel"`
	FullDate     string     `json:"fullDate"`
	WeatherRange string     `json:"weatherRange"`
	WeatherIcon  string     `json:"weatherIcon,omitempty"`
	DressCode    string     `json:"dressCode"`
	Activities   []Activity `json:"activities"`
}

// HasPlaceholderWeather reports whether the day still shows the loading
// placeholder instead of a prediction.
func (d DaySchedule) HasPlaceholderWeather() bool {
	return d.WeatherRange == WeatherRangePlaceholder || d.WeatherIcon == WeatherIconPlaceholder
}

// ApplyWeather returns a copy of d carrying the prediction.
func (d DaySchedule) ApplyWeather(p WeatherPrediction) DaySchedule {
	out := d.Clone()
	out.WeatherRange = p.Range
	out.WeatherIcon = p.Icon
	return out
}

func (d DaySchedule) Clone() DaySchedule {
	c := d
	if d.Activities != nil {
		c.Activities = make([]Activity, len(d.Activities))
		for i, a := range d.Activities {
			c.Activities[i] = a.Clone()
		}
	}
	return c
}

// Schedule is the whole itinerary, ordered by day.
type Schedule []DaySchedule

func (s Schedule) Clone() Schedule {
	if s == nil {
		return nil
	}
	out := make(Schedule, len(s))
	for i, d := range s {
		out[i] = d.Clone()
	}
	return out
}

// FindActivity locates an activity by id and returns it with its day and
// position indexes.
func (s Schedule) FindActivity(id string) (Activity, int, int, bool) {
	for di, day := range s {
		for ai, a := range day.Activities {
			if a.ID == id {
				return a, di, ai, true
			}
		}
	}
	return Activity{}, -1, -1, false
}

// ActivityCount returns the number of activities across all days.
func (s Schedule) ActivityCount() int {
	n := 0
	for _, d := range s {
		n += len(d.Activities)
	}
	return n
}
