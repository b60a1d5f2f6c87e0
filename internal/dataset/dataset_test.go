package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

func TestLoad(t *testing.T) {
	trip, err := Load()
	require.NoError(t, err)

	t.Run("schedule keeps declaration order", func(t *testing.T) {
		require.Len(t, trip.Schedule, 5)
		assert.Equal(t, "2025-11-28", trip.Schedule[0].Date)
		assert.Equal(t, "2025-12-02", trip.Schedule[4].Date)
		ids := make([]string, 0)
		for _, a := range trip.Schedule[0].Activities {
			ids = append(ids, a.ID)
		}
		assert.Equal(t, []string{"1-1", "1-2", "1-3", "1-4", "1-5", "1-6", "1-7", "1-8"}, ids)
	})

	t.Run("days start with placeholder weather", func(t *testing.T) {
		for _, d := range trip.Schedule {
			assert.True(t, d.HasPlaceholderWeather(), d.Date)
		}
	})

	t.Run("static fields are populated", func(t *testing.T) {
		a, _, _, ok := trip.Schedule.FindActivity("1-4")
		require.True(t, ok)
		assert.Equal(t, types.ActivityTypeSightseeing, a.Type)
		assert.Equal(t, "Wat Rong Khun", a.Location)
		assert.Equal(t, "🚗 15 min", a.EstimatedTravelTime)
		assert.Contains(t, a.ImageURL, "photo-1598935898639-3237d2e0ae4d")
		assert.False(t, a.IsEnriched())
	})

	t.Run("curated weather covers every day", func(t *testing.T) {
		for _, d := range trip.Schedule {
			w, ok := trip.Weather[d.Date]
			require.True(t, ok, d.Date)
			assert.NotEmpty(t, w.Range)
		}
		assert.Equal(t, "17-21°C", trip.Weather["2025-11-28"].Range)
	})

	t.Run("reference tables", func(t *testing.T) {
		assert.Len(t, trip.Info.Flights, 2)
		assert.Len(t, trip.Info.Hotels, 2)
		assert.NotEmpty(t, trip.Info.PackingList)
		assert.NotEmpty(t, trip.Info.EmergencyContacts)
		assert.NotEmpty(t, trip.Info.Notices)
		assert.Equal(t, "Chiang Mai, Thailand", trip.Info.Destination)
	})
}

func TestParse_Rejects(t *testing.T) {
	t.Run("duplicate ids", func(t *testing.T) {
		doc := []byte(`
days:
  - date: "2025-01-01"
    activities:
      - { id: "a", title: One, type: FOOD }
      - { id: "a", title: Two, type: FOOD }
`)
		_, err := Parse(doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "duplicate")
	})

	t.Run("unknown type", func(t *testing.T) {
		doc := []byte(`
days:
  - date: "2025-01-01"
    activities:
      - { id: "a", title: One, type: SPACEWALK }
`)
		_, err := Parse(doc)
		require.Error(t, err)
	})

	t.Run("no days", func(t *testing.T) {
		_, err := Parse([]byte(`title: empty`))
		require.Error(t, err)
	})
}
