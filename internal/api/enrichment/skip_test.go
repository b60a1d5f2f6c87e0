package enrichment

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

func TestSkipPolicy_ShouldSkip(t *testing.T) {
	p := DefaultSkipPolicy()

	tests := []struct {
		name     string
		activity types.Activity
		want     bool
	}{
		{"flight", types.Activity{Title: "CI851", Type: types.ActivityTypeFlight}, true},
		{"hotel breakfast", types.Activity{Title: "飯店早餐", Type: types.ActivityTypeFood}, true},
		{"english breakfast", types.Activity{Title: "Hotel Breakfast", Type: types.ActivityTypeFood}, true},
		{"lunch", types.Activity{Title: "Khao Soi Khun Yai", Type: types.ActivityTypeFood}, false},
		{"temple", types.Activity{Title: "素帖寺", Type: types.ActivityTypeSightseeing}, false},
		{"transport", types.Activity{Title: "包車", Type: types.ActivityTypeTransport}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, p.ShouldSkip(tt.activity))
		})
	}
}

func TestSkipPolicy_Empty(t *testing.T) {
	var p SkipPolicy
	assert.False(t, p.ShouldSkip(types.Activity{Title: "早餐", Type: types.ActivityTypeFlight}))
}
