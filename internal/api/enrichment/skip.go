package enrichment

import (
	"strings"

	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

var DefaultBreakfastMarkers = []string{"早餐", "breakfast"}

// SkipPolicy names the activities not worth spending quota on.
type SkipPolicy struct {
	Types            []types.ActivityType
	BreakfastMarkers []string
}

func DefaultSkipPolicy() SkipPolicy {
	return SkipPolicy{
		Types:            []types.ActivityType{types.ActivityTypeFlight},
		BreakfastMarkers: DefaultBreakfastMarkers,
	}
}

func (p SkipPolicy) ShouldSkip(a types.Activity) bool {
	for _, t := range p.Types {
		if a.Type == t {
			return true
		}
	}
	title := strings.ToLower(a.Title)
	for _, marker := range p.BreakfastMarkers {
		if marker != "" && strings.Contains(title, strings.ToLower(marker)) {
			return true
		}
	}
	return false
}
