package enrichment

import (
	"fmt"
	"strings"

	"google.golang.org/genai"

	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

// PromptContext is the trip-wide context every prompt is written against.
type PromptContext struct {
	Destination string
	Language    string
}

func getActivityPrompt(pc PromptContext, a types.Activity, previousLocation string) string {
	location := a.Location
	if location == "" {
		location = a.Title
	}
	if previousLocation == "" {
		previousLocation = pc.Destination
	}

	var b strings.Builder
	fmt.Fprintf(&b, "You are a professional local guide in %s.\n", pc.Destination)
	fmt.Fprintf(&b, "Analyse the itinerary stop %q (location: %s, category: %s).\n", a.Title, location, a.Type)
	if a.OriginalDescription != "" {
		fmt.Fprintf(&b, "Organiser's note: %s.\n", a.OriginalDescription)
	}
	fmt.Fprintf(&b, "The previous stop was %q.\n\n", previousLocation)
	fmt.Fprintf(&b, "Reply with a single JSON object. Write every text value in %s.\n", pc.Language)
	b.WriteString(`1. aiDescription: a short, lively story about the place (under 40 characters).
2. openingHours: usual opening hours, if it has any.
3. notes: 0-2 cautions (dress code, closures, crowds).
4. mustEat: 2-3 signature dishes by name for a restaurant, or famous snacks nearby for a sight.
5. mustBuy: specific souvenirs worth buying, empty if none.
6. tips: 1-2 practical tips.
7. reservationInfo: whether booking ahead is needed, briefly.
8. estimatedTravelTime: driving time from the previous stop, e.g. "about 20 min".
9. coordinates: { lat, lng } of the place.
`)
	return b.String()
}

func activityResponseSchema() *genai.Schema {
	stringList := &genai.Schema{Type: genai.TypeArray, Items: &genai.Schema{Type: genai.TypeString}}
	return &genai.Schema{
		Type: genai.TypeObject,
		Properties: map[string]*genai.Schema{
			"aiDescription":       {Type: genai.TypeString},
			"openingHours":        {Type: genai.TypeString},
			"notes":               stringList,
			"mustEat":             stringList,
			"mustBuy":             stringList,
			"tips":                stringList,
			"reservationInfo":     {Type: genai.TypeString},
			"estimatedTravelTime": {Type: genai.TypeString},
			"coordinates": {
				Type: genai.TypeObject,
				Properties: map[string]*genai.Schema{
					"lat": {Type: genai.TypeNumber},
					"lng": {Type: genai.TypeNumber},
				},
			},
		},
	}
}
