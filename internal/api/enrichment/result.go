package enrichment

import (
	"errors"
	"fmt"
	"strings"

	generativeAI "github.com/FACorreiaa/go-trip-itinerary/internal/api/generative_ai"
	"github.com/FACorreiaa/go-trip-itinerary/internal/types"
)

var ErrInvalidResult = errors.New("invalid enrichment result")

// ParseResult extracts and validates an EnrichmentResult from raw model text.
func ParseResult(text string) (types.EnrichmentResult, error) {
	result, err := generativeAI.DecodeJSONObject[types.EnrichmentResult](text)
	if err != nil {
		return types.EnrichmentResult{}, fmt.Errorf("%w: %v", ErrInvalidResult, err)
	}
	if err := validateResult(result); err != nil {
		return types.EnrichmentResult{}, err
	}
	return normalizeResult(result), nil
}

func validateResult(r types.EnrichmentResult) error {
	if c := r.Coordinates; c != nil {
		if c.Lat < -90 || c.Lat > 90 || c.Lng < -180 || c.Lng > 180 {
			return fmt.Errorf("%w: coordinates out of range (%f, %f)", ErrInvalidResult, c.Lat, c.Lng)
		}
	}
	return nil
}

// normalizeResult trims strings, drops blank list items and treats a 0,0
// coordinate pair as absent.
func normalizeResult(r types.EnrichmentResult) types.EnrichmentResult {
	r.AIDescription = strings.TrimSpace(r.AIDescription)
	r.OpeningHours = strings.TrimSpace(r.OpeningHours)
	r.ReservationInfo = strings.TrimSpace(r.ReservationInfo)
	r.EstimatedTravelTime = strings.TrimSpace(r.EstimatedTravelTime)
	r.Notes = compact(r.Notes)
	r.MustEat = compact(r.MustEat)
	r.MustBuy = compact(r.MustBuy)
	r.Tips = compact(r.Tips)
	if r.Coordinates != nil && r.Coordinates.Lat == 0 && r.Coordinates.Lng == 0 {
		r.Coordinates = nil
	}
	return r
}

func compact(items []string) []string {
	var out []string
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
