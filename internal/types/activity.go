package types

// ActivityType classifies a scheduled itinerary item.
type ActivityType string

const (
	ActivityTypeFlight      ActivityType = "FLIGHT"
	ActivityTypeFood        ActivityType = "FOOD"
	ActivityTypeSightseeing ActivityType = "SIGHTSEEING"
	ActivityTypeTransport   ActivityType = "TRANSPORT"
	ActivityTypeHotel       ActivityType = "HOTEL"
	ActivityTypeShopping    ActivityType = "SHOPPING"
	ActivityTypeActivity    ActivityType = "ACTIVITY"
)

// Valid reports whether t is one of the known activity types.
func (t ActivityType) Valid() bool {
	switch t {
	case ActivityTypeFlight, ActivityTypeFood, ActivityTypeSightseeing, ActivityTypeTransport,
		ActivityTypeHotel, ActivityTypeShopping, ActivityTypeActivity:
		return true
	}
	return false
}

type Coordinates struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// Activity is one scheduled item of the trip. The first block of fields comes
// from the static dataset; the second block is filled by enrichment.
type Activity struct {
	ID                  string       `json:"id"`
	Time                string       `json:"time"`
	Title               string       `json:"title"`
	Type                ActivityType `json:"type"`
	Location            string       `json:"location,omitempty"`
	OriginalDescription string       `json:"originalDescription,omitempty"`
	ImageURL            string       `json:"imageUrl,omitempty"`

	AIDescription       string       `json:"aiDescription,omitempty"`
	OpeningHours        string       `json:"openingHours,omitempty"`
	Notes               []string     `json:"notes,omitempty"`
	MustEat             []string     `json:"mustEat,omitempty"`
	MustBuy             []string     `json:"mustBuy,omitempty"`
	Tips                []string     `json:"tips,omitempty"`
	ReservationInfo     string       `json:"reservationInfo,omitempty"`
	EstimatedTravelTime string       `json:"estimatedTravelTime,omitempty"`
	Coordinates         *Coordinates `json:"coordinates,omitempty"`
}

// IsEnriched reports whether any generated field has been merged into the
// activity. EstimatedTravelTime is excluded because the dataset ships static
// travel hints.
func (a Activity) IsEnriched() bool {
	return a.AIDescription != "" ||
		a.OpeningHours != "" ||
		len(a.Notes) > 0 ||
		len(a.MustEat) > 0 ||
		len(a.MustBuy) > 0 ||
		len(a.Tips) > 0 ||
		a.ReservationInfo != "" ||
		a.Coordinates != nil
}

// Merge returns a copy of a with every field present in r written over it.
// Fields r leaves empty keep their current value, which is how the static
// travel-time hint survives a result without one.
func (a Activity) Merge(r EnrichmentResult) Activity {
	merged := a.Clone()
	if r.AIDescription != "" {
		merged.AIDescription = r.AIDescription
	}
	if r.OpeningHours != "" {
		merged.OpeningHours = r.OpeningHours
	}
	if len(r.Notes) > 0 {
		merged.Notes = cloneStrings(r.Notes)
	}
	if len(r.MustEat) > 0 {
		merged.MustEat = cloneStrings(r.MustEat)
	}
	if len(r.MustBuy) > 0 {
		merged.MustBuy = cloneStrings(r.MustBuy)
	}
	if len(r.Tips) > 0 {
		merged.Tips = cloneStrings(r.Tips)
	}
	if r.ReservationInfo != "" {
		merged.ReservationInfo = r.ReservationInfo
	}
	if r.EstimatedTravelTime != "" {
		merged.EstimatedTravelTime = r.EstimatedTravelTime
	}
	if r.Coordinates != nil {
		c := *r.Coordinates
		merged.Coordinates = &c
	}
	return merged
}

// Clone returns a deep copy of a.
func (a Activity) Clone() Activity {
	c := a
	c.Notes = cloneStrings(a.Notes)
	c.MustEat = cloneStrings(a.MustEat)
	c.MustBuy = cloneStrings(a.MustBuy)
	c.Tips = cloneStrings(a.Tips)
	if a.Coordinates != nil {
		coords := *a.Coordinates
		c.Coordinates = &coords
	}
	return c
}

// EnrichmentResult is the subset of Activity fields produced by the
// generative backend. The zero value means nothing new was learned.
type EnrichmentResult struct {
	AIDescription       string       `json:"aiDescription,omitempty"`
	OpeningHours        string       `json:"openingHours,omitempty"`
	Notes               []string     `json:"notes,omitempty"`
	MustEat             []string     `json:"mustEat,omitempty"`
	MustBuy             []string     `json:"mustBuy,omitempty"`
	Tips                []string     `json:"tips,omitempty"`
	ReservationInfo     string       `json:"reservationInfo,omitempty"`
	EstimatedTravelTime string       `json:"estimatedTravelTime,omitempty"`
	Coordinates         *Coordinates `json:"coordinates,omitempty"`
}

func (r EnrichmentResult) IsEmpty() bool {
	return r.AIDescription == "" &&
		r.OpeningHours == "" &&
		len(r.Notes) == 0 &&
		len(r.MustEat) == 0 &&
		len(r.MustBuy) == 0 &&
		len(r.Tips) == 0 &&
		r.ReservationInfo == "" &&
		r.EstimatedTravelTime == "" &&
		r.Coordinates == nil
}

func cloneStrings(s []string) []string {
	if s == nil {
		return nil
	}
	out := make([]string, len(s))
	copy(out, s)
	return out
}
