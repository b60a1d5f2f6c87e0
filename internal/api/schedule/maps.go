package schedule

import "net/url"

// MapLinks are the Google Maps URLs derived from a free-text location.
type MapLinks struct {
	Search string `json:"search"`
	Embed  string `json:"embed"`
}

func mapLinksFor(location string) *MapLinks {
	if location == "" {
		return nil
	}
	q := url.QueryEscape(location)
	return &MapLinks{
		Search: "https://www.google.com/maps/search/?api=1&query=" + q,
		Embed:  "https://maps.google.com/maps?q=" + q + "&t=&z=14&ie=UTF8&iwloc=&output=embed",
	}
}
