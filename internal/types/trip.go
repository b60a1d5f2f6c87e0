package types

// FlightInfo describes one booked flight leg.
type FlightInfo struct {
	Airline  string `json:"airline" yaml:"airline"`
	FlightNo string `json:"flightNo" yaml:"flightNo"`
	Route    string `json:"route" yaml:"route"`
	Time     string `json:"time" yaml:"time"`
	Duration string `json:"duration,omitempty" yaml:"duration"`
}

type HotelInfo struct {
	Name        string `json:"name" yaml:"name"`
	Address     string `json:"address" yaml:"address"`
	CheckIn     string `json:"checkIn" yaml:"checkIn"`
	CheckOut    string `json:"checkOut" yaml:"checkOut"`
	BookingCode string `json:"bookingCode,omitempty" yaml:"bookingCode"`
}

type EmergencyContact struct {
	Name   string `json:"name" yaml:"name"`
	Number string `json:"number" yaml:"number"`
}

// TripInfo bundles the fixed reference tables shown in the guide view.
type TripInfo struct {
	Title             string             `json:"title" yaml:"title"`
	Destination       string             `json:"destination" yaml:"destination"`
	Flights           []FlightInfo       `json:"flights" yaml:"flights"`
	Hotels            []HotelInfo        `json:"hotels" yaml:"hotels"`
	PackingList       []string           `json:"packingList" yaml:"packingList"`
	EmergencyContacts []EmergencyContact `json:"emergencyContacts" yaml:"emergencyContacts"`
	Notices           []string           `json:"notices" yaml:"notices"`
	TaxRefund         []string           `json:"taxRefund" yaml:"taxRefund"`
}
