package models

// Itinerary is a trip plan as served by the itinerary service. Every field is
// optional; that service evolves independently of this one.
type Itinerary struct {
	ID            string                `json:"_id,omitempty"`
	Title         string                `json:"title,omitempty"`
	StartLocation string                `json:"startLocation,omitempty"`
	EndLocation   string                `json:"endLocation,omitempty"`
	Destinations  []string              `json:"destinations,omitempty"`
	Days          []ItineraryDay        `json:"days,omitempty"`
	Accommodation *ItineraryStay        `json:"accommodation,omitempty"`
	Preferences   *ItineraryPreferences `json:"preferences,omitempty"`
}

// ItineraryDay holds the places visited on one day of a trip
type ItineraryDay struct {
	Day    int              `json:"day,omitempty"`
	Places []ItineraryPlace `json:"places,omitempty"`
}

// ItineraryPlace is a single stop on a trip day
type ItineraryPlace struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// ItineraryStay is where the traveller sleeps
type ItineraryStay struct {
	Name    string `json:"name,omitempty"`
	Address string `json:"address,omitempty"`
}

// ItineraryPreferences are the trip level preference fields
type ItineraryPreferences struct {
	Budget             string `json:"budget,omitempty"`
	AccommodationType  string `json:"accommodationType,omitempty"`
	TransportationType string `json:"transportationType,omitempty"`
}

// ItineraryListResponse is the envelope returned by the itinerary service
type ItineraryListResponse struct {
	Success bool        `json:"success"`
	Data    []Itinerary `json:"data"`
}
