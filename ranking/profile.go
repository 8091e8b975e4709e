// Package ranking orders content feeds. A caller with travel history gets the
// personalized strategy; everyone else gets the generic one.
package ranking

import (
	"sort"
	"strings"

	"github.com/trailtales/trailtales-api/models"
)

// Preferences are the itinerary preference values seen for a user
type Preferences struct {
	BudgetTypes         []string `json:"budgetTypes"`
	AccommodationTypes  []string `json:"accommodationTypes"`
	TransportationTypes []string `json:"transportationTypes"`
}

// Profile is a user's travel signal, derived per request from itineraries
type Profile struct {
	Locations   map[string]struct{}
	Preferences Preferences
}

// Empty reports whether the profile carries no location signal. Preferences
// alone do not count since the personalized score never reads them.
func (p Profile) Empty() bool {
	return len(p.Locations) == 0
}

// LocationTokens returns the location tokens in sorted order
func (p Profile) LocationTokens() []string {
	tokens := make([]string, 0, len(p.Locations))
	for t := range p.Locations {
		tokens = append(tokens, t)
	}
	sort.Strings(tokens)
	return tokens
}

// BuildProfile extracts location tokens and preference tags from itineraries.
// Missing or blank fields are skipped.
func BuildProfile(itineraries []models.Itinerary) Profile {
	p := Profile{Locations: make(map[string]struct{})}
	var budgets, stays, transports orderedSet

	for _, it := range itineraries {
		p.addLocation(it.StartLocation)
		p.addLocation(it.EndLocation)
		for _, d := range it.Destinations {
			p.addLocation(d)
		}
		for _, day := range it.Days {
			for _, place := range day.Places {
				p.addLocation(cityFromAddress(place.Address))
			}
		}
		if it.Accommodation != nil {
			p.addLocation(cityFromAddress(it.Accommodation.Address))
		}
		if it.Preferences != nil {
			budgets.add(it.Preferences.Budget)
			stays.add(it.Preferences.AccommodationType)
			transports.add(it.Preferences.TransportationType)
		}
	}

	p.Preferences = Preferences{
		BudgetTypes:         budgets.values,
		AccommodationTypes:  stays.values,
		TransportationTypes: transports.values,
	}
	return p
}

func (p Profile) addLocation(raw string) {
	if token := normalize(raw); token != "" {
		p.Locations[token] = struct{}{}
	}
}

// cityFromAddress keeps the part of an address before the first comma
func cityFromAddress(address string) string {
	if i := strings.Index(address, ","); i >= 0 {
		return address[:i]
	}
	return address
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

type orderedSet struct {
	seen   map[string]struct{}
	values []string
}

func (s *orderedSet) add(raw string) {
	v := normalize(raw)
	if v == "" {
		return
	}
	if s.seen == nil {
		s.seen = make(map[string]struct{})
	}
	if _, ok := s.seen[v]; ok {
		return
	}
	s.seen[v] = struct{}{}
	s.values = append(s.values, v)
}
