package ranking

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/trailtales/trailtales-api/models"
	"github.com/trailtales/trailtales-api/scoring"
)

func TestBuildProfile(t *testing.T) {
	itineraries := []models.Itinerary{
		{
			StartLocation: "  Colombo ",
			EndLocation:   "Galle",
			Destinations:  []string{"Ella", "galle", ""},
			Days: []models.ItineraryDay{
				{Places: []models.ItineraryPlace{
					{Name: "Fort", Address: "Church St, Galle Fort, Sri Lanka"},
					{Name: "Nine Arch Bridge"},
				}},
			},
			Accommodation: &models.ItineraryStay{Address: "Kandy Lake Rd, Kandy"},
			Preferences: &models.ItineraryPreferences{
				Budget:             "Budget",
				AccommodationType:  "Hostel",
				TransportationType: "Train",
			},
		},
		{
			StartLocation: "KANDY",
			Preferences: &models.ItineraryPreferences{
				Budget:             "budget ",
				TransportationType: "Tuk-tuk",
			},
		},
	}

	p := BuildProfile(itineraries)

	assert.Equal(t, []string{"church st", "colombo", "ella", "galle", "kandy", "kandy lake rd"}, p.LocationTokens())
	assert.Equal(t, []string{"budget"}, p.Preferences.BudgetTypes)
	assert.Equal(t, []string{"hostel"}, p.Preferences.AccommodationTypes)
	assert.Equal(t, []string{"train", "tuk-tuk"}, p.Preferences.TransportationTypes)
	assert.False(t, p.Empty())
}

func TestBuildProfileEmpty(t *testing.T) {
	assert.True(t, BuildProfile(nil).Empty())
	assert.True(t, BuildProfile([]models.Itinerary{{Title: "no locations"}}).Empty())
	assert.True(t, BuildProfile([]models.Itinerary{{StartLocation: "   ", Accommodation: &models.ItineraryStay{}}}).Empty())
}

func TestCityFromAddress(t *testing.T) {
	assert.Equal(t, "Galle", cityFromAddress("Galle, Sri Lanka"))
	assert.Equal(t, "Ella", cityFromAddress("Ella"))
	assert.Equal(t, "", cityFromAddress(", Sri Lanka"))
}

// Preferences never feed the personalized score, so they alone do not make a
// profile usable.
func TestBuildProfilePreferencesOnlyIsEmpty(t *testing.T) {
	p := BuildProfile([]models.Itinerary{{
		Title:       "undecided trip",
		Preferences: &models.ItineraryPreferences{Budget: "Budget", AccommodationType: "Hostel"},
	}})

	assert.True(t, p.Empty())
	assert.Equal(t, []string{"budget"}, p.Preferences.BudgetTypes)
	assert.Equal(t, []string{"hostel"}, p.Preferences.AccommodationTypes)
	assert.Equal(t, AlgorithmGeneric, SelectStrategy(p, scoring.DefaultWeights()).Algorithm)
}
