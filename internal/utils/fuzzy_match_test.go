package utils

import "testing"

func TestFuzzyMatchAmenity(t *testing.T) {
	tests := []struct {
		search  string
		amenity string
		want    bool
	}{
		{"pool", "Swimming Pool", true},
		{"swimming", "Pool", true},
		{"gym", "Fitness Center", true},
		{"parking", "Covered Parking", true},
		{"garage", "Car park", true},
		{"elevator", "Lift", true},
		{"ac", "Central Air", true},
		{"ac", "Open space", false},
		{"pets", "Pet-friendly", true},
		{"garden", "Lawn", true},
		{"gym", "Swimming pool", false},
		{"", "Gym", false},
		{"sauna", "Gym", false},
	}

	for _, tt := range tests {
		t.Run(tt.search+"/"+tt.amenity, func(t *testing.T) {
			if got := FuzzyMatchAmenity(tt.search, tt.amenity); got != tt.want {
				t.Errorf("FuzzyMatchAmenity(%q, %q) = %v, want %v", tt.search, tt.amenity, got, tt.want)
			}
		})
	}
}

func TestNormalizeAmenity(t *testing.T) {
	tests := map[string]string{
		"pool":         "Swimming pool",
		"  GYM ":       "Gym",
		"elevator":     "Lift",
		"rooftop deck": "Rooftop Deck",
	}
	for in, want := range tests {
		if got := NormalizeAmenity(in); got != want {
			t.Errorf("NormalizeAmenity(%q) = %q, want %q", in, got, want)
		}
	}
}
