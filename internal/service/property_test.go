package service

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/model"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/nlp"
	"github.com/AI-Alan/Agent-Mira-Case-Study/internal/repository"
)

func fixtureProperties() []model.Property {
	return []model.Property{
		{ID: "1", Title: "Sea View Flat", Price: 12000000, Location: "Mumbai, Maharashtra", Bedrooms: 3, Amenities: []string{"Gym", "Swimming Pool"}, ImageURL: "https://img.example/1.jpg"},
		{ID: "2", Title: "Downtown Condo", Price: 450000, Location: "Miami, FL", Bedrooms: 2, Amenities: []string{"Parking", "Elevator"}},
		{ID: "3", Title: "Budget Studio", Price: 40000, Location: "Austin, TX", Bedrooms: 1},
		{ID: "4", Title: "Pune Villa", Price: 25000000, Location: "Pune, Maharashtra", Bedrooms: 4, Amenities: []string{"Garden"}},
		{ID: "5", Title: "Loft", Price: 90000, Location: "New York, NY", Bedrooms: 2, Amenities: []string{"Gym"}},
	}
}

func newFixtureService() *PropertyService {
	return NewPropertyServiceFromList(fixtureProperties(), nlp.DefaultConfig().BudgetRanges, 83)
}

func ids(props []model.Property) []string {
	out := make([]string, 0, len(props))
	for _, p := range props {
		out = append(out, p.ID)
	}
	return out
}

func TestPropertyService_Filter(t *testing.T) {
	s := newFixtureService()
	ctx := context.Background()

	tests := []struct {
		name    string
		filters model.BasicFilters
		want    []string
	}{
		{"no filters", model.BasicFilters{}, []string{"1", "2", "3", "4", "5"}},
		{"blank filters", model.BasicFilters{Location: model.StringPtr(""), Budget: model.StringPtr("")}, []string{"1", "2", "3", "4", "5"}},
		{"location substring", model.BasicFilters{Location: model.StringPtr("mumbai")}, []string{"1"}},
		{"location case-insensitive", model.BasicFilters{Location: model.StringPtr("NEW YORK")}, []string{"5"}},
		{"table budget", model.BasicFilters{Budget: model.StringPtr("300k-500k")}, []string{"2"}},
		{"table budget lowest", model.BasicFilters{Budget: model.StringPtr("0-50k")}, []string{"3"}},
		{"table budget top", model.BasicFilters{Budget: model.StringPtr("1m+")}, []string{"1", "4"}},
		{"legacy 0-50L converts USD", model.BasicFilters{Budget: model.StringPtr("0-50L")}, []string{"3"}},
		{"legacy 50L-1Cr", model.BasicFilters{Budget: model.StringPtr("50L-1Cr")}, []string{"5"}},
		{"legacy 1Cr-2Cr", model.BasicFilters{Budget: model.StringPtr("1Cr-2Cr")}, []string{"1"}},
		{"legacy 2Cr+", model.BasicFilters{Budget: model.StringPtr("2Cr+")}, []string{"2", "4"}},
		{"unknown budget ignored", model.BasicFilters{Budget: model.StringPtr("cheap")}, []string{"1", "2", "3", "4", "5"}},
		{"bedrooms", model.BasicFilters{Bedrooms: model.StringPtr("2")}, []string{"2", "5"}},
		{"combined", model.BasicFilters{Location: model.StringPtr("Pune"), Bedrooms: model.StringPtr("4")}, []string{"4"}},
		{"no match", model.BasicFilters{Location: model.StringPtr("Delhi")}, []string{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := s.Filter(ctx, tt.filters)
			require.NoError(t, err)
			assert.Equal(t, tt.want, ids(got))
		})
	}
}

func TestPropertyService_ByID(t *testing.T) {
	s := newFixtureService()
	ctx := context.Background()

	p, err := s.ByID(ctx, " 4 ")
	require.NoError(t, err)
	assert.Equal(t, "Pune Villa", p.Title)

	_, err = s.ByID(ctx, "99")
	assert.ErrorIs(t, err, ErrPropertyNotFound)
}

func TestPropertyService_AllReturnsCopy(t *testing.T) {
	s := newFixtureService()
	ctx := context.Background()

	all, err := s.All(ctx)
	require.NoError(t, err)
	require.Len(t, all, 5)
	all[0].Title = "changed"

	again, err := s.All(ctx)
	require.NoError(t, err)
	assert.Equal(t, "Sea View Flat", again[0].Title)
}

func TestPropertyService_Cities(t *testing.T) {
	cities, err := newFixtureService().Cities()
	require.NoError(t, err)
	assert.Equal(t, []string{"austin", "miami", "mumbai", "new york", "pune"}, cities)
}

func TestPropertyService_LoadsDirectoryOnce(t *testing.T) {
	dir := t.TempDir()
	basics := `[{"id": 1, "title": "One", "price": 100000, "location": "Austin, TX"}]`
	require.NoError(t, os.WriteFile(filepath.Join(dir, repository.BasicsFile), []byte(basics), 0o600))

	s := NewPropertyService(dir, nlp.DefaultConfig().BudgetRanges, 83, nil)
	all, err := s.All(context.Background())
	require.NoError(t, err)
	require.Len(t, all, 1)

	// later edits are not picked up
	require.NoError(t, os.WriteFile(filepath.Join(dir, repository.BasicsFile), []byte(`[]`), 0o600))
	all, err = s.All(context.Background())
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestIsIndianCity(t *testing.T) {
	assert.True(t, IsIndianCity("Mumbai, Maharashtra"))
	assert.True(t, IsIndianCity("Sector 62, Noida"))
	assert.False(t, IsIndianCity("Miami, FL"))
	assert.False(t, IsIndianCity(""))
}

func TestPriceBounds_Contains(t *testing.T) {
	halfOpen := PriceBounds{Min: 100, Max: 200}
	assert.True(t, halfOpen.Contains(model.Property{Price: 100}))
	assert.False(t, halfOpen.Contains(model.Property{Price: 200}))

	inclusive := PriceBounds{Min: 0, Max: 5e6, Inclusive: true, ToINR: 83}
	assert.True(t, inclusive.Contains(model.Property{Price: 5e6, Location: "Pune"}))
	assert.False(t, inclusive.Contains(model.Property{Price: 5e6, Location: "Austin"}))
}
