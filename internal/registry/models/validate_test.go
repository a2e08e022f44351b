package models

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestValidGPS(t *testing.T) {
	cases := []struct {
		name  string
		lat   int64
		lng   int64
		valid bool
	}{
		{"origin", 0, 0, true},
		{"north pole", MaxLatitudeE6, 0, true},
		{"south pole", -MaxLatitudeE6, 0, true},
		{"date line east", 0, MaxLongitudeE6, true},
		{"date line west", 0, -MaxLongitudeE6, true},
		{"latitude too far north", MaxLatitudeE6 + 1, 0, false},
		{"latitude too far south", -MaxLatitudeE6 - 1, 0, false},
		{"longitude too far east", 0, MaxLongitudeE6 + 1, false},
		{"longitude too far west", 0, -MaxLongitudeE6 - 1, false},
		{"serengeti", -2_333_333, 34_833_333, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.valid, ValidGPS(tc.lat, tc.lng))
		})
	}
}

func TestValidGoals(t *testing.T) {
	assert.False(t, ValidGoals(nil))
	assert.False(t, ValidGoals([]string{}))
	assert.True(t, ValidGoals([]string{"reforestation"}))
	assert.True(t, ValidGoals(make([]string, MaxGoals)))
	assert.False(t, ValidGoals(make([]string, MaxGoals+1)))
}

func TestValidMetadataText(t *testing.T) {
	assert.True(t, ValidMetadataText("", ""))
	assert.True(t, ValidMetadataText(strings.Repeat("a", MaxDescriptionLen), strings.Repeat("b", MaxImageRefLen)))
	assert.False(t, ValidMetadataText(strings.Repeat("a", MaxDescriptionLen+1), ""))
	assert.False(t, ValidMetadataText("", strings.Repeat("b", MaxImageRefLen+1)))
}

func TestValidRoyalty(t *testing.T) {
	assert.True(t, ValidRoyalty(0))
	assert.True(t, ValidRoyalty(MaxRoyaltyBps))
	assert.False(t, ValidRoyalty(MaxRoyaltyBps+1))
}

func TestValidTagBudget(t *testing.T) {
	assert.True(t, ValidTagBudget(0, 0))
	assert.True(t, ValidTagBudget(0, MaxTags))
	assert.True(t, ValidTagBudget(MaxTags, 0))
	assert.False(t, ValidTagBudget(MaxTags, 1))
	assert.False(t, ValidTagBudget(4, 7))
}

func TestValidStatusLabel(t *testing.T) {
	assert.True(t, ValidStatusLabel(""))
	assert.True(t, ValidStatusLabel(StatusActive))
	assert.True(t, ValidStatusLabel(strings.Repeat("x", MaxStatusLabelLen)))
	assert.False(t, ValidStatusLabel(strings.Repeat("x", MaxStatusLabelLen+1)))
}
