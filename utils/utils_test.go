package utils

import (
	"testing"

	"city-route/model"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHaversineDistance(t *testing.T) {
	a := model.Point{Lat: 40.7128, Lng: -74.0060}
	assert.Zero(t, HaversineDistance(a, a))

	// one degree of latitude is roughly 111.3 km on this radius
	b := model.Point{Lat: 41.7128, Lng: -74.0060}
	assert.InDelta(t, 111319.0, HaversineDistance(a, b), 100)
	assert.InDelta(t, HaversineDistance(a, b), HaversineDistance(b, a), 1e-9)
}

func TestBoundsOf(t *testing.T) {
	_, ok := BoundsOf(nil)
	assert.False(t, ok)

	b, ok := BoundsOf([]model.Point{
		{Lat: 40.71, Lng: -74.00},
		{Lat: 40.75, Lng: -74.02},
		{Lat: 40.70, Lng: -74.01},
	})
	require.True(t, ok)
	assert.Equal(t, Bounds{South: 40.70, West: -74.02, North: 40.75, East: -74.00}, b)
}

func TestPasswordRoundTrip(t *testing.T) {
	hash, err := HashPassword("secret123")
	require.NoError(t, err)
	assert.NotEqual(t, "secret123", hash)
	assert.True(t, CheckPassword(hash, "secret123"))
	assert.False(t, CheckPassword(hash, "wrong"))
}
