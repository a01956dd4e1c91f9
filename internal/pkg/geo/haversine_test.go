package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHaversineMiles_KnownDistance(t *testing.T) {
	// 芝加哥 -> 纽约 约712英里
	distance := HaversineMiles(41.8781, -87.6298, 40.7128, -74.0060)
	assert.InDelta(t, 712.0, distance, 10.0)
}

func TestHaversineMiles_SamePointIsZero(t *testing.T) {
	assert.InDelta(t, 0.0, HaversineMiles(40.0, -74.0, 40.0, -74.0), 1e-9)
}

func TestHaversineMiles_Symmetry(t *testing.T) {
	forward := HaversineMiles(34.0522, -118.2437, 47.6062, -122.3321)
	backward := HaversineMiles(47.6062, -122.3321, 34.0522, -118.2437)
	assert.InDelta(t, forward, backward, 1e-9)
}

func TestHaversineMiles_OneDegreeLatitude(t *testing.T) {
	// 纬度每度约69.1英里
	distance := HaversineMiles(40.0, -74.0, 41.0, -74.0)
	assert.InDelta(t, 69.1, distance, 0.3)
}
