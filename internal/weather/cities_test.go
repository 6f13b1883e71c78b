package weather_test

import (
	"testing"

	"github.com/stretchr/testify/require"

	"roadwatch/internal/weather"
)

func TestCities_UniqueNamesAndSaneCoords(t *testing.T) {
	t.Parallel()

	cities := weather.Cities()
	require.Len(t, cities, 18)

	seen := make(map[string]bool, len(cities))
	for _, c := range cities {
		require.False(t, seen[c.Name], "duplicate city %q", c.Name)
		seen[c.Name] = true

		// Montenegro sits roughly in 41..44N, 18..21E.
		require.InDelta(t, 42.5, c.Lat, 1.5, "city %q latitude", c.Name)
		require.InDelta(t, 19.4, c.Lon, 1.5, "city %q longitude", c.Name)
	}
}
