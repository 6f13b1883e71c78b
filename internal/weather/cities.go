package weather

import "roadwatch/internal/domain"

// Cities returns the fixed set of monitored cities. Coordinates are stable;
// the cache is keyed by city name.
func Cities() []domain.City {
	return []domain.City{
		{Name: "Podgorica", Lat: 42.4304, Lon: 19.2594},
		{Name: "Nikšić", Lat: 42.7731, Lon: 18.9446},
		{Name: "Herceg Novi", Lat: 42.4531, Lon: 18.5375},
		{Name: "Pljevlja", Lat: 43.3566, Lon: 19.3584},
		{Name: "Bijelo Polje", Lat: 43.0386, Lon: 19.7476},
		{Name: "Bar", Lat: 42.0938, Lon: 19.1003},
		{Name: "Cetinje", Lat: 42.3906, Lon: 18.9214},
		{Name: "Berane", Lat: 42.8425, Lon: 19.8733},
		{Name: "Ulcinj", Lat: 41.9292, Lon: 19.2244},
		{Name: "Tivat", Lat: 42.4028306, Lon: 18.7206639},
		{Name: "Kotor", Lat: 42.4247, Lon: 18.7712},
		{Name: "Budva", Lat: 42.2864, Lon: 18.8402},
		{Name: "Rožaje", Lat: 42.8347, Lon: 20.1667},
		{Name: "Kolašin", Lat: 42.82229, Lon: 19.51653},
		{Name: "Žabljak", Lat: 43.1400, Lon: 19.0967},
		{Name: "Durmitor", Lat: 43.1300, Lon: 19.0500},
		{Name: "Plužine", Lat: 43.1100, Lon: 18.8500},
		{Name: "Plav", Lat: 42.5900, Lon: 19.9100},
	}
}
