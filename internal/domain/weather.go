package domain

// City is one entry of the statically configured weather city list.
type City struct {
	Name string  `json:"name"`
	Lat  float64 `json:"lat"`
	Lon  float64 `json:"lon"`
}

// WeatherSnapshot holds one provider observation for a city. Snapshots are
// immutable; a refresh replaces the whole value for its city.
type WeatherSnapshot struct {
	City         string  `json:"-"`
	Temp         float64 `json:"temp"`
	FeelsLike    float64 `json:"feelslike"`
	Conditions   string  `json:"conditions"`
	Icon         string  `json:"icon"`
	WindSpeedKph float64 `json:"windSpeed"`
	WindDir      string  `json:"windDir"`
	Humidity     int     `json:"humidity"`
	// LastUpdated is the provider-reported observation time, passed through
	// verbatim ("2006-01-02 15:04" in the provider's local zone).
	LastUpdated string `json:"lastUpdated"`
}
