package weather

// DefaultScale is the column height in meters per degree Celsius.
const DefaultScale = 3000.0

// Bucket thresholds in degrees Celsius. A reading equal to a threshold
// belongs to the warmer bucket.
const (
	MildThresholdC = 10.0
	HotThresholdC  = 25.0
)

var (
	ColorCold = Color{R: 0, G: 120, B: 255, A: 180}
	ColorMild = Color{R: 255, G: 200, B: 0, A: 180}
	ColorHot  = Color{R: 255, G: 80, B: 0, A: 180}
)

// Elevation converts a temperature into a column height. Negative
// temperatures give negative heights.
func Elevation(tempC, scale float64) float64 {
	return tempC * scale
}

// BucketFor returns the bucket of a temperature. Every value maps to a
// bucket; anything not below the hot threshold is hot.
func BucketFor(tempC float64) Bucket {
	switch {
	case tempC < MildThresholdC:
		return BucketCold
	case tempC < HotThresholdC:
		return BucketMild
	default:
		return BucketHot
	}
}

// FillColor returns the column color of a temperature.
func FillColor(tempC float64) Color {
	switch BucketFor(tempC) {
	case BucketCold:
		return ColorCold
	case BucketMild:
		return ColorMild
	default:
		return ColorHot
	}
}

// NewRecord builds the render-ready record for a point and its reading.
func NewRecord(p GeoPoint, r RawReading, scale float64) WeatherRecord {
	return WeatherRecord{
		ID:           p.ID,
		Lat:          p.Lat,
		Lon:          p.Lon,
		TemperatureC: r.TemperatureC,
		Elevation:    Elevation(r.TemperatureC, scale),
		FillColor:    FillColor(r.TemperatureC),
		Bucket:       BucketFor(r.TemperatureC),
		FetchedAt:    r.FetchedAt,
	}
}
