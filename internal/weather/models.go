package weather

import (
	"time"
)

// Bucket names one of the three temperature ranges used to pick a column color.
type Bucket string

const (
	BucketCold Bucket = "cold"
	BucketMild Bucket = "mild"
	BucketHot  Bucket = "hot"
)

// GeoPoint is a named coordinate we fetch a reading for.
type GeoPoint struct {
	ID  string  `json:"id" yaml:"id" validate:"required"`
	Lat float64 `json:"lat" yaml:"lat" validate:"latitude"`
	Lon float64 `json:"lon" yaml:"lon" validate:"longitude"`
}

// RawReading is what a provider returns for one point in one fetch cycle.
type RawReading struct {
	TemperatureC float64
	FetchedAt    time.Time // always UTC
}

// Color is an RGBA fill color as consumed by deck.gl layers.
type Color struct {
	R uint8 `json:"r" yaml:"r"`
	G uint8 `json:"g" yaml:"g"`
	B uint8 `json:"b" yaml:"b"`
	A uint8 `json:"a" yaml:"a"`
}

// Array returns the color as [r, g, b, a].
func (c Color) Array() [4]int {
	return [4]int{int(c.R), int(c.G), int(c.B), int(c.A)}
}

// WeatherRecord is the render-ready view of one successfully fetched point.
type WeatherRecord struct {
	ID           string    `json:"id" yaml:"id"`
	Lat          float64   `json:"lat" yaml:"lat"`
	Lon          float64   `json:"lon" yaml:"lon"`
	TemperatureC float64   `json:"temperatureC" yaml:"temperatureC"`
	Elevation    float64   `json:"elevation" yaml:"elevation"`
	FillColor    Color     `json:"fillColor" yaml:"fillColor"`
	Bucket       Bucket    `json:"bucket" yaml:"bucket"`
	FetchedAt    time.Time `json:"fetchedAt" yaml:"fetchedAt"`
}

// ResultSet holds records in registry order. It is never patched in place;
// every run produces a new one.
type ResultSet []WeatherRecord

// TableRow is the tabular projection of a record.
type TableRow struct {
	ID           string  `json:"id" yaml:"id"`
	TemperatureC float64 `json:"temperatureC" yaml:"temperatureC"`
}

// GeoRow is the map projection of a record.
type GeoRow struct {
	ID        string  `json:"id"`
	Lat       float64 `json:"lat"`
	Lon       float64 `json:"lon"`
	Elevation float64 `json:"elevation"`
	FillColor [4]int  `json:"fillColor"`
}

// Table projects the result set to {id, temperature} rows.
func (rs ResultSet) Table() []TableRow {
	rows := make([]TableRow, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, TableRow{ID: r.ID, TemperatureC: r.TemperatureC})
	}
	return rows
}

// Geo projects the result set to the fields a column layer needs.
func (rs ResultSet) Geo() []GeoRow {
	rows := make([]GeoRow, 0, len(rs))
	for _, r := range rs {
		rows = append(rows, GeoRow{
			ID:        r.ID,
			Lat:       r.Lat,
			Lon:       r.Lon,
			Elevation: r.Elevation,
			FillColor: r.FillColor.Array(),
		})
	}
	return rows
}

// Snapshot is one pipeline run together with its cache metadata.
type Snapshot struct {
	RunID     string        `json:"runId" yaml:"runId"`
	Records   ResultSet     `json:"records" yaml:"records"`
	Warnings  []Warning     `json:"warnings" yaml:"warnings"`
	CreatedAt time.Time     `json:"createdAt" yaml:"createdAt"`
	TTL       time.Duration `json:"ttl" yaml:"ttl"`
}

// ExpiresAt returns when the snapshot stops being servable from cache.
func (s Snapshot) ExpiresAt() time.Time {
	return s.CreatedAt.Add(s.TTL)
}

// IsStale reports whether the snapshot may no longer be served at now.
// A zero snapshot is always stale.
func (s Snapshot) IsStale(now time.Time) bool {
	if s.CreatedAt.IsZero() {
		return true
	}
	return now.Sub(s.CreatedAt) >= s.TTL
}
