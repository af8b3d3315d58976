package httpapi

import (
	_ "embed"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/geojson"

	"github.com/i474232898/temperature-column-map/internal/weather"
)

//go:embed static/index.html
var indexHTML []byte

var validate = validator.New()

// RegisterRoutes wires the HTTP handlers into the Fiber app.
func RegisterRoutes(app *fiber.App, service *weather.Service) {
	view := DefaultView(service.Registry())

	app.Get("/", func(c *fiber.Ctx) error {
		c.Type("html", "utf-8")
		return c.Send(indexHTML)
	})

	v1 := app.Group("/api/v1")

	v1.Get("/points", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{
			"fingerprint": service.Registry().Fingerprint(),
			"points":      service.Registry().All(),
		})
	})

	v1.Get("/view", func(c *fiber.Ctx) error {
		return c.JSON(view)
	})

	v1.Get("/temperatures", func(c *fiber.Ctx) error {
		snap, cached := service.Current(c.UserContext())
		return c.JSON(newSnapshotResponse(snap, cached))
	})

	v1.Get("/temperatures/table", func(c *fiber.Ctx) error {
		snap, _ := service.Current(c.UserContext())
		return c.JSON(snap.Records.Table())
	})

	v1.Get("/temperatures/geo", func(c *fiber.Ctx) error {
		q := geoQuery{Format: c.Query("format")}
		if err := validate.Struct(q); err != nil {
			return fiber.NewError(fiber.StatusBadRequest, err.Error())
		}

		snap, _ := service.Current(c.UserContext())
		if q.Format == "geojson" {
			return c.JSON(toFeatureCollection(snap.Records))
		}
		return c.JSON(snap.Records.Geo())
	})

	v1.Post("/refresh", func(c *fiber.Ctx) error {
		snap := service.Refresh(c.UserContext())
		return c.JSON(newSnapshotResponse(snap, false))
	})
}

// geoQuery holds query parameters for the geo projection endpoint.
type geoQuery struct {
	Format string `validate:"omitempty,oneof=json geojson"`
}

// snapshotResponse is the wire shape of a snapshot.
type snapshotResponse struct {
	RunID     string            `json:"runId"`
	Records   weather.ResultSet `json:"records"`
	Warnings  []weather.Warning `json:"warnings"`
	FetchedAt time.Time         `json:"fetchedAt"`
	ExpiresAt time.Time         `json:"expiresAt"`
	Cached    bool              `json:"cached"`
}

func newSnapshotResponse(snap weather.Snapshot, cached bool) snapshotResponse {
	records := snap.Records
	if records == nil {
		records = weather.ResultSet{}
	}
	warnings := snap.Warnings
	if warnings == nil {
		warnings = []weather.Warning{}
	}
	return snapshotResponse{
		RunID:     snap.RunID,
		Records:   records,
		Warnings:  warnings,
		FetchedAt: snap.CreatedAt,
		ExpiresAt: snap.ExpiresAt(),
		Cached:    cached,
	}
}

func toFeatureCollection(records weather.ResultSet) *geojson.FeatureCollection {
	fc := geojson.NewFeatureCollection()
	for _, r := range records {
		f := geojson.NewFeature(orb.Point{r.Lon, r.Lat})
		f.Properties["id"] = r.ID
		f.Properties["temperatureC"] = r.TemperatureC
		f.Properties["elevation"] = r.Elevation
		f.Properties["fillColor"] = r.FillColor.Array()
		f.Properties["bucket"] = r.Bucket
		fc.Append(f)
	}
	return fc
}
