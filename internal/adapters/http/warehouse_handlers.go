package http

import (
	"errors"
	"strconv"

	"github.com/gofiber/fiber/v2"

	"github.com/dmarroquin/warehousewatch/internal/core/domain"
)

// queryCoord parses a required coordinate query parameter. Unparsable input
// is a client error, never a silent zero.
func queryCoord(c *fiber.Ctx, name string) (float64, error) {
	raw := c.Query(name)
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, errors.New(name + " must be a number, got " + strconv.Quote(raw))
	}
	return v, nil
}

// ListWarehousesHandler lists warehouses, optionally filtered by status.
func ListWarehousesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		status := domain.Status(c.Query("status"))

		warehouses, err := deps.Warehouses.List(c.Context(), status)
		if err != nil {
			if status != "" && !domain.ValidStatus(status) {
				return errBadRequest(c, err.Error())
			}
			return errInternal(c, err.Error())
		}

		// Apply offset/limit pagination on the full list
		offset, limit := parsePagination(c, 100, 500)

		total := len(warehouses)
		if offset >= total {
			warehouses = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			warehouses = warehouses[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: warehouses, Pagination: pg})
	}
}

// NearbyWarehousesHandler returns warehouses within a radius of a point,
// nearest first and annotated with distance in miles.
func NearbyWarehousesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		if c.Query("lat") == "" || c.Query("lon") == "" {
			return errBadRequest(c, "lat and lon are required")
		}
		lat, err := queryCoord(c, "lat")
		if err != nil {
			return errBadRequest(c, err.Error())
		}
		lon, err := queryCoord(c, "lon")
		if err != nil {
			return errBadRequest(c, err.Error())
		}

		radius := float64(domain.MapViewRadiusMiles)
		if raw := c.Query("radius"); raw != "" {
			radius, err = strconv.ParseFloat(raw, 64)
			if err != nil {
				return errBadRequest(c, "radius must be a number")
			}
		}
		if radius <= 0 || radius > 100 {
			return errBadRequest(c, "radius must be between 0 and 100 miles")
		}

		ref := domain.GeoPoint{Lat: lat, Lon: lon}
		warehouses, err := deps.Warehouses.Nearby(c.Context(), ref, radius)
		if err != nil {
			return errUnprocessable(c, err.Error())
		}

		return c.JSON(fiber.Map{
			"center":       ref,
			"radius_miles": radius,
			"warehouses":   warehouses,
			"count":        len(warehouses),
		})
	}
}

// WarehouseAlertsHandler returns warehouses inside the alert radius of a
// reference point. When lat/lon are absent the fixed community reference
// point is used.
func WarehouseAlertsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		ref := domain.DefaultReferencePoint
		if c.Query("lat") != "" && c.Query("lon") != "" {
			lat, err := queryCoord(c, "lat")
			if err != nil {
				return errBadRequest(c, err.Error())
			}
			lon, err := queryCoord(c, "lon")
			if err != nil {
				return errBadRequest(c, err.Error())
			}
			ref = domain.GeoPoint{Lat: lat, Lon: lon}
		}

		alerts, err := deps.Warehouses.CheckAlerts(c.Context(), ref)
		if err != nil {
			return errUnprocessable(c, err.Error())
		}

		return c.JSON(fiber.Map{
			"reference":    ref,
			"radius_miles": domain.DefaultAlertRadiusMiles,
			"alerts":       alerts,
			"count":        len(alerts),
		})
	}
}

// WarehouseStatsHandler returns warehouse counts broken down by status.
func WarehouseStatsHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		counts, err := deps.Warehouses.Stats(c.Context())
		if err != nil {
			return errInternal(c, err.Error())
		}

		c.Set("Cache-Control", "public, max-age=60")
		return c.JSON(counts)
	}
}

// GetWarehouseHandler returns a single warehouse by ID.
func GetWarehouseHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "warehouse id is required")
		}
		warehouse, err := deps.Warehouses.GetByID(c.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			return errNotFound(c, "warehouse not found")
		}
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(warehouse)
	}
}
