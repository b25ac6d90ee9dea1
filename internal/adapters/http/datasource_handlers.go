package http

import (
	"errors"

	"github.com/gofiber/fiber/v2"

	"github.com/dmarroquin/warehousewatch/internal/core/domain"
)

// ListDataSourcesHandler lists catalog entries, optionally filtered by category.
func ListDataSourcesHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		category := c.Query("category")

		sources, err := deps.DataSources.List(c.Context(), category)
		if err != nil {
			return errInternal(c, err.Error())
		}

		offset, limit := parsePagination(c, 50, 200)

		total := len(sources)
		if offset >= total {
			sources = nil
		} else {
			end := offset + limit
			if end > total {
				end = total
			}
			sources = sources[offset:end]
		}

		pg := Pagination{Offset: offset, Limit: limit, Total: total}
		SetLinkHeaders(c, pg)
		return c.JSON(PaginatedResponse{Data: sources, Pagination: pg})
	}
}

// GetDataSourceHandler returns a single catalog entry by ID.
func GetDataSourceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "data source id is required")
		}
		ds, err := deps.DataSources.GetByID(c.Context(), id)
		if errors.Is(err, domain.ErrNotFound) {
			return errNotFound(c, "data source not found")
		}
		if err != nil {
			return errInternal(c, err.Error())
		}
		return c.JSON(ds)
	}
}

// ProbeDataSourceHandler runs a live reachability probe against a source's
// endpoint and returns the measured result.
func ProbeDataSourceHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if id == "" {
			return errBadRequest(c, "data source id is required")
		}

		res, err := deps.DataSources.Probe(c.Context(), id)
		switch {
		case errors.Is(err, domain.ErrNoEndpoint):
			return errUnprocessable(c, err.Error())
		case errors.Is(err, domain.ErrNotFound):
			return errNotFound(c, "data source not found")
		case err != nil:
			return errInternal(c, err.Error())
		}

		LoggerFromCtx(c.UserContext()).Info("data source probed",
			"source_id", id, "status", res.StatusCode,
			"latency_ms", res.LatencyMs, "reachable", res.Reachable)

		return c.JSON(res)
	}
}
