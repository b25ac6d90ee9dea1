package http

import (
	"github.com/gofiber/fiber/v2"
)

// maxPreviewBody caps the payload accepted by the mapping inspector.
const maxPreviewBody = 1 << 20

// MappingPreviewHandler runs the schema mapper over a posted external
// record (or array of records) and returns the mapped warehouses together
// with per-field reports. Nothing is persisted.
func MappingPreviewHandler(deps *Dependencies) fiber.Handler {
	return func(c *fiber.Ctx) error {
		body := c.Body()
		if len(body) == 0 {
			return errBadRequest(c, "request body is required")
		}
		if len(body) > maxPreviewBody {
			return errBadRequest(c, "request body too large (max 1 MiB)")
		}

		outcomes, err := deps.Mappings.Preview(body)
		if err != nil {
			return errUnprocessable(c, err.Error())
		}

		return c.JSON(fiber.Map{
			"results": outcomes,
			"count":   len(outcomes),
		})
	}
}
