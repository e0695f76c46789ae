package data

import (
	"encoding/json"
	"strings"

	"data-loader/core/logger"
	"data-loader/core/metadata"
	"data-loader/core/utils"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler serves the metadata tree produced by a build.
type Handler struct {
	meta   metadata.Map
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(meta metadata.Map, logger *zap.Logger) *Handler {
	return &Handler{meta: meta, logger: logger}
}

// RegisterRoutes registers the metadata routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/metadata")
	group.Get("/", h.HandleGetMetadata)
	group.Get("/*", h.HandleGetMetadata)
}

// HandleGetMetadata returns the whole tree, or the subtree at the given path.
// @Summary Get Metadata
// @Description Returns the metadata tree, or the value stored under a slash-separated key path.
// @Tags metadata
// @Produce json
// @Param path path string false "Key path (e.g. 'en/nav')"
// @Param pretty query bool false "Indent the JSON output"
// @Success 200 {object} map[string]interface{} "Metadata"
// @Failure 404 {object} map[string]string "Key not found"
// @Router /metadata/{path} [get]
func (h *Handler) HandleGetMetadata(c *fiber.Ctx) error {
	segments := splitKeyPath(c.Params("*"))

	value, ok := h.meta.Lookup(segments)
	if !ok {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": "metadata key not found: " + strings.Join(segments, "/"),
		})
	}

	if !utils.ToBool(c.Query("pretty")) {
		return c.JSON(value)
	}

	body, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to encode metadata", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(body)
}

func splitKeyPath(p string) []string {
	var out []string
	for _, seg := range strings.Split(p, "/") {
		if seg != "" {
			out = append(out, seg)
		}
	}
	return out
}
