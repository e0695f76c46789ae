package snapshot

import (
	"errors"

	"data-loader/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for build snapshots.
type Handler struct {
	store  *Store
	logger *zap.Logger
}

// NewHandler creates a new HTTP handler.
func NewHandler(store *Store, logger *zap.Logger) *Handler {
	return &Handler{store: store, logger: logger}
}

// RegisterRoutes registers the snapshot routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	group := app.Group("/snapshots")
	group.Get("/", h.HandleList)
	group.Get("/latest", h.HandleLatest)
	group.Get("/:id", h.HandleGet)
}

// snapshotResponse is a snapshot with its decoded metadata.
type snapshotResponse struct {
	*Snapshot
	Metadata any `json:"metadata"`
}

// HandleList lists recent snapshots.
// @Summary List Snapshots
// @Description Lists persisted build snapshots, newest first, without their metadata.
// @Tags snapshots
// @Produce json
// @Param limit query int false "Maximum number of snapshots" default(20)
// @Success 200 {array} Snapshot
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /snapshots [get]
func (h *Handler) HandleList(c *fiber.Ctx) error {
	limit := c.QueryInt("limit", 20)
	snaps, err := h.store.List(c.UserContext(), limit)
	if err != nil {
		logger.WithRayID(h.logger, c).Error("Failed to list snapshots", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	return c.JSON(snaps)
}

// HandleGet returns one snapshot with its metadata.
// @Summary Get Snapshot
// @Description Returns a build snapshot and its metadata tree.
// @Tags snapshots
// @Produce json
// @Param id path string true "Build ID"
// @Success 200 {object} map[string]interface{} "Snapshot"
// @Failure 404 {object} map[string]string "Not Found"
// @Failure 500 {object} map[string]string "Internal Server Error"
// @Router /snapshots/{id} [get]
func (h *Handler) HandleGet(c *fiber.Ctx) error {
	snap, err := h.store.Get(c.UserContext(), c.Params("id"))
	return h.respond(c, snap, err)
}

// HandleLatest returns the newest snapshot with its metadata.
// @Summary Get Latest Snapshot
// @Description Returns the most recent build snapshot and its metadata tree.
// @Tags snapshots
// @Produce json
// @Success 200 {object} map[string]interface{} "Snapshot"
// @Failure 404 {object} map[string]string "Not Found"
// @Router /snapshots/latest [get]
func (h *Handler) HandleLatest(c *fiber.Ctx) error {
	snap, err := h.store.Latest(c.UserContext())
	return h.respond(c, snap, err)
}

func (h *Handler) respond(c *fiber.Ctx, snap *Snapshot, err error) error {
	if errors.Is(err, ErrNotFound) {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{
			"error": err.Error(),
		})
	}
	if err == nil {
		var tree any
		tree, err = snap.Tree()
		if err == nil {
			return c.JSON(snapshotResponse{Snapshot: snap, Metadata: tree})
		}
	}
	logger.WithRayID(h.logger, c).Error("Failed to load snapshot", zap.Error(err))
	return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
		"error": err.Error(),
	})
}
