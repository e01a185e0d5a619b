package handlers

import (
	"errors"
	"io"
	"mime/multipart"
	"net/url"
	"time"

	"insightx/internal/dto"
	"insightx/internal/knowledge"
	"insightx/internal/loader"
	"insightx/internal/models"
	"insightx/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

type KnowledgeHandler struct {
	insights *service.InsightService
	logger   *zap.Logger
}

func NewKnowledgeHandler(insights *service.InsightService, logger *zap.Logger) *KnowledgeHandler {
	return &KnowledgeHandler{
		insights: insights,
		logger:   logger,
	}
}

// Health godoc
// @Summary Service health
// @Description Active knowledge base version, source and size
// @Tags knowledge
// @Produce json
// @Success 200 {object} dto.HealthResponse
// @Router /health [get]
func (h *KnowledgeHandler) Health(c *fiber.Ctx) error {
	status := h.insights.Status()
	return c.JSON(dto.HealthResponse{
		Status:            "ok",
		KBVersion:         status.Version,
		Source:            status.Source,
		BuiltAt:           status.BuiltAt.Format(time.RFC3339),
		TotalTransactions: status.Rows,
		SkippedDimensions: skippedResponse(status.Skipped),
	})
}

// Export godoc
// @Summary Export knowledge base
// @Description Serialized snapshot of the active knowledge base
// @Tags knowledge
// @Produce json
// @Success 200 {object} map[string]interface{}
// @Failure 500 {object} map[string]string
// @Router /knowledge [get]
func (h *KnowledgeHandler) Export(c *fiber.Ctx) error {
	doc, err := h.insights.ExportSnapshot(c.Context())
	if err != nil {
		h.logger.Error("Failed to export snapshot", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to export knowledge base",
		})
	}
	c.Set(fiber.HeaderContentType, fiber.MIMEApplicationJSON)
	return c.Send(doc)
}

// Lookup godoc
// @Summary Aggregate lookup
// @Description Precomputed statistics of one dimension value
// @Tags knowledge
// @Produce json
// @Param dimension path string true "Dimension, e.g. category or by_state"
// @Param value path string true "Dimension value, e.g. Shopping"
// @Success 200 {object} dto.AggregateResponse
// @Failure 400 {object} map[string]string
// @Failure 404 {object} map[string]string
// @Router /knowledge/{dimension}/{value} [get]
func (h *KnowledgeHandler) Lookup(c *fiber.Ctx) error {
	dimension, err := url.PathUnescape(c.Params("dimension"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid dimension"})
	}
	value, err := url.PathUnescape(c.Params("value"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid value"})
	}

	agg, err := h.insights.Lookup(dimension, value)
	switch {
	case errors.Is(err, service.ErrUnknownDimension):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	case errors.Is(err, service.ErrValueNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": err.Error()})
	case err != nil:
		h.logger.Error("Lookup failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Lookup failed"})
	}

	dim, _ := models.ParseDimension(dimension)
	return c.JSON(dto.AggregateResponse{
		Dimension:    string(dim),
		Value:        value,
		Count:        agg.Count,
		TotalVolume:  agg.TotalVolume,
		Avg:          agg.Avg,
		Median:       agg.Median,
		Max:          agg.Max,
		Min:          agg.Min,
		FraudCount:   agg.FraudCount,
		FraudRatePct: agg.FraudRatePct,
		FailRatePct:  agg.FailRatePct,
	})
}

// Rebuild godoc
// @Summary Rebuild knowledge base
// @Description Rebuild from an uploaded CSV export, or from the transactions table when no file is sent
// @Tags admin
// @Accept multipart/form-data
// @Produce json
// @Param file formData file false "UPI transactions CSV"
// @Security Bearer
// @Success 200 {object} dto.RebuildResponse
// @Failure 400 {object} map[string]string
// @Failure 401 {object} map[string]string
// @Failure 422 {object} map[string]string
// @Router /admin/rebuild [post]
func (h *KnowledgeHandler) Rebuild(c *fiber.Ctx) error {
	var (
		snap *knowledge.Snapshot
		set  models.RecordSet
		err  error
	)

	file, ferr := c.FormFile("file")
	if ferr == nil {
		set, err = readUpload(file)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		snap, err = h.insights.Rebuild(c.Context(), set)
	} else {
		snap, err = h.insights.RebuildFromDatabase(c.Context())
	}

	if err != nil {
		var dataErr *knowledge.DataError
		switch {
		case errors.As(err, &dataErr):
			return c.Status(fiber.StatusUnprocessableEntity).JSON(fiber.Map{
				"error": dataErr.Error(),
			})
		case errors.Is(err, service.ErrNoRecordSource):
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": "CSV file is required when no database is configured",
			})
		}
		h.logger.Error("Rebuild failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to rebuild knowledge base",
		})
	}

	h.logger.Info("Knowledge base rebuilt by admin",
		zap.Any("username", c.Locals("username")),
		zap.String("version", snap.Version.String()),
	)

	return c.JSON(dto.RebuildResponse{
		KBVersion:         snap.Version.String(),
		Source:            snap.Source,
		Rows:              snap.KB.TotalTransactions,
		RejectedRows:      set.Rejected,
		SkippedDimensions: skippedResponse(snap.KB.Skipped),
	})
}

func readUpload(file *multipart.FileHeader) (models.RecordSet, error) {
	src, err := file.Open()
	if err != nil {
		return models.RecordSet{}, errors.New("failed to open file")
	}
	defer src.Close()

	data, err := io.ReadAll(src)
	if err != nil {
		return models.RecordSet{}, errors.New("failed to read file")
	}
	return loader.ParseCSV(file.Filename, data)
}

func skippedResponse(skipped []models.SkippedDimension) []dto.SkippedDimensionResponse {
	out := make([]dto.SkippedDimensionResponse, 0, len(skipped))
	for _, s := range skipped {
		out = append(out, dto.SkippedDimensionResponse{
			Dimension: string(s.Dimension),
			Reason:    s.Reason,
		})
	}
	return out
}
