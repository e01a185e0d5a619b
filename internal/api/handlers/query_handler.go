package handlers

import (
	"errors"

	"insightx/internal/dto"
	"insightx/internal/nlp"
	"insightx/internal/service"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// overviewQuestion drives the executive summary endpoint.
const overviewQuestion = "Give me an overview of UPI transactions"

type QueryHandler struct {
	insights *service.InsightService
	logger   *zap.Logger
}

func NewQueryHandler(insights *service.InsightService, logger *zap.Logger) *QueryHandler {
	return &QueryHandler{
		insights: insights,
		logger:   logger,
	}
}

// Query godoc
// @Summary Ask a question
// @Description Answer a natural-language question about UPI transactions from the knowledge base
// @Tags query
// @Accept json
// @Produce json
// @Param request body dto.QueryRequest true "Question"
// @Success 200 {object} dto.QueryResponse
// @Failure 400 {object} map[string]string
// @Router /query [post]
func (h *QueryHandler) Query(c *fiber.Ctx) error {
	var req dto.QueryRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid request body",
		})
	}

	result, err := h.insights.Ask(req.Question)
	if err != nil {
		if errors.Is(err, service.ErrInvalidQuestion) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
				"error": err.Error(),
			})
		}
		h.logger.Error("Query failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Query failed",
		})
	}

	return c.JSON(dto.NewQueryResponse(result.Response, result.Intents, result.Version))
}

// Overview godoc
// @Summary Executive overview
// @Description Headline figures for the whole dataset
// @Tags query
// @Produce json
// @Success 200 {object} dto.QueryResponse
// @Router /overview [get]
func (h *QueryHandler) Overview(c *fiber.Ctx) error {
	result, err := h.insights.Ask(overviewQuestion)
	if err != nil {
		h.logger.Error("Overview failed", zap.Error(err))
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Overview failed",
		})
	}
	return c.JSON(dto.NewQueryResponse(result.Response, result.Intents, result.Version))
}

// Intents godoc
// @Summary List intents
// @Description Intents the classifier can detect, in evaluation order
// @Tags query
// @Produce json
// @Success 200 {object} dto.IntentCatalogResponse
// @Router /intents [get]
func (h *QueryHandler) Intents(c *fiber.Ctx) error {
	return c.JSON(dto.IntentCatalogResponse{
		Intents: nlp.Names(nlp.NewIntentClassifier().Catalog()),
	})
}
