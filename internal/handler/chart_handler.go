package handler

import (
	"context"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seatwise/seatwise-api/internal/dto"
	appErrors "github.com/seatwise/seatwise-api/pkg/errors"
	"github.com/seatwise/seatwise-api/pkg/response"
)

// ChartService is the chart operations the handler depends on.
type ChartService interface {
	Generate(ctx context.Context, req dto.GenerateChartRequest) (*dto.GenerateChartResponse, error)
	Get(ctx context.Context, id string) (*dto.GenerateChartResponse, error)
	Delete(ctx context.Context, id string) error
}

// ChartExporter renders stored proposals into downloadable documents.
type ChartExporter interface {
	RenderCSV(ctx context.Context, proposalID string) ([]byte, error)
	RenderPDF(ctx context.Context, proposalID string) ([]byte, error)
}

// ChartHandler serves the seating chart endpoints.
type ChartHandler struct {
	service  ChartService
	exporter ChartExporter
	logger   *zap.Logger
}

// NewChartHandler constructs the handler.
func NewChartHandler(service ChartService, exporter ChartExporter, logger *zap.Logger) *ChartHandler {
	return &ChartHandler{service: service, exporter: exporter, logger: logger}
}

// Generate godoc
// @Summary Generate a seating chart
// @Description Runs the optimizer over the roster, layout and optional constraint document and returns a proposal
// @Tags charts
// @Accept json
// @Produce json
// @Param request body dto.GenerateChartRequest true "Generation request"
// @Success 201 {object} response.Envelope{data=dto.GenerateChartResponse}
// @Failure 400 {object} response.Envelope
// @Failure 422 {object} response.Envelope
// @Router /charts/generate [post]
func (h *ChartHandler) Generate(c *gin.Context) {
	var req dto.GenerateChartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid request body"))
		return
	}

	result, err := h.service.Generate(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}

	response.Created(c, result)
}

// Get godoc
// @Summary Fetch a chart proposal
// @Tags charts
// @Produce json
// @Param id path string true "Proposal id"
// @Success 200 {object} response.Envelope{data=dto.GenerateChartResponse}
// @Failure 404 {object} response.Envelope
// @Router /charts/{id} [get]
func (h *ChartHandler) Get(c *gin.Context) {
	result, err := h.service.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		response.Error(c, err)
		return
	}

	response.JSON(c, http.StatusOK, result)
}

// Delete godoc
// @Summary Discard a chart proposal
// @Tags charts
// @Param id path string true "Proposal id"
// @Success 204
// @Failure 404 {object} response.Envelope
// @Router /charts/{id} [delete]
func (h *ChartHandler) Delete(c *gin.Context) {
	if err := h.service.Delete(c.Request.Context(), c.Param("id")); err != nil {
		response.Error(c, err)
		return
	}

	response.NoContent(c)
}

// Export godoc
// @Summary Export a chart proposal
// @Description Downloads the proposal as CSV or a printable PDF chart
// @Tags charts
// @Produce text/csv
// @Produce application/pdf
// @Param id path string true "Proposal id"
// @Param format query string false "Export format" Enums(csv, pdf) default(csv)
// @Success 200 {file} file
// @Failure 400 {object} response.Envelope
// @Failure 404 {object} response.Envelope
// @Router /charts/{id}/export [get]
func (h *ChartHandler) Export(c *gin.Context) {
	id := c.Param("id")
	format := c.DefaultQuery("format", "csv")

	var (
		payload []byte
		ctype   string
		err     error
	)
	switch format {
	case "csv":
		ctype = "text/csv"
		payload, err = h.exporter.RenderCSV(c.Request.Context(), id)
	case "pdf":
		ctype = "application/pdf"
		payload, err = h.exporter.RenderPDF(c.Request.Context(), id)
	default:
		response.Error(c, appErrors.Clone(appErrors.ErrValidation, fmt.Sprintf("unsupported export format %q", format)))
		return
	}
	if err != nil {
		response.Error(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=seating-chart-%s.%s", id, format))
	c.Data(http.StatusOK, ctype, payload)
}
