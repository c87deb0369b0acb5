package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/seatwise/seatwise-api/internal/dto"
	appErrors "github.com/seatwise/seatwise-api/pkg/errors"
	"github.com/seatwise/seatwise-api/pkg/response"
)

// CDLValidator checks constraint documents against the closed schema.
type CDLValidator interface {
	Validate(raw []byte) dto.ValidateCDLResponse
}

// CDLHandler serves the constraint-document validation endpoint.
type CDLHandler struct {
	validator CDLValidator
	logger    *zap.Logger
}

// NewCDLHandler constructs the handler.
func NewCDLHandler(validator CDLValidator, logger *zap.Logger) *CDLHandler {
	return &CDLHandler{validator: validator, logger: logger}
}

// Validate godoc
// @Summary Validate a constraint document
// @Description Checks the raw document against the closed schema and reports every violation; an invalid document still returns 200
// @Tags cdl
// @Accept json
// @Produce json
// @Param document body object true "Constraint document"
// @Success 200 {object} response.Envelope{data=dto.ValidateCDLResponse}
// @Failure 400 {object} response.Envelope
// @Router /cdl/validate [post]
func (h *CDLHandler) Validate(c *gin.Context) {
	raw, err := c.GetRawData()
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "unable to read request body"))
		return
	}

	response.JSON(c, http.StatusOK, h.validator.Validate(raw))
}
