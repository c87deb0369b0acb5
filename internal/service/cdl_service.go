package service

import (
	"errors"

	"go.uber.org/zap"

	"github.com/seatwise/seatwise-api/internal/cdl"
	"github.com/seatwise/seatwise-api/internal/dto"
)

// CDLService validates constraint documents without running the optimizer.
type CDLService struct {
	logger *zap.Logger
}

// NewCDLService constructs the validator service.
func NewCDLService(logger *zap.Logger) *CDLService {
	return &CDLService{logger: logger}
}

// Validate checks a raw constraint document against the closed schema and
// reports every violation found. Schema failures are a normal outcome here,
// not an error.
func (s *CDLService) Validate(raw []byte) dto.ValidateCDLResponse {
	_, err := cdl.Parse(raw)
	if err == nil {
		return dto.ValidateCDLResponse{Valid: true}
	}

	var schemaErr *cdl.SchemaError
	if errors.As(err, &schemaErr) {
		s.logger.Debug("constraint document rejected", zap.Int("violations", len(schemaErr.Violations)))
		return dto.ValidateCDLResponse{Valid: false, Errors: schemaErr.Violations}
	}

	return dto.ValidateCDLResponse{
		Valid:  false,
		Errors: []cdl.Violation{{Path: "/", Message: err.Error()}},
	}
}
