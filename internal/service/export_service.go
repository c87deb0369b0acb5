package service

import (
	"context"
	"math"
	"sort"
	"strconv"

	"go.uber.org/zap"

	"github.com/seatwise/seatwise-api/internal/models"
	"github.com/seatwise/seatwise-api/pkg/config"
	appErrors "github.com/seatwise/seatwise-api/pkg/errors"
	"github.com/seatwise/seatwise-api/pkg/export"
)

// ExportService renders stored proposals as CSV or PDF.
type ExportService struct {
	charts *ChartGeneratorService
	cfg    config.ExportConfig
	bucket float64
	csv    *export.CSVExporter
	pdf    *export.ChartPDFExporter
	logger *zap.Logger
}

// NewExportService constructs the export service.
func NewExportService(charts *ChartGeneratorService, cfg *config.Config, logger *zap.Logger) *ExportService {
	return &ExportService{
		charts: charts,
		cfg:    cfg.Export,
		bucket: cfg.Optimizer.RowBucketSize,
		csv:    export.NewCSVExporter(),
		pdf:    export.NewChartPDFExporter(),
		logger: logger,
	}
}

// Enabled reports whether export endpoints are switched on.
func (s *ExportService) Enabled() bool {
	return s.cfg.Enabled
}

// RenderCSV exports the proposal as a CSV table in reading order.
func (s *ExportService) RenderCSV(ctx context.Context, proposalID string) ([]byte, error) {
	p, err := s.lookup(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{Headers: []string{"Seat", "Desk", "Row", "Student", "X", "Y"}}
	for _, seat := range s.readingOrder(p) {
		data.Rows = append(data.Rows, map[string]string{
			"Seat":    seat.id,
			"Desk":    seat.deskID,
			"Row":     strconv.Itoa(seat.row),
			"Student": p.SeatMap[seat.id],
			"X":       strconv.FormatFloat(seat.x, 'f', -1, 64),
			"Y":       strconv.FormatFloat(seat.y, 'f', -1, 64),
		})
	}
	return s.csv.Render(data)
}

// RenderPDF exports the proposal as a printable one-page chart.
func (s *ExportService) RenderPDF(ctx context.Context, proposalID string) ([]byte, error) {
	p, err := s.lookup(ctx, proposalID)
	if err != nil {
		return nil, err
	}

	page := export.ChartPage{Title: s.cfg.Title}
	for _, desk := range p.Desks {
		for _, seat := range desk.Seats {
			page.Seats = append(page.Seats, export.ChartSeat{
				Label:   seat.ID,
				X:       seat.X,
				Y:       seat.Y,
				Student: p.SeatMap[seat.ID],
			})
		}
	}

	out, err := s.pdf.Render(page)
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "pdf rendering failed")
	}
	return out, nil
}

func (s *ExportService) lookup(ctx context.Context, proposalID string) (*chartProposal, error) {
	if !s.cfg.Enabled {
		return nil, appErrors.Clone(appErrors.ErrDisabled, "export is disabled")
	}
	return s.charts.proposal(ctx, proposalID)
}

type exportSeat struct {
	id     string
	deskID string
	row    int
	x, y   float64
}

// readingOrder flattens the proposal's desks into seats sorted top-down then
// left-to-right, matching the order seats were filled.
func (s *ExportService) readingOrder(p *chartProposal) []exportSeat {
	bucket := s.bucket
	if bucket <= 0 {
		bucket = defaultRowBucketSize
	}

	seats := make([]exportSeat, 0, 16)
	for _, desk := range p.Desks {
		for _, seat := range desk.Seats {
			seats = append(seats, exportSeat{
				id:     seat.ID,
				deskID: desk.ID,
				row:    rowBucket(seat, bucket),
				x:      seat.X,
				y:      seat.Y,
			})
		}
	}
	sort.Slice(seats, func(i, j int) bool {
		if seats[i].row != seats[j].row {
			return seats[i].row < seats[j].row
		}
		if seats[i].x != seats[j].x {
			return seats[i].x < seats[j].x
		}
		return seats[i].id < seats[j].id
	})
	return seats
}

func rowBucket(seat models.Seat, bucket float64) int {
	return int(math.Round(seat.Y / bucket))
}
