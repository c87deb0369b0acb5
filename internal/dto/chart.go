package dto

import (
	"encoding/json"
	"fmt"

	"github.com/seatwise/seatwise-api/internal/cdl"
	"github.com/seatwise/seatwise-api/internal/models"
)

// SeatOffset is a per-desk seat position accepted either as an "[x, y]"
// pair or as an "{x, y}" object with an optional id.
type SeatOffset struct {
	ID string
	X  float64
	Y  float64
}

type seatOffsetObject struct {
	ID string  `json:"id,omitempty"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// UnmarshalJSON accepts both wire shapes used by layout files.
func (o *SeatOffset) UnmarshalJSON(data []byte) error {
	var pair []float64
	if err := json.Unmarshal(data, &pair); err == nil {
		if len(pair) != 2 {
			return fmt.Errorf("seat offset pair must have exactly 2 elements, got %d", len(pair))
		}
		o.X, o.Y = pair[0], pair[1]
		return nil
	}
	var obj seatOffsetObject
	if err := json.Unmarshal(data, &obj); err != nil {
		return fmt.Errorf("seat offset must be an [x, y] pair or an {x, y} object")
	}
	o.ID, o.X, o.Y = obj.ID, obj.X, obj.Y
	return nil
}

// MarshalJSON re-emits the object shape.
func (o SeatOffset) MarshalJSON() ([]byte, error) {
	return json.Marshal(seatOffsetObject{ID: o.ID, X: o.X, Y: o.Y})
}

// DeskInput is one desk of the raw room layout. Shape is visual metadata
// carried by the editor and ignored by the optimizer.
type DeskInput struct {
	ID       string          `json:"id,omitempty"`
	Position []float64       `json:"position" validate:"required,len=2"`
	Seats    []SeatOffset    `json:"seats"`
	Shape    json.RawMessage `json:"shape,omitempty"`
}

// RosterImport is the student exchange format produced by the roster editor
// ("students.json"): plain names plus sidecar tag/note maps.
type RosterImport struct {
	Students   []string            `json:"students" validate:"required,min=1"`
	Tags       map[string][]string `json:"tags"`
	Notes      map[string]string   `json:"notes"`
	CustomTags []string            `json:"customTags"`
}

// WeightsOverride partially overrides the cost weights for one run.
type WeightsOverride struct {
	BalanceEven *float64 `json:"balanceEven,omitempty" validate:"omitempty,min=0"`
	BalanceMax  *float64 `json:"balanceMax,omitempty" validate:"omitempty,min=0"`
	BalanceMin  *float64 `json:"balanceMin,omitempty" validate:"omitempty,min=0"`
	Together    *float64 `json:"together,omitempty" validate:"omitempty,min=0"`
	Apart       *float64 `json:"apart,omitempty" validate:"omitempty,min=0"`
}

// ChartOptions tunes one optimization run.
type ChartOptions struct {
	Iterations    *int             `json:"iterations,omitempty" validate:"omitempty,min=0"`
	RandomSeed    *int64           `json:"randomSeed,omitempty"`
	RowBucketSize *float64         `json:"rowBucketSize,omitempty" validate:"omitempty,gt=0"`
	Weights       *WeightsOverride `json:"weights,omitempty"`
}

// GenerateChartRequest asks the optimizer for a seat assignment. Exactly one
// of Roster or RosterImport must be supplied. CDL is carried as raw JSON and
// validated against the closed schema before optimization.
type GenerateChartRequest struct {
	Roster       []models.Student `json:"roster,omitempty" validate:"omitempty,min=1,dive"`
	RosterImport *RosterImport    `json:"rosterImport,omitempty"`
	Layout       []DeskInput      `json:"layout" validate:"required,min=1,dive"`
	CDL          json.RawMessage  `json:"cdl,omitempty"`
	Options      ChartOptions     `json:"options"`
}

// ChartStats summarises an optimization run.
type ChartStats struct {
	InitialCost    float64  `json:"initialCost"`
	FinalCost      float64  `json:"finalCost"`
	ImprovingMoves int      `json:"improvingMoves"`
	Iterations     int      `json:"iterations"`
	Unseated       []string `json:"unseated,omitempty"`
}

// GenerateChartResponse returns the optimized seat map proposal.
type GenerateChartResponse struct {
	ProposalID string         `json:"proposalId"`
	SeatMap    models.SeatMap `json:"seatMap"`
	Cost       float64        `json:"cost"`
	Stats      ChartStats     `json:"stats"`
}

// ValidateCDLResponse reports validation of one CDL document.
type ValidateCDLResponse struct {
	Valid  bool            `json:"valid"`
	Errors []cdl.Violation `json:"errors,omitempty"`
}
