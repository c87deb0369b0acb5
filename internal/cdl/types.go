package cdl

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Document is the root of the Constraint Description Language. Every section
// is optional; an empty document means "no constraints, fill seats in queue
// order". Field names are the persisted wire format and must not change.
type Document struct {
	Desks        []DeskPin        `json:"desks,omitempty" validate:"omitempty,dive"`
	Seats        []SeatPin        `json:"seats,omitempty" validate:"omitempty,dive"`
	BalanceRules []BalanceRule    `json:"balanceRules,omitempty" validate:"omitempty,dive"`
	Groups       []GroupRule      `json:"groups,omitempty" validate:"omitempty,dive"`
	Preferences  []PreferenceRule `json:"preferences,omitempty" validate:"omitempty,dive"`
	Global       *GlobalRules     `json:"global,omitempty"`
	Ordering     *Ordering        `json:"ordering,omitempty"`
}

// DeskPin forces a student onto the first empty seat of a desk.
type DeskPin struct {
	DeskID        string `json:"deskId" validate:"required"`
	ForcedStudent string `json:"forcedStudent" validate:"required"`
}

// SeatPin forces a student onto an exact seat.
type SeatPin struct {
	SeatID        string `json:"seatId" validate:"required"`
	ForcedStudent string `json:"forcedStudent" validate:"required"`
}

// Balance rule scopes and modes.
const (
	ScopeDesk = "desk"
	ScopeRow  = "row"
	ScopeRoom = "room"

	ModeEven = "even"
	ModeMax  = "max"
	ModeMin  = "min"
)

// BalanceRule is a soft quota on tag representation within a spatial scope.
type BalanceRule struct {
	Tags      []string `json:"tags" validate:"required,min=1"`
	Scope     string   `json:"scope" validate:"required,oneof=desk row room"`
	Mode      string   `json:"mode" validate:"required,oneof=even max min"`
	Value     *int     `json:"value,omitempty" validate:"omitempty,min=1"`
	Tolerance *int     `json:"tolerance,omitempty" validate:"omitempty,min=0"`
}

// Quota returns the max/min threshold; an absent value counts as zero.
func (r BalanceRule) Quota() int {
	if r.Value == nil {
		return 0
	}
	return *r.Value
}

// ToleranceOrZero returns the allowed imbalance for "even" rules.
func (r BalanceRule) ToleranceOrZero() int {
	if r.Tolerance == nil {
		return 0
	}
	return *r.Tolerance
}

// Group relations.
const (
	RelationTogether = "together"
	RelationApart    = "apart"
)

// GroupRule is a pairwise spatial constraint over students selected by
// explicit name and/or shared tags.
type GroupRule struct {
	Tags        []string `json:"tags,omitempty" validate:"omitempty,min=1"`
	Students    []string `json:"students,omitempty" validate:"omitempty,min=1"`
	Relation    string   `json:"relation" validate:"required,oneof=together apart"`
	MinDistance *int     `json:"minDistance,omitempty" validate:"omitempty,min=1"`
	ClusterSize *int     `json:"clusterSize,omitempty" validate:"omitempty,min=2"`
}

// MinDistanceOrDefault returns the "apart" threshold, defaulting to 1.
func (r GroupRule) MinDistanceOrDefault() float64 {
	if r.MinDistance == nil {
		return 1
	}
	return float64(*r.MinDistance)
}

// PreferenceRule is a soft seat/desk affinity. Accepted by the schema and
// carried through the document; the cost evaluator does not consume it yet.
type PreferenceRule struct {
	Student  string   `json:"student,omitempty"`
	Tags     []string `json:"tags,omitempty" validate:"omitempty,min=1"`
	SeatIDs  []string `json:"seatIds,omitempty" validate:"omitempty,min=1"`
	DeskIDs  []string `json:"deskIds,omitempty" validate:"omitempty,min=1"`
	Modifier string   `json:"modifier,omitempty" validate:"omitempty,oneof=prefers 'does not prefer'"`
	Weight   int      `json:"weight" validate:"required,min=1"`
}

// GlobalRules carries room-wide soft settings.
type GlobalRules struct {
	MaxSameTagPerRow *int   `json:"maxSameTagPerRow,omitempty" validate:"omitempty,min=1"`
	OptimizeFor      string `json:"optimizeFor,omitempty" validate:"omitempty,oneof=visibility collaboration random"`
}

// Ordering variant discriminators.
const (
	OrderingAlphabetic = "alphabetic"
	OrderingRandom     = "random"
	OrderingCustom     = "custom"
)

// Ordering is a tagged union selected by its "type" field. Exactly one
// variant payload is populated for a valid document.
type Ordering struct {
	Type       string
	Alphabetic *AlphabeticOrdering
	Custom     *CustomOrdering

	// decode diagnostics surfaced as schema violations by Parse
	problems []string
}

// AlphabeticOrdering sorts the queue by first or last name.
type AlphabeticOrdering struct {
	By        string `json:"by"`
	Direction string `json:"direction,omitempty"`
}

// CustomOrdering resolves students in an explicit id order.
type CustomOrdering struct {
	Order []string `json:"order"`
}

type alphabeticWire struct {
	Type      string `json:"type"`
	By        string `json:"by"`
	Direction string `json:"direction,omitempty"`
}

type customWire struct {
	Type  string   `json:"type"`
	Order []string `json:"order"`
}

type randomWire struct {
	Type string `json:"type"`
}

// UnmarshalJSON decodes the union by discriminator. Structural problems are
// collected rather than returned so Parse can report them alongside every
// other violation in the document.
func (o *Ordering) UnmarshalJSON(data []byte) error {
	var probe struct {
		Type string `json:"type"`
	}
	if err := json.Unmarshal(data, &probe); err != nil {
		o.problems = append(o.problems, "must be an object with a \"type\" field")
		return nil
	}

	o.Type = probe.Type
	switch probe.Type {
	case OrderingAlphabetic:
		var wire alphabeticWire
		if err := strictUnmarshal(data, &wire); err != nil {
			o.problems = append(o.problems, err.Error())
			return nil
		}
		o.Alphabetic = &AlphabeticOrdering{By: wire.By, Direction: wire.Direction}
	case OrderingRandom:
		var wire randomWire
		if err := strictUnmarshal(data, &wire); err != nil {
			o.problems = append(o.problems, err.Error())
		}
	case OrderingCustom:
		var wire customWire
		if err := strictUnmarshal(data, &wire); err != nil {
			o.problems = append(o.problems, err.Error())
			return nil
		}
		o.Custom = &CustomOrdering{Order: wire.Order}
	case "":
		o.problems = append(o.problems, "missing \"type\" discriminator")
	default:
		o.problems = append(o.problems, fmt.Sprintf("unknown ordering type %q", probe.Type))
	}
	return nil
}

// MarshalJSON re-emits the wire shape of the selected variant.
func (o Ordering) MarshalJSON() ([]byte, error) {
	switch o.Type {
	case OrderingAlphabetic:
		wire := alphabeticWire{Type: o.Type}
		if o.Alphabetic != nil {
			wire.By = o.Alphabetic.By
			wire.Direction = o.Alphabetic.Direction
		}
		return json.Marshal(wire)
	case OrderingCustom:
		wire := customWire{Type: o.Type}
		if o.Custom != nil {
			wire.Order = o.Custom.Order
		}
		return json.Marshal(wire)
	default:
		return json.Marshal(randomWire{Type: o.Type})
	}
}

func strictUnmarshal(data []byte, dest interface{}) error {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	return dec.Decode(dest)
}
