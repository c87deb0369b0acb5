package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwise/seatwise-api/internal/cdl"
	"github.com/seatwise/seatwise-api/internal/dto"
	"github.com/seatwise/seatwise-api/internal/models"
)

func intPtr(v int) *int { return &v }

// oneDeskLayout builds a single desk with four seats in a line.
func oneDeskLayout() []dto.DeskInput {
	return []dto.DeskInput{
		{ID: "desk-a", Position: []float64{0, 0}, Seats: []dto.SeatOffset{
			{X: 0, Y: 0}, {X: 40, Y: 0}, {X: 80, Y: 0}, {X: 120, Y: 0},
		}},
	}
}

func TestBalanceEvenPerfectSplitCostsNothing(t *testing.T) {
	ix := buildLayoutIndex(oneDeskLayout(), 50)
	students := []models.Student{
		{ID: "a1", Tags: []string{"A"}},
		{ID: "a2", Tags: []string{"A"}},
		{ID: "b1", Tags: []string{"B"}},
		{ID: "b2", Tags: []string{"B"}},
	}
	doc := &cdl.Document{BalanceRules: []cdl.BalanceRule{
		{Tags: []string{"A", "B"}, Scope: cdl.ScopeDesk, Mode: cdl.ModeEven, Tolerance: intPtr(0)},
	}}

	seatMap := ix.blankSeatMap()
	fillRemaining(seatMap, students, ix)

	cost := chartCost(seatMap, ix, doc, models.BuildTagIndex(students), defaultCostWeights())
	assert.Equal(t, 0.0, cost)
}

func TestBalanceEvenImbalancePenalized(t *testing.T) {
	ix := buildLayoutIndex(oneDeskLayout(), 50)
	students := []models.Student{
		{ID: "a1", Tags: []string{"A"}},
		{ID: "a2", Tags: []string{"A"}},
		{ID: "a3", Tags: []string{"A"}},
		{ID: "b1", Tags: []string{"B"}},
	}
	doc := &cdl.Document{BalanceRules: []cdl.BalanceRule{
		{Tags: []string{"A", "B"}, Scope: cdl.ScopeDesk, Mode: cdl.ModeEven},
	}}

	seatMap := ix.blankSeatMap()
	fillRemaining(seatMap, students, ix)

	// ideal is 2 per tag: A overshoots by 1, B undershoots by 1.
	cost := chartCost(seatMap, ix, doc, models.BuildTagIndex(students), defaultCostWeights())
	assert.Equal(t, 6.0, cost)
}

func TestBalanceEvenToleranceAbsorbsImbalance(t *testing.T) {
	ix := buildLayoutIndex(oneDeskLayout(), 50)
	students := []models.Student{
		{ID: "a1", Tags: []string{"A"}},
		{ID: "a2", Tags: []string{"A"}},
		{ID: "a3", Tags: []string{"A"}},
		{ID: "b1", Tags: []string{"B"}},
	}
	doc := &cdl.Document{BalanceRules: []cdl.BalanceRule{
		{Tags: []string{"A", "B"}, Scope: cdl.ScopeDesk, Mode: cdl.ModeEven, Tolerance: intPtr(1)},
	}}

	seatMap := ix.blankSeatMap()
	fillRemaining(seatMap, students, ix)

	cost := chartCost(seatMap, ix, doc, models.BuildTagIndex(students), defaultCostWeights())
	assert.Equal(t, 0.0, cost)
}

func TestBalanceMaxAndMin(t *testing.T) {
	ix := buildLayoutIndex(oneDeskLayout(), 50)
	students := []models.Student{
		{ID: "a1", Tags: []string{"A"}},
		{ID: "a2", Tags: []string{"A"}},
		{ID: "b1", Tags: []string{"B"}},
	}
	seatMap := ix.blankSeatMap()
	fillRemaining(seatMap, students, ix)
	tags := models.BuildTagIndex(students)

	maxDoc := &cdl.Document{BalanceRules: []cdl.BalanceRule{
		{Tags: []string{"A"}, Scope: cdl.ScopeRoom, Mode: cdl.ModeMax, Value: intPtr(1)},
	}}
	assert.Equal(t, 3.0, chartCost(seatMap, ix, maxDoc, tags, defaultCostWeights()))

	minDoc := &cdl.Document{BalanceRules: []cdl.BalanceRule{
		{Tags: []string{"B"}, Scope: cdl.ScopeRoom, Mode: cdl.ModeMin, Value: intPtr(2)},
	}}
	assert.Equal(t, 3.0, chartCost(seatMap, ix, minDoc, tags, defaultCostWeights()))

	// Absent value acts as a zero quota: max is always violated by any match.
	bareMax := &cdl.Document{BalanceRules: []cdl.BalanceRule{
		{Tags: []string{"A"}, Scope: cdl.ScopeRoom, Mode: cdl.ModeMax},
	}}
	assert.Equal(t, 6.0, chartCost(seatMap, ix, bareMax, tags, defaultCostWeights()))
}

func TestGroupTogetherSameDesk(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	tags := models.TagIndex{}
	doc := &cdl.Document{Groups: []cdl.GroupRule{
		{Students: []string{"a", "b"}, Relation: cdl.RelationTogether},
	}}

	together := ix.blankSeatMap()
	together["desk-a/seat-0"] = "a"
	together["desk-a/seat-1"] = "b"
	assert.Equal(t, 0.0, chartCost(together, ix, doc, tags, defaultCostWeights()))

	split := ix.blankSeatMap()
	split["desk-a/seat-0"] = "a"
	split["desk-b/seat-0"] = "b"
	assert.Equal(t, 10.0, chartCost(split, ix, doc, tags, defaultCostWeights()))
}

func TestGroupTogetherClusterSize(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	tags := models.TagIndex{}
	doc := &cdl.Document{Groups: []cdl.GroupRule{
		{Students: []string{"a", "b"}, Relation: cdl.RelationTogether, ClusterSize: intPtr(50)},
	}}

	// Different desks but within the cluster radius of 50.
	near := ix.blankSeatMap()
	near["desk-a/seat-0"] = "a"
	near["desk-a/seat-1"] = "b"
	assert.Equal(t, 0.0, chartCost(near, ix, doc, tags, defaultCostWeights()))

	far := ix.blankSeatMap()
	far["desk-a/seat-0"] = "a"
	far["desk-b/seat-0"] = "b"
	assert.Equal(t, 10.0, chartCost(far, ix, doc, tags, defaultCostWeights()))
}

func TestGroupApartMinDistance(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	tags := models.TagIndex{}
	doc := &cdl.Document{Groups: []cdl.GroupRule{
		{Students: []string{"a", "b"}, Relation: cdl.RelationApart, MinDistance: intPtr(100)},
	}}

	// Exactly 100 apart still violates: the rule wants strictly more.
	boundary := ix.blankSeatMap()
	boundary["desk-a/seat-0"] = "a"
	boundary["desk-b/seat-0"] = "b"
	assert.Equal(t, 10.0, chartCost(boundary, ix, doc, tags, defaultCostWeights()))

	diagonal := ix.blankSeatMap()
	diagonal["desk-a/seat-0"] = "a"
	diagonal["desk-b/seat-1"] = "b"
	assert.Equal(t, 0.0, chartCost(diagonal, ix, doc, tags, defaultCostWeights()))
}

func TestGroupApartDefaultDistance(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	tags := models.TagIndex{}
	doc := &cdl.Document{Groups: []cdl.GroupRule{
		{Students: []string{"a", "b"}, Relation: cdl.RelationApart},
	}}

	adjacent := ix.blankSeatMap()
	adjacent["desk-a/seat-0"] = "a"
	adjacent["desk-a/seat-1"] = "b"
	assert.Equal(t, 0.0, chartCost(adjacent, ix, doc, tags, defaultCostWeights()))
}

func TestGroupMembersFromTags(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	students := []models.Student{
		{ID: "a", Tags: []string{"Disruptive"}},
		{ID: "b", Tags: []string{"Disruptive"}},
		{ID: "c"},
	}
	tags := models.BuildTagIndex(students)
	doc := &cdl.Document{Groups: []cdl.GroupRule{
		{Tags: []string{"Disruptive"}, Relation: cdl.RelationApart, MinDistance: intPtr(100)},
	}}

	seatMap := ix.blankSeatMap()
	seatMap["desk-a/seat-0"] = "a"
	seatMap["desk-a/seat-1"] = "b"
	seatMap["desk-b/seat-0"] = "c"
	assert.Equal(t, 10.0, chartCost(seatMap, ix, doc, tags, defaultCostWeights()))
}

func TestGroupSkipsUnseatedMembers(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	doc := &cdl.Document{Groups: []cdl.GroupRule{
		{Students: []string{"a", "ghost"}, Relation: cdl.RelationTogether},
	}}

	seatMap := ix.blankSeatMap()
	seatMap["desk-a/seat-0"] = "a"
	assert.Equal(t, 0.0, chartCost(seatMap, ix, doc, models.TagIndex{}, defaultCostWeights()))
}

func TestPreferencesAndGlobalAreInert(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	doc := &cdl.Document{
		Preferences: []cdl.PreferenceRule{{Student: "a", SeatIDs: []string{"desk-b/seat-0"}, Weight: 100}},
		Global:      &cdl.GlobalRules{MaxSameTagPerRow: intPtr(1)},
	}

	seatMap := ix.blankSeatMap()
	seatMap["desk-a/seat-0"] = "a"
	assert.Equal(t, 0.0, chartCost(seatMap, ix, doc, models.TagIndex{}, defaultCostWeights()))
}

func TestWeightsOverrideMerge(t *testing.T) {
	five := 5.0
	zero := 0.0
	w := defaultCostWeights().merge(&dto.WeightsOverride{Together: &five, BalanceEven: &zero})
	assert.Equal(t, 5.0, w.together)
	assert.Equal(t, 0.0, w.balanceEven)
	assert.Equal(t, 3.0, w.balanceMax)
	assert.Equal(t, 10.0, w.apart)

	assert.Equal(t, defaultCostWeights(), defaultCostWeights().merge(nil))
}

func TestDisruptivePairEndsUpApart(t *testing.T) {
	layout := []dto.DeskInput{
		{ID: "front", Position: []float64{0, 0}, Seats: []dto.SeatOffset{{X: 0, Y: 0}, {X: 40, Y: 0}}},
		{ID: "back", Position: []float64{0, 300}, Seats: []dto.SeatOffset{{X: 0, Y: 0}, {X: 40, Y: 0}}},
	}
	ix := buildLayoutIndex(layout, 50)
	students := []models.Student{
		{ID: "a", Tags: []string{"Disruptive"}},
		{ID: "b", Tags: []string{"Disruptive"}},
	}
	doc := &cdl.Document{Groups: []cdl.GroupRule{
		{Tags: []string{"Disruptive"}, Relation: cdl.RelationApart, MinDistance: intPtr(100)},
	}}
	tags := models.BuildTagIndex(students)
	rng := rand.New(rand.NewSource(42))

	seatMap := ix.blankSeatMap()
	queue := buildQueue(students, nil, rng)
	fillRemaining(seatMap, queue, ix)
	res := hillClimb(seatMap, ix, doc, tags, 2000, rng, defaultCostWeights())

	require.Equal(t, 0.0, res.final)
	seatA, seatB := seatMap.SeatOf("a"), seatMap.SeatOf("b")
	assert.Greater(t, ix.distance(seatA, seatB), 100.0)
}
