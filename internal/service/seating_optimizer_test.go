package service

import (
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwise/seatwise-api/internal/cdl"
	"github.com/seatwise/seatwise-api/internal/models"
)

func roster(names ...string) []models.Student {
	students := make([]models.Student, 0, len(names))
	for _, name := range names {
		students = append(students, models.Student{ID: name})
	}
	return students
}

func queueIDs(queue []models.Student) []string {
	ids := make([]string, len(queue))
	for i, s := range queue {
		ids[i] = s.ID
	}
	return ids
}

func TestBuildQueueDefaultShufflesWithSeed(t *testing.T) {
	students := roster("a", "b", "c", "d", "e")

	first := buildQueue(students, nil, rand.New(rand.NewSource(7)))
	second := buildQueue(students, nil, rand.New(rand.NewSource(7)))
	assert.Equal(t, queueIDs(first), queueIDs(second))
	assert.ElementsMatch(t, []string{"a", "b", "c", "d", "e"}, queueIDs(first))

	// The input slice must not be reordered in place.
	assert.Equal(t, []string{"a", "b", "c", "d", "e"}, queueIDs(students))
}

func TestBuildQueueAlphabetic(t *testing.T) {
	students := []models.Student{
		{ID: "Carol Young", FirstName: "Carol", LastName: "Young"},
		{ID: "alice brown", FirstName: "alice", LastName: "brown"},
		{ID: "Bob Adams", FirstName: "Bob", LastName: "Adams"},
	}

	byLast := buildQueue(students, &cdl.Ordering{Type: cdl.OrderingAlphabetic, Alphabetic: &cdl.AlphabeticOrdering{By: "last"}}, nil)
	assert.Equal(t, []string{"Bob Adams", "alice brown", "Carol Young"}, queueIDs(byLast))

	byFirstDesc := buildQueue(students, &cdl.Ordering{Type: cdl.OrderingAlphabetic, Alphabetic: &cdl.AlphabeticOrdering{By: "first", Direction: "desc"}}, nil)
	assert.Equal(t, []string{"Carol Young", "Bob Adams", "alice brown"}, queueIDs(byFirstDesc))
}

func TestBuildQueueCustomSkipsUnknownAndDuplicates(t *testing.T) {
	students := roster("a", "b", "c")
	ordering := &cdl.Ordering{Type: cdl.OrderingCustom, Custom: &cdl.CustomOrdering{Order: []string{"c", "ghost", "a", "c"}}}

	queue := buildQueue(students, ordering, nil)
	assert.Equal(t, []string{"c", "a"}, queueIDs(queue))
}

func TestApplyForcedDeskPin(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	seatMap := ix.blankSeatMap()
	queue := roster("a", "b", "c")
	doc := &cdl.Document{Desks: []cdl.DeskPin{{DeskID: "desk-b", ForcedStudent: "c"}}}

	queue = applyForcedPlacements(seatMap, queue, doc, ix)
	assert.Equal(t, "c", seatMap["desk-b/seat-0"])
	assert.Equal(t, []string{"a", "b"}, queueIDs(queue))
}

func TestApplyForcedDeskPinFullDeskSkips(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	seatMap := ix.blankSeatMap()
	seatMap["desk-a/seat-0"] = "x"
	seatMap["desk-a/seat-1"] = "y"
	queue := roster("a")
	doc := &cdl.Document{Desks: []cdl.DeskPin{{DeskID: "desk-a", ForcedStudent: "a"}}}

	queue = applyForcedPlacements(seatMap, queue, doc, ix)
	assert.Equal(t, []string{"a"}, queueIDs(queue), "skipped pin must keep the student queued")
}

func TestApplyForcedSeatPin(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	seatMap := ix.blankSeatMap()
	queue := roster("a", "b")
	doc := &cdl.Document{Seats: []cdl.SeatPin{{SeatID: "desk-a/seat-1", ForcedStudent: "b"}}}

	queue = applyForcedPlacements(seatMap, queue, doc, ix)
	assert.Equal(t, "b", seatMap["desk-a/seat-1"])
	assert.Equal(t, []string{"a"}, queueIDs(queue))
}

func TestApplyForcedSeatPinSilentSkips(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	seatMap := ix.blankSeatMap()
	seatMap["desk-a/seat-0"] = "taken"
	queue := roster("a", "b")
	doc := &cdl.Document{Seats: []cdl.SeatPin{
		{SeatID: "desk-a/seat-0", ForcedStudent: "a"}, // occupied
		{SeatID: "no-such-seat", ForcedStudent: "a"},  // unknown seat
		{SeatID: "desk-a/seat-1", ForcedStudent: "ghost"}, // unknown student
	}}

	queue = applyForcedPlacements(seatMap, queue, doc, ix)
	assert.Equal(t, "taken", seatMap["desk-a/seat-0"])
	assert.Equal(t, "", seatMap["desk-a/seat-1"])
	assert.Equal(t, []string{"a", "b"}, queueIDs(queue))
}

func TestDeskPinsRunBeforeSeatPins(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	seatMap := ix.blankSeatMap()
	queue := roster("a", "b")
	doc := &cdl.Document{
		Desks: []cdl.DeskPin{{DeskID: "desk-a", ForcedStudent: "a"}},
		Seats: []cdl.SeatPin{{SeatID: "desk-a/seat-0", ForcedStudent: "b"}},
	}

	queue = applyForcedPlacements(seatMap, queue, doc, ix)
	assert.Equal(t, "a", seatMap["desk-a/seat-0"], "desk pin claims the first empty seat first")
	assert.Equal(t, []string{"b"}, queueIDs(queue), "conflicting seat pin is skipped")
}

func TestFillRemainingReadingOrder(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	seatMap := ix.blankSeatMap()

	unseated := fillRemaining(seatMap, roster("a", "b", "c"), ix)
	assert.Empty(t, unseated)
	assert.Equal(t, "a", seatMap["desk-a/seat-0"])
	assert.Equal(t, "b", seatMap["desk-a/seat-1"])
	assert.Equal(t, "c", seatMap["desk-b/seat-0"])
	assert.Equal(t, "", seatMap["desk-b/seat-1"])
}

func TestFillRemainingOverflowReportsUnseated(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	seatMap := ix.blankSeatMap()

	unseated := fillRemaining(seatMap, roster("a", "b", "c", "d", "e", "f"), ix)
	assert.Equal(t, []string{"e", "f"}, unseated)
}

func TestNoDoubleBooking(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	seatMap := ix.blankSeatMap()
	rng := rand.New(rand.NewSource(11))

	doc := &cdl.Document{
		Desks: []cdl.DeskPin{{DeskID: "desk-a", ForcedStudent: "b"}},
		Seats: []cdl.SeatPin{{SeatID: "desk-b/seat-1", ForcedStudent: "d"}},
	}
	students := roster("a", "b", "c", "d")
	queue := buildQueue(students, nil, rng)
	queue = applyForcedPlacements(seatMap, queue, doc, ix)
	fillRemaining(seatMap, queue, ix)
	hillClimb(seatMap, ix, doc, models.BuildTagIndex(students), 500, rng, defaultCostWeights())

	seen := make(map[string]string)
	for seatID, occupant := range seatMap {
		if occupant == "" {
			continue
		}
		prev, dup := seen[occupant]
		require.False(t, dup, "student %s seated at both %s and %s", occupant, prev, seatID)
		seen[occupant] = seatID
	}
	assert.Len(t, seen, 4)
}

func TestHillClimbNeverWorsens(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	seatMap := ix.blankSeatMap()
	students := []models.Student{
		{ID: "a", Tags: []string{"boy"}},
		{ID: "b", Tags: []string{"boy"}},
		{ID: "c", Tags: []string{"girl"}},
		{ID: "d", Tags: []string{"girl"}},
	}
	doc := &cdl.Document{BalanceRules: []cdl.BalanceRule{{Tags: []string{"boy", "girl"}, Scope: cdl.ScopeDesk, Mode: cdl.ModeEven}}}
	tags := models.BuildTagIndex(students)

	fillRemaining(seatMap, students, ix)
	res := hillClimb(seatMap, ix, doc, tags, 2000, rand.New(rand.NewSource(3)), defaultCostWeights())

	assert.LessOrEqual(t, res.final, res.initial)
	assert.Equal(t, res.final, chartCost(seatMap, ix, doc, tags, defaultCostWeights()))
}

func TestHillClimbZeroIterations(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	seatMap := ix.blankSeatMap()
	students := roster("a", "b")
	fillRemaining(seatMap, students, ix)
	before := seatMap.Clone()

	res := hillClimb(seatMap, ix, &cdl.Document{}, models.BuildTagIndex(students), 0, rand.New(rand.NewSource(1)), defaultCostWeights())
	assert.Equal(t, 0, res.improved)
	assert.Equal(t, before, seatMap)
}
