package service

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/seatwise/seatwise-api/internal/dto"
)

// twoRowLayout builds two desks of two seats each, one desk per row.
func twoRowLayout() []dto.DeskInput {
	return []dto.DeskInput{
		{ID: "desk-a", Position: []float64{100, 100}, Seats: []dto.SeatOffset{{X: 0, Y: 0}, {X: 40, Y: 0}}},
		{ID: "desk-b", Position: []float64{100, 200}, Seats: []dto.SeatOffset{{X: 0, Y: 0}, {X: 40, Y: 0}}},
	}
}

func TestBuildLayoutIndexNormalizesIDs(t *testing.T) {
	layout := []dto.DeskInput{
		{Position: []float64{0, 0}, Seats: []dto.SeatOffset{{X: 0, Y: 0}, {X: 40, Y: 0}}},
		{ID: "window", Position: []float64{0, 100}, Seats: []dto.SeatOffset{{ID: "w-1", X: 0, Y: 0}}},
	}

	ix := buildLayoutIndex(layout, 0)
	require.Len(t, ix.desks, 2)
	assert.Equal(t, "desk-0", ix.desks[0].ID)
	assert.Equal(t, []string{"desk-0/seat-0", "desk-0/seat-1", "w-1"}, ix.seatIDs)
	assert.Equal(t, "window", ix.deskOf["w-1"])
	assert.Equal(t, defaultRowBucketSize, ix.bucket)
}

func TestBuildLayoutIndexAbsoluteCoordinates(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	assert.Equal(t, [2]float64{140, 100}, ix.coords["desk-a/seat-1"])
	assert.Equal(t, [2]float64{100, 200}, ix.coords["desk-b/seat-0"])
}

func TestDuplicateIDs(t *testing.T) {
	layout := []dto.DeskInput{
		{ID: "d", Position: []float64{0, 0}, Seats: []dto.SeatOffset{{ID: "s", X: 0, Y: 0}}},
		{ID: "d", Position: []float64{0, 100}, Seats: []dto.SeatOffset{{ID: "s", X: 0, Y: 0}}},
	}

	ix := buildLayoutIndex(layout, 50)
	assert.Equal(t, []string{"d", "s"}, ix.duplicateIDs())

	clean := buildLayoutIndex(twoRowLayout(), 50)
	assert.Empty(t, clean.duplicateIDs())
}

func TestRowBucketing(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	assert.Equal(t, 2, ix.rowBucketOf("desk-a/seat-0"))
	assert.Equal(t, 4, ix.rowBucketOf("desk-b/seat-0"))

	rows := ix.rows()
	require.Len(t, rows, 2)
	assert.ElementsMatch(t, []string{"desk-a/seat-0", "desk-a/seat-1"}, rows[0])
	assert.ElementsMatch(t, []string{"desk-b/seat-0", "desk-b/seat-1"}, rows[1])
}

func TestRowBucketingConfigurableSize(t *testing.T) {
	// A coarse bucket merges both desks into a single row.
	ix := buildLayoutIndex(twoRowLayout(), 1000)
	assert.Len(t, ix.rows(), 1)
}

func TestDistanceAndSameDesk(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	assert.InDelta(t, 40.0, ix.distance("desk-a/seat-0", "desk-a/seat-1"), 1e-9)
	assert.InDelta(t, 100.0, ix.distance("desk-a/seat-0", "desk-b/seat-0"), 1e-9)
	assert.True(t, ix.sameDesk("desk-a/seat-0", "desk-a/seat-1"))
	assert.False(t, ix.sameDesk("desk-a/seat-0", "desk-b/seat-0"))
}

func TestBlankSeatMap(t *testing.T) {
	ix := buildLayoutIndex(twoRowLayout(), 50)
	m := ix.blankSeatMap()
	require.Len(t, m, 4)
	for _, occupant := range m {
		assert.Equal(t, "", occupant)
	}
}
