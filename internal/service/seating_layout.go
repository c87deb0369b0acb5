package service

import (
	"fmt"
	"math"
	"sort"

	"github.com/seatwise/seatwise-api/internal/dto"
	"github.com/seatwise/seatwise-api/internal/models"
)

const defaultRowBucketSize = 50.0

// layoutIndex is the derived geometry for one optimization call: normalized
// desks, absolute seat coordinates, seat-to-desk ownership and row bucketing.
// It is built per call and threaded explicitly through the cost and geometry
// code so concurrent runs with different layouts cannot interfere.
type layoutIndex struct {
	desks   []models.Desk
	seatIDs []string
	coords  map[string][2]float64
	deskOf  map[string]string
	bucket  float64
}

// buildLayoutIndex normalizes a raw desk list: missing desk ids become
// "desk-<i>", missing seat ids become "<deskId>/seat-<j>", and per-seat
// offsets are resolved against the desk position into room coordinates.
func buildLayoutIndex(layout []dto.DeskInput, bucket float64) *layoutIndex {
	if bucket <= 0 {
		bucket = defaultRowBucketSize
	}
	ix := &layoutIndex{
		coords: make(map[string][2]float64),
		deskOf: make(map[string]string),
		bucket: bucket,
	}

	for di, raw := range layout {
		deskID := raw.ID
		if deskID == "" {
			deskID = fmt.Sprintf("desk-%d", di)
		}
		var dx, dy float64
		if len(raw.Position) == 2 {
			dx, dy = raw.Position[0], raw.Position[1]
		}

		desk := models.Desk{ID: deskID, Seats: make([]models.Seat, 0, len(raw.Seats))}
		for si, offset := range raw.Seats {
			seatID := offset.ID
			if seatID == "" {
				seatID = fmt.Sprintf("%s/seat-%d", deskID, si)
			}
			seat := models.Seat{ID: seatID, X: dx + offset.X, Y: dy + offset.Y}
			desk.Seats = append(desk.Seats, seat)

			ix.seatIDs = append(ix.seatIDs, seatID)
			ix.coords[seatID] = [2]float64{seat.X, seat.Y}
			ix.deskOf[seatID] = deskID
		}
		ix.desks = append(ix.desks, desk)
	}
	return ix
}

// duplicateIDs reports desk or seat ids that appear more than once after
// normalization. The optimizer requires globally unique ids.
func (ix *layoutIndex) duplicateIDs() []string {
	seen := make(map[string]int)
	for _, d := range ix.desks {
		seen[d.ID]++
	}
	for _, id := range ix.seatIDs {
		seen[id]++
	}
	var dups []string
	for id, n := range seen {
		if n > 1 {
			dups = append(dups, id)
		}
	}
	sort.Strings(dups)
	return dups
}

func (ix *layoutIndex) blankSeatMap() models.SeatMap {
	m := make(models.SeatMap, len(ix.seatIDs))
	for _, id := range ix.seatIDs {
		m[id] = ""
	}
	return m
}

func (ix *layoutIndex) deskByID(id string) *models.Desk {
	for i := range ix.desks {
		if ix.desks[i].ID == id {
			return &ix.desks[i]
		}
	}
	return nil
}

// rowBucketOf groups seats into rows by rounding y to the bucket size.
func (ix *layoutIndex) rowBucketOf(seatID string) int {
	c := ix.coords[seatID]
	return int(math.Round(c[1] / ix.bucket))
}

// rows returns seat ids grouped by row bucket, top row first.
func (ix *layoutIndex) rows() [][]string {
	byBucket := make(map[int][]string)
	for _, id := range ix.seatIDs {
		b := ix.rowBucketOf(id)
		byBucket[b] = append(byBucket[b], id)
	}
	buckets := make([]int, 0, len(byBucket))
	for b := range byBucket {
		buckets = append(buckets, b)
	}
	sort.Ints(buckets)

	out := make([][]string, 0, len(buckets))
	for _, b := range buckets {
		out = append(out, byBucket[b])
	}
	return out
}

func (ix *layoutIndex) distance(seatA, seatB string) float64 {
	a, b := ix.coords[seatA], ix.coords[seatB]
	return math.Hypot(a[0]-b[0], a[1]-b[1])
}

func (ix *layoutIndex) sameDesk(seatA, seatB string) bool {
	return ix.deskOf[seatA] == ix.deskOf[seatB]
}
