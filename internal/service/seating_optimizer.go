package service

import (
	"math/rand"
	"sort"
	"strings"

	"github.com/seatwise/seatwise-api/internal/cdl"
	"github.com/seatwise/seatwise-api/internal/models"
)

const defaultIterations = 50000

// buildQueue turns the roster into the service order. No rule and
// {type:"random"} shuffle with the run's seeded generator; alphabetic sorts
// stably by name; custom resolves ids in the listed order, silently skipping
// ids absent from the roster.
func buildQueue(students []models.Student, ordering *cdl.Ordering, rng *rand.Rand) []models.Student {
	if ordering == nil || ordering.Type == cdl.OrderingRandom {
		queue := make([]models.Student, len(students))
		copy(queue, students)
		shuffleStudents(queue, rng)
		return queue
	}

	switch ordering.Type {
	case cdl.OrderingCustom:
		byID := make(map[string]models.Student, len(students))
		for _, s := range students {
			byID[s.ID] = s
		}
		queue := make([]models.Student, 0, len(ordering.Custom.Order))
		taken := make(map[string]bool, len(ordering.Custom.Order))
		for _, id := range ordering.Custom.Order {
			s, ok := byID[id]
			if !ok || taken[id] {
				continue
			}
			taken[id] = true
			queue = append(queue, s)
		}
		return queue

	case cdl.OrderingAlphabetic:
		queue := make([]models.Student, len(students))
		copy(queue, students)
		desc := ordering.Alphabetic.Direction == "desc"
		byFirst := ordering.Alphabetic.By == "first"
		sort.SliceStable(queue, func(i, j int) bool {
			a, b := sortName(queue[i], byFirst), sortName(queue[j], byFirst)
			if desc {
				return a > b
			}
			return a < b
		})
		return queue
	}

	queue := make([]models.Student, len(students))
	copy(queue, students)
	return queue
}

func sortName(s models.Student, byFirst bool) string {
	if byFirst {
		return strings.ToLower(s.FirstName)
	}
	return strings.ToLower(s.LastName)
}

// shuffleStudents is a Fisher-Yates shuffle driven by the supplied generator.
func shuffleStudents(students []models.Student, rng *rand.Rand) {
	for i := len(students) - 1; i > 0; i-- {
		j := rng.Intn(i + 1)
		students[i], students[j] = students[j], students[i]
	}
}

// applyForcedPlacements consumes hard pins: desk pins first, then seat pins,
// each in document order. A pin whose student is not queued, whose desk has
// no empty seat, or whose seat is unknown or occupied is silently skipped;
// best-effort pinning keeps slightly-stale documents usable against an
// edited roster. Returns the queue with placed students removed.
func applyForcedPlacements(seatMap models.SeatMap, queue []models.Student, doc *cdl.Document, ix *layoutIndex) []models.Student {
	for _, pin := range doc.Desks {
		desk := ix.deskByID(pin.DeskID)
		if desk == nil {
			continue
		}
		target := ""
		for _, seat := range desk.Seats {
			if seatMap[seat.ID] == "" {
				target = seat.ID
				break
			}
		}
		if target == "" {
			continue
		}
		qi := studentIndex(queue, pin.ForcedStudent)
		if qi < 0 {
			continue
		}
		seatMap[target] = pin.ForcedStudent
		queue = append(queue[:qi], queue[qi+1:]...)
	}

	for _, pin := range doc.Seats {
		occupant, known := seatMap[pin.SeatID]
		if !known || occupant != "" {
			continue
		}
		qi := studentIndex(queue, pin.ForcedStudent)
		if qi < 0 {
			continue
		}
		seatMap[pin.SeatID] = pin.ForcedStudent
		queue = append(queue[:qi], queue[qi+1:]...)
	}

	return queue
}

func studentIndex(queue []models.Student, id string) int {
	for i, s := range queue {
		if s.ID == id {
			return i
		}
	}
	return -1
}

// fillRemaining assigns the queue front-to-back onto empty seats in reading
// order: row bucket top-down, then x left-to-right. Returns unseated ids.
func fillRemaining(seatMap models.SeatMap, queue []models.Student, ix *layoutIndex) []string {
	empty := make([]string, 0, len(ix.seatIDs))
	for _, id := range ix.seatIDs {
		if seatMap[id] == "" {
			empty = append(empty, id)
		}
	}
	sort.Slice(empty, func(i, j int) bool {
		a, b := empty[i], empty[j]
		ra, rb := ix.rowBucketOf(a), ix.rowBucketOf(b)
		if ra != rb {
			return ra < rb
		}
		ca, cb := ix.coords[a], ix.coords[b]
		if ca[0] != cb[0] {
			return ca[0] < cb[0]
		}
		if ca[1] != cb[1] {
			return ca[1] < cb[1]
		}
		return a < b
	})

	for _, seatID := range empty {
		if len(queue) == 0 {
			break
		}
		seatMap[seatID] = queue[0].ID
		queue = queue[1:]
	}

	unseated := make([]string, 0, len(queue))
	for _, s := range queue {
		unseated = append(unseated, s.ID)
	}
	return unseated
}

type climbResult struct {
	initial  float64
	final    float64
	improved int
}

// hillClimb refines the seat map by stochastic hill climbing: swap two
// random seats (empty seats participate), recompute the full cost, keep the
// swap only when strictly cheaper. The budget always runs to completion;
// determinism follows entirely from the supplied generator.
func hillClimb(seatMap models.SeatMap, ix *layoutIndex, doc *cdl.Document, tags models.TagIndex, iterations int, rng *rand.Rand, w costWeights) climbResult {
	best := chartCost(seatMap, ix, doc, tags, w)
	res := climbResult{initial: best, final: best}

	n := len(ix.seatIDs)
	if n < 2 || iterations <= 0 {
		return res
	}

	for i := 0; i < iterations; i++ {
		a := ix.seatIDs[rng.Intn(n)]
		b := ix.seatIDs[rng.Intn(n)]
		for b == a {
			b = ix.seatIDs[rng.Intn(n)]
		}

		seatMap[a], seatMap[b] = seatMap[b], seatMap[a]
		next := chartCost(seatMap, ix, doc, tags, w)
		if next < best {
			best = next
			res.improved++
		} else {
			seatMap[a], seatMap[b] = seatMap[b], seatMap[a]
		}
	}

	res.final = best
	return res
}
