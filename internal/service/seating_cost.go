package service

import (
	"math"
	"sort"

	"github.com/seatwise/seatwise-api/internal/cdl"
	"github.com/seatwise/seatwise-api/internal/dto"
	"github.com/seatwise/seatwise-api/internal/models"
)

// costWeights prices each soft-constraint violation class.
type costWeights struct {
	balanceEven float64
	balanceMax  float64
	balanceMin  float64
	together    float64
	apart       float64
}

func defaultCostWeights() costWeights {
	return costWeights{
		balanceEven: 3,
		balanceMax:  3,
		balanceMin:  3,
		together:    10,
		apart:       10,
	}
}

func (w costWeights) merge(o *dto.WeightsOverride) costWeights {
	if o == nil {
		return w
	}
	if o.BalanceEven != nil {
		w.balanceEven = *o.BalanceEven
	}
	if o.BalanceMax != nil {
		w.balanceMax = *o.BalanceMax
	}
	if o.BalanceMin != nil {
		w.balanceMin = *o.BalanceMin
	}
	if o.Together != nil {
		w.together = *o.Together
	}
	if o.Apart != nil {
		w.apart = *o.Apart
	}
	return w
}

// chartCost scores a candidate seat map against the document's soft
// constraints. Pure function; lower is better and 0 is the ideal. Costs are
// additive across every rule, scope and pair with no cap. Preference and
// global sections are accepted by the schema but contribute nothing here.
func chartCost(seatMap models.SeatMap, ix *layoutIndex, doc *cdl.Document, tags models.TagIndex, w costWeights) float64 {
	var score float64

	seatOf := make(map[string]string, len(seatMap))
	for seatID, occupant := range seatMap {
		if occupant != "" {
			seatOf[occupant] = seatID
		}
	}

	for _, rule := range doc.BalanceRules {
		score += balanceRuleCost(rule, seatMap, ix, tags, w)
	}

	for _, rule := range doc.Groups {
		score += groupRuleCost(rule, seatMap, seatOf, ix, tags, w)
	}

	return score
}

func balanceRuleCost(rule cdl.BalanceRule, seatMap models.SeatMap, ix *layoutIndex, tags models.TagIndex, w costWeights) float64 {
	var scopes [][]string
	switch rule.Scope {
	case cdl.ScopeDesk:
		for _, desk := range ix.desks {
			ids := make([]string, len(desk.Seats))
			for i, seat := range desk.Seats {
				ids[i] = seat.ID
			}
			scopes = append(scopes, ids)
		}
	case cdl.ScopeRow:
		scopes = ix.rows()
	default:
		scopes = [][]string{ix.seatIDs}
	}

	var score float64
	for _, scope := range scopes {
		switch rule.Mode {
		case cdl.ModeEven:
			// Even parity is judged per tag: each tag's headcount should sit
			// at scope size / tag count, within tolerance.
			ideal := float64(len(scope)) / float64(len(rule.Tags))
			for _, tag := range rule.Tags {
				count := countTagged(scope, seatMap, tags, []string{tag})
				excess := math.Abs(float64(count)-ideal) - float64(rule.ToleranceOrZero())
				if excess > 0 {
					score += excess * w.balanceEven
				}
			}
		case cdl.ModeMax:
			count := countTagged(scope, seatMap, tags, rule.Tags)
			if count > rule.Quota() {
				score += float64(count-rule.Quota()) * w.balanceMax
			}
		case cdl.ModeMin:
			count := countTagged(scope, seatMap, tags, rule.Tags)
			if count < rule.Quota() {
				score += float64(rule.Quota()-count) * w.balanceMin
			}
		}
	}
	return score
}

func countTagged(scope []string, seatMap models.SeatMap, tags models.TagIndex, ruleTags []string) int {
	count := 0
	for _, seatID := range scope {
		occupant := seatMap[seatID]
		if occupant != "" && tags.HasAnyTag(occupant, ruleTags) {
			count++
		}
	}
	return count
}

func groupRuleCost(rule cdl.GroupRule, seatMap models.SeatMap, seatOf map[string]string, ix *layoutIndex, tags models.TagIndex, w costWeights) float64 {
	members := groupMembers(rule, seatMap, ix, tags)

	var score float64
	for i := 0; i < len(members); i++ {
		for j := i + 1; j < len(members); j++ {
			seatA, seatB := seatOf[members[i]], seatOf[members[j]]
			if seatA == "" || seatB == "" {
				continue
			}
			dist := ix.distance(seatA, seatB)

			if rule.Relation == cdl.RelationTogether {
				if rule.ClusterSize == nil {
					if !ix.sameDesk(seatA, seatB) {
						score += w.together
					}
				} else if dist > float64(*rule.ClusterSize) {
					score += w.together
				}
			} else if dist <= rule.MinDistanceOrDefault() {
				score += w.apart
			}
		}
	}
	return score
}

// groupMembers resolves the rule's member set: explicitly named students
// plus any seated student whose tags intersect the rule's tags. Sorted for
// deterministic pair enumeration.
func groupMembers(rule cdl.GroupRule, seatMap models.SeatMap, ix *layoutIndex, tags models.TagIndex) []string {
	set := make(map[string]struct{}, len(rule.Students))
	for _, id := range rule.Students {
		set[id] = struct{}{}
	}
	if len(rule.Tags) > 0 {
		for _, seatID := range ix.seatIDs {
			occupant := seatMap[seatID]
			if occupant != "" && tags.HasAnyTag(occupant, rule.Tags) {
				set[occupant] = struct{}{}
			}
		}
	}

	members := make([]string, 0, len(set))
	for id := range set {
		members = append(members, id)
	}
	sort.Strings(members)
	return members
}
