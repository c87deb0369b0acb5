package models

// Seat is an individual student position with absolute room coordinates.
type Seat struct {
	ID string  `json:"id"`
	X  float64 `json:"x"`
	Y  float64 `json:"y"`
}

// Desk is a physical cluster of seats positioned as a unit.
type Desk struct {
	ID    string `json:"id"`
	Seats []Seat `json:"seats"`
}

// SeatMap assigns student ids to seat ids. An empty string marks an open
// seat. Invariant: a student id appears in at most one seat.
type SeatMap map[string]string

// SeatOf returns the seat currently holding the student, or "".
func (m SeatMap) SeatOf(studentID string) string {
	if studentID == "" {
		return ""
	}
	for seatID, occupant := range m {
		if occupant == studentID {
			return seatID
		}
	}
	return ""
}

// Occupied counts seats with an assigned student.
func (m SeatMap) Occupied() int {
	n := 0
	for _, occupant := range m {
		if occupant != "" {
			n++
		}
	}
	return n
}

// Clone returns an independent copy of the map.
func (m SeatMap) Clone() SeatMap {
	out := make(SeatMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
