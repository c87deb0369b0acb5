package models

// Student represents a roster member eligible for seating. The id doubles as
// the display name and is the key used everywhere downstream.
type Student struct {
	ID        string   `json:"id" validate:"required"`
	FirstName string   `json:"firstName"`
	LastName  string   `json:"lastName"`
	Tags      []string `json:"tags,omitempty"`
}

// HasAnyTag reports whether the student carries at least one of the tags.
func (s Student) HasAnyTag(tags []string) bool {
	if len(tags) == 0 || len(s.Tags) == 0 {
		return false
	}
	for _, want := range tags {
		for _, have := range s.Tags {
			if have == want {
				return true
			}
		}
	}
	return false
}

// TagIndex maps student ids to their tag sets for constraint evaluation.
type TagIndex map[string][]string

// BuildTagIndex indexes a roster by student id.
func BuildTagIndex(students []Student) TagIndex {
	idx := make(TagIndex, len(students))
	for _, s := range students {
		idx[s.ID] = s.Tags
	}
	return idx
}

// HasAnyTag reports whether the identified student carries one of the tags.
func (t TagIndex) HasAnyTag(studentID string, tags []string) bool {
	have := t[studentID]
	if len(have) == 0 || len(tags) == 0 {
		return false
	}
	for _, want := range tags {
		for _, tag := range have {
			if tag == want {
				return true
			}
		}
	}
	return false
}
