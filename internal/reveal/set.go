package reveal

import "sort"

// RevealedSet is the set of opened day numbers. It only grows.
type RevealedSet struct {
	days map[int]struct{}
}

// NewRevealedSet creates a set holding the given days
func NewRevealedSet(days ...int) *RevealedSet {
	s := &RevealedSet{days: make(map[int]struct{}, len(days))}
	for _, d := range days {
		s.days[d] = struct{}{}
	}
	return s
}

// Contains reports whether day has been revealed
func (s *RevealedSet) Contains(day int) bool {
	_, ok := s.days[day]
	return ok
}

// Add inserts day and reports whether it was new
func (s *RevealedSet) Add(day int) bool {
	if s.Contains(day) {
		return false
	}
	s.days[day] = struct{}{}
	return true
}

// Len returns the number of revealed days
func (s *RevealedSet) Len() int {
	return len(s.days)
}

// Days returns the members in ascending order
func (s *RevealedSet) Days() []int {
	days := make([]int, 0, len(s.days))
	for d := range s.days {
		days = append(days, d)
	}
	sort.Ints(days)
	return days
}
