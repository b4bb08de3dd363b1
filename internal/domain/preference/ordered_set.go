package preference

import "strings"

// OrderedSet keeps unique strings in insertion order with O(1) membership.
type OrderedSet struct {
	items []string
	index map[string]struct{}
}

func NewOrderedSet(items []string) *OrderedSet {
	s := &OrderedSet{
		items: make([]string, 0, len(items)),
		index: make(map[string]struct{}, len(items)),
	}
	s.Add(items...)
	return s
}

// Add appends items not yet present. Blank items are skipped and surrounding
// whitespace is trimmed; an item that is already present keeps its position.
// It returns how many items were appended.
func (s *OrderedSet) Add(items ...string) int {
	added := 0
	for _, raw := range items {
		item := strings.TrimSpace(raw)
		if item == "" {
			continue
		}
		if _, ok := s.index[item]; ok {
			continue
		}
		s.index[item] = struct{}{}
		s.items = append(s.items, item)
		added++
	}
	return added
}

func (s *OrderedSet) Contains(item string) bool {
	_, ok := s.index[item]
	return ok
}

func (s *OrderedSet) Remove(item string) bool {
	if _, ok := s.index[item]; !ok {
		return false
	}
	delete(s.index, item)
	for i, v := range s.items {
		if v == item {
			s.items = append(s.items[:i], s.items[i+1:]...)
			break
		}
	}
	return true
}

// Trim drops the oldest entries until at most max remain.
func (s *OrderedSet) Trim(max int) int {
	if max < 0 || len(s.items) <= max {
		return 0
	}
	drop := len(s.items) - max
	for _, v := range s.items[:drop] {
		delete(s.index, v)
	}
	s.items = append([]string(nil), s.items[drop:]...)
	return drop
}

func (s *OrderedSet) Len() int { return len(s.items) }

// Items returns a copy of the entries, oldest first.
func (s *OrderedSet) Items() []string {
	out := make([]string, len(s.items))
	copy(out, s.items)
	return out
}

// Merge is the ledger's merge rule: set-union in insertion order followed by
// trimming to the newest max entries.
func Merge(existing, incoming []string, max int) []string {
	s := NewOrderedSet(existing)
	s.Add(incoming...)
	s.Trim(max)
	return s.Items()
}

// Normalize dedups and caps a list supplied wholesale by the user.
func Normalize(items []string, max int) []string {
	return Merge(nil, items, max)
}
