package utils

// SeenFilter drops repeated strings while preserving first occurrence order.
// It is not safe for concurrent use.
type SeenFilter struct {
	seen map[string]bool
}

// NewSeenFilter creates a filter that already excludes the given words.
func NewSeenFilter(exclude ...string) *SeenFilter {
	seen := make(map[string]bool, len(exclude))
	for _, w := range exclude {
		seen[w] = true
	}
	return &SeenFilter{seen: seen}
}

// ShouldInclude checks if a word should be included in results (not a duplicate)
// Returns true the first time a word is seen, false afterwards
func (f *SeenFilter) ShouldInclude(word string) bool {
	if f.seen[word] {
		return false
	}
	f.seen[word] = true
	return true
}
