package tree

// Spans returns the horizontal slot count of every forest member.
//
// A leaf spans one slot; an inner node spans the sum of its children's
// spans, never less than one. The result is memoized for the duration of
// the call only and is meant to be recomputed on every layout pass.
func Spans(f *Forest) map[string]int {
	spans := make(map[string]int, len(f.parent)+len(f.parents))
	var span func(id string) int
	span = func(id string) int {
		if s, ok := spans[id]; ok {
			return s
		}
		sum := 0
		for _, c := range f.children[id] {
			sum += span(c)
		}
		spans[id] = max(1, sum)
		return spans[id]
	}
	for _, r := range f.Roots() {
		span(r)
	}
	return spans
}
