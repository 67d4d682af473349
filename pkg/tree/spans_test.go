package tree

import "testing"

func TestSpans(t *testing.T) {
	pos := xs{}
	f := New()
	// a -> {b, c}; b -> {d, e, g}; separate tree r -> s
	for _, e := range []Edge{{"a", "b"}, {"a", "c"}, {"b", "d"}, {"b", "e"}, {"b", "g"}, {"r", "s"}} {
		mustConnect(t, f, e.Parent, e.Child, pos)
	}

	spans := Spans(f)
	want := map[string]int{"a": 4, "b": 3, "c": 1, "d": 1, "e": 1, "g": 1, "r": 1, "s": 1}
	if len(spans) != len(want) {
		t.Fatalf("Spans() = %v", spans)
	}
	for id, w := range want {
		if spans[id] != w {
			t.Errorf("span(%s) = %d, want %d", id, spans[id], w)
		}
	}
}

func TestSpansInvariant(t *testing.T) {
	pos := xs{}
	f := New()
	for _, e := range []Edge{{"a", "b"}, {"b", "c"}, {"c", "d"}, {"a", "x"}, {"x", "y"}, {"x", "z"}} {
		mustConnect(t, f, e.Parent, e.Child, pos)
	}
	spans := Spans(f)
	for _, id := range f.Nodes() {
		kids := f.Children(id)
		if len(kids) == 0 {
			if spans[id] != 1 {
				t.Errorf("leaf %s span = %d", id, spans[id])
			}
			continue
		}
		sum := 0
		for _, k := range kids {
			sum += spans[k]
		}
		if spans[id] != sum {
			t.Errorf("span(%s) = %d, children sum %d", id, spans[id], sum)
		}
	}
}

func TestSpansEmpty(t *testing.T) {
	if got := Spans(New()); len(got) != 0 {
		t.Errorf("Spans(empty) = %v", got)
	}
}
