package decal

import "testing"

func TestRemoveOnEmptyRegistry(t *testing.T) {
	r := NewRegistry()
	r.MarkClean()
	if r.Remove([3]int{0, 0, 0}) {
		t.Fatalf("Remove on empty registry reported a removal")
	}
	if r.Len() != 0 {
		t.Fatalf("Len = %d, want 0", r.Len())
	}
	if r.Dirty() {
		t.Errorf("no-op Remove marked the registry dirty")
	}
}

func TestAddThenRemoveRestoresLength(t *testing.T) {
	r := NewRegistry(Placement{Position: [3]int{9, 9, 9}, Normal: [3]int{0, 1, 0}})
	before := r.Len()
	r.Add(Placement{Position: [3]int{1, 2, 3}, Normal: [3]int{1, 0, 0}})
	if r.Len() != before+1 {
		t.Fatalf("Len after Add = %d, want %d", r.Len(), before+1)
	}
	if !r.Remove([3]int{1, 2, 3}) {
		t.Fatalf("Remove did not find the added placement")
	}
	if r.Len() != before {
		t.Fatalf("Len after Remove = %d, want %d", r.Len(), before)
	}
}

func TestRemoveFirstOfDuplicates(t *testing.T) {
	pos := [3]int{4, 5, 6}
	first := Placement{Position: pos, Normal: [3]int{0, 1, 0}, Texture: "first"}
	second := Placement{Position: pos, Normal: [3]int{0, -1, 0}, Texture: "second"}
	r := NewRegistry(first, Placement{Position: [3]int{0, 0, 0}, Normal: [3]int{1, 0, 0}}, second)

	if !r.Remove(pos) {
		t.Fatalf("Remove did not find a placement")
	}
	if r.Len() != 2 {
		t.Fatalf("Len = %d, want 2", r.Len())
	}
	got, ok := r.Find(pos)
	if !ok || got != second {
		t.Fatalf("remaining placement %+v, want %+v", got, second)
	}
}

func TestChangeReplacesAndMovesToEnd(t *testing.T) {
	a := Placement{Position: [3]int{0, 0, 0}, Normal: [3]int{0, 1, 0}, Texture: "a"}
	b := Placement{Position: [3]int{1, 0, 0}, Normal: [3]int{0, 1, 0}, Texture: "b"}
	r := NewRegistry(a, b)

	changed := Placement{Position: a.Position, Normal: [3]int{0, 0, 1}, Texture: "c"}
	r.Change(changed)

	all := r.All()
	if len(all) != 2 {
		t.Fatalf("Len = %d, want 2", len(all))
	}
	if all[0] != b || all[1] != changed {
		t.Fatalf("order after Change = %+v, want [b changed]", all)
	}
	n := 0
	for _, p := range all {
		if p.Position == a.Position {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("%d placements at %v after Change, want 1", n, a.Position)
	}
}

func TestChangeOnAbsentPositionAdds(t *testing.T) {
	r := NewRegistry()
	p := Placement{Position: [3]int{7, 7, 7}, Normal: [3]int{-1, 0, 0}}
	r.Change(p)
	if got, ok := r.Find(p.Position); !ok || got != p {
		t.Fatalf("Find = %+v, %v", got, ok)
	}
}

func TestAllReturnsCopy(t *testing.T) {
	r := NewRegistry(Placement{Position: [3]int{1, 1, 1}, Normal: [3]int{0, 1, 0}})
	all := r.All()
	all[0].Texture = "mutated"
	if p, _ := r.Find([3]int{1, 1, 1}); p.Texture != "" {
		t.Fatalf("All exposed the registry's backing slice")
	}
}

func TestDirtyTracking(t *testing.T) {
	r := NewRegistry()
	if !r.Dirty() {
		t.Fatalf("new registry should need a first build")
	}
	r.MarkClean()
	r.Add(Placement{Normal: [3]int{0, 1, 0}})
	if !r.Dirty() {
		t.Fatalf("Add did not mark the registry dirty")
	}
	r.MarkClean()
	r.Reset()
	if !r.Dirty() || r.Len() != 0 {
		t.Fatalf("Reset: dirty=%v len=%d", r.Dirty(), r.Len())
	}
}
