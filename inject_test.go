package boardfx

import "testing"

func TestInjectClick(t *testing.T) {
	in := NewPointerInput(testLocator)
	var clicked []GridPos
	in.OnCellClick(func(ev CellEvent) { clicked = append(clicked, ev.Cell) })

	in.InjectClick(50, 70)
	if in.Pending() != 2 {
		t.Fatalf("expected 2 queued events, got %d", in.Pending())
	}

	// Frame 1: press. The real sample is ignored.
	in.Update(0, 0, false)
	if in.Pending() != 1 {
		t.Fatalf("expected 1 remaining event after frame 1, got %d", in.Pending())
	}
	if len(clicked) != 0 {
		t.Error("click should not fire on press frame")
	}

	// Frame 2: release fires the click.
	in.Update(0, 0, false)
	if in.Pending() != 0 {
		t.Fatalf("expected 0 remaining events after frame 2, got %d", in.Pending())
	}
	if len(clicked) != 1 || clicked[0] != (GridPos{1, 2}) {
		t.Errorf("clicked = %v, want [(1,2)]", clicked)
	}
}

func TestInjectDrag(t *testing.T) {
	in := NewPointerInput(testLocator)
	var clicks, hovers int
	in.OnCellClick(func(CellEvent) { clicks++ })
	in.OnCellHover(func(CellEvent) { hovers++ })

	in.InjectDrag(5, 5, 100, 5, 5)
	if in.Pending() != 5 {
		t.Fatalf("expected 5 queued events, got %d", in.Pending())
	}
	for in.Pending() > 0 {
		in.Update(0, 0, false)
	}
	if clicks != 0 {
		t.Error("drag produced a click")
	}
	// Cells 0 through 3 along the path.
	if hovers != 4 {
		t.Errorf("hovers = %d, want 4", hovers)
	}
}

func TestInjectDragMinimumFrames(t *testing.T) {
	in := NewPointerInput(testLocator)
	in.InjectDrag(0, 0, 10, 10, 0)
	if in.Pending() != 2 {
		t.Errorf("expected press and release only, got %d", in.Pending())
	}
}

func TestInjectMoveThenRelease(t *testing.T) {
	in := NewPointerInput(testLocator)
	var clicks int
	in.OnCellClick(func(CellEvent) { clicks++ })

	in.InjectPress(2, 2)
	in.InjectMove(3, 3)
	in.InjectRelease(3, 3)
	for in.Pending() > 0 {
		in.Update(0, 0, false)
	}
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}

func TestRealInputResumesAfterQueue(t *testing.T) {
	in := NewPointerInput(testLocator)
	var clicks int
	in.OnCellClick(func(CellEvent) { clicks++ })

	in.InjectPress(2, 2)
	in.Update(0, 0, false)
	// The queue is empty, so this real release completes the press.
	in.Update(2, 2, false)
	if clicks != 1 {
		t.Errorf("clicks = %d, want 1", clicks)
	}
}
