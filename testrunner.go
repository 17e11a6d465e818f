package boardfx

import (
	"encoding/json"
	"fmt"
	"os"
)

// scriptStep represents a single action in an input script.
type scriptStep struct {
	Action string  `json:"action"`
	Label  string  `json:"label,omitempty"`
	X      float64 `json:"x,omitempty"`
	Y      float64 `json:"y,omitempty"`
	Col    *int    `json:"col,omitempty"`
	Row    *int    `json:"row,omitempty"`
	FromX  float64 `json:"fromX,omitempty"`
	FromY  float64 `json:"fromY,omitempty"`
	ToX    float64 `json:"toX,omitempty"`
	ToY    float64 `json:"toY,omitempty"`
	Frames int     `json:"frames,omitempty"`
}

type inputScript struct {
	Steps []scriptStep `json:"steps"`
}

// ScriptTarget is what a ScriptRunner drives: the pointer input it injects
// into and a way to capture labeled screenshots.
type ScriptTarget interface {
	Input() *PointerInput
	Screenshot(label string)
}

// ScriptRunner sequences injected pointer events, waits and screenshots
// across frames for automated visual checks of a running board.
//
// A script is JSON of the form
//
//	{"steps": [
//	  {"action": "click", "col": 2, "row": 1},
//	  {"action": "wait", "frames": 30},
//	  {"action": "screenshot", "label": "after-click"}
//	]}
//
// Clicks take either surface coordinates (x, y) or a board cell (col, row),
// which is resolved to the cell center on the runner's grid.
type ScriptRunner struct {
	grid      Grid
	steps     []scriptStep
	cursor    int
	waitCount int
	done      bool
}

// LoadScript parses a JSON input script. grid resolves cell clicks.
func LoadScript(data []byte, grid Grid) (*ScriptRunner, error) {
	var script inputScript
	if err := json.Unmarshal(data, &script); err != nil {
		return nil, fmt.Errorf("parse input script: %w", err)
	}
	if len(script.Steps) == 0 {
		return nil, fmt.Errorf("parse input script: no steps")
	}
	for i, st := range script.Steps {
		switch st.Action {
		case "click":
			if (st.Col == nil) != (st.Row == nil) {
				return nil, fmt.Errorf("parse input script: step %d: col and row must be given together", i)
			}
		case "drag", "wait", "screenshot":
		default:
			return nil, fmt.Errorf("parse input script: step %d: unknown action %q", i, st.Action)
		}
	}
	return &ScriptRunner{grid: grid, steps: script.Steps}, nil
}

// LoadScriptFile reads and parses an input script file.
func LoadScriptFile(path string, grid Grid) (*ScriptRunner, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read input script: %w", err)
	}
	return LoadScript(data, grid)
}

// Done reports whether all steps in the script have been executed.
func (r *ScriptRunner) Done() bool {
	return r.done
}

// Step advances the runner by one frame. Hosts call it once per update,
// before pointer input is processed.
func (r *ScriptRunner) Step(target ScriptTarget) {
	if r.done {
		return
	}
	in := target.Input()
	// Wait for pending injections to drain before advancing.
	if in.Pending() > 0 {
		return
	}
	if r.waitCount > 0 {
		r.waitCount--
		return
	}
	if r.cursor >= len(r.steps) {
		r.done = true
		return
	}

	st := r.steps[r.cursor]
	r.cursor++

	switch st.Action {
	case "screenshot":
		target.Screenshot(st.Label)
	case "click":
		x, y := st.X, st.Y
		if st.Col != nil {
			c := r.grid.CellCenter(GridPos{Col: *st.Col, Row: *st.Row})
			x, y = c.X, c.Y
		}
		in.InjectClick(x, y)
	case "drag":
		in.InjectDrag(st.FromX, st.FromY, st.ToX, st.ToY, st.Frames)
	case "wait":
		if st.Frames > 0 {
			r.waitCount = st.Frames - 1 // this frame counts as one
		}
	}

	if r.cursor >= len(r.steps) && r.waitCount == 0 && in.Pending() == 0 {
		r.done = true
	}
}
