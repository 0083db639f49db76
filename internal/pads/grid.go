package pads

import (
	"github.com/padpluck/padpluck/internal/fretboard"
	"github.com/padpluck/padpluck/internal/scale"
)

// NoteType classifies a pad's pitch against the configured scale.
type NoteType int

const (
	NoteOther NoteType = iota
	NoteMember
	NoteRoot
)

type cellKind int

const (
	cellMisc cellKind = iota
	cellNote
)

type cell struct {
	kind     cellKind
	noteType NoteType
	vis      fretboard.VisState
}

// ColorUpdate is one illumination change. A nil Color turns the LED off.
type ColorUpdate struct {
	Pos   Pos
	Color *Color
}

// Grid owns the logical illumination state of the 8x8 pad matrix: the
// scale-derived base color of each pad plus its live vis state. It
// never touches the transport; callers forward ColorUpdates to the
// device layer.
type Grid struct {
	scheme Scheme
	cells  map[Pos]*cell
}

// NewGrid builds a grid with every pad dark and unclassified.
func NewGrid(scheme Scheme) *Grid {
	cells := make(map[Pos]*cell, NumPads)
	for _, pos := range AllPos() {
		cells[pos] = &cell{kind: cellMisc}
	}
	return &Grid{scheme: scheme, cells: cells}
}

// Reconfigure reclassifies every pad for a new viewport, tuning, and
// scale, clears vis state, and returns the full repaint.
func (g *Grid) Reconfigure(
	view Viewport,
	classifier scale.Classifier,
	note func(fretboard.StringPos) (uint8, bool),
) []ColorUpdate {
	for _, pos := range AllPos() {
		c := g.cells[pos]
		c.vis = fretboard.VisOff
		sp, ok := view.StringPosFromPad(pos)
		if !ok {
			c.kind = cellMisc
			continue
		}
		n, ok := note(sp)
		if !ok {
			c.kind = cellMisc
			continue
		}
		c.kind = cellNote
		name, _ := scale.NameAndOctave(int(n))
		switch {
		case classifier.IsRoot(name):
			c.noteType = NoteRoot
		case classifier.IsMember(name):
			c.noteType = NoteMember
		default:
			c.noteType = NoteOther
		}
	}
	return g.Repaint()
}

// Repaint returns the current color of every pad.
func (g *Grid) Repaint() []ColorUpdate {
	out := make([]ColorUpdate, 0, NumPads)
	for _, pos := range AllPos() {
		out = append(out, ColorUpdate{Pos: pos, Color: g.color(pos)})
	}
	return out
}

// SetVis applies a vis change for one pad and returns its new color.
func (g *Grid) SetVis(pos Pos, vis fretboard.VisState) ColorUpdate {
	if c, ok := g.cells[pos]; ok {
		c.vis = vis
	}
	return ColorUpdate{Pos: pos, Color: g.color(pos)}
}

func (g *Grid) color(pos Pos) *Color {
	c, ok := g.cells[pos]
	if !ok {
		return nil
	}
	if c.kind == cellMisc {
		if c.vis.Active() {
			col := g.scheme.MiscPressed
			return &col
		}
		return nil
	}
	var col Color
	switch c.vis {
	case fretboard.VisPrimary:
		col = g.scheme.PrimaryNote
	case fretboard.VisDisabled:
		col = g.scheme.DisabledNote
	case fretboard.VisLinked:
		col = g.scheme.LinkedNote
	default:
		switch c.noteType {
		case NoteRoot:
			col = g.scheme.RootNote
		case NoteMember:
			col = g.scheme.MemberNote
		default:
			col = g.scheme.OtherNote
		}
	}
	return &col
}
