package pads

import "github.com/padpluck/padpluck/internal/fretboard"

// Layout is the orientation of strings on the grid.
type Layout string

const (
	// LayoutHoriz runs strings along rows, frets along columns. Row 0
	// is left free of strings so the first string starts one row up.
	LayoutHoriz Layout = "horiz"
	// LayoutVert runs strings along columns, frets counting down from
	// the top row.
	LayoutVert Layout = "vert"
)

// Viewport maps pad coordinates to fretboard coordinates under a
// layout plus string/fret offsets. It is a pure value; shifting the
// view produces a new Viewport.
type Viewport struct {
	NumStrings int
	Layout     Layout
	StrOffset  int
	FretOffset int
}

// StringPosFromPad resolves a pad to the string position under it,
// if a string runs there.
func (v Viewport) StringPosFromPad(pos Pos) (fretboard.StringPos, bool) {
	var sp fretboard.StringPos
	switch v.Layout {
	case LayoutVert:
		sp = fretboard.StringPos{
			Str:  pos.Col - 1 + v.StrOffset,
			Fret: (NumRows - 1) - pos.Row + v.FretOffset,
		}
	default:
		sp = fretboard.StringPos{
			Str:  pos.Row - 1 + v.StrOffset,
			Fret: pos.Col + v.FretOffset,
		}
	}
	if sp.Str < 0 || sp.Str >= v.NumStrings {
		return fretboard.StringPos{}, false
	}
	return sp, true
}

// PadFromStringPos is the inverse mapping, failing when the position
// scrolled off the visible grid.
func (v Viewport) PadFromStringPos(sp fretboard.StringPos) (Pos, bool) {
	var pos Pos
	switch v.Layout {
	case LayoutVert:
		pos = Pos{
			Row: (NumRows - 1) - (sp.Fret - v.FretOffset),
			Col: sp.Str - v.StrOffset + 1,
		}
	default:
		pos = Pos{
			Row: sp.Str - v.StrOffset + 1,
			Col: sp.Fret - v.FretOffset,
		}
	}
	if pos.Row < 0 || pos.Row >= NumRows || pos.Col < 0 || pos.Col >= NumCols {
		return Pos{}, false
	}
	return pos, true
}

// Bounds computes the window of string positions reachable from the
// grid, for precomputing the tuning table.
func (v Viewport) Bounds() *fretboard.Bounds {
	var b *fretboard.Bounds
	for _, pos := range AllPos() {
		sp, ok := v.StringPosFromPad(pos)
		if !ok {
			continue
		}
		if b == nil {
			b = &fretboard.Bounds{Low: sp, High: sp}
			continue
		}
		if sp.Str < b.Low.Str {
			b.Low.Str = sp.Str
		}
		if sp.Str > b.High.Str {
			b.High.Str = sp.Str
		}
		if sp.Fret < b.Low.Fret {
			b.Low.Fret = sp.Fret
		}
		if sp.Fret > b.High.Fret {
			b.High.Fret = sp.Fret
		}
	}
	return b
}

// ShiftStrings returns a view moved across the strings.
func (v Viewport) ShiftStrings(diff int) Viewport {
	v.StrOffset += diff
	return v
}

// ShiftFrets returns a view moved along the neck.
func (v Viewport) ShiftFrets(diff int) Viewport {
	v.FretOffset += diff
	return v
}
