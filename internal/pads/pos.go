package pads

// Push user-mode grid: 8x8 pads mapped to notes 36..99, row-major
// from the bottom-left corner.
const (
	NumRows = 8
	NumCols = 8
	NumPads = NumRows * NumCols
	LowNote = 36
)

// Pos is a physical pad coordinate. (0,0) is the bottom-left pad
// (lowest input note), (7,7) the top-right.
type Pos struct {
	Row int
	Col int
}

// Index is the row-major ordinal of the pad.
func (p Pos) Index() int { return p.Row*NumCols + p.Col }

// Note is the input note number the Push sends for this pad.
func (p Pos) Note() uint8 { return uint8(LowNote + p.Index()) }

// PosFromNote maps an input note number back to a pad, if it is one.
func PosFromNote(note uint8) (Pos, bool) {
	if note < LowNote || note >= LowNote+NumPads {
		return Pos{}, false
	}
	index := int(note) - LowNote
	return Pos{Row: index / NumCols, Col: index % NumCols}, true
}

// AllPos lists every pad from lowest to highest note.
func AllPos() []Pos {
	out := make([]Pos, 0, NumPads)
	for row := 0; row < NumRows; row++ {
		for col := 0; col < NumCols; col++ {
			out = append(out, Pos{Row: row, Col: col})
		}
	}
	return out
}
