package fretboard

import (
	"github.com/sirupsen/logrus"
)

// NoteGroup is a pitch plus every in-bounds position that produces it.
type NoteGroup struct {
	Note   uint8
	Equivs []StringPos
}

// Tuner maps string positions to pitches for one fixed tuning. It is
// immutable; a tuning change builds a new Tuner so lookups can never
// observe a half-applied table.
type Tuner struct {
	notes  map[StringPos]uint8
	equivs map[uint8][]StringPos
}

// NewTuner precomputes the pitch table for every position inside the
// config bounds. Pitches falling outside 0..127 are clamped to the
// nearest valid value and logged once at build time.
func NewTuner(cfg Config, log *logrus.Entry) *Tuner {
	t := &Tuner{
		notes:  map[StringPos]uint8{},
		equivs: map[uint8][]StringPos{},
	}
	if cfg.Bounds == nil {
		return t
	}
	step := cfg.fretStep()
	cfg.Bounds.Each(func(sp StringPos) {
		if sp.Str < 0 || sp.Str >= len(cfg.Tuning) {
			return
		}
		raw := cfg.Tuning[sp.Str] + sp.Fret*step + 12*cfg.BaseOctave
		note := raw
		if note < 0 {
			note = 0
		} else if note > 127 {
			note = 127
		}
		if note != raw && log != nil {
			log.WithFields(logrus.Fields{
				"str":     sp.Str,
				"fret":    sp.Fret,
				"raw":     raw,
				"clamped": note,
			}).Warn("pitch out of range, clamped")
		}
		t.notes[sp] = uint8(note)
	})
	for sp, note := range t.notes {
		t.equivs[note] = append(t.equivs[note], sp)
	}
	for _, group := range t.equivs {
		sortPositions(group)
	}
	return t
}

func sortPositions(ps []StringPos) {
	for i := 1; i < len(ps); i++ {
		for j := i; j > 0 && less(ps[j], ps[j-1]); j-- {
			ps[j], ps[j-1] = ps[j-1], ps[j]
		}
	}
}

func less(a, b StringPos) bool {
	if a.Str != b.Str {
		return a.Str < b.Str
	}
	return a.Fret < b.Fret
}

// Note returns the pitch at sp, if sp is inside the playable window.
func (t *Tuner) Note(sp StringPos) (uint8, bool) {
	n, ok := t.notes[sp]
	return n, ok
}

// NoteGroup returns the pitch at sp together with its equivalents.
func (t *Tuner) NoteGroup(sp StringPos) (NoteGroup, bool) {
	n, ok := t.notes[sp]
	if !ok {
		return NoteGroup{}, false
	}
	return NoteGroup{Note: n, Equivs: t.equivs[n]}, true
}
