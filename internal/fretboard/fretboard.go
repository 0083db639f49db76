package fretboard

import (
	"github.com/sirupsen/logrus"
)

// StringPos is a logical fretboard coordinate. Negative frets are
// meaningful: they sit below the nut after a fret shift.
type StringPos struct {
	Str  int
	Fret int
}

// Bounds is the inclusive window of string positions reachable from
// the pad grid under the current viewport.
type Bounds struct {
	Low  StringPos
	High StringPos
}

// Contains reports whether sp falls inside the window.
func (b Bounds) Contains(sp StringPos) bool {
	return sp.Str >= b.Low.Str && sp.Str <= b.High.Str &&
		sp.Fret >= b.Low.Fret && sp.Fret <= b.High.Fret
}

// Each visits every position in the window, low string and fret first.
func (b Bounds) Each(fn func(StringPos)) {
	for s := b.Low.Str; s <= b.High.Str; s++ {
		for f := b.Low.Fret; f <= b.High.Fret; f++ {
			fn(StringPos{Str: s, Fret: f})
		}
	}
}

// PlayMode selects the note handler.
type PlayMode string

const (
	// PlayPoly tracks each position independently. A re-press of a
	// sounding position releases it before the new attack.
	PlayPoly PlayMode = "poly"
	// PlayMono allows one sounding note total.
	PlayMono PlayMode = "mono"
	// PlayTap chokes per string: the highest fretted position wins,
	// like hammer-ons and pull-offs on a real string.
	PlayTap PlayMode = "tap"
)

// ChannelMode selects the output channel assignment rule.
type ChannelMode string

const (
	ChannelSingle    ChannelMode = "single"
	ChannelPerString ChannelMode = "per-string"
)

const (
	baseChannel = 0
	maxChannel  = 15
)

// Config fixes the musical interpretation of the grid. It is
// immutable once handed to New; re-tuning builds a new Fretboard
// state via ApplyConfig.
type Config struct {
	// Tuning holds the open-string MIDI pitch per string, low to high.
	Tuning []int
	// FretStep is semitones per fret. Zero means one.
	FretStep int
	// BaseOctave shifts every string by whole octaves.
	BaseOctave int
	ChanMode   ChannelMode
	PlayMode   PlayMode
	// MinVelocity is the floor applied to non-zero input velocities.
	MinVelocity uint8
	Bounds      *Bounds
}

func (c Config) fretStep() int {
	if c.FretStep == 0 {
		return 1
	}
	return c.FretStep
}

// FretMessage is one logical note event tied to its fretboard position.
type FretMessage struct {
	Pos StringPos
	// Equivs lists every in-bounds position producing the same pitch,
	// including Pos itself.
	Equivs   []StringPos
	Channel  uint8
	Note     uint8
	Velocity uint8
	On       bool
}

// NoteOff derives the matching release for a sounding message.
func (m FretMessage) NoteOff() FretMessage {
	m.On = false
	m.Velocity = 0
	return m
}

// VisState describes how a position should light up.
type VisState int

const (
	VisOff VisState = iota
	// VisPrimary marks the position that was actually struck.
	VisPrimary
	// VisDisabled marks an equivalent position whose pitch is already
	// sounding on the same channel; pressing it would double the note.
	VisDisabled
	// VisLinked marks an equivalent sounding on another channel.
	VisLinked
)

func (v VisState) Active() bool  { return v != VisOff }
func (v VisState) Primary() bool { return v == VisPrimary }
func (v VisState) Enabled() bool { return v != VisDisabled }

// NoteEffects is the result of one trigger or config swap: note
// messages to emit in order, plus illumination changes.
type NoteEffects struct {
	Vis  map[StringPos]VisState
	Msgs []FretMessage
}

func emptyEffects() NoteEffects {
	return NoteEffects{Vis: map[StringPos]VisState{}}
}

// ChannelMapper assigns an output channel to a string position.
type ChannelMapper interface {
	Channel(sp StringPos) (uint8, bool)
}

type singleChannelMapper struct{ channel uint8 }

func (m singleChannelMapper) Channel(StringPos) (uint8, bool) { return m.channel, true }

type perStringMapper struct {
	base uint8
	max  uint8
}

func (m perStringMapper) Channel(sp StringPos) (uint8, bool) {
	ch := sp.Str + int(m.base)
	if ch < 0 || ch > int(m.max) {
		return 0, false
	}
	return uint8(ch), true
}

func newChannelMapper(cfg Config) ChannelMapper {
	if cfg.ChanMode == ChannelPerString {
		return perStringMapper{base: baseChannel, max: maxChannel}
	}
	return singleChannelMapper{channel: baseChannel}
}

// Fretboard owns the note state derived from pad triggers. All methods
// are called from the single engine goroutine.
type Fretboard struct {
	cfg     Config
	tuner   *Tuner
	mapper  ChannelMapper
	handler noteHandler
	tracker *noteTracker
	log     *logrus.Entry
}

// New builds a fretboard for the given config.
func New(cfg Config, log *logrus.Entry) *Fretboard {
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	f := &Fretboard{log: log}
	f.install(cfg)
	return f
}

func (f *Fretboard) install(cfg Config) {
	f.cfg = cfg
	f.tuner = NewTuner(cfg, f.log)
	f.mapper = newChannelMapper(cfg)
	f.handler = newNoteHandler(cfg)
	f.tracker = newNoteTracker(f.mapper)
}

// Config returns the active config.
func (f *Fretboard) Config() Config { return f.cfg }

// Note resolves a position to its pitch under the active tuning.
func (f *Fretboard) Note(sp StringPos) (uint8, bool) { return f.tuner.Note(sp) }

// Vis reports the current illumination state of a position.
func (f *Fretboard) Vis(sp StringPos) VisState { return f.tracker.vis(sp) }

func (f *Fretboard) clampVelocity(velocity uint8) uint8 {
	if velocity == 0 {
		return 0
	}
	if velocity < f.cfg.MinVelocity {
		return f.cfg.MinVelocity
	}
	return velocity
}

// Trigger handles a press (on=true) or release at a position and
// returns the note and illumination effects. Sounding notes always
// keep the pitch computed when they were struck: the handler stores
// the original message and derives releases from it, so a tuning swap
// mid-note cannot retune the pending note-off.
func (f *Fretboard) Trigger(sp StringPos, velocity uint8, on bool) NoteEffects {
	if !f.tracker.vis(sp).Enabled() {
		return emptyEffects()
	}
	group, ok := f.tuner.NoteGroup(sp)
	if !ok {
		return emptyEffects()
	}
	channel, ok := f.mapper.Channel(sp)
	if !ok {
		return emptyEffects()
	}
	msg := FretMessage{
		Pos:      sp,
		Equivs:   group.Equivs,
		Channel:  channel,
		Note:     group.Note,
		Velocity: f.clampVelocity(velocity),
		On:       on,
	}
	if !on {
		msg.Velocity = 0
	}
	out := f.handler.trigger(msg)
	return f.tracker.record(out)
}

// Flush releases every sounding note and darkens every lit position.
// Used on reset and before the process exits so no synth downstream
// is left with a stuck note.
func (f *Fretboard) Flush() NoteEffects {
	return f.tracker.flush()
}

// ApplyConfig atomically swaps the musical interpretation. Sounding
// notes are released under the old tuning first; the swap is only
// observable by later triggers.
func (f *Fretboard) ApplyConfig(cfg Config) NoteEffects {
	fx := f.tracker.flush()
	f.install(cfg)
	return fx
}
