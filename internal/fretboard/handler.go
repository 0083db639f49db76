package fretboard

import "sort"

// noteHandler turns a logical press/release into the note on/offs to
// emit, enforcing the per-mode voicing rules. One handler is selected
// per config swap, never per message.
type noteHandler interface {
	trigger(msg FretMessage) []FretMessage
}

func newNoteHandler(cfg Config) noteHandler {
	switch cfg.PlayMode {
	case PlayMono:
		return &monoHandler{}
	case PlayTap:
		return &chokeHandler{groups: map[int]*chokeGroup{}}
	default:
		return &polyHandler{active: map[StringPos]FretMessage{}}
	}
}

// polyHandler sounds every position independently. Invariants: one
// note-on per press, one note-off per release, and a re-press of a
// sounding position releases the old note before the new attack.
type polyHandler struct {
	active map[StringPos]FretMessage
}

func (h *polyHandler) trigger(msg FretMessage) []FretMessage {
	prev, sounding := h.active[msg.Pos]
	if msg.On {
		var out []FretMessage
		if sounding {
			out = append(out, prev.NoteOff())
		}
		h.active[msg.Pos] = msg
		return append(out, msg)
	}
	if !sounding {
		return nil
	}
	delete(h.active, msg.Pos)
	return []FretMessage{prev.NoteOff()}
}

// monoHandler allows a single sounding note: each new attack chokes
// the previous one, and a release only matters if it matches the
// note still sounding.
type monoHandler struct {
	active *FretMessage
}

func (h *monoHandler) trigger(msg FretMessage) []FretMessage {
	if msg.On {
		var out []FretMessage
		if h.active != nil {
			out = append(out, h.active.NoteOff())
		}
		held := msg
		h.active = &held
		return append(out, msg)
	}
	if h.active != nil && h.active.Pos == msg.Pos && h.active.Note == msg.Note {
		off := h.active.NoteOff()
		h.active = nil
		return []FretMessage{off}
	}
	return nil
}

// chokeGroup tracks the fretted positions on one string, ordered by
// pitch. The highest fretted note is the one that sounds.
type chokeGroup struct {
	order []uint8
	info  map[uint8]FretMessage
}

func (g *chokeGroup) max() (FretMessage, bool) {
	if len(g.order) == 0 {
		return FretMessage{}, false
	}
	return g.info[g.order[len(g.order)-1]], true
}

func (g *chokeGroup) apply(msg FretMessage) {
	i := sort.Search(len(g.order), func(i int) bool { return g.order[i] >= msg.Note })
	exists := i < len(g.order) && g.order[i] == msg.Note
	if msg.On {
		if !exists {
			g.order = append(g.order, 0)
			copy(g.order[i+1:], g.order[i:])
			g.order[i] = msg.Note
		}
		g.info[msg.Note] = msg
	} else {
		if exists {
			g.order = append(g.order[:i], g.order[i+1:]...)
		}
		delete(g.info, msg.Note)
	}
}

// chokeHandler plays each string like a real plucked string: fretting
// above a sounding note hammers on, releasing it pulls off back to
// the next fretted note below.
type chokeHandler struct {
	groups map[int]*chokeGroup
}

func (h *chokeHandler) trigger(msg FretMessage) []FretMessage {
	group := h.groups[msg.Pos.Str]
	if group == nil {
		group = &chokeGroup{info: map[uint8]FretMessage{}}
		h.groups[msg.Pos.Str] = group
	}
	prev, hadPrev := group.max()
	group.apply(msg)
	cur, hasCur := group.max()

	switch {
	case !hasCur && !hadPrev:
		return nil
	case !hasCur:
		// Last finger lifted: mute the string.
		return []FretMessage{prev.NoteOff()}
	case !hadPrev:
		return []FretMessage{cur}
	case prev.Note == cur.Note && prev.Channel == cur.Channel:
		// Movement below the sounding fret changes nothing audible.
		return nil
	default:
		// Hammer-on or pull-off: release the old pitch, then attack.
		return []FretMessage{prev.NoteOff(), cur}
	}
}
