package fretboard

import "sort"

type chanNote struct {
	channel uint8
	note    uint8
}

// noteTracker is the bookkeeping behind the handlers: which notes are
// sounding on which channel, and how every touched position should be
// lit. It owns the authoritative sounding-note set used by Flush.
type noteTracker struct {
	mapper   ChannelMapper
	sounding map[chanNote]FretMessage
	visMap   map[StringPos]VisState
}

func newNoteTracker(mapper ChannelMapper) *noteTracker {
	return &noteTracker{
		mapper:   mapper,
		sounding: map[chanNote]FretMessage{},
		visMap:   map[StringPos]VisState{},
	}
}

func (t *noteTracker) vis(sp StringPos) VisState {
	return t.visMap[sp]
}

// record folds handler output into the sounding set and computes the
// illumination changes for the struck position and its equivalents.
func (t *noteTracker) record(msgs []FretMessage) NoteEffects {
	fx := NoteEffects{Vis: map[StringPos]VisState{}, Msgs: msgs}
	for _, msg := range msgs {
		if msg.On {
			t.visMap[msg.Pos] = VisPrimary
		} else {
			t.visMap[msg.Pos] = VisOff
		}
		fx.Vis[msg.Pos] = t.visMap[msg.Pos]
		for _, equiv := range msg.Equivs {
			if equiv == msg.Pos {
				continue
			}
			channel, ok := t.mapper.Channel(equiv)
			if !ok {
				continue
			}
			if t.visMap[equiv].Primary() {
				continue
			}
			var vs VisState
			switch {
			case !msg.On:
				vs = VisOff
			case channel == msg.Channel:
				vs = VisDisabled
			default:
				vs = VisLinked
			}
			t.visMap[equiv] = vs
			fx.Vis[equiv] = vs
		}
		key := chanNote{channel: msg.Channel, note: msg.Note}
		if msg.On {
			t.sounding[key] = msg
		} else {
			delete(t.sounding, key)
		}
	}
	return fx
}

// flush releases everything: note-offs for all sounding notes in
// deterministic channel/note order, and VisOff for every lit position.
func (t *noteTracker) flush() NoteEffects {
	fx := NoteEffects{Vis: map[StringPos]VisState{}}
	for sp, vs := range t.visMap {
		if vs != VisOff {
			fx.Vis[sp] = VisOff
		}
	}
	keys := make([]chanNote, 0, len(t.sounding))
	for key := range t.sounding {
		keys = append(keys, key)
	}
	sort.Slice(keys, func(i, j int) bool {
		if keys[i].channel != keys[j].channel {
			return keys[i].channel < keys[j].channel
		}
		return keys[i].note < keys[j].note
	})
	for _, key := range keys {
		fx.Msgs = append(fx.Msgs, t.sounding[key].NoteOff())
	}
	t.sounding = map[chanNote]FretMessage{}
	t.visMap = map[StringPos]VisState{}
	return fx
}
