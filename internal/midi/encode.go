package midi

import "gitlab.com/gomidi/midi/v2"

// OutputKind tags a logical output event.
type OutputKind int

const (
	OutputNoteOn OutputKind = iota
	OutputNoteOff
	OutputControlChange
)

// OutputEvent is one logical event bound for the virtual port.
type OutputEvent struct {
	Kind    OutputKind
	Channel uint8
	// Data1 is the note number or controller number.
	Data1 uint8
	// Data2 is the velocity or controller value.
	Data2 uint8
}

// EncodeOutput converts a logical event to its wire message. Values
// are masked to seven bits so an invalid byte can never reach the
// port.
func EncodeOutput(ev OutputEvent) midi.Message {
	channel := ev.Channel & 0x0F
	data1 := ev.Data1 & 0x7F
	data2 := ev.Data2 & 0x7F
	switch ev.Kind {
	case OutputNoteOff:
		return midi.NoteOff(channel, data1)
	case OutputControlChange:
		return midi.ControlChange(channel, data1, data2)
	default:
		return midi.NoteOn(channel, data1, data2)
	}
}
