package midi

import (
	"gitlab.com/gomidi/midi/v2"

	"github.com/padpluck/padpluck/internal/pads"
)

// Event is a typed input event decoded from the controller's user
// port. Messages that decode to nothing are dropped by the caller.
type Event interface {
	isEvent()
}

// PadPress is a pad strike with its input velocity.
type PadPress struct {
	Pos      pads.Pos
	Velocity uint8
}

// PadRelease is a pad lift. Velocity-zero note-ons decode here too.
type PadRelease struct {
	Pos pads.Pos
}

// Control is a button or knob control-change in the known ranges.
type Control struct {
	Controller uint8
	Value      uint8
}

func (PadPress) isEvent()   {}
func (PadRelease) isEvent() {}
func (Control) isEvent()    {}

// Sender writes one message to a port.
type Sender func(msg midi.Message) error

// Device is the capability set of a supported controller: decode raw
// input, encode illumination and display writes. One implementation
// is selected at startup, never per message.
type Device interface {
	// Decode classifies a raw user-port message. ok=false means the
	// message is not recognized and must be dropped.
	Decode(msg midi.Message) (ev Event, ok bool)

	// SetPadColor lights a pad, or darkens it when color is nil.
	SetPadColor(send Sender, pos pads.Pos, color *pads.Color) error

	// ClearPads darkens the whole grid.
	ClearPads(send Sender) error

	// WriteLCD writes text at a character offset of a display row.
	WriteLCD(send Sender, row, offset int, text string) error

	// ClearLCD blanks every display row.
	ClearLCD(send Sender) error

	// SetButton sets a button LED by controller number.
	SetButton(send Sender, controller, value uint8) error
}
