package midi

import (
	"fmt"

	"gitlab.com/gomidi/midi/v2"

	"github.com/padpluck/padpluck/internal/pads"
)

// Ableton Push (mk1) user-port protocol constants.
const (
	// Button controller numbers used by the engine.
	ButtonTapTempo   uint8 = 3
	ButtonMaster     uint8 = 28
	ButtonStop       uint8 = 29
	ButtonLeft       uint8 = 44
	ButtonRight      uint8 = 45
	ButtonUp         uint8 = 46
	ButtonDown       uint8 = 47
	ButtonSelect     uint8 = 48
	ButtonShift      uint8 = 49
	ButtonNote       uint8 = 50
	ButtonSession    uint8 = 51
	ButtonOctaveDown uint8 = 54
	ButtonOctaveUp   uint8 = 55
	ButtonAccent     uint8 = 57
	ButtonScales     uint8 = 58
	ButtonUser       uint8 = 59
	ButtonMute       uint8 = 60
	ButtonSolo       uint8 = 61
	ButtonPlay       uint8 = 85
	ButtonRec        uint8 = 86
	ButtonNew        uint8 = 87
	ButtonDuplicate  uint8 = 88
	ButtonAutomation uint8 = 89
	ButtonDevice     uint8 = 110
	ButtonBrowse     uint8 = 111
	ButtonTrack      uint8 = 112
	ButtonClip       uint8 = 113
	ButtonVolume     uint8 = 114
	ButtonPanSend    uint8 = 115
	ButtonQuantize   uint8 = 116
	ButtonDouble     uint8 = 117
	ButtonDelete     uint8 = 118
	ButtonUndo       uint8 = 119
	ButtonMetronome  uint8 = 9

	// Knob encoder CCs: two left of the display, eight above it, one right.
	knobLeftLow  uint8 = 14
	knobLeftHigh uint8 = 15
	knobRowLow   uint8 = 71
	knobRowHigh  uint8 = 79

	// Time division buttons under the left knobs.
	timeDivLow  uint8 = 36
	timeDivHigh uint8 = 43

	// Channel-strip and grid-select button rows around the pads.
	chanSelLow  uint8 = 20
	chanSelHigh uint8 = 27
	gridSelLow  uint8 = 102
	gridSelHigh uint8 = 109

	// Display geometry.
	LCDRows    = 4
	LCDLineLen = 68
)

var pushSysexPrefix = []byte{0x47, 0x7F, 0x15}

var pushButtons = map[uint8]bool{
	ButtonTapTempo: true, ButtonMetronome: true, ButtonMaster: true,
	ButtonStop: true, ButtonLeft: true, ButtonRight: true, ButtonUp: true,
	ButtonDown: true, ButtonSelect: true, ButtonShift: true, ButtonNote: true,
	ButtonSession: true, ButtonOctaveDown: true, ButtonOctaveUp: true,
	ButtonAccent: true, ButtonScales: true, ButtonUser: true, ButtonMute: true,
	ButtonSolo: true, ButtonPlay: true, ButtonRec: true, ButtonNew: true,
	ButtonDuplicate: true, ButtonAutomation: true, ButtonDevice: true,
	ButtonBrowse: true, ButtonTrack: true, ButtonClip: true,
	ButtonVolume: true, ButtonPanSend: true, ButtonQuantize: true,
	ButtonDouble: true, ButtonDelete: true, ButtonUndo: true,
}

// knownController reports whether a CC number belongs to a physical
// control on the Push user port.
func knownController(cc uint8) bool {
	switch {
	case pushButtons[cc]:
		return true
	case cc >= knobLeftLow && cc <= knobLeftHigh:
		return true
	case cc >= knobRowLow && cc <= knobRowHigh:
		return true
	case cc >= timeDivLow && cc <= timeDivHigh:
		return true
	case cc >= chanSelLow && cc <= chanSelHigh:
		return true
	case cc >= gridSelLow && cc <= gridSelHigh:
		return true
	}
	return false
}

// PushDevice implements Device for the Ableton Push user port.
type PushDevice struct{}

func (d *PushDevice) Decode(msg midi.Message) (Event, bool) {
	var channel, key, velocity uint8

	switch {
	case msg.GetNoteOn(&channel, &key, &velocity):
		pos, ok := pads.PosFromNote(key)
		if !ok {
			return nil, false
		}
		if velocity == 0 {
			return PadRelease{Pos: pos}, true
		}
		return PadPress{Pos: pos, Velocity: velocity}, true

	case msg.GetNoteOff(&channel, &key, &velocity):
		pos, ok := pads.PosFromNote(key)
		if !ok {
			return nil, false
		}
		return PadRelease{Pos: pos}, true

	case msg.GetControlChange(&channel, &key, &velocity):
		if !knownController(key) {
			return nil, false
		}
		return Control{Controller: key, Value: velocity}, true
	}

	return nil, false
}

func frameSysex(raw []byte) midi.Message {
	data := make([]byte, 0, len(pushSysexPrefix)+len(raw))
	data = append(data, pushSysexPrefix...)
	data = append(data, raw...)
	return midi.SysEx(data)
}

func (d *PushDevice) SetPadColor(send Sender, pos pads.Pos, color *pads.Color) error {
	if color == nil {
		// LED off: velocity-zero note to the pad's note number.
		return send(midi.NoteOn(0, pos.Note(), 0))
	}
	// RGB pad sysex: each component split into high/low nibbles.
	raw := []byte{
		4, 0, 8, byte(pos.Index()), 0,
		color.R >> 4, color.R & 0x0F,
		color.G >> 4, color.G & 0x0F,
		color.B >> 4, color.B & 0x0F,
	}
	return send(frameSysex(raw))
}

func (d *PushDevice) ClearPads(send Sender) error {
	for _, pos := range pads.AllPos() {
		if err := d.SetPadColor(send, pos, nil); err != nil {
			return fmt.Errorf("clearing pad %d,%d: %w", pos.Row, pos.Col, err)
		}
	}
	return nil
}

func (d *PushDevice) WriteLCD(send Sender, row, offset int, text string) error {
	if row < 0 || row >= LCDRows {
		return fmt.Errorf("lcd row out of range: %d", row)
	}
	if offset < 0 || offset+len(text) > LCDLineLen {
		return fmt.Errorf("lcd text overflows line: offset %d, %d chars", offset, len(text))
	}
	raw := make([]byte, 0, 4+len(text))
	raw = append(raw, byte(27-row), 0, byte(len(text)+1), byte(offset))
	for _, c := range []byte(text) {
		if c < 0x20 || c > 0x7E {
			c = ' '
		}
		raw = append(raw, c)
	}
	return send(frameSysex(raw))
}

func (d *PushDevice) ClearLCD(send Sender) error {
	blank := make([]byte, LCDLineLen)
	for i := range blank {
		blank[i] = ' '
	}
	for row := 0; row < LCDRows; row++ {
		if err := d.WriteLCD(send, row, 0, string(blank)); err != nil {
			return err
		}
	}
	return nil
}

func (d *PushDevice) SetButton(send Sender, controller, value uint8) error {
	return send(midi.ControlChange(0, controller, value))
}
