package engine

import (
	"fmt"

	"github.com/padpluck/padpluck/internal/midi"
)

// renderLCD shows the active configuration on the controller display.
func (e *Engine) renderLCD() error {
	p := e.perform
	lines := []string{
		fmt.Sprintf("%s / %s", p.InstrumentName, p.TuningName),
		fmt.Sprintf("Mode: %s   Chan: %s", p.PlayMode, p.ChanMode),
		fmt.Sprintf("Scale: %s %s", p.Root, p.ScaleName),
		fmt.Sprintf("Str %+d   Fret %+d", p.StrOffset, p.FretOffset),
	}
	for row, line := range lines {
		if len(line) > midi.LCDLineLen {
			line = line[:midi.LCDLineLen]
		}
		for len(line) < midi.LCDLineLen {
			line += " "
		}
		if err := e.dev.WriteLCD(e.ctrl, row, 0, line); err != nil {
			return fmt.Errorf("%w: lcd write: %v", ErrTransport, err)
		}
	}
	return nil
}
