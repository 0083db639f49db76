package engine

import (
	"context"
	"errors"
	"fmt"

	"github.com/sirupsen/logrus"
	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/padpluck/padpluck/internal/config"
	"github.com/padpluck/padpluck/internal/fretboard"
	"github.com/padpluck/padpluck/internal/midi"
	"github.com/padpluck/padpluck/internal/pads"
)

// ErrTransport marks a failed port write. There is nothing to do
// without a transport, so the loop treats it as fatal.
var ErrTransport = errors.New("transport failure")

// Options wires an Engine to its collaborators.
type Options struct {
	Device midi.Device
	// Ctrl writes to the controller's own port (LEDs, LCD).
	Ctrl midi.Sender
	// Out writes to the virtual output port.
	Out     midi.Sender
	Perform config.Perform
	Log     *logrus.Entry
}

// Engine is the translation core: it owns the per-pad note state and
// runs the decode → state update → encode → write cycle. All state is
// touched only from the goroutine running Run (or, in tests, from
// direct HandleMessage calls), so there is no locking.
type Engine struct {
	log     *logrus.Entry
	dev     midi.Device
	ctrl    midi.Sender
	out     midi.Sender
	perform config.Perform
	view    pads.Viewport
	fb      *fretboard.Fretboard
	grid    *pads.Grid
	events  chan gomidi.Message
}

// New builds an engine. Call Start to paint the controller before
// feeding events.
func New(opts Options) *Engine {
	log := opts.Log
	if log == nil {
		log = logrus.NewEntry(logrus.StandardLogger())
	}
	e := &Engine{
		log:     log,
		dev:     opts.Device,
		ctrl:    opts.Ctrl,
		out:     opts.Out,
		perform: opts.Perform,
		view:    opts.Perform.Viewport(),
		grid:    pads.NewGrid(pads.DefaultScheme()),
		events:  make(chan gomidi.Message, 128),
	}
	e.fb = fretboard.New(opts.Perform.Fretboard(), log)
	return e
}

// Perform returns the active performance configuration.
func (e *Engine) Perform() config.Perform { return e.perform }

// Start paints the initial grid colors and LCD state.
func (e *Engine) Start() error {
	if err := e.repaint(); err != nil {
		return err
	}
	return e.renderLCD()
}

// Feed queues a raw input message for the loop. Safe to call from the
// transport callback goroutine.
func (e *Engine) Feed(msg gomidi.Message) {
	select {
	case e.events <- msg:
	default:
		e.log.Warn("input queue full, dropping message")
	}
}

// Run processes queued messages until the context is cancelled or a
// transport write fails. On the way out it releases every sounding
// note so nothing downstream is left stuck.
func (e *Engine) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return e.Shutdown()
		case msg := <-e.events:
			if err := e.HandleMessage(msg); err != nil {
				e.flushNotes()
				return err
			}
		}
	}
}

// HandleMessage runs one full translation cycle for a raw message.
func (e *Engine) HandleMessage(msg gomidi.Message) error {
	ev, ok := e.dev.Decode(msg)
	if !ok {
		e.log.WithField("msg", msg.String()).Debug("unrecognized message dropped")
		return nil
	}
	switch ev := ev.(type) {
	case midi.PadPress:
		return e.handlePad(ev.Pos, ev.Velocity, true)
	case midi.PadRelease:
		return e.handlePad(ev.Pos, 0, false)
	case midi.Control:
		return e.handleControl(ev)
	default:
		return nil
	}
}

func (e *Engine) handlePad(pos pads.Pos, velocity uint8, on bool) error {
	sp, ok := e.view.StringPosFromPad(pos)
	if !ok {
		e.log.WithFields(logrus.Fields{"row": pos.Row, "col": pos.Col}).
			Debug("pad outside string area ignored")
		return nil
	}
	return e.applyEffects(e.fb.Trigger(sp, velocity, on))
}

func (e *Engine) handleControl(ev midi.Control) error {
	pressed := ev.Value > 0
	released := ev.Value == 0
	switch {
	case ev.Controller == midi.ButtonMaster && released:
		return e.Reset()
	case ev.Controller == midi.ButtonUndo && pressed:
		return e.Reset()
	case ev.Controller == midi.ButtonLeft && pressed:
		return e.shiftFrets(-1)
	case ev.Controller == midi.ButtonRight && pressed:
		return e.shiftFrets(1)
	case ev.Controller == midi.ButtonOctaveDown && pressed:
		return e.shiftFrets(-12)
	case ev.Controller == midi.ButtonOctaveUp && pressed:
		return e.shiftFrets(12)
	case ev.Controller == midi.ButtonUp && pressed:
		return e.shiftStrings(1)
	case ev.Controller == midi.ButtonDown && pressed:
		return e.shiftStrings(-1)
	}
	e.log.WithFields(logrus.Fields{"cc": ev.Controller, "value": ev.Value}).
		Debug("control ignored")
	return nil
}

func (e *Engine) shiftFrets(diff int) error {
	p := e.perform
	p.FretOffset += diff
	return e.ApplyPerform(p)
}

func (e *Engine) shiftStrings(diff int) error {
	p := e.perform
	p.StrOffset += diff
	return e.ApplyPerform(p)
}

// ApplyPerform swaps the performance configuration. Sounding notes
// are released under the old tuning before any new lookup can happen,
// then the grid and LCD are repainted for the new view.
func (e *Engine) ApplyPerform(p config.Perform) error {
	fx := e.fb.ApplyConfig(p.Fretboard())
	if err := e.emitNotes(fx.Msgs); err != nil {
		return err
	}
	e.perform = p
	e.view = p.Viewport()
	if err := e.repaint(); err != nil {
		return err
	}
	return e.renderLCD()
}

// Reset releases all notes and repaints the controller.
func (e *Engine) Reset() error {
	e.log.Info("resetting")
	if err := e.applyEffects(e.fb.Flush()); err != nil {
		return err
	}
	if err := e.repaint(); err != nil {
		return err
	}
	return e.renderLCD()
}

// Shutdown releases all notes and darkens the controller. The note
// flush is the part that matters; cosmetic failures are only logged.
func (e *Engine) Shutdown() error {
	e.log.Info("shutting down")
	err := e.flushNotes()
	if cerr := e.dev.ClearPads(e.ctrl); cerr != nil {
		e.log.WithError(cerr).Warn("clearing pads on shutdown")
	}
	if cerr := e.dev.ClearLCD(e.ctrl); cerr != nil {
		e.log.WithError(cerr).Warn("clearing lcd on shutdown")
	}
	return err
}

func (e *Engine) flushNotes() error {
	return e.emitNotes(e.fb.Flush().Msgs)
}

func (e *Engine) applyEffects(fx fretboard.NoteEffects) error {
	if err := e.emitNotes(fx.Msgs); err != nil {
		return err
	}
	for sp, vis := range fx.Vis {
		pos, ok := e.view.PadFromStringPos(sp)
		if !ok {
			continue
		}
		update := e.grid.SetVis(pos, vis)
		if err := e.dev.SetPadColor(e.ctrl, update.Pos, update.Color); err != nil {
			return fmt.Errorf("%w: pad color: %v", ErrTransport, err)
		}
	}
	return nil
}

// emitNotes writes note events to the virtual port in the exact order
// the state machine produced them.
func (e *Engine) emitNotes(msgs []fretboard.FretMessage) error {
	for _, msg := range msgs {
		ev := midi.OutputEvent{Kind: midi.OutputNoteOn, Channel: msg.Channel, Data1: msg.Note, Data2: msg.Velocity}
		if !msg.On {
			ev.Kind = midi.OutputNoteOff
		}
		if err := e.out(midi.EncodeOutput(ev)); err != nil {
			return fmt.Errorf("%w: note write: %v", ErrTransport, err)
		}
		e.log.WithFields(logrus.Fields{
			"on":       msg.On,
			"note":     msg.Note,
			"velocity": msg.Velocity,
			"channel":  msg.Channel,
		}).Debug("emitted")
	}
	return nil
}

func (e *Engine) repaint() error {
	updates := e.grid.Reconfigure(e.view, e.perform.Scale(), e.fb.Note)
	for _, update := range updates {
		if err := e.dev.SetPadColor(e.ctrl, update.Pos, update.Color); err != nil {
			return fmt.Errorf("%w: pad color: %v", ErrTransport, err)
		}
	}
	return nil
}
