package engine

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	gomidi "gitlab.com/gomidi/midi/v2"

	"github.com/padpluck/padpluck/internal/config"
	"github.com/padpluck/padpluck/internal/fretboard"
	"github.com/padpluck/padpluck/internal/midi"
)

// recorder captures everything written through a Sender. Safe for use
// from the Run goroutine.
type recorder struct {
	mu   sync.Mutex
	msgs []gomidi.Message
	fail bool
}

func (r *recorder) send(msg gomidi.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail {
		return errors.New("port closed")
	}
	r.msgs = append(r.msgs, msg)
	return nil
}

type noteEvent struct {
	on       bool
	channel  uint8
	note     uint8
	velocity uint8
}

// notes decodes the captured note traffic, ignoring anything else.
func (r *recorder) notes() []noteEvent {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []noteEvent
	for _, msg := range r.msgs {
		var channel, key, velocity uint8
		switch {
		case msg.GetNoteOn(&channel, &key, &velocity):
			out = append(out, noteEvent{true, channel, key, velocity})
		case msg.GetNoteOff(&channel, &key, &velocity):
			out = append(out, noteEvent{false, channel, key, velocity})
		}
	}
	return out
}

func quietLog() *logrus.Entry {
	log := logrus.New()
	log.SetLevel(logrus.PanicLevel)
	return logrus.NewEntry(log)
}

func newTestEngine(t *testing.T, mutate func(*config.Perform)) (*Engine, *recorder, *recorder) {
	t.Helper()
	perform := config.DefaultPerform()
	if mutate != nil {
		mutate(&perform)
	}
	out := &recorder{}
	ctrl := &recorder{}
	e := New(Options{
		Device:  &midi.PushDevice{},
		Ctrl:    ctrl.send,
		Out:     out.send,
		Perform: perform,
		Log:     quietLog(),
	})
	if err := e.Start(); err != nil {
		t.Fatalf("Start: %v", err)
	}
	return e, out, ctrl
}

// padNote is the user-port note number of the pad at (string, fret) in
// the default horizontal view with no offsets.
func padNote(str, fret int) uint8 {
	return uint8(36 + (str+1)*8 + fret)
}

func press(t *testing.T, e *Engine, str, fret int, velocity uint8) {
	t.Helper()
	if err := e.HandleMessage(gomidi.NoteOn(0, padNote(str, fret), velocity)); err != nil {
		t.Fatalf("press (%d,%d): %v", str, fret, err)
	}
}

func release(t *testing.T, e *Engine, str, fret int) {
	t.Helper()
	if err := e.HandleMessage(gomidi.NoteOn(0, padNote(str, fret), 0)); err != nil {
		t.Fatalf("release (%d,%d): %v", str, fret, err)
	}
}

func checkNotes(t *testing.T, got, want []noteEvent) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("got %d note events %v, want %d %v", len(got), got, len(want), want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("event %d: got %+v, want %+v", i, got[i], want[i])
		}
	}
}

func TestPressEmitsOpenStringPitch(t *testing.T) {
	e, out, _ := newTestEngine(t, nil)
	press(t, e, 0, 0, 90)
	checkNotes(t, out.notes(), []noteEvent{{true, 0, 40, 90}})
}

func TestHigherFretChokesSameString(t *testing.T) {
	e, out, _ := newTestEngine(t, nil)
	press(t, e, 0, 0, 90)
	press(t, e, 0, 1, 80)
	checkNotes(t, out.notes(), []noteEvent{
		{true, 0, 40, 90},
		{false, 0, 40, 0},
		{true, 0, 41, 80},
	})
}

func TestReleaseEmitsNoteOff(t *testing.T) {
	e, out, _ := newTestEngine(t, nil)
	press(t, e, 2, 3, 100)
	release(t, e, 2, 3)
	checkNotes(t, out.notes(), []noteEvent{
		{true, 0, 53, 100},
		{false, 0, 53, 0},
	})
}

func TestRetriggerReleasesBeforeAttack(t *testing.T) {
	e, out, _ := newTestEngine(t, func(p *config.Perform) {
		p.PlayMode = fretboard.PlayPoly
	})
	press(t, e, 0, 0, 90)
	press(t, e, 0, 0, 70)
	checkNotes(t, out.notes(), []noteEvent{
		{true, 0, 40, 90},
		{false, 0, 40, 0},
		{true, 0, 40, 70},
	})
}

func TestPerStringChannels(t *testing.T) {
	e, out, _ := newTestEngine(t, func(p *config.Perform) {
		p.ChanMode = fretboard.ChannelPerString
	})
	press(t, e, 3, 0, 90)
	checkNotes(t, out.notes(), []noteEvent{{true, 3, 55, 90}})
}

func TestMalformedInputIsDropped(t *testing.T) {
	e, out, _ := newTestEngine(t, nil)
	junk := []gomidi.Message{
		gomidi.Pitchbend(0, 512),
		gomidi.ControlChange(0, 5, 1),
		gomidi.NoteOn(0, 20, 90),
		gomidi.NoteOn(0, 110, 90),
		gomidi.AfterTouch(0, 40),
	}
	for _, msg := range junk {
		if err := e.HandleMessage(msg); err != nil {
			t.Fatalf("HandleMessage(%s): %v", msg, err)
		}
	}
	if notes := out.notes(); len(notes) != 0 {
		t.Errorf("junk input produced %d note events: %v", len(notes), notes)
	}
}

func TestPadOutsideStringAreaIgnored(t *testing.T) {
	e, out, _ := newTestEngine(t, nil)
	// Bottom row sits below string zero in the horizontal layout.
	if err := e.HandleMessage(gomidi.NoteOn(0, 36, 90)); err != nil {
		t.Fatalf("HandleMessage: %v", err)
	}
	if notes := out.notes(); len(notes) != 0 {
		t.Errorf("non-string pad produced %d note events", len(notes))
	}
}

func TestShutdownFlushesSustainedNotes(t *testing.T) {
	e, out, _ := newTestEngine(t, nil)
	press(t, e, 0, 0, 90)
	press(t, e, 2, 1, 90)
	if err := e.Shutdown(); err != nil {
		t.Fatalf("Shutdown: %v", err)
	}
	checkNotes(t, out.notes(), []noteEvent{
		{true, 0, 40, 90},
		{true, 0, 51, 90},
		{false, 0, 40, 0},
		{false, 0, 51, 0},
	})
}

func TestMasterButtonResetsOnRelease(t *testing.T) {
	e, out, _ := newTestEngine(t, nil)
	press(t, e, 0, 0, 90)
	if err := e.HandleMessage(gomidi.ControlChange(0, midi.ButtonMaster, 127)); err != nil {
		t.Fatalf("button down: %v", err)
	}
	if got := out.notes(); len(got) != 1 {
		t.Fatalf("button down released notes early: %v", got)
	}
	if err := e.HandleMessage(gomidi.ControlChange(0, midi.ButtonMaster, 0)); err != nil {
		t.Fatalf("button up: %v", err)
	}
	checkNotes(t, out.notes(), []noteEvent{
		{true, 0, 40, 90},
		{false, 0, 40, 0},
	})
}

func TestFretShiftTransposesView(t *testing.T) {
	e, out, _ := newTestEngine(t, nil)
	if err := e.HandleMessage(gomidi.ControlChange(0, midi.ButtonRight, 127)); err != nil {
		t.Fatalf("shift: %v", err)
	}
	if got := e.Perform().FretOffset; got != 1 {
		t.Fatalf("FretOffset = %d, want 1", got)
	}
	press(t, e, 0, 0, 90)
	checkNotes(t, out.notes(), []noteEvent{{true, 0, 41, 90}})
}

func TestOctaveButtonShiftsTwelveFrets(t *testing.T) {
	e, out, _ := newTestEngine(t, nil)
	if err := e.HandleMessage(gomidi.ControlChange(0, midi.ButtonOctaveUp, 127)); err != nil {
		t.Fatalf("shift: %v", err)
	}
	press(t, e, 0, 0, 90)
	checkNotes(t, out.notes(), []noteEvent{{true, 0, 52, 90}})
}

func TestStringShiftMovesStringWindow(t *testing.T) {
	e, out, _ := newTestEngine(t, nil)
	if err := e.HandleMessage(gomidi.ControlChange(0, midi.ButtonUp, 127)); err != nil {
		t.Fatalf("shift: %v", err)
	}
	// The pad that showed string zero now shows string one.
	press(t, e, 0, 0, 90)
	checkNotes(t, out.notes(), []noteEvent{{true, 0, 45, 90}})
}

func TestApplyPerformReleasesUnderOldTuning(t *testing.T) {
	e, out, _ := newTestEngine(t, nil)
	press(t, e, 0, 0, 90)

	dropD := e.Perform()
	dropD.TuningName = "Drop D"
	dropD.Tuning = []int{38, 45, 50, 55, 59, 64}
	if err := e.ApplyPerform(dropD); err != nil {
		t.Fatalf("ApplyPerform: %v", err)
	}
	press(t, e, 0, 0, 90)
	checkNotes(t, out.notes(), []noteEvent{
		{true, 0, 40, 90},
		{false, 0, 40, 0},
		{true, 0, 38, 90},
	})
}

func TestTransportFailureIsFatal(t *testing.T) {
	e, out, _ := newTestEngine(t, nil)
	out.fail = true
	err := e.HandleMessage(gomidi.NoteOn(0, padNote(0, 0), 90))
	if !errors.Is(err, ErrTransport) {
		t.Fatalf("got %v, want ErrTransport", err)
	}
}

func TestRunReleasesNotesOnCancel(t *testing.T) {
	e, out, _ := newTestEngine(t, nil)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- e.Run(ctx) }()

	e.Feed(gomidi.NoteOn(0, padNote(0, 0), 90))
	deadline := time.Now().Add(2 * time.Second)
	for len(out.notes()) == 0 {
		if time.Now().After(deadline) {
			t.Fatal("note-on never emitted")
		}
		time.Sleep(time.Millisecond)
	}
	cancel()
	select {
	case err := <-done:
		if err != nil {
			t.Fatalf("Run: %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after cancel")
	}
	checkNotes(t, out.notes(), []noteEvent{
		{true, 0, 40, 90},
		{false, 0, 40, 0},
	})
}
