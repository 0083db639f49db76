package midi

import (
	"fmt"
	"strings"
	"sync"

	"gitlab.com/gomidi/midi/v2"
	"gitlab.com/gomidi/midi/v2/drivers"
	"gitlab.com/gomidi/midi/v2/drivers/rtmididrv"
)

// Manager owns the MIDI driver and hands out ports and senders.
type Manager struct {
	mu  sync.Mutex
	drv *rtmididrv.Driver
}

// NewManager initializes the rtmidi backend.
func NewManager() (*Manager, error) {
	drv, err := rtmididrv.New()
	if err != nil {
		return nil, fmt.Errorf("rtmididrv: %w", err)
	}
	return &Manager{drv: drv}, nil
}

// Close shuts the driver down. Open ports become unusable.
func (m *Manager) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.drv.Close()
}

// ListInPorts returns the names of available input ports.
func (m *Manager) ListInPorts() ([]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ins, err := m.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("listing input ports: %w", err)
	}
	names := make([]string, 0, len(ins))
	for _, in := range ins {
		names = append(names, in.String())
	}
	return names, nil
}

// FindInPort returns the first input port whose name contains the
// given substring.
func (m *Manager) FindInPort(name string) (drivers.In, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	ins, err := m.drv.Ins()
	if err != nil {
		return nil, fmt.Errorf("listing input ports: %w", err)
	}
	for _, in := range ins {
		if strings.Contains(in.String(), name) {
			return in, nil
		}
	}
	return nil, fmt.Errorf("input port not found: %s", name)
}

// FindOutPort returns the first output port whose name contains the
// given substring.
func (m *Manager) FindOutPort(name string) (drivers.Out, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	outs, err := m.drv.Outs()
	if err != nil {
		return nil, fmt.Errorf("listing output ports: %w", err)
	}
	for _, out := range outs {
		if strings.Contains(out.String(), name) {
			return out, nil
		}
	}
	return nil, fmt.Errorf("output port not found: %s", name)
}

// OpenVirtualOut creates a software output port other applications
// can connect to.
func (m *Manager) OpenVirtualOut(name string) (drivers.Out, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out, err := m.drv.OpenVirtualOut(name)
	if err != nil {
		return nil, fmt.Errorf("opening virtual out %q: %w", name, err)
	}
	return out, nil
}

// Listen feeds every message from the port to fn until the returned
// stop function is called.
func (m *Manager) Listen(in drivers.In, fn func(msg midi.Message)) (func(), error) {
	stop, err := midi.ListenTo(in, func(msg midi.Message, _ int32) {
		fn(msg)
	})
	if err != nil {
		return nil, fmt.Errorf("listening on %s: %w", in.String(), err)
	}
	return stop, nil
}

// Sender returns a send function bound to the port.
func (m *Manager) Sender(out drivers.Out) (Sender, error) {
	send, err := midi.SendTo(out)
	if err != nil {
		return nil, fmt.Errorf("creating sender for %s: %w", out.String(), err)
	}
	return Sender(send), nil
}
