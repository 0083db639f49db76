package midi

import (
	"time"

	"gitlab.com/gomidi/midi/v2"
)

// RateLimited wraps a sender so consecutive writes are spaced by at
// least the given interval. LED and LCD repaints send bursts of sysex
// that can overwhelm the controller; the virtual output port must
// never be wrapped, since note timing matters there.
func RateLimited(send Sender, interval time.Duration) Sender {
	if interval <= 0 {
		return send
	}
	var lastSent time.Time
	return func(msg midi.Message) error {
		now := time.Now()
		if wait := interval - now.Sub(lastSent); wait > 0 {
			time.Sleep(wait)
			lastSent = lastSent.Add(interval)
		} else {
			lastSent = now
		}
		return send(msg)
	}
}
