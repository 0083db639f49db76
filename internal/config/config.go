package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"github.com/padpluck/padpluck/internal/fretboard"
	"github.com/padpluck/padpluck/internal/pads"
	"github.com/padpluck/padpluck/internal/scale"
)

// Default port names for the Push user port and the virtual output.
const (
	DefaultPushPort      = "Ableton Push User Port"
	DefaultProcessedPort = "padpluck"
)

// Perform is the complete musical interpretation of the grid at one
// moment. It is an immutable value: every change (re-tuning, view
// shift, mode switch) builds a new Perform and swaps it in whole, so
// no event can ever observe a half-applied configuration.
type Perform struct {
	InstrumentName string
	TuningName     string
	// Tuning holds open-string MIDI pitches, low string first.
	Tuning     []int
	FretStep   int
	BaseOctave int
	Layout     pads.Layout
	PlayMode   fretboard.PlayMode
	ChanMode   fretboard.ChannelMode
	ScaleName  string
	Root       scale.NoteName
	// MinVelocity is the floor applied to non-zero strike velocities.
	MinVelocity uint8
	StrOffset   int
	FretOffset  int
}

// Viewport derives the grid view for this configuration.
func (p Perform) Viewport() pads.Viewport {
	return pads.Viewport{
		NumStrings: len(p.Tuning),
		Layout:     p.Layout,
		StrOffset:  p.StrOffset,
		FretOffset: p.FretOffset,
	}
}

// Fretboard derives the fretboard config, bounded by the view.
func (p Perform) Fretboard() fretboard.Config {
	return fretboard.Config{
		Tuning:      p.Tuning,
		FretStep:    p.FretStep,
		BaseOctave:  p.BaseOctave,
		ChanMode:    p.ChanMode,
		PlayMode:    p.PlayMode,
		MinVelocity: p.MinVelocity,
		Bounds:      p.Viewport().Bounds(),
	}
}

// Scale resolves the configured scale and root.
func (p Perform) Scale() scale.Classifier {
	return scale.Lookup(p.ScaleName).ToClassifier(p.Root)
}

// DefaultPerform is a standard-tuned guitar in tap mode on one channel.
func DefaultPerform() Perform {
	return Perform{
		InstrumentName: "Guitar",
		TuningName:     "Standard",
		Tuning:         []int{40, 45, 50, 55, 59, 64},
		Layout:         pads.LayoutHoriz,
		PlayMode:       fretboard.PlayTap,
		ChanMode:       fretboard.ChannelSingle,
		ScaleName:      "Major",
		Root:           scale.C,
		MinVelocity:    10,
	}
}

// App is the persisted application configuration.
type App struct {
	PushPort      string `json:"push_port"`
	ProcessedPort string `json:"processed_port"`
	DeviceType    string `json:"device_type"`
	// PushDelayMs spaces writes to the controller so LED/LCD bursts
	// don't flood it. The virtual port is never delayed.
	PushDelayMs int    `json:"push_delay_ms"`
	ProfileID   string `json:"profile_id"`
	PlayMode    string `json:"play_mode"`
	ChanMode    string `json:"chan_mode"`
	ScaleName   string `json:"scale"`
	Root        string `json:"root"`
	MinVelocity uint8  `json:"min_velocity"`
	BaseOctave  int    `json:"base_octave"`
}

// DefaultApp returns the configuration used when no file exists yet.
func DefaultApp() *App {
	return &App{
		PushPort:      DefaultPushPort,
		ProcessedPort: DefaultProcessedPort,
		DeviceType:    "push",
		PushDelayMs:   1,
		ProfileID:     "guitar-standard",
		PlayMode:      string(fretboard.PlayTap),
		ChanMode:      string(fretboard.ChannelSingle),
		ScaleName:     "Major",
		Root:          "C",
		MinVelocity:   10,
	}
}

func configDir() (string, error) {
	configHome, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configHome, "padpluck"), nil
}

// Path returns the full path to the config file.
func Path() (string, error) {
	dir, err := configDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config.json"), nil
}

// Load reads the config from disk, returning defaults if not found.
func Load() (*App, error) {
	path, err := Path()
	if err != nil {
		return nil, err
	}
	return LoadFrom(path)
}

// LoadFrom reads a config file, filling unset fields with defaults.
func LoadFrom(path string) (*App, error) {
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return DefaultApp(), nil
	}
	if err != nil {
		return nil, err
	}
	app := DefaultApp()
	if err := json.Unmarshal(data, app); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	return app, nil
}

// Save writes the config to disk.
func (a *App) Save() error {
	path, err := Path()
	if err != nil {
		return err
	}
	return a.SaveTo(path)
}

// SaveTo writes the config to the given path.
func (a *App) SaveTo(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.MarshalIndent(a, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// Perform assembles the performance configuration from the app
// settings and the active instrument profile.
func (a *App) Perform(profiles []Profile) (Perform, error) {
	p := DefaultPerform()
	profile, err := FindProfile(profiles, a.ProfileID)
	if err != nil {
		return p, err
	}
	p.InstrumentName = profile.Instrument
	p.TuningName = profile.TuningName
	p.Tuning = append([]int(nil), profile.Tuning...)
	if profile.FretStep != 0 {
		p.FretStep = profile.FretStep
	}
	if profile.Layout != "" {
		p.Layout = profile.Layout
	}
	if a.PlayMode != "" {
		p.PlayMode = fretboard.PlayMode(a.PlayMode)
	}
	if a.ChanMode != "" {
		p.ChanMode = fretboard.ChannelMode(a.ChanMode)
	}
	if a.ScaleName != "" {
		p.ScaleName = a.ScaleName
	}
	if a.Root != "" {
		root, err := scale.ParseNoteName(a.Root)
		if err != nil {
			return p, err
		}
		p.Root = root
	}
	p.MinVelocity = a.MinVelocity
	p.BaseOctave = a.BaseOctave
	return p, nil
}
