package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/padpluck/padpluck/internal/fretboard"
	"github.com/padpluck/padpluck/internal/scale"
)

func TestLoadMissingFileGivesDefaults(t *testing.T) {
	app, err := LoadFrom(filepath.Join(t.TempDir(), "nope.json"))
	if err != nil {
		t.Fatal(err)
	}
	if app.PushPort != DefaultPushPort || app.ProfileID != "guitar-standard" {
		t.Errorf("unexpected defaults: %+v", app)
	}
}

func TestSaveLoadRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sub", "config.json")
	app := DefaultApp()
	app.ChanMode = string(fretboard.ChannelPerString)
	app.Root = "E"
	if err := app.SaveTo(path); err != nil {
		t.Fatal(err)
	}
	loaded, err := LoadFrom(path)
	if err != nil {
		t.Fatal(err)
	}
	if loaded.ChanMode != string(fretboard.ChannelPerString) || loaded.Root != "E" {
		t.Errorf("round trip lost fields: %+v", loaded)
	}
}

func TestPerformFromProfile(t *testing.T) {
	app := DefaultApp()
	app.ProfileID = "bass-standard"
	app.ScaleName = "MinorPent"
	app.Root = "E"
	perform, err := app.Perform(BuiltinProfiles())
	if err != nil {
		t.Fatal(err)
	}
	if perform.InstrumentName != "Bass" || len(perform.Tuning) != 4 {
		t.Errorf("profile not applied: %+v", perform)
	}
	if perform.Root != scale.E {
		t.Errorf("root = %v, want E", perform.Root)
	}
	if perform.Viewport().NumStrings != 4 {
		t.Errorf("viewport strings = %d", perform.Viewport().NumStrings)
	}
	fb := perform.Fretboard()
	if fb.Bounds == nil || fb.Bounds.High.Str != 3 {
		t.Errorf("fretboard bounds = %+v", fb.Bounds)
	}
}

func TestPerformUnknownProfile(t *testing.T) {
	app := DefaultApp()
	app.ProfileID = "no-such"
	if _, err := app.Perform(BuiltinProfiles()); err == nil {
		t.Error("unknown profile should fail")
	}
}

func TestLoadProfilesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := `
- id: mandolin
  instrument: Mandolin
  tuning_name: Standard
  tuning: [55, 62, 69, 76]
- instrument: Custom
  tuning_name: Weird
  tuning: [30, 40, 50]
  fret_step: 2
`
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	profiles, err := LoadProfiles(path)
	if err != nil {
		t.Fatal(err)
	}
	builtins := len(BuiltinProfiles())
	if len(profiles) != builtins+2 {
		t.Fatalf("got %d profiles, want %d", len(profiles), builtins+2)
	}
	mandolin, err := FindProfile(profiles, "mandolin")
	if err != nil || mandolin.Instrument != "Mandolin" {
		t.Errorf("mandolin profile: %+v, %v", mandolin, err)
	}
	// The profile without an id gets one generated.
	custom := profiles[len(profiles)-1]
	if custom.ID == "" || custom.FretStep != 2 {
		t.Errorf("custom profile: %+v", custom)
	}
}

func TestLoadProfilesRejectsBadTuning(t *testing.T) {
	path := filepath.Join(t.TempDir(), "profiles.yaml")
	content := "- id: bad\n  instrument: X\n  tuning: [200]\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadProfiles(path); err == nil {
		t.Error("out-of-range tuning should fail validation")
	}
}
