package config

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"

	"github.com/padpluck/padpluck/internal/pads"
)

// Profile is a named instrument/tuning preset. Built-in profiles have
// stable readable IDs; user-created ones get generated IDs.
type Profile struct {
	ID         string      `yaml:"id"`
	Instrument string      `yaml:"instrument"`
	TuningName string      `yaml:"tuning_name"`
	Tuning     []int       `yaml:"tuning"`
	FretStep   int         `yaml:"fret_step,omitempty"`
	Layout     pads.Layout `yaml:"layout,omitempty"`
}

// NewProfile creates a user profile with a generated ID.
func NewProfile(instrument, tuningName string, tuning []int) Profile {
	return Profile{
		ID:         uuid.New().String(),
		Instrument: instrument,
		TuningName: tuningName,
		Tuning:     tuning,
	}
}

// Validate rejects profiles the engine cannot play.
func (p Profile) Validate() error {
	if p.ID == "" {
		return fmt.Errorf("profile missing id")
	}
	if len(p.Tuning) == 0 {
		return fmt.Errorf("profile %s: empty tuning", p.ID)
	}
	for _, pitch := range p.Tuning {
		if pitch < 0 || pitch > 127 {
			return fmt.Errorf("profile %s: open-string pitch %d out of MIDI range", p.ID, pitch)
		}
	}
	return nil
}

// BuiltinProfiles are the presets available without any profile file.
func BuiltinProfiles() []Profile {
	return []Profile{
		{ID: "guitar-standard", Instrument: "Guitar", TuningName: "Standard", Tuning: []int{40, 45, 50, 55, 59, 64}},
		{ID: "guitar-drop-d", Instrument: "Guitar", TuningName: "Drop D", Tuning: []int{38, 45, 50, 55, 59, 64}},
		{ID: "guitar-dadgad", Instrument: "Guitar", TuningName: "DADGAD", Tuning: []int{38, 45, 50, 55, 57, 62}},
		{ID: "bass-standard", Instrument: "Bass", TuningName: "Standard", Tuning: []int{28, 33, 38, 43}},
		{ID: "ukulele-standard", Instrument: "Ukulele", TuningName: "Standard", Tuning: []int{67, 60, 64, 69}},
		{ID: "violin-standard", Instrument: "Violin", TuningName: "Standard", Tuning: []int{55, 62, 69, 76}},
	}
}

// LoadProfiles reads user profiles from a YAML file and appends them
// to the built-in set. A missing file just yields the built-ins.
func LoadProfiles(path string) ([]Profile, error) {
	profiles := BuiltinProfiles()
	if path == "" {
		return profiles, nil
	}
	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return profiles, nil
	}
	if err != nil {
		return nil, err
	}
	var user []Profile
	if err := yaml.Unmarshal(data, &user); err != nil {
		return nil, fmt.Errorf("parsing profiles %s: %w", path, err)
	}
	for i := range user {
		if user[i].ID == "" {
			user[i].ID = uuid.New().String()
		}
		if err := user[i].Validate(); err != nil {
			return nil, err
		}
	}
	return append(profiles, user...), nil
}

// SaveProfiles writes user profiles as YAML.
func SaveProfiles(path string, profiles []Profile) error {
	data, err := yaml.Marshal(profiles)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FindProfile resolves a profile by ID.
func FindProfile(profiles []Profile, id string) (Profile, error) {
	for _, p := range profiles {
		if p.ID == id {
			return p, nil
		}
	}
	return Profile{}, fmt.Errorf("profile not found: %s", id)
}
