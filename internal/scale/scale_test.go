package scale

import "testing"

func TestNameAndOctave(t *testing.T) {
	tests := []struct {
		note   int
		name   NoteName
		octave int
	}{
		{0, C, -2},
		{24, C, 0},
		{60, C, 3},
		{127, G, 8},
	}
	for _, tt := range tests {
		name, octave := NameAndOctave(tt.note)
		if name != tt.name || octave != tt.octave {
			t.Errorf("NameAndOctave(%d) = %v, %d; want %v, %d", tt.note, name, octave, tt.name, tt.octave)
		}
	}
}

func TestClassifier(t *testing.T) {
	tests := []struct {
		scale    string
		root     NoteName
		name     NoteName
		isRoot   bool
		isMember bool
	}{
		{"Major", C, C, true, true},
		{"Major", C, A, false, true},
		{"Major", C, As, false, false},
		{"Chromatic", C, C, true, true},
		{"Chromatic", C, A, false, true},
		{"Chromatic", C, As, false, true},
		{"Minor", A, C, false, true},
		{"Minor", A, A, true, true},
		{"Minor", A, As, false, false},
		{"MinorPent", E, G, false, true},
		{"MinorPent", E, Fs, false, false},
	}
	for _, tt := range tests {
		c := Lookup(tt.scale).ToClassifier(tt.root)
		if got := c.IsRoot(tt.name); got != tt.isRoot {
			t.Errorf("%s/%v IsRoot(%v) = %v; want %v", tt.scale, tt.root, tt.name, got, tt.isRoot)
		}
		if got := c.IsMember(tt.name); got != tt.isMember {
			t.Errorf("%s/%v IsMember(%v) = %v; want %v", tt.scale, tt.root, tt.name, got, tt.isMember)
		}
	}
}

func TestModesShareMajorNotes(t *testing.T) {
	// Every mode of C major contains exactly the white keys.
	modes := []struct {
		scale string
		root  NoteName
	}{
		{"Dorian", D},
		{"Phrygian", E},
		{"Lydian", F},
		{"Mixolydian", G},
		{"Minor", A},
		{"Locrian", B},
	}
	white := []NoteName{C, D, E, F, G, A, B}
	for _, m := range modes {
		c := Lookup(m.scale).ToClassifier(m.root)
		for _, n := range white {
			if !c.IsMember(n) {
				t.Errorf("%s rooted at %v should contain %v", m.scale, m.root, n)
			}
		}
	}
}

func TestParseNoteName(t *testing.T) {
	if n, err := ParseNoteName("F#"); err != nil || n != Fs {
		t.Errorf("ParseNoteName(F#) = %v, %v", n, err)
	}
	if _, err := ParseNoteName("H"); err == nil {
		t.Error("ParseNoteName(H) should fail")
	}
}
