package scale

import "fmt"

// NoteName is a pitch class, C through B.
type NoteName int

const (
	C NoteName = iota
	Cs
	D
	Ds
	E
	F
	Fs
	G
	Gs
	A
	As
	B
)

const numNotes = 12

var noteNames = [numNotes]string{"C", "C#", "D", "D#", "E", "F", "F#", "G", "G#", "A", "A#", "B"}

func (n NoteName) String() string {
	if n < 0 || n >= numNotes {
		return fmt.Sprintf("NoteName(%d)", int(n))
	}
	return noteNames[n]
}

// ParseNoteName resolves a name like "C#" or "A" to its pitch class.
func ParseNoteName(s string) (NoteName, error) {
	for i, name := range noteNames {
		if name == s {
			return NoteName(i), nil
		}
	}
	return 0, fmt.Errorf("unknown note name: %q", s)
}

// Add returns the pitch class a number of semitones above n.
func (n NoteName) Add(semitones int) NoteName {
	v := (int(n) + semitones) % numNotes
	if v < 0 {
		v += numNotes
	}
	return NoteName(v)
}

// NameAndOctave splits a MIDI note number into pitch class and octave.
// MIDI note 0 is C-2, so middle C (60) is C3 in this scheme.
func NameAndOctave(note int) (NoteName, int) {
	return NoteName(note % numNotes), note/numNotes - 2
}

// Scale is a named set of semitone intervals summing to an octave.
type Scale struct {
	Name      string
	Intervals []int
}

// Classifier answers membership questions for a scale rooted at a
// specific pitch class.
type Classifier struct {
	root    NoteName
	members map[NoteName]bool
}

// ToClassifier roots the scale and precomputes its member set.
func (s Scale) ToClassifier(root NoteName) Classifier {
	members := make(map[NoteName]bool, len(s.Intervals))
	cur := root
	for _, step := range s.Intervals {
		members[cur] = true
		cur = cur.Add(step)
	}
	return Classifier{root: root, members: members}
}

func (c Classifier) IsRoot(name NoteName) bool   { return name == c.root }
func (c Classifier) IsMember(name NoteName) bool { return c.members[name] }

var majorIntervals = []int{2, 2, 1, 2, 2, 2, 1}

// rotate shifts the major interval pattern to produce a church mode.
func rotate(intervals []int, by int) []int {
	out := make([]int, len(intervals))
	for i := range intervals {
		out[i] = intervals[(i+by)%len(intervals)]
	}
	return out
}

// Scales holds every selectable scale, keyed by name.
var Scales = map[string]Scale{
	"Major":      {Name: "Major", Intervals: majorIntervals},
	"Minor":      {Name: "Minor", Intervals: rotate(majorIntervals, 5)},
	"Dorian":     {Name: "Dorian", Intervals: rotate(majorIntervals, 1)},
	"Phrygian":   {Name: "Phrygian", Intervals: rotate(majorIntervals, 2)},
	"Lydian":     {Name: "Lydian", Intervals: rotate(majorIntervals, 3)},
	"Mixolydian": {Name: "Mixolydian", Intervals: rotate(majorIntervals, 4)},
	"Locrian":    {Name: "Locrian", Intervals: rotate(majorIntervals, 6)},
	"MajorPent":  {Name: "MajorPent", Intervals: []int{2, 2, 3, 2, 3}},
	"MinorPent":  {Name: "MinorPent", Intervals: []int{3, 2, 2, 3, 2}},
	"Chromatic":  {Name: "Chromatic", Intervals: []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1}},
}

// Lookup fetches a scale by name, falling back to Major.
func Lookup(name string) Scale {
	if s, ok := Scales[name]; ok {
		return s
	}
	return Scales["Major"]
}
