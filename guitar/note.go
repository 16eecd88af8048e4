package guitar

import (
	"fmt"
	"strconv"
	"strings"
)

// Note numbers follow the C=48 scheme, which lines up with midi key
// numbers (48 is C3, the fifth string third fret in standard tuning).
var keynotes = map[string]int{
	"C":  48,
	"C#": 49,
	"D":  50,
	"D#": 51,
	"E":  52,
	"F":  53,
	"F#": 54,
	"G":  55,
	"G#": 56,
	"A":  45,
	"A#": 46,
	"B":  47,
}

// ParseNote turns a note name into its number. Uppercase names sit in
// the base octave, lowercase ones an octave up. A digit scales the
// shift: "c2" is two octaves above "C", "E1" one octave below "E".
// A trailing # raises a semitone. "e" is the high E string of a
// standard guitar, "E1" the low one.
func ParseNote(name string) (int, error) {
	if num, ok := keynotes[name]; ok {
		return num, nil
	}

	s := name
	sharp := 0
	if strings.HasSuffix(s, "#") {
		sharp = 1
		s = s[:len(s)-1]
	}
	if s == "" {
		return 0, fmt.Errorf("bad note name %q", name)
	}

	letter := s[:1]
	octaves := 1
	if len(s) > 1 {
		n, err := strconv.Atoi(s[1:])
		if err != nil || n < 1 {
			return 0, fmt.Errorf("bad note name %q", name)
		}
		octaves = n
	}

	base, ok := keynotes[strings.ToUpper(letter)]
	if !ok {
		return 0, fmt.Errorf("bad note name %q", name)
	}

	switch {
	case letter >= "a" && letter <= "g":
		return base + 12*octaves + sharp, nil
	case letter >= "A" && letter <= "G":
		if len(s) == 1 {
			return base + sharp, nil
		}
		return base - 12*octaves + sharp, nil
	}
	return 0, fmt.Errorf("bad note name %q", name)
}

// NoteName is the inverse of ParseNote.
func NoteName(num int) string {
	octave := (num - 45) / 12
	if num-45 < 0 && (num-45)%12 != 0 {
		octave--
	}
	rem := num - 12*octave
	for name, val := range keynotes {
		if val != rem {
			continue
		}
		switch {
		case octave == 0:
			return name
		case octave > 0:
			return strings.ToLower(name[:1]) + strconv.Itoa(octave) + name[1:]
		default:
			return name[:1] + strconv.Itoa(-octave) + name[1:]
		}
	}
	return "c"
}

var namedTunings = map[string][]string{
	"standard":      {"e", "b", "G", "D", "A", "E1"},
	"drop-d":        {"e", "b", "G", "D", "A", "D1"},
	"standard-bass": {"G1", "D1", "A1", "E2"},
}

// ExpandTuning resolves a named tuning to its note list; explicit
// note lists pass through.
func ExpandTuning(tuning []string) []string {
	if len(tuning) == 1 {
		if notes, ok := namedTunings[tuning[0]]; ok {
			return notes
		}
	}
	return tuning
}
